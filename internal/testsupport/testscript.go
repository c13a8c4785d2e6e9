package testsupport

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/amonks/tasks/task"
	"github.com/rogpeppe/go-internal/testscript"
)

var (
	buildOnce sync.Once
	tasksPath string
	buildErr  error
)

// BuildTasks builds the tasks binary once and returns its path.
func BuildTasks(t testing.TB) string {
	t.Helper()

	buildOnce.Do(func() {
		moduleRoot, err := findModuleRoot()
		if err != nil {
			buildErr = err
			return
		}

		binDir, err := os.MkdirTemp("", "tasks-bin-")
		if err != nil {
			buildErr = err
			return
		}

		tasksPath = filepath.Join(binDir, "tasks")
		cmd := exec.Command("go", "build", "-o", tasksPath, "./cmd/tasks")
		cmd.Dir = moduleRoot
		output, err := cmd.CombinedOutput()
		if err != nil {
			buildErr = fmt.Errorf("build tasks: %w: %s", err, strings.TrimSpace(string(output)))
		}
	})

	if buildErr != nil {
		t.Fatalf("%v", buildErr)
	}

	return tasksPath
}

// SetupScriptEnv configures common environment variables for testscript:
// TASKS points at the binary, HOME is isolated, and DAV_URL is the address
// of a fresh in-memory WebDAV server.
func SetupScriptEnv(t testing.TB, env *testscript.Env) error {
	t.Helper()

	env.Setenv("TASKS", BuildTasks(t))

	homeDir := filepath.Join(env.WorkDir, "home")
	if err := EnsureHomeDirs(homeDir); err != nil {
		return err
	}
	env.Setenv("HOME", homeDir)
	env.Setenv("EDITOR", "false")
	env.Setenv("NO_COLOR", "1")

	server := StartWebDAVServer()
	env.Defer(server.Close)
	env.Setenv("DAV_URL", server.URL)
	return nil
}

// CmdEnvSet stores the trimmed contents of a file in an env var.
func CmdEnvSet(ts *testscript.TestScript, neg bool, args []string) {
	if neg {
		ts.Fatalf("envset does not support negation")
	}
	if len(args) != 2 {
		ts.Fatalf("usage: envset VAR FILE")
	}

	value := strings.TrimSpace(ts.ReadFile(args[1]))
	ts.Setenv(args[0], value)
}

// CmdTaskID finds a task by title in `tasks list --json` output and stores
// its ID in an env var.
func CmdTaskID(ts *testscript.TestScript, neg bool, args []string) {
	if neg {
		ts.Fatalf("taskid does not support negation")
	}
	if len(args) != 3 {
		ts.Fatalf("usage: taskid FILE TITLE VAR")
	}

	var lists []task.List
	data := ts.ReadFile(args[0])
	if err := json.Unmarshal([]byte(data), &lists); err != nil {
		ts.Fatalf("parse list output: %v", err)
	}

	title := args[1]
	for _, list := range lists {
		for _, item := range list.Tasks {
			if item.Title == title {
				ts.Setenv(args[2], item.ID.String())
				return
			}
		}
	}

	ts.Fatalf("task with title %q not found", title)
}

func findModuleRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working directory: %w", err)
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("could not find module root (go.mod)")
		}
		dir = parent
	}
}
