package state

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/amonks/tasks/internal/atomicfile"
	"github.com/gofrs/flock"
)

// Store manages the state file with locking.
type Store struct {
	dir string
}

// NewStore creates a new state store using the given directory.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the directory holding the state file.
func (s *Store) Dir() string {
	return s.dir
}

func (s *Store) statePath() string {
	return filepath.Join(s.dir, "state.json")
}

func (s *Store) lockPath() string {
	return filepath.Join(s.dir, "state.lock")
}

// Load reads the state from disk. Returns an empty state if the file doesn't exist.
func (s *Store) Load() (*State, error) {
	data, err := os.ReadFile(s.statePath())
	if os.IsNotExist(err) {
		return &State{Workspaces: make(map[string]WorkspaceInfo)}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read state file: %w", err)
	}

	var st State
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("unmarshal state: %w", err)
	}
	if st.Workspaces == nil {
		st.Workspaces = make(map[string]WorkspaceInfo)
	}

	return &st, nil
}

// Save writes the state to disk. Identical content is left untouched.
func (s *Store) Save(st *State) error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}

	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}
	data = append(data, '\n')

	if existing, err := os.ReadFile(s.statePath()); err == nil {
		if bytes.Equal(existing, data) {
			return nil
		}
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("read state file: %w", err)
	}

	if err := atomicfile.Write(s.statePath(), data, 0644); err != nil {
		return fmt.Errorf("write state file: %w", err)
	}
	return nil
}

// Update atomically reads, modifies, and writes the state with file locking.
// Nothing is written when fn returns an error.
func (s *Store) Update(fn func(st *State) error) error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}

	lock := flock.New(s.lockPath())
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	defer func() { _ = lock.Unlock() }()

	st, err := s.Load()
	if err != nil {
		return err
	}

	if err := fn(st); err != nil {
		return err
	}

	return s.Save(st)
}

var (
	invalidNameChars = regexp.MustCompile(`[^a-z0-9-]`)
	repeatedHyphens  = regexp.MustCompile(`-+`)
)

// SanitizeWorkspaceName derives a workspace name from the last element of a
// directory path.
func SanitizeWorkspaceName(path string) string {
	name := strings.ToLower(filepath.Base(filepath.Clean(path)))
	name = strings.ReplaceAll(name, " ", "-")
	name = strings.ReplaceAll(name, "_", "-")
	name = invalidNameChars.ReplaceAllString(name, "")
	name = repeatedHyphens.ReplaceAllString(name, "-")
	name = strings.Trim(name, "-")
	if name == "" {
		return "tasks"
	}
	return name
}
