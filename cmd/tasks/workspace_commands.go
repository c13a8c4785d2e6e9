package main

import (
	"fmt"
	"time"

	"github.com/amonks/tasks/internal/paths"
	statestore "github.com/amonks/tasks/internal/state"
	"github.com/amonks/tasks/internal/ui"
	"github.com/amonks/tasks/repository"
	"github.com/amonks/tasks/workspace"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init <path>",
	Short: "Create a workspace and register it",
	Long: `Create a workspace directory with a default list and register it.

The workspace is named after the directory unless --name is given. The
first registered workspace becomes current.`,
	Args: cobra.ExactArgs(1),
	RunE: runInit,
}

var initName string

var workspaceCmd = &cobra.Command{
	Use:     "workspace",
	Short:   "Manage registered workspaces",
	Aliases: []string{"ws"},
}

var workspaceAddCmd = &cobra.Command{
	Use:   "add <name> <path>",
	Short: "Register a workspace, creating it if needed",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return initAndRegister(args[0], args[1])
	},
}

var workspaceListCmd = &cobra.Command{
	Use:     "list",
	Short:   "List registered workspaces",
	Aliases: []string{"ls"},
	Args:    cobra.NoArgs,
	RunE:    runWorkspaceList,
}

var workspaceListJSON bool

var workspaceSwitchCmd = &cobra.Command{
	Use:     "switch <name>",
	Short:   "Make a workspace current",
	Aliases: []string{"use"},
	Args:    cobra.ExactArgs(1),
	RunE:    runWorkspaceSwitch,
}

var workspaceRemoveCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Unregister a workspace (its files stay on disk)",
	Args:  cobra.ExactArgs(1),
	RunE:  runWorkspaceRemove,
}

var workspaceRetargetCmd = &cobra.Command{
	Use:   "retarget <name> <path>",
	Short: "Point a workspace at a different directory without moving files",
	Args:  cobra.ExactArgs(2),
	RunE:  runWorkspaceRetarget,
}

var workspaceMigrateCmd = &cobra.Command{
	Use:   "migrate <name> <path>",
	Short: "Move a workspace's files to a new directory",
	Args:  cobra.ExactArgs(2),
	RunE:  runWorkspaceMigrate,
}

var workspaceMigrateYes bool

func init() {
	rootCmd.AddCommand(initCmd, workspaceCmd)
	workspaceCmd.AddCommand(workspaceAddCmd, workspaceListCmd, workspaceSwitchCmd, workspaceRemoveCmd,
		workspaceRetargetCmd, workspaceMigrateCmd)

	initCmd.Flags().StringVar(&initName, "name", "", "Workspace name (default: directory name)")
	workspaceListCmd.Flags().BoolVar(&workspaceListJSON, "json", false, "Output as JSON")
	workspaceMigrateCmd.Flags().BoolVarP(&workspaceMigrateYes, "yes", "y", false, "Do not ask for confirmation")
}

func runInit(cmd *cobra.Command, args []string) error {
	abs, err := paths.Absolute(args[0])
	if err != nil {
		return err
	}
	name := initName
	if name == "" {
		name = statestore.SanitizeWorkspaceName(abs)
	}
	return initAndRegister(name, abs)
}

func initAndRegister(name, path string) error {
	registry, err := openRegistry()
	if err != nil {
		return err
	}
	if _, err := registry.Get(name); err == nil {
		return fmt.Errorf("%w: %q", workspace.ErrWorkspaceExists, name)
	}

	abs, err := paths.Absolute(path)
	if err != nil {
		return err
	}
	if _, err := repository.Init(abs); err != nil {
		return err
	}
	ws, err := registry.Add(name, abs)
	if err != nil {
		return err
	}

	fmt.Println(ui.Success(fmt.Sprintf("Initialized workspace %q at %s", ws.Name, ws.Path)))
	if ws.Current {
		fmt.Printf("Workspace %q is now current.\n", ws.Name)
	}
	return nil
}

// workspaceJSON is the JSON shape of a registered workspace.
type workspaceJSON struct {
	Name      string     `json:"name"`
	Path      string     `json:"path"`
	Current   bool       `json:"current"`
	WebDAVURL string     `json:"webdav_url,omitempty"`
	Username  string     `json:"username,omitempty"`
	BasePath  string     `json:"base_path,omitempty"`
	LastSync  *time.Time `json:"last_sync,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

func runWorkspaceList(cmd *cobra.Command, args []string) error {
	registry, err := openRegistry()
	if err != nil {
		return err
	}
	workspaces, err := registry.List()
	if err != nil {
		return err
	}

	if workspaceListJSON {
		items := make([]workspaceJSON, 0, len(workspaces))
		for _, ws := range workspaces {
			items = append(items, workspaceJSON{
				Name:      ws.Name,
				Path:      ws.Path,
				Current:   ws.Current,
				WebDAVURL: ws.Remote.URL,
				Username:  ws.Remote.Username,
				BasePath:  ws.Remote.BasePath,
				LastSync:  ws.LastSync,
				CreatedAt: ws.CreatedAt,
			})
		}
		return encodeJSONToStdout(items)
	}

	if len(workspaces) == 0 {
		fmt.Println("No workspaces. Create one with 'tasks init <path>'.")
		return nil
	}
	fmt.Print(formatWorkspaceTable(workspaces, time.Now()))
	return nil
}

func formatWorkspaceTable(workspaces []workspace.Workspace, now time.Time) string {
	builder := ui.NewTableBuilder([]string{"", "NAME", "PATH", "REMOTE", "LAST SYNC"}, len(workspaces))
	for _, ws := range workspaces {
		marker := ""
		if ws.Current {
			marker = "*"
		}
		remoteLabel := "-"
		if ws.Remote.Configured() {
			remoteLabel = ws.Remote.URL
			if ws.Remote.BasePath != "" {
				remoteLabel += " (" + ws.Remote.BasePath + ")"
			}
		}
		lastSync := "never"
		if ws.LastSync != nil {
			lastSync = ui.FormatTimeAgo(*ws.LastSync, now)
		}
		builder.AddRow([]string{marker, ws.Name, ws.Path, remoteLabel, lastSync})
	}
	return builder.String()
}

func runWorkspaceSwitch(cmd *cobra.Command, args []string) error {
	registry, err := openRegistry()
	if err != nil {
		return err
	}
	if err := registry.Switch(args[0]); err != nil {
		return err
	}
	fmt.Println(ui.Success(fmt.Sprintf("Switched to workspace %q", args[0])))
	return nil
}

func runWorkspaceRemove(cmd *cobra.Command, args []string) error {
	registry, err := openRegistry()
	if err != nil {
		return err
	}
	ws, err := registry.Get(args[0])
	if err != nil {
		return err
	}
	if err := registry.Remove(ws.Name); err != nil {
		return err
	}
	fmt.Println(ui.Success(fmt.Sprintf("Removed workspace %q", ws.Name)))
	fmt.Printf("Files remain at %s.\n", ws.Path)
	return nil
}

func runWorkspaceRetarget(cmd *cobra.Command, args []string) error {
	registry, err := openRegistry()
	if err != nil {
		return err
	}
	ws, err := registry.Retarget(args[0], args[1])
	if err != nil {
		return err
	}
	fmt.Println(ui.Success(fmt.Sprintf("Workspace %q now points at %s", ws.Name, ws.Path)))
	if _, err := repository.Open(ws.Path); err != nil {
		fmt.Println(ui.Warning(fmt.Sprintf("%s does not contain a workspace yet", ws.Path)))
	}
	return nil
}

func runWorkspaceMigrate(cmd *cobra.Command, args []string) error {
	registry, err := openRegistry()
	if err != nil {
		return err
	}
	ws, err := registry.Get(args[0])
	if err != nil {
		return err
	}
	dest, err := paths.Absolute(args[1])
	if err != nil {
		return err
	}

	ok, err := confirm(fmt.Sprintf("Move workspace %q from %s to %s?", ws.Name, ws.Path, dest), workspaceMigrateYes)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Println("Cancelled.")
		return nil
	}

	var moved []string
	err = withWorkspaceLock(cmd.Context(), ws.Path, func() error {
		var migrateErr error
		moved, migrateErr = registry.Migrate(ws.Name, dest)
		return migrateErr
	})
	if err != nil {
		return err
	}
	fmt.Println(ui.Success(fmt.Sprintf("Moved %d %s to %s", len(moved), plural(len(moved), "item"), dest)))
	return nil
}
