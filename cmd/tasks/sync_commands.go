package main

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/amonks/tasks/internal/config"
	"github.com/amonks/tasks/internal/credentials"
	"github.com/amonks/tasks/internal/editor"
	"github.com/amonks/tasks/internal/listflags"
	"github.com/amonks/tasks/internal/ui"
	"github.com/amonks/tasks/remote"
	"github.com/amonks/tasks/syncer"
	"github.com/amonks/tasks/workspace"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Sync the workspace with its WebDAV remote",
	Long: `Sync the workspace with its WebDAV remote.

Files changed on one side since the last sync are copied to the other and
deletions are propagated. When a file changed on both sides, the copy with
the newer modification time wins.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSyncOperation(cmd, "sync", (*syncer.Engine).Sync)
	},
}

var syncSetupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Configure the WebDAV remote for the workspace",
	Long: `Configure the WebDAV remote for the workspace.

Missing values are prompted for. The password is read from
TASKS_WEBDAV_PASSWORD when set, otherwise prompted for and stored in
~/.config/tasks/credentials.toml.`,
	Args: cobra.NoArgs,
	RunE: runSyncSetup,
}

var (
	syncSetupURL      string
	syncSetupUsername string
	syncSetupBasePath string
)

var syncPushCmd = &cobra.Command{
	Use:   "push",
	Short: "Upload every local file, overwriting the remote",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSyncOperation(cmd, "push", (*syncer.Engine).Push)
	},
}

var syncPullCmd = &cobra.Command{
	Use:   "pull",
	Short: "Download every remote file, overwriting local copies",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSyncOperation(cmd, "pull", (*syncer.Engine).Pull)
	},
}

var syncStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show pending changes and the last sync time",
	Args:  cobra.NoArgs,
	RunE:  runSyncStatus,
}

var syncStatusAll bool

func init() {
	rootCmd.AddCommand(syncCmd)
	syncCmd.AddCommand(syncSetupCmd, syncPushCmd, syncPullCmd, syncStatusCmd)

	syncSetupCmd.Flags().StringVar(&syncSetupURL, "url", "", "WebDAV URL")
	syncSetupCmd.Flags().StringVar(&syncSetupUsername, "username", "", "WebDAV username")
	syncSetupCmd.Flags().StringVar(&syncSetupBasePath, "base-path", "", "Directory on the server to sync into")
	listflags.AddAllFlag(syncStatusCmd, &syncStatusAll, "Show every workspace with a remote")
}

// remoteOptions builds transport options for a workspace.
func remoteOptions(ws workspace.Workspace, cfg *config.Config, supplier credentials.Supplier) (remote.Options, error) {
	if !ws.Remote.Configured() {
		return remote.Options{}, fmt.Errorf("%w for workspace %q: run 'tasks sync setup'", workspace.ErrSyncNotConfigured, ws.Name)
	}
	password, err := supplier.Password(ws.Remote.URL, ws.Remote.Username)
	if err != nil {
		return remote.Options{}, fmt.Errorf("%w (set %s or run 'tasks sync setup')", err, credentials.EnvPassword)
	}
	basePath := ws.Remote.BasePath
	if basePath == "" {
		basePath = cfg.Sync.BasePath
	}
	return remote.Options{
		URL:      ws.Remote.URL,
		Username: ws.Remote.Username,
		Password: password,
		BasePath: basePath,
		Timeout:  cfg.SyncTimeout(),
	}, nil
}

func openSyncEngine(ws workspace.Workspace, cfg *config.Config) (*syncer.Engine, error) {
	store, err := credentials.Open()
	if err != nil {
		return nil, err
	}
	opts, err := remoteOptions(ws, cfg, store)
	if err != nil {
		return nil, err
	}
	client, err := remote.New(opts)
	if err != nil {
		return nil, err
	}
	return syncer.New(ws.Path, client, syncer.WithLogger(slog.Default())), nil
}

func interruptContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(ctx, os.Interrupt)
}

func runSyncOperation(cmd *cobra.Command, name string, op func(*syncer.Engine, context.Context) (syncer.Result, error)) error {
	wc, err := openWorkspace()
	if err != nil {
		return err
	}
	engine, err := openSyncEngine(wc.workspace, wc.config)
	if err != nil {
		return err
	}

	ctx, cancel := interruptContext(cmd.Context())
	defer cancel()

	var result syncer.Result
	err = withWorkspaceLock(ctx, wc.workspace.Path, func() error {
		var opErr error
		result, opErr = op(engine, ctx)
		return opErr
	})
	fmt.Print(formatSyncResult(result))
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	if err := wc.registry.RecordSync(wc.workspace.Name, time.Now()); err != nil {
		return err
	}
	fmt.Println(ui.Success(fmt.Sprintf("%s complete: %d %s", capitalize(name), result.TotalChanges(), plural(result.TotalChanges(), "change"))))
	return nil
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func formatSyncResult(result syncer.Result) string {
	var b strings.Builder
	for _, path := range result.Uploaded {
		fmt.Fprintf(&b, "  ↑ %s\n", path)
	}
	for _, path := range result.Downloaded {
		fmt.Fprintf(&b, "  ↓ %s\n", path)
	}
	for _, path := range result.DeletedRemote {
		fmt.Fprintf(&b, "  ✗ %s (remote)\n", path)
	}
	for _, path := range result.DeletedLocal {
		fmt.Fprintf(&b, "  ✗ %s (local)\n", path)
	}
	for _, conflict := range result.Conflicts {
		fmt.Fprintf(&b, "  %s\n", ui.Warning(fmt.Sprintf("conflict %s: kept %s copy", conflict.Path, conflict.Resolution)))
	}
	return b.String()
}

func runSyncSetup(cmd *cobra.Command, args []string) error {
	wc, err := openWorkspace()
	if err != nil {
		return err
	}
	reader := bufio.NewReader(os.Stdin)

	url, err := promptValue(reader, "WebDAV URL", syncSetupURL, wc.workspace.Remote.URL)
	if err != nil {
		return err
	}
	username, err := promptValue(reader, "Username", syncSetupUsername, wc.workspace.Remote.Username)
	if err != nil {
		return err
	}
	basePath := syncSetupBasePath
	if !cmd.Flags().Changed("base-path") {
		basePath = wc.workspace.Remote.BasePath
	}

	store, err := credentials.Open()
	if err != nil {
		return err
	}
	password := credentials.EnvOverride()
	fromEnv := password != ""
	if !fromEnv {
		password, err = promptPassword(reader)
		if err != nil {
			return err
		}
	}

	candidate := wc.workspace
	candidate.Remote = workspace.Remote{URL: url, Username: username, BasePath: strings.Trim(basePath, "/")}
	opts, err := remoteOptions(candidate, wc.config, staticPassword(password))
	if err != nil {
		return err
	}
	client, err := remote.New(opts)
	if err != nil {
		return err
	}

	ctx, cancel := interruptContext(cmd.Context())
	defer cancel()
	fmt.Println("Checking connection...")
	if err := ensureRemoteBase(ctx, client); err != nil {
		return fmt.Errorf("connect to %s: %w", url, err)
	}

	if !fromEnv {
		if err := store.Save(url, username, password); err != nil {
			return err
		}
	}
	if _, err := wc.registry.SetRemote(wc.workspace.Name, candidate.Remote); err != nil {
		return err
	}
	fmt.Println(ui.Success(fmt.Sprintf("Sync configured for workspace %q", wc.workspace.Name)))
	return nil
}

// ensureRemoteBase checks the server is reachable and creates the base
// collection when it does not exist yet.
func ensureRemoteBase(ctx context.Context, client *remote.Client) error {
	exists, err := client.Exists(ctx, "")
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	return client.CreateDir(ctx, "")
}

type staticPassword string

func (p staticPassword) Password(endpoint, username string) (string, error) {
	return string(p), nil
}

func promptValue(reader *bufio.Reader, label, flagValue, current string) (string, error) {
	if value := strings.TrimSpace(flagValue); value != "" {
		return value, nil
	}
	if !editor.IsInteractive() {
		if current != "" {
			return current, nil
		}
		return "", fmt.Errorf("%s is required", strings.ToLower(label))
	}
	if current != "" {
		fmt.Printf("%s [%s]: ", label, current)
	} else {
		fmt.Printf("%s: ", label)
	}
	value, err := readLine(reader)
	if err != nil {
		return "", err
	}
	if value == "" {
		value = current
	}
	if value == "" {
		return "", fmt.Errorf("%s is required", strings.ToLower(label))
	}
	return value, nil
}

func promptPassword(reader *bufio.Reader) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		password, err := readLine(reader)
		if err != nil {
			return "", fmt.Errorf("read password from stdin: %w", err)
		}
		return password, nil
	}
	fmt.Print("Password: ")
	data, err := term.ReadPassword(fd)
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return string(data), nil
}

// syncStatusLine is one workspace's entry in sync status output.
type syncStatusLine struct {
	workspace workspace.Workspace
	status    syncer.Status
	err       error
}

func runSyncStatus(cmd *cobra.Command, args []string) error {
	registry, err := openRegistry()
	if err != nil {
		return err
	}

	var targets []workspace.Workspace
	if syncStatusAll {
		all, err := registry.List()
		if err != nil {
			return err
		}
		for _, ws := range all {
			if ws.Remote.Configured() {
				targets = append(targets, ws)
			}
		}
		if len(targets) == 0 {
			fmt.Println("No workspaces have sync configured.")
			return nil
		}
	} else {
		ws, err := resolveWorkspace(registry)
		if err != nil {
			return err
		}
		if !ws.Remote.Configured() {
			return fmt.Errorf("%w for workspace %q: run 'tasks sync setup'", workspace.ErrSyncNotConfigured, ws.Name)
		}
		targets = append(targets, ws)
	}

	ctx, cancel := interruptContext(cmd.Context())
	defer cancel()

	now := time.Now()
	for i, ws := range targets {
		if i > 0 {
			fmt.Println()
		}
		line := syncStatusLine{workspace: ws}
		line.status, line.err = workspaceSyncStatus(ctx, ws)
		fmt.Print(formatSyncStatus(line, now))
	}
	return nil
}

func workspaceSyncStatus(ctx context.Context, ws workspace.Workspace) (syncer.Status, error) {
	cfg, err := config.Load(ws.Path)
	if err != nil {
		return syncer.Status{}, err
	}
	engine, err := openSyncEngine(ws, cfg)
	if err != nil {
		return syncer.Status{}, err
	}
	return engine.Status(ctx)
}

func formatSyncStatus(line syncStatusLine, now time.Time) string {
	ws := line.workspace
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", ui.HeaderStyle.Render(fmt.Sprintf("Workspace %q", ws.Name)))
	remoteLabel := ws.Remote.URL
	if ws.Remote.BasePath != "" {
		remoteLabel += " (" + ws.Remote.BasePath + ")"
	}
	fmt.Fprintf(&b, "  Remote:         %s\n", remoteLabel)
	if line.err != nil {
		fmt.Fprintf(&b, "  %s\n", ui.Warning(line.err.Error()))
		return b.String()
	}

	connected := "yes"
	if !line.status.Connected {
		connected = "no"
	}
	fmt.Fprintf(&b, "  Connected:      %s\n", connected)
	fmt.Fprintf(&b, "  Local changes:  %d\n", line.status.LocalChanges)
	if line.status.Connected {
		fmt.Fprintf(&b, "  Remote changes: %d\n", line.status.RemoteChanges)
	}

	lastSync := line.status.LastSync
	if lastSync == nil {
		lastSync = ws.LastSync
	}
	last := "never"
	if lastSync != nil {
		last = ui.FormatTimeAgo(*lastSync, now)
	}
	fmt.Fprintf(&b, "  Last sync:      %s\n", last)
	return b.String()
}
