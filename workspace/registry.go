package workspace

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/amonks/tasks/internal/paths"
	statestore "github.com/amonks/tasks/internal/state"
)

// Registry tracks the known workspaces.
type Registry struct {
	stateStore *statestore.Store
	now        func() time.Time
}

// Options configures a registry.
type Options struct {
	// StateDir is the directory where the registry is stored.
	// Defaults to ~/.local/state/tasks if empty.
	StateDir string

	// Now overrides the clock used for timestamps.
	Now func() time.Time
}

// Workspace is a registered workspace.
type Workspace struct {
	Name      string
	Path      string
	Remote    Remote
	LastSync  *time.Time
	CreatedAt time.Time
	Current   bool
}

// Remote describes where a workspace mirrors to.
type Remote struct {
	URL      string
	Username string
	BasePath string
}

// Configured reports whether a remote URL is set.
func (r Remote) Configured() bool {
	return r.URL != ""
}

// Open creates a registry backed by the default state directory.
func Open() (*Registry, error) {
	return OpenWithOptions(Options{})
}

// OpenWithOptions creates a registry with custom options.
func OpenWithOptions(opts Options) (*Registry, error) {
	stateDir, err := paths.ResolveWithDefault(opts.StateDir, paths.DefaultStateDir)
	if err != nil {
		return nil, err
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Registry{
		stateStore: statestore.NewStore(stateDir),
		now:        now,
	}, nil
}

// Add registers a workspace rooted at path. The first workspace added
// becomes current.
func (r *Registry) Add(name, path string) (Workspace, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Workspace{}, fmt.Errorf("workspace name is required")
	}
	abs, err := paths.Absolute(path)
	if err != nil {
		return Workspace{}, err
	}

	var result Workspace
	err = r.stateStore.Update(func(st *statestore.State) error {
		if _, ok := st.Workspaces[name]; ok {
			return fmt.Errorf("%w: %q", ErrWorkspaceExists, name)
		}
		info := statestore.WorkspaceInfo{Path: abs, CreatedAt: r.now().UTC()}
		st.Workspaces[name] = info
		if st.Current == "" {
			st.Current = name
		}
		result = fromInfo(name, info, st.Current)
		return nil
	})
	return result, err
}

// Remove unregisters a workspace. Its files stay on disk.
func (r *Registry) Remove(name string) error {
	return r.stateStore.Update(func(st *statestore.State) error {
		if _, ok := st.Workspaces[name]; !ok {
			return notFound(name)
		}
		if st.Current == name {
			return ErrCannotRemoveCurrent
		}
		delete(st.Workspaces, name)
		return nil
	})
}

// Switch makes name the current workspace.
func (r *Registry) Switch(name string) error {
	return r.stateStore.Update(func(st *statestore.State) error {
		if _, ok := st.Workspaces[name]; !ok {
			return notFound(name)
		}
		st.Current = name
		return nil
	})
}

// Current returns the current workspace.
func (r *Registry) Current() (Workspace, error) {
	st, err := r.stateStore.Load()
	if err != nil {
		return Workspace{}, err
	}
	if st.Current == "" {
		return Workspace{}, ErrNoCurrentWorkspace
	}
	info, ok := st.Workspaces[st.Current]
	if !ok {
		return Workspace{}, notFound(st.Current)
	}
	return fromInfo(st.Current, info, st.Current), nil
}

// Get returns the named workspace.
func (r *Registry) Get(name string) (Workspace, error) {
	st, err := r.stateStore.Load()
	if err != nil {
		return Workspace{}, err
	}
	info, ok := st.Workspaces[name]
	if !ok {
		return Workspace{}, notFound(name)
	}
	return fromInfo(name, info, st.Current), nil
}

// Resolve returns the named workspace, or the current one when name is empty.
func (r *Registry) Resolve(name string) (Workspace, error) {
	if name == "" {
		return r.Current()
	}
	return r.Get(name)
}

// List returns all workspaces sorted by name.
func (r *Registry) List() ([]Workspace, error) {
	st, err := r.stateStore.Load()
	if err != nil {
		return nil, err
	}

	items := make([]Workspace, 0, len(st.Workspaces))
	for name, info := range st.Workspaces {
		items = append(items, fromInfo(name, info, st.Current))
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].Name < items[j].Name
	})
	return items, nil
}

// Retarget points a workspace at a different directory without moving files.
func (r *Registry) Retarget(name, path string) (Workspace, error) {
	abs, err := paths.Absolute(path)
	if err != nil {
		return Workspace{}, err
	}
	return r.update(name, func(info *statestore.WorkspaceInfo) error {
		info.Path = abs
		return nil
	})
}

// Migrate moves a workspace's files to path and retargets it. The
// destination must be absent or empty and must not sit inside the
// workspace. It returns the names of the moved top-level entries. A failed
// move is rolled back; once every entry has moved the workspace is
// retargeted even if the old directory cannot be removed.
func (r *Registry) Migrate(name, path string) ([]string, error) {
	abs, err := paths.Absolute(path)
	if err != nil {
		return nil, err
	}

	var (
		moved    []string
		cleanErr error
	)
	_, err = r.update(name, func(info *statestore.WorkspaceInfo) error {
		from := filepath.Clean(info.Path)
		if from == abs {
			return nil
		}
		if isWithin(from, abs) {
			return fmt.Errorf("%w: %s", ErrDestinationInsideWorkspace, abs)
		}
		var moveErr error
		moved, moveErr = moveTree(from, abs)
		if moveErr != nil {
			return moveErr
		}
		info.Path = abs
		if err := removeDir(from); err != nil {
			cleanErr = fmt.Errorf("remove old workspace dir: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return moved, cleanErr
}

// SetRemote records where a workspace syncs to.
func (r *Registry) SetRemote(name string, remote Remote) (Workspace, error) {
	return r.update(name, func(info *statestore.WorkspaceInfo) error {
		info.WebDAVURL = strings.TrimSpace(remote.URL)
		info.Username = strings.TrimSpace(remote.Username)
		info.BasePath = strings.Trim(strings.TrimSpace(remote.BasePath), "/")
		return nil
	})
}

// RecordSync stores the time of the last successful sync.
func (r *Registry) RecordSync(name string, at time.Time) error {
	at = at.UTC()
	_, err := r.update(name, func(info *statestore.WorkspaceInfo) error {
		info.LastSync = &at
		return nil
	})
	return err
}

func (r *Registry) update(name string, fn func(info *statestore.WorkspaceInfo) error) (Workspace, error) {
	var result Workspace
	err := r.stateStore.Update(func(st *statestore.State) error {
		info, ok := st.Workspaces[name]
		if !ok {
			return notFound(name)
		}
		if err := fn(&info); err != nil {
			return err
		}
		st.Workspaces[name] = info
		result = fromInfo(name, info, st.Current)
		return nil
	})
	return result, err
}

func fromInfo(name string, info statestore.WorkspaceInfo, current string) Workspace {
	return Workspace{
		Name: name,
		Path: info.Path,
		Remote: Remote{
			URL:      info.WebDAVURL,
			Username: info.Username,
			BasePath: info.BasePath,
		},
		LastSync:  info.LastSync,
		CreatedAt: info.CreatedAt,
		Current:   name == current,
	}
}

// Swapped in tests to simulate filesystem failures.
var (
	renameEntry = os.Rename
	removeDir   = os.Remove
)

// isWithin reports whether path is dir or lies below it.
func isWithin(dir, path string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) && !filepath.IsAbs(rel))
}

// moveTree renames every entry of from into to. On failure the entries
// already moved are put back and a destination it created is removed.
func moveTree(from, to string) ([]string, error) {
	entries, err := os.ReadDir(from)
	if err != nil {
		return nil, fmt.Errorf("read workspace dir: %w", err)
	}

	created := false
	existing, err := os.ReadDir(to)
	switch {
	case os.IsNotExist(err):
		if err := os.MkdirAll(to, 0755); err != nil {
			return nil, fmt.Errorf("create destination: %w", err)
		}
		created = true
	case err != nil:
		return nil, fmt.Errorf("read destination: %w", err)
	case len(existing) > 0:
		return nil, fmt.Errorf("%w: %s", ErrDestinationNotEmpty, to)
	}

	moved := make([]string, 0, len(entries))
	for _, entry := range entries {
		if err := renameEntry(filepath.Join(from, entry.Name()), filepath.Join(to, entry.Name())); err != nil {
			moveErr := fmt.Errorf("move %s: %w", entry.Name(), err)
			return nil, errors.Join(moveErr, rollback(from, to, moved, created))
		}
		moved = append(moved, entry.Name())
	}
	return moved, nil
}

func rollback(from, to string, moved []string, created bool) error {
	var errs []error
	for i := len(moved) - 1; i >= 0; i-- {
		name := moved[i]
		if err := os.Rename(filepath.Join(to, name), filepath.Join(from, name)); err != nil {
			errs = append(errs, fmt.Errorf("restore %s: %w", name, err))
		}
	}
	if created && len(errs) == 0 {
		if err := os.Remove(to); err != nil {
			errs = append(errs, fmt.Errorf("remove destination: %w", err))
		}
	}
	return errors.Join(errs...)
}
