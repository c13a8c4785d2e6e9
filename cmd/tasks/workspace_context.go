package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/amonks/tasks/internal/config"
	"github.com/amonks/tasks/internal/lockfile"
	"github.com/amonks/tasks/repository"
	"github.com/amonks/tasks/task"
	"github.com/amonks/tasks/workspace"
	"github.com/google/uuid"
)

// workspaceContext is everything a task or list command needs.
type workspaceContext struct {
	registry  *workspace.Registry
	workspace workspace.Workspace
	repo      *repository.Repository
	config    *config.Config
}

func openRegistry() (*workspace.Registry, error) {
	return workspace.Open()
}

func resolveWorkspace(registry *workspace.Registry) (workspace.Workspace, error) {
	ws, err := registry.Resolve(globalWorkspace)
	if errors.Is(err, workspace.ErrNoCurrentWorkspace) {
		return workspace.Workspace{}, fmt.Errorf("%w: run 'tasks init <path>' to create one", err)
	}
	return ws, err
}

func openWorkspace() (*workspaceContext, error) {
	registry, err := openRegistry()
	if err != nil {
		return nil, err
	}
	ws, err := resolveWorkspace(registry)
	if err != nil {
		return nil, err
	}
	repo, err := repository.Open(ws.Path)
	if err != nil {
		return nil, fmt.Errorf("open workspace %q: %w", ws.Name, err)
	}
	cfg, err := config.Load(ws.Path)
	if err != nil {
		return nil, err
	}
	slog.Debug("opened workspace", "name", ws.Name, "path", ws.Path)
	return &workspaceContext{registry: registry, workspace: ws, repo: repo, config: cfg}, nil
}

// withWorkspaceLock runs fn while holding the workspace's write lock.
func withWorkspaceLock(ctx context.Context, root string, fn func() error) error {
	lock, err := lockfile.Acquire(ctx, root, lockfile.DefaultTimeout)
	if err != nil {
		return err
	}
	defer func() {
		if releaseErr := lock.Release(); releaseErr != nil {
			slog.Warn("release workspace lock", "path", root, "error", releaseErr)
		}
	}()
	return fn()
}

// mutate opens the current workspace and runs fn under its write lock.
func mutate(ctx context.Context, fn func(wc *workspaceContext) error) error {
	wc, err := openWorkspace()
	if err != nil {
		return err
	}
	return withWorkspaceLock(ctx, wc.workspace.Path, func() error {
		return fn(wc)
	})
}

// resolveList picks a list by name, falling back to the configured default
// list and then to the workspace's last opened list.
func (wc *workspaceContext) resolveList(name string) (uuid.UUID, error) {
	if name == "" {
		name = wc.config.Workspace.DefaultList
	}
	if name != "" {
		return wc.repo.FindListByName(name)
	}
	return wc.repo.DefaultList()
}

func (wc *workspaceContext) resolveTask(input string) (uuid.UUID, task.Task, error) {
	return wc.repo.ResolveTask(input)
}

// idFormatter returns a function that shortens and highlights task IDs.
func (wc *workspaceContext) idFormatter() (func(uuid.UUID) string, error) {
	lengths, err := wc.repo.TaskIDPrefixLengths()
	if err != nil {
		return nil, err
	}
	return func(id uuid.UUID) string {
		return formatTaskID(lengths, id)
	}, nil
}
