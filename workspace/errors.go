package workspace

import (
	"errors"
	"fmt"

	"github.com/amonks/tasks/task"
)

var (
	// ErrNoCurrentWorkspace indicates no workspace has been selected yet.
	ErrNoCurrentWorkspace = errors.New("no current workspace")
	// ErrCannotRemoveCurrent indicates an attempt to unregister the current workspace.
	ErrCannotRemoveCurrent = errors.New("cannot remove the current workspace")
	// ErrWorkspaceExists indicates the name is already registered.
	ErrWorkspaceExists = fmt.Errorf("workspace %w", task.ErrAlreadyExists)
	// ErrDestinationNotEmpty indicates a migration target already holds files.
	ErrDestinationNotEmpty = errors.New("destination is not empty")
	// ErrDestinationInsideWorkspace indicates a migration target within the
	// workspace being moved.
	ErrDestinationInsideWorkspace = errors.New("destination is inside the workspace")
	// ErrSyncNotConfigured indicates the workspace has no remote.
	ErrSyncNotConfigured = errors.New("sync is not configured")
)

func notFound(name string) error {
	return fmt.Errorf("%w: %q", task.ErrWorkspaceNotFound, name)
}
