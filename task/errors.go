package task

import "errors"

// Error kinds shared by the storage, repository and sync layers. Callers
// distinguish them with errors.Is; the wrapped message carries the detail.
var (
	// ErrIO is returned when a filesystem operation fails.
	ErrIO = errors.New("i/o error")

	// ErrDecode is returned when a task document or metadata record is malformed.
	ErrDecode = errors.New("malformed file")

	// ErrTaskNotFound is returned when no task has the requested identifier.
	ErrTaskNotFound = errors.New("task not found")

	// ErrListNotFound is returned when no list has the requested identifier or name.
	ErrListNotFound = errors.New("list not found")

	// ErrWorkspaceNotFound is returned when a named workspace is not registered
	// or its root directory is missing.
	ErrWorkspaceNotFound = errors.New("workspace not found")

	// ErrAlreadyExists is returned when a name collides with an existing
	// workspace, list, or task file.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidPath is returned when a name cannot be turned into a usable path.
	ErrInvalidPath = errors.New("invalid path")

	// ErrTransport is the catch-all for remote transport and library failures.
	ErrTransport = errors.New("transport error")

	// ErrAmbiguousTaskID is returned when an ID prefix matches more than one task.
	ErrAmbiguousTaskID = errors.New("ambiguous task ID prefix")

	// ErrEmptyTitle is returned when a task title or list name is empty.
	ErrEmptyTitle = errors.New("title cannot be empty")

	// ErrTitleTooLong is returned when a title exceeds MaxTitleLength.
	ErrTitleTooLong = errors.New("title exceeds maximum length")

	// ErrInvalidDue is returned when a due date cannot be parsed.
	ErrInvalidDue = errors.New("invalid due date")
)
