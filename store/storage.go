// Package store maps tasks and lists onto a workspace directory tree.
//
// Each list is a subdirectory of the workspace root holding a .listdata.json
// record and one markdown document per task. The root holds .metadata.json
// with the workspace-wide list order. FileStore implements this layout;
// MemStore keeps the same semantics in memory for tests.
package store

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/amonks/tasks/task"
	"github.com/google/uuid"
)

// Reserved file names.
const (
	// WorkspaceMetadataFile holds the workspace list order.
	WorkspaceMetadataFile = ".metadata.json"
	// ListMetadataFile holds a list's identifier, flags and task order.
	ListMetadataFile = ".listdata.json"
	// TaskExtension is the suffix of every task document.
	TaskExtension = ".md"
)

// Storage is the set of operations the repository needs from a backend.
type Storage interface {
	// Init prepares an empty workspace. It is idempotent.
	Init() error

	ReadTask(listID, taskID uuid.UUID) (task.Task, error)
	WriteTask(listID uuid.UUID, t task.Task) error
	DeleteTask(listID, taskID uuid.UUID) error
	// ListTasks returns every task in the list in no particular order.
	ListTasks(listID uuid.UUID) ([]task.Task, error)

	CreateList(name string) (uuid.UUID, error)
	ListLists() ([]ListEntry, error)
	DeleteList(listID uuid.UUID) error
	RenameList(listID uuid.UUID, name string) error

	ReadWorkspaceMetadata() (task.WorkspaceMetadata, error)
	WriteWorkspaceMetadata(meta task.WorkspaceMetadata) error
	ReadListMetadata(listID uuid.UUID) (task.ListMetadata, error)
	WriteListMetadata(meta task.ListMetadata) error
}

// ListEntry identifies a list and its display name.
type ListEntry struct {
	ID   uuid.UUID
	Name string
}

// Option configures a store.
type Option func(*options)

type options struct {
	now func() time.Time
}

// WithClock sets the clock used to stamp new list metadata.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

func buildOptions(opts []Option) options {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// SanitizeName turns a list or task title into a file-system-safe name.
// Path separators, characters reserved on common filesystems, and control
// characters become underscores. A leading dot also becomes an underscore
// because dot-prefixed names are reserved for metadata.
func SanitizeName(name string) (string, error) {
	name = strings.TrimSpace(name)
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		switch {
		case strings.ContainsRune(`/\:*?"<>|`, r), unicode.IsControl(r):
			b.WriteRune('_')
		default:
			b.WriteRune(r)
		}
	}
	sanitized := b.String()
	if strings.HasPrefix(sanitized, ".") {
		sanitized = "_" + sanitized[1:]
	}
	if sanitized == "" {
		return "", fmt.Errorf("%w: empty name", task.ErrInvalidPath)
	}
	return sanitized, nil
}

func taskFileName(title string) (string, error) {
	name, err := SanitizeName(title)
	if err != nil {
		return "", err
	}
	return name + TaskExtension, nil
}
