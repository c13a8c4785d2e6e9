// Package repository provides entity-level operations over a Storage.
//
// Every mutation keeps the owning list's task order and timestamps in step
// with the task files. The repository holds no state of its own: each call
// reads the store, so the directory tree stays the single source of truth.
//
// Two repositories over the same workspace are not serialized against each
// other. Concurrent writers can lose order updates; the CLI takes an
// advisory lock around mutating commands for that reason.
package repository

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/amonks/tasks/internal/ids"
	"github.com/amonks/tasks/store"
	"github.com/amonks/tasks/task"
	"github.com/google/uuid"
)

// ErrListNameNotFound is returned when FindListByName finds no match.
var ErrListNameNotFound = fmt.Errorf("%w by name", task.ErrListNotFound)

// Repository orchestrates store operations.
type Repository struct {
	storage store.Storage
	now     func() time.Time
}

// Option configures a Repository.
type Option func(*Repository)

// WithClock sets the clock used to stamp tasks and lists.
func WithClock(now func() time.Time) Option {
	return func(r *Repository) {
		r.now = now
	}
}

// New returns a repository over storage.
func New(storage store.Storage, opts ...Option) *Repository {
	r := &Repository{storage: storage, now: time.Now}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Open opens the existing workspace at root.
func Open(root string, opts ...Option) (*Repository, error) {
	if _, err := os.Stat(filepath.Join(root, store.WorkspaceMetadataFile)); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", task.ErrWorkspaceNotFound, root)
		}
		return nil, fmt.Errorf("open workspace: %w: %w", task.ErrIO, err)
	}
	return openFileStore(root, opts)
}

// Init initializes a workspace at root. A workspace with no lists gets a
// default list.
func Init(root string, opts ...Option) (*Repository, error) {
	r, err := openFileStore(root, opts)
	if err != nil {
		return nil, err
	}
	if err := r.storage.Init(); err != nil {
		return nil, fmt.Errorf("initialize workspace: %w", err)
	}
	lists, err := r.storage.ListLists()
	if err != nil {
		return nil, err
	}
	if len(lists) == 0 {
		if _, err := r.CreateList(task.DefaultListName); err != nil {
			return nil, fmt.Errorf("create default list: %w", err)
		}
	}
	return r, nil
}

func openFileStore(root string, opts []Option) (*Repository, error) {
	r := New(nil, opts...)
	s, err := store.Open(root, store.WithClock(r.now))
	if err != nil {
		return nil, err
	}
	r.storage = s
	return r, nil
}

// Storage returns the underlying store.
func (r *Repository) Storage() store.Storage {
	return r.storage
}

// CreateTaskOptions holds the optional fields of a new task.
type CreateTaskOptions struct {
	Description string
	Due         *time.Time
	Parent      *uuid.UUID
}

// CreateTask creates an open task at the end of the list.
func (r *Repository) CreateTask(listID uuid.UUID, title string, opts CreateTaskOptions) (task.Task, error) {
	if err := task.ValidateTitle(title); err != nil {
		return task.Task{}, err
	}
	meta, err := r.storage.ReadListMetadata(listID)
	if err != nil {
		return task.Task{}, err
	}

	now := r.now()
	t := task.New(title, now)
	t.Description = opts.Description
	if opts.Due != nil {
		due := opts.Due.UTC()
		t.Due = &due
	}
	if opts.Parent != nil {
		parent := *opts.Parent
		t.ParentID = &parent
	}

	if err := r.storage.WriteTask(listID, t); err != nil {
		return task.Task{}, err
	}
	meta.TaskOrder = append(task.RemoveID(meta.TaskOrder, t.ID), t.ID)
	meta.Touch(now)
	if err := r.storage.WriteListMetadata(meta); err != nil {
		return task.Task{}, err
	}
	return r.storage.ReadTask(listID, t.ID)
}

// GetTask reads one task.
func (r *Repository) GetTask(listID, taskID uuid.UUID) (task.Task, error) {
	return r.storage.ReadTask(listID, taskID)
}

// UpdateTask writes t over the stored task with the same ID. UpdatedAt is
// always stamped to now, and CreatedAt is kept from the stored copy.
func (r *Repository) UpdateTask(listID uuid.UUID, t task.Task) (task.Task, error) {
	if err := task.ValidateTitle(t.Title); err != nil {
		return task.Task{}, err
	}
	stored, err := r.storage.ReadTask(listID, t.ID)
	if err != nil {
		return task.Task{}, err
	}
	t.CreatedAt = stored.CreatedAt
	t.UpdatedAt = stored.UpdatedAt
	return r.writeTask(listID, t)
}

// DeleteTask removes the task and its order entry.
func (r *Repository) DeleteTask(listID, taskID uuid.UUID) error {
	meta, err := r.storage.ReadListMetadata(listID)
	if err != nil {
		return err
	}
	if err := r.storage.DeleteTask(listID, taskID); err != nil {
		return err
	}
	meta.TaskOrder = task.RemoveID(meta.TaskOrder, taskID)
	meta.Touch(r.now())
	return r.storage.WriteListMetadata(meta)
}

// CompleteTask marks the task completed.
func (r *Repository) CompleteTask(listID, taskID uuid.UUID) (task.Task, error) {
	t, err := r.storage.ReadTask(listID, taskID)
	if err != nil {
		return task.Task{}, err
	}
	t.Status = task.StatusCompleted
	return r.writeTask(listID, t)
}

// UncompleteTask marks the task open again.
func (r *Repository) UncompleteTask(listID, taskID uuid.UUID) (task.Task, error) {
	t, err := r.storage.ReadTask(listID, taskID)
	if err != nil {
		return task.Task{}, err
	}
	t.Status = task.StatusOpen
	return r.writeTask(listID, t)
}

// writeTask stamps t, writes it, and bumps the list.
func (r *Repository) writeTask(listID uuid.UUID, t task.Task) (task.Task, error) {
	meta, err := r.storage.ReadListMetadata(listID)
	if err != nil {
		return task.Task{}, err
	}
	now := r.now()
	t.Touch(now)
	if err := r.storage.WriteTask(listID, t); err != nil {
		return task.Task{}, err
	}
	meta.Touch(now)
	if err := r.storage.WriteListMetadata(meta); err != nil {
		return task.Task{}, err
	}
	return r.storage.ReadTask(listID, t.ID)
}

// ListTasks returns the list's tasks in display order: the declared task
// order first, then tasks missing from it by creation time.
func (r *Repository) ListTasks(listID uuid.UUID) ([]task.Task, error) {
	meta, err := r.storage.ReadListMetadata(listID)
	if err != nil {
		return nil, err
	}
	tasks, err := r.storage.ListTasks(listID)
	if err != nil {
		return nil, err
	}
	return orderTasks(tasks, meta.TaskOrder), nil
}

func orderTasks(tasks []task.Task, order []uuid.UUID) []task.Task {
	byID := make(map[uuid.UUID]task.Task, len(tasks))
	for _, t := range tasks {
		if existing, ok := byID[t.ID]; ok && !t.UpdatedAt.After(existing.UpdatedAt) {
			continue
		}
		byID[t.ID] = t
	}

	ordered := make([]task.Task, 0, len(byID))
	for _, id := range order {
		if t, ok := byID[id]; ok {
			ordered = append(ordered, t)
			delete(byID, id)
		}
	}

	drift := make([]task.Task, 0, len(byID))
	for _, t := range byID {
		drift = append(drift, t)
	}
	sort.Slice(drift, func(i, j int) bool {
		if !drift[i].CreatedAt.Equal(drift[j].CreatedAt) {
			return drift[i].CreatedAt.Before(drift[j].CreatedAt)
		}
		return drift[i].ID.String() < drift[j].ID.String()
	})
	return append(ordered, drift...)
}

// GetTaskOrder returns the list's declared task order.
func (r *Repository) GetTaskOrder(listID uuid.UUID) ([]uuid.UUID, error) {
	meta, err := r.storage.ReadListMetadata(listID)
	if err != nil {
		return nil, err
	}
	return meta.TaskOrder, nil
}

// ReorderTask moves the task to position in the list's order. Positions
// past the end move it to the end.
func (r *Repository) ReorderTask(listID, taskID uuid.UUID, position int) error {
	meta, err := r.storage.ReadListMetadata(listID)
	if err != nil {
		return err
	}
	if _, err := r.storage.ReadTask(listID, taskID); err != nil {
		return err
	}
	meta.TaskOrder = task.MoveID(meta.TaskOrder, taskID, position)
	meta.Touch(r.now())
	return r.storage.WriteListMetadata(meta)
}

// FindTask scans every list for the task.
func (r *Repository) FindTask(taskID uuid.UUID) (uuid.UUID, task.Task, error) {
	lists, err := r.storage.ListLists()
	if err != nil {
		return uuid.Nil, task.Task{}, err
	}
	for _, l := range lists {
		tasks, err := r.storage.ListTasks(l.ID)
		if err != nil {
			return uuid.Nil, task.Task{}, err
		}
		for _, t := range tasks {
			if t.ID == taskID {
				return l.ID, t, nil
			}
		}
	}
	return uuid.Nil, task.Task{}, fmt.Errorf("%w: %s", task.ErrTaskNotFound, taskID)
}

// ResolveTask finds a task by full ID or unique ID prefix.
func (r *Repository) ResolveTask(input string) (uuid.UUID, task.Task, error) {
	if id, err := uuid.Parse(input); err == nil {
		return r.FindTask(id)
	}

	lists, err := r.storage.ListLists()
	if err != nil {
		return uuid.Nil, task.Task{}, err
	}
	type located struct {
		listID uuid.UUID
		task   task.Task
	}
	byID := make(map[string]located)
	var taskIDs []string
	for _, l := range lists {
		tasks, err := r.storage.ListTasks(l.ID)
		if err != nil {
			return uuid.Nil, task.Task{}, err
		}
		for _, t := range tasks {
			key := t.ID.String()
			byID[key] = located{listID: l.ID, task: t}
			taskIDs = append(taskIDs, key)
		}
	}

	match, found, ambiguous := ids.MatchPrefix(taskIDs, input)
	if !found {
		return uuid.Nil, task.Task{}, fmt.Errorf("%w: %s", task.ErrTaskNotFound, input)
	}
	if ambiguous {
		return uuid.Nil, task.Task{}, fmt.Errorf("%w: %s", task.ErrAmbiguousTaskID, input)
	}
	hit := byID[match]
	return hit.listID, hit.task, nil
}

// TaskIDPrefixLengths returns the shortest unique prefix length of every
// task ID in the workspace, keyed by lowercase ID.
func (r *Repository) TaskIDPrefixLengths() (map[string]int, error) {
	lists, err := r.storage.ListLists()
	if err != nil {
		return nil, err
	}
	var taskIDs []string
	for _, l := range lists {
		tasks, err := r.storage.ListTasks(l.ID)
		if err != nil {
			return nil, err
		}
		for _, t := range tasks {
			taskIDs = append(taskIDs, t.ID.String())
		}
	}
	return ids.UniquePrefixLengths(taskIDs), nil
}
