package store

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/amonks/tasks/task"
	"github.com/google/uuid"
)

// MemStore is an in-memory Storage. It applies the same naming,
// collision and ordering rules as FileStore.
type MemStore struct {
	now       func() time.Time
	workspace *task.WorkspaceMetadata
	lists     map[uuid.UUID]*memList
}

type memList struct {
	name  string
	meta  task.ListMetadata
	tasks map[string]task.Task // keyed by file name
}

var _ Storage = (*MemStore)(nil)

// NewMemStore returns an empty in-memory store.
func NewMemStore(opts ...Option) *MemStore {
	o := buildOptions(opts)
	return &MemStore{
		now:   o.now,
		lists: make(map[uuid.UUID]*memList),
	}
}

// Init installs default workspace metadata if none has been written.
func (s *MemStore) Init() error {
	if s.workspace == nil {
		meta := task.DefaultWorkspaceMetadata()
		s.workspace = &meta
	}
	return nil
}

// ReadTask returns a copy of the task carrying taskID.
func (s *MemStore) ReadTask(listID, taskID uuid.UUID) (task.Task, error) {
	l, err := s.list(listID)
	if err != nil {
		return task.Task{}, err
	}
	for _, t := range l.tasks {
		if t.ID == taskID {
			return cloneTask(t), nil
		}
	}
	return task.Task{}, fmt.Errorf("%w: %s", task.ErrTaskNotFound, taskID)
}

// WriteTask stores t under its sanitized title, dropping any other entry
// with the same identifier. A title held by a different task fails with
// task.ErrAlreadyExists.
func (s *MemStore) WriteTask(listID uuid.UUID, t task.Task) error {
	l, err := s.list(listID)
	if err != nil {
		return err
	}
	name, err := taskFileName(t.Title)
	if err != nil {
		return err
	}
	if existing, ok := l.tasks[name]; ok && existing.ID != t.ID {
		return fmt.Errorf("%w: %q holds task %s", task.ErrAlreadyExists, name, existing.ID)
	}
	for other, existing := range l.tasks {
		if other != name && existing.ID == t.ID {
			delete(l.tasks, other)
		}
	}
	stored := cloneTask(t)
	stored.Title = strings.TrimSuffix(name, TaskExtension)
	l.tasks[name] = stored
	return nil
}

// DeleteTask removes the task carrying taskID.
func (s *MemStore) DeleteTask(listID, taskID uuid.UUID) error {
	l, err := s.list(listID)
	if err != nil {
		return err
	}
	for name, t := range l.tasks {
		if t.ID == taskID {
			delete(l.tasks, name)
			return nil
		}
	}
	return fmt.Errorf("%w: %s", task.ErrTaskNotFound, taskID)
}

// ListTasks returns copies of every task in the list, in no particular order.
func (s *MemStore) ListTasks(listID uuid.UUID) ([]task.Task, error) {
	l, err := s.list(listID)
	if err != nil {
		return nil, err
	}
	tasks := make([]task.Task, 0, len(l.tasks))
	for _, t := range l.tasks {
		tasks = append(tasks, cloneTask(t))
	}
	return tasks, nil
}

// CreateList adds an empty list and appends it to the workspace order.
func (s *MemStore) CreateList(name string) (uuid.UUID, error) {
	dirName, err := SanitizeName(name)
	if err != nil {
		return uuid.Nil, err
	}
	if s.nameTaken(dirName, uuid.Nil) {
		return uuid.Nil, fmt.Errorf("%w: list %q", task.ErrAlreadyExists, dirName)
	}
	meta := task.NewListMetadata(uuid.New(), s.now())
	s.lists[meta.ID] = &memList{
		name:  dirName,
		meta:  meta,
		tasks: make(map[string]task.Task),
	}

	ws, err := s.ReadWorkspaceMetadata()
	if err != nil {
		return uuid.Nil, err
	}
	ws.AddList(meta.ID)
	if err := s.WriteWorkspaceMetadata(ws); err != nil {
		return uuid.Nil, err
	}
	return meta.ID, nil
}

// ListLists returns lists sorted by name, matching directory order.
func (s *MemStore) ListLists() ([]ListEntry, error) {
	entries := make([]ListEntry, 0, len(s.lists))
	for id, l := range s.lists {
		entries = append(entries, ListEntry{ID: id, Name: l.name})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries, nil
}

// DeleteList drops the list and purges it from the workspace metadata.
func (s *MemStore) DeleteList(listID uuid.UUID) error {
	if _, err := s.list(listID); err != nil {
		return err
	}
	delete(s.lists, listID)

	ws, err := s.ReadWorkspaceMetadata()
	if err != nil {
		return err
	}
	ws.RemoveList(listID)
	return s.WriteWorkspaceMetadata(ws)
}

// RenameList renames the list. A name used by another list fails with
// task.ErrAlreadyExists.
func (s *MemStore) RenameList(listID uuid.UUID, name string) error {
	l, err := s.list(listID)
	if err != nil {
		return err
	}
	dirName, err := SanitizeName(name)
	if err != nil {
		return err
	}
	if s.nameTaken(dirName, listID) {
		return fmt.Errorf("%w: %q", task.ErrAlreadyExists, dirName)
	}
	l.name = dirName
	return nil
}

// ReadWorkspaceMetadata returns a copy of the workspace metadata, or the
// default record before Init.
func (s *MemStore) ReadWorkspaceMetadata() (task.WorkspaceMetadata, error) {
	if s.workspace == nil {
		return task.DefaultWorkspaceMetadata(), nil
	}
	return cloneWorkspace(*s.workspace), nil
}

// WriteWorkspaceMetadata replaces the workspace metadata.
func (s *MemStore) WriteWorkspaceMetadata(meta task.WorkspaceMetadata) error {
	meta = cloneWorkspace(meta)
	s.workspace = &meta
	return nil
}

// ReadListMetadata returns a copy of the list's metadata.
func (s *MemStore) ReadListMetadata(listID uuid.UUID) (task.ListMetadata, error) {
	l, err := s.list(listID)
	if err != nil {
		return task.ListMetadata{}, err
	}
	meta := l.meta
	meta.TaskOrder = append([]uuid.UUID{}, l.meta.TaskOrder...)
	return meta, nil
}

// WriteListMetadata replaces the metadata of the list meta.ID names.
func (s *MemStore) WriteListMetadata(meta task.ListMetadata) error {
	l, err := s.list(meta.ID)
	if err != nil {
		return err
	}
	meta.TaskOrder = append([]uuid.UUID{}, meta.TaskOrder...)
	l.meta = meta
	return nil
}

func (s *MemStore) list(listID uuid.UUID) (*memList, error) {
	l, ok := s.lists[listID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", task.ErrListNotFound, listID)
	}
	return l, nil
}

func (s *MemStore) nameTaken(name string, except uuid.UUID) bool {
	for id, l := range s.lists {
		if id != except && l.name == name {
			return true
		}
	}
	return false
}

func cloneTask(t task.Task) task.Task {
	if t.Due != nil {
		due := *t.Due
		t.Due = &due
	}
	if t.ParentID != nil {
		parent := *t.ParentID
		t.ParentID = &parent
	}
	return t
}

func cloneWorkspace(meta task.WorkspaceMetadata) task.WorkspaceMetadata {
	meta.ListOrder = append([]uuid.UUID{}, meta.ListOrder...)
	if meta.LastOpenedList != nil {
		last := *meta.LastOpenedList
		meta.LastOpenedList = &last
	}
	return meta
}
