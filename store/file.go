package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/amonks/tasks/internal/atomicfile"
	"github.com/amonks/tasks/internal/codec"
	"github.com/amonks/tasks/task"
	"github.com/google/uuid"
)

const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// FileStore stores a workspace as a directory tree rooted at Root.
//
// It keeps an index from list identifier to list directory. The index is
// built when the store is opened and updated by the store's own list
// mutations; call Refresh after something else changes the tree.
type FileStore struct {
	root  string
	now   func() time.Time
	lists map[uuid.UUID]string
}

var _ Storage = (*FileStore)(nil)

// Open returns a store for the workspace at root. The root does not need
// to exist yet; Init creates it.
func Open(root string, opts ...Option) (*FileStore, error) {
	o := buildOptions(opts)
	s := &FileStore{
		root:  root,
		now:   o.now,
		lists: make(map[uuid.UUID]string),
	}
	if err := s.Refresh(); err != nil {
		return nil, err
	}
	return s, nil
}

// Root returns the workspace root directory.
func (s *FileStore) Root() string {
	return s.root
}

// Refresh rebuilds the list index from disk.
func (s *FileStore) Refresh() error {
	lists := make(map[uuid.UUID]string)
	entries, err := s.scanLists()
	if err != nil {
		return err
	}
	for _, entry := range entries {
		lists[entry.ID] = filepath.Join(s.root, entry.Name)
	}
	s.lists = lists
	return nil
}

// Init creates the root directory and a default .metadata.json if absent.
func (s *FileStore) Init() error {
	if err := os.MkdirAll(s.root, dirPerm); err != nil {
		return ioError("create workspace root", err)
	}
	_, err := os.Stat(s.workspaceMetadataPath())
	if err == nil {
		return nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return ioError("stat workspace metadata", err)
	}
	return s.WriteWorkspaceMetadata(task.DefaultWorkspaceMetadata())
}

// ReadTask scans the list directory for the document carrying taskID.
func (s *FileStore) ReadTask(listID, taskID uuid.UUID) (task.Task, error) {
	dir, err := s.listDir(listID)
	if err != nil {
		return task.Task{}, err
	}
	docs, err := readTaskDocs(dir)
	if err != nil {
		return task.Task{}, err
	}
	for _, doc := range docs {
		if doc.task.ID == taskID {
			return doc.task, nil
		}
	}
	return task.Task{}, fmt.Errorf("%w: %s", task.ErrTaskNotFound, taskID)
}

// WriteTask writes t to a document named after its sanitized title. Any
// other document in the list carrying the same identifier is removed, so a
// title change does not leave the old file behind. Writing onto a file that
// holds a different task fails with task.ErrAlreadyExists.
func (s *FileStore) WriteTask(listID uuid.UUID, t task.Task) error {
	dir, err := s.listDir(listID)
	if err != nil {
		return err
	}
	name, err := taskFileName(t.Title)
	if err != nil {
		return err
	}
	target := filepath.Join(dir, name)

	docs, err := readTaskDocs(dir)
	if err != nil {
		return err
	}
	targetInfo, statErr := os.Stat(target)
	if statErr != nil && !errors.Is(statErr, fs.ErrNotExist) {
		return ioError("stat task file", statErr)
	}

	var stale []string
	for _, doc := range docs {
		same := targetInfo != nil && sameFile(targetInfo, doc.path)
		if same && doc.task.ID != t.ID {
			return fmt.Errorf("%w: %q holds task %s", task.ErrAlreadyExists, doc.name, doc.task.ID)
		}
		if !same && doc.task.ID == t.ID {
			stale = append(stale, doc.path)
		}
	}

	data, err := codec.EncodeTask(t)
	if err != nil {
		return err
	}
	if err := atomicfile.Write(target, data, filePerm); err != nil {
		return ioError("write task", err)
	}

	for _, path := range stale {
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return ioError("remove renamed task file", err)
		}
	}
	return nil
}

// DeleteTask removes the document carrying taskID.
func (s *FileStore) DeleteTask(listID, taskID uuid.UUID) error {
	dir, err := s.listDir(listID)
	if err != nil {
		return err
	}
	docs, err := readTaskDocs(dir)
	if err != nil {
		return err
	}
	found := false
	for _, doc := range docs {
		if doc.task.ID != taskID {
			continue
		}
		if err := os.Remove(doc.path); err != nil {
			return ioError("remove task", err)
		}
		found = true
	}
	if !found {
		return fmt.Errorf("%w: %s", task.ErrTaskNotFound, taskID)
	}
	return nil
}

// ListTasks decodes every task document in the list.
func (s *FileStore) ListTasks(listID uuid.UUID) ([]task.Task, error) {
	dir, err := s.listDir(listID)
	if err != nil {
		return nil, err
	}
	docs, err := readTaskDocs(dir)
	if err != nil {
		return nil, err
	}
	tasks := make([]task.Task, 0, len(docs))
	for _, doc := range docs {
		tasks = append(tasks, doc.task)
	}
	return tasks, nil
}

// CreateList creates a list directory with fresh metadata and appends the
// list to the workspace order. A directory that already exists without
// list metadata is adopted; one that already holds a list fails with
// task.ErrAlreadyExists.
func (s *FileStore) CreateList(name string) (uuid.UUID, error) {
	dirName, err := SanitizeName(name)
	if err != nil {
		return uuid.Nil, err
	}
	dir := filepath.Join(s.root, dirName)

	_, err = os.Stat(filepath.Join(dir, ListMetadataFile))
	if err == nil {
		return uuid.Nil, fmt.Errorf("%w: list %q", task.ErrAlreadyExists, dirName)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return uuid.Nil, ioError("stat list metadata", err)
	}

	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return uuid.Nil, ioError("create list directory", err)
	}

	meta := task.NewListMetadata(uuid.New(), s.now())
	if err := writeListMetadataFile(dir, meta); err != nil {
		return uuid.Nil, err
	}
	s.lists[meta.ID] = dir

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

// ListLists returns the lists found directly under the root, in directory
// order. Directories without list metadata are not lists and are skipped.
func (s *FileStore) ListLists() ([]ListEntry, error) {
	return s.scanLists()
}

// DeleteList removes the list directory and purges the list from the
// workspace metadata.
func (s *FileStore) DeleteList(listID uuid.UUID) error {
	dir, err := s.listDir(listID)
	if err != nil {
		return err
	}
	if err := os.RemoveAll(dir); err != nil {
		return ioError("remove list directory", err)
	}
	delete(s.lists, listID)

	ws, err := s.ReadWorkspaceMetadata()
	if err != nil {
		return err
	}
	ws.RemoveList(listID)
	return s.WriteWorkspaceMetadata(ws)
}

// RenameList renames the list directory. Renaming onto a name used by
// another entry fails with task.ErrAlreadyExists.
func (s *FileStore) RenameList(listID uuid.UUID, name string) error {
	dir, err := s.listDir(listID)
	if err != nil {
		return err
	}
	dirName, err := SanitizeName(name)
	if err != nil {
		return err
	}
	target := filepath.Join(s.root, dirName)
	if target == dir {
		return nil
	}

	targetInfo, err := os.Stat(target)
	switch {
	case err == nil:
		// A case-only rename on a case-insensitive filesystem finds the
		// list's own directory.
		if !sameFile(targetInfo, dir) {
			return fmt.Errorf("%w: %q", task.ErrAlreadyExists, dirName)
		}
	case !errors.Is(err, fs.ErrNotExist):
		return ioError("stat list directory", err)
	}

	if err := os.Rename(dir, target); err != nil {
		return ioError("rename list directory", err)
	}
	s.lists[listID] = target
	return nil
}

// ReadWorkspaceMetadata reads .metadata.json, returning the default record
// when the file does not exist.
func (s *FileStore) ReadWorkspaceMetadata() (task.WorkspaceMetadata, error) {
	data, err := os.ReadFile(s.workspaceMetadataPath())
	if errors.Is(err, fs.ErrNotExist) {
		return task.DefaultWorkspaceMetadata(), nil
	}
	if err != nil {
		return task.WorkspaceMetadata{}, ioError("read workspace metadata", err)
	}
	return codec.DecodeWorkspaceMetadata(data)
}

// WriteWorkspaceMetadata replaces .metadata.json.
func (s *FileStore) WriteWorkspaceMetadata(meta task.WorkspaceMetadata) error {
	data, err := codec.EncodeWorkspaceMetadata(meta)
	if err != nil {
		return err
	}
	if err := atomicfile.Write(s.workspaceMetadataPath(), data, filePerm); err != nil {
		return ioError("write workspace metadata", err)
	}
	return nil
}

// ReadListMetadata reads the list's .listdata.json.
func (s *FileStore) ReadListMetadata(listID uuid.UUID) (task.ListMetadata, error) {
	dir, err := s.listDir(listID)
	if err != nil {
		return task.ListMetadata{}, err
	}
	return readListMetadataFile(dir)
}

// WriteListMetadata replaces the .listdata.json of the list meta.ID names.
func (s *FileStore) WriteListMetadata(meta task.ListMetadata) error {
	dir, err := s.listDir(meta.ID)
	if err != nil {
		return err
	}
	return writeListMetadataFile(dir, meta)
}

func (s *FileStore) workspaceMetadataPath() string {
	return filepath.Join(s.root, WorkspaceMetadataFile)
}

func (s *FileStore) listDir(listID uuid.UUID) (string, error) {
	dir, ok := s.lists[listID]
	if !ok {
		return "", fmt.Errorf("%w: %s", task.ErrListNotFound, listID)
	}
	return dir, nil
}

func (s *FileStore) scanLists() ([]ListEntry, error) {
	entries, err := os.ReadDir(s.root)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, ioError("read workspace root", err)
	}

	var lists []ListEntry
	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		meta, err := readListMetadataFile(filepath.Join(s.root, entry.Name()))
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, err
		}
		lists = append(lists, ListEntry{ID: meta.ID, Name: entry.Name()})
	}
	return lists, nil
}

func readListMetadataFile(dir string) (task.ListMetadata, error) {
	data, err := os.ReadFile(filepath.Join(dir, ListMetadataFile))
	if err != nil {
		return task.ListMetadata{}, ioError("read list metadata", err)
	}
	return codec.DecodeListMetadata(data)
}

func writeListMetadataFile(dir string, meta task.ListMetadata) error {
	data, err := codec.EncodeListMetadata(meta)
	if err != nil {
		return err
	}
	if err := atomicfile.Write(filepath.Join(dir, ListMetadataFile), data, filePerm); err != nil {
		return ioError("write list metadata", err)
	}
	return nil
}

type taskDoc struct {
	name string
	path string
	task task.Task
}

// readTaskDocs decodes every task document in dir in file name order.
func readTaskDocs(dir string) ([]taskDoc, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, ioError("read list directory", err)
	}
	var docs []taskDoc
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") || !strings.HasSuffix(name, TaskExtension) {
			continue
		}
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, ioError("read task", err)
		}
		t, err := codec.DecodeTask(strings.TrimSuffix(name, TaskExtension), data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		docs = append(docs, taskDoc{name: name, path: path, task: t})
	}
	return docs, nil
}

func sameFile(info fs.FileInfo, path string) bool {
	other, err := os.Stat(path)
	if err != nil {
		return false
	}
	return os.SameFile(info, other)
}

// ioError wraps an os error as task.ErrIO. A missing file keeps
// fs.ErrNotExist reachable so callers can tell absence from failure.
func ioError(action string, err error) error {
	return fmt.Errorf("%s: %w: %w", action, task.ErrIO, err)
}
