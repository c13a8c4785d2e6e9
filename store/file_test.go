package store

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/amonks/tasks/task"
)

func openFileStore(t *testing.T, root string) *FileStore {
	t.Helper()
	s, err := Open(root, WithClock(testClock))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := s.Init(); err != nil {
		t.Fatalf("init: %v", err)
	}
	return s
}

func TestFileStoreLayout(t *testing.T) {
	root := t.TempDir()
	s := openFileStore(t, root)
	listID := mustCreateList(t, s, "Groceries")
	mustWriteTask(t, s, listID, "Buy milk")

	for _, rel := range []string{
		WorkspaceMetadataFile,
		filepath.Join("Groceries", ListMetadataFile),
		filepath.Join("Groceries", "Buy milk.md"),
	} {
		if _, err := os.Stat(filepath.Join(root, rel)); err != nil {
			t.Fatalf("expected %s: %v", rel, err)
		}
	}

	data, err := os.ReadFile(filepath.Join(root, "Groceries", "Buy milk.md"))
	if err != nil {
		t.Fatalf("read task file: %v", err)
	}
	if !strings.HasPrefix(string(data), "---\n") {
		t.Fatalf("unexpected task document:\n%s", data)
	}
}

func TestFileStoreReopenRebuildsIndex(t *testing.T) {
	root := t.TempDir()
	s := openFileStore(t, root)
	listID := mustCreateList(t, s, "Work")
	tk := mustWriteTask(t, s, listID, "Ship it")

	reopened := openFileStore(t, root)
	got, err := reopened.ReadTask(listID, tk.ID)
	if err != nil {
		t.Fatalf("read after reopen: %v", err)
	}
	if got.ID != tk.ID {
		t.Fatalf("unexpected task %+v", got)
	}
}

func TestFileStoreIndexIsPerInstance(t *testing.T) {
	root := t.TempDir()
	first := openFileStore(t, root)
	second := openFileStore(t, root)

	listID := mustCreateList(t, first, "Work")
	if _, err := second.ListTasks(listID); !errors.Is(err, task.ErrListNotFound) {
		t.Fatalf("expected stale index to miss new list, got %v", err)
	}
	if err := second.Refresh(); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if _, err := second.ListTasks(listID); err != nil {
		t.Fatalf("list after refresh: %v", err)
	}
}

func TestFileStoreAdoptsBareDirectory(t *testing.T) {
	root := t.TempDir()
	s := openFileStore(t, root)
	if err := os.Mkdir(filepath.Join(root, "Notes"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	lists, err := s.ListLists()
	if err != nil {
		t.Fatalf("list lists: %v", err)
	}
	if len(lists) != 0 {
		t.Fatalf("directory without metadata should not be a list: %v", lists)
	}

	id := mustCreateList(t, s, "Notes")
	lists, err = s.ListLists()
	if err != nil {
		t.Fatalf("list lists: %v", err)
	}
	if len(lists) != 1 || lists[0].ID != id {
		t.Fatalf("expected adopted list, got %v", lists)
	}
}

func TestFileStoreRenameLeavesNoStaleFile(t *testing.T) {
	root := t.TempDir()
	s := openFileStore(t, root)
	listID := mustCreateList(t, s, "Work")
	tk := mustWriteTask(t, s, listID, "Draft")

	tk.Title = "Final"
	if err := s.WriteTask(listID, tk); err != nil {
		t.Fatalf("write: %v", err)
	}

	if _, err := os.Stat(filepath.Join(root, "Work", "Draft.md")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected old file removed, got %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, "Work", "Final.md")); err != nil {
		t.Fatalf("expected new file: %v", err)
	}
}

func TestFileStoreMalformedTask(t *testing.T) {
	root := t.TempDir()
	s := openFileStore(t, root)
	listID := mustCreateList(t, s, "Work")
	if err := os.WriteFile(filepath.Join(root, "Work", "broken.md"), []byte("no header"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	if _, err := s.ListTasks(listID); !errors.Is(err, task.ErrDecode) {
		t.Fatalf("expected ErrDecode, got %v", err)
	}
}

func TestFileStoreIgnoresHiddenAndForeignFiles(t *testing.T) {
	root := t.TempDir()
	s := openFileStore(t, root)
	listID := mustCreateList(t, s, "Work")
	mustWriteTask(t, s, listID, "Real")

	for name, content := range map[string]string{
		".tmp-Real.md-123": "partial",
		"notes.txt":        "not a task",
	} {
		if err := os.WriteFile(filepath.Join(root, "Work", name), []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}

	tasks, err := s.ListTasks(listID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(tasks) != 1 || tasks[0].Title != "Real" {
		t.Fatalf("unexpected tasks %+v", tasks)
	}
}

func TestFileStoreMissingWorkspaceMetadataReadsDefault(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "fresh"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	meta, err := s.ReadWorkspaceMetadata()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if meta.Version != task.MetadataVersion || len(meta.ListOrder) != 0 || meta.LastOpenedList != nil {
		t.Fatalf("unexpected default metadata %+v", meta)
	}
}

func TestFileStoreInitFailsOnUnwritableRoot(t *testing.T) {
	parent := t.TempDir()
	blocker := filepath.Join(parent, "file")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	s, err := Open(filepath.Join(blocker, "root"))
	if err == nil {
		err = s.Init()
	}
	if !errors.Is(err, task.ErrIO) {
		t.Fatalf("expected ErrIO, got %v", err)
	}
}
