package syncer

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/amonks/tasks/internal/testsupport"
	"github.com/amonks/tasks/remote"
	"github.com/amonks/tasks/repository"
	"github.com/amonks/tasks/task"
)

func newRemote(t *testing.T, url string) *remote.Client {
	t.Helper()
	c, err := remote.New(remote.Options{URL: url, BasePath: "/tasks"})
	if err != nil {
		t.Fatalf("new remote: %v", err)
	}
	if err := c.CreateDir(context.Background(), ""); err != nil {
		t.Fatalf("create base: %v", err)
	}
	return c
}

// pair returns two engines over separate workspace roots sharing one remote.
func pair(t *testing.T) (*Engine, *Engine) {
	t.Helper()
	server := testsupport.NewWebDAVServer(t)
	a := New(t.TempDir(), newRemote(t, server.URL))
	b := New(t.TempDir(), newRemote(t, server.URL))
	return a, b
}

func writeFile(t *testing.T, e *Engine, rel, content string) {
	t.Helper()
	path := e.localPath(rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", rel, err)
	}
}

func readFile(t *testing.T, e *Engine, rel string) string {
	t.Helper()
	data, err := os.ReadFile(e.localPath(rel))
	if err != nil {
		t.Fatalf("read %s: %v", rel, err)
	}
	return string(data)
}

func setModTime(t *testing.T, e *Engine, rel string, at time.Time) {
	t.Helper()
	if err := os.Chtimes(e.localPath(rel), at, at); err != nil {
		t.Fatalf("chtimes: %v", err)
	}
}

func mustSync(t *testing.T, e *Engine) Result {
	t.Helper()
	result, err := e.Sync(context.Background())
	if err != nil {
		t.Fatalf("sync: %v", err)
	}
	return result
}

func assertPaths(t *testing.T, what string, got []string, want ...string) {
	t.Helper()
	got = append([]string(nil), got...)
	sort.Strings(got)
	sort.Strings(want)
	if len(got) != len(want) {
		t.Fatalf("%s = %v, want %v", what, got, want)
	}
	for i := range got {
		if got[i] != want[i] {
			t.Fatalf("%s = %v, want %v", what, got, want)
		}
	}
}

func TestCompareTimestamps(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	if got := CompareTimestamps(now.Add(time.Second), now); got != UseLocal {
		t.Fatalf("local newer = %v", got)
	}
	if got := CompareTimestamps(now, now.Add(time.Second)); got != UseRemote {
		t.Fatalf("remote newer = %v", got)
	}
	if got := CompareTimestamps(now, now); got != NoConflict {
		t.Fatalf("same time = %v", got)
	}
}

func TestResultTotalChanges(t *testing.T) {
	r := Result{
		Uploaded:      []string{"a"},
		Downloaded:    []string{"b"},
		DeletedLocal:  []string{"c"},
		DeletedRemote: []string{"d"},
		Conflicts:     []Conflict{{Path: "e"}},
		Unchanged:     3,
	}
	if got := r.TotalChanges(); got != 4 {
		t.Fatalf("TotalChanges = %d, want 4", got)
	}
}

func TestPushPullRoundTrip(t *testing.T) {
	ctx := context.Background()
	a, b := pair(t)

	repo, err := repository.Init(a.root)
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	listID, err := repo.DefaultList()
	if err != nil {
		t.Fatalf("default list: %v", err)
	}
	due := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	if _, err := repo.CreateTask(listID, "Buy milk", repository.CreateTaskOptions{Due: &due, Description: "oat"}); err != nil {
		t.Fatalf("create task: %v", err)
	}
	work, err := repo.CreateList("Work")
	if err != nil {
		t.Fatalf("create list: %v", err)
	}
	if _, err := repo.CreateTask(work.ID, "Ship it", repository.CreateTaskOptions{}); err != nil {
		t.Fatalf("create task: %v", err)
	}

	pushed, err := a.Push(ctx)
	if err != nil {
		t.Fatalf("push: %v", err)
	}
	pulled, err := b.Pull(ctx)
	if err != nil {
		t.Fatalf("pull: %v", err)
	}
	assertPaths(t, "pulled", pulled.Downloaded, pushed.Uploaded...)

	localA, orderA, err := a.walkLocal()
	if err != nil {
		t.Fatalf("walk a: %v", err)
	}
	localB, _, err := b.walkLocal()
	if err != nil {
		t.Fatalf("walk b: %v", err)
	}
	if len(localA) != len(localB) {
		t.Fatalf("file sets differ: %d vs %d", len(localA), len(localB))
	}
	for _, rel := range orderA {
		other, ok := localB[rel]
		if !ok {
			t.Fatalf("%s missing after pull", rel)
		}
		if !bytes.Equal(localA[rel].data, other.data) {
			t.Fatalf("%s differs after pull", rel)
		}
	}

	mirror, err := repository.Open(b.root)
	if err != nil {
		t.Fatalf("open mirror: %v", err)
	}
	lists, err := mirror.GetLists()
	if err != nil {
		t.Fatalf("mirror lists: %v", err)
	}
	if len(lists) != 2 || lists[0].Title != task.DefaultListName || lists[1].Title != "Work" {
		t.Fatalf("unexpected mirrored lists %+v", lists)
	}
	if len(lists[0].Tasks) != 1 || lists[0].Tasks[0].Title != "Buy milk" {
		t.Fatalf("unexpected mirrored tasks %+v", lists[0].Tasks)
	}
}

func TestPushSkipsLocalBookkeeping(t *testing.T) {
	a, _ := pair(t)
	writeFile(t, a, ".metadata.json", "{}")
	writeFile(t, a, "List/.listdata.json", "{}")
	writeFile(t, a, "List/task.md", "x")
	writeFile(t, a, ".lock", "")
	writeFile(t, a, StateFile, "{}")
	writeFile(t, a, ".tasks.toml", "")
	writeFile(t, a, "List/.tmp-task.md-1", "partial")
	writeFile(t, a, ".hidden/file.md", "x")

	result, err := a.Push(context.Background())
	if err != nil {
		t.Fatalf("push: %v", err)
	}
	assertPaths(t, "uploaded", result.Uploaded, ".metadata.json", "List/.listdata.json", "List/task.md")
}

func TestSyncCopiesNewFilesBothWays(t *testing.T) {
	a, b := pair(t)
	writeFile(t, a, "Work/a.md", "from a")
	writeFile(t, b, "Home/b.md", "from b")

	first := mustSync(t, a)
	assertPaths(t, "a uploaded", first.Uploaded, "Work/a.md")

	second := mustSync(t, b)
	assertPaths(t, "b uploaded", second.Uploaded, "Home/b.md")
	assertPaths(t, "b downloaded", second.Downloaded, "Work/a.md")

	third := mustSync(t, a)
	assertPaths(t, "a downloaded", third.Downloaded, "Home/b.md")
	if len(third.Uploaded) != 0 {
		t.Fatalf("unexpected uploads %v", third.Uploaded)
	}

	again := mustSync(t, a)
	if again.TotalChanges() != 0 || again.Unchanged != 2 {
		t.Fatalf("expected quiescent sync, got %+v", again)
	}
	if readFile(t, a, "Home/b.md") != "from b" || readFile(t, b, "Work/a.md") != "from a" {
		t.Fatal("content not mirrored")
	}
}

func TestSyncPropagatesEdits(t *testing.T) {
	a, b := pair(t)
	writeFile(t, a, "Work/a.md", "v1")
	mustSync(t, a)
	mustSync(t, b)

	writeFile(t, b, "Work/a.md", "v2")
	result := mustSync(t, b)
	assertPaths(t, "b uploaded", result.Uploaded, "Work/a.md")

	result = mustSync(t, a)
	assertPaths(t, "a downloaded", result.Downloaded, "Work/a.md")
	if got := readFile(t, a, "Work/a.md"); got != "v2" {
		t.Fatalf("content = %q, want v2", got)
	}
}

func TestSyncPropagatesDeletions(t *testing.T) {
	ctx := context.Background()
	a, b := pair(t)
	writeFile(t, a, "Work/a.md", "a")
	writeFile(t, a, "Work/b.md", "b")
	writeFile(t, a, "Home/c.md", "c")
	mustSync(t, a)
	mustSync(t, b)

	if err := os.Remove(a.localPath("Work/a.md")); err != nil {
		t.Fatalf("remove: %v", err)
	}
	result := mustSync(t, a)
	assertPaths(t, "a deleted remote", result.DeletedRemote, "Work/a.md")

	result = mustSync(t, b)
	assertPaths(t, "b deleted local", result.DeletedLocal, "Work/a.md")
	if _, err := os.Stat(b.localPath("Work/a.md")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected file deleted on b, got %v", err)
	}

	// Removing a whole directory removes the remote collection too.
	if err := os.RemoveAll(b.localPath("Home")); err != nil {
		t.Fatalf("remove dir: %v", err)
	}
	result = mustSync(t, b)
	assertPaths(t, "b deleted remote", result.DeletedRemote, "Home/c.md")
	exists, err := b.transport.Exists(ctx, "Home")
	if err != nil {
		t.Fatalf("exists: %v", err)
	}
	if exists {
		t.Fatal("expected empty remote collection removed")
	}

	result = mustSync(t, a)
	assertPaths(t, "a deleted local", result.DeletedLocal, "Home/c.md")
	if _, err := os.Stat(a.localPath("Home")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected empty local directory removed, got %v", err)
	}
}

func TestSyncEditBeatsDeletion(t *testing.T) {
	a, b := pair(t)
	writeFile(t, a, "Work/a.md", "v1")
	mustSync(t, a)
	mustSync(t, b)

	if err := os.Remove(a.localPath("Work/a.md")); err != nil {
		t.Fatalf("remove: %v", err)
	}
	writeFile(t, b, "Work/a.md", "v2")
	mustSync(t, b)

	result := mustSync(t, a)
	assertPaths(t, "a downloaded", result.Downloaded, "Work/a.md")
	if len(result.DeletedRemote) != 0 {
		t.Fatalf("edited file deleted remotely: %v", result.DeletedRemote)
	}
	if got := readFile(t, a, "Work/a.md"); got != "v2" {
		t.Fatalf("content = %q, want v2", got)
	}
}

func TestSyncKeepsListMetadataForSurvivingTask(t *testing.T) {
	ctx := context.Background()
	a, b := pair(t)
	writeFile(t, a, "Work/.listdata.json", `{"title":"Work"}`)
	writeFile(t, a, "Work/old.md", "old")
	mustSync(t, a)
	mustSync(t, b)

	if err := os.RemoveAll(a.localPath("Work")); err != nil {
		t.Fatalf("remove dir: %v", err)
	}
	writeFile(t, b, "Work/new.md", "new")
	mustSync(t, b)

	result := mustSync(t, a)
	assertPaths(t, "a downloaded", result.Downloaded, "Work/.listdata.json", "Work/new.md")
	assertPaths(t, "a deleted remote", result.DeletedRemote, "Work/old.md")
	if got := readFile(t, a, "Work/.listdata.json"); got != `{"title":"Work"}` {
		t.Fatalf("list metadata = %q", got)
	}
	exists, err := a.transport.Exists(ctx, "Work/.listdata.json")
	if err != nil {
		t.Fatalf("exists: %v", err)
	}
	if !exists {
		t.Fatal("expected remote list metadata kept")
	}
}

func TestSyncRestoresRemoteListMetadataForLocalTask(t *testing.T) {
	a, b := pair(t)
	writeFile(t, a, "Work/.listdata.json", `{"title":"Work"}`)
	writeFile(t, a, "Work/old.md", "old")
	mustSync(t, a)
	mustSync(t, b)

	if err := os.RemoveAll(b.localPath("Work")); err != nil {
		t.Fatalf("remove dir: %v", err)
	}
	mustSync(t, b)

	writeFile(t, a, "Work/new.md", "new")
	result := mustSync(t, a)
	assertPaths(t, "a uploaded", result.Uploaded, "Work/.listdata.json", "Work/new.md")
	assertPaths(t, "a deleted local", result.DeletedLocal, "Work/old.md")

	result = mustSync(t, b)
	assertPaths(t, "b downloaded", result.Downloaded, "Work/.listdata.json", "Work/new.md")
}

func TestKeepListMetadataIgnoresUnrelatedLists(t *testing.T) {
	items := []planItem{
		{path: "Home/.listdata.json", action: actionDeleteRemote},
		{path: "Work/.listdata.json", action: actionDeleteLocal},
		{path: "Work/a.md", action: actionDownload},
		{path: "Home/b.md", action: actionDeleteRemote},
	}
	keepListMetadata(items)
	if items[0].action != actionDeleteRemote {
		t.Fatalf("Home metadata action = %v, want delete remote", items[0].action)
	}
	if items[1].action != actionDeleteLocal {
		t.Fatalf("Work metadata action = %v, want delete local", items[1].action)
	}
}

func TestSyncConflictNewerLocalWins(t *testing.T) {
	a, b := pair(t)
	writeFile(t, a, "Work/a.md", "v1")
	mustSync(t, a)
	mustSync(t, b)

	writeFile(t, b, "Work/a.md", "from b")
	mustSync(t, b)
	writeFile(t, a, "Work/a.md", "from a")
	setModTime(t, a, "Work/a.md", time.Now().Add(time.Hour))

	result := mustSync(t, a)
	if len(result.Conflicts) != 1 || result.Conflicts[0].Resolution != UseLocal {
		t.Fatalf("conflicts = %+v", result.Conflicts)
	}
	assertPaths(t, "a uploaded", result.Uploaded, "Work/a.md")

	mustSync(t, b)
	if got := readFile(t, b, "Work/a.md"); got != "from a" {
		t.Fatalf("b content = %q, want local winner", got)
	}
}

func TestSyncConflictNewerRemoteWins(t *testing.T) {
	a, b := pair(t)
	writeFile(t, a, "Work/a.md", "v1")
	mustSync(t, a)
	mustSync(t, b)

	writeFile(t, a, "Work/a.md", "from a")
	setModTime(t, a, "Work/a.md", time.Now().Add(-time.Hour))
	writeFile(t, b, "Work/a.md", "from b")
	mustSync(t, b)

	result := mustSync(t, a)
	if len(result.Conflicts) != 1 || result.Conflicts[0].Resolution != UseRemote {
		t.Fatalf("conflicts = %+v", result.Conflicts)
	}
	assertPaths(t, "a downloaded", result.Downloaded, "Work/a.md")
	if got := readFile(t, a, "Work/a.md"); got != "from b" {
		t.Fatalf("a content = %q, want remote winner", got)
	}
}

func TestSyncBothSidesIdentical(t *testing.T) {
	a, b := pair(t)
	writeFile(t, a, "Work/a.md", "same")
	writeFile(t, b, "Work/a.md", "same")
	mustSync(t, a)

	result := mustSync(t, b)
	if result.TotalChanges() != 0 || len(result.Conflicts) != 0 || result.Unchanged != 1 {
		t.Fatalf("expected identical copies to settle quietly, got %+v", result)
	}
}

func TestStatus(t *testing.T) {
	ctx := context.Background()
	a, b := pair(t)
	writeFile(t, a, "Work/a.md", "a")
	writeFile(t, a, "Work/b.md", "b")

	status, err := a.Status(ctx)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if !status.Connected || status.LocalChanges != 2 || status.RemoteChanges != 0 || status.LastSync != nil {
		t.Fatalf("status before sync = %+v", status)
	}

	mustSync(t, a)
	status, err = a.Status(ctx)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if status.LocalChanges != 0 || status.RemoteChanges != 0 || status.LastSync == nil {
		t.Fatalf("status after sync = %+v", status)
	}

	mustSync(t, b)
	writeFile(t, b, "Work/a.md", "edited")
	mustSync(t, b)
	status, err = a.Status(ctx)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if status.LocalChanges != 0 || status.RemoteChanges != 1 {
		t.Fatalf("status after remote edit = %+v", status)
	}
}

func TestStatusDisconnected(t *testing.T) {
	dir := t.TempDir()
	e := New(dir, &failingTransport{err: errors.New("connection refused")})
	writeFile(t, e, "Work/a.md", "a")

	status, err := e.Status(context.Background())
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if status.Connected || status.LocalChanges != 1 || status.RemoteChanges != 0 {
		t.Fatalf("status = %+v", status)
	}
}

func TestSyncFailureKeepsCompletedWork(t *testing.T) {
	server := testsupport.NewWebDAVServer(t)
	transport := &failingTransport{
		Transport: newRemote(t, server.URL),
		failOn:    "Work/b.md",
		err:       errors.New("boom"),
	}
	e := New(t.TempDir(), transport)
	writeFile(t, e, "Work/a.md", "a")
	writeFile(t, e, "Work/b.md", "b")

	result, err := e.Sync(context.Background())
	if err == nil {
		t.Fatal("expected sync to fail")
	}
	assertPaths(t, "uploaded", result.Uploaded, "Work/a.md")

	state, err := e.loadState()
	if err != nil {
		t.Fatalf("load state: %v", err)
	}
	if _, ok := state.Files["Work/a.md"]; !ok {
		t.Fatal("completed upload not recorded")
	}
	if _, ok := state.Files["Work/b.md"]; ok {
		t.Fatal("failed upload recorded")
	}
	if state.LastSync != nil {
		t.Fatal("failed sync stamped last sync time")
	}

	transport.failOn = ""
	result = mustSync(t, e)
	assertPaths(t, "retry uploaded", result.Uploaded, "Work/b.md")
}

func TestSyncRejectsEscapingRemotePaths(t *testing.T) {
	if syncablePath("../outside.md") || syncablePath("a/../../b") || syncablePath(".hidden/x.md") {
		t.Fatal("expected unsafe paths to be rejected")
	}
	if !syncablePath("Work/.listdata.json") || !syncablePath(".metadata.json") {
		t.Fatal("expected metadata paths to be syncable")
	}
}

// failingTransport wraps a Transport, failing uploads of one path, or every
// call when Transport is nil.
type failingTransport struct {
	Transport
	failOn string
	err    error
}

func (f *failingTransport) Upload(ctx context.Context, rel string, data []byte) error {
	if f.Transport == nil || rel == f.failOn {
		return f.err
	}
	return f.Transport.Upload(ctx, rel, data)
}

func (f *failingTransport) Exists(ctx context.Context, rel string) (bool, error) {
	if f.Transport == nil {
		return false, f.err
	}
	return f.Transport.Exists(ctx, rel)
}

func TestFirstSyncCreatesMissingBase(t *testing.T) {
	ctx := context.Background()
	server := testsupport.NewWebDAVServer(t)
	client, err := remote.New(remote.Options{URL: server.URL, BasePath: "/fresh/tasks"})
	if err != nil {
		t.Fatalf("new remote: %v", err)
	}
	e := New(t.TempDir(), client)
	writeFile(t, e, "Work/a.md", "a")

	pulled, err := e.Pull(ctx)
	if err != nil {
		t.Fatalf("pull from missing base: %v", err)
	}
	if pulled.TotalChanges() != 0 {
		t.Fatalf("expected nothing pulled, got %+v", pulled)
	}

	result := mustSync(t, e)
	assertPaths(t, "uploaded", result.Uploaded, "Work/a.md")

	exists, err := client.Exists(ctx, "Work/a.md")
	if err != nil || !exists {
		t.Fatalf("expected uploaded file, exists=%v err=%v", exists, err)
	}
}

func TestSyncRefusesVanishedBase(t *testing.T) {
	ctx := context.Background()
	server := testsupport.NewWebDAVServer(t)
	client := newRemote(t, server.URL)
	e := New(t.TempDir(), client)
	writeFile(t, e, "Work/a.md", "a")
	mustSync(t, e)

	if err := client.Delete(ctx, ""); err != nil {
		t.Fatalf("delete base: %v", err)
	}

	if _, err := e.Sync(ctx); !errors.Is(err, remote.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if got := readFile(t, e, "Work/a.md"); got != "a" {
		t.Fatalf("local file must survive, got %q", got)
	}
}

func TestRemoteUnverified(t *testing.T) {
	at := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	st := fileState{Hash: "h", RemoteModTime: at.Add(300 * time.Millisecond), RemoteSize: 2, ObservedAt: at.Add(800 * time.Millisecond)}
	entry := remote.Entry{ModTime: st.RemoteModTime, Size: 2}

	if st.remoteChanged(entry) {
		t.Fatal("identical attributes reported as changed")
	}
	if !st.remoteUnverified(entry) {
		t.Fatal("expected same-second observation to need verification")
	}

	later := st
	later.ObservedAt = at.Add(2 * time.Second)
	if later.remoteUnverified(entry) {
		t.Fatal("observation in a later second should be trusted")
	}

	tagged := entry
	tagged.ETag = `"abc"`
	if st.remoteUnverified(tagged) {
		t.Fatal("tagged entries are never unverified")
	}
}

// untaggedTransport reports every remote file with the same modification
// time and no ETag, like a server with coarse timestamps.
type untaggedTransport struct {
	Transport
	modTime time.Time
}

func (u untaggedTransport) List(ctx context.Context, rel string, depth remote.Depth) ([]remote.Entry, error) {
	entries, err := u.Transport.List(ctx, rel, depth)
	for i := range entries {
		entries[i].ETag = ""
		if !entries[i].IsDir {
			entries[i].ModTime = u.modTime
		}
	}
	return entries, err
}

func TestSyncDetectsSameSecondEditWithoutETag(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	server := testsupport.NewWebDAVServer(t)
	a := New(t.TempDir(), untaggedTransport{newRemote(t, server.URL), now.Add(300 * time.Millisecond)}, WithClock(clock))
	b := New(t.TempDir(), untaggedTransport{newRemote(t, server.URL), now.Add(300 * time.Millisecond)}, WithClock(clock))

	writeFile(t, a, "Work/a.md", "v1")
	mustSync(t, a)
	mustSync(t, b)

	writeFile(t, b, "Work/a.md", "v2")
	result := mustSync(t, b)
	assertPaths(t, "b uploaded", result.Uploaded, "Work/a.md")
	if len(result.Conflicts) != 0 {
		t.Fatalf("unexpected conflicts %+v", result.Conflicts)
	}

	result = mustSync(t, a)
	assertPaths(t, "a downloaded", result.Downloaded, "Work/a.md")
	if got := readFile(t, a, "Work/a.md"); got != "v2" {
		t.Fatalf("content = %q, want v2", got)
	}

	again := mustSync(t, a)
	if again.TotalChanges() != 0 || again.Unchanged != 1 {
		t.Fatalf("expected quiescent sync, got %+v", again)
	}

	status, err := a.Status(context.Background())
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if status.RemoteChanges != 0 {
		t.Fatalf("status = %+v, want no remote changes", status)
	}
}

func TestSyncDeletesUnverifiedFileDeletedLocally(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	server := testsupport.NewWebDAVServer(t)
	a := New(t.TempDir(), untaggedTransport{newRemote(t, server.URL), now}, WithClock(clock))

	writeFile(t, a, "Work/a.md", "v1")
	writeFile(t, a, "Work/b.md", "keep")
	mustSync(t, a)

	if err := os.Remove(a.localPath("Work/a.md")); err != nil {
		t.Fatalf("remove: %v", err)
	}
	result := mustSync(t, a)
	assertPaths(t, "a deleted remote", result.DeletedRemote, "Work/a.md")
	if len(result.Downloaded) != 0 {
		t.Fatalf("unexpected downloads %v", result.Downloaded)
	}
}
