package syncer

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/amonks/tasks/internal/atomicfile"
	"github.com/amonks/tasks/remote"
	"github.com/amonks/tasks/task"
)

// StateFile records what each file looked like at the last sync. It lives
// in the workspace root and is never mirrored.
const StateFile = ".sync-state.json"

const stateVersion = 1

type syncState struct {
	Version  int                  `json:"version"`
	LastSync *time.Time           `json:"last_sync,omitempty"`
	Files    map[string]fileState `json:"files"`
}

// fileState is a file's content hash plus the remote attributes observed
// when it was last in sync, and when they were observed.
type fileState struct {
	Hash          string    `json:"hash"`
	RemoteModTime time.Time `json:"remote_mod_time"`
	RemoteSize    int64     `json:"remote_size"`
	RemoteETag    string    `json:"remote_etag,omitempty"`
	ObservedAt    time.Time `json:"observed_at"`
}

func newSyncState() *syncState {
	return &syncState{Version: stateVersion, Files: make(map[string]fileState)}
}

func (e *Engine) statePath() string {
	return filepath.Join(e.root, StateFile)
}

func (e *Engine) loadState() (*syncState, error) {
	data, err := os.ReadFile(e.statePath())
	if errors.Is(err, fs.ErrNotExist) {
		return newSyncState(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read sync state: %w: %w", task.ErrIO, err)
	}
	state := newSyncState()
	if err := json.Unmarshal(data, state); err != nil {
		return nil, fmt.Errorf("%w: sync state: %w", task.ErrDecode, err)
	}
	if state.Files == nil {
		state.Files = make(map[string]fileState)
	}
	return state, nil
}

func (e *Engine) saveState(state *syncState) error {
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("encode sync state: %w", err)
	}
	if err := os.MkdirAll(e.root, 0o755); err != nil {
		return fmt.Errorf("save sync state: %w: %w", task.ErrIO, err)
	}
	if err := atomicfile.Write(e.statePath(), append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("save sync state: %w: %w", task.ErrIO, err)
	}
	return nil
}

// remoteChanged reports whether entry differs from what was recorded.
// Without an ETag this compares modification time and size, which misses
// a same-size edit made within the second the file was observed; see
// remoteUnverified.
func (f fileState) remoteChanged(entry remote.Entry) bool {
	if f.RemoteETag != "" && entry.ETag != "" {
		return f.RemoteETag != entry.ETag
	}
	return !f.RemoteModTime.Equal(entry.ModTime) || f.RemoteSize != entry.Size
}

// remoteUnverified reports whether an untagged entry that looks unchanged
// was observed in the same second as its modification time. Such a file
// could have been rewritten since without any visible difference, so its
// content has to be compared.
func (f fileState) remoteUnverified(entry remote.Entry) bool {
	if entry.ETag != "" || f.ObservedAt.IsZero() {
		return false
	}
	return f.ObservedAt.Truncate(time.Second).Equal(entry.ModTime.Truncate(time.Second))
}

func (f *fileState) observeRemote(entry remote.Entry, at time.Time) {
	f.RemoteModTime = entry.ModTime
	f.RemoteSize = entry.Size
	f.RemoteETag = entry.ETag
	f.ObservedAt = at
}
