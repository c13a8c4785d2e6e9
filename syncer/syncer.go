// Package syncer reconciles a local workspace directory with a remote
// WebDAV mirror.
//
// Push and Pull copy every file in one direction, overwriting whatever is
// on the other side. Sync compares both trees with a manifest of what each
// file looked like at the last sync, copies one-sided changes, propagates
// deletions, and settles files changed on both sides by modification time.
//
// Transfers are sequential. A transport failure stops the operation and is
// returned; work completed before the failure is kept and recorded.
package syncer

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/amonks/tasks/remote"
)

// Transport is the remote side of a sync.
type Transport interface {
	Upload(ctx context.Context, rel string, data []byte) error
	Download(ctx context.Context, rel string) ([]byte, error)
	Delete(ctx context.Context, rel string) error
	List(ctx context.Context, rel string, depth remote.Depth) ([]remote.Entry, error)
	Exists(ctx context.Context, rel string) (bool, error)
}

var _ Transport = (*remote.Client)(nil)

// Engine syncs one workspace root.
type Engine struct {
	root      string
	transport Transport
	logger    *slog.Logger
	now       func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger. Transfers are logged at debug level and
// operation summaries at info level.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithClock sets the clock used to stamp the last sync time.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// New returns an engine for the workspace at root.
func New(root string, transport Transport, opts ...Option) *Engine {
	e := &Engine{
		root:      root,
		transport: transport,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Result describes what an operation did. Paths are relative to the
// workspace root and use forward slashes.
type Result struct {
	Uploaded      []string
	Downloaded    []string
	DeletedLocal  []string
	DeletedRemote []string
	Conflicts     []Conflict
	Unchanged     int
}

// TotalChanges counts transfers and deletions.
func (r Result) TotalChanges() int {
	return len(r.Uploaded) + len(r.Downloaded) + len(r.DeletedLocal) + len(r.DeletedRemote)
}

// Conflict is a file changed on both sides since the last sync.
type Conflict struct {
	Path       string
	Resolution Resolution
}

// Status summarizes pending work.
type Status struct {
	// Connected is false when the remote base could not be reached.
	Connected bool
	// LocalChanges counts files added, modified or deleted locally since
	// the last sync.
	LocalChanges int
	// RemoteChanges counts the same on the remote. It is zero when not
	// connected.
	RemoteChanges int
	// LastSync is when the workspace last completed a push, pull or sync.
	LastSync *time.Time
}

// Resolution says which copy of a conflicting file wins.
type Resolution int

const (
	// NoConflict means neither copy is newer; both are left alone.
	NoConflict Resolution = iota
	// UseLocal means the local copy is newer.
	UseLocal
	// UseRemote means the remote copy is newer.
	UseRemote
)

func (r Resolution) String() string {
	switch r {
	case UseLocal:
		return "local"
	case UseRemote:
		return "remote"
	default:
		return "none"
	}
}

// CompareTimestamps picks the newer side. Equal times are not a conflict.
func CompareTimestamps(local, remote time.Time) Resolution {
	switch {
	case local.After(remote):
		return UseLocal
	case remote.After(local):
		return UseRemote
	default:
		return NoConflict
	}
}
