// Package lockfile serializes writers of a workspace directory.
//
// The lock is advisory: processes that use this package wait for each other,
// anything else editing the tree is not excluded.
package lockfile

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
)

// Name is the lock file kept in a workspace root.
const Name = ".lock"

// DefaultTimeout bounds how long Acquire waits for another writer.
const DefaultTimeout = 5 * time.Second

const retryDelay = 50 * time.Millisecond

// ErrLocked indicates another process held the lock past the timeout.
var ErrLocked = errors.New("workspace is locked by another process")

// Lock is a held workspace lock.
type Lock struct {
	flk *flock.Flock
}

// Acquire takes the exclusive lock for the workspace at root, waiting up to
// timeout. A zero timeout uses DefaultTimeout.
func Acquire(ctx context.Context, root string, timeout time.Duration) (*Lock, error) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	path := filepath.Join(root, Name)
	flk := flock.New(path)
	locked, err := flk.TryLockContext(ctx, retryDelay)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("lock %s: %w", path, ErrLocked)
		}
		return nil, fmt.Errorf("lock %s: %w", path, err)
	}
	if !locked {
		return nil, fmt.Errorf("lock %s: %w", path, ErrLocked)
	}
	return &Lock{flk: flk}, nil
}

// Release drops the lock. It is safe to call more than once.
func (l *Lock) Release() error {
	if l == nil || l.flk == nil {
		return nil
	}
	if err := l.flk.Unlock(); err != nil {
		return fmt.Errorf("unlock %s: %w", l.flk.Path(), err)
	}
	return nil
}
