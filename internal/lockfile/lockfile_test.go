package lockfile

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestAcquireCreatesLockFile(t *testing.T) {
	root := t.TempDir()

	lock, err := Acquire(context.Background(), root, time.Second)
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	defer lock.Release()

	if _, err := os.Stat(filepath.Join(root, Name)); err != nil {
		t.Fatalf("expected lock file: %v", err)
	}
}

func TestAcquireTimesOutWhileHeld(t *testing.T) {
	root := t.TempDir()

	held, err := Acquire(context.Background(), root, time.Second)
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	defer held.Release()

	_, err = Acquire(context.Background(), root, 150*time.Millisecond)
	if !errors.Is(err, ErrLocked) {
		t.Fatalf("expected ErrLocked, got %v", err)
	}
}

func TestReleaseAllowsNextWriter(t *testing.T) {
	root := t.TempDir()

	first, err := Acquire(context.Background(), root, time.Second)
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	if err := first.Release(); err != nil {
		t.Fatalf("release: %v", err)
	}
	if err := first.Release(); err != nil {
		t.Fatalf("second release: %v", err)
	}

	second, err := Acquire(context.Background(), root, time.Second)
	if err != nil {
		t.Fatalf("acquire after release: %v", err)
	}
	defer second.Release()
}
