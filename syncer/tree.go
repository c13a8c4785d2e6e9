package syncer

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/amonks/tasks/remote"
	"github.com/amonks/tasks/store"
	"github.com/amonks/tasks/task"
)

// syncable reports whether an entry name takes part in sync. Dot-prefixed
// names are local bookkeeping (sync state, locks, temp files), except the
// workspace and list metadata records, which a mirror needs to be usable.
func syncable(name string) bool {
	if name == store.WorkspaceMetadataFile || name == store.ListMetadataFile {
		return true
	}
	return !strings.HasPrefix(name, ".")
}

// syncablePath applies syncable to every segment of a slash-separated path
// and rejects paths that would leave the root.
func syncablePath(rel string) bool {
	if rel == "" {
		return false
	}
	segments := strings.Split(rel, "/")
	for i, segment := range segments {
		if segment == "" || segment == "." || segment == ".." {
			return false
		}
		if i < len(segments)-1 && strings.HasPrefix(segment, ".") {
			return false
		}
	}
	return syncable(segments[len(segments)-1])
}

type localFile struct {
	path    string
	modTime time.Time
	hash    string
	data    []byte
}

// walkLocal reads every syncable file under root, keyed by relative path.
func (e *Engine) walkLocal() (map[string]localFile, []string, error) {
	files := make(map[string]localFile)
	var order []string
	err := filepath.WalkDir(e.root, func(abs string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if abs == e.root {
			return nil
		}
		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() || !syncable(d.Name()) {
			return nil
		}
		rel, err := filepath.Rel(e.root, abs)
		if err != nil {
			return err
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		data, err := os.ReadFile(abs)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		files[rel] = localFile{
			path:    rel,
			modTime: info.ModTime().UTC(),
			hash:    hashContent(data),
			data:    data,
		}
		order = append(order, rel)
		return nil
	})
	if errors.Is(err, fs.ErrNotExist) {
		return files, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("walk workspace: %w: %w", task.ErrIO, err)
	}
	return files, order, nil
}

// walkRemote lists every syncable file and collection on the remote.
func (e *Engine) walkRemote(ctx context.Context) (map[string]remote.Entry, []string, error) {
	entries, err := e.transport.List(ctx, "", remote.DepthInfinity)
	if err != nil {
		return nil, nil, fmt.Errorf("list remote: %w", err)
	}
	files := make(map[string]remote.Entry)
	var dirs []string
	for _, entry := range entries {
		rel := strings.Trim(entry.Path, "/")
		if entry.IsDir {
			if !strings.HasPrefix(path.Base(rel), ".") && syncablePath(rel) {
				dirs = append(dirs, rel)
			}
			continue
		}
		if !syncablePath(rel) {
			e.logger.Debug("skip remote entry", "path", entry.Path)
			continue
		}
		entry.Path = rel
		files[rel] = entry
	}
	return files, dirs, nil
}

// remoteMissing reports whether err came from a base collection that does
// not exist yet.
func (e *Engine) remoteMissing(ctx context.Context, err error) bool {
	if !errors.Is(err, remote.ErrNotFound) {
		return false
	}
	exists, existsErr := e.transport.Exists(ctx, "")
	return existsErr == nil && !exists
}

func (e *Engine) localPath(rel string) string {
	return filepath.Join(e.root, filepath.FromSlash(rel))
}

// removeEmptyParents removes directories between rel's parent and the root
// that have become empty.
func (e *Engine) removeEmptyParents(rel string) {
	dir := path.Dir(rel)
	for dir != "." && dir != "/" && dir != "" {
		if err := os.Remove(e.localPath(dir)); err != nil {
			return
		}
		dir = path.Dir(dir)
	}
}

func hashContent(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
