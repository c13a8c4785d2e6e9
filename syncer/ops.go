package syncer

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/amonks/tasks/internal/atomicfile"
	"github.com/amonks/tasks/remote"
	"github.com/amonks/tasks/task"
)

// Push uploads every local file, overwriting the remote copy. Dot files
// are skipped except the workspace and list metadata files, which are
// mirrored so that a pulled tree opens as a workspace.
func (e *Engine) Push(ctx context.Context) (result Result, err error) {
	state, err := e.loadState()
	if err != nil {
		return Result{}, err
	}
	defer e.finish("push", state, &result, &err)

	local, order, err := e.walkLocal()
	if err != nil {
		return result, err
	}
	for _, rel := range order {
		file := local[rel]
		if err := e.upload(ctx, file); err != nil {
			return result, err
		}
		state.Files[rel] = fileState{Hash: file.hash}
		result.Uploaded = append(result.Uploaded, rel)
	}
	return result, e.observeUploads(ctx, state, result.Uploaded)
}

// Pull downloads every remote file, overwriting the local copy.
func (e *Engine) Pull(ctx context.Context) (result Result, err error) {
	state, err := e.loadState()
	if err != nil {
		return Result{}, err
	}
	defer e.finish("pull", state, &result, &err)

	files, _, err := e.walkRemote(ctx)
	if err != nil {
		if e.remoteMissing(ctx, err) {
			return result, nil
		}
		return result, err
	}
	for _, rel := range sortedKeys(files) {
		entry := files[rel]
		data, err := e.download(ctx, rel)
		if err != nil {
			return result, err
		}
		if err := e.writeLocal(rel, data); err != nil {
			return result, err
		}
		st := fileState{Hash: hashContent(data)}
		st.observeRemote(entry, e.now())
		state.Files[rel] = st
		result.Downloaded = append(result.Downloaded, rel)
	}
	return result, nil
}

// Sync reconciles both sides against the last sync:
//
//   - a file changed on one side only is copied to the other;
//   - a file deleted on one side and unchanged on the other is deleted;
//   - a file deleted on one side and changed on the other is restored;
//   - a file changed on both sides goes to the side with the newer
//     modification time, and is left alone when the times are equal.
func (e *Engine) Sync(ctx context.Context) (result Result, err error) {
	state, err := e.loadState()
	if err != nil {
		return Result{}, err
	}
	defer e.finish("sync", state, &result, &err)

	p, err := e.plan(ctx, state)
	if err != nil {
		return result, err
	}
	if err := e.verifyRemote(ctx, state, p); err != nil {
		return result, err
	}

	var deletedRemote []string
	for _, item := range p.items {
		rel := item.path
		switch item.action {
		case actionNone:
			result.Unchanged++
		case actionForget:
			delete(state.Files, rel)
		case actionUpload:
			file := p.local[rel]
			if err := e.upload(ctx, file); err != nil {
				return result, err
			}
			state.Files[rel] = fileState{Hash: file.hash}
			result.Uploaded = append(result.Uploaded, rel)
		case actionDownload:
			entry := p.remote[rel]
			data, err := e.download(ctx, rel)
			if err != nil {
				return result, err
			}
			if err := e.writeLocal(rel, data); err != nil {
				return result, err
			}
			st := fileState{Hash: hashContent(data)}
			st.observeRemote(entry, e.now())
			state.Files[rel] = st
			result.Downloaded = append(result.Downloaded, rel)
		case actionDeleteLocal:
			if err := e.deleteLocal(rel); err != nil {
				return result, err
			}
			delete(state.Files, rel)
			result.DeletedLocal = append(result.DeletedLocal, rel)
		case actionDeleteRemote:
			e.logger.Debug("delete remote", "path", rel)
			if err := e.transport.Delete(ctx, rel); err != nil {
				return result, fmt.Errorf("delete %s: %w", rel, err)
			}
			delete(state.Files, rel)
			result.DeletedRemote = append(result.DeletedRemote, rel)
			deletedRemote = append(deletedRemote, rel)
		case actionResolve:
			uploaded, err := e.resolve(ctx, state, p, rel, &result)
			if err != nil {
				return result, err
			}
			if uploaded {
				result.Uploaded = append(result.Uploaded, rel)
			}
		}
	}

	if err := e.pruneRemoteDirs(ctx, p, deletedRemote); err != nil {
		return result, err
	}
	return result, e.observeUploads(ctx, state, result.Uploaded)
}

// verifyRemote settles unverified remote files by comparing their content
// with the last synced hash, then decides the plan again.
func (e *Engine) verifyRemote(ctx context.Context, state *syncState, p *plan) error {
	verified := false
	for i := range p.items {
		item := &p.items[i]
		if item.remote != sideUnverified {
			continue
		}
		verified = true
		data, err := e.download(ctx, item.path)
		if err != nil {
			return err
		}
		st := state.Files[item.path]
		if hashContent(data) != st.Hash {
			item.remote = sideModified
			continue
		}
		item.remote = sideUnchanged
		st.observeRemote(p.remote[item.path], e.now())
		state.Files[item.path] = st
	}
	if !verified {
		return nil
	}
	for i := range p.items {
		p.items[i].action = decide(p.items[i].local, p.items[i].remote)
	}
	keepListMetadata(p.items)
	return nil
}

// resolve settles a file changed on both sides. Identical content is
// recorded as in sync without a transfer back.
func (e *Engine) resolve(ctx context.Context, state *syncState, p *plan, rel string, result *Result) (uploaded bool, err error) {
	file := p.local[rel]
	entry := p.remote[rel]

	data, err := e.download(ctx, rel)
	if err != nil {
		return false, err
	}
	if hashContent(data) == file.hash {
		st := fileState{Hash: file.hash}
		st.observeRemote(entry, e.now())
		state.Files[rel] = st
		result.Unchanged++
		return false, nil
	}

	// WebDAV reports modification times to the second.
	resolution := CompareTimestamps(file.modTime.Truncate(time.Second), entry.ModTime.Truncate(time.Second))
	result.Conflicts = append(result.Conflicts, Conflict{Path: rel, Resolution: resolution})
	e.logger.Info("conflict", "path", rel, "resolution", resolution.String())

	switch resolution {
	case UseLocal:
		if err := e.upload(ctx, file); err != nil {
			return false, err
		}
		state.Files[rel] = fileState{Hash: file.hash}
		return true, nil
	case UseRemote:
		if err := e.writeLocal(rel, data); err != nil {
			return false, err
		}
		st := fileState{Hash: hashContent(data)}
		st.observeRemote(entry, e.now())
		state.Files[rel] = st
		result.Downloaded = append(result.Downloaded, rel)
		return false, nil
	default:
		return false, nil
	}
}

// Status reports connectivity and pending changes without transferring.
func (e *Engine) Status(ctx context.Context) (Status, error) {
	state, err := e.loadState()
	if err != nil {
		return Status{}, err
	}
	status := Status{LastSync: state.LastSync}

	connected, err := e.transport.Exists(ctx, "")
	if err != nil {
		e.logger.Debug("remote unreachable", "error", err)
	}
	status.Connected = err == nil && connected

	if !status.Connected {
		local, _, err := e.walkLocal()
		if err != nil {
			return status, err
		}
		for _, rel := range unionKeys(local, nil, state.Files) {
			_, present := local[rel]
			if localSide(local[rel], present, state.Files, rel) != sideUnchanged {
				status.LocalChanges++
			}
		}
		return status, nil
	}

	p, err := e.plan(ctx, state)
	if err != nil {
		return status, err
	}
	for _, item := range p.items {
		if item.local.changed() {
			status.LocalChanges++
		}
		if item.remote.changed() && item.remote != sideUnverified {
			status.RemoteChanges++
		}
	}
	return status, nil
}

func (e *Engine) upload(ctx context.Context, file localFile) error {
	e.logger.Debug("upload", "path", file.path, "bytes", len(file.data))
	if err := e.transport.Upload(ctx, file.path, file.data); err != nil {
		return fmt.Errorf("upload %s: %w", file.path, err)
	}
	return nil
}

func (e *Engine) download(ctx context.Context, rel string) ([]byte, error) {
	e.logger.Debug("download", "path", rel)
	data, err := e.transport.Download(ctx, rel)
	if err != nil {
		return nil, fmt.Errorf("download %s: %w", rel, err)
	}
	return data, nil
}

func (e *Engine) writeLocal(rel string, data []byte) error {
	target := e.localPath(rel)
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("create %s: %w: %w", path.Dir(rel), task.ErrIO, err)
	}
	if err := atomicfile.Write(target, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w: %w", rel, task.ErrIO, err)
	}
	return nil
}

func (e *Engine) deleteLocal(rel string) error {
	e.logger.Debug("delete local", "path", rel)
	if err := os.Remove(e.localPath(rel)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete %s: %w: %w", rel, task.ErrIO, err)
	}
	e.removeEmptyParents(rel)
	return nil
}

// observeUploads records the remote attributes of freshly uploaded files,
// so the next sync does not mistake them for remote edits.
func (e *Engine) observeUploads(ctx context.Context, state *syncState, uploaded []string) error {
	if len(uploaded) == 0 {
		return nil
	}
	files, _, err := e.walkRemote(ctx)
	if err != nil {
		return err
	}
	for _, rel := range uploaded {
		entry, ok := files[rel]
		if !ok {
			continue
		}
		st := state.Files[rel]
		st.observeRemote(entry, e.now())
		state.Files[rel] = st
	}
	return nil
}

// pruneRemoteDirs deletes remote collections left empty by remote
// deletions whose local directory no longer exists.
func (e *Engine) pruneRemoteDirs(ctx context.Context, p *plan, deleted []string) error {
	if len(deleted) == 0 {
		return nil
	}
	gone := make(map[string]bool)
	for _, rel := range deleted {
		gone[rel] = true
	}

	dirs := append([]string(nil), p.remoteDirs...)
	sort.Slice(dirs, func(i, j int) bool {
		return strings.Count(dirs[i], "/") > strings.Count(dirs[j], "/")
	})
	removed := make(map[string]bool)
	for _, dir := range dirs {
		if _, err := os.Stat(e.localPath(dir)); err == nil {
			continue
		}
		if !e.remoteDirEmpty(p, dir, gone, removed) {
			continue
		}
		e.logger.Debug("delete remote collection", "path", dir)
		if err := e.transport.Delete(ctx, dir); err != nil {
			return fmt.Errorf("delete %s: %w", dir, err)
		}
		removed[dir] = true
	}
	return nil
}

func (e *Engine) remoteDirEmpty(p *plan, dir string, gone, removed map[string]bool) bool {
	prefix := dir + "/"
	for rel := range p.remote {
		if strings.HasPrefix(rel, prefix) && !gone[rel] {
			return false
		}
	}
	for _, other := range p.remoteDirs {
		if strings.HasPrefix(other, prefix) && !removed[other] {
			return false
		}
	}
	return true
}

// finish stamps and saves the sync state, also after a failure, so the
// manifest records whatever completed.
func (e *Engine) finish(op string, state *syncState, result *Result, errp *error) {
	if *errp == nil {
		now := e.now().UTC()
		state.LastSync = &now
	}
	if err := e.saveState(state); err != nil && *errp == nil {
		*errp = err
	}
	if *errp != nil {
		e.logger.Warn(op+" failed", "error", *errp, "uploaded", len(result.Uploaded), "downloaded", len(result.Downloaded))
		return
	}
	e.logger.Info(op+" complete",
		"uploaded", len(result.Uploaded),
		"downloaded", len(result.Downloaded),
		"deleted_local", len(result.DeletedLocal),
		"deleted_remote", len(result.DeletedRemote),
		"conflicts", len(result.Conflicts),
		"unchanged", result.Unchanged,
	)
}

func sortedKeys(m map[string]remote.Entry) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
