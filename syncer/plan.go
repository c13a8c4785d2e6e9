package syncer

import (
	"context"
	"path"
	"sort"
	"strings"

	"github.com/amonks/tasks/remote"
	"github.com/amonks/tasks/store"
)

// side describes how one copy of a file changed since the last sync.
type side int

const (
	sideAbsent side = iota
	sideUnchanged
	sideAdded
	sideModified
	sideDeleted
	// sideUnverified is a remote file whose attributes cannot tell
	// whether it changed.
	sideUnverified
)

func (s side) changed() bool {
	return s.edited() || s == sideDeleted
}

func (s side) edited() bool {
	return s == sideAdded || s == sideModified || s == sideUnverified
}

type action int

const (
	actionNone action = iota
	actionUpload
	actionDownload
	actionDeleteLocal
	actionDeleteRemote
	actionResolve
	actionForget
)

type planItem struct {
	path   string
	local  side
	remote side
	action action
}

type plan struct {
	local      map[string]localFile
	remote     map[string]remote.Entry
	remoteDirs []string
	items      []planItem
}

func (e *Engine) plan(ctx context.Context, state *syncState) (*plan, error) {
	local, _, err := e.walkLocal()
	if err != nil {
		return nil, err
	}
	remoteFiles, remoteDirs, err := e.walkRemote(ctx)
	if err != nil {
		// A missing base is an empty remote only before the first sync;
		// afterwards it would read as every file deleted remotely.
		if !e.remoteMissing(ctx, err) || len(state.Files) > 0 {
			return nil, err
		}
		remoteFiles = map[string]remote.Entry{}
	}

	p := &plan{local: local, remote: remoteFiles, remoteDirs: remoteDirs}
	for _, rel := range unionKeys(local, remoteFiles, state.Files) {
		file, inLocal := local[rel]
		entry, inRemote := remoteFiles[rel]
		item := planItem{
			path:   rel,
			local:  localSide(file, inLocal, state.Files, rel),
			remote: remoteSide(entry, inRemote, state.Files, rel),
		}
		item.action = decide(item.local, item.remote)
		p.items = append(p.items, item)
	}
	keepListMetadata(p.items)
	return p, nil
}

// keepListMetadata restores a list's metadata file instead of deleting it
// when the other side still adds or edits a file in that list. Without it
// the surviving task would land in a directory that is not a list.
func keepListMetadata(items []planItem) {
	live := make(map[string]map[action]bool)
	for _, item := range items {
		if path.Base(item.path) == store.ListMetadataFile {
			continue
		}
		switch item.action {
		case actionUpload, actionDownload, actionResolve:
		default:
			continue
		}
		for dir := path.Dir(item.path); dir != "."; dir = path.Dir(dir) {
			if live[dir] == nil {
				live[dir] = make(map[action]bool)
			}
			live[dir][item.action] = true
		}
	}

	for i, item := range items {
		if path.Base(item.path) != store.ListMetadataFile {
			continue
		}
		dir := path.Dir(item.path)
		if dir == "." || strings.Contains(dir, "/") {
			continue
		}
		kept := live[dir]
		switch {
		case item.action == actionDeleteRemote && (kept[actionDownload] || kept[actionResolve]):
			items[i].action = actionDownload
		case item.action == actionDeleteLocal && (kept[actionUpload] || kept[actionResolve]):
			items[i].action = actionUpload
		}
	}
}

func localSide(file localFile, present bool, known map[string]fileState, rel string) side {
	prev, tracked := known[rel]
	switch {
	case present && !tracked:
		return sideAdded
	case present && prev.Hash != file.hash:
		return sideModified
	case present:
		return sideUnchanged
	case tracked:
		return sideDeleted
	default:
		return sideAbsent
	}
}

func remoteSide(entry remote.Entry, present bool, known map[string]fileState, rel string) side {
	prev, tracked := known[rel]
	switch {
	case present && !tracked:
		return sideAdded
	case present && prev.remoteChanged(entry):
		return sideModified
	case present && prev.remoteUnverified(entry):
		return sideUnverified
	case present:
		return sideUnchanged
	case tracked:
		return sideDeleted
	default:
		return sideAbsent
	}
}

func decide(local, remote side) action {
	switch {
	case local.edited() && remote.edited():
		return actionResolve
	case local.edited():
		// Covers a remote deletion too: the edited copy wins.
		return actionUpload
	case remote.edited():
		return actionDownload
	case local == sideDeleted && remote == sideDeleted:
		return actionForget
	case local == sideDeleted:
		return actionDeleteRemote
	case remote == sideDeleted:
		return actionDeleteLocal
	default:
		return actionNone
	}
}

func unionKeys(local map[string]localFile, remoteFiles map[string]remote.Entry, known map[string]fileState) []string {
	seen := make(map[string]bool)
	for k := range local {
		seen[k] = true
	}
	for k := range remoteFiles {
		seen[k] = true
	}
	for k := range known {
		seen[k] = true
	}
	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
