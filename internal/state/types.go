// Package state manages the shared tasks state file.
//
// The state file (~/.local/state/tasks/state.json) records the known
// workspaces, which one is current, and where each one syncs to. All
// writes are serialized through a lock file so several tasks processes can
// update it safely.
package state

import "time"

// State represents the persisted state file.
type State struct {
	Workspaces map[string]WorkspaceInfo `json:"workspaces"`
	Current    string                   `json:"current_workspace,omitempty"`
}

// WorkspaceInfo stores information about a registered workspace.
type WorkspaceInfo struct {
	Path      string     `json:"path"`
	WebDAVURL string     `json:"webdav_url,omitempty"`
	Username  string     `json:"username,omitempty"`
	BasePath  string     `json:"base_path,omitempty"`
	LastSync  *time.Time `json:"last_sync,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// SyncConfigured reports whether a remote has been set up for the workspace.
func (w WorkspaceInfo) SyncConfigured() bool {
	return w.WebDAVURL != ""
}
