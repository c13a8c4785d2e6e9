// Package workspace keeps the registry of task workspaces.
//
// A workspace is a named directory holding a task tree. The registry records
// where each one lives, which one commands act on by default, and how each
// one reaches its WebDAV mirror.
//
// # Basic Usage
//
//	reg, err := workspace.Open()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	if _, err := reg.Add("personal", "/home/me/tasks"); err != nil {
//	    log.Fatal(err)
//	}
//
//	ws, err := reg.Resolve("") // the current workspace
//
// # Storage
//
// The registry lives in ~/.local/state/tasks/state.json. Every change goes
// through a file lock so concurrent tasks processes do not lose updates.
package workspace
