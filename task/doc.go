// Package task defines the entities stored in a tasks workspace.
//
// A workspace is a directory tree: one subdirectory per list, one markdown
// document per task, plus two reserved metadata files (.metadata.json at the
// root and .listdata.json inside each list directory).
//
// This package holds only the entity types, their status transitions, and
// the error kinds shared by the storage, repository and sync layers. It does
// no I/O.
package task
