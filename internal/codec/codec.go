// Package codec converts tasks to and from their markdown documents and
// list and workspace metadata to and from their JSON records.
//
// A task document is a YAML header between two "---" delimiters followed
// by the description:
//
//	---
//	id: 5f0c...
//	status: backlog
//	created: 2025-03-01T00:00:00Z
//	updated: 2025-03-01T00:00:00Z
//	---
//
//	Pick up oat milk too.
//
// The title is not stored in the document; it comes from the file name.
package codec

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/amonks/tasks/task"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

const delimiter = "---"

// header is the YAML record at the top of a task document.
type header struct {
	ID      string     `yaml:"id"`
	Status  string     `yaml:"status"`
	Due     *time.Time `yaml:"due,omitempty"`
	Created time.Time  `yaml:"created"`
	Updated time.Time  `yaml:"updated"`
	Parent  string     `yaml:"parent,omitempty"`
}

// EncodeTask renders t as a task document. The description is trimmed of
// surrounding whitespace, matching what DecodeTask returns.
func EncodeTask(t task.Task) ([]byte, error) {
	h := header{
		ID:      t.ID.String(),
		Status:  string(t.Status),
		Created: t.CreatedAt.UTC(),
		Updated: t.UpdatedAt.UTC(),
	}
	if t.Due != nil {
		due := t.Due.UTC()
		h.Due = &due
	}
	if t.ParentID != nil {
		h.Parent = t.ParentID.String()
	}

	var buf bytes.Buffer
	buf.WriteString(delimiter + "\n")
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(h); err != nil {
		return nil, fmt.Errorf("encode task header: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode task header: %w", err)
	}
	buf.WriteString(delimiter + "\n\n")
	buf.WriteString(strings.TrimSpace(t.Description))
	buf.WriteString("\n")
	return buf.Bytes(), nil
}

// DecodeTask parses a task document. The title is supplied by the caller.
func DecodeTask(title string, data []byte) (task.Task, error) {
	parts := strings.SplitN(string(data), delimiter, 3)
	if len(parts) < 3 {
		return task.Task{}, fmt.Errorf("%w: missing header delimiters", task.ErrDecode)
	}

	var h header
	if err := yaml.Unmarshal([]byte(strings.TrimSpace(parts[1])), &h); err != nil {
		return task.Task{}, fmt.Errorf("%w: parse header: %w", task.ErrDecode, err)
	}

	id, err := uuid.Parse(h.ID)
	if err != nil {
		return task.Task{}, fmt.Errorf("%w: id %q: %w", task.ErrDecode, h.ID, err)
	}
	status := task.Status(h.Status)
	if !status.IsValid() {
		return task.Task{}, fmt.Errorf("%w: unknown status %q", task.ErrDecode, h.Status)
	}

	t := task.Task{
		ID:          id,
		Title:       title,
		Description: strings.TrimSpace(parts[2]),
		Status:      status,
		CreatedAt:   h.Created.UTC(),
		UpdatedAt:   h.Updated.UTC(),
	}
	if h.Due != nil {
		due := h.Due.UTC()
		t.Due = &due
	}
	if h.Parent != "" {
		parent, err := uuid.Parse(h.Parent)
		if err != nil {
			return task.Task{}, fmt.Errorf("%w: parent %q: %w", task.ErrDecode, h.Parent, err)
		}
		t.ParentID = &parent
	}
	return t, nil
}

// EncodeListMetadata renders list metadata as indented JSON.
func EncodeListMetadata(meta task.ListMetadata) ([]byte, error) {
	if meta.TaskOrder == nil {
		meta.TaskOrder = []uuid.UUID{}
	}
	return encodeJSON(meta)
}

// DecodeListMetadata parses a .listdata.json record.
func DecodeListMetadata(data []byte) (task.ListMetadata, error) {
	var meta task.ListMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return task.ListMetadata{}, fmt.Errorf("%w: list metadata: %w", task.ErrDecode, err)
	}
	if meta.TaskOrder == nil {
		meta.TaskOrder = []uuid.UUID{}
	}
	meta.CreatedAt = meta.CreatedAt.UTC()
	meta.UpdatedAt = meta.UpdatedAt.UTC()
	return meta, nil
}

// EncodeWorkspaceMetadata renders workspace metadata as indented JSON.
func EncodeWorkspaceMetadata(meta task.WorkspaceMetadata) ([]byte, error) {
	if meta.ListOrder == nil {
		meta.ListOrder = []uuid.UUID{}
	}
	return encodeJSON(meta)
}

// DecodeWorkspaceMetadata parses a .metadata.json record.
func DecodeWorkspaceMetadata(data []byte) (task.WorkspaceMetadata, error) {
	var meta task.WorkspaceMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return task.WorkspaceMetadata{}, fmt.Errorf("%w: workspace metadata: %w", task.ErrDecode, err)
	}
	if meta.ListOrder == nil {
		meta.ListOrder = []uuid.UUID{}
	}
	return meta, nil
}

func encodeJSON(v any) ([]byte, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode metadata: %w", err)
	}
	return append(data, '\n'), nil
}
