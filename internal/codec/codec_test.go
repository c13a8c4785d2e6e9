package codec

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/amonks/tasks/task"
	"github.com/google/uuid"
)

func sampleTask() task.Task {
	created := time.Date(2025, 2, 1, 9, 30, 15, 123456789, time.UTC)
	due := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	parent := uuid.New()
	return task.Task{
		ID:          uuid.New(),
		Title:       "Buy milk",
		Description: "Oat milk.\n\n---\n\nNot dairy.",
		Status:      task.StatusCompleted,
		Due:         &due,
		CreatedAt:   created,
		UpdatedAt:   created.Add(time.Minute),
		ParentID:    &parent,
	}
}

func TestTaskRoundTrip(t *testing.T) {
	want := sampleTask()

	data, err := EncodeTask(want)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := DecodeTask(want.Title, data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	if got.ID != want.ID {
		t.Fatalf("id = %v, want %v", got.ID, want.ID)
	}
	if got.Title != want.Title {
		t.Fatalf("title = %q, want %q", got.Title, want.Title)
	}
	if got.Description != want.Description {
		t.Fatalf("description = %q, want %q", got.Description, want.Description)
	}
	if got.Status != want.Status {
		t.Fatalf("status = %q, want %q", got.Status, want.Status)
	}
	if got.Due == nil || !got.Due.Equal(*want.Due) {
		t.Fatalf("due = %v, want %v", got.Due, want.Due)
	}
	if !got.CreatedAt.Equal(want.CreatedAt) || !got.UpdatedAt.Equal(want.UpdatedAt) {
		t.Fatalf("timestamps = %v/%v, want %v/%v", got.CreatedAt, got.UpdatedAt, want.CreatedAt, want.UpdatedAt)
	}
	if got.ParentID == nil || *got.ParentID != *want.ParentID {
		t.Fatalf("parent = %v, want %v", got.ParentID, want.ParentID)
	}
}

func TestTaskRoundTripOptionalFieldsUnset(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	want := task.New("Plain", now)

	data, err := EncodeTask(want)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	text := string(data)
	if strings.Contains(text, "due:") || strings.Contains(text, "parent:") {
		t.Fatalf("expected optional fields omitted, got:\n%s", text)
	}

	got, err := DecodeTask("Plain", data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Due != nil || got.ParentID != nil {
		t.Fatalf("expected unset optional fields, got due=%v parent=%v", got.Due, got.ParentID)
	}
	if got.Description != "" {
		t.Fatalf("expected empty description, got %q", got.Description)
	}
	if got.Status != task.StatusOpen {
		t.Fatalf("status = %q", got.Status)
	}
}

func TestEncodeTaskLayout(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	tk := task.New("Layout", now)
	tk.Description = "body"

	data, err := EncodeTask(tk)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	text := string(data)
	if !strings.HasPrefix(text, "---\nid: ") {
		t.Fatalf("expected document to open with header, got:\n%s", text)
	}
	if !strings.HasSuffix(text, "---\n\nbody\n") {
		t.Fatalf("expected closing delimiter then body, got:\n%s", text)
	}
	if !strings.Contains(text, "status: backlog\n") {
		t.Fatalf("expected open status written as backlog, got:\n%s", text)
	}
}

func TestDecodeTaskErrors(t *testing.T) {
	id := uuid.New().String()
	tests := []struct {
		name string
		data string
	}{
		{"no delimiters", "just some text"},
		{"one delimiter", "---\nid: " + id + "\n"},
		{"bad yaml", "---\nid: [unterminated\n---\n"},
		{"bad id", "---\nid: nope\nstatus: backlog\ncreated: 2025-01-01T00:00:00Z\nupdated: 2025-01-01T00:00:00Z\n---\n"},
		{"bad status", "---\nid: " + id + "\nstatus: doing\ncreated: 2025-01-01T00:00:00Z\nupdated: 2025-01-01T00:00:00Z\n---\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeTask("x", []byte(tt.data))
			if !errors.Is(err, task.ErrDecode) {
				t.Fatalf("expected ErrDecode, got %v", err)
			}
		})
	}
}

func TestListMetadataRoundTrip(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	want := task.NewListMetadata(uuid.New(), now)
	want.TaskOrder = []uuid.UUID{uuid.New(), uuid.New()}
	want.GroupByDueDate = true
	want.Archived = true

	data, err := EncodeListMetadata(want)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := DecodeListMetadata(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.ID != want.ID || !got.CreatedAt.Equal(want.CreatedAt) || !got.UpdatedAt.Equal(want.UpdatedAt) {
		t.Fatalf("got %+v, want %+v", got, want)
	}
	if !got.GroupByDueDate || !got.Archived {
		t.Fatalf("flags lost: %+v", got)
	}
	if len(got.TaskOrder) != 2 || got.TaskOrder[0] != want.TaskOrder[0] || got.TaskOrder[1] != want.TaskOrder[1] {
		t.Fatalf("task order = %v, want %v", got.TaskOrder, want.TaskOrder)
	}
}

func TestListMetadataAbsentFieldsUnset(t *testing.T) {
	id := uuid.New()
	data := `{"id":"` + id.String() + `","created_at":"2025-01-01T00:00:00Z","updated_at":"2025-01-01T00:00:00Z"}`

	got, err := DecodeListMetadata([]byte(data))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.ID != id || got.Archived || got.GroupByDueDate {
		t.Fatalf("unexpected metadata %+v", got)
	}
	if got.TaskOrder == nil || len(got.TaskOrder) != 0 {
		t.Fatalf("expected empty task order, got %v", got.TaskOrder)
	}
}

func TestWorkspaceMetadataRoundTrip(t *testing.T) {
	last := uuid.New()
	want := task.WorkspaceMetadata{
		Version:        task.MetadataVersion,
		ListOrder:      []uuid.UUID{last, uuid.New()},
		LastOpenedList: &last,
	}

	data, err := EncodeWorkspaceMetadata(want)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := DecodeWorkspaceMetadata(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Version != want.Version || len(got.ListOrder) != 2 || got.LastOpenedList == nil || *got.LastOpenedList != last {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestDefaultWorkspaceMetadataEncoding(t *testing.T) {
	data, err := EncodeWorkspaceMetadata(task.DefaultWorkspaceMetadata())
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	text := string(data)
	for _, want := range []string{`"version": 1`, `"list_order": []`, `"last_opened_list": null`} {
		if !strings.Contains(text, want) {
			t.Fatalf("expected %s in %s", want, text)
		}
	}
}

func TestDecodeMetadataErrors(t *testing.T) {
	if _, err := DecodeListMetadata([]byte("{")); !errors.Is(err, task.ErrDecode) {
		t.Fatalf("expected ErrDecode, got %v", err)
	}
	if _, err := DecodeWorkspaceMetadata([]byte("not json")); !errors.Is(err, task.ErrDecode) {
		t.Fatalf("expected ErrDecode, got %v", err)
	}
}
