package task

import (
	"time"

	"github.com/google/uuid"
)

// Task represents a single task.
type Task struct {
	// ID is assigned at creation and never changes.
	ID uuid.UUID `json:"id"`
	// Title is the short summary; it also names the task's file on disk.
	Title string `json:"title"`
	// Description is the free-text body of the task document.
	Description string `json:"description"`
	// Status is either open or completed.
	Status Status `json:"status"`
	// Due is the optional due timestamp.
	Due *time.Time `json:"due,omitempty"`
	// CreatedAt is when the task was created.
	CreatedAt time.Time `json:"created_at"`
	// UpdatedAt is when the task was last modified.
	UpdatedAt time.Time `json:"updated_at"`
	// ParentID optionally points at another task. It is not enforced.
	ParentID *uuid.UUID `json:"parent_id,omitempty"`
}

// New returns an open task with a fresh identifier and both timestamps set to now.
func New(title string, now time.Time) Task {
	now = normalizeTime(now)
	return Task{
		ID:        uuid.New(),
		Title:     title,
		Status:    StatusOpen,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Touch stamps UpdatedAt with now. If now does not come after the current
// UpdatedAt (coarse clocks, skew), UpdatedAt advances by one nanosecond so
// the timestamp still strictly increases.
func (t *Task) Touch(now time.Time) {
	t.UpdatedAt = advance(t.UpdatedAt, now)
}

// Complete marks the task completed. Completing a completed task still
// bumps UpdatedAt.
func (t *Task) Complete(now time.Time) {
	t.Status = StatusCompleted
	t.Touch(now)
}

// Uncomplete marks the task open again.
func (t *Task) Uncomplete(now time.Time) {
	t.Status = StatusOpen
	t.Touch(now)
}

// IsCompleted reports whether the task is done.
func (t Task) IsCompleted() bool {
	return t.Status == StatusCompleted
}

// IsOverdue reports whether the task is open and its due time is before now.
func (t Task) IsOverdue(now time.Time) bool {
	return !t.IsCompleted() && t.Due != nil && t.Due.Before(now)
}

// List is a materialized task list: its metadata plus its tasks in display order.
type List struct {
	ID             uuid.UUID `json:"id"`
	Title          string    `json:"title"`
	Tasks          []Task    `json:"tasks"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
	GroupByDueDate bool      `json:"group_by_due_date"`
	Archived       bool      `json:"archived"`
}

// ListMetadata is the record stored in a list directory's .listdata.json.
type ListMetadata struct {
	ID             uuid.UUID   `json:"id"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
	GroupByDueDate bool        `json:"group_by_due_date"`
	TaskOrder      []uuid.UUID `json:"task_order"`
	Archived       bool        `json:"archived"`
}

// NewListMetadata returns metadata for a fresh, empty list.
func NewListMetadata(id uuid.UUID, now time.Time) ListMetadata {
	now = normalizeTime(now)
	return ListMetadata{
		ID:        id,
		CreatedAt: now,
		UpdatedAt: now,
		TaskOrder: []uuid.UUID{},
	}
}

// Touch stamps UpdatedAt with now, keeping it strictly increasing.
func (m *ListMetadata) Touch(now time.Time) {
	m.UpdatedAt = advance(m.UpdatedAt, now)
}

// WorkspaceMetadata is the record stored in the workspace root's .metadata.json.
type WorkspaceMetadata struct {
	Version        int         `json:"version"`
	ListOrder      []uuid.UUID `json:"list_order"`
	LastOpenedList *uuid.UUID  `json:"last_opened_list"`
}

// DefaultWorkspaceMetadata returns the metadata written for a new workspace.
func DefaultWorkspaceMetadata() WorkspaceMetadata {
	return WorkspaceMetadata{
		Version:   MetadataVersion,
		ListOrder: []uuid.UUID{},
	}
}

// RemoveList drops id from the list order. If id was the last opened list,
// the pointer falls back to the first remaining list, or is cleared.
func (m *WorkspaceMetadata) RemoveList(id uuid.UUID) {
	m.ListOrder = RemoveID(m.ListOrder, id)
	if m.LastOpenedList == nil || *m.LastOpenedList != id {
		return
	}
	if len(m.ListOrder) == 0 {
		m.LastOpenedList = nil
		return
	}
	first := m.ListOrder[0]
	m.LastOpenedList = &first
}

// AddList appends id to the list order and makes it the last opened list
// when no list was open yet.
func (m *WorkspaceMetadata) AddList(id uuid.UUID) {
	if !ContainsID(m.ListOrder, id) {
		m.ListOrder = append(m.ListOrder, id)
	}
	if m.LastOpenedList == nil {
		opened := id
		m.LastOpenedList = &opened
	}
}

// MoveID removes id from order and reinserts it at position, clamped to
// the bounds of the shortened sequence. It is the single reordering
// algorithm for both lists and tasks.
func MoveID(order []uuid.UUID, id uuid.UUID, position int) []uuid.UUID {
	order = RemoveID(order, id)
	if position < 0 {
		position = 0
	}
	if position > len(order) {
		position = len(order)
	}
	order = append(order, uuid.Nil)
	copy(order[position+1:], order[position:])
	order[position] = id
	return order
}

// RemoveID returns order without any occurrence of id.
func RemoveID(order []uuid.UUID, id uuid.UUID) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(order))
	for _, existing := range order {
		if existing != id {
			out = append(out, existing)
		}
	}
	return out
}

// ContainsID reports whether order contains id.
func ContainsID(order []uuid.UUID, id uuid.UUID) bool {
	for _, existing := range order {
		if existing == id {
			return true
		}
	}
	return false
}

func advance(previous, now time.Time) time.Time {
	now = normalizeTime(now)
	if !now.After(previous) {
		return previous.Add(time.Nanosecond)
	}
	return now
}

// normalizeTime drops the monotonic reading and converts to UTC so values
// compare equal after a round trip through disk.
func normalizeTime(t time.Time) time.Time {
	return t.UTC()
}
