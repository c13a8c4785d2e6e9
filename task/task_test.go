package task

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestNewTaskDefaults(t *testing.T) {
	now := time.Date(2025, 1, 2, 3, 4, 5, 0, time.FixedZone("EST", -5*3600))
	tk := New("Buy milk", now)

	if tk.ID == uuid.Nil {
		t.Fatal("expected non-nil ID")
	}
	if tk.Status != StatusOpen {
		t.Fatalf("expected status %q, got %q", StatusOpen, tk.Status)
	}
	if tk.CreatedAt.Location() != time.UTC {
		t.Fatalf("expected UTC created time, got %v", tk.CreatedAt.Location())
	}
	if !tk.CreatedAt.Equal(now) || !tk.UpdatedAt.Equal(now) {
		t.Fatalf("expected timestamps %v, got created=%v updated=%v", now, tk.CreatedAt, tk.UpdatedAt)
	}
}

func TestTouchStrictlyIncreases(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	tk := New("a", now)

	tk.Touch(now)
	if !tk.UpdatedAt.After(tk.CreatedAt) {
		t.Fatalf("expected updated after created with same clock, got %v", tk.UpdatedAt)
	}

	earlier := now.Add(-time.Hour)
	prev := tk.UpdatedAt
	tk.Touch(earlier)
	if !tk.UpdatedAt.After(prev) {
		t.Fatalf("expected touch with earlier clock to advance, got %v after %v", tk.UpdatedAt, prev)
	}

	later := now.Add(time.Hour)
	tk.Touch(later)
	if !tk.UpdatedAt.Equal(later) {
		t.Fatalf("expected updated %v, got %v", later, tk.UpdatedAt)
	}
}

func TestCompleteUncomplete(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	tk := New("a", now)

	tk.Complete(now)
	if !tk.IsCompleted() {
		t.Fatal("expected completed")
	}
	first := tk.UpdatedAt

	tk.Complete(now)
	if !tk.IsCompleted() {
		t.Fatal("expected still completed")
	}
	if !tk.UpdatedAt.After(first) {
		t.Fatal("expected repeated complete to bump updated time")
	}

	tk.Uncomplete(now)
	if tk.Status != StatusOpen {
		t.Fatalf("expected open, got %q", tk.Status)
	}
	if !tk.UpdatedAt.After(tk.CreatedAt) {
		t.Fatal("expected updated after created")
	}
}

func TestIsOverdue(t *testing.T) {
	now := time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC)
	due := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	tk := New("a", now)
	if tk.IsOverdue(now) {
		t.Fatal("task without due date should not be overdue")
	}
	tk.Due = &due
	if !tk.IsOverdue(now) {
		t.Fatal("expected overdue")
	}
	tk.Complete(now)
	if tk.IsOverdue(now) {
		t.Fatal("completed task should not be overdue")
	}
}

func TestMoveID(t *testing.T) {
	a, b, c := uuid.New(), uuid.New(), uuid.New()

	tests := []struct {
		name     string
		order    []uuid.UUID
		id       uuid.UUID
		position int
		want     []uuid.UUID
	}{
		{"to front", []uuid.UUID{a, b, c}, c, 0, []uuid.UUID{c, a, b}},
		{"to middle", []uuid.UUID{a, b, c}, a, 1, []uuid.UUID{b, a, c}},
		{"clamped past end", []uuid.UUID{a, b, c}, a, 99, []uuid.UUID{b, c, a}},
		{"negative clamps to front", []uuid.UUID{a, b, c}, c, -3, []uuid.UUID{c, a, b}},
		{"absent id inserted", []uuid.UUID{a, b}, c, 1, []uuid.UUID{a, c, b}},
		{"empty order", nil, a, 5, []uuid.UUID{a}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MoveID(tt.order, tt.id, tt.position)
			if !equalIDs(got, tt.want) {
				t.Fatalf("MoveID = %v, want %v", got, tt.want)
			}
			again := MoveID(got, tt.id, tt.position)
			if !equalIDs(again, got) {
				t.Fatalf("reapplying move changed order: %v -> %v", got, again)
			}
		})
	}
}

func TestWorkspaceMetadataRemoveListFallsBack(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	meta := DefaultWorkspaceMetadata()
	meta.AddList(a)
	meta.AddList(b)

	if meta.LastOpenedList == nil || *meta.LastOpenedList != a {
		t.Fatalf("expected first added list to be last opened, got %v", meta.LastOpenedList)
	}

	meta.RemoveList(a)
	if meta.LastOpenedList == nil || *meta.LastOpenedList != b {
		t.Fatalf("expected fallback to %v, got %v", b, meta.LastOpenedList)
	}

	meta.RemoveList(b)
	if meta.LastOpenedList != nil {
		t.Fatalf("expected cleared pointer, got %v", *meta.LastOpenedList)
	}
	if len(meta.ListOrder) != 0 {
		t.Fatalf("expected empty order, got %v", meta.ListOrder)
	}
}

func TestWorkspaceMetadataRemoveOtherListKeepsPointer(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	meta := DefaultWorkspaceMetadata()
	meta.AddList(a)
	meta.AddList(b)

	meta.RemoveList(b)
	if meta.LastOpenedList == nil || *meta.LastOpenedList != a {
		t.Fatalf("expected pointer to stay on %v, got %v", a, meta.LastOpenedList)
	}
}

func equalIDs(a, b []uuid.UUID) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
