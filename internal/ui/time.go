package ui

import (
	"fmt"
	"time"

	"github.com/amonks/tasks/task"
)

// FormatTimeAgo returns a compact age string like "2m ago", or "never" for
// a zero time.
func FormatTimeAgo(then time.Time, now time.Time) string {
	if then.IsZero() {
		return "never"
	}
	return FormatDurationShort(now.Sub(then)) + " ago"
}

// FormatDurationShort formats a duration using short units (s/m/h/d).
func FormatDurationShort(duration time.Duration) string {
	if duration < 0 {
		duration = 0
	}

	duration = duration.Truncate(time.Second)
	seconds := int64(duration.Seconds())
	if seconds < 60 {
		return fmt.Sprintf("%ds", seconds)
	}

	minutes := seconds / 60
	if minutes < 60 {
		return fmt.Sprintf("%dm", minutes)
	}

	hours := minutes / 60
	if hours < 24 {
		return fmt.Sprintf("%dh", hours)
	}

	days := hours / 24
	return fmt.Sprintf("%dd", days)
}

// FormatDue renders a task's due date with an overdue marker.
func FormatDue(t task.Task, now time.Time) string {
	if t.Due == nil {
		return ""
	}
	label := task.FormatDue(*t.Due)
	if t.IsOverdue(now) {
		return WarningStyle.Render(label + " (overdue)")
	}
	return label
}
