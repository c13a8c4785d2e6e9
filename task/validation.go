package task

import (
	"fmt"
	"strings"
	"time"
)

// ValidateTitle checks if the title is usable as a task title or list name.
func ValidateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return ErrEmptyTitle
	}
	if len(title) > MaxTitleLength {
		return fmt.Errorf("%w: %d > %d", ErrTitleTooLong, len(title), MaxTitleLength)
	}
	return nil
}

var dueLayouts = []string{
	"2006-01-02",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	time.RFC3339,
}

// ParseDue parses a due date. Dates without a zone are taken as UTC, and a
// bare date means midnight UTC.
func ParseDue(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("%w: empty", ErrInvalidDue)
	}
	for _, layout := range dueLayouts {
		parsed, err := time.ParseInLocation(layout, value, time.UTC)
		if err == nil {
			return parsed.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w %q: use YYYY-MM-DD, YYYY-MM-DDTHH:MM:SS, or RFC 3339", ErrInvalidDue, value)
}

// FormatDue renders a due time compactly: a bare date at midnight UTC,
// otherwise date and time.
func FormatDue(due time.Time) string {
	due = due.UTC()
	if due.Hour() == 0 && due.Minute() == 0 && due.Second() == 0 && due.Nanosecond() == 0 {
		return due.Format("2006-01-02")
	}
	return due.Format("2006-01-02 15:04")
}
