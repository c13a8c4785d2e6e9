package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/amonks/tasks/internal/ui"
	"github.com/amonks/tasks/task"
	"github.com/google/uuid"
)

const shortIDLength = 8

func formatTaskID(lengths map[string]int, id uuid.UUID) string {
	full := id.String()
	prefixLen := ui.PrefixLength(lengths, full)
	return ui.HighlightID(ui.ShortID(full, prefixLen, shortIDLength), prefixLen)
}

// dueSection is a heading and the tasks under it when a list groups by due date.
type dueSection struct {
	Title string
	Tasks []task.Task
}

// groupByDue splits tasks into overdue, today, upcoming, no-due-date and
// completed sections, keeping list order within each. Empty sections are
// dropped. Days are calendar days in now's location.
func groupByDue(tasks []task.Task, now time.Time) []dueSection {
	sections := []dueSection{
		{Title: "Overdue"},
		{Title: "Today"},
		{Title: "Upcoming"},
		{Title: "No due date"},
		{Title: "Completed"},
	}
	startOfToday := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	startOfTomorrow := startOfToday.AddDate(0, 0, 1)

	for _, t := range tasks {
		var index int
		switch {
		case t.IsCompleted():
			index = 4
		case t.Due == nil:
			index = 3
		case t.Due.Before(startOfToday):
			index = 0
		case t.Due.Before(startOfTomorrow):
			index = 1
		default:
			index = 2
		}
		sections[index].Tasks = append(sections[index].Tasks, t)
	}

	result := make([]dueSection, 0, len(sections))
	for _, section := range sections {
		if len(section.Tasks) > 0 {
			result = append(result, section)
		}
	}
	return result
}

func completedCount(tasks []task.Task) int {
	count := 0
	for _, t := range tasks {
		if t.IsCompleted() {
			count++
		}
	}
	return count
}

func formatListHeader(list task.List) string {
	header := fmt.Sprintf("%s (%d %s, %d completed)",
		list.Title, len(list.Tasks), plural(len(list.Tasks), "task"), completedCount(list.Tasks))
	if list.Archived {
		header += " [archived]"
	}
	return ui.HeaderStyle.Render(header)
}

func formatTaskLine(t task.Task, formatID func(uuid.UUID) string, indent string, now time.Time) string {
	var b strings.Builder
	b.WriteString(indent)
	b.WriteString(ui.Checkbox(t.IsCompleted()))
	b.WriteString(" ")
	b.WriteString(formatID(t.ID))
	b.WriteString(" ")
	if t.IsCompleted() {
		b.WriteString(ui.MutedStyle.Render(t.Title))
	} else {
		b.WriteString(t.Title)
	}
	if due := ui.FormatDue(t, now); due != "" {
		b.WriteString(" (due: ")
		b.WriteString(due)
		b.WriteString(")")
	}
	return b.String()
}

// renderList writes a list header followed by its tasks.
func renderList(list task.List, formatID func(uuid.UUID) string, now time.Time) string {
	var b strings.Builder
	b.WriteString(formatListHeader(list))
	b.WriteString("\n")
	if len(list.Tasks) == 0 {
		b.WriteString("  (no tasks)\n")
		return b.String()
	}
	if !list.GroupByDueDate {
		for _, t := range list.Tasks {
			b.WriteString(formatTaskLine(t, formatID, "  ", now))
			b.WriteString("\n")
		}
		return b.String()
	}
	for _, section := range groupByDue(list.Tasks, now) {
		b.WriteString("  ")
		b.WriteString(section.Title)
		b.WriteString(":\n")
		for _, t := range section.Tasks {
			b.WriteString(formatTaskLine(t, formatID, "    ", now))
			b.WriteString("\n")
		}
	}
	return b.String()
}
