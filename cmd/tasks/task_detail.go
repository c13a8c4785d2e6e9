package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/amonks/tasks/internal/markdown"
	"github.com/amonks/tasks/internal/ui"
)

const descriptionIndent = 2

func formatTaskDetail(detail taskDetail, now time.Time, renderMarkdown bool) string {
	t := detail.Task
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", ui.Checkbox(t.IsCompleted()), ui.HeaderStyle.Render(t.Title))
	fmt.Fprintf(&b, "ID:       %s\n", t.ID)
	fmt.Fprintf(&b, "List:     %s\n", detail.List)
	fmt.Fprintf(&b, "Status:   %s\n", t.Status.Label())
	if due := ui.FormatDue(t, now); due != "" {
		fmt.Fprintf(&b, "Due:      %s\n", due)
	}
	if t.ParentID != nil {
		fmt.Fprintf(&b, "Parent:   %s\n", t.ParentID)
	}
	fmt.Fprintf(&b, "Created:  %s\n", formatDetailTime(t.CreatedAt, now))
	fmt.Fprintf(&b, "Updated:  %s\n", formatDetailTime(t.UpdatedAt, now))

	description := descriptionBlock(t.Description, renderMarkdown)
	if description != "" {
		b.WriteString("\nDescription:\n")
		b.WriteString(description)
		b.WriteString("\n")
	}
	return b.String()
}

func formatDetailTime(at time.Time, now time.Time) string {
	return fmt.Sprintf("%s (%s)", at.Local().Format("2006-01-02 15:04"), ui.FormatTimeAgo(at, now))
}

func descriptionBlock(description string, renderMarkdown bool) string {
	if strings.TrimSpace(description) == "" {
		return ""
	}
	if renderMarkdown {
		return strings.TrimRight(string(markdown.SafeRender(outputWidth(), descriptionIndent, []byte(description))), "\n")
	}
	return string(markdown.Plain(descriptionIndent, []byte(description)))
}
