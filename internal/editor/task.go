package editor

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"
	"text/template"
	"time"

	"github.com/BurntSushi/toml"

	internalstrings "github.com/amonks/tasks/internal/strings"
	"github.com/amonks/tasks/internal/validation"
	"github.com/amonks/tasks/task"
)

// ErrInvalidStatus indicates the edited status is not open or completed.
var ErrInvalidStatus = errors.New("invalid status")

// TaskData represents the data used to render the TOML template.
type TaskData struct {
	// IsUpdate is true when editing an existing task.
	IsUpdate bool
	// ID is the task ID (only for updates).
	ID string
	// Title is the task title.
	Title string
	// Due is the formatted due date, empty for none.
	Due string
	// Status is the status label (only for updates).
	Status string
	// Description is the task description.
	Description string
}

// DefaultCreateData returns TaskData for creating a new task.
func DefaultCreateData(title string) TaskData {
	return TaskData{Title: title}
}

// DataFromTask creates TaskData from an existing task for editing.
func DataFromTask(t task.Task) TaskData {
	data := TaskData{
		IsUpdate:    true,
		ID:          t.ID.String(),
		Title:       t.Title,
		Status:      t.Status.Label(),
		Description: t.Description,
	}
	if t.Due != nil {
		data.Due = task.FormatDue(*t.Due)
	}
	return data
}

var taskTemplate = template.Must(template.New("task").Parse(`{{- if .IsUpdate }}# {{ .ID }}
{{ end -}}
title = {{ printf "%q" .Title }}
due = {{ printf "%q" .Due }} # YYYY-MM-DD, YYYY-MM-DDTHH:MM:SS, or RFC 3339; empty for none
{{- if .IsUpdate }}
status = {{ printf "%q" .Status }} # open, completed
{{- end }}
---
{{ .Description }}
`))

// RenderTaskTOML renders the task data as a TOML string for editing.
func RenderTaskTOML(data TaskData) (string, error) {
	var buf bytes.Buffer
	if err := taskTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render template: %w", err)
	}
	return buf.String(), nil
}

// ParsedTask represents the parsed result from the TOML editor output.
type ParsedTask struct {
	Title       string
	Due         *time.Time
	Status      *task.Status
	Description string
}

type taskFrontmatter struct {
	Title  string  `toml:"title"`
	Due    string  `toml:"due"`
	Status *string `toml:"status"`
}

// ParseTaskTOML parses the TOML content from the editor.
func ParseTaskTOML(content string) (*ParsedTask, error) {
	frontmatter, body := splitFrontmatter(internalstrings.NormalizeNewlines(content))

	var fm taskFrontmatter
	if _, err := toml.Decode(frontmatter, &fm); err != nil {
		return nil, fmt.Errorf("parse TOML: %w", err)
	}

	parsed := ParsedTask{
		Title:       internalstrings.NormalizeWhitespace(fm.Title),
		Description: strings.TrimSpace(body),
	}
	if err := task.ValidateTitle(parsed.Title); err != nil {
		return nil, err
	}
	if strings.TrimSpace(fm.Due) != "" {
		due, err := task.ParseDue(fm.Due)
		if err != nil {
			return nil, err
		}
		parsed.Due = &due
	}
	if fm.Status != nil {
		status, err := ParseStatus(*fm.Status)
		if err != nil {
			return nil, err
		}
		parsed.Status = &status
	}

	return &parsed, nil
}

// ParseStatus accepts a status label or its stored form.
func ParseStatus(value string) (task.Status, error) {
	switch internalstrings.NormalizeLowerTrimSpace(value) {
	case "open", string(task.StatusOpen):
		return task.StatusOpen, nil
	case "completed", "done":
		return task.StatusCompleted, nil
	default:
		return "", validation.FormatInvalidValueError(ErrInvalidStatus, value, statusLabels())
	}
}

func statusLabels() []string {
	statuses := task.ValidStatuses()
	labels := make([]string, 0, len(statuses))
	for _, status := range statuses {
		labels = append(labels, status.Label())
	}
	return labels
}

// Apply copies the edited fields onto t. Status changes go through
// Complete and Uncomplete so timestamps advance.
func (p *ParsedTask) Apply(t *task.Task, now time.Time) {
	t.Title = p.Title
	t.Description = p.Description
	t.Due = p.Due
	if p.Status != nil && *p.Status != t.Status {
		if *p.Status == task.StatusCompleted {
			t.Complete(now)
		} else {
			t.Uncomplete(now)
		}
	}
}

func splitFrontmatter(content string) (string, string) {
	content = strings.TrimLeft(content, "\n")
	if content == "" {
		return "", ""
	}

	lines := strings.Split(content, "\n")
	separatorIndex := -1
	for i, line := range lines {
		if strings.TrimSpace(line) == "---" {
			separatorIndex = i
			break
		}
	}
	if separatorIndex == -1 {
		return content, ""
	}

	frontmatter := strings.Join(lines[:separatorIndex], "\n")
	body := strings.Join(lines[separatorIndex+1:], "\n")
	return frontmatter, body
}

func createTaskTempFile() (*os.File, error) {
	return os.CreateTemp("", "tasks-edit-*.md")
}

// EditTask opens the editor for a task and returns the parsed result.
func EditTask(data TaskData) (*ParsedTask, error) {
	content, err := RenderTaskTOML(data)
	if err != nil {
		return nil, err
	}

	tmpfile, err := createTaskTempFile()
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmpfile.Name()
	defer os.Remove(tmpPath)

	if _, err := tmpfile.WriteString(content); err != nil {
		tmpfile.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	if err := tmpfile.Close(); err != nil {
		return nil, fmt.Errorf("close temp file: %w", err)
	}

	if err := Edit(tmpPath); err != nil {
		return nil, err
	}

	edited, err := os.ReadFile(tmpPath)
	if err != nil {
		return nil, fmt.Errorf("read edited file: %w", err)
	}

	return ParseTaskTOML(string(edited))
}
