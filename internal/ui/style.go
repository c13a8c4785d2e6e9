// Package ui formats task output for the terminal.
package ui

import "github.com/charmbracelet/lipgloss"

var (
	// HeaderStyle marks list titles and section headers.
	HeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("33"))
	// SuccessStyle marks completed operations.
	SuccessStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	// WarningStyle marks overdue tasks and cautions.
	WarningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	// ErrorStyle marks failures.
	ErrorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	// MutedStyle marks completed tasks and secondary details.
	MutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
)

// Checkbox returns the marker shown before a task.
func Checkbox(completed bool) string {
	if completed {
		return "[x]"
	}
	return "[ ]"
}

// Success prefixes a message with a check mark.
func Success(message string) string {
	return SuccessStyle.Render("✓") + " " + message
}

// Warning prefixes a message with a caution marker.
func Warning(message string) string {
	return WarningStyle.Render("!") + " " + message
}
