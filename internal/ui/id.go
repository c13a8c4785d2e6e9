package ui

import (
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

var idPrefixStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))

// HighlightID returns an ID with its unique prefix highlighted.
func HighlightID(id string, prefixLen int) string {
	if id == "" {
		return id
	}

	if prefixLen <= 0 || prefixLen > len(id) {
		return id
	}

	if !ColorEnabled() {
		return id
	}

	return idPrefixStyle.Render(id[:prefixLen]) + id[prefixLen:]
}

// ShortID returns the ID cut to at least minLen characters, or to its
// unique prefix when that is longer.
func ShortID(id string, prefixLen, minLen int) string {
	n := max(prefixLen, minLen)
	if n <= 0 || n >= len(id) {
		return id
	}
	return id[:n]
}

// PrefixLength looks up the unique prefix length for id, ignoring case.
func PrefixLength(lengths map[string]int, id string) int {
	if lengths == nil || id == "" {
		return 0
	}
	return lengths[strings.ToLower(id)]
}

// ColorEnabled reports whether stdout should receive ANSI styling.
func ColorEnabled() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if os.Getenv("TERM") == "dumb" {
		return false
	}
	return term.IsTerminal(int(os.Stdout.Fd()))
}
