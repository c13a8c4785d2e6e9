package main

import (
	"encoding/json"
	"os"

	"golang.org/x/term"
)

func encodeJSONToStdout(value any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(value)
}

func stdoutIsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// outputWidth returns the terminal width, or 80 when stdout is not a terminal.
func outputWidth() int {
	if width, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && width > 0 {
		return width
	}
	return 80
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
