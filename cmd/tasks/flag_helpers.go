package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

func hasChangedFlags(cmd *cobra.Command, flags ...string) bool {
	for _, flag := range flags {
		if cmd.Flags().Changed(flag) {
			return true
		}
	}
	return false
}

// resolveDescriptionFlag replaces a description of "-" with the contents of stdin.
func resolveDescriptionFlag(cmd *cobra.Command, description *string, stdin io.Reader) error {
	if !cmd.Flags().Changed("description") || *description != "-" {
		return nil
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return fmt.Errorf("read description from stdin: %w", err)
	}
	*description = strings.TrimRight(string(data), "\n")
	return nil
}

// parsePosition turns a 1-based position argument into a 0-based index.
func parsePosition(value string) (int, error) {
	position, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("invalid position %q: must be a number", value)
	}
	if position < 1 {
		return 0, fmt.Errorf("invalid position %d: must be at least 1", position)
	}
	return position - 1, nil
}
