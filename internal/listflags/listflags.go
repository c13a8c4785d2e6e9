// Package listflags holds flags shared by listing commands.
package listflags

import "github.com/spf13/cobra"

// AddAllFlag adds a shared --all/-a flag with the given help text.
func AddAllFlag(cmd *cobra.Command, target *bool, usage string) {
	if target == nil {
		cmd.Flags().BoolP("all", "a", false, usage)
		return
	}

	cmd.Flags().BoolVarP(target, "all", "a", false, usage)
}
