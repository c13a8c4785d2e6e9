// Package main implements the tasks CLI.
package main

import (
	"errors"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		var exitErr interface{ ExitCode() int }
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.ExitCode())
		}
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "tasks",
	Short:         "Local-first task lists with WebDAV sync",
	SilenceUsage:  true,
	SilenceErrors: false,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		configureLogging(globalVerbose)
	},
}

var (
	globalWorkspace string
	globalVerbose   bool
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&globalWorkspace, "workspace", "w", "", "Workspace to use (default: current)")
	rootCmd.PersistentFlags().BoolVarP(&globalVerbose, "verbose", "v", false, "Log debug output to stderr")
}

func configureLogging(verbose bool) {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}
