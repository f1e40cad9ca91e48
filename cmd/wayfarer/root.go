// Package main provides the entry point for the Wayfarer CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for Wayfarer.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wayfarer",
		Short: "Companion agent that shares in-game discoveries with the community catalog",
		Long: `Wayfarer watches the game's save directory and submits newly discovered
star systems and planets to the community star catalog.

Each discovery is converted to its 12-character portal code, checked
against your local submission history and the remote catalog, and
either submitted, recognized as already known, or flagged as an edit
to an earlier submission. Failed submissions are queued durably and
retried in the background.

Without an API key, submissions are spooled to a local file you can
submit later.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().Bool("log-json", false, "Emit log lines as JSON")
	cmd.PersistentFlags().StringP("config", "c", "",
		"Configuration file path (default: wayfarer.yaml in the XDG config directory, or ~/.wayfarer.yaml)")

	// Add subcommands
	cmd.AddCommand(NewWatchCmd())
	cmd.AddCommand(NewRunCmd())
	cmd.AddCommand(NewStatusCmd())
	cmd.AddCommand(NewRetryCmd())
	cmd.AddCommand(NewExportCmd())
	cmd.AddCommand(NewPurgeCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
