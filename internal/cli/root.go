// Package cli provides the command-line interface for loglens.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/loglens/loglens/internal/cli/commands"
)

// Execute runs the root command and returns the exit code.
func Execute() int {
	rootCmd := NewRootCommand()

	if err := rootCmd.Execute(); err != nil {
		// Print error to stderr (SilenceErrors prevents Cobra from doing this)
		_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2 // Configuration or runtime error
	}
	return commands.ExitCode
}

// NewRootCommand creates the root cobra command.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "loglens",
		Short: "Parse and analyze heterogeneous application logs",
		Long: `loglens ingests loosely-structured application log text and converts it
into a normalized, queryable record model plus derived statistics.

It understands:
  - Container and ISO-style log lines
  - Pipe-delimited business events (auth, account, card, transaction)
  - Stack traces folded into their originating record
  - CSV exports with arbitrary column names

Lines matching no known dialect are never dropped; they surface as UNKNOWN
records with a diagnostic trail.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Add subcommands
	rootCmd.AddCommand(commands.NewIngestCommand())
	rootCmd.AddCommand(commands.NewStatsCommand())
	rootCmd.AddCommand(commands.NewFetchCommand())
	rootCmd.AddCommand(commands.NewValidateCommand())
	rootCmd.AddCommand(commands.NewFormatsCommand())
	rootCmd.AddCommand(commands.NewVersionCommand())

	return rootCmd
}
