// Package main provides the entry point for the SteamCarve CLI.
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/steamcarve/steamcarve/internal/config"
	applog "github.com/steamcarve/steamcarve/internal/log"
)

// NewRootCmd creates the root command for SteamCarve.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "steamcarve",
		Short: "Carve Steam client artifacts from memory captures",
		Long: `SteamCarve extracts Steam client remnants from raw memory captures:
SteamIDs, chat lines, and Steam web URLs, each with its absolute offset
and an approximate timestamp where one was carved alongside.

The carve command scans a memory image and writes a raw artifact CSV.
The refine command deduplicates, canonicalizes, and sorts a raw artifact
CSV into a clean dataset and a summarized findings report.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewCarveCmd())
	cmd.AddCommand(NewRefineCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command. A missing refine input path exits with a
// distinct status (2) after the usage message has already gone to stdout;
// every other failure reports to stderr and exits 1.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		if errors.Is(err, config.ErrMissingInputPath) {
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// setupLogger creates a structured logger based on verbosity. The text
// handler is wrapped in the sanitizing handler so carved payloads cannot
// mangle the terminal.
func setupLogger(verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	return slog.New(applog.NewSanitizeHandler(handler))
}
