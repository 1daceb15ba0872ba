package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/steamcarve/steamcarve/internal/config"
	"github.com/steamcarve/steamcarve/internal/pipeline"
	"github.com/steamcarve/steamcarve/internal/report"
)

// NewRefineCmd creates the refine command.
func NewRefineCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "refine [raw-dataset.csv]",
		Short: "Refine a raw artifact CSV into a clean dataset and findings report",
		Long: `Refine consumes the raw artifact CSV written by the carve command,
keeps only url/steamid/chat records, canonicalizes timestamps and
offsets, deduplicates, sorts, and aggregates.

On success it writes two sibling files next to the input:
  <stem>_clean.csv     the full cleaned dataset
  <stem>_findings.csv  top URL domains, SteamIDs, and sample chat lines

Examples:
  steamcarve refine memdump_raw.csv

  # Additionally write a markdown findings summary
  steamcarve refine --markdown memdump_raw.csv`,
		Args: cobra.ArbitraryArgs,
		RunE: runRefineCmd,
	}

	cmd.Flags().BoolP("markdown", "m", false,
		"Additionally write a markdown findings summary (<stem>_findings.md)")

	return cmd
}

// runRefineCmd executes the refine command.
func runRefineCmd(cmd *cobra.Command, args []string) error {
	if len(args) < 1 {
		// The usage contract: message on standard output, distinct
		// exit status (handled in Execute).
		fmt.Fprintln(cmd.OutOrStdout(), "Usage: steamcarve refine <path_to_csv>")
		return config.ErrMissingInputPath
	}

	markdownOut, err := cmd.Flags().GetBool("markdown")
	if err != nil {
		return err
	}

	logger := setupLogger(getVerboseFlag(cmd))
	slog.SetDefault(logger)

	return runRefine(cmd.Context(), args[0], markdownOut, logger)
}

// runRefine executes the refinement pipeline and writes the outputs.
func runRefine(ctx context.Context, srcPath string, markdownOut bool, logger *slog.Logger) error {
	if ctx == nil {
		ctx = context.Background()
	}

	src, err := filepath.Abs(srcPath)
	if err != nil {
		return fmt.Errorf("failed to resolve input path: %w", err)
	}

	d := pipeline.NewDataset(src)
	p := pipeline.Refinement(pipeline.WithLogger(logger))
	if err := p.Execute(ctx, d); err != nil {
		return err
	}

	logger.Info("refinement complete",
		"raw", len(d.Raw),
		"cleaned", len(d.Cleaned),
	)

	cleanPath := siblingPath(src, "_clean.csv")
	findingsPath := siblingPath(src, "_findings.csv")

	if err := writeCleanFile(cleanPath, d); err != nil {
		return err
	}
	if err := writeFindingsFile(findingsPath, d); err != nil {
		return err
	}

	fmt.Println("Wrote:", cleanPath)
	fmt.Println("Wrote:", findingsPath)

	if markdownOut {
		mdPath := siblingPath(src, "_findings.md")
		if err := writeMarkdownFile(mdPath, d); err != nil {
			return err
		}
		fmt.Println("Wrote:", mdPath)
	}
	return nil
}

// writeCleanFile writes the cleaned dataset CSV.
func writeCleanFile(path string, d *pipeline.Dataset) error {
	f, err := os.Create(path) //nolint:gosec // Output path derives from operator input
	if err != nil {
		return fmt.Errorf("failed to create clean dataset: %w", err)
	}
	defer f.Close()
	return report.WriteCleanDataset(f, d.Cleaned)
}

// writeFindingsFile writes the plain-text findings report.
func writeFindingsFile(path string, d *pipeline.Dataset) error {
	f, err := os.Create(path) //nolint:gosec // Output path derives from operator input
	if err != nil {
		return fmt.Errorf("failed to create findings report: %w", err)
	}
	defer f.Close()
	return report.NewFindingsWriter(f).Write(d.Findings)
}

// writeMarkdownFile writes the markdown findings summary.
func writeMarkdownFile(path string, d *pipeline.Dataset) error {
	f, err := os.Create(path) //nolint:gosec // Output path derives from operator input
	if err != nil {
		return fmt.Errorf("failed to create markdown summary: %w", err)
	}
	defer f.Close()
	return report.NewMarkdownWriter(f).Write(d.Findings)
}

// siblingPath returns the input path with its extension replaced by
// suffix, in the same directory: /case/mem_raw.csv -> /case/mem_raw_clean.csv
// for suffix "_clean.csv".
func siblingPath(src, suffix string) string {
	base := filepath.Base(src)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(filepath.Dir(src), stem+suffix)
}
