package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/steamcarve/steamcarve/internal/config"
	"github.com/steamcarve/steamcarve/internal/database"
)

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [image]",
		Short: "List past carve runs from the artifact database",
		Long: `History lists carve runs recorded in the artifact database, newest
first. With an image path argument, only runs over that image are shown.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runHistoryCmd,
	}
	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, args []string) error {
	logger := setupLogger(getVerboseFlag(cmd))
	slog.SetDefault(logger)

	opts := database.DefaultOptions()
	opts.CreateIfNotExists = false
	db, err := database.Open(config.XDGDataDir(), opts)
	if err != nil {
		fmt.Fprintln(cmd.OutOrStdout(), "No carve history yet (run 'steamcarve carve' first).")
		return nil
	}
	defer db.Close()

	imagePath := ""
	if len(args) == 1 {
		imagePath = args[0]
	}

	scans, err := db.ListScans(cmd.Context(), imagePath)
	if err != nil {
		return err
	}
	if len(scans) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No carve runs found.")
		return nil
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%-5s %-30s %-20s %10s  %s\n",
		"ID", "IMAGE", "STARTED", "ARTIFACTS", "STATUS")
	for _, s := range scans {
		status := "ok"
		if s.Error != "" {
			status = "error: " + s.Error
		}
		fmt.Fprintf(out, "%-5d %-30s %-20s %10d  %s\n",
			s.ID,
			s.ImagePath,
			s.StartedAt.Local().Format(time.DateTime),
			s.ArtifactCount,
			status,
		)
	}
	return nil
}
