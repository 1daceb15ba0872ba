package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/steamcarve/steamcarve/internal/carve"
	"github.com/steamcarve/steamcarve/internal/config"
	"github.com/steamcarve/steamcarve/internal/database"
	"github.com/steamcarve/steamcarve/internal/image"
	"github.com/steamcarve/steamcarve/internal/model"
	"github.com/steamcarve/steamcarve/internal/report"
)

// NewCarveCmd creates the carve command.
func NewCarveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "carve [memory-image]...",
		Short: "Carve Steam artifacts from memory images",
		Long: `Carve scans raw memory captures for Steam client remnants and writes
one raw artifact CSV per image (<stem>_raw.csv beside the image).

Supported capture formats: flat raw images and LiME captures, optionally
gzip- or lz4-compressed. Unreadable regions are skipped, never fatal;
the scan always runs to completion over all mapped ranges.

Examples:
  # Carve a single raw capture
  steamcarve carve memdump.raw

  # Carve a compressed LiME capture with a larger minimum string length
  steamcarve carve --minlen 8 memdump.lime.gz

  # Carve several images, two at a time
  steamcarve carve --batch 2 host1.raw host2.raw host3.raw

Configuration file (.steamcarve) example:
  defaults:
    chunk_size: 33554432
  images:
    host1.raw:
      min_length: 10
      scan_unicode: false`,
		Args: cobra.ArbitraryArgs,
		RunE: runCarveCmd,
	}

	// Carving option flags
	cmd.Flags().Int("chunk-size", config.DefaultChunkSize,
		"Read size per iteration in bytes (floor 1024)")
	cmd.Flags().Int("overlap", config.DefaultOverlap,
		"Byte overlap between consecutive chunks")
	cmd.Flags().Int("minlen", config.DefaultMinLength,
		"Minimum printable run length (clamped to [3,4096])")
	cmd.Flags().Bool("no-unicode", false,
		"Disable UTF-16LE string carving")

	// Batch scanning flags
	cmd.Flags().IntP("batch", "b", config.DefaultBatchSize,
		"Number of images carved concurrently")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .steamcarve in current or home directory)")

	// Output flags
	cmd.Flags().StringP("output", "o", "",
		"Raw CSV output path (single image only; default <stem>_raw.csv beside the image)")
	cmd.Flags().Bool("no-db", false,
		"Do not persist the run to the artifact database")
	cmd.Flags().Bool("no-fingerprint", false,
		"Skip the SHA3-256 evidence fingerprint")

	return cmd
}

// runCarveCmd executes the carve command.
func runCarveCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildCarveConfig(cmd, args)
	if err != nil {
		return err
	}

	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := setupLogger(cfg.Verbose)
	slog.SetDefault(logger)

	// Handle interrupt signals for graceful shutdown. Records emitted
	// before an interrupt remain valid and usable.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	return runCarve(ctx, cfg, logger)
}

// buildCarveConfig creates a Config from cobra command flags.
func buildCarveConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()
	cfg.Verbose = getVerboseFlag(cmd)
	cfg.Targets = args

	var err error
	if cfg.ChunkSize, err = cmd.Flags().GetInt("chunk-size"); err != nil {
		return nil, err
	}
	if cfg.Overlap, err = cmd.Flags().GetInt("overlap"); err != nil {
		return nil, err
	}
	if cfg.MinLength, err = cmd.Flags().GetInt("minlen"); err != nil {
		return nil, err
	}

	noUnicode, err := cmd.Flags().GetBool("no-unicode")
	if err != nil {
		return nil, err
	}
	cfg.ScanUnicode = !noUnicode

	if cfg.BatchSize, err = cmd.Flags().GetInt("batch"); err != nil {
		return nil, err
	}
	if cfg.OutputPath, err = cmd.Flags().GetString("output"); err != nil {
		return nil, err
	}

	noDB, err := cmd.Flags().GetBool("no-db")
	if err != nil {
		return nil, err
	}
	cfg.SaveToDB = !noDB

	noFingerprint, err := cmd.Flags().GetBool("no-fingerprint")
	if err != nil {
		return nil, err
	}
	cfg.Fingerprint = !noFingerprint

	if cfg.ConfigFilePath, err = cmd.Flags().GetString("config"); err != nil {
		return nil, err
	}

	// Load per-image configurations from the config file. An explicitly
	// specified file must exist; an implicit one is optional.
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)
	if configPath != "" {
		cfg.ImageConfigs, err = config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	} else if explicitConfigPath {
		return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	}

	return cfg, nil
}

// runCarve executes the carve over all target images.
func runCarve(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	logger.Info("starting carve",
		"targets", cfg.Targets,
		"chunkSize", cfg.ChunkSize,
		"overlap", cfg.Overlap,
		"minLength", cfg.MinLength,
		"scanUnicode", cfg.ScanUnicode,
	)

	var db *database.CarveDB
	if cfg.SaveToDB {
		var err error
		db, err = database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()
		logger.Info("database opened", "dir", cfg.DBDir)
	}

	run := func(ctx context.Context, imagePath string) *model.CarveReport {
		return carveOne(ctx, cfg, db, logger, imagePath)
	}

	summary := report.NewSummaryWriter(os.Stdout)

	if len(cfg.Targets) > 1 && cfg.BatchSize > 1 {
		var mu sync.Mutex
		bc := carve.NewBatchCarver(run,
			carve.WithConcurrency(cfg.BatchSize),
			carve.WithBatchLogger(logger),
		)
		return bc.CarveAll(ctx, cfg.Targets, func(r *model.CarveReport, index int) {
			mu.Lock()
			defer mu.Unlock()
			fmt.Printf("[%d/%d] Carve completed: %s\n", index+1, len(cfg.Targets), r.Image)
			if err := summary.Write(r); err != nil {
				logger.Error("summary failed", "image", r.Image, "error", err)
			}
		})
	}

	for _, target := range cfg.Targets {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		fmt.Printf("Carving %s...\n", target)
		startTime := time.Now()

		r := run(ctx, target)

		fmt.Printf("Carve completed in %s\n", time.Since(startTime).Round(time.Millisecond))
		if err := summary.Write(r); err != nil {
			logger.Error("summary failed", "image", r.Image, "error", err)
		}
	}
	return nil
}

// carveOne carves a single image end to end: fingerprint, open, scan,
// sinks. Failures are recorded in the report rather than returned; the
// batch must keep going when one image is bad.
func carveOne(ctx context.Context, cfg *config.Config, db *database.CarveDB, logger *slog.Logger, imagePath string) *model.CarveReport {
	r := model.NewCarveReport(imagePath)
	defer func() {
		if r.FinishedAt.IsZero() {
			r.FinishedAt = time.Now()
		}
	}()

	if cfg.Fingerprint {
		digest, err := image.Fingerprint(imagePath)
		if err != nil {
			r.ErrorMessage = err.Error()
			return r
		}
		r.Fingerprint = digest
	}

	space, err := image.Open(imagePath)
	if err != nil {
		r.ErrorMessage = err.Error()
		return r
	}
	defer space.Close()

	opts := cfg.Options(imagePath)
	scanUnicode := cfg.ScanUnicode
	if opts.ScanUnicode != nil {
		scanUnicode = *opts.ScanUnicode
	}
	carver := carve.New(
		carve.WithChunkSize(opts.ChunkSize),
		carve.WithOverlap(opts.Overlap),
		carve.WithMinLength(opts.MinLength),
		carve.WithUnicode(scanUnicode),
		carve.WithLogger(logger),
	)

	outPath := cfg.OutputPath
	if outPath == "" {
		outPath = rawOutputPath(imagePath)
	}
	out, err := os.Create(outPath) //nolint:gosec // Output path derives from operator input
	if err != nil {
		r.ErrorMessage = err.Error()
		return r
	}
	defer out.Close()
	raw := report.NewRawWriter(out)

	var scanID int64
	if db != nil {
		scanID, err = db.BeginScan(ctx, r)
		if err != nil {
			logger.Error("failed to record scan start", "image", imagePath, "error", err)
			db = nil
		}
	}

	emit := func(a model.Artifact) error {
		if err := raw.Write(a); err != nil {
			return err
		}
		if db != nil {
			if err := db.InsertArtifact(ctx, scanID, a); err != nil {
				return err
			}
		}
		return nil
	}

	if err := carver.Run(ctx, space, r, emit); err != nil {
		r.ErrorMessage = err.Error()
	}
	if err := raw.Flush(); err != nil && r.ErrorMessage == "" {
		r.ErrorMessage = err.Error()
	}

	r.FinishedAt = time.Now()
	if db != nil {
		if err := db.FinishScan(ctx, scanID, r); err != nil {
			logger.Error("failed to record scan finish", "image", imagePath, "error", err)
		}
	}

	logger.Info("carve finished",
		"image", imagePath,
		"output", outPath,
		"artifacts", r.TotalArtifacts(),
		"skippedChunks", r.SkippedChunks,
	)
	return r
}

// rawOutputPath returns the default raw CSV path: <stem>_raw.csv beside
// the image.
func rawOutputPath(imagePath string) string {
	base := filepath.Base(imagePath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(filepath.Dir(imagePath), stem+"_raw.csv")
}
