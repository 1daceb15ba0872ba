package config

import (
	"path/filepath"

	"github.com/adrg/xdg"
)

// Default configuration values. These match the original carver defaults;
// the clamping floors and ceilings in Normalize are part of the observable
// contract, not implementation details.
const (
	// DefaultChunkSize is the read size per scan iteration. 16 MiB keeps
	// memory bounded while amortizing read syscalls over large images.
	DefaultChunkSize = 16 * 1024 * 1024

	// MinChunkSize is the floor applied to user-supplied chunk sizes.
	// Chunks smaller than this would mostly consist of overlap.
	MinChunkSize = 1024

	// DefaultOverlap is the number of bytes consecutive chunks share, so
	// a match straddling a chunk boundary is fully visible in at least
	// one chunk. 1024 bytes comfortably covers the longest carved runs.
	DefaultOverlap = 1024

	// DefaultMinLength is the minimum printable run length considered a
	// candidate. Six characters filters most incidental byte noise.
	DefaultMinLength = 6

	// MinLengthFloor and MinLengthCeil bound user-supplied minimum
	// lengths. Below 3 the scan drowns in noise; above 4096 nothing
	// realistic matches.
	MinLengthFloor = 3
	MinLengthCeil  = 4096

	// DefaultBatchSize is the number of images carved concurrently when
	// multiple images are given. Each individual carve stays
	// single-threaded; the batch only parallelizes across images.
	DefaultBatchSize = 2

	// AppName is the application name used for XDG directory paths.
	AppName = "steamcarve"
)

// Config holds all configuration options for SteamCarve.
// It is populated from CLI flags and the optional config file, then passed
// through the application by value injection rather than global state.
type Config struct {
	// ChunkSize is the read size per iteration in bytes.
	ChunkSize int

	// Overlap is the byte overlap between consecutive chunks.
	Overlap int

	// MinLength is the minimum printable run length for carving.
	MinLength int

	// ScanUnicode also carves UTF-16LE strings when true.
	ScanUnicode bool

	// Fingerprint computes a SHA3-256 digest of each evidence file
	// before scanning and records it in the carve report.
	Fingerprint bool

	// BatchSize is the number of concurrent carves when multiple images
	// are given.
	BatchSize int

	// OutputPath overrides the default raw CSV path (<stem>_raw.csv next
	// to the image). Only meaningful when carving a single image.
	OutputPath string

	// ConfigFilePath is the path to the configuration file. If empty,
	// the tool searches for .steamcarve in the current directory and
	// then in the user's home directory.
	ConfigFilePath string

	// ImageConfigs holds per-image carving overrides loaded from the
	// config file.
	ImageConfigs *File

	// SaveToDB persists raw artifacts and run metadata to the sqlite
	// store under DBDir.
	SaveToDB bool

	// DBDir is the directory of the sqlite store. Defaults to the XDG
	// data directory.
	DBDir string

	// Verbose enables debug-level logging.
	Verbose bool

	// Targets is the list of memory image paths to carve.
	Targets []string
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		ChunkSize:   DefaultChunkSize,
		Overlap:     DefaultOverlap,
		MinLength:   DefaultMinLength,
		ScanUnicode: true,
		Fingerprint: true,
		BatchSize:   DefaultBatchSize,
		SaveToDB:    true,
		DBDir:       XDGDataDir(),
	}
}

// Normalize clamps the carving options into their valid ranges. Out-of-range
// values are corrected, never rejected: a misconfigured scan that can still
// run beats no scan at all.
//
// Invariants after Normalize: ChunkSize >= MinChunkSize,
// 0 <= Overlap < ChunkSize, MinLengthFloor <= MinLength <= MinLengthCeil.
func (c *Config) Normalize() {
	if c.ChunkSize < MinChunkSize {
		c.ChunkSize = MinChunkSize
	}
	if c.Overlap < 0 {
		c.Overlap = 0
	}
	if c.Overlap >= c.ChunkSize {
		c.Overlap = c.ChunkSize / 2
	}
	if c.MinLength < MinLengthFloor {
		c.MinLength = MinLengthFloor
	}
	if c.MinLength > MinLengthCeil {
		c.MinLength = MinLengthCeil
	}
	if c.BatchSize < 1 {
		c.BatchSize = 1
	}
}

// Validate checks if the configuration is valid. It returns a sentinel
// error describing the first problem found.
//
// Having no image to scan is the one fatal configuration error: with no
// address space there is no partial result to fall back on.
func (c *Config) Validate() error {
	if len(c.Targets) == 0 {
		return ErrNoInput
	}
	if c.OutputPath != "" && len(c.Targets) > 1 {
		return ErrOutputWithMultipleImages
	}
	return nil
}

// Options returns the carving options for the given image path, applying
// per-image overrides from the config file when present.
func (c *Config) Options(image string) CarveOptions {
	opts := CarveOptions{
		ChunkSize:   c.ChunkSize,
		Overlap:     c.Overlap,
		MinLength:   c.MinLength,
		ScanUnicode: &c.ScanUnicode,
	}
	if c.ImageConfigs != nil {
		opts = c.ImageConfigs.Merge(image, opts)
	}
	return opts
}

// XDGDataDir returns the XDG data directory for SteamCarve.
// On Linux: ~/.local/share/steamcarve
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for SteamCarve.
// On Linux: ~/.config/steamcarve
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}
