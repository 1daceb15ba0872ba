package carve

import (
	"context"
	"log/slog"
	"regexp"

	"github.com/steamcarve/steamcarve/internal/config"
	"github.com/steamcarve/steamcarve/internal/image"
	"github.com/steamcarve/steamcarve/internal/model"
)

// EmitFunc receives one raw artifact per candidate run. Returning an error
// aborts the scan; it is reserved for sink failures (disk full, closed
// database), not for record-level problems.
type EmitFunc func(model.Artifact) error

// Carver scans an address space in overlapping chunks and emits classified
// artifacts. A Carver is safe to reuse across images but not across
// goroutines; the batch carver creates one per image.
type Carver struct {
	chunkSize   int
	overlap     int
	minLength   int
	scanUnicode bool
	logger      *slog.Logger

	// asciiRe and utf16Re depend on minLength and are compiled once per
	// Carver in New.
	asciiRe *regexp.Regexp
	utf16Re *regexp.Regexp
}

// Option configures a Carver.
type Option func(*Carver)

// WithChunkSize sets the read size per iteration in bytes.
// Values below the floor are clamped up.
func WithChunkSize(n int) Option {
	return func(c *Carver) { c.chunkSize = n }
}

// WithOverlap sets the byte overlap between consecutive chunks.
// Negative values clamp to zero; values at or above the chunk size reset
// to half the chunk size.
func WithOverlap(n int) Option {
	return func(c *Carver) { c.overlap = n }
}

// WithMinLength sets the minimum printable run length.
// Values are clamped into the supported range.
func WithMinLength(n int) Option {
	return func(c *Carver) { c.minLength = n }
}

// WithUnicode enables or disables the UTF-16LE scan.
func WithUnicode(enabled bool) Option {
	return func(c *Carver) { c.scanUnicode = enabled }
}

// WithLogger sets a custom logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Carver) { c.logger = logger }
}

// New creates a Carver. Out-of-range options are clamped, mirroring the
// config package invariants: chunkSize >= MinChunkSize,
// 0 <= overlap < chunkSize, MinLengthFloor <= minLength <= MinLengthCeil.
func New(opts ...Option) *Carver {
	c := &Carver{
		chunkSize:   config.DefaultChunkSize,
		overlap:     config.DefaultOverlap,
		minLength:   config.DefaultMinLength,
		scanUnicode: true,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}

	if c.chunkSize < config.MinChunkSize {
		c.chunkSize = config.MinChunkSize
	}
	if c.overlap < 0 {
		c.overlap = 0
	}
	if c.overlap >= c.chunkSize {
		c.overlap = c.chunkSize / 2
	}
	if c.minLength < config.MinLengthFloor {
		c.minLength = config.MinLengthFloor
	}
	if c.minLength > config.MinLengthCeil {
		c.minLength = config.MinLengthCeil
	}

	c.asciiRe = regexp.MustCompile(asciiRunPattern(c.minLength))
	c.utf16Re = regexp.MustCompile(utf16RunPattern(c.minLength))
	return c
}

// ChunkSize returns the effective (clamped) chunk size.
func (c *Carver) ChunkSize() int { return c.chunkSize }

// Overlap returns the effective (clamped) overlap.
func (c *Carver) Overlap() int { return c.overlap }

// MinLength returns the effective (clamped) minimum run length.
func (c *Carver) MinLength() int { return c.minLength }

// candidate is a maximal printable run found within one chunk.
type candidate struct {
	// rel is the run's offset relative to the chunk base.
	rel int

	// data is the raw bytes of the run, aliasing the chunk buffer.
	data []byte
}

// Run scans every mapped range of the space and pushes one artifact per
// candidate run to emit. The context is checked between chunks; an
// interrupted scan leaves already-emitted records valid and usable.
//
// Unreadable chunks advance the cursor and continue: a gap in results,
// never a terminated scan. Statistics accumulate into report.
func (c *Carver) Run(ctx context.Context, space image.AddressSpace, report *model.CarveReport, emit EmitFunc) error {
	step := c.chunkSize - c.overlap
	if step < 1 {
		step = 1
	}

	ranges := space.MappedRanges()
	report.Ranges = len(ranges)
	report.ChunkSize = c.chunkSize
	report.Overlap = c.overlap
	report.MinLength = c.minLength
	report.ScanUnicode = c.scanUnicode

	for _, r := range ranges {
		c.logger.Debug("scanning range",
			"start", r.Start,
			"end", r.End,
			"size", r.Size(),
		)

		for cursor := r.Start; cursor < r.End; cursor += uint64(step) {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			readLen := c.chunkSize
			if remaining := r.End - cursor; uint64(readLen) > remaining {
				readLen = int(remaining)
			}

			data, err := space.Read(cursor, readLen)
			if err != nil {
				// Unreadable address: advance and continue.
				report.SkippedChunks++
				c.logger.Debug("skipping unreadable chunk",
					"offset", cursor,
					"error", err,
				)
				continue
			}

			report.Chunks++
			report.BytesScanned += uint64(len(data))

			for _, cand := range c.extract(data) {
				report.Candidates++
				artifact := c.compose(cursor+uint64(cand.rel), cand.data)
				report.KindCounts[artifact.Kind]++
				if err := emit(artifact); err != nil {
					return err
				}
			}
		}
	}

	return nil
}

// extract runs the two independent maximal-run scans over a chunk: ASCII
// first, then UTF-16LE when enabled. Each scan yields its runs in
// ascending offset order; the two sequences are not merged.
func (c *Carver) extract(buf []byte) []candidate {
	var cands []candidate
	for _, loc := range c.asciiRe.FindAllIndex(buf, -1) {
		cands = append(cands, candidate{rel: loc[0], data: buf[loc[0]:loc[1]]})
	}
	if c.scanUnicode {
		for _, loc := range c.utf16Re.FindAllIndex(buf, -1) {
			cands = append(cands, candidate{rel: loc[0], data: buf[loc[0]:loc[1]]})
		}
	}
	return cands
}

// compose classifies a run and extracts its fields into one raw record.
func (c *Carver) compose(offset uint64, data []byte) model.Artifact {
	return ExtractFields(Classify(data), offset, data)
}
