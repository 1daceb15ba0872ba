package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/steamcarve/steamcarve/internal/model"
)

// RawWriter is a streaming CSV sink for raw artifacts. Records are written
// incrementally as the carver emits them; the carve never has to finish
// before the first record is on disk.
type RawWriter struct {
	w           *csv.Writer
	wroteHeader bool
}

// NewRawWriter creates a RawWriter on the given output.
func NewRawWriter(output io.Writer) *RawWriter {
	return &RawWriter{w: csv.NewWriter(output)}
}

// Write appends one raw record. The header row is written before the
// first record. Offsets are rendered as "0x" + uppercase hex; the
// refinement stage also accepts plain integers.
func (r *RawWriter) Write(a model.Artifact) error {
	if !r.wroteHeader {
		if err := r.w.Write(model.RawColumns); err != nil {
			return fmt.Errorf("failed to write raw header: %w", err)
		}
		r.wroteHeader = true
	}
	row := []string{
		a.Kind.String(),
		fmt.Sprintf("0x%X", a.Offset),
		a.Preview,
		a.SteamID,
		strconv.FormatUint(a.UnixTsMs, 10),
		a.Message,
		a.Value,
	}
	if err := r.w.Write(row); err != nil {
		return fmt.Errorf("failed to write raw record: %w", err)
	}
	return nil
}

// Flush writes buffered records through to the underlying writer. An empty
// scan still produces the header row.
func (r *RawWriter) Flush() error {
	if !r.wroteHeader {
		if err := r.w.Write(model.RawColumns); err != nil {
			return fmt.Errorf("failed to write raw header: %w", err)
		}
		r.wroteHeader = true
	}
	r.w.Flush()
	return r.w.Error()
}
