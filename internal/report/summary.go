package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/steamcarve/steamcarve/internal/model"
)

// SummaryWriter outputs a human-readable carve summary for terminal
// display after a scan.
type SummaryWriter struct {
	output io.Writer
}

// NewSummaryWriter creates a SummaryWriter on the given output.
func NewSummaryWriter(output io.Writer) *SummaryWriter {
	return &SummaryWriter{output: output}
}

// Write outputs the carve summary.
func (sw *SummaryWriter) Write(r *model.CarveReport) error {
	var sb strings.Builder

	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("                         STEAMCARVE SUMMARY\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("Image:          %s\n", r.Image))
	if r.Fingerprint != "" {
		sb.WriteString(fmt.Sprintf("Fingerprint:    sha3-256:%s\n", r.Fingerprint))
	}
	sb.WriteString(fmt.Sprintf("Scan Date:      %s\n", r.StartedAt.Format("2006-01-02 15:04:05 MST")))
	sb.WriteString(fmt.Sprintf("Duration:       %s\n", r.Duration().Round(time.Millisecond)))
	if r.ErrorMessage != "" {
		sb.WriteString(fmt.Sprintf("Status:         ERROR - %s\n", r.ErrorMessage))
	} else {
		sb.WriteString("Status:         Complete\n")
	}
	sb.WriteString("\n")

	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\nSCAN\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")
	sb.WriteString(fmt.Sprintf("  Mapped ranges:  %d\n", r.Ranges))
	sb.WriteString(fmt.Sprintf("  Chunks read:    %d\n", r.Chunks))
	sb.WriteString(fmt.Sprintf("  Chunks skipped: %d\n", r.SkippedChunks))
	sb.WriteString(fmt.Sprintf("  Bytes scanned:  %d\n", r.BytesScanned))
	sb.WriteString(fmt.Sprintf("  Candidates:     %d\n", r.Candidates))
	sb.WriteString("\n")

	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\nARTIFACTS\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")
	for _, kind := range []model.Kind{model.KindURL, model.KindSteamID, model.KindChat, model.KindString} {
		sb.WriteString(fmt.Sprintf("  %-8s %d\n", kind.String()+":", r.KindCounts[kind]))
	}
	sb.WriteString(fmt.Sprintf("\n  TOTAL:   %d artifacts\n\n", r.TotalArtifacts()))

	_, err := sw.output.Write([]byte(sb.String()))
	return err
}
