package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/steamcarve/steamcarve/internal/model"
)

// FindingsWriter outputs the findings summary as plain text: a title line
// and three "##"-prefixed sections, each a header row followed by CSV
// rows. The section literals match the original tool's output, including
// the sample cap in the third heading.
type FindingsWriter struct {
	output io.Writer
}

// NewFindingsWriter creates a FindingsWriter on the given output.
func NewFindingsWriter(output io.Writer) *FindingsWriter {
	return &FindingsWriter{output: output}
}

// Write outputs the full findings report.
func (fw *FindingsWriter) Write(f *model.FindingsSummary) error {
	if _, err := fmt.Fprint(fw.output, "# Summary (top findings)\n\n"); err != nil {
		return err
	}

	if err := fw.section("## Top URL domains", []string{"domain", "url_count"},
		func(w *csv.Writer) error {
			for _, d := range f.TopDomains {
				if err := w.Write([]string{d.Domain, strconv.Itoa(d.Count)}); err != nil {
					return err
				}
			}
			return nil
		}); err != nil {
		return err
	}

	if err := fw.section("\n## SteamIDs found", []string{"steamid", "first_seen", "offset"},
		func(w *csv.Writer) error {
			for _, s := range f.SteamIDs {
				if err := w.Write([]string{s.SteamID, s.FirstSeen, s.Offset}); err != nil {
					return err
				}
			}
			return nil
		}); err != nil {
		return err
	}

	return fw.section("\n## Sample chat lines (up to 100)", []string{"timestamp", "message", "offset"},
		func(w *csv.Writer) error {
			for _, c := range f.ChatSamples {
				if err := w.Write([]string{c.Timestamp, c.Message, c.Offset}); err != nil {
					return err
				}
			}
			return nil
		})
}

// section writes one "##" heading, its header row, and its rows.
func (fw *FindingsWriter) section(heading string, header []string, rows func(*csv.Writer) error) error {
	if _, err := fmt.Fprintf(fw.output, "%s\n", heading); err != nil {
		return err
	}
	w := csv.NewWriter(fw.output)
	if err := w.Write(header); err != nil {
		return err
	}
	if err := rows(w); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}
