package report

import (
	"io"
	"strconv"

	"github.com/nao1215/markdown"

	"github.com/steamcarve/steamcarve/internal/model"
)

// MarkdownWriter outputs the findings summary as GitHub Flavored Markdown.
// This format is meant for case notes and sharing; the plain-text findings
// report remains the canonical machine-readable output.
type MarkdownWriter struct {
	output io.Writer
}

// NewMarkdownWriter creates a MarkdownWriter on the given output.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{output: output}
}

// Write outputs the findings summary in markdown format.
func (mw *MarkdownWriter) Write(f *model.FindingsSummary) error {
	md := markdown.NewMarkdown(mw.output)

	md.H1("Findings Summary")
	md.PlainText("")

	md.H2("Top URL domains")
	if len(f.TopDomains) == 0 {
		md.PlainText("No URL domains found.")
	} else {
		rows := make([][]string, 0, len(f.TopDomains))
		for _, d := range f.TopDomains {
			rows = append(rows, []string{d.Domain, strconv.Itoa(d.Count)})
		}
		md.Table(markdown.TableSet{
			Header: []string{"Domain", "URL count"},
			Rows:   rows,
		})
	}
	md.PlainText("")

	md.H2("SteamIDs found")
	if len(f.SteamIDs) == 0 {
		md.PlainText("No SteamIDs found.")
	} else {
		rows := make([][]string, 0, len(f.SteamIDs))
		for _, s := range f.SteamIDs {
			rows = append(rows, []string{"`" + s.SteamID + "`", s.FirstSeen, s.Offset})
		}
		md.Table(markdown.TableSet{
			Header: []string{"SteamID", "First seen", "Offset"},
			Rows:   rows,
		})
	}
	md.PlainText("")

	md.H2("Sample chat lines")
	if len(f.ChatSamples) == 0 {
		md.PlainText("No chat lines found.")
	} else {
		rows := make([][]string, 0, len(f.ChatSamples))
		for _, c := range f.ChatSamples {
			rows = append(rows, []string{c.Timestamp, c.Message, c.Offset})
		}
		md.Table(markdown.TableSet{
			Header: []string{"Timestamp", "Message", "Offset"},
			Rows:   rows,
		})
	}

	return md.Build()
}
