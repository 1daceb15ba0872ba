package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/steamcarve/steamcarve/internal/model"
)

// TestRawWriter tests the streaming raw CSV sink.
func TestRawWriter(t *testing.T) {
	t.Parallel()

	t.Run("records with header", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewRawWriter(&buf)
		err := w.Write(model.Artifact{
			Kind:     model.KindURL,
			Offset:   256,
			Preview:  "preview text",
			UnixTsMs: 1700000000000,
			Value:    "https://steamcommunity.com/x",
		})
		if err != nil {
			t.Fatal(err)
		}
		if err := w.Flush(); err != nil {
			t.Fatal(err)
		}

		lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
		if len(lines) != 2 {
			t.Fatalf("got %d lines, want 2:\n%s", len(lines), buf.String())
		}
		if lines[0] != "kind,offset,preview,steamid,unix_ts,message,value" {
			t.Errorf("header = %q", lines[0])
		}
		if lines[1] != "url,0x100,preview text,,1700000000000,,https://steamcommunity.com/x" {
			t.Errorf("record = %q", lines[1])
		}
	})

	t.Run("empty scan still writes the header", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if err := NewRawWriter(&buf).Flush(); err != nil {
			t.Fatal(err)
		}
		if got := buf.String(); got != "kind,offset,preview,steamid,unix_ts,message,value\n" {
			t.Errorf("output = %q", got)
		}
	})

	t.Run("offset is uppercase hex", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewRawWriter(&buf)
		if err := w.Write(model.Artifact{Kind: model.KindString, Offset: 0xABCDEF}); err != nil {
			t.Fatal(err)
		}
		if err := w.Flush(); err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(buf.String(), "0xABCDEF") {
			t.Errorf("offset not uppercase hex:\n%s", buf.String())
		}
	})
}

// TestWriteCleanDataset tests the nine-column cleaned CSV.
func TestWriteCleanDataset(t *testing.T) {
	t.Parallel()

	records := []*model.CleanedRecord{
		{
			Kind:      "chat",
			Timestamp: "2023-11-14 22:13:20",
			UnixTs:    "1700000000000",
			Offset:    "0x100",
			Message:   `"message": "hi"`,
			Preview:   "preview",
		},
	}

	var buf bytes.Buffer
	if err := WriteCleanDataset(&buf, records); err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2:\n%s", len(lines), buf.String())
	}
	if lines[0] != "kind,timestamp,unix_ts,offset,steamid,message,value,preview,domain" {
		t.Errorf("header = %q", lines[0])
	}
	if lines[1] != `chat,2023-11-14 22:13:20,1700000000000,0x100,,"""message"": ""hi""",,preview,` {
		t.Errorf("record = %q", lines[1])
	}
}

// TestFindingsWriter tests the plain-text findings layout.
func TestFindingsWriter(t *testing.T) {
	t.Parallel()

	f := &model.FindingsSummary{
		TopDomains: []model.DomainCount{
			{Domain: "steamcommunity.com", Count: 3},
		},
		SteamIDs: []model.SteamIDSighting{
			{SteamID: "76561198012345678", FirstSeen: "2023-11-14 22:13:20", Offset: "0x60"},
		},
		ChatSamples: []model.ChatSample{
			{Timestamp: "2023-11-14 22:13:20", Message: "see you at 8", Offset: "0x100"},
		},
	}

	var buf bytes.Buffer
	if err := NewFindingsWriter(&buf).Write(f); err != nil {
		t.Fatal(err)
	}

	got := buf.String()
	for _, fragment := range []string{
		"# Summary (top findings)\n\n",
		"## Top URL domains\ndomain,url_count\nsteamcommunity.com,3\n",
		"\n## SteamIDs found\nsteamid,first_seen,offset\n76561198012345678,2023-11-14 22:13:20,0x60\n",
		"\n## Sample chat lines (up to 100)\ntimestamp,message,offset\n2023-11-14 22:13:20,see you at 8,0x100\n",
	} {
		if !strings.Contains(got, fragment) {
			t.Errorf("output missing %q:\n%s", fragment, got)
		}
	}
}

// TestFindingsWriterEmpty verifies an empty summary still writes every
// section heading and header row.
func TestFindingsWriterEmpty(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := NewFindingsWriter(&buf).Write(&model.FindingsSummary{}); err != nil {
		t.Fatal(err)
	}

	got := buf.String()
	for _, fragment := range []string{
		"# Summary (top findings)",
		"## Top URL domains\ndomain,url_count\n",
		"## SteamIDs found\nsteamid,first_seen,offset\n",
		"## Sample chat lines (up to 100)\ntimestamp,message,offset\n",
	} {
		if !strings.Contains(got, fragment) {
			t.Errorf("output missing %q:\n%s", fragment, got)
		}
	}
}

// TestMarkdownWriter tests the markdown findings summary.
func TestMarkdownWriter(t *testing.T) {
	t.Parallel()

	f := &model.FindingsSummary{
		TopDomains: []model.DomainCount{{Domain: "steamcommunity.com", Count: 2}},
		SteamIDs:   []model.SteamIDSighting{{SteamID: "76561198012345678"}},
	}

	var buf bytes.Buffer
	if err := NewMarkdownWriter(&buf).Write(f); err != nil {
		t.Fatal(err)
	}

	got := buf.String()
	for _, fragment := range []string{
		"# Findings Summary",
		"## Top URL domains",
		"steamcommunity.com",
		"## SteamIDs found",
		"`76561198012345678`",
		"## Sample chat lines",
		"No chat lines found.",
	} {
		if !strings.Contains(got, fragment) {
			t.Errorf("output missing %q:\n%s", fragment, got)
		}
	}
}

// TestSummaryWriter tests the terminal carve summary.
func TestSummaryWriter(t *testing.T) {
	t.Parallel()

	r := model.NewCarveReport("memdump.raw")
	r.Fingerprint = "deadbeef"
	r.FinishedAt = r.StartedAt.Add(2 * time.Second)
	r.Ranges = 1
	r.Chunks = 4
	r.SkippedChunks = 1
	r.KindCounts[model.KindURL] = 2
	r.KindCounts[model.KindChat] = 1

	var buf bytes.Buffer
	if err := NewSummaryWriter(&buf).Write(r); err != nil {
		t.Fatal(err)
	}

	got := buf.String()
	for _, fragment := range []string{
		"STEAMCARVE SUMMARY",
		"Image:          memdump.raw",
		"Fingerprint:    sha3-256:deadbeef",
		"Status:         Complete",
		"Chunks skipped: 1",
		"TOTAL:   3 artifacts",
	} {
		if !strings.Contains(got, fragment) {
			t.Errorf("output missing %q:\n%s", fragment, got)
		}
	}
}

// TestSummaryWriterError verifies failures surface in the status line.
func TestSummaryWriterError(t *testing.T) {
	t.Parallel()

	r := model.NewCarveReport("bad.raw")
	r.ErrorMessage = "open failed"

	var buf bytes.Buffer
	if err := NewSummaryWriter(&buf).Write(r); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "Status:         ERROR - open failed") {
		t.Errorf("error status missing:\n%s", buf.String())
	}
}
