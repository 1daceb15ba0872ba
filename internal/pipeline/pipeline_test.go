package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"
)

// failStep always fails.
type failStep struct{}

func (s *failStep) Name() string { return "fail" }

func (s *failStep) Do(context.Context, *Dataset) error {
	return errors.New("step broke")
}

// countStep records that it ran.
type countStep struct {
	calls int
}

func (s *countStep) Name() string { return "count" }

func (s *countStep) Do(context.Context, *Dataset) error {
	s.calls++
	return nil
}

// TestPipelineExecute tests step sequencing and failure behavior.
func TestPipelineExecute(t *testing.T) {
	t.Parallel()

	t.Run("steps run in order", func(t *testing.T) {
		t.Parallel()

		first, second := &countStep{}, &countStep{}
		p := New()
		p.AddSteps(first, second)

		d := NewDataset("test")
		if err := p.Execute(context.Background(), d); err != nil {
			t.Fatal(err)
		}
		if first.calls != 1 || second.calls != 1 {
			t.Errorf("calls = %d, %d; want 1, 1", first.calls, second.calls)
		}
		if len(d.PerformedSteps) != 2 {
			t.Errorf("PerformedSteps = %v", d.PerformedSteps)
		}
	})

	t.Run("failure stops the pipeline", func(t *testing.T) {
		t.Parallel()

		after := &countStep{}
		p := New()
		p.AddSteps(&failStep{}, after)

		err := p.Execute(context.Background(), NewDataset("test"))
		if err == nil {
			t.Fatal("expected error")
		}
		if after.calls != 0 {
			t.Errorf("step after failure ran %d times", after.calls)
		}
	})

	t.Run("cancelled context stops before the next step", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		step := &countStep{}
		p := New()
		p.AddSteps(step)

		if err := p.Execute(ctx, NewDataset("test")); !errors.Is(err, context.Canceled) {
			t.Errorf("Execute() error = %v, want context.Canceled", err)
		}
		if step.calls != 0 {
			t.Errorf("step ran %d times after cancellation", step.calls)
		}
	})
}

// TestRefinementStepNames verifies the standard pipeline composition.
func TestRefinementStepNames(t *testing.T) {
	t.Parallel()

	got := Refinement().StepNames()
	want := []string{"load", "filter", "canonicalize", "dedup", "sort", "aggregate"}
	if len(got) != len(want) {
		t.Fatalf("StepNames() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("step %d = %q, want %q", i, got[i], want[i])
		}
	}
}

// TestRefinementEndToEnd runs the whole pipeline over a raw CSV and
// checks the resulting dataset and findings.
func TestRefinementEndToEnd(t *testing.T) {
	t.Parallel()

	src := writeCSV(t, strings.Join([]string{
		"kind,offset,preview,steamid,unix_ts,message,value",
		`chat,256,"xx""message"": ""see you at 8""xx",,1700000000000,"""message"": ""see you at 8""",`,
		`string,0x40,random noise here,,,,`,
		`url,0x10,,,,,"https://steamcommunity.com/id/case42"`,
		`url,0x50,,,,,"https://steamcommunity.com/id/case42"`,
		`steamid,0x60,xx76561198012345678xx,76561198012345678,,,`,
	}, "\n")+"\n")

	d := NewDataset(src)
	if err := Refinement().Execute(context.Background(), d); err != nil {
		t.Fatal(err)
	}

	// The string record is dropped and the duplicate url collapses.
	if len(d.Cleaned) != 3 {
		t.Fatalf("cleaned set has %d records, want 3: %+v", len(d.Cleaned), d.Cleaned)
	}

	byKind := map[string]int{}
	for _, rec := range d.Cleaned {
		byKind[rec.Kind]++
	}
	if byKind["chat"] != 1 || byKind["url"] != 1 || byKind["steamid"] != 1 {
		t.Errorf("kind distribution = %v", byKind)
	}

	for _, rec := range d.Cleaned {
		switch rec.Kind {
		case "chat":
			if rec.Timestamp != "2023-11-14 22:13:20" {
				t.Errorf("chat timestamp = %q", rec.Timestamp)
			}
			if rec.Offset != "0x100" {
				t.Errorf("chat offset = %q, want 0x100", rec.Offset)
			}
		case "url":
			if rec.Offset != "0x10" {
				t.Errorf("kept url offset = %q, want first occurrence 0x10", rec.Offset)
			}
			if rec.Domain != "steamcommunity.com" {
				t.Errorf("url domain = %q", rec.Domain)
			}
		}
	}

	if d.Findings == nil {
		t.Fatal("findings not populated")
	}
	if len(d.Findings.TopDomains) != 1 || d.Findings.TopDomains[0].Domain != "steamcommunity.com" {
		t.Errorf("TopDomains = %+v", d.Findings.TopDomains)
	}
	if len(d.Findings.SteamIDs) != 1 || d.Findings.SteamIDs[0].SteamID != "76561198012345678" {
		t.Errorf("SteamIDs = %+v", d.Findings.SteamIDs)
	}
	if len(d.Findings.ChatSamples) != 1 {
		t.Errorf("ChatSamples = %+v", d.Findings.ChatSamples)
	}
}
