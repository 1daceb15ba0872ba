package carve

import (
	"context"
	"errors"
	"testing"

	"github.com/steamcarve/steamcarve/internal/config"
	"github.com/steamcarve/steamcarve/internal/image"
	"github.com/steamcarve/steamcarve/internal/model"
)

// fakeSpace is an in-memory address space backed by a flat byte slice.
// Reads at addresses listed in failAt return ErrUnmappedAddress.
type fakeSpace struct {
	data   []byte
	failAt map[uint64]bool
	reads  []fakeRead
}

type fakeRead struct {
	addr uint64
	n    int
}

func (s *fakeSpace) MaximumAddress() uint64 { return uint64(len(s.data)) }

func (s *fakeSpace) MappedRanges() []image.MappedRange {
	return []image.MappedRange{{Start: 0, End: uint64(len(s.data))}}
}

func (s *fakeSpace) Read(addr uint64, n int) ([]byte, error) {
	s.reads = append(s.reads, fakeRead{addr: addr, n: n})
	if s.failAt[addr] {
		return nil, image.ErrUnmappedAddress
	}
	if addr >= uint64(len(s.data)) {
		return nil, image.ErrUnmappedAddress
	}
	buf := make([]byte, n)
	copy(buf, s.data[addr:])
	return buf, nil
}

func (s *fakeSpace) Close() error { return nil }

// collectArtifacts runs the carver over the space and gathers every
// emitted record.
func collectArtifacts(t *testing.T, c *Carver, space image.AddressSpace) ([]model.Artifact, *model.CarveReport) {
	t.Helper()

	report := model.NewCarveReport("test")
	var got []model.Artifact
	err := c.Run(context.Background(), space, report, func(a model.Artifact) error {
		got = append(got, a)
		return nil
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	return got, report
}

// TestNewClampsOptions verifies option clamping in the constructor.
func TestNewClampsOptions(t *testing.T) {
	t.Parallel()

	t.Run("chunk size floor", func(t *testing.T) {
		t.Parallel()
		c := New(WithChunkSize(16))
		if got := c.ChunkSize(); got != config.MinChunkSize {
			t.Errorf("ChunkSize() = %d, want %d", got, config.MinChunkSize)
		}
	})

	t.Run("negative overlap clamps to zero", func(t *testing.T) {
		t.Parallel()
		c := New(WithOverlap(-5))
		if got := c.Overlap(); got != 0 {
			t.Errorf("Overlap() = %d, want 0", got)
		}
	})

	t.Run("overlap at chunk size resets to half", func(t *testing.T) {
		t.Parallel()
		c := New(WithChunkSize(2048), WithOverlap(2048))
		if got := c.Overlap(); got != 1024 {
			t.Errorf("Overlap() = %d, want 1024", got)
		}
	})

	t.Run("min length clamped into range", func(t *testing.T) {
		t.Parallel()
		if got := New(WithMinLength(1)).MinLength(); got != config.MinLengthFloor {
			t.Errorf("MinLength() = %d, want %d", got, config.MinLengthFloor)
		}
		if got := New(WithMinLength(1 << 20)).MinLength(); got != config.MinLengthCeil {
			t.Errorf("MinLength() = %d, want %d", got, config.MinLengthCeil)
		}
	})
}

// TestRunChunkCoverage verifies the chunk walk: fixed step, full range
// coverage, shortened tail read.
func TestRunChunkCoverage(t *testing.T) {
	t.Parallel()

	const (
		size      = 3000
		chunkSize = 1024
		overlap   = 128
		step      = chunkSize - overlap
	)

	space := &fakeSpace{data: make([]byte, size)}
	c := New(WithChunkSize(chunkSize), WithOverlap(overlap), WithMinLength(6))
	_, report := collectArtifacts(t, c, space)

	wantReads := []fakeRead{
		{addr: 0, n: 1024},
		{addr: 896, n: 1024},
		{addr: 1792, n: 1024},
		{addr: 2688, n: 312},
	}
	if len(space.reads) != len(wantReads) {
		t.Fatalf("got %d reads, want %d: %+v", len(space.reads), len(wantReads), space.reads)
	}
	for i, want := range wantReads {
		if space.reads[i] != want {
			t.Errorf("read %d = %+v, want %+v", i, space.reads[i], want)
		}
	}

	if report.Chunks != 4 {
		t.Errorf("Chunks = %d, want 4", report.Chunks)
	}
	if report.SkippedChunks != 0 {
		t.Errorf("SkippedChunks = %d, want 0", report.SkippedChunks)
	}

	// Consecutive reads advance by exactly chunkSize - overlap.
	for i := 1; i < len(space.reads); i++ {
		if diff := space.reads[i].addr - space.reads[i-1].addr; diff != step {
			t.Errorf("step between reads %d and %d = %d, want %d", i-1, i, diff, step)
		}
	}
}

// TestRunFindsRunAcrossChunkBoundary verifies that a run straddling a
// chunk boundary is recovered in full via the overlap window.
func TestRunFindsRunAcrossChunkBoundary(t *testing.T) {
	t.Parallel()

	data := make([]byte, 3000)
	const payload = "straddling-run"
	const base = 1018 // crosses the first chunk boundary at 1024
	copy(data[base:], payload)

	space := &fakeSpace{data: data}
	c := New(WithChunkSize(1024), WithOverlap(128), WithMinLength(6))
	got, _ := collectArtifacts(t, c, space)

	found := false
	for _, a := range got {
		if a.Offset == base && a.Preview == payload {
			found = true
		}
	}
	if !found {
		t.Errorf("full run at 0x%X not recovered; artifacts: %+v", base, got)
	}
}

// TestRunMinLength verifies the run length cutoff: a run one byte short
// of the minimum yields nothing.
func TestRunMinLength(t *testing.T) {
	t.Parallel()

	data := make([]byte, 2048)
	copy(data[100:], "abcde")   // 5 bytes, below cutoff
	copy(data[200:], "abcdef") // exactly at cutoff

	space := &fakeSpace{data: data}
	c := New(WithChunkSize(2048), WithOverlap(0), WithMinLength(6), WithUnicode(false))
	got, _ := collectArtifacts(t, c, space)

	if len(got) != 1 {
		t.Fatalf("got %d artifacts, want 1: %+v", len(got), got)
	}
	if got[0].Offset != 200 || got[0].Preview != "abcdef" {
		t.Errorf("artifact = %+v, want offset 0xC8 preview %q", got[0], "abcdef")
	}
}

// TestRunSkipsUnreadableChunk verifies an unreadable chunk is a gap,
// not a terminated scan.
func TestRunSkipsUnreadableChunk(t *testing.T) {
	t.Parallel()

	data := make([]byte, 3000)
	copy(data[2000:], "late-artifact")
	space := &fakeSpace{
		data:   data,
		failAt: map[uint64]bool{896: true},
	}

	c := New(WithChunkSize(1024), WithOverlap(128), WithMinLength(6), WithUnicode(false))
	got, report := collectArtifacts(t, c, space)

	if report.SkippedChunks != 1 {
		t.Errorf("SkippedChunks = %d, want 1", report.SkippedChunks)
	}
	if report.Chunks != 3 {
		t.Errorf("Chunks = %d, want 3", report.Chunks)
	}

	found := false
	for _, a := range got {
		if a.Offset == 2000 {
			found = true
		}
	}
	if !found {
		t.Error("artifact after the unreadable chunk was not recovered")
	}
}

// TestRunUTF16 verifies the UTF-16LE scan and its flag.
func TestRunUTF16(t *testing.T) {
	t.Parallel()

	payload := "wide characters"
	data := make([]byte, 2048)
	pos := 300
	for _, b := range []byte(payload) {
		data[pos] = b
		data[pos+1] = 0
		pos += 2
	}

	t.Run("enabled", func(t *testing.T) {
		t.Parallel()
		space := &fakeSpace{data: append([]byte(nil), data...)}
		c := New(WithChunkSize(2048), WithOverlap(0), WithMinLength(6), WithUnicode(true))
		got, _ := collectArtifacts(t, c, space)

		found := false
		for _, a := range got {
			if a.Offset == 300 && a.Preview == payload {
				found = true
			}
		}
		if !found {
			t.Errorf("UTF-16LE run not recovered; artifacts: %+v", got)
		}
	})

	t.Run("disabled", func(t *testing.T) {
		t.Parallel()
		space := &fakeSpace{data: append([]byte(nil), data...)}
		c := New(WithChunkSize(2048), WithOverlap(0), WithMinLength(6), WithUnicode(false))
		got, _ := collectArtifacts(t, c, space)
		if len(got) != 0 {
			t.Errorf("got %d artifacts with unicode disabled, want 0", len(got))
		}
	})
}

// TestRunContextCancellation verifies a cancelled context stops the scan.
func TestRunContextCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	space := &fakeSpace{data: make([]byte, 4096)}
	c := New(WithChunkSize(1024), WithOverlap(0), WithMinLength(6))
	err := c.Run(ctx, space, model.NewCarveReport("test"), func(model.Artifact) error {
		t.Fatal("emit called after cancellation")
		return nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Run() error = %v, want context.Canceled", err)
	}
}

// TestRunEmitErrorAborts verifies a sink failure terminates the scan.
func TestRunEmitErrorAborts(t *testing.T) {
	t.Parallel()

	data := make([]byte, 2048)
	copy(data[10:], "first-run")
	copy(data[100:], "second-run")

	sinkErr := errors.New("sink closed")
	space := &fakeSpace{data: data}
	c := New(WithChunkSize(2048), WithOverlap(0), WithMinLength(6), WithUnicode(false))

	calls := 0
	err := c.Run(context.Background(), space, model.NewCarveReport("test"), func(model.Artifact) error {
		calls++
		return sinkErr
	})
	if !errors.Is(err, sinkErr) {
		t.Errorf("Run() error = %v, want %v", err, sinkErr)
	}
	if calls != 1 {
		t.Errorf("emit called %d times after failure, want 1", calls)
	}
}

// TestRunKindCounts verifies per-kind statistics accumulate.
func TestRunKindCounts(t *testing.T) {
	t.Parallel()

	data := make([]byte, 2048)
	copy(data[10:], "https://steamcommunity.com/id/case42")
	copy(data[200:], "steamid 76561198012345678 seen")
	copy(data[400:], "plain printable filler text")

	space := &fakeSpace{data: data}
	c := New(WithChunkSize(2048), WithOverlap(0), WithMinLength(6), WithUnicode(false))
	_, report := collectArtifacts(t, c, space)

	if report.KindCounts[model.KindURL] != 1 {
		t.Errorf("url count = %d, want 1", report.KindCounts[model.KindURL])
	}
	if report.KindCounts[model.KindSteamID] != 1 {
		t.Errorf("steamid count = %d, want 1", report.KindCounts[model.KindSteamID])
	}
	if report.KindCounts[model.KindString] != 1 {
		t.Errorf("string count = %d, want 1", report.KindCounts[model.KindString])
	}
}
