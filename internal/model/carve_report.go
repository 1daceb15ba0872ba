package model

import "time"

// CarveReport collects statistics for one carving run over a single memory
// image. It backs the human-readable carve summary and the database record
// of the run.
type CarveReport struct {
	// Image is the path of the scanned memory image.
	Image string `json:"image"`

	// Fingerprint is the SHA3-256 digest of the evidence file, as a hex
	// string. Empty when fingerprinting was disabled.
	Fingerprint string `json:"fingerprint,omitempty"`

	// ChunkSize, Overlap, and MinLength are the effective (clamped)
	// carving options used for this run.
	ChunkSize int `json:"chunk_size"`
	Overlap   int `json:"overlap"`
	MinLength int `json:"min_length"`

	// ScanUnicode reports whether UTF-16LE runs were carved.
	ScanUnicode bool `json:"scan_unicode"`

	// Ranges is the number of mapped ranges enumerated.
	Ranges int `json:"ranges"`

	// Chunks is the number of chunks successfully read and scanned.
	Chunks int `json:"chunks"`

	// SkippedChunks is the number of chunk reads that failed and were
	// skipped. A skip is a gap in results, never a terminated scan.
	SkippedChunks int `json:"skipped_chunks"`

	// BytesScanned is the total number of bytes read across all chunks,
	// counting overlap bytes each time they are read.
	BytesScanned uint64 `json:"bytes_scanned"`

	// Candidates is the number of printable runs that reached
	// classification.
	Candidates int `json:"candidates"`

	// KindCounts tallies emitted artifacts by kind.
	KindCounts map[Kind]int `json:"kind_counts"`

	// StartedAt and FinishedAt bound the scan wall-clock time.
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`

	// ErrorMessage records a fatal carve error, if any. Unreadable
	// ranges are not errors; they show up in SkippedChunks.
	ErrorMessage string `json:"error,omitempty"`
}

// NewCarveReport creates a CarveReport for the given image path with the
// start time set to now.
func NewCarveReport(image string) *CarveReport {
	return &CarveReport{
		Image:      image,
		KindCounts: make(map[Kind]int),
		StartedAt:  time.Now(),
	}
}

// Duration returns the elapsed scan time.
func (r *CarveReport) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// TotalArtifacts returns the number of artifacts emitted across all kinds.
func (r *CarveReport) TotalArtifacts() int {
	total := 0
	for _, n := range r.KindCounts {
		total += n
	}
	return total
}
