package image

import (
	"fmt"
	"io"
	"os"
)

// RawImage is a flat memory capture: the whole file is one mapped range
// starting at address zero.
type RawImage struct {
	f    *os.File
	size uint64

	// tempPath is a decompressed copy to remove on Close, if any.
	tempPath string
}

// NewRawImage opens path as a flat capture.
func NewRawImage(path string) (*RawImage, error) {
	f, err := os.Open(path) //nolint:gosec // Evidence path comes from the operator
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to stat image: %w", err)
	}
	return &RawImage{f: f, size: uint64(info.Size())}, nil
}

// MaximumAddress returns the file size.
func (r *RawImage) MaximumAddress() uint64 {
	return r.size
}

// MappedRanges returns the single range [0, size).
func (r *RawImage) MappedRanges() []MappedRange {
	if r.size == 0 {
		return nil
	}
	return []MappedRange{{Start: 0, End: r.size}}
}

// Read returns n bytes at addr, zero-padding past the end of the file.
// Addresses at or beyond the file size are unmapped.
func (r *RawImage) Read(addr uint64, n int) ([]byte, error) {
	if addr >= r.size {
		return nil, fmt.Errorf("read at 0x%X: %w", addr, ErrUnmappedAddress)
	}
	// Bytes past a short read stay zero: tail reads are padded, not
	// rejected.
	buf := make([]byte, n)
	if _, err := r.f.ReadAt(buf, int64(addr)); err != nil && err != io.EOF {
		return nil, fmt.Errorf("read at 0x%X: %w", addr, err)
	}
	return buf, nil
}

// Close closes the file and removes the decompressed copy, if any.
func (r *RawImage) Close() error {
	err := r.f.Close()
	if r.tempPath != "" {
		_ = os.Remove(r.tempPath)
	}
	return err
}
