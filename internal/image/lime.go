package image

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
)

// LiME format constants. A LiME capture is a sequence of segments, each a
// fixed 32-byte header followed by the segment's bytes. Header fields are
// little-endian; the end address is inclusive.
const (
	limeMagic      = 0x4C694D45 // "EMiL" on disk
	limeVersion    = 1
	limeHeaderSize = 32
)

// ErrNotLime is returned when a file does not start with the LiME magic.
var ErrNotLime = errors.New("not a LiME capture")

// limeSegment maps one capture segment to its position in the file.
type limeSegment struct {
	start   uint64 // first mapped address
	end     uint64 // one past the last mapped address
	fileOff int64  // offset of the segment's data in the file
}

// LimeImage is a LiME-format memory capture: one mapped range per segment,
// with unmapped gaps between segments.
type LimeImage struct {
	f        *os.File
	segments []limeSegment
	maxAddr  uint64
	tempPath string
}

// NewLimeImage opens path as a LiME capture and walks its segment headers.
func NewLimeImage(path string) (*LimeImage, error) {
	f, err := os.Open(path) //nolint:gosec // Evidence path comes from the operator
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}

	img := &LimeImage{f: f}
	if err := img.readSegments(); err != nil {
		_ = f.Close()
		return nil, err
	}
	return img, nil
}

// readSegments walks the file's segment headers and builds the segment
// table. Segments must be well-formed; a truncated trailing segment is
// accepted with its on-disk length (reads past it zero-pad).
func (l *LimeImage) readSegments() error {
	var hdr [limeHeaderSize]byte
	offset := int64(0)

	for {
		_, err := l.f.ReadAt(hdr[:], offset)
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read segment header: %w", err)
		}

		magic := binary.LittleEndian.Uint32(hdr[0:4])
		version := binary.LittleEndian.Uint32(hdr[4:8])
		start := binary.LittleEndian.Uint64(hdr[8:16])
		end := binary.LittleEndian.Uint64(hdr[16:24])

		if magic != limeMagic {
			if offset == 0 {
				return ErrNotLime
			}
			return fmt.Errorf("bad segment magic 0x%X at file offset 0x%X", magic, offset)
		}
		if version != limeVersion {
			return fmt.Errorf("unsupported LiME version %d", version)
		}
		if end < start {
			return fmt.Errorf("segment end 0x%X before start 0x%X", end, start)
		}

		seg := limeSegment{
			start:   start,
			end:     end + 1, // on-disk end address is inclusive
			fileOff: offset + limeHeaderSize,
		}
		l.segments = append(l.segments, seg)
		if seg.end > l.maxAddr {
			l.maxAddr = seg.end
		}

		offset = seg.fileOff + int64(seg.end-seg.start)
	}

	if len(l.segments) == 0 {
		return ErrNotLime
	}
	return nil
}

// MaximumAddress returns one past the highest mapped address.
func (l *LimeImage) MaximumAddress() uint64 {
	return l.maxAddr
}

// MappedRanges returns one range per segment, in file order.
func (l *LimeImage) MappedRanges() []MappedRange {
	ranges := make([]MappedRange, len(l.segments))
	for i, seg := range l.segments {
		ranges[i] = MappedRange{Start: seg.start, End: seg.end}
	}
	return ranges
}

// Read returns n bytes at addr. Addresses in the gaps between segments are
// unmapped. Reads extending past a segment's tail are zero-padded; they do
// not continue into the next segment, because the gap in between holds no
// data.
func (l *LimeImage) Read(addr uint64, n int) ([]byte, error) {
	seg := l.findSegment(addr)
	if seg == nil {
		return nil, fmt.Errorf("read at 0x%X: %w", addr, ErrUnmappedAddress)
	}

	buf := make([]byte, n)
	avail := seg.end - addr
	want := uint64(n)
	if want > avail {
		want = avail
	}
	fileOff := seg.fileOff + int64(addr-seg.start)
	if _, err := l.f.ReadAt(buf[:want], fileOff); err != nil && err != io.EOF {
		return nil, fmt.Errorf("read at 0x%X: %w", addr, err)
	}
	return buf, nil
}

// findSegment returns the segment containing addr, or nil.
func (l *LimeImage) findSegment(addr uint64) *limeSegment {
	for i := range l.segments {
		if addr >= l.segments[i].start && addr < l.segments[i].end {
			return &l.segments[i]
		}
	}
	return nil
}

// Close closes the file and removes the decompressed copy, if any.
func (l *LimeImage) Close() error {
	err := l.f.Close()
	if l.tempPath != "" {
		_ = os.Remove(l.tempPath)
	}
	return err
}
