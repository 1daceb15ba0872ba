package image

import "errors"

// ErrUnmappedAddress is returned by Read when the requested address is not
// backed by data. The carving engine treats it as "advance and continue";
// it never escapes the chunk loop.
var ErrUnmappedAddress = errors.New("address not mapped")

// MappedRange is a contiguous addressable interval [Start, End) within an
// address space. A space may expose many disjoint ranges.
type MappedRange struct {
	Start uint64
	End   uint64
}

// Size returns the number of addressable bytes in the range.
func (r MappedRange) Size() uint64 {
	if r.End <= r.Start {
		return 0
	}
	return r.End - r.Start
}

// Contains reports whether addr falls inside the range.
func (r MappedRange) Contains(addr uint64) bool {
	return addr >= r.Start && addr < r.End
}

// AddressSpace is the read/enumerate contract consumed by the carving
// engine. Implementations must tolerate reads at arbitrary addresses:
// unmapped addresses return ErrUnmappedAddress, and short reads at a
// range's tail are padded with zero bytes rather than rejected.
type AddressSpace interface {
	// MaximumAddress returns the highest addressable byte plus one.
	MaximumAddress() uint64

	// MappedRanges enumerates the mapped ranges in ascending order.
	MappedRanges() []MappedRange

	// Read returns n bytes starting at addr. The returned slice always
	// has length n on success; bytes past the backing data are zero.
	Read(addr uint64, n int) ([]byte, error)

	// Close releases the underlying file and any temporary artifacts
	// created while opening the space.
	Close() error
}
