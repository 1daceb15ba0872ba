// Package image provides address-space access to memory captures.
//
// An AddressSpace exposes the two things the carving engine needs: an
// enumeration of mapped ranges and bounded reads at absolute addresses.
// Two concrete spaces are provided: RawImage (a flat capture, one mapped
// range) and LimeImage (LiME-format captures, one mapped range per
// segment with unmapped gaps between them).
//
// Open sniffs the capture format and transparently decompresses gzip and
// lz4 evidence files to a temporary file first, since chunked scanning
// needs random access.
package image
