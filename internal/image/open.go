package image

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/gzip"
	"github.com/pierrec/lz4/v4"
)

// Compressed evidence magics. Captures are routinely shipped gzip- or
// lz4-compressed; chunked scanning needs random access, so compressed
// input is decompressed to a temporary file before opening.
const (
	lz4FrameMagic = 0x184D2204
)

// Open opens a memory capture, transparently decompressing gzip and lz4
// evidence files, then sniffing LiME versus flat raw format.
//
// The returned space owns any temporary decompressed copy and removes it
// on Close.
func Open(path string) (AddressSpace, error) {
	magic, err := readMagic(path)
	if err != nil {
		return nil, err
	}

	tempPath := ""
	switch {
	case magic[0] == 0x1F && magic[1] == 0x8B:
		tempPath, err = decompressToTemp(path, newGzipReader)
	case binary.LittleEndian.Uint32(magic[:]) == lz4FrameMagic:
		tempPath, err = decompressToTemp(path, newLZ4Reader)
	}
	if err != nil {
		return nil, err
	}
	if tempPath != "" {
		path = tempPath
		if magic, err = readMagic(path); err != nil {
			_ = os.Remove(tempPath)
			return nil, err
		}
	}

	if binary.LittleEndian.Uint32(magic[:]) == limeMagic {
		img, err := NewLimeImage(path)
		if err != nil {
			if tempPath != "" {
				_ = os.Remove(tempPath)
			}
			return nil, err
		}
		img.tempPath = tempPath
		return img, nil
	}

	img, err := NewRawImage(path)
	if err != nil {
		if tempPath != "" {
			_ = os.Remove(tempPath)
		}
		return nil, err
	}
	img.tempPath = tempPath
	return img, nil
}

// readMagic returns the first four bytes of the file, zero-padded for
// short files.
func readMagic(path string) ([4]byte, error) {
	var magic [4]byte
	f, err := os.Open(path) //nolint:gosec // Evidence path comes from the operator
	if err != nil {
		return magic, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()
	if _, err := f.Read(magic[:]); err != nil && err != io.EOF {
		return magic, fmt.Errorf("failed to read image header: %w", err)
	}
	return magic, nil
}

// newGzipReader wraps src in a gzip decompressor.
func newGzipReader(src io.Reader) (io.Reader, error) {
	return gzip.NewReader(src)
}

// newLZ4Reader wraps src in an lz4 frame decompressor.
func newLZ4Reader(src io.Reader) (io.Reader, error) {
	return lz4.NewReader(src), nil
}

// decompressToTemp streams the decompressed content of path into a
// temporary file and returns its path. The caller owns the temp file.
func decompressToTemp(path string, wrap func(io.Reader) (io.Reader, error)) (string, error) {
	src, err := os.Open(path) //nolint:gosec // Evidence path comes from the operator
	if err != nil {
		return "", fmt.Errorf("failed to open compressed image: %w", err)
	}
	defer src.Close()

	reader, err := wrap(src)
	if err != nil {
		return "", fmt.Errorf("failed to open decompressor: %w", err)
	}

	tmp, err := os.CreateTemp("", "steamcarve-*.img")
	if err != nil {
		return "", fmt.Errorf("failed to create temp image: %w", err)
	}

	if _, err := io.Copy(tmp, reader); err != nil { //nolint:gosec // Evidence size is operator-controlled
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to decompress image: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to finalize temp image: %w", err)
	}
	return tmp.Name(), nil
}
