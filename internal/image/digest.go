package image

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"golang.org/x/crypto/sha3"
)

// Fingerprint computes the SHA3-256 digest of the evidence file at path
// and returns it as a lower-case hex string. The digest is taken over the
// file as given, before any decompression, so it matches what other tools
// hash when verifying the same evidence.
func Fingerprint(path string) (string, error) {
	f, err := os.Open(path) //nolint:gosec // Evidence path comes from the operator
	if err != nil {
		return "", fmt.Errorf("failed to open image for fingerprint: %w", err)
	}
	defer f.Close()

	h := sha3.New256()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("failed to fingerprint image: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
