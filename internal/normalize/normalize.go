package normalize

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// domainRe extracts the host segment of a scheme://host URL. The match is
// intentionally this shallow: the domain column is defined as "everything
// between the scheme and the first slash", lower-cased, not a parsed URL.
var domainRe = regexp.MustCompile(`^https?://([^/]+)`)

// timestampLayout is the fixed UTC layout of the clean dataset's
// timestamp column.
const timestampLayout = "2006-01-02 15:04:05"

// Timestamp canonicalizes a millisecond unix timestamp string into a fixed
// UTC "YYYY-MM-DD HH:MM:SS" string. Unparseable or non-positive input
// canonicalizes to the empty string.
func Timestamp(unixMs string) string {
	v, err := strconv.ParseInt(strings.TrimSpace(unixMs), 10, 64)
	if err != nil || v <= 0 {
		return ""
	}
	return time.UnixMilli(v).UTC().Format(timestampLayout)
}

// HexOffset canonicalizes an offset to "0x" + uppercase hex. Input that
// already carries a "0x" prefix passes through unchanged, so the function
// is idempotent. Plain integers are rendered as uppercase hex. Anything
// else passes through as-is (best-effort, never an error).
func HexOffset(offset string) string {
	if strings.HasPrefix(offset, "0x") {
		return offset
	}
	v, err := strconv.ParseUint(strings.TrimSpace(offset), 10, 64)
	if err != nil {
		return offset
	}
	return fmt.Sprintf("0x%X", v)
}

// Domain returns the lower-cased host segment of a url value, or the empty
// string when the value does not start with scheme://host.
func Domain(url string) string {
	if url == "" {
		return ""
	}
	m := domainRe.FindStringSubmatch(strings.TrimSpace(url))
	if m == nil {
		return ""
	}
	return strings.ToLower(m[1])
}

// DedupKey builds the deduplication key for a cleaned record. Two records
// with the same kind-specific payload collapse to one regardless of where
// in the address space they were carved.
func DedupKey(kind, steamid, message, value string) string {
	return kind + "|" + steamid + "|" + message + "|" + value
}
