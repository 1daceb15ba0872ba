package carve

import (
	"fmt"
	"regexp"
)

// Structural patterns for classification and field extraction.
//
// Design decision: All fixed patterns are compile-once package constants
// (regexp.MustCompile at init), never rebuilt per chunk. Only the printable
// run patterns depend on a runtime option (minimum length), so those are
// compiled once per Carver in New.
var (
	// steamIDRe matches a SteamID64: 17 digits beginning with the fixed
	// individual-account prefix 7656119.
	steamIDRe = regexp.MustCompile(`7656119\d{10}`)

	// unix13Re matches the first run of 13 consecutive digits, read as a
	// millisecond unix timestamp. No range plausibility check is applied
	// at this stage; refinement discards non-positive values.
	unix13Re = regexp.MustCompile(`\d{13}`)

	// msgRe matches chat remnants: a quoted JSON message field, an
	// internal A_TAG_ line, or a known fixed phrase.
	msgRe = regexp.MustCompile(`(?i)"message"\s*:\s*"[^"]+"|A_TAG_\d{3,}[^"\r\n]*|im\s+going\s+to\s+use[^"\r\n]*`)

	// urlRe matches URLs on Steam's web properties. The host whitelist
	// keeps the url kind specific to the target application instead of
	// carving every URL in the image.
	urlRe = regexp.MustCompile(`(?i)https?://(?:steamcommunity|steampowered|store\.steampowered|help\.steampowered|` +
		`shared\.steamstatic|avatars\.steamstatic|steamcdn|steamuserimages|` +
		`ext2-par1\.steamserver|steambroadcast|steamloopback)[^\s"']+`)
)

// asciiRunPattern returns the pattern for maximal printable ASCII runs of
// at least minLen bytes.
func asciiRunPattern(minLen int) string {
	return fmt.Sprintf(`[ -~]{%d,}`, minLen)
}

// utf16RunPattern returns the pattern for maximal UTF-16LE runs of at
// least minLen characters: alternating printable-byte/NUL pairs.
func utf16RunPattern(minLen int) string {
	return fmt.Sprintf(`(?:[ -~]\x00){%d,}`, minLen)
}
