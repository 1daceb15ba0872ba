package model

import "strings"

// Kind classifies a carved artifact by its structural shape.
//
// Design decision: We use string constants rather than iota-based integers
// because kinds travel through CSV files and the database as text, and a
// round-trip through a renderer must not depend on enum ordering.
type Kind string

const (
	// KindURL is a Steam web property URL (store, community, CDN, ...).
	KindURL Kind = "url"

	// KindSteamID is a 17-digit SteamID64 account identifier.
	KindSteamID Kind = "steamid"

	// KindChat is a chat message remnant (JSON message field, internal
	// tag line, or a known phrase).
	KindChat Kind = "chat"

	// KindString is an unclassified printable run. It is a transient
	// classification: refinement drops these rows.
	KindString Kind = "string"
)

// ParseKind normalizes raw text into a Kind.
// Unknown or empty text parses as KindString.
func ParseKind(s string) Kind {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case KindURL:
		return KindURL
	case KindSteamID:
		return KindSteamID
	case KindChat:
		return KindChat
	default:
		return KindString
	}
}

// Reportable reports whether records of this kind survive refinement.
// Only url, steamid, and chat artifacts reach the clean dataset.
func (k Kind) Reportable() bool {
	return k == KindURL || k == KindSteamID || k == KindChat
}

// String returns the kind as it appears in CSV output.
func (k Kind) String() string {
	return string(k)
}
