package model

// Artifact is one raw record produced by the carving stage: a classified,
// field-extracted printable run with its absolute position in the scanned
// address space.
//
// All optional fields use their zero value when absent (empty string, 0);
// refinement treats them as missing rather than invalid.
type Artifact struct {
	// Kind is the structural classification of the carved run.
	Kind Kind `json:"kind"`

	// Offset is the absolute address of the run within the address space.
	Offset uint64 `json:"offset"`

	// Preview is a decoded, whitespace-collapsed excerpt of the run,
	// truncated to 200 characters. Empty if every decode attempt failed.
	Preview string `json:"preview"`

	// SteamID is the first 17-digit SteamID64 found in the run, if any.
	SteamID string `json:"steamid,omitempty"`

	// UnixTsMs is the first run of exactly 13 digits parsed as a
	// millisecond timestamp. Zero when absent. No plausibility check is
	// applied at this stage.
	UnixTsMs uint64 `json:"unix_ts,omitempty"`

	// Message is the first chat-pattern capture, if any.
	Message string `json:"message,omitempty"`

	// Value is the full matched URL for url-kind artifacts.
	Value string `json:"value,omitempty"`
}

// RawRecord is one row of the persisted raw record stream as read back by
// the refinement stage. All fields are text because the sink format is CSV
// and the offset may arrive either hex-prefixed or as a plain integer.
type RawRecord struct {
	Kind    string
	Offset  string
	Preview string
	SteamID string
	UnixTs  string
	Message string
	Value   string
}

// CleanedRecord is a normalized artifact row in the clean dataset.
// Kind is restricted to reportable kinds, Timestamp is a fixed UTC string
// (or empty), Offset is a canonical hex string, and Domain is populated
// if and only if Kind is url.
type CleanedRecord struct {
	Kind      string
	Timestamp string
	UnixTs    string
	Offset    string
	SteamID   string
	Message   string
	Value     string
	Preview   string
	Domain    string
}

// CleanColumns is the fixed column order of the clean dataset CSV.
var CleanColumns = []string{
	"kind", "timestamp", "unix_ts", "offset",
	"steamid", "message", "value", "preview", "domain",
}

// Row returns the record's fields in CleanColumns order.
func (r *CleanedRecord) Row() []string {
	return []string{
		r.Kind, r.Timestamp, r.UnixTs, r.Offset,
		r.SteamID, r.Message, r.Value, r.Preview, r.Domain,
	}
}

// RawColumns is the column order of the raw record stream written by the
// carving stage. Refinement accepts any header that contains at least
// these columns.
var RawColumns = []string{
	"kind", "offset", "preview", "steamid", "unix_ts", "message", "value",
}
