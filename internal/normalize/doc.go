// Package normalize provides the canonicalization helpers used by the
// refinement pipeline: timestamp formatting, hex offset canonicalization,
// URL domain extraction, and the deduplication key.
//
// Every function in this package is total: malformed input normalizes to an
// empty string or passes through best-effort, it never produces an error.
// This mirrors the failure philosophy of the carving stage, where partial
// garbage is expected and must not abort processing.
package normalize
