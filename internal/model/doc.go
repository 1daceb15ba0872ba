// Package model defines the core data structures used throughout SteamCarve.
//
// This package contains the following main types:
//   - Artifact: A classified, field-extracted record produced by the carving stage
//   - CleanedRecord: A normalized, deduplicated artifact row
//   - FindingsSummary: The aggregated top-domains/steamids/chat-sample summary
//   - CarveReport: Per-image statistics for one carving run
//
// Design decision: We separate models into their own package to avoid circular
// dependencies. Multiple packages (carve, pipeline, report, database) need to
// use these types, so centralizing them prevents import cycles.
//
// The models are designed to be serializable to JSON for database storage.
package model
