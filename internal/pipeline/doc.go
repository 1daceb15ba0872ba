// Package pipeline provides a framework for executing the refinement
// stages in sequence: load, filter, canonicalize, deduplicate, sort,
// aggregate. Each stage is a Step that receives the shared Dataset and
// transforms it in place.
//
// The refinement stage is necessarily batch: deduplication, sorting, and
// aggregation need the complete cleaned set in memory before any output
// can be emitted. The Dataset is owned exclusively by the single executing
// pipeline, so no locking is involved.
package pipeline
