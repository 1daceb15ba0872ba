// Package database provides SQLite-based persistence for carve runs and
// their raw artifacts. Persisted runs back the history command and let
// examiners re-refine old scans without re-carving the image.
package database
