// Package carve implements the carving engine: chunked, overlap-aware
// scanning of an address space, extraction of printable byte runs, and
// classification/field-extraction into typed artifacts.
//
// The engine is a pull-driven lazy producer with a push boundary: the
// carver reads and scans one chunk at a time and hands each artifact to a
// caller-supplied emit callback, so any sink (CSV writer, database, test
// harness) consumes records incrementally without waiting for the scan to
// finish.
//
// Failure philosophy: best-effort, never abort on partial garbage. An
// unreadable chunk is a gap in results, a decode failure is an empty
// string, and the scan always runs to completion over all mapped ranges.
package carve
