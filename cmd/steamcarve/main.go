// Package main provides the entry point for the SteamCarve CLI.
//
// SteamCarve extracts Steam client remnants (SteamIDs, chat lines, Steam
// web URLs) from raw memory captures and refines the raw artifact stream
// into a clean dataset plus a findings report.
//
// Usage:
//
//	steamcarve carve <memory-image>...
//	steamcarve refine <raw-dataset.csv>
//
// See --help for all available options.
package main

// main is the entry point for SteamCarve.
func main() {
	Execute()
}
