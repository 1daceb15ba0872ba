// Package report writes SteamCarve's output products: the raw artifact
// stream (carving stage), the clean dataset, the findings report in plain
// text or markdown, and the human-readable carve summary.
package report
