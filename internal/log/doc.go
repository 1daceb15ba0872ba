// Package log provides a slog.Handler wrapper that sanitizes carved
// payloads before they reach the log output. Carved previews and messages
// come straight out of raw memory: they can contain terminal escape
// sequences, control characters, and arbitrarily long runs, none of which
// belong in a log file.
package log
