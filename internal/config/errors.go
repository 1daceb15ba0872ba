package config

import "errors"

// Configuration validation errors.
//
// Design decision: We use package-level sentinel errors rather than
// creating new error instances in Validate(). This allows callers to use
// errors.Is() for programmatic error handling while still providing
// human-readable messages.
var (
	// ErrNoInput is returned when no memory image path is given. This is
	// the one fatal configuration error: with no address space to scan
	// there is no partial result to produce.
	ErrNoInput = errors.New("no input: provide one or more memory image paths")

	// ErrOutputWithMultipleImages is returned when --output is combined
	// with more than one image; a single output path cannot receive
	// multiple raw record streams.
	ErrOutputWithMultipleImages = errors.New("--output requires exactly one image")

	// ErrMissingInputPath is returned by the refine command when the
	// positional raw-dataset path is absent. The command reports usage on
	// standard output and the process exits with a distinct status.
	ErrMissingInputPath = errors.New("missing input path")
)
