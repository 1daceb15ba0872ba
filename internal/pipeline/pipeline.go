package pipeline

import (
	"context"
	"log/slog"

	"github.com/steamcarve/steamcarve/internal/model"
)

// Dataset is the shared working set the refinement steps transform. Steps
// run in sequence; each sees the accumulated result of the previous ones.
type Dataset struct {
	// Source is the path of the raw record stream being refined.
	Source string

	// Raw holds the loaded raw records in input order.
	Raw []model.RawRecord

	// Cleaned holds the filtered, canonicalized, deduplicated records.
	// After the sort step it is in final output order.
	Cleaned []*model.CleanedRecord

	// Findings is the aggregated summary, populated by the aggregate
	// step.
	Findings *model.FindingsSummary

	// PerformedSteps lists the names of the steps that ran.
	PerformedSteps []string
}

// NewDataset creates an empty Dataset for the given source path.
func NewDataset(source string) *Dataset {
	return &Dataset{Source: source}
}

// Step is one refinement stage. Steps transform the dataset in place and
// return an error only for failures that invalidate the whole run (such
// as an unreadable input file); record-level garbage is dropped, never
// escalated.
type Step interface {
	// Do executes the step against the dataset.
	Do(ctx context.Context, d *Dataset) error

	// Name returns the step's name for logging purposes.
	Name() string
}

// Pipeline orchestrates the execution of refinement steps in order.
type Pipeline struct {
	steps  []Step
	logger *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets a custom logger for the pipeline.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) { p.logger = logger }
}

// New creates a Pipeline with the given options. Steps are added with
// AddSteps after creation.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	return p
}

// AddSteps appends steps in execution order.
func (p *Pipeline) AddSteps(steps ...Step) {
	p.steps = append(p.steps, steps...)
}

// StepNames returns the names of all steps in execution order.
func (p *Pipeline) StepNames() []string {
	names := make([]string, len(p.steps))
	for i, step := range p.steps {
		names[i] = step.Name()
	}
	return names
}

// Execute runs all steps in sequence against the dataset. The context is
// checked before each step; a refinement step itself is pure in-memory
// work and not individually cancellable.
//
// Unlike the carving stage, a step failure here stops the pipeline: every
// later stage depends on its predecessor's output being complete.
func (p *Pipeline) Execute(ctx context.Context, d *Dataset) error {
	for _, step := range p.steps {
		select {
		case <-ctx.Done():
			p.logger.Warn("pipeline cancelled",
				"step", step.Name(),
				"reason", ctx.Err(),
			)
			return ctx.Err()
		default:
		}

		p.logger.Debug("executing step",
			"step", step.Name(),
			"source", d.Source,
		)

		if err := step.Do(ctx, d); err != nil {
			p.logger.Error("step failed",
				"step", step.Name(),
				"source", d.Source,
				"error", err,
			)
			return err
		}

		d.PerformedSteps = append(d.PerformedSteps, step.Name())
	}
	return nil
}

// Refinement returns the standard refinement pipeline: load, filter,
// canonicalize, dedup, sort, aggregate.
func Refinement(opts ...Option) *Pipeline {
	p := New(opts...)
	p.AddSteps(
		&LoadStep{},
		&FilterStep{},
		&CanonicalizeStep{},
		&DedupStep{},
		&SortStep{},
		&AggregateStep{},
	)
	return p
}
