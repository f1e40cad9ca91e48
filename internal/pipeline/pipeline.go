package pipeline

import (
	"context"
	"log/slog"

	"github.com/starchart-tools/wayfarer/internal/model"
)

// Step is one stage of a save-processing run. Steps execute in
// sequence, each reading what earlier steps accumulated in the report.
//
// A step returns an error only for failures that invalidate the rest of
// the run; per-record problems are recorded in the report's counters
// and return nil.
type Step interface {
	// Do executes the step against the accumulated report.
	Do(ctx context.Context, report *model.RunReport) error

	// Name returns the step's name for logging.
	Name() string
}

// Pipeline executes steps in order.
type Pipeline struct {
	steps  []Step
	logger *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets a custom logger for the pipeline.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// New creates a Pipeline running the given steps in order.
func New(steps []Step, opts ...Option) *Pipeline {
	p := &Pipeline{
		steps:  steps,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Execute runs the steps in sequence against the report.
//
// Execution ends early without error when a step marks the report
// skipped (unchanged save content), and ends with the error recorded in
// report.Err when a step fails. Cancellation is checked between steps;
// steps handle their own timeouts.
func (p *Pipeline) Execute(ctx context.Context, report *model.RunReport) error {
	for _, step := range p.steps {
		select {
		case <-ctx.Done():
			p.logger.WarnContext(ctx, "run cancelled",
				slog.String("step", step.Name()),
				slog.Any("reason", ctx.Err()))
			report.Err = ctx.Err()
			return ctx.Err()
		default:
		}

		p.logger.DebugContext(ctx, "executing step",
			slog.String("step", step.Name()),
			slog.String("save", report.SavePath))

		if err := step.Do(ctx, report); err != nil {
			p.logger.ErrorContext(ctx, "step failed",
				slog.String("step", step.Name()),
				slog.String("save", report.SavePath),
				slog.Any("error", err))
			report.Err = err
			return err
		}

		if report.Skipped {
			return nil
		}
	}
	return nil
}

// StepNames returns the names of all steps in execution order.
func (p *Pipeline) StepNames() []string {
	names := make([]string, len(p.steps))
	for i, step := range p.steps {
		names[i] = step.Name()
	}
	return names
}
