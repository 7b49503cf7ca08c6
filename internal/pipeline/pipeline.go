package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/nao1215/sectioncheck/internal/model"
)

// Step is one stage of document validation. Each step reads and extends the
// report left by the steps before it.
type Step interface {
	// Do runs the step. An error means the document could not be processed
	// further; content problems are recorded as findings instead.
	Do(ctx context.Context, report *model.Report) error

	// Name identifies the step in logs and Report.PerformedSteps.
	Name() string
}

// StepFunc adapts a function to the Step interface.
type StepFunc struct {
	name string
	fn   func(ctx context.Context, report *model.Report) error
}

// NewStepFunc returns a Step named name that calls fn.
func NewStepFunc(name string, fn func(ctx context.Context, report *model.Report) error) *StepFunc {
	return &StepFunc{name: name, fn: fn}
}

// Do implements Step.
func (s *StepFunc) Do(ctx context.Context, report *model.Report) error {
	return s.fn(ctx, report)
}

// Name implements Step.
func (s *StepFunc) Name() string {
	return s.name
}

// Pipeline runs steps over one document at a time. It holds no per-document
// state, so one Pipeline may serve many goroutines once its steps are added.
type Pipeline struct {
	steps  []Step
	logger *slog.Logger

	// continueOnError runs the remaining steps after a failure.
	continueOnError bool
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// WithContinueOnError keeps running steps after one fails. The failure is
// still recorded on the report.
func WithContinueOnError(continueOnError bool) Option {
	return func(p *Pipeline) {
		p.continueOnError = continueOnError
	}
}

// New creates an empty Pipeline.
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

// Execute runs the steps over report in order, checking for cancellation
// before each one. Step failures are recorded on the report; the first one
// is returned unless the pipeline continues on error.
func (p *Pipeline) Execute(ctx context.Context, report *model.Report) error {
	for _, step := range p.steps {
		if err := ctx.Err(); err != nil {
			p.logger.Warn("validation cancelled",
				"step", step.Name(),
				"path", report.Path,
				"reason", err,
			)
			recordError(report, err)
			return err
		}

		if err := p.run(ctx, step, report); err != nil && !p.continueOnError {
			return err
		}
		report.PerformedSteps = append(report.PerformedSteps, step.Name())
	}
	return nil
}

// run executes one step and records its failure.
func (p *Pipeline) run(ctx context.Context, step Step, report *model.Report) error {
	start := time.Now()
	err := step.Do(ctx, report)
	elapsed := time.Since(start)

	if err != nil {
		p.logger.Error("step failed",
			"step", step.Name(),
			"path", report.Path,
			"error", err,
		)
		recordError(report, err)
		return err
	}

	p.logger.Debug("step completed",
		"step", step.Name(),
		"path", report.Path,
		"elapsed", elapsed,
	)
	return nil
}

func recordError(report *model.Report, err error) {
	report.Error = err
	report.ErrorMessage = err.Error()
}

// StepNames returns the step names in execution order.
func (p *Pipeline) StepNames() []string {
	names := make([]string, len(p.steps))
	for i, step := range p.steps {
		names[i] = step.Name()
	}
	return names
}
