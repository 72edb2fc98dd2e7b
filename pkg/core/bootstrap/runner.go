package bootstrap

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Indicator is the busy state shown while the stages run
type Indicator interface {
	Show()
	Hide()
}

// NoopIndicator is an Indicator that does nothing
type NoopIndicator struct{}

func (NoopIndicator) Show() {}
func (NoopIndicator) Hide() {}

// Stage is one step of a sequential load
type Stage struct {
	Name    string
	Run     func(ctx context.Context) error
	proceed bool
}

// Proceed marks a stage whose failure is logged and recorded but never stops the stages after it
func Proceed(s Stage) Stage {
	s.proceed = true
	return s
}

// Outcome records how a single stage finished
type Outcome struct {
	Stage string
	Err   error
}

// Report lists the outcome of every stage that ran, in order
type Report struct {
	Outcomes []Outcome
}

// Failed returns the names of stages that returned an error
func (r *Report) Failed() []string {
	var names []string
	for _, o := range r.Outcomes {
		if o.Err != nil {
			names = append(names, o.Stage)
		}
	}
	return names
}

// Runner executes stages one at a time, in order
type Runner struct {
	indicator Indicator
	logger    *zap.Logger
}

// NewRunner creates a runner. A nil indicator is replaced with NoopIndicator.
func NewRunner(indicator Indicator, logger *zap.Logger) *Runner {
	if indicator == nil {
		indicator = NoopIndicator{}
	}
	return &Runner{
		indicator: indicator,
		logger:    logger,
	}
}

// Run shows the indicator, executes the stages in order and hides the indicator
// exactly once, after the last stage has finished. A failing stage not wrapped in
// Proceed stops the run and its error is returned alongside the partial report.
func (r *Runner) Run(ctx context.Context, stages ...Stage) (*Report, error) {
	report := &Report{}

	r.indicator.Show()
	defer r.indicator.Hide()

	for _, stage := range stages {
		if err := ctx.Err(); err != nil {
			return report, fmt.Errorf("load cancelled before stage %s: %w", stage.Name, err)
		}

		r.logger.Debug("Running stage", zap.String("stage", stage.Name))
		err := stage.Run(ctx)
		report.Outcomes = append(report.Outcomes, Outcome{Stage: stage.Name, Err: err})

		if err == nil {
			continue
		}
		if !stage.proceed {
			return report, fmt.Errorf("stage %s failed: %w", stage.Name, err)
		}
		r.logger.Warn("Stage failed, continuing", zap.String("stage", stage.Name), zap.Error(err))
	}

	return report, nil
}
