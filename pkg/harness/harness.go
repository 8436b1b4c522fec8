// Package harness executes test phases against a device under test,
// collecting everything each run produces into a record.Run via the
// runlog pipeline.
//
// The harness owns the run lifecycle the logging layer depends on: it
// creates the run record and its logger when a run starts and guarantees
// the logger is detached on every exit path, including phase panics.
package harness

import (
	"context"
	"errors"
	"fmt"

	"github.com/rigtest/rigtest-go/pkg/record"
	"github.com/rigtest/rigtest-go/pkg/runlog"
)

// Phase is one step of a run. Phases log through the provided run logger;
// returning an error ends the run.
type Phase struct {
	// Name identifies the phase in log output.
	Name string

	// Run executes the phase. A nil error means the phase passed.
	Run func(ctx context.Context, log *runlog.Logger) error
}

// ErrFail marks a run as a test failure (outcome FAIL) rather than an
// execution error. Wrap or return it from a phase when the DUT misbehaved.
var ErrFail = errors.New("phase failed")

// CodedError is a phase failure carrying a failure code. The runner records
// the code on the run record before finalizing.
type CodedError struct {
	Code    string
	Details string
}

func (e *CodedError) Error() string {
	if e.Details == "" {
		return e.Code
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Details)
}

// Is reports that a CodedError is a test failure.
func (e *CodedError) Is(target error) bool {
	return target == ErrFail
}

// FailWithCode builds a phase failure that records the given failure code.
func FailWithCode(code, details string) error {
	return &CodedError{Code: code, Details: details}
}

// Runner executes phases for a plan, one run at a time.
type Runner struct {
	registry *runlog.Registry
	plan     *Plan
	writer   *record.Writer
}

// NewRunner creates a runner using the given registry and plan.
func NewRunner(registry *runlog.Registry, plan *Plan) *Runner {
	return &Runner{registry: registry, plan: plan}
}

// SetWriter makes the runner persist each finished record through w.
func (r *Runner) SetWriter(w *record.Writer) {
	r.writer = w
}

// Execute runs the phases in order against a fresh run record and returns
// it. The run stops at the first phase error. The record is always
// finalized and its logger always detached, whatever path the run exits on.
func (r *Runner) Execute(ctx context.Context, phases []Phase) *record.Run {
	rec := record.NewRun(r.plan.CellNumber, r.plan.DUTSerial, r.plan.StationID)
	logger := runlog.New(r.registry, r.plan.CellNumber, rec)
	defer logger.Close()

	outcome := record.OutcomePass

	for _, phase := range phases {
		logger.Info("phase %s: starting", phase.Name)

		err := r.runPhase(ctx, phase, logger)
		if err == nil {
			logger.Info("phase %s: passed", phase.Name)
			continue
		}

		var coded *CodedError
		if errors.As(err, &coded) {
			if cerr := logger.AddFailureCode(coded.Code, coded.Details); cerr != nil {
				logger.Error("phase %s: unusable failure code: %v", phase.Name, cerr)
			}
		}

		switch {
		case errors.Is(err, context.DeadlineExceeded):
			logger.Error("phase %s: timed out: %v", phase.Name, err)
			outcome = record.OutcomeTimeout
		case errors.Is(err, context.Canceled):
			logger.Error("phase %s: aborted: %v", phase.Name, err)
			outcome = record.OutcomeAborted
		case errors.Is(err, ErrFail):
			logger.Error("phase %s: failed: %v", phase.Name, err)
			outcome = record.OutcomeFail
		default:
			logger.Error("phase %s: errored: %v", phase.Name, err)
			outcome = record.OutcomeError
		}
		break
	}

	rec.Finalize(outcome)

	if r.writer != nil {
		r.writer.Write(rec.Snapshot())
	}
	return rec
}

// runPhase executes one phase with the plan's timeout, converting panics
// into errors. A panicking phase must not take down the station; it is
// logged with its stack and the run errors out.
func (r *Runner) runPhase(ctx context.Context, phase Phase, logger *runlog.Logger) (err error) {
	if timeout := r.plan.phaseTimeout(); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	defer func() {
		if v := recover(); v != nil {
			perr := fmt.Errorf("panic: %v", v)
			logger.Exception(perr, "phase %s panicked", phase.Name)
			err = perr
		}
	}()

	if err := phase.Run(ctx, logger); err != nil {
		return err
	}
	return ctx.Err()
}
