package coordinator

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/jcmexdev/foodnow-connect-demo/internal/coordinator/sagalog"
)

var tracer = otel.Tracer("github.com/jcmexdev/foodnow-connect-demo/internal/coordinator")

// Step represents a single upstream call in an orchestration.
// Steps are not compensated: a created transfer stays created.
type Step interface {
	Name() string
	Execute(ctx context.Context) error
}

// StepError reports which step failed and which steps had already completed.
type StepError struct {
	Step      string
	Completed []string
	Err       error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %s failed: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }

// Orchestrator runs a collection of Steps strictly in order.
type Orchestrator struct {
	sagaID string
	steps  []Step
	repo   sagalog.Repository
}

// NewOrchestrator builds an orchestrator. repo may be nil, in which case no
// journal rows are written.
func NewOrchestrator(sagaID string, steps []Step, repo sagalog.Repository) *Orchestrator {
	return &Orchestrator{sagaID: sagaID, steps: steps, repo: repo}
}

// Start runs the steps sequentially, each awaited before the next begins.
// The first failure stops the run and is returned as a *StepError; nothing
// already done is undone and nothing is retried.
func (o *Orchestrator) Start(ctx context.Context, payload string) error {
	ctx, span := tracer.Start(ctx, "orchestration "+o.sagaID)
	defer span.End()

	o.record(ctx, sagalog.StatusStarted, "", payload, nil)

	completed := make([]string, 0, len(o.steps))
	for _, step := range o.steps {
		slog.InfoContext(ctx, "executing step", "saga_id", o.sagaID, "step", step.Name())

		if err := o.execute(ctx, step); err != nil {
			slog.WarnContext(ctx, "step failed", "saga_id", o.sagaID, "step", step.Name(), "completed", completed, "error", err)
			o.record(ctx, sagalog.StatusFailed, step.Name(), "", []string{err.Error()})
			span.SetStatus(codes.Error, err.Error())
			return &StepError{Step: step.Name(), Completed: completed, Err: err}
		}

		completed = append(completed, step.Name())
		o.record(ctx, sagalog.StatusStepDone, step.Name(), "", nil)
	}

	o.record(ctx, sagalog.StatusCompleted, "", "", nil)
	slog.InfoContext(ctx, "orchestration completed", "saga_id", o.sagaID)
	return nil
}

func (o *Orchestrator) execute(ctx context.Context, step Step) error {
	ctx, span := tracer.Start(ctx, step.Name())
	defer span.End()
	span.SetAttributes(attribute.String("saga.id", o.sagaID))

	if err := step.Execute(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}

func (o *Orchestrator) record(ctx context.Context, status sagalog.Status, step, payload string, errs []string) {
	if o.repo == nil {
		return
	}
	entry := sagalog.NewEntry(ctx, o.sagaID, status, step, payload, errs)
	if err := o.repo.Save(ctx, entry); err != nil {
		slog.ErrorContext(ctx, "failed to write orchestration journal", "saga_id", o.sagaID, "status", status, "error", err)
	}
}
