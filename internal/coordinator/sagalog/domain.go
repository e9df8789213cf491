// Package sagalog defines the orchestration journal: an append-only record
// of every state transition a transfer orchestration goes through.
//
// Each row carries the trace and span ids active when it was written, so a
// journal row can be joined with its distributed trace.
package sagalog

import "time"

// Status represents the lifecycle state of an orchestration.
type Status string

const (
	StatusStarted   Status = "STARTED"
	StatusStepDone  Status = "STEP_DONE"
	StatusCompleted Status = "COMPLETED"
	StatusFailed    Status = "FAILED"
)

// SagaLog is a single row in the journal.
type SagaLog struct {
	// SagaID is the order id the transfers are grouped under.
	SagaID string

	Status Status

	// CurrentStep is the name of the step that was just executed or failed.
	CurrentStep string

	// Payload is the JSON request that started the orchestration. Written on
	// STARTED only.
	Payload string

	// ErrorMessages is a JSON array of failure details.
	ErrorMessages string

	TraceID string
	SpanID  string

	UpdatedAt time.Time
}
