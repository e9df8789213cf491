package sagalog

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Reader.GetLatest when no row exists for an id.
var ErrNotFound = errors.New("sagalog: saga not found")

// Repository is the port for persisting journal entries. Each call appends a
// row; the journal is never updated in place.
type Repository interface {
	Save(ctx context.Context, entry *SagaLog) error
}

// Reader exposes the most recent entry of an orchestration.
type Reader interface {
	GetLatest(ctx context.Context, sagaID string) (*SagaLog, error)
}
