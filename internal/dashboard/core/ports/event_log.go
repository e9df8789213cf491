package ports

import (
	"context"

	"github.com/jcmexdev/foodnow-connect-demo/internal/dashboard/core/domain/entity"
	"github.com/jcmexdev/foodnow-connect-demo/internal/eventlog"
)

// EventSink receives demo log entries. eventlog.Buffer satisfies it.
type EventSink interface {
	Append(level eventlog.Level, message string, data map[string]any) eventlog.Entry
}

// AccountRegistry remembers which connected account plays each role.
type AccountRegistry interface {
	Get(ctx context.Context) (entity.DemoAccounts, error)
	Put(ctx context.Context, role entity.AccountType, accountID string) error
}
