package ports

import (
	"context"

	"github.com/jcmexdev/foodnow-connect-demo/internal/dashboard/core/domain/entity"
)

// PaymentsPlatform is the narrow view of the external payments platform the
// core depends on. Implementations live in infra/adapters/platform.
type PaymentsPlatform interface {
	CreateAccount(ctx context.Context, params entity.AccountParams) (*entity.ConnectedAccount, error)
	CreateAccountLink(ctx context.Context, params entity.AccountLinkParams) (string, error)
	RetrieveAccount(ctx context.Context, accountID string) (*entity.ConnectedAccount, error)
	// CreateLoginLink returns entity.ErrAccountNotOnboarded (wrapped) when the
	// account has not completed onboarding.
	CreateLoginLink(ctx context.Context, accountID string) (string, error)
	CreatePaymentIntent(ctx context.Context, params entity.PaymentIntentParams) (*entity.PaymentIntent, error)
	// RetrievePaymentIntent asks for the latest charge to be expanded.
	RetrievePaymentIntent(ctx context.Context, paymentIntentID string) (*entity.PaymentIntent, error)
	CreateTransfer(ctx context.Context, params entity.TransferParams) (*entity.Transfer, error)
}
