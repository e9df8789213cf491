package platform

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/jcmexdev/foodnow-connect-demo/internal/dashboard/core/domain/entity"
	"github.com/jcmexdev/foodnow-connect-demo/internal/dashboard/core/ports"
)

var _ ports.PaymentsPlatform = (*Sandbox)(nil)

// ErrNoSuchResource is returned by the sandbox for unknown ids.
var ErrNoSuchResource = errors.New("sandbox: no such resource")

// ErrPayoutsDisabled is returned for transfers to accounts that cannot receive them.
var ErrPayoutsDisabled = errors.New("sandbox: destination account is not payout-enabled")

// Sandbox is an in-memory PaymentsPlatform for running the demo without
// platform credentials. Accounts become fully enabled once an onboarding link
// is issued for them, and every payment intent is created already succeeded.
type Sandbox struct {
	mu        sync.Mutex
	accounts  map[string]*entity.ConnectedAccount
	intents   map[string]*entity.PaymentIntent
	charges   map[string]*entity.ExpandedCharge
	spent     map[string]int64 // charge id -> amount already transferred
	transfers map[string]*entity.Transfer
	byKey     map[string]*entity.Transfer // idempotency key -> transfer
}

// NewSandbox returns an empty sandbox.
func NewSandbox() *Sandbox {
	return &Sandbox{
		accounts:  make(map[string]*entity.ConnectedAccount),
		intents:   make(map[string]*entity.PaymentIntent),
		charges:   make(map[string]*entity.ExpandedCharge),
		spent:     make(map[string]int64),
		transfers: make(map[string]*entity.Transfer),
		byKey:     make(map[string]*entity.Transfer),
	}
}

// Seed registers fully onboarded accounts, typically the configured demo accounts.
func (s *Sandbox) Seed(accounts ...entity.ConnectedAccount) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range accounts {
		acct := a
		s.accounts[acct.ID] = &acct
	}
}

func (s *Sandbox) CreateAccount(ctx context.Context, params entity.AccountParams) (*entity.ConnectedAccount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	acct := &entity.ConnectedAccount{ID: newSandboxID("acct"), Type: params.Type}
	s.accounts[acct.ID] = acct

	slog.InfoContext(ctx, "[Sandbox] account created", "account_id", acct.ID, "account_type", params.Type)
	out := *acct
	return &out, nil
}

func (s *Sandbox) CreateAccountLink(ctx context.Context, params entity.AccountLinkParams) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	acct, ok := s.accounts[params.AccountID]
	if !ok {
		return "", fmt.Errorf("account %s: %w", params.AccountID, ErrNoSuchResource)
	}
	// Onboarding is instantaneous here.
	acct.DetailsSubmitted = true
	acct.ChargesEnabled = true
	acct.PayoutsEnabled = true

	slog.InfoContext(ctx, "[Sandbox] onboarding completed", "account_id", acct.ID)
	return params.ReturnURL, nil
}

func (s *Sandbox) RetrieveAccount(_ context.Context, accountID string) (*entity.ConnectedAccount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	acct, ok := s.accounts[accountID]
	if !ok {
		return nil, fmt.Errorf("account %s: %w", accountID, ErrNoSuchResource)
	}
	out := *acct
	return &out, nil
}

func (s *Sandbox) CreateLoginLink(_ context.Context, accountID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	acct, ok := s.accounts[accountID]
	if !ok {
		return "", fmt.Errorf("account %s: %w", accountID, ErrNoSuchResource)
	}
	if !acct.DetailsSubmitted {
		return "", fmt.Errorf("account %s: %w", accountID, entity.ErrAccountNotOnboarded)
	}
	return "https://connect.sandbox.invalid/express/" + accountID, nil
}

func (s *Sandbox) CreatePaymentIntent(ctx context.Context, params entity.PaymentIntentParams) (*entity.PaymentIntent, error) {
	if params.Amount <= 0 {
		return nil, fmt.Errorf("sandbox: amount must be positive, got %d", params.Amount)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	charge := &entity.ExpandedCharge{ID: newSandboxID("ch"), Amount: params.Amount, Status: "succeeded"}
	s.charges[charge.ID] = charge

	pi := &entity.PaymentIntent{
		ID:           newSandboxID("pi"),
		Status:       entity.PaymentIntentStatusSucceeded,
		Amount:       params.Amount,
		LatestCharge: *charge,
	}
	pi.ClientSecret = pi.ID + "_secret_" + newSandboxID("cs")
	s.intents[pi.ID] = pi

	slog.InfoContext(ctx, "[Sandbox] payment intent succeeded", "payment_intent_id", pi.ID, "charge_id", charge.ID, "order_id", params.OrderID)
	out := *pi
	return &out, nil
}

func (s *Sandbox) RetrievePaymentIntent(_ context.Context, paymentIntentID string) (*entity.PaymentIntent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pi, ok := s.intents[paymentIntentID]
	if !ok {
		return nil, fmt.Errorf("payment intent %s: %w", paymentIntentID, ErrNoSuchResource)
	}
	out := *pi
	return &out, nil
}

// CreateTransfer replays the original transfer for a repeated idempotency key.
func (s *Sandbox) CreateTransfer(ctx context.Context, params entity.TransferParams) (*entity.Transfer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if params.IdempotencyKey != "" {
		if tr, ok := s.byKey[params.IdempotencyKey]; ok {
			out := *tr
			return &out, nil
		}
	}

	acct, ok := s.accounts[params.Destination]
	if !ok {
		return nil, fmt.Errorf("destination %s: %w", params.Destination, ErrNoSuchResource)
	}
	if !acct.PayoutsEnabled {
		return nil, fmt.Errorf("destination %s: %w", params.Destination, ErrPayoutsDisabled)
	}

	if params.SourceTransaction != nil {
		ch, ok := s.charges[*params.SourceTransaction]
		if !ok {
			return nil, fmt.Errorf("source charge %s: %w", *params.SourceTransaction, ErrNoSuchResource)
		}
		if s.spent[ch.ID]+params.Amount > ch.Amount {
			return nil, fmt.Errorf("sandbox: transfer of %d exceeds remaining balance of charge %s", params.Amount, ch.ID)
		}
		s.spent[ch.ID] += params.Amount
	}

	tr := &entity.Transfer{
		ID:                   newSandboxID("tr"),
		DestinationAccountID: params.Destination,
		Amount:               params.Amount,
		GroupKey:             params.TransferGroup,
		SourceTransactionID:  params.SourceTransaction,
	}
	s.transfers[tr.ID] = tr
	if params.IdempotencyKey != "" {
		s.byKey[params.IdempotencyKey] = tr
	}

	slog.InfoContext(ctx, "[Sandbox] transfer created", "transfer_id", tr.ID, "destination", tr.DestinationAccountID, "amount", tr.Amount)
	out := *tr
	return &out, nil
}

func newSandboxID(prefix string) string {
	return prefix + "_sbx_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:16]
}
