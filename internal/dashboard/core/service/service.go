// Package service sequences calls to the payments platform for the demo's
// four operations: provisioning connected accounts, checking their status,
// creating the checkout payment intent and splitting the paid order into
// transfers.
//
// Upstream failures never surface as errors. Each operation substitutes a
// fully formed fallback result flagged with Fallback so the demo can always
// move on; only input validation (entity.ErrInvalidRequest,
// entity.ErrInvalidAmount) is returned as an error. Dashboard login links are
// the exception, see CreateLoginLink.
package service

import (
	"github.com/google/uuid"

	"github.com/jcmexdev/foodnow-connect-demo/internal/coordinator/sagalog"
	"github.com/jcmexdev/foodnow-connect-demo/internal/dashboard/core/ports"
	"github.com/jcmexdev/foodnow-connect-demo/internal/pricing"
)

// FallbackMessage accompanies every fixed fallback result.
const FallbackMessage = "Demo fallback activated"

// Options holds the demo constants the operations are parameterised with.
type Options struct {
	Currency string
	// OrderID tags every payment intent; stable for a demo session.
	OrderID string
	// DefaultAmount is charged when the caller supplies none and pricing is
	// not fixed.
	DefaultAmount int64
	// BaseURL builds onboarding callbacks when the request carries no host.
	BaseURL string
	// RequirePaymentSucceeded stops transfers unless the intent has succeeded.
	RequirePaymentSucceeded bool
}

// Service implements the demo operations on top of a PaymentsPlatform.
type Service struct {
	platform ports.PaymentsPlatform
	pricing  *pricing.Calculator
	events   ports.EventSink
	registry ports.AccountRegistry
	journal  sagalog.Repository // nil-safe
	opts     Options
	newID    func() string
}

// New wires the service. journal may be nil.
func New(
	platform ports.PaymentsPlatform,
	calc *pricing.Calculator,
	events ports.EventSink,
	registry ports.AccountRegistry,
	journal sagalog.Repository,
	opts Options,
) *Service {
	if opts.Currency == "" {
		opts.Currency = "usd"
	}
	return &Service{
		platform: platform,
		pricing:  calc,
		events:   events,
		registry: registry,
		journal:  journal,
		opts:     opts,
		newID:    uuid.NewString,
	}
}
