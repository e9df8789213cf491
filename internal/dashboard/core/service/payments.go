package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jcmexdev/foodnow-connect-demo/internal/dashboard/core/domain/entity"
	"github.com/jcmexdev/foodnow-connect-demo/internal/eventlog"
)

const (
	FallbackClientSecret    = "demo_client_secret"
	FallbackPaymentIntentID = "pi_demo_fallback_001"
)

// PaymentRequest starts checkout. Amount is ignored under fixed pricing.
type PaymentRequest struct {
	Amount            *int64
	PaymentMethodMode string
}

// PaymentResult is what the client needs to confirm the payment. When
// Fallback is set there is nothing to confirm.
type PaymentResult struct {
	ClientSecret    string
	PaymentIntentID string
	OrderID         string
	Breakdown       entity.OrderBreakdown
	Fallback        bool
	Message         string
}

// CreatePayment computes the order breakdown and creates a payment intent for
// its total, tagged with the order id and a demo marker.
func (s *Service) CreatePayment(ctx context.Context, req PaymentRequest) (*PaymentResult, error) {
	mode, err := entity.ParsePaymentMethodMode(req.PaymentMethodMode)
	if err != nil {
		return nil, fmt.Errorf("%w: unknown paymentMethodMode %q", err, req.PaymentMethodMode)
	}

	amount := s.opts.DefaultAmount
	switch {
	case s.pricing.Fixed():
		amount = s.pricing.Policy().Fixed.Total
	case req.Amount != nil:
		amount = *req.Amount
	}

	breakdown, err := s.pricing.Compute(amount)
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "creating payment intent", "amount", breakdown.Total, "mode", mode, "order_id", s.opts.OrderID)
	s.events.Append(eventlog.LevelStripe, "stripe.paymentIntents.create", map[string]any{
		"amount":            breakdown.Total,
		"currency":          s.opts.Currency,
		"paymentMethodMode": mode,
	})

	pi, err := s.platform.CreatePaymentIntent(ctx, entity.PaymentIntentParams{
		Amount:   breakdown.Total,
		Currency: s.opts.Currency,
		Mode:     mode,
		OrderID:  s.opts.OrderID,
	})
	if err != nil {
		slog.ErrorContext(ctx, "payment intent creation failed, using fallback", "error", err)
		s.events.Append(eventlog.LevelError, "PaymentIntent creation failed", nil)
		return &PaymentResult{
			ClientSecret:    FallbackClientSecret,
			PaymentIntentID: FallbackPaymentIntentID,
			OrderID:         s.opts.OrderID,
			Breakdown:       breakdown,
			Fallback:        true,
			Message:         FallbackMessage,
		}, nil
	}

	slog.InfoContext(ctx, "payment intent created", "payment_intent_id", pi.ID, "status", pi.Status)
	s.events.Append(eventlog.LevelSuccess, "PaymentIntent created", map[string]any{
		"paymentIntentId": pi.ID,
		"status":          pi.Status,
	})

	return &PaymentResult{
		ClientSecret:    pi.ClientSecret,
		PaymentIntentID: pi.ID,
		OrderID:         s.opts.OrderID,
		Breakdown:       breakdown,
	}, nil
}
