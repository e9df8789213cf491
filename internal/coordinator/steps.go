package coordinator

import (
	"context"
	"fmt"

	"github.com/jcmexdev/foodnow-connect-demo/internal/dashboard/core/domain/entity"
	"github.com/jcmexdev/foodnow-connect-demo/internal/dashboard/core/ports"
	"github.com/jcmexdev/foodnow-connect-demo/internal/eventlog"
)

// --- ResolveFundingStep ---

// ResolveFundingStep retrieves the payment intent and resolves the charge
// that funds the transfers.
type ResolveFundingStep struct {
	platform         ports.PaymentsPlatform
	events           ports.EventSink
	paymentIntentID  string
	requireSucceeded bool

	intent   *entity.PaymentIntent
	chargeID *string
}

// NewResolveFundingStep is the constructor for ResolveFundingStep.
// With requireSucceeded set the step fails unless the intent has succeeded.
func NewResolveFundingStep(platform ports.PaymentsPlatform, events ports.EventSink, paymentIntentID string, requireSucceeded bool) *ResolveFundingStep {
	return &ResolveFundingStep{
		platform:         platform,
		events:           events,
		paymentIntentID:  paymentIntentID,
		requireSucceeded: requireSucceeded,
	}
}

func (s *ResolveFundingStep) Name() string { return "Resolve_Funding_Step" }

func (s *ResolveFundingStep) Execute(ctx context.Context) error {
	pi, err := s.platform.RetrievePaymentIntent(ctx, s.paymentIntentID)
	if err != nil {
		return fmt.Errorf("failed to retrieve payment intent: %w", err)
	}
	s.intent = pi
	s.chargeID = entity.ResolveChargeID(pi.LatestCharge)

	data := map[string]any{
		"paymentIntentId": pi.ID,
		"status":          pi.Status,
		"amount":          pi.Amount,
	}
	if s.chargeID != nil {
		data["chargeId"] = *s.chargeID
	}
	s.events.Append(eventlog.LevelStripe, "PaymentIntent confirmed", data)

	if s.requireSucceeded && pi.Status != entity.PaymentIntentStatusSucceeded {
		return fmt.Errorf("%w: status is %q", entity.ErrPaymentNotSucceeded, pi.Status)
	}
	return nil
}

// ChargeID is the resolved funding charge, nil when the intent has none yet
// or the step has not run.
func (s *ResolveFundingStep) ChargeID() *string { return s.chargeID }

// Intent is the retrieved payment intent, nil until the step has run.
func (s *ResolveFundingStep) Intent() *entity.PaymentIntent { return s.intent }

// --- TransferStep ---

// TransferRequest is everything a TransferStep needs besides the funding charge.
type TransferRequest struct {
	Recipient       entity.RecipientType
	Destination     string
	Amount          int64
	Currency        string
	OrderID         string
	PaymentIntentID string
	IdempotencyKey  string
}

// TransferStep creates one transfer to one recipient.
type TransferStep struct {
	platform ports.PaymentsPlatform
	funding  *ResolveFundingStep
	req      TransferRequest

	transfer *entity.Transfer
}

// NewTransferStep links the transfer to whatever charge funding resolves.
func NewTransferStep(platform ports.PaymentsPlatform, funding *ResolveFundingStep, req TransferRequest) *TransferStep {
	return &TransferStep{
		platform: platform,
		funding:  funding,
		req:      req,
	}
}

func (s *TransferStep) Name() string {
	return fmt.Sprintf("Transfer_%s_Step", s.req.Recipient)
}

func (s *TransferStep) Execute(ctx context.Context) error {
	params := entity.TransferParams{
		Amount:        s.req.Amount,
		Currency:      s.req.Currency,
		Destination:   s.req.Destination,
		TransferGroup: s.req.OrderID,
		Metadata: map[string]string{
			"order_id":          s.req.OrderID,
			"payment_intent_id": s.req.PaymentIntentID,
			"recipient_type":    string(s.req.Recipient),
		},
	}
	if s.funding != nil {
		params.SourceTransaction = s.funding.ChargeID()
	}
	if s.req.IdempotencyKey != "" {
		params.IdempotencyKey = s.req.IdempotencyKey + ":" + string(s.req.Recipient)
	}

	tr, err := s.platform.CreateTransfer(ctx, params)
	if err != nil {
		return fmt.Errorf("failed to create %s transfer: %w", s.req.Recipient, err)
	}
	tr.RecipientType = s.req.Recipient
	s.transfer = tr
	return nil
}

// Transfer is the created transfer, nil until the step has succeeded.
func (s *TransferStep) Transfer() *entity.Transfer { return s.transfer }
