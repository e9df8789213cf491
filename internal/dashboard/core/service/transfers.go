package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jcmexdev/foodnow-connect-demo/internal/coordinator"
	"github.com/jcmexdev/foodnow-connect-demo/internal/dashboard/core/domain/entity"
	"github.com/jcmexdev/foodnow-connect-demo/internal/eventlog"
)

// SimulatedTransfersMessage explains a simulated split to the dashboard.
const SimulatedTransfersMessage = "Transfers simulated: connected accounts not payout-enabled in test."

// TransferRequest splits a confirmed payment between the two recipients.
type TransferRequest struct {
	PaymentIntentID     string `json:"paymentIntentId"`
	RestaurantAccountID string `json:"restaurantAccountId"`
	CourierAccountID    string `json:"courierAccountId"`
	RestaurantAmount    int64  `json:"restaurantAmount"`
	CourierAmount       int64  `json:"courierAmount"`
	OrderID             string `json:"orderId"`
	IdempotencyKey      string `json:"-"`
}

// Validate checks every field is present and both amounts are positive.
func (r TransferRequest) Validate() error {
	var missing []string
	if r.PaymentIntentID == "" {
		missing = append(missing, "paymentIntentId")
	}
	if r.RestaurantAccountID == "" {
		missing = append(missing, "restaurantAccountId")
	}
	if r.CourierAccountID == "" {
		missing = append(missing, "courierAccountId")
	}
	if r.OrderID == "" {
		missing = append(missing, "orderId")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", entity.ErrInvalidRequest, strings.Join(missing, ", "))
	}
	if r.RestaurantAmount <= 0 || r.CourierAmount <= 0 {
		return fmt.Errorf("%w: restaurantAmount and courierAmount must be positive", entity.ErrInvalidRequest)
	}
	return nil
}

// TransferResult always carries two transfer ids. With Fallback set they are
// simulated; Partial then means PartialTransferID is a real restaurant
// transfer that was created before the courier transfer failed.
type TransferResult struct {
	RestaurantTransferID string
	CourierTransferID    string
	ChargeID             *string
	Fallback             bool
	Partial              bool
	PartialTransferID    string
	Message              string
}

// CreateTransfers resolves the charge behind the payment intent and creates
// the restaurant transfer, then the courier transfer, both grouped under the
// order id. It makes one attempt: no retry, no rollback. Any upstream failure
// returns freshly generated simulated ids instead.
func (s *Service) CreateTransfers(ctx context.Context, req TransferRequest) (*TransferResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "creating transfers", "order_id", req.OrderID, "payment_intent_id", req.PaymentIntentID)
	s.events.Append(eventlog.LevelStripe, "stripe.transfers.create", map[string]any{
		"orderId":          req.OrderID,
		"paymentIntentId":  req.PaymentIntentID,
		"restaurantAmount": req.RestaurantAmount,
		"courierAmount":    req.CourierAmount,
	})

	funding := coordinator.NewResolveFundingStep(s.platform, s.events, req.PaymentIntentID, s.opts.RequirePaymentSucceeded)
	restaurant := coordinator.NewTransferStep(s.platform, funding, coordinator.TransferRequest{
		Recipient:       entity.RecipientRestaurant,
		Destination:     req.RestaurantAccountID,
		Amount:          req.RestaurantAmount,
		Currency:        s.opts.Currency,
		OrderID:         req.OrderID,
		PaymentIntentID: req.PaymentIntentID,
		IdempotencyKey:  req.IdempotencyKey,
	})
	courier := coordinator.NewTransferStep(s.platform, funding, coordinator.TransferRequest{
		Recipient:       entity.RecipientCourier,
		Destination:     req.CourierAccountID,
		Amount:          req.CourierAmount,
		Currency:        s.opts.Currency,
		OrderID:         req.OrderID,
		PaymentIntentID: req.PaymentIntentID,
		IdempotencyKey:  req.IdempotencyKey,
	})

	payload, _ := json.Marshal(req)
	saga := coordinator.NewOrchestrator(req.OrderID, []coordinator.Step{funding, restaurant, courier}, s.journal)

	if err := saga.Start(ctx, string(payload)); err != nil {
		return s.simulatedTransfers(ctx, req, err, restaurant.Transfer()), nil
	}

	result := &TransferResult{
		RestaurantTransferID: restaurant.Transfer().ID,
		CourierTransferID:    courier.Transfer().ID,
		ChargeID:             funding.ChargeID(),
	}

	slog.InfoContext(ctx, "transfers created",
		"order_id", req.OrderID,
		"restaurant_transfer_id", result.RestaurantTransferID,
		"courier_transfer_id", result.CourierTransferID,
	)
	s.events.Append(eventlog.LevelSuccess, "Transfers created", map[string]any{
		"restaurantTransferId": result.RestaurantTransferID,
		"courierTransferId":    result.CourierTransferID,
	})
	return result, nil
}

func (s *Service) simulatedTransfers(ctx context.Context, req TransferRequest, err error, created *entity.Transfer) *TransferResult {
	result := &TransferResult{
		RestaurantTransferID: s.simulatedID(entity.RecipientRestaurant),
		CourierTransferID:    s.simulatedID(entity.RecipientCourier),
		Fallback:             true,
		Message:              SimulatedTransfersMessage,
	}

	data := map[string]any{"reason": "Connected accounts not payout-enabled in test."}

	if errors.Is(err, entity.ErrPaymentNotSucceeded) {
		result.Message = fmt.Sprintf("Transfers simulated: %v.", err)
		data["reason"] = err.Error()
	}

	// The restaurant transfer is not reversed; report it so it is not lost.
	if created != nil {
		result.Partial = true
		result.PartialTransferID = created.ID
		result.Message = fmt.Sprintf("Transfers simulated: courier transfer failed after restaurant transfer %s was created.", created.ID)
		data["partialTransferId"] = created.ID
	}

	var stepErr *coordinator.StepError
	if errors.As(err, &stepErr) {
		data["failedStep"] = stepErr.Step
	}

	slog.WarnContext(ctx, "transfers failed, returning simulated ids",
		"order_id", req.OrderID,
		"partial", result.Partial,
		"error", err,
	)
	s.events.Append(eventlog.LevelSimulation, "Transfers simulated for demo clarity.", data)
	return result
}

// simulatedID is unique per call so repeated demo runs never collide.
func (s *Service) simulatedID(recipient entity.RecipientType) string {
	suffix := strings.ReplaceAll(s.newID(), "-", "")
	if len(suffix) > 12 {
		suffix = suffix[:12]
	}
	return fmt.Sprintf("tr_sim_%s_%s", recipient, suffix)
}
