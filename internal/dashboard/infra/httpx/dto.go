package httpx

import (
	"github.com/jcmexdev/foodnow-connect-demo/internal/dashboard/core/domain/entity"
	"github.com/jcmexdev/foodnow-connect-demo/internal/eventlog"
)

// --- requests ---

type CheckAccountRequest struct {
	AccountID string `json:"accountId"`
}

type CreateConnectAccountRequest struct {
	AccountType  string `json:"accountType"`
	Email        string `json:"email"`
	BusinessName string `json:"businessName"`
}

type CreatePaymentRequest struct {
	Amount            *int64 `json:"amount,omitempty"`
	PaymentMethodMode string `json:"paymentMethodMode,omitempty"`
}

type CreateTransfersRequest struct {
	PaymentIntentID     string `json:"paymentIntentId"`
	RestaurantAccountID string `json:"restaurantAccountId"`
	CourierAccountID    string `json:"courierAccountId"`
	RestaurantAmount    int64  `json:"restaurantAmount"`
	CourierAmount       int64  `json:"courierAmount"`
	OrderID             string `json:"orderId"`
}

type LoginLinkRequest struct {
	AccountID string `json:"accountId"`
}

type AppendLogRequest struct {
	Level   string         `json:"level"`
	Message string         `json:"message"`
	Data    map[string]any `json:"data,omitempty"`
}

// --- responses ---

// Envelope is embedded in every response. Fallback responses are still
// successful; clients branch on Fallback.
type Envelope struct {
	Success  bool   `json:"success"`
	Fallback bool   `json:"fallback,omitempty"`
	Message  string `json:"message,omitempty"`
}

type CheckAccountResponse struct {
	Envelope
	AccountID              string `json:"accountId"`
	PayoutsEnabled         bool   `json:"payoutsEnabled"`
	ChargesEnabled         bool   `json:"chargesEnabled"`
	DetailsSubmitted       bool   `json:"detailsSubmitted"`
	DashboardLinkAvailable bool   `json:"dashboardLinkAvailable"`
	Active                 bool   `json:"active"`
}

type CreateConnectAccountResponse struct {
	Envelope
	AccountID     string `json:"accountId"`
	OnboardingURL string `json:"onboardingUrl"`
}

type CreatePaymentResponse struct {
	Envelope
	ClientSecret    string                `json:"clientSecret"`
	PaymentIntentID string                `json:"paymentIntentId"`
	OrderID         string                `json:"orderId"`
	Breakdown       entity.OrderBreakdown `json:"breakdown"`
}

type CreateTransfersResponse struct {
	Envelope
	RestaurantTransferID string  `json:"restaurantTransferId"`
	CourierTransferID    string  `json:"courierTransferId"`
	ChargeID             *string `json:"chargeId,omitempty"`
	Partial              bool    `json:"partial,omitempty"`
	PartialTransferID    string  `json:"partialTransferId,omitempty"`
}

type LoginLinkResponse struct {
	Envelope
	URL string `json:"url"`
}

type LogsResponse struct {
	Envelope
	Data []eventlog.Entry `json:"data"`
}

type LogCountResponse struct {
	Envelope
	Count int `json:"count"`
}

type ClearLogsResponse struct {
	Envelope
	Cleared bool `json:"cleared"`
}

type DemoAccountsResponse struct {
	Envelope
	entity.DemoAccounts
}

type OrchestrationResponse struct {
	Envelope
	OrderID       string `json:"orderId"`
	Status        string `json:"status"`
	CurrentStep   string `json:"currentStep,omitempty"`
	ErrorMessages string `json:"errorMessages,omitempty"`
	TraceID       string `json:"traceId,omitempty"`
	UpdatedAt     string `json:"updatedAt"`
}

type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
