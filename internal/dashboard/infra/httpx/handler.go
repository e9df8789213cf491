package httpx

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/jcmexdev/foodnow-connect-demo/internal/coordinator/sagalog"
	"github.com/jcmexdev/foodnow-connect-demo/internal/dashboard/core/domain/entity"
	"github.com/jcmexdev/foodnow-connect-demo/internal/dashboard/core/service"
	"github.com/jcmexdev/foodnow-connect-demo/internal/eventlog"
	"github.com/jcmexdev/foodnow-connect-demo/internal/pkg/httpmeta"
)

const (
	msgNotOnboarded      = "Account must complete onboarding before accessing Express Dashboard"
	msgLoginLinkFailed   = "Unable to create Express Dashboard link"
	maxRequestBodyBytes  = 1 << 20
	headerForwardedHost  = "X-Forwarded-Host"
	headerForwardedProto = "X-Forwarded-Proto"
)

// Handler serves the dashboard API.
type Handler struct {
	svc     *service.Service
	logs    *eventlog.Buffer
	journal sagalog.Reader // nil-safe: orchestration lookups return 404
	baseURL string
}

// NewHandler wires the handler. journal may be nil.
func NewHandler(svc *service.Service, logs *eventlog.Buffer, journal sagalog.Reader, baseURL string) *Handler {
	return &Handler{
		svc:     svc,
		logs:    logs,
		journal: journal,
		baseURL: baseURL,
	}
}

// CheckAccount reports the onboarding flags of a connected account.
func (h *Handler) CheckAccount(w http.ResponseWriter, r *http.Request) {
	var req CheckAccountRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	status, err := h.svc.CheckAccount(r.Context(), req.AccountID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, CheckAccountResponse{
		Envelope:               Envelope{Success: true, Fallback: status.Fallback, Message: status.Message},
		AccountID:              status.ID,
		PayoutsEnabled:         status.PayoutsEnabled,
		ChargesEnabled:         status.ChargesEnabled,
		DetailsSubmitted:       status.DetailsSubmitted,
		DashboardLinkAvailable: status.DashboardLinkAvailable(),
		Active:                 status.Active(),
	})
}

// CreateConnectAccount provisions an Express account and returns its
// onboarding link.
func (h *Handler) CreateConnectAccount(w http.ResponseWriter, r *http.Request) {
	var req CreateConnectAccountRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	res, err := h.svc.ProvisionAccount(r.Context(), service.ProvisionRequest{
		AccountType:  req.AccountType,
		Email:        req.Email,
		BusinessName: req.BusinessName,
		BaseURL:      callbackBaseURL(r, h.baseURL),
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, CreateConnectAccountResponse{
		Envelope:      Envelope{Success: true, Fallback: res.Fallback, Message: res.Message},
		AccountID:     res.AccountID,
		OnboardingURL: res.OnboardingURL,
	})
}

// CreatePayment creates the checkout payment intent. An empty body is valid.
func (h *Handler) CreatePayment(w http.ResponseWriter, r *http.Request) {
	var req CreatePaymentRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	res, err := h.svc.CreatePayment(r.Context(), service.PaymentRequest{
		Amount:            req.Amount,
		PaymentMethodMode: req.PaymentMethodMode,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, CreatePaymentResponse{
		Envelope:        Envelope{Success: true, Fallback: res.Fallback, Message: res.Message},
		ClientSecret:    res.ClientSecret,
		PaymentIntentID: res.PaymentIntentID,
		OrderID:         res.OrderID,
		Breakdown:       res.Breakdown,
	})
}

// CreateTransfers splits a paid order between restaurant and courier.
func (h *Handler) CreateTransfers(w http.ResponseWriter, r *http.Request) {
	var req CreateTransfersRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	res, err := h.svc.CreateTransfers(r.Context(), service.TransferRequest{
		PaymentIntentID:     req.PaymentIntentID,
		RestaurantAccountID: req.RestaurantAccountID,
		CourierAccountID:    req.CourierAccountID,
		RestaurantAmount:    req.RestaurantAmount,
		CourierAmount:       req.CourierAmount,
		OrderID:             req.OrderID,
		IdempotencyKey:      httpmeta.IdempotencyKey(r.Context()),
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, CreateTransfersResponse{
		Envelope:             Envelope{Success: true, Fallback: res.Fallback, Message: res.Message},
		RestaurantTransferID: res.RestaurantTransferID,
		CourierTransferID:    res.CourierTransferID,
		ChargeID:             res.ChargeID,
		Partial:              res.Partial,
		PartialTransferID:    res.PartialTransferID,
	})
}

// CreateExpressLoginLink returns a dashboard login link. This endpoint has no
// fallback.
func (h *Handler) CreateExpressLoginLink(w http.ResponseWriter, r *http.Request) {
	var req LoginLinkRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	url, err := h.svc.CreateLoginLink(r.Context(), req.AccountID)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, LoginLinkResponse{Envelope: Envelope{Success: true}, URL: url})
	case errors.Is(err, entity.ErrAccountNotOnboarded):
		writeError(w, http.StatusConflict, "account_not_onboarded", msgNotOnboarded)
	case errors.Is(err, entity.ErrInvalidRequest):
		writeServiceError(w, r, err)
	default:
		writeError(w, http.StatusInternalServerError, "login_link_failed", msgLoginLinkFailed)
	}
}

// --- demo log ---

func (h *Handler) ListLogs(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, LogsResponse{Envelope: Envelope{Success: true}, Data: h.logs.List()})
}

func (h *Handler) AppendLog(w http.ResponseWriter, r *http.Request) {
	var req AppendLogRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	level, err := eventlog.ParseLevel(req.Level)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	if req.Message == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "message is required")
		return
	}

	h.logs.Append(level, req.Message, req.Data)
	writeJSON(w, http.StatusOK, Envelope{Success: true})
}

func (h *Handler) ClearLogs(w http.ResponseWriter, r *http.Request) {
	h.logs.Clear()
	writeJSON(w, http.StatusOK, ClearLogsResponse{Envelope: Envelope{Success: true}, Cleared: true})
}

func (h *Handler) CountLogs(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, LogCountResponse{Envelope: Envelope{Success: true}, Count: h.logs.Count()})
}

// --- demo accounts ---

func (h *Handler) GetDemoAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.svc.DemoAccounts(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, DemoAccountsResponse{Envelope: Envelope{Success: true}, DemoAccounts: accounts})
}

func (h *Handler) PutDemoAccounts(w http.ResponseWriter, r *http.Request) {
	var req entity.DemoAccounts
	if !decodeJSON(w, r, &req) {
		return
	}
	accounts, err := h.svc.SetDemoAccounts(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, DemoAccountsResponse{Envelope: Envelope{Success: true}, DemoAccounts: accounts})
}

// GetOrchestration returns the latest journal row for an order.
func (h *Handler) GetOrchestration(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderId")
	if orderID == "" {
		writeError(w, http.StatusBadRequest, "order_id_required", "")
		return
	}
	if h.journal == nil {
		writeError(w, http.StatusNotFound, "journal_disabled", "orchestration journal is not configured")
		return
	}

	entry, err := h.journal.GetLatest(r.Context(), orderID)
	if err != nil {
		if errors.Is(err, sagalog.ErrNotFound) {
			writeError(w, http.StatusNotFound, "orchestration_not_found", err.Error())
			return
		}
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, OrchestrationResponse{
		Envelope:      Envelope{Success: true},
		OrderID:       entry.SagaID,
		Status:        string(entry.Status),
		CurrentStep:   entry.CurrentStep,
		ErrorMessages: entry.ErrorMessages,
		TraceID:       entry.TraceID,
		UpdatedAt:     entry.UpdatedAt.UTC().Format(time.RFC3339Nano),
	})
}

// callbackBaseURL prefers the reverse proxy's forwarded host, then the Host
// header, then fallback.
func callbackBaseURL(r *http.Request, fallback string) string {
	if host := r.Header.Get(headerForwardedHost); host != "" {
		proto := r.Header.Get(headerForwardedProto)
		if proto == "" {
			proto = "https"
		}
		return proto + "://" + host
	}
	if host := r.Host; host != "" {
		scheme := "https"
		if strings.Contains(host, "localhost") {
			scheme = "http"
		}
		return scheme + "://" + host
	}
	return fallback
}

// decodeJSON reads the body into v, treating an empty body as {}. It writes
// the 400 response itself and reports whether the handler may continue.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	err := json.NewDecoder(io.LimitReader(r.Body, maxRequestBodyBytes)).Decode(v)
	if err == nil || errors.Is(err, io.EOF) {
		return true
	}
	writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
	return false
}

func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, entity.ErrInvalidAmount):
		writeError(w, http.StatusBadRequest, "invalid_amount", err.Error())
	case errors.Is(err, entity.ErrInvalidRequest):
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
	default:
		slog.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, ErrorResponse{
		Success: false,
		Error:   code,
		Message: msg,
	})
}
