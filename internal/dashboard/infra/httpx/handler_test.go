package httpx

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcmexdev/foodnow-connect-demo/internal/coordinator/sagalog"
	"github.com/jcmexdev/foodnow-connect-demo/internal/coordinator/sagalog/sqlite"
	"github.com/jcmexdev/foodnow-connect-demo/internal/dashboard/core/domain/entity"
	"github.com/jcmexdev/foodnow-connect-demo/internal/dashboard/core/ports/portstest"
	"github.com/jcmexdev/foodnow-connect-demo/internal/dashboard/core/service"
	"github.com/jcmexdev/foodnow-connect-demo/internal/dashboard/infra/adapters/registry"
	"github.com/jcmexdev/foodnow-connect-demo/internal/eventlog"
	"github.com/jcmexdev/foodnow-connect-demo/internal/pkg/cache"
	"github.com/jcmexdev/foodnow-connect-demo/internal/pkg/httpmeta"
	"github.com/jcmexdev/foodnow-connect-demo/internal/pricing"
)

var errUpstream = errors.New("upstream unavailable")

type testServer struct {
	router   http.Handler
	platform *portstest.Platform
	logs     *eventlog.Buffer
}

func newTestServer(t *testing.T, journal *sqlite.Repository) *testServer {
	t.Helper()
	calc, err := pricing.NewCalculator(pricing.FixedPolicy())
	require.NoError(t, err)

	ts := &testServer{platform: portstest.NewPlatform(), logs: eventlog.NewBuffer(50)}
	reg := registry.New(cache.NewMemoryCache("test"), entity.DemoAccounts{
		RestaurantAccountID: "acct_demo_restaurant_001",
		CourierAccountID:    "acct_demo_courier_001",
	})

	var (
		repo   sagalog.Repository
		reader sagalog.Reader
	)
	if journal != nil {
		repo, reader = journal, journal
	}

	svc := service.New(ts.platform, calc, ts.logs, reg, repo, service.Options{
		OrderID:       "order_demo_001",
		DefaultAmount: 3000,
		BaseURL:       "http://localhost:8080",
	})
	ts.router = NewRouter(NewHandler(svc, ts.logs, reader, "http://localhost:8080"), RouterOptions{})
	return ts
}

func (ts *testServer) do(t *testing.T, method, path string, body any, headers ...string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)

	var out map[string]any
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	}
	return rec, out
}

func validTransfersBody() map[string]any {
	return map[string]any{
		"paymentIntentId":     "pi_123",
		"restaurantAccountId": "acct_r",
		"courierAccountId":    "acct_c",
		"restaurantAmount":    2000,
		"courierAmount":       500,
		"orderId":             "order_demo_001",
	}
}

func TestValidationFailuresMakeNoUpstreamCalls(t *testing.T) {
	cases := []struct {
		path string
		body any
	}{
		{"/api/check-account", map[string]any{}},
		{"/api/create-connect-account", map[string]any{"accountType": "restaurant", "email": "a@b.c"}},
		{"/api/create-connect-account", map[string]any{"accountType": "driver", "email": "a@b.c", "businessName": "x"}},
		{"/api/create-transfers", map[string]any{"paymentIntentId": "pi_1"}},
		{"/api/create-express-login-link", map[string]any{}},
		{"/api/create-payment", map[string]any{"paymentMethodMode": "wire"}},
		{"/api/create-payment", `{not json`},
	}
	for _, tc := range cases {
		t.Run(tc.path, func(t *testing.T) {
			ts := newTestServer(t, nil)
			rec, out := ts.do(t, http.MethodPost, tc.path, tc.body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, false, out["success"])
			assert.NotEmpty(t, out["error"])
			assert.Zero(t, ts.platform.Total())
		})
	}
}

func TestMissingTransferFieldsEachRejected(t *testing.T) {
	for field := range validTransfersBody() {
		t.Run(field, func(t *testing.T) {
			ts := newTestServer(t, nil)
			body := validTransfersBody()
			delete(body, field)

			rec, out := ts.do(t, http.MethodPost, "/api/create-transfers", body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, false, out["success"])
			assert.Zero(t, ts.platform.Total())
		})
	}
}

func TestUpstreamFailuresReturnFallbacks(t *testing.T) {
	cases := []struct {
		path  string
		body  any
		setup func(*portstest.Platform)
	}{
		{"/api/check-account", map[string]any{"accountId": "acct_1"}, func(p *portstest.Platform) { p.RetrieveAccountErr = errUpstream }},
		{"/api/create-connect-account", map[string]any{"accountType": "courier", "email": "a@b.c", "businessName": "x"}, func(p *portstest.Platform) { p.CreateAccountErr = errUpstream }},
		{"/api/create-payment", nil, func(p *portstest.Platform) { p.CreateIntentErr = errUpstream }},
		{"/api/create-transfers", validTransfersBody(), func(p *portstest.Platform) { p.RetrieveIntentErr = errUpstream }},
	}
	for _, tc := range cases {
		t.Run(tc.path, func(t *testing.T) {
			ts := newTestServer(t, nil)
			tc.setup(ts.platform)

			rec, out := ts.do(t, http.MethodPost, tc.path, tc.body)
			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, true, out["success"])
			assert.Equal(t, true, out["fallback"])
			assert.NotEmpty(t, out["message"])
		})
	}
}

func TestCheckAccount(t *testing.T) {
	ts := newTestServer(t, nil)
	ts.platform.Account = &entity.ConnectedAccount{ID: "acct_1", DetailsSubmitted: true}

	rec, out := ts.do(t, http.MethodPost, "/api/check-account", map[string]any{"accountId": "acct_1"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "acct_1", out["accountId"])
	assert.Equal(t, true, out["detailsSubmitted"])
	assert.Equal(t, false, out["payoutsEnabled"])
	assert.Equal(t, true, out["dashboardLinkAvailable"])
	assert.Equal(t, false, out["active"])
	assert.NotContains(t, out, "fallback")
}

func TestCreateConnectAccountUsesForwardedHost(t *testing.T) {
	ts := newTestServer(t, nil)

	rec, out := ts.do(t, http.MethodPost, "/api/create-connect-account",
		map[string]any{"accountType": "restaurant", "email": "m@example.com", "businessName": "Mario's"},
		"X-Forwarded-Host", "demo.example.com",
	)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "acct_test_restaurant", out["accountId"])
	assert.NotEmpty(t, out["onboardingUrl"])

	require.Len(t, ts.platform.LinkParams, 1)
	assert.Equal(t, "https://demo.example.com/onboarding/return?account_id=acct_test_restaurant", ts.platform.LinkParams[0].ReturnURL)

	_, accounts := ts.do(t, http.MethodGet, "/api/demo-accounts", nil)
	assert.Equal(t, "acct_test_restaurant", accounts["restaurantAccountId"])
}

func TestCallbackBaseURL(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set("X-Forwarded-Host", "proxy.example.com")
	req.Header.Set("X-Forwarded-Proto", "http")
	assert.Equal(t, "http://proxy.example.com", callbackBaseURL(req, "http://fallback"))

	req = httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set("X-Forwarded-Host", "proxy.example.com")
	assert.Equal(t, "https://proxy.example.com", callbackBaseURL(req, "http://fallback"))

	req = httptest.NewRequest(http.MethodPost, "/", nil)
	req.Host = "localhost:8080"
	assert.Equal(t, "http://localhost:8080", callbackBaseURL(req, "http://fallback"))

	req.Host = "api.example.com"
	assert.Equal(t, "https://api.example.com", callbackBaseURL(req, "http://fallback"))

	req.Host = ""
	assert.Equal(t, "http://fallback", callbackBaseURL(req, "http://fallback"))
}

func TestCreatePaymentWithEmptyBody(t *testing.T) {
	ts := newTestServer(t, nil)

	rec, out := ts.do(t, http.MethodPost, "/api/create-payment", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "pi_test_001", out["paymentIntentId"])
	assert.Equal(t, "order_demo_001", out["orderId"])

	breakdown, ok := out["breakdown"].(map[string]any)
	require.True(t, ok)
	assert.EqualValues(t, 3000, breakdown["total"])
	assert.EqualValues(t, 500, breakdown["platformFee"])
	assert.EqualValues(t, 2000, breakdown["restaurantAmount"])
	assert.EqualValues(t, 500, breakdown["courierAmount"])
}

func TestCreateTransfersForwardsIdempotencyKey(t *testing.T) {
	ts := newTestServer(t, nil)

	rec, out := ts.do(t, http.MethodPost, "/api/create-transfers", validTransfersBody(), httpmeta.HeaderXIdempotencyKey, "idem-7")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "tr_test_1", out["restaurantTransferId"])
	assert.Equal(t, "tr_test_2", out["courierTransferId"])
	assert.Equal(t, "ch_test_001", out["chargeId"])

	require.Len(t, ts.platform.Transfers, 2)
	assert.Equal(t, "idem-7:restaurant", ts.platform.Transfers[0].IdempotencyKey)
	assert.Equal(t, "idem-7:courier", ts.platform.Transfers[1].IdempotencyKey)
}

func TestCreateTransfersPartialFailure(t *testing.T) {
	ts := newTestServer(t, nil)
	ts.platform.TransferErrs = map[int]error{1: errUpstream}

	rec, out := ts.do(t, http.MethodPost, "/api/create-transfers", validTransfersBody())
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, out["success"])
	assert.Equal(t, true, out["fallback"])
	assert.Equal(t, true, out["partial"])
	assert.Equal(t, "tr_test_1", out["partialTransferId"])
	assert.True(t, strings.HasPrefix(out["restaurantTransferId"].(string), "tr_sim_restaurant_"))
	assert.True(t, strings.HasPrefix(out["courierTransferId"].(string), "tr_sim_courier_"))
}

func TestLoginLinkStatusMapping(t *testing.T) {
	ts := newTestServer(t, nil)

	rec, out := ts.do(t, http.MethodPost, "/api/create-express-login-link", map[string]any{"accountId": "acct_1"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "https://connect.example.test/express/acct_1", out["url"])

	ts.platform.LoginLinkErr = entity.ErrAccountNotOnboarded
	rec, out = ts.do(t, http.MethodPost, "/api/create-express-login-link", map[string]any{"accountId": "acct_1"})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, msgNotOnboarded, out["message"])
	assert.Equal(t, false, out["success"])

	ts.platform.LoginLinkErr = errUpstream
	rec, out = ts.do(t, http.MethodPost, "/api/create-express-login-link", map[string]any{"accountId": "acct_1"})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, msgLoginLinkFailed, out["message"])
	assert.NotContains(t, out, "fallback")
}

func TestLogEndpoints(t *testing.T) {
	ts := newTestServer(t, nil)

	rec, out := ts.do(t, http.MethodPost, "/api/logs", map[string]any{"level": "info", "message": "hello", "data": map[string]any{"k": "v"}})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, out["success"])

	rec, _ = ts.do(t, http.MethodPost, "/api/logs", map[string]any{"level": "debug", "message": "nope"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	_, out = ts.do(t, http.MethodGet, "/api/logs/count", nil)
	assert.EqualValues(t, 1, out["count"])

	_, out = ts.do(t, http.MethodGet, "/api/logs", nil)
	data, ok := out["data"].([]any)
	require.True(t, ok)
	require.Len(t, data, 1)
	assert.Equal(t, "hello", data[0].(map[string]any)["message"])

	_, out = ts.do(t, http.MethodDelete, "/api/logs", nil)
	assert.Equal(t, true, out["cleared"])

	_, out = ts.do(t, http.MethodGet, "/api/logs/count", nil)
	assert.EqualValues(t, 0, out["count"])
}

func TestDemoAccountsEndpoints(t *testing.T) {
	ts := newTestServer(t, nil)

	_, out := ts.do(t, http.MethodGet, "/api/demo-accounts", nil)
	assert.Equal(t, "acct_demo_restaurant_001", out["restaurantAccountId"])
	assert.Equal(t, "acct_demo_courier_001", out["courierAccountId"])

	rec, out := ts.do(t, http.MethodPut, "/api/demo-accounts", map[string]any{"courierAccountId": "acct_new_courier"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "acct_new_courier", out["courierAccountId"])
	assert.Equal(t, "acct_demo_restaurant_001", out["restaurantAccountId"])

	rec, _ = ts.do(t, http.MethodPut, "/api/demo-accounts", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestOrchestrationJournal(t *testing.T) {
	journal, err := sqlite.Open(filepath.Join(t.TempDir(), "journal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = journal.Close() })

	ts := newTestServer(t, journal)

	rec, _ := ts.do(t, http.MethodGet, "/api/orchestrations/order_demo_001", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = ts.do(t, http.MethodPost, "/api/create-transfers", validTransfersBody())
	require.Equal(t, http.StatusOK, rec.Code)

	rec, out := ts.do(t, http.MethodGet, "/api/orchestrations/order_demo_001", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "order_demo_001", out["orderId"])
	assert.Equal(t, string(sagalog.StatusCompleted), out["status"])
}

func TestOrchestrationWithoutJournal(t *testing.T) {
	ts := newTestServer(t, nil)
	rec, out := ts.do(t, http.MethodGet, "/api/orchestrations/order_demo_001", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "journal_disabled", out["error"])
}

func TestRequestIDHeaderIsEchoed(t *testing.T) {
	ts := newTestServer(t, nil)
	rec, _ := ts.do(t, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(httpmeta.HeaderXRequestID))
}
