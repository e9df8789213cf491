// Package client is a Go client for the dashboard API. It drives the same
// endpoints the browser checkout does.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/jcmexdev/foodnow-connect-demo/internal/dashboard/infra/httpx"
	"github.com/jcmexdev/foodnow-connect-demo/internal/pkg/httpmeta"
)

// APIError is a non-2xx response.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api: %d %s: %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("api: %d %s", e.StatusCode, e.Code)
}

// Client calls one dashboard API instance.
type Client struct {
	baseURL string
	http    *http.Client
}

// New returns a client for baseURL, e.g. http://localhost:8080.
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout:   30 * time.Second,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

func (c *Client) CheckAccount(ctx context.Context, accountID string) (*httpx.CheckAccountResponse, error) {
	var out httpx.CheckAccountResponse
	err := c.do(ctx, http.MethodPost, "/api/check-account", httpx.CheckAccountRequest{AccountID: accountID}, &out)
	return &out, err
}

func (c *Client) CreateConnectAccount(ctx context.Context, req httpx.CreateConnectAccountRequest) (*httpx.CreateConnectAccountResponse, error) {
	var out httpx.CreateConnectAccountResponse
	err := c.do(ctx, http.MethodPost, "/api/create-connect-account", req, &out)
	return &out, err
}

func (c *Client) CreatePayment(ctx context.Context, req httpx.CreatePaymentRequest) (*httpx.CreatePaymentResponse, error) {
	var out httpx.CreatePaymentResponse
	err := c.do(ctx, http.MethodPost, "/api/create-payment", req, &out)
	return &out, err
}

// CreateTransfers sends idempotencyKey as X-Idempotency-Key when non-empty.
func (c *Client) CreateTransfers(ctx context.Context, req httpx.CreateTransfersRequest, idempotencyKey string) (*httpx.CreateTransfersResponse, error) {
	var out httpx.CreateTransfersResponse
	err := c.do(ctx, http.MethodPost, "/api/create-transfers", req, &out, httpmeta.HeaderXIdempotencyKey, idempotencyKey)
	return &out, err
}

func (c *Client) CreateExpressLoginLink(ctx context.Context, accountID string) (*httpx.LoginLinkResponse, error) {
	var out httpx.LoginLinkResponse
	err := c.do(ctx, http.MethodPost, "/api/create-express-login-link", httpx.LoginLinkRequest{AccountID: accountID}, &out)
	return &out, err
}

func (c *Client) Logs(ctx context.Context) (*httpx.LogsResponse, error) {
	var out httpx.LogsResponse
	err := c.do(ctx, http.MethodGet, "/api/logs", nil, &out)
	return &out, err
}

func (c *Client) ClearLogs(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, "/api/logs", nil, &httpx.ClearLogsResponse{})
}

func (c *Client) DemoAccounts(ctx context.Context) (*httpx.DemoAccountsResponse, error) {
	var out httpx.DemoAccountsResponse
	err := c.do(ctx, http.MethodGet, "/api/demo-accounts", nil, &out)
	return &out, err
}

func (c *Client) Orchestration(ctx context.Context, orderID string) (*httpx.OrchestrationResponse, error) {
	var out httpx.OrchestrationResponse
	err := c.do(ctx, http.MethodGet, "/api/orchestrations/"+orderID, nil, &out)
	return &out, err
}

// do sends body as JSON and decodes the response into out. headers are
// name/value pairs; empty values are skipped.
func (c *Client) do(ctx context.Context, method, path string, body, out any, headers ...string) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("api: encode %s: %w", path, err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("api: build %s: %w", path, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		if headers[i+1] != "" {
			req.Header.Set(headers[i], headers[i+1])
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("api: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		var e httpx.ErrorResponse
		_ = json.NewDecoder(resp.Body).Decode(&e)
		return &APIError{StatusCode: resp.StatusCode, Code: e.Error, Message: e.Message}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("api: decode %s: %w", path, err)
	}
	return nil
}
