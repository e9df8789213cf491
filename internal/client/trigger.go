package client

import (
	"context"
	"sync/atomic"

	"github.com/jcmexdev/foodnow-connect-demo/internal/dashboard/infra/httpx"
)

// TransferTrigger creates the transfers for one confirmed payment at most
// once, however many times Fire is called. Confirmation callbacks can fire
// more than once; only the first call reaches the API.
type TransferTrigger struct {
	client         *Client
	req            httpx.CreateTransfersRequest
	idempotencyKey string

	fired atomic.Bool
	done  chan struct{}
	resp  *httpx.CreateTransfersResponse
	err   error
}

// NewTransferTrigger arms a latch for req.
func NewTransferTrigger(c *Client, req httpx.CreateTransfersRequest, idempotencyKey string) *TransferTrigger {
	return &TransferTrigger{
		client:         c,
		req:            req,
		idempotencyKey: idempotencyKey,
		done:           make(chan struct{}),
	}
}

// Fire sends the transfer request on the first call and reports fired=true.
// Later calls send nothing; they wait for the first call and return its
// result with fired=false.
func (t *TransferTrigger) Fire(ctx context.Context) (*httpx.CreateTransfersResponse, bool, error) {
	if !t.fired.CompareAndSwap(false, true) {
		select {
		case <-t.done:
			return t.resp, false, t.err
		case <-ctx.Done():
			return nil, false, ctx.Err()
		}
	}

	t.resp, t.err = t.client.CreateTransfers(ctx, t.req, t.idempotencyKey)
	close(t.done)
	return t.resp, true, t.err
}

// Fired reports whether Fire has been called.
func (t *TransferTrigger) Fired() bool {
	return t.fired.Load()
}
