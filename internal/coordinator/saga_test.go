package coordinator_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcmexdev/foodnow-connect-demo/internal/coordinator"
	"github.com/jcmexdev/foodnow-connect-demo/internal/coordinator/sagalog"
	"github.com/jcmexdev/foodnow-connect-demo/internal/dashboard/core/domain/entity"
	"github.com/jcmexdev/foodnow-connect-demo/internal/dashboard/core/ports/portstest"
	"github.com/jcmexdev/foodnow-connect-demo/internal/eventlog"
)

type memoryJournal struct {
	mu      sync.Mutex
	entries []*sagalog.SagaLog
}

func (m *memoryJournal) Save(_ context.Context, e *sagalog.SagaLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, e)
	return nil
}

func (m *memoryJournal) statuses() []sagalog.Status {
	out := make([]sagalog.Status, len(m.entries))
	for i, e := range m.entries {
		out[i] = e.Status
	}
	return out
}

type recordingStep struct {
	name  string
	err   error
	order *[]string
}

func (s *recordingStep) Name() string { return s.name }

func (s *recordingStep) Execute(context.Context) error {
	*s.order = append(*s.order, s.name)
	return s.err
}

func TestOrchestratorRunsStepsInOrder(t *testing.T) {
	var order []string
	journal := &memoryJournal{}
	steps := []coordinator.Step{
		&recordingStep{name: "a", order: &order},
		&recordingStep{name: "b", order: &order},
		&recordingStep{name: "c", order: &order},
	}

	err := coordinator.NewOrchestrator("order_1", steps, journal).Start(context.Background(), `{"x":1}`)
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b", "c"}, order)
	assert.Equal(t, []sagalog.Status{
		sagalog.StatusStarted,
		sagalog.StatusStepDone,
		sagalog.StatusStepDone,
		sagalog.StatusStepDone,
		sagalog.StatusCompleted,
	}, journal.statuses())
	assert.Equal(t, `{"x":1}`, journal.entries[0].Payload)
}

func TestOrchestratorStopsAtFirstFailureWithoutUndo(t *testing.T) {
	var order []string
	journal := &memoryJournal{}
	boom := errors.New("boom")
	steps := []coordinator.Step{
		&recordingStep{name: "a", order: &order},
		&recordingStep{name: "b", err: boom, order: &order},
		&recordingStep{name: "c", order: &order},
	}

	err := coordinator.NewOrchestrator("order_1", steps, journal).Start(context.Background(), "")

	var stepErr *coordinator.StepError
	require.ErrorAs(t, err, &stepErr)
	assert.Equal(t, "b", stepErr.Step)
	assert.Equal(t, []string{"a"}, stepErr.Completed)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"a", "b"}, order)

	last := journal.entries[len(journal.entries)-1]
	assert.Equal(t, sagalog.StatusFailed, last.Status)
	assert.Equal(t, "b", last.CurrentStep)
	assert.Equal(t, `["boom"]`, last.ErrorMessages)
}

func TestOrchestratorWithoutJournal(t *testing.T) {
	var order []string
	steps := []coordinator.Step{&recordingStep{name: "only", order: &order}}

	require.NoError(t, coordinator.NewOrchestrator("order_1", steps, nil).Start(context.Background(), ""))
	assert.Equal(t, []string{"only"}, order)
}

func TestTransferStepsLinkToResolvedCharge(t *testing.T) {
	platform := portstest.NewPlatform()
	events := eventlog.NewBuffer(10)

	funding := coordinator.NewResolveFundingStep(platform, events, "pi_123", false)
	restaurant := coordinator.NewTransferStep(platform, funding, coordinator.TransferRequest{
		Recipient: entity.RecipientRestaurant, Destination: "acct_r", Amount: 2000,
		Currency: "usd", OrderID: "order_1", PaymentIntentID: "pi_123",
	})
	courier := coordinator.NewTransferStep(platform, funding, coordinator.TransferRequest{
		Recipient: entity.RecipientCourier, Destination: "acct_c", Amount: 500,
		Currency: "usd", OrderID: "order_1", PaymentIntentID: "pi_123",
	})

	err := coordinator.NewOrchestrator("order_1", []coordinator.Step{funding, restaurant, courier}, nil).
		Start(context.Background(), "")
	require.NoError(t, err)

	require.Len(t, platform.Transfers, 2)
	first, second := platform.Transfers[0], platform.Transfers[1]

	assert.Equal(t, "acct_r", first.Destination)
	assert.Equal(t, int64(2000), first.Amount)
	assert.Equal(t, "order_1", first.TransferGroup)
	require.NotNil(t, first.SourceTransaction)
	assert.Equal(t, "ch_test_001", *first.SourceTransaction)
	assert.Equal(t, map[string]string{
		"order_id": "order_1", "payment_intent_id": "pi_123", "recipient_type": "restaurant",
	}, first.Metadata)

	assert.Equal(t, "acct_c", second.Destination)
	assert.Equal(t, "courier", second.Metadata["recipient_type"])

	assert.Equal(t, "tr_test_1", restaurant.Transfer().ID)
	assert.Equal(t, "tr_test_2", courier.Transfer().ID)

	entries := events.List()
	require.Len(t, entries, 1)
	assert.Equal(t, "PaymentIntent confirmed", entries[0].Message)
	assert.Equal(t, "succeeded", entries[0].Data["status"])
}

func TestTransferStepOmitsSourceWhenNoCharge(t *testing.T) {
	platform := portstest.NewPlatform()
	platform.Intent.LatestCharge = nil
	platform.Intent.Status = "processing"

	funding := coordinator.NewResolveFundingStep(platform, eventlog.NewBuffer(5), "pi_123", false)
	step := coordinator.NewTransferStep(platform, funding, coordinator.TransferRequest{
		Recipient: entity.RecipientRestaurant, Destination: "acct_r", Amount: 2000, OrderID: "order_1",
	})

	err := coordinator.NewOrchestrator("order_1", []coordinator.Step{funding, step}, nil).Start(context.Background(), "")
	require.NoError(t, err)

	require.Len(t, platform.Transfers, 1)
	assert.Nil(t, platform.Transfers[0].SourceTransaction)
	assert.Nil(t, funding.ChargeID())
}

func TestResolveFundingRequiresSucceededWhenConfigured(t *testing.T) {
	platform := portstest.NewPlatform()
	platform.Intent.Status = "requires_payment_method"

	funding := coordinator.NewResolveFundingStep(platform, eventlog.NewBuffer(5), "pi_123", true)
	err := funding.Execute(context.Background())

	assert.ErrorIs(t, err, entity.ErrPaymentNotSucceeded)
	assert.Equal(t, "requires_payment_method", funding.Intent().Status)
}

func TestTransferStepIdempotencyKeyPerRecipient(t *testing.T) {
	platform := portstest.NewPlatform()
	step := coordinator.NewTransferStep(platform, nil, coordinator.TransferRequest{
		Recipient: entity.RecipientCourier, Destination: "acct_c", Amount: 500, OrderID: "order_1",
		IdempotencyKey: "idem-42",
	})

	require.NoError(t, step.Execute(context.Background()))
	assert.Equal(t, "idem-42:courier", platform.Transfers[0].IdempotencyKey)
	assert.Equal(t, "Transfer_courier_Step", step.Name())
}
