// Package platform holds the PaymentsPlatform adapters: the Stripe Connect
// client used against a real test-mode account, and an in-memory sandbox.
package platform

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/client"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/jcmexdev/foodnow-connect-demo/internal/dashboard/core/domain/entity"
	"github.com/jcmexdev/foodnow-connect-demo/internal/dashboard/core/ports"
)

var _ ports.PaymentsPlatform = (*StripePlatform)(nil)

// StripePlatform talks to the Stripe API with a platform secret key.
type StripePlatform struct {
	sc      *client.API
	country string
}

// NewStripePlatform builds a Stripe client whose outgoing requests are traced.
func NewStripePlatform(secretKey string) (*StripePlatform, error) {
	if secretKey == "" {
		return nil, errors.New("stripe: secret key is required")
	}
	httpClient := &http.Client{
		Timeout:   20 * time.Second,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}
	return &StripePlatform{
		sc:      client.New(secretKey, stripe.NewBackends(httpClient)),
		country: "US",
	}, nil
}

func (p *StripePlatform) CreateAccount(ctx context.Context, params entity.AccountParams) (*entity.ConnectedAccount, error) {
	req := &stripe.AccountParams{
		Type:         stripe.String(string(stripe.AccountTypeExpress)),
		Country:      stripe.String(p.country),
		Email:        stripe.String(params.Email),
		BusinessType: stripe.String(params.Type.BusinessType()),
		Capabilities: &stripe.AccountCapabilitiesParams{
			CardPayments: &stripe.AccountCapabilitiesCardPaymentsParams{Requested: stripe.Bool(true)},
			Transfers:    &stripe.AccountCapabilitiesTransfersParams{Requested: stripe.Bool(true)},
		},
		BusinessProfile: &stripe.AccountBusinessProfileParams{
			Name: stripe.String(params.BusinessName),
		},
	}
	req.Context = ctx
	req.AddMetadata("foodnow_type", string(params.Type))
	req.AddMetadata("demo", "true")
	req.AddMetadata("business_name", params.BusinessName)

	acct, err := p.sc.Accounts.New(req)
	if err != nil {
		return nil, fmt.Errorf("stripe: create account: %w", err)
	}
	out := toConnectedAccount(acct)
	out.Type = params.Type
	return out, nil
}

func (p *StripePlatform) CreateAccountLink(ctx context.Context, params entity.AccountLinkParams) (string, error) {
	req := &stripe.AccountLinkParams{
		Account:    stripe.String(params.AccountID),
		RefreshURL: stripe.String(params.RefreshURL),
		ReturnURL:  stripe.String(params.ReturnURL),
		Type:       stripe.String(string(stripe.AccountLinkTypeAccountOnboarding)),
	}
	req.Context = ctx

	link, err := p.sc.AccountLinks.New(req)
	if err != nil {
		return "", fmt.Errorf("stripe: create account link: %w", err)
	}
	return link.URL, nil
}

func (p *StripePlatform) RetrieveAccount(ctx context.Context, accountID string) (*entity.ConnectedAccount, error) {
	req := &stripe.AccountParams{}
	req.Context = ctx

	acct, err := p.sc.Accounts.GetByID(accountID, req)
	if err != nil {
		return nil, fmt.Errorf("stripe: retrieve account %s: %w", accountID, err)
	}
	return toConnectedAccount(acct), nil
}

func (p *StripePlatform) CreateLoginLink(ctx context.Context, accountID string) (string, error) {
	req := &stripe.LoginLinkParams{Account: stripe.String(accountID)}
	req.Context = ctx

	link, err := p.sc.LoginLinks.New(req)
	if err != nil {
		if notOnboarded(err) {
			return "", fmt.Errorf("stripe: login link for %s: %w", accountID, entity.ErrAccountNotOnboarded)
		}
		return "", fmt.Errorf("stripe: login link for %s: %w", accountID, err)
	}
	return link.URL, nil
}

func (p *StripePlatform) CreatePaymentIntent(ctx context.Context, params entity.PaymentIntentParams) (*entity.PaymentIntent, error) {
	req := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(params.Amount),
		Currency: stripe.String(params.Currency),
	}
	switch params.Mode {
	case entity.PaymentMethodAutomatic:
		req.AutomaticPaymentMethods = &stripe.PaymentIntentAutomaticPaymentMethodsParams{Enabled: stripe.Bool(true)}
	default:
		req.PaymentMethodTypes = stripe.StringSlice([]string{"card"})
	}
	req.Context = ctx
	req.AddMetadata("order_id", params.OrderID)
	req.AddMetadata("demo", "true")

	pi, err := p.sc.PaymentIntents.New(req)
	if err != nil {
		return nil, fmt.Errorf("stripe: create payment intent: %w", err)
	}
	return toPaymentIntent(pi), nil
}

func (p *StripePlatform) RetrievePaymentIntent(ctx context.Context, paymentIntentID string) (*entity.PaymentIntent, error) {
	req := &stripe.PaymentIntentParams{}
	req.Context = ctx
	req.AddExpand("latest_charge")

	pi, err := p.sc.PaymentIntents.Get(paymentIntentID, req)
	if err != nil {
		return nil, fmt.Errorf("stripe: retrieve payment intent %s: %w", paymentIntentID, err)
	}
	return toPaymentIntent(pi), nil
}

func (p *StripePlatform) CreateTransfer(ctx context.Context, params entity.TransferParams) (*entity.Transfer, error) {
	req := &stripe.TransferParams{
		Amount:        stripe.Int64(params.Amount),
		Currency:      stripe.String(params.Currency),
		Destination:   stripe.String(params.Destination),
		TransferGroup: stripe.String(params.TransferGroup),
	}
	if params.SourceTransaction != nil {
		req.SourceTransaction = stripe.String(*params.SourceTransaction)
	}
	for k, v := range params.Metadata {
		req.AddMetadata(k, v)
	}
	if params.IdempotencyKey != "" {
		req.SetIdempotencyKey(params.IdempotencyKey)
	}
	req.Context = ctx

	tr, err := p.sc.Transfers.New(req)
	if err != nil {
		return nil, fmt.Errorf("stripe: create transfer to %s: %w", params.Destination, err)
	}

	slog.DebugContext(ctx, "stripe transfer created", "transfer_id", tr.ID, "destination", params.Destination)
	out := &entity.Transfer{
		ID:                   tr.ID,
		DestinationAccountID: params.Destination,
		Amount:               tr.Amount,
		GroupKey:             tr.TransferGroup,
	}
	if tr.SourceTransaction != nil && tr.SourceTransaction.ID != "" {
		id := tr.SourceTransaction.ID
		out.SourceTransactionID = &id
	}
	return out, nil
}

func toConnectedAccount(acct *stripe.Account) *entity.ConnectedAccount {
	out := &entity.ConnectedAccount{
		ID:               acct.ID,
		PayoutsEnabled:   acct.PayoutsEnabled,
		ChargesEnabled:   acct.ChargesEnabled,
		DetailsSubmitted: acct.DetailsSubmitted,
	}
	if t, err := entity.ParseAccountType(acct.Metadata["foodnow_type"]); err == nil {
		out.Type = t
	}
	return out
}

func toPaymentIntent(pi *stripe.PaymentIntent) *entity.PaymentIntent {
	return &entity.PaymentIntent{
		ID:           pi.ID,
		ClientSecret: pi.ClientSecret,
		Status:       string(pi.Status),
		Amount:       pi.Amount,
		LatestCharge: toFundingRef(pi.LatestCharge),
	}
}

// toFundingRef maps latest_charge. Unexpanded, stripe-go decodes the bare id
// into a Charge with only ID set and an empty Object.
func toFundingRef(ch *stripe.Charge) entity.FundingRef {
	switch {
	case ch == nil || ch.ID == "":
		return nil
	case ch.Object == "":
		return entity.ChargeIdentifier(ch.ID)
	default:
		return entity.ExpandedCharge{ID: ch.ID, Amount: ch.Amount, Status: string(ch.Status)}
	}
}

func notOnboarded(err error) bool {
	var serr *stripe.Error
	if !errors.As(err, &serr) {
		return false
	}
	msg := strings.ToLower(serr.Msg)
	return strings.Contains(msg, "not yet fully onboarded") || strings.Contains(msg, "login_link")
}
