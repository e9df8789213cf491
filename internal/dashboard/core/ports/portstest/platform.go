// Package portstest provides a call-recording PaymentsPlatform for tests.
package portstest

import (
	"context"
	"fmt"
	"sync"

	"github.com/jcmexdev/foodnow-connect-demo/internal/dashboard/core/domain/entity"
	"github.com/jcmexdev/foodnow-connect-demo/internal/dashboard/core/ports"
)

var _ ports.PaymentsPlatform = (*Platform)(nil)

// Platform records every call and answers from its fields. A non-nil *Err
// field makes the matching call fail.
type Platform struct {
	mu sync.Mutex

	Calls map[string]int

	CreateAccountErr     error
	CreateAccountLinkErr error
	RetrieveAccountErr   error
	LoginLinkErr         error
	CreateIntentErr      error
	RetrieveIntentErr    error
	// TransferErrs fails the n-th CreateTransfer call (zero-based) with the mapped error.
	TransferErrs map[int]error

	Account *entity.ConnectedAccount
	Intent  *entity.PaymentIntent

	AccountParams []entity.AccountParams
	LinkParams    []entity.AccountLinkParams
	IntentParams  []entity.PaymentIntentParams
	Transfers     []entity.TransferParams
}

// NewPlatform returns a fake whose intent has succeeded with an expanded charge.
func NewPlatform() *Platform {
	return &Platform{
		Calls: make(map[string]int),
		Intent: &entity.PaymentIntent{
			ID:           "pi_test_001",
			ClientSecret: "pi_test_001_secret",
			Status:       entity.PaymentIntentStatusSucceeded,
			Amount:       3000,
			LatestCharge: entity.ExpandedCharge{ID: "ch_test_001", Amount: 3000, Status: "succeeded"},
		},
	}
}

// Count returns how many times method was called.
func (p *Platform) Count(method string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.Calls[method]
}

// Total returns the number of calls across all methods.
func (p *Platform) Total() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, c := range p.Calls {
		n += c
	}
	return n
}

func (p *Platform) hit(method string) int {
	p.Calls[method]++
	return p.Calls[method] - 1
}

func (p *Platform) CreateAccount(_ context.Context, params entity.AccountParams) (*entity.ConnectedAccount, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.hit("CreateAccount")
	p.AccountParams = append(p.AccountParams, params)
	if p.CreateAccountErr != nil {
		return nil, p.CreateAccountErr
	}
	return &entity.ConnectedAccount{ID: "acct_test_" + string(params.Type), Type: params.Type}, nil
}

func (p *Platform) CreateAccountLink(_ context.Context, params entity.AccountLinkParams) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.hit("CreateAccountLink")
	p.LinkParams = append(p.LinkParams, params)
	if p.CreateAccountLinkErr != nil {
		return "", p.CreateAccountLinkErr
	}
	return "https://connect.example.test/setup/" + params.AccountID, nil
}

func (p *Platform) RetrieveAccount(_ context.Context, accountID string) (*entity.ConnectedAccount, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.hit("RetrieveAccount")
	if p.RetrieveAccountErr != nil {
		return nil, p.RetrieveAccountErr
	}
	if p.Account != nil {
		acct := *p.Account
		return &acct, nil
	}
	return &entity.ConnectedAccount{ID: accountID}, nil
}

func (p *Platform) CreateLoginLink(_ context.Context, accountID string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.hit("CreateLoginLink")
	if p.LoginLinkErr != nil {
		return "", p.LoginLinkErr
	}
	return "https://connect.example.test/express/" + accountID, nil
}

func (p *Platform) CreatePaymentIntent(_ context.Context, params entity.PaymentIntentParams) (*entity.PaymentIntent, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.hit("CreatePaymentIntent")
	p.IntentParams = append(p.IntentParams, params)
	if p.CreateIntentErr != nil {
		return nil, p.CreateIntentErr
	}
	pi := *p.Intent
	pi.Amount = params.Amount
	pi.Status = "requires_payment_method"
	pi.LatestCharge = nil
	return &pi, nil
}

func (p *Platform) RetrievePaymentIntent(_ context.Context, paymentIntentID string) (*entity.PaymentIntent, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.hit("RetrievePaymentIntent")
	if p.RetrieveIntentErr != nil {
		return nil, p.RetrieveIntentErr
	}
	pi := *p.Intent
	pi.ID = paymentIntentID
	return &pi, nil
}

func (p *Platform) CreateTransfer(_ context.Context, params entity.TransferParams) (*entity.Transfer, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := p.hit("CreateTransfer")
	p.Transfers = append(p.Transfers, params)
	if err := p.TransferErrs[n]; err != nil {
		return nil, err
	}
	return &entity.Transfer{
		ID:                   fmt.Sprintf("tr_test_%d", n+1),
		DestinationAccountID: params.Destination,
		Amount:               params.Amount,
		GroupKey:             params.TransferGroup,
		SourceTransactionID:  params.SourceTransaction,
	}, nil
}
