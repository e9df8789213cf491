package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/jcmexdev/foodnow-connect-demo/internal/dashboard/core/domain/entity"
	"github.com/jcmexdev/foodnow-connect-demo/internal/eventlog"
)

const (
	FallbackAccountID     = "acct_demo_fallback_001"
	FallbackOnboardingURL = "https://dashboard.stripe.com/test/connect/accounts"
)

// ErrLoginLinkUnavailable is returned when the platform refuses a login link
// for any reason other than incomplete onboarding.
var ErrLoginLinkUnavailable = errors.New("unable to create Express Dashboard link")

// ProvisionRequest asks for a connected account for one marketplace role.
type ProvisionRequest struct {
	AccountType  string
	Email        string
	BusinessName string
	// BaseURL is where onboarding returns to; Options.BaseURL when empty.
	BaseURL string
}

// ProvisionResult carries the new account and its onboarding link.
type ProvisionResult struct {
	AccountID     string
	OnboardingURL string
	Fallback      bool
	Message       string
}

// AccountStatus projects the onboarding flags of a connected account.
type AccountStatus struct {
	entity.ConnectedAccount
	Fallback bool
	Message  string
}

// ProvisionAccount creates an Express account for the role and an onboarding
// link that returns to BaseURL with the account id embedded.
func (s *Service) ProvisionAccount(ctx context.Context, req ProvisionRequest) (*ProvisionResult, error) {
	if req.AccountType == "" || req.Email == "" || req.BusinessName == "" {
		return nil, fmt.Errorf("%w: accountType, email and businessName are required", entity.ErrInvalidRequest)
	}
	accountType, err := entity.ParseAccountType(req.AccountType)
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "creating express account", "account_type", accountType, "email", req.Email)
	s.events.Append(eventlog.LevelStripe, "Creating Express account", map[string]any{
		"accountType": accountType,
		"email":       req.Email,
	})

	account, err := s.platform.CreateAccount(ctx, entity.AccountParams{
		Type:         accountType,
		Email:        req.Email,
		BusinessName: req.BusinessName,
	})
	if err != nil {
		return s.provisionFallback(ctx, fmt.Errorf("create account: %w", err)), nil
	}

	base := strings.TrimRight(req.BaseURL, "/")
	if base == "" {
		base = strings.TrimRight(s.opts.BaseURL, "/")
	}
	refreshURL := base + "/onboarding?refresh=true"
	returnURL := base + "/onboarding/return?account_id=" + url.QueryEscape(account.ID)

	link, err := s.platform.CreateAccountLink(ctx, entity.AccountLinkParams{
		AccountID:  account.ID,
		RefreshURL: refreshURL,
		ReturnURL:  returnURL,
	})
	if err != nil {
		return s.provisionFallback(ctx, fmt.Errorf("create account link for %s: %w", account.ID, err)), nil
	}
	s.events.Append(eventlog.LevelStripe, "Created account link", map[string]any{
		"accountId":  account.ID,
		"refreshUrl": refreshURL,
		"returnUrl":  returnURL,
	})

	if err := s.registry.Put(ctx, accountType, account.ID); err != nil {
		slog.WarnContext(ctx, "failed to remember demo account", "account_type", accountType, "account_id", account.ID, "error", err)
	}

	slog.InfoContext(ctx, "express account created", "account_id", account.ID)
	s.events.Append(eventlog.LevelSuccess, "Express account created", map[string]any{"accountId": account.ID})

	return &ProvisionResult{AccountID: account.ID, OnboardingURL: link}, nil
}

func (s *Service) provisionFallback(ctx context.Context, err error) *ProvisionResult {
	slog.ErrorContext(ctx, "express account creation failed, using fallback", "error", err)
	s.events.Append(eventlog.LevelError, "Express account creation failed", nil)
	return &ProvisionResult{
		AccountID:     FallbackAccountID,
		OnboardingURL: FallbackOnboardingURL,
		Fallback:      true,
		Message:       FallbackMessage,
	}
}

// CheckAccount retrieves the onboarding flags of accountID. Any upstream
// failure yields an all-true fallback so readiness gates never block the demo.
func (s *Service) CheckAccount(ctx context.Context, accountID string) (*AccountStatus, error) {
	if accountID == "" {
		return nil, fmt.Errorf("%w: accountId is required", entity.ErrInvalidRequest)
	}

	slog.InfoContext(ctx, "checking account status", "account_id", accountID)
	s.events.Append(eventlog.LevelStripe, "Checking account status", map[string]any{"accountId": accountID})

	account, err := s.platform.RetrieveAccount(ctx, accountID)
	if err != nil {
		slog.ErrorContext(ctx, "account status check failed, using fallback", "account_id", accountID, "error", err)
		s.events.Append(eventlog.LevelError, "Account status check failed", nil)
		return &AccountStatus{
			ConnectedAccount: entity.ConnectedAccount{
				ID:               FallbackAccountID,
				PayoutsEnabled:   true,
				ChargesEnabled:   true,
				DetailsSubmitted: true,
			},
			Fallback: true,
			Message:  FallbackMessage,
		}, nil
	}

	s.events.Append(eventlog.LevelSuccess, "Account status retrieved", map[string]any{"accountId": account.ID})
	return &AccountStatus{ConnectedAccount: *account}, nil
}

// CreateLoginLink returns a single-use Express Dashboard URL. Unlike the other
// operations it has no fallback: incomplete onboarding is reported as
// entity.ErrAccountNotOnboarded and anything else as ErrLoginLinkUnavailable.
func (s *Service) CreateLoginLink(ctx context.Context, accountID string) (string, error) {
	if accountID == "" {
		return "", fmt.Errorf("%w: accountId is required", entity.ErrInvalidRequest)
	}

	link, err := s.platform.CreateLoginLink(ctx, accountID)
	if err != nil {
		slog.ErrorContext(ctx, "create express login link failed", "account_id", accountID, "error", err)
		if errors.Is(err, entity.ErrAccountNotOnboarded) {
			return "", fmt.Errorf("login link for %s: %w", accountID, entity.ErrAccountNotOnboarded)
		}
		return "", fmt.Errorf("login link for %s: %w", accountID, ErrLoginLinkUnavailable)
	}
	return link, nil
}

// DemoAccounts returns the accounts transfers are sent to by default.
func (s *Service) DemoAccounts(ctx context.Context) (entity.DemoAccounts, error) {
	return s.registry.Get(ctx)
}

// SetDemoAccounts records the accounts for both roles; empty ids are skipped.
func (s *Service) SetDemoAccounts(ctx context.Context, accounts entity.DemoAccounts) (entity.DemoAccounts, error) {
	if accounts.RestaurantAccountID == "" && accounts.CourierAccountID == "" {
		return entity.DemoAccounts{}, fmt.Errorf("%w: at least one account id is required", entity.ErrInvalidRequest)
	}
	if accounts.RestaurantAccountID != "" {
		if err := s.registry.Put(ctx, entity.AccountTypeRestaurant, accounts.RestaurantAccountID); err != nil {
			return entity.DemoAccounts{}, err
		}
	}
	if accounts.CourierAccountID != "" {
		if err := s.registry.Put(ctx, entity.AccountTypeCourier, accounts.CourierAccountID); err != nil {
			return entity.DemoAccounts{}, err
		}
	}
	return s.registry.Get(ctx)
}
