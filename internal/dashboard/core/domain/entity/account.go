package entity

import "fmt"

// AccountType is the marketplace role of a connected account.
type AccountType string

const (
	AccountTypeRestaurant AccountType = "restaurant"
	AccountTypeCourier    AccountType = "courier"
)

// ParseAccountType validates a role received from a caller.
func ParseAccountType(s string) (AccountType, error) {
	switch t := AccountType(s); t {
	case AccountTypeRestaurant, AccountTypeCourier:
		return t, nil
	default:
		return "", fmt.Errorf("%w: unknown account type %q", ErrInvalidRequest, s)
	}
}

// BusinessType is the platform classification requested for a role:
// restaurants onboard as companies, couriers as individuals.
func (t AccountType) BusinessType() string {
	if t == AccountTypeRestaurant {
		return "company"
	}
	return "individual"
}

// ConnectedAccount is a sub-account on the payments platform. Only its id and
// onboarding flags are of interest here.
type ConnectedAccount struct {
	ID               string
	Type             AccountType
	PayoutsEnabled   bool
	ChargesEnabled   bool
	DetailsSubmitted bool
}

// DashboardLinkAvailable gates the role-specific dashboard link.
func (a ConnectedAccount) DashboardLinkAvailable() bool {
	return a.DetailsSubmitted
}

// Active gates the "Active" badge. It is stricter than DashboardLinkAvailable.
func (a ConnectedAccount) Active() bool {
	return a.DetailsSubmitted && a.ChargesEnabled && a.PayoutsEnabled
}

// AccountParams describes an account to create upstream.
type AccountParams struct {
	Type         AccountType
	Email        string
	BusinessName string
}

// AccountLinkParams describes an onboarding link to create upstream.
type AccountLinkParams struct {
	AccountID  string
	RefreshURL string
	ReturnURL  string
}

// DemoAccounts maps each role to the connected account the demo pays out to.
type DemoAccounts struct {
	RestaurantAccountID string `json:"restaurantAccountId"`
	CourierAccountID    string `json:"courierAccountId"`
}
