package entity

// PaymentMethodMode selects how the intent chooses payment methods.
type PaymentMethodMode string

const (
	// PaymentMethodCard restricts the intent to cards.
	PaymentMethodCard PaymentMethodMode = "card"
	// PaymentMethodAutomatic lets the platform pick eligible methods.
	PaymentMethodAutomatic PaymentMethodMode = "automatic"
)

// ParsePaymentMethodMode defaults an empty mode to card.
func ParsePaymentMethodMode(s string) (PaymentMethodMode, error) {
	switch m := PaymentMethodMode(s); m {
	case "":
		return PaymentMethodCard, nil
	case PaymentMethodCard, PaymentMethodAutomatic:
		return m, nil
	default:
		return "", ErrInvalidRequest
	}
}

// PaymentIntentStatusSucceeded is the only intent status that guarantees a
// funding charge exists.
const PaymentIntentStatusSucceeded = "succeeded"

// PaymentIntent is the subset of the upstream intent this system reads.
type PaymentIntent struct {
	ID           string
	ClientSecret string
	Status       string
	Amount       int64
	// LatestCharge is nil when no charge exists yet.
	LatestCharge FundingRef
}

// PaymentIntentParams describes an intent to create upstream.
type PaymentIntentParams struct {
	Amount   int64
	Currency string
	Mode     PaymentMethodMode
	OrderID  string
}

// FundingRef is the charge an intent produced, as returned by the platform:
// either a bare identifier or an expanded charge record.
type FundingRef interface {
	fundingRef()
}

// ChargeIdentifier is an unexpanded charge reference.
type ChargeIdentifier string

func (ChargeIdentifier) fundingRef() {}

// ExpandedCharge is a charge record returned inline with the intent.
type ExpandedCharge struct {
	ID     string
	Amount int64
	Status string
}

func (ExpandedCharge) fundingRef() {}

// ResolveChargeID reduces a funding reference to a charge id. It returns nil
// when the intent has no charge yet.
func ResolveChargeID(ref FundingRef) *string {
	var id string
	switch r := ref.(type) {
	case ChargeIdentifier:
		id = string(r)
	case ExpandedCharge:
		id = r.ID
	case *ExpandedCharge:
		if r == nil {
			return nil
		}
		id = r.ID
	default:
		return nil
	}
	if id == "" {
		return nil
	}
	return &id
}
