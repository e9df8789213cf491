package entity

// RecipientType tags a transfer with the role receiving it.
type RecipientType string

const (
	RecipientRestaurant RecipientType = "restaurant"
	RecipientCourier    RecipientType = "courier"
)

// Transfer moves funds from the platform balance to a connected account.
type Transfer struct {
	ID                   string
	DestinationAccountID string
	Amount               int64
	GroupKey             string
	SourceTransactionID  *string
	RecipientType        RecipientType
}

// TransferParams describes a transfer to create upstream.
// SourceTransaction is nil when no funding charge was resolved and must then
// be left out of the upstream request entirely.
type TransferParams struct {
	Amount            int64
	Currency          string
	Destination       string
	TransferGroup     string
	SourceTransaction *string
	Metadata          map[string]string
	IdempotencyKey    string
}
