package types

import "time"

type DonationStatus string

const (
	DonationStatusPending   DonationStatus = "pending"
	DonationStatusCompleted DonationStatus = "completed"
	DonationStatusRefunded  DonationStatus = "refunded"
	DonationStatusFailed    DonationStatus = "failed"
)

func (s DonationStatus) Valid() bool {
	switch s {
	case DonationStatusPending, DonationStatusCompleted, DonationStatusRefunded, DonationStatusFailed:
		return true
	}
	return false
}

// CauseDonation is a contribution to a cause. UserID is nil for
// unauthenticated donors; payment_method and transaction_id are opaque
// strings recorded as-is.
type CauseDonation struct {
	ID            string         `db:"id" json:"id"`
	CauseID       string         `db:"cause_id" json:"cause_id"`
	UserID        *string        `db:"user_id" json:"user_id,omitempty"`
	AmountCents   int64          `db:"amount_cents" json:"amount_cents"`
	DonorName     *string        `db:"donor_name" json:"donor_name,omitempty"`
	IsAnonymous   bool           `db:"is_anonymous" json:"is_anonymous"`
	PaymentMethod *string        `db:"payment_method" json:"payment_method,omitempty"`
	TransactionID *string        `db:"transaction_id" json:"transaction_id,omitempty"`
	Status        DonationStatus `db:"status" json:"status"`
	CreatedAt     time.Time      `db:"created_at" json:"created_at"`
}
