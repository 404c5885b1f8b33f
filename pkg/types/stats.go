package types

import "time"

// Statistics is the denormalized platform-wide snapshot row. A single
// row with id=1 is kept and rewritten on refresh.
type Statistics struct {
	ID                int       `db:"id" json:"-"`
	TotalUsers        int64     `db:"total_users" json:"total_users"`
	TotalDonors       int64     `db:"total_donors" json:"total_donors"`
	TotalReceivers    int64     `db:"total_receivers" json:"total_receivers"`
	ActiveCauses      int64     `db:"active_causes" json:"active_causes"`
	FulfilledRequests int64     `db:"fulfilled_requests" json:"fulfilled_requests"`
	TotalDonatedCents int64     `db:"total_donated_cents" json:"total_donated_cents"`
	TotalConnections  int64     `db:"total_connections" json:"total_connections"`
	RefreshedAt       time.Time `db:"refreshed_at" json:"refreshed_at"`
}
