package types

import "time"

type ConnectionStatus string

const (
	ConnectionStatusPending   ConnectionStatus = "pending"
	ConnectionStatusActive    ConnectionStatus = "active"
	ConnectionStatusCompleted ConnectionStatus = "completed"
	ConnectionStatusCancelled ConnectionStatus = "cancelled"
)

func (s ConnectionStatus) Valid() bool {
	switch s {
	case ConnectionStatusPending, ConnectionStatusActive, ConnectionStatusCompleted, ConnectionStatusCancelled:
		return true
	}
	return false
}

// Connection pairs a donor with an approved request. Ratings and
// feedback are bidirectional and only populated after completion.
type Connection struct {
	ID               string           `db:"id" json:"id"`
	RequestID        string           `db:"request_id" json:"request_id"`
	DonorID          string           `db:"donor_id" json:"donor_id"`
	Status           ConnectionStatus `db:"status" json:"status"`
	DonorRating      *int             `db:"donor_rating" json:"donor_rating,omitempty"`
	ReceiverRating   *int             `db:"receiver_rating" json:"receiver_rating,omitempty"`
	DonorFeedback    *string          `db:"donor_feedback" json:"donor_feedback,omitempty"`
	ReceiverFeedback *string          `db:"receiver_feedback" json:"receiver_feedback,omitempty"`
	CreatedAt        time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time        `db:"updated_at" json:"updated_at"`
}

type ConnectionUpdate struct {
	Status           *ConnectionStatus `json:"status"`
	DonorRating      *int              `json:"donor_rating"`
	ReceiverRating   *int              `json:"receiver_rating"`
	DonorFeedback    *string           `json:"donor_feedback"`
	ReceiverFeedback *string           `json:"receiver_feedback"`
}
