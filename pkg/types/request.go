package types

import "time"

type RequestStatus string

const (
	RequestStatusPending   RequestStatus = "pending"
	RequestStatusApproved  RequestStatus = "approved"
	RequestStatusRejected  RequestStatus = "rejected"
	RequestStatusFulfilled RequestStatus = "fulfilled"
)

func (s RequestStatus) Valid() bool {
	switch s {
	case RequestStatusPending, RequestStatusApproved, RequestStatusRejected, RequestStatusFulfilled:
		return true
	}
	return false
}

type Urgency string

const (
	UrgencyLow    Urgency = "low"
	UrgencyMedium Urgency = "medium"
	UrgencyHigh   Urgency = "high"
)

func (u Urgency) Valid() bool {
	switch u {
	case UrgencyLow, UrgencyMedium, UrgencyHigh:
		return true
	}
	return false
}

type Request struct {
	ID                string        `db:"id" json:"id"`
	UserID            string        `db:"user_id" json:"user_id"`
	Title             string        `db:"title" json:"title"`
	Description       string        `db:"description" json:"description"`
	Category          string        `db:"category" json:"category"`
	Location          string        `db:"location" json:"location"`
	Urgency           Urgency       `db:"urgency" json:"urgency"`
	AmountNeededCents int64         `db:"amount_needed_cents" json:"amount_needed_cents"`
	Status            RequestStatus `db:"status" json:"status"`
	AdminNote         *string       `db:"admin_note" json:"admin_note,omitempty"`
	CreatedAt         time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time     `db:"updated_at" json:"updated_at"`
}

// RequestFilter holds the exact-match filters accepted by the public
// request listing. Filters are applied conjunctively.
type RequestFilter struct {
	Category string `form:"category"`
	Location string `form:"location"`
	Urgency  string `form:"urgency"`
}

// RequestUpdate carries the editable request fields. Status is only
// honored for admin callers.
type RequestUpdate struct {
	Title             *string        `json:"title"`
	Description       *string        `json:"description"`
	Category          *string        `json:"category"`
	Location          *string        `json:"location"`
	Urgency           *Urgency       `json:"urgency"`
	AmountNeededCents *int64         `json:"amount_needed_cents"`
	Status            *RequestStatus `json:"status"`
	AdminNote         *string        `json:"admin_note"`
}
