package types

import "time"

type CauseStatus string

const (
	CauseStatusActive    CauseStatus = "active"
	CauseStatusCompleted CauseStatus = "completed"
	CauseStatusCancelled CauseStatus = "cancelled"
)

func (s CauseStatus) Valid() bool {
	switch s {
	case CauseStatusActive, CauseStatusCompleted, CauseStatusCancelled:
		return true
	}
	return false
}

type Cause struct {
	ID                string      `db:"id" json:"id"`
	Title             string      `db:"title" json:"title"`
	Description       string      `db:"description" json:"description"`
	GoalAmountCents   int64       `db:"goal_amount_cents" json:"goal_amount_cents"`
	RaisedAmountCents int64       `db:"raised_amount_cents" json:"raised_amount_cents"`
	StartDate         time.Time   `db:"start_date" json:"start_date"`
	EndDate           *time.Time  `db:"end_date" json:"end_date,omitempty"`
	Status            CauseStatus `db:"status" json:"status"`
	ImageURL          *string     `db:"image_url" json:"image_url,omitempty"`
	CreatedBy         string      `db:"created_by" json:"created_by"`
	CreatedAt         time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time   `db:"updated_at" json:"updated_at"`
}

// CauseUpdate carries the editable cause fields. Status transitions are
// explicit, never computed from raised vs. goal.
type CauseUpdate struct {
	Title           *string      `json:"title"`
	Description     *string      `json:"description"`
	GoalAmountCents *int64       `json:"goal_amount_cents"`
	EndDate         *time.Time   `json:"end_date"`
	Status          *CauseStatus `json:"status"`
	ImageURL        *string      `json:"image_url"`
}
