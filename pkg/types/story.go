package types

import "time"

type SuccessStory struct {
	ID           string     `db:"id" json:"id"`
	Title        string     `db:"title" json:"title"`
	Content      string     `db:"content" json:"content"`
	ConnectionID *string    `db:"connection_id" json:"connection_id,omitempty"`
	CauseID      *string    `db:"cause_id" json:"cause_id,omitempty"`
	IsFeatured   bool       `db:"is_featured" json:"is_featured"`
	PublishedAt  *time.Time `db:"published_at" json:"published_at,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}

type StoryUpdate struct {
	Title       *string    `json:"title"`
	Content     *string    `json:"content"`
	IsFeatured  *bool      `json:"is_featured"`
	PublishedAt *time.Time `json:"published_at"`
}
