package types

import "time"

type Message struct {
	ID           string    `db:"id" json:"id"`
	ConnectionID string    `db:"connection_id" json:"connection_id"`
	SenderID     string    `db:"sender_id" json:"sender_id"`
	Content      string    `db:"content" json:"content"`
	IsRead       bool      `db:"is_read" json:"is_read"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}
