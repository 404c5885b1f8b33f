package types

import "time"

type RequestDocument struct {
	ID            string    `db:"id" json:"id"`
	RequestID     string    `db:"request_id" json:"request_id"`
	FileName      string    `db:"file_name" json:"file_name"`
	FileSizeBytes int64     `db:"file_size_bytes" json:"file_size_bytes"`
	MimeType      string    `db:"mime_type" json:"mime_type"`
	StorageKey    string    `db:"storage_key" json:"storage_key"`
	IsVerified    bool      `db:"is_verified" json:"is_verified"`
	VerifiedBy    *string   `db:"verified_by" json:"verified_by,omitempty"`
	UploadedAt    time.Time `db:"uploaded_at" json:"uploaded_at"`
}
