package types

import "time"

type Role string

const (
	RoleDonor    Role = "donor"
	RoleReceiver Role = "receiver"
	RoleAdmin    Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleDonor, RoleReceiver, RoleAdmin:
		return true
	}
	return false
}

type User struct {
	ID                string     `db:"id" json:"id"`
	Name              string     `db:"name" json:"name"`
	Email             string     `db:"email" json:"email"`
	PasswordHash      string     `db:"password_hash" json:"-"`
	Role              Role       `db:"role" json:"role"`
	Phone             *string    `db:"phone" json:"phone,omitempty"`
	Location          *string    `db:"location" json:"location,omitempty"`
	Bio               *string    `db:"bio" json:"bio,omitempty"`
	IsVerified        bool       `db:"is_verified" json:"is_verified"`
	VerificationToken *string    `db:"verification_token" json:"-"`
	ResetToken        *string    `db:"reset_token" json:"-"`
	ResetTokenExpires *time.Time `db:"reset_token_expires" json:"-"`
	CreatedAt         time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time  `db:"updated_at" json:"updated_at"`
}

// ProfileUpdate carries the editable profile fields. Only non-nil
// fields are written.
type ProfileUpdate struct {
	Name     *string `json:"name"`
	Phone    *string `json:"phone"`
	Location *string `json:"location"`
	Bio      *string `json:"bio"`
}
