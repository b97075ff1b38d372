package models

import "time"

// User represents an account entity used for authentication and storage
// accounting. Sensitive fields must never be exposed outside trusted
// boundaries.
type User struct {
	// ID is the stable opaque identifier of the account (a UUID string).
	// Assigned at registration and never changed afterwards.
	ID string `json:"-"`

	// Email is the unique, lower-cased address the account is registered
	// under. Used as the login identifier.
	Email string `json:"email"`

	// PasswordHash is the bcrypt digest of the account password.
	// A nil value means the account is mid password reset and cannot
	// authenticate with a password until a new one is set.
	PasswordHash *string `json:"-"`

	// Verified reports whether the account's email address has been
	// proven via a verification code.
	Verified bool `json:"verified"`

	// CreatedAt is the timestamp when the account was created.
	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the name of the database table
// associated with the User model.
func (u User) TableName() string {
	return "users"
}
