package models

import "time"

// Verification is a pending proof-of-email-ownership challenge. It is
// created on registration (when verification is enabled) and again on every
// email change. At most one record exists per user; Code is the short
// numeric string mailed to the address being verified.
type Verification struct {
	UserID string `json:"-"`

	// Code is a human-typable numeric code compared by exact string match.
	Code string `json:"-"`

	// Timestamp records when the code was created or last re-sent. Resend
	// throttling is measured against this value.
	Timestamp time.Time `json:"-"`
}

// TableName returns the name of the database table
// associated with the Verification model.
func (v Verification) TableName() string {
	return "verifications"
}
