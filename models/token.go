package models

import "time"

// SessionToken is a long-lived opaque credential granting API access as a
// given user. The store guarantees at most one active row per user: issuing
// a new token replaces whatever was there before.
type SessionToken struct {
	// Token is the opaque, unguessable credential string (a UUID).
	Token string `json:"token"`

	// UserID is the owner of the token.
	UserID string `json:"-"`

	// IssuedAt is the time the token was created or last rotated.
	IssuedAt time.Time `json:"-"`
}

// TableName returns the name of the database table
// associated with the SessionToken model.
func (t SessionToken) TableName() string {
	return "tokens"
}

// HandoffToken is a session token held in escrow while an email change is
// pending verification. It is promoted back to an active SessionToken when
// the new address is verified, so the caller's session survives the change.
// At most one row per user; mutually exclusive with an active session token
// during the pending window.
type HandoffToken struct {
	Token    string    `json:"-"`
	UserID   string    `json:"-"`
	IssuedAt time.Time `json:"-"`
}

// TableName returns the name of the database table
// associated with the HandoffToken model.
func (t HandoffToken) TableName() string {
	return "handoff_tokens"
}
