// SPDX-License-Identifier: Apache-2.0

package service

import "errors"

var (
	// ErrInvalidDataProvided is returned when an operation receives
	// malformed or missing input. Fails fast, no side effects.
	ErrInvalidDataProvided = errors.New("invalid data provided")

	// ErrEmailTaken is returned when registering or changing to an email
	// address another account already owns.
	ErrEmailTaken = errors.New("email already in use")

	// ErrAccountNotFound is returned when no account owns the given email.
	ErrAccountNotFound = errors.New("account not found")

	// ErrInvalidCredentials is returned on a password mismatch.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidToken is returned when a presented session token matches
	// no active session.
	ErrInvalidToken = errors.New("invalid session token")

	// ErrInvalidCode is returned when an exchange or verification code is
	// absent, expired, or already consumed.
	ErrInvalidCode = errors.New("invalid code")

	// ErrVerificationRequired signals that the account exists and the
	// password matched, but the email address is not verified yet. Carried
	// by [StateError] with the account's ID.
	ErrVerificationRequired = errors.New("email verification required")

	// ErrPasswordResetRequired signals that the account's password hash is
	// null: the user must complete a reset before authenticating with a
	// password. Carried by [StateError] with the account's ID.
	ErrPasswordResetRequired = errors.New("password reset required")

	// ErrResetInProgress is returned when an operation that needs a live
	// password is attempted while a reset is pending.
	ErrResetInProgress = errors.New("password reset in progress")
)

// StateError wraps ErrVerificationRequired or ErrPasswordResetRequired
// together with the account's ID, so the boundary can tell the caller
// which account to continue the flow for. Matchable with errors.Is
// against the wrapped sentinel.
type StateError struct {
	UserID string
	State  error
}

func (e *StateError) Error() string {
	return e.State.Error()
}

func (e *StateError) Unwrap() error {
	return e.State
}
