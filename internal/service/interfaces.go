// SPDX-License-Identifier: Apache-2.0

package service

import (
	"context"

	"github.com/savekeep/savekeep/models"
)

// AccountService drives the account lifecycle: registration, login,
// email verification, password recovery, email change, deletion, and
// session resolution.
type AccountService interface {
	// Register creates an account. When email verification is disabled it
	// returns an immediately usable session token; otherwise token is
	// empty and a verification code has been emailed.
	Register(ctx context.Context, email, password string) (userID, token string, err error)

	// Login authenticates by password and returns the session token,
	// rotating it when rotate is set. May return a [StateError] wrapping
	// ErrVerificationRequired or ErrPasswordResetRequired.
	Login(ctx context.Context, email, password string, rotate bool) (string, error)

	// ConsumeExchangeCode redeems a single-use code for the owning
	// account's session token. Reset-kind codes additionally null the
	// stored password hash before returning.
	ConsumeExchangeCode(ctx context.Context, code string) (string, error)

	// RequestExchangeCode mints a short session-handoff code for the
	// session's owner, replacing any live one. With clear set it only
	// cancels and returns "".
	RequestExchangeCode(ctx context.Context, token string, clear bool) (string, error)

	// CheckExchangeCode reports whether a code of either kind is live,
	// without consuming it.
	CheckExchangeCode(ctx context.Context, code string) bool

	// ChangePassword sets a new password. The old password is required
	// unless the stored hash is null (reset flow).
	ChangePassword(ctx context.Context, token, oldPassword, newPassword string) error

	// ForgotPassword mints a reset code for the account and emails it.
	// No-op when a reset code is already live.
	ForgotPassword(ctx context.Context, email string) error

	// VerifyEmail redeems a verification code. Returns the session token:
	// an escrowed one promoted back to active when the verification
	// completed an email change, a fresh one otherwise.
	VerifyEmail(ctx context.Context, userID, code string) (string, error)

	// ChangeEmail moves the account to a new address, escrows the current
	// session token, and emails a verification code to the new address.
	ChangeEmail(ctx context.Context, token, password, newEmail string) error

	// DeleteAccount erases the account's rows and both file trees.
	DeleteAccount(ctx context.Context, token, password string) error

	// ResolveSession maps a session token to its owning user ID, or
	// ErrInvalidToken.
	ResolveSession(ctx context.Context, token string) (string, error)

	// AccountInfo returns the account record and its current storage
	// usage, for the status endpoint.
	AccountInfo(ctx context.Context, userID string) (models.User, int64, error)
}

// FileService validates and executes save-file operations against the
// sandboxed file store on behalf of an authenticated user.
type FileService interface {
	Upload(ctx context.Context, userID string, category models.Category, filename, base64Data string) error
	Games(ctx context.Context, userID string, category models.Category, annotate bool) ([]models.GameInfo, error)
	GameFiles(ctx context.Context, userID string, category models.Category, game string) ([]string, error)
	Delete(ctx context.Context, userID string, category models.Category, game string) error
	Rename(ctx context.Context, userID string, category models.Category, game, newGame string) error
	Download(ctx context.Context, userID string, category models.Category, path string) (models.Download, error)
}
