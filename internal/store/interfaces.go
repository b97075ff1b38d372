package store

import (
	"context"
	"time"

	"github.com/savekeep/savekeep/models"
)

// UserRepository is the data-access layer for account records.
type UserRepository interface {
	CreateUser(ctx context.Context, user models.User) (models.User, error)
	FindUserByID(ctx context.Context, userID string) (models.User, error)
	FindUserByEmail(ctx context.Context, email string) (models.User, error)

	// UpdatePassword stores a new bcrypt digest, or nulls the stored hash
	// when passwordHash is nil (forcing the password-reset-pending state).
	UpdatePassword(ctx context.Context, userID string, passwordHash *string) error

	// SetVerified flips the verified flag of the account.
	SetVerified(ctx context.Context, userID string, verified bool) error

	// UpdateEmail moves the account to a new address and clears the
	// verified flag in the same statement.
	UpdateEmail(ctx context.Context, userID string, email string) error

	DeleteUser(ctx context.Context, userID string) error
}

// TokenRepository manages session tokens and their escrowed counterparts.
// Session token issuance is a single conditional upsert keyed by userID, so
// the at-most-one-row-per-user invariant holds even under concurrent
// rotations.
type TokenRepository interface {
	// UpsertToken replaces whatever session token the user held with the
	// given one.
	UpsertToken(ctx context.Context, token models.SessionToken) error

	FindTokenByUserID(ctx context.Context, userID string) (models.SessionToken, error)
	FindUserIDByToken(ctx context.Context, token string) (string, error)
	DeleteTokenByUserID(ctx context.Context, userID string) error

	// CreateHandoff escrows a token for the duration of an email-change
	// verification, replacing any previous escrow for the user.
	CreateHandoff(ctx context.Context, handoff models.HandoffToken) error
	FindHandoffByUserID(ctx context.Context, userID string) (models.HandoffToken, error)
	DeleteHandoffByUserID(ctx context.Context, userID string) error

	// PromoteHandoff atomically turns the user's escrowed token back into
	// the active session token and removes the escrow row. Returns
	// ErrHandoffNotFound when no escrow exists.
	PromoteHandoff(ctx context.Context, userID string) (models.SessionToken, error)

	// DeleteHandoffsOlderThan prunes abandoned escrow rows. Returns the
	// number of rows removed.
	DeleteHandoffsOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// VerificationRepository manages pending email-ownership challenges,
// at most one per user.
type VerificationRepository interface {
	// UpsertVerification installs a fresh code for the user, replacing any
	// pending one.
	UpsertVerification(ctx context.Context, verification models.Verification) error

	FindByUserID(ctx context.Context, userID string) (models.Verification, error)

	// FindByUserIDAndCode matches a challenge by exact code string.
	FindByUserIDAndCode(ctx context.Context, userID, code string) (models.Verification, error)

	// Touch refreshes the record's timestamp after a resend.
	Touch(ctx context.Context, userID string, at time.Time) error

	DeleteByUserID(ctx context.Context, userID string) error

	// DeleteOlderThan prunes abandoned challenges. Returns the number of
	// rows removed.
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// FileStore is the quota-enforced, path-sandboxed per-user file tree.
// Every operation resolves paths strictly beneath
// <root>/<category>/<userID>/ and fails with ErrPathEscape otherwise.
type FileStore interface {
	// Upload writes data to relativePath inside the user's category tree,
	// creating intermediate directories. Fails with ErrQuotaExceeded when
	// the write would push total usage across both categories past quota.
	Upload(ctx context.Context, userID string, category models.Category, relativePath string, data []byte) error

	// ListGames returns the top-level game directories of a category,
	// hidden entries excluded. When annotate is true each entry carries
	// its last-modified time and recursive size, which requires a
	// directory scan per entry. ErrFileNotFound when the user's tree does
	// not exist yet.
	ListGames(ctx context.Context, userID string, category models.Category, annotate bool) ([]models.GameInfo, error)

	// ListGameFiles returns the immediate entries of one game directory,
	// hidden entries excluded. ErrFileNotFound when the resolved path is
	// missing or not a directory.
	ListGameFiles(ctx context.Context, userID string, category models.Category, game string) ([]string, error)

	// DeleteGame recursively removes a game directory.
	DeleteGame(ctx context.Context, userID string, category models.Category, game string) error

	// RenameGame moves a game directory to a new name within the sandbox.
	RenameGame(ctx context.Context, userID string, category models.Category, game, newGame string) error

	// Open resolves path for download: a file yields a byte stream, a
	// directory yields a lazy recursive enumeration of relative paths.
	Open(ctx context.Context, userID string, category models.Category, path string) (models.Download, error)

	// Usage returns the total recursive byte usage of the user across both
	// categories.
	Usage(ctx context.Context, userID string) (int64, error)

	// DeleteUserData removes both category trees of the user.
	DeleteUserData(ctx context.Context, userID string) error
}
