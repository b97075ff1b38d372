package store

import "errors"

// Sentinel errors returned by repository methods to signal well-known failure
// conditions. Callers should use [errors.Is] to match against these values.
var (
	// ErrEmailAlreadyExists is returned when an attempt to register a new
	// account fails because a user with the same email already exists.
	ErrEmailAlreadyExists = errors.New("email already in use")

	// ErrUserNotFound is returned when a query expected to match a user
	// record produces an empty result set.
	ErrUserNotFound = errors.New("no user was found")

	// ErrTokenNotFound is returned when a session token lookup matches no
	// row, either because the token never existed or was rotated away.
	ErrTokenNotFound = errors.New("no session token was found")

	// ErrHandoffNotFound is returned when no escrowed token exists for a
	// user whose email-change verification just completed.
	ErrHandoffNotFound = errors.New("no handoff token was found")

	// ErrVerificationNotFound is returned when no pending verification
	// record matches the given user (and code, where one is supplied).
	ErrVerificationNotFound = errors.New("no verification record was found")
)

// Sentinel errors returned by the sandboxed file store.
var (
	// ErrPathEscape is returned whenever a requested path resolves outside
	// the caller's sandbox root. The reason for the escape is deliberately
	// not distinguished, to avoid leaking filesystem structure.
	ErrPathEscape = errors.New("path resolves outside the sandbox")

	// ErrQuotaExceeded is returned when a write would push the account's
	// total usage across both categories past the configured quota.
	ErrQuotaExceeded = errors.New("storage quota exceeded")

	// ErrFileNotFound is returned when a requested game directory or file
	// does not exist inside the sandbox.
	ErrFileNotFound = errors.New("file or game was not found")

	// ErrGameExists is returned by rename when the destination game
	// directory already exists.
	ErrGameExists = errors.New("game already exists")
)

// Low-level database operation errors. These are returned (or wrapped) by
// repository methods when a SQL-level operation fails before any domain logic
// can be applied.
var (
	// ErrBuildingSQLQuery is returned when constructing a parameterised SQL
	// query fails (e.g. invalid argument count or unsupported type).
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when executing a SELECT or similar
	// read-only query against the database fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrExecutingStatement is returned when executing a DML statement
	// (INSERT, UPDATE, DELETE) fails.
	ErrExecutingStatement = errors.New("failed to execute statement")

	// ErrScanningRow is returned when scanning column values from a single
	// result row into a destination struct fails.
	ErrScanningRow = errors.New("failed to scan row")

	// ErrBeginningTransaction is returned when the database driver cannot
	// start a new transaction.
	ErrBeginningTransaction = errors.New("failed to begin transaction")

	// ErrCommitingTransaction is returned when committing an open transaction
	// fails. The transaction is considered rolled back at this point.
	ErrCommitingTransaction = errors.New("failed to commit transaction")
)
