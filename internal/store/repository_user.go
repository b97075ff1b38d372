// SPDX-License-Identifier: Apache-2.0

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/savekeep/savekeep/internal/logger"
	"github.com/savekeep/savekeep/models"
)

// userRepository is the SQL-backed implementation of [UserRepository].
// It handles account creation and lookup against the "users" table.
//
// All methods obtain a context-scoped logger via [logger.FromContext] for
// structured, request-level tracing of database interactions.
type userRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewUserRepository constructs a [UserRepository] backed by the provided
// database connection and logger.
func NewUserRepository(db *DB, logger *logger.Logger) UserRepository {
	logger.Debug().Msg("creating user repository")
	return &userRepository{
		db:     db,
		logger: logger,
	}
}

// CreateUser persists a new account record.
//
// Error handling:
//   - unique violation on the email column → [ErrEmailAlreadyExists].
//   - any other driver-level error → wrapped as "unexpected DB error".
func (r *userRepository) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	log := logger.FromContext(ctx)

	query, args, err := r.db.builder.
		Insert(user.TableName()).
		Columns("user_id", "email", "password_hash", "verified", "created_at").
		Values(user.ID, user.Email, user.PasswordHash, user.Verified, user.CreatedAt).
		ToSql()
	if err != nil {
		log.Err(err).Str("func", "*userRepository.CreateUser").Msg("error building query")
		return models.User{}, ErrBuildingSQLQuery
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return models.User{}, ErrEmailAlreadyExists
		}

		log.Err(err).Str("func", "*userRepository.CreateUser").Msg("error inserting user")
		return models.User{}, fmt.Errorf("unexpected DB error: %w", err)
	}

	return user, nil
}

// FindUserByID retrieves the account identified by userID, or
// [ErrUserNotFound] when it does not exist.
func (r *userRepository) FindUserByID(ctx context.Context, userID string) (models.User, error) {
	return r.findUser(ctx, "user_id", userID)
}

// FindUserByEmail retrieves the account owning the given address, or
// [ErrUserNotFound] when it does not exist.
func (r *userRepository) FindUserByEmail(ctx context.Context, email string) (models.User, error) {
	return r.findUser(ctx, "email", email)
}

func (r *userRepository) findUser(ctx context.Context, column string, value string) (models.User, error) {
	log := logger.FromContext(ctx)

	var user models.User
	query, args, err := r.db.builder.
		Select("user_id", "email", "password_hash", "verified", "created_at").
		From(user.TableName()).
		Where(fmt.Sprintf("%s = ?", column), value).
		ToSql()
	if err != nil {
		log.Err(err).Str("func", "*userRepository.findUser").Msg("error building query")
		return models.User{}, ErrBuildingSQLQuery
	}

	row := r.db.QueryRowContext(ctx, query, args...)
	if err := row.Scan(&user.ID, &user.Email, &user.PasswordHash, &user.Verified, &user.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, ErrUserNotFound
		}

		log.Err(err).Str("func", "*userRepository.findUser").Msg("error: scanning error")
		return models.User{}, ErrScanningRow
	}

	return user, nil
}

// UpdatePassword stores the given bcrypt digest for the account, or nulls
// the stored digest when passwordHash is nil.
func (r *userRepository) UpdatePassword(ctx context.Context, userID string, passwordHash *string) error {
	return r.updateUser(ctx, userID, "password_hash", passwordHash)
}

// SetVerified flips the account's verified flag.
func (r *userRepository) SetVerified(ctx context.Context, userID string, verified bool) error {
	return r.updateUser(ctx, userID, "verified", verified)
}

// UpdateEmail moves the account to a new address. The verified flag is
// cleared in the same statement so the account never holds an unverified
// address marked verified.
func (r *userRepository) UpdateEmail(ctx context.Context, userID string, email string) error {
	log := logger.FromContext(ctx)

	query, args, err := r.db.builder.
		Update(models.User{}.TableName()).
		Set("email", email).
		Set("verified", false).
		Where("user_id = ?", userID).
		ToSql()
	if err != nil {
		log.Err(err).Str("func", "*userRepository.UpdateEmail").Msg("error building query")
		return ErrBuildingSQLQuery
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrEmailAlreadyExists
		}

		log.Err(err).Str("func", "*userRepository.UpdateEmail").Msg("error updating email")
		return ErrExecutingStatement
	}

	return requireRowAffected(result, ErrUserNotFound)
}

// DeleteUser removes the account row. Dependent token and verification
// rows go with it via ON DELETE CASCADE.
func (r *userRepository) DeleteUser(ctx context.Context, userID string) error {
	log := logger.FromContext(ctx)

	query, args, err := r.db.builder.
		Delete(models.User{}.TableName()).
		Where("user_id = ?", userID).
		ToSql()
	if err != nil {
		log.Err(err).Str("func", "*userRepository.DeleteUser").Msg("error building query")
		return ErrBuildingSQLQuery
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*userRepository.DeleteUser").Msg("error deleting user")
		return ErrExecutingStatement
	}

	return requireRowAffected(result, ErrUserNotFound)
}

func (r *userRepository) updateUser(ctx context.Context, userID string, column string, value any) error {
	log := logger.FromContext(ctx)

	query, args, err := r.db.builder.
		Update(models.User{}.TableName()).
		Set(column, value).
		Where("user_id = ?", userID).
		ToSql()
	if err != nil {
		log.Err(err).Str("func", "*userRepository.updateUser").Msg("error building query")
		return ErrBuildingSQLQuery
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*userRepository.updateUser").Str("column", column).Msg("error updating user")
		return ErrExecutingStatement
	}

	return requireRowAffected(result, ErrUserNotFound)
}

// requireRowAffected translates a zero-row DML result into the given
// not-found sentinel.
func requireRowAffected(result sql.Result, notFound error) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return ErrExecutingStatement
	}
	if affected == 0 {
		return notFound
	}

	return nil
}
