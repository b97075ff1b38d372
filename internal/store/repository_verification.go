// SPDX-License-Identifier: Apache-2.0

package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/savekeep/savekeep/internal/logger"
	"github.com/savekeep/savekeep/models"
)

// verificationRepository is the SQL-backed implementation of
// [VerificationRepository]. The "verifications" table holds at most one
// pending challenge per user, enforced by a UNIQUE(user_id) constraint.
type verificationRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewVerificationRepository constructs a [VerificationRepository] backed by
// the provided database connection and logger.
func NewVerificationRepository(db *DB, logger *logger.Logger) VerificationRepository {
	logger.Debug().Msg("creating verification repository")
	return &verificationRepository{
		db:     db,
		logger: logger,
	}
}

// UpsertVerification installs a fresh challenge for the user, replacing any
// pending one.
func (r *verificationRepository) UpsertVerification(ctx context.Context, verification models.Verification) error {
	log := logger.FromContext(ctx)

	query, args, err := r.db.builder.
		Insert(verification.TableName()).
		Columns("user_id", "code", "created_at").
		Values(verification.UserID, verification.Code, verification.Timestamp).
		Suffix("ON CONFLICT (user_id) DO UPDATE SET code = excluded.code, created_at = excluded.created_at").
		ToSql()
	if err != nil {
		log.Err(err).Str("func", "*verificationRepository.UpsertVerification").Msg("error building query")
		return ErrBuildingSQLQuery
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		log.Err(err).Str("func", "*verificationRepository.UpsertVerification").Msg("error upserting verification")
		return ErrExecutingStatement
	}

	return nil
}

// FindByUserID returns the user's pending challenge, or
// [ErrVerificationNotFound] when none exists.
func (r *verificationRepository) FindByUserID(ctx context.Context, userID string) (models.Verification, error) {
	return r.find(ctx, "user_id = ?", userID)
}

// FindByUserIDAndCode matches a pending challenge on both user and exact
// code string, or returns [ErrVerificationNotFound].
func (r *verificationRepository) FindByUserIDAndCode(ctx context.Context, userID, code string) (models.Verification, error) {
	return r.find(ctx, "user_id = ? AND code = ?", userID, code)
}

func (r *verificationRepository) find(ctx context.Context, where string, args ...any) (models.Verification, error) {
	log := logger.FromContext(ctx)

	var verification models.Verification
	query, queryArgs, err := r.db.builder.
		Select("user_id", "code", "created_at").
		From(verification.TableName()).
		Where(where, args...).
		ToSql()
	if err != nil {
		log.Err(err).Str("func", "*verificationRepository.find").Msg("error building query")
		return models.Verification{}, ErrBuildingSQLQuery
	}

	row := r.db.QueryRowContext(ctx, query, queryArgs...)
	if err := row.Scan(&verification.UserID, &verification.Code, &verification.Timestamp); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Verification{}, ErrVerificationNotFound
		}

		log.Err(err).Str("func", "*verificationRepository.find").Msg("error: scanning error")
		return models.Verification{}, ErrScanningRow
	}

	return verification, nil
}

// Touch refreshes the challenge timestamp after a resend, restarting the
// resend-throttle window.
func (r *verificationRepository) Touch(ctx context.Context, userID string, at time.Time) error {
	log := logger.FromContext(ctx)

	query, args, err := r.db.builder.
		Update(models.Verification{}.TableName()).
		Set("created_at", at).
		Where("user_id = ?", userID).
		ToSql()
	if err != nil {
		log.Err(err).Str("func", "*verificationRepository.Touch").Msg("error building query")
		return ErrBuildingSQLQuery
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*verificationRepository.Touch").Msg("error touching verification")
		return ErrExecutingStatement
	}

	return requireRowAffected(result, ErrVerificationNotFound)
}

// DeleteByUserID discards the user's pending challenge, if any.
func (r *verificationRepository) DeleteByUserID(ctx context.Context, userID string) error {
	log := logger.FromContext(ctx)

	query, args, err := r.db.builder.
		Delete(models.Verification{}.TableName()).
		Where("user_id = ?", userID).
		ToSql()
	if err != nil {
		log.Err(err).Str("func", "*verificationRepository.DeleteByUserID").Msg("error building query")
		return ErrBuildingSQLQuery
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		log.Err(err).Str("func", "*verificationRepository.DeleteByUserID").Msg("error deleting verification")
		return ErrExecutingStatement
	}

	return nil
}

// DeleteOlderThan prunes challenges created before cutoff.
func (r *verificationRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	log := logger.FromContext(ctx)

	query, args, err := r.db.builder.
		Delete(models.Verification{}.TableName()).
		Where("created_at < ?", cutoff).
		ToSql()
	if err != nil {
		log.Err(err).Str("func", "*verificationRepository.DeleteOlderThan").Msg("error building query")
		return 0, ErrBuildingSQLQuery
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*verificationRepository.DeleteOlderThan").Msg("error pruning verifications")
		return 0, ErrExecutingStatement
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, ErrExecutingStatement
	}

	return affected, nil
}
