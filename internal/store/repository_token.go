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

// tokenRepository is the SQL-backed implementation of [TokenRepository].
// Session tokens live in "tokens" with a UNIQUE(user_id) constraint;
// escrowed tokens live in "handoff_tokens" with the same shape.
type tokenRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewTokenRepository constructs a [TokenRepository] backed by the provided
// database connection and logger.
func NewTokenRepository(db *DB, logger *logger.Logger) TokenRepository {
	logger.Debug().Msg("creating token repository")
	return &tokenRepository{
		db:     db,
		logger: logger,
	}
}

// UpsertToken installs the session token in one statement. The ON CONFLICT
// clause keyed on user_id makes rotation atomic: concurrent logins cannot
// leave two live rows for the same account.
func (r *tokenRepository) UpsertToken(ctx context.Context, token models.SessionToken) error {
	log := logger.FromContext(ctx)

	query, args, err := r.db.builder.
		Insert(token.TableName()).
		Columns("token", "user_id", "issued_at").
		Values(token.Token, token.UserID, token.IssuedAt).
		Suffix("ON CONFLICT (user_id) DO UPDATE SET token = excluded.token, issued_at = excluded.issued_at").
		ToSql()
	if err != nil {
		log.Err(err).Str("func", "*tokenRepository.UpsertToken").Msg("error building query")
		return ErrBuildingSQLQuery
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		log.Err(err).Str("func", "*tokenRepository.UpsertToken").Msg("error upserting token")
		return ErrExecutingStatement
	}

	return nil
}

// FindTokenByUserID returns the user's current session token, or
// [ErrTokenNotFound] when none is issued.
func (r *tokenRepository) FindTokenByUserID(ctx context.Context, userID string) (models.SessionToken, error) {
	log := logger.FromContext(ctx)

	var token models.SessionToken
	query, args, err := r.db.builder.
		Select("token", "user_id", "issued_at").
		From(token.TableName()).
		Where("user_id = ?", userID).
		ToSql()
	if err != nil {
		log.Err(err).Str("func", "*tokenRepository.FindTokenByUserID").Msg("error building query")
		return models.SessionToken{}, ErrBuildingSQLQuery
	}

	row := r.db.QueryRowContext(ctx, query, args...)
	if err := row.Scan(&token.Token, &token.UserID, &token.IssuedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.SessionToken{}, ErrTokenNotFound
		}

		log.Err(err).Str("func", "*tokenRepository.FindTokenByUserID").Msg("error: scanning error")
		return models.SessionToken{}, ErrScanningRow
	}

	return token, nil
}

// FindUserIDByToken resolves a presented token string to its owner, or
// [ErrTokenNotFound] when the token is unknown.
func (r *tokenRepository) FindUserIDByToken(ctx context.Context, token string) (string, error) {
	log := logger.FromContext(ctx)

	query, args, err := r.db.builder.
		Select("user_id").
		From(models.SessionToken{}.TableName()).
		Where("token = ?", token).
		ToSql()
	if err != nil {
		log.Err(err).Str("func", "*tokenRepository.FindUserIDByToken").Msg("error building query")
		return "", ErrBuildingSQLQuery
	}

	var userID string
	row := r.db.QueryRowContext(ctx, query, args...)
	if err := row.Scan(&userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrTokenNotFound
		}

		log.Err(err).Str("func", "*tokenRepository.FindUserIDByToken").Msg("error: scanning error")
		return "", ErrScanningRow
	}

	return userID, nil
}

// DeleteTokenByUserID revokes the user's session token. Missing rows are
// not an error: revoking an already-revoked session is a no-op.
func (r *tokenRepository) DeleteTokenByUserID(ctx context.Context, userID string) error {
	return r.deleteByUserID(ctx, models.SessionToken{}.TableName(), userID)
}

// CreateHandoff escrows the user's token for the duration of an
// email-change verification. A previous escrow for the same user is
// replaced.
func (r *tokenRepository) CreateHandoff(ctx context.Context, handoff models.HandoffToken) error {
	log := logger.FromContext(ctx)

	query, args, err := r.db.builder.
		Insert(handoff.TableName()).
		Columns("token", "user_id", "issued_at").
		Values(handoff.Token, handoff.UserID, handoff.IssuedAt).
		Suffix("ON CONFLICT (user_id) DO UPDATE SET token = excluded.token, issued_at = excluded.issued_at").
		ToSql()
	if err != nil {
		log.Err(err).Str("func", "*tokenRepository.CreateHandoff").Msg("error building query")
		return ErrBuildingSQLQuery
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		log.Err(err).Str("func", "*tokenRepository.CreateHandoff").Msg("error escrowing token")
		return ErrExecutingStatement
	}

	return nil
}

// FindHandoffByUserID returns the user's escrowed token, or
// [ErrHandoffNotFound] when none exists.
func (r *tokenRepository) FindHandoffByUserID(ctx context.Context, userID string) (models.HandoffToken, error) {
	log := logger.FromContext(ctx)

	var handoff models.HandoffToken
	query, args, err := r.db.builder.
		Select("token", "user_id", "issued_at").
		From(handoff.TableName()).
		Where("user_id = ?", userID).
		ToSql()
	if err != nil {
		log.Err(err).Str("func", "*tokenRepository.FindHandoffByUserID").Msg("error building query")
		return models.HandoffToken{}, ErrBuildingSQLQuery
	}

	row := r.db.QueryRowContext(ctx, query, args...)
	if err := row.Scan(&handoff.Token, &handoff.UserID, &handoff.IssuedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.HandoffToken{}, ErrHandoffNotFound
		}

		log.Err(err).Str("func", "*tokenRepository.FindHandoffByUserID").Msg("error: scanning error")
		return models.HandoffToken{}, ErrScanningRow
	}

	return handoff, nil
}

// DeleteHandoffByUserID discards the user's escrowed token, if any.
func (r *tokenRepository) DeleteHandoffByUserID(ctx context.Context, userID string) error {
	return r.deleteByUserID(ctx, models.HandoffToken{}.TableName(), userID)
}

// PromoteHandoff moves the escrowed token back into the active session
// table in a single transaction, so a crash between the two statements
// cannot strand the account with both rows or neither.
func (r *tokenRepository) PromoteHandoff(ctx context.Context, userID string) (models.SessionToken, error) {
	log := logger.FromContext(ctx)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		log.Err(err).Str("func", "*tokenRepository.PromoteHandoff").Msg("error beginning transaction")
		return models.SessionToken{}, ErrBeginningTransaction
	}
	defer tx.Rollback()

	selectQuery, selectArgs, err := r.db.builder.
		Select("token", "user_id", "issued_at").
		From(models.HandoffToken{}.TableName()).
		Where("user_id = ?", userID).
		ToSql()
	if err != nil {
		return models.SessionToken{}, ErrBuildingSQLQuery
	}

	var handoff models.HandoffToken
	row := tx.QueryRowContext(ctx, selectQuery, selectArgs...)
	if err := row.Scan(&handoff.Token, &handoff.UserID, &handoff.IssuedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.SessionToken{}, ErrHandoffNotFound
		}

		log.Err(err).Str("func", "*tokenRepository.PromoteHandoff").Msg("error: scanning error")
		return models.SessionToken{}, ErrScanningRow
	}

	token := models.SessionToken{Token: handoff.Token, UserID: handoff.UserID, IssuedAt: handoff.IssuedAt}

	upsertQuery, upsertArgs, err := r.db.builder.
		Insert(token.TableName()).
		Columns("token", "user_id", "issued_at").
		Values(token.Token, token.UserID, token.IssuedAt).
		Suffix("ON CONFLICT (user_id) DO UPDATE SET token = excluded.token, issued_at = excluded.issued_at").
		ToSql()
	if err != nil {
		return models.SessionToken{}, ErrBuildingSQLQuery
	}

	if _, err := tx.ExecContext(ctx, upsertQuery, upsertArgs...); err != nil {
		log.Err(err).Str("func", "*tokenRepository.PromoteHandoff").Msg("error restoring token")
		return models.SessionToken{}, ErrExecutingStatement
	}

	deleteQuery, deleteArgs, err := r.db.builder.
		Delete(models.HandoffToken{}.TableName()).
		Where("user_id = ?", userID).
		ToSql()
	if err != nil {
		return models.SessionToken{}, ErrBuildingSQLQuery
	}

	if _, err := tx.ExecContext(ctx, deleteQuery, deleteArgs...); err != nil {
		log.Err(err).Str("func", "*tokenRepository.PromoteHandoff").Msg("error deleting escrow row")
		return models.SessionToken{}, ErrExecutingStatement
	}

	if err := tx.Commit(); err != nil {
		log.Err(err).Str("func", "*tokenRepository.PromoteHandoff").Msg("error committing transaction")
		return models.SessionToken{}, ErrCommitingTransaction
	}

	return token, nil
}

// DeleteHandoffsOlderThan prunes escrow rows issued before cutoff.
func (r *tokenRepository) DeleteHandoffsOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	log := logger.FromContext(ctx)

	query, args, err := r.db.builder.
		Delete(models.HandoffToken{}.TableName()).
		Where("issued_at < ?", cutoff).
		ToSql()
	if err != nil {
		log.Err(err).Str("func", "*tokenRepository.DeleteHandoffsOlderThan").Msg("error building query")
		return 0, ErrBuildingSQLQuery
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*tokenRepository.DeleteHandoffsOlderThan").Msg("error pruning escrow rows")
		return 0, ErrExecutingStatement
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, ErrExecutingStatement
	}

	return affected, nil
}

func (r *tokenRepository) deleteByUserID(ctx context.Context, table string, userID string) error {
	log := logger.FromContext(ctx)

	query, args, err := r.db.builder.
		Delete(table).
		Where("user_id = ?", userID).
		ToSql()
	if err != nil {
		log.Err(err).Str("func", "*tokenRepository.deleteByUserID").Msg("error building query")
		return ErrBuildingSQLQuery
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		log.Err(err).Str("func", "*tokenRepository.deleteByUserID").Str("table", table).Msg("error deleting rows")
		return ErrExecutingStatement
	}

	return nil
}
