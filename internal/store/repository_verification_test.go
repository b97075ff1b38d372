package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/savekeep/savekeep/models"
)

func newTestVerificationRepo(t *testing.T) (*verificationRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()

	db, mock, conn := newTestDB(t)
	repo := &verificationRepository{
		db:     db,
		logger: db.logger,
	}
	return repo, mock, conn
}

func TestUpsertVerification_Success(t *testing.T) {
	repo, mock, conn := newTestVerificationRepo(t)
	defer conn.Close()

	ctx := context.Background()
	verification := models.Verification{
		UserID:    "u1",
		Code:      "123456",
		Timestamp: time.Now(),
	}

	mock.ExpectExec("INSERT INTO verifications (.+) ON CONFLICT \\(user_id\\) DO UPDATE").
		WithArgs(verification.UserID, verification.Code, verification.Timestamp).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.UpsertVerification(ctx, verification); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestFindByUserIDAndCode_Success(t *testing.T) {
	repo, mock, conn := newTestVerificationRepo(t)
	defer conn.Close()

	ctx := context.Background()
	now := time.Now()

	rows := sqlmock.
		NewRows([]string{"user_id", "code", "created_at"}).
		AddRow("u1", "123456", now)

	mock.ExpectQuery("SELECT user_id, code, created_at FROM verifications").
		WithArgs("u1", "123456").
		WillReturnRows(rows)

	found, err := repo.FindByUserIDAndCode(ctx, "u1", "123456")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found.Code != "123456" {
		t.Errorf("expected code 123456, got %s", found.Code)
	}
}

func TestFindByUserIDAndCode_WrongCode(t *testing.T) {
	repo, mock, conn := newTestVerificationRepo(t)
	defer conn.Close()

	ctx := context.Background()

	mock.ExpectQuery("SELECT user_id, code, created_at FROM verifications").
		WithArgs("u1", "000000").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByUserIDAndCode(ctx, "u1", "000000")
	if !errors.Is(err, ErrVerificationNotFound) {
		t.Fatalf("expected ErrVerificationNotFound, got %v", err)
	}
}

func TestTouch_RefreshesTimestamp(t *testing.T) {
	repo, mock, conn := newTestVerificationRepo(t)
	defer conn.Close()

	ctx := context.Background()
	now := time.Now()

	mock.ExpectExec("UPDATE verifications SET created_at").
		WithArgs(now, "u1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Touch(ctx, "u1", now); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestTouch_MissingChallenge(t *testing.T) {
	repo, mock, conn := newTestVerificationRepo(t)
	defer conn.Close()

	ctx := context.Background()

	mock.ExpectExec("UPDATE verifications SET created_at").
		WithArgs(sqlmock.AnyArg(), "ghost").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Touch(ctx, "ghost", time.Now())
	if !errors.Is(err, ErrVerificationNotFound) {
		t.Fatalf("expected ErrVerificationNotFound, got %v", err)
	}
}

func TestDeleteOlderThan_ReportsCount(t *testing.T) {
	repo, mock, conn := newTestVerificationRepo(t)
	defer conn.Close()

	ctx := context.Background()
	cutoff := time.Now().Add(-24 * time.Hour)

	mock.ExpectExec("DELETE FROM verifications").
		WithArgs(cutoff).
		WillReturnResult(sqlmock.NewResult(0, 2))

	pruned, err := repo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pruned != 2 {
		t.Errorf("expected 2 pruned rows, got %d", pruned)
	}
}
