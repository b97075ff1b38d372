package service

import (
	"context"
	"time"

	"github.com/savekeep/savekeep/internal/store"
	"github.com/savekeep/savekeep/models"
)

// ─────────────────────────────────────────────
// Mock: store.UserRepository
// ─────────────────────────────────────────────

type mockUserRepository struct {
	createUserFn      func(ctx context.Context, user models.User) (models.User, error)
	findUserByIDFn    func(ctx context.Context, userID string) (models.User, error)
	findUserByEmailFn func(ctx context.Context, email string) (models.User, error)
	updatePasswordFn  func(ctx context.Context, userID string, passwordHash *string) error
	setVerifiedFn     func(ctx context.Context, userID string, verified bool) error
	updateEmailFn     func(ctx context.Context, userID string, email string) error
	deleteUserFn      func(ctx context.Context, userID string) error
}

func (m *mockUserRepository) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	if m.createUserFn != nil {
		return m.createUserFn(ctx, user)
	}
	return user, nil
}

func (m *mockUserRepository) FindUserByID(ctx context.Context, userID string) (models.User, error) {
	if m.findUserByIDFn != nil {
		return m.findUserByIDFn(ctx, userID)
	}
	return models.User{}, store.ErrUserNotFound
}

func (m *mockUserRepository) FindUserByEmail(ctx context.Context, email string) (models.User, error) {
	if m.findUserByEmailFn != nil {
		return m.findUserByEmailFn(ctx, email)
	}
	return models.User{}, store.ErrUserNotFound
}

func (m *mockUserRepository) UpdatePassword(ctx context.Context, userID string, passwordHash *string) error {
	if m.updatePasswordFn != nil {
		return m.updatePasswordFn(ctx, userID, passwordHash)
	}
	return nil
}

func (m *mockUserRepository) SetVerified(ctx context.Context, userID string, verified bool) error {
	if m.setVerifiedFn != nil {
		return m.setVerifiedFn(ctx, userID, verified)
	}
	return nil
}

func (m *mockUserRepository) UpdateEmail(ctx context.Context, userID string, email string) error {
	if m.updateEmailFn != nil {
		return m.updateEmailFn(ctx, userID, email)
	}
	return nil
}

func (m *mockUserRepository) DeleteUser(ctx context.Context, userID string) error {
	if m.deleteUserFn != nil {
		return m.deleteUserFn(ctx, userID)
	}
	return nil
}

// ─────────────────────────────────────────────
// Mock: store.TokenRepository
// ─────────────────────────────────────────────

type mockTokenRepository struct {
	upsertTokenFn             func(ctx context.Context, token models.SessionToken) error
	findTokenByUserIDFn       func(ctx context.Context, userID string) (models.SessionToken, error)
	findUserIDByTokenFn       func(ctx context.Context, token string) (string, error)
	deleteTokenByUserIDFn     func(ctx context.Context, userID string) error
	createHandoffFn           func(ctx context.Context, handoff models.HandoffToken) error
	findHandoffByUserIDFn     func(ctx context.Context, userID string) (models.HandoffToken, error)
	deleteHandoffByUserIDFn   func(ctx context.Context, userID string) error
	promoteHandoffFn          func(ctx context.Context, userID string) (models.SessionToken, error)
	deleteHandoffsOlderThanFn func(ctx context.Context, cutoff time.Time) (int64, error)
}

func (m *mockTokenRepository) UpsertToken(ctx context.Context, token models.SessionToken) error {
	if m.upsertTokenFn != nil {
		return m.upsertTokenFn(ctx, token)
	}
	return nil
}

func (m *mockTokenRepository) FindTokenByUserID(ctx context.Context, userID string) (models.SessionToken, error) {
	if m.findTokenByUserIDFn != nil {
		return m.findTokenByUserIDFn(ctx, userID)
	}
	return models.SessionToken{}, store.ErrTokenNotFound
}

func (m *mockTokenRepository) FindUserIDByToken(ctx context.Context, token string) (string, error) {
	if m.findUserIDByTokenFn != nil {
		return m.findUserIDByTokenFn(ctx, token)
	}
	return "", store.ErrTokenNotFound
}

func (m *mockTokenRepository) DeleteTokenByUserID(ctx context.Context, userID string) error {
	if m.deleteTokenByUserIDFn != nil {
		return m.deleteTokenByUserIDFn(ctx, userID)
	}
	return nil
}

func (m *mockTokenRepository) CreateHandoff(ctx context.Context, handoff models.HandoffToken) error {
	if m.createHandoffFn != nil {
		return m.createHandoffFn(ctx, handoff)
	}
	return nil
}

func (m *mockTokenRepository) FindHandoffByUserID(ctx context.Context, userID string) (models.HandoffToken, error) {
	if m.findHandoffByUserIDFn != nil {
		return m.findHandoffByUserIDFn(ctx, userID)
	}
	return models.HandoffToken{}, store.ErrHandoffNotFound
}

func (m *mockTokenRepository) DeleteHandoffByUserID(ctx context.Context, userID string) error {
	if m.deleteHandoffByUserIDFn != nil {
		return m.deleteHandoffByUserIDFn(ctx, userID)
	}
	return nil
}

func (m *mockTokenRepository) PromoteHandoff(ctx context.Context, userID string) (models.SessionToken, error) {
	if m.promoteHandoffFn != nil {
		return m.promoteHandoffFn(ctx, userID)
	}
	return models.SessionToken{}, store.ErrHandoffNotFound
}

func (m *mockTokenRepository) DeleteHandoffsOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	if m.deleteHandoffsOlderThanFn != nil {
		return m.deleteHandoffsOlderThanFn(ctx, cutoff)
	}
	return 0, nil
}

// ─────────────────────────────────────────────
// Mock: store.VerificationRepository
// ─────────────────────────────────────────────

type mockVerificationRepository struct {
	upsertVerificationFn  func(ctx context.Context, verification models.Verification) error
	findByUserIDFn        func(ctx context.Context, userID string) (models.Verification, error)
	findByUserIDAndCodeFn func(ctx context.Context, userID, code string) (models.Verification, error)
	touchFn               func(ctx context.Context, userID string, at time.Time) error
	deleteByUserIDFn      func(ctx context.Context, userID string) error
	deleteOlderThanFn     func(ctx context.Context, cutoff time.Time) (int64, error)
}

func (m *mockVerificationRepository) UpsertVerification(ctx context.Context, verification models.Verification) error {
	if m.upsertVerificationFn != nil {
		return m.upsertVerificationFn(ctx, verification)
	}
	return nil
}

func (m *mockVerificationRepository) FindByUserID(ctx context.Context, userID string) (models.Verification, error) {
	if m.findByUserIDFn != nil {
		return m.findByUserIDFn(ctx, userID)
	}
	return models.Verification{}, store.ErrVerificationNotFound
}

func (m *mockVerificationRepository) FindByUserIDAndCode(ctx context.Context, userID, code string) (models.Verification, error) {
	if m.findByUserIDAndCodeFn != nil {
		return m.findByUserIDAndCodeFn(ctx, userID, code)
	}
	return models.Verification{}, store.ErrVerificationNotFound
}

func (m *mockVerificationRepository) Touch(ctx context.Context, userID string, at time.Time) error {
	if m.touchFn != nil {
		return m.touchFn(ctx, userID, at)
	}
	return nil
}

func (m *mockVerificationRepository) DeleteByUserID(ctx context.Context, userID string) error {
	if m.deleteByUserIDFn != nil {
		return m.deleteByUserIDFn(ctx, userID)
	}
	return nil
}

func (m *mockVerificationRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	if m.deleteOlderThanFn != nil {
		return m.deleteOlderThanFn(ctx, cutoff)
	}
	return 0, nil
}

// ─────────────────────────────────────────────
// Mock: store.FileStore
// ─────────────────────────────────────────────

type mockFileStore struct {
	uploadFn         func(ctx context.Context, userID string, category models.Category, relativePath string, data []byte) error
	listGamesFn      func(ctx context.Context, userID string, category models.Category, annotate bool) ([]models.GameInfo, error)
	listGameFilesFn  func(ctx context.Context, userID string, category models.Category, game string) ([]string, error)
	deleteGameFn     func(ctx context.Context, userID string, category models.Category, game string) error
	renameGameFn     func(ctx context.Context, userID string, category models.Category, game, newGame string) error
	openFn           func(ctx context.Context, userID string, category models.Category, path string) (models.Download, error)
	usageFn          func(ctx context.Context, userID string) (int64, error)
	deleteUserDataFn func(ctx context.Context, userID string) error
}

func (m *mockFileStore) Upload(ctx context.Context, userID string, category models.Category, relativePath string, data []byte) error {
	if m.uploadFn != nil {
		return m.uploadFn(ctx, userID, category, relativePath, data)
	}
	return nil
}

func (m *mockFileStore) ListGames(ctx context.Context, userID string, category models.Category, annotate bool) ([]models.GameInfo, error) {
	if m.listGamesFn != nil {
		return m.listGamesFn(ctx, userID, category, annotate)
	}
	return nil, nil
}

func (m *mockFileStore) ListGameFiles(ctx context.Context, userID string, category models.Category, game string) ([]string, error) {
	if m.listGameFilesFn != nil {
		return m.listGameFilesFn(ctx, userID, category, game)
	}
	return nil, nil
}

func (m *mockFileStore) DeleteGame(ctx context.Context, userID string, category models.Category, game string) error {
	if m.deleteGameFn != nil {
		return m.deleteGameFn(ctx, userID, category, game)
	}
	return nil
}

func (m *mockFileStore) RenameGame(ctx context.Context, userID string, category models.Category, game, newGame string) error {
	if m.renameGameFn != nil {
		return m.renameGameFn(ctx, userID, category, game, newGame)
	}
	return nil
}

func (m *mockFileStore) Open(ctx context.Context, userID string, category models.Category, path string) (models.Download, error) {
	if m.openFn != nil {
		return m.openFn(ctx, userID, category, path)
	}
	return models.Download{}, store.ErrFileNotFound
}

func (m *mockFileStore) Usage(ctx context.Context, userID string) (int64, error) {
	if m.usageFn != nil {
		return m.usageFn(ctx, userID)
	}
	return 0, nil
}

func (m *mockFileStore) DeleteUserData(ctx context.Context, userID string) error {
	if m.deleteUserDataFn != nil {
		return m.deleteUserDataFn(ctx, userID)
	}
	return nil
}

// ─────────────────────────────────────────────
// Mock: mailer.Mailer
// ─────────────────────────────────────────────

type mockMailer struct {
	sendVerificationCodeFn  func(ctx context.Context, to, code string) error
	sendPasswordResetCodeFn func(ctx context.Context, to, code string) error
}

func (m *mockMailer) SendVerificationCode(ctx context.Context, to, code string) error {
	if m.sendVerificationCodeFn != nil {
		return m.sendVerificationCodeFn(ctx, to, code)
	}
	return nil
}

func (m *mockMailer) SendPasswordResetCode(ctx context.Context, to, code string) error {
	if m.sendPasswordResetCodeFn != nil {
		return m.sendPasswordResetCodeFn(ctx, to, code)
	}
	return nil
}
