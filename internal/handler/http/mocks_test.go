package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/savekeep/savekeep/internal/config"
	"github.com/savekeep/savekeep/internal/logger"
	"github.com/savekeep/savekeep/internal/service"
	"github.com/savekeep/savekeep/models"
)

// ───────────────────────────── account service ─────────────────────────────

type mockAccountService struct {
	RegisterFn            func(ctx context.Context, email, password string) (string, string, error)
	LoginFn               func(ctx context.Context, email, password string, rotate bool) (string, error)
	ConsumeExchangeCodeFn func(ctx context.Context, code string) (string, error)
	RequestExchangeCodeFn func(ctx context.Context, token string, clear bool) (string, error)
	CheckExchangeCodeFn   func(ctx context.Context, code string) bool
	ChangePasswordFn      func(ctx context.Context, token, oldPassword, newPassword string) error
	ForgotPasswordFn      func(ctx context.Context, email string) error
	VerifyEmailFn         func(ctx context.Context, userID, code string) (string, error)
	ChangeEmailFn         func(ctx context.Context, token, password, newEmail string) error
	DeleteAccountFn       func(ctx context.Context, token, password string) error
	ResolveSessionFn      func(ctx context.Context, token string) (string, error)
	AccountInfoFn         func(ctx context.Context, userID string) (models.User, int64, error)
}

func (m *mockAccountService) Register(ctx context.Context, email, password string) (string, string, error) {
	if m.RegisterFn == nil {
		return "", "", service.ErrInvalidDataProvided
	}
	return m.RegisterFn(ctx, email, password)
}

func (m *mockAccountService) Login(ctx context.Context, email, password string, rotate bool) (string, error) {
	if m.LoginFn == nil {
		return "", service.ErrInvalidCredentials
	}
	return m.LoginFn(ctx, email, password, rotate)
}

func (m *mockAccountService) ConsumeExchangeCode(ctx context.Context, code string) (string, error) {
	if m.ConsumeExchangeCodeFn == nil {
		return "", service.ErrInvalidCode
	}
	return m.ConsumeExchangeCodeFn(ctx, code)
}

func (m *mockAccountService) RequestExchangeCode(ctx context.Context, token string, clear bool) (string, error) {
	if m.RequestExchangeCodeFn == nil {
		return "", service.ErrInvalidToken
	}
	return m.RequestExchangeCodeFn(ctx, token, clear)
}

func (m *mockAccountService) CheckExchangeCode(ctx context.Context, code string) bool {
	if m.CheckExchangeCodeFn == nil {
		return false
	}
	return m.CheckExchangeCodeFn(ctx, code)
}

func (m *mockAccountService) ChangePassword(ctx context.Context, token, oldPassword, newPassword string) error {
	if m.ChangePasswordFn == nil {
		return service.ErrInvalidToken
	}
	return m.ChangePasswordFn(ctx, token, oldPassword, newPassword)
}

func (m *mockAccountService) ForgotPassword(ctx context.Context, email string) error {
	if m.ForgotPasswordFn == nil {
		return service.ErrAccountNotFound
	}
	return m.ForgotPasswordFn(ctx, email)
}

func (m *mockAccountService) VerifyEmail(ctx context.Context, userID, code string) (string, error) {
	if m.VerifyEmailFn == nil {
		return "", service.ErrInvalidCode
	}
	return m.VerifyEmailFn(ctx, userID, code)
}

func (m *mockAccountService) ChangeEmail(ctx context.Context, token, password, newEmail string) error {
	if m.ChangeEmailFn == nil {
		return service.ErrInvalidToken
	}
	return m.ChangeEmailFn(ctx, token, password, newEmail)
}

func (m *mockAccountService) DeleteAccount(ctx context.Context, token, password string) error {
	if m.DeleteAccountFn == nil {
		return service.ErrInvalidToken
	}
	return m.DeleteAccountFn(ctx, token, password)
}

func (m *mockAccountService) ResolveSession(ctx context.Context, token string) (string, error) {
	if m.ResolveSessionFn == nil {
		return "", service.ErrInvalidToken
	}
	return m.ResolveSessionFn(ctx, token)
}

func (m *mockAccountService) AccountInfo(ctx context.Context, userID string) (models.User, int64, error) {
	if m.AccountInfoFn == nil {
		return models.User{}, 0, service.ErrAccountNotFound
	}
	return m.AccountInfoFn(ctx, userID)
}

// ────────────────────────────── file service ───────────────────────────────

type mockFileService struct {
	UploadFn    func(ctx context.Context, userID string, category models.Category, filename, data string) error
	GamesFn     func(ctx context.Context, userID string, category models.Category, annotate bool) ([]models.GameInfo, error)
	GameFilesFn func(ctx context.Context, userID string, category models.Category, game string) ([]string, error)
	DeleteFn    func(ctx context.Context, userID string, category models.Category, game string) error
	RenameFn    func(ctx context.Context, userID string, category models.Category, game, newGame string) error
	DownloadFn  func(ctx context.Context, userID string, category models.Category, path string) (models.Download, error)
}

func (m *mockFileService) Upload(ctx context.Context, userID string, category models.Category, filename, data string) error {
	if m.UploadFn == nil {
		return service.ErrInvalidDataProvided
	}
	return m.UploadFn(ctx, userID, category, filename, data)
}

func (m *mockFileService) Games(ctx context.Context, userID string, category models.Category, annotate bool) ([]models.GameInfo, error) {
	if m.GamesFn == nil {
		return nil, nil
	}
	return m.GamesFn(ctx, userID, category, annotate)
}

func (m *mockFileService) GameFiles(ctx context.Context, userID string, category models.Category, game string) ([]string, error) {
	if m.GameFilesFn == nil {
		return nil, nil
	}
	return m.GameFilesFn(ctx, userID, category, game)
}

func (m *mockFileService) Delete(ctx context.Context, userID string, category models.Category, game string) error {
	if m.DeleteFn == nil {
		return nil
	}
	return m.DeleteFn(ctx, userID, category, game)
}

func (m *mockFileService) Rename(ctx context.Context, userID string, category models.Category, game, newGame string) error {
	if m.RenameFn == nil {
		return nil
	}
	return m.RenameFn(ctx, userID, category, game, newGame)
}

func (m *mockFileService) Download(ctx context.Context, userID string, category models.Category, path string) (models.Download, error) {
	if m.DownloadFn == nil {
		return models.Download{}, service.ErrInvalidDataProvided
	}
	return m.DownloadFn(ctx, userID, category, path)
}

// ─────────────────────────────── test harness ──────────────────────────────

// resolveAs is a ready-made session resolver accepting exactly one token.
func resolveAs(token, userID string) func(ctx context.Context, got string) (string, error) {
	return func(_ context.Context, got string) (string, error) {
		if got != token {
			return "", service.ErrInvalidToken
		}
		return userID, nil
	}
}

func newTestRouter(accounts *mockAccountService, files *mockFileService) *chi.Mux {
	services := &service.Services{
		AccountService: accounts,
		FileService:    files,
	}
	h := NewHandler(services,
		config.App{QuotaBytes: 1 << 20},
		config.Server{},
		logger.Nop(),
	)
	return h.Init()
}

// performJSON runs one request through the router with a JSON body.
func performJSON(t *testing.T, router http.Handler, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body == nil {
		reader = bytes.NewReader(nil)
	} else {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

// decodeBody unmarshals a recorded JSON response into dst.
func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), dst))
}
