package http

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/savekeep/savekeep/internal/service"
	"github.com/savekeep/savekeep/models"
)

func TestRegister_VerificationPending(t *testing.T) {
	accounts := &mockAccountService{
		RegisterFn: func(_ context.Context, email, password string) (string, string, error) {
			assert.Equal(t, "new@example.com", email)
			assert.Equal(t, "hunter2-hunter2", password)
			return "user-1", "", nil
		},
	}
	router := newTestRouter(accounts, &mockFileService{})

	rec := performJSON(t, router, http.MethodPost, "/register", models.RegisterRequest{
		Email:    "new@example.com",
		Password: "hunter2-hunter2",
	})

	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.RegisterResponse
	decodeBody(t, rec, &resp)
	assert.Equal(t, "user-1", resp.UserID)
	assert.Equal(t, noteVerifyAccount, resp.Note)
}

func TestRegister_VerificationDisabledReturnsToken(t *testing.T) {
	accounts := &mockAccountService{
		RegisterFn: func(_ context.Context, _, _ string) (string, string, error) {
			return "user-1", "session-token", nil
		},
	}
	router := newTestRouter(accounts, &mockFileService{})

	rec := performJSON(t, router, http.MethodPost, "/register", models.RegisterRequest{
		Email:    "new@example.com",
		Password: "hunter2-hunter2",
	})

	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.TokenResponse
	decodeBody(t, rec, &resp)
	assert.Equal(t, "session-token", resp.Token)
}

func TestRegister_EmailTaken(t *testing.T) {
	accounts := &mockAccountService{
		RegisterFn: func(_ context.Context, _, _ string) (string, string, error) {
			return "", "", service.ErrEmailTaken
		},
	}
	router := newTestRouter(accounts, &mockFileService{})

	rec := performJSON(t, router, http.MethodPost, "/register", models.RegisterRequest{
		Email:    "taken@example.com",
		Password: "hunter2-hunter2",
	})

	require.Equal(t, http.StatusConflict, rec.Code)

	var resp models.ErrorResponse
	decodeBody(t, rec, &resp)
	assert.Equal(t, "Email already in use.", resp.Error)
}

func TestRegister_RejectsMalformedEmail(t *testing.T) {
	accounts := &mockAccountService{
		RegisterFn: func(_ context.Context, _, _ string) (string, string, error) {
			t.Fatal("register should not be reached")
			return "", "", nil
		},
	}
	router := newTestRouter(accounts, &mockFileService{})

	rec := performJSON(t, router, http.MethodPost, "/register", models.RegisterRequest{
		Email:    "not-an-email",
		Password: "hunter2-hunter2",
	})

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp models.ErrorResponse
	decodeBody(t, rec, &resp)
	assert.Equal(t, msgInvalidLogin, resp.Error)
}

func TestGetUserID_KnownToken(t *testing.T) {
	accounts := &mockAccountService{ResolveSessionFn: resolveAs("tok", "user-1")}
	router := newTestRouter(accounts, &mockFileService{})

	rec := performJSON(t, router, http.MethodPost, "/getUserID", models.SessionRequest{Token: "tok"})

	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.UserIDResponse
	decodeBody(t, rec, &resp)
	assert.Equal(t, "user-1", resp.UserID)
}

func TestGetUserID_UnknownTokenAnswersUnknown(t *testing.T) {
	accounts := &mockAccountService{ResolveSessionFn: resolveAs("tok", "user-1")}
	router := newTestRouter(accounts, &mockFileService{})

	rec := performJSON(t, router, http.MethodPost, "/getUserID", models.SessionRequest{Token: "stale"})

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"userID":"unknown"}`, rec.Body.String())
}

func TestGetUserID_AcceptsGet(t *testing.T) {
	accounts := &mockAccountService{ResolveSessionFn: resolveAs("tok", "user-1")}
	router := newTestRouter(accounts, &mockFileService{})

	rec := performJSON(t, router, http.MethodGet, "/getUserID", models.SessionRequest{Token: "tok"})

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGetToken_PasswordLogin(t *testing.T) {
	accounts := &mockAccountService{
		LoginFn: func(_ context.Context, email, password string, rotate bool) (string, error) {
			assert.Equal(t, "user@example.com", email)
			assert.Equal(t, "hunter2-hunter2", password)
			assert.False(t, rotate)
			return "session-token", nil
		},
	}
	router := newTestRouter(accounts, &mockFileService{})

	rec := performJSON(t, router, http.MethodPost, "/getToken", models.TokenRequest{
		Email:    "user@example.com",
		Password: "hunter2-hunter2",
	})

	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.TokenResponse
	decodeBody(t, rec, &resp)
	assert.Equal(t, "session-token", resp.Token)
}

func TestGetToken_RotationFlagForwarded(t *testing.T) {
	var gotRotate bool
	accounts := &mockAccountService{
		LoginFn: func(_ context.Context, _, _ string, rotate bool) (string, error) {
			gotRotate = rotate
			return "fresh-token", nil
		},
	}
	router := newTestRouter(accounts, &mockFileService{})

	rec := performJSON(t, router, http.MethodPost, "/getToken", models.TokenRequest{
		Email:    "user@example.com",
		Password: "hunter2-hunter2",
		New:      true,
	})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, gotRotate)
}

func TestGetToken_ExchangeCode(t *testing.T) {
	accounts := &mockAccountService{
		ConsumeExchangeCodeFn: func(_ context.Context, code string) (string, error) {
			assert.Equal(t, "ab1c2", code)
			return "session-token", nil
		},
		LoginFn: func(_ context.Context, _, _ string, _ bool) (string, error) {
			t.Fatal("password login should not be reached")
			return "", nil
		},
	}
	router := newTestRouter(accounts, &mockFileService{})

	rec := performJSON(t, router, http.MethodPost, "/getToken", models.TokenRequest{
		ShorthandToken: "ab1c2",
	})

	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.TokenResponse
	decodeBody(t, rec, &resp)
	assert.Equal(t, "session-token", resp.Token)
}

func TestGetToken_DeadExchangeCodeFallsThrough(t *testing.T) {
	accounts := &mockAccountService{
		ConsumeExchangeCodeFn: func(_ context.Context, _ string) (string, error) {
			return "", service.ErrInvalidCode
		},
	}
	router := newTestRouter(accounts, &mockFileService{})

	rec := performJSON(t, router, http.MethodPost, "/getToken", models.TokenRequest{
		ShorthandToken: "dead1",
	})

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp models.ErrorResponse
	decodeBody(t, rec, &resp)
	assert.Equal(t, webStatusInvalidDetails, resp.WebStatus)
}

func TestGetToken_PendingResetBlocksLogin(t *testing.T) {
	accounts := &mockAccountService{
		LoginFn: func(_ context.Context, _, _ string, _ bool) (string, error) {
			return "", &service.StateError{UserID: "user-1", State: service.ErrPasswordResetRequired}
		},
	}
	router := newTestRouter(accounts, &mockFileService{})

	rec := performJSON(t, router, http.MethodPost, "/getToken", models.TokenRequest{
		Email:    "user@example.com",
		Password: "hunter2-hunter2",
	})

	require.Equal(t, http.StatusForbidden, rec.Code)

	var resp models.ErrorResponse
	decodeBody(t, rec, &resp)
	assert.Equal(t, webStatusPasswordReset, resp.WebStatus)
	assert.Equal(t, "user-1", resp.UserID)
}

func TestGetToken_UnverifiedBlocksLogin(t *testing.T) {
	accounts := &mockAccountService{
		LoginFn: func(_ context.Context, _, _ string, _ bool) (string, error) {
			return "", &service.StateError{UserID: "user-1", State: service.ErrVerificationRequired}
		},
	}
	router := newTestRouter(accounts, &mockFileService{})

	rec := performJSON(t, router, http.MethodPost, "/getToken", models.TokenRequest{
		Email:    "user@example.com",
		Password: "hunter2-hunter2",
	})

	require.Equal(t, http.StatusForbidden, rec.Code)

	var resp models.ErrorResponse
	decodeBody(t, rec, &resp)
	assert.Equal(t, webStatusVerifyEmail, resp.WebStatus)
	assert.Equal(t, "user-1", resp.UserID)
	assert.Equal(t, noteVerifyAccount, resp.Note)
}

func TestGetToken_UnknownAccount(t *testing.T) {
	accounts := &mockAccountService{
		LoginFn: func(_ context.Context, _, _ string, _ bool) (string, error) {
			return "", service.ErrAccountNotFound
		},
	}
	router := newTestRouter(accounts, &mockFileService{})

	rec := performJSON(t, router, http.MethodPost, "/getToken", models.TokenRequest{
		Email:    "ghost@example.com",
		Password: "hunter2-hunter2",
	})

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp models.ErrorResponse
	decodeBody(t, rec, &resp)
	assert.Equal(t, webStatusNotFound, resp.WebStatus)
	assert.Equal(t, "Account not found.", resp.Error)
}

func TestShorthandToken_Mint(t *testing.T) {
	accounts := &mockAccountService{
		RequestExchangeCodeFn: func(_ context.Context, token string, clear bool) (string, error) {
			assert.Equal(t, "tok", token)
			assert.False(t, clear)
			return "ab1c2", nil
		},
	}
	router := newTestRouter(accounts, &mockFileService{})

	rec := performJSON(t, router, http.MethodPost, "/shorthandToken", models.ShorthandRequest{Token: "tok"})

	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.ShorthandResponse
	decodeBody(t, rec, &resp)
	assert.Equal(t, "ab1c2", resp.ShorthandToken)
}

func TestShorthandToken_Clear(t *testing.T) {
	accounts := &mockAccountService{
		RequestExchangeCodeFn: func(_ context.Context, _ string, clear bool) (string, error) {
			assert.True(t, clear)
			return "", nil
		},
	}
	router := newTestRouter(accounts, &mockFileService{})

	rec := performJSON(t, router, http.MethodPost, "/shorthandToken", models.ShorthandRequest{
		Token: "tok",
		Empty: true,
	})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "cleared", rec.Body.String())
}

func TestCheckShorthandTokenExists(t *testing.T) {
	live := map[string]bool{"ab1c2": true}
	accounts := &mockAccountService{
		CheckExchangeCodeFn: func(_ context.Context, code string) bool {
			return live[code]
		},
	}
	router := newTestRouter(accounts, &mockFileService{})

	rec := performJSON(t, router, http.MethodPost, "/checkShorthandTokenExists",
		models.ShorthandExistsRequest{ShorthandToken: "ab1c2"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"exists":true}`, rec.Body.String())

	rec = performJSON(t, router, http.MethodPost, "/checkShorthandTokenExists",
		models.ShorthandExistsRequest{ShorthandToken: "dead1"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"exists":false}`, rec.Body.String())
}
