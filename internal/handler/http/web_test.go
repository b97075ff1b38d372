package http

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/savekeep/savekeep/internal/service"
	"github.com/savekeep/savekeep/models"
)

func findCookie(t *testing.T, rec *httptest.ResponseRecorder, name string) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestSetTokenCookie_Success(t *testing.T) {
	accounts := &mockAccountService{ResolveSessionFn: resolveAs("tok", "user-1")}
	router := newTestRouter(accounts, &mockFileService{})

	rec := performJSON(t, router, http.MethodPost, "/setTokenCookie", models.SessionRequest{Token: "tok"})

	require.Equal(t, http.StatusOK, rec.Code)

	cookie := findCookie(t, rec, sessionCookie)
	require.NotNil(t, cookie)
	assert.Equal(t, "tok", cookie.Value)
	assert.True(t, cookie.HttpOnly)
	assert.True(t, cookie.Secure)
	assert.Equal(t, sessionCookieMaxAge, cookie.MaxAge)
}

func TestSetTokenCookie_RejectsUnknownToken(t *testing.T) {
	accounts := &mockAccountService{ResolveSessionFn: resolveAs("tok", "user-1")}
	router := newTestRouter(accounts, &mockFileService{})

	rec := performJSON(t, router, http.MethodPost, "/setTokenCookie", models.SessionRequest{Token: "stale"})

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Nil(t, findCookie(t, rec, sessionCookie))
}

func TestDeleteTokenCookie(t *testing.T) {
	router := newTestRouter(&mockAccountService{}, &mockFileService{})

	rec := performJSON(t, router, http.MethodGet, "/deleteTokenCookie", nil)

	require.Equal(t, http.StatusOK, rec.Code)

	cookie := findCookie(t, rec, sessionCookie)
	require.NotNil(t, cookie)
	assert.Empty(t, cookie.Value)
	assert.Negative(t, cookie.MaxAge)
}

func TestCookieToken_SuppliesTokenToHandlers(t *testing.T) {
	accounts := &mockAccountService{ResolveSessionFn: resolveAs("tok", "user-1")}
	router := newTestRouter(accounts, &mockFileService{})

	req := httptest.NewRequest(http.MethodPost, "/getUserID", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookie, Value: "tok"})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"userID":"user-1"}`, rec.Body.String())
}

func TestCookieToken_InvalidCookieClearedNotFatal(t *testing.T) {
	accounts := &mockAccountService{ResolveSessionFn: resolveAs("tok", "user-1")}
	router := newTestRouter(accounts, &mockFileService{})

	req := httptest.NewRequest(http.MethodGet, "/areyouawake", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookie, Value: "stale"})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	// The probe still answers and the bad cookie is expired.
	require.Equal(t, http.StatusOK, rec.Code)

	cookie := findCookie(t, rec, sessionCookie)
	require.NotNil(t, cookie)
	assert.Empty(t, cookie.Value)
	assert.Negative(t, cookie.MaxAge)
}

func TestCookieToken_BodyTokenWins(t *testing.T) {
	owners := map[string]string{"cookie-tok": "cookie-user", "body-tok": "body-user"}
	accounts := &mockAccountService{
		ResolveSessionFn: func(_ context.Context, token string) (string, error) {
			userID, ok := owners[token]
			if !ok {
				return "", service.ErrInvalidToken
			}
			return userID, nil
		},
	}
	router := newTestRouter(accounts, &mockFileService{})

	body := bytes.NewReader([]byte(`{"token":"body-tok"}`))
	req := httptest.NewRequest(http.MethodPost, "/getUserID", body)
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(&http.Cookie{Name: sessionCookie, Value: "cookie-tok"})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"userID":"body-user"}`, rec.Body.String())
}
