package http

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/savekeep/savekeep/models"
)

func TestAreYouAwake_Anonymous(t *testing.T) {
	router := newTestRouter(&mockAccountService{}, &mockFileService{})

	rec := performJSON(t, router, http.MethodGet, "/areyouawake", nil)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.StatusResponse
	decodeBody(t, rec, &resp)
	assert.Equal(t, "I am awake", resp.Yes)
	assert.Equal(t, int64(1<<20), resp.MaxUserDirSize)
	assert.Nil(t, resp.User)
}

func TestAreYouAwake_AuthenticatedAddsUserBlock(t *testing.T) {
	accounts := &mockAccountService{
		ResolveSessionFn: resolveAs("tok", "user-1"),
		AccountInfoFn: func(_ context.Context, userID string) (models.User, int64, error) {
			assert.Equal(t, "user-1", userID)
			return models.User{ID: userID, Email: "user@example.com"}, 4096, nil
		},
	}
	router := newTestRouter(accounts, &mockFileService{})

	rec := performJSON(t, router, http.MethodPost, "/areyouawake", models.StatusRequest{Token: "tok"})

	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.StatusResponse
	decodeBody(t, rec, &resp)
	require.NotNil(t, resp.User)
	assert.Equal(t, "user-1", resp.User.ID)
	assert.Equal(t, "user@example.com", resp.User.Email)
	assert.Equal(t, int64(4096), resp.User.DirectorySize)
}

func TestAreYouAwake_StaleTokenStillAnswers(t *testing.T) {
	accounts := &mockAccountService{ResolveSessionFn: resolveAs("tok", "user-1")}
	router := newTestRouter(accounts, &mockFileService{})

	rec := performJSON(t, router, http.MethodPost, "/areyouawake", models.StatusRequest{Token: "stale"})

	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.StatusResponse
	decodeBody(t, rec, &resp)
	assert.Equal(t, "I am awake", resp.Yes)
	assert.Nil(t, resp.User)
}

func TestAreYouAwake_Echo(t *testing.T) {
	router := newTestRouter(&mockAccountService{}, &mockFileService{})

	rec := performJSON(t, router, http.MethodPost, "/areyouawake", models.StatusRequest{Echo: "ping"})

	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.StatusResponse
	decodeBody(t, rec, &resp)
	assert.Equal(t, "ping", resp.Echo)
}

func TestAreYouAwake_OversizedEchoDropped(t *testing.T) {
	router := newTestRouter(&mockAccountService{}, &mockFileService{})

	rec := performJSON(t, router, http.MethodPost, "/areyouawake", models.StatusRequest{
		Echo: strings.Repeat("x", maxEchoLength),
	})

	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.StatusResponse
	decodeBody(t, rec, &resp)
	assert.Empty(t, resp.Echo)
}
