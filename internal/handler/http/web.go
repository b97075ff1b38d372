package http

import (
	"net/http"
	"time"

	"github.com/savekeep/savekeep/internal/logger"
	"github.com/savekeep/savekeep/internal/utils"
	"github.com/savekeep/savekeep/models"
)

const sessionCookieMaxAge = int(365 * 24 * time.Hour / time.Second)

// setTokenCookie stores a verified session token in a browser cookie so
// the web front end can authenticate without keeping the token in script.
func (h *Handler) setTokenCookie(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var req models.SessionRequest
	if !h.decode(w, r, &req, msgInvalidToken) {
		return
	}

	if req.Token == "" {
		respondError(w, http.StatusBadRequest, msgInvalidToken)
		return
	}

	if _, err := h.services.AccountService.ResolveSession(ctx, req.Token); err != nil {
		log.Err(err).Msg("session resolution failed")
		respondError(w, http.StatusUnauthorized, msgInvalidToken)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    req.Token,
		Path:     "/",
		MaxAge:   sessionCookieMaxAge,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
	})

	utils.WriteJSON(w, models.SuccessResponse{Success: true}, http.StatusOK)
}

func (h *Handler) deleteTokenCookie(w http.ResponseWriter, _ *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
	})

	utils.WriteJSON(w, models.SuccessResponse{Success: true}, http.StatusOK)
}
