package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/savekeep/savekeep/internal/logger"
	"github.com/savekeep/savekeep/internal/utils"
)

// decode parses and validates the JSON request body into dst. An empty body
// is allowed so that cookie-authenticated requests can omit it; the
// `validate` struct tags then reject any genuinely missing fields, reported
// with the endpoint's own invalidMsg. Returns false after writing the error
// response.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any, invalidMsg string) bool {
	log := logger.FromRequest(r)

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			log.Err(err).Msg("request body over limit")
			respondError(w, http.StatusRequestEntityTooLarge, msgBodyTooLarge)
			return false
		}

		log.Err(err).Msg("invalid JSON was passed")
		respondError(w, http.StatusBadRequest, msgInvalidJSON)
		return false
	}

	if err := h.validate.Struct(dst); err != nil {
		log.Err(err).Msg("request validation failed")
		respondError(w, http.StatusBadRequest, invalidMsg)
		return false
	}

	return true
}

// sessionToken picks the session token for a request: the body token when
// present, otherwise the one the cookie middleware resolved.
func sessionToken(r *http.Request, bodyToken string) string {
	if bodyToken != "" {
		return bodyToken
	}
	if token, ok := utils.GetSessionTokenFromContext(r.Context()); ok {
		return token
	}
	return ""
}

// requireUser resolves the request's session token to its owning user ID.
// A missing token is a 400 and an unknown one a 401, both already written
// when ok is false.
func (h *Handler) requireUser(w http.ResponseWriter, r *http.Request, bodyToken string) (string, bool) {
	log := logger.FromRequest(r)

	token := sessionToken(r, bodyToken)
	if token == "" {
		respondError(w, http.StatusBadRequest, msgInvalidToken)
		return "", false
	}

	userID, err := h.services.AccountService.ResolveSession(r.Context(), token)
	if err != nil {
		log.Err(err).Msg("session resolution failed")
		respondError(w, http.StatusUnauthorized, msgInvalidToken)
		return "", false
	}

	return userID, true
}
