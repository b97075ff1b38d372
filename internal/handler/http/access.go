package http

import (
	"errors"
	"net/http"

	"github.com/savekeep/savekeep/internal/logger"
	"github.com/savekeep/savekeep/internal/service"
	"github.com/savekeep/savekeep/internal/utils"
	"github.com/savekeep/savekeep/models"
)

const noteVerifyAccount = "This account must be verified before it can be used."

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var req models.RegisterRequest
	if !h.decode(w, r, &req, msgInvalidLogin) {
		return
	}

	userID, token, err := h.services.AccountService.Register(ctx, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidDataProvided):
			log.Err(err).Msg("invalid registration data")
			respondError(w, http.StatusBadRequest, msgInvalidLogin)
		case errors.Is(err, service.ErrEmailTaken):
			log.Err(err).Msg("email already registered")
			respondError(w, http.StatusConflict, "Email already in use.")
		default:
			log.Err(err).Msg("unexpected error during registration")
			respondError(w, http.StatusInternalServerError, msgSomethingWentWrong)
		}
		return
	}

	// With verification disabled the account is immediately usable.
	if token != "" {
		utils.WriteJSON(w, models.TokenResponse{Token: token}, http.StatusOK)
		return
	}

	utils.WriteJSON(w, models.RegisterResponse{UserID: userID, Note: noteVerifyAccount}, http.StatusOK)
}

func (h *Handler) getUserID(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var req models.SessionRequest
	if !h.decode(w, r, &req, msgInvalidToken) {
		return
	}

	token := sessionToken(r, req.Token)
	if token == "" {
		respondError(w, http.StatusBadRequest, msgInvalidToken)
		return
	}

	userID, err := h.services.AccountService.ResolveSession(ctx, token)
	if err != nil {
		log.Err(err).Msg("session resolution failed")
		utils.WriteJSON(w, models.UserIDResponse{UserID: "unknown"}, http.StatusUnauthorized)
		return
	}

	utils.WriteJSON(w, models.UserIDResponse{UserID: userID}, http.StatusOK)
}

func (h *Handler) getToken(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var req models.TokenRequest
	if !h.decode(w, r, &req, msgInvalidLogin) {
		return
	}

	// An exchange code logs in without a password. An unknown code falls
	// through to the password branch, which then rejects the request.
	if req.ShorthandToken != "" {
		if token, err := h.services.AccountService.ConsumeExchangeCode(ctx, req.ShorthandToken); err == nil {
			utils.WriteJSON(w, models.TokenResponse{Token: token}, http.StatusOK)
			return
		}
	}

	if req.Email == "" || req.Password == "" {
		respondWebError(w, http.StatusBadRequest, webStatusInvalidDetails, msgInvalidLogin)
		return
	}

	token, err := h.services.AccountService.Login(ctx, req.Email, req.Password, req.New)
	if err != nil {
		var stateErr *service.StateError
		switch {
		case errors.As(err, &stateErr) && errors.Is(err, service.ErrPasswordResetRequired):
			log.Err(err).Msg("login blocked by pending password reset")
			respondState(w, webStatusPasswordReset, stateErr.UserID,
				"This account requires its password to be reset. Please check your email.")
		case errors.As(err, &stateErr) && errors.Is(err, service.ErrVerificationRequired):
			log.Err(err).Msg("login blocked by pending verification")
			respondState(w, webStatusVerifyEmail, stateErr.UserID, noteVerifyAccount)
		case errors.Is(err, service.ErrAccountNotFound):
			log.Err(err).Msg("no account for email")
			respondWebError(w, http.StatusBadRequest, webStatusNotFound, "Account not found.")
		case errors.Is(err, service.ErrInvalidCredentials) || errors.Is(err, service.ErrInvalidDataProvided):
			log.Err(err).Msg("invalid credentials")
			respondWebError(w, http.StatusBadRequest, webStatusInvalidDetails, msgInvalidLogin)
		default:
			log.Err(err).Msg("unexpected error during login")
			respondWebError(w, http.StatusInternalServerError, webStatusInternal, msgSomethingWentWrong)
		}
		return
	}

	utils.WriteJSON(w, models.TokenResponse{Token: token}, http.StatusOK)
}

func (h *Handler) shorthandToken(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var req models.ShorthandRequest
	if !h.decode(w, r, &req, msgInvalidToken) {
		return
	}

	token := sessionToken(r, req.Token)
	if token == "" {
		respondError(w, http.StatusBadRequest, msgInvalidToken)
		return
	}

	code, err := h.services.AccountService.RequestExchangeCode(ctx, token, req.Empty)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidToken):
			log.Err(err).Msg("session resolution failed")
			respondError(w, http.StatusUnauthorized, msgInvalidToken)
		default:
			log.Err(err).Msg("unexpected error minting exchange code")
			respondError(w, http.StatusInternalServerError, msgSomethingWentWrong)
		}
		return
	}

	if req.Empty {
		w.Write([]byte("cleared"))
		return
	}

	utils.WriteJSON(w, models.ShorthandResponse{ShorthandToken: code}, http.StatusOK)
}

func (h *Handler) checkShorthandTokenExists(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req models.ShorthandExistsRequest
	if !h.decode(w, r, &req, "Invalid shorthand token.") {
		return
	}

	exists := h.services.AccountService.CheckExchangeCode(ctx, req.ShorthandToken)
	utils.WriteJSON(w, models.ExistsResponse{Exists: exists}, http.StatusOK)
}
