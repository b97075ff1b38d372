package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/savekeep/savekeep/internal/logger"
	"github.com/savekeep/savekeep/internal/service"
	"github.com/savekeep/savekeep/internal/utils"
	"github.com/savekeep/savekeep/models"
)

func (h *Handler) changePassword(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var req models.ChangePasswordRequest
	if !h.decode(w, r, &req, "Invalid token, current password or new password.") {
		return
	}

	token := sessionToken(r, req.Token)
	if token == "" {
		respondWebError(w, http.StatusBadRequest, "INVALID_CREDENTIALS",
			"Invalid token, current password or new password.")
		return
	}

	err := h.services.AccountService.ChangePassword(ctx, token, req.Password, req.NewPassword)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidToken):
			log.Err(err).Msg("session resolution failed")
			respondError(w, http.StatusUnauthorized, msgInvalidToken)
		case errors.Is(err, service.ErrInvalidCredentials):
			log.Err(err).Msg("old password mismatch")
			respondWebError(w, http.StatusUnauthorized, "INCORRECT_PASSWORD", "Incorrect password.")
		case errors.Is(err, service.ErrInvalidDataProvided):
			log.Err(err).Msg("invalid new password")
			respondWebError(w, http.StatusBadRequest, "INVALID_CREDENTIALS",
				"Invalid token, current password or new password.")
		default:
			log.Err(err).Msg("unexpected error during password change")
			respondError(w, http.StatusInternalServerError, msgSomethingWentWrong)
		}
		return
	}

	utils.WriteJSON(w, models.SuccessResponse{Success: true, Note: "Password changed."}, http.StatusOK)
}

func (h *Handler) forgotPassword(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var req models.ForgotPasswordRequest
	if !h.decode(w, r, &req, "Invalid email.") {
		return
	}

	err := h.services.AccountService.ForgotPassword(ctx, req.Email)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrVerificationRequired):
			log.Err(err).Msg("reset requested for unverified account")
			respondError(w, http.StatusUnauthorized, "Verify your email first.")
		case errors.Is(err, service.ErrAccountNotFound) || errors.Is(err, service.ErrInvalidDataProvided):
			log.Err(err).Msg("reset requested for unknown email")
			respondError(w, http.StatusBadRequest, "Invalid email.")
		default:
			log.Err(err).Msg("unexpected error during password reset request")
			respondError(w, http.StatusInternalServerError, msgSomethingWentWrong)
		}
		return
	}

	utils.WriteJSON(w, models.SuccessResponse{
		Success: true,
		Note:    "Check your email for a link to reset your password.",
	}, http.StatusOK)
}

func (h *Handler) verifyEmail(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var req models.VerifyEmailRequest
	if !h.decode(w, r, &req, "Invalid userID or code.") {
		return
	}

	token, err := h.services.AccountService.VerifyEmail(ctx, strings.ToLower(req.UserID), req.Code)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCode):
			log.Err(err).Msg("verification code mismatch")
			respondError(w, http.StatusBadRequest, "Invalid code.")
		case errors.Is(err, service.ErrInvalidDataProvided):
			log.Err(err).Msg("invalid verification request")
			respondError(w, http.StatusBadRequest, "Invalid userID or code.")
		default:
			log.Err(err).Msg("unexpected error during email verification")
			respondError(w, http.StatusInternalServerError, msgSomethingWentWrong)
		}
		return
	}

	utils.WriteJSON(w, models.TokenResponse{Token: token}, http.StatusOK)
}

func (h *Handler) changeEmail(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var req models.ChangeEmailRequest
	if !h.decode(w, r, &req, "Invalid token, password or email.") {
		return
	}

	token := sessionToken(r, req.Token)
	if token == "" {
		respondError(w, http.StatusBadRequest, "Invalid token, password or email.")
		return
	}

	err := h.services.AccountService.ChangeEmail(ctx, token, req.Password, req.Email)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidToken):
			log.Err(err).Msg("session resolution failed")
			respondError(w, http.StatusUnauthorized, msgInvalidToken)
		case errors.Is(err, service.ErrVerificationRequired):
			log.Err(err).Msg("email change requested for unverified account")
			respondError(w, http.StatusUnauthorized, "Verify your email first.")
		case errors.Is(err, service.ErrResetInProgress):
			log.Err(err).Msg("email change blocked by pending password reset")
			respondError(w, http.StatusForbidden, "Finish resetting your password first.")
		case errors.Is(err, service.ErrInvalidCredentials):
			log.Err(err).Msg("password mismatch")
			respondError(w, http.StatusUnauthorized, "Incorrect password.")
		case errors.Is(err, service.ErrEmailTaken):
			log.Err(err).Msg("new email already registered")
			respondError(w, http.StatusConflict, "Email already in use.")
		case errors.Is(err, service.ErrInvalidDataProvided):
			log.Err(err).Msg("invalid email change request")
			respondError(w, http.StatusBadRequest, "Invalid token, password or email.")
		default:
			log.Err(err).Msg("unexpected error during email change")
			respondError(w, http.StatusInternalServerError, msgSomethingWentWrong)
		}
		return
	}

	utils.WriteJSON(w, models.SuccessResponse{
		Success: true,
		Note:    "Check your email for a verification code.",
	}, http.StatusOK)
}

func (h *Handler) deleteAccount(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var req models.DeleteAccountRequest
	if !h.decode(w, r, &req, "Invalid token or password.") {
		return
	}

	token := sessionToken(r, req.Token)
	if token == "" {
		respondError(w, http.StatusBadRequest, "Invalid token or password.")
		return
	}

	err := h.services.AccountService.DeleteAccount(ctx, token, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidToken):
			log.Err(err).Msg("session resolution failed")
			respondError(w, http.StatusUnauthorized, msgInvalidToken)
		case errors.Is(err, service.ErrInvalidCredentials):
			log.Err(err).Msg("password mismatch")
			respondError(w, http.StatusUnauthorized, "Incorrect password.")
		case errors.Is(err, service.ErrResetInProgress):
			log.Err(err).Msg("deletion blocked by pending password reset")
			respondError(w, http.StatusForbidden, "Finish resetting your password first.")
		case errors.Is(err, service.ErrInvalidDataProvided):
			log.Err(err).Msg("invalid account deletion request")
			respondError(w, http.StatusBadRequest, "Invalid token or password.")
		default:
			log.Err(err).Msg("unexpected error during account deletion")
			respondError(w, http.StatusInternalServerError, msgSomethingWentWrong)
		}
		return
	}

	utils.WriteJSON(w, models.SuccessResponse{Success: true, Note: "Goodbye."}, http.StatusOK)
}
