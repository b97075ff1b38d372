package http

import (
	"net/http"
	"time"

	"github.com/savekeep/savekeep/internal/logger"
	"github.com/savekeep/savekeep/internal/utils"
	"github.com/savekeep/savekeep/models"
)

const maxEchoLength = 100

// areYouAwake is the liveness probe. It always answers; a valid token adds
// the caller's account block (ID, email, storage usage) to the response.
func (h *Handler) areYouAwake(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var req models.StatusRequest
	if !h.decode(w, r, &req, "Invalid request.") {
		return
	}

	now := time.Now()
	zone, offsetSeconds := now.Zone()

	resp := models.StatusResponse{
		Yes:                "I am awake",
		Timezone:           zone,
		UTCOffsetInMinutes: -offsetSeconds / 60,
		MaxUserDirSize:     h.app.QuotaBytes,
	}

	if token := sessionToken(r, req.Token); token != "" {
		if userID, err := h.services.AccountService.ResolveSession(ctx, token); err == nil {
			user, usage, err := h.services.AccountService.AccountInfo(ctx, userID)
			if err != nil {
				log.Err(err).Msg("account info lookup failed")
			} else {
				resp.User = &models.StatusUserInfo{
					ID:            userID,
					Email:         user.Email,
					DirectorySize: usage,
				}
			}
		}
	}

	if req.Echo != "" && len(req.Echo) < maxEchoLength {
		resp.Echo = req.Echo
	}

	utils.WriteJSON(w, resp, http.StatusOK)
}
