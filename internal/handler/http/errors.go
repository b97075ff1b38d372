// SPDX-License-Identifier: Apache-2.0

package http

import (
	"net/http"

	"github.com/savekeep/savekeep/internal/utils"
	"github.com/savekeep/savekeep/models"
)

// Error bodies mirror the wire format the device clients already parse:
// a JSON object with an "error" message and, where the browser front end
// needs to continue a pending flow, a machine-readable "webStatus" plus
// the affected userID.

const (
	msgSomethingWentWrong = "Something went wrong."
	msgInvalidToken       = "Invalid token."
	msgInvalidLogin       = "Invalid email or password."
	msgInvalidJSON        = "Invalid JSON format."
	msgBodyTooLarge       = "Request body too large."
	msgPathEscape         = "Stop."
)

// webStatus values understood by the browser front end.
const (
	webStatusPasswordReset  = "PASSWORD_RESET"
	webStatusVerifyEmail    = "VERIFY_EMAIL"
	webStatusInvalidDetails = "INVALID_DETAILS"
	webStatusNotFound       = "ACCOUNT_NOT_FOUND"
	webStatusInternal       = "INTERNAL_SERVER_ERROR"
)

func respondError(w http.ResponseWriter, statusCode int, message string) {
	utils.WriteJSON(w, models.ErrorResponse{Error: message}, statusCode)
}

func respondWebError(w http.ResponseWriter, statusCode int, webStatus, message string) {
	utils.WriteJSON(w, models.ErrorResponse{Error: message, WebStatus: webStatus}, statusCode)
}

// respondState reports a 403 account-state block (pending verification or
// password reset) together with the user ID the front end needs to continue.
func respondState(w http.ResponseWriter, webStatus, userID, note string) {
	utils.WriteJSON(w, models.ErrorResponse{
		WebStatus: webStatus,
		UserID:    userID,
		Note:      note,
	}, http.StatusForbidden)
}
