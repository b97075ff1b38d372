package models

// Request bodies accepted by the HTTP layer. Field validation is driven by
// the `validate` tags (go-playground/validator); the token field is optional
// everywhere because the cookie middleware may supply it instead.

// RegisterRequest creates a new account.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,max=512"`
}

// TokenRequest authenticates a user. Either ShorthandToken is set (exchange
// code consumption) or Email/Password are. New requests a forced token
// rotation, logging out every other holder of the previous token.
type TokenRequest struct {
	Email          string `json:"email" validate:"omitempty,email,max=254"`
	Password       string `json:"password" validate:"omitempty,max=512"`
	New            bool   `json:"new"`
	ShorthandToken string `json:"shorthandToken"`
}

// SessionRequest carries only a session token.
type SessionRequest struct {
	Token string `json:"token"`
}

// ShorthandRequest mints or clears a session-handoff exchange code.
type ShorthandRequest struct {
	Token string `json:"token"`
	Empty bool   `json:"empty"`
}

// ShorthandExistsRequest probes whether an exchange code is live.
type ShorthandExistsRequest struct {
	ShorthandToken string `json:"shorthandToken" validate:"required"`
}

// ChangePasswordRequest sets a new password. Password (the current one) is
// not required while the account is mid password reset.
type ChangePasswordRequest struct {
	Token       string `json:"token"`
	Password    string `json:"password" validate:"omitempty,max=512"`
	NewPassword string `json:"newPassword" validate:"required,max=512"`
}

// ForgotPasswordRequest starts the password reset flow for an email.
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email,max=254"`
}

// VerifyEmailRequest proves ownership of an address with a mailed code.
type VerifyEmailRequest struct {
	UserID string `json:"userID" validate:"required"`
	Code   string `json:"code" validate:"required"`
}

// ChangeEmailRequest moves the account to a new address pending
// re-verification.
type ChangeEmailRequest struct {
	Token    string `json:"token"`
	Password string `json:"password" validate:"required,max=512"`
	Email    string `json:"email" validate:"required,email,max=254"`
}

// DeleteAccountRequest erases the account and all stored files.
type DeleteAccountRequest struct {
	Token    string `json:"token"`
	Password string `json:"password" validate:"required,max=512"`
}

// UploadRequest stores one file. Data is base64-encoded file content.
type UploadRequest struct {
	Token    string `json:"token"`
	Filename string `json:"filename" validate:"required,max=512"`
	Data     string `json:"data" validate:"required"`
}

// GameRequest addresses a top-level game directory (and optionally a file
// beneath it) for list/delete/rename/download operations.
type GameRequest struct {
	Token   string `json:"token"`
	Game    string `json:"game"`
	NewGame string `json:"newGame"`
	File    string `json:"file"`
	ForWeb  bool   `json:"forWeb"`
}

// StatusRequest is the optional body of the liveness endpoint.
type StatusRequest struct {
	Token string `json:"token"`
	Echo  string `json:"echo"`
}
