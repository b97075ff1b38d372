package models

// ErrorResponse is the uniform error body returned by every endpoint.
// WebStatus carries a machine-readable status for the browser front end;
// UserID accompanies the statuses that let the caller continue a pending
// flow (password reset, email verification).
type ErrorResponse struct {
	Error     string `json:"error"`
	WebStatus string `json:"webStatus,omitempty"`
	UserID    string `json:"userID,omitempty"`
	Note      string `json:"note,omitempty"`
}

// SuccessResponse acknowledges a state-changing operation.
type SuccessResponse struct {
	Success bool   `json:"success"`
	Note    string `json:"note,omitempty"`
	Message string `json:"message,omitempty"`
}

// TokenResponse returns an issued or retrieved session token.
type TokenResponse struct {
	Token string `json:"token"`
}

// RegisterResponse acknowledges registration of an unverified account.
type RegisterResponse struct {
	UserID string `json:"userID"`
	Note   string `json:"note,omitempty"`
}

// UserIDResponse resolves a session token to its owner.
type UserIDResponse struct {
	UserID string `json:"userID"`
}

// ShorthandResponse returns a freshly minted exchange code.
type ShorthandResponse struct {
	ShorthandToken string `json:"shorthandToken"`
}

// ExistsResponse reports whether an exchange code is live.
type ExistsResponse struct {
	Exists bool `json:"exists"`
}

// GamesResponse lists top-level game directories. Games holds plain names
// for device clients or [name, mtime, size] triples for the web view, so it
// is typed loosely on purpose.
type GamesResponse struct {
	Games []any `json:"games"`
}

// SavesResponse lists the immediate files of one game directory.
type SavesResponse struct {
	Saves []string `json:"saves"`
}

// FilesResponse lists every file beneath a directory, relative to it.
type FilesResponse struct {
	Files []string `json:"files"`
}

// StatusUserInfo is the authenticated block of the liveness response.
type StatusUserInfo struct {
	ID            string `json:"id"`
	Email         string `json:"email,omitempty"`
	DirectorySize int64  `json:"directorySize"`
}

// StatusResponse is the body of the liveness endpoint.
type StatusResponse struct {
	Yes                string          `json:"yes"`
	Timezone           string          `json:"timezone"`
	UTCOffsetInMinutes int             `json:"UTCOffsetInMinutes"`
	MaxUserDirSize     int64           `json:"maxUserDirSize"`
	User               *StatusUserInfo `json:"user,omitempty"`
	Echo               string          `json:"echo,omitempty"`
}
