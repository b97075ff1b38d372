// Package utils contains small helpers shared across layers.
//
// Includes tools for working with context, type-safe keys, JSON response
// writing, and short-code generation.
package utils

import "context"

// contextKey is a private type for context keys.
// Using a dedicated type instead of a plain string prevents key collisions
// with other packages that also store values in context.
type contextKey string

// String returns a readable representation of the context key.
// Useful for debugging and logging.
func (c contextKey) String() string {
	return "context key: " + string(c)
}

// UserIDCtxKey is the context key under which the authenticated user's ID
// is stored. Used together with GetUserIDFromContext for type-safe
// retrieval of the user ID in downstream layers.
const UserIDCtxKey contextKey = "userID"

// SetUserIDToContext returns a child context carrying the authenticated
// user's ID.
func SetUserIDToContext(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, UserIDCtxKey, userID)
}

// GetUserIDFromContext extracts the authenticated user's ID from the
// context.
//
// Returns the user ID and an ok flag:
//   - ok == true  — value is found and has the correct string type
//   - ok == false — value is missing or has an unexpected type
func GetUserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(UserIDCtxKey).(string)
	return userID, ok
}

// SessionTokenCtxKey is the context key under which the cookie middleware
// stores a session token resolved from the browser cookie, for handlers
// whose request body did not carry one.
const SessionTokenCtxKey contextKey = "sessionToken"

// SetSessionTokenToContext returns a child context carrying a session token.
func SetSessionTokenToContext(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, SessionTokenCtxKey, token)
}

// GetSessionTokenFromContext extracts a session token from the context.
func GetSessionTokenFromContext(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(SessionTokenCtxKey).(string)
	return token, ok
}
