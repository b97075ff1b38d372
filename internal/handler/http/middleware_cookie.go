package http

import (
	"net/http"

	"github.com/savekeep/savekeep/internal/logger"
	"github.com/savekeep/savekeep/internal/utils"
)

// sessionCookie is the browser cookie carrying a session token.
const sessionCookie = "token"

// withCookieToken resolves the browser session cookie before the handlers
// run. A valid cookie makes its token available through the request context
// for handlers whose body carries none; an invalid cookie is cleared and
// the request proceeds unauthenticated instead of failing.
func (h *Handler) withCookieToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(sessionCookie)
		if err != nil || cookie.Value == "" {
			next.ServeHTTP(w, r)
			return
		}

		if _, err := h.services.AccountService.ResolveSession(r.Context(), cookie.Value); err != nil {
			logger.FromRequest(r).Warn().Err(err).Msg("clearing invalid session cookie")
			http.SetCookie(w, &http.Cookie{
				Name:     sessionCookie,
				Value:    "",
				Path:     "/",
				MaxAge:   -1,
				HttpOnly: true,
				Secure:   true,
				SameSite: http.SameSiteStrictMode,
			})
			next.ServeHTTP(w, r)
			return
		}

		ctx := utils.SetSessionTokenToContext(r.Context(), cookie.Value)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
