package http

import "net/http"

// defaultBodyLimit caps request bodies when no storage quota is configured.
const defaultBodyLimit = 64 << 20

// withBodyLimit caps request bodies relative to the storage quota. Uploads
// arrive base64-encoded inside JSON, so the cap allows the 4/3 expansion
// plus envelope headroom; anything larger could never fit the quota anyway.
func (h *Handler) withBodyLimit(next http.Handler) http.Handler {
	limit := int64(defaultBodyLimit)
	if h.app.QuotaBytes > 0 {
		limit = h.app.QuotaBytes*4/3 + 4096
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, limit)
		next.ServeHTTP(w, r)
	})
}
