package http

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"quiz-session-service/internal/domain"
)

// RequireBearer checks the shared-secret bearer token. The comparison is
// constant-time. Websocket clients cannot set headers from browsers, so a
// token query parameter is accepted as a fallback.
func RequireBearer(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			presented := ""
			if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
				presented = strings.TrimPrefix(auth, "Bearer ")
			}
			if presented == "" {
				presented = r.URL.Query().Get("token")
			}
			if presented == "" || subtle.ConstantTimeCompare([]byte(presented), []byte(token)) != 1 {
				respondError(w, domain.ErrUnauthorized.Error(), http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
