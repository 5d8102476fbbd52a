package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gorilla/mux"
)

// BasicAuth gates every route behind HTTP basic auth. The tool is a
// single-operator admin surface, one credential pair is all it needs.
func BasicAuth(username, password string) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, pass, ok := r.BasicAuth()
			if !ok || !constantTimeEqual(user, username) || !constantTimeEqual(pass, password) {
				w.Header().Set("WWW-Authenticate", `Basic realm="Login Required"`)
				http.Error(w, "authorization required", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func constantTimeEqual(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
