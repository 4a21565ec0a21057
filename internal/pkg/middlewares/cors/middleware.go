// Package cors answers browser preflight requests for the configured origins.
package cors

import (
	"net/http"
	"slices"
	"strings"
)

const (
	allowHeaders = "Content-Type, Authorization"
	maxAge       = "600"
)

// Middleware adds CORS headers for allowed origins. "*" allows any origin. Allowed methods
// are filled in by mux.CORSMethodMiddleware, which must run before this one.
func Middleware(origins []string) func(http.Handler) http.Handler {
	allowAny := slices.Contains(origins, "*")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin != "" && (allowAny || slices.ContainsFunc(origins, func(o string) bool {
				return strings.EqualFold(o, origin)
			})) {
				h := w.Header()
				if allowAny {
					h.Set("Access-Control-Allow-Origin", "*")
				} else {
					h.Set("Access-Control-Allow-Origin", origin)
					h.Add("Vary", "Origin")
				}
				h.Set("Access-Control-Allow-Headers", allowHeaders)
				h.Set("Access-Control-Max-Age", maxAge)
			}

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
