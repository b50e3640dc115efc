package middleware

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"strings"
)

// APIKeyQueryParam carries the key on websocket upgrades
const APIKeyQueryParam = "api_key"

// APIKeyAuth creates middleware that requires apiKey in headerName on /api
// routes and the /ws change feed. Health endpoints stay open, and an empty
// apiKey disables the check.
func APIKeyAuth(apiKey, headerName string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if apiKey == "" {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			path := r.URL.Path
			if path == "/health" || path == "/api/health" {
				next.ServeHTTP(w, r)
				return
			}

			isFeed := path == "/ws"
			if !isFeed && !strings.HasPrefix(path, "/api") {
				next.ServeHTTP(w, r)
				return
			}

			providedKey := r.Header.Get(headerName)
			if providedKey == "" && isFeed {
				// Browsers cannot set headers on a websocket handshake
				providedKey = r.URL.Query().Get(APIKeyQueryParam)
			}
			if providedKey == "" {
				unauthorized(w, "API key is required.")
				return
			}

			if !constantTimeEquals(apiKey, providedKey) {
				unauthorized(w, "Invalid API key.")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// constantTimeEquals performs a constant-time string comparison
func constantTimeEquals(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
