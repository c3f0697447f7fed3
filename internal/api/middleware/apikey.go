package middleware

import (
	"crypto/subtle"
	"net/http"
	"os"

	"github.com/steven6143/stock-profit-calculator/internal/api/response"
)

// APIKey guards internal endpoints (the refresh trigger) with the
// X-API-Key header, checked against the INTERNAL_API_KEY environment
// variable. When no key is configured the guard is disabled, which is the
// expected state for a single-user local deployment.
func APIKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		expected := os.Getenv("INTERNAL_API_KEY")
		if expected == "" {
			next.ServeHTTP(w, r)
			return
		}

		provided := r.Header.Get("X-API-Key")
		if provided == "" {
			response.Error(w, http.StatusUnauthorized, "unauthorized", "Missing API key")
			return
		}
		if subtle.ConstantTimeCompare([]byte(provided), []byte(expected)) != 1 {
			response.Error(w, http.StatusUnauthorized, "unauthorized", "Invalid API key")
			return
		}

		next.ServeHTTP(w, r)
	})
}
