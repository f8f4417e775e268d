package middleware

import (
	"net/http"

	"github.com/rs/cors"
)

// NewCORSHandler returns a middleware that applies CORS headers based on allowedOrigins.
// Each entry in allowedOrigins must be a full origin (scheme + host, no trailing slash).
// Allowed methods and headers cover the API surface: GET for lookups, POST for
// roster uploads, and the preflight OPTIONS.
func NewCORSHandler(allowedOrigins []string) func(http.Handler) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
		// Browsers hide non-simple response headers unless listed here; the
		// upload page reads the download name and the merge summary headers.
		ExposedHeaders: []string{"Content-Disposition", "X-Merge-Run-Id", "X-Merge-Failed-Rows", "X-Merge-Blank-Rows"},
	})
	return func(next http.Handler) http.Handler {
		return c.Handler(next)
	}
}
