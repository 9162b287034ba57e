package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

// CORS allows every origin, method and header. Credentials are never
// allowed, so browsers send bearer tokens explicitly.
func CORS() func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS", "HEAD"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{"WWW-Authenticate", "Mcp-Session-Id"},
		AllowCredentials: false,
		MaxAge:           300,
	})
}
