package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/httprate"
)

// RateLimitByIP limits each client IP to perMinute requests per minute.
// A non-positive limit disables limiting.
func RateLimitByIP(perMinute int, onLimit http.HandlerFunc) func(http.Handler) http.Handler {
	if perMinute <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	opts := []httprate.Option{httprate.WithKeyFuncs(httprate.KeyByIP)}
	if onLimit != nil {
		opts = append(opts, httprate.WithLimitHandler(onLimit))
	}
	return httprate.Limit(perMinute, time.Minute, opts...)
}
