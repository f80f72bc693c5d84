package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/httprate"

	pkghttp "github.com/BradenHooton/roster/pkg/http"
)

// RateLimitConfig holds rate limiting configuration. Proxies decides
// which forwarding headers may name the client; nil keys on the peer.
type RateLimitConfig struct {
	RequestsPerMinute int
	Proxies           *pkghttp.IPConfig
}

// RateLimitByIP limits requests per client IP, resolved the same way the
// request log resolves it. A non-positive limit disables limiting.
func RateLimitByIP(config RateLimitConfig) func(next http.Handler) http.Handler {
	if config.RequestsPerMinute <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	return httprate.Limit(
		config.RequestsPerMinute,
		time.Minute,
		httprate.WithKeyFuncs(func(r *http.Request) (string, error) {
			return pkghttp.ExtractClientIP(r, config.Proxies), nil
		}),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			pkghttp.WriteTooManyRequests(w, "Rate limit exceeded")
		}),
	)
}
