package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/BradenHooton/roster/internal/auth"
	pkghttp "github.com/BradenHooton/roster/pkg/http"
	pkglogger "github.com/BradenHooton/roster/pkg/logger"
)

// SecureLogger logs one line per request with sensitive query values
// redacted. Client IPs honour X-Forwarded-For only from trusted proxies.
func SecureLogger(logger *slog.Logger, ipConfig *pkghttp.IPConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			wrapped := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			// The principal is set further down the chain; capture it on the way back.
			var principal string
			next.ServeHTTP(wrapped, r.WithContext(withPrincipalSink(r.Context(), &principal)))

			path := r.URL.Path
			if q := pkglogger.SanitizeQuery(r.URL.RawQuery); q != "" {
				path += "?" + q
			}

			level := slog.LevelInfo
			if wrapped.Status() >= http.StatusInternalServerError {
				level = slog.LevelError
			}

			logger.LogAttrs(context.Background(), level, "http_request",
				slog.String("method", r.Method),
				slog.String("path", path),
				slog.Int("status", wrapped.Status()),
				slog.Int("bytes", wrapped.BytesWritten()),
				slog.String("duration", time.Since(start).String()),
				slog.String("request_id", middleware.GetReqID(r.Context())),
				slog.String("client_ip", pkghttp.ExtractClientIP(r, ipConfig)),
				slog.String("principal", principal),
			)
		})
	}
}

type principalSinkKey struct{}

func withPrincipalSink(ctx context.Context, dst *string) context.Context {
	return context.WithValue(ctx, principalSinkKey{}, dst)
}

// CapturePrincipal reports the request principal back to SecureLogger. It
// must run after auth.PrincipalMiddleware.
func CapturePrincipal(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if dst, ok := r.Context().Value(principalSinkKey{}).(*string); ok {
			*dst = auth.PrincipalFromContext(r.Context())
		}
		next.ServeHTTP(w, r)
	})
}
