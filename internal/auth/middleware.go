package auth

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	pkghttp "github.com/BradenHooton/roster/pkg/http"
)

// PrincipalMiddleware attributes each request to a principal.
//
// A bearer token, when present and tm is configured, must be valid; its
// subject becomes the principal. Requests without a token get a random
// UUID. With tm nil the Authorization header is ignored.
func PrincipalMiddleware(tm *TokenManager, logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal := uuid.New().String()

			if authHeader := r.Header.Get("Authorization"); authHeader != "" && tm != nil {
				parts := strings.SplitN(authHeader, " ", 2)
				if len(parts) != 2 || parts[0] != "Bearer" {
					pkghttp.WriteUnauthorized(w, "invalid authorization header format")
					return
				}

				subject, err := tm.ValidateToken(parts[1])
				if err != nil {
					logger.Warn("rejected bearer token",
						slog.String("path", r.URL.Path),
						slog.Any("error", err),
					)
					pkghttp.WriteUnauthorized(w, "invalid or expired token")
					return
				}
				principal = subject
			}

			ctx := WithPrincipal(r.Context(), principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
