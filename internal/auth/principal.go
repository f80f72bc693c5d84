package auth

import "context"

type contextKey string

const principalContextKey contextKey = "principal"

// SystemPrincipal is recorded for writes made outside an HTTP request,
// such as seeding from the command line.
const SystemPrincipal = "system"

// WithPrincipal returns a context that attributes writes to principal.
func WithPrincipal(ctx context.Context, principal string) context.Context {
	return context.WithValue(ctx, principalContextKey, principal)
}

// PrincipalFromContext returns the principal stored by WithPrincipal, or
// SystemPrincipal when there is none.
func PrincipalFromContext(ctx context.Context) string {
	if p, ok := ctx.Value(principalContextKey).(string); ok && p != "" {
		return p
	}
	return SystemPrincipal
}
