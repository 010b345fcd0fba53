package chi

import (
	"context"
	"net/http"
	"strings"
)

// OwnerHeader carries the owner identity when API keys are not configured.
const OwnerHeader = "X-Owner-ID"

// exemptPaths are routes that bypass authentication (health, metrics).
var exemptPaths = map[string]struct{}{
	"/health":  {},
	"/metrics": {},
}

type ownerKey struct{}

// ContextWithOwner stores the authenticated owner identity.
func ContextWithOwner(ctx context.Context, owner string) context.Context {
	return context.WithValue(ctx, ownerKey{}, owner)
}

// OwnerFromContext returns the owner identity, or "" when none was resolved.
func OwnerFromContext(ctx context.Context) string {
	owner, _ := ctx.Value(ownerKey{}).(string)
	return owner
}

// OwnerAuthMiddleware resolves the owner whose library a request searches.
// With apiKeys configured, a Bearer token selects the owner; otherwise the
// X-Owner-ID header is trusted (single-user and development setups).
func OwnerAuthMiddleware(apiKeys map[string]string) func(http.Handler) http.Handler {
	owners := make(map[string]string, len(apiKeys))
	for k, owner := range apiKeys {
		if k != "" && owner != "" {
			owners[k] = owner
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := exemptPaths[r.URL.Path]; ok {
				next.ServeHTTP(w, r)
				return
			}

			if len(owners) == 0 {
				owner := strings.TrimSpace(r.Header.Get(OwnerHeader))
				if owner == "" {
					writeError(w, http.StatusUnauthorized, CodeUnauthorized, "missing "+OwnerHeader+" header")
					return
				}
				next.ServeHTTP(w, r.WithContext(ContextWithOwner(r.Context(), owner)))
				return
			}

			auth := r.Header.Get("Authorization")
			if auth == "" {
				writeError(w, http.StatusUnauthorized, CodeUnauthorized, "missing authorization header")
				return
			}

			const bearerPrefix = "Bearer "
			if !strings.HasPrefix(auth, bearerPrefix) {
				writeError(w, http.StatusUnauthorized, CodeUnauthorized, "authorization header must use Bearer scheme")
				return
			}

			owner, ok := owners[auth[len(bearerPrefix):]]
			if !ok {
				writeError(w, http.StatusUnauthorized, CodeUnauthorized, "invalid api key")
				return
			}

			next.ServeHTTP(w, r.WithContext(ContextWithOwner(r.Context(), owner)))
		})
	}
}
