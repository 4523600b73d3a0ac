package middleware

import (
	"context"
	"net/http"
	"strings"

	"linkup/internal/core/domain"
)

type contextKey string

const IdentityKey contextKey = "identity"

// TokenVerifier resolves a bearer credential into a verified identity.
type TokenVerifier interface {
	Verify(token string) (domain.Identity, error)
}

// AuthMiddleware rejects unauthenticated requests before the handler runs.
// The token comes from the Authorization header, or from the "token" query
// parameter for WebSocket upgrades, where browsers cannot set headers.
func AuthMiddleware(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr := bearerToken(r)
			if tokenStr == "" {
				http.Error(w, "Authorization required", http.StatusUnauthorized)
				return
			}
			identity, err := verifier.Verify(tokenStr)
			if err != nil {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			ctx := context.WithValue(r.Context(), IdentityKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// IdentityFromContext returns the verified identity placed by AuthMiddleware.
func IdentityFromContext(ctx context.Context) (domain.Identity, bool) {
	id, ok := ctx.Value(IdentityKey).(domain.Identity)
	return id, ok
}

func bearerToken(r *http.Request) string {
	if authHeader := r.Header.Get("Authorization"); authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && parts[0] == "Bearer" {
			return parts[1]
		}
		return ""
	}
	return r.URL.Query().Get("token")
}
