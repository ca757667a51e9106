package middleware

import (
	"context"
	"net/http"

	"github.com/commercekit/custsession"
)

type contextKey int

const claimsKey contextKey = iota

// ClaimsFromContext retrieves the claims injected by RequirePermission.
func ClaimsFromContext(ctx context.Context) (*custsession.Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(*custsession.Claims)
	return claims, ok
}

// RequirePermission guards a handler chain behind a permission check. A
// request without a session whose role carries perm is rejected with 401
// and no further detail. On success the resolved claims are placed in the
// request context.
func RequirePermission(m *custsession.Manager, perm string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := m.RequirePermission(w, r, perm)
			if err != nil {
				http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
