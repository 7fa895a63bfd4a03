package middleware

import (
	"net/http"
	"strings"

	"github.com/maxicoffee/storefront/api/responses"
	"github.com/maxicoffee/storefront/internal/identity"
	pkgauth "github.com/maxicoffee/storefront/pkg/auth"
	pkgerrors "github.com/maxicoffee/storefront/pkg/errors"
	"github.com/maxicoffee/storefront/pkg/logger"
)

// Auth decodes the upstream-issued bearer token and seeds the request context
// with the shopper's identity. The upstream API verifies the signature on
// every call it receives; this layer only needs the claims to key carts and
// checkouts.
func Auth(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get("Authorization"))
			if raw == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotAuthenticated, "missing credentials"))
				return
			}

			token := raw
			if strings.HasPrefix(strings.ToLower(token), "bearer ") {
				token = strings.TrimSpace(token[7:])
			}
			if token == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotAuthenticated, "missing credentials"))
				return
			}

			claims, err := pkgauth.DecodeAccessToken(token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeNotAuthenticated, err, "invalid token"))
				return
			}

			user := identity.FromClaims(claims)
			ctx := identity.WithUser(r.Context(), user)
			if logg != nil {
				ctx = logg.WithFields(ctx, map[string]any{
					"user_id":    user.ID,
					"actor_role": user.Role,
				})
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// DenyRole blocks a role from a route group. The storefront surface rejects
// admin accounts, which belong on the back-office console.
func DenyRole(role string, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := identity.CurrentUser(r.Context())
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			if user.Role == role {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "this account cannot use the storefront"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
