package identity

import (
	"context"

	"github.com/maxicoffee/storefront/pkg/auth"
	pkgerrors "github.com/maxicoffee/storefront/pkg/errors"
)

type contextKey struct{}

var userKey contextKey

// User is the authenticated shopper attached to a request by the auth
// middleware. The upstream issued and owns the token; we only carry the
// decoded identity.
type User struct {
	ID   string
	Name string
	Role string
}

// IsAdmin reports whether the user carries the admin role, which is barred
// from the storefront surface.
func (u User) IsAdmin() bool {
	return u.Role == auth.RoleAdmin
}

// WithUser attaches the user to the request context.
func WithUser(ctx context.Context, user User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// CurrentUser returns the request's authenticated user, or a
// NOT_AUTHENTICATED error when no middleware attached one.
func CurrentUser(ctx context.Context) (User, error) {
	user, ok := ctx.Value(userKey).(User)
	if !ok || user.ID == "" {
		return User{}, pkgerrors.New(pkgerrors.CodeNotAuthenticated, "sign in to continue")
	}
	return user, nil
}

// FromClaims maps decoded token claims onto a request user.
func FromClaims(claims *auth.Claims) User {
	if claims == nil {
		return User{}
	}
	return User{ID: claims.UserID, Name: claims.Name, Role: claims.Role}
}
