package controllers

import (
	"context"
	"net/http"

	"github.com/maxicoffee/storefront/api/responses"
	"github.com/maxicoffee/storefront/api/validators"
	"github.com/maxicoffee/storefront/internal/cart"
	"github.com/maxicoffee/storefront/internal/identity"
	"github.com/maxicoffee/storefront/pkg/coffeeapi"
	pkgerrors "github.com/maxicoffee/storefront/pkg/errors"
	"github.com/maxicoffee/storefront/pkg/logger"
)

type authClient interface {
	Login(ctx context.Context, creds coffeeapi.Credentials) (*coffeeapi.TokenResponse, error)
	Register(ctx context.Context, reg coffeeapi.Registration) (*coffeeapi.TokenResponse, error)
	Verify(ctx context.Context, token string) error
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

func (lr *loginRequest) Normalize() {
	lr.Email = validators.SanitizeString(lr.Email, 254)
}

type registerRequest struct {
	Name     string `json:"name" validate:"required,min=1,max=120"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

func (rr *registerRequest) Normalize() {
	rr.Name = validators.SanitizeString(rr.Name, 120)
	rr.Email = validators.SanitizeString(rr.Email, 254)
}

// AuthLogin forwards credentials to the upstream identity provider and hands
// the issued token back to the shopper.
func AuthLogin(client authClient, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if client == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth client unavailable"))
			return
		}

		var body loginRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		token, err := client.Login(r.Context(), coffeeapi.Credentials{
			Email:    body.Email,
			Password: body.Password,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, translateAuthError(err))
			return
		}

		responses.WriteSuccess(w, token)
	}
}

// AuthRegister creates the account upstream and returns the issued token so
// the shopper lands signed in.
func AuthRegister(client authClient, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if client == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth client unavailable"))
			return
		}

		var body registerRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		token, err := client.Register(r.Context(), coffeeapi.Registration{
			Name:     body.Name,
			Email:    body.Email,
			Password: body.Password,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, translateAuthError(err))
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, token)
	}
}

// AuthVerify redeems the emailed verification token. The link lands here
// before the shopper has a session, so the route stays public.
func AuthVerify(client authClient, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if client == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth client unavailable"))
			return
		}

		token := validators.SanitizeString(r.URL.Query().Get("token"), 512)
		if token == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "verification token is required"))
			return
		}

		if err := client.Verify(r.Context(), token); err != nil {
			responses.WriteError(r.Context(), logg, w, translateAuthError(err))
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "verified"})
	}
}

// AuthLogout clears the shopper's persisted cart. The token itself is
// stateless; abandoning it is the client's job, but the cart must not
// survive into the next session on this account.
func AuthLogout(carts cart.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if carts == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart store unavailable"))
			return
		}

		user, err := identity.CurrentUser(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := carts.Reset(r.Context(), user.ID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "logged_out"})
	}
}

// translateAuthError maps upstream auth rejections onto the API error shape.
// Upstream 4xx responses carry a shopper-facing message; everything else is a
// dependency failure.
func translateAuthError(err error) error {
	upstream := coffeeapi.AsError(err)
	if upstream == nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "identity provider unavailable")
	}
	if upstream.Status >= 400 && upstream.Status < 500 {
		return pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, upstream.Message)
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "identity provider unavailable")
}
