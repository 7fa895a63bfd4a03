package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/maxicoffee/storefront/api/responses"
	"github.com/maxicoffee/storefront/api/validators"
	"github.com/maxicoffee/storefront/internal/cart"
	"github.com/maxicoffee/storefront/internal/catalog"
	"github.com/maxicoffee/storefront/internal/identity"
	"github.com/maxicoffee/storefront/internal/pricing"
	pkgerrors "github.com/maxicoffee/storefront/pkg/errors"
	"github.com/maxicoffee/storefront/pkg/logger"
)

type addCartItemRequest struct {
	ProductID string   `json:"productId" validate:"required,min=1,max=64"`
	Addons    []string `json:"addons" validate:"max=10,dive,min=1,max=64"`
}

type cartLineView struct {
	cart.Item
	LineTotal        int64  `json:"lineTotal"`
	LineTotalDisplay string `json:"lineTotalDisplay"`
}

type cartView struct {
	Items           []cartLineView `json:"items"`
	Subtotal        int64          `json:"subtotal"`
	SubtotalDisplay string         `json:"subtotalDisplay"`
}

func buildCartView(items []cart.Item) cartView {
	lines := make([]cartLineView, 0, len(items))
	for _, item := range items {
		total := item.LineTotalCents()
		lines = append(lines, cartLineView{
			Item:             item,
			LineTotal:        total,
			LineTotalDisplay: pricing.FormatPHP(total),
		})
	}
	subtotal := cart.SubtotalCents(items)
	return cartView{
		Items:           lines,
		Subtotal:        subtotal,
		SubtotalDisplay: pricing.FormatPHP(subtotal),
	}
}

// CartFetch returns the shopper's cart with per-line and cart totals.
func CartFetch(carts cart.Store, logg *logger.Logger) http.HandlerFunc {
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
		items, err := carts.Load(r.Context(), user.ID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, buildCartView(items))
	}
}

// CartAddItem snapshots the selected product and addons from the live catalog
// and appends the line to the cart.
func CartAddItem(carts cart.Store, catalogSvc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if carts == nil || catalogSvc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}
		user, err := identity.CurrentUser(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body addCartItemRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := catalogSvc.Snapshot(r.Context(), body.ProductID, body.Addons)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items, err := carts.Add(r.Context(), user.ID, item)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, buildCartView(items))
	}
}

// CartRemoveItem drops one line by its cart item id. Unknown ids are a no-op.
func CartRemoveItem(carts cart.Store, logg *logger.Logger) http.HandlerFunc {
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
		cartItemID := validators.SanitizeString(chi.URLParam(r, "cartItemId"), 64)
		items, err := carts.Remove(r.Context(), user.ID, cartItemID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, buildCartView(items))
	}
}

// CartReset clears the cart entirely.
func CartReset(carts cart.Store, logg *logger.Logger) http.HandlerFunc {
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
		responses.WriteSuccess(w, buildCartView(nil))
	}
}
