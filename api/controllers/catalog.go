package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/maxicoffee/storefront/api/responses"
	"github.com/maxicoffee/storefront/api/validators"
	"github.com/maxicoffee/storefront/internal/catalog"
	pkgerrors "github.com/maxicoffee/storefront/pkg/errors"
	"github.com/maxicoffee/storefront/pkg/logger"
)

// CatalogProducts lists the menu.
func CatalogProducts(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}
		products, err := svc.Products(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "catalog unavailable"))
			return
		}
		responses.WriteSuccess(w, products)
	}
}

// CatalogAddons returns the addon pool for a category merged with the
// globally available addons.
func CatalogAddons(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}
		categoryID := validators.SanitizeString(chi.URLParam(r, "categoryId"), 64)
		addons, err := svc.AddonsFor(r.Context(), categoryID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, addons)
	}
}
