package controllers

import (
	"net/http"

	"github.com/maxicoffee/storefront/api/responses"
	"github.com/maxicoffee/storefront/internal/discounts"
	pkgerrors "github.com/maxicoffee/storefront/pkg/errors"
	"github.com/maxicoffee/storefront/pkg/logger"
)

// DiscountsList exposes the upstream discount catalog.
func DiscountsList(svc discounts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "discount service unavailable"))
			return
		}
		list, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}
