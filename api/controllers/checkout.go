package controllers

import (
	"net/http"

	"github.com/maxicoffee/storefront/api/responses"
	"github.com/maxicoffee/storefront/api/validators"
	"github.com/maxicoffee/storefront/internal/checkout"
	"github.com/maxicoffee/storefront/internal/identity"
	"github.com/maxicoffee/storefront/internal/pricing"
	pkgerrors "github.com/maxicoffee/storefront/pkg/errors"
	"github.com/maxicoffee/storefront/pkg/logger"
)

type checkoutRequest struct {
	DiscountID string `json:"discountId" validate:"omitempty,min=1,max=64"`
}

type quoteView struct {
	*checkout.Quote
	TotalDisplay           string `json:"totalDisplay"`
	DiscountedTotalDisplay string `json:"discountedTotalDisplay"`
}

type receiptView struct {
	*checkout.Receipt
	TotalDisplay           string `json:"totalDisplay"`
	DiscountedTotalDisplay string `json:"discountedTotalDisplay"`
}

// CheckoutPreview prices the cart with the selected discount without
// submitting anything.
func CheckoutPreview(svc checkout.Reconciler, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}
		user, err := identity.CurrentUser(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body checkoutRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		quote, err := svc.Preview(r.Context(), user, body.DiscountID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, quoteView{
			Quote:                  quote,
			TotalDisplay:           pricing.FormatPHP(quote.TotalCents),
			DiscountedTotalDisplay: pricing.FormatPHP(quote.DiscountedTotalCents),
		})
	}
}

// CheckoutConfirm submits the cart upstream and returns the receipt.
func CheckoutConfirm(svc checkout.Reconciler, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}
		user, err := identity.CurrentUser(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body checkoutRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		receipt, err := svc.Confirm(r.Context(), user, body.DiscountID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, receiptView{
			Receipt:                receipt,
			TotalDisplay:           pricing.FormatPHP(receipt.TotalCents),
			DiscountedTotalDisplay: pricing.FormatPHP(receipt.DiscountedTotalCents),
		})
	}
}
