package checkout

import (
	"context"
	"fmt"
	"time"

	"github.com/maxicoffee/storefront/internal/cart"
	"github.com/maxicoffee/storefront/internal/identity"
	"github.com/maxicoffee/storefront/internal/pricing"
	"github.com/maxicoffee/storefront/pkg/coffeeapi"
	pkgerrors "github.com/maxicoffee/storefront/pkg/errors"
	"github.com/maxicoffee/storefront/pkg/logger"
	"github.com/maxicoffee/storefront/pkg/metrics"
)

type cartStore interface {
	Load(ctx context.Context, userID string) ([]cart.Item, error)
	Reset(ctx context.Context, userID string) error
}

type discountResolver interface {
	Resolve(ctx context.Context, discountID string) (*coffeeapi.Discount, error)
}

type orderSubmitter interface {
	CreateOrder(ctx context.Context, submission coffeeapi.OrderSubmission) (*coffeeapi.OrderResponse, error)
}

// Quote is the priced view of a cart before submission.
type Quote struct {
	Items                []cart.Item         `json:"items"`
	Discount             *coffeeapi.Discount `json:"discount,omitempty"`
	TotalCents           int64               `json:"total"`
	DiscountedTotalCents int64               `json:"discountedTotal"`
}

// Receipt records a confirmed order. Every field is captured from the cart
// snapshot priced before submission, so later cart or catalog changes never
// rewrite what the shopper saw.
type Receipt struct {
	OrderID              string              `json:"orderId"`
	Name                 string              `json:"name"`
	Items                []cart.Item         `json:"items"`
	Discount             *coffeeapi.Discount `json:"discount,omitempty"`
	TotalCents           int64               `json:"total"`
	DiscountedTotalCents int64               `json:"discountedTotal"`
	CreatedAt            time.Time           `json:"createdAt"`
}

// Reconciler drives a checkout from a priced preview through upstream
// submission. A user has at most one submission in flight, and only the
// attempt that is still current may clear the cart when its response lands.
type Reconciler interface {
	Preview(ctx context.Context, user identity.User, discountID string) (*Quote, error)
	Confirm(ctx context.Context, user identity.User, discountID string) (*Receipt, error)
}

type reconciler struct {
	carts     cartStore
	discounts discountResolver
	orders    orderSubmitter
	logger    *logger.Logger
	metrics   *metrics.StorefrontMetrics
	attempts  *attemptTracker
	now       func() time.Time
}

// NewReconciler builds the checkout reconciler over the provided stack.
func NewReconciler(carts cartStore, discounts discountResolver, orders orderSubmitter, logg *logger.Logger, m *metrics.StorefrontMetrics) (Reconciler, error) {
	if carts == nil {
		return nil, fmt.Errorf("cart store required")
	}
	if discounts == nil {
		return nil, fmt.Errorf("discount resolver required")
	}
	if orders == nil {
		return nil, fmt.Errorf("order submitter required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &reconciler{
		carts:     carts,
		discounts: discounts,
		orders:    orders,
		logger:    logg,
		metrics:   m,
		attempts:  newAttemptTracker(),
		now:       time.Now,
	}, nil
}

// Preview prices the user's cart with the optional discount applied. An empty
// cart cannot enter checkout.
func (r *reconciler) Preview(ctx context.Context, user identity.User, discountID string) (*Quote, error) {
	if user.ID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeNotAuthenticated, "sign in to check out")
	}
	items, err := r.carts.Load(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeEmptyCart, "cart is empty")
	}
	discount, err := r.discounts.Resolve(ctx, discountID)
	if err != nil {
		return nil, err
	}
	return r.quote(items, discount)
}

// Confirm submits the priced cart upstream. The identity check runs before
// any network call, the cart is cleared only on a current successful
// response, and a failed submission leaves the cart exactly as it was.
func (r *reconciler) Confirm(ctx context.Context, user identity.User, discountID string) (*Receipt, error) {
	if user.ID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeNotAuthenticated, "sign in to check out")
	}

	seq, ok := r.attempts.begin(user.ID)
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "a checkout is already in progress")
	}
	defer r.attempts.finish(user.ID, seq)

	started := r.now()
	ctx = r.logger.WithCheckoutAttempt(r.logger.WithUserID(ctx, user.ID), seq)

	quote, err := r.Preview(ctx, user, discountID)
	if err != nil {
		r.metrics.IncCheckoutFailure(failureReason(err))
		return nil, err
	}

	submission := coffeeapi.OrderSubmission{
		UserID: user.ID,
		Items:  submissionItems(quote.Items),
	}
	if quote.Discount != nil {
		submission.DiscountID = quote.Discount.ID
	}

	resp, err := r.orders.CreateOrder(ctx, submission)
	if err != nil {
		r.metrics.ObserveCheckout("failure", r.now().Sub(started))
		r.metrics.IncCheckoutFailure("upstream")
		if upstream := coffeeapi.AsError(err); upstream != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeOrderSubmission, err, upstream.Message)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeOrderSubmission, err, "order submission failed")
	}

	if !r.attempts.isCurrent(user.ID, seq) {
		// A newer attempt superseded this one while its response was in
		// flight. Its outcome no longer owns the cart.
		r.logger.Warn(ctx, "discarding stale checkout response")
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "checkout superseded by a newer attempt")
	}

	if err := r.carts.Reset(ctx, user.ID); err != nil {
		// The order exists upstream; surface the receipt anyway and let the
		// next cart read repair the slot.
		r.logger.Error(ctx, "order confirmed but cart reset failed", err)
	}

	r.metrics.ObserveCheckout("success", r.now().Sub(started))
	r.metrics.IncCheckoutSuccess(quote.Discount != nil)
	r.logger.Info(ctx, fmt.Sprintf("order %s confirmed", resp.ID))

	return &Receipt{
		OrderID:              resp.ID,
		Name:                 user.Name,
		Items:                quote.Items,
		Discount:             quote.Discount,
		TotalCents:           quote.TotalCents,
		DiscountedTotalCents: quote.DiscountedTotalCents,
		CreatedAt:            r.now(),
	}, nil
}

func (r *reconciler) quote(items []cart.Item, discount *coffeeapi.Discount) (*Quote, error) {
	total := cart.SubtotalCents(items)
	discounted := total
	if discount != nil {
		applied, err := pricing.ApplyDiscount(total, discount.Percentage)
		if err != nil {
			return nil, err
		}
		discounted = applied
	}
	return &Quote{
		Items:                items,
		Discount:             discount,
		TotalCents:           total,
		DiscountedTotalCents: discounted,
	}, nil
}

func submissionItems(items []cart.Item) []coffeeapi.OrderItem {
	payload := make([]coffeeapi.OrderItem, 0, len(items))
	for _, item := range items {
		addons := make([]coffeeapi.OrderAddon, 0, len(item.Addons))
		for _, addon := range item.Addons {
			addons = append(addons, coffeeapi.OrderAddon{
				AddonName: addon.Name,
				Price:     pricing.Major(addon.PriceCents),
			})
		}
		payload = append(payload, coffeeapi.OrderItem{
			ProductName: item.ProductName,
			Price:       pricing.Major(item.BasePriceCents),
			Addons:      addons,
		})
	}
	return payload
}

func failureReason(err error) string {
	if typed := pkgerrors.As(err); typed != nil {
		switch typed.Code() {
		case pkgerrors.CodeEmptyCart:
			return "empty_cart"
		case pkgerrors.CodeDiscountFetch:
			return "discounts"
		case pkgerrors.CodeInvalidDiscount:
			return "invalid_discount"
		}
	}
	return "precheck"
}
