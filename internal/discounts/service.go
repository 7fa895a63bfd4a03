package discounts

import (
	"context"
	"fmt"

	"github.com/maxicoffee/storefront/pkg/coffeeapi"
	pkgerrors "github.com/maxicoffee/storefront/pkg/errors"
	"github.com/maxicoffee/storefront/pkg/logger"
)

type upstream interface {
	Discounts(ctx context.Context) ([]coffeeapi.Discount, error)
}

// Service fetches and resolves the upstream discount catalog. Discounts are
// percentage fractions (0.1 = 10% off) owned entirely by the upstream; this
// service never caches them across checkout attempts so a discount revoked
// upstream stops applying on the next confirmation.
type Service interface {
	List(ctx context.Context) ([]coffeeapi.Discount, error)
	Resolve(ctx context.Context, discountID string) (*coffeeapi.Discount, error)
}

type service struct {
	upstream upstream
	logger   *logger.Logger
}

func NewService(up upstream, logg *logger.Logger) (Service, error) {
	if up == nil {
		return nil, fmt.Errorf("upstream client required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{upstream: up, logger: logg}, nil
}

// List returns every discount the upstream currently offers. A transport
// failure is reported as retryable so callers can present the list later
// without treating the cart as broken.
func (s *service) List(ctx context.Context) ([]coffeeapi.Discount, error) {
	fetched, err := s.upstream.Discounts(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDiscountFetch, err, "fetching discounts")
	}
	if fetched == nil {
		fetched = []coffeeapi.Discount{}
	}
	return fetched, nil
}

// Resolve finds a discount by id against the live catalog. A discount that
// has vanished since the shopper selected it resolves to nil rather than an
// error: the checkout proceeds undiscounted instead of stranding the order.
func (s *service) Resolve(ctx context.Context, discountID string) (*coffeeapi.Discount, error) {
	if discountID == "" {
		return nil, nil
	}
	fetched, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range fetched {
		if fetched[i].ID == discountID {
			return &fetched[i], nil
		}
	}
	s.logger.Warn(ctx, fmt.Sprintf("discount %s no longer offered, proceeding without it", discountID))
	return nil, nil
}
