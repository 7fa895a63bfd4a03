package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/maxicoffee/storefront/internal/cart"
	"github.com/maxicoffee/storefront/internal/pricing"
	"github.com/maxicoffee/storefront/pkg/coffeeapi"
	pkgerrors "github.com/maxicoffee/storefront/pkg/errors"
	"github.com/maxicoffee/storefront/pkg/logger"
	"go.uber.org/multierr"
)

type upstream interface {
	Products(ctx context.Context) ([]coffeeapi.Product, error)
	CategoryAddons(ctx context.Context, categoryID string) ([]coffeeapi.Addon, error)
	GlobalAddons(ctx context.Context) ([]coffeeapi.Addon, error)
}

// Service reads the product catalog from the upstream coffee API and builds
// the denormalized snapshots that go into carts.
type Service interface {
	Products(ctx context.Context) ([]coffeeapi.Product, error)
	AddonsFor(ctx context.Context, categoryID string) ([]coffeeapi.Addon, error)
	Snapshot(ctx context.Context, productID string, addonNames []string) (cart.Item, error)
}

type service struct {
	upstream upstream
	logger   *logger.Logger
}

// NewService builds a catalog service over the upstream client.
func NewService(up upstream, logg *logger.Logger) (Service, error) {
	if up == nil {
		return nil, fmt.Errorf("upstream client required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{upstream: up, logger: logg}, nil
}

func (s *service) Products(ctx context.Context) ([]coffeeapi.Product, error) {
	products, err := s.upstream.Products(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching products: %w", err)
	}
	if products == nil {
		products = []coffeeapi.Product{}
	}
	return products, nil
}

// AddonsFor merges the category-specific and global addon pools for one
// product category. A category with no addons of its own still offers the
// global pool. If both fetches fail the shopper simply sees no addons; the
// base product remains orderable, so the failures are logged and swallowed.
func (s *service) AddonsFor(ctx context.Context, categoryID string) ([]coffeeapi.Addon, error) {
	var errs error

	var category []coffeeapi.Addon
	if categoryID != "" {
		fetched, err := s.upstream.CategoryAddons(ctx, categoryID)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("category addons for %s: %w", categoryID, err))
		} else {
			category = fetched
		}
	}

	global, err := s.upstream.GlobalAddons(ctx)
	if err != nil {
		errs = multierr.Append(errs, fmt.Errorf("global addons: %w", err))
	}

	if errs != nil {
		s.logger.Warn(ctx, fmt.Sprintf("addon lookup degraded: %v", errs))
	}

	merged := make([]coffeeapi.Addon, 0, len(category)+len(global))
	seen := make(map[string]struct{}, len(category)+len(global))
	for _, addon := range append(category, global...) {
		key := strings.ToLower(addon.Name)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		merged = append(merged, addon)
	}
	return merged, nil
}

// Snapshot resolves a product and a set of addon selections into a cart item
// priced in centavos. Unknown products or addon names are rejected before
// anything touches the cart.
func (s *service) Snapshot(ctx context.Context, productID string, addonNames []string) (cart.Item, error) {
	products, err := s.upstream.Products(ctx)
	if err != nil {
		return cart.Item{}, fmt.Errorf("fetching products: %w", err)
	}

	var product *coffeeapi.Product
	for i := range products {
		if products[i].ID == productID {
			product = &products[i]
			break
		}
	}
	if product == nil {
		return cart.Item{}, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("product %s not found", productID))
	}

	basePrice, err := pricing.FromMajor(product.BasePrice)
	if err != nil {
		return cart.Item{}, fmt.Errorf("product %s price: %w", productID, err)
	}

	item := cart.Item{
		ProductID:      product.ID,
		ProductName:    product.Name,
		Description:    product.Description,
		Image:          product.Image,
		BasePriceCents: basePrice,
	}
	if len(addonNames) == 0 {
		return item, nil
	}

	categoryID := ""
	if product.Category != nil {
		categoryID = product.Category.ID
	}
	available, err := s.AddonsFor(ctx, categoryID)
	if err != nil {
		return cart.Item{}, err
	}
	byName := make(map[string]coffeeapi.Addon, len(available))
	for _, addon := range available {
		byName[strings.ToLower(addon.Name)] = addon
	}

	for _, name := range addonNames {
		addon, ok := byName[strings.ToLower(name)]
		if !ok {
			return cart.Item{}, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("addon %q not available for product %s", name, productID))
		}
		price, err := pricing.FromMajor(addon.Price)
		if err != nil {
			return cart.Item{}, fmt.Errorf("addon %q price: %w", addon.Name, err)
		}
		item.Addons = append(item.Addons, cart.Addon{Name: addon.Name, PriceCents: price})
	}
	return item, nil
}
