package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/maxicoffee/storefront/pkg/coffeeapi"
	pkgerrors "github.com/maxicoffee/storefront/pkg/errors"
	"github.com/maxicoffee/storefront/pkg/logger"
)

type stubUpstream struct {
	products       []coffeeapi.Product
	productsErr    error
	categoryAddons map[string][]coffeeapi.Addon
	categoryErr    error
	globalAddons   []coffeeapi.Addon
	globalErr      error
}

func (s *stubUpstream) Products(ctx context.Context) ([]coffeeapi.Product, error) {
	return s.products, s.productsErr
}

func (s *stubUpstream) CategoryAddons(ctx context.Context, categoryID string) ([]coffeeapi.Addon, error) {
	if s.categoryErr != nil {
		return nil, s.categoryErr
	}
	return s.categoryAddons[categoryID], nil
}

func (s *stubUpstream) GlobalAddons(ctx context.Context) ([]coffeeapi.Addon, error) {
	return s.globalAddons, s.globalErr
}

func newTestService(t *testing.T, up *stubUpstream) Service {
	t.Helper()
	svc, err := NewService(up, logger.New(logger.Options{ServiceName: "test"}))
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func latteCatalog() *stubUpstream {
	return &stubUpstream{
		products: []coffeeapi.Product{
			{
				ID:        "p1",
				Name:      "Latte",
				BasePrice: 120,
				Category:  &coffeeapi.Category{ID: "coffee", Name: "Coffee"},
			},
		},
		categoryAddons: map[string][]coffeeapi.Addon{
			"coffee": {{ID: "a1", Name: "Oat Milk", Price: 20}},
		},
		globalAddons: []coffeeapi.Addon{{ID: "a2", Name: "Extra Shot", Price: 30}},
	}
}

func TestAddonsForMergesCategoryAndGlobal(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, latteCatalog())
	addons, err := svc.AddonsFor(context.Background(), "coffee")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(addons) != 2 {
		t.Fatalf("expected 2 addons, got %v", addons)
	}
}

func TestAddonsForDeduplicatesByName(t *testing.T) {
	t.Parallel()

	up := latteCatalog()
	up.globalAddons = append(up.globalAddons, coffeeapi.Addon{ID: "a3", Name: "oat milk", Price: 25})
	svc := newTestService(t, up)

	addons, err := svc.AddonsFor(context.Background(), "coffee")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(addons) != 2 {
		t.Fatalf("expected duplicate name collapsed, got %v", addons)
	}
	// Category addons win over a same-named global addon.
	if addons[0].Price != 20 {
		t.Fatalf("expected category addon price kept, got %v", addons[0])
	}
}

func TestAddonsForDegradesToEmptyOnUpstreamFailure(t *testing.T) {
	t.Parallel()

	up := latteCatalog()
	up.categoryErr = errors.New("category boom")
	up.globalErr = errors.New("global boom")
	svc := newTestService(t, up)

	addons, err := svc.AddonsFor(context.Background(), "coffee")
	if err != nil {
		t.Fatalf("expected degraded success, got %v", err)
	}
	if len(addons) != 0 {
		t.Fatalf("expected no addons, got %v", addons)
	}
}

func TestSnapshotPricesProductAndAddons(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, latteCatalog())
	item, err := svc.Snapshot(context.Background(), "p1", []string{"Oat Milk"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if item.ProductName != "Latte" || item.BasePriceCents != 12000 {
		t.Fatalf("unexpected snapshot %+v", item)
	}
	if len(item.Addons) != 1 || item.Addons[0].PriceCents != 2000 {
		t.Fatalf("unexpected addons %+v", item.Addons)
	}
	if got := item.LineTotalCents(); got != 14000 {
		t.Fatalf("expected line total 14000, got %d", got)
	}
}

func TestSnapshotRejectsUnknownProduct(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, latteCatalog())
	_, err := svc.Snapshot(context.Background(), "missing", nil)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

func TestSnapshotRejectsUnknownAddon(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, latteCatalog())
	_, err := svc.Snapshot(context.Background(), "p1", []string{"Unicorn Dust"})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

func TestSnapshotRejectsNonFinitePrice(t *testing.T) {
	t.Parallel()

	up := latteCatalog()
	up.products[0].BasePrice = -5
	svc := newTestService(t, up)

	_, err := svc.Snapshot(context.Background(), "p1", nil)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeInvalidAmount {
		t.Fatalf("expected INVALID_AMOUNT, got %v", err)
	}
}
