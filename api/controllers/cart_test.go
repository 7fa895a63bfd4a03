package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/maxicoffee/storefront/internal/cart"
	"github.com/maxicoffee/storefront/internal/identity"
	"github.com/maxicoffee/storefront/pkg/coffeeapi"
	"github.com/maxicoffee/storefront/pkg/kv"
	"github.com/maxicoffee/storefront/pkg/logger"
)

type stubCatalog struct {
	item cart.Item
	err  error
}

func (s *stubCatalog) Products(ctx context.Context) ([]coffeeapi.Product, error) {
	return nil, nil
}

func (s *stubCatalog) AddonsFor(ctx context.Context, categoryID string) ([]coffeeapi.Addon, error) {
	return nil, nil
}

func (s *stubCatalog) Snapshot(ctx context.Context, productID string, addonNames []string) (cart.Item, error) {
	return s.item, s.err
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test"})
}

func newCartStore(t *testing.T) cart.Store {
	t.Helper()
	store, err := cart.NewStore(kv.NewMemorySlot(), "cart", testLogger(), nil)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	return store
}

func asUser(req *http.Request, userID string) *http.Request {
	ctx := identity.WithUser(req.Context(), identity.User{ID: userID, Name: "Maria", Role: "customer"})
	return req.WithContext(ctx)
}

func TestCartFetchRequiresIdentity(t *testing.T) {
	t.Parallel()

	handler := CartFetch(newCartStore(t), testLogger())
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestCartAddItemSnapshotsAndTotals(t *testing.T) {
	t.Parallel()

	store := newCartStore(t)
	catalogSvc := &stubCatalog{item: cart.Item{
		ProductID:      "p1",
		ProductName:    "Latte",
		BasePriceCents: 12000,
		Addons:         []cart.Addon{{Name: "Oat Milk", PriceCents: 2000}},
	}}
	handler := CartAddItem(store, catalogSvc, testLogger())

	req := asUser(httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", strings.NewReader(`{"productId":"p1","addons":["Oat Milk"]}`)), "u1")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d body %s", rec.Code, rec.Body.String())
	}
	var envelope struct {
		Data cartView `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(envelope.Data.Items) != 1 {
		t.Fatalf("expected one line, got %+v", envelope.Data)
	}
	line := envelope.Data.Items[0]
	if line.LineTotal != 14000 || line.LineTotalDisplay != "₱140.00" {
		t.Fatalf("unexpected line view %+v", line)
	}
	if envelope.Data.Subtotal != 14000 || envelope.Data.SubtotalDisplay != "₱140.00" {
		t.Fatalf("unexpected subtotal %+v", envelope.Data)
	}
	if line.CartItemID == "" {
		t.Fatal("expected generated cart item id")
	}
}

func TestCartAddItemRejectsBadBody(t *testing.T) {
	t.Parallel()

	handler := CartAddItem(newCartStore(t), &stubCatalog{}, testLogger())
	req := asUser(httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", strings.NewReader(`{"addons":[]}`)), "u1")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d body %s", rec.Code, rec.Body.String())
	}
}

func TestCartRemoveAndReset(t *testing.T) {
	t.Parallel()

	store := newCartStore(t)
	items, err := store.Add(context.Background(), "u1", cart.Item{ProductName: "Latte", BasePriceCents: 12000})
	if err != nil {
		t.Fatalf("seed cart: %v", err)
	}

	removeReq := asUser(httptest.NewRequest(http.MethodDelete, "/api/v1/cart/items/"+items[0].CartItemID, nil), "u1")
	removeReq = withChiParam(removeReq, "cartItemId", items[0].CartItemID)
	rec := httptest.NewRecorder()
	CartRemoveItem(store, testLogger()).ServeHTTP(rec, removeReq)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var envelope struct {
		Data cartView `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(envelope.Data.Items) != 0 {
		t.Fatalf("expected empty cart, got %+v", envelope.Data)
	}

	if _, err := store.Add(context.Background(), "u1", cart.Item{ProductName: "Mocha", BasePriceCents: 13000}); err != nil {
		t.Fatalf("seed cart: %v", err)
	}
	rec = httptest.NewRecorder()
	CartReset(store, testLogger()).ServeHTTP(rec, asUser(httptest.NewRequest(http.MethodDelete, "/api/v1/cart", nil), "u1"))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	remaining, err := store.Load(context.Background(), "u1")
	if err != nil || len(remaining) != 0 {
		t.Fatalf("expected cart cleared, got %v %v", remaining, err)
	}
}
