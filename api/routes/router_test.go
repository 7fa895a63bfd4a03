package routes

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/golang-jwt/jwt/v5"

	"github.com/maxicoffee/storefront/internal/cart"
	"github.com/maxicoffee/storefront/internal/catalog"
	checkoutsvc "github.com/maxicoffee/storefront/internal/checkout"
	"github.com/maxicoffee/storefront/internal/discounts"
	pkgauth "github.com/maxicoffee/storefront/pkg/auth"
	"github.com/maxicoffee/storefront/pkg/coffeeapi"
	"github.com/maxicoffee/storefront/pkg/config"
	"github.com/maxicoffee/storefront/pkg/kv"
	"github.com/maxicoffee/storefront/pkg/logger"
	pkgredis "github.com/maxicoffee/storefront/pkg/redis"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "development", Port: "8081"},
	}
}

// upstreamStub serves the minimal coffee API surface the router touches.
func upstreamStub(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/products", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]coffeeapi.Product{
			{ID: "p1", Name: "Latte", BasePrice: 120, Category: &coffeeapi.Category{ID: "coffee", Name: "Coffee"}},
		})
	})
	mux.HandleFunc("/addons/global", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]coffeeapi.Addon{{ID: "a1", Name: "Oat Milk", Price: 20}})
	})
	mux.HandleFunc("/categories/coffee/addons", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]coffeeapi.Addon{})
	})
	mux.HandleFunc("/discounts", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]coffeeapi.Discount{{ID: "d1", Name: "Opening Promo", Percentage: 0.1}})
	})
	mux.HandleFunc("/orders", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"_id": "order-1"})
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	logg := logger.New(logger.Options{ServiceName: "test"})
	server := upstreamStub(t)

	upstream, err := coffeeapi.NewClient(context.Background(), config.UpstreamConfig{BaseURL: server.URL}, logg)
	if err != nil {
		t.Fatalf("new upstream client: %v", err)
	}
	catalogSvc, err := catalog.NewService(upstream, logg)
	if err != nil {
		t.Fatalf("new catalog service: %v", err)
	}
	discountSvc, err := discounts.NewService(upstream, logg)
	if err != nil {
		t.Fatalf("new discount service: %v", err)
	}
	cartStore, err := cart.NewStore(kv.NewMemorySlot(), "cart", logg, nil)
	if err != nil {
		t.Fatalf("new cart store: %v", err)
	}
	checkoutSvc, err := checkoutsvc.NewReconciler(cartStore, discountSvc, upstream, logg, nil)
	if err != nil {
		t.Fatalf("new reconciler: %v", err)
	}

	return NewRouter(
		testConfig(),
		logg,
		(*pkgredis.Client)(nil),
		stubPinger{},
		upstream,
		catalogSvc,
		discountSvc,
		cartStore,
		checkoutSvc,
		nil,
	)
}

func mintToken(t *testing.T, userID, role string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, pkgauth.Claims{UserID: userID, Name: "Maria", Role: role})
	signed, err := token.SignedString([]byte("upstream-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func TestPublicCatalogRoutes(t *testing.T) {
	router := newTestRouter(t)

	for _, path := range []string{"/api/v1/products", "/api/v1/discounts", "/api/v1/categories/coffee/addons"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200 for %s, got %d body %s", path, rec.Code, rec.Body.String())
		}
	}
}

func TestHealthRoutes(t *testing.T) {
	router := newTestRouter(t)

	for _, path := range []string{"/health/live", "/health/ready"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200 for %s, got %d", path, rec.Code)
		}
	}
}

func TestCartRoutesRequireToken(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}
}

func TestAdminsAreBlockedFromStorefront(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, "u9", pkgauth.RoleAdmin))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for admin, got %d", rec.Code)
	}
}

func TestShopperJourneyAcrossRoutes(t *testing.T) {
	router := newTestRouter(t)
	token := mintToken(t, "u1", "customer")

	authed := func(method, path, body string) *httptest.ResponseRecorder {
		var reader *strings.Reader
		if body == "" {
			reader = strings.NewReader("")
		} else {
			reader = strings.NewReader(body)
		}
		req := httptest.NewRequest(method, path, reader)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	rec := authed(http.MethodPost, "/api/v1/cart/items", `{"productId":"p1","addons":["Oat Milk"]}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("add item: expected 201, got %d body %s", rec.Code, rec.Body.String())
	}

	rec = authed(http.MethodPost, "/api/v1/checkout/preview", `{"discountId":"d1"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("preview: expected 200, got %d body %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"discountedTotal":12600`) {
		t.Fatalf("preview: expected discounted total 12600, got %s", rec.Body.String())
	}

	rec = authed(http.MethodPost, "/api/v1/checkout", `{"discountId":"d1"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("confirm: expected 201, got %d body %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"orderId":"order-1"`) {
		t.Fatalf("confirm: expected order id, got %s", rec.Body.String())
	}

	rec = authed(http.MethodGet, "/api/v1/cart", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("cart after checkout: expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"items":[]`) {
		t.Fatalf("expected cart cleared after checkout, got %s", rec.Body.String())
	}
}
