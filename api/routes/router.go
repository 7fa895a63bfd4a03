package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/maxicoffee/storefront/api/controllers"
	"github.com/maxicoffee/storefront/api/middleware"
	"github.com/maxicoffee/storefront/internal/cart"
	"github.com/maxicoffee/storefront/internal/catalog"
	checkoutsvc "github.com/maxicoffee/storefront/internal/checkout"
	"github.com/maxicoffee/storefront/internal/discounts"
	pkgauth "github.com/maxicoffee/storefront/pkg/auth"
	"github.com/maxicoffee/storefront/pkg/coffeeapi"
	"github.com/maxicoffee/storefront/pkg/config"
	"github.com/maxicoffee/storefront/pkg/logger"
	pkgredis "github.com/maxicoffee/storefront/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	redisClient *pkgredis.Client,
	dbP controllers.Pinger,
	upstream *coffeeapi.Client,
	catalogService catalog.Service,
	discountService discounts.Service,
	cartStore cart.Store,
	checkoutService checkoutsvc.Reconciler,
	registry *prometheus.Registry,
) http.Handler {
	var (
		redisP    controllers.Pinger
		idemStore pkgredis.IdempotencyStore
		rateStore pkgredis.RateLimiterStore
	)
	if redisClient != nil {
		redisP = redisClient
		idemStore = redisClient
		rateStore = redisClient
	}

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, redisP, dbP))
	})

	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		// Browsing works without an account.
		r.Get("/products", controllers.CatalogProducts(catalogService, logg))
		r.Get("/categories/{categoryId}/addons", controllers.CatalogAddons(catalogService, logg))
		r.Get("/discounts", controllers.DiscountsList(discountService, logg))

		r.Route("/auth", func(r chi.Router) {
			r.With(middleware.AuthRateLimit(loginPolicy, rateStore, logg)).Post("/login", controllers.AuthLogin(upstream, logg))
			r.With(
				middleware.AuthRateLimit(registerPolicy, rateStore, logg),
				middleware.Idempotency(idemStore, logg),
			).Post("/register", controllers.AuthRegister(upstream, logg))
			r.Post("/verify", controllers.AuthVerify(upstream, logg))
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(logg))
			r.Use(middleware.DenyRole(pkgauth.RoleAdmin, logg))
			r.Use(middleware.Idempotency(idemStore, logg))

			r.Post("/auth/logout", controllers.AuthLogout(cartStore, logg))

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", controllers.CartFetch(cartStore, logg))
				r.Post("/items", controllers.CartAddItem(cartStore, catalogService, logg))
				r.Delete("/items/{cartItemId}", controllers.CartRemoveItem(cartStore, logg))
				r.Delete("/", controllers.CartReset(cartStore, logg))
			})

			r.Post("/checkout/preview", controllers.CheckoutPreview(checkoutService, logg))
			r.Post("/checkout", controllers.CheckoutConfirm(checkoutService, logg))
		})
	})

	return r
}
