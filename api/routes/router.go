package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/thihanaing/minpos-backend/api/controllers"
	"github.com/thihanaing/minpos-backend/api/middleware"
	"github.com/thihanaing/minpos-backend/internal/auth"
	"github.com/thihanaing/minpos-backend/internal/cart"
	"github.com/thihanaing/minpos-backend/internal/catalog"
	"github.com/thihanaing/minpos-backend/internal/profiles"
	"github.com/thihanaing/minpos-backend/internal/receipts"
	"github.com/thihanaing/minpos-backend/internal/sales"
	"github.com/thihanaing/minpos-backend/pkg/auth/session"
	"github.com/thihanaing/minpos-backend/pkg/config"
	"github.com/thihanaing/minpos-backend/pkg/logger"
	"github.com/thihanaing/minpos-backend/pkg/metrics"
	"github.com/thihanaing/minpos-backend/pkg/redis"
)

type sessionManager interface {
	session.AccessSessionChecker
	Rotate(context.Context, string, string) (string, string, error)
	Revoke(context.Context, string) error
}

// Pinger mirrors the dependency check the health endpoints expect.
type Pinger = controllers.Pinger

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	registry *prometheus.Registry,
	dbP controllers.Pinger,
	redisClient *redis.Client,
	storageP controllers.Pinger,
	sessions sessionManager,
	authService auth.Service,
	registerService auth.RegisterService,
	catalogService catalog.Service,
	cartService cart.Service,
	salesService sales.Service,
	profileService profiles.Service,
	receiptFormatter *receipts.Formatter,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)
	if registry != nil {
		r.Use(middleware.Metrics(metrics.NewHTTPMetrics(registry)))
		r.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

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
		r.Get("/ready", controllers.HealthReady(cfg, logg, healthChecks(dbP, redisClient, storageP)))
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).Post("/login", controllers.AuthLogin(authService, logg))
		r.With(middleware.AuthRateLimit(registerPolicy, redisClient, logg)).Post("/register", controllers.AuthRegister(registerService, logg))
		r.Post("/logout", controllers.AuthLogout(sessions, cfg.JWT, logg))
		r.Post("/refresh", controllers.AuthRefresh(sessions, cfg.JWT, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessions, logg))

		r.Route("/items", func(r chi.Router) {
			r.Get("/", controllers.ListItems(catalogService, logg))
			r.Post("/", controllers.CreateItem(catalogService, logg))
			r.Get("/{itemId}", controllers.GetItem(catalogService, logg))
			r.Patch("/{itemId}", controllers.UpdateItem(catalogService, logg))
			r.Delete("/{itemId}", controllers.DeleteItem(catalogService, logg))
		})

		r.Route("/profile", func(r chi.Router) {
			r.Get("/", controllers.GetProfile(profileService, logg))
			r.Put("/", controllers.UpdateProfile(profileService, logg))
			r.Post("/photo", controllers.UploadProfilePhoto(profileService, logg))
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.GetCart(cartService, logg))
			r.Delete("/", controllers.ClearCart(cartService, logg))
			r.Post("/items", controllers.AddCartItem(cartService, logg))
			r.Put("/items/{itemId}", controllers.SetCartItemQuantity(cartService, logg))
			r.Delete("/items/{itemId}", controllers.RemoveCartItem(cartService, logg))
		})

		r.Post("/checkout", controllers.Checkout(salesService, logg))

		r.Route("/sales", func(r chi.Router) {
			r.Get("/", controllers.ListSales(salesService, logg))
			r.Get("/{saleId}/receipt", controllers.SaleReceipt(salesService, receiptFormatter, cfg.App, logg))
		})
	})

	return r
}

func healthChecks(dbP controllers.Pinger, redisClient *redis.Client, storageP controllers.Pinger) map[string]controllers.Pinger {
	checks := map[string]controllers.Pinger{}
	if dbP != nil {
		checks["db"] = dbP
	}
	if redisClient != nil {
		checks["redis"] = redisClient
	}
	if storageP != nil {
		checks["gcs"] = storageP
	}
	return checks
}
