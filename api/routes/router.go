package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/canteen-backend/api/controllers"
	"github.com/angelmondragon/canteen-backend/api/middleware"
	"github.com/angelmondragon/canteen-backend/internal/analytics"
	"github.com/angelmondragon/canteen-backend/internal/inventory"
	"github.com/angelmondragon/canteen-backend/internal/menu"
	"github.com/angelmondragon/canteen-backend/internal/notifications"
	"github.com/angelmondragon/canteen-backend/internal/orders"
	"github.com/angelmondragon/canteen-backend/internal/profiles"
	"github.com/angelmondragon/canteen-backend/internal/realtime"
	"github.com/angelmondragon/canteen-backend/pkg/config"
	"github.com/angelmondragon/canteen-backend/pkg/enums"
	"github.com/angelmondragon/canteen-backend/pkg/logger"
	"github.com/angelmondragon/canteen-backend/pkg/metrics"
	"github.com/angelmondragon/canteen-backend/pkg/redis"
)

// Params carries everything the HTTP surface is built from. Redis may be nil,
// which disables idempotency replay and rate limiting.
type Params struct {
	Config   *config.Config
	Logger   *logger.Logger
	DB       controllers.Pinger
	Redis    *redis.Client
	Gatherer prometheus.Gatherer
	Metrics  *metrics.CanteenMetrics
	Hub      *realtime.Hub
	Shutdown context.Context

	Profiles      profiles.Service
	Menu          menu.Service
	Orders        orders.Service
	Inventory     inventory.Service
	Notifications notifications.Service
	Analytics     analytics.Service
}

func NewRouter(p Params) http.Handler {
	cfg, logg := p.Config, p.Logger
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.CORS),
	)

	readiness := map[string]controllers.Pinger{"db": p.DB}
	if p.Redis != nil {
		readiness["redis"] = p.Redis
	}
	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, readiness))
	})
	if p.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(p.Gatherer, promhttp.HandlerOpts{}))
	}

	authenticate := middleware.Auth(cfg.JWT, p.Profiles, logg)
	idempotency := middleware.Idempotency(idempotencyStore(p.Redis), logg)
	ordersLimit := middleware.RateLimit(
		middleware.NewRateLimitPolicy("orders", cfg.RateLimit.Window, cfg.RateLimit.OrdersLimit),
		rateLimiter(p.Redis),
		logg,
	)
	can := func(capability enums.Capability) func(http.Handler) http.Handler {
		return middleware.RequireCapability(capability, logg)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(authenticate, idempotency)

		r.Get("/me", controllers.Me(p.Profiles, logg))
		r.Get("/menu", controllers.ListMenu(p.Menu, logg))
		r.Get("/categories", controllers.ListCategories(p.Menu, logg))

		r.Route("/orders", func(r chi.Router) {
			r.With(can(enums.CapabilityPlaceOrders), ordersLimit).Post("/", controllers.PlaceOrder(p.Orders, logg))
			r.Get("/", controllers.ListOrders(p.Orders, logg))
			r.Get("/{orderId}", controllers.GetOrder(p.Orders, logg))
		})
		r.With(can(enums.CapabilityViewOwnStats)).Get("/stats", controllers.StudentStats(p.Analytics, logg))

		r.Route("/notifications", func(r chi.Router) {
			r.Get("/", controllers.ListNotifications(p.Notifications, logg))
			r.Post("/read-all", controllers.MarkAllNotificationsRead(p.Notifications, logg))
			r.Post("/{notificationId}/read", controllers.MarkNotificationRead(p.Notifications, logg))
		})

		r.Get("/realtime", controllers.Realtime(controllers.RealtimeParams{
			Hub:            subscriber(p.Hub),
			Config:         cfg.Realtime,
			AllowedOrigins: cfg.CORS.AllowedOrigins,
			Metrics:        p.Metrics,
			Logger:         logg,
			Shutdown:       p.Shutdown,
		}))
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(authenticate, idempotency)

		r.With(can(enums.CapabilityManageOrders)).Get("/overview", controllers.AdminOverview(p.Analytics, logg))
		r.Route("/orders", func(r chi.Router) {
			r.Use(can(enums.CapabilityManageOrders))
			r.Get("/board", controllers.OrderBoard(p.Orders, logg))
			r.Post("/{orderId}/advance", controllers.AdvanceOrder(p.Orders, logg))
		})
		r.With(can(enums.CapabilityManageMenu)).Patch("/menu/{menuItemId}/availability", controllers.SetMenuAvailability(p.Menu, logg))
		r.Route("/inventory", func(r chi.Router) {
			r.Use(can(enums.CapabilityManageInventory))
			r.Get("/", controllers.ListInventory(p.Inventory, logg))
			r.Put("/{itemId}/stock", controllers.SetStock(p.Inventory, logg))
			r.Post("/{itemId}/adjust", controllers.AdjustStock(p.Inventory, logg))
		})
		r.With(can(enums.CapabilityViewAnalytics)).Get("/analytics", controllers.AdminAnalytics(p.Analytics, logg))
	})

	return r
}

// A nil *redis.Client must reach the middleware as a nil interface.
func idempotencyStore(client *redis.Client) redis.IdempotencyStore {
	if client == nil {
		return nil
	}
	return client
}

func rateLimiter(client *redis.Client) middleware.RateLimitStore {
	if client == nil {
		return nil
	}
	return client
}

func subscriber(hub *realtime.Hub) controllers.EventSubscriber {
	if hub == nil {
		return nil
	}
	return hub
}
