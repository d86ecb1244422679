package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/angelmondragon/canteen-backend/api/routes"
	"github.com/angelmondragon/canteen-backend/internal/analytics"
	"github.com/angelmondragon/canteen-backend/internal/inventory"
	"github.com/angelmondragon/canteen-backend/internal/menu"
	"github.com/angelmondragon/canteen-backend/internal/notifications"
	"github.com/angelmondragon/canteen-backend/internal/orders"
	"github.com/angelmondragon/canteen-backend/internal/profiles"
	"github.com/angelmondragon/canteen-backend/internal/realtime"
	"github.com/angelmondragon/canteen-backend/internal/stats"
	"github.com/angelmondragon/canteen-backend/pkg/config"
	"github.com/angelmondragon/canteen-backend/pkg/db"
	"github.com/angelmondragon/canteen-backend/pkg/instance"
	"github.com/angelmondragon/canteen-backend/pkg/logger"
	"github.com/angelmondragon/canteen-backend/pkg/metrics"
	"github.com/angelmondragon/canteen-backend/pkg/migrate"
	"github.com/angelmondragon/canteen-backend/pkg/redis"
)

const shutdownGrace = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		Format:      cfg.App.LogFormat,
		WarnStack:   cfg.App.LogWarnStack,
	})

	loc, err := cfg.App.Location()
	if err != nil {
		logg.Error(context.Background(), "invalid timezone", err)
		os.Exit(1)
	}

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	canteenMetrics := metrics.NewCanteenMetrics(prometheus.DefaultRegisterer)
	hub := realtime.NewHub(cfg.Realtime.BufferSize)
	broker, closeBroker, err := realtime.OpenBroker(ctx, realtime.TransportParams{
		Config: cfg,
		Hub:    hub,
		Redis:  redisClient,
		Logger: logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to open realtime transport", err)
		os.Exit(1)
	}
	defer func() {
		if err := closeBroker(); err != nil {
			logg.Error(context.Background(), "error closing realtime transport", err)
		}
	}()
	emitter := realtime.NewEmitter(broker, logg, canteenMetrics)

	gdb := dbClient.DB()
	profilesRepo := profiles.NewRepository(gdb)
	menuRepo := menu.NewRepository(gdb)
	ordersRepo := orders.NewRepository(gdb)
	inventoryRepo := inventory.NewRepository(gdb)
	notificationsRepo := notifications.NewRepository(gdb)
	statsRepo := stats.NewRepository(gdb, loc)
	lowFactor := decimal.NewFromFloat(cfg.Inventory.LowStockFactor)

	profilesSvc, err := profiles.NewService(profilesRepo)
	exitOnErr(logg, "profiles service", err)
	menuSvc, err := menu.NewService(menuRepo, emitter)
	exitOnErr(logg, "menu service", err)
	notificationsSvc, err := notifications.NewService(notificationsRepo, emitter)
	exitOnErr(logg, "notifications service", err)

	mirror := orders.NewBoardMirror(hub, ordersRepo, cfg.Realtime.BoardWindow, logg)
	ordersSvc, err := orders.NewService(orders.ServiceParams{
		Repo:          ordersRepo,
		Menu:          menuRepo,
		Stats:         statsRepo,
		Notifications: notificationsRepo,
		Tx:            dbClient,
		Emitter:       emitter,
		Mirror:        mirror,
		Logger:        logg,
		Metrics:       canteenMetrics,
		BoardWindow:   cfg.Realtime.BoardWindow,
	})
	exitOnErr(logg, "orders service", err)

	inventorySvc, err := inventory.NewService(inventory.ServiceParams{
		Repo:          inventoryRepo,
		Notifications: notificationsRepo,
		Admins:        profilesRepo,
		Tx:            dbClient,
		Emitter:       emitter,
		Logger:        logg,
		Metrics:       canteenMetrics,
		LowFactor:     lowFactor,
	})
	exitOnErr(logg, "inventory service", err)

	analyticsSvc, err := analytics.NewService(analytics.ServiceParams{
		Orders:    ordersRepo,
		Menu:      menuRepo,
		Inventory: inventoryRepo,
		Stats:     statsRepo,
		Cache:     redisClient,
		CacheTTL:  cfg.Analytics.CacheTTL,
		Location:  loc,
		LowFactor: lowFactor,
		Logger:    logg,
	})
	exitOnErr(logg, "analytics service", err)

	addr := ":" + cfg.App.Port
	if port := os.Getenv("PORT"); port != "" {
		addr = ":" + port
	}
	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Params{
			Config:        cfg,
			Logger:        logg,
			DB:            dbClient,
			Redis:         redisClient,
			Gatherer:      prometheus.DefaultGatherer,
			Metrics:       canteenMetrics,
			Hub:           hub,
			Shutdown:      ctx,
			Profiles:      profilesSvc,
			Menu:          menuSvc,
			Orders:        ordersSvc,
			Inventory:     inventorySvc,
			Notifications: notificationsSvc,
			Analytics:     analyticsSvc,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	logCtx := logg.WithFields(ctx, map[string]any{
		"env":       cfg.App.Env,
		"addr":      addr,
		"transport": cfg.Realtime.Transport,
		"instance":  instance.GetID(),
	})
	logg.Info(logCtx, "starting api server")

	group, gctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return broker.Run(gctx)
	})
	group.Go(func() error {
		return mirror.Run(gctx)
	})
	group.Go(func() error {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(logCtx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
	logg.Info(logCtx, "api server shut down gracefully")
}

func exitOnErr(logg *logger.Logger, what string, err error) {
	if err == nil {
		return
	}
	logg.Error(context.Background(), "failed to create "+what, err)
	os.Exit(1)
}
