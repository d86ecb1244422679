package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/angelmondragon/canteen-backend/internal/cron"
	"github.com/angelmondragon/canteen-backend/internal/inventory"
	"github.com/angelmondragon/canteen-backend/internal/notifications"
	"github.com/angelmondragon/canteen-backend/internal/profiles"
	"github.com/angelmondragon/canteen-backend/internal/realtime"
	"github.com/angelmondragon/canteen-backend/pkg/config"
	"github.com/angelmondragon/canteen-backend/pkg/db"
	"github.com/angelmondragon/canteen-backend/pkg/instance"
	"github.com/angelmondragon/canteen-backend/pkg/logger"
	"github.com/angelmondragon/canteen-backend/pkg/metrics"
	"github.com/angelmondragon/canteen-backend/pkg/migrate"
	"github.com/angelmondragon/canteen-backend/pkg/redis"
)

const lockName = "cron-worker"

func main() {
	once := flag.Bool("once", false, "run every job a single time and exit")
	flag.Parse()

	logg := logger.New(logger.Options{ServiceName: "cron-worker"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "cron-worker",
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
	ctx = logg.WithFields(ctx, map[string]any{
		"env":      cfg.App.Env,
		"once":     *once,
		"instance": instance.GetID(),
	})

	// The worker only publishes; API instances consume the feed.
	if strings.EqualFold(cfg.Realtime.Transport, config.RealtimeTransportMemory) {
		logg.Warn(ctx, "memory realtime transport does not leave this process; alerts will not stream live")
	}
	broker, closeBroker, err := realtime.OpenBroker(ctx, realtime.TransportParams{
		Config: cfg,
		Hub:    realtime.NewHub(cfg.Realtime.BufferSize),
		Redis:  redisClient,
		Logger: logg,
	})
	if err != nil {
		logg.Error(ctx, "failed to open realtime transport", err)
		os.Exit(1)
	}
	defer func() {
		if err := closeBroker(); err != nil {
			logg.Error(context.Background(), "error closing realtime transport", err)
		}
	}()
	emitter := realtime.NewEmitter(broker, logg, metrics.NewCanteenMetrics(prometheus.DefaultRegisterer))

	gdb := dbClient.DB()

	registry, err := cron.CanteenJobs(cron.CanteenJobsParams{
		Logger:        logg,
		Inventory:     inventory.NewRepository(gdb),
		Admins:        profiles.NewRepository(gdb),
		Notifications: notifications.NewRepository(gdb),
		Emitter:       emitter,
		WarningDays:   cfg.Inventory.ExpiryWarningDays,
		RetentionDays: cfg.Cron.NotificationRetentionDays,
		Location:      loc,
	})
	exitOnErr(ctx, logg, "cron jobs", err)

	lock, err := cron.NewRedisLock(redisClient, lockName, cfg.Cron.LockTTL)
	exitOnErr(ctx, logg, "cron lock", err)

	service, err := cron.NewService(cron.ServiceParams{
		Logger:   logg,
		Registry: registry,
		Lock:     lock,
		Metrics:  metrics.NewCronJobMetrics(prometheus.DefaultRegisterer),
		Interval: cfg.Cron.Interval,
	})
	exitOnErr(ctx, logg, "cron service", err)

	if *once {
		if err := service.RunOnce(ctx); err != nil {
			logg.Error(ctx, "cron run failed", err)
			os.Exit(1)
		}
		return
	}

	logg.Info(ctx, "starting cron worker")
	if err := service.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "cron worker stopped unexpectedly", err)
		os.Exit(1)
	}
	logg.Info(ctx, "cron worker shutting down gracefully")
}

func exitOnErr(ctx context.Context, logg *logger.Logger, what string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, "failed to create "+what, err)
	os.Exit(1)
}
