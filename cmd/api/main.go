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
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"

	"github.com/thihanaing/minpos-backend/api/routes"
	"github.com/thihanaing/minpos-backend/internal/auth"
	"github.com/thihanaing/minpos-backend/internal/cart"
	"github.com/thihanaing/minpos-backend/internal/catalog"
	"github.com/thihanaing/minpos-backend/internal/profiles"
	"github.com/thihanaing/minpos-backend/internal/receipts"
	"github.com/thihanaing/minpos-backend/internal/sales"
	"github.com/thihanaing/minpos-backend/internal/users"
	"github.com/thihanaing/minpos-backend/pkg/auth/session"
	"github.com/thihanaing/minpos-backend/pkg/config"
	"github.com/thihanaing/minpos-backend/pkg/db"
	"github.com/thihanaing/minpos-backend/pkg/logger"
	"github.com/thihanaing/minpos-backend/pkg/migrate"
	"github.com/thihanaing/minpos-backend/pkg/outbox"
	"github.com/thihanaing/minpos-backend/pkg/redis"
	"github.com/thihanaing/minpos-backend/pkg/storage/gcs"
)

const shutdownTimeout = 15 * time.Second

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
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}

	var gcsClient *gcs.Client
	if cfg.GCS.BucketName != "" {
		gcsClient, err = gcs.NewClient(context.Background(), cfg.GCS, cfg.GCP, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap gcs", err)
			os.Exit(1)
		}
	} else {
		logg.Warn(context.Background(), "gcs bucket not configured, photo uploads disabled")
	}

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	outboxService := outbox.NewService(outbox.NewRepository(dbClient.DB()), logg)

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       users.NewRepository(dbClient.DB()),
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	registerService, err := auth.NewRegisterService(auth.RegisterServiceParams{
		DB:             dbClient,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create register service", err)
		os.Exit(1)
	}

	catalogRepo := catalog.NewRepository(dbClient.DB())
	catalogService, err := catalog.NewService(catalogRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}

	cartStore, err := cart.NewStore(redisClient, cfg.Checkout.CartTTL)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart store", err)
		os.Exit(1)
	}
	cartService, err := cart.NewService(cartStore, catalogRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}

	profileRepo := profiles.NewRepository(dbClient.DB())
	var profileService profiles.Service
	if gcsClient != nil {
		profileService, err = profiles.NewService(dbClient, profileRepo, gcsClient, outboxService)
	} else {
		profileService, err = profiles.NewService(dbClient, profileRepo, nil, outboxService)
	}
	if err != nil {
		logg.Error(context.Background(), "failed to create profile service", err)
		os.Exit(1)
	}

	salesService, err := sales.NewService(sales.ServiceParams{
		Tx:       dbClient,
		Repo:     sales.NewRepository(dbClient.DB()),
		Cart:     cartStore,
		Profiles: profileRepo,
		Locker:   redisClient,
		Outbox:   outboxService,
		Logg:     logg,
		Checkout: cfg.Checkout,
		App:      cfg.App,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create sales service", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	var storagePinger routes.Pinger
	if gcsClient != nil {
		storagePinger = gcsClient
	}

	router := routes.NewRouter(
		cfg,
		logg,
		registry,
		dbClient,
		redisClient,
		storagePinger,
		sessionManager,
		authService,
		registerService,
		catalogService,
		cartService,
		salesService,
		profileService,
		receipts.NewFormatter(),
	)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logCtx := logg.WithFields(ctx, map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(logCtx, "starting api server")

	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(logCtx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		logg.Info(logCtx, "shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logg.Error(logCtx, "error during server shutdown", err)
	}

	if err := closeResources(dbClient, redisClient); err != nil {
		logg.Error(logCtx, "error releasing resources", err)
		os.Exit(1)
	}

	logg.Info(logCtx, "api server shut down gracefully")
}

func closeResources(dbClient *db.Client, redisClient *redis.Client) error {
	var err error
	if dbClient != nil {
		err = multierr.Append(err, dbClient.Close())
	}
	if redisClient != nil {
		err = multierr.Append(err, redisClient.Close())
	}
	return err
}
