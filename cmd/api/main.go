package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/microsite-ads/backend/internal/adsplatform"
	"github.com/microsite-ads/backend/internal/config"
	"github.com/microsite-ads/backend/internal/db"
	"github.com/microsite-ads/backend/internal/events"
	"github.com/microsite-ads/backend/internal/generator"
	apphttp "github.com/microsite-ads/backend/internal/http"
	"github.com/microsite-ads/backend/internal/http/handlers"
	"github.com/microsite-ads/backend/internal/linkcheck"
	"github.com/microsite-ads/backend/internal/repositories"
	"github.com/microsite-ads/backend/internal/services"
	"github.com/microsite-ads/backend/internal/store"
	"go.uber.org/zap"
)

func main() {
	log, _ := zap.NewProduction()
	defer log.Sync()

	cfg := config.Load()
	cfg.Validate(log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Redis: config document (default backend), rate limits, events
	rdb, err := db.NewRedisClient(ctx, cfg.RedisURL, log)
	if err != nil {
		log.Fatal("failed to connect to redis", zap.Error(err))
	}
	defer rdb.Close()

	// Postgres is optional: audit log and the postgres store backend
	var pool *pgxpool.Pool
	var auditor services.Auditor
	var auditReader handlers.AuditReader
	if cfg.PostgresDSN != "" {
		pool, err = db.NewPostgresPool(ctx, cfg.PostgresDSN, log)
		if err != nil {
			log.Fatal("failed to connect to postgres", zap.Error(err))
		}
		defer pool.Close()

		if err := db.RunMigrations(ctx, pool, "migrations", log); err != nil {
			log.Fatal("failed to run migrations", zap.Error(err))
		}

		auditRepo := repositories.NewAuditRepo(pool)
		auditor = auditRepo
		auditReader = auditRepo
	} else {
		log.Warn("POSTGRES_DSN not set, audit log disabled")
	}

	// Config store
	var st store.Store
	switch cfg.StoreBackend {
	case "postgres":
		st = store.NewPostgresStore(pool, cfg.StoreKey, cfg.StoreOptimisticLock, log)
	case "memory":
		st = store.NewMemoryStore(cfg.StoreOptimisticLock)
	default:
		st = store.NewRedisStore(rdb, cfg.StoreKey, cfg.StoreOptimisticLock, log)
	}
	if err := st.Probe(ctx); err != nil {
		log.Error("campaign config unreadable, serving an empty catalog", zap.String("backend", cfg.StoreBackend), zap.Error(err))
	}
	log.Info("campaign config store ready",
		zap.String("backend", cfg.StoreBackend),
		zap.String("key", cfg.StoreKey),
		zap.Bool("optimistic_lock", cfg.StoreOptimisticLock),
	)

	// External ads platform
	var platform adsplatform.Platform = adsplatform.Unconfigured{}
	if cfg.GoogleAdsConfigured() {
		tokens := adsplatform.RefreshTokenSource(ctx, cfg.GoogleAdsClientID, cfg.GoogleAdsClientSecret, cfg.GoogleAdsRefreshToken)
		platform = adsplatform.NewGoogleAdsClient(adsplatform.GoogleAdsOptions{
			BaseURL:         cfg.GoogleAdsBaseURL,
			APIVersion:      cfg.GoogleAdsAPIVersion,
			DeveloperToken:  cfg.GoogleAdsDeveloperToken,
			LoginCustomerID: cfg.GoogleAdsLoginCustomer,
			Timeout:         cfg.GoogleAdsTimeout,
		}, tokens, log)
	}

	// Events
	publisher := events.NewRedisPublisher(rdb, log)
	subscriber := events.NewRedisSubscriber(rdb, log)

	// Services
	gen, err := generator.New(cfg.PublicBaseURL)
	if err != nil {
		log.Fatal("invalid PUBLIC_BASE_URL", zap.Error(err))
	}
	adsService := services.NewAdsService(st, gen, platform, auditor, publisher, log)
	productService := services.NewProductService(st, cfg.DefaultGoogleAdsID, auditor, publisher, log)
	resolver := services.NewRedirectResolver(st, cfg.DefaultProductSlug, cfg.OfflinePath, cfg.HostVerticals, log)
	checker := linkcheck.NewChecker(cfg.LinkCheckTimeout, log)

	// Handlers
	healthHandler := handlers.NewHealthHandler(st, log)
	adsHandler := handlers.NewAdsHandler(adsService, log)
	productHandler := handlers.NewProductHandler(productService, checker, auditReader, log)
	platformHandler := handlers.NewPlatformHandler(adsService, log)
	redirectHandler := handlers.NewRedirectHandler(resolver, log)
	wsHub := handlers.NewWSHub(cfg, subscriber, log)

	// Start WS hub
	wsHub.Start(ctx)

	// Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{"error": err.Error()})
		},
	})

	apphttp.SetupRouter(app, cfg, log, rdb, healthHandler, adsHandler, productHandler, platformHandler, redirectHandler, wsHub)

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")
		cancel()
		_ = app.Shutdown()
	}()

	addr := fmt.Sprintf(":%s", cfg.APIPort)
	log.Info("starting API server", zap.String("addr", addr))
	if err := app.Listen(addr); err != nil {
		log.Fatal("server error", zap.Error(err))
	}
}
