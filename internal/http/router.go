package http

import (
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/microsite-ads/backend/internal/config"
	"github.com/microsite-ads/backend/internal/http/handlers"
	"github.com/microsite-ads/backend/internal/metrics"
	"github.com/microsite-ads/backend/internal/middleware"
	"github.com/microsite-ads/backend/internal/rbac"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func SetupRouter(
	app *fiber.App,
	cfg *config.Config,
	log *zap.Logger,
	rdb *redis.Client,
	healthHandler *handlers.HealthHandler,
	adsHandler *handlers.AdsHandler,
	productHandler *handlers.ProductHandler,
	platformHandler *handlers.PlatformHandler,
	redirectHandler *handlers.RedirectHandler,
	wsHub *handlers.WSHub,
) {
	// Global middleware
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Request-ID",
	}))
	app.Use(middleware.RequestIDMiddleware())
	app.Use(middleware.MetricsMiddleware())
	app.Use(middleware.LoggerMiddleware(log))

	// Health check
	app.Get("/health", healthHandler.Health)
	app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))

	// Public redirect
	app.Get("/go", middleware.RateLimitMiddleware(rdb, cfg.RedirectRateLimitPerMin, time.Minute), redirectHandler.Go)
	app.Get(cfg.OfflinePath, redirectHandler.Offline)

	api := app.Group("/api/v1")

	// Meta (public, no auth required)
	metaHandler := handlers.NewMetaHandler()
	api.Get("/meta/verticals", metaHandler.GetVerticals)
	api.Get("/meta/languages", metaHandler.GetLanguages)
	api.Get("/meta/bidding-strategies", metaHandler.GetBiddingStrategies)
	api.Get("/meta/strategy", metaHandler.GetRecommendation)

	// Admin endpoints
	admin := api.Group("/admin",
		middleware.RateLimitMiddleware(rdb, cfg.AdminRateLimitPerMin, time.Minute),
		middleware.AuthMiddleware(cfg, log),
	)
	can := middleware.RequirePermission

	// Products
	admin.Get("/products", can(rbac.PermViewProducts), productHandler.ListProducts)
	admin.Post("/products", can(rbac.PermEditProducts), productHandler.CreateProduct)
	admin.Post("/products/clone", can(rbac.PermEditProducts), productHandler.CloneProduct)
	admin.Post("/products/cleanup", can(rbac.PermCleanup), productHandler.Cleanup)
	admin.Get("/products/:slug", can(rbac.PermViewProducts), productHandler.GetProduct)
	admin.Patch("/products/:slug", can(rbac.PermEditProducts), productHandler.UpdateProduct)
	admin.Delete("/products/:slug", can(rbac.PermEditProducts), productHandler.DeleteProduct)
	admin.Get("/products/:slug/link-health", can(rbac.PermCheckLinks), productHandler.LinkHealth)
	admin.Get("/products/:slug/history", can(rbac.PermViewProducts), productHandler.History)

	// Settings
	admin.Get("/settings", can(rbac.PermViewProducts), productHandler.GetSettings)
	admin.Put("/settings", can(rbac.PermEditSettings), productHandler.SaveSettings)

	// Ads lifecycle
	admin.Post("/ads/generate", can(rbac.PermGenerateAds), adsHandler.Generate)
	admin.Post("/ads/generate-batch", can(rbac.PermGenerateAds), adsHandler.GenerateBatch)
	admin.Post("/ads/publish", can(rbac.PermPublishAds), adsHandler.Publish)

	// External ads platform
	admin.Get("/platform/accounts", can(rbac.PermViewPlatform), platformHandler.ListAccounts)
	admin.Get("/platform/accounts/:customerId/campaigns", can(rbac.PermViewPlatform), platformHandler.ListCampaigns)
	admin.Get("/platform/accounts/:customerId/metrics", can(rbac.PermViewPlatform), platformHandler.GetMetrics)
	admin.Get("/platform/accounts/:customerId/conversion-actions", can(rbac.PermViewPlatform), platformHandler.ListConversionActions)

	// WebSocket
	app.Use("/ws", handlers.WSUpgradeMiddleware())
	app.Get("/ws", websocket.New(wsHub.HandleWS))
}
