// internal/router/router.go
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/phantomos/phantomos-backend/internal/config"
	"github.com/phantomos/phantomos-backend/internal/handlers"
	"github.com/phantomos/phantomos-backend/internal/middleware"
	"github.com/phantomos/phantomos-backend/internal/services"
	"github.com/phantomos/phantomos-backend/internal/utils"
)

// Initialize wires services, handlers and middleware into the HTTP engine.
// Clients with external side effects (AI, S3, Stripe) are constructed here
// and injected, never reached through globals.
func Initialize(db *gorm.DB, cfg *config.Config) *gin.Engine {
	// Services
	storageService, _ := services.NewStorageService(cfg.AWS)
	aiClient := services.NewOpenAIClient(cfg.AI)
	classifier := services.NewKeywordClassifier()

	authService := services.NewAuthService(db, cfg.JWT)
	userService := services.NewUserService(db)
	productService := services.NewProductService(db)
	ipService := services.NewIPService(db)
	connectorService := services.NewConnectorService(db, storageService)
	saleService := services.NewSaleService(db)
	metricsService := services.NewMetricsService(db)
	snapshotService := services.NewSnapshotService(db, metricsService)
	insightService := services.NewInsightService(db, aiClient, classifier)
	billingService := services.NewBillingService(db, cfg.Billing, cfg.Frontend)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)
	productHandler := handlers.NewProductHandler(productService)
	ipHandler := handlers.NewIPHandler(ipService)
	connectorHandler := handlers.NewConnectorHandler(connectorService)
	saleHandler := handlers.NewSaleHandler(saleService)
	analyticsHandler := handlers.NewAnalyticsHandler(metricsService, snapshotService)
	insightHandler := handlers.NewInsightHandler(insightService)
	billingHandler := handlers.NewBillingHandler(billingService)

	utils.SetJWTSecret(cfg.JWT.SecretKey)

	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.Metrics())
	r.Use(middleware.CORS([]string{cfg.Frontend.BaseURL}))
	r.Use(middleware.I18nMiddleware())
	r.Use(middleware.GeneralRateLimit())
	r.Use(middleware.AuditLogMiddleware(db))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": "1.0.0",
		})
	})
	r.GET("/metrics", middleware.PrometheusHandler())

	v1 := r.Group("/v1")

	// Public auth routes behind the tighter auth limiter
	auth := v1.Group("/auth")
	auth.Use(middleware.AuthRateLimit())
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.Refresh)
		auth.POST("/accept-invite", userHandler.AcceptInvite)
	}

	// Stripe webhook is signature-authenticated, not JWT-authenticated
	v1.POST("/billing/webhook", billingHandler.Webhook)

	// Everything below requires a valid token
	authed := v1.Group("")
	authed.Use(middleware.AuthRequired())
	{
		authed.GET("/auth/me", authHandler.Profile)

		users := authed.Group("/users")
		{
			users.GET("", userHandler.List)
			users.POST("/invite", middleware.ManagerRequired(), userHandler.Invite)
			users.PATCH("/:id/role", middleware.ManagerRequired(), userHandler.UpdateRole)
			users.POST("/:id/disable", middleware.ManagerRequired(), userHandler.Disable)
		}

		products := authed.Group("/products")
		{
			products.GET("", productHandler.List)
			products.POST("", productHandler.Create)
			products.GET("/:id", productHandler.Get)
			products.PATCH("/:id", productHandler.Update)
			products.DELETE("/:id", productHandler.Delete)
			products.PUT("/:id/mapping", productHandler.Map)
			products.DELETE("/:id/mapping", productHandler.Unmap)
		}

		gameIPs := authed.Group("/game-ips")
		{
			gameIPs.GET("", ipHandler.ListGameIPs)
			gameIPs.POST("", middleware.ManagerRequired(), ipHandler.CreateGameIP)
			gameIPs.GET("/:id", ipHandler.GetGameIP)
			gameIPs.PATCH("/:id", middleware.ManagerRequired(), ipHandler.UpdateGameIP)
			gameIPs.DELETE("/:id", middleware.ManagerRequired(), ipHandler.DeleteGameIP)
			gameIPs.GET("/:id/assets", ipHandler.ListAssets)
			gameIPs.POST("/:id/assets", middleware.ManagerRequired(), ipHandler.CreateAsset)
		}

		assets := authed.Group("/ip-assets")
		{
			assets.PATCH("/:assetId", middleware.ManagerRequired(), ipHandler.UpdateAsset)
			assets.DELETE("/:assetId", middleware.ManagerRequired(), ipHandler.DeleteAsset)
		}

		authed.GET("/sales", saleHandler.List)

		connectors := authed.Group("/connectors")
		{
			connectors.GET("", connectorHandler.List)
			connectors.POST("", middleware.ManagerRequired(), connectorHandler.Create)
			connectors.DELETE("/:id", middleware.ManagerRequired(), connectorHandler.Delete)
			connectors.POST("/:id/import", middleware.UploadRateLimit(), connectorHandler.Import)
		}

		analytics := authed.Group("/analytics")
		{
			analytics.GET("/overview", analyticsHandler.Overview)
			analytics.GET("/snapshots", analyticsHandler.ListSnapshots)
			analytics.POST("/snapshots/generate", middleware.ManagerRequired(), analyticsHandler.GenerateSnapshots)
		}

		ai := authed.Group("/ai")
		{
			ai.GET("/insights", insightHandler.List)
			ai.POST("/insights", middleware.AIRateLimit(), insightHandler.Generate)
			ai.PATCH("/insights", insightHandler.Update)
		}

		authed.POST("/billing/checkout", middleware.ManagerRequired(), billingHandler.Checkout)
	}

	return r
}
