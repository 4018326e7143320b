// cmd/server/main.go - Lost & Found matching backend
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"lostfound/internal/config"
	"lostfound/internal/database"
	"lostfound/internal/handlers"
	"lostfound/internal/middleware"
	"lostfound/internal/repository"
	"lostfound/internal/services"
	"lostfound/pkg/auth"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

var (
	serverStartTime = time.Now()

	appVersion = "1.0.0"
)

func main() {
	cfg := config.Load()

	logger := setupLogging(cfg)

	log.Println("🔌 Connecting to MongoDB...")
	db, err := database.NewMongoDB(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to connect to MongoDB: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("⚠️  Error disconnecting from MongoDB: %v", err)
		}
	}()

	{
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		if err := db.CreateIndexes(ctx); err != nil {
			log.Printf("⚠️  Warning: Failed to create some indexes: %v", err)
		}
		cancel()
	}

	jwtManager := auth.NewJWTManager(
		cfg.JWTSecret,
		time.Duration(cfg.JWTExpiration)*time.Hour,
	)

	// Repositories
	itemRepo := repository.NewMongoItemRepository(db.Database.Collection("items"))
	notificationRepo := repository.NewMongoNotificationRepository(db.Database.Collection("notifications"))
	userRepo := repository.NewMongoUserRepository(db.Database.Collection("users"))

	// Real-time delivery
	wsHandler := handlers.NewWebSocketHandler(jwtManager)
	wsHandler.StartHub()

	pushService := services.NewPushService(cfg.PushWebhookURL, logger.WithField("component", "push"))

	// Matching engine
	matchService := services.NewMatchService(
		itemRepo,
		notificationRepo,
		userRepo,
		cfg.MatchThreshold,
		cfg.NotificationDailyCap,
		logger.WithField("component", "matcher"),
		wsHandler,
		pushService,
	)

	// Handlers
	authHandler := handlers.NewAuthHandler(userRepo, jwtManager)
	itemHandler := handlers.NewItemHandler(itemRepo, matchService)
	notificationHandler := handlers.NewNotificationHandler(notificationRepo, userRepo)
	insightsHandler := handlers.NewInsightsHandler(itemRepo, notificationRepo, matchService, logger.WithField("component", "insights"))

	router := setupRouter(cfg, jwtManager, authHandler, itemHandler, notificationHandler, insightsHandler, wsHandler)

	srv := &http.Server{
		Addr:           fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Handler:        router,
		ReadTimeout:    15 * time.Second,
		WriteTimeout:   15 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 20, // 1 MB
	}

	go func() {
		log.Printf("🚀 Lost & Found backend v%s starting...", appVersion)
		log.Printf("🌐 Server running on http://%s:%s", cfg.Host, cfg.Port)
		log.Printf("📡 WebSocket endpoint: ws://%s:%s/ws", cfg.Host, cfg.Port)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ Server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("⚠️  Server forced to shutdown: %v", err)
	} else {
		log.Println("✅ Server gracefully stopped")
	}

	log.Println("👋 Lost & Found backend exited")
}

func setupLogging(cfg *config.Config) *logrus.Logger {
	logger := logrus.New()

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetLevel(logrus.InfoLevel)
	} else {
		gin.SetMode(gin.DebugMode)
		logger.SetLevel(logrus.DebugLevel)
		log.SetFlags(log.LstdFlags | log.Lshortfile)
	}

	return logger
}

func setupRouter(
	cfg *config.Config,
	jwtManager *auth.JWTManager,
	authHandler *handlers.AuthHandler,
	itemHandler *handlers.ItemHandler,
	notificationHandler *handlers.NotificationHandler,
	insightsHandler *handlers.InsightsHandler,
	wsHandler *handlers.WebSocketHandler,
) *gin.Engine {
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(gin.Logger())
	router.Use(middleware.RequestID())

	corsConfig := cors.Config{
		AllowOrigins:     strings.Split(cfg.AllowedOrigins, ","),
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if cfg.AllowedOrigins == "*" {
		corsConfig.AllowOrigins = nil
		corsConfig.AllowAllOrigins = true
		corsConfig.AllowCredentials = false
	}
	router.Use(cors.New(corsConfig))

	rateLimiter := middleware.NewRateLimiter(
		cfg.RateLimitRequests,
		time.Duration(cfg.RateLimitWindow)*time.Second,
	)
	router.Use(rateLimiter.RateLimit())

	// WebSocket endpoint, authenticated via query token
	router.GET("/ws", wsHandler.HandleWebSocket)

	setupHealthRoutes(router, wsHandler)

	v1 := router.Group("/api/v1")
	{
		// Public routes
		v1.POST("/auth/register", authHandler.Register)
		v1.POST("/auth/login", authHandler.Login)

		// Protected routes
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(jwtManager))

		protected.GET("/users/me", authHandler.GetProfile)
		protected.GET("/users/me/stats", itemHandler.GetMyStats)

		protected.GET("/items", itemHandler.GetItems)
		protected.GET("/items/mine", itemHandler.GetMyItems)
		protected.POST("/items", itemHandler.CreateItem)
		protected.POST("/items/:id/resolve", itemHandler.ResolveItem)

		protected.GET("/notifications", notificationHandler.GetNotifications)
		protected.GET("/notifications/unread-count", notificationHandler.GetUnreadCount)
		protected.PUT("/notifications/:id/read", notificationHandler.MarkAsRead)
		protected.PUT("/notifications/read-all", notificationHandler.MarkAllAsRead)

		protected.GET("/insights/hotspots", insightsHandler.GetHotspots)
		protected.GET("/insights/location-risk", insightsHandler.GetLocationRisk)
		protected.GET("/insights/items/:id/predictions", insightsHandler.PredictLocations)

		// Moderator routes
		admin := protected.Group("")
		admin.Use(middleware.ModeratorMiddleware())

		admin.POST("/insights/hotspots/notify", insightsHandler.NotifyHotspots)
		admin.GET("/insights/users/:id/behavior", insightsHandler.AnalyzeUser)
		admin.POST("/insights/claims/validate", insightsHandler.ValidateClaim)
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Endpoint not found",
			"path":  c.Request.URL.Path,
		})
	})

	return router
}

func setupHealthRoutes(router *gin.Engine, wsHandler *handlers.WebSocketHandler) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now().Format(time.RFC3339),
			"uptime":    time.Since(serverStartTime).String(),
			"version":   appVersion,
			"stats": gin.H{
				"websocket_connections": wsHandler.ConnectionsCount(),
			},
		})
	})

	router.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ready": true})
	})

	router.GET("/live", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"alive": true})
	})
}
