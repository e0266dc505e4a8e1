package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/paraverse/backend/internal/auth"
	"github.com/paraverse/backend/internal/cache"
	"github.com/paraverse/backend/internal/database"
	"github.com/paraverse/backend/internal/email"
	"github.com/paraverse/backend/internal/geocode"
	"github.com/paraverse/backend/internal/handlers"
	"github.com/paraverse/backend/internal/logger"
	"github.com/paraverse/backend/internal/middleware"
	"github.com/paraverse/backend/internal/models"
	"github.com/paraverse/backend/internal/storage"
	"github.com/paraverse/backend/internal/telemetry"
	"github.com/paraverse/backend/internal/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using system environment variables")
	}

	if err := logger.Initialize(os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FILE")); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Close()

	logger.Log.Info("=== Paraverse server starting ===")

	// Tracing is opt-in; without an endpoint the provider stays off
	tp, err := telemetry.InitTracer(telemetry.Config{
		ServiceName:  "paraverse-backend",
		Environment:  getEnvOrDefault("ENVIRONMENT", "development"),
		OTLPEndpoint: os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
		Enabled:      os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT") != "",
		SamplingRate: samplingRateFromEnv(),
	})
	if err != nil {
		logger.Log.Warn("Failed to initialize tracing", zap.Error(err))
	} else if tp != nil {
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = tp.Shutdown(ctx)
		}()
	}

	if err := database.Initialize(); err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer database.Close()

	if err := database.Migrate(); err != nil {
		logger.Log.Fatal("Failed to run migrations", zap.Error(err))
	}

	// Redis backs ad caching, star-count caching and distributed rate
	// limiting; everything degrades gracefully without it
	if host := os.Getenv("REDIS_HOST"); host != "" {
		if _, err := cache.NewRedisClient(host, getEnvOrDefault("REDIS_PORT", "6379"), os.Getenv("REDIS_PASSWORD")); err != nil {
			logger.Log.Warn("Redis unavailable, caching and shared rate limits disabled", zap.Error(err))
		}
	}
	defer func() {
		if rc := cache.GetRedisClient(); rc != nil {
			_ = rc.Close()
		}
	}()

	jwtSecret := []byte(os.Getenv("JWT_SECRET"))
	if len(jwtSecret) == 0 {
		logger.Log.Fatal("JWT_SECRET environment variable is required")
	}

	authService := auth.NewService(
		jwtSecret,
		os.Getenv("GOOGLE_CLIENT_ID"),
		os.Getenv("GOOGLE_CLIENT_SECRET"),
	)

	h := handlers.NewHandlers(authService)

	if bucket := os.Getenv("AWS_BUCKET"); bucket != "" {
		s3Uploader, err := storage.NewS3Uploader(
			os.Getenv("AWS_REGION"),
			bucket,
			os.Getenv("CDN_BASE_URL"),
		)
		if err != nil {
			logger.Log.Fatal("Failed to initialize S3 uploader", zap.Error(err))
		}
		if err := s3Uploader.CheckBucketAccess(context.Background()); err != nil {
			logger.Log.Warn("S3 bucket access failed, image uploads will fail", zap.Error(err))
		}
		h.SetUploader(s3Uploader)
	} else {
		logger.Log.Warn("AWS_BUCKET not set, image uploads disabled")
	}

	if from := os.Getenv("SES_FROM_EMAIL"); from != "" {
		mailer, err := email.NewEmailService(
			os.Getenv("AWS_REGION"),
			from,
			getEnvOrDefault("SES_FROM_NAME", "Paraverse"),
			getEnvOrDefault("FRONTEND_URL", "http://localhost:3000"),
		)
		if err != nil {
			logger.Log.Warn("Failed to initialize email service", zap.Error(err))
		} else {
			h.SetMailer(mailer)
		}
	}

	h.SetGeocoder(geocode.NewClient(os.Getenv("GEOCODE_BASE_URL")))

	wsHub := websocket.NewHub()
	go wsHub.Run()
	h.SetHub(wsHub)
	wsHandler := websocket.NewHandler(wsHub, authService)

	gin.SetMode(getEnvOrDefault("GIN_MODE", gin.DebugMode))
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.GinLoggerMiddleware())
	r.Use(middleware.MetricsMiddleware())
	r.Use(middleware.TracingMiddleware("paraverse-backend"))
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = corsOriginsFromEnv()
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept-Language", "X-Request-ID"}
	r.Use(cors.New(corsConfig))

	r.GET("/health", func(c *gin.Context) {
		status := "ok"
		code := http.StatusOK
		if err := database.Health(); err != nil {
			status = "degraded"
			code = http.StatusServiceUnavailable
		}
		c.JSON(code, gin.H{
			"status":    status,
			"timestamp": time.Now().UTC(),
			"service":   "paraverse-backend",
		})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api/v1")
	{
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", middleware.RateLimitSmartAuth(), h.Register)
			authGroup.POST("/login", middleware.RateLimitSmartAuth(), h.Login)
			authGroup.GET("/google", h.GoogleLogin)
			authGroup.GET("/google/callback", h.GoogleCallback)
			authGroup.GET("/me", authService.Middleware(), h.Me)
		}

		// Reads work logged out; an optional token personalizes the scope
		public := api.Group("")
		public.Use(authService.OptionalMiddleware())
		public.GET("/ads/:placement", h.GetAds)
		public.GET("/geocode", h.Geocode)
		public.GET("/users/:id", h.GetUser)
		public.GET("/users/:id/followers", h.ListFollowers)
		public.GET("/users/:id/following", h.ListFollowing)

		authed := api.Group("")
		authed.Use(authService.Middleware(), middleware.RateLimitSmartDefault())
		authed.GET("/users/me", h.Me)
		authed.PUT("/users/me", h.UpdateMe)
		authed.POST("/users/me/picture", middleware.RateLimitUpload(), h.UploadAvatar)
		authed.POST("/users/:id/follow", h.FollowUser)
		authed.DELETE("/users/:id/follow", h.UnfollowUser)
		authed.GET("/conversations", h.ListConversations)
		authed.POST("/conversations", h.OpenConversation)
		authed.GET("/conversations/:id/messages", h.ListMessages)
		authed.POST("/conversations/:id/messages", h.SendMessage)
		authed.GET("/notifications", h.ListNotifications)
		authed.GET("/notifications/count", h.CountNotifications)
		authed.POST("/notifications/read", h.MarkNotificationsRead)
		authed.PUT("/comments/:id", h.UpdateComment)
		authed.DELETE("/comments/:id", h.DeleteComment)

		admin := api.Group("/admin")
		admin.Use(authService.Middleware(), auth.RequireAdmin())
		admin.GET("/roles", h.GetAdminRoles)
		admin.POST("/roles", h.GrantAdmin)
		admin.DELETE("/roles/:userId", h.RevokeAdmin)
		admin.GET("/ads", h.ListAllAds)
		admin.POST("/ads", h.CreateAd)
		admin.PUT("/ads/:id", h.UpdateAd)
		admin.DELETE("/ads/:id", h.DeleteAd)

		// Each feed kind exposes the same route shape; comments, stars
		// and images are registered per kind to keep paths unambiguous
		registerEntityRoutes := func(path string, kind models.EntityKind, list, create, get, update, del gin.HandlerFunc) {
			public.GET(path, list)
			public.GET(path+"/:id", get)
			public.GET(path+"/:id/comments", h.ListComments(kind))
			public.GET(path+"/:id/stars", h.GetStars(kind))
			authed.POST(path, middleware.RateLimitSmartWrite(), create)
			authed.PUT(path+"/:id", update)
			authed.DELETE(path+"/:id", del)
			authed.POST(path+"/:id/comments", middleware.RateLimitSmartWrite(), h.CreateComment(kind))
			authed.PUT(path+"/:id/star", h.ToggleStar(kind))
			authed.POST(path+"/:id/image", middleware.RateLimitUpload(), h.UploadEntityImage(kind))
		}

		registerEntityRoutes("/locations", models.KindLocation, h.ListLocations, h.CreateLocation, h.GetLocation, h.UpdateLocation, h.DeleteLocation)
		registerEntityRoutes("/events", models.KindEvent, h.ListEvents, h.CreateEvent, h.GetEvent, h.UpdateEvent, h.DeleteEvent)
		registerEntityRoutes("/marketplace", models.KindMarketplace, h.ListMarketplace, h.CreateMarketplaceItem, h.GetMarketplaceItem, h.UpdateMarketplaceItem, h.DeleteMarketplaceItem)
		registerEntityRoutes("/collabs", models.KindCollab, h.ListCollabs, h.CreateCollab, h.GetCollab, h.UpdateCollab, h.DeleteCollab)
		registerEntityRoutes("/creator-posts", models.KindCreatorPost, h.ListCreatorPosts, h.CreateCreatorPost, h.GetCreatorPost, h.UpdateCreatorPost, h.DeleteCreatorPost)
		registerEntityRoutes("/posts", models.KindPost, h.ListPosts, h.CreatePost, h.GetPost, h.UpdatePost, h.DeletePost)

		// WebSocket connection endpoint - auth via ?token= or Authorization header
		api.GET("/ws", wsHandler.HandleWebSocket)
	}

	port := getEnvOrDefault("PORT", "8790")
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	go func() {
		logger.Log.Info("Paraverse backend listening", zap.String("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := wsHub.Shutdown(ctx); err != nil {
		logger.Log.Warn("WebSocket shutdown warning", zap.Error(err))
	}
	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Log.Info("Server exited")
}

func corsOriginsFromEnv() []string {
	if origin := os.Getenv("FRONTEND_URL"); origin != "" {
		return []string{origin}
	}
	return []string{"*"}
}

func samplingRateFromEnv() float64 {
	if v := os.Getenv("OTEL_SAMPLING_RATE"); v != "" {
		if rate, err := strconv.ParseFloat(v, 64); err == nil {
			return rate
		}
	}
	return 1.0
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
