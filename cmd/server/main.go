package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/yourorg/lifelink/internal/config"
	"github.com/yourorg/lifelink/internal/dispatch"
	"github.com/yourorg/lifelink/internal/handler"
	"github.com/yourorg/lifelink/internal/middleware"
	"github.com/yourorg/lifelink/internal/repository"
	"github.com/yourorg/lifelink/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	_ "github.com/jackc/pgx/v4/stdlib"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig("config/config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Set up logger
	logger, err := createLogger(cfg.Logging.Level)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	// Connect to database
	db, err := connectToDB(cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Initialize Redis client (if enabled)
	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.URL,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})

		// Test Redis connection
		_, err = redisClient.Ping(context.Background()).Result()
		if err != nil {
			logger.Warn("Failed to connect to Redis, running without cache", zap.Error(err))
			redisClient = nil
		} else {
			logger.Info("Connected to Redis", zap.String("address", cfg.Redis.URL))
		}
	}

	// Initialize Kafka producer (if enabled)
	var producer *dispatch.Producer
	if cfg.Kafka.Enabled && len(cfg.Kafka.Brokers) > 0 {
		producer = dispatch.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.ClientID, logger)
		logger.Info("Initialized Kafka producer", zap.Strings("brokers", cfg.Kafka.Brokers))
	}

	// Create repositories
	requestRepo := repository.NewRequestRepository(db, logger)
	donorRepo := repository.NewDonorRepository(db, logger)
	hospitalRepo := repository.NewHospitalRepository(db, logger)
	notificationRepo := repository.NewNotificationRepository(db, logger)
	inventoryRepo := repository.NewInventoryRepository(db, logger)
	rewardRepo := repository.NewRewardRepository(db, logger)

	// Create the notification dispatcher
	dispatcher := dispatch.NewDispatcher(notificationRepo, producer, cfg.Kafka.Topics["notifications"], logger)

	// Create services
	requestService := service.NewRequestService(requestRepo, donorRepo, hospitalRepo, rewardRepo, dispatcher, logger)
	donorService := service.NewDonorService(donorRepo, rewardRepo, redisClient, logger)
	notificationService := service.NewNotificationService(notificationRepo, logger)
	inventoryService := service.NewInventoryService(inventoryRepo, logger)

	// Create HTTP server
	router := setupRouter(
		cfg,
		requestService,
		donorService,
		notificationService,
		inventoryService,
		logger,
	)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start the server in a goroutine
	go func() {
		logger.Info("Starting server", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Create a deadline for server shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Close Kafka producer if initialized
	if producer != nil {
		producer.Close()
	}

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited properly")
}

func createLogger(level string) (*zap.Logger, error) {
	// Parse log level
	var zapLevel zap.AtomicLevel
	switch level {
	case "debug":
		zapLevel = zap.NewAtomicLevelAt(zap.DebugLevel)
	case "info":
		zapLevel = zap.NewAtomicLevelAt(zap.InfoLevel)
	case "warn":
		zapLevel = zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		zapLevel = zap.NewAtomicLevelAt(zap.ErrorLevel)
	default:
		zapLevel = zap.NewAtomicLevelAt(zap.InfoLevel)
	}

	// Create logger config
	config := zap.Config{
		Level:            zapLevel,
		Development:      false,
		Encoding:         "json",
		EncoderConfig:    zap.NewProductionEncoderConfig(),
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}

	return config.Build()
}

func connectToDB(dbConfig config.DatabaseConfig) (*sqlx.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		dbConfig.Host,
		dbConfig.Port,
		dbConfig.User,
		dbConfig.Password,
		dbConfig.DBName,
		dbConfig.SSLMode,
	)

	db, err := sqlx.Connect("pgx", dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(dbConfig.MaxOpenConns)
	db.SetMaxIdleConns(dbConfig.MaxIdleConns)
	db.SetConnMaxLifetime(dbConfig.ConnMaxLifetime)

	return db, nil
}

func setupRouter(
	cfg *config.Config,
	requestService *service.RequestService,
	donorService *service.DonorService,
	notificationService *service.NotificationService,
	inventoryService *service.InventoryService,
	logger *zap.Logger,
) *gin.Engine {
	router := gin.New()

	// Use middlewares
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(logger))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	// API routes
	v1 := router.Group("/api/v1")
	{
		auth := middleware.AuthMiddleware(cfg.Auth.JWTSecret, logger)

		// ==================== BLOOD REQUEST ROUTES ====================
		requests := v1.Group("/requests")
		{
			requests.Use(auth)

			requestHandler := handler.NewRequestHandler(requestService, logger)

			requests.POST("", middleware.RequireRole("hospital"), requestHandler.CreateRequest)
			requests.GET("", middleware.RequireRole("hospital", "admin"), requestHandler.ListRequests)
			requests.GET("/:id", requestHandler.GetRequest)
			requests.GET("/:id/candidates", middleware.RequireRole("hospital", "admin"), requestHandler.GetCandidates)
			requests.POST("/:id/respond", middleware.RequireRole("donor"), requestHandler.Respond)
			requests.POST("/:id/fulfill", middleware.RequireRole("hospital"), requestHandler.Fulfill)
			requests.POST("/:id/cancel", middleware.RequireRole("hospital"), requestHandler.Cancel)
		}

		// ==================== DONOR ROUTES ====================
		donors := v1.Group("/donors")
		{
			donors.Use(auth)

			donorHandler := handler.NewDonorHandler(donorService, logger)

			donors.GET("", donorHandler.SearchDonors)
			donors.GET("/me", middleware.RequireRole("donor"), donorHandler.GetCurrentDonor)
			donors.PUT("/me/availability", middleware.RequireRole("donor"), donorHandler.SetAvailability)
			donors.GET("/me/rewards", middleware.RequireRole("donor"), donorHandler.GetRewards)
		}

		// ==================== NOTIFICATION ROUTES ====================
		notifications := v1.Group("/notifications")
		{
			notifications.Use(auth)

			notificationHandler := handler.NewNotificationHandler(notificationService, logger)

			notifications.GET("", notificationHandler.GetNotifications)
			notifications.GET("/count", notificationHandler.GetUnreadCount)
			notifications.PUT("/:id/read", notificationHandler.MarkAsRead)
			notifications.PUT("/read-all", notificationHandler.MarkAllAsRead)
		}

		// ==================== INVENTORY ROUTES ====================
		inventory := v1.Group("/inventory")
		{
			inventory.Use(auth)

			inventoryHandler := handler.NewInventoryHandler(inventoryService, logger)

			inventory.GET("/:bankID", inventoryHandler.ListByBank)
			inventory.PUT("/:bankID", middleware.RequireRole("blood_bank"), inventoryHandler.Upsert)
		}
	}

	return router
}
