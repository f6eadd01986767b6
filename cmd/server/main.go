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

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/homestash/internal/config"
	"github.com/homestash/internal/handler"
	"github.com/homestash/internal/middleware"
	"github.com/homestash/internal/models"
	"github.com/homestash/internal/oracle"
	"github.com/homestash/internal/oracle/gemini"
	"github.com/homestash/internal/oracle/productdb"
	"github.com/homestash/internal/oracle/vision"
	"github.com/homestash/internal/repository"
	"github.com/homestash/internal/service"
	"github.com/homestash/internal/upload"
)

// Build info (injected at build time via -ldflags)
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

func main() {
	// Load configuration
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Set Gin mode
	gin.SetMode(cfg.Server.Mode)

	// Initialize logger
	if err := middleware.InitLogger("logs"); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	// Initialize database
	db, err := initDatabase(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	// Initialize Redis
	rdb := initRedis(cfg)

	// Auto migrate database
	if err := autoMigrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// Initialize upload store
	uploads, err := upload.NewStore(cfg.Uploads.Dir)
	if err != nil {
		log.Fatalf("Failed to initialize upload store: %v", err)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	locationRepo := repository.NewLocationRepository(db)
	containerRepo := repository.NewContainerRepository(db)
	itemRepo := repository.NewItemRepository(db)

	// Initialize oracles; missing credentials leave an oracle nil and
	// the corresponding endpoints degrade
	oracleTimeout := time.Duration(cfg.Oracle.RequestTimeoutSecs) * time.Second
	var assistantOracle oracle.Assistant
	if cfg.Oracle.GeminiAPIKey != "" {
		assistantOracle = gemini.NewClient(cfg.Oracle.GeminiAPIKey, oracleTimeout)
	} else {
		middleware.LogInfo("Gemini API key not configured, assistant disabled")
	}
	var visionOracle oracle.Vision
	if cfg.Oracle.VisionAPIKey != "" {
		visionOracle = vision.NewClient(cfg.Oracle.VisionAPIKey, oracleTimeout)
	} else {
		middleware.LogInfo("Vision API key not configured, image analysis disabled")
	}
	productLookup := productdb.NewClient(cfg.Oracle.UPCItemDBAPIKey, cfg.Oracle.BarcodeLookupKey)

	// Initialize services
	authService := service.NewAuthService(userRepo, cfg.JWT)
	categoryService := service.NewCategoryService(categoryRepo, itemRepo)
	locationService := service.NewLocationService(locationRepo, containerRepo, itemRepo)
	containerService := service.NewContainerService(containerRepo, locationRepo, itemRepo)
	itemService := service.NewItemService(itemRepo, categoryRepo, containerRepo, locationRepo)
	barcodeService := service.NewBarcodeService(
		itemRepo, containerRepo, locationRepo, itemService,
		productLookup, visionOracle, rdb,
	)
	aiService := service.NewAIService(
		assistantOracle, visionOracle,
		itemRepo, categoryRepo, locationRepo, containerRepo,
	)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	categoryHandler := handler.NewCategoryHandler(categoryService)
	locationHandler := handler.NewLocationHandler(locationService, uploads)
	containerHandler := handler.NewContainerHandler(containerService, uploads)
	itemHandler := handler.NewItemHandler(itemService, uploads)
	barcodeHandler := handler.NewBarcodeHandler(barcodeService)
	aiHandler := handler.NewAIHandler(aiService)

	// Create Gin router
	router := gin.Default()

	// Add request logging middleware
	router.Use(middleware.RequestLoggerMiddleware())

	// Add CORS middleware
	router.Use(corsMiddleware(cfg.Server.FrontendURL))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":     "ok",
			"version":    Version,
			"commit":     Commit,
			"build_time": BuildTime,
			"time":       time.Now().Unix(),
		})
	})

	// Uploaded images
	router.Static(upload.URLPrefix, uploads.Dir())

	// API routes
	api := router.Group("/api")
	{
		// Auth routes (public, except /auth/me)
		authHandler.RegisterRoutes(api, authService)

		// Inventory routes (protected)
		protected := api.Group("")
		protected.Use(middleware.AuthMiddleware(authService))
		{
			categoryHandler.RegisterRoutes(protected)
			locationHandler.RegisterRoutes(protected)
			containerHandler.RegisterRoutes(protected)
			itemHandler.RegisterRoutes(protected)
			barcodeHandler.RegisterRoutes(protected)
			aiHandler.RegisterRoutes(protected)
		}
	}

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	// Graceful shutdown with 10 second timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	// Close Redis connection
	if err := rdb.Close(); err != nil {
		log.Printf("Error closing Redis connection: %v", err)
	}

	log.Println("Server exited properly")
}

func initDatabase(cfg *config.Config) (*gorm.DB, error) {
	gormLogger := logger.Default.LogMode(logger.Info)
	if cfg.Server.Mode == "release" {
		gormLogger = logger.Default.LogMode(logger.Warn)
	}

	db, err := gorm.Open(postgres.Open(cfg.Database.DSN()), &gorm.Config{
		Logger: gormLogger,
	})
	if err != nil {
		return nil, err
	}

	// Configure connection pool
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return db, nil
}

func initRedis(cfg *config.Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
}

func autoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Location{},
		&models.Container{},
		&models.Item{},
	)
}

func corsMiddleware(frontendURL string) gin.HandlerFunc {
	origin := frontendURL
	if origin == "" {
		origin = "*"
	}
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", origin)
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")
		c.Header("Access-Control-Max-Age", "86400")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
