package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/arnvold/parts-catalog-service/config"
	"github.com/arnvold/parts-catalog-service/internal/events"
	"github.com/arnvold/parts-catalog-service/internal/filestore"
	"github.com/arnvold/parts-catalog-service/pkg/cache"
	"github.com/arnvold/parts-catalog-service/pkg/database/postgres"
	"github.com/arnvold/parts-catalog-service/pkg/logger"

	assocRepoPkg "github.com/arnvold/parts-catalog-service/internal/assoc/repository"
	compH "github.com/arnvold/parts-catalog-service/internal/component/handler"
	compRepoPkg "github.com/arnvold/parts-catalog-service/internal/component/repository"
	compUCPkg "github.com/arnvold/parts-catalog-service/internal/component/usecase"
	picRepoPkg "github.com/arnvold/parts-catalog-service/internal/picture/repository"
	supH "github.com/arnvold/parts-catalog-service/internal/supplier/handler"
	supRepoPkg "github.com/arnvold/parts-catalog-service/internal/supplier/repository"
	supUCPkg "github.com/arnvold/parts-catalog-service/internal/supplier/usecase"
)

func main() {
	// 1. Load Configuration
	_ = godotenv.Load() // Load .env file if it exists
	cfg := config.LoadEnv()

	// 2. Initialize Logger
	logConfig := &logger.ZapLoggerConfig{
		IsDevelopment:     cfg.Server.AppEnv == "dev",
		Encoding:          cfg.Logger.Encoding,
		Level:             cfg.Logger.Level,
		DisableCaller:     cfg.Logger.DisableCaller,
		DisableStacktrace: cfg.Logger.DisableStacktrace,
	}
	appLogger := logger.NewZapLogger(logConfig)
	defer appLogger.Sync()

	// 3. Connect to Database
	db, err := postgres.NewPostgres(&postgres.Config{
		Host:            cfg.Postgres.Host,
		Port:            cfg.Postgres.Port,
		User:            cfg.Postgres.User,
		Password:        cfg.Postgres.Password,
		DBName:          cfg.Postgres.DBName,
		SSLMode:         cfg.Postgres.SSLMode,
		MaxOpenConns:    cfg.Postgres.MaxOpenConns,
		MaxIdleConns:    cfg.Postgres.MaxIdleConns,
		ConnMaxLifetime: time.Duration(cfg.Postgres.ConnMaxLifetime) * time.Second,
		ConnMaxIdleTime: time.Duration(cfg.Postgres.ConnMaxIdleTime) * time.Second,
	})
	if err != nil {
		appLogger.Fatal("Could not connect to database", zap.Error(err))
	}
	defer db.Close()
	appLogger.Info("Connected to PostgreSQL database", zap.String("db_name", cfg.Postgres.DBName))

	// 4. Initialize Redis
	redisClient, err := cache.NewRedisClient(&cache.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		appLogger.Fatal("Could not connect to Redis", zap.Error(err))
	}
	defer redisClient.Close()
	appLogger.Info("Connected to Redis", zap.String("addr", cfg.Redis.Addr))

	// 5. Connect to the WebDAV picture store
	store := filestore.NewWebDAV(&filestore.WebDAVConfig{
		BaseURL:       cfg.WebDAV.BaseURL,
		PublicBaseURL: cfg.WebDAV.PublicBaseURL,
		Username:      cfg.WebDAV.Username,
		Password:      cfg.WebDAV.Password,
		Timeout:       time.Duration(cfg.WebDAV.TimeoutSeconds) * time.Second,
	})
	if err := store.Ping(); err != nil {
		appLogger.Fatal("Could not connect to WebDAV store", zap.Error(err))
	}
	appLogger.Info("Connected to WebDAV store", zap.String("base_url", cfg.WebDAV.BaseURL))

	// 6. Initialize Kafka Publisher
	publisher := events.NewPublisher(&events.Config{
		Brokers: cfg.Kafka.Brokers,
		Topic:   cfg.Kafka.Topic,
	})
	defer publisher.Close()
	appLogger.Info("Connected to Kafka", zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.Topic))

	// 7. Initialize Repositories
	compRepo := compRepoPkg.NewPGRepository(db)
	picRepo := picRepoPkg.NewPGRepository(db)
	supRepo := supRepoPkg.NewPGRepository(db)
	assocRepo := assocRepoPkg.NewPGRepository(db)
	txManager := postgres.NewTxManager(db)

	// 8. Initialize UseCases
	compUC := compUCPkg.NewComponentUseCase(
		compRepo, picRepo, supRepo, assocRepo,
		store, txManager, redisClient, publisher, appLogger,
	)
	supUC := supUCPkg.NewSupplierUseCase(supRepo, appLogger)

	// 9. Initialize Handlers and Router
	if cfg.Server.AppEnv != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())

	api := engine.Group("/api/v1")
	compH.NewComponentHandler(compUC, cfg.Upload, appLogger).Register(api)
	supH.NewSupplierHandler(supUC, appLogger).Register(api)

	engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// 10. Start HTTP Server
	port := cfg.Server.HTTPPort
	if !strings.HasPrefix(port, ":") {
		port = ":" + port
	}
	server := &http.Server{
		Addr:    port,
		Handler: engine,
	}

	appLogger.Info("Starting HTTP server", zap.String("port", port))
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Fatal("failed to serve", zap.Error(err))
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("forced shutdown", zap.Error(err))
	}
	appLogger.Info("Server stopped")
}
