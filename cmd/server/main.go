package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"educycle-api/internal/adapters/http/middleware"
	"educycle-api/internal/adapters/http/routes"
	"educycle-api/internal/adapters/messaging"
	"educycle-api/internal/adapters/persistence/models"
	"educycle-api/internal/adapters/persistence/repositories"
	"educycle-api/internal/adapters/redisstore"
	"educycle-api/internal/config"
	"educycle-api/internal/core/services"
	"educycle-api/internal/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	_ "educycle-api/docs" // Swagger docs
)

// @title EduCycle API
// @version 1.0
// @description Second-hand marketplace and school fundraising API

// @contact.name API Support
// @contact.email support@educycle.app

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	if err := logger.Init(cfg.AppMode, cfg.LogLevel); err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync()
	lg := logger.L()

	// Connect to database
	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		lg.Fatal("failed to connect to database", zap.Error(err))
	}
	defer config.CloseDatabase()

	if err := models.AutoMigrate(db); err != nil {
		lg.Fatal("failed to auto migrate", zap.Error(err))
	}
	lg.Info("database migration completed")

	if err := config.NewSeeder(db, cfg).Run(); err != nil {
		lg.Warn("failed to seed data", zap.Error(err))
	}

	// Ledger event stream
	var publisher services.LedgerPublisher = services.NoopLedgerPublisher{}
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaPublisher := messaging.NewKafkaLedgerPublisher(cfg.Kafka.Brokers, cfg.Kafka.LedgerTopic)
		defer kafkaPublisher.Close()
		publisher = kafkaPublisher
		lg.Info("ledger events enabled", zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.LedgerTopic))
	}

	// Shared limiter storage
	var storage fiber.Storage
	if cfg.Redis.Addr != "" {
		rdb, err := redisstore.NewClient(cfg.Redis)
		if err != nil {
			lg.Warn("redis unavailable, rate limits stay per instance", zap.Error(err))
		} else {
			redisStorage := redisstore.NewStorage(rdb)
			defer redisStorage.Close()
			storage = redisStorage
		}
	}

	// Background jobs
	store := repositories.NewStore(db)
	cronService, err := services.NewCronService(store, services.NewLedgerService(store, cfg, publisher), cfg)
	if err != nil {
		lg.Fatal("failed to schedule background jobs", zap.Error(err))
	}
	cronService.Start()
	defer cronService.Stop()

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "EduCycle API v1.0",
		ErrorHandler: middleware.CustomErrorHandler,
	})

	middleware.Setup(app, cfg, storage)
	routes.Setup(app, db, cfg, publisher, storage)

	go gracefulShutdown(app)

	lg.Info("server starting", zap.String("port", cfg.Port), zap.String("mode", cfg.AppMode))
	if err := app.Listen(":" + cfg.Port); err != nil {
		lg.Error("server stopped", zap.Error(err))
	}
}

// gracefulShutdown handles graceful shutdown
func gracefulShutdown(app *fiber.App) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.L().Info("shutting down server")
	if err := app.Shutdown(); err != nil {
		logger.L().Error("error during shutdown", zap.Error(err))
	}
}
