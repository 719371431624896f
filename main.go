package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"usermanagement/internal/config"
	"usermanagement/internal/database"
	"usermanagement/internal/logger"
	"usermanagement/internal/repositories"
	"usermanagement/internal/server"
	"usermanagement/internal/services"
	"usermanagement/pkg/rabbitmq"

	"go.uber.org/zap"
)

func main() {
	// --- Configuration ---
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zl, err := logger.New(cfg.LogLevel, cfg.LogDev)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer zl.Sync() //nolint:errcheck

	// --- Repositories ---
	var (
		userRepo     repositories.UserRepository
		activityRepo repositories.ActivityLogRepository
		ping         func() error
	)
	if cfg.DBDriver == config.DriverMemory {
		zl.Warn("using in-memory repositories; data is lost on exit")
		userRepo = repositories.NewMockUserRepository()
		activityRepo = repositories.NewMockActivityLogRepository()
	} else {
		db, err := database.Open(cfg.DBDriver, cfg.DatabaseDSN)
		if err != nil {
			zl.Fatal("failed to open database", zap.String("driver", cfg.DBDriver), zap.Error(err))
		}
		userRepo = repositories.NewGORMUserRepository(db)
		activityRepo = repositories.NewGORMActivityLogRepository(db)
		ping = func() error { return database.Ping(db) }
	}

	// --- Activity event publishing ---
	var publisher services.ActivityPublisher
	if cfg.RabbitMQ.Enabled {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQ.URL, Queue: cfg.RabbitMQ.Queue}, zl)
		if err != nil {
			zl.Fatal("failed to initialize RabbitMQ client", zap.Error(err))
		}
		defer mqClient.Close()
		publisher = mqClient

		auditLog := zl.Named("audit")
		err = mqClient.ConsumeActivityEvents(func(event rabbitmq.ActivityEvent) error {
			auditLog.Info("activity",
				zap.Uint64("id", event.ID),
				zap.Uint64("user_id", event.UserID),
				zap.String("action", event.Action),
				zap.Time("timestamp", event.Timestamp))
			return nil
		})
		if err != nil {
			zl.Error("failed to start activity consumer", zap.Error(err))
		}
	}

	// --- Services ---
	activityService := services.NewActivityLogService(activityRepo, publisher, zl)
	userService := services.NewUserService(userRepo, services.NewBcryptHasher(cfg.BcryptCost), activityService, zl)

	app := server.New(server.Dependencies{
		FrontendOrigin:  cfg.FrontendOrigin,
		Logger:          zl,
		UserService:     userService,
		ActivityService: activityService,
		Ping:            ping,
	})

	// --- Start HTTP Server ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		zl.Info("starting server", zap.String("addr", cfg.AppPort))
		if err := app.Listen(cfg.AppPort); err != nil {
			zl.Fatal("server failed to start", zap.Error(err))
		}
	}()

	sig := <-quit
	zl.Info("shutting down server", zap.String("signal", sig.String()))

	if err := app.Shutdown(); err != nil {
		zl.Error("error during Fiber shutdown", zap.Error(err))
	}
	zl.Info("server gracefully stopped")
}
