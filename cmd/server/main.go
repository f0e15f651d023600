package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/tutorhive/tutorhive/internal/api"
	"github.com/tutorhive/tutorhive/internal/app"
	"github.com/tutorhive/tutorhive/internal/config"
	"github.com/tutorhive/tutorhive/internal/events"
	"github.com/tutorhive/tutorhive/internal/realtime"
	"github.com/tutorhive/tutorhive/internal/repository"
	"github.com/tutorhive/tutorhive/internal/service"
	"github.com/tutorhive/tutorhive/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment)
	defer logger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.DBDSN)
	if err != nil {
		logger.Fatal("Failed to create connection pool", zap.Error(err))
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		logger.Fatal("Failed to ping database", zap.Error(err))
	}

	migrator, err := app.NewMigrator(pool, cfg.MigrationsPath, logger)
	if err != nil {
		logger.Fatal("Failed to create migrator", zap.Error(err))
	}
	if err := migrator.Run(ctx); err != nil {
		logger.Fatal("Failed to apply migrations", zap.Error(err))
	}
	migrator.Close()

	// Repositories
	userRepo := repository.NewUserRepository(pool)
	slotRepo := repository.NewSlotRepository(pool)
	sessionRepo := repository.NewSessionRepository(pool)
	notificationRepo := repository.NewNotificationRepository(pool)
	outboxRepo := repository.NewOutboxRepository(pool)

	// Services
	slotService := service.NewSlotService(userRepo, slotRepo, logger)
	bookingService := service.NewBookingService(pool, userRepo, slotRepo, sessionRepo, outboxRepo, logger)
	userService := service.NewUserService(userRepo, logger)
	notificationService := service.NewNotificationService(notificationRepo, logger)

	// Delivery side: realtime hub plus optional NATS push sink
	hub := realtime.NewHub(logger)

	var sink worker.Sink
	if cfg.NATSURL != "" {
		natsPublisher, err := events.NewNatsPublisher(cfg.NATSURL, logger)
		if err != nil {
			logger.Fatal("Failed to connect to NATS", zap.Error(err))
		}
		defer natsPublisher.Close()
		sink = natsPublisher
	} else {
		logger.Warn("NATS_URL not set, push sink disabled")
	}

	dispatcher := worker.NewDispatcher(outboxRepo, notificationRepo, sink, hub, logger)
	dispatcher.Start(ctx)
	defer dispatcher.Stop()

	// HTTP surface
	fiberApp := fiber.New(fiber.Config{AppName: "tutorhive"})

	api.Register(
		fiberApp,
		cfg.JWTSecret,
		api.NewSlotHandler(slotService, bookingService, logger),
		api.NewUserHandler(userService, logger),
		api.NewNotificationHandler(notificationService, logger),
		hub,
		logger,
	)

	go func() {
		logger.Info("Starting HTTP server",
			zap.String("addr", cfg.HTTPAddr),
			zap.String("environment", cfg.Environment),
		)
		if err := fiberApp.Listen(cfg.HTTPAddr); err != nil {
			logger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down")
	if err := fiberApp.Shutdown(); err != nil {
		logger.Error("HTTP shutdown failed", zap.Error(err))
	}
}
