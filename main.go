package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"sareehouse/internal/config"
	"sareehouse/internal/database"
	"sareehouse/internal/handlers"
	"sareehouse/internal/logger"
	"sareehouse/internal/metrics"
	"sareehouse/internal/middleware"
	"sareehouse/internal/models"
	"sareehouse/internal/repositories"
	"sareehouse/internal/services"
	"sareehouse/pkg/rabbitmq"
)

func main() {
	// --- Configuration ---
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	log := logger.New("sareehouse", cfg.LogLevel)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	srv, err := newServer(ctx, cfg, log)
	cancel()
	if err != nil {
		log.Error("failed to start", "error", err)
		os.Exit(1)
	}

	// --- Start HTTP Server ---
	log.Info("starting server", "port", cfg.AppPort)

	// Graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := srv.app.Listen(cfg.AppPort); err != nil {
			log.Error("server failed", "error", err)
			quit <- syscall.SIGTERM
		}
	}()

	<-quit
	log.Info("shutting down server")

	if err := srv.shutdown(); err != nil {
		log.Error("error during shutdown", "error", err)
	}
	log.Info("server gracefully stopped")
}

// server is the wired application with the resources it must release.
type server struct {
	app     *fiber.App
	closers []func() error
}

func (s *server) shutdown() error {
	errs := []error{s.app.Shutdown()}
	for i := len(s.closers) - 1; i >= 0; i-- {
		errs = append(errs, s.closers[i]())
	}
	return errors.Join(errs...)
}

// newServer opens the configured stores, wires services and handlers and
// mounts the routes. On error every resource opened so far is released.
func newServer(ctx context.Context, cfg *config.Config, log *slog.Logger) (_ *server, err error) {
	s := &server{}
	defer func() {
		if err != nil {
			for i := len(s.closers) - 1; i >= 0; i-- {
				_ = s.closers[i]()
			}
		}
	}()

	// --- Initialize Repositories ---
	var (
		productRepo    repositories.ProductRepository
		userRepo       repositories.UserRepository
		collectionRepo repositories.CollectionRepository
	)
	if cfg.DatabaseDriver == "memory" {
		productRepo = repositories.NewMockProductRepository()
		userRepo = repositories.NewMockUserRepository()
	} else {
		db, err := database.Open(cfg.DatabaseDriver, cfg.DatabaseDSN)
		if err != nil {
			return nil, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("get sql handle: %w", err)
		}
		s.closers = append(s.closers, sqlDB.Close)
		if err := database.Migrate(db); err != nil {
			return nil, err
		}
		productRepo = repositories.NewGORMProductRepository(db)
		userRepo = repositories.NewGORMUserRepository(db)
		if cfg.CollectionStore == "sql" {
			collectionRepo = repositories.NewGORMCollectionRepository(db)
		}
	}

	switch cfg.CollectionStore {
	case "redis":
		client, err := database.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			return nil, err
		}
		s.closers = append(s.closers, client.Close)
		collectionRepo = repositories.NewRedisCollectionRepository(client)
	case "memory":
		collectionRepo = repositories.NewMockCollectionRepository()
	}
	log.Info("stores ready", "database", cfg.DatabaseDriver, "collections", cfg.CollectionStore)

	if cfg.SeedCatalog {
		if err := seedCatalog(ctx, productRepo, starterCatalog, log); err != nil {
			return nil, err
		}
	}

	// --- Initialize RabbitMQ Client ---
	var publisher services.EventPublisher
	if cfg.RabbitMQURL != "" {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL}, log)
		if err != nil {
			return nil, err
		}
		s.closers = append(s.closers, mqClient.Close)
		if err := mqClient.ConsumeCollectionEvents(logCollectionEvent(log)); err != nil {
			return nil, err
		}
		publisher = mqClient
	}

	// --- Initialize Services ---
	m := metrics.New()
	productService := services.NewProductService(productRepo, m, log)
	userService := services.NewUserService(userRepo, collectionRepo, cfg.BcryptCost, cfg.ResetTokenTTL, log)
	authService := services.NewAuthService(userRepo, cfg.JWTSecret, cfg.TokenTTL)
	collectionService := services.NewCollectionService(userRepo, productRepo, collectionRepo, publisher, m, log)

	// --- Initialize Fiber App ---
	app := fiber.New(fiber.Config{AppName: "sareehouse"})
	app.Use(fiberlogger.New()) // Request logger

	// --- Health Check Endpoint ---
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status":      "healthy",
			"time":        time.Now().Format(time.RFC3339),
			"database":    cfg.DatabaseDriver,
			"collections": cfg.CollectionStore,
			"events":      publisher != nil,
		})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})))

	// --- API Routes ---
	routes := handlers.Set{
		Auth:        handlers.NewAuthHandler(authService, userService, log),
		Products:    handlers.NewProductHandler(productService, cfg.SimilarLimit, log),
		Users:       handlers.NewUserHandler(userService, log),
		Collections: handlers.NewCollectionHandler(collectionService, log),
	}
	if cfg.AuthRateLimit > 0 {
		routes.AuthRateLimit = middleware.RateLimit(cfg.AuthRateLimit, cfg.AuthRateBurst, log)
	}
	routes.Mount(app, authService, log)

	s.app = app
	return s, nil
}

// logCollectionEvent is the consumer for the collection queue; it records
// each event in the log.
func logCollectionEvent(log *slog.Logger) func(models.CollectionEvent) error {
	return func(event models.CollectionEvent) error {
		log.Info("collection event",
			"type", event.Type,
			"user_id", event.UserID,
			"product_id", event.ProductID,
			"cart_size", event.CartSize,
			"occurred_at", event.OccurredAt,
		)
		return nil
	}
}
