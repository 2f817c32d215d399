package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/careops/as-service/internal/api/http"
	"github.com/careops/as-service/internal/api/http/handlers"
	"github.com/careops/as-service/internal/auth"
	"github.com/careops/as-service/internal/config"
	"github.com/careops/as-service/internal/events"
	"github.com/careops/as-service/internal/observability"
	"github.com/careops/as-service/internal/persistence"
	"github.com/careops/as-service/internal/repository"
	"github.com/careops/as-service/internal/service"
	"github.com/careops/as-service/internal/worker"
	"github.com/careops/as-service/pkg/dateparse"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	pool := pg.PoolHandle()
	ticketRepo := repository.NewTicketRepository(pool)
	customerRepo := repository.NewCustomerRepository(pool)
	userRepo := repository.NewUserRepository(pool)

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()

	resolver := service.NewCustomerResolver(customerRepo)
	allocator := service.NewTicketNumberAllocator(ticketRepo, cfg.Import.Location(), logger)
	dateParser := dateparse.New(cfg.Import.ReferenceYear)

	authService := service.NewAuthService(cfg.Auth, userRepo)
	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), userRepo)

	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo:   ticketRepo,
		CustomerRepo: customerRepo,
		Resolver:     resolver,
		Allocator:    allocator,
		Dispatcher:   dispatcher,
		Logger:       logger,
	})
	importService := service.NewImportService(cfg.Import, service.ImportDependencies{
		TicketRepo: ticketRepo,
		Resolver:   resolver,
		Allocator:  allocator,
		Dates:      dateParser,
		Dispatcher: dispatcher,
		Logger:     logger,
		Metrics:    metrics,
	})
	deliveryService := service.NewDeliveryService(cfg.Delivery, ticketRepo, redis.Client, dispatcher, logger)

	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	app := fiber.New(fiber.Config{
		AppName:               cfg.App.Name,
		DisableStartupMessage: cfg.App.Env == "production",
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Users:          handlers.NewUsersHandler(authService),
		Tickets:        handlers.NewTicketsHandler(ticketService),
		Imports:        handlers.NewImportsHandler(importService),
		Delivery:       handlers.NewDeliveryHandler(deliveryService),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
