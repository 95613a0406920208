package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/condoplex/tickets-service/internal/api/http"
	httphandlers "github.com/condoplex/tickets-service/internal/api/http/handlers"
	"github.com/condoplex/tickets-service/internal/api/mq"
	mqhandlers "github.com/condoplex/tickets-service/internal/api/mq/handlers"
	"github.com/condoplex/tickets-service/internal/config"
	"github.com/condoplex/tickets-service/internal/events"
	"github.com/condoplex/tickets-service/internal/files"
	"github.com/condoplex/tickets-service/internal/identifier"
	"github.com/condoplex/tickets-service/internal/observability"
	"github.com/condoplex/tickets-service/internal/persistence"
	"github.com/condoplex/tickets-service/internal/repository"
	"github.com/condoplex/tickets-service/internal/service"
	"github.com/condoplex/tickets-service/internal/worker"
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

	store, err := persistence.NewObjectStore(ctx, cfg.Storage, logger)
	if err != nil {
		logger.Fatal("failed to connect object store", zap.Error(err))
	}

	pool := pg.PoolHandle()
	ticketRepo := repository.NewTicketRepository(pool)
	typeRepo := repository.NewTicketTypeRepository(pool)
	requesterRepo := repository.NewRequesterRepository(pool)

	dispatcher := events.NewInMemoryDispatcher()
	metrics := observability.NewMetrics()

	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo:    ticketRepo,
		TypeRepo:      typeRepo,
		RequesterRepo: requesterRepo,
		Files:         files.NewManager(store),
		IDs:           identifier.NewUUIDGenerator(),
		Dispatcher:    dispatcher,
		Logger:        logger,
		BaseFolder:    cfg.Storage.BaseFolder,
	})

	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	router := mq.NewRouter()
	mqhandlers.NewTicketsHandler(ticketService).Register(router)

	consumer := mq.NewConsumer(redis.Client, router, logger, metrics, cfg.App.HandlerTimeout())
	go func() {
		if err := consumer.Run(ctx); err != nil && ctx.Err() == nil {
			logger.Fatal("consumer stopped", zap.Error(err))
		}
	}()

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger)
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health: httphandlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis, store),
	})

	go func() {
		if err := app.Listen(cfg.App.HealthAddr()); err != nil {
			logger.Fatal("health server listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	cancel()
	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
