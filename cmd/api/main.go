package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/helpdesk-kit/helpdesk-service/internal/api/http"
	"github.com/helpdesk-kit/helpdesk-service/internal/api/http/handlers"
	"github.com/helpdesk-kit/helpdesk-service/internal/auth"
	"github.com/helpdesk-kit/helpdesk-service/internal/config"
	"github.com/helpdesk-kit/helpdesk-service/internal/observability"
	"github.com/helpdesk-kit/helpdesk-service/internal/persistence"
	"github.com/helpdesk-kit/helpdesk-service/internal/query"
	"github.com/helpdesk-kit/helpdesk-service/internal/repository"
	"github.com/helpdesk-kit/helpdesk-service/internal/resolver"
	"github.com/helpdesk-kit/helpdesk-service/internal/service"
	"github.com/helpdesk-kit/helpdesk-service/internal/subticket"
	"github.com/helpdesk-kit/helpdesk-service/internal/worker"

	eventspkg "github.com/helpdesk-kit/helpdesk-service/internal/events"
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
	ticketStore := repository.NewTicketStore(pool)
	departmentStore := repository.NewDepartmentStore(pool)
	topicStore := repository.NewTopicStore(pool)
	statusStore := repository.NewStatusStore(pool)
	slaStore := repository.NewSLAStore(pool)
	staffStore := repository.NewStaffStore(pool)

	checker := auth.NewChecker()
	entityResolver := resolver.New(resolver.Dependencies{
		DepartmentStore: departmentStore,
		TopicStore:      topicStore,
		StatusStore:     statusStore,
		SLAStore:        slaStore,
		StaffStore:      staffStore,
		TicketStore:     ticketStore,
	})

	dispatcher := eventspkg.NewInMemoryDispatcher()
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketStore: ticketStore,
		Resolver:    entityResolver,
		Checker:     checker,
		Dispatcher:  dispatcher,
		Logger:      logger,
	})

	subticketManager := subticket.NewManager(subticket.Dependencies{
		Store:       subticket.NewPGStore(pool),
		TicketStore: ticketStore,
		StatusStore: statusStore,
		Checker:     checker,
		Dispatcher:  dispatcher,
		Logger:      logger,
	})

	queryEngine := query.NewEngine(query.Dependencies{
		TicketStore:     ticketStore,
		DepartmentStore: departmentStore,
		StaffStore:      staffStore,
		Resolver:        entityResolver,
		Checker:         checker,
		Cache:           query.NewSnapshotCache(redis.Client, cfg.Stats.CacheTTL(), logger),
		Logger:          logger,
	})

	authService := service.NewAuthService(*cfg, staffStore)
	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager())

	metrics := observability.NewMetrics()

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Staff:          handlers.NewStaffHandler(authService),
		Tickets:        handlers.NewTicketsHandler(ticketService, queryEngine),
		Subtickets:     handlers.NewSubticketsHandler(subticketManager),
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
