package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/helpdesk-dashboard/internal/api/http"
	"github.com/spec-kit/helpdesk-dashboard/internal/api/http/handlers"
	"github.com/spec-kit/helpdesk-dashboard/internal/apiclient"
	"github.com/spec-kit/helpdesk-dashboard/internal/auth"
	"github.com/spec-kit/helpdesk-dashboard/internal/config"
	"github.com/spec-kit/helpdesk-dashboard/internal/dashboard"
	"github.com/spec-kit/helpdesk-dashboard/internal/events"
	"github.com/spec-kit/helpdesk-dashboard/internal/metrics"
	"github.com/spec-kit/helpdesk-dashboard/internal/observability"
	"github.com/spec-kit/helpdesk-dashboard/internal/persistence"
	"github.com/spec-kit/helpdesk-dashboard/internal/repository"
	"github.com/spec-kit/helpdesk-dashboard/internal/worker"
)

const evictionInterval = time.Minute

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
	logger = logger.With(zap.String("service", cfg.App.Name), zap.String("env", cfg.App.Env))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	var reports repository.ReportRepository
	dependencies := map[string]handlers.Pinger{}
	if pool := pg.PoolHandle(); pool != nil {
		if cfg.Postgres.RunMigrations {
			if err := persistence.RunMigrations(ctx, pool, cfg.Postgres.MigrationsDir, logger); err != nil {
				logger.Fatal("failed to run migrations", zap.Error(err))
			}
		}
		reports = repository.NewReportRepository(pool)
		dependencies["postgres"] = pg
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()
	dependencies["redis"] = redis

	snapshots := repository.NewSnapshotCache(redis.Client, cfg.Dashboard.SnapshotCacheTTL())
	uiStates := repository.NewUIStateStore(redis.Client, cfg.Dashboard.SessionIdleTTL())

	dispatcher := events.NewInMemoryDispatcher(logger)
	worker.StartActivityWorker(worker.NewActivityWorker(dispatcher, snapshots, uiStates, logger))

	manager := dashboard.NewManager(ctx, dashboard.ManagerConfig{
		API:          apiclient.New(cfg.Upstream.BaseURL, cfg.Upstream.Timeout(), logger),
		Engine:       metrics.NewEngine(metrics.WithLocation(cfg.Dashboard.Location())),
		Dispatcher:   dispatcher,
		Snapshots:    snapshots,
		UIStates:     uiStates,
		Logger:       logger,
		PollInterval: cfg.Dashboard.PollInterval(),
		IdleTTL:      cfg.Dashboard.SessionIdleTTL(),
	})
	defer manager.Close()
	go manager.RunEviction(ctx, evictionInterval)

	requestMetrics := observability.NewMetrics()
	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ErrorHandler: httptransport.ErrorHandler,
	})
	httptransport.RegisterMiddlewares(app, logger, requestMetrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, dependencies, manager.Len, requestMetrics),
		Dashboard:      handlers.NewDashboardHandler(),
		Reports:        handlers.NewReportsHandler(reports, dispatcher),
		AuthMiddleware: auth.NewAuthMiddleware(auth.NewTokenVerifier(cfg.Auth.JWTSecret), manager),
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	cancel()
	_ = app.ShutdownWithTimeout(10 * time.Second)
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
