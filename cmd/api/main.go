package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/resumekit/cv-service/internal/api/http"
	"github.com/resumekit/cv-service/internal/api/http/handlers"
	"github.com/resumekit/cv-service/internal/auth"
	"github.com/resumekit/cv-service/internal/config"
	"github.com/resumekit/cv-service/internal/events"
	"github.com/resumekit/cv-service/internal/observability"
	"github.com/resumekit/cv-service/internal/persistence"
	"github.com/resumekit/cv-service/internal/repository"
	"github.com/resumekit/cv-service/internal/service"
	"github.com/resumekit/cv-service/internal/worker"
)

// maxBodyBytes bounds request bodies; a full CV is a few kilobytes.
const maxBodyBytes = 1 << 20

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App)
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

	redis := persistence.NewRedis(ctx, cfg.Redis, logger)
	defer redis.Close()

	var (
		accountRepo repository.AccountRepository
		cvRepo      repository.CVRepository
	)
	if pg.Enabled() {
		pool := pg.PoolHandle()
		accountRepo = repository.NewAccountRepository(pool)
		cvRepo = repository.NewCVRepository(pool)
	} else {
		store := repository.NewMemoryStore()
		accountRepo = store.Accounts()
		cvRepo = store.CVs()
	}
	if cfg.Cache.Enabled && redis.Available {
		cvRepo = repository.NewCachedCVRepository(cvRepo, redis.Client, cfg.Cache.TTL(), logger)
		logger.Info("cv cache enabled", zap.Duration("ttl", cfg.Cache.TTL()))
	}

	dispatcher := events.NewInMemoryDispatcher(logger)
	worker.StartAuditWorker(service.NewAuditService(dispatcher, logger))

	authService, err := service.NewAuthService(*cfg, service.AuthDependencies{
		AccountRepo: accountRepo,
		Dispatcher:  dispatcher,
		Logger:      logger,
	})
	if err != nil {
		logger.Fatal("failed to init auth service", zap.Error(err))
	}
	cvService := service.NewCVService(service.CVDependencies{
		CVRepo:     cvRepo,
		Dispatcher: dispatcher,
		Logger:     logger,
	})
	gate := auth.NewGate(authService.TokenManager(), auth.GateConfig{CookieName: cfg.Auth.CookieName}, logger)

	metrics := observability.NewMetrics()
	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		BodyLimit:    maxBodyBytes,
		ErrorHandler: httptransport.ErrorHandler(logger),
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	var deps []handlers.Dependency
	if pg.Enabled() {
		deps = append(deps, handlers.Dependency{Name: "postgres", Check: pg})
	}
	if cfg.Cache.Enabled {
		deps = append(deps, handlers.Dependency{Name: "redis", Check: redis, Optional: true})
	}

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health: handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, metrics, deps...),
		Auth:   handlers.NewAuthHandler(authService, cfg.Auth.CookieName, !cfg.App.IsDevelopment()),
		CV:     handlers.NewCVHandler(cvService),
		Pages:  handlers.NewPageHandler(cvService),
		Gate:   gate,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.Shutdown(); err != nil {
		logger.Error("shutdown", zap.Error(err))
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
