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

	httptransport "github.com/spec-kit/submission-service/internal/api/http"
	"github.com/spec-kit/submission-service/internal/api/http/handlers"
	"github.com/spec-kit/submission-service/internal/auth"
	"github.com/spec-kit/submission-service/internal/client"
	"github.com/spec-kit/submission-service/internal/config"
	"github.com/spec-kit/submission-service/internal/events"
	"github.com/spec-kit/submission-service/internal/observability"
	"github.com/spec-kit/submission-service/internal/persistence"
	"github.com/spec-kit/submission-service/internal/repository"
	"github.com/spec-kit/submission-service/internal/service"
	"github.com/spec-kit/submission-service/internal/worker"
)

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
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), cfg.Postgres.MigrationsDir, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	var submissionRepo repository.SubmissionRepository
	if pg.Enabled() {
		submissionRepo = repository.NewSubmissionRepository(pg.PoolHandle())
	} else {
		submissionRepo = repository.NewMemorySubmissionRepository()
	}
	if redis.Enabled() {
		submissionRepo = repository.NewCachedSubmissionRepository(submissionRepo, redis.Client, cfg.Redis.CacheTTL())
	}

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()
	worker.StartNotificationWorker(dispatcher, logger, cfg.Notification)

	submissionService := service.NewSubmissionService(service.SubmissionDependencies{
		SubmissionRepo: submissionRepo,
		Identity:       identityResolver(cfg, logger),
		Tasks:          client.NewTaskClient(cfg.Services.TaskServiceURL, cfg.Services.TaskTimeout()),
		Dispatcher:     dispatcher,
		Failures:       metrics,
		Logger:         logger.Named("submissions"),
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  cfg.App.RequestTimeout(),
		WriteTimeout: cfg.App.RequestTimeout(),
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	var checks []handlers.DependencyCheck
	if pg.Enabled() {
		checks = append(checks, handlers.DependencyCheck{Name: "postgres", Ping: pg.Ping})
	}
	if redis.Enabled() {
		checks = append(checks, handlers.DependencyCheck{Name: "redis", Ping: redis.Ping})
	}

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:      handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, checks...),
		Metrics:     handlers.NewMetricsHandler(metrics),
		Submissions: handlers.NewSubmissionsHandler(submissionService),
	})

	go func() {
		logger.Info("listening", zap.String("addr", cfg.App.Addr()))
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Warn("shutdown", zap.Error(err))
	}
}

func identityResolver(cfg *config.Config, logger *zap.Logger) service.IdentityResolver {
	if cfg.Auth.Mode == config.AuthModeRemote {
		logger.Info("resolving identities via user service", zap.String("url", cfg.Services.UserServiceURL))
		return client.NewUserClient(cfg.Services.UserServiceURL, cfg.Services.UserTimeout())
	}
	return auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes)
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
