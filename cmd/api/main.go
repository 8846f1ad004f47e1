package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	httptransport "github.com/spec-kit/wellness-service/internal/api/http"
	"github.com/spec-kit/wellness-service/internal/api/http/handlers"
	"github.com/spec-kit/wellness-service/internal/auth"
	"github.com/spec-kit/wellness-service/internal/config"
	"github.com/spec-kit/wellness-service/internal/events"
	"github.com/spec-kit/wellness-service/internal/markdown"
	"github.com/spec-kit/wellness-service/internal/observability"
	"github.com/spec-kit/wellness-service/internal/persistence"
	"github.com/spec-kit/wellness-service/internal/repository"
	"github.com/spec-kit/wellness-service/internal/service"
	"github.com/spec-kit/wellness-service/internal/worker"
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

	redis := persistence.NewRedis(ctx, cfg.Redis, logger)
	defer redis.Close()

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	goalRepo := repository.NewGoalRepository(pool)
	consultationRepo := repository.NewConsultationRepository(pool)
	articleRepo := repository.NewArticleRepository(pool)

	dispatcher := events.NewInMemoryDispatcher(logger)
	notifications := worker.StartNotificationWorker(ctx, dispatcher, service.NewNotificationService(logger, cfg.Notification), logger)

	authService := service.NewAuthService(cfg.Auth, userRepo)
	goalService := service.NewGoalService(goalRepo, dispatcher)
	consultationService := service.NewConsultationService(service.ConsultationDependencies{
		ConsultationRepo: consultationRepo,
		UserRepo:         userRepo,
		Slots:            persistence.NewSlotLock(redis.Client, cfg.Redis.SlotHold(), logger),
		Dispatcher:       dispatcher,
		Logger:           logger,
	})
	articleService := service.NewArticleService(
		articleRepo,
		persistence.NewArticleCache(redis.Client, cfg.Redis.FeaturedTTL(), logger),
		markdown.NewRenderer(),
	)

	metrics := observability.NewMetrics()
	app := httptransport.NewApp(cfg.App.Name, logger, metrics, httptransport.MiddlewareConfig{
		Timeout:        cfg.App.RequestTimeout(),
		AllowedOrigins: cfg.App.CORSAllowedOrigins,
	})

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health: handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, map[string]handlers.Pinger{
			"postgres": pg,
			"redis":    redis,
		}, metrics),
		Auth:           handlers.NewAuthHandler(authService),
		Articles:       handlers.NewArticlesHandler(articleService),
		Consultations:  handlers.NewConsultationsHandler(consultationService),
		Goals:          handlers.NewGoalsHandler(goalService),
		AuthMiddleware: auth.NewAuthMiddleware(authService.TokenManager(), userRepo),
	})

	go func() {
		logger.Info("http server starting", zap.String("addr", cfg.App.Addr()), zap.String("env", cfg.App.Env))
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Warn("graceful shutdown failed", zap.Error(err))
	}
	cancel()
	notifications.Wait()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
