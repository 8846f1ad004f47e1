package main

import (
	"context"
	"log"

	"go.uber.org/zap"

	"github.com/spec-kit/wellness-service/internal/config"
	"github.com/spec-kit/wellness-service/internal/observability"
	"github.com/spec-kit/wellness-service/internal/persistence"
	"github.com/spec-kit/wellness-service/internal/repository"
	"github.com/spec-kit/wellness-service/internal/seed"
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

	ctx := context.Background()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}

	pool := pg.PoolHandle()
	seeder := seed.NewSeeder(repository.NewUserRepository(pool), repository.NewArticleRepository(pool), cfg.Auth.BcryptCost, logger)
	summary, err := seeder.Run(ctx)
	if err != nil {
		logger.Fatal("seeding failed", zap.Error(err))
	}

	logger.Info("seed complete",
		zap.Int("users_created", summary.UsersCreated),
		zap.Int("users_skipped", summary.UsersSkipped),
		zap.Int("articles_created", summary.ArticlesCreated),
		zap.Int("articles_skipped", summary.ArticlesSkipped),
	)
	for _, account := range seed.Accounts {
		logger.Info("demo login", zap.String("email", account.Email), zap.String("role", string(account.Role)))
	}
}
