// Package seed loads the demo data set used for local development.
package seed

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/wellness-service/internal/auth"
	"github.com/spec-kit/wellness-service/internal/domain"
	"github.com/spec-kit/wellness-service/internal/repository"
)

// Account is a seeded login.
type Account struct {
	Name     string
	Email    string
	Password string
	Role     domain.Role
}

// Accounts are the demo logins created by Run.
var Accounts = []Account{
	{Name: "Demo User", Email: "demo@wellnewyear.com", Password: "Demo123!", Role: domain.RoleUser},
	{Name: "Dr. Sarah Johnson", Email: "sarah@wellnewyear.com", Password: "Dietician123!", Role: domain.RoleDietician},
	{Name: "WellNewYear Admin", Email: "admin@wellnewyear.com", Password: "Admin123!", Role: domain.RoleAdmin},
}

// Summary counts what a run created and what already existed.
type Summary struct {
	UsersCreated    int
	UsersSkipped    int
	ArticlesCreated int
	ArticlesSkipped int
}

// Seeder writes the demo data set.
type Seeder struct {
	users      repository.UserRepository
	articles   repository.ArticleRepository
	bcryptCost int
	logger     *zap.Logger
}

// NewSeeder builds a seeder.
func NewSeeder(users repository.UserRepository, articles repository.ArticleRepository, bcryptCost int, logger *zap.Logger) *Seeder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Seeder{users: users, articles: articles, bcryptCost: bcryptCost, logger: logger}
}

// Run inserts the demo accounts and articles. Records that already exist are
// left untouched, so running it twice is harmless.
func (s *Seeder) Run(ctx context.Context) (Summary, error) {
	var summary Summary

	for _, account := range Accounts {
		hash, err := auth.HashPassword(account.Password, s.bcryptCost)
		if err != nil {
			return summary, fmt.Errorf("hash password for %s: %w", account.Email, err)
		}
		user := &domain.User{Name: account.Name, Email: account.Email, PasswordHash: hash, Role: account.Role}
		if err := s.users.Create(ctx, user); err != nil {
			if _, dup := repository.AsDuplicate(err); dup {
				summary.UsersSkipped++
				continue
			}
			return summary, fmt.Errorf("create user %s: %w", account.Email, err)
		}
		summary.UsersCreated++
		s.logger.Info("seeded user", zap.String("email", user.Email), zap.String("role", string(user.Role)))
	}

	for _, sample := range Articles() {
		article := sample
		if err := s.articles.Create(ctx, &article); err != nil {
			if _, dup := repository.AsDuplicate(err); dup {
				summary.ArticlesSkipped++
				continue
			}
			return summary, fmt.Errorf("create article %q: %w", article.Title, err)
		}
		summary.ArticlesCreated++
		s.logger.Info("seeded article", zap.String("slug", article.Slug))
	}

	return summary, nil
}
