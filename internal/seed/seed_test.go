package seed

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/wellness-service/internal/auth"
	"github.com/spec-kit/wellness-service/internal/domain"
	"github.com/spec-kit/wellness-service/internal/repository"
	"github.com/spec-kit/wellness-service/internal/repository/repotest"
)

func TestSeederRunIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := repotest.NewStore()
	seeder := NewSeeder(store.Users(), store.Articles(), 4, nil)

	first, err := seeder.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, len(Accounts), first.UsersCreated)
	assert.Equal(t, len(sampleArticles), first.ArticlesCreated)

	second, err := seeder.Run(ctx)
	require.NoError(t, err)
	assert.Zero(t, second.UsersCreated)
	assert.Equal(t, len(Accounts), second.UsersSkipped)
	assert.Equal(t, len(sampleArticles), second.ArticlesSkipped)

	demo, err := store.Users().GetByEmail(ctx, "demo@wellnewyear.com")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleUser, demo.Role)
	assert.NoError(t, auth.ComparePassword(demo.PasswordHash, "Demo123!"))

	sarah, err := store.Users().GetByEmail(ctx, "sarah@wellnewyear.com")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleDietician, sarah.Role)

	published, err := store.Articles().Count(ctx, repository.ArticleFilter{PublishedOnly: true})
	require.NoError(t, err)
	assert.EqualValues(t, len(sampleArticles), published)
}

func TestArticlesHaveSlugs(t *testing.T) {
	seen := map[string]bool{}
	for _, article := range Articles() {
		require.NotEmpty(t, article.Slug)
		assert.False(t, seen[article.Slug], article.Slug)
		seen[article.Slug] = true
		assert.LessOrEqual(t, len([]rune(article.Excerpt)), 300)
	}
}
