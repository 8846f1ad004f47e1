package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/wellness-service/internal/domain"
	"github.com/spec-kit/wellness-service/internal/repository/repotest"
	apperrors "github.com/spec-kit/wellness-service/pkg/util"
)

type featuredCacheMock struct {
	GetFeaturedFunc func(ctx context.Context) ([]domain.Article, bool)
	sets            int
	invalidations   int
}

func (m *featuredCacheMock) GetFeatured(ctx context.Context) ([]domain.Article, bool) {
	if m.GetFeaturedFunc == nil {
		return nil, false
	}
	return m.GetFeaturedFunc(ctx)
}

func (m *featuredCacheMock) SetFeatured(context.Context, []domain.Article) { m.sets++ }

func (m *featuredCacheMock) InvalidateFeatured(context.Context) { m.invalidations++ }

func articleInput(title string) ArticleInput {
	return ArticleInput{
		Title:   title,
		Excerpt: "A short excerpt",
		Body:    "# " + title + "\n\nEat more **vegetables**.",
		Tags:    []string{" Vegetables ", "HEALTH", ""},
	}
}

func TestArticleService_CreateDefaultsAndConflicts(t *testing.T) {
	ctx := context.Background()
	cache := &featuredCacheMock{}
	svc := NewArticleService(repotest.NewStore().Articles(), cache, nil)

	article, err := svc.Create(ctx, articleInput("Top 10 Superfoods for 2026!"))
	require.NoError(t, err)
	assert.Equal(t, "top-10-superfoods-for-2026", article.Slug)
	assert.Equal(t, []string{"vegetables", "health"}, article.Tags)
	assert.Equal(t, domain.DefaultArticleAuthor, article.Author)
	assert.Equal(t, domain.DefaultArticleCover, article.CoverImageURL)
	assert.True(t, article.Published)
	assert.Equal(t, 1, cache.invalidations)

	_, err = svc.Create(ctx, articleInput("Top 10 superfoods for 2026"))
	requireCode(t, err, apperrors.CodeConflict)

	_, err = svc.Create(ctx, ArticleInput{Title: "!!!"})
	requireCode(t, err, apperrors.CodeValidation)
	details := apperrors.ToDomainError(err).Details
	assert.Contains(t, details, "title")
	assert.Contains(t, details, "excerpt")
	assert.Contains(t, details, "body")
}

func TestArticleService_GetRendersAndHidesDrafts(t *testing.T) {
	ctx := context.Background()
	svc := NewArticleService(repotest.NewStore().Articles(), nil, nil)

	published, err := svc.Create(ctx, articleInput("Hydration Basics"))
	require.NoError(t, err)
	draftInput := articleInput("Work In Progress")
	draftInput.Published = ptr(false)
	draft, err := svc.Create(ctx, draftInput)
	require.NoError(t, err)

	view, err := svc.Get(ctx, published.ID, false)
	require.NoError(t, err)
	assert.Contains(t, view.BodyHTML, "<strong>vegetables</strong>")

	_, err = svc.Get(ctx, draft.ID, false)
	requireCode(t, err, apperrors.CodeNotFound)

	_, err = svc.Get(ctx, draft.ID, true)
	require.NoError(t, err)

	_, err = svc.Get(ctx, "nope", true)
	requireCode(t, err, apperrors.CodeNotFound)
}

func TestArticleService_ListAndFeatured(t *testing.T) {
	ctx := context.Background()
	cache := &featuredCacheMock{}
	svc := NewArticleService(repotest.NewStore().Articles(), cache, nil)

	for _, title := range []string{"Greens First", "Protein Guide", "Sugar Facts", "Sleep And Diet"} {
		_, err := svc.Create(ctx, articleInput(title))
		require.NoError(t, err)
	}

	page, err := svc.List(ctx, ArticleListInput{Page: 1, Limit: 3})
	require.NoError(t, err)
	assert.Len(t, page.Items, 3)
	assert.Equal(t, Pagination{Page: 1, Limit: 3, Total: 4, Pages: 2}, page.Pagination)
	assert.Equal(t, "Sleep And Diet", page.Items[0].Title)

	searched, err := svc.List(ctx, ArticleListInput{Search: "protein", Tag: "Vegetables"})
	require.NoError(t, err)
	require.Len(t, searched.Items, 1)
	assert.Equal(t, "protein-guide", searched.Items[0].Slug)

	featured, err := svc.Featured(ctx)
	require.NoError(t, err)
	assert.Len(t, featured, 3)
	assert.Equal(t, 1, cache.sets)

	cache.GetFeaturedFunc = func(context.Context) ([]domain.Article, bool) {
		return []domain.Article{{Title: "cached"}}, true
	}
	featured, err = svc.Featured(ctx)
	require.NoError(t, err)
	require.Len(t, featured, 1)
	assert.Equal(t, "cached", featured[0].Title)
	assert.Equal(t, 1, cache.sets)
}

func TestArticleService_UpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	cache := &featuredCacheMock{}
	svc := NewArticleService(repotest.NewStore().Articles(), cache, nil)

	article, err := svc.Create(ctx, articleInput("Old Title"))
	require.NoError(t, err)

	updated, err := svc.Update(ctx, article.ID, domain.ArticlePatch{Title: ptr("New Title"), Published: ptr(false)})
	require.NoError(t, err)
	assert.Equal(t, "new-title", updated.Slug)
	assert.False(t, updated.Published)
	assert.Equal(t, "A short excerpt", updated.Excerpt)

	_, err = svc.Update(ctx, article.ID, domain.ArticlePatch{Body: ptr("  ")})
	requireCode(t, err, apperrors.CodeValidation)

	require.NoError(t, svc.Delete(ctx, article.ID))
	requireCode(t, svc.Delete(ctx, article.ID), apperrors.CodeNotFound)
	requireCode(t, svc.Delete(ctx, "bad-id"), apperrors.CodeNotFound)
	assert.Equal(t, 3, cache.invalidations)
}
