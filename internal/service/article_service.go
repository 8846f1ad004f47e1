package service

import (
	"context"
	"strings"

	"github.com/spec-kit/wellness-service/internal/domain"
	"github.com/spec-kit/wellness-service/internal/markdown"
	"github.com/spec-kit/wellness-service/internal/repository"
	apperrors "github.com/spec-kit/wellness-service/pkg/util"
)

const (
	maxArticleTitle   = 200
	maxArticleExcerpt = 300
	featuredCount     = 3
)

// FeaturedCache stores the featured article list.
type FeaturedCache interface {
	GetFeatured(ctx context.Context) ([]domain.Article, bool)
	SetFeatured(ctx context.Context, articles []domain.Article)
	InvalidateFeatured(ctx context.Context)
}

// ArticleService manages the nutrition article catalogue.
type ArticleService struct {
	articles repository.ArticleRepository
	cache    FeaturedCache
	renderer *markdown.Renderer
}

// ArticleListInput describes catalogue filters.
type ArticleListInput struct {
	Search string
	Tag    string
	Page   int
	Limit  int
}

// ArticlePage is one page of the catalogue.
type ArticlePage struct {
	Items      []domain.Article
	Pagination Pagination
}

// ArticleView is an article with its rendered body.
type ArticleView struct {
	Article  domain.Article
	BodyHTML string
}

// ArticleInput describes article creation payload.
type ArticleInput struct {
	Title         string
	Excerpt       string
	Body          string
	Tags          []string
	Author        string
	CoverImageURL string
	Published     *bool
}

// NewArticleService constructs the service. cache may be nil.
func NewArticleService(articles repository.ArticleRepository, cache FeaturedCache, renderer *markdown.Renderer) *ArticleService {
	if renderer == nil {
		renderer = markdown.NewRenderer()
	}
	return &ArticleService{articles: articles, cache: cache, renderer: renderer}
}

// List returns published articles matching the filters, newest first.
func (s *ArticleService) List(ctx context.Context, in ArticleListInput) (*ArticlePage, error) {
	page, limit := normalizePage(in.Page, in.Limit, 10)
	filter := repository.ArticleFilter{
		Search:        strings.TrimSpace(in.Search),
		Tag:           strings.ToLower(strings.TrimSpace(in.Tag)),
		PublishedOnly: true,
		Limit:         limit,
		Offset:        (page - 1) * limit,
	}

	items, err := s.articles.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.articles.Count(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &ArticlePage{Items: items, Pagination: newPagination(page, limit, total)}, nil
}

// Featured returns the latest published articles.
func (s *ArticleService) Featured(ctx context.Context) ([]domain.Article, error) {
	if s.cache != nil {
		if cached, ok := s.cache.GetFeatured(ctx); ok {
			return cached, nil
		}
	}
	items, err := s.articles.Latest(ctx, featuredCount)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		s.cache.SetFeatured(ctx, items)
	}
	return items, nil
}

// Get returns an article with rendered HTML. Drafts are only visible when
// includeDrafts is set.
func (s *ArticleService) Get(ctx context.Context, id string, includeDrafts bool) (*ArticleView, error) {
	article, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !article.Published && !includeDrafts {
		return nil, apperrors.NewNotFound("article", nil)
	}
	html, err := s.renderer.Render(article.Body)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return &ArticleView{Article: *article, BodyHTML: html}, nil
}

// Create publishes a new article.
func (s *ArticleService) Create(ctx context.Context, in ArticleInput) (*domain.Article, error) {
	article := domain.Article{
		Title:         strings.TrimSpace(in.Title),
		Excerpt:       strings.TrimSpace(in.Excerpt),
		Body:          in.Body,
		Tags:          domain.NormalizeTags(in.Tags),
		Author:        strings.TrimSpace(in.Author),
		CoverImageURL: strings.TrimSpace(in.CoverImageURL),
		Published:     true,
	}
	article.Slug = domain.Slugify(article.Title)
	if article.Author == "" {
		article.Author = domain.DefaultArticleAuthor
	}
	if article.CoverImageURL == "" {
		article.CoverImageURL = domain.DefaultArticleCover
	}
	if in.Published != nil {
		article.Published = *in.Published
	}

	if err := validateArticle(article); err != nil {
		return nil, err
	}
	if err := s.articles.Create(ctx, &article); err != nil {
		return nil, mapArticleWriteError(err)
	}
	s.invalidate(ctx)
	return &article, nil
}

// Update applies a partial update; the slug follows the title.
func (s *ArticleService) Update(ctx context.Context, id string, patch domain.ArticlePatch) (*domain.Article, error) {
	current, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	updated := patch.Apply(*current)
	if err := validateArticle(updated); err != nil {
		return nil, err
	}
	if err := s.articles.Update(ctx, &updated); err != nil {
		return nil, mapArticleWriteError(err)
	}
	s.invalidate(ctx)
	return &updated, nil
}

// Delete removes an article.
func (s *ArticleService) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return apperrors.NewNotFound("article", nil)
	}
	if err := s.articles.Delete(ctx, id); err != nil {
		if apperrors.IsNotFound(err) {
			return apperrors.NewNotFound("article", nil)
		}
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *ArticleService) load(ctx context.Context, id string) (*domain.Article, error) {
	if !validID(id) {
		return nil, apperrors.NewNotFound("article", nil)
	}
	article, err := s.articles.GetByID(ctx, id)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.NewNotFound("article", nil)
		}
		return nil, err
	}
	return article, nil
}

func (s *ArticleService) invalidate(ctx context.Context) {
	if s.cache != nil {
		s.cache.InvalidateFeatured(ctx)
	}
}

func validateArticle(a domain.Article) error {
	errs := fieldErrors{}
	switch n := runeLen(a.Title); {
	case n == 0:
		errs.add("title", "title is required")
	case n > maxArticleTitle:
		errs.add("title", "title cannot exceed 200 characters")
	case a.Slug == "":
		errs.add("title", "title must contain letters or digits")
	}
	switch n := runeLen(a.Excerpt); {
	case n == 0:
		errs.add("excerpt", "excerpt is required")
	case n > maxArticleExcerpt:
		errs.add("excerpt", "excerpt cannot exceed 300 characters")
	}
	if strings.TrimSpace(a.Body) == "" {
		errs.add("body", "body is required")
	}
	return errs.err()
}

func mapArticleWriteError(err error) error {
	if _, dup := repository.AsDuplicate(err); dup {
		return apperrors.NewConflict("an article with this title already exists", nil)
	}
	return err
}
