package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/wellness-service/internal/domain"
)

const featuredArticlesKey = "articles:featured"

// ArticleCache keeps the featured article list in Redis.
type ArticleCache struct {
	client redis.UniversalClient
	ttl    time.Duration
	logger *zap.Logger
}

// NewArticleCache builds a cache; a zero ttl disables caching.
func NewArticleCache(client redis.UniversalClient, ttl time.Duration, logger *zap.Logger) *ArticleCache {
	return &ArticleCache{client: client, ttl: ttl, logger: logger}
}

type cachedArticle struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Slug          string    `json:"slug"`
	Excerpt       string    `json:"excerpt"`
	Tags          []string  `json:"tags"`
	Author        string    `json:"author"`
	CoverImageURL string    `json:"coverImageUrl"`
	Published     bool      `json:"published"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// GetFeatured returns the cached list and whether it was present.
func (c *ArticleCache) GetFeatured(ctx context.Context) ([]domain.Article, bool) {
	if !c.enabled() {
		return nil, false
	}
	raw, err := c.client.Get(ctx, featuredArticlesKey).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("featured cache read failed", zap.Error(err))
		}
		return nil, false
	}
	var cached []cachedArticle
	if err := json.Unmarshal(raw, &cached); err != nil {
		c.logger.Warn("featured cache corrupt", zap.Error(err))
		return nil, false
	}
	out := make([]domain.Article, 0, len(cached))
	for _, a := range cached {
		out = append(out, domain.Article{
			ID:            a.ID,
			Title:         a.Title,
			Slug:          a.Slug,
			Excerpt:       a.Excerpt,
			Tags:          a.Tags,
			Author:        a.Author,
			CoverImageURL: a.CoverImageURL,
			Published:     a.Published,
			CreatedAt:     a.CreatedAt,
			UpdatedAt:     a.UpdatedAt,
		})
	}
	return out, true
}

// SetFeatured stores the list without article bodies.
func (c *ArticleCache) SetFeatured(ctx context.Context, articles []domain.Article) {
	if !c.enabled() {
		return
	}
	cached := make([]cachedArticle, 0, len(articles))
	for _, a := range articles {
		cached = append(cached, cachedArticle{
			ID:            a.ID,
			Title:         a.Title,
			Slug:          a.Slug,
			Excerpt:       a.Excerpt,
			Tags:          a.Tags,
			Author:        a.Author,
			CoverImageURL: a.CoverImageURL,
			Published:     a.Published,
			CreatedAt:     a.CreatedAt,
			UpdatedAt:     a.UpdatedAt,
		})
	}
	raw, err := json.Marshal(cached)
	if err != nil {
		c.logger.Warn("featured cache encode failed", zap.Error(err))
		return
	}
	if err := c.client.Set(ctx, featuredArticlesKey, raw, c.ttl).Err(); err != nil {
		c.logger.Warn("featured cache write failed", zap.Error(err))
	}
}

// InvalidateFeatured drops the cached list.
func (c *ArticleCache) InvalidateFeatured(ctx context.Context) {
	if !c.enabled() {
		return
	}
	if err := c.client.Del(ctx, featuredArticlesKey).Err(); err != nil {
		c.logger.Warn("featured cache invalidation failed", zap.Error(err))
	}
}

func (c *ArticleCache) enabled() bool {
	return c != nil && c.client != nil && c.ttl > 0
}
