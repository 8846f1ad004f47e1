package dto

import (
	"time"

	"github.com/spec-kit/wellness-service/internal/domain"
)

// CreateArticleRequest payload.
type CreateArticleRequest struct {
	Title         string   `json:"title"`
	Excerpt       string   `json:"excerpt"`
	Body          string   `json:"body"`
	Tags          []string `json:"tags"`
	Author        string   `json:"author"`
	CoverImageURL string   `json:"coverImageUrl"`
	Published     *bool    `json:"published"`
}

// UpdateArticleRequest payload; absent fields are left untouched.
type UpdateArticleRequest struct {
	Title         *string   `json:"title"`
	Excerpt       *string   `json:"excerpt"`
	Body          *string   `json:"body"`
	Tags          *[]string `json:"tags"`
	Author        *string   `json:"author"`
	CoverImageURL *string   `json:"coverImageUrl"`
	Published     *bool     `json:"published"`
}

// Patch converts the request into a domain patch.
func (r UpdateArticleRequest) Patch() domain.ArticlePatch {
	return domain.ArticlePatch{
		Title:         r.Title,
		Excerpt:       r.Excerpt,
		Body:          r.Body,
		Tags:          r.Tags,
		Author:        r.Author,
		CoverImageURL: r.CoverImageURL,
		Published:     r.Published,
	}
}

// ArticleResponse is the article view. Body is omitted from list views.
type ArticleResponse struct {
	ID            string    `json:"_id"`
	Title         string    `json:"title"`
	Slug          string    `json:"slug"`
	Excerpt       string    `json:"excerpt"`
	Body          string    `json:"body,omitempty"`
	BodyHTML      string    `json:"bodyHtml,omitempty"`
	Tags          []string  `json:"tags"`
	Author        string    `json:"author"`
	CoverImageURL string    `json:"coverImageUrl"`
	Published     bool      `json:"published"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// NewArticleResponse maps an article including its body.
func NewArticleResponse(a *domain.Article) ArticleResponse {
	tags := a.Tags
	if tags == nil {
		tags = []string{}
	}
	return ArticleResponse{
		ID:            a.ID,
		Title:         a.Title,
		Slug:          a.Slug,
		Excerpt:       a.Excerpt,
		Body:          a.Body,
		Tags:          tags,
		Author:        a.Author,
		CoverImageURL: a.CoverImageURL,
		Published:     a.Published,
		CreatedAt:     a.CreatedAt,
		UpdatedAt:     a.UpdatedAt,
	}
}

// NewArticleSummaries maps a list without bodies.
func NewArticleSummaries(items []domain.Article) []ArticleResponse {
	out := make([]ArticleResponse, 0, len(items))
	for i := range items {
		summary := NewArticleResponse(&items[i])
		summary.Body = ""
		out = append(out, summary)
	}
	return out
}
