package domain

import (
	"regexp"
	"strings"
	"time"
)

const (
	DefaultArticleAuthor = "WellNewYear Team"
	DefaultArticleCover  = "https://images.unsplash.com/photo-1490645935967-10de6ba17061?w=800"
)

// Article is a published nutrition article.
type Article struct {
	ID            string
	Title         string
	Slug          string
	Excerpt       string
	Body          string
	Tags          []string
	Author        string
	CoverImageURL string
	Published     bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

var slugSeparator = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify derives a URL slug from a title.
func Slugify(title string) string {
	slug := slugSeparator.ReplaceAllString(strings.ToLower(title), "-")
	return strings.Trim(slug, "-")
}

// NormalizeTags lower-cases and trims tags, dropping empty ones.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		if tag = strings.ToLower(strings.TrimSpace(tag)); tag != "" {
			out = append(out, tag)
		}
	}
	return out
}

// ArticlePatch is a partial article update; nil fields are absent.
type ArticlePatch struct {
	Title         *string
	Excerpt       *string
	Body          *string
	Tags          *[]string
	Author        *string
	CoverImageURL *string
	Published     *bool
}

// Apply returns a copy of a with the present fields overwritten. The slug follows the title.
func (p ArticlePatch) Apply(a Article) Article {
	if p.Title != nil {
		a.Title = strings.TrimSpace(*p.Title)
		a.Slug = Slugify(a.Title)
	}
	if p.Excerpt != nil {
		a.Excerpt = *p.Excerpt
	}
	if p.Body != nil {
		a.Body = *p.Body
	}
	if p.Tags != nil {
		a.Tags = NormalizeTags(*p.Tags)
	}
	if p.Author != nil {
		a.Author = *p.Author
	}
	if p.CoverImageURL != nil {
		a.CoverImageURL = *p.CoverImageURL
	}
	if p.Published != nil {
		a.Published = *p.Published
	}
	return a
}
