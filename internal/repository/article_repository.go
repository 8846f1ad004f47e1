package repository

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/wellness-service/internal/domain"
)

// ArticleFilter narrows an article listing.
type ArticleFilter struct {
	Search        string
	Tag           string
	PublishedOnly bool
	Limit         int
	Offset        int
}

// ArticleRepository encapsulates article persistence.
type ArticleRepository interface {
	Create(ctx context.Context, article *domain.Article) error
	Update(ctx context.Context, article *domain.Article) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Article, error)
	List(ctx context.Context, filter ArticleFilter) ([]domain.Article, error)
	Count(ctx context.Context, filter ArticleFilter) (int, error)
	Latest(ctx context.Context, limit int) ([]domain.Article, error)
}

type articleRepository struct {
	db Querier
}

// NewArticleRepository instantiates repository.
func NewArticleRepository(db Querier) ArticleRepository {
	return &articleRepository{db: db}
}

var articleColumns = []string{
	"id", "title", "slug", "excerpt", "body", "tags", "author", "cover_image_url",
	"published", "created_at", "updated_at",
}

const articleSearchVector = "to_tsvector('english', title || ' ' || excerpt || ' ' || body)"

func (r *articleRepository) Create(ctx context.Context, article *domain.Article) error {
	if article.Tags == nil {
		article.Tags = []string{}
	}
	const query = `
        INSERT INTO articles (title, slug, excerpt, body, tags, author, cover_image_url, published)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        RETURNING id, created_at, updated_at`

	err := r.db.QueryRow(ctx, query,
		article.Title,
		article.Slug,
		article.Excerpt,
		article.Body,
		article.Tags,
		article.Author,
		article.CoverImageURL,
		article.Published,
	).Scan(&article.ID, &article.CreatedAt, &article.UpdatedAt)
	return mapWriteError(err)
}

func (r *articleRepository) Update(ctx context.Context, article *domain.Article) error {
	if article.Tags == nil {
		article.Tags = []string{}
	}
	const query = `
        UPDATE articles SET title=$1, slug=$2, excerpt=$3, body=$4, tags=$5, author=$6,
            cover_image_url=$7, published=$8, updated_at=NOW()
        WHERE id=$9
        RETURNING updated_at`

	err := r.db.QueryRow(ctx, query,
		article.Title,
		article.Slug,
		article.Excerpt,
		article.Body,
		article.Tags,
		article.Author,
		article.CoverImageURL,
		article.Published,
		article.ID,
	).Scan(&article.UpdatedAt)
	return mapWriteError(err)
}

func (r *articleRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM articles WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *articleRepository) GetByID(ctx context.Context, id string) (*domain.Article, error) {
	query, args, err := psql.Select(articleColumns...).From("articles").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, err
	}
	return scanArticle(r.db.QueryRow(ctx, query, args...))
}

func (r *articleRepository) List(ctx context.Context, filter ArticleFilter) ([]domain.Article, error) {
	limit, offset := normalizePage(filter.Limit, filter.Offset, 10)
	query, args, err := applyArticleFilter(psql.Select(articleColumns...).From("articles"), filter).
		OrderBy("created_at DESC").
		Limit(limit).
		Offset(offset).
		ToSql()
	if err != nil {
		return nil, err
	}
	return r.list(ctx, query, args)
}

func (r *articleRepository) Count(ctx context.Context, filter ArticleFilter) (int, error) {
	query, args, err := applyArticleFilter(psql.Select("COUNT(*)").From("articles"), filter).ToSql()
	if err != nil {
		return 0, err
	}
	var total int
	if err := r.db.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

// Latest returns the newest published articles.
func (r *articleRepository) Latest(ctx context.Context, limit int) ([]domain.Article, error) {
	query, args, err := psql.Select(articleColumns...).
		From("articles").
		Where(sq.Eq{"published": true}).
		OrderBy("created_at DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, err
	}
	return r.list(ctx, query, args)
}

func applyArticleFilter(builder sq.SelectBuilder, filter ArticleFilter) sq.SelectBuilder {
	if filter.PublishedOnly {
		builder = builder.Where(sq.Eq{"published": true})
	}
	if filter.Search != "" {
		builder = builder.Where(sq.Expr(articleSearchVector+" @@ plainto_tsquery('english', ?)", filter.Search))
	}
	if filter.Tag != "" {
		builder = builder.Where(sq.Expr("? = ANY(tags)", filter.Tag))
	}
	return builder
}

func (r *articleRepository) list(ctx context.Context, query string, args []any) ([]domain.Article, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Article
	for rows.Next() {
		article, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *article)
	}
	return result, rows.Err()
}

func scanArticle(row pgx.Row) (*domain.Article, error) {
	var article domain.Article
	if err := row.Scan(
		&article.ID,
		&article.Title,
		&article.Slug,
		&article.Excerpt,
		&article.Body,
		&article.Tags,
		&article.Author,
		&article.CoverImageURL,
		&article.Published,
		&article.CreatedAt,
		&article.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &article, nil
}
