package repository

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/wellness-service/internal/domain"
)

// GoalFilter narrows a user's goal listing.
type GoalFilter struct {
	Status *domain.GoalStatus
	Type   *domain.GoalType
}

// GoalRepository encapsulates goal persistence.
type GoalRepository interface {
	Create(ctx context.Context, goal *domain.Goal) error
	Update(ctx context.Context, goal *domain.Goal) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Goal, error)
	ListByUser(ctx context.Context, userID string, filter GoalFilter) ([]domain.Goal, error)
}

type goalRepository struct {
	db Querier
}

// NewGoalRepository instantiates repository.
func NewGoalRepository(db Querier) GoalRepository {
	return &goalRepository{db: db}
}

var goalColumns = []string{
	"id", "user_id", "type", "title", "target", "unit", "current",
	"start_date", "end_date", "status", "progress_history", "created_at", "updated_at",
}

func (r *goalRepository) Create(ctx context.Context, goal *domain.Goal) error {
	if goal.ProgressHistory == nil {
		goal.ProgressHistory = []domain.ProgressEntry{}
	}
	const query = `
        INSERT INTO goals (user_id, type, title, target, unit, current, start_date, end_date, status, progress_history)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
        RETURNING id, created_at, updated_at`
	return r.db.QueryRow(ctx, query,
		goal.UserID,
		goal.Type,
		goal.Title,
		goal.Target,
		goal.Unit,
		goal.Current,
		goal.StartDate,
		goal.EndDate,
		goal.Status,
		goal.ProgressHistory,
	).Scan(&goal.ID, &goal.CreatedAt, &goal.UpdatedAt)
}

func (r *goalRepository) Update(ctx context.Context, goal *domain.Goal) error {
	if goal.ProgressHistory == nil {
		goal.ProgressHistory = []domain.ProgressEntry{}
	}
	const query = `
        UPDATE goals SET title=$1, target=$2, unit=$3, current=$4, end_date=$5, status=$6,
            progress_history=$7, updated_at=NOW()
        WHERE id=$8
        RETURNING updated_at`
	return r.db.QueryRow(ctx, query,
		goal.Title,
		goal.Target,
		goal.Unit,
		goal.Current,
		goal.EndDate,
		goal.Status,
		goal.ProgressHistory,
		goal.ID,
	).Scan(&goal.UpdatedAt)
}

func (r *goalRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM goals WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *goalRepository) GetByID(ctx context.Context, id string) (*domain.Goal, error) {
	query, args, err := psql.Select(goalColumns...).From("goals").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, err
	}
	return scanGoal(r.db.QueryRow(ctx, query, args...))
}

func (r *goalRepository) ListByUser(ctx context.Context, userID string, filter GoalFilter) ([]domain.Goal, error) {
	builder := psql.Select(goalColumns...).From("goals").Where(sq.Eq{"user_id": userID})
	if filter.Status != nil {
		builder = builder.Where(sq.Eq{"status": *filter.Status})
	}
	if filter.Type != nil {
		builder = builder.Where(sq.Eq{"type": *filter.Type})
	}
	query, args, err := builder.OrderBy("created_at DESC").ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Goal
	for rows.Next() {
		goal, err := scanGoal(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *goal)
	}
	return result, rows.Err()
}

func scanGoal(row pgx.Row) (*domain.Goal, error) {
	var goal domain.Goal
	if err := row.Scan(
		&goal.ID,
		&goal.UserID,
		&goal.Type,
		&goal.Title,
		&goal.Target,
		&goal.Unit,
		&goal.Current,
		&goal.StartDate,
		&goal.EndDate,
		&goal.Status,
		&goal.ProgressHistory,
		&goal.CreatedAt,
		&goal.UpdatedAt,
	); err != nil {
		return nil, err
	}
	for i := range goal.ProgressHistory {
		goal.ProgressHistory[i].Date = goal.ProgressHistory[i].Date.UTC()
	}
	goal.StartDate = goal.StartDate.UTC()
	goal.EndDate = goal.EndDate.UTC()
	return &goal, nil
}
