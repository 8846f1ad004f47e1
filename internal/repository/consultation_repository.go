package repository

import (
	"context"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/wellness-service/internal/domain"
)

// ConsultationFilter narrows the staff listing.
type ConsultationFilter struct {
	Status *domain.ConsultationStatus
	Limit  int
	Offset int
}

// ConsultationRepository encapsulates consultation persistence.
type ConsultationRepository interface {
	Create(ctx context.Context, consultation *domain.Consultation) error
	Update(ctx context.Context, consultation *domain.Consultation) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Consultation, error)
	FindActiveAt(ctx context.Context, at time.Time, statuses []domain.ConsultationStatus, excludeID string) (*domain.Consultation, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Consultation, error)
	List(ctx context.Context, filter ConsultationFilter) ([]domain.Consultation, error)
	Count(ctx context.Context, filter ConsultationFilter) (int, error)
}

type consultationRepository struct {
	db Querier
}

// NewConsultationRepository instantiates repository.
func NewConsultationRepository(db Querier) ConsultationRepository {
	return &consultationRepository{db: db}
}

var consultationColumns = []string{
	"c.id", "c.user_id", "c.scheduled_at", "c.type", "c.notes", "c.status", "c.dietician_id",
	"c.created_at", "c.updated_at",
	"u.name", "u.email", "d.name", "d.email",
}

func consultationSelect() sq.SelectBuilder {
	return psql.Select(consultationColumns...).
		From("consultations c").
		Join("users u ON u.id = c.user_id").
		LeftJoin("users d ON d.id = c.dietician_id")
}

func (r *consultationRepository) Create(ctx context.Context, consultation *domain.Consultation) error {
	const query = `
        INSERT INTO consultations (user_id, scheduled_at, type, notes, status, dietician_id)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, created_at, updated_at`

	err := r.db.QueryRow(ctx, query,
		consultation.UserID,
		domain.NormalizeSlot(consultation.ScheduledAt),
		consultation.Type,
		consultation.Notes,
		consultation.Status,
		consultation.DieticianID,
	).Scan(&consultation.ID, &consultation.CreatedAt, &consultation.UpdatedAt)
	return mapWriteError(err)
}

func (r *consultationRepository) Update(ctx context.Context, consultation *domain.Consultation) error {
	const query = `
        UPDATE consultations SET scheduled_at=$1, notes=$2, status=$3, dietician_id=$4, updated_at=NOW()
        WHERE id=$5
        RETURNING updated_at`

	err := r.db.QueryRow(ctx, query,
		domain.NormalizeSlot(consultation.ScheduledAt),
		consultation.Notes,
		consultation.Status,
		consultation.DieticianID,
		consultation.ID,
	).Scan(&consultation.UpdatedAt)
	return mapWriteError(err)
}

func (r *consultationRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM consultations WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *consultationRepository) GetByID(ctx context.Context, id string) (*domain.Consultation, error) {
	query, args, err := consultationSelect().Where(sq.Eq{"c.id": id}).ToSql()
	if err != nil {
		return nil, err
	}
	return scanConsultation(r.db.QueryRow(ctx, query, args...))
}

// FindActiveAt returns a consultation at the exact instant whose status is in
// statuses, or nil when the slot is free.
func (r *consultationRepository) FindActiveAt(ctx context.Context, at time.Time, statuses []domain.ConsultationStatus, excludeID string) (*domain.Consultation, error) {
	builder := consultationSelect().Where(sq.Eq{
		"c.scheduled_at": domain.NormalizeSlot(at),
		"c.status":       statusArgs(statuses),
	})
	if excludeID != "" {
		builder = builder.Where(sq.NotEq{"c.id": excludeID})
	}
	query, args, err := builder.Limit(1).ToSql()
	if err != nil {
		return nil, err
	}

	consultation, err := scanConsultation(r.db.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return consultation, err
}

func (r *consultationRepository) ListByUser(ctx context.Context, userID string) ([]domain.Consultation, error) {
	query, args, err := consultationSelect().
		Where(sq.Eq{"c.user_id": userID}).
		OrderBy("c.scheduled_at DESC").
		ToSql()
	if err != nil {
		return nil, err
	}
	return r.list(ctx, query, args)
}

func (r *consultationRepository) List(ctx context.Context, filter ConsultationFilter) ([]domain.Consultation, error) {
	limit, offset := normalizePage(filter.Limit, filter.Offset, 10)
	builder := consultationSelect()
	if filter.Status != nil {
		builder = builder.Where(sq.Eq{"c.status": *filter.Status})
	}
	query, args, err := builder.
		OrderBy("c.scheduled_at DESC").
		Limit(limit).
		Offset(offset).
		ToSql()
	if err != nil {
		return nil, err
	}
	return r.list(ctx, query, args)
}

func (r *consultationRepository) Count(ctx context.Context, filter ConsultationFilter) (int, error) {
	builder := psql.Select("COUNT(*)").From("consultations c")
	if filter.Status != nil {
		builder = builder.Where(sq.Eq{"c.status": *filter.Status})
	}
	query, args, err := builder.ToSql()
	if err != nil {
		return 0, err
	}
	var total int
	if err := r.db.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

func (r *consultationRepository) list(ctx context.Context, query string, args []any) ([]domain.Consultation, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Consultation
	for rows.Next() {
		consultation, err := scanConsultation(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *consultation)
	}
	return result, rows.Err()
}

func statusArgs(statuses []domain.ConsultationStatus) []string {
	out := make([]string, len(statuses))
	for i, status := range statuses {
		out[i] = string(status)
	}
	return out
}

func scanConsultation(row pgx.Row) (*domain.Consultation, error) {
	var (
		c                             domain.Consultation
		requesterName, requesterEmail string
		dieticianName, dieticianEmail *string
	)
	if err := row.Scan(
		&c.ID,
		&c.UserID,
		&c.ScheduledAt,
		&c.Type,
		&c.Notes,
		&c.Status,
		&c.DieticianID,
		&c.CreatedAt,
		&c.UpdatedAt,
		&requesterName,
		&requesterEmail,
		&dieticianName,
		&dieticianEmail,
	); err != nil {
		return nil, err
	}

	c.ScheduledAt = domain.NormalizeSlot(c.ScheduledAt)
	c.Requester = &domain.UserSummary{ID: c.UserID, Name: requesterName, Email: requesterEmail}
	if c.DieticianID != nil && dieticianName != nil {
		c.Dietician = &domain.UserSummary{ID: *c.DieticianID, Name: *dieticianName}
		if dieticianEmail != nil {
			c.Dietician.Email = *dieticianEmail
		}
	}
	return &c, nil
}
