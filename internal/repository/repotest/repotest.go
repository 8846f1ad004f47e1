// Package repotest provides in-memory repositories for service and handler tests.
package repotest

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/wellness-service/internal/domain"
	"github.com/spec-kit/wellness-service/internal/repository"
)

// Store backs every in-memory repository with one shared state, so joins
// such as consultation requester summaries resolve.
type Store struct {
	mu            sync.Mutex
	clock         time.Time
	users         map[string]domain.User
	goals         map[string]domain.Goal
	consultations map[string]domain.Consultation
	articles      map[string]domain.Article
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		clock:         time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		users:         make(map[string]domain.User),
		goals:         make(map[string]domain.Goal),
		consultations: make(map[string]domain.Consultation),
		articles:      make(map[string]domain.Article),
	}
}

// tick returns a strictly increasing timestamp so ordering is deterministic.
func (s *Store) tick() time.Time {
	s.clock = s.clock.Add(time.Second)
	return s.clock
}

// Users returns a UserRepository over the store.
func (s *Store) Users() repository.UserRepository { return &users{s} }

// Goals returns a GoalRepository over the store.
func (s *Store) Goals() repository.GoalRepository { return &goals{s} }

// Consultations returns a ConsultationRepository over the store.
func (s *Store) Consultations() repository.ConsultationRepository { return &consultations{s} }

// Articles returns an ArticleRepository over the store.
func (s *Store) Articles() repository.ArticleRepository { return &articles{s} }

type users struct{ s *Store }

func (r *users) Create(_ context.Context, user *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	user.Email = strings.ToLower(user.Email)
	for _, existing := range r.s.users {
		if existing.Email == user.Email {
			return &repository.DuplicateError{Constraint: "users_email_key"}
		}
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	user.CreatedAt = r.s.tick()
	user.UpdatedAt = user.CreatedAt
	r.s.users[user.ID] = *user
	return nil
}

func (r *users) Update(_ context.Context, user *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[user.ID]; !ok {
		return pgx.ErrNoRows
	}
	user.Email = strings.ToLower(user.Email)
	for id, existing := range r.s.users {
		if id != user.ID && existing.Email == user.Email {
			return &repository.DuplicateError{Constraint: "users_email_key"}
		}
	}
	user.UpdatedAt = r.s.tick()
	r.s.users[user.ID] = *user
	return nil
}

func (r *users) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	user, ok := r.s.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &user, nil
}

func (r *users) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	email = strings.ToLower(strings.TrimSpace(email))
	for _, user := range r.s.users {
		if user.Email == email {
			return &user, nil
		}
	}
	return nil, pgx.ErrNoRows
}

type goals struct{ s *Store }

func (r *goals) Create(_ context.Context, goal *domain.Goal) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	goal.ID = uuid.NewString()
	goal.CreatedAt = r.s.tick()
	goal.UpdatedAt = goal.CreatedAt
	r.s.goals[goal.ID] = cloneGoal(*goal)
	return nil
}

func (r *goals) Update(_ context.Context, goal *domain.Goal) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.goals[goal.ID]; !ok {
		return pgx.ErrNoRows
	}
	goal.UpdatedAt = r.s.tick()
	r.s.goals[goal.ID] = cloneGoal(*goal)
	return nil
}

func (r *goals) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.goals[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.s.goals, id)
	return nil
}

func (r *goals) GetByID(_ context.Context, id string) (*domain.Goal, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	goal, ok := r.s.goals[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	out := cloneGoal(goal)
	return &out, nil
}

func (r *goals) ListByUser(_ context.Context, userID string, filter repository.GoalFilter) ([]domain.Goal, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []domain.Goal
	for _, goal := range r.s.goals {
		if goal.UserID != userID {
			continue
		}
		if filter.Status != nil && goal.Status != *filter.Status {
			continue
		}
		if filter.Type != nil && goal.Type != *filter.Type {
			continue
		}
		out = append(out, cloneGoal(goal))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func cloneGoal(goal domain.Goal) domain.Goal {
	goal.ProgressHistory = append([]domain.ProgressEntry{}, goal.ProgressHistory...)
	return goal
}

type consultations struct{ s *Store }

func (r *consultations) Create(_ context.Context, c *domain.Consultation) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c.ScheduledAt = domain.NormalizeSlot(c.ScheduledAt)
	if r.slotTaken(c) {
		return &repository.DuplicateError{Constraint: "consultations_active_slot_uidx"}
	}
	c.ID = uuid.NewString()
	c.CreatedAt = r.s.tick()
	c.UpdatedAt = c.CreatedAt
	r.s.consultations[c.ID] = stripSummaries(*c)
	return nil
}

func (r *consultations) Update(_ context.Context, c *domain.Consultation) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.consultations[c.ID]; !ok {
		return pgx.ErrNoRows
	}
	c.ScheduledAt = domain.NormalizeSlot(c.ScheduledAt)
	if r.slotTaken(c) {
		return &repository.DuplicateError{Constraint: "consultations_active_slot_uidx"}
	}
	c.UpdatedAt = r.s.tick()
	r.s.consultations[c.ID] = stripSummaries(*c)
	return nil
}

// slotTaken mirrors the partial unique index on active slots.
func (r *consultations) slotTaken(c *domain.Consultation) bool {
	if !c.Status.HoldsSlot() {
		return false
	}
	for id, existing := range r.s.consultations {
		if id != c.ID && existing.Status.HoldsSlot() && existing.ScheduledAt.Equal(c.ScheduledAt) {
			return true
		}
	}
	return false
}

func (r *consultations) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.consultations[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.s.consultations, id)
	return nil
}

func (r *consultations) GetByID(_ context.Context, id string) (*domain.Consultation, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.consultations[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	out := r.withSummaries(c)
	return &out, nil
}

func (r *consultations) FindActiveAt(_ context.Context, at time.Time, statuses []domain.ConsultationStatus, excludeID string) (*domain.Consultation, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	at = domain.NormalizeSlot(at)
	for id, c := range r.s.consultations {
		if id == excludeID || !c.ScheduledAt.Equal(at) {
			continue
		}
		for _, status := range statuses {
			if c.Status == status {
				out := r.withSummaries(c)
				return &out, nil
			}
		}
	}
	return nil, nil
}

func (r *consultations) ListByUser(_ context.Context, userID string) ([]domain.Consultation, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []domain.Consultation
	for _, c := range r.s.consultations {
		if c.UserID == userID {
			out = append(out, r.withSummaries(c))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ScheduledAt.After(out[j].ScheduledAt) })
	return out, nil
}

func (r *consultations) List(_ context.Context, filter repository.ConsultationFilter) ([]domain.Consultation, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	all := r.filtered(filter)
	sort.Slice(all, func(i, j int) bool { return all[i].ScheduledAt.After(all[j].ScheduledAt) })
	return page(all, filter.Limit, filter.Offset), nil
}

func (r *consultations) Count(_ context.Context, filter repository.ConsultationFilter) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return len(r.filtered(filter)), nil
}

func (r *consultations) filtered(filter repository.ConsultationFilter) []domain.Consultation {
	var out []domain.Consultation
	for _, c := range r.s.consultations {
		if filter.Status != nil && c.Status != *filter.Status {
			continue
		}
		out = append(out, r.withSummaries(c))
	}
	return out
}

func (r *consultations) withSummaries(c domain.Consultation) domain.Consultation {
	if user, ok := r.s.users[c.UserID]; ok {
		c.Requester = &domain.UserSummary{ID: user.ID, Name: user.Name, Email: user.Email}
	}
	if c.DieticianID != nil {
		id := *c.DieticianID
		c.DieticianID = &id
		if user, ok := r.s.users[id]; ok {
			c.Dietician = &domain.UserSummary{ID: user.ID, Name: user.Name, Email: user.Email}
		}
	}
	return c
}

func stripSummaries(c domain.Consultation) domain.Consultation {
	c.Requester = nil
	c.Dietician = nil
	if c.DieticianID != nil {
		id := *c.DieticianID
		c.DieticianID = &id
	}
	return c
}

type articles struct{ s *Store }

func (r *articles) Create(_ context.Context, a *domain.Article) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.slugTaken(a) {
		return &repository.DuplicateError{Constraint: "articles_slug_key"}
	}
	a.ID = uuid.NewString()
	a.CreatedAt = r.s.tick()
	a.UpdatedAt = a.CreatedAt
	r.s.articles[a.ID] = *a
	return nil
}

func (r *articles) Update(_ context.Context, a *domain.Article) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.articles[a.ID]; !ok {
		return pgx.ErrNoRows
	}
	if r.slugTaken(a) {
		return &repository.DuplicateError{Constraint: "articles_slug_key"}
	}
	a.UpdatedAt = r.s.tick()
	r.s.articles[a.ID] = *a
	return nil
}

func (r *articles) slugTaken(a *domain.Article) bool {
	for id, existing := range r.s.articles {
		if id != a.ID && existing.Slug == a.Slug {
			return true
		}
	}
	return false
}

func (r *articles) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.articles[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.s.articles, id)
	return nil
}

func (r *articles) GetByID(_ context.Context, id string) (*domain.Article, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.articles[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &a, nil
}

func (r *articles) List(_ context.Context, filter repository.ArticleFilter) ([]domain.Article, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return page(r.filtered(filter), filter.Limit, filter.Offset), nil
}

func (r *articles) Count(_ context.Context, filter repository.ArticleFilter) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return len(r.filtered(filter)), nil
}

func (r *articles) Latest(_ context.Context, limit int) ([]domain.Article, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return page(r.filtered(repository.ArticleFilter{PublishedOnly: true}), limit, 0), nil
}

// filtered approximates the full-text search with a case-insensitive substring match.
func (r *articles) filtered(filter repository.ArticleFilter) []domain.Article {
	search := strings.ToLower(filter.Search)
	var out []domain.Article
	for _, a := range r.s.articles {
		if filter.PublishedOnly && !a.Published {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(a.Title+" "+a.Excerpt+" "+a.Body), search) {
			continue
		}
		if filter.Tag != "" && !hasTag(a.Tags, filter.Tag) {
			continue
		}
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func hasTag(tags []string, tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return nil
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
