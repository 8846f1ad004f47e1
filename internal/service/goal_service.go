package service

import (
	"context"
	"strings"
	"time"

	"github.com/spec-kit/wellness-service/internal/domain"
	"github.com/spec-kit/wellness-service/internal/events"
	"github.com/spec-kit/wellness-service/internal/policy"
	"github.com/spec-kit/wellness-service/internal/repository"
	apperrors "github.com/spec-kit/wellness-service/pkg/util"
)

const maxGoalTitle = 100

// GoalService coordinates goal tracking for the goal owner.
type GoalService struct {
	goals      repository.GoalRepository
	dispatcher events.Dispatcher
	now        func() time.Time
}

// GoalCreateInput describes goal creation payload.
type GoalCreateInput struct {
	Type      domain.GoalType
	Title     string
	Target    float64
	Unit      string
	Current   *float64
	StartDate *time.Time
	EndDate   *time.Time
}

// NewGoalService constructs the service.
func NewGoalService(goals repository.GoalRepository, dispatcher events.Dispatcher) *GoalService {
	return &GoalService{goals: goals, dispatcher: dispatcher, now: time.Now}
}

// Create starts a new active goal owned by the caller.
func (s *GoalService) Create(ctx context.Context, caller domain.Caller, in GoalCreateInput) (*domain.Goal, error) {
	now := s.now().UTC()
	title := strings.TrimSpace(in.Title)
	start := now
	if in.StartDate != nil {
		start = in.StartDate.UTC()
	}
	current := 0.0
	if in.Current != nil {
		current = *in.Current
	}

	errs := fieldErrors{}
	if !in.Type.Valid() {
		errs.add("type", "invalid goal type")
	}
	if in.Type == domain.GoalTypeCustom && title == "" {
		errs.add("title", "title is required for custom goals")
	}
	if runeLen(title) > maxGoalTitle {
		errs.add("title", "title cannot exceed 100 characters")
	}
	if in.Target <= 0 {
		errs.add("target", "target must be a positive number")
	}
	if strings.TrimSpace(in.Unit) == "" {
		errs.add("unit", "unit is required")
	}
	if current < 0 {
		errs.add("current", "current cannot be negative")
	}
	if in.EndDate == nil {
		errs.add("endDate", "end date is required")
	} else if !in.EndDate.After(start) {
		errs.add("endDate", "end date must be after start date")
	}
	if err := errs.err(); err != nil {
		return nil, err
	}

	if title == "" {
		title = policy.DefaultGoalTitle(in.Type)
	}

	goal := &domain.Goal{
		UserID:          caller.ID,
		Type:            in.Type,
		Title:           title,
		Target:          in.Target,
		Unit:            strings.TrimSpace(in.Unit),
		Current:         current,
		StartDate:       start,
		EndDate:         in.EndDate.UTC(),
		Status:          domain.GoalStatusActive,
		ProgressHistory: []domain.ProgressEntry{},
	}
	if err := s.goals.Create(ctx, goal); err != nil {
		return nil, err
	}
	return goal, nil
}

// List returns the caller's goals, newest first.
func (s *GoalService) List(ctx context.Context, caller domain.Caller, filter repository.GoalFilter) ([]domain.Goal, error) {
	errs := fieldErrors{}
	if filter.Status != nil && !filter.Status.Valid() {
		errs.add("status", "invalid goal status")
	}
	if filter.Type != nil && !filter.Type.Valid() {
		errs.add("type", "invalid goal type")
	}
	if err := errs.err(); err != nil {
		return nil, err
	}
	return s.goals.ListByUser(ctx, caller.ID, filter)
}

// Get returns one goal owned by the caller.
func (s *GoalService) Get(ctx context.Context, caller domain.Caller, id string) (*domain.Goal, error) {
	goal, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := policy.AuthorizeGoalRead(caller.ID, goal); err != nil {
		return nil, err
	}
	return goal, nil
}

// Update applies a partial update, recording progress and completing the goal
// when current reaches target.
func (s *GoalService) Update(ctx context.Context, caller domain.Caller, id string, patch domain.GoalPatch) (*domain.Goal, error) {
	goal, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := policy.AuthorizeGoalMutate(caller.ID, goal); err != nil {
		return nil, err
	}

	errs := fieldErrors{}
	if patch.Current != nil && *patch.Current < 0 {
		errs.add("current", "current cannot be negative")
	}
	if patch.Target != nil && *patch.Target <= 0 {
		errs.add("target", "target must be a positive number")
	}
	if patch.Status != nil && !patch.Status.Valid() {
		errs.add("status", "invalid goal status")
	}
	if err := errs.err(); err != nil {
		return nil, err
	}

	updated := policy.ApplyGoalUpdate(*goal, patch, s.now().UTC())
	if err := s.goals.Update(ctx, &updated); err != nil {
		return nil, err
	}

	if len(updated.ProgressHistory) > len(goal.ProgressHistory) {
		s.publish(ctx, events.New(events.EventGoalProgressRecorded, updated.ID, caller.ID, events.GoalProgressPayload{
			UserID:   updated.UserID,
			Type:     updated.Type,
			Previous: goal.Current,
			Current:  updated.Current,
			Target:   updated.Target,
		}))
	}
	if updated.Status == domain.GoalStatusCompleted && goal.Status != domain.GoalStatusCompleted {
		s.publish(ctx, events.New(events.EventGoalCompleted, updated.ID, caller.ID, events.GoalCompletedPayload{
			UserID: updated.UserID,
			Title:  updated.Title,
		}))
	}
	return &updated, nil
}

// Delete removes a goal owned by the caller.
func (s *GoalService) Delete(ctx context.Context, caller domain.Caller, id string) error {
	goal, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if err := policy.AuthorizeGoalMutate(caller.ID, goal); err != nil {
		return err
	}
	if err := s.goals.Delete(ctx, goal.ID); err != nil {
		if apperrors.IsNotFound(err) {
			return apperrors.NewNotFound("goal", nil)
		}
		return err
	}
	return nil
}

// Stats summarizes the caller's goals by status and type.
func (s *GoalService) Stats(ctx context.Context, caller domain.Caller) (domain.GoalStats, error) {
	goals, err := s.goals.ListByUser(ctx, caller.ID, repository.GoalFilter{})
	if err != nil {
		return domain.GoalStats{}, err
	}

	stats := domain.GoalStats{Total: len(goals), ByType: make(map[domain.GoalType]int)}
	for _, goal := range goals {
		switch goal.Status {
		case domain.GoalStatusActive:
			stats.Active++
		case domain.GoalStatusCompleted:
			stats.Completed++
		case domain.GoalStatusPaused:
			stats.Paused++
		}
		stats.ByType[goal.Type]++
	}
	return stats, nil
}

func (s *GoalService) load(ctx context.Context, id string) (*domain.Goal, error) {
	if !validID(id) {
		return nil, apperrors.NewNotFound("goal", nil)
	}
	goal, err := s.goals.GetByID(ctx, id)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.NewNotFound("goal", nil)
		}
		return nil, err
	}
	return goal, nil
}

func (s *GoalService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, event)
}
