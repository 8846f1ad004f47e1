package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/wellness-service/internal/domain"
	"github.com/spec-kit/wellness-service/internal/events"
	"github.com/spec-kit/wellness-service/internal/persistence"
	"github.com/spec-kit/wellness-service/internal/policy"
	"github.com/spec-kit/wellness-service/internal/repository"
	apperrors "github.com/spec-kit/wellness-service/pkg/util"
)

const slotTakenMessage = "this time slot is already booked, please choose another time"

// SlotLocker holds a consultation instant while a booking is written.
type SlotLocker interface {
	Acquire(ctx context.Context, at time.Time) (func(), error)
}

// ConsultationService coordinates consultation booking and review.
type ConsultationService struct {
	consultations repository.ConsultationRepository
	users         repository.UserRepository
	slots         SlotLocker
	dispatcher    events.Dispatcher
	logger        *zap.Logger
	now           func() time.Time
}

// ConsultationDependencies bundles collaborators for the consultation service.
type ConsultationDependencies struct {
	ConsultationRepo repository.ConsultationRepository
	UserRepo         repository.UserRepository
	Slots            SlotLocker
	Dispatcher       events.Dispatcher
	Logger           *zap.Logger
}

// BookInput describes a booking request.
type BookInput struct {
	ScheduledAt *time.Time
	Type        domain.ConsultationType
	Notes       string
}

// ConsultationListInput describes the staff listing filters.
type ConsultationListInput struct {
	Status *domain.ConsultationStatus
	Page   int
	Limit  int
}

// ConsultationPage is one page of consultations.
type ConsultationPage struct {
	Items      []domain.Consultation
	Pagination Pagination
}

// NewConsultationService constructs the service.
func NewConsultationService(deps ConsultationDependencies) *ConsultationService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConsultationService{
		consultations: deps.ConsultationRepo,
		users:         deps.UserRepo,
		slots:         deps.Slots,
		dispatcher:    deps.Dispatcher,
		logger:        logger,
		now:           time.Now,
	}
}

// Book creates a pending consultation for the caller if the slot is free.
func (s *ConsultationService) Book(ctx context.Context, caller domain.Caller, in BookInput) (*domain.Consultation, error) {
	consultationType := in.Type

	errs := fieldErrors{}
	if in.ScheduledAt == nil || in.ScheduledAt.IsZero() {
		errs.add("date", "date is required")
	} else if !in.ScheduledAt.After(s.now()) {
		errs.add("date", "date must be in the future")
	}
	switch {
	case consultationType == "":
		errs.add("type", "type is required")
	case !consultationType.Valid():
		errs.add("type", "invalid consultation type")
	}
	if runeLen(in.Notes) > domain.MaxConsultationNotes {
		errs.add("notes", "notes cannot exceed 500 characters")
	}
	if err := errs.err(); err != nil {
		return nil, err
	}

	at := domain.NormalizeSlot(*in.ScheduledAt)
	release, err := s.holdSlot(ctx, at)
	if err != nil {
		return nil, err
	}
	defer release()

	if err := policy.CheckSlotConflict(ctx, s.consultations, at, ""); err != nil {
		return nil, err
	}

	consultation := &domain.Consultation{
		UserID:      caller.ID,
		ScheduledAt: at,
		Type:        consultationType,
		Notes:       in.Notes,
		Status:      domain.ConsultationPending,
	}
	if err := s.consultations.Create(ctx, consultation); err != nil {
		return nil, s.mapWriteError(err, at)
	}

	created, err := s.consultations.GetByID(ctx, consultation.ID)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.New(events.EventConsultationBooked, created.ID, caller.ID, events.ConsultationBookedPayload{
		UserID:      created.UserID,
		ScheduledAt: created.ScheduledAt,
		Type:        created.Type,
	}))
	return created, nil
}

// ListMine returns the caller's consultations, latest date first.
func (s *ConsultationService) ListMine(ctx context.Context, caller domain.Caller) ([]domain.Consultation, error) {
	return s.consultations.ListByUser(ctx, caller.ID)
}

// ListAll pages through every consultation. Privileged roles only.
func (s *ConsultationService) ListAll(ctx context.Context, caller domain.Caller, in ConsultationListInput) (*ConsultationPage, error) {
	if !caller.Role.Privileged() {
		return nil, apperrors.NewForbidden("not authorized to list consultations")
	}
	if in.Status != nil && !in.Status.Valid() {
		return nil, apperrors.NewValidationError("validation failed", map[string]any{"status": "invalid consultation status"})
	}

	page, limit := normalizePage(in.Page, in.Limit, 10)
	filter := repository.ConsultationFilter{Status: in.Status, Limit: limit, Offset: (page - 1) * limit}

	items, err := s.consultations.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.consultations.Count(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &ConsultationPage{Items: items, Pagination: newPagination(page, limit, total)}, nil
}

// Get returns one consultation visible to the caller.
func (s *ConsultationService) Get(ctx context.Context, caller domain.Caller, id string) (*domain.Consultation, error) {
	consultation, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := policy.AuthorizeConsultationRead(caller, consultation); err != nil {
		return nil, err
	}
	return consultation, nil
}

// Update applies patch under the caller's role rules.
func (s *ConsultationService) Update(ctx context.Context, caller domain.Caller, id string, patch domain.ConsultationPatch) (*domain.Consultation, error) {
	current, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := policy.AuthorizeConsultationUpdate(caller, current, patch); err != nil {
		return nil, err
	}

	errs := fieldErrors{}
	if patch.Status != nil && !patch.Status.Valid() {
		errs.add("status", "invalid consultation status")
	}
	if patch.Notes != nil && runeLen(*patch.Notes) > domain.MaxConsultationNotes {
		errs.add("notes", "notes cannot exceed 500 characters")
	}
	if patch.ScheduledAt != nil && patch.ScheduledAt.IsZero() {
		errs.add("date", "date is required")
	}
	if err := errs.err(); err != nil {
		return nil, err
	}
	if patch.Empty() {
		return current, nil
	}

	if patch.DieticianID != nil && *patch.DieticianID != "" {
		if err := s.checkDietician(ctx, *patch.DieticianID); err != nil {
			return nil, err
		}
	}

	updated := policy.ApplyConsultationUpdate(*current, patch, caller)
	if updated.DieticianID != nil && *updated.DieticianID == "" {
		updated.DieticianID = nil
	}

	rebooks := updated.Status.HoldsSlot() &&
		(!updated.ScheduledAt.Equal(current.ScheduledAt) || !current.Status.HoldsSlot())
	if rebooks {
		release, err := s.holdSlot(ctx, updated.ScheduledAt)
		if err != nil {
			return nil, err
		}
		defer release()
		if err := policy.CheckSlotConflict(ctx, s.consultations, updated.ScheduledAt, current.ID); err != nil {
			return nil, err
		}
	}

	if err := s.consultations.Update(ctx, &updated); err != nil {
		return nil, s.mapWriteError(err, updated.ScheduledAt)
	}

	result, err := s.consultations.GetByID(ctx, updated.ID)
	if err != nil {
		return nil, err
	}

	if result.Status != current.Status {
		s.publish(ctx, events.New(events.EventConsultationStatusChanged, result.ID, caller.ID, events.ConsultationStatusChangedPayload{
			UserID:    result.UserID,
			OldStatus: current.Status,
			NewStatus: result.Status,
		}))
	}
	if result.DieticianID != nil && !sameID(current.DieticianID, result.DieticianID) {
		s.publish(ctx, events.New(events.EventConsultationDieticianAssigned, result.ID, caller.ID, events.ConsultationDieticianAssignedPayload{
			UserID:      result.UserID,
			DieticianID: *result.DieticianID,
		}))
	}
	return result, nil
}

// Delete removes a consultation. Owners and admins only.
func (s *ConsultationService) Delete(ctx context.Context, caller domain.Caller, id string) error {
	consultation, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if err := policy.AuthorizeConsultationDelete(caller, consultation); err != nil {
		return err
	}
	if err := s.consultations.Delete(ctx, consultation.ID); err != nil {
		if apperrors.IsNotFound(err) {
			return apperrors.NewNotFound("consultation", nil)
		}
		return err
	}

	s.publish(ctx, events.New(events.EventConsultationDeleted, consultation.ID, caller.ID, events.ConsultationDeletedPayload{
		UserID:      consultation.UserID,
		ScheduledAt: consultation.ScheduledAt,
	}))
	return nil
}

func (s *ConsultationService) load(ctx context.Context, id string) (*domain.Consultation, error) {
	if !validID(id) {
		return nil, apperrors.NewNotFound("consultation", nil)
	}
	consultation, err := s.consultations.GetByID(ctx, id)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.NewNotFound("consultation", nil)
		}
		return nil, err
	}
	return consultation, nil
}

func (s *ConsultationService) checkDietician(ctx context.Context, id string) error {
	invalid := apperrors.NewValidationError("validation failed", map[string]any{
		"dietician": "dietician must reference a dietician or admin user",
	})
	if !validID(id) {
		return invalid
	}
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return invalid
		}
		return err
	}
	if !user.Role.Privileged() {
		return invalid
	}
	return nil
}

func (s *ConsultationService) holdSlot(ctx context.Context, at time.Time) (func(), error) {
	if s.slots == nil {
		return func() {}, nil
	}
	release, err := s.slots.Acquire(ctx, at)
	if err != nil {
		if errors.Is(err, persistence.ErrSlotHeld) {
			return nil, slotConflict(at)
		}
		return nil, err
	}
	return release, nil
}

func (s *ConsultationService) mapWriteError(err error, at time.Time) error {
	if _, dup := repository.AsDuplicate(err); dup {
		s.logger.Info("slot taken at write", zap.Time("scheduled_at", at))
		return slotConflict(at)
	}
	return err
}

func (s *ConsultationService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func slotConflict(at time.Time) error {
	return apperrors.NewConflict(slotTakenMessage, map[string]any{
		"date": domain.NormalizeSlot(at).Format(time.RFC3339Nano),
	})
}

func sameID(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
