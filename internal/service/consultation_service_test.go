package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/wellness-service/internal/domain"
	"github.com/spec-kit/wellness-service/internal/events"
	"github.com/spec-kit/wellness-service/internal/persistence"
	"github.com/spec-kit/wellness-service/internal/repository/repotest"
	apperrors "github.com/spec-kit/wellness-service/pkg/util"
)

type slotLockerFunc func(ctx context.Context, at time.Time) (func(), error)

func (f slotLockerFunc) Acquire(ctx context.Context, at time.Time) (func(), error) {
	return f(ctx, at)
}

type consultationFixture struct {
	store     *repotest.Store
	svc       *ConsultationService
	rec       *recorder
	owner     domain.Caller
	other     domain.Caller
	admin     domain.Caller
	dietician domain.Caller
	slot      time.Time
}

func newConsultationFixture(t *testing.T) *consultationFixture {
	t.Helper()
	store := repotest.NewStore()
	dispatcher, rec := newRecorder(
		events.EventConsultationBooked,
		events.EventConsultationStatusChanged,
		events.EventConsultationDieticianAssigned,
		events.EventConsultationDeleted,
	)
	f := &consultationFixture{
		store:     store,
		rec:       rec,
		owner:     seedUser(t, store, "owner", domain.RoleUser),
		other:     seedUser(t, store, "other", domain.RoleUser),
		admin:     seedUser(t, store, "admin", domain.RoleAdmin),
		dietician: seedUser(t, store, "sarah", domain.RoleDietician),
		slot:      time.Now().Add(72 * time.Hour).Truncate(time.Hour).UTC(),
	}
	f.svc = NewConsultationService(ConsultationDependencies{
		ConsultationRepo: store.Consultations(),
		UserRepo:         store.Users(),
		Dispatcher:       dispatcher,
	})
	return f
}

func (f *consultationFixture) book(t *testing.T, caller domain.Caller, at time.Time) *domain.Consultation {
	t.Helper()
	c, err := f.svc.Book(context.Background(), caller, BookInput{ScheduledAt: &at, Type: domain.ConsultationFollowUp})
	require.NoError(t, err)
	return c
}

func TestConsultationService_BookSlotConflicts(t *testing.T) {
	ctx := context.Background()
	f := newConsultationFixture(t)

	first := f.book(t, f.owner, f.slot)
	assert.Equal(t, domain.ConsultationPending, first.Status)
	require.NotNil(t, first.Requester)
	assert.Equal(t, "owner", first.Requester.Name)

	_, err := f.svc.Book(ctx, f.other, BookInput{ScheduledAt: ptr(f.slot.Add(300 * time.Microsecond)), Type: domain.ConsultationOther})
	requireCode(t, err, apperrors.CodeConflict)

	_, err = f.svc.Update(ctx, f.owner, first.ID, domain.ConsultationPatch{Status: ptr(domain.ConsultationCancelled)})
	require.NoError(t, err)

	second := f.book(t, f.other, f.slot)
	assert.Equal(t, domain.ConsultationPending, second.Status)
	assert.Equal(t, []events.EventType{
		events.EventConsultationBooked,
		events.EventConsultationStatusChanged,
		events.EventConsultationBooked,
	}, f.rec.types())
}

func TestConsultationService_BookValidation(t *testing.T) {
	f := newConsultationFixture(t)
	past := time.Now().Add(-time.Hour)
	longNotes := string(make([]rune, domain.MaxConsultationNotes+1))

	tests := []struct {
		name  string
		in    BookInput
		field string
	}{
		{name: "missing date", in: BookInput{}, field: "date"},
		{name: "past date", in: BookInput{ScheduledAt: &past}, field: "date"},
		{name: "missing type", in: BookInput{ScheduledAt: &f.slot}, field: "type"},
		{name: "unknown type", in: BookInput{ScheduledAt: &f.slot, Type: "Massage"}, field: "type"},
		{name: "notes too long", in: BookInput{ScheduledAt: &f.slot, Notes: longNotes}, field: "notes"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Book(context.Background(), f.owner, tt.in)
			requireCode(t, err, apperrors.CodeValidation)
			assert.Contains(t, apperrors.ToDomainError(err).Details, tt.field)
		})
	}
}

func TestConsultationService_BookKeepsType(t *testing.T) {
	f := newConsultationFixture(t)
	c, err := f.svc.Book(context.Background(), f.owner, BookInput{ScheduledAt: &f.slot, Type: domain.ConsultationSportsNutrition})
	require.NoError(t, err)
	assert.Equal(t, domain.ConsultationSportsNutrition, c.Type)
	assert.Equal(t, domain.ConsultationPending, c.Status)
}

func TestConsultationService_BookWhileSlotHeld(t *testing.T) {
	f := newConsultationFixture(t)
	released := false
	f.svc.slots = slotLockerFunc(func(context.Context, time.Time) (func(), error) {
		return nil, persistence.ErrSlotHeld
	})

	_, err := f.svc.Book(context.Background(), f.owner, BookInput{ScheduledAt: &f.slot, Type: domain.ConsultationInitial})
	requireCode(t, err, apperrors.CodeConflict)

	f.svc.slots = slotLockerFunc(func(_ context.Context, at time.Time) (func(), error) {
		assert.True(t, at.Equal(f.slot))
		return func() { released = true }, nil
	})
	f.book(t, f.owner, f.slot)
	assert.True(t, released)
}

func TestConsultationService_PlainUserMayOnlyCancel(t *testing.T) {
	ctx := context.Background()
	f := newConsultationFixture(t)
	c := f.book(t, f.owner, f.slot)

	tests := []struct {
		name  string
		patch domain.ConsultationPatch
	}{
		{name: "confirm", patch: domain.ConsultationPatch{Status: ptr(domain.ConsultationConfirmed)}},
		{name: "notes", patch: domain.ConsultationPatch{Notes: ptr("bring food diary")}},
		{name: "dietician", patch: domain.ConsultationPatch{DieticianID: ptr(f.dietician.ID)}},
		{name: "reschedule", patch: domain.ConsultationPatch{ScheduledAt: ptr(f.slot.Add(time.Hour))}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Update(ctx, f.owner, c.ID, tt.patch)
			requireCode(t, err, apperrors.CodeForbidden)
		})
	}

	_, err := f.svc.Update(ctx, f.other, c.ID, domain.ConsultationPatch{Status: ptr(domain.ConsultationCancelled)})
	requireCode(t, err, apperrors.CodeForbidden)

	cancelled, err := f.svc.Update(ctx, f.owner, c.ID, domain.ConsultationPatch{Status: ptr(domain.ConsultationCancelled)})
	require.NoError(t, err)
	assert.Equal(t, domain.ConsultationCancelled, cancelled.Status)
}

func TestConsultationService_AdminAssignsDietician(t *testing.T) {
	ctx := context.Background()
	f := newConsultationFixture(t)
	c := f.book(t, f.owner, f.slot)

	updated, err := f.svc.Update(ctx, f.admin, c.ID, domain.ConsultationPatch{
		DieticianID: ptr(f.dietician.ID),
		Status:      ptr(domain.ConsultationConfirmed),
		Notes:       ptr("confirmed by phone"),
	})
	require.NoError(t, err)
	require.NotNil(t, updated.Dietician)
	assert.Equal(t, "sarah", updated.Dietician.Name)
	assert.Equal(t, domain.ConsultationConfirmed, updated.Status)
	assert.Equal(t, "confirmed by phone", updated.Notes)
	assert.Contains(t, f.rec.types(), events.EventConsultationDieticianAssigned)

	_, err = f.svc.Update(ctx, f.admin, c.ID, domain.ConsultationPatch{DieticianID: ptr(f.other.ID)})
	requireCode(t, err, apperrors.CodeValidation)

	_, err = f.svc.Update(ctx, f.admin, c.ID, domain.ConsultationPatch{DieticianID: ptr("not-a-uuid")})
	requireCode(t, err, apperrors.CodeValidation)

	cleared, err := f.svc.Update(ctx, f.admin, c.ID, domain.ConsultationPatch{DieticianID: ptr("")})
	require.NoError(t, err)
	assert.Nil(t, cleared.DieticianID)
	assert.Nil(t, cleared.Dietician)
}

func TestConsultationService_RescheduleChecksSlot(t *testing.T) {
	ctx := context.Background()
	f := newConsultationFixture(t)
	first := f.book(t, f.owner, f.slot)
	second := f.book(t, f.other, f.slot.Add(time.Hour))

	_, err := f.svc.Update(ctx, f.dietician, second.ID, domain.ConsultationPatch{ScheduledAt: ptr(f.slot)})
	requireCode(t, err, apperrors.CodeConflict)

	same, err := f.svc.Update(ctx, f.dietician, first.ID, domain.ConsultationPatch{ScheduledAt: ptr(f.slot), Notes: ptr("same time")})
	require.NoError(t, err)
	assert.True(t, same.ScheduledAt.Equal(f.slot))

	_, err = f.svc.Update(ctx, f.owner, first.ID, domain.ConsultationPatch{Status: ptr(domain.ConsultationCancelled)})
	require.NoError(t, err)
	f.book(t, f.other, f.slot)

	_, err = f.svc.Update(ctx, f.admin, first.ID, domain.ConsultationPatch{Status: ptr(domain.ConsultationPending)})
	requireCode(t, err, apperrors.CodeConflict)

	completed, err := f.svc.Update(ctx, f.admin, first.ID, domain.ConsultationPatch{Status: ptr(domain.ConsultationCompleted)})
	require.NoError(t, err)
	assert.Equal(t, domain.ConsultationCompleted, completed.Status)
}

func TestConsultationService_ReadAndDelete(t *testing.T) {
	ctx := context.Background()
	f := newConsultationFixture(t)
	c := f.book(t, f.owner, f.slot)

	_, err := f.svc.Get(ctx, f.other, c.ID)
	requireCode(t, err, apperrors.CodeForbidden)

	got, err := f.svc.Get(ctx, f.dietician, c.ID)
	require.NoError(t, err)
	assert.Equal(t, c.ID, got.ID)

	_, err = f.svc.Get(ctx, f.owner, "bogus")
	requireCode(t, err, apperrors.CodeNotFound)

	err = f.svc.Delete(ctx, f.dietician, c.ID)
	requireCode(t, err, apperrors.CodeForbidden)

	require.NoError(t, f.svc.Delete(ctx, f.admin, c.ID))
	assert.Contains(t, f.rec.types(), events.EventConsultationDeleted)

	err = f.svc.Delete(ctx, f.owner, c.ID)
	requireCode(t, err, apperrors.CodeNotFound)
}

func TestConsultationService_Listings(t *testing.T) {
	ctx := context.Background()
	f := newConsultationFixture(t)
	for i := 0; i < 3; i++ {
		f.book(t, f.owner, f.slot.Add(time.Duration(i)*time.Hour))
	}
	f.book(t, f.other, f.slot.Add(5*time.Hour))

	mine, err := f.svc.ListMine(ctx, f.owner)
	require.NoError(t, err)
	require.Len(t, mine, 3)
	assert.True(t, mine[0].ScheduledAt.After(mine[2].ScheduledAt), "latest date first")

	_, err = f.svc.ListAll(ctx, f.owner, ConsultationListInput{})
	requireCode(t, err, apperrors.CodeForbidden)

	page, err := f.svc.ListAll(ctx, f.dietician, ConsultationListInput{Page: 2, Limit: 3})
	require.NoError(t, err)
	assert.Len(t, page.Items, 1)
	assert.Equal(t, Pagination{Page: 2, Limit: 3, Total: 4, Pages: 2}, page.Pagination)

	cancelled := domain.ConsultationCancelled
	none, err := f.svc.ListAll(ctx, f.admin, ConsultationListInput{Status: &cancelled})
	require.NoError(t, err)
	assert.Empty(t, none.Items)
	assert.Zero(t, none.Pagination.Total)
}
