package policy

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/wellness-service/internal/domain"
	apperrors "github.com/spec-kit/wellness-service/pkg/util"
)

var (
	owner     = domain.Caller{ID: "owner", Role: domain.RoleUser}
	stranger  = domain.Caller{ID: "stranger", Role: domain.RoleUser}
	dietician = domain.Caller{ID: "diet", Role: domain.RoleDietician}
	admin     = domain.Caller{ID: "admin", Role: domain.RoleAdmin}
)

func pendingConsultation() domain.Consultation {
	return domain.Consultation{
		ID:          "c-1",
		UserID:      "owner",
		ScheduledAt: time.Date(2030, 3, 1, 9, 0, 0, 0, time.UTC),
		Type:        domain.ConsultationInitial,
		Status:      domain.ConsultationPending,
	}
}

type slotFinderFunc func(ctx context.Context, at time.Time, statuses []domain.ConsultationStatus, excludeID string) (*domain.Consultation, error)

func (f slotFinderFunc) FindActiveAt(ctx context.Context, at time.Time, statuses []domain.ConsultationStatus, excludeID string) (*domain.Consultation, error) {
	return f(ctx, at, statuses, excludeID)
}

// storeFinder mimics the repository query over a fixed set of consultations.
func storeFinder(existing ...domain.Consultation) SlotFinder {
	return slotFinderFunc(func(_ context.Context, at time.Time, statuses []domain.ConsultationStatus, excludeID string) (*domain.Consultation, error) {
		for i := range existing {
			c := existing[i]
			if c.ID == excludeID || !c.ScheduledAt.Equal(at) {
				continue
			}
			for _, s := range statuses {
				if c.Status == s {
					return &c, nil
				}
			}
		}
		return nil, nil
	})
}

func TestCheckSlotConflict(t *testing.T) {
	slot := time.Date(2030, 3, 1, 9, 0, 0, 0, time.UTC)
	ctx := context.Background()

	pending := pendingConsultation()
	confirmed := pendingConsultation()
	confirmed.ID, confirmed.Status = "c-2", domain.ConsultationConfirmed
	cancelled := pendingConsultation()
	cancelled.ID, cancelled.Status = "c-3", domain.ConsultationCancelled
	completed := pendingConsultation()
	completed.ID, completed.Status = "c-4", domain.ConsultationCompleted

	err := CheckSlotConflict(ctx, storeFinder(pending), slot, "")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeConflict))

	err = CheckSlotConflict(ctx, storeFinder(confirmed), slot, "")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeConflict))

	assert.NoError(t, CheckSlotConflict(ctx, storeFinder(cancelled), slot, ""))
	assert.NoError(t, CheckSlotConflict(ctx, storeFinder(completed), slot, ""))
	assert.NoError(t, CheckSlotConflict(ctx, storeFinder(pending), slot.Add(time.Minute), ""))
	assert.NoError(t, CheckSlotConflict(ctx, storeFinder(pending), slot, pending.ID))
}

func TestCheckSlotConflict_NormalizesAndPropagatesErrors(t *testing.T) {
	var seen time.Time
	var seenStatuses []domain.ConsultationStatus
	boom := errors.New("db down")
	finder := slotFinderFunc(func(_ context.Context, at time.Time, statuses []domain.ConsultationStatus, _ string) (*domain.Consultation, error) {
		seen, seenStatuses = at, statuses
		return nil, boom
	})

	at := time.Date(2030, 3, 1, 10, 0, 0, 999999, time.FixedZone("X", 7200))
	err := CheckSlotConflict(context.Background(), finder, at, "")

	require.ErrorIs(t, err, boom)
	assert.Equal(t, time.UTC, seen.Location())
	assert.Zero(t, seen.Nanosecond())
	assert.Equal(t, []domain.ConsultationStatus{domain.ConsultationPending, domain.ConsultationConfirmed}, seenStatuses)
}

func TestAuthorizeConsultationRead(t *testing.T) {
	c := pendingConsultation()

	assert.NoError(t, AuthorizeConsultationRead(owner, &c))
	assert.NoError(t, AuthorizeConsultationRead(dietician, &c))
	assert.NoError(t, AuthorizeConsultationRead(admin, &c))
	assert.True(t, apperrors.HasCode(AuthorizeConsultationRead(stranger, &c), apperrors.CodeForbidden))
}

func TestAuthorizeConsultationUpdate_PlainUser(t *testing.T) {
	c := pendingConsultation()
	notes := "please call"
	diet := "diet"
	later := c.ScheduledAt.Add(time.Hour)

	tests := []struct {
		name    string
		caller  domain.Caller
		patch   domain.ConsultationPatch
		allowed bool
	}{
		{name: "owner cancels", caller: owner, patch: domain.ConsultationPatch{Status: ptr(domain.ConsultationCancelled)}, allowed: true},
		{name: "owner confirms", caller: owner, patch: domain.ConsultationPatch{Status: ptr(domain.ConsultationConfirmed)}},
		{name: "owner completes", caller: owner, patch: domain.ConsultationPatch{Status: ptr(domain.ConsultationCompleted)}},
		{name: "owner edits notes", caller: owner, patch: domain.ConsultationPatch{Notes: &notes}},
		{name: "owner assigns dietician", caller: owner, patch: domain.ConsultationPatch{DieticianID: &diet}},
		{name: "owner reschedules", caller: owner, patch: domain.ConsultationPatch{ScheduledAt: &later}},
		{name: "owner cancels and edits notes", caller: owner, patch: domain.ConsultationPatch{Status: ptr(domain.ConsultationCancelled), Notes: &notes}},
		{name: "stranger cancels", caller: stranger, patch: domain.ConsultationPatch{Status: ptr(domain.ConsultationCancelled)}},
		{name: "owner empty patch", caller: owner, patch: domain.ConsultationPatch{}, allowed: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := AuthorizeConsultationUpdate(tt.caller, &c, tt.patch)
			if tt.allowed {
				assert.NoError(t, err)
				return
			}
			assert.True(t, apperrors.HasCode(err, apperrors.CodeForbidden), "got %v", err)
		})
	}
}

func TestAuthorizeConsultationUpdate_Privileged(t *testing.T) {
	c := pendingConsultation()
	diet := "diet"
	notes := "bring food diary"

	for _, caller := range []domain.Caller{admin, dietician} {
		for _, status := range []domain.ConsultationStatus{domain.ConsultationPending, domain.ConsultationConfirmed, domain.ConsultationCompleted, domain.ConsultationCancelled} {
			patch := domain.ConsultationPatch{Status: ptr(status), DieticianID: &diet, Notes: &notes}
			assert.NoError(t, AuthorizeConsultationUpdate(caller, &c, patch), "%s -> %s", caller.Role, status)
		}
	}
}

func TestAuthorizeConsultationDelete(t *testing.T) {
	c := pendingConsultation()

	assert.NoError(t, AuthorizeConsultationDelete(owner, &c))
	assert.NoError(t, AuthorizeConsultationDelete(admin, &c))
	assert.True(t, apperrors.HasCode(AuthorizeConsultationDelete(dietician, &c), apperrors.CodeForbidden))
	assert.True(t, apperrors.HasCode(AuthorizeConsultationDelete(stranger, &c), apperrors.CodeForbidden))

	ownDietician := domain.Caller{ID: c.UserID, Role: domain.RoleDietician}
	assert.NoError(t, AuthorizeConsultationDelete(ownDietician, &c))
}

func TestApplyConsultationUpdate(t *testing.T) {
	c := pendingConsultation()
	diet := "diet"
	notes := "updated"
	later := time.Date(2030, 3, 1, 11, 0, 0, 500, time.UTC)

	got := ApplyConsultationUpdate(c, domain.ConsultationPatch{
		Status:      ptr(domain.ConsultationConfirmed),
		DieticianID: &diet,
		Notes:       &notes,
		ScheduledAt: &later,
	}, admin)

	assert.Equal(t, domain.ConsultationConfirmed, got.Status)
	require.NotNil(t, got.DieticianID)
	assert.Equal(t, "diet", *got.DieticianID)
	assert.Equal(t, "updated", got.Notes)
	assert.Equal(t, domain.NormalizeSlot(later), got.ScheduledAt)
	assert.Equal(t, domain.ConsultationPending, c.Status)
}

func TestApplyConsultationUpdate_UserNeverSetsDietician(t *testing.T) {
	c := pendingConsultation()
	diet := "diet"

	got := ApplyConsultationUpdate(c, domain.ConsultationPatch{DieticianID: &diet, Status: ptr(domain.ConsultationCancelled)}, owner)

	assert.Nil(t, got.DieticianID)
	assert.Equal(t, domain.ConsultationCancelled, got.Status)
}

func TestApplyConsultationUpdate_LeavesAbsentFields(t *testing.T) {
	c := pendingConsultation()
	c.Notes = "original"

	got := ApplyConsultationUpdate(c, domain.ConsultationPatch{Status: ptr(domain.ConsultationCancelled)}, owner)

	assert.Equal(t, "original", got.Notes)
	assert.Equal(t, c.ScheduledAt, got.ScheduledAt)
	assert.Equal(t, c.Type, got.Type)
}
