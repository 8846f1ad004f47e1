package policy

import (
	"context"
	"time"

	"github.com/spec-kit/wellness-service/internal/domain"
	apperrors "github.com/spec-kit/wellness-service/pkg/util"
)

// SlotFinder looks up the consultation holding a time slot.
type SlotFinder interface {
	// FindActiveAt returns the consultation scheduled exactly at `at` whose status is
	// one of statuses, skipping excludeID. It returns nil, nil when there is none.
	FindActiveAt(ctx context.Context, at time.Time, statuses []domain.ConsultationStatus, excludeID string) (*domain.Consultation, error)
}

// CheckSlotConflict fails with Conflict when a pending or confirmed consultation
// already occupies at.
func CheckSlotConflict(ctx context.Context, finder SlotFinder, at time.Time, excludeID string) error {
	existing, err := finder.FindActiveAt(ctx, domain.NormalizeSlot(at), domain.SlotHoldingStatuses, excludeID)
	if err != nil {
		return err
	}
	if existing != nil {
		return apperrors.NewConflict("this time slot is already booked, please choose another time", map[string]any{
			"date": domain.NormalizeSlot(at).Format(time.RFC3339Nano),
		})
	}
	return nil
}

// AuthorizeConsultationRead permits the owner and privileged roles.
func AuthorizeConsultationRead(caller domain.Caller, c *domain.Consultation) error {
	if c != nil && (c.UserID == caller.ID || caller.Role.Privileged()) {
		return nil
	}
	return apperrors.NewForbidden("not authorized to access this consultation")
}

// AuthorizeConsultationUpdate checks patch against the caller's role.
//
// Privileged roles may set any field. A plain user may only cancel a
// consultation they own.
func AuthorizeConsultationUpdate(caller domain.Caller, c *domain.Consultation, patch domain.ConsultationPatch) error {
	if c == nil {
		return apperrors.NewForbidden("not authorized to update this consultation")
	}
	if caller.Role.Privileged() {
		return nil
	}
	if caller.Role != domain.RoleUser || c.UserID != caller.ID {
		return apperrors.NewForbidden("not authorized to update this consultation")
	}
	if patch.Notes != nil || patch.DieticianID != nil || patch.ScheduledAt != nil {
		return apperrors.NewForbidden("users can only cancel consultations")
	}
	if patch.Status != nil && *patch.Status != domain.ConsultationCancelled {
		return apperrors.NewForbidden("users can only cancel consultations")
	}
	return nil
}

// AuthorizeConsultationDelete permits the owner and admins. A dietician who
// does not own the consultation is denied.
func AuthorizeConsultationDelete(caller domain.Caller, c *domain.Consultation) error {
	if c != nil && (c.UserID == caller.ID || caller.Role == domain.RoleAdmin) {
		return nil
	}
	return apperrors.NewForbidden("not authorized to delete this consultation")
}

// ApplyConsultationUpdate returns c with the present fields of patch applied.
// The dietician assignment is only taken from privileged callers.
func ApplyConsultationUpdate(c domain.Consultation, patch domain.ConsultationPatch, caller domain.Caller) domain.Consultation {
	if patch.Status != nil {
		c.Status = *patch.Status
	}
	if patch.Notes != nil {
		c.Notes = *patch.Notes
	}
	if patch.ScheduledAt != nil {
		c.ScheduledAt = domain.NormalizeSlot(*patch.ScheduledAt)
	}
	if patch.DieticianID != nil && caller.Role.Privileged() {
		id := *patch.DieticianID
		c.DieticianID = &id
		c.Dietician = nil
	}
	return c
}
