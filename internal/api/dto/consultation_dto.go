package dto

import (
	"time"

	"github.com/spec-kit/wellness-service/internal/domain"
)

// BookConsultationRequest payload.
type BookConsultationRequest struct {
	Date  *FlexibleTime           `json:"date"`
	Type  domain.ConsultationType `json:"type"`
	Notes string                  `json:"notes"`
}

// UpdateConsultationRequest payload; absent fields are left untouched.
// An empty dietician string clears the assignment.
type UpdateConsultationRequest struct {
	Status    *domain.ConsultationStatus `json:"status"`
	Notes     *string                    `json:"notes"`
	Dietician *string                    `json:"dietician"`
	Date      *FlexibleTime              `json:"date"`
}

// Patch converts the request into a domain patch.
func (r UpdateConsultationRequest) Patch() domain.ConsultationPatch {
	return domain.ConsultationPatch{
		Status:      r.Status,
		Notes:       r.Notes,
		DieticianID: r.Dietician,
		ScheduledAt: r.Date.Ptr(),
	}
}

// ConsultationResponse is the consultation view.
type ConsultationResponse struct {
	ID        string                    `json:"_id"`
	User      *domain.UserSummary       `json:"user"`
	Date      time.Time                 `json:"date"`
	Type      domain.ConsultationType   `json:"type"`
	Notes     string                    `json:"notes"`
	Status    domain.ConsultationStatus `json:"status"`
	Dietician *domain.UserSummary       `json:"dietician"`
	CreatedAt time.Time                 `json:"createdAt"`
	UpdatedAt time.Time                 `json:"updatedAt"`
}

// NewConsultationResponse maps a consultation.
func NewConsultationResponse(c *domain.Consultation) ConsultationResponse {
	user := c.Requester
	if user == nil {
		user = &domain.UserSummary{ID: c.UserID}
	}
	dietician := c.Dietician
	if dietician == nil && c.DieticianID != nil {
		dietician = &domain.UserSummary{ID: *c.DieticianID}
	}
	return ConsultationResponse{
		ID:        c.ID,
		User:      user,
		Date:      c.ScheduledAt,
		Type:      c.Type,
		Notes:     c.Notes,
		Status:    c.Status,
		Dietician: dietician,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// NewConsultationResponses maps a consultation list.
func NewConsultationResponses(items []domain.Consultation) []ConsultationResponse {
	out := make([]ConsultationResponse, 0, len(items))
	for i := range items {
		out = append(out, NewConsultationResponse(&items[i]))
	}
	return out
}
