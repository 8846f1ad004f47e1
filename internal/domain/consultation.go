package domain

import "time"

// ConsultationType enumerates consultation categories.
type ConsultationType string

const (
	ConsultationInitial          ConsultationType = "Initial Consultation"
	ConsultationFollowUp         ConsultationType = "Follow-up"
	ConsultationPlanReview       ConsultationType = "Nutrition Plan Review"
	ConsultationWeightManagement ConsultationType = "Weight Management"
	ConsultationSportsNutrition  ConsultationType = "Sports Nutrition"
	ConsultationOther            ConsultationType = "Other"
)

// ConsultationTypes lists every consultation category.
var ConsultationTypes = []ConsultationType{
	ConsultationInitial,
	ConsultationFollowUp,
	ConsultationPlanReview,
	ConsultationWeightManagement,
	ConsultationSportsNutrition,
	ConsultationOther,
}

// Valid reports whether t is a known consultation type.
func (t ConsultationType) Valid() bool {
	for _, candidate := range ConsultationTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// ConsultationStatus enumerates booking states.
type ConsultationStatus string

const (
	ConsultationPending   ConsultationStatus = "pending"
	ConsultationConfirmed ConsultationStatus = "confirmed"
	ConsultationCompleted ConsultationStatus = "completed"
	ConsultationCancelled ConsultationStatus = "cancelled"
)

// Valid reports whether s is a known consultation status.
func (s ConsultationStatus) Valid() bool {
	switch s {
	case ConsultationPending, ConsultationConfirmed, ConsultationCompleted, ConsultationCancelled:
		return true
	}
	return false
}

// HoldsSlot reports whether a consultation in state s occupies its time slot.
func (s ConsultationStatus) HoldsSlot() bool {
	return s == ConsultationPending || s == ConsultationConfirmed
}

// SlotHoldingStatuses are the states that occupy a time slot.
var SlotHoldingStatuses = []ConsultationStatus{ConsultationPending, ConsultationConfirmed}

// MaxConsultationNotes bounds the notes length in characters.
const MaxConsultationNotes = 500

// Consultation is a booking between a user and a dietician.
type Consultation struct {
	ID          string
	UserID      string
	ScheduledAt time.Time
	Type        ConsultationType
	Notes       string
	Status      ConsultationStatus
	DieticianID *string
	Requester   *UserSummary
	Dietician   *UserSummary
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ConsultationPatch is a partial consultation update; nil fields are absent.
type ConsultationPatch struct {
	Status      *ConsultationStatus
	Notes       *string
	DieticianID *string
	ScheduledAt *time.Time
}

// Empty reports whether no field is present.
func (p ConsultationPatch) Empty() bool {
	return p.Status == nil && p.Notes == nil && p.DieticianID == nil && p.ScheduledAt == nil
}

// NormalizeSlot truncates t to the precision used for slot comparison.
func NormalizeSlot(t time.Time) time.Time {
	return t.UTC().Truncate(time.Millisecond)
}
