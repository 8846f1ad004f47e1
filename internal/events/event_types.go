package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/wellness-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventGoalProgressRecorded          EventType = "goal_progress_recorded"
	EventGoalCompleted                 EventType = "goal_completed"
	EventConsultationBooked            EventType = "consultation_booked"
	EventConsultationStatusChanged     EventType = "consultation_status_changed"
	EventConsultationDieticianAssigned EventType = "consultation_dietician_assigned"
	EventConsultationDeleted           EventType = "consultation_deleted"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID          string      `json:"id"`
	Type        EventType   `json:"type"`
	AggregateID string      `json:"aggregate_id"`
	ActorID     string      `json:"actor_id"`
	Timestamp   time.Time   `json:"timestamp"`
	Payload     interface{} `json:"payload"`
}

// New stamps an event with a fresh id and the current time.
func New(eventType EventType, aggregateID, actorID string, payload interface{}) Event {
	return Event{
		ID:          uuid.NewString(),
		Type:        eventType,
		AggregateID: aggregateID,
		ActorID:     actorID,
		Timestamp:   time.Now().UTC(),
		Payload:     payload,
	}
}

// GoalProgressPayload payload.
type GoalProgressPayload struct {
	UserID   string          `json:"user_id"`
	Type     domain.GoalType `json:"type"`
	Previous float64         `json:"previous"`
	Current  float64         `json:"current"`
	Target   float64         `json:"target"`
}

// GoalCompletedPayload payload.
type GoalCompletedPayload struct {
	UserID string `json:"user_id"`
	Title  string `json:"title"`
}

// ConsultationBookedPayload payload.
type ConsultationBookedPayload struct {
	UserID      string                  `json:"user_id"`
	ScheduledAt time.Time               `json:"scheduled_at"`
	Type        domain.ConsultationType `json:"type"`
}

// ConsultationStatusChangedPayload payload.
type ConsultationStatusChangedPayload struct {
	UserID    string                    `json:"user_id"`
	OldStatus domain.ConsultationStatus `json:"old_status"`
	NewStatus domain.ConsultationStatus `json:"new_status"`
}

// ConsultationDieticianAssignedPayload payload.
type ConsultationDieticianAssignedPayload struct {
	UserID      string `json:"user_id"`
	DieticianID string `json:"dietician_id"`
}

// ConsultationDeletedPayload payload.
type ConsultationDeletedPayload struct {
	UserID      string    `json:"user_id"`
	ScheduledAt time.Time `json:"scheduled_at"`
}
