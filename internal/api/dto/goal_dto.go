package dto

import (
	"time"

	"github.com/spec-kit/wellness-service/internal/domain"
)

// CreateGoalRequest payload.
type CreateGoalRequest struct {
	Type      domain.GoalType `json:"type"`
	Title     string          `json:"title"`
	Target    float64         `json:"target"`
	Unit      string          `json:"unit"`
	Current   *float64        `json:"current"`
	StartDate *FlexibleTime   `json:"startDate"`
	EndDate   *FlexibleTime   `json:"endDate"`
}

// UpdateGoalRequest payload; absent fields are left untouched.
type UpdateGoalRequest struct {
	Current *float64           `json:"current"`
	Target  *float64           `json:"target"`
	Status  *domain.GoalStatus `json:"status"`
}

// Patch converts the request into a domain patch.
func (r UpdateGoalRequest) Patch() domain.GoalPatch {
	return domain.GoalPatch{Current: r.Current, Target: r.Target, Status: r.Status}
}

// GoalResponse is the goal view.
type GoalResponse struct {
	ID                 string                 `json:"_id"`
	User               string                 `json:"user"`
	Type               domain.GoalType        `json:"type"`
	Title              string                 `json:"title"`
	Target             float64                `json:"target"`
	Unit               string                 `json:"unit"`
	Current            float64                `json:"current"`
	StartDate          time.Time              `json:"startDate"`
	EndDate            time.Time              `json:"endDate"`
	Status             domain.GoalStatus      `json:"status"`
	ProgressHistory    []domain.ProgressEntry `json:"progressHistory"`
	ProgressPercentage int                    `json:"progressPercentage"`
	CreatedAt          time.Time              `json:"createdAt"`
	UpdatedAt          time.Time              `json:"updatedAt"`
}

// NewGoalResponse maps a goal.
func NewGoalResponse(g *domain.Goal) GoalResponse {
	history := g.ProgressHistory
	if history == nil {
		history = []domain.ProgressEntry{}
	}
	return GoalResponse{
		ID:                 g.ID,
		User:               g.UserID,
		Type:               g.Type,
		Title:              g.Title,
		Target:             g.Target,
		Unit:               g.Unit,
		Current:            g.Current,
		StartDate:          g.StartDate,
		EndDate:            g.EndDate,
		Status:             g.Status,
		ProgressHistory:    history,
		ProgressPercentage: g.ProgressPercentage(),
		CreatedAt:          g.CreatedAt,
		UpdatedAt:          g.UpdatedAt,
	}
}

// NewGoalResponses maps a goal list.
func NewGoalResponses(goals []domain.Goal) []GoalResponse {
	out := make([]GoalResponse, 0, len(goals))
	for i := range goals {
		out = append(out, NewGoalResponse(&goals[i]))
	}
	return out
}
