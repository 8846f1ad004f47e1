// Package policy decides who may read or mutate goals and consultations and
// computes the resulting entity state. It performs no I/O apart from the slot
// lookup delegated to a SlotFinder.
package policy

import (
	"time"

	"github.com/spec-kit/wellness-service/internal/domain"
	apperrors "github.com/spec-kit/wellness-service/pkg/util"
)

// AuthorizeGoalRead permits only the goal's owner.
func AuthorizeGoalRead(callerID string, goal *domain.Goal) error {
	if goal == nil || goal.UserID != callerID {
		return apperrors.NewForbidden("not authorized to access this goal")
	}
	return nil
}

// AuthorizeGoalMutate permits only the goal's owner to update or delete it.
func AuthorizeGoalMutate(callerID string, goal *domain.Goal) error {
	if goal == nil || goal.UserID != callerID {
		return apperrors.NewForbidden("not authorized to modify this goal")
	}
	return nil
}

// ApplyGoalUpdate returns goal with patch applied at time now.
//
// A changed current value appends a progress entry and completes an active goal
// once current reaches target. Target and status are overwritten as given; an
// explicit status wins over the automatic completion.
func ApplyGoalUpdate(goal domain.Goal, patch domain.GoalPatch, now time.Time) domain.Goal {
	history := make([]domain.ProgressEntry, len(goal.ProgressHistory), len(goal.ProgressHistory)+1)
	copy(history, goal.ProgressHistory)
	goal.ProgressHistory = history

	if patch.Current != nil && *patch.Current != goal.Current {
		goal.ProgressHistory = append(goal.ProgressHistory, domain.ProgressEntry{Value: *patch.Current, Date: now})
		goal.Current = *patch.Current
		if goal.Current >= goal.Target && goal.Status == domain.GoalStatusActive {
			goal.Status = domain.GoalStatusCompleted
		}
	}
	if patch.Target != nil {
		goal.Target = *patch.Target
	}
	if patch.Status != nil {
		goal.Status = *patch.Status
	}
	return goal
}

// DefaultGoalTitle names a goal that was created without a title.
func DefaultGoalTitle(t domain.GoalType) string {
	switch t {
	case domain.GoalTypeWeight:
		return "Weight Goal"
	case domain.GoalTypeWater:
		return "Daily Water Intake"
	case domain.GoalTypeSteps:
		return "Daily Steps Goal"
	case domain.GoalTypeCalories:
		return "Calorie Goal"
	case domain.GoalTypeExercise:
		return "Exercise Goal"
	case domain.GoalTypeCustom:
		return "Custom Goal"
	default:
		return "Wellness Goal"
	}
}
