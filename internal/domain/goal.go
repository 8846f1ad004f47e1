package domain

import (
	"math"
	"time"
)

// GoalType enumerates kinds of wellness goals.
type GoalType string

const (
	GoalTypeWeight   GoalType = "weight"
	GoalTypeWater    GoalType = "water"
	GoalTypeSteps    GoalType = "steps"
	GoalTypeCalories GoalType = "calories"
	GoalTypeExercise GoalType = "exercise"
	GoalTypeCustom   GoalType = "custom"
)

// GoalTypes lists every goal type in display order.
var GoalTypes = []GoalType{
	GoalTypeWeight, GoalTypeWater, GoalTypeSteps, GoalTypeCalories, GoalTypeExercise, GoalTypeCustom,
}

// Valid reports whether t is a known goal type.
func (t GoalType) Valid() bool {
	for _, candidate := range GoalTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// GoalStatus enumerates lifecycle states for goals.
type GoalStatus string

const (
	GoalStatusActive    GoalStatus = "active"
	GoalStatusCompleted GoalStatus = "completed"
	GoalStatusPaused    GoalStatus = "paused"
	GoalStatusCancelled GoalStatus = "cancelled"
)

// Valid reports whether s is a known goal status.
func (s GoalStatus) Valid() bool {
	switch s {
	case GoalStatusActive, GoalStatusCompleted, GoalStatusPaused, GoalStatusCancelled:
		return true
	}
	return false
}

// ProgressEntry records one change of a goal's current value.
type ProgressEntry struct {
	Value float64   `json:"value"`
	Date  time.Time `json:"date"`
}

// Goal is a personal wellness target owned by one user.
type Goal struct {
	ID              string
	UserID          string
	Type            GoalType
	Title           string
	Target          float64
	Unit            string
	Current         float64
	StartDate       time.Time
	EndDate         time.Time
	Status          GoalStatus
	ProgressHistory []ProgressEntry
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// ProgressPercentage is current/target as a whole percentage capped at 100.
// A zero target yields 0.
func (g Goal) ProgressPercentage() int {
	if g.Target == 0 {
		return 0
	}
	pct := math.Round(g.Current / g.Target * 100)
	if pct > 100 {
		return 100
	}
	return int(pct)
}

// GoalPatch is a partial goal update; nil fields are absent.
type GoalPatch struct {
	Current *float64
	Target  *float64
	Status  *GoalStatus
}

// GoalStats summarizes a user's goals.
type GoalStats struct {
	Total     int              `json:"total"`
	Active    int              `json:"active"`
	Completed int              `json:"completed"`
	Paused    int              `json:"paused"`
	ByType    map[GoalType]int `json:"byType"`
}
