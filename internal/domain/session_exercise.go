package domain

import (
	"time"

	"github.com/google/uuid"
)

// SessionExercise is the join record for one exercise performed within one
// training session. Sets, reps and break time are optional; when present
// they must be within [1, 10000]. BreakTime is a generic bounded integer —
// the current UI labels it "Weight", older revisions labelled it
// "Break time". The column name stays stable either way.
type SessionExercise struct {
	ID                int64     `json:"id"`
	UserID            uuid.UUID `json:"userId"`
	TrainingSessionID int64     `json:"trainingSessionId"`
	ExerciseID        int64     `json:"exerciseId"`
	Sets              *int      `json:"sets,omitempty"`
	Reps              *int      `json:"reps,omitempty"`
	BreakTime         *int      `json:"breakTime,omitempty"`
	CreatedAt         time.Time `json:"createdAt"`
}

// SessionExerciseDetail carries the joined exercise name alongside the row.
type SessionExerciseDetail struct {
	SessionExercise
	ExerciseName string `json:"exerciseName"`
}

// ExercisePoint is one observation of an exercise on a given date, used by
// the insights view to chart progress over time.
type ExercisePoint struct {
	Date      time.Time `json:"date"`
	Sets      *int      `json:"sets,omitempty"`
	Reps      *int      `json:"reps,omitempty"`
	BreakTime *int      `json:"breakTime,omitempty"`
}

// ExerciseSeries groups an exercise's points date-ascending.
type ExerciseSeries struct {
	Name   string          `json:"name"`
	Points []ExercisePoint `json:"points"`
}
