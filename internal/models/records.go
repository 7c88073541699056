package models

import (
	"time"

	"github.com/google/uuid"
)

// CycleStatus is the lifecycle state of a training cycle.
type CycleStatus string

const (
	CyclePlanned   CycleStatus = "planned"
	CycleActive    CycleStatus = "active"
	CycleCompleted CycleStatus = "completed"
	CyclePaused    CycleStatus = "paused"
)

// EffortScale is how effort is reported within a cycle.
type EffortScale string

const (
	EffortRIR EffortScale = "rir"
	EffortRPE EffortScale = "rpe"
)

// SetRecord is one completed working set. Append-only: the logging path
// creates these and nothing in the engine ever mutates them.
type SetRecord struct {
	ID                uuid.UUID `json:"id"`
	SessionID         uuid.UUID `json:"session_id"`
	ExerciseID        uuid.UUID `json:"exercise_id"`
	LoadKg            float64   `json:"load_kg"`
	CompletedReps     int       `json:"completed_reps"`
	RIRActual         float64   `json:"rir_actual"`
	RPE               float64   `json:"rpe"`
	PerceivedPump     *float64  `json:"perceived_pump,omitempty"`
	PerceivedSoreness *float64  `json:"perceived_soreness,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
}

// ExerciseRef is read-only catalog data for one exercise.
type ExerciseRef struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	PrimeMuscle string    `json:"prime_muscle"`
	IsCompound  bool      `json:"is_compound"`
}

// TrainingCycle is a mesocycle. At most one active cycle exists per athlete;
// that invariant is enforced by the cycle store, not the engine.
type TrainingCycle struct {
	ID          uuid.UUID   `json:"id"`
	UserID      int         `json:"user_id"`
	StartDate   time.Time   `json:"start_date"`
	LengthWeeks int         `json:"length_weeks"`
	Status      CycleStatus `json:"status"`
	EffortScale EffortScale `json:"effort_scale"`
}

// WeeklyTarget is the planned set range for one muscle in one week of a cycle.
// Version guards the weekly job's read-modify-write against the concurrent
// actual_sets increments from the logging path. LastAdjustedWeek records which
// training week's stats last adjusted this row, making re-runs no-ops.
type WeeklyTarget struct {
	CycleID          uuid.UUID `json:"cycle_id"`
	Muscle           string    `json:"muscle"`
	WeekNumber       int       `json:"week_number"`
	SetsMin          int       `json:"sets_min"`
	SetsMax          int       `json:"sets_max"`
	SetsTarget       int       `json:"sets_target"`
	ActualSets       int       `json:"actual_sets"`
	Version          int       `json:"version"`
	LastAdjustedWeek int       `json:"last_adjusted_week,omitempty"`
}

// Session is one scheduled (and possibly completed) workout within a cycle.
type Session struct {
	ID            uuid.UUID  `json:"id"`
	CycleID       uuid.UUID  `json:"cycle_id"`
	UserID        int        `json:"user_id"`
	ScheduledDate time.Time  `json:"scheduled_date"`
	Completed     bool       `json:"completed"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
}

// RecoveryEntry is one athlete-day of physiological readiness signals.
type RecoveryEntry struct {
	UserID       int       `json:"user_id"`
	Day          time.Time `json:"day"`
	SleepHours   float64   `json:"sleep_hours"`
	HRVMs        float64   `json:"hrv_ms"`
	RestingHRBpm float64   `json:"resting_hr_bpm"`
	Soreness     float64   `json:"soreness"`
}

// BiologicalSex is used only for the BMR formula constant.
type BiologicalSex string

const (
	SexMale   BiologicalSex = "male"
	SexFemale BiologicalSex = "female"
)

// Goal is the athlete's current nutrition goal.
type Goal string

const (
	GoalCut      Goal = "cut"
	GoalMaintain Goal = "maintain"
	GoalBulk     Goal = "bulk"
)

// ActivityLevel selects the TDEE multiplier.
type ActivityLevel string

const (
	ActivitySedentary   ActivityLevel = "sedentary"
	ActivityLight       ActivityLevel = "light"
	ActivityModerate    ActivityLevel = "moderate"
	ActivityVeryActive  ActivityLevel = "very_active"
	ActivityExtraActive ActivityLevel = "extra_active"
)

// NutritionProfile holds the static inputs for requirement calculation.
type NutritionProfile struct {
	UserID        int           `json:"user_id"`
	BodyweightKg  float64       `json:"bodyweight_kg"`
	HeightCm      float64       `json:"height_cm"`
	Age           int           `json:"age"`
	BiologicalSex BiologicalSex `json:"biological_sex"`
	ActivityLevel ActivityLevel `json:"activity_level"`
	Goal          Goal          `json:"goal"`
}

// NutritionEntry is one athlete-day of logged intake.
type NutritionEntry struct {
	UserID       int       `json:"user_id"`
	Day          time.Time `json:"day"`
	Calories     float64   `json:"calories"`
	ProteinG     float64   `json:"protein_g"`
	CarbsG       *float64  `json:"carbs_g,omitempty"`
	FatsG        *float64  `json:"fats_g,omitempty"`
	BodyweightKg *float64  `json:"bodyweight_kg,omitempty"`
}
