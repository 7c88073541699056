package engine

import (
	"math"

	"github.com/meltforce/autoreg/internal/models"
)

// SuggestionReason tags which progression branch produced a suggestion, so the
// presentation layer can localize without re-deriving thresholds.
type SuggestionReason string

const (
	ReasonNoHistory    SuggestionReason = "no_history"
	ReasonIncreaseLoad SuggestionReason = "increase_load"
	ReasonIncreaseReps SuggestionReason = "increase_reps"
	ReasonDecreaseLoad SuggestionReason = "decrease_load"
	ReasonMaintain     SuggestionReason = "maintain"
)

// SetSuggestion is one recommended load/rep prescription for the next set.
type SetSuggestion struct {
	LoadKg      float64 `json:"load_kg"`
	Reps        int     `json:"reps"`
	Explanation string  `json:"explanation"`
}

// Suggestion is the full recommendation for an exercise: the primary
// prescription, an optional alternative, and the branch that produced it.
type Suggestion struct {
	Primary     SetSuggestion    `json:"primary"`
	Alternative *SetSuggestion   `json:"alternative,omitempty"`
	Reason      SuggestionReason `json:"reason"`
	AvgRIR      float64          `json:"avg_rir"`
}

const (
	// DefaultTargetReps is used when the caller does not specify a rep goal.
	DefaultTargetReps = 10

	// suggestion window and rep ceiling
	suggestionWindow = 3
	maxSuggestedReps = 15
)

// SuggestNextSet derives the next-set prescription from the exercise's recent
// history (ordered oldest to newest). The decision table runs over the average
// RIR of the last three sets, first match wins:
//
//	avgRIR ≤ 0.5 and reps met  → +5% load
//	avgRIR ≤ 1.5               → +1 rep, load unchanged
//	avgRIR ≥ 3                 → load ×0.90
//	otherwise                  → maintain
//
// Loads are rounded to the nearest whole unit. Empty history returns the
// tagged no-history result rather than an error.
func SuggestNextSet(history []models.SetRecord, targetReps int) Suggestion {
	if targetReps <= 0 {
		targetReps = DefaultTargetReps
	}
	if len(history) == 0 {
		return Suggestion{
			Primary: SetSuggestion{
				LoadKg:      0,
				Reps:        targetReps,
				Explanation: "No logged sets for this exercise yet. Start with a weight you can control for the target reps.",
			},
			Reason: ReasonNoHistory,
		}
	}

	window := history
	if len(window) > suggestionWindow {
		window = window[len(window)-suggestionWindow:]
	}
	var rirSum float64
	for _, s := range window {
		rirSum += s.RIRActual
	}
	avgRIR := rirSum / float64(len(window))

	last := history[len(history)-1]
	lastLoad := last.LoadKg
	lastReps := last.CompletedReps

	switch {
	case avgRIR <= 0.5 && lastReps >= targetReps:
		return Suggestion{
			Primary: SetSuggestion{
				LoadKg:      roundLoad(lastLoad * 1.05),
				Reps:        targetReps,
				Explanation: "You hit the rep target with nothing left in reserve. Add load.",
			},
			Alternative: &SetSuggestion{
				LoadKg:      roundLoad(lastLoad),
				Reps:        capReps(lastReps + 1),
				Explanation: "Or keep the weight and push for one more rep.",
			},
			Reason: ReasonIncreaseLoad,
			AvgRIR: avgRIR,
		}
	case avgRIR <= 1.5:
		return Suggestion{
			Primary: SetSuggestion{
				LoadKg:      roundLoad(lastLoad),
				Reps:        capReps(targetReps + 1),
				Explanation: "Close to failure but not quite there. Add a rep before adding load.",
			},
			Alternative: &SetSuggestion{
				LoadKg:      roundLoad(lastLoad * 1.025),
				Reps:        targetReps,
				Explanation: "Or take a small load increase at the same reps.",
			},
			Reason: ReasonIncreaseReps,
			AvgRIR: avgRIR,
		}
	case avgRIR >= 3:
		return Suggestion{
			Primary: SetSuggestion{
				LoadKg:      roundLoad(lastLoad * 0.90),
				Reps:        targetReps,
				Explanation: "Too much left in reserve. Drop the load so working sets land near failure.",
			},
			Alternative: &SetSuggestion{
				LoadKg:      roundLoad(lastLoad * 0.95),
				Reps:        capReps(targetReps + 2),
				Explanation: "Or a smaller drop with extra reps.",
			},
			Reason: ReasonDecreaseLoad,
			AvgRIR: avgRIR,
		}
	default:
		return Suggestion{
			Primary: SetSuggestion{
				LoadKg:      roundLoad(lastLoad),
				Reps:        lastReps,
				Explanation: "Effort is in the productive range. Repeat the prescription.",
			},
			Reason: ReasonMaintain,
			AvgRIR: avgRIR,
		}
	}
}

func roundLoad(kg float64) float64 {
	return math.Round(kg)
}

func capReps(reps int) int {
	if reps > maxSuggestedReps {
		return maxSuggestedReps
	}
	return reps
}
