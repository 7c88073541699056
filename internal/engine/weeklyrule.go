package engine

import (
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/meltforce/autoreg/internal/models"
)

// MuscleWeekStats is the per-muscle aggregate of one training week.
type MuscleWeekStats struct {
	Muscle      string  `json:"muscle"`
	WorkingSets int     `json:"working_sets"`
	AvgPump     float64 `json:"avg_pump"`
	AvgSoreness float64 `json:"avg_soreness"`
	AvgRIR      float64 `json:"avg_rir"`
}

// AggregateMuscleStats joins a week's completed sets to their prime muscles
// and averages the feedback signals per muscle. Pump and soreness are averaged
// over the sets that recorded them. Sets whose exercise is missing from the
// catalog map are dropped; the caller decides whether that is worth logging.
func AggregateMuscleStats(sets []models.SetRecord, muscleByExercise map[uuid.UUID]string) []MuscleWeekStats {
	type acc struct {
		sets        int
		pumpSum     float64
		pumpN       int
		sorenessSum float64
		sorenessN   int
		rirSum      float64
	}
	byMuscle := make(map[string]*acc)

	for _, s := range sets {
		muscle, ok := muscleByExercise[s.ExerciseID]
		if !ok {
			continue
		}
		a := byMuscle[muscle]
		if a == nil {
			a = &acc{}
			byMuscle[muscle] = a
		}
		a.sets++
		a.rirSum += s.RIRActual
		if s.PerceivedPump != nil {
			a.pumpSum += *s.PerceivedPump
			a.pumpN++
		}
		if s.PerceivedSoreness != nil {
			a.sorenessSum += *s.PerceivedSoreness
			a.sorenessN++
		}
	}

	result := make([]MuscleWeekStats, 0, len(byMuscle))
	for muscle, a := range byMuscle {
		st := MuscleWeekStats{
			Muscle:      muscle,
			WorkingSets: a.sets,
			AvgRIR:      a.rirSum / float64(a.sets),
		}
		if a.pumpN > 0 {
			st.AvgPump = a.pumpSum / float64(a.pumpN)
		}
		if a.sorenessN > 0 {
			st.AvgSoreness = a.sorenessSum / float64(a.sorenessN)
		}
		result = append(result, st)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Muscle < result[j].Muscle })
	return result
}

// WeeklyAdjustReason tags which weekly-rule branch fired.
type WeeklyAdjustReason string

const (
	WeeklyFatigue         WeeklyAdjustReason = "fatigue"
	WeeklyUnderStimulated WeeklyAdjustReason = "under_stimulated"
	WeeklyUnderCompliance WeeklyAdjustReason = "under_compliance"
	WeeklyNoChange        WeeklyAdjustReason = "no_change"
)

// WeeklyAdjustment applies the weekly volume rule to one muscle's aggregated
// stats against its current-week target. Precedence: fatigue, then
// under-stimulation, then under-compliance.
func WeeklyAdjustment(stats MuscleWeekStats, current models.WeeklyTarget) (float64, WeeklyAdjustReason) {
	switch {
	case stats.AvgPump > 8 || stats.AvgSoreness > 8:
		return -0.10, WeeklyFatigue
	case stats.AvgPump < 5 && stats.AvgSoreness < 5 && stats.AvgRIR > 3:
		return 0.05, WeeklyUnderStimulated
	case stats.WorkingSets < current.SetsMin:
		return -0.05, WeeklyUnderCompliance
	default:
		return 0, WeeklyNoChange
	}
}

// ApplyAdjustment rewrites a target's set range after a non-zero adjustment:
// target scales by (1+adjustment), min and max re-derive as ±10% of the new
// target.
func ApplyAdjustment(t models.WeeklyTarget, adjustment float64) models.WeeklyTarget {
	newTarget := int(math.Round(float64(t.SetsTarget) * (1 + adjustment)))
	t.SetsTarget = newTarget
	t.SetsMin = int(math.Floor(float64(newTarget) * 0.9))
	t.SetsMax = int(math.Ceil(float64(newTarget) * 1.1))
	return t
}

// WeekFraction is the progression-curve multiplier for one week of a cycle.
// Weeks ramp 60% → 100% over the first five weeks, hold at 100% after, and
// the final week deloads to 50%.
func WeekFraction(week, lengthWeeks int) float64 {
	if week == lengthWeeks {
		return 0.50
	}
	switch week {
	case 1:
		return 0.60
	case 2:
		return 0.70
	case 3:
		return 0.80
	case 4:
		return 0.90
	default:
		return 1.00
	}
}

// ScaleTarget applies the progression fraction to a base target when creating
// a cycle's weekly grid: min floors, max ceils, target rounds.
func ScaleTarget(baseMin, baseMax, baseTarget int, frac float64) (setsMin, setsMax, setsTarget int) {
	setsMin = int(math.Floor(float64(baseMin) * frac))
	setsMax = int(math.Ceil(float64(baseMax) * frac))
	setsTarget = int(math.Round(float64(baseTarget) * frac))
	return setsMin, setsMax, setsTarget
}

// CurrentWeek returns the 1-based training week containing now, from the
// cycle start: ceil of the elapsed time in weeks. A now before the start
// clamps to week 1.
func CurrentWeek(now, startDate time.Time) int {
	elapsed := now.Sub(startDate)
	if elapsed <= 0 {
		return 1
	}
	week := int(math.Ceil(elapsed.Hours() / (24 * 7)))
	if week < 1 {
		week = 1
	}
	return week
}
