package engine

// RecoveryInput holds the averaged daily readiness signals for one athlete.
type RecoveryInput struct {
	SleepHours       float64 `json:"sleep_hours"`
	HRVMs            float64 `json:"hrv_ms"`
	RestingHRBpm     float64 `json:"resting_hr_bpm"`
	AvgSoreness      float64 `json:"avg_soreness"`
	AdherencePercent float64 `json:"adherence_percent"`
}

// RecoveryCategory buckets the composite score for display and for the
// derived volume/frequency helpers.
type RecoveryCategory string

const (
	RecoveryGood     RecoveryCategory = "good"
	RecoveryModerate RecoveryCategory = "moderate"
	RecoveryPoor     RecoveryCategory = "poor"
)

// RecoveryScore is the weighted composite readiness assessment.
type RecoveryScore struct {
	Score           int              `json:"score"`
	Category        RecoveryCategory `json:"category"`
	Recommendations []string         `json:"recommendations"`
}

// ScoreRecovery starts at 100 and subtracts independent penalties, one per
// signal, then clamps to [0,100]. Penalties are additive and order-independent;
// each triggered penalty contributes an advisory.
func ScoreRecovery(in RecoveryInput) RecoveryScore {
	score := 100
	var recs []string

	switch {
	case in.SleepHours < 6:
		score -= 25
		recs = append(recs, "Sleep is well below the 7-9 hour range. Prioritize sleep before adding training stress.")
	case in.SleepHours < 7:
		score -= 10
		recs = append(recs, "Sleep is slightly short. Aim for at least 7 hours.")
	case in.SleepHours > 9:
		score -= 5
		recs = append(recs, "Unusually long sleep can signal accumulated fatigue. Monitor how sessions feel.")
	}

	switch {
	case in.HRVMs < 50:
		score -= 20
		recs = append(recs, "HRV is suppressed. Consider an easier session or an extra rest day.")
	case in.HRVMs < 70:
		score -= 10
		recs = append(recs, "HRV is below your usual range. Keep intensity moderate.")
	}

	switch {
	case in.RestingHRBpm > 75:
		score -= 15
		recs = append(recs, "Resting heart rate is elevated. Check for illness or under-recovery.")
	case in.RestingHRBpm > 65:
		score -= 5
		recs = append(recs, "Resting heart rate is slightly elevated.")
	}

	switch {
	case in.AvgSoreness >= 6:
		score -= 20
		recs = append(recs, "Soreness is high. Reduce volume for the affected muscles.")
	case in.AvgSoreness >= 4:
		score -= 10
		recs = append(recs, "Moderate soreness. Warm up thoroughly and autoregulate loads.")
	case in.AvgSoreness < 2:
		score -= 5
		recs = append(recs, "Very low soreness may mean the stimulus is too light to drive adaptation.")
	}

	switch {
	case in.AdherencePercent < 80:
		score -= 10
		recs = append(recs, "Session adherence has slipped. Consistency matters more than any single hard workout.")
	case in.AdherencePercent < 90:
		score -= 5
		recs = append(recs, "A few sessions were missed recently. Try to keep the planned frequency.")
	}

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	if len(recs) == 0 {
		recs = append(recs, "Recovery is optimal. Continue with the planned training.")
	}

	return RecoveryScore{
		Score:           score,
		Category:        categorize(score),
		Recommendations: recs,
	}
}

func categorize(score int) RecoveryCategory {
	switch {
	case score >= 80:
		return RecoveryGood
	case score >= 60:
		return RecoveryModerate
	default:
		return RecoveryPoor
	}
}

// VolumeMultiplier maps a recovery score to a training volume scale factor.
func VolumeMultiplier(score int) float64 {
	switch {
	case score >= 80:
		return 1.0
	case score >= 60:
		return 0.9
	default:
		return 0.8
	}
}

// FrequencyChange tags the direction of a weekly training-day suggestion.
type FrequencyChange string

const (
	FrequencyIncrease FrequencyChange = "increase"
	FrequencyDecrease FrequencyChange = "decrease"
	FrequencyMaintain FrequencyChange = "maintain"
)

const (
	maxTrainingDays = 6
	minTrainingDays = 3
)

// SuggestFrequency proposes a ±1 change to weekly training days: add a day
// when recovery is excellent (score ≥ 85, capped at 6 days), drop one when it
// is poor (score < 60, floored at 3), otherwise hold.
func SuggestFrequency(score, currentDays int) (days int, change FrequencyChange) {
	switch {
	case score >= 85 && currentDays < maxTrainingDays:
		return currentDays + 1, FrequencyIncrease
	case score < 60 && currentDays > minTrainingDays:
		return currentDays - 1, FrequencyDecrease
	default:
		return currentDays, FrequencyMaintain
	}
}
