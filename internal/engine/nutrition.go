package engine

import (
	"fmt"
	"math"
	"time"

	"github.com/meltforce/autoreg/internal/models"
)

// activityMultipliers are the standard TDEE factors over BMR.
var activityMultipliers = map[models.ActivityLevel]float64{
	models.ActivitySedentary:   1.2,
	models.ActivityLight:       1.375,
	models.ActivityModerate:    1.55,
	models.ActivityVeryActive:  1.725,
	models.ActivityExtraActive: 1.9,
}

// NutritionTargets holds the daily requirement derived from a profile.
type NutritionTargets struct {
	BMR            float64 `json:"bmr"`
	TDEE           float64 `json:"tdee"`
	TargetCalories float64 `json:"target_calories"`
	TargetProteinG float64 `json:"target_protein_g"`
}

// BMR computes basal metabolic rate with the Mifflin-St Jeor equation:
// 10×kg + 6.25×cm − 5×age, +5 for male and −161 for female.
func BMR(p models.NutritionProfile) (float64, error) {
	if p.BodyweightKg <= 0 {
		return 0, fmt.Errorf("%w: bodyweight must be positive, got %.2f", ErrInvalidArgument, p.BodyweightKg)
	}
	if p.HeightCm <= 0 {
		return 0, fmt.Errorf("%w: height must be positive, got %.2f", ErrInvalidArgument, p.HeightCm)
	}
	if p.Age <= 0 {
		return 0, fmt.Errorf("%w: age must be positive, got %d", ErrInvalidArgument, p.Age)
	}

	base := 10*p.BodyweightKg + 6.25*p.HeightCm - 5*float64(p.Age)
	switch p.BiologicalSex {
	case models.SexMale:
		return base + 5, nil
	case models.SexFemale:
		return base - 161, nil
	default:
		return 0, fmt.Errorf("%w: unknown biological sex %q", ErrInvalidArgument, p.BiologicalSex)
	}
}

// CalculateTargets derives TDEE, goal-adjusted calories, and the protein
// target from a profile. Calorie targets are rounded to whole kcal.
func CalculateTargets(p models.NutritionProfile) (NutritionTargets, error) {
	bmr, err := BMR(p)
	if err != nil {
		return NutritionTargets{}, err
	}

	mult, ok := activityMultipliers[p.ActivityLevel]
	if !ok {
		return NutritionTargets{}, fmt.Errorf("%w: unknown activity level %q", ErrInvalidArgument, p.ActivityLevel)
	}
	tdee := bmr * mult

	var calories, proteinPerKg float64
	switch p.Goal {
	case models.GoalCut:
		calories = tdee * 0.80
		proteinPerKg = 2.0
	case models.GoalBulk:
		calories = tdee * 1.10
		proteinPerKg = 1.8
	case models.GoalMaintain:
		calories = tdee
		proteinPerKg = 1.8
	default:
		return NutritionTargets{}, fmt.Errorf("%w: unknown goal %q", ErrInvalidArgument, p.Goal)
	}

	return NutritionTargets{
		BMR:            bmr,
		TDEE:           tdee,
		TargetCalories: math.Round(calories),
		TargetProteinG: math.Round(p.BodyweightKg * proteinPerKg),
	}, nil
}

// ComplianceStatus is the overall intake compliance classification.
type ComplianceStatus string

const (
	ComplianceCompliant ComplianceStatus = "compliant"
	ComplianceAttention ComplianceStatus = "attention"
	ComplianceCritical  ComplianceStatus = "critical"
)

// AlertLevel grades a single compliance alert.
type AlertLevel string

const (
	AlertCritical AlertLevel = "critical"
	AlertWarning  AlertLevel = "warning"
	AlertPositive AlertLevel = "positive"
)

// ComplianceAlert is one nutrient-specific finding.
type ComplianceAlert struct {
	Level   AlertLevel `json:"level"`
	Metric  string     `json:"metric"`
	Message string     `json:"message"`
}

// ComplianceResult is the window-averaged intake vs. target assessment.
type ComplianceResult struct {
	Status      ComplianceStatus  `json:"status"`
	CaloriesPct float64           `json:"calories_pct"`
	ProteinPct  float64           `json:"protein_pct"`
	Alerts      []ComplianceAlert `json:"alerts"`
}

// AssessCompliance classifies average actual intake against targets. Overall
// status is the worst of the two nutrients: critical beats attention beats
// compliant. On-target calories with adequate protein gets a positive
// confirmation alert.
func AssessCompliance(avgCalories, avgProteinG float64, targets NutritionTargets) (ComplianceResult, error) {
	if targets.TargetCalories <= 0 || targets.TargetProteinG <= 0 {
		return ComplianceResult{}, fmt.Errorf("%w: targets must be positive", ErrInvalidArgument)
	}

	calPct := avgCalories / targets.TargetCalories * 100
	protPct := avgProteinG / targets.TargetProteinG * 100

	res := ComplianceResult{
		Status:      ComplianceCompliant,
		CaloriesPct: calPct,
		ProteinPct:  protPct,
	}

	raise := func(s ComplianceStatus) {
		if s == ComplianceCritical || (s == ComplianceAttention && res.Status == ComplianceCompliant) {
			res.Status = s
		}
	}

	switch {
	case protPct < 80:
		res.Alerts = append(res.Alerts, ComplianceAlert{
			Level:   AlertCritical,
			Metric:  "protein",
			Message: fmt.Sprintf("Protein intake at %.0f%% of target. Muscle retention is at risk.", protPct),
		})
		raise(ComplianceCritical)
	case protPct < 90:
		res.Alerts = append(res.Alerts, ComplianceAlert{
			Level:   AlertWarning,
			Metric:  "protein",
			Message: fmt.Sprintf("Protein intake at %.0f%% of target. Add a protein source to one meal.", protPct),
		})
		raise(ComplianceAttention)
	}

	switch {
	case calPct < 75 || calPct > 125:
		res.Alerts = append(res.Alerts, ComplianceAlert{
			Level:   AlertCritical,
			Metric:  "calories",
			Message: fmt.Sprintf("Calories at %.0f%% of target, far outside the intended range.", calPct),
		})
		raise(ComplianceCritical)
	case calPct < 90 || calPct > 110:
		res.Alerts = append(res.Alerts, ComplianceAlert{
			Level:   AlertWarning,
			Metric:  "calories",
			Message: fmt.Sprintf("Calories at %.0f%% of target. Tighten up portion tracking.", calPct),
		})
		raise(ComplianceAttention)
	case protPct >= 90:
		res.Alerts = append(res.Alerts, ComplianceAlert{
			Level:   AlertPositive,
			Metric:  "calories",
			Message: "Calories and protein are both on target. Keep it up.",
		})
	}

	return res, nil
}

// WeightReading is one dated body-weight observation.
type WeightReading struct {
	Day time.Time `json:"day"`
	Kg  float64   `json:"kg"`
}

// TrendAdjustment is a kcal correction derived from the body-weight trend.
type TrendAdjustment struct {
	CalorieDelta  float64 `json:"calorie_delta"`
	WeeklyRatePct float64 `json:"weekly_rate_pct"`
	Reason        string  `json:"reason"`
}

// AdjustFromTrend computes the weekly body-weight rate of change from
// chronologically sorted readings and returns a calorie correction toward the
// goal's target rate. Bulk targets +0.25 to +0.5 %/week; cut targets −0.5 to
// −1.0 %/week; maintain tolerates ±0.25 %/week drift. Fewer than two readings
// or a span under one week yields no adjustment.
func AdjustFromTrend(readings []WeightReading, goal models.Goal) TrendAdjustment {
	if len(readings) < 2 {
		return TrendAdjustment{Reason: "Not enough body-weight readings to detect a trend. Log weight a few times per week."}
	}

	first := readings[0]
	last := readings[len(readings)-1]
	span := last.Day.Sub(first.Day)
	if span < 7*24*time.Hour {
		return TrendAdjustment{Reason: "Body-weight readings span less than a week. Keep logging before adjusting intake."}
	}
	if first.Kg <= 0 {
		return TrendAdjustment{Reason: "Starting body weight is invalid."}
	}

	weeks := span.Hours() / (24 * 7)
	ratePct := (last.Kg - first.Kg) / first.Kg * 100 / weeks

	adj := TrendAdjustment{WeeklyRatePct: ratePct}
	switch goal {
	case models.GoalBulk:
		switch {
		case ratePct < 0.25:
			adj.CalorieDelta = 200
			adj.Reason = "Gaining slower than the bulk target. Add 200 kcal per day."
		case ratePct > 0.5:
			adj.CalorieDelta = -100
			adj.Reason = "Gaining faster than the bulk target. Trim 100 kcal per day."
		default:
			adj.Reason = "Weight gain is inside the bulk target range."
		}
	case models.GoalCut:
		switch {
		case ratePct > -0.5:
			adj.CalorieDelta = -100
			adj.Reason = "Losing slower than the cut target. Remove 100 kcal per day."
		case ratePct < -1.0:
			adj.CalorieDelta = 100
			adj.Reason = "Losing faster than the cut target. Add back 100 kcal per day."
		default:
			adj.Reason = "Weight loss is inside the cut target range."
		}
	default: // maintain
		switch {
		case ratePct > 0.25:
			adj.CalorieDelta = -100
			adj.Reason = "Weight is drifting up. Trim 100 kcal per day."
		case ratePct < -0.25:
			adj.CalorieDelta = 100
			adj.Reason = "Weight is drifting down. Add 100 kcal per day."
		default:
			adj.Reason = "Weight is stable."
		}
	}
	return adj
}
