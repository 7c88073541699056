package mcp

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/meltforce/autoreg/internal/engine"
)

// historyLimit bounds the set history fetched for suggestion and plateau
// analysis. Both only look at the most recent sessions.
const historyLimit = 20

// --- Tool definitions ---

var toolListExercises = mcp.NewTool("list_exercises",
	mcp.WithDescription("List the exercise catalog with primary muscle groups and exercise IDs."),
)

var toolGetLoadSuggestion = mcp.NewTool("get_load_suggestion",
	mcp.WithDescription("Suggest load and reps for the next set of an exercise, derived from recent set history and reps-in-reserve."),
	mcp.WithString("exercise_id", mcp.Required(), mcp.Description("Exercise UUID (see list_exercises)")),
	mcp.WithNumber("target_reps", mcp.Description("Rep goal for the working sets. Defaults to 10.")),
)

var toolCheckPlateau = mcp.NewTool("check_plateau",
	mcp.WithDescription("Check whether an exercise has plateaued: a run of sessions with no estimated-1RM improvement."),
	mcp.WithString("exercise_id", mcp.Required(), mcp.Description("Exercise UUID (see list_exercises)")),
	mcp.WithNumber("threshold", mcp.Description("Run length of non-improving sessions that counts as a plateau. Defaults to 3.")),
)

var toolGetRecoveryScore = mcp.NewTool("get_recovery_score",
	mcp.WithDescription("Composite recovery readiness score (0-100) from sleep, HRV, resting heart rate, soreness, and session adherence, with the derived volume multiplier."),
	mcp.WithNumber("days", mcp.Description("Lookback window in days. Defaults to 7.")),
)

var toolGetNutritionTargets = mcp.NewTool("get_nutrition_targets",
	mcp.WithDescription("Daily calorie and protein targets from the athlete's nutrition profile (Mifflin-St Jeor BMR, activity-scaled TDEE, goal offset)."),
)

var toolGetNutritionCompliance = mcp.NewTool("get_nutrition_compliance",
	mcp.WithDescription("Compare average logged intake against calorie and protein targets over a window. Returns status and per-nutrient alerts."),
	mcp.WithNumber("days", mcp.Description("Lookback window in days. Defaults to 7.")),
)

var toolGetWeightTrend = mcp.NewTool("get_weight_trend",
	mcp.WithDescription("Weekly body-weight rate of change from logged readings, with a calorie correction toward the goal's target rate."),
	mcp.WithNumber("days", mcp.Description("Lookback window in days. Defaults to 28.")),
)

var toolGetWeeklyTargets = mcp.NewTool("get_weekly_targets",
	mcp.WithDescription("Per-muscle weekly set targets for a training cycle, including completed sets and any auto-adjustments."),
	mcp.WithString("cycle_id", mcp.Required(), mcp.Description("Training cycle UUID")),
)

// --- Tool handlers ---

func (h *handlers) listExercises(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	exercises, err := h.ds.ListExercises(ctx)
	if err != nil {
		h.log.Error("mcp list_exercises", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(exercises)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getLoadSuggestion(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	exerciseID, toolErr := requireUUID(req, "exercise_id")
	if toolErr != nil {
		return toolErr, nil
	}
	targetReps := req.GetInt("target_reps", engine.DefaultTargetReps)

	uid := UserIDFromContext(ctx)
	history, err := h.ds.ExerciseHistory(ctx, uid, exerciseID, historyLimit)
	if err != nil {
		h.log.Error("mcp get_load_suggestion", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(engine.SuggestNextSet(history, targetReps))
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) checkPlateau(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	exerciseID, toolErr := requireUUID(req, "exercise_id")
	if toolErr != nil {
		return toolErr, nil
	}
	threshold := req.GetInt("threshold", engine.DefaultPlateauThreshold)

	uid := UserIDFromContext(ctx)
	history, err := h.ds.ExerciseHistory(ctx, uid, exerciseID, historyLimit)
	if err != nil {
		h.log.Error("mcp check_plateau", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(engine.DetectPlateau(history, threshold))
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getRecoveryScore(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	days := req.GetInt("days", 7)
	end := time.Now()
	start := end.AddDate(0, 0, -days)
	uid := UserIDFromContext(ctx)

	entries, err := h.ds.RecoveryWindow(ctx, uid, start, end)
	if err != nil {
		h.log.Error("mcp get_recovery_score", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	if len(entries) == 0 {
		return mcp.NewToolResultText("No recovery entries in the window. Log sleep, HRV, resting heart rate, and soreness first."), nil
	}

	adherence, err := h.ds.AdherencePercent(ctx, uid, start, end)
	if err != nil {
		h.log.Error("mcp get_recovery_score adherence", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	var sleep, hrv, rhr, soreness float64
	for _, e := range entries {
		sleep += e.SleepHours
		hrv += e.HRVMs
		rhr += e.RestingHRBpm
		soreness += e.Soreness
	}
	n := float64(len(entries))

	score := engine.ScoreRecovery(engine.RecoveryInput{
		SleepHours:       sleep / n,
		HRVMs:            hrv / n,
		RestingHRBpm:     rhr / n,
		AvgSoreness:      soreness / n,
		AdherencePercent: adherence,
	})

	result, err := mcp.NewToolResultJSON(map[string]any{
		"score":             score,
		"volume_multiplier": engine.VolumeMultiplier(score.Score),
	})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getNutritionTargets(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	uid := UserIDFromContext(ctx)
	profile, err := h.ds.GetNutritionProfile(ctx, uid)
	if err != nil {
		h.log.Error("mcp get_nutrition_targets", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	if profile == nil {
		return mcp.NewToolResultError("no nutrition profile on record for this user"), nil
	}

	targets, err := engine.CalculateTargets(*profile)
	if err != nil {
		return mcp.NewToolResultError("invalid profile: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(targets)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getNutritionCompliance(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	days := req.GetInt("days", 7)
	end := time.Now()
	start := end.AddDate(0, 0, -days)
	uid := UserIDFromContext(ctx)

	profile, err := h.ds.GetNutritionProfile(ctx, uid)
	if err != nil {
		h.log.Error("mcp get_nutrition_compliance", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	if profile == nil {
		return mcp.NewToolResultError("no nutrition profile on record for this user"), nil
	}

	targets, err := engine.CalculateTargets(*profile)
	if err != nil {
		return mcp.NewToolResultError("invalid profile: " + err.Error()), nil
	}

	entries, err := h.ds.NutritionWindow(ctx, uid, start, end)
	if err != nil {
		h.log.Error("mcp get_nutrition_compliance window", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	if len(entries) == 0 {
		return mcp.NewToolResultText("No nutrition entries in the window. Log calories and protein first."), nil
	}

	var calories, protein float64
	for _, e := range entries {
		calories += e.Calories
		protein += e.ProteinG
	}
	n := float64(len(entries))

	compliance, err := engine.AssessCompliance(calories/n, protein/n, targets)
	if err != nil {
		return mcp.NewToolResultError("compliance check failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(compliance)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getWeightTrend(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	days := req.GetInt("days", 28)
	end := time.Now()
	start := end.AddDate(0, 0, -days)
	uid := UserIDFromContext(ctx)

	profile, err := h.ds.GetNutritionProfile(ctx, uid)
	if err != nil {
		h.log.Error("mcp get_weight_trend", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	if profile == nil {
		return mcp.NewToolResultError("no nutrition profile on record for this user"), nil
	}

	entries, err := h.ds.NutritionWindow(ctx, uid, start, end)
	if err != nil {
		h.log.Error("mcp get_weight_trend window", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	var readings []engine.WeightReading
	for _, e := range entries {
		if e.BodyweightKg != nil {
			readings = append(readings, engine.WeightReading{Day: e.Day, Kg: *e.BodyweightKg})
		}
	}

	result, err := mcp.NewToolResultJSON(engine.AdjustFromTrend(readings, profile.Goal))
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getWeeklyTargets(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cycleID, toolErr := requireUUID(req, "cycle_id")
	if toolErr != nil {
		return toolErr, nil
	}

	targets, err := h.ds.ListWeeklyTargets(ctx, cycleID)
	if err != nil {
		h.log.Error("mcp get_weekly_targets", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(targets)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func requireUUID(req mcp.CallToolRequest, name string) (uuid.UUID, *mcp.CallToolResult) {
	raw, err := req.RequireString(name)
	if err != nil {
		return uuid.Nil, mcp.NewToolResultError(name + " parameter is required")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, mcp.NewToolResultError(name + " must be a valid UUID")
	}
	return id, nil
}
