package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/meltforce/autoreg/internal/engine"
)

func (s *Server) handleListExercises(w http.ResponseWriter, r *http.Request) {
	exercises, err := s.db.ListExercises(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, exercises)
}

func (s *Server) handleSuggestion(w http.ResponseWriter, r *http.Request) {
	exerciseID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid exercise ID"})
		return
	}

	targetReps := queryInt(r, "target_reps", engine.DefaultTargetReps)
	history, err := s.db.ExerciseHistory(r.Context(), userID(r), exerciseID, 20)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, engine.SuggestNextSet(history, targetReps))
}

func (s *Server) handlePlateau(w http.ResponseWriter, r *http.Request) {
	exerciseID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid exercise ID"})
		return
	}

	threshold := queryInt(r, "threshold", engine.DefaultPlateauThreshold)
	history, err := s.db.ExerciseHistory(r.Context(), userID(r), exerciseID, 20)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, engine.DetectPlateau(history, threshold))
}

func (s *Server) handleSessionVolume(w http.ResponseWriter, r *http.Request) {
	var body struct {
		PumpScores     []float64 `json:"pump_scores"`
		SorenessScores []float64 `json:"soreness_scores"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if !scoresInRange(body.PumpScores) || !scoresInRange(body.SorenessScores) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "scores must be between 0 and 10"})
		return
	}

	writeJSON(w, http.StatusOK, engine.AdjustSessionVolume(body.PumpScores, body.SorenessScores))
}

// recoveryResponse wraps the score with its derived training modifiers.
type recoveryResponse struct {
	engine.RecoveryScore
	VolumeMultiplier float64 `json:"volume_multiplier"`
}

func (s *Server) handleRecoveryScore(w http.ResponseWriter, r *http.Request) {
	uid := userID(r)
	days := queryInt(r, "days", 7)
	end := time.Now()
	start := end.AddDate(0, 0, -days)

	entries, err := s.db.RecoveryWindow(r.Context(), uid, start, end)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if len(entries) == 0 {
		writeJSON(w, http.StatusOK, map[string]any{
			"available": false,
			"reason":    "no recovery entries in window",
		})
		return
	}

	adherence, err := s.db.AdherencePercent(r.Context(), uid, start, end)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
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
	writeJSON(w, http.StatusOK, recoveryResponse{
		RecoveryScore:    score,
		VolumeMultiplier: engine.VolumeMultiplier(score.Score),
	})
}

func (s *Server) handleRecoveryScoreDirect(w http.ResponseWriter, r *http.Request) {
	var in engine.RecoveryInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	score := engine.ScoreRecovery(in)
	writeJSON(w, http.StatusOK, recoveryResponse{
		RecoveryScore:    score,
		VolumeMultiplier: engine.VolumeMultiplier(score.Score),
	})
}

func (s *Server) handleCycleTargets(w http.ResponseWriter, r *http.Request) {
	cycleID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid cycle ID"})
		return
	}

	targets, err := s.db.ListWeeklyTargets(r.Context(), cycleID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, targets)
}

func (s *Server) handleWeeklyRun(w http.ResponseWriter, r *http.Request) {
	report, err := s.job.Run(r.Context(), time.Now(), "manual")
	if err != nil {
		s.log.Error("manual weekly run failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// userID reads the athlete from the query, defaulting to the single-user
// deployment's user 1.
func userID(r *http.Request) int {
	if v, err := strconv.Atoi(r.URL.Query().Get("user_id")); err == nil && v > 0 {
		return v
	}
	return 1
}

func queryInt(r *http.Request, name string, def int) int {
	if v, err := strconv.Atoi(r.URL.Query().Get(name)); err == nil && v > 0 {
		return v
	}
	return def
}

func scoresInRange(scores []float64) bool {
	for _, s := range scores {
		if s < 0 || s > 10 {
			return false
		}
	}
	return true
}
