package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/meltforce/autoreg/internal/engine"
	"github.com/meltforce/autoreg/internal/models"
)

func (s *Server) handleNutritionProfile(w http.ResponseWriter, r *http.Request) {
	var p models.NutritionProfile
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if p.UserID == 0 {
		p.UserID = userID(r)
	}

	// Reject malformed profiles up front with the same validation the
	// requirement calculation applies.
	if _, err := engine.CalculateTargets(p); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	if err := s.db.UpsertNutritionProfile(r.Context(), p); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleNutritionTargets(w http.ResponseWriter, r *http.Request) {
	profile, err := s.loadProfile(w, r)
	if profile == nil || err != nil {
		return
	}

	targets, err := engine.CalculateTargets(*profile)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, targets)
}

func (s *Server) handleNutritionCompliance(w http.ResponseWriter, r *http.Request) {
	profile, err := s.loadProfile(w, r)
	if profile == nil || err != nil {
		return
	}

	days := queryInt(r, "days", 7)
	end := time.Now()
	entries, err := s.db.NutritionWindow(r.Context(), profile.UserID, end.AddDate(0, 0, -days), end)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if len(entries) == 0 {
		writeJSON(w, http.StatusOK, map[string]any{
			"available": false,
			"reason":    "no nutrition entries in window",
		})
		return
	}

	var calories, protein float64
	for _, e := range entries {
		calories += e.Calories
		protein += e.ProteinG
	}
	n := float64(len(entries))

	targets, err := engine.CalculateTargets(*profile)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	result, err := engine.AssessCompliance(calories/n, protein/n, targets)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleNutritionTrend(w http.ResponseWriter, r *http.Request) {
	profile, err := s.loadProfile(w, r)
	if profile == nil || err != nil {
		return
	}

	days := queryInt(r, "days", 28)
	end := time.Now()
	entries, err := s.db.NutritionWindow(r.Context(), profile.UserID, end.AddDate(0, 0, -days), end)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	var readings []engine.WeightReading
	for _, e := range entries {
		if e.BodyweightKg != nil {
			readings = append(readings, engine.WeightReading{Day: e.Day, Kg: *e.BodyweightKg})
		}
	}

	writeJSON(w, http.StatusOK, engine.AdjustFromTrend(readings, profile.Goal))
}

// loadProfile fetches the athlete's profile, writing the error response
// itself when the profile is missing or the read fails.
func (s *Server) loadProfile(w http.ResponseWriter, r *http.Request) (*models.NutritionProfile, error) {
	profile, err := s.db.GetNutritionProfile(r.Context(), userID(r))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return nil, err
	}
	if profile == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no nutrition profile for user"})
		return nil, nil
	}
	return profile, nil
}
