package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/meltforce/autoreg/internal/engine"
	"github.com/meltforce/autoreg/internal/models"
	"github.com/meltforce/autoreg/internal/storage"
)

// handleLogSet is the logging collaborator's write path: it appends one set
// record and bumps the matching weekly target's actual_sets counter.
func (s *Server) handleLogSet(w http.ResponseWriter, r *http.Request) {
	var set models.SetRecord
	if err := json.NewDecoder(r.Body).Decode(&set); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	// The estimator's contract doubles as set validation.
	if _, err := engine.EstimateWithRIR(set.LoadKg, set.CompletedReps, set.RIRActual); err != nil {
		if errors.Is(err, engine.ErrInvalidArgument) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	if set.ID == uuid.Nil {
		set.ID = uuid.New()
	}
	if set.CreatedAt.IsZero() {
		set.CreatedAt = time.Now()
	}

	if err := s.db.LogSet(r.Context(), set); err != nil {
		s.log.Error("set logging failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusCreated, set)
}

func (s *Server) handleLogRecovery(w http.ResponseWriter, r *http.Request) {
	var e models.RecoveryEntry
	if err := json.NewDecoder(r.Body).Decode(&e); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if e.UserID == 0 {
		e.UserID = userID(r)
	}
	if e.Day.IsZero() {
		e.Day = time.Now().Truncate(24 * time.Hour)
	}

	if err := s.db.UpsertRecoveryEntry(r.Context(), e); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusCreated, e)
}

func (s *Server) handleLogNutrition(w http.ResponseWriter, r *http.Request) {
	var e models.NutritionEntry
	if err := json.NewDecoder(r.Body).Decode(&e); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if e.UserID == 0 {
		e.UserID = userID(r)
	}
	if e.Day.IsZero() {
		e.Day = time.Now().Truncate(24 * time.Hour)
	}

	if err := s.db.UpsertNutritionEntry(r.Context(), e); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusCreated, e)
}

// handleCreateCycle creates a cycle plus its full weekly-target grid from the
// progression curve.
func (s *Server) handleCreateCycle(w http.ResponseWriter, r *http.Request) {
	var body struct {
		UserID      int                  `json:"user_id"`
		StartDate   time.Time            `json:"start_date"`
		LengthWeeks int                  `json:"length_weeks"`
		EffortScale models.EffortScale   `json:"effort_scale"`
		BaseTargets []storage.BaseTarget `json:"base_targets"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if body.LengthWeeks <= 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "length_weeks must be positive"})
		return
	}
	if len(body.BaseTargets) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "at least one base target required"})
		return
	}
	if body.UserID == 0 {
		body.UserID = userID(r)
	}
	if body.EffortScale == "" {
		body.EffortScale = models.EffortRIR
	}

	cycle := models.TrainingCycle{
		ID:          uuid.New(),
		UserID:      body.UserID,
		StartDate:   body.StartDate,
		LengthWeeks: body.LengthWeeks,
		Status:      models.CyclePlanned,
		EffortScale: body.EffortScale,
	}

	if err := s.db.CreateCycle(r.Context(), cycle, body.BaseTargets); err != nil {
		s.log.Error("cycle creation failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusCreated, cycle)
}
