// Package server exposes the autoregulation engine over HTTP.
package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/meltforce/autoreg/internal/storage"
	"github.com/meltforce/autoreg/internal/weekly"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	db     *storage.DB
	job    *weekly.Job
	log    *slog.Logger
	apiKey string
	router chi.Router
}

// New creates a new Server with all routes configured.
func New(db *storage.DB, job *weekly.Job, apiKey string, log *slog.Logger) *Server {
	s := &Server{
		db:     db,
		job:    job,
		log:    log,
		apiKey: apiKey,
		router: chi.NewRouter(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)

	// Logging collaborator endpoints (API key required)
	s.router.Route("/api/v1/log", func(r chi.Router) {
		r.Use(APIKeyAuth(s.apiKey))
		r.Post("/sets", s.handleLogSet)
		r.Post("/recovery", s.handleLogRecovery)
		r.Post("/nutrition", s.handleLogNutrition)
	})

	// Admin (API key required)
	s.router.Route("/api/v1/admin", func(r chi.Router) {
		r.Use(APIKeyAuth(s.apiKey))
		r.Post("/weekly-run", s.handleWeeklyRun)
	})

	// Engine endpoints
	s.router.Get("/api/v1/exercises", s.handleListExercises)
	s.router.Get("/api/v1/exercises/{id}/suggestion", s.handleSuggestion)
	s.router.Get("/api/v1/exercises/{id}/plateau", s.handlePlateau)
	s.router.Post("/api/v1/sessions/volume", s.handleSessionVolume)
	s.router.Get("/api/v1/recovery/score", s.handleRecoveryScore)
	s.router.Post("/api/v1/recovery/score", s.handleRecoveryScoreDirect)
	s.router.Get("/api/v1/nutrition/targets", s.handleNutritionTargets)
	s.router.Put("/api/v1/nutrition/profile", s.handleNutritionProfile)
	s.router.Get("/api/v1/nutrition/compliance", s.handleNutritionCompliance)
	s.router.Get("/api/v1/nutrition/trend", s.handleNutritionTrend)
	s.router.Post("/api/v1/cycles", s.handleCreateCycle)
	s.router.Get("/api/v1/cycles/{id}/targets", s.handleCycleTargets)

	s.router.Get("/healthz", s.handleHealthz)
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
