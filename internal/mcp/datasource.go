package mcp

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/meltforce/autoreg/internal/models"
	"github.com/meltforce/autoreg/internal/storage"
)

// DataSource abstracts the data layer for MCP tools so handlers can be tested
// without a database. *storage.DB is the production implementation.
type DataSource interface {
	ListExercises(ctx context.Context) ([]models.ExerciseRef, error)
	ExerciseHistory(ctx context.Context, userID int, exerciseID uuid.UUID, limit int) ([]models.SetRecord, error)
	RecoveryWindow(ctx context.Context, userID int, start, end time.Time) ([]models.RecoveryEntry, error)
	AdherencePercent(ctx context.Context, userID int, start, end time.Time) (float64, error)
	GetNutritionProfile(ctx context.Context, userID int) (*models.NutritionProfile, error)
	NutritionWindow(ctx context.Context, userID int, start, end time.Time) ([]models.NutritionEntry, error)
	ListWeeklyTargets(ctx context.Context, cycleID uuid.UUID) ([]models.WeeklyTarget, error)
}

// Compile-time check: *storage.DB satisfies DataSource.
var _ DataSource = (*storage.DB)(nil)
