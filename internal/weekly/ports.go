// Package weekly implements the scheduled batch that rewrites each active
// cycle's next-week volume targets from this week's aggregated set data. It is
// the only stateful part of the engine; everything it touches goes through
// the collaborator ports below so the job can be driven with fakes in tests
// and with *storage.DB in production.
package weekly

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/meltforce/autoreg/internal/models"
)

// CycleSource supplies the cycles the job iterates.
type CycleSource interface {
	ActiveCycles(ctx context.Context) ([]models.TrainingCycle, error)
}

// SetSource supplies a cycle's completed working sets for one week window.
type SetSource interface {
	CompletedSetsForWeek(ctx context.Context, cycleID uuid.UUID, start, end time.Time) ([]models.SetRecord, error)
}

// ExerciseCatalog maps exercises to their prime muscle.
type ExerciseCatalog interface {
	PrimeMuscles(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error)
}

// TargetStore reads and conditionally rewrites weekly target rows. Update
// must be a compare-and-swap on the row version: it returns false, without
// writing, when the version moved underneath the caller.
type TargetStore interface {
	WeeklyTargetRow(ctx context.Context, cycleID uuid.UUID, muscle string, week int) (*models.WeeklyTarget, error)
	UpdateWeeklyTarget(ctx context.Context, t models.WeeklyTarget, expectedVersion, sourceWeek int) (bool, error)
}

// Store bundles every port the job needs; *storage.DB satisfies it.
type Store interface {
	CycleSource
	SetSource
	ExerciseCatalog
	TargetStore
}
