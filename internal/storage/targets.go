package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/meltforce/autoreg/internal/models"
)

const weeklyTargetColumns = `cycle_id, muscle, week_number, sets_min, sets_max,
	sets_target, actual_sets, version, last_adjusted_week`

// WeeklyTargetRow returns one target row, or nil when it does not exist.
func (db *DB) WeeklyTargetRow(ctx context.Context, cycleID uuid.UUID, muscle string, week int) (*models.WeeklyTarget, error) {
	var t models.WeeklyTarget
	err := db.Pool.QueryRow(ctx,
		`SELECT `+weeklyTargetColumns+`
		 FROM weekly_targets
		 WHERE cycle_id = $1 AND muscle = $2 AND week_number = $3`,
		cycleID, muscle, week).
		Scan(&t.CycleID, &t.Muscle, &t.WeekNumber, &t.SetsMin, &t.SetsMax,
			&t.SetsTarget, &t.ActualSets, &t.Version, &t.LastAdjustedWeek)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying weekly target: %w", err)
	}
	return &t, nil
}

// ListWeeklyTargets returns all of a cycle's target rows ordered by week then muscle.
func (db *DB) ListWeeklyTargets(ctx context.Context, cycleID uuid.UUID) ([]models.WeeklyTarget, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT `+weeklyTargetColumns+`
		 FROM weekly_targets
		 WHERE cycle_id = $1
		 ORDER BY week_number, muscle`, cycleID)
	if err != nil {
		return nil, fmt.Errorf("querying weekly targets: %w", err)
	}
	defer rows.Close()

	var result []models.WeeklyTarget
	for rows.Next() {
		var t models.WeeklyTarget
		if err := rows.Scan(&t.CycleID, &t.Muscle, &t.WeekNumber, &t.SetsMin, &t.SetsMax,
			&t.SetsTarget, &t.ActualSets, &t.Version, &t.LastAdjustedWeek); err != nil {
			return nil, fmt.Errorf("scanning weekly target: %w", err)
		}
		result = append(result, t)
	}
	return result, rows.Err()
}

// UpdateWeeklyTarget writes an adjusted set range conditionally: the update
// only applies while the row's version still matches expectedVersion, so a
// concurrent actual_sets increment (which also bumps version) forces the
// caller to re-read instead of silently losing its update. The row's
// last_adjusted_week marker is set to sourceWeek, which the weekly job checks
// to keep re-runs from compounding an adjustment.
//
// Returns false when the version no longer matched.
func (db *DB) UpdateWeeklyTarget(ctx context.Context, t models.WeeklyTarget, expectedVersion, sourceWeek int) (bool, error) {
	tag, err := db.Pool.Exec(ctx,
		`UPDATE weekly_targets
		 SET sets_min = $4, sets_max = $5, sets_target = $6,
		     version = version + 1, last_adjusted_week = $7
		 WHERE cycle_id = $1 AND muscle = $2 AND week_number = $3
		   AND version = $8`,
		t.CycleID, t.Muscle, t.WeekNumber, t.SetsMin, t.SetsMax, t.SetsTarget,
		sourceWeek, expectedVersion)
	if err != nil {
		return false, fmt.Errorf("updating weekly target: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}
