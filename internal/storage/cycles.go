package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/meltforce/autoreg/internal/engine"
	"github.com/meltforce/autoreg/internal/models"
)

// ActiveCycles returns every cycle currently in the active state.
func (db *DB) ActiveCycles(ctx context.Context) ([]models.TrainingCycle, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, user_id, start_date, length_weeks, status, effort_scale
		 FROM training_cycles
		 WHERE status = $1
		 ORDER BY start_date`, models.CycleActive)
	if err != nil {
		return nil, fmt.Errorf("querying active cycles: %w", err)
	}
	defer rows.Close()

	var result []models.TrainingCycle
	for rows.Next() {
		var c models.TrainingCycle
		if err := rows.Scan(&c.ID, &c.UserID, &c.StartDate, &c.LengthWeeks, &c.Status, &c.EffortScale); err != nil {
			return nil, fmt.Errorf("scanning cycle: %w", err)
		}
		result = append(result, c)
	}
	return result, rows.Err()
}

// GetCycle returns one cycle, or nil when the ID is unknown.
func (db *DB) GetCycle(ctx context.Context, id uuid.UUID) (*models.TrainingCycle, error) {
	var c models.TrainingCycle
	err := db.Pool.QueryRow(ctx,
		`SELECT id, user_id, start_date, length_weeks, status, effort_scale
		 FROM training_cycles WHERE id = $1`, id).
		Scan(&c.ID, &c.UserID, &c.StartDate, &c.LengthWeeks, &c.Status, &c.EffortScale)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying cycle %s: %w", id, err)
	}
	return &c, nil
}

// BaseTarget is the full-volume set range for one muscle, from which the
// progression curve derives each week's row.
type BaseTarget struct {
	Muscle     string `json:"muscle"`
	SetsMin    int    `json:"sets_min"`
	SetsMax    int    `json:"sets_max"`
	SetsTarget int    `json:"sets_target"`
}

// CreateCycle inserts a cycle and its complete (muscle × week) weekly-target
// grid in one transaction, scaling each week by the progression curve.
func (db *DB) CreateCycle(ctx context.Context, c models.TrainingCycle, base []BaseTarget) error {
	if c.LengthWeeks <= 0 {
		return fmt.Errorf("cycle length must be positive, got %d", c.LengthWeeks)
	}

	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`INSERT INTO training_cycles (id, user_id, start_date, length_weeks, status, effort_scale)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		c.ID, c.UserID, c.StartDate, c.LengthWeeks, c.Status, c.EffortScale)
	if err != nil {
		return fmt.Errorf("inserting cycle: %w", err)
	}

	for _, b := range base {
		for week := 1; week <= c.LengthWeeks; week++ {
			frac := engine.WeekFraction(week, c.LengthWeeks)
			setsMin, setsMax, setsTarget := engine.ScaleTarget(b.SetsMin, b.SetsMax, b.SetsTarget, frac)
			_, err = tx.Exec(ctx,
				`INSERT INTO weekly_targets (cycle_id, muscle, week_number, sets_min, sets_max, sets_target)
				 VALUES ($1, $2, $3, $4, $5, $6)`,
				c.ID, b.Muscle, week, setsMin, setsMax, setsTarget)
			if err != nil {
				return fmt.Errorf("inserting weekly target %s week %d: %w", b.Muscle, week, err)
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing cycle creation: %w", err)
	}
	return nil
}
