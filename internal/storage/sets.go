package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/meltforce/autoreg/internal/engine"
	"github.com/meltforce/autoreg/internal/models"
)

// ExerciseHistory returns an athlete's recent sets for one exercise, ordered
// oldest to newest, as the suggestion engine and plateau detector expect.
func (db *DB) ExerciseHistory(ctx context.Context, userID int, exerciseID uuid.UUID, limit int) ([]models.SetRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := db.Pool.Query(ctx,
		`SELECT sr.id, sr.session_id, sr.exercise_id, sr.load_kg, sr.completed_reps,
		        sr.rir_actual, sr.rpe, sr.perceived_pump, sr.perceived_soreness, sr.created_at
		 FROM set_records sr
		 JOIN sessions s ON s.id = sr.session_id
		 WHERE s.user_id = $1 AND sr.exercise_id = $2
		 ORDER BY sr.created_at DESC
		 LIMIT $3`,
		userID, exerciseID, limit)
	if err != nil {
		return nil, fmt.Errorf("querying exercise history: %w", err)
	}
	defer rows.Close()

	result, err := scanSetRecords(rows)
	if err != nil {
		return nil, err
	}

	// Reverse the newest-first page into chronological order.
	for i, j := 0, len(result)-1; i < j; i, j = i+1, j-1 {
		result[i], result[j] = result[j], result[i]
	}
	return result, nil
}

// CompletedSetsForWeek returns all sets logged against completed sessions of
// one cycle within [start, end).
func (db *DB) CompletedSetsForWeek(ctx context.Context, cycleID uuid.UUID, start, end time.Time) ([]models.SetRecord, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT sr.id, sr.session_id, sr.exercise_id, sr.load_kg, sr.completed_reps,
		        sr.rir_actual, sr.rpe, sr.perceived_pump, sr.perceived_soreness, sr.created_at
		 FROM set_records sr
		 JOIN sessions s ON s.id = sr.session_id
		 WHERE s.cycle_id = $1 AND s.completed
		   AND sr.created_at >= $2 AND sr.created_at < $3
		 ORDER BY sr.created_at`,
		cycleID, start, end)
	if err != nil {
		return nil, fmt.Errorf("querying completed sets: %w", err)
	}
	defer rows.Close()

	return scanSetRecords(rows)
}

// LogSet inserts one set record and atomically bumps the matching weekly
// target's actual_sets counter in the same transaction. The increment is a
// plain UPDATE so it can never lose against the weekly job's versioned write.
func (db *DB) LogSet(ctx context.Context, set models.SetRecord) error {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`INSERT INTO set_records (id, session_id, exercise_id, load_kg, completed_reps,
		                          rir_actual, rpe, perceived_pump, perceived_soreness, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		set.ID, set.SessionID, set.ExerciseID, set.LoadKg, set.CompletedReps,
		set.RIRActual, set.RPE, set.PerceivedPump, set.PerceivedSoreness, set.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting set record: %w", err)
	}

	// Resolve the (cycle, muscle, week) this set counts toward.
	var cycleID uuid.UUID
	var cycleStart time.Time
	var muscle string
	err = tx.QueryRow(ctx,
		`SELECT s.cycle_id, tc.start_date, e.prime_muscle
		 FROM sessions s
		 JOIN training_cycles tc ON tc.id = s.cycle_id
		 JOIN exercises e ON e.id = $2
		 WHERE s.id = $1`,
		set.SessionID, set.ExerciseID).Scan(&cycleID, &cycleStart, &muscle)
	if err != nil {
		return fmt.Errorf("resolving set target: %w", err)
	}

	week := engine.CurrentWeek(set.CreatedAt, cycleStart)
	tag, err := tx.Exec(ctx,
		`UPDATE weekly_targets
		 SET actual_sets = actual_sets + 1, version = version + 1
		 WHERE cycle_id = $1 AND muscle = $2 AND week_number = $3`,
		cycleID, muscle, week)
	if err != nil {
		return fmt.Errorf("incrementing actual sets: %w", err)
	}
	_ = tag // a set logged past the cycle's last week simply has no target row

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing set: %w", err)
	}
	return nil
}

type pgxRows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanSetRecords(rows pgxRows) ([]models.SetRecord, error) {
	var result []models.SetRecord
	for rows.Next() {
		var r models.SetRecord
		if err := rows.Scan(&r.ID, &r.SessionID, &r.ExerciseID, &r.LoadKg, &r.CompletedReps,
			&r.RIRActual, &r.RPE, &r.PerceivedPump, &r.PerceivedSoreness, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning set record: %w", err)
		}
		result = append(result, r)
	}
	return result, rows.Err()
}
