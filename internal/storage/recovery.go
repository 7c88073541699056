package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/meltforce/autoreg/internal/models"
)

// UpsertRecoveryEntry writes one athlete-day of readiness signals, replacing
// any earlier entry for the same day.
func (db *DB) UpsertRecoveryEntry(ctx context.Context, e models.RecoveryEntry) error {
	_, err := db.Pool.Exec(ctx,
		`INSERT INTO recovery_entries (user_id, day, sleep_hours, hrv_ms, resting_hr_bpm, soreness)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (user_id, day) DO UPDATE
		 SET sleep_hours = EXCLUDED.sleep_hours, hrv_ms = EXCLUDED.hrv_ms,
		     resting_hr_bpm = EXCLUDED.resting_hr_bpm, soreness = EXCLUDED.soreness`,
		e.UserID, e.Day, e.SleepHours, e.HRVMs, e.RestingHRBpm, e.Soreness)
	if err != nil {
		return fmt.Errorf("upserting recovery entry: %w", err)
	}
	return nil
}

// RecoveryWindow returns an athlete's daily entries in [start, end), oldest first.
func (db *DB) RecoveryWindow(ctx context.Context, userID int, start, end time.Time) ([]models.RecoveryEntry, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT user_id, day, sleep_hours, hrv_ms, resting_hr_bpm, soreness
		 FROM recovery_entries
		 WHERE user_id = $1 AND day >= $2 AND day < $3
		 ORDER BY day`,
		userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("querying recovery entries: %w", err)
	}
	defer rows.Close()

	var result []models.RecoveryEntry
	for rows.Next() {
		var e models.RecoveryEntry
		if err := rows.Scan(&e.UserID, &e.Day, &e.SleepHours, &e.HRVMs, &e.RestingHRBpm, &e.Soreness); err != nil {
			return nil, fmt.Errorf("scanning recovery entry: %w", err)
		}
		result = append(result, e)
	}
	return result, rows.Err()
}

// AdherencePercent is the share of an athlete's scheduled sessions in
// [start, end) that were completed, as a 0-100 percentage. No scheduled
// sessions counts as full adherence.
func (db *DB) AdherencePercent(ctx context.Context, userID int, start, end time.Time) (float64, error) {
	var planned, completed int
	err := db.Pool.QueryRow(ctx,
		`SELECT COUNT(*)::int, COUNT(*) FILTER (WHERE completed)::int
		 FROM sessions
		 WHERE user_id = $1 AND scheduled_date >= $2 AND scheduled_date < $3`,
		userID, start, end).Scan(&planned, &completed)
	if err != nil {
		return 0, fmt.Errorf("querying adherence: %w", err)
	}
	if planned == 0 {
		return 100, nil
	}
	return float64(completed) / float64(planned) * 100, nil
}
