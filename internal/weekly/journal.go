package weekly

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Journal is a local SQLite ledger of job runs, kept beside the binary for
// ops inspection. It is bookkeeping only; the idempotency guard lives in the
// weekly_targets rows themselves.
type Journal struct {
	db *sql.DB
}

// OpenJournal opens (or creates) the run ledger at dir/weekly.db.
func OpenJournal(dir string) (*Journal, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating journal dir %s: %w", dir, err)
	}

	dbPath := filepath.Join(dir, "weekly.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening journal db: %w", err)
	}

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS job_runs (
		id               INTEGER PRIMARY KEY AUTOINCREMENT,
		started_at       TIMESTAMP NOT NULL,
		trigger_source   TEXT NOT NULL,
		cycles_processed INTEGER NOT NULL,
		cycles_failed    INTEGER NOT NULL,
		targets_adjusted INTEGER NOT NULL,
		targets_skipped  INTEGER NOT NULL
	)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating job_runs table: %w", err)
	}

	return &Journal{db: db}, nil
}

// Record appends one run's summary.
func (j *Journal) Record(r *Report) error {
	_, err := j.db.Exec(
		`INSERT INTO job_runs (started_at, trigger_source, cycles_processed, cycles_failed, targets_adjusted, targets_skipped)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		r.StartedAt, r.Trigger, r.CyclesProcessed, r.CyclesFailed, r.TargetsAdjusted, r.TargetsSkipped)
	if err != nil {
		return fmt.Errorf("recording job run: %w", err)
	}
	return nil
}

// RunSummary is one journal row.
type RunSummary struct {
	ID              int64     `json:"id"`
	StartedAt       time.Time `json:"started_at"`
	Trigger         string    `json:"trigger"`
	CyclesProcessed int       `json:"cycles_processed"`
	CyclesFailed    int       `json:"cycles_failed"`
	TargetsAdjusted int       `json:"targets_adjusted"`
	TargetsSkipped  int       `json:"targets_skipped"`
}

// Recent returns the latest n runs, newest first.
func (j *Journal) Recent(n int) ([]RunSummary, error) {
	if n <= 0 {
		n = 10
	}
	rows, err := j.db.Query(
		`SELECT id, started_at, trigger_source, cycles_processed, cycles_failed, targets_adjusted, targets_skipped
		 FROM job_runs ORDER BY id DESC LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("querying job runs: %w", err)
	}
	defer rows.Close()

	var result []RunSummary
	for rows.Next() {
		var r RunSummary
		if err := rows.Scan(&r.ID, &r.StartedAt, &r.Trigger, &r.CyclesProcessed,
			&r.CyclesFailed, &r.TargetsAdjusted, &r.TargetsSkipped); err != nil {
			return nil, fmt.Errorf("scanning job run: %w", err)
		}
		result = append(result, r)
	}
	return result, rows.Err()
}

// Close closes the ledger.
func (j *Journal) Close() error {
	return j.db.Close()
}
