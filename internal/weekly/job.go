package weekly

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/meltforce/autoreg/internal/engine"
	"github.com/meltforce/autoreg/internal/models"
	"golang.org/x/sync/errgroup"
)

// DefaultWorkers bounds how many cycles are processed concurrently.
const DefaultWorkers = 4

// casRetries bounds re-reads when a target's version moves mid-write.
const casRetries = 3

// Job is the weekly target auto-adjustment batch.
type Job struct {
	store   Store
	journal *Journal
	workers int
	log     *slog.Logger
}

// New creates a Job. journal may be nil to skip run bookkeeping.
func New(store Store, journal *Journal, workers int, log *slog.Logger) *Job {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	return &Job{store: store, journal: journal, workers: workers, log: log}
}

// CycleResult is the outcome of one cycle's processing.
type CycleResult struct {
	CycleID  uuid.UUID `json:"cycle_id"`
	Week     int       `json:"week"`
	Adjusted int       `json:"adjusted"`
	Skipped  int       `json:"skipped"`
	Err      string    `json:"error,omitempty"`
}

// Report summarizes one job run.
type Report struct {
	StartedAt       time.Time     `json:"started_at"`
	Trigger         string        `json:"trigger"`
	CyclesProcessed int           `json:"cycles_processed"`
	CyclesFailed    int           `json:"cycles_failed"`
	TargetsAdjusted int           `json:"targets_adjusted"`
	TargetsSkipped  int           `json:"targets_skipped"`
	Results         []CycleResult `json:"results"`
}

// Run processes every active cycle with bounded concurrency. A cycle's
// failure is recorded and does not stop the rest of the batch; Run only
// returns an error when the cycle listing itself fails.
func (j *Job) Run(ctx context.Context, now time.Time, trigger string) (*Report, error) {
	cycles, err := j.store.ActiveCycles(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing active cycles: %w", err)
	}

	report := &Report{
		StartedAt: now,
		Trigger:   trigger,
		Results:   make([]CycleResult, len(cycles)),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(j.workers)
	for i, cycle := range cycles {
		g.Go(func() error {
			res := j.processCycle(gctx, cycle, now)
			if res.Err != "" {
				j.log.Error("cycle processing failed", "cycle", cycle.ID, "error", res.Err)
			}
			report.Results[i] = res
			return nil
		})
	}
	_ = g.Wait() // workers never return errors; failures live in the results

	for _, r := range report.Results {
		report.CyclesProcessed++
		if r.Err != "" {
			report.CyclesFailed++
		}
		report.TargetsAdjusted += r.Adjusted
		report.TargetsSkipped += r.Skipped
	}

	j.log.Info("weekly adjustment finished",
		"cycles", report.CyclesProcessed,
		"failed", report.CyclesFailed,
		"adjusted", report.TargetsAdjusted,
		"skipped", report.TargetsSkipped,
	)

	if j.journal != nil {
		if err := j.journal.Record(report); err != nil {
			j.log.Warn("journal write failed", "error", err)
		}
	}
	return report, nil
}

func (j *Job) processCycle(ctx context.Context, cycle models.TrainingCycle, now time.Time) CycleResult {
	week := engine.CurrentWeek(now, cycle.StartDate)
	res := CycleResult{CycleID: cycle.ID, Week: week}

	if week >= cycle.LengthWeeks {
		// The deload week has no following week to adjust.
		return res
	}

	weekStart := cycle.StartDate.AddDate(0, 0, (week-1)*7)
	weekEnd := weekStart.AddDate(0, 0, 7)

	sets, err := j.store.CompletedSetsForWeek(ctx, cycle.ID, weekStart, weekEnd)
	if err != nil {
		res.Err = fmt.Sprintf("reading completed sets: %v", err)
		return res
	}
	if len(sets) == 0 {
		return res
	}

	ids := exerciseIDs(sets)
	muscles, err := j.store.PrimeMuscles(ctx, ids)
	if err != nil {
		res.Err = fmt.Sprintf("reading prime muscles: %v", err)
		return res
	}

	for _, stats := range engine.AggregateMuscleStats(sets, muscles) {
		adjusted, err := j.adjustMuscle(ctx, cycle, week, stats)
		if err != nil {
			// One muscle's failure must not abort the cycle's remaining muscles.
			j.log.Warn("muscle adjustment failed",
				"cycle", cycle.ID, "muscle", stats.Muscle, "error", err)
			res.Skipped++
			continue
		}
		if adjusted {
			res.Adjusted++
		} else {
			res.Skipped++
		}
	}
	return res
}

// adjustMuscle applies the weekly rule for one muscle and conditionally
// rewrites next week's target. Returns false when nothing needed to change or
// the target was already adjusted from this week's stats.
func (j *Job) adjustMuscle(ctx context.Context, cycle models.TrainingCycle, week int, stats engine.MuscleWeekStats) (bool, error) {
	current, err := j.store.WeeklyTargetRow(ctx, cycle.ID, stats.Muscle, week)
	if err != nil {
		return false, err
	}
	if current == nil {
		return false, fmt.Errorf("no target row for muscle %q week %d", stats.Muscle, week)
	}

	adjustment, reason := engine.WeeklyAdjustment(stats, *current)
	if adjustment == 0 {
		return false, nil
	}

	for attempt := 0; attempt < casRetries; attempt++ {
		next, err := j.store.WeeklyTargetRow(ctx, cycle.ID, stats.Muscle, week+1)
		if err != nil {
			return false, err
		}
		if next == nil {
			return false, fmt.Errorf("no target row for muscle %q week %d", stats.Muscle, week+1)
		}
		if next.LastAdjustedWeek >= week {
			// Already adjusted from this week's stats: re-running is a no-op.
			return false, nil
		}

		updated := engine.ApplyAdjustment(*next, adjustment)
		ok, err := j.store.UpdateWeeklyTarget(ctx, updated, next.Version, week)
		if err != nil {
			return false, err
		}
		if ok {
			j.log.Info("weekly target adjusted",
				"cycle", cycle.ID, "muscle", stats.Muscle,
				"week", week+1, "adjustment", adjustment, "reason", reason,
				"target", updated.SetsTarget)
			return true, nil
		}
		// Version moved (a set increment landed between read and write); re-read.
	}
	return false, fmt.Errorf("target for muscle %q week %d kept moving, giving up", stats.Muscle, week+1)
}

func exerciseIDs(sets []models.SetRecord) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(sets))
	ids := make([]uuid.UUID, 0, len(sets))
	for _, s := range sets {
		if _, ok := seen[s.ExerciseID]; ok {
			continue
		}
		seen[s.ExerciseID] = struct{}{}
		ids = append(ids, s.ExerciseID)
	}
	return ids
}
