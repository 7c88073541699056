package weekly

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/meltforce/autoreg/internal/models"
)

// fakeStore is an in-memory Store with the same CAS semantics as the
// Postgres implementation.
type fakeStore struct {
	mu      sync.Mutex
	cycles  []models.TrainingCycle
	sets    map[uuid.UUID][]models.SetRecord
	setsErr map[uuid.UUID]error
	muscles map[uuid.UUID]string
	targets map[string]*models.WeeklyTarget

	// failUpdates makes the first n UpdateWeeklyTarget calls miss their CAS.
	failUpdates int
}

func targetKey(cycleID uuid.UUID, muscle string, week int) string {
	return fmt.Sprintf("%s|%s|%d", cycleID, muscle, week)
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		sets:    make(map[uuid.UUID][]models.SetRecord),
		setsErr: make(map[uuid.UUID]error),
		muscles: make(map[uuid.UUID]string),
		targets: make(map[string]*models.WeeklyTarget),
	}
}

func (f *fakeStore) ActiveCycles(ctx context.Context) ([]models.TrainingCycle, error) {
	return f.cycles, nil
}

func (f *fakeStore) CompletedSetsForWeek(ctx context.Context, cycleID uuid.UUID, start, end time.Time) ([]models.SetRecord, error) {
	if err := f.setsErr[cycleID]; err != nil {
		return nil, err
	}
	return f.sets[cycleID], nil
}

func (f *fakeStore) PrimeMuscles(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error) {
	return f.muscles, nil
}

func (f *fakeStore) WeeklyTargetRow(ctx context.Context, cycleID uuid.UUID, muscle string, week int) (*models.WeeklyTarget, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.targets[targetKey(cycleID, muscle, week)]
	if !ok {
		return nil, nil
	}
	cp := *t
	return &cp, nil
}

func (f *fakeStore) UpdateWeeklyTarget(ctx context.Context, t models.WeeklyTarget, expectedVersion, sourceWeek int) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failUpdates > 0 {
		f.failUpdates--
		return false, nil
	}
	existing, ok := f.targets[targetKey(t.CycleID, t.Muscle, t.WeekNumber)]
	if !ok || existing.Version != expectedVersion {
		return false, nil
	}
	t.Version = existing.Version + 1
	t.LastAdjustedWeek = sourceWeek
	f.targets[targetKey(t.CycleID, t.Muscle, t.WeekNumber)] = &t
	return true, nil
}

func (f *fakeStore) addTarget(cycleID uuid.UUID, muscle string, week, setsMin, setsMax, setsTarget int) {
	f.targets[targetKey(cycleID, muscle, week)] = &models.WeeklyTarget{
		CycleID: cycleID, Muscle: muscle, WeekNumber: week,
		SetsMin: setsMin, SetsMax: setsMax, SetsTarget: setsTarget,
	}
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func fatigueSets(exercise uuid.UUID, n int) []models.SetRecord {
	pump, soreness := 9.0, 9.0
	sets := make([]models.SetRecord, n)
	for i := range sets {
		sets[i] = models.SetRecord{
			ExerciseID:        exercise,
			RIRActual:         1,
			PerceivedPump:     &pump,
			PerceivedSoreness: &soreness,
		}
	}
	return sets
}

func TestRunAppliesFatigueAdjustment(t *testing.T) {
	chest := uuid.New()
	cycleID := uuid.New()
	start := time.Date(2026, 8, 3, 0, 0, 0, 0, time.UTC)
	now := start.AddDate(0, 0, 10) // week 2

	store := newFakeStore()
	store.cycles = []models.TrainingCycle{{
		ID: cycleID, UserID: 1, StartDate: start, LengthWeeks: 6,
		Status: models.CycleActive, EffortScale: models.EffortRIR,
	}}
	store.muscles[chest] = "chest"
	store.sets[cycleID] = fatigueSets(chest, 12)
	store.addTarget(cycleID, "chest", 2, 10, 14, 12)
	store.addTarget(cycleID, "chest", 3, 10, 14, 12)

	job := New(store, nil, 2, testLogger())
	report, err := job.Run(context.Background(), now, "test")
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}

	if report.TargetsAdjusted != 1 {
		t.Fatalf("targets adjusted = %d, want 1", report.TargetsAdjusted)
	}
	next := store.targets[targetKey(cycleID, "chest", 3)]
	// 12 × 0.9 = 10.8 → 11, min 9, max 13.
	if next.SetsTarget != 11 || next.SetsMin != 9 || next.SetsMax != 13 {
		t.Errorf("next week target = %d/%d/%d, want 11/9/13", next.SetsTarget, next.SetsMin, next.SetsMax)
	}
	if next.LastAdjustedWeek != 2 {
		t.Errorf("last adjusted week = %d, want 2", next.LastAdjustedWeek)
	}
}

func TestRunIsIdempotentPerWeek(t *testing.T) {
	chest := uuid.New()
	cycleID := uuid.New()
	start := time.Date(2026, 8, 3, 0, 0, 0, 0, time.UTC)
	now := start.AddDate(0, 0, 10)

	store := newFakeStore()
	store.cycles = []models.TrainingCycle{{
		ID: cycleID, StartDate: start, LengthWeeks: 6, Status: models.CycleActive,
	}}
	store.muscles[chest] = "chest"
	store.sets[cycleID] = fatigueSets(chest, 12)
	store.addTarget(cycleID, "chest", 2, 10, 14, 12)
	store.addTarget(cycleID, "chest", 3, 10, 14, 12)

	job := New(store, nil, 1, testLogger())
	if _, err := job.Run(context.Background(), now, "test"); err != nil {
		t.Fatalf("first run error: %v", err)
	}
	after := *store.targets[targetKey(cycleID, "chest", 3)]

	report, err := job.Run(context.Background(), now, "test")
	if err != nil {
		t.Fatalf("second run error: %v", err)
	}
	if report.TargetsAdjusted != 0 {
		t.Errorf("second run adjusted %d targets, want 0", report.TargetsAdjusted)
	}
	again := *store.targets[targetKey(cycleID, "chest", 3)]
	if again != after {
		t.Errorf("target changed on re-run: %+v -> %+v", after, again)
	}
}

func TestRunIsolatesCycleFailures(t *testing.T) {
	chest := uuid.New()
	badCycle := uuid.New()
	goodCycle := uuid.New()
	start := time.Date(2026, 8, 3, 0, 0, 0, 0, time.UTC)
	now := start.AddDate(0, 0, 10)

	store := newFakeStore()
	store.cycles = []models.TrainingCycle{
		{ID: badCycle, StartDate: start, LengthWeeks: 6, Status: models.CycleActive},
		{ID: goodCycle, StartDate: start, LengthWeeks: 6, Status: models.CycleActive},
	}
	store.setsErr[badCycle] = errors.New("malformed set record")
	store.muscles[chest] = "chest"
	store.sets[goodCycle] = fatigueSets(chest, 12)
	store.addTarget(goodCycle, "chest", 2, 10, 14, 12)
	store.addTarget(goodCycle, "chest", 3, 10, 14, 12)

	job := New(store, nil, 2, testLogger())
	report, err := job.Run(context.Background(), now, "test")
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}

	if report.CyclesFailed != 1 {
		t.Errorf("cycles failed = %d, want 1", report.CyclesFailed)
	}
	if report.TargetsAdjusted != 1 {
		t.Errorf("targets adjusted = %d, want 1 (good cycle must still process)", report.TargetsAdjusted)
	}
}

func TestRunRetriesOnVersionConflict(t *testing.T) {
	chest := uuid.New()
	cycleID := uuid.New()
	start := time.Date(2026, 8, 3, 0, 0, 0, 0, time.UTC)
	now := start.AddDate(0, 0, 10)

	store := newFakeStore()
	store.cycles = []models.TrainingCycle{{
		ID: cycleID, StartDate: start, LengthWeeks: 6, Status: models.CycleActive,
	}}
	store.muscles[chest] = "chest"
	store.sets[cycleID] = fatigueSets(chest, 12)
	store.addTarget(cycleID, "chest", 2, 10, 14, 12)
	store.addTarget(cycleID, "chest", 3, 10, 14, 12)
	store.failUpdates = 1 // simulate a concurrent actual_sets increment

	job := New(store, nil, 1, testLogger())
	report, err := job.Run(context.Background(), now, "test")
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if report.TargetsAdjusted != 1 {
		t.Errorf("targets adjusted = %d, want 1 after CAS retry", report.TargetsAdjusted)
	}
}

func TestRunSkipsFinalWeek(t *testing.T) {
	chest := uuid.New()
	cycleID := uuid.New()
	start := time.Date(2026, 8, 3, 0, 0, 0, 0, time.UTC)
	now := start.AddDate(0, 0, 38) // week 6 of a 6-week cycle

	store := newFakeStore()
	store.cycles = []models.TrainingCycle{{
		ID: cycleID, StartDate: start, LengthWeeks: 6, Status: models.CycleActive,
	}}
	store.muscles[chest] = "chest"
	store.sets[cycleID] = fatigueSets(chest, 12)
	store.addTarget(cycleID, "chest", 6, 5, 7, 6)

	job := New(store, nil, 1, testLogger())
	report, err := job.Run(context.Background(), now, "test")
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if report.TargetsAdjusted != 0 {
		t.Errorf("targets adjusted = %d, want 0 (no week follows the deload)", report.TargetsAdjusted)
	}
}

func TestRunNoSetsNoChange(t *testing.T) {
	cycleID := uuid.New()
	start := time.Date(2026, 8, 3, 0, 0, 0, 0, time.UTC)

	store := newFakeStore()
	store.cycles = []models.TrainingCycle{{
		ID: cycleID, StartDate: start, LengthWeeks: 6, Status: models.CycleActive,
	}}

	job := New(store, nil, 1, testLogger())
	report, err := job.Run(context.Background(), start.AddDate(0, 0, 10), "test")
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if report.TargetsAdjusted != 0 || report.CyclesFailed != 0 {
		t.Errorf("report = %+v, want clean no-op", report)
	}
}
