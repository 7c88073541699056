package engine

import (
	"testing"

	"github.com/meltforce/autoreg/internal/models"
)

func setHistory(entries ...[3]float64) []models.SetRecord {
	history := make([]models.SetRecord, 0, len(entries))
	for _, e := range entries {
		history = append(history, models.SetRecord{
			LoadKg:        e[0],
			CompletedReps: int(e[1]),
			RIRActual:     e[2],
		})
	}
	return history
}

func TestSuggestNextSetIncreaseLoad(t *testing.T) {
	// Three sets at the rep target with nothing in reserve.
	history := setHistory([3]float64{100, 10, 0}, [3]float64{100, 10, 0}, [3]float64{100, 10, 0})

	got := SuggestNextSet(history, 10)

	if got.Reason != ReasonIncreaseLoad {
		t.Fatalf("reason = %q, want %q", got.Reason, ReasonIncreaseLoad)
	}
	if got.Primary.LoadKg != 105 {
		t.Errorf("primary load = %v, want 105", got.Primary.LoadKg)
	}
	if got.Primary.Reps != 10 {
		t.Errorf("primary reps = %d, want 10", got.Primary.Reps)
	}
	if got.Alternative == nil {
		t.Fatal("expected an alternative suggestion")
	}
	if got.Alternative.LoadKg != 100 || got.Alternative.Reps != 11 {
		t.Errorf("alternative = %vkg x %d, want 100kg x 11", got.Alternative.LoadKg, got.Alternative.Reps)
	}
}

func TestSuggestNextSetIncreaseReps(t *testing.T) {
	// avgRIR = (1+1+2)/3 ≈ 1.33 → add a rep, keep the load.
	history := setHistory([3]float64{80, 10, 1}, [3]float64{80, 10, 1}, [3]float64{80, 10, 2})

	got := SuggestNextSet(history, 10)

	if got.Reason != ReasonIncreaseReps {
		t.Fatalf("reason = %q, want %q", got.Reason, ReasonIncreaseReps)
	}
	if got.Primary.LoadKg != 80 {
		t.Errorf("primary load = %v, want 80", got.Primary.LoadKg)
	}
	if got.Primary.Reps != 11 {
		t.Errorf("primary reps = %d, want 11", got.Primary.Reps)
	}
}

func TestSuggestNextSetDecreaseLoad(t *testing.T) {
	// avgRIR = (3+3+4)/3 ≈ 3.33 → back off 10%.
	history := setHistory([3]float64{60, 10, 3}, [3]float64{60, 10, 3}, [3]float64{60, 10, 4})

	got := SuggestNextSet(history, 10)

	if got.Reason != ReasonDecreaseLoad {
		t.Fatalf("reason = %q, want %q", got.Reason, ReasonDecreaseLoad)
	}
	if got.Primary.LoadKg != 54 {
		t.Errorf("primary load = %v, want 54", got.Primary.LoadKg)
	}
}

func TestSuggestNextSetMaintain(t *testing.T) {
	// avgRIR = 2 sits between the progression bands.
	history := setHistory([3]float64{90, 9, 2}, [3]float64{90, 9, 2})

	got := SuggestNextSet(history, 10)

	if got.Reason != ReasonMaintain {
		t.Fatalf("reason = %q, want %q", got.Reason, ReasonMaintain)
	}
	if got.Primary.LoadKg != 90 || got.Primary.Reps != 9 {
		t.Errorf("primary = %vkg x %d, want 90kg x 9", got.Primary.LoadKg, got.Primary.Reps)
	}
}

func TestSuggestNextSetEmptyHistory(t *testing.T) {
	got := SuggestNextSet(nil, 10)

	if got.Reason != ReasonNoHistory {
		t.Fatalf("reason = %q, want %q", got.Reason, ReasonNoHistory)
	}
	if got.Primary.LoadKg != 0 {
		t.Errorf("primary load = %v, want 0", got.Primary.LoadKg)
	}
	if got.Alternative != nil {
		t.Error("no-history suggestion should not carry an alternative")
	}
}

func TestSuggestNextSetWindowIsLastThree(t *testing.T) {
	// Old easy sets must not dilute the recent near-failure window.
	history := setHistory(
		[3]float64{100, 10, 5},
		[3]float64{100, 10, 5},
		[3]float64{100, 10, 0},
		[3]float64{100, 10, 0},
		[3]float64{100, 10, 0},
	)

	got := SuggestNextSet(history, 10)
	if got.Reason != ReasonIncreaseLoad {
		t.Errorf("reason = %q, want %q (window should only cover the last 3 sets)", got.Reason, ReasonIncreaseLoad)
	}
}

func TestSuggestNextSetRepCap(t *testing.T) {
	history := setHistory([3]float64{50, 15, 1})

	got := SuggestNextSet(history, 15)
	if got.Primary.Reps != 15 {
		t.Errorf("primary reps = %d, want cap at 15", got.Primary.Reps)
	}
}
