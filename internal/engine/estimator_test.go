package engine

import (
	"errors"
	"testing"
)

func TestEstimate1RM(t *testing.T) {
	tests := []struct {
		name string
		load float64
		reps int
		want float64
	}{
		{"100kg x 10", 100, 10, 133},
		{"150kg x 1", 150, 1, 155},
		{"120kg x 5", 120, 5, 140},
		{"degenerate zero reps", 100, 0, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Estimate1RM(tt.load, tt.reps)
			if err != nil {
				t.Fatalf("Estimate1RM(%v, %v) error: %v", tt.load, tt.reps, err)
			}
			if got != tt.want {
				t.Errorf("Estimate1RM(%v, %v) = %v, want %v", tt.load, tt.reps, got, tt.want)
			}
		})
	}
}

func TestEstimateWithRIR(t *testing.T) {
	got, err := EstimateWithRIR(80, 8, 2)
	if err != nil {
		t.Fatalf("EstimateWithRIR error: %v", err)
	}
	if got != 107 {
		t.Errorf("EstimateWithRIR(80, 8, 2) = %v, want 107", got)
	}

	// RIR 0 must agree with the plain estimate.
	withRIR, _ := EstimateWithRIR(100, 10, 0)
	plain, _ := Estimate1RM(100, 10)
	if withRIR != plain {
		t.Errorf("EstimateWithRIR(100, 10, 0) = %v, Estimate1RM(100, 10) = %v; want equal", withRIR, plain)
	}
}

func TestEstimateRejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name string
		load float64
		reps int
		rir  float64
	}{
		{"zero load", 0, 5, 0},
		{"negative load", -50, 5, 0},
		{"negative reps", 100, -1, 0},
		{"negative rir", 100, 5, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := EstimateWithRIR(tt.load, tt.reps, tt.rir)
			if !errors.Is(err, ErrInvalidArgument) {
				t.Errorf("EstimateWithRIR(%v, %v, %v) error = %v, want ErrInvalidArgument", tt.load, tt.reps, tt.rir, err)
			}
		})
	}
}

// TestEstimateMonotonic verifies the estimate never decreases as reps or load
// increase, which downstream comparisons rely on.
func TestEstimateMonotonic(t *testing.T) {
	prev := 0.0
	for reps := 0; reps <= 20; reps++ {
		got, err := Estimate1RM(100, reps)
		if err != nil {
			t.Fatalf("Estimate1RM(100, %d) error: %v", reps, err)
		}
		if got < prev {
			t.Errorf("Estimate1RM(100, %d) = %v, less than previous %v", reps, got, prev)
		}
		prev = got
	}

	prev = 0.0
	for load := 10.0; load <= 200; load += 10 {
		got, err := Estimate1RM(load, 8)
		if err != nil {
			t.Fatalf("Estimate1RM(%v, 8) error: %v", load, err)
		}
		if got < prev {
			t.Errorf("Estimate1RM(%v, 8) = %v, less than previous %v", load, got, prev)
		}
		prev = got
	}
}
