// Package engine implements the autoregulation rules: strength estimation,
// per-set load/rep suggestions, plateau detection, session volume adjustment,
// recovery scoring, and nutrition requirements/compliance. Everything here is
// pure and stateless; callers supply plain records and get plain results back.
package engine

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidArgument marks inputs that violate the engine's contract
// (non-positive load, negative reps/RIR, malformed profile fields).
// Absence of data is never an error; it is a typed "no data" result.
var ErrInvalidArgument = errors.New("invalid argument")

// Estimate1RM returns the Epley estimated one-rep max for a set taken to
// failure: load × (1 + reps/30), rounded to the nearest whole unit.
func Estimate1RM(load float64, reps int) (float64, error) {
	return EstimateWithRIR(load, reps, 0)
}

// EstimateWithRIR returns the Epley e1RM for a set stopped rir reps short of
// failure. Reps and RIR are additive: a 100kg×10@RIR2 set implies 12 reps to
// failure. reps = 0 is degenerate but defined (e1RM = load at RIR 0).
func EstimateWithRIR(load float64, reps int, rir float64) (float64, error) {
	if load <= 0 {
		return 0, fmt.Errorf("%w: load must be positive, got %.2f", ErrInvalidArgument, load)
	}
	if reps < 0 {
		return 0, fmt.Errorf("%w: reps must be non-negative, got %d", ErrInvalidArgument, reps)
	}
	if rir < 0 {
		return 0, fmt.Errorf("%w: rir must be non-negative, got %.2f", ErrInvalidArgument, rir)
	}
	return math.Round(load * (1 + (float64(reps)+rir)/30)), nil
}
