package engine

import "github.com/meltforce/autoreg/internal/models"

// DefaultPlateauThreshold is the run length of non-improving sessions that
// flags a plateau.
const DefaultPlateauThreshold = 3

// PlateauResult reports whether estimated strength has stagnated.
type PlateauResult struct {
	IsPlateaued bool    `json:"is_plateaued"`
	RunLength   int     `json:"run_length"`
	LatestE1RM  float64 `json:"latest_e1rm,omitempty"`
}

// DetectPlateau walks the history (ordered oldest to newest) from the most
// recent entry backward, counting consecutive entries whose e1RM did not
// strictly increase over their predecessor, stopping at the first increase.
// Comparing e1RM rather than raw load keeps rep/RIR trade-offs that raise
// capacity from being mis-flagged as stagnation.
//
// Histories shorter than the threshold report not plateaued. Records that
// fail e1RM estimation are skipped.
func DetectPlateau(history []models.SetRecord, threshold int) PlateauResult {
	if threshold <= 0 {
		threshold = DefaultPlateauThreshold
	}

	e1rms := make([]float64, 0, len(history))
	for _, s := range history {
		v, err := EstimateWithRIR(s.LoadKg, s.CompletedReps, s.RIRActual)
		if err != nil {
			continue
		}
		e1rms = append(e1rms, v)
	}

	if len(e1rms) < threshold {
		return PlateauResult{}
	}

	// The most recent entry starts the run; each predecessor it failed to
	// improve on extends it.
	run := 1
	for i := len(e1rms) - 1; i > 0; i-- {
		if e1rms[i] > e1rms[i-1] {
			break
		}
		run++
	}

	return PlateauResult{
		IsPlateaued: run >= threshold,
		RunLength:   run,
		LatestE1RM:  e1rms[len(e1rms)-1],
	}
}
