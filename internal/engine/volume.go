package engine

// VolumeReason tags which branch of the session volume rule fired.
type VolumeReason string

const (
	VolumeExcessiveFatigue VolumeReason = "excessive_fatigue"
	VolumeLowResponse      VolumeReason = "low_response"
	VolumeMaintain         VolumeReason = "maintain"
	VolumeInsufficientData VolumeReason = "insufficient_data"
)

// VolumeAdjustment is the outcome of the post-session pump/soreness rule.
// PercentDelta is a fractional volume change (−0.20 = cut a fifth of the
// sets); SetDelta is an absolute set-count change. At most one is non-zero.
type VolumeAdjustment struct {
	PercentDelta float64      `json:"percent_delta"`
	SetDelta     int          `json:"set_delta"`
	Reason       VolumeReason `json:"reason"`
	AvgPump      float64      `json:"avg_pump"`
	AvgSoreness  float64      `json:"avg_soreness"`
}

// AdjustSessionVolume converts recent pump and soreness feedback (0–10 scales)
// into a set-count delta. High soreness wins over everything; a flat response
// on both signals earns one extra set.
func AdjustSessionVolume(pumpScores, sorenessScores []float64) VolumeAdjustment {
	if len(pumpScores) == 0 && len(sorenessScores) == 0 {
		return VolumeAdjustment{Reason: VolumeInsufficientData}
	}

	avgPump := mean(pumpScores)
	avgSoreness := mean(sorenessScores)

	switch {
	case avgSoreness >= 6:
		return VolumeAdjustment{
			PercentDelta: -0.20,
			Reason:       VolumeExcessiveFatigue,
			AvgPump:      avgPump,
			AvgSoreness:  avgSoreness,
		}
	case avgPump <= 3 && avgSoreness <= 3:
		return VolumeAdjustment{
			SetDelta:    1,
			Reason:      VolumeLowResponse,
			AvgPump:     avgPump,
			AvgSoreness: avgSoreness,
		}
	default:
		return VolumeAdjustment{
			Reason:      VolumeMaintain,
			AvgPump:     avgPump,
			AvgSoreness: avgSoreness,
		}
	}
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}
