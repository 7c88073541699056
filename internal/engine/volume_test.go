package engine

import "testing"

func TestAdjustSessionVolume(t *testing.T) {
	tests := []struct {
		name        string
		pump        []float64
		soreness    []float64
		wantPercent float64
		wantSets    int
		wantReason  VolumeReason
	}{
		{
			name:        "high soreness cuts volume",
			pump:        []float64{7, 8},
			soreness:    []float64{6, 7},
			wantPercent: -0.20,
			wantReason:  VolumeExcessiveFatigue,
		},
		{
			name:       "low response adds a set",
			pump:       []float64{2, 3},
			soreness:   []float64{1, 2},
			wantSets:   1,
			wantReason: VolumeLowResponse,
		},
		{
			name:       "normal response maintains",
			pump:       []float64{6, 7},
			soreness:   []float64{3, 4},
			wantReason: VolumeMaintain,
		},
		{
			name:        "soreness wins over low pump",
			pump:        []float64{1, 2},
			soreness:    []float64{7, 8},
			wantPercent: -0.20,
			wantReason:  VolumeExcessiveFatigue,
		},
		{
			name:       "empty input",
			wantReason: VolumeInsufficientData,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AdjustSessionVolume(tt.pump, tt.soreness)
			if got.PercentDelta != tt.wantPercent {
				t.Errorf("percent delta = %v, want %v", got.PercentDelta, tt.wantPercent)
			}
			if got.SetDelta != tt.wantSets {
				t.Errorf("set delta = %d, want %d", got.SetDelta, tt.wantSets)
			}
			if got.Reason != tt.wantReason {
				t.Errorf("reason = %q, want %q", got.Reason, tt.wantReason)
			}
		})
	}
}
