package server

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/meltforce/autoreg/internal/engine"
)

func testServer() *Server {
	return &Server{log: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

func TestHandleSessionVolumeFatigue(t *testing.T) {
	s := testServer()
	body := `{"pump_scores":[7,8],"soreness_scores":[6,7]}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/sessions/volume", strings.NewReader(body))
	rec := httptest.NewRecorder()

	s.handleSessionVolume(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var got engine.VolumeAdjustment
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if got.PercentDelta != -0.20 {
		t.Errorf("percent delta = %v, want -0.20", got.PercentDelta)
	}
	if got.Reason != engine.VolumeExcessiveFatigue {
		t.Errorf("reason = %q, want %q", got.Reason, engine.VolumeExcessiveFatigue)
	}
}

func TestHandleSessionVolumeRejectsOutOfRangeScores(t *testing.T) {
	s := testServer()
	body := `{"pump_scores":[11],"soreness_scores":[2]}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/sessions/volume", strings.NewReader(body))
	rec := httptest.NewRecorder()

	s.handleSessionVolume(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestHandleSessionVolumeInvalidJSON(t *testing.T) {
	s := testServer()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/sessions/volume", strings.NewReader("{"))
	rec := httptest.NewRecorder()

	s.handleSessionVolume(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestHandleRecoveryScoreDirect(t *testing.T) {
	s := testServer()
	body := `{"sleep_hours":8,"hrv_ms":70,"resting_hr_bpm":60,"avg_soreness":3,"adherence_percent":95}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/recovery/score", strings.NewReader(body))
	rec := httptest.NewRecorder()

	s.handleRecoveryScoreDirect(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var got recoveryResponse
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if got.Score != 100 {
		t.Errorf("score = %d, want 100", got.Score)
	}
	if got.VolumeMultiplier != 1.0 {
		t.Errorf("volume multiplier = %v, want 1.0", got.VolumeMultiplier)
	}
}
