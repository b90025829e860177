package web

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/stressless/facewatch/pkg/landmarks"
	"github.com/stressless/facewatch/pkg/protocol"
	"github.com/stressless/facewatch/pkg/tension"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	p, err := tension.NewPipeline(tension.DefaultConfig(), landmarks.FaceMesh(), nil)
	if err != nil {
		t.Fatalf("NewPipeline: %v", err)
	}
	return NewServer(":0", p)
}

// meshFrame builds a full FaceMesh-sized landmark set with a symmetric
// neutral face placed at the mesh indices the extractor reads.
func meshFrame(capturedAtMs int64) *protocol.FrameData {
	pts := make([]landmarks.Point, 478)
	table := landmarks.FaceMesh()

	set := func(role landmarks.Role, x, y float64) {
		pts[table[role]] = landmarks.Point{X: x, Y: y}
	}
	set(landmarks.LeftFaceEdge, 0.25, 0.50)
	set(landmarks.RightFaceEdge, 0.75, 0.50)
	set(landmarks.LeftEyeTop, 0.40, 0.40)
	set(landmarks.LeftEyeBottom, 0.40, 0.45)
	set(landmarks.RightEyeTop, 0.60, 0.40)
	set(landmarks.RightEyeBottom, 0.60, 0.45)
	set(landmarks.LeftInnerBrow, 0.45, 0.35)
	set(landmarks.RightInnerBrow, 0.55, 0.35)
	set(landmarks.LeftMouthCorner, 0.40, 0.65)
	set(landmarks.RightMouthCorner, 0.60, 0.65)
	set(landmarks.UpperLipCenter, 0.50, 0.63)
	set(landmarks.LeftCheek, 0.35, 0.55)
	set(landmarks.RightCheek, 0.65, 0.55)
	set(landmarks.NoseTip, 0.50, 0.55)
	set(landmarks.NoseBridge, 0.50, 0.45)

	return &protocol.FrameData{Landmarks: pts, CapturedAt: capturedAtMs}
}

func TestHandleStatus(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/status", nil)
	resp, err := s.app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var body StatusResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Mode != tension.ModeIdle {
		t.Errorf("mode = %s, want %s", body.Mode, tension.ModeIdle)
	}
	if body.BaselineReady {
		t.Error("baseline should not be ready before calibration")
	}
	if body.Tuning.AlertSustainMs != 3000 {
		t.Errorf("tuning sustain = %dms, want 3000ms", body.Tuning.AlertSustainMs)
	}
}

func TestCalibrationStart_ArmsUntilNextFrame(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/calibration/start", nil)
	resp, err := s.app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusAccepted {
		t.Fatalf("status = %d, want 202", resp.StatusCode)
	}

	// Armed but not yet started: no frame has arrived
	s.mu.Lock()
	armed := s.pendingCalibration
	mode := s.pipeline.Mode()
	s.mu.Unlock()
	if !armed {
		t.Fatal("calibration should be armed")
	}
	if mode != tension.ModeIdle {
		t.Errorf("mode = %s, want %s before any frame", mode, tension.ModeIdle)
	}

	// The next frame opens the window on the frame's clock
	s.processFrame(meshFrame(1000))

	s.mu.Lock()
	armed = s.pendingCalibration
	mode = s.pipeline.Mode()
	s.mu.Unlock()
	if armed {
		t.Error("arming flag should clear after the first frame")
	}
	if mode != tension.ModeCalibrating {
		t.Errorf("mode = %s, want %s", mode, tension.ModeCalibrating)
	}
}

func TestProcessFrame_RecordsHistory(t *testing.T) {
	s := newTestServer(t)

	s.processFrame(meshFrame(1000))
	s.processFrame(meshFrame(1100))

	s.historyMu.RLock()
	entries := len(s.history)
	last := s.history[len(s.history)-1]
	s.historyMu.RUnlock()

	if entries != 2 {
		t.Fatalf("history entries = %d, want 2", entries)
	}
	if last.Status != tension.StatusNoBaseline {
		t.Errorf("status = %s, want %s", last.Status, tension.StatusNoBaseline)
	}
}

func TestHandleHistory(t *testing.T) {
	s := newTestServer(t)
	s.processFrame(meshFrame(1000))

	req := httptest.NewRequest(http.MethodGet, "/api/history", nil)
	resp, err := s.app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	var entries []HistoryEntry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("entries = %d, want 1", len(entries))
	}
}

func TestTuningRoundTrip(t *testing.T) {
	s := newTestServer(t)

	update := tension.TuningParams{AlertSustainMs: 4500}
	body, _ := json.Marshal(update)
	req := httptest.NewRequest(http.MethodPut, "/api/tuning", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var updated tension.TuningParams
	if err := json.NewDecoder(resp.Body).Decode(&updated); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if updated.AlertSustainMs != 4500 {
		t.Errorf("sustain = %dms, want 4500ms", updated.AlertSustainMs)
	}
	// Untouched fields keep their values
	if updated.TensionThresholdRatio != 0.9 {
		t.Errorf("ratio = %v, want 0.9 unchanged", updated.TensionThresholdRatio)
	}

	getReq := httptest.NewRequest(http.MethodGet, "/api/tuning", nil)
	getResp, err := s.app.Test(getReq)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer getResp.Body.Close()
	var current tension.TuningParams
	if err := json.NewDecoder(getResp.Body).Decode(&current); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if current.AlertSustainMs != 4500 {
		t.Errorf("GET sustain = %dms, want 4500ms", current.AlertSustainMs)
	}
}

func TestSetTuning_RejectsBadBody(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodPut, "/api/tuning", bytes.NewReader([]byte("not json")))
	req.Header.Set("Content-Type", "application/json")
	resp, err := s.app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestEventsSubscription(t *testing.T) {
	p, err := tension.NewPipeline(tension.DefaultConfig(), landmarks.FaceMesh(), nil)
	if err != nil {
		t.Fatalf("NewPipeline: %v", err)
	}
	s := NewServer(":18084", p)

	go s.Start()
	defer s.Shutdown()
	time.Sleep(100 * time.Millisecond)

	ws, _, err := websocket.DefaultDialer.Dial("ws://localhost:18084/ws/events", nil)
	if err != nil {
		t.Fatalf("WebSocket dial error: %v", err)
	}
	defer ws.Close()

	// Wait for the hub to register the subscriber
	time.Sleep(50 * time.Millisecond)
	if s.events.ClientCount() != 1 {
		t.Fatalf("ClientCount = %d, want 1", s.events.ClientCount())
	}

	s.processFrame(meshFrame(1000))

	ws.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := ws.ReadMessage()
	if err != nil {
		t.Fatalf("Read error: %v", err)
	}

	msg, err := protocol.ParseMessage(data)
	if err != nil {
		t.Fatalf("ParseMessage: %v", err)
	}
	if msg.Type != protocol.TypeStatus {
		t.Errorf("type = %s, want %s", msg.Type, protocol.TypeStatus)
	}
	status, err := msg.GetStatusData()
	if err != nil {
		t.Fatalf("GetStatusData: %v", err)
	}
	if status.Status != tension.StatusNoBaseline {
		t.Errorf("status = %s, want %s", status.Status, tension.StatusNoBaseline)
	}
}

func TestWebSocketRouteRequiresUpgrade(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/ws/frames", nil)
	resp, err := s.app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUpgradeRequired {
		t.Errorf("status = %d, want 426", resp.StatusCode)
	}
}
