package protocol

import (
	"testing"
	"time"

	"github.com/stressless/facewatch/pkg/landmarks"
	"github.com/stressless/facewatch/pkg/tension"
)

func TestFrameMessageRoundTrip(t *testing.T) {
	points := []landmarks.Point{
		{X: 0.25, Y: 0.40, Z: -0.01},
		{X: 0.75, Y: 0.40, Z: -0.01},
	}

	msg, err := NewFrameMessage(points, 12345)
	if err != nil {
		t.Fatalf("NewFrameMessage: %v", err)
	}
	raw, err := msg.Bytes()
	if err != nil {
		t.Fatalf("Bytes: %v", err)
	}

	parsed, err := ParseMessage(raw)
	if err != nil {
		t.Fatalf("ParseMessage: %v", err)
	}
	if parsed.Type != TypeFrame {
		t.Errorf("type = %s, want %s", parsed.Type, TypeFrame)
	}

	frame, err := parsed.GetFrameData()
	if err != nil {
		t.Fatalf("GetFrameData: %v", err)
	}
	if len(frame.Landmarks) != 2 {
		t.Fatalf("landmarks = %d, want 2", len(frame.Landmarks))
	}
	if frame.Landmarks[1] != points[1] {
		t.Errorf("landmark = %+v, want %+v", frame.Landmarks[1], points[1])
	}
	if !frame.Time().Equal(time.UnixMilli(12345)) {
		t.Errorf("frame time = %v, want %v", frame.Time(), time.UnixMilli(12345))
	}
}

func TestFrameData_EmptyLandmarksIsValid(t *testing.T) {
	msg, err := NewFrameMessage(nil, 100)
	if err != nil {
		t.Fatalf("NewFrameMessage: %v", err)
	}
	frame, err := msg.GetFrameData()
	if err != nil {
		t.Fatalf("GetFrameData: %v", err)
	}
	if len(frame.Landmarks) != 0 {
		t.Errorf("landmarks = %d, want 0", len(frame.Landmarks))
	}
}

func TestAlertMessage(t *testing.T) {
	ev := tension.AlertEvent{
		ID:        "abc-123",
		Timestamp: time.UnixMilli(1_700_000_000_000),
		Sustained: 3200 * time.Millisecond,
	}

	msg, err := NewAlertMessage(ev)
	if err != nil {
		t.Fatalf("NewAlertMessage: %v", err)
	}
	data, err := msg.GetAlertData()
	if err != nil {
		t.Fatalf("GetAlertData: %v", err)
	}
	if data.ID != "abc-123" {
		t.Errorf("id = %q, want abc-123", data.ID)
	}
	if data.Timestamp != 1_700_000_000_000 {
		t.Errorf("timestamp = %d, want 1700000000000", data.Timestamp)
	}
	if data.SustainedMs != 3200 {
		t.Errorf("sustained_ms = %d, want 3200", data.SustainedMs)
	}
}

func TestStatusMessage_OptionalFields(t *testing.T) {
	res := tension.TickResult{
		Mode:   tension.ModeDetecting,
		Status: tension.StatusRelaxed,
	}

	// Nil signal and smile should marshal to zero fields, not panic
	msg, err := NewStatusMessage(res, true, 0)
	if err != nil {
		t.Fatalf("NewStatusMessage: %v", err)
	}
	data, err := msg.GetStatusData()
	if err != nil {
		t.Fatalf("GetStatusData: %v", err)
	}
	if data.Mode != tension.ModeDetecting {
		t.Errorf("mode = %s, want %s", data.Mode, tension.ModeDetecting)
	}
	if !data.BaselineReady {
		t.Error("baseline_ready should be true")
	}
	if data.HeadRotation != 0 || data.SmileScore != 0 {
		t.Errorf("expected zero rotation and score, got %v / %v", data.HeadRotation, data.SmileScore)
	}

	sig := tension.Signal{HeadRotation: 0.25}
	res.Signal = &sig
	res.Smile = &tension.SmileResult{IsSmiling: true, Score: 0.42}
	msg, err = NewStatusMessage(res, true, 1500)
	if err != nil {
		t.Fatalf("NewStatusMessage: %v", err)
	}
	data, _ = msg.GetStatusData()
	if data.HeadRotation != 0.25 {
		t.Errorf("head_rotation = %v, want 0.25", data.HeadRotation)
	}
	if data.SmileScore != 0.42 {
		t.Errorf("smile_score = %v, want 0.42", data.SmileScore)
	}
	if data.TenseForMs != 1500 {
		t.Errorf("tense_for_ms = %d, want 1500", data.TenseForMs)
	}
}

func TestParseMessage_Invalid(t *testing.T) {
	if _, err := ParseMessage([]byte("not json")); err == nil {
		t.Error("expected an error for invalid JSON")
	}
}
