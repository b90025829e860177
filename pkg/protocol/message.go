// Package protocol defines the WebSocket message types exchanged between a
// landmark frame source, the facewatch server, and event subscribers.
package protocol

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/stressless/facewatch/pkg/landmarks"
	"github.com/stressless/facewatch/pkg/tension"
)

// MessageType identifies the type of WebSocket message
type MessageType string

const (
	// Source → Server messages
	TypeFrame MessageType = "frame" // One landmark set per tick

	// Server → Subscriber messages
	TypeStatus      MessageType = "status"      // Per-tick pipeline status
	TypeCalibration MessageType = "calibration" // Calibration progress
	TypeAlert       MessageType = "alert"       // Sustained tension alert

	// Bidirectional
	TypePing MessageType = "ping"
	TypePong MessageType = "pong"
)

// Message is the base wrapper for all WebSocket messages
type Message struct {
	Type      MessageType     `json:"type"`
	Timestamp int64           `json:"ts,omitempty"` // Unix milliseconds
	Data      json.RawMessage `json:"data,omitempty"`
}

// NewMessage creates a new message with the current timestamp
func NewMessage(msgType MessageType, data interface{}) (*Message, error) {
	var rawData json.RawMessage
	if data != nil {
		var err error
		rawData, err = json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal message data: %w", err)
		}
	}

	return &Message{
		Type:      msgType,
		Timestamp: time.Now().UnixMilli(),
		Data:      rawData,
	}, nil
}

// ParseData unmarshals the message data into the provided struct
func (m *Message) ParseData(v interface{}) error {
	if m.Data == nil {
		return nil
	}
	return json.Unmarshal(m.Data, v)
}

// Bytes returns the JSON-encoded message
func (m *Message) Bytes() ([]byte, error) {
	return json.Marshal(m)
}

// ParseMessage parses a JSON message from bytes
func ParseMessage(data []byte) (*Message, error) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("failed to parse message: %w", err)
	}
	return &msg, nil
}

// =============================================================================
// Source → Server
// =============================================================================

// FrameData carries one landmark set and its capture timestamp.
// An empty landmark slice is a valid frame meaning "no face this tick".
type FrameData struct {
	Landmarks []landmarks.Point `json:"landmarks"`
	CapturedAt int64            `json:"captured_at"` // Monotonic milliseconds from the source
}

// Time converts the source timestamp to a time.Time
func (f *FrameData) Time() time.Time {
	return time.UnixMilli(f.CapturedAt)
}

// =============================================================================
// Server → Subscriber
// =============================================================================

// StatusData is the per-tick pipeline snapshot pushed to subscribers
type StatusData struct {
	Mode          tension.Mode   `json:"mode"`
	Status        tension.Status `json:"status,omitempty"`
	BaselineReady bool           `json:"baseline_ready"`
	HeadRotation  float64        `json:"head_rotation"`
	SmileScore    float64        `json:"smile_score"`
	TenseForMs    int64          `json:"tense_for_ms"` // Accumulated tension this episode
}

// CalibrationData reports calibration progress
type CalibrationData struct {
	SessionID        string `json:"session_id,omitempty"`
	State            string `json:"state"`
	Samples          int    `json:"samples"`
	RemainingSeconds int    `json:"remaining_seconds"`
}

// AlertData is a sustained-tension alert
type AlertData struct {
	ID          string `json:"id"`
	Timestamp   int64  `json:"timestamp"` // Unix milliseconds
	SustainedMs int64  `json:"sustained_ms"`
}

// PingData / PongData carry health check round trips
type PingData struct {
	ID string `json:"id"`
}

type PongData struct {
	ID        string `json:"id"`
	PingTS    int64  `json:"ping_ts"`
	PongTS    int64  `json:"pong_ts"`
	LatencyMs int64  `json:"latency_ms"`
}
