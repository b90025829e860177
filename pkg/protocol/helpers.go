package protocol

import (
	"github.com/stressless/facewatch/pkg/landmarks"
	"github.com/stressless/facewatch/pkg/tension"
)

// NewFrameMessage creates a frame message from a landmark set
func NewFrameMessage(points []landmarks.Point, capturedAtMs int64) (*Message, error) {
	return NewMessage(TypeFrame, FrameData{
		Landmarks:  points,
		CapturedAt: capturedAtMs,
	})
}

// NewAlertMessage creates an alert message from a pipeline event
func NewAlertMessage(ev tension.AlertEvent) (*Message, error) {
	return NewMessage(TypeAlert, AlertData{
		ID:          ev.ID,
		Timestamp:   ev.Timestamp.UnixMilli(),
		SustainedMs: ev.Sustained.Milliseconds(),
	})
}

// NewStatusMessage creates a status message from a tick result
func NewStatusMessage(res tension.TickResult, baselineReady bool, tenseForMs int64) (*Message, error) {
	data := StatusData{
		Mode:          res.Mode,
		Status:        res.Status,
		BaselineReady: baselineReady,
		TenseForMs:    tenseForMs,
	}
	if res.Signal != nil {
		data.HeadRotation = res.Signal.HeadRotation
	}
	if res.Smile != nil {
		data.SmileScore = res.Smile.Score
	}
	return NewMessage(TypeStatus, data)
}

// NewCalibrationMessage creates a calibration progress message
func NewCalibrationMessage(cs tension.CalibrationStatus) (*Message, error) {
	return NewMessage(TypeCalibration, CalibrationData{
		SessionID:        cs.SessionID,
		State:            string(cs.State),
		Samples:          cs.Samples,
		RemainingSeconds: cs.RemainingSeconds,
	})
}

// GetFrameData extracts frame data from a message
func (m *Message) GetFrameData() (*FrameData, error) {
	var data FrameData
	if err := m.ParseData(&data); err != nil {
		return nil, err
	}
	return &data, nil
}

// GetAlertData extracts alert data from a message
func (m *Message) GetAlertData() (*AlertData, error) {
	var data AlertData
	if err := m.ParseData(&data); err != nil {
		return nil, err
	}
	return &data, nil
}

// GetStatusData extracts status data from a message
func (m *Message) GetStatusData() (*StatusData, error) {
	var data StatusData
	if err := m.ParseData(&data); err != nil {
		return nil, err
	}
	return &data, nil
}

// GetCalibrationData extracts calibration data from a message
func (m *Message) GetCalibrationData() (*CalibrationData, error) {
	var data CalibrationData
	if err := m.ParseData(&data); err != nil {
		return nil, err
	}
	return &data, nil
}
