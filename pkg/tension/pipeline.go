package tension

import (
	"fmt"
	"time"

	"github.com/stressless/facewatch/internal/log"
	"github.com/stressless/facewatch/pkg/landmarks"
)

// StatusNoSignal is reported when a frame produced no usable signal.
// The tick's classification logic is skipped entirely.
const StatusNoSignal Status = "no_signal"

// AlertSink receives alert events at the pipeline boundary. Delivery is
// fire-and-forget: the pipeline has no knowledge of notification success.
type AlertSink interface {
	Alert(AlertEvent) error
}

// Mode describes what the pipeline is doing between ticks
type Mode string

const (
	ModeIdle        Mode = "idle"        // No baseline and no active calibration
	ModeCalibrating Mode = "calibrating" // Sample window open; detection off
	ModeDetecting   Mode = "detecting"   // Baseline present; classifying live frames
)

// Frame is one delivery from the external frame source
type Frame struct {
	Points    []landmarks.Point
	Timestamp time.Time
}

// CalibrationStatus is an observability snapshot of the active or most
// recent calibration session.
type CalibrationStatus struct {
	SessionID        string       `json:"session_id,omitempty"`
	State            SessionState `json:"state"`
	Samples          int          `json:"samples"`
	RemainingSeconds int          `json:"remaining_seconds"`
}

// TickResult is everything one tick produced
type TickResult struct {
	Timestamp   time.Time         `json:"timestamp"`
	Mode        Mode              `json:"mode"`
	Status      Status            `json:"status,omitempty"`
	Signal      *Signal           `json:"signal,omitempty"`
	Smile       *SmileResult      `json:"smile,omitempty"`
	Calibration CalibrationStatus `json:"calibration"`
	Alert       *AlertEvent       `json:"alert,omitempty"`
}

// Pipeline wires extraction, calibration, and detection into the per-frame
// control flow. It is single-threaded by design: all mutable state is owned
// here and touched only by Tick and StartCalibration, so callers must not
// run them concurrently.
type Pipeline struct {
	cfg      Config
	table    landmarks.Table
	sink     AlertSink
	session  *Session
	baseline *Baseline
	detector *Detector
}

// NewPipeline validates the configuration and builds an idle pipeline.
// sink may be nil when alerts are consumed from tick results alone.
func NewPipeline(cfg Config, table landmarks.Table, sink AlertSink) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("pipeline config: %w", err)
	}
	if table == nil {
		return nil, fmt.Errorf("pipeline config: landmark table is required")
	}
	return &Pipeline{
		cfg:      cfg,
		table:    table,
		sink:     sink,
		detector: NewDetector(cfg),
	}, nil
}

// Mode reports what the pipeline is currently doing
func (p *Pipeline) Mode() Mode {
	if p.session != nil && p.session.State() == SessionCollecting {
		return ModeCalibrating
	}
	if p.baseline != nil {
		return ModeDetecting
	}
	return ModeIdle
}

// Baseline returns a copy of the calibrated baseline, if one exists
func (p *Pipeline) Baseline() (Baseline, bool) {
	if p.baseline == nil {
		return Baseline{}, false
	}
	return *p.baseline, true
}

// StartCalibration opens a new sample window and returns its session ID.
// Any prior baseline and in-flight session state are discarded, so only
// one session ever exists at a time.
func (p *Pipeline) StartCalibration(now time.Time) string {
	p.baseline = nil
	p.detector.Reset()
	p.session = NewSession(p.cfg)
	p.session.Start(now)
	log.Info("calibration started",
		"session", p.session.ID(),
		"duration", p.cfg.CalibrationDuration)
	return p.session.ID()
}

// CalibrationStatus snapshots the session state for observers
func (p *Pipeline) CalibrationStatus(now time.Time) CalibrationStatus {
	if p.session == nil {
		return CalibrationStatus{State: SessionNotStarted}
	}
	return CalibrationStatus{
		SessionID:        p.session.ID(),
		State:            p.session.State(),
		Samples:          p.session.SampleCount(),
		RemainingSeconds: p.session.Remaining(now),
	}
}

// Tick processes one frame. While a calibration window is open the signal
// feeds the session and detection does not run; otherwise, with a baseline
// present, the signal drives the classifiers and the state machine.
func (p *Pipeline) Tick(frame Frame) TickResult {
	now := frame.Timestamp
	res := TickResult{Timestamp: now}

	sig, ok := Extract(frame.Points, p.table)
	if ok {
		res.Signal = &sig
	}

	if p.session != nil && p.session.State() == SessionCollecting {
		if ok {
			p.session.Offer(sig, now)
		}
		if p.session.Tick(now) {
			p.finishCalibration()
		}
		res.Mode = p.Mode()
		res.Calibration = p.CalibrationStatus(now)
		return res
	}

	res.Mode = p.Mode()
	res.Calibration = p.CalibrationStatus(now)

	if p.baseline == nil {
		res.Status = StatusNoBaseline
		return res
	}
	if !ok {
		res.Status = StatusNoSignal
		return res
	}

	alert, status := p.detector.Process(sig, p.baseline, now)
	res.Status = status
	if smile := p.detector.LastSmile(); smile != nil {
		res.Smile = smile
	}
	if alert != nil {
		res.Alert = alert
		log.Info("tension alert",
			"alert", alert.ID,
			"sustained", alert.Sustained)
		p.deliver(*alert)
	}
	return res
}

// finishCalibration consumes the finalized session into a baseline.
// An empty window means calibration failed: detection stays gated until a
// new session succeeds.
func (p *Pipeline) finishCalibration() {
	b, ok := p.session.Baseline()
	if !ok {
		p.baseline = nil
		log.Warn("calibration failed: no accepted samples",
			"session", p.session.ID())
		return
	}
	p.baseline = &b
	p.detector.Reset()
	log.Info("calibration complete",
		"session", p.session.ID(),
		"samples", p.session.SampleCount(),
		"eye_open_avg", b.EyeOpenAvg,
		"brow_inner_dist", b.BrowInnerDist)
}

func (p *Pipeline) deliver(ev AlertEvent) {
	if p.sink == nil {
		return
	}
	if err := p.sink.Alert(ev); err != nil {
		log.Error("alert delivery failed", "alert", ev.ID, "error", err)
	}
}
