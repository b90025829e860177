package tension

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// Status describes what the detector concluded about one tick
type Status string

const (
	StatusNoBaseline Status = "no_baseline" // Detection gated: no successful calibration yet
	StatusHeadTurned Status = "head_turned" // Rotation gate tripped; classification skipped
	StatusSmiling    Status = "smiling"     // Smile detected; alert suppressed
	StatusTense      Status = "tense"       // Tension present, accumulating toward an alert
	StatusRelaxed    Status = "relaxed"     // No tension; accumulator cleared
	StatusAlert      Status = "alert"       // Sustained tension; alert fired this tick
)

// AlertEvent is emitted once per sustained-tension episode
type AlertEvent struct {
	ID        string        `json:"id"`
	Timestamp time.Time     `json:"timestamp"`
	Sustained time.Duration `json:"sustained"` // How long tension held before firing
}

// Detector is the per-tick hysteresis state machine. Tension must hold
// continuously for the sustain window before an alert fires; any smiling,
// head-turned, or relaxed tick clears the accumulator with no partial
// credit. Not safe for concurrent use; the pipeline owns it.
type Detector struct {
	cfg Config

	accumulating bool
	tenseSince   time.Time
	lastSmile    *SmileResult
}

// NewDetector creates an idle detector
func NewDetector(cfg Config) *Detector {
	return &Detector{cfg: cfg}
}

// Accumulating reports whether a tension episode is currently building
func (d *Detector) Accumulating() bool { return d.accumulating }

// TenseFor returns how long the current episode has held, zero when idle
func (d *Detector) TenseFor(now time.Time) time.Duration {
	if !d.accumulating {
		return 0
	}
	return now.Sub(d.tenseSince)
}

// LastSmile returns the smile classification from the most recent tick
// that ran the classifier, nil when the last tick skipped it.
func (d *Detector) LastSmile() *SmileResult { return d.lastSmile }

// SetConfig swaps the detector parameters. Takes effect on the next tick;
// an in-flight episode keeps its original start time.
func (d *Detector) SetConfig(cfg Config) { d.cfg = cfg }

// Reset returns the detector to idle
func (d *Detector) Reset() {
	d.accumulating = false
	d.tenseSince = time.Time{}
}

// Process runs one tick. At most one alert is returned per sustained
// episode; after firing, a fresh episode must accumulate from zero.
func (d *Detector) Process(sig Signal, baseline *Baseline, now time.Time) (*AlertEvent, Status) {
	if baseline == nil {
		d.lastSmile = nil
		return nil, StatusNoBaseline
	}

	// Turned head distorts every ratio, so neither tension nor smiling is
	// classified this tick.
	if math.Abs(sig.HeadRotation) > d.cfg.HeadRotationGate {
		d.Reset()
		d.lastSmile = nil
		return nil, StatusHeadTurned
	}

	smile := ClassifySmile(sig, *baseline, d.cfg)
	d.lastSmile = &smile
	if smile.IsSmiling {
		d.Reset()
		return nil, StatusSmiling
	}

	if !IsTense(sig, *baseline, d.cfg.TensionThresholdRatio) {
		d.Reset()
		return nil, StatusRelaxed
	}

	if !d.accumulating {
		d.accumulating = true
		d.tenseSince = now
		return nil, StatusTense
	}

	held := now.Sub(d.tenseSince)
	if held < d.cfg.AlertSustain {
		return nil, StatusTense
	}

	d.Reset()
	return &AlertEvent{
		ID:        uuid.NewString(),
		Timestamp: now,
		Sustained: held,
	}, StatusAlert
}
