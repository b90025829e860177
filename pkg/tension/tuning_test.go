package tension

import (
	"testing"
	"time"
)

func TestTuning_ReflectsConfig(t *testing.T) {
	p, _ := newTestPipeline(t)

	params := p.Tuning()
	if params.TensionThresholdRatio != 0.9 {
		t.Errorf("tension threshold ratio = %v, want 0.9", params.TensionThresholdRatio)
	}
	if params.AlertSustainMs != 3000 {
		t.Errorf("alert sustain = %dms, want 3000ms", params.AlertSustainMs)
	}
	if params.SmileScoreThreshold != 0.3 {
		t.Errorf("smile score threshold = %v, want 0.3", params.SmileScoreThreshold)
	}
}

func TestSetTuning_IgnoresZeroFields(t *testing.T) {
	p, _ := newTestPipeline(t)

	p.SetTuning(TuningParams{AlertSustainMs: 5000})

	params := p.Tuning()
	if params.AlertSustainMs != 5000 {
		t.Errorf("alert sustain = %dms, want 5000ms", params.AlertSustainMs)
	}
	// Untouched fields keep their values
	if params.TensionThresholdRatio != 0.9 {
		t.Errorf("tension threshold ratio = %v, want 0.9 unchanged", params.TensionThresholdRatio)
	}
	if params.HeadRotationGate != 0.5 {
		t.Errorf("head rotation gate = %v, want 0.5 unchanged", params.HeadRotationGate)
	}
}

func TestSetTuning_ClampsOutOfRange(t *testing.T) {
	p, _ := newTestPipeline(t)

	p.SetTuning(TuningParams{
		TensionThresholdRatio: 5,
		HeadRotationGate:      0.01,
		SmileScoreThreshold:   3,
	})

	params := p.Tuning()
	if params.TensionThresholdRatio != 0.99 {
		t.Errorf("tension threshold ratio = %v, want clamped to 0.99", params.TensionThresholdRatio)
	}
	if params.HeadRotationGate != 0.1 {
		t.Errorf("head rotation gate = %v, want clamped to 0.1", params.HeadRotationGate)
	}
	if params.SmileScoreThreshold != 1.0 {
		t.Errorf("smile score threshold = %v, want clamped to 1.0", params.SmileScoreThreshold)
	}
}

func TestSetTuning_ReachesDetector(t *testing.T) {
	p, _ := newTestPipeline(t)
	t0 := detectorStart()
	at := func(ms int) time.Time { return t0.Add(time.Duration(ms) * time.Millisecond) }

	p.StartCalibration(t0)
	for ms := 0; ms <= 10000; ms += 100 {
		p.Tick(Frame{Points: neutralPoints(), Timestamp: at(ms)})
	}

	p.SetTuning(TuningParams{AlertSustainMs: 1000})

	// With a 1s sustain, tension from 10100 should fire at 11100
	var alertAt int
	for ms := 10100; ms <= 11500; ms += 100 {
		if res := p.Tick(Frame{Points: tensePoints(), Timestamp: at(ms)}); res.Alert != nil {
			alertAt = ms
			break
		}
	}
	if alertAt != 11100 {
		t.Errorf("alert at %dms, want 11100ms", alertAt)
	}
}
