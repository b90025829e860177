package tension

import "time"

// TuningParams holds the runtime-adjustable detection thresholds.
// These can be modified via the tuning API without restarting the server.
// The smile criteria are deliberately permissive (score OR 2-of-3
// indicators) and not yet validated against ground truth, so every
// threshold stays tunable rather than hard-coded.
type TuningParams struct {
	TensionThresholdRatio    float64 `json:"tension_threshold_ratio"`     // Live/baseline ratio below which a frame is tense
	AlertSustainMs           int64   `json:"alert_sustain_ms"`            // Continuous tension required before an alert
	HeadRotationGate         float64 `json:"head_rotation_gate"`          // |rotation| above this suppresses the tick
	SmileMouthWidthThreshold float64 `json:"smile_mouth_width_threshold"` // Mouth width ratio indicator
	SmileCornerLiftThreshold float64 `json:"smile_corner_lift_threshold"` // Corner lift ratio indicator
	SmileCheekRaiseThreshold float64 `json:"smile_cheek_raise_threshold"` // Cheek raise ratio indicator
	SmileScoreThreshold      float64 `json:"smile_score_threshold"`       // Weighted score cutoff
}

// Tuning returns the pipeline's current tuning parameters
func (p *Pipeline) Tuning() TuningParams {
	return TuningParams{
		TensionThresholdRatio:    p.cfg.TensionThresholdRatio,
		AlertSustainMs:           p.cfg.AlertSustain.Milliseconds(),
		HeadRotationGate:         p.cfg.HeadRotationGate,
		SmileMouthWidthThreshold: p.cfg.SmileMouthWidthThreshold,
		SmileCornerLiftThreshold: p.cfg.SmileCornerLiftThreshold,
		SmileCheekRaiseThreshold: p.cfg.SmileCheekRaiseThreshold,
		SmileScoreThreshold:      p.cfg.SmileScoreThreshold,
	}
}

// SetTuning applies tuning parameters at runtime. Only non-zero values are
// applied, and each is clamped to its valid range. Calibration windows
// already in flight keep their original gates.
func (p *Pipeline) SetTuning(params TuningParams) {
	if params.TensionThresholdRatio > 0 {
		p.cfg.TensionThresholdRatio = clamp(params.TensionThresholdRatio, 0.5, 0.99)
	}
	if params.AlertSustainMs > 0 {
		p.cfg.AlertSustain = time.Duration(params.AlertSustainMs) * time.Millisecond
	}
	if params.HeadRotationGate > 0 {
		p.cfg.HeadRotationGate = clamp(params.HeadRotationGate, 0.1, 0.9)
	}
	if params.SmileMouthWidthThreshold > 1 {
		p.cfg.SmileMouthWidthThreshold = params.SmileMouthWidthThreshold
	}
	if params.SmileCornerLiftThreshold > 1 {
		p.cfg.SmileCornerLiftThreshold = params.SmileCornerLiftThreshold
	}
	if params.SmileCheekRaiseThreshold > 0 {
		p.cfg.SmileCheekRaiseThreshold = clamp(params.SmileCheekRaiseThreshold, 0.5, 0.99)
	}
	if params.SmileScoreThreshold > 0 {
		p.cfg.SmileScoreThreshold = clamp(params.SmileScoreThreshold, 0.05, 1)
	}

	p.detector.SetConfig(p.cfg)
}
