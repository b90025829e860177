package tension

import (
	"fmt"
	"time"
)

// Config holds all tunable parameters for the tension pipeline
type Config struct {
	// Calibration
	CalibrationDuration time.Duration // Length of the neutral-baseline sample window
	SampleInterval      time.Duration // Minimum spacing between accepted calibration samples

	// Detection
	AlertSustain          time.Duration // Tension must hold this long before an alert fires
	TensionThresholdRatio float64       // Live value below baseline*ratio counts as tense

	// Smile suppression
	SmileMouthWidthThreshold float64 // Mouth width ratio above this indicates smiling
	SmileCornerLiftThreshold float64 // Corner lift ratio; (threshold-1) scales the baseline delta
	SmileCheekRaiseThreshold float64 // Cheek raise ratio below this indicates smiling
	SmileScoreThreshold      float64 // Weighted smile score above this indicates smiling
	SmileMinCornerLiftDelta  float64 // Absolute floor for the corner lift delta indicator

	// Gating
	HeadRotationGate float64 // |headRotation| above this suppresses the tick entirely
}

// DefaultConfig returns the recommended configuration
func DefaultConfig() Config {
	return Config{
		// Calibration - 10s window, 10 samples per second
		CalibrationDuration: 10 * time.Second,
		SampleInterval:      100 * time.Millisecond,

		// Detection - 3s of sustained tension, 10% below baseline
		AlertSustain:          3 * time.Second,
		TensionThresholdRatio: 0.9,

		// Smile suppression
		SmileMouthWidthThreshold: 1.05,
		SmileCornerLiftThreshold: 1.3,
		SmileCheekRaiseThreshold: 0.95,
		SmileScoreThreshold:      0.3,
		SmileMinCornerLiftDelta:  0.002,

		// Gating - suppress beyond roughly a third of a full turn
		HeadRotationGate: 0.5,
	}
}

// RelaxedConfig returns a configuration that alerts less eagerly.
// Useful for noisy landmark sources.
func RelaxedConfig() Config {
	cfg := DefaultConfig()
	cfg.AlertSustain = 5 * time.Second
	cfg.TensionThresholdRatio = 0.85 // Require a deeper dip below baseline
	cfg.HeadRotationGate = 0.4
	return cfg
}

// SensitiveConfig returns a configuration tuned for early warning
func SensitiveConfig() Config {
	cfg := DefaultConfig()
	cfg.AlertSustain = 2 * time.Second
	cfg.TensionThresholdRatio = 0.95
	cfg.SmileScoreThreshold = 0.4 // Harder to suppress via smile
	return cfg
}

// Validate rejects impossible parameter combinations at construction time
func (c Config) Validate() error {
	if c.CalibrationDuration <= 0 {
		return fmt.Errorf("calibration duration must be positive, got %v", c.CalibrationDuration)
	}
	if c.SampleInterval <= 0 {
		return fmt.Errorf("sample interval must be positive, got %v", c.SampleInterval)
	}
	if c.AlertSustain <= 0 {
		return fmt.Errorf("alert sustain must be positive, got %v", c.AlertSustain)
	}
	if c.TensionThresholdRatio <= 0 || c.TensionThresholdRatio >= 1 {
		return fmt.Errorf("tension threshold ratio must be in (0,1), got %v", c.TensionThresholdRatio)
	}
	if c.HeadRotationGate <= 0 || c.HeadRotationGate >= 1 {
		return fmt.Errorf("head rotation gate must be in (0,1), got %v", c.HeadRotationGate)
	}
	if c.SmileMouthWidthThreshold <= 1 {
		return fmt.Errorf("smile mouth width threshold must exceed 1, got %v", c.SmileMouthWidthThreshold)
	}
	if c.SmileCornerLiftThreshold <= 1 {
		return fmt.Errorf("smile corner lift threshold must exceed 1, got %v", c.SmileCornerLiftThreshold)
	}
	if c.SmileCheekRaiseThreshold <= 0 || c.SmileCheekRaiseThreshold >= 1 {
		return fmt.Errorf("smile cheek raise threshold must be in (0,1), got %v", c.SmileCheekRaiseThreshold)
	}
	if c.SmileScoreThreshold <= 0 || c.SmileScoreThreshold > 1 {
		return fmt.Errorf("smile score threshold must be in (0,1], got %v", c.SmileScoreThreshold)
	}
	if c.SmileMinCornerLiftDelta < 0 {
		return fmt.Errorf("smile min corner lift delta must not be negative, got %v", c.SmileMinCornerLiftDelta)
	}
	return nil
}
