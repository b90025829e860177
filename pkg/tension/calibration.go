package tension

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// SessionState tracks the calibration lifecycle
type SessionState string

const (
	SessionNotStarted SessionState = "not_started"
	SessionCollecting SessionState = "collecting"
	SessionFinalized  SessionState = "finalized"
)

// Baseline is the personal neutral signal: the component-wise mean of the
// samples a calibration session accepted.
type Baseline = Signal

// Session accumulates gated signal samples over a fixed window and
// produces a baseline. Not safe for concurrent use; the pipeline owns it.
type Session struct {
	id             string
	state          SessionState
	startTime      time.Time
	endTime        time.Time
	lastSampleTime time.Time
	samples        []Signal

	duration       time.Duration
	sampleInterval time.Duration
	rotationGate   float64

	baseline    Baseline
	hasBaseline bool
}

// NewSession creates an idle calibration session with the given gates.
// The session does nothing until Start.
func NewSession(cfg Config) *Session {
	return &Session{
		id:             uuid.NewString(),
		state:          SessionNotStarted,
		duration:       cfg.CalibrationDuration,
		sampleInterval: cfg.SampleInterval,
		rotationGate:   cfg.HeadRotationGate,
	}
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// State returns the current lifecycle state.
func (s *Session) State() SessionState { return s.state }

// SampleCount returns how many samples have been accepted so far.
func (s *Session) SampleCount() int { return len(s.samples) }

// Start opens the sample window. Restarting a session clears any
// previously collected samples and baseline.
func (s *Session) Start(now time.Time) {
	s.samples = s.samples[:0]
	s.startTime = now
	s.endTime = now.Add(s.duration)
	s.lastSampleTime = time.Time{}
	s.baseline = Baseline{}
	s.hasBaseline = false
	s.state = SessionCollecting
}

// Offer submits a live signal to the session. The sample is accepted only
// while collecting, only after the sample interval has elapsed since the
// last accepted sample, and only when the head is close enough to forward.
// Turned-head frames would bias the neutral baseline, so they are dropped.
func (s *Session) Offer(sig Signal, now time.Time) bool {
	if s.state != SessionCollecting {
		return false
	}
	if !s.lastSampleTime.IsZero() && now.Sub(s.lastSampleTime) < s.sampleInterval {
		return false
	}
	if math.Abs(sig.HeadRotation) > s.rotationGate {
		return false
	}

	s.samples = append(s.samples, sig)
	s.lastSampleTime = now
	return true
}

// Tick finalizes the session once the window has elapsed. Returns true on
// the tick that performed the transition.
func (s *Session) Tick(now time.Time) bool {
	if s.state != SessionCollecting || now.Before(s.endTime) {
		return false
	}

	if len(s.samples) > 0 {
		s.baseline = meanSignal(s.samples)
		s.hasBaseline = true
	}
	s.state = SessionFinalized
	return true
}

// Baseline returns the calibrated baseline. The second return is false when
// the window closed without a single accepted sample: calibration failed,
// and detection must stay off until a new session succeeds.
func (s *Session) Baseline() (Baseline, bool) {
	return s.baseline, s.hasBaseline
}

// Remaining reports the whole seconds left in the window, clamped to zero.
// Observability only; finalization happens in Tick.
func (s *Session) Remaining(now time.Time) int {
	if s.state != SessionCollecting {
		return 0
	}
	left := s.endTime.Sub(now)
	if left <= 0 {
		return 0
	}
	return int(math.Ceil(left.Seconds()))
}

func meanSignal(samples []Signal) Signal {
	var sum Signal
	for _, s := range samples {
		sum.EyeOpenAvg += s.EyeOpenAvg
		sum.BrowInnerDist += s.BrowInnerDist
		sum.MouthWidth += s.MouthWidth
		sum.MouthCornerLift += s.MouthCornerLift
		sum.CheekRaise += s.CheekRaise
		sum.HeadRotation += s.HeadRotation
	}
	n := float64(len(samples))
	return Signal{
		EyeOpenAvg:      sum.EyeOpenAvg / n,
		BrowInnerDist:   sum.BrowInnerDist / n,
		MouthWidth:      sum.MouthWidth / n,
		MouthCornerLift: sum.MouthCornerLift / n,
		CheekRaise:      sum.CheekRaise / n,
		HeadRotation:    sum.HeadRotation / n,
	}
}
