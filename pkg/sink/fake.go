package sink

import (
	"sync"

	"github.com/stressless/facewatch/pkg/tension"
)

// Fake records alerts in memory for tests.
type Fake struct {
	mu     sync.Mutex
	alerts []tension.AlertEvent

	// FailWith, when set, is returned from every Alert call.
	FailWith error
}

// NewFake creates an empty fake sink.
func NewFake() *Fake {
	return &Fake{}
}

// Alert records the event.
func (f *Fake) Alert(ev tension.AlertEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.FailWith != nil {
		return f.FailWith
	}
	f.alerts = append(f.alerts, ev)
	return nil
}

// Close is a no-op.
func (f *Fake) Close() error { return nil }

// Alerts returns a copy of everything recorded so far.
func (f *Fake) Alerts() []tension.AlertEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]tension.AlertEvent, len(f.alerts))
	copy(out, f.alerts)
	return out
}

// Count returns how many alerts were recorded.
func (f *Fake) Count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.alerts)
}
