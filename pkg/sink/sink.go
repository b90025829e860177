// Package sink delivers alert events to external consumers with an
// abstraction for testing. The pipeline only sees the Sink interface;
// notification, audio, or any user-facing delivery lives behind it.
package sink

import (
	"github.com/stressless/facewatch/internal/log"
	"github.com/stressless/facewatch/pkg/tension"
)

// Sink receives alert events.
type Sink interface {
	// Alert delivers one event. Returns error if delivery fails
	// (should not crash the pipeline).
	Alert(tension.AlertEvent) error

	// Close releases any connection the sink holds.
	Close() error
}

// Multi fans one alert out to several sinks. Delivery continues past
// failures; the first error is returned.
type Multi []Sink

// Alert delivers the event to every sink.
func (m Multi) Alert(ev tension.AlertEvent) error {
	var first error
	for _, s := range m {
		if err := s.Alert(ev); err != nil {
			log.Warn("sink delivery failed", "alert", ev.ID, "error", err)
			if first == nil {
				first = err
			}
		}
	}
	return first
}

// Close closes every sink.
func (m Multi) Close() error {
	var first error
	for _, s := range m {
		if err := s.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Log writes alerts to the structured log. Always available, never fails.
type Log struct{}

func (Log) Alert(ev tension.AlertEvent) error {
	log.Info("alert",
		"id", ev.ID,
		"timestamp", ev.Timestamp,
		"sustained", ev.Sustained)
	return nil
}

func (Log) Close() error { return nil }

// Func adapts a function to the Sink interface.
type Func func(tension.AlertEvent) error

func (f Func) Alert(ev tension.AlertEvent) error { return f(ev) }
func (f Func) Close() error                      { return nil }
