package sink

import (
	"encoding/json"
	"fmt"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/stressless/facewatch/pkg/tension"
)

// DefaultTopic is the MQTT topic for tension alerts.
const DefaultTopic = "facewatch/alerts"

// alertPayload is the wire format published to the broker.
type alertPayload struct {
	Alert struct {
		ID          string `json:"id"`
		Timestamp   string `json:"timestamp"`
		SustainedMs int64  `json:"sustained_ms"`
	} `json:"alert"`
}

// FormatPayload creates the JSON payload for an alert event.
func FormatPayload(ev tension.AlertEvent) ([]byte, error) {
	var p alertPayload
	p.Alert.ID = ev.ID
	p.Alert.Timestamp = ev.Timestamp.UTC().Format(time.RFC3339Nano)
	p.Alert.SustainedMs = ev.Sustained.Milliseconds()
	return json.Marshal(p)
}

// MQTT publishes alerts to an MQTT broker.
type MQTT struct {
	client paho.Client
	topic  string
}

// NewMQTT creates a publisher connected to the given broker.
func NewMQTT(broker, topic string) (*MQTT, error) {
	if topic == "" {
		topic = DefaultTopic
	}

	opts := paho.NewClientOptions().
		AddBroker(broker).
		SetClientID("facewatch").
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second)

	client := paho.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(10 * time.Second) {
		return nil, fmt.Errorf("connection timeout")
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("connect to broker: %w", err)
	}

	return &MQTT{client: client, topic: topic}, nil
}

// Alert publishes one alert event.
func (m *MQTT) Alert(ev tension.AlertEvent) error {
	payload, err := FormatPayload(ev)
	if err != nil {
		return fmt.Errorf("format payload: %w", err)
	}

	// QoS 1 (at-least-once), not retained: an alert the consumer misses
	// is an alert that never happened.
	token := m.client.Publish(m.topic, 1, false, payload)
	if !token.WaitTimeout(5 * time.Second) {
		return fmt.Errorf("publish timeout")
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish: %w", err)
	}
	return nil
}

// Close disconnects from the broker.
func (m *MQTT) Close() error {
	m.client.Disconnect(1000) // milliseconds
	return nil
}
