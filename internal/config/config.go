// Package config loads facewatch server configuration from a YAML file with
// environment variable overrides.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/stressless/facewatch/pkg/tension"
)

// Config is the full server configuration
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Log      LogConfig      `yaml:"log"`
	MQTT     MQTTConfig     `yaml:"mqtt"`
	Relay    RelayConfig    `yaml:"relay"`
	Pipeline PipelineConfig `yaml:"pipeline"`
}

// ServerConfig configures the HTTP/WebSocket listener
type ServerConfig struct {
	Addr string `yaml:"addr"` // e.g. ":8090"
}

// LogConfig configures structured logging
type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// MQTTConfig configures the optional MQTT alert sink
type MQTTConfig struct {
	Enabled bool   `yaml:"enabled"`
	Broker  string `yaml:"broker"` // e.g. "tcp://localhost:1883"
	Topic   string `yaml:"topic"`
}

// RelayConfig configures the optional upstream alert relay
type RelayConfig struct {
	Enabled bool   `yaml:"enabled"`
	URL     string `yaml:"url"` // e.g. "wss://collector.example.com/ws/alerts"
}

// PipelineConfig selects a tuning profile and optional per-field overrides.
// Zero overrides keep the profile value.
type PipelineConfig struct {
	Profile               string  `yaml:"profile"` // default, relaxed, sensitive
	CalibrationDurationMs int64   `yaml:"calibration_duration_ms"`
	SampleIntervalMs      int64   `yaml:"sample_interval_ms"`
	AlertSustainMs        int64   `yaml:"alert_sustain_ms"`
	TensionThresholdRatio float64 `yaml:"tension_threshold_ratio"`
	HeadRotationGate      float64 `yaml:"head_rotation_gate"`
}

// Default returns the configuration used when no file is given
func Default() *Config {
	return &Config{
		Server:   ServerConfig{Addr: ":8090"},
		Log:      LogConfig{Level: "info"},
		MQTT:     MQTTConfig{Topic: "facewatch/alerts"},
		Pipeline: PipelineConfig{Profile: "default"},
	}
}

// Load reads the YAML file at path (optional, "" skips it) and applies
// environment overrides on top.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnv(cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("FACEWATCH_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("FACEWATCH_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("FACEWATCH_MQTT_BROKER"); v != "" {
		cfg.MQTT.Broker = v
		cfg.MQTT.Enabled = true
	}
	if v := os.Getenv("FACEWATCH_MQTT_TOPIC"); v != "" {
		cfg.MQTT.Topic = v
	}
	if v := os.Getenv("FACEWATCH_RELAY_URL"); v != "" {
		cfg.Relay.URL = v
		cfg.Relay.Enabled = true
	}
}

// TensionConfig resolves the pipeline profile and overrides into a
// validated tension.Config.
func (c *Config) TensionConfig() (tension.Config, error) {
	var tc tension.Config
	switch c.Pipeline.Profile {
	case "", "default":
		tc = tension.DefaultConfig()
	case "relaxed":
		tc = tension.RelaxedConfig()
	case "sensitive":
		tc = tension.SensitiveConfig()
	default:
		return tension.Config{}, fmt.Errorf("unknown pipeline profile %q", c.Pipeline.Profile)
	}

	if ms := c.Pipeline.CalibrationDurationMs; ms > 0 {
		tc.CalibrationDuration = time.Duration(ms) * time.Millisecond
	}
	if ms := c.Pipeline.SampleIntervalMs; ms > 0 {
		tc.SampleInterval = time.Duration(ms) * time.Millisecond
	}
	if ms := c.Pipeline.AlertSustainMs; ms > 0 {
		tc.AlertSustain = time.Duration(ms) * time.Millisecond
	}
	if r := c.Pipeline.TensionThresholdRatio; r > 0 {
		tc.TensionThresholdRatio = r
	}
	if g := c.Pipeline.HeadRotationGate; g > 0 {
		tc.HeadRotationGate = g
	}

	if err := tc.Validate(); err != nil {
		return tension.Config{}, err
	}
	return tc, nil
}
