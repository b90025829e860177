package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/stressless/facewatch/internal/config"
	"github.com/stressless/facewatch/internal/log"
	"github.com/stressless/facewatch/pkg/landmarks"
	"github.com/stressless/facewatch/pkg/relay"
	"github.com/stressless/facewatch/pkg/sink"
	"github.com/stressless/facewatch/pkg/tension"
	"github.com/stressless/facewatch/pkg/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the facewatch server",
	Long: `Start the facewatch server. Frame sources push landmark frames to
/ws/frames; dashboards subscribe to /ws/events; calibration and tuning are
controlled over the REST API. Alerts fan out to the configured sinks.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", "", "Listen address (overrides config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	log.Init(cfg.Log.Level)

	if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
		cfg.Server.Addr = addr
	}

	tc, err := cfg.TensionConfig()
	if err != nil {
		return fmt.Errorf("pipeline config: %w", err)
	}

	sinks, err := buildSinks(cfg)
	if err != nil {
		return err
	}
	defer sinks.Close()

	pipeline, err := tension.NewPipeline(tc, landmarks.FaceMesh(), sinks)
	if err != nil {
		return err
	}

	server := web.NewServer(cfg.Server.Addr, pipeline)

	// Graceful shutdown on SIGINT/SIGTERM
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-stop
		log.Info("shutting down", "signal", sig.String())
		if err := server.Shutdown(); err != nil {
			log.Error("shutdown error", "error", err)
		}
	}()

	return server.Start()
}

// buildSinks assembles the alert fan-out from the configuration.
// The structured log sink is always present.
func buildSinks(cfg *config.Config) (sink.Multi, error) {
	sinks := sink.Multi{sink.Log{}}

	if cfg.MQTT.Enabled {
		m, err := sink.NewMQTT(cfg.MQTT.Broker, cfg.MQTT.Topic)
		if err != nil {
			return nil, fmt.Errorf("mqtt sink: %w", err)
		}
		log.Info("mqtt sink enabled", "broker", cfg.MQTT.Broker, "topic", cfg.MQTT.Topic)
		sinks = append(sinks, m)
	}

	if cfg.Relay.Enabled {
		log.Info("relay sink enabled", "url", cfg.Relay.URL)
		sinks = append(sinks, relay.New(cfg.Relay.URL))
	}

	return sinks, nil
}
