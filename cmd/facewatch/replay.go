package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/stressless/facewatch/internal/log"
	"github.com/stressless/facewatch/pkg/landmarks"
	"github.com/stressless/facewatch/pkg/protocol"
	"github.com/stressless/facewatch/pkg/sink"
	"github.com/stressless/facewatch/pkg/tension"
)

var replayCmd = &cobra.Command{
	Use:   "replay <recording.jsonl>",
	Short: "Run a recorded landmark stream through the pipeline",
	Long: `Replay feeds a JSONL recording of landmark frames through the
pipeline offline: calibration runs over the leading frames, then detection
over the rest. Each line is one frame object:

  {"landmarks":[{"x":0.1,"y":0.2},...],"captured_at":1060}

Timestamps are monotonic milliseconds. The alert timeline is printed, which
makes threshold tuning reproducible without a live source.`,
	Args: cobra.ExactArgs(1),
	RunE: runReplay,
}

func init() {
	rootCmd.AddCommand(replayCmd)

	replayCmd.Flags().String("profile", "default", "Tuning profile (default, relaxed, sensitive)")
	replayCmd.Flags().Bool("verbose-ticks", false, "Print every tick outcome, not just alerts")
}

func runReplay(cmd *cobra.Command, args []string) error {
	if logLevel == "" {
		logLevel = "warn" // Keep replay output readable by default
	}
	log.Init(logLevel)

	var cfg tension.Config
	switch profile, _ := cmd.Flags().GetString("profile"); profile {
	case "default":
		cfg = tension.DefaultConfig()
	case "relaxed":
		cfg = tension.RelaxedConfig()
	case "sensitive":
		cfg = tension.SensitiveConfig()
	default:
		return fmt.Errorf("unknown profile %q", profile)
	}
	verbose, _ := cmd.Flags().GetBool("verbose-ticks")

	recorder := sink.NewFake()
	pipeline, err := tension.NewPipeline(cfg, landmarks.FaceMesh(), recorder)
	if err != nil {
		return err
	}

	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("open recording: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 1024*1024), 1024*1024)

	started := false
	line := 0
	ticks := 0
	for scanner.Scan() {
		line++
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}

		var frame protocol.FrameData
		if err := json.Unmarshal(raw, &frame); err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}

		now := frame.Time()
		if !started {
			pipeline.StartCalibration(now)
			started = true
		}

		res := pipeline.Tick(tension.Frame{Points: frame.Landmarks, Timestamp: now})
		ticks++

		if verbose {
			fmt.Printf("%8dms  mode=%-11s status=%s\n",
				frame.CapturedAt, res.Mode, res.Status)
		}
		if res.Alert != nil {
			fmt.Printf("ALERT at %dms (sustained %v, id %s)\n",
				frame.CapturedAt, res.Alert.Sustained, res.Alert.ID)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read recording: %w", err)
	}

	fmt.Printf("replayed %d frames, %d alert(s)\n", ticks, recorder.Count())
	if _, ok := pipeline.Baseline(); !ok {
		fmt.Println("note: calibration produced no baseline; detection never ran")
	}
	return nil
}
