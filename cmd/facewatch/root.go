package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	configPath string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:   "facewatch",
	Short: "Real-time facial tension detection from landmark streams",
	Long: `Facewatch derives a facial tension signal from streamed landmark
positions, calibrates a personal neutral baseline, and raises an alert when
tension is sustained - while suppressing false alerts from smiling or head
turning. Landmark inference and capture stay outside; facewatch consumes
landmark frames over WebSocket or from a recording.`,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(func() {
		// .env file is optional, don't fail if not found
		_ = godotenv.Load()
	})

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to YAML config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
}
