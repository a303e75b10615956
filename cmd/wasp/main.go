// Package main is the CLI entry point for wasp.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/eliteGoblin/wasp/internal/config"
)

var (
	// Version info (set via ldflags)
	Version   = "0.1.0"
	Commit    = "dev"
	BuildTime = "unknown"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "wasp",
	Short: "Wearable application manager",
	Long: `wasp runs watch applications on a simulated smartwatch.

One application is active at a time. Swipes move between the watch face
and the quick ring apps, swipe up opens the launcher, and the side button
returns home or puts the watch to sleep. Input is read from stdin, one
command per line (up, down, left, right, tap X Y, press, release, click,
battery LEVEL [charging]); lines of the form GB({...}) are phone commands.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: false,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run:   runVersion,
}

var (
	configPath  string
	jsonOutput  bool
	detach      bool
	metricsAddr string
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: ./config.yaml, ~/.config/wasp/config.yaml)")

	runCmd.Flags().BoolVar(&detach, "detach", false, "Run in the background")
	runCmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address")
	scheduleCmd.Flags().BoolVar(&detach, "detach", false, "Run in the background")
	scheduleCmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address")
	statusCmd.Flags().BoolVar(&jsonOutput, "json", false, "Output status as JSON")
	listCmd.Flags().BoolVar(&jsonOutput, "json", false, "Output the catalog as JSON")
	versionCmd.Flags().BoolVar(&jsonOutput, "json", false, "Output version info as JSON")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(scheduleCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(sendCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads the configuration, logging to stderr until the real
// logger exists.
func loadConfig() (*config.Config, error) {
	bootLogger, err := zap.NewDevelopment()
	if err != nil {
		bootLogger = zap.NewNop()
	}
	defer func() { _ = bootLogger.Sync() }()

	cfg, err := config.LoadConfig(configPath, bootLogger.WithOptions(zap.IncreaseLevel(zapcore.WarnLevel)))
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

func createLogger(cfg *config.Config) *zap.Logger {
	logPath := cfg.LogPath
	if logPath == "" {
		logPath = filepath.Join(cfg.DataDir, "wasp.log")
	}
	_ = os.MkdirAll(filepath.Dir(logPath), 0700)

	zc := zap.NewProductionConfig()
	zc.OutputPaths = []string{logPath}
	zc.ErrorOutputPaths = []string{logPath}
	zc.EncoderConfig.TimeKey = "time"
	zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if level, err := zap.ParseAtomicLevel(cfg.LogLevel); err == nil {
		zc.Level = level
	}

	logger, err := zc.Build()
	if err != nil {
		// Fallback to stderr if file logging fails
		logger, _ = zap.NewProduction()
	}
	return logger
}

func runVersion(cmd *cobra.Command, args []string) {
	if jsonOutput {
		fmt.Printf(`{"version":"%s","commit":"%s","build_time":"%s"}`+"\n",
			Version, Commit, BuildTime)
	} else {
		fmt.Printf("wasp %s (commit: %s, built: %s)\n",
			Version, Commit, BuildTime)
	}
}
