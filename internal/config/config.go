// Package config loads wasp settings from a YAML file, WASP_ environment
// variables and built-in defaults.
package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/eliteGoblin/wasp/internal/daemon"
	"github.com/eliteGoblin/wasp/internal/domain"
	"github.com/eliteGoblin/wasp/internal/infra"
	"github.com/eliteGoblin/wasp/internal/system"
)

// EnvPrefix is prepended to every environment override, e.g.
// WASP_WATCH_BRIGHTNESS.
const EnvPrefix = "WASP"

type WatchConfig struct {
	BlankAfterSeconds     int    `mapstructure:"blank_after_seconds"`
	FirstBootGraceSeconds int    `mapstructure:"first_boot_grace_seconds"`
	Brightness            int    `mapstructure:"brightness"`
	NotifyLevel           int    `mapstructure:"notify_level"`
	Units                 string `mapstructure:"units"` // "Metric" or "Imperial"
	Theme                 []int  `mapstructure:"theme"` // 11 RGB565 colours
}

type RunnerConfig struct {
	PollIntervalMs        int `mapstructure:"poll_interval_ms"`
	AlarmIntervalMs       int `mapstructure:"alarm_interval_ms"`
	StatusIntervalSeconds int `mapstructure:"status_interval_seconds"`
	SubmitQueue           int `mapstructure:"submit_queue"`
	WorkQueue             int `mapstructure:"work_queue"`
}

type Config struct {
	DataDir     string       `mapstructure:"data_dir"`
	LogPath     string       `mapstructure:"log_path"`
	LogLevel    string       `mapstructure:"log_level"`
	MetricsAddr string       `mapstructure:"metrics_addr"`
	Watch       WatchConfig  `mapstructure:"watch"`
	Runner      RunnerConfig `mapstructure:"runner"`
}

// DefaultDataDir returns ~/.wasp, or .wasp when the home directory is
// unknown.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".wasp"
	}
	return filepath.Join(home, ".wasp")
}

// LoadConfig reads configPath, or searches the default locations when it
// is empty. A missing file is not an error.
func LoadConfig(configPath string, logger *zap.Logger) (*Config, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/wasp")
		v.AddConfigPath("/etc/wasp/")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
		logger.Debug("config file not found, using defaults")
	} else {
		logger.Debug("config file loaded", zap.String("path", v.ConfigFileUsed()))
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	cfg.normalize(logger)
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("data_dir", DefaultDataDir())
	v.SetDefault("log_path", "")
	v.SetDefault("log_level", "info")
	v.SetDefault("metrics_addr", "")

	v.SetDefault("watch.blank_after_seconds", 15)
	v.SetDefault("watch.first_boot_grace_seconds", 90)
	v.SetDefault("watch.brightness", 2)
	v.SetDefault("watch.notify_level", 2)
	v.SetDefault("watch.units", "Metric")

	v.SetDefault("runner.poll_interval_ms", 20)
	v.SetDefault("runner.alarm_interval_ms", 1000)
	v.SetDefault("runner.status_interval_seconds", 5)
	v.SetDefault("runner.submit_queue", 16)
	v.SetDefault("runner.work_queue", 4)
}

// normalize clamps out of range values and logs each correction.
func (c *Config) normalize(logger *zap.Logger) {
	fix := func(name string, got *int, lo, hi int) {
		want := min(max(*got, lo), hi)
		if want != *got {
			logger.Warn("config value out of range",
				zap.String("key", name), zap.Int("value", *got), zap.Int("using", want))
			*got = want
		}
	}

	fix("watch.blank_after_seconds", &c.Watch.BlankAfterSeconds, 1, 3600)
	fix("watch.first_boot_grace_seconds", &c.Watch.FirstBootGraceSeconds, 1, 3600)
	fix("watch.brightness", &c.Watch.Brightness, 1, 3)
	fix("watch.notify_level", &c.Watch.NotifyLevel, 1, 3)
	fix("runner.poll_interval_ms", &c.Runner.PollIntervalMs, 1, 1000)
	fix("runner.alarm_interval_ms", &c.Runner.AlarmIntervalMs, 10, 60000)
	fix("runner.status_interval_seconds", &c.Runner.StatusIntervalSeconds, 1, 3600)
	fix("runner.submit_queue", &c.Runner.SubmitQueue, 1, 1024)
	fix("runner.work_queue", &c.Runner.WorkQueue, 1, 1024)

	if c.Watch.Units != "Metric" && c.Watch.Units != "Imperial" {
		logger.Warn("invalid units, defaulting to Metric", zap.String("units", c.Watch.Units))
		c.Watch.Units = "Metric"
	}
	if n := len(c.Watch.Theme); n != 0 && n != len(domain.Theme{}) {
		logger.Warn("theme needs 11 colours, using the default", zap.Int("colours", n))
		c.Watch.Theme = nil
	}
	if c.DataDir == "" {
		c.DataDir = DefaultDataDir()
	}
}

// ManagerConfig returns the manager settings.
func (c *Config) ManagerConfig() system.Config {
	mc := system.DefaultConfig()
	mc.BlankAfter = time.Duration(c.Watch.BlankAfterSeconds) * time.Second
	mc.FirstBootGrace = time.Duration(c.Watch.FirstBootGraceSeconds) * time.Second
	mc.Brightness = c.Watch.Brightness
	mc.NotifyLevel = c.Watch.NotifyLevel
	mc.Units = c.Watch.Units
	if len(c.Watch.Theme) == len(mc.Theme) {
		for i, colour := range c.Watch.Theme {
			mc.Theme[i] = uint16(colour)
		}
	}
	return mc
}

// DaemonConfig returns the runner settings.
func (c *Config) DaemonConfig() daemon.RunnerConfig {
	return daemon.RunnerConfig{
		PollInterval:   time.Duration(c.Runner.PollIntervalMs) * time.Millisecond,
		AlarmInterval:  time.Duration(c.Runner.AlarmIntervalMs) * time.Millisecond,
		StatusInterval: time.Duration(c.Runner.StatusIntervalSeconds) * time.Second,
		SubmitQueue:    c.Runner.SubmitQueue,
	}
}

// StatusPath is the status file inside the data directory.
func (c *Config) StatusPath() string {
	return filepath.Join(c.DataDir, infra.StatusFileName)
}
