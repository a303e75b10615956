package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/eliteGoblin/wasp/internal/daemon"
	"github.com/eliteGoblin/wasp/internal/infra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the watch, polling for events",
	Long: `Starts the watch and drives the application manager from a poll loop.
Commands are read from stdin. The watch runs until the process is signalled.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runWatch(cmd, daemon.ModeBlocking)
	},
}

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Run the watch, dispatching only on interrupts",
	Long: `Starts the watch in cooperative mode: the manager does nothing until an
input or a periodic clock alarm asks for a dispatch pass.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runWatch(cmd, daemon.ModeScheduled)
	},
}

func runWatch(cmd *cobra.Command, mode string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if metricsAddr != "" {
		cfg.MetricsAddr = metricsAddr
	}

	status := infra.NewStatusFile(cfg.StatusPath(), infra.NewProcessManager())
	if alive, _ := status.IsAlive(); alive {
		prev, _ := status.Read()
		return fmt.Errorf("wasp is already running (pid %d)", prev.PID)
	}

	if detach {
		args := []string{cmd.Name()}
		if configPath != "" {
			args = append(args, "--config", configPath)
		}
		if cfg.MetricsAddr != "" {
			args = append(args, "--metrics-addr", cfg.MetricsAddr)
		}
		pid, err := daemon.StartDetached(args...)
		if err != nil {
			return fmt.Errorf("failed to start in background: %w", err)
		}
		fmt.Printf("wasp started (pid %d)\n", pid)
		return nil
	}

	logger := createLogger(cfg)
	defer func() { _ = logger.Sync() }()

	s, err := buildStack(cfg, logger, os.Stdout)
	if err != nil {
		logger.Error("failed to build watch", zap.Error(err))
		return err
	}
	defer s.close()

	// Set up graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Info("received shutdown signal")
		cancel()
	}()

	if cfg.MetricsAddr != "" {
		stop := serveMetrics(cfg.MetricsAddr, s, logger)
		defer stop()
	}

	go func() {
		if err := s.console.Run(ctx, os.Stdin); err != nil {
			logger.Warn("console stopped", zap.Error(err))
		}
	}()

	switch mode {
	case daemon.ModeScheduled:
		err = s.runner.RunScheduled(ctx, s.scheduler, s.sim.Raise)
	default:
		err = s.runner.Run(ctx)
	}
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// serveMetrics exposes the manager metrics over HTTP until the returned
// function is called.
func serveMetrics(addr string, s *stack, logger *zap.Logger) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", s.metrics.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		logger.Info("serving metrics", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", zap.Error(err))
		}
	}()

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
}
