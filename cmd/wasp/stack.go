package main

import (
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/eliteGoblin/wasp/internal/apps"
	"github.com/eliteGoblin/wasp/internal/config"
	"github.com/eliteGoblin/wasp/internal/daemon"
	"github.com/eliteGoblin/wasp/internal/domain"
	"github.com/eliteGoblin/wasp/internal/gadgetbridge"
	"github.com/eliteGoblin/wasp/internal/infra"
	"github.com/eliteGoblin/wasp/internal/system"
)

// stack is a fully wired watch: simulated hardware, the manager with its
// apps, the phone link and the runner that drives it all.
type stack struct {
	logger    *zap.Logger
	sim       *infra.SimWatch
	manager   *system.Manager
	prefs     *infra.EncryptedPreferences
	metrics   *infra.PromObserver
	status    *infra.StatusFile
	scheduler *daemon.Scheduler
	runner    *daemon.Runner
	decoder   *gadgetbridge.Decoder
	responder *gadgetbridge.Responder
	console   *infra.Console
}

// buildStack wires every component. Phone replies go to phoneOut.
func buildStack(cfg *config.Config, logger *zap.Logger, phoneOut io.Writer) (*stack, error) {
	s := &stack{logger: logger}

	var prefs domain.PreferenceStore
	if p, err := infra.OpenPreferences(cfg.DataDir); err != nil {
		logger.Warn("preferences unavailable, choices will not persist", zap.Error(err))
	} else {
		s.prefs = p
		prefs = p
	}

	s.sim = infra.NewSimWatch(infra.NewHostRTC())
	s.metrics = infra.NewPromObserver()
	s.scheduler = daemon.NewScheduler(cfg.Runner.WorkQueue, logger)
	s.manager = system.NewManager(cfg.ManagerConfig(), s.sim.Watch(), logger).
		WithObserver(s.metrics).
		WithLauncher(apps.LauncherFactory()).
		WithFallback(apps.TorchFactory()).
		WithScheduler(s.scheduler).
		WithMemoryReader(infra.NewMemoryReader())

	s.responder = gadgetbridge.NewResponder(phoneOut)
	s.decoder = gadgetbridge.NewDecoder(s.manager, logger)

	catalog := apps.NewDefaultCatalog(prefs, s.responder.Music)
	if err := catalog.Install(s.manager, prefs); err != nil {
		s.close()
		return nil, fmt.Errorf("failed to install apps: %w", err)
	}

	s.status = infra.NewStatusFile(cfg.StatusPath(), infra.NewProcessManager())
	s.runner = daemon.NewRunner(cfg.DaemonConfig(), s.manager, s.status, logger)
	s.console = infra.NewConsole(s.sim, s.phone, logger)
	return s, nil
}

// phone hands a phone command to the dispatch goroutine. Decode errors
// are reported back to the phone rather than stopping the watch.
func (s *stack) phone(line string) {
	ok := s.runner.Submit(func() error {
		if err := s.decoder.Handle(line); err != nil {
			s.logger.Warn("phone command rejected", zap.Error(err))
			if rerr := s.responder.Error(err.Error()); rerr != nil {
				s.logger.Warn("failed to reply to phone", zap.Error(rerr))
			}
		}
		return nil
	})
	if !ok {
		s.logger.Warn("dispatch queue full, dropping phone command")
	}
}

func (s *stack) close() {
	if s.prefs != nil {
		if err := s.prefs.Close(); err != nil {
			s.logger.Warn("failed to close preferences", zap.Error(err))
		}
	}
}
