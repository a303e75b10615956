// Package daemon drives the manager: a blocking poll loop, or a
// cooperative work queue fed by input interrupts.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/eliteGoblin/wasp/internal/domain"
)

// ErrScheduling is returned by Run when the manager is already in
// cooperative mode.
var ErrScheduling = errors.New("manager is in cooperative mode")

const (
	ModeBlocking  = "blocking"
	ModeScheduled = "scheduled"
)

// Core is the manager as driven by the runner.
type Core interface {
	SecondaryInit() error
	Tick() error
	Schedule(enable bool) error
	Scheduling() bool
	Snapshot() domain.Status
}

// RunnerConfig holds runner configuration.
type RunnerConfig struct {
	PollInterval   time.Duration // Tick period in blocking mode
	AlarmInterval  time.Duration // RTC alarm period in cooperative mode
	StatusInterval time.Duration // How often to write the status file
	SubmitQueue    int           // Pending closures before Submit refuses
}

// DefaultRunnerConfig returns default runner configuration.
func DefaultRunnerConfig() RunnerConfig {
	return RunnerConfig{
		PollInterval:   20 * time.Millisecond,
		AlarmInterval:  time.Second,
		StatusInterval: 5 * time.Second,
		SubmitQueue:    16,
	}
}

// Runner owns the dispatch goroutine. Everything that touches the manager
// runs inside Run, including closures handed to Submit.
type Runner struct {
	config    RunnerConfig
	core      Core
	status    domain.StatusWriter
	submitted chan func() error
	sessionID string
	mode      string
	logger    *zap.Logger
}

// NewRunner creates a runner. status may be nil.
func NewRunner(config RunnerConfig, core Core, status domain.StatusWriter, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.SubmitQueue <= 0 {
		config.SubmitQueue = DefaultRunnerConfig().SubmitQueue
	}
	return &Runner{
		config:    config,
		core:      core,
		status:    status,
		submitted: make(chan func() error, config.SubmitQueue),
		sessionID: uuid.NewString(),
		mode:      ModeBlocking,
		logger:    logger,
	}
}

// SessionID identifies this run in the status file.
func (r *Runner) SessionID() string { return r.sessionID }

// Submit queues fn for the dispatch goroutine. It returns false when the
// queue is full. An error from fn stops the runner.
func (r *Runner) Submit(fn func() error) bool {
	select {
	case r.submitted <- fn:
		return true
	default:
		return false
	}
}

// Run drives Tick from a poll loop until ctx is cancelled or the manager
// reports an error.
func (r *Runner) Run(ctx context.Context) error {
	if r.core.Scheduling() {
		return ErrScheduling
	}
	if err := r.core.SecondaryInit(); err != nil {
		r.logger.Error("failed to start manager", zap.Error(err))
		return err
	}
	r.mode = ModeBlocking
	r.logger.Info("runner started",
		zap.String("session", r.sessionID),
		zap.Duration("poll", r.config.PollInterval))

	pollTicker := time.NewTicker(r.config.PollInterval)
	defer pollTicker.Stop()

	return r.loop(ctx, pollTicker.C, func() error {
		if err := r.core.Tick(); err != nil {
			return fmt.Errorf("dispatch: %w", err)
		}
		return nil
	}, nil)
}

// RunScheduled switches the manager to cooperative mode and runs queued
// work from sched until ctx is cancelled or work fails. alarm, when not
// nil, is called every AlarmInterval in place of the RTC alarm interrupt.
func (r *Runner) RunScheduled(ctx context.Context, sched *Scheduler, alarm func()) error {
	if err := r.core.Schedule(true); err != nil {
		r.logger.Error("failed to enter cooperative mode", zap.Error(err))
		return err
	}
	defer func() {
		if err := r.core.Schedule(false); err != nil {
			r.logger.Warn("failed to leave cooperative mode", zap.Error(err))
		}
	}()
	r.mode = ModeScheduled
	r.logger.Info("runner started",
		zap.String("session", r.sessionID),
		zap.String("mode", r.mode))

	var alarms <-chan time.Time
	if alarm != nil {
		alarmTicker := time.NewTicker(r.config.AlarmInterval)
		defer alarmTicker.Stop()
		alarms = alarmTicker.C
	}

	return r.loop(ctx, alarms, func() error {
		alarm()
		return nil
	}, sched)
}

func (r *Runner) loop(ctx context.Context, beat <-chan time.Time, onBeat func() error, sched *Scheduler) error {
	statusTicker := time.NewTicker(r.config.StatusInterval)
	defer statusTicker.Stop()

	var work <-chan func() error
	if sched != nil {
		work = sched.C()
	}

	r.writeStatus()
	for {
		select {
		case <-ctx.Done():
			r.logger.Info("runner stopping")
			r.clearStatus()
			return ctx.Err()

		case <-beat:
			if err := onBeat(); err != nil {
				return r.fail(err)
			}

		case fn := <-work:
			if err := sched.run(fn); err != nil {
				return r.fail(fmt.Errorf("scheduled work: %w", err))
			}

		case fn := <-r.submitted:
			if err := fn(); err != nil {
				return r.fail(fmt.Errorf("submitted work: %w", err))
			}

		case <-statusTicker.C:
			r.writeStatus()
		}
	}
}

func (r *Runner) fail(err error) error {
	r.logger.Error("runner stopped", zap.Error(err))
	r.writeStatus()
	return err
}

func (r *Runner) writeStatus() {
	if r.status == nil {
		return
	}
	s := r.core.Snapshot()
	s.SessionID = r.sessionID
	s.PID = os.Getpid()
	s.Mode = r.mode
	s.UpdatedAt = time.Now()
	if err := r.status.Write(s); err != nil {
		r.logger.Warn("failed to write status", zap.Error(err))
	}
}

func (r *Runner) clearStatus() {
	if r.status == nil {
		return
	}
	if err := r.status.Clear(); err != nil {
		r.logger.Warn("failed to clear status", zap.Error(err))
	}
}
