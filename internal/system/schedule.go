package system

import "go.uber.org/zap"

// Schedule switches between blocking and cooperative operation. When
// enabled, input interrupts call RequestWork instead of the caller driving
// Tick from a loop.
func (m *Manager) Schedule(enable bool) error {
	if enable && m.scheduler == nil {
		return ErrNoScheduler
	}
	if err := m.SecondaryInit(); err != nil {
		return err
	}

	if enable {
		m.watch.IRQ.SetScheduleHook(m.RequestWork)
	} else {
		m.watch.IRQ.SetScheduleHook(nil)
	}
	m.scheduling = enable
	m.logger.Info("scheduling mode changed", zap.Bool("enabled", enable))
	return nil
}

// Scheduling reports whether cooperative mode is active.
func (m *Manager) Scheduling() bool { return m.scheduling }

// RequestWork queues a single Work call. Requests made while one is
// already pending collapse into it. Safe to call from any goroutine.
func (m *Manager) RequestWork() {
	if !m.pending.CompareAndSwap(false, true) {
		return
	}
	if !m.scheduler.Schedule(m.Work) {
		m.pending.Store(false)
	}
}

// Work is the queued dispatch pass.
func (m *Manager) Work() error {
	m.pending.Store(false)
	return m.Tick()
}
