package system

import (
	"fmt"
	"slices"
	"time"

	"go.uber.org/zap"
)

// alarm is a one-shot callback due at a local time.
type alarm struct {
	id     int
	at     time.Time
	action func() error
}

// SetAlarm queues action to run from Tick once the local time reaches at,
// whether the device is awake or asleep. Alarms due at the same time run
// in the order they were set. The returned id cancels the alarm.
func (m *Manager) SetAlarm(at time.Time, action func() error) int {
	m.alarmSeq++
	i := len(m.alarms)
	for i > 0 && m.alarms[i-1].at.After(at) {
		i--
	}
	m.alarms = slices.Insert(m.alarms, i, alarm{id: m.alarmSeq, at: at, action: action})
	return m.alarmSeq
}

// CancelAlarm removes a queued alarm. It reports false when the alarm has
// already fired or was never set.
func (m *Manager) CancelAlarm(id int) bool {
	for i, a := range m.alarms {
		if a.id == id {
			m.alarms = slices.Delete(m.alarms, i, i+1)
			return true
		}
	}
	return false
}

// Alarms returns the number of queued alarms.
func (m *Manager) Alarms() int { return len(m.alarms) }

// fireAlarms runs every due alarm, earliest first. An alarm is removed
// before its action runs so the action may set a new one.
func (m *Manager) fireAlarms() error {
	if len(m.alarms) == 0 {
		return nil
	}
	now := m.watch.RTC.LocalTime()
	for len(m.alarms) > 0 && !m.alarms[0].at.After(now) {
		a := m.alarms[0]
		m.alarms = m.alarms[1:]
		m.logger.Debug("alarm due", zap.Int("id", a.id), zap.Time("at", a.at))
		if err := a.action(); err != nil {
			return fmt.Errorf("alarm %d: %w", a.id, err)
		}
	}
	return nil
}
