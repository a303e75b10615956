package system

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/eliteGoblin/wasp/internal/domain"
)

// feedbackPulse is the vibration used to signal a navigation no-op.
const feedbackPulse = 50 * time.Millisecond

// Tick runs one dispatch pass. Due alarms run first. While awake it then
// delivers the tick callback, button and touch input, then checks the
// sleep deadline. While asleep it only watches the button and the charging
// flag for a reason to wake.
//
// App errors are returned unchanged; callers treat them as fatal.
func (m *Manager) Tick() error {
	if m.button == nil {
		m.Init()
	}

	if err := m.fireAlarms(); err != nil {
		return err
	}

	if !m.Awake() {
		pressed, changed := m.button.GetEvent()
		if (changed && pressed) || m.watch.Battery.Charging() != m.charging {
			return m.Wake()
		}
		return nil
	}

	if m.watch.RTC.Update() {
		if err := m.dispatchTick(); err != nil {
			return err
		}
	}

	if pressed, changed := m.button.GetEvent(); changed {
		if err := m.HandleButton(pressed); err != nil {
			return err
		}
	}

	// The button may have put the device to sleep.
	if m.Awake() {
		if event, ok := m.watch.Touch.GetEvent(); ok {
			if err := m.HandleTouch(event); err != nil {
				return err
			}
		}
	}

	if m.Awake() && m.watch.RTC.Uptime() > m.sleepAt {
		return m.Sleep()
	}
	return nil
}

// dispatchTick fires the app's Tick when the schedule has expired and moves
// the expiry to the first period boundary after now.
func (m *Manager) dispatchTick() error {
	if !m.tickArmed {
		return nil
	}
	now := m.watch.RTC.UptimeMs()
	if m.tickExpiry > now {
		return nil
	}

	app := m.app
	missed := 0
	if m.tickPeriodMs == 0 {
		m.disarmTick()
	} else {
		elapsed := now - m.tickExpiry
		missed = int((elapsed + m.tickPeriodMs - 1) / m.tickPeriodMs)
		m.tickExpiry += (elapsed/m.tickPeriodMs + 1) * m.tickPeriodMs
	}

	m.observer.TickDispatched(app.Name(), missed)
	if t, ok := app.(domain.Ticker); ok {
		if err := t.Tick(missed); err != nil {
			m.observer.CallbackFailed(app.Name(), "tick", err)
			return fmt.Errorf("tick %s: %w", app.Name(), err)
		}
	}
	return nil
}

// HandleButton routes a button edge. The active app sees it first when it
// asked for button events; otherwise a press returns home, or sleeps when
// already home.
func (m *Manager) HandleButton(pressed bool) error {
	m.KeepAwake()
	m.observer.InputDispatched(domain.EventHome)

	if m.eventMask.Has(domain.MaskButton) {
		if p, ok := m.app.(domain.Presser); ok {
			more, err := p.Press(domain.ButtonID, pressed)
			if err != nil {
				m.observer.CallbackFailed(m.app.Name(), "press", err)
				return fmt.Errorf("press %s: %w", m.app.Name(), err)
			}
			if !more {
				return nil
			}
		}
	}

	if !pressed {
		return nil
	}
	return m.navigate(domain.EventHome)
}

// HandleTouch routes one touch controller event and clears the
// controller's buffer afterwards.
func (m *Manager) HandleTouch(event domain.TouchEvent) error {
	m.KeepAwake()
	defer m.watch.Touch.ResetTouchData()
	m.observer.InputDispatched(event.Type)

	if event.Type == domain.EventNext {
		if m.eventMask.Has(domain.MaskNext) {
			more, err := m.swipe(event)
			if err != nil {
				return err
			}
			if !more {
				return nil
			}
		}
		event.Type = domain.EventRight
	}

	switch {
	case event.Type.IsSwipe():
		flag := domain.MaskSwipeLeftRight
		if event.Type.IsUpDown() {
			flag = domain.MaskSwipeUpDown
		}
		if m.eventMask.Has(flag) {
			more, err := m.swipe(event)
			if err != nil || !more {
				return err
			}
		}
		return m.navigate(event.Type)

	case event.Type == domain.EventTouch:
		if !m.eventMask.Has(domain.MaskTouch) {
			return nil
		}
		if t, ok := m.app.(domain.Toucher); ok {
			if err := t.Touch(event); err != nil {
				m.observer.CallbackFailed(m.app.Name(), "touch", err)
				return fmt.Errorf("touch %s: %w", m.app.Name(), err)
			}
		}
	}
	return nil
}

// swipe asks the active app about a gesture. Apps without a Swipe method
// accept the default navigation.
func (m *Manager) swipe(event domain.TouchEvent) (bool, error) {
	s, ok := m.app.(domain.Swiper)
	if !ok {
		return true, nil
	}
	more, err := s.Swipe(event)
	if err != nil {
		m.observer.CallbackFailed(m.app.Name(), "swipe", err)
		return false, fmt.Errorf("swipe %s: %w", m.app.Name(), err)
	}
	return more, nil
}

// navigate applies the default ring navigation for direction.
func (m *Manager) navigate(direction domain.EventType) error {
	home := m.Home()

	switch direction {
	case domain.EventLeft, domain.EventRight:
		i := m.quickRing.Index(m.app)
		if i < 0 {
			return m.Switch(home)
		}
		if direction == domain.EventRight {
			i++
		} else {
			i--
		}
		if i < 0 || i >= m.quickRing.Len() {
			m.vibrate()
			return nil
		}
		return m.Switch(m.quickRing.At(i))

	case domain.EventUp:
		if m.launcher == nil || m.app == m.launcher {
			m.vibrate()
			return nil
		}
		return m.Switch(m.launcher)

	case domain.EventDown:
		if m.app == home {
			m.vibrate()
			return nil
		}
		return m.Switch(home)

	case domain.EventHome:
		if m.app == home {
			return m.Sleep()
		}
		return m.Switch(home)
	}
	return nil
}

func (m *Manager) vibrate() {
	m.watch.Vibrator.Pulse(feedbackPulse)
}

// Sleep blanks the display. An app that cannot stay active while asleep is
// replaced by the home app first.
func (m *Manager) Sleep() error {
	m.watch.Backlight.Set(0)

	stay := false
	if s, ok := m.app.(domain.Sleeper); ok {
		stay = s.Sleep()
	}
	if !stay {
		if err := m.Switch(m.Home()); err != nil {
			return err
		}
		// The display goes off whatever home answers.
		if s, ok := m.app.(domain.Sleeper); ok {
			s.Sleep()
		}
	}

	// Foreground of the home app may have restored the backlight.
	m.watch.Backlight.Set(0)
	m.watch.Display.PowerOff()
	m.watch.Touch.Sleep()
	m.charging = m.watch.Battery.Charging()
	m.sleepAt = 0

	m.logger.Debug("sleeping", zap.String("app", m.app.Name()))
	m.observer.PowerChanged(false)
	return nil
}

// Wake restores the display after Sleep. Calling it while awake only
// refreshes the sleep deadline.
func (m *Manager) Wake() error {
	if m.app == nil {
		return ErrNoApplication
	}
	var err error
	if !m.Awake() {
		m.watch.Display.PowerOn()
		if w, ok := m.app.(domain.Waker); ok {
			if werr := w.Wake(); werr != nil {
				m.observer.CallbackFailed(m.app.Name(), "wake", werr)
				err = fmt.Errorf("wake %s: %w", m.app.Name(), werr)
			}
		}
		m.watch.Backlight.Set(m.brightness)
		m.watch.Touch.Wake()

		m.logger.Debug("waking", zap.String("app", m.app.Name()))
		m.observer.PowerChanged(true)
	}
	m.KeepAwake()
	return err
}
