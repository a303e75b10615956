package apps

import (
	"fmt"
	"time"

	"github.com/eliteGoblin/wasp/internal/domain"
	"github.com/eliteGoblin/wasp/internal/widgets"
)

// TimerState is the countdown state of the Timer app.
type TimerState int

const (
	TimerStopped TimerState = iota
	TimerRunning
	TimerRinging
)

const (
	timerButtonY   = 200
	timerRingPulse = 500 * time.Millisecond
)

// Timer is a kitchen timer. The countdown is kept as a system alarm so it
// fires while another app is active or the display is off; the app then
// wakes the device, takes the foreground and rings until touched.
type Timer struct {
	Base
	minutes *widgets.Spinner
	seconds *widgets.Spinner
	state   TimerState
	due     time.Time
	alarm   int
}

// TimerFactory builds Timer, preset to ten minutes.
func TimerFactory() domain.AppFactory {
	return domain.AppFactory{Name: "Timer", New: func(sys domain.System) domain.Application {
		t := &Timer{
			Base:    newBase(sys, "Timer", timerIcon),
			minutes: widgets.NewSpinner(50, 60, 0, 99, 2),
			seconds: widgets.NewSpinner(130, 60, 0, 59, 2),
		}
		t.minutes.Value = 10
		return t
	}}
}

func (t *Timer) Foreground() error {
	t.paint()
	t.sys.RequestEvent(domain.MaskTouch)
	t.sys.RequestTick(1000)
	return nil
}

// Background silences a ringing timer. A running countdown carries on.
func (t *Timer) Background() error {
	if t.state == TimerRinging {
		t.state = TimerStopped
	}
	return nil
}

func (t *Timer) State() TimerState { return t.state }

// Duration is the countdown length set on the spinners.
func (t *Timer) Duration() time.Duration {
	return time.Duration(t.minutes.Value*60+t.seconds.Value) * time.Second
}

// Tick buzzes and keeps the display on while ringing.
func (t *Timer) Tick(int) error {
	if t.state == TimerRinging {
		t.sys.Watch().Vibrator.Pulse(timerRingPulse)
		t.sys.KeepAwake()
	}
	t.update()
	return nil
}

// Touch sets the spinners and starts the countdown when stopped, and
// stops it otherwise.
func (t *Timer) Touch(event domain.TouchEvent) error {
	switch t.state {
	case TimerRinging:
		mute := t.sys.Watch().Display.Mute
		mute(true)
		t.stop()
		mute(false)
	case TimerRunning:
		t.stop()
	default:
		theme := t.sys.Theme()
		switch {
		case t.minutes.Touch(event):
			t.minutes.Update(t.draw(), theme)
		case t.seconds.Touch(event):
			t.seconds.Update(t.draw(), theme)
		case event.Y >= timerButtonY:
			t.start()
		}
	}
	return nil
}

func (t *Timer) start() {
	t.state = TimerRunning
	t.due = t.sys.Watch().RTC.LocalTime().Add(t.Duration())
	t.alarm = t.sys.SetAlarm(t.due, t.alert)
	t.paint()
}

func (t *Timer) stop() {
	t.state = TimerStopped
	t.sys.CancelAlarm(t.alarm)
	t.paint()
}

// alert runs from the dispatch loop when the countdown ends.
func (t *Timer) alert() error {
	if err := t.sys.Wake(); err != nil {
		return err
	}
	if err := t.sys.Switch(t); err != nil {
		return err
	}
	t.state = TimerRinging
	t.paint()
	return nil
}

func (t *Timer) paint() {
	t.clear()
	bar := t.sys.Bar()
	bar.SetClock(true)
	bar.Draw()

	draw := t.draw()
	theme := t.sys.Theme()
	switch t.state {
	case TimerRinging:
		draw.SetFont("sans24")
		draw.String(t.Name(), 0, 150, screenSize)
		draw.Blit(timerIcon, 73, 50, theme.Bright())
	case TimerRunning:
		draw.Fill(0xffff, 104, timerButtonY, 40, 40)
		draw.SetFont("sans28")
		draw.String(":", 110, 106, 20)
		t.update()
	default:
		draw.SetFont("sans28")
		draw.String(":", 110, 106, 20)
		t.minutes.Draw(draw, theme)
		t.seconds.Draw(draw, theme)
		for i := 0; i < 20; i++ {
			draw.Fill(0xffff, 114+i, timerButtonY+i, 1, 40-2*i)
		}
	}
}

func (t *Timer) update() {
	t.sys.Bar().Update()
	if t.state != TimerRunning {
		return
	}
	left := max(0, t.due.Sub(t.sys.Watch().RTC.LocalTime()))
	secs := int(left / time.Second)

	draw := t.draw()
	draw.SetFont("sans28")
	draw.String(fmt.Sprintf("%02d", secs/60), 50, 106, 60)
	draw.String(fmt.Sprintf("%02d", secs%60), 130, 106, 60)
}
