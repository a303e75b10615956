package system

import (
	"errors"
	"time"

	"github.com/eliteGoblin/wasp/internal/domain"
)

// fakeHardware implements every hardware collaborator with recorded state.
type fakeHardware struct {
	uptimeMs  int64
	updated   bool
	button    bool
	charging  bool
	battery   int
	events    []domain.TouchEvent
	resets    int
	touchOn   bool
	displayOn bool
	muted     bool
	backlight int
	pulses    int
	pinOn     bool
	hook      func()
}

func newFakeHardware() *fakeHardware {
	return &fakeHardware{updated: true, battery: 80, touchOn: true}
}

func (h *fakeHardware) watch() *domain.Watch {
	return &domain.Watch{
		Display:   (*fakeDisplay)(h),
		Drawable:  fakeDrawable{},
		Touch:     (*fakeTouch)(h),
		Button:    (*fakePin)(h),
		RTC:       (*fakeRTC)(h),
		Battery:   (*fakeBattery)(h),
		Backlight: (*fakeBacklight)(h),
		Vibrator:  (*fakeVibrator)(h),
		IRQ:       (*fakeIRQ)(h),
	}
}

func (h *fakeHardware) advance(d time.Duration) { h.uptimeMs += d.Milliseconds() }

type fakeDisplay fakeHardware

func (d *fakeDisplay) PowerOn()        { d.displayOn = true }
func (d *fakeDisplay) PowerOff()       { d.displayOn = false }
func (d *fakeDisplay) Mute(muted bool) { d.muted = muted }

type fakeDrawable struct{}

func (fakeDrawable) Reset()                               {}
func (fakeDrawable) Fill(uint16, int, int, int, int)      {}
func (fakeDrawable) Blit(domain.Icon, int, int, uint16)   {}
func (fakeDrawable) String(string, int, int, int)         {}
func (fakeDrawable) Line(int, int, int, int, int, uint16) {}
func (fakeDrawable) SetColor(uint16, uint16)              {}
func (fakeDrawable) SetFont(string)                       {}

type fakeTouch fakeHardware

func (t *fakeTouch) GetEvent() (domain.TouchEvent, bool) {
	if len(t.events) == 0 {
		return domain.TouchEvent{}, false
	}
	return t.events[0], true
}

func (t *fakeTouch) ResetTouchData() {
	t.resets++
	if len(t.events) > 0 {
		t.events = t.events[1:]
	}
}

func (t *fakeTouch) Sleep() { t.touchOn = false }
func (t *fakeTouch) Wake()  { t.touchOn = true }

type fakePin fakeHardware

func (p *fakePin) Value() bool { return p.button }

type fakeRTC fakeHardware

func (r *fakeRTC) Update() bool          { return r.updated }
func (r *fakeRTC) Uptime() time.Duration { return time.Duration(r.uptimeMs) * time.Millisecond }
func (r *fakeRTC) UptimeMs() int64       { return r.uptimeMs }
func (r *fakeRTC) LocalTime() time.Time  { return time.Unix(r.uptimeMs/1000, 0) }

type fakeBattery fakeHardware

func (b *fakeBattery) Level() int     { return b.battery }
func (b *fakeBattery) Charging() bool { return b.charging }

type fakeBacklight fakeHardware

func (b *fakeBacklight) Set(level int) { b.backlight = level }

type fakeVibrator fakeHardware

func (v *fakeVibrator) Pulse(time.Duration) { v.pulses++ }
func (v *fakeVibrator) Pin(on bool)         { v.pinOn = on }

type fakeIRQ fakeHardware

func (i *fakeIRQ) SetScheduleHook(hook func()) { i.hook = hook }

// fakeApp records every callback and answers with configurable values.
type fakeApp struct {
	name        string
	foregrounds int
	backgrounds int
	ticks       []int
	touches     []domain.TouchEvent
	swipes      []domain.TouchEvent
	presses     []bool
	registered  []bool
	unregs      int
	sleeps      int
	wakes       int

	sys       domain.System
	mask      domain.EventMask
	tickMs    int64
	sleepOK   bool
	swipeMore bool
	pressMore bool
	fgErr     error
	bgErr     error
	bgPanic   bool
	// relight reapplies the stored brightness from Foreground.
	relight bool
}

func newFakeApp(name string) *fakeApp {
	return &fakeApp{name: name, swipeMore: true, pressMore: true, tickMs: -1}
}

func (a *fakeApp) factory() domain.AppFactory {
	return domain.AppFactory{Name: a.name, New: func(sys domain.System) domain.Application {
		a.sys = sys
		return a
	}}
}

func (a *fakeApp) Name() string      { return a.name }
func (a *fakeApp) Icon() domain.Icon { return nil }

func (a *fakeApp) Foreground() error {
	a.foregrounds++
	if a.fgErr != nil {
		return a.fgErr
	}
	if a.sys != nil {
		a.sys.RequestEvent(a.mask)
		if a.tickMs >= 0 {
			a.sys.RequestTick(a.tickMs)
		}
		if a.relight {
			a.sys.SetBrightness(a.sys.Brightness())
		}
	}
	return nil
}

func (a *fakeApp) Background() error {
	a.backgrounds++
	if a.bgPanic {
		panic("background exploded")
	}
	return a.bgErr
}

func (a *fakeApp) Tick(ticks int) error {
	a.ticks = append(a.ticks, ticks)
	return nil
}

func (a *fakeApp) Touch(e domain.TouchEvent) error {
	a.touches = append(a.touches, e)
	return nil
}

func (a *fakeApp) Swipe(e domain.TouchEvent) (bool, error) {
	a.swipes = append(a.swipes, e)
	return a.swipeMore, nil
}

func (a *fakeApp) Press(button int, state bool) (bool, error) {
	a.presses = append(a.presses, state)
	return a.pressMore, nil
}

func (a *fakeApp) Sleep() bool {
	a.sleeps++
	return a.sleepOK
}

func (a *fakeApp) Wake() error {
	a.wakes++
	return nil
}

func (a *fakeApp) Registered(quick bool) { a.registered = append(a.registered, quick) }
func (a *fakeApp) Unregistered()         { a.unregs++ }

// plainApp implements only the base contract.
type plainApp struct{ name string }

func (a plainApp) Name() string      { return a.name }
func (a plainApp) Icon() domain.Icon { return nil }
func (a plainApp) Foreground() error { return nil }
func (a plainApp) Background() error { return nil }

func plainFactory(name string) domain.AppFactory {
	return domain.AppFactory{Name: name, New: func(domain.System) domain.Application {
		return &plainApp{name: name}
	}}
}

// queueScheduler collects scheduled work without running it.
type queueScheduler struct {
	queued []func() error
	full   bool
}

func (q *queueScheduler) Schedule(fn func() error) bool {
	if q.full {
		return false
	}
	q.queued = append(q.queued, fn)
	return true
}

// countingObserver counts observer callbacks.
type countingObserver struct {
	switches int
	ticks    int
	inputs   int
	power    []bool
	failures []string
}

func (o *countingObserver) AppSwitched(string, string)       { o.switches++ }
func (o *countingObserver) TickDispatched(string, int)       { o.ticks++ }
func (o *countingObserver) InputDispatched(domain.EventType) { o.inputs++ }
func (o *countingObserver) PowerChanged(awake bool)          { o.power = append(o.power, awake) }
func (o *countingObserver) CallbackFailed(app, cb string, _ error) {
	o.failures = append(o.failures, app+"."+cb)
}

var errBoom = errors.New("boom")
