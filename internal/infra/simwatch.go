package infra

import (
	"sync"
	"time"

	"github.com/eliteGoblin/wasp/internal/domain"
)

// SimWatch is an in-memory rendition of the watch hardware used by the
// CLI and the tests. Input may be injected from any goroutine; each
// injection raises the schedule interrupt.
type SimWatch struct {
	mu sync.Mutex

	rtc domain.RTC

	displayOn bool
	muted     bool
	frames    int

	drawn   []string
	fills   int
	font    string
	fg, bg  uint16
	resets  int
	touches []domain.TouchEvent
	touchOn bool

	button    bool
	level     int
	charging  bool
	backlight int

	pulses     int
	lastPulse  time.Duration
	vibrating  bool
	hook       func()
	interrupts int
}

// NewSimWatch creates simulated hardware around rtc. A nil rtc gets a
// ManualRTC starting at zero.
func NewSimWatch(rtc domain.RTC) *SimWatch {
	if rtc == nil {
		rtc = NewManualRTC(time.Time{})
	}
	return &SimWatch{rtc: rtc, level: 100, touchOn: true}
}

// Watch groups the simulated collaborators for the manager.
func (s *SimWatch) Watch() *domain.Watch {
	return &domain.Watch{
		Display:   (*simDisplay)(s),
		Drawable:  (*simCanvas)(s),
		Touch:     (*simTouch)(s),
		Button:    (*simButton)(s),
		RTC:       s.rtc,
		Battery:   (*simBattery)(s),
		Backlight: (*simBacklight)(s),
		Vibrator:  (*simVibrator)(s),
		IRQ:       (*simIRQ)(s),
	}
}

// RTC returns the clock in use.
func (s *SimWatch) RTC() domain.RTC { return s.rtc }

// InjectTouch queues a gesture.
func (s *SimWatch) InjectTouch(event domain.TouchEvent) {
	s.mu.Lock()
	s.touches = append(s.touches, event)
	s.mu.Unlock()
	s.raise()
}

// SetButton sets the button level.
func (s *SimWatch) SetButton(pressed bool) {
	s.mu.Lock()
	s.button = pressed
	s.mu.Unlock()
	s.raise()
}

// SetBattery sets the charge level and charging flag.
func (s *SimWatch) SetBattery(level int, charging bool) {
	s.mu.Lock()
	s.level = level
	s.charging = charging
	s.mu.Unlock()
	s.raise()
}

// Raise fires the schedule interrupt, as an RTC alarm would.
func (s *SimWatch) Raise() { s.raise() }

func (s *SimWatch) raise() {
	s.mu.Lock()
	hook := s.hook
	s.interrupts++
	s.mu.Unlock()
	if hook != nil {
		hook()
	}
}

// Pending returns the number of queued touch events.
func (s *SimWatch) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.touches)
}

// DisplayOn reports panel power.
func (s *SimWatch) DisplayOn() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.displayOn
}

// Muted reports whether drawing is hidden.
func (s *SimWatch) Muted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.muted
}

// Backlight returns the current backlight level.
func (s *SimWatch) Backlight() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.backlight
}

// TouchAwake reports whether the touch controller is powered.
func (s *SimWatch) TouchAwake() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.touchOn
}

// Pulses returns the number of vibration pulses so far.
func (s *SimWatch) Pulses() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pulses
}

// LastPulse returns the length of the latest pulse.
func (s *SimWatch) LastPulse() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastPulse
}

// Vibrating reports the vibrator pin (find my device).
func (s *SimWatch) Vibrating() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.vibrating
}

// Strings returns the text drawn since the last drawable reset.
func (s *SimWatch) Strings() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.drawn...)
}

// Frames returns how many times the display was unmuted.
func (s *SimWatch) Frames() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frames
}

// HookInstalled reports whether the manager is in cooperative mode.
func (s *SimWatch) HookInstalled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hook != nil
}

type simDisplay SimWatch

func (d *simDisplay) PowerOn() {
	d.mu.Lock()
	d.displayOn = true
	d.mu.Unlock()
}

func (d *simDisplay) PowerOff() {
	d.mu.Lock()
	d.displayOn = false
	d.mu.Unlock()
}

func (d *simDisplay) Mute(muted bool) {
	d.mu.Lock()
	if d.muted && !muted {
		d.frames++
	}
	d.muted = muted
	d.mu.Unlock()
}

const maxDrawn = 64

type simCanvas SimWatch

func (c *simCanvas) Reset() {
	c.mu.Lock()
	c.drawn = c.drawn[:0]
	c.font = ""
	c.fg, c.bg = 0xffff, 0
	c.mu.Unlock()
}

func (c *simCanvas) Fill(uint16, int, int, int, int) {
	c.mu.Lock()
	c.fills++
	c.mu.Unlock()
}

func (c *simCanvas) Blit(domain.Icon, int, int, uint16) {}

func (c *simCanvas) String(s string, _, _, _ int) {
	c.mu.Lock()
	if len(c.drawn) == maxDrawn {
		c.drawn = c.drawn[1:]
	}
	c.drawn = append(c.drawn, s)
	c.mu.Unlock()
}

func (c *simCanvas) Line(int, int, int, int, int, uint16) {}

func (c *simCanvas) SetColor(fg, bg uint16) {
	c.mu.Lock()
	c.fg, c.bg = fg, bg
	c.mu.Unlock()
}

func (c *simCanvas) SetFont(name string) {
	c.mu.Lock()
	c.font = name
	c.mu.Unlock()
}

type simTouch SimWatch

func (t *simTouch) GetEvent() (domain.TouchEvent, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.touches) == 0 {
		return domain.TouchEvent{}, false
	}
	return t.touches[0], true
}

func (t *simTouch) ResetTouchData() {
	t.mu.Lock()
	t.resets++
	if len(t.touches) > 0 {
		t.touches = t.touches[1:]
	}
	t.mu.Unlock()
}

func (t *simTouch) Sleep() {
	t.mu.Lock()
	t.touchOn = false
	t.mu.Unlock()
}

func (t *simTouch) Wake() {
	t.mu.Lock()
	t.touchOn = true
	t.mu.Unlock()
}

type simButton SimWatch

func (b *simButton) Value() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.button
}

type simBattery SimWatch

func (b *simBattery) Level() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.level
}

func (b *simBattery) Charging() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.charging
}

type simBacklight SimWatch

func (b *simBacklight) Set(level int) {
	b.mu.Lock()
	b.backlight = level
	b.mu.Unlock()
}

type simVibrator SimWatch

func (v *simVibrator) Pulse(d time.Duration) {
	v.mu.Lock()
	v.pulses++
	v.lastPulse = d
	v.mu.Unlock()
}

func (v *simVibrator) Pin(on bool) {
	v.mu.Lock()
	v.vibrating = on
	v.mu.Unlock()
}

type simIRQ SimWatch

func (i *simIRQ) SetScheduleHook(hook func()) {
	i.mu.Lock()
	i.hook = hook
	i.mu.Unlock()
}

// ManualRTC is a clock that only moves when told to.
type ManualRTC struct {
	mu       sync.Mutex
	epoch    time.Time
	uptime   time.Duration
	lastSecs int64
}

// NewManualRTC creates a clock whose local time is epoch plus uptime.
func NewManualRTC(epoch time.Time) *ManualRTC {
	return &ManualRTC{epoch: epoch, lastSecs: -1}
}

// Advance moves the uptime forward.
func (r *ManualRTC) Advance(d time.Duration) {
	r.mu.Lock()
	r.uptime += d
	r.mu.Unlock()
}

// Update reports whether the whole-second count changed since the
// previous call.
func (r *ManualRTC) Update() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	secs := int64(r.uptime / time.Second)
	if secs == r.lastSecs {
		return false
	}
	r.lastSecs = secs
	return true
}

func (r *ManualRTC) Uptime() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.uptime
}

func (r *ManualRTC) UptimeMs() int64 { return r.Uptime().Milliseconds() }

func (r *ManualRTC) LocalTime() time.Time { return r.epoch.Add(r.Uptime()) }

var (
	_ domain.RTC = (*ManualRTC)(nil)
	_ domain.RTC = (*HostRTC)(nil)
)
