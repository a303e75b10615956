// Package system implements the application manager: the state machine that
// owns the single active application, routes input and ticks to it, and
// drives the sleep/wake power cycle.
//
// The Manager is not safe for concurrent use. All calls must come from one
// dispatch goroutine (see internal/daemon); only RequestWork may be called
// from elsewhere.
package system

import (
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/eliteGoblin/wasp/internal/domain"
	"github.com/eliteGoblin/wasp/internal/widgets"
)

var (
	// ErrNoApplication is returned when there is nothing to switch to.
	ErrNoApplication = errors.New("no application available")

	// ErrNoScheduler is returned by Schedule(true) without a WorkScheduler.
	ErrNoScheduler = errors.New("no work scheduler configured")
)

// notifyPulses maps notification levels 1..3 to vibration lengths.
var notifyPulses = []time.Duration{0, 40 * time.Millisecond, 80 * time.Millisecond}

// Config holds manager tunables.
type Config struct {
	BlankAfter     time.Duration // Idle time before the display blanks
	FirstBootGrace time.Duration // Idle time allowed after boot
	Brightness     int           // Backlight level 1..3
	NotifyLevel    int           // Vibration level 1..3
	Units          string        // "Metric" or "Imperial"
	Theme          domain.Theme
}

// DefaultConfig returns the factory settings.
func DefaultConfig() Config {
	return Config{
		BlankAfter:     15 * time.Second,
		FirstBootGrace: 90 * time.Second,
		Brightness:     2,
		NotifyLevel:    2,
		Units:          "Metric",
		Theme:          domain.DefaultTheme,
	}
}

// Manager is the system manager.
type Manager struct {
	config   Config
	watch    *domain.Watch
	logger   *zap.Logger
	observer domain.Observer
	memory   domain.MemoryReader

	launcherFactory *domain.AppFactory
	fallbackFactory *domain.AppFactory

	bar      *widgets.StatusBar
	launcher domain.Application
	button   *PinHandler

	app          domain.Application
	eventMask    domain.EventMask
	tickArmed    bool
	tickPeriodMs int64
	tickExpiry   int64         // uptime ms
	sleepAt      time.Duration // uptime; zero while asleep
	charging     bool

	quickRing    Ring
	launcherRing Ring

	brightness  int
	notifyLevel int

	notifications []domain.Notification
	weather       map[string]string
	music         map[string]string
	musicState    domain.MusicState

	alarms   []alarm
	alarmSeq int

	scheduler  domain.WorkScheduler
	scheduling bool
	pending    atomic.Bool
}

// NewManager creates a manager for the given hardware.
func NewManager(config Config, watch *domain.Watch, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &Manager{
		config:     config,
		watch:      watch,
		logger:     logger,
		observer:   nopObserver{},
		charging:   true,
		musicState: domain.MusicPause,
	}
	m.brightness = clamp(config.Brightness, 1, 3)
	m.notifyLevel = clamp(config.NotifyLevel, 1, len(notifyPulses))
	return m
}

// WithObserver attaches lifecycle observation (metrics).
func (m *Manager) WithObserver(o domain.Observer) *Manager {
	if o != nil {
		m.observer = o
	}
	return m
}

// WithLauncher sets the factory used to build the launcher app in Init.
func (m *Manager) WithLauncher(f domain.AppFactory) *Manager {
	m.launcherFactory = &f
	return m
}

// WithFallback sets the factory registered as home app when nothing else
// was registered before the first switch.
func (m *Manager) WithFallback(f domain.AppFactory) *Manager {
	m.fallbackFactory = &f
	return m
}

// WithScheduler sets the work queue used in cooperative mode.
func (m *Manager) WithScheduler(s domain.WorkScheduler) *Manager {
	m.scheduler = s
	return m
}

// WithMemoryReader enables free memory reporting at start up.
func (m *Manager) WithMemoryReader(p domain.MemoryReader) *Manager {
	m.memory = p
	return m
}

// Init lazily builds the status bar, the launcher and the button handler.
// It is idempotent.
func (m *Manager) Init() {
	if m.bar == nil {
		m.bar = widgets.NewStatusBar(m)
	}
	if m.launcher == nil && m.launcherFactory != nil {
		m.launcher = m.launcherFactory.New(m)
	}
	if m.button == nil {
		m.button = NewPinHandler(m.watch.Button)
	}
}

// SecondaryInit prepares the hardware and activates the home app. It does
// nothing once an app is active.
func (m *Manager) SecondaryInit() error {
	m.Init()
	if m.app != nil {
		return nil
	}

	if m.quickRing.Len() == 0 {
		if m.fallbackFactory == nil {
			return ErrNoApplication
		}
		m.logger.Info("no watch face registered, using fallback",
			zap.String("app", m.fallbackFactory.Name))
		m.Register(*m.fallbackFactory, domain.RegisterOptions{QuickRing: true, WatchFace: true})
	}

	m.watch.Display.PowerOn()
	m.watch.Display.Mute(true)
	m.watch.Backlight.Set(m.brightness)
	m.sleepAt = m.watch.RTC.Uptime() + m.config.FirstBootGrace

	if m.memory != nil {
		if free, err := m.memory.Free(); err != nil {
			m.logger.Debug("free memory unavailable", zap.Error(err))
		} else {
			m.logger.Info("memory available", zap.Uint64("free_bytes", free))
		}
	}

	return m.Switch(m.quickRing.At(0))
}

// Switch makes app the active application.
//
// The previous app is sent to the background first; its failure is logged
// and ignored. The event mask and tick schedule are cleared before the new
// app's Foreground runs, so nothing reaches a half-activated app. A
// Foreground failure is returned and leaves the display muted.
func (m *Manager) Switch(app domain.Application) error {
	if app == nil {
		return ErrNoApplication
	}

	prev := m.app
	if prev != nil {
		if err := background(prev); err != nil {
			m.logger.Warn("background failed",
				zap.String("app", prev.Name()),
				zap.Error(err))
			m.observer.CallbackFailed(prev.Name(), "background", err)
		}
	}

	m.eventMask = 0
	m.disarmTick()
	m.app = app

	m.watch.Display.Mute(true)
	m.watch.Drawable.Reset()
	if err := app.Foreground(); err != nil {
		m.observer.CallbackFailed(app.Name(), "foreground", err)
		return fmt.Errorf("foreground %s: %w", app.Name(), err)
	}
	m.watch.Display.Mute(false)

	from := ""
	if prev != nil {
		from = prev.Name()
	}
	m.logger.Debug("switched app", zap.String("from", from), zap.String("to", app.Name()))
	m.observer.AppSwitched(from, app.Name())
	return nil
}

// background runs Background, turning a panic into an error so that
// deactivation always completes.
func background(app domain.Application) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return app.Background()
}

// Register builds one instance from factory and places it in a ring.
func (m *Manager) Register(factory domain.AppFactory, opts domain.RegisterOptions) domain.Application {
	app := factory.New(m)
	quick := opts.WatchFace || opts.QuickRing

	switch {
	case opts.WatchFace:
		if old := m.quickRing.SetHome(app); old != nil {
			if r, ok := old.(domain.Registrant); ok {
				r.Unregistered()
			}
		}
	case opts.QuickRing:
		m.quickRing.Append(app)
	default:
		m.launcherRing.Append(app)
		m.launcherRing.SortByName()
	}

	if r, ok := app.(domain.Registrant); ok {
		r.Registered(quick)
	}
	m.logger.Debug("registered app",
		zap.String("app", app.Name()),
		zap.Bool("quick_ring", opts.QuickRing),
		zap.Bool("watch_face", opts.WatchFace))
	return app
}

// Unregister removes the first launcher ring app called name. A miss is
// not an error.
func (m *Manager) Unregister(name string) {
	app := m.launcherRing.RemoveFirst(name)
	if app == nil {
		return
	}
	if r, ok := app.(domain.Registrant); ok {
		r.Unregistered()
	}
	m.logger.Debug("unregistered app", zap.String("app", name))
}

// RequestTick arms the periodic callback for the active app.
func (m *Manager) RequestTick(periodMs int64) {
	if periodMs < 0 {
		periodMs = 0
	}
	m.tickArmed = true
	m.tickPeriodMs = periodMs
	m.tickExpiry = m.watch.RTC.UptimeMs() + periodMs
}

// RequestEvent adds input classes to the active app's mask.
func (m *Manager) RequestEvent(mask domain.EventMask) {
	m.eventMask |= mask
}

// KeepAwake pushes the sleep deadline out by the blanking interval.
func (m *Manager) KeepAwake() {
	m.sleepAt = m.watch.RTC.Uptime() + m.config.BlankAfter
}

func (m *Manager) disarmTick() {
	m.tickArmed = false
	m.tickPeriodMs = 0
	m.tickExpiry = 0
}

// Awake reports whether the display is on.
func (m *Manager) Awake() bool { return m.sleepAt > 0 }

func (m *Manager) App() domain.Application     { return m.app }
func (m *Manager) EventMask() domain.EventMask { return m.eventMask }
func (m *Manager) Watch() *domain.Watch        { return m.watch }
func (m *Manager) Theme() domain.Theme         { return m.config.Theme }
func (m *Manager) Units() string               { return m.config.Units }
func (m *Manager) Launcher() domain.Application {
	return m.launcher
}

// TickSchedule returns the armed period and next expiry in uptime ms.
func (m *Manager) TickSchedule() (periodMs, expiryMs int64, armed bool) {
	return m.tickPeriodMs, m.tickExpiry, m.tickArmed
}

// SleepAt returns the sleep deadline; zero while asleep.
func (m *Manager) SleepAt() time.Duration { return m.sleepAt }

// Bar returns the shared status bar, building it if needed.
func (m *Manager) Bar() domain.StatusBar {
	if m.bar == nil {
		m.bar = widgets.NewStatusBar(m)
	}
	return m.bar
}

// Home returns quick ring slot 0.
func (m *Manager) Home() domain.Application { return m.quickRing.At(0) }

func (m *Manager) QuickRing() []domain.Application    { return m.quickRing.Apps() }
func (m *Manager) LauncherRing() []domain.Application { return m.launcherRing.Apps() }

func (m *Manager) Brightness() int { return m.brightness }

// SetBrightness stores the level and applies it to the backlight.
func (m *Manager) SetBrightness(level int) {
	m.brightness = clamp(level, 0, 3)
	m.watch.Backlight.Set(m.brightness)
}

func (m *Manager) NotifyLevel() int { return m.notifyLevel }

// SetNotifyLevel selects the notification vibration strength (1..3).
func (m *Manager) SetNotifyLevel(level int) {
	m.notifyLevel = clamp(level, 1, len(notifyPulses))
}

// NotifyPulse is the vibration length for incoming notifications.
func (m *Manager) NotifyPulse() time.Duration {
	return notifyPulses[m.notifyLevel-1]
}

// Snapshot captures the state shown by the status command.
func (m *Manager) Snapshot() domain.Status {
	s := domain.Status{
		Awake:         m.Awake(),
		QuickRing:     m.quickRing.Names(),
		LauncherRing:  m.launcherRing.Names(),
		EventMask:     m.eventMask,
		Brightness:    m.brightness,
		Notifications: len(m.notifications),
		UpdatedAt:     m.watch.RTC.LocalTime(),
	}
	if m.app != nil {
		s.ActiveApp = m.app.Name()
	}
	if m.tickArmed {
		s.TickPeriodMs = m.tickPeriodMs
	}
	return s
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

type nopObserver struct{}

func (nopObserver) AppSwitched(string, string)           {}
func (nopObserver) TickDispatched(string, int)           {}
func (nopObserver) InputDispatched(domain.EventType)     {}
func (nopObserver) PowerChanged(bool)                    {}
func (nopObserver) CallbackFailed(string, string, error) {}

var _ domain.System = (*Manager)(nil)
