package domain

import "time"

// Application is the contract every app implements.
// The optional capability interfaces below extend it; the manager supplies
// the default behaviour for any capability an app does not implement.
type Application interface {
	// Name is the display label and the registry key.
	Name() string

	// Icon returns the launcher icon, or nil to use the generic one.
	Icon() Icon

	// Foreground is called exactly once when the app becomes active.
	// The app must request ticks and events here and draw its first frame.
	Foreground() error

	// Background is called exactly once when the app stops being active.
	// Errors are logged and discarded; deactivation always completes.
	Background() error
}

// Sleeper is asked whether the app can stay active while the display is off.
// Apps that do not implement it are replaced by the home app before sleeping.
type Sleeper interface {
	Sleep() bool
}

// Waker is notified when the device leaves low power mode.
type Waker interface {
	Wake() error
}

// Ticker receives the periodic callback requested with RequestTick.
// ticks is the number of whole periods missed since the expiry.
type Ticker interface {
	Tick(ticks int) error
}

// Toucher receives taps.
type Toucher interface {
	Touch(event TouchEvent) error
}

// Swiper receives swipes. Returning true asks the manager to also apply
// its default navigation.
type Swiper interface {
	Swipe(event TouchEvent) (bool, error)
}

// Presser receives button edges. Returning true asks the manager to also
// apply its default navigation.
type Presser interface {
	Press(button int, state bool) (bool, error)
}

// Registrant is told when it is added to or removed from a ring.
type Registrant interface {
	Registered(quickRing bool)
	Unregistered()
}

// Previewer draws a still frame for the watch face chooser.
type Previewer interface {
	Preview() error
}

// StatusBar is the shared clock/battery/notification strip.
type StatusBar interface {
	Draw()
	Update()
	SetClock(enabled bool)
}

// System is the manager as seen by applications.
type System interface {
	Watch() *Watch
	Theme() Theme
	Bar() StatusBar

	RequestTick(periodMs int64)
	RequestEvent(mask EventMask)
	KeepAwake()
	Wake() error
	Switch(app Application) error

	// SetAlarm runs action from the dispatch loop once the local time
	// reaches at, waking nothing by itself. CancelAlarm takes the id it
	// returned.
	SetAlarm(at time.Time, action func() error) int
	CancelAlarm(id int) bool

	Home() Application
	Launcher() Application
	QuickRing() []Application
	LauncherRing() []Application
	Register(factory AppFactory, opts RegisterOptions) Application
	Unregister(name string)

	Brightness() int
	SetBrightness(level int)
	NotifyPulse() time.Duration
	Units() string

	Notifications() []Notification
	WeatherInfo() map[string]string
	MusicInfo() map[string]string
	MusicState() MusicState
}

// Observer receives manager lifecycle signals (metrics, tracing).
type Observer interface {
	AppSwitched(from, to string)
	TickDispatched(app string, missed int)
	InputDispatched(kind EventType)
	PowerChanged(awake bool)
	CallbackFailed(app, callback string, err error)
}

// WorkScheduler defers a function to the dispatch context.
// It returns false when the work could not be queued. An error returned by
// fn is fatal to the scheduler.
type WorkScheduler interface {
	Schedule(fn func() error) bool
}

// MemoryReader reports free memory for diagnostics.
type MemoryReader interface {
	Free() (uint64, error)
}

// PreferenceStore persists user choices across restarts.
type PreferenceStore interface {
	// Get returns the stored value and whether it exists.
	Get(key string) (string, bool, error)

	// Set stores a value.
	Set(key, value string) error

	// All returns every stored preference.
	All() (map[string]string, error)

	// Close releases resources (e.g., database connection).
	Close() error
}

// StatusWriter publishes manager snapshots for out-of-process readers.
type StatusWriter interface {
	Write(status Status) error
	Read() (*Status, error)
	Clear() error
	Path() string
}

// ProcessManager checks OS processes.
// Implementation: uses gopsutil for cross-platform support.
type ProcessManager interface {
	IsRunning(pid int) bool
	GetCurrentPID() int
}

// KeyProvider supplies the preference database encryption key.
type KeyProvider interface {
	GetKey() ([]byte, error)
	StoreKey(key []byte) error
	KeyExists() bool
}
