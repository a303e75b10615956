// Package domain contains core entities and interfaces shared by the system
// manager, the applications and the hardware adapters.
// This is the innermost layer - no external dependencies.
package domain

import "time"

// EventType is the gesture class carried by a touch event.
type EventType int

const (
	EventNone  EventType = 0
	EventDown  EventType = 1
	EventUp    EventType = 2
	EventLeft  EventType = 3
	EventRight EventType = 4
	EventTouch EventType = 5

	// EventNext is a synthetic "next" gesture some touch controllers report
	// instead of a directional swipe.
	EventNext EventType = 253

	// EventHome is the navigation direction produced by the side button.
	EventHome EventType = 255
)

// ButtonID is the identifier passed to Presser.Press for the side button.
const ButtonID = 255

// String returns a short label for logs.
func (t EventType) String() string {
	switch t {
	case EventNone:
		return "none"
	case EventDown:
		return "down"
	case EventUp:
		return "up"
	case EventLeft:
		return "left"
	case EventRight:
		return "right"
	case EventTouch:
		return "touch"
	case EventNext:
		return "next"
	case EventHome:
		return "home"
	default:
		return "unknown"
	}
}

// IsSwipe reports whether t is one of the four directional swipes.
func (t EventType) IsSwipe() bool {
	return t >= EventDown && t <= EventRight
}

// IsUpDown reports whether t is a vertical swipe.
func (t EventType) IsUpDown() bool {
	return t == EventUp || t == EventDown
}

// EventMask selects which raw input classes are delivered to the active app.
type EventMask uint8

const (
	MaskTouch          EventMask = 1 << 0
	MaskSwipeLeftRight EventMask = 1 << 1
	MaskSwipeUpDown    EventMask = 1 << 2
	MaskButton         EventMask = 1 << 3
	MaskNext           EventMask = 1 << 4
)

// Has reports whether every bit of flag is set.
func (m EventMask) Has(flag EventMask) bool {
	return m&flag == flag
}

// TouchEvent is a single gesture reported by the touch controller.
type TouchEvent struct {
	Type EventType
	X    int
	Y    int
}

// Icon is a compressed raster resource. It is opaque to the manager.
type Icon []byte

// Notification is the latest content received for a notification id.
type Notification struct {
	ID     int
	Fields map[string]string
}

// MusicState is the playback state last reported by the phone.
type MusicState string

const (
	MusicPlay  MusicState = "play"
	MusicPause MusicState = "pause"
)

// RegisterOptions selects where Register places a new application.
// WatchFace wins over QuickRing; neither means the launcher ring.
type RegisterOptions struct {
	QuickRing bool
	WatchFace bool
}

// AppFactory builds an application bound to a System.
// Name must equal the Name() of the instances New returns, so the ring can
// be searched without constructing a throwaway instance.
type AppFactory struct {
	Name string
	New  func(sys System) Application
}

// Status is a point-in-time view of the manager, persisted for the CLI.
type Status struct {
	SessionID     string    `json:"session_id"`
	PID           int       `json:"pid"`
	Mode          string    `json:"mode"` // "blocking" or "scheduled"
	ActiveApp     string    `json:"active_app"`
	Awake         bool      `json:"awake"`
	QuickRing     []string  `json:"quick_ring"`
	LauncherRing  []string  `json:"launcher_ring"`
	EventMask     EventMask `json:"event_mask"`
	TickPeriodMs  int64     `json:"tick_period_ms"`
	Brightness    int       `json:"brightness"`
	Notifications int       `json:"notifications"`
	UpdatedAt     time.Time `json:"updated_at"`
}
