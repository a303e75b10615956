package domain

import "time"

// Display controls panel power and frame updates.
type Display interface {
	PowerOn()
	PowerOff()
	// Mute hides drawing in progress when true.
	Mute(muted bool)
}

// Drawable is the 2D drawing surface. Only apps draw; the manager resets it.
type Drawable interface {
	// Reset restores the default colours, font and clip.
	Reset()
	Fill(color uint16, x, y, w, h int)
	Blit(image Icon, x, y int, fg uint16)
	String(s string, x, y, width int)
	Line(x0, y0, x1, y1, width int, color uint16)
	SetColor(fg, bg uint16)
	SetFont(name string)
}

// TouchController reports at most one buffered gesture.
type TouchController interface {
	GetEvent() (TouchEvent, bool)
	ResetTouchData()
	Sleep()
	Wake()
}

// Pin is a digital input level.
type Pin interface {
	Value() bool
}

// RTC is the real-time clock.
type RTC interface {
	// Update refreshes the clock and reports whether the wall clock ticked.
	Update() bool
	Uptime() time.Duration
	UptimeMs() int64
	LocalTime() time.Time
}

// Battery reports charge and charging state.
type Battery interface {
	Level() int
	Charging() bool
}

// Backlight sets display brightness, 0 (off) to 3.
type Backlight interface {
	Set(level int)
}

// Vibrator drives the haptic motor.
type Vibrator interface {
	Pulse(d time.Duration)
	Pin(on bool)
}

// IRQSource lets the manager hook the "please tick soon" request raised by
// input or alarm interrupts.
type IRQSource interface {
	SetScheduleHook(hook func())
}

// Watch groups the hardware collaborators.
type Watch struct {
	Display   Display
	Drawable  Drawable
	Touch     TouchController
	Button    Pin
	RTC       RTC
	Battery   Battery
	Backlight Backlight
	Vibrator  Vibrator
	IRQ       IRQSource
}
