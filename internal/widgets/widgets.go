// Package widgets contains small reusable drawing components shared by the
// applications. All drawing goes through domain.Drawable.
package widgets

import (
	"fmt"

	"github.com/eliteGoblin/wasp/internal/domain"
)

// StatusBar shows the time, the battery level and a notification marker
// across the top of the screen.
type StatusBar struct {
	sys     domain.System
	clock   bool
	lastMin int
	lastBat int
	lastNfy bool
}

// NewStatusBar creates a status bar with the clock enabled.
func NewStatusBar(sys domain.System) *StatusBar {
	return &StatusBar{sys: sys, clock: true, lastMin: -1, lastBat: -1}
}

// SetClock enables or disables the clock area.
func (b *StatusBar) SetClock(enabled bool) {
	b.clock = enabled
}

// Clock reports whether the clock area is shown.
func (b *StatusBar) Clock() bool {
	return b.clock
}

// Draw redraws the bar from scratch.
func (b *StatusBar) Draw() {
	b.lastMin = -1
	b.lastBat = -1
	b.Update()
}

// Update redraws only what changed since the last call.
func (b *StatusBar) Update() {
	w := b.sys.Watch()
	draw := w.Drawable
	theme := b.sys.Theme()

	if b.clock {
		now := w.RTC.LocalTime()
		if m := now.Hour()*60 + now.Minute(); m != b.lastMin {
			b.lastMin = m
			draw.SetColor(theme.StatusClock(), 0)
			draw.String(fmt.Sprintf("%02d:%02d", now.Hour(), now.Minute()), 52, 4, 138)
		}
	}

	level := w.Battery.Level()
	if level != b.lastBat {
		b.lastBat = level
		// 24 pixel gauge, filled proportionally.
		draw.Fill(0, 216, 4, 24, 32)
		draw.Fill(theme.Battery(), 216, 4+32-level*32/100, 24, level*32/100)
	}

	nfy := len(b.sys.Notifications()) > 0
	if nfy != b.lastNfy {
		b.lastNfy = nfy
		if nfy {
			draw.Fill(theme.NotifyIcon(), 0, 4, 30, 32)
		} else {
			draw.Fill(0, 0, 4, 30, 32)
		}
	}
}

var _ domain.StatusBar = (*StatusBar)(nil)

// ScrollIndicator draws up/down arrows at the right edge.
type ScrollIndicator struct {
	X, Y int
	Up   bool
	Down bool
}

// NewScrollIndicator places the indicator at the default position when y is 0.
func NewScrollIndicator(y int) *ScrollIndicator {
	if y == 0 {
		y = 240 - 18
	}
	return &ScrollIndicator{X: 240 - 18, Y: y}
}

// Draw renders both arrows; hidden arrows are cleared.
func (s *ScrollIndicator) Draw(draw domain.Drawable, theme domain.Theme) {
	color := func(on bool) uint16 {
		if on {
			return theme.ScrollIndicator()
		}
		return 0
	}
	draw.Fill(color(s.Up), s.X, s.Y, 16, 9)
	draw.Fill(color(s.Down), s.X, s.Y+9, 16, 9)
}

// Checkbox is a labelled toggle occupying a 240x40 row.
type Checkbox struct {
	X, Y  int
	Label string
	State bool
}

// NewCheckbox creates an unchecked box.
func NewCheckbox(x, y int, label string) *Checkbox {
	return &Checkbox{X: x, Y: y, Label: label}
}

// Draw renders the label and the box.
func (c *Checkbox) Draw(draw domain.Drawable, theme domain.Theme) {
	draw.SetColor(theme.Bright(), 0)
	draw.String(c.Label, c.X, c.Y+4, 0)
	c.Update(draw, theme)
}

// Update redraws only the box.
func (c *Checkbox) Update(draw domain.Drawable, theme domain.Theme) {
	fg := theme.Mid()
	if c.State {
		fg = theme.UI()
	}
	draw.Fill(fg, c.X+240-32-4, c.Y, 32, 32)
}

// Touch toggles the box when the event lands on its row.
func (c *Checkbox) Touch(event domain.TouchEvent) bool {
	if event.Y < c.Y || event.Y >= c.Y+40 {
		return false
	}
	c.State = !c.State
	return true
}

const (
	spinnerWidth  = 60
	spinnerHeight = 120
)

// Spinner is a numeric field. A tap on its upper half counts up and a tap
// on its lower half counts down, wrapping at both limits.
type Spinner struct {
	X, Y     int
	Min, Max int
	Digits   int
	Value    int
}

// NewSpinner creates a spinner showing min.
func NewSpinner(x, y, min, max, digits int) *Spinner {
	return &Spinner{X: x, Y: y, Min: min, Max: max, Digits: digits, Value: min}
}

// Draw renders the arrows and the value.
func (s *Spinner) Draw(draw domain.Drawable, theme domain.Theme) {
	draw.Fill(0, s.X, s.Y, spinnerWidth, spinnerHeight)
	for i := 0; i < 10; i++ {
		draw.Fill(theme.UI(), s.X+20+i, s.Y+20-i, 20-2*i, 1)
		draw.Fill(theme.UI(), s.X+20+i, s.Y+spinnerHeight-20+i, 20-2*i, 1)
	}
	s.Update(draw, theme)
}

// Update redraws only the value.
func (s *Spinner) Update(draw domain.Drawable, theme domain.Theme) {
	draw.SetColor(theme.Bright(), 0)
	draw.String(fmt.Sprintf("%0*d", s.Digits, s.Value), s.X, s.Y+spinnerHeight/2-14, spinnerWidth)
}

// Touch steps the value when the event lands on the spinner.
func (s *Spinner) Touch(event domain.TouchEvent) bool {
	if event.X < s.X || event.X >= s.X+spinnerWidth || event.Y < s.Y || event.Y >= s.Y+spinnerHeight {
		return false
	}
	if event.Y < s.Y+spinnerHeight/2 {
		s.Value++
		if s.Value > s.Max {
			s.Value = s.Min
		}
	} else {
		s.Value--
		if s.Value < s.Min {
			s.Value = s.Max
		}
	}
	return true
}
