// Package apps contains the shell applications (launcher, torch, settings
// tools) and the sample watch faces and utilities that run on the manager.
package apps

import (
	"github.com/eliteGoblin/wasp/internal/domain"
)

// Base carries the fields every app needs. Apps embed it and implement the
// lifecycle methods and any capability interfaces they use.
type Base struct {
	sys  domain.System
	name string
	icon domain.Icon
}

func newBase(sys domain.System, name string, icon domain.Icon) Base {
	return Base{sys: sys, name: name, icon: icon}
}

func (b *Base) Name() string      { return b.name }
func (b *Base) Icon() domain.Icon { return b.icon }

func (b *Base) draw() domain.Drawable { return b.sys.Watch().Drawable }

// clear fills the whole screen with the background colour.
func (b *Base) clear() {
	b.draw().Fill(0, 0, 0, screenSize, screenSize)
}

func (b *Base) vibrate() {
	b.sys.Watch().Vibrator.Pulse(feedbackPulse)
}
