package apps

import (
	"github.com/eliteGoblin/wasp/internal/domain"
)

// MusicSender forwards a player command ("play", "pause", "next",
// "previous", "volumeup", "volumedown") to the phone.
type MusicSender func(command string) error

// Music is a remote control for the phone's player.
type Music struct {
	Base
	send   MusicSender
	state  domain.MusicState // as shown
	remote domain.MusicState // as last reported by the phone
	artist string
	track  string
}

// MusicFactory builds Music. send may be nil when no phone link exists.
func MusicFactory(send MusicSender) domain.AppFactory {
	return domain.AppFactory{Name: "Music", New: func(sys domain.System) domain.Application {
		return &Music{Base: newBase(sys, "Music", musicIcon), send: send}
	}}
}

func (m *Music) Foreground() error {
	m.remote = m.sys.MusicState()
	m.state = m.remote
	m.paint()
	m.sys.RequestTick(1000)
	m.sys.RequestEvent(domain.MaskTouch | domain.MaskSwipeLeftRight | domain.MaskSwipeUpDown)
	return nil
}

func (m *Music) Background() error { return nil }

// State is the play state shown on screen.
func (m *Music) State() domain.MusicState { return m.state }

// Tick follows state and track changes reported by the phone.
func (m *Music) Tick(int) error {
	m.sys.Bar().Update()
	info := m.sys.MusicInfo()
	remote := m.sys.MusicState()
	if remote != m.remote || info["artist"] != m.artist || info["track"] != m.track {
		m.remote = remote
		m.state = remote
		m.paint()
	}
	return nil
}

// Touch toggles between play and pause.
func (m *Music) Touch(domain.TouchEvent) error {
	cmd := "play"
	next := domain.MusicPlay
	if m.state == domain.MusicPlay {
		cmd = "pause"
		next = domain.MusicPause
	}
	m.state = next
	m.paint()
	return m.command(cmd)
}

// Swipe skips tracks with left/right and changes volume with up/down.
func (m *Music) Swipe(event domain.TouchEvent) (bool, error) {
	var cmd string
	switch event.Type {
	case domain.EventUp:
		cmd = "volumeup"
	case domain.EventDown:
		cmd = "volumedown"
	case domain.EventLeft:
		cmd = "next"
	case domain.EventRight:
		cmd = "previous"
	default:
		return true, nil
	}
	return false, m.command(cmd)
}

func (m *Music) command(cmd string) error {
	if m.send == nil {
		return nil
	}
	return m.send(cmd)
}

func (m *Music) paint() {
	info := m.sys.MusicInfo()
	m.artist, m.track = info["artist"], info["track"]

	m.clear()
	m.sys.Bar().Draw()
	draw := m.draw()
	theme := m.sys.Theme()
	draw.SetColor(theme.Bright(), 0)
	draw.String(m.artist, 0, 60, screenSize)
	draw.String(m.track, 0, 150, screenSize)

	color := theme.Mid()
	if m.state == domain.MusicPlay {
		color = theme.UI()
	}
	draw.Fill(color, 100, 100, 40, 40)
}
