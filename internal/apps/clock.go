package apps

import (
	"fmt"
	"math"

	"github.com/eliteGoblin/wasp/internal/domain"
)

// Clock is the default digital watch face.
type Clock struct {
	Base
	lastMinute int
}

// ClockFactory builds Clock.
func ClockFactory() domain.AppFactory {
	return domain.AppFactory{Name: "Clock", New: func(sys domain.System) domain.Application {
		return &Clock{Base: newBase(sys, "Clock", nil), lastMinute: -1}
	}}
}

func (c *Clock) Foreground() error {
	c.sys.Bar().SetClock(false)
	c.paint(true)
	c.sys.RequestTick(1000)
	return nil
}

func (c *Clock) Background() error { return nil }

// Sleep keeps the clock active: redrawing it on wake is cheap.
func (c *Clock) Sleep() bool { return true }

func (c *Clock) Wake() error {
	c.paint(false)
	return nil
}

func (c *Clock) Tick(int) error {
	c.paint(false)
	return nil
}

func (c *Clock) Preview() error {
	c.sys.Bar().SetClock(false)
	c.paint(true)
	return nil
}

func (c *Clock) paint(redraw bool) {
	now := c.sys.Watch().RTC.LocalTime()
	minute := now.Hour()*60 + now.Minute()
	if redraw {
		c.clear()
		c.sys.Bar().Draw()
	} else {
		c.sys.Bar().Update()
		if minute == c.lastMinute {
			return
		}
	}
	c.lastMinute = minute

	draw := c.draw()
	theme := c.sys.Theme()
	draw.SetColor(theme.Bright(), 0)
	draw.SetFont("clock")
	draw.String(fmt.Sprintf("%02d:%02d", now.Hour(), now.Minute()), 0, 80, screenSize)
	draw.SetColor(theme.Mid(), 0)
	draw.SetFont("sans24")
	draw.String(now.Format("2 Jan 2006"), 0, 180, screenSize)
}

// Chrono is an analogue watch face.
type Chrono struct {
	Base
	hh, mm, ss int
}

// ChronoFactory builds Chrono.
func ChronoFactory() domain.AppFactory {
	return domain.AppFactory{Name: "Chrono", New: func(sys domain.System) domain.Application {
		return &Chrono{Base: newBase(sys, "Chrono", nil), hh: -1, mm: -1, ss: -1}
	}}
}

func (c *Chrono) Foreground() error {
	c.sys.Bar().SetClock(false)
	c.paint(true)
	c.sys.RequestTick(1000)
	return nil
}

func (c *Chrono) Background() error { return nil }
func (c *Chrono) Sleep() bool       { return true }

func (c *Chrono) Wake() error {
	c.paint(false)
	return nil
}

func (c *Chrono) Tick(int) error {
	c.paint(false)
	return nil
}

func (c *Chrono) Preview() error {
	c.sys.Bar().SetClock(false)
	c.paint(true)
	return nil
}

func (c *Chrono) paint(redraw bool) {
	now := c.sys.Watch().RTC.LocalTime()
	if !redraw && now.Second() == c.ss {
		return
	}
	draw := c.draw()
	theme := c.sys.Theme()

	if redraw || now.Minute() != c.mm || now.Hour() != c.hh {
		c.clear()
		for i := 0; i < 12; i++ {
			x0, y0 := hand(i*5, 60, 100)
			x1, y1 := hand(i*5, 60, 112)
			draw.Line(x0, y0, x1, y1, 2, theme.Mid())
		}
		x, y := hand(now.Hour()%12*60+now.Minute(), 720, 60)
		draw.Line(120, 120, x, y, 5, theme.Bright())
		x, y = hand(now.Minute(), 60, 90)
		draw.Line(120, 120, x, y, 3, theme.Bright())
	} else if c.ss >= 0 {
		x, y := hand(c.ss, 60, 100)
		draw.Line(120, 120, x, y, 1, 0)
	}
	x, y := hand(now.Second(), 60, 100)
	draw.Line(120, 120, x, y, 1, theme.Spot1())

	c.hh, c.mm, c.ss = now.Hour(), now.Minute(), now.Second()
}

// hand returns the end point of a hand at position pos out of steps,
// length r from the centre of the screen.
func hand(pos, steps, r int) (int, int) {
	theta := 2 * math.Pi * float64(pos) / float64(steps)
	x := 120 + int(math.Round(float64(r)*math.Sin(theta)))
	y := 120 - int(math.Round(float64(r)*math.Cos(theta)))
	return x, y
}

