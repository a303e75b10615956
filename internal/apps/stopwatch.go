package apps

import (
	"fmt"

	"github.com/eliteGoblin/wasp/internal/domain"
	"github.com/eliteGoblin/wasp/internal/widgets"
)

const maxSplits = 4

// Stopwatch is a start/stop timer with split times. The button starts and
// stops it, a tap records a split (or resets when stopped) and the NEXT
// gesture resets a stopped timer before moving on.
type Stopwatch struct {
	Base
	timer   *widgets.Stopwatch
	splits  []int64 // centiseconds, newest first
	nsplits int
}

// StopwatchFactory builds Stopwatch.
func StopwatchFactory() domain.AppFactory {
	return domain.AppFactory{Name: "Stopwatch", New: func(sys domain.System) domain.Application {
		return &Stopwatch{
			Base:  newBase(sys, "Stopwatch", stopwatchIcon),
			timer: widgets.NewStopwatch(sys.Watch().RTC, 120-36),
		}
	}}
}

func (s *Stopwatch) Foreground() error {
	s.sys.Bar().SetClock(true)
	s.paint()
	s.sys.RequestTick(97)
	s.sys.RequestEvent(domain.MaskTouch | domain.MaskButton | domain.MaskNext)
	return nil
}

func (s *Stopwatch) Background() error { return nil }

// Sleep keeps the stopwatch active so a running count stays on screen.
func (s *Stopwatch) Sleep() bool { return true }

func (s *Stopwatch) Wake() error {
	s.update()
	return nil
}

// Tick redraws the count. The count is derived from the uptime, so missed
// periods need no replay.
func (s *Stopwatch) Tick(int) error {
	s.update()
	return nil
}

func (s *Stopwatch) Swipe(domain.TouchEvent) (bool, error) {
	if !s.timer.Started() {
		s.reset()
	}
	return true, nil
}

func (s *Stopwatch) Press(_ int, state bool) (bool, error) {
	if !state {
		return false, nil
	}
	if s.timer.Started() {
		s.timer.Stop()
	} else {
		s.timer.Start()
	}
	return false, nil
}

func (s *Stopwatch) Touch(domain.TouchEvent) error {
	if s.timer.Started() {
		s.splits = append([]int64{s.timer.Count()}, s.splits...)
		if len(s.splits) > maxSplits {
			s.splits = s.splits[:maxSplits]
		}
		s.nsplits++
	} else {
		s.reset()
	}
	s.update()
	s.paintSplits()
	return nil
}

// Running reports whether the timer is counting.
func (s *Stopwatch) Running() bool { return s.timer.Started() }

// Count returns the elapsed centiseconds.
func (s *Stopwatch) Count() int64 { return s.timer.Count() }

// Splits returns the recorded split times, newest first.
func (s *Stopwatch) Splits() []int64 { return append([]int64(nil), s.splits...) }

func (s *Stopwatch) reset() {
	s.timer.Reset()
	s.splits = nil
	s.nsplits = 0
}

func (s *Stopwatch) paint() {
	s.clear()
	s.sys.Bar().Draw()
	s.timer.Draw(s.draw())
	s.paintSplits()
}

func (s *Stopwatch) update() {
	s.sys.Bar().Update()
	s.timer.Update(s.draw())
}

func (s *Stopwatch) paintSplits() {
	draw := s.draw()
	draw.Fill(0, 0, 120, screenSize, 120)
	if len(s.splits) == 0 {
		return
	}
	draw.SetFont("sans24")
	draw.SetColor(s.sys.Theme().Mid(), 0)

	y := screenSize - 6 - len(s.splits)*24
	n := s.nsplits
	for i, c := range s.splits {
		secs := c / 100
		t := fmt.Sprintf("# %d   %02d:%02d.%02d", n, secs/60, secs%60, c%100)
		draw.String(t, 0, y+i*24, screenSize)
		n--
	}
}
