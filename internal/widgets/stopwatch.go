package widgets

import (
	"fmt"

	"github.com/eliteGoblin/wasp/internal/domain"
)

// Stopwatch counts centiseconds against the RTC uptime, so missed ticks
// never lose time.
type Stopwatch struct {
	rtc       domain.RTC
	y         int
	count     int64 // centiseconds
	startedAt int64 // uptime ms
	running   bool
	last      string
}

// NewStopwatch creates a stopped, zeroed stopwatch drawn at row y.
func NewStopwatch(rtc domain.RTC, y int) *Stopwatch {
	return &Stopwatch{rtc: rtc, y: y}
}

func (s *Stopwatch) Started() bool { return s.running }

// Count returns the elapsed centiseconds.
func (s *Stopwatch) Count() int64 {
	s.sync()
	return s.count
}

func (s *Stopwatch) Start() {
	if s.Started() {
		return
	}
	// Backdate the start so resuming continues from the current count.
	s.startedAt = s.rtc.UptimeMs() - s.count*10
	s.running = true
}

func (s *Stopwatch) Stop() {
	s.sync()
	s.running = false
}

func (s *Stopwatch) Reset() {
	s.count = 0
	s.running = false
	s.last = ""
}

func (s *Stopwatch) sync() {
	if !s.running {
		return
	}
	s.count = (s.rtc.UptimeMs() - s.startedAt) / 10
}

// Text formats the count as mm:ss.cc.
func (s *Stopwatch) Text() string {
	c := s.Count()
	secs := c / 100
	return fmt.Sprintf("%02d:%02d.%02d", secs/60, secs%60, c%100)
}

func (s *Stopwatch) Draw(draw domain.Drawable) {
	s.last = ""
	s.Update(draw)
}

func (s *Stopwatch) Update(draw domain.Drawable) {
	t := s.Text()
	if t == s.last {
		return
	}
	s.last = t
	draw.String(t, 0, s.y, 240)
}
