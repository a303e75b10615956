package infra

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/eliteGoblin/wasp/internal/domain"
)

// ClickHold is how long a "click" keeps the simulated button down.
const ClickHold = 150 * time.Millisecond

// Console drives a SimWatch from text commands, one per line:
//
//	up | down | left | right | next      swipe
//	tap X Y                              tap at X,Y
//	press | release | click              side button
//	battery LEVEL [charging]             battery state
//	GB({...}) or {...}                   phone command
//
// Phone commands are handed to the phone callback, which must route them
// to the dispatch goroutine.
type Console struct {
	sim    *SimWatch
	phone  func(line string)
	logger *zap.Logger
}

// NewConsole creates a console for sim. phone may be nil.
func NewConsole(sim *SimWatch, phone func(line string), logger *zap.Logger) *Console {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Console{sim: sim, phone: phone, logger: logger}
}

// Run reads commands until r is exhausted or ctx is cancelled.
func (c *Console) Run(ctx context.Context, r io.Reader) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return nil
		}
		if err := c.Exec(scanner.Text()); err != nil {
			c.logger.Warn("console command rejected", zap.Error(err))
		}
	}
	return scanner.Err()
}

// Exec applies one command line.
func (c *Console) Exec(line string) error {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return nil
	}
	if strings.HasPrefix(line, "GB(") || strings.HasPrefix(line, "{") {
		if c.phone == nil {
			return fmt.Errorf("no phone link for %q", line)
		}
		c.phone(line)
		return nil
	}

	fields := strings.Fields(line)
	switch cmd := strings.ToLower(fields[0]); cmd {
	case "up", "down", "left", "right", "next":
		c.sim.InjectTouch(domain.TouchEvent{Type: swipeTypes[cmd]})
	case "tap":
		if len(fields) != 3 {
			return fmt.Errorf("usage: tap X Y")
		}
		x, err := strconv.Atoi(fields[1])
		if err != nil {
			return fmt.Errorf("bad x: %w", err)
		}
		y, err := strconv.Atoi(fields[2])
		if err != nil {
			return fmt.Errorf("bad y: %w", err)
		}
		c.sim.InjectTouch(domain.TouchEvent{Type: domain.EventTouch, X: x, Y: y})
	case "press":
		c.sim.SetButton(true)
	case "release":
		c.sim.SetButton(false)
	case "click":
		c.sim.SetButton(true)
		time.AfterFunc(ClickHold, func() { c.sim.SetButton(false) })
	case "battery":
		if len(fields) < 2 {
			return fmt.Errorf("usage: battery LEVEL [charging]")
		}
		level, err := strconv.Atoi(fields[1])
		if err != nil {
			return fmt.Errorf("bad level: %w", err)
		}
		c.sim.SetBattery(level, len(fields) > 2 && fields[2] == "charging")
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
	return nil
}

var swipeTypes = map[string]domain.EventType{
	"up":    domain.EventUp,
	"down":  domain.EventDown,
	"left":  domain.EventLeft,
	"right": domain.EventRight,
	"next":  domain.EventNext,
}
