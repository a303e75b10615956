// Package fixtures provides test helpers for integration tests.
package fixtures

import (
	"time"

	"go.uber.org/zap"

	"github.com/eliteGoblin/wasp/internal/domain"
	"github.com/eliteGoblin/wasp/internal/infra"
	"github.com/eliteGoblin/wasp/internal/system"
)

// Epoch is the wall clock time at zero uptime.
var Epoch = time.Date(2024, 6, 1, 8, 30, 0, 0, time.UTC)

// Watch bundles a manager with the simulated hardware it runs on.
type Watch struct {
	Manager *system.Manager
	Sim     *infra.SimWatch
	RTC     *infra.ManualRTC
}

// NewWatch creates a manager on simulated hardware with a manual clock.
func NewWatch(config system.Config) *Watch {
	rtc := infra.NewManualRTC(Epoch)
	sim := infra.NewSimWatch(rtc)
	return &Watch{
		Manager: system.NewManager(config, sim.Watch(), zap.NewNop()),
		Sim:     sim,
		RTC:     rtc,
	}
}

// ScriptedApp is an application whose answers are set by the test and
// whose callbacks are counted.
type ScriptedApp struct {
	AppName string
	Sys     domain.System

	// Requested on Foreground. TickMs < 0 requests no tick.
	Mask   domain.EventMask
	TickMs int64

	SleepOK   bool
	SwipeMore bool
	PressMore bool

	Foregrounds int
	Backgrounds int
	Ticks       []int
	Touches     int
	Swipes      []domain.EventType
	Presses     []bool
	Sleeps      int
	Wakes       int
}

// NewScriptedApp creates an app that asks for nothing and accepts the
// default navigation.
func NewScriptedApp(name string) *ScriptedApp {
	return &ScriptedApp{AppName: name, TickMs: -1, SwipeMore: true, PressMore: true}
}

// Factory returns a factory that always yields this instance.
func (a *ScriptedApp) Factory() domain.AppFactory {
	return domain.AppFactory{Name: a.AppName, New: func(sys domain.System) domain.Application {
		a.Sys = sys
		return a
	}}
}

func (a *ScriptedApp) Name() string      { return a.AppName }
func (a *ScriptedApp) Icon() domain.Icon { return nil }

func (a *ScriptedApp) Foreground() error {
	a.Foregrounds++
	if a.Mask != 0 {
		a.Sys.RequestEvent(a.Mask)
	}
	if a.TickMs >= 0 {
		a.Sys.RequestTick(a.TickMs)
	}
	return nil
}

func (a *ScriptedApp) Background() error {
	a.Backgrounds++
	return nil
}

func (a *ScriptedApp) Sleep() bool {
	a.Sleeps++
	return a.SleepOK
}

func (a *ScriptedApp) Wake() error {
	a.Wakes++
	return nil
}

func (a *ScriptedApp) Tick(ticks int) error {
	a.Ticks = append(a.Ticks, ticks)
	return nil
}

func (a *ScriptedApp) Touch(domain.TouchEvent) error {
	a.Touches++
	return nil
}

func (a *ScriptedApp) Swipe(event domain.TouchEvent) (bool, error) {
	a.Swipes = append(a.Swipes, event.Type)
	return a.SwipeMore, nil
}

func (a *ScriptedApp) Press(_ int, state bool) (bool, error) {
	a.Presses = append(a.Presses, state)
	return a.PressMore, nil
}
