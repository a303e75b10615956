//go:build integration

package integration

import (
	"fmt"
	"math/rand"
	"sort"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/eliteGoblin/wasp/internal/domain"
	"github.com/eliteGoblin/wasp/internal/system"
	"github.com/eliteGoblin/wasp/test/fixtures"
)

func appNames(apps []domain.Application) []string {
	out := make([]string, len(apps))
	for i, a := range apps {
		out[i] = a.Name()
	}
	return out
}

var _ = Describe("Manager", func() {
	var (
		watch *fixtures.Watch
		m     *system.Manager
		home  *fixtures.ScriptedApp
	)

	BeforeEach(func() {
		watch = fixtures.NewWatch(system.DefaultConfig())
		m = watch.Manager
		home = fixtures.NewScriptedApp("Home")
		m.Register(home.Factory(), domain.RegisterOptions{WatchFace: true})
	})

	Describe("launcher ring", func() {
		It("sorts apps registered as B, A, C", func() {
			for _, name := range []string{"B", "A", "C"} {
				m.Register(fixtures.NewScriptedApp(name).Factory(), domain.RegisterOptions{})
			}
			Expect(appNames(m.LauncherRing())).To(Equal([]string{"A", "B", "C"}))
		})

		It("stays sorted across any sequence of register and unregister", func() {
			rng := rand.New(rand.NewSource(42))
			for i := 0; i < 300; i++ {
				name := fmt.Sprintf("App%d", rng.Intn(20))
				if rng.Intn(3) == 0 {
					m.Unregister(name)
				} else {
					m.Register(fixtures.NewScriptedApp(name).Factory(), domain.RegisterOptions{})
				}
				names := appNames(m.LauncherRing())
				Expect(sort.StringsAreSorted(names)).To(BeTrue(), "after step %d: %v", i, names)
			}
		})
	})

	Describe("switching", func() {
		var other *fixtures.ScriptedApp

		BeforeEach(func() {
			other = fixtures.NewScriptedApp("Other")
			other.Mask = domain.MaskTouch | domain.MaskButton
			other.TickMs = 500
			m.Register(other.Factory(), domain.RegisterOptions{})
			home.Mask = domain.MaskSwipeUpDown
			home.TickMs = 1000
			Expect(m.SecondaryInit()).To(Succeed())
		})

		It("foregrounds the first app without a background call", func() {
			Expect(home.Foregrounds).To(Equal(1))
			Expect(home.Backgrounds).To(BeZero())
		})

		It("backgrounds the old app once and foregrounds the new one once", func() {
			Expect(m.Switch(other)).To(Succeed())
			Expect(home.Backgrounds).To(Equal(1))
			Expect(other.Foregrounds).To(Equal(1))
			Expect(other.Backgrounds).To(BeZero())
		})

		It("clears the event mask and the tick schedule before foreground", func() {
			other.Mask = 0
			other.TickMs = -1
			Expect(m.Switch(other)).To(Succeed())

			Expect(m.EventMask()).To(BeZero())
			_, _, armed := m.TickSchedule()
			Expect(armed).To(BeFalse())
		})

		It("keeps only what the new app requests", func() {
			Expect(m.Switch(other)).To(Succeed())
			Expect(m.EventMask()).To(Equal(domain.MaskTouch | domain.MaskButton))
			period, _, armed := m.TickSchedule()
			Expect(armed).To(BeTrue())
			Expect(period).To(Equal(int64(500)))
		})
	})

	Describe("ticks", func() {
		It("passes two missed periods after 2500ms on a 1000ms tick", func() {
			home.TickMs = 1000
			Expect(m.SecondaryInit()).To(Succeed())

			watch.RTC.Advance(2500 * time.Millisecond)
			Expect(m.Tick()).To(Succeed())
			Expect(home.Ticks).To(Equal([]int{2}))
		})
	})

	Describe("sleep and wake", func() {
		var other *fixtures.ScriptedApp

		BeforeEach(func() {
			other = fixtures.NewScriptedApp("Other")
			m.Register(other.Factory(), domain.RegisterOptions{})
			Expect(m.SecondaryInit()).To(Succeed())
			m.SetBrightness(3)
			Expect(m.Switch(other)).To(Succeed())
		})

		It("restores the backlight and keeps an app that may sleep", func() {
			other.SleepOK = true
			Expect(m.Sleep()).To(Succeed())
			Expect(watch.Sim.Backlight()).To(BeZero())
			Expect(watch.Sim.DisplayOn()).To(BeFalse())

			Expect(m.Wake()).To(Succeed())
			Expect(watch.Sim.Backlight()).To(Equal(3))
			Expect(m.App()).To(BeIdenticalTo(other))
			Expect(other.Wakes).To(Equal(1))
		})

		It("returns to the home app when the app refuses to sleep", func() {
			Expect(m.Sleep()).To(Succeed())
			Expect(m.Wake()).To(Succeed())

			Expect(watch.Sim.Backlight()).To(Equal(3))
			Expect(m.App()).To(BeIdenticalTo(home))
			Expect(home.Sleeps).To(Equal(1))
		})

		It("blanks after the idle deadline and wakes on a button press", func() {
			watch.RTC.Advance(91 * time.Second)
			Expect(m.Tick()).To(Succeed())
			Expect(m.Awake()).To(BeFalse())

			watch.Sim.SetButton(true)
			Expect(m.Tick()).To(Succeed())
			Expect(m.Awake()).To(BeTrue())
		})
	})

	Describe("quick ring navigation", func() {
		var quick *fixtures.ScriptedApp

		BeforeEach(func() {
			quick = fixtures.NewScriptedApp("Quick")
			m.Register(quick.Factory(), domain.RegisterOptions{QuickRing: true})
			Expect(m.SecondaryInit()).To(Succeed())
		})

		It("appends quick ring apps after home", func() {
			Expect(appNames(m.QuickRing())).To(Equal([]string{"Home", "Quick"}))
		})

		It("moves right once, then only vibrates", func() {
			Expect(m.HandleTouch(domain.TouchEvent{Type: domain.EventRight})).To(Succeed())
			Expect(m.App()).To(BeIdenticalTo(quick))

			pulses := watch.Sim.Pulses()
			Expect(m.HandleTouch(domain.TouchEvent{Type: domain.EventRight})).To(Succeed())
			Expect(m.App()).To(BeIdenticalTo(quick))
			Expect(watch.Sim.Pulses()).To(Equal(pulses + 1))
		})

		It("never moves left of slot 0", func() {
			for i := 0; i < 3; i++ {
				Expect(m.HandleTouch(domain.TouchEvent{Type: domain.EventLeft})).To(Succeed())
				Expect(m.App()).To(BeIdenticalTo(home))
			}
		})
	})

	Describe("button", func() {
		It("skips default navigation when press returns false", func() {
			other := fixtures.NewScriptedApp("Other")
			other.Mask = domain.MaskButton
			other.PressMore = false
			m.Register(other.Factory(), domain.RegisterOptions{})
			Expect(m.SecondaryInit()).To(Succeed())
			Expect(m.Switch(other)).To(Succeed())

			Expect(m.HandleButton(true)).To(Succeed())
			Expect(m.App()).To(BeIdenticalTo(other))
			Expect(other.Presses).To(Equal([]bool{true}))
		})

		It("goes home, then sleeps from home", func() {
			other := fixtures.NewScriptedApp("Other")
			m.Register(other.Factory(), domain.RegisterOptions{})
			Expect(m.SecondaryInit()).To(Succeed())
			Expect(m.Switch(other)).To(Succeed())

			Expect(m.HandleButton(true)).To(Succeed())
			Expect(m.App()).To(BeIdenticalTo(home))
			Expect(m.HandleButton(false)).To(Succeed())
			Expect(m.HandleButton(true)).To(Succeed())
			Expect(m.Awake()).To(BeFalse())
		})
	})
})
