//go:build integration

package integration

import (
	"bytes"
	"context"
	"os"
	"strings"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/eliteGoblin/wasp/internal/apps"
	"github.com/eliteGoblin/wasp/internal/daemon"
	"github.com/eliteGoblin/wasp/internal/domain"
	"github.com/eliteGoblin/wasp/internal/gadgetbridge"
	"github.com/eliteGoblin/wasp/internal/infra"
	"github.com/eliteGoblin/wasp/internal/system"
	"github.com/eliteGoblin/wasp/test/fixtures"
)

// bootWatch installs the bundled apps from prefs and starts the watch.
func bootWatch(prefs domain.PreferenceStore, music apps.MusicSender) *fixtures.Watch {
	watch := fixtures.NewWatch(system.DefaultConfig())
	watch.Manager.WithLauncher(apps.LauncherFactory()).WithFallback(apps.TorchFactory())
	Expect(apps.NewDefaultCatalog(prefs, music).Install(watch.Manager, prefs)).To(Succeed())
	Expect(watch.Manager.SecondaryInit()).To(Succeed())
	return watch
}

func openApp(m *system.Manager, name string) domain.Application {
	for _, app := range append(m.QuickRing(), m.LauncherRing()...) {
		if app.Name() == name {
			Expect(m.Switch(app)).To(Succeed())
			return app
		}
	}
	Fail("app not registered: " + name)
	return nil
}

var _ = Describe("Bundled apps", func() {
	var dataDir string

	BeforeEach(func() {
		var err error
		dataDir, err = os.MkdirTemp("", "wasp-integration-*")
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(os.RemoveAll, dataDir)
	})

	It("remembers Software and Faces choices across restarts", func() {
		prefs, err := infra.OpenPreferences(dataDir)
		Expect(err).NotTo(HaveOccurred())

		watch := bootWatch(prefs, nil)
		m := watch.Manager
		Expect(m.Home().Name()).To(Equal("Clock"))

		openApp(m, "Software")
		// Rows are Calc, Faces, Music, Timer, Torch; Weather is on the next page.
		Expect(m.HandleTouch(domain.TouchEvent{Type: domain.EventTouch, X: 10, Y: 130})).To(Succeed())
		Expect(appNames(m.LauncherRing())).To(ContainElement("Timer"))

		openApp(m, "Faces")
		Expect(m.HandleTouch(domain.TouchEvent{Type: domain.EventUp})).To(Succeed())
		Expect(m.HandleButton(true)).To(Succeed())
		Expect(m.Home().Name()).To(Equal("Chrono"))
		Expect(prefs.Close()).To(Succeed())

		prefs, err = infra.OpenPreferences(dataDir)
		Expect(err).NotTo(HaveOccurred())
		defer prefs.Close()

		restarted := bootWatch(prefs, nil)
		Expect(restarted.Manager.App().Name()).To(Equal("Chrono"))
		Expect(appNames(restarted.Manager.LauncherRing())).To(Equal([]string{"Faces", "Software", "Timer", "Torch"}))
	})

	It("opens the launcher and starts an app from it", func() {
		watch := bootWatch(nil, nil)
		m := watch.Manager

		Expect(m.HandleTouch(domain.TouchEvent{Type: domain.EventUp})).To(Succeed())
		Expect(m.App()).To(BeIdenticalTo(m.Launcher()))

		// Launcher ring: Faces, Software, Torch. Torch is the third cell.
		Expect(m.HandleTouch(domain.TouchEvent{Type: domain.EventTouch, X: 200, Y: 20})).To(Succeed())
		Expect(m.App().Name()).To(Equal("Torch"))
	})

	It("runs the stopwatch from the quick ring", func() {
		watch := bootWatch(nil, nil)
		m := watch.Manager

		Expect(m.HandleTouch(domain.TouchEvent{Type: domain.EventRight})).To(Succeed())
		sw, ok := m.App().(*apps.Stopwatch)
		Expect(ok).To(BeTrue())

		Expect(m.HandleButton(true)).To(Succeed())
		watch.RTC.Advance(3 * time.Second)
		Expect(m.Tick()).To(Succeed())
		Expect(sw.Count()).To(Equal(int64(300)))
		Expect(watch.Sim.Strings()).To(ContainElement("00:03.00"))
	})
})

var _ = Describe("Phone link", func() {
	It("applies console phone commands on the dispatch goroutine", func() {
		prefsOff := domain.PreferenceStore(nil)
		var replies bytes.Buffer
		responder := gadgetbridge.NewResponder(&replies)

		watch := fixtures.NewWatch(system.DefaultConfig())
		m := watch.Manager.WithLauncher(apps.LauncherFactory()).WithFallback(apps.TorchFactory())
		Expect(apps.NewDefaultCatalog(prefsOff, responder.Music).Install(m, prefsOff)).To(Succeed())

		decoder := gadgetbridge.NewDecoder(m, zap.NewNop())
		config := daemon.DefaultRunnerConfig()
		config.PollInterval = time.Millisecond
		runner := daemon.NewRunner(config, m, nil, zap.NewNop())

		done := make(chan struct{})
		console := infra.NewConsole(watch.Sim, func(line string) {
			runner.Submit(func() error {
				if err := decoder.Handle(line); err != nil {
					return responder.Error(err.Error())
				}
				return nil
			})
		}, zap.NewNop())
		input := strings.Join([]string{
			`GB({"t":"notify","id":1,"title":"Hello"})`,
			`GB({"t":"musicstate","state":"play"})`,
			`GB(oops)`,
		}, "\n")
		Expect(console.Run(context.Background(), strings.NewReader(input))).To(Succeed())

		seen := make(chan []domain.Notification, 1)
		Expect(runner.Submit(func() error {
			seen <- m.Notifications()
			close(done)
			return nil
		})).To(BeTrue())

		ctx, cancel := context.WithCancel(context.Background())
		go func() {
			<-done
			cancel()
		}()
		Expect(runner.Run(ctx)).To(MatchError(context.Canceled))

		Expect(<-seen).To(HaveLen(1))
		Expect(m.MusicState()).To(Equal(domain.MusicPlay))
		Expect(watch.Sim.Pulses()).To(Equal(1))
		Expect(replies.String()).To(HavePrefix(`{"msg":"malformed command`))
	})
})
