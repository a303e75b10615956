//go:build integration

package integration

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/eliteGoblin/wasp/internal/daemon"
	"github.com/eliteGoblin/wasp/internal/domain"
	"github.com/eliteGoblin/wasp/internal/system"
	"github.com/eliteGoblin/wasp/test/fixtures"
)

var _ = Describe("Cooperative scheduling", func() {
	var (
		watch *fixtures.Watch
		sched *daemon.Scheduler
	)

	BeforeEach(func() {
		watch = fixtures.NewWatch(system.DefaultConfig())
		sched = daemon.NewScheduler(8, zap.NewNop())
		watch.Manager.WithScheduler(sched)
		watch.Manager.Register(fixtures.NewScriptedApp("Home").Factory(), domain.RegisterOptions{WatchFace: true})
		Expect(watch.Manager.Schedule(true)).To(Succeed())
	})

	It("coalesces interrupts raised while a pass is pending", func() {
		watch.Sim.Raise()
		watch.Sim.Raise()
		watch.Sim.Raise()
		Expect(sched.Pending()).To(Equal(1))

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()
		Expect(sched.Run(ctx)).To(MatchError(context.DeadlineExceeded))
		Expect(sched.Pending()).To(BeZero())

		watch.Sim.Raise()
		Expect(sched.Pending()).To(Equal(1), "a new interrupt after the pass queues again")
	})

	It("stops scheduling when switched back to blocking mode", func() {
		Expect(watch.Manager.Schedule(false)).To(Succeed())
		watch.Sim.Raise()
		Expect(sched.Pending()).To(BeZero())
		Expect(watch.Sim.HookInstalled()).To(BeFalse())
	})

	It("refuses blocking runs while cooperative", func() {
		r := daemon.NewRunner(daemon.DefaultRunnerConfig(), watch.Manager, nil, zap.NewNop())
		Expect(r.Run(context.Background())).To(MatchError(daemon.ErrScheduling))
	})
})
