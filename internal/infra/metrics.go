package infra

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/eliteGoblin/wasp/internal/domain"
)

// PromObserver exports manager activity as Prometheus metrics.
// Each instance owns its registry so several can coexist in tests.
type PromObserver struct {
	registry *prometheus.Registry

	Switches  *prometheus.CounterVec
	Ticks     *prometheus.CounterVec
	Missed    prometheus.Counter
	Inputs    *prometheus.CounterVec
	Failures  *prometheus.CounterVec
	Awake     prometheus.Gauge
	PowerEdge *prometheus.CounterVec
}

// NewPromObserver creates the metric set.
func NewPromObserver() *PromObserver {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &PromObserver{
		registry: reg,
		Switches: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wasp_app_switches_total",
				Help: "Number of switches to each application",
			},
			[]string{"app"},
		),
		Ticks: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wasp_ticks_total",
				Help: "Tick callbacks delivered per application",
			},
			[]string{"app"},
		),
		Missed: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "wasp_ticks_missed_total",
				Help: "Tick periods missed under scheduling pressure",
			},
		),
		Inputs: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wasp_input_events_total",
				Help: "Input events dispatched by type",
			},
			[]string{"type"},
		),
		Failures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wasp_callback_failures_total",
				Help: "Application callbacks that returned an error",
			},
			[]string{"app", "callback"},
		),
		Awake: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "wasp_awake",
				Help: "1 while the display is on",
			},
		),
		PowerEdge: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wasp_power_transitions_total",
				Help: "Sleep and wake transitions",
			},
			[]string{"state"},
		),
	}
}

func (o *PromObserver) AppSwitched(_, to string) {
	o.Switches.WithLabelValues(to).Inc()
}

func (o *PromObserver) TickDispatched(app string, missed int) {
	o.Ticks.WithLabelValues(app).Inc()
	o.Missed.Add(float64(missed))
}

func (o *PromObserver) InputDispatched(kind domain.EventType) {
	o.Inputs.WithLabelValues(kind.String()).Inc()
}

func (o *PromObserver) PowerChanged(awake bool) {
	if awake {
		o.Awake.Set(1)
		o.PowerEdge.WithLabelValues("wake").Inc()
		return
	}
	o.Awake.Set(0)
	o.PowerEdge.WithLabelValues("sleep").Inc()
}

func (o *PromObserver) CallbackFailed(app, callback string, _ error) {
	o.Failures.WithLabelValues(app, callback).Inc()
}

// Registry exposes the underlying registry for gathering.
func (o *PromObserver) Registry() *prometheus.Registry { return o.registry }

// Handler serves the metrics in the Prometheus text format.
func (o *PromObserver) Handler() http.Handler {
	return promhttp.HandlerFor(o.registry, promhttp.HandlerOpts{})
}

// Ensure PromObserver implements domain.Observer.
var _ domain.Observer = (*PromObserver)(nil)
