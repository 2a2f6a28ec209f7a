package infrastructure

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"holostream/internal/metrics/domain"
)

const namespace = "holostream"

// Instrumentation records push scheduler telemetry in a private registry,
// separate from the engine's own store.
type Instrumentation struct {
	registry *prometheus.Registry

	healthChecks  *prometheus.CounterVec
	pushes        *prometheus.CounterVec
	pushAttempts  prometheus.Counter
	pushDuration  prometheus.Histogram
	connected     prometheus.Gauge
	lastSuccessTS prometheus.Gauge
}

// NewInstrumentation creates the registry with Go runtime and process
// collectors attached
func NewInstrumentation() *Instrumentation {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Instrumentation{
		registry: reg,
		healthChecks: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "collector_health_checks_total",
			Help:      "Collector health checks by result",
		}, []string{"result"}),
		pushes: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pushes_total",
			Help:      "Push cycles by result",
		}, []string{"result"}),
		pushAttempts: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "push_attempts_total",
			Help:      "HTTP push attempts including retries",
		}),
		pushDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "push_duration_seconds",
			Help:      "Wall time of a push cycle including retries",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		connected: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "collector_connected",
			Help:      "1 when the last collector exchange succeeded",
		}),
		lastSuccessTS: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_push_success_timestamp_seconds",
			Help:      "Unix time of the last successful push",
		}),
	}
}

func (i *Instrumentation) ObserveHealthCheck(err error) {
	i.healthChecks.WithLabelValues(result(err)).Inc()
}

func (i *Instrumentation) ObservePush(attempts int, elapsed time.Duration, err error) {
	i.pushes.WithLabelValues(result(err)).Inc()
	i.pushAttempts.Add(float64(attempts))
	i.pushDuration.Observe(elapsed.Seconds())
	if err == nil {
		i.lastSuccessTS.SetToCurrentTime()
	}
}

func (i *Instrumentation) ObserveState(state domain.ConnectionState) {
	if state == domain.StateConnected {
		i.connected.Set(1)
		return
	}
	i.connected.Set(0)
}

// Registry exposes the underlying registry for tests and extra collectors
func (i *Instrumentation) Registry() *prometheus.Registry {
	return i.registry
}

// Handler serves the registry in the Prometheus exposition format
func (i *Instrumentation) Handler() http.Handler {
	return promhttp.HandlerFor(i.registry, promhttp.HandlerOpts{})
}

func result(err error) string {
	if err != nil {
		return "failure"
	}
	return "success"
}
