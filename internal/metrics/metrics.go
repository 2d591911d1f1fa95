// Package metrics собирает prometheus-метрики вызовов инструментов.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "news_mcp"

// Исходы вызова инструмента.
const (
	OutcomeOK    = "ok"
	OutcomeEmpty = "empty"
	OutcomeError = "error"
)

// Metrics: набор коллекторов одного процесса. Nil-значение допустимо и ничего не пишет.
type Metrics struct {
	Invocations *prometheus.CounterVec
	Duration    *prometheus.HistogramVec
	Returned    prometheus.Histogram
}

// New создаёт коллекторы и регистрирует их в reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Invocations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tool_invocations_total",
			Help:      "Tool invocations by outcome.",
		}, []string{"tool", "outcome"}),
		Duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "tool_duration_seconds",
			Help:      "Tool invocation latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"tool"}),
		Returned: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "articles_returned",
			Help:      "Articles returned per successful fetch.",
			Buckets:   []float64{0, 1, 5, 10, 20, 50},
		}),
	}
	reg.MustRegister(m.Invocations, m.Duration, m.Returned)
	return m
}

// ObserveInvocation записывает исход, длительность и число возвращённых статей.
func (m *Metrics) ObserveInvocation(tool, outcome string, elapsed time.Duration, returned int) {
	if m == nil {
		return
	}
	m.Invocations.WithLabelValues(tool, outcome).Inc()
	m.Duration.WithLabelValues(tool).Observe(elapsed.Seconds())
	if outcome != OutcomeError {
		m.Returned.Observe(float64(returned))
	}
}
