package bench

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/golovatskygroup/chainbench/internal/chain"
)

const namespace = "chainbench"

// Metrics holds the run collectors on a private registry so repeated runs in
// one process never collide.
type Metrics struct {
	registry        *prometheus.Registry
	chains          *prometheus.CounterVec
	chainFailures   *prometheus.CounterVec
	steps           *prometheus.CounterVec
	stepRetries     prometheus.Counter
	filterChecks    *prometheus.CounterVec
	stepDuration    prometheus.Histogram
	chainCompletion prometheus.Gauge
	stepCompletion  prometheus.Gauge
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		chains: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chains_total",
			Help:      "Chains run, by difficulty and final status.",
		}, []string{"difficulty", "status"}),
		chainFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chain_failures_total",
			Help:      "Failed chains by failure reason.",
		}, []string{"reason"}),
		steps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "steps_total",
			Help:      "Executed plan steps by status and failure reason.",
		}, []string{"status", "reason"}),
		stepRetries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "step_retries_total",
			Help:      "Router retries spent across all steps.",
		}),
		filterChecks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "filter_checks_total",
			Help:      "Steps by whether the filtered tool set contained an expected tool.",
		}, []string{"hit"}),
		stepDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "step_duration_seconds",
			Help:      "Wall time per executed step, retries included.",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 12),
		}),
		chainCompletion: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "chain_completion_ratio",
			Help:      "Passed chains over total chains for the last run.",
		}),
		stepCompletion: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "step_completion_ratio",
			Help:      "Completed steps over declared steps for the last run.",
		}),
	}
	m.registry.MustRegister(
		m.chains, m.chainFailures, m.steps, m.stepRetries,
		m.filterChecks, m.stepDuration, m.chainCompletion, m.stepCompletion,
	)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// ObserveChain records one finished chain and its executed steps.
func (m *Metrics) ObserveChain(r chain.Result) {
	if m == nil {
		return
	}
	m.chains.WithLabelValues(string(r.Difficulty), string(r.Status)).Inc()
	if !r.Passed() {
		m.chainFailures.WithLabelValues(string(r.FailureReason)).Inc()
	}
	for _, s := range r.StepResults {
		m.steps.WithLabelValues(string(s.Status), string(s.FailureReason)).Inc()
		m.stepRetries.Add(float64(s.Retries))
		m.filterChecks.WithLabelValues(strconv.FormatBool(s.FilterHit)).Inc()
		m.stepDuration.Observe((time.Duration(s.DurationMs) * time.Millisecond).Seconds())
	}
}

func (m *Metrics) ObserveSummary(s Summary) {
	if m == nil {
		return
	}
	m.chainCompletion.Set(s.ChainCompletionRate)
	m.stepCompletion.Set(s.StepCompletionRate)
}

// WriteTextfile writes the registry in the node-exporter textfile format.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
