package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/arloliu/shardplan/types"
)

// PrometheusCollector implements types.MetricsCollector backed by Prometheus.
type PrometheusCollector struct {
	reg       prometheus.Registerer
	namespace string
	once      sync.Once

	planDuration     *prometheus.HistogramVec
	searchIterations *prometheus.CounterVec
	capacityCap      prometheus.Gauge
	placementFails   *prometheus.CounterVec

	requests    *prometheus.HistogramVec
	cacheLookup *prometheus.CounterVec
	kvLatency   *prometheus.HistogramVec
}

// Compile-time assertion that PrometheusCollector implements MetricsCollector.
var _ types.MetricsCollector = (*PrometheusCollector)(nil)

// NewPrometheus creates a new Prometheus-backed metrics collector.
//
// Parameters:
//   - reg: Prometheus registerer interface (uses prometheus.DefaultRegisterer if nil)
//   - namespace: Prometheus metrics namespace (defaults to "shardplan" if empty)
//
// Returns:
//   - *PrometheusCollector: A MetricsCollector implementation using Prometheus
func NewPrometheus(reg prometheus.Registerer, namespace string) *PrometheusCollector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if namespace == "" {
		namespace = "shardplan"
	}

	return &PrometheusCollector{reg: reg, namespace: namespace}
}

func (p *PrometheusCollector) ensureRegistered() {
	p.once.Do(func() {
		p.planDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: p.namespace,
			Subsystem: "planner",
			Name:      "plan_duration_seconds",
			Help:      "Duration of full Plan calls by outcome.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"success"})
		p.searchIterations = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "planner",
			Name:      "search_iterations_total",
			Help:      "Binary-search probes by outcome.",
		}, []string{"outcome"})
		p.capacityCap = prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: p.namespace,
			Subsystem: "planner",
			Name:      "accepted_capacity_cap_bytes",
			Help:      "Per-device HBM cap of the most recently accepted plan.",
		})
		p.placementFails = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "planner",
			Name:      "placement_failures_total",
			Help:      "Failed partition attempts by error kind.",
		}, []string{"kind"})

		p.requests = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: p.namespace,
			Subsystem: "service",
			Name:      "request_duration_seconds",
			Help:      "Plan request handling duration by outcome.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"outcome"})
		p.cacheLookup = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "service",
			Name:      "plan_cache_lookups_total",
			Help:      "Plan cache lookups by result.",
		}, []string{"result"})
		p.kvLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: p.namespace,
			Subsystem: "service",
			Name:      "kv_operation_duration_seconds",
			Help:      "JetStream KV operation latency by operation.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"op"})

		collectors := []prometheus.Collector{
			p.planDuration, p.searchIterations, p.capacityCap, p.placementFails,
			p.requests, p.cacheLookup, p.kvLatency,
		}
		for _, c := range collectors {
			// AlreadyRegisteredError is tolerated so multiple collectors can
			// share a registry in tests.
			if err := p.reg.Register(c); err != nil {
				if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
					panic(err)
				}
			}
		}
	})
}

// RecordPlanDuration records the duration of one full Plan call.
func (p *PrometheusCollector) RecordPlanDuration(duration float64, success bool) {
	p.ensureRegistered()
	label := "false"
	if success {
		label = "true"
	}
	p.planDuration.WithLabelValues(label).Observe(duration)
}

// RecordSearchIteration records one binary-search probe.
func (p *PrometheusCollector) RecordSearchIteration(outcome string) {
	p.ensureRegistered()
	p.searchIterations.WithLabelValues(outcome).Inc()
}

// RecordCapacityCap sets the accepted per-device HBM cap gauge.
func (p *PrometheusCollector) RecordCapacityCap(capBytes int64) {
	p.ensureRegistered()
	p.capacityCap.Set(float64(capBytes))
}

// RecordPlacementFailure records a failed partition attempt.
func (p *PrometheusCollector) RecordPlacementFailure(kind string) {
	p.ensureRegistered()
	p.placementFails.WithLabelValues(kind).Inc()
}

// RecordRequest records a handled plan request.
func (p *PrometheusCollector) RecordRequest(outcome string, duration float64) {
	p.ensureRegistered()
	p.requests.WithLabelValues(outcome).Observe(duration)
}

// RecordCacheLookup records a plan-cache lookup result.
func (p *PrometheusCollector) RecordCacheLookup(hit bool) {
	p.ensureRegistered()
	result := "miss"
	if hit {
		result = "hit"
	}
	p.cacheLookup.WithLabelValues(result).Inc()
}

// RecordKVOperationDuration records JetStream KV operation latency.
func (p *PrometheusCollector) RecordKVOperationDuration(operation string, duration float64) {
	p.ensureRegistered()
	p.kvLatency.WithLabelValues(operation).Observe(duration)
}
