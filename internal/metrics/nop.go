// Package metrics provides types.MetricsCollector implementations: a no-op
// collector used as the default and a Prometheus-backed collector.
package metrics

import "github.com/arloliu/shardplan/types"

// NopMetrics implements a no-op metrics collector.
//
// All metrics are discarded. Useful for testing or when external
// metrics collection is used.
type NopMetrics struct{}

// Compile-time assertion that NopMetrics implements MetricsCollector.
var _ types.MetricsCollector = (*NopMetrics)(nil)

// NewNop creates a new no-op metrics collector.
//
// Returns:
//   - *NopMetrics: A new no-op metrics collector instance
func NewNop() *NopMetrics {
	return &NopMetrics{}
}

// PlannerMetrics implementation

// RecordPlanDuration discards the plan duration metric.
func (n *NopMetrics) RecordPlanDuration(_ /* duration */ float64, _ /* success */ bool) {
	// No-op
}

// RecordSearchIteration discards the search iteration metric.
func (n *NopMetrics) RecordSearchIteration(_ /* outcome */ string) {
	// No-op
}

// RecordCapacityCap discards the capacity cap gauge.
func (n *NopMetrics) RecordCapacityCap(_ /* capBytes */ int64) {
	// No-op
}

// RecordPlacementFailure discards the placement failure metric.
func (n *NopMetrics) RecordPlacementFailure(_ /* kind */ string) {
	// No-op
}

// ServiceMetrics implementation

// RecordRequest discards the request metric.
func (n *NopMetrics) RecordRequest(_ /* outcome */ string, _ /* duration */ float64) {
	// No-op
}

// RecordCacheLookup discards the cache lookup metric.
func (n *NopMetrics) RecordCacheLookup(_ /* hit */ bool) {
	// No-op
}

// RecordKVOperationDuration discards the KV operation metric.
func (n *NopMetrics) RecordKVOperationDuration(_ /* operation */ string, _ /* duration */ float64) {
	// No-op
}
