package shardplan

import "github.com/arloliu/shardplan/types"

// Option configures a Planner with optional dependencies and tuning.
type Option func(*plannerOptions)

// plannerOptions holds optional Planner configuration.
type plannerOptions struct {
	maxSearchIterations int
	tolerance           float64
	partitioner         types.Partitioner
	model               types.CostModel
	logger              types.Logger
	metrics             types.MetricsCollector
}

// WithMaxSearchIterations bounds the number of binary-search probes of the
// memory-balance search.
//
// Parameters:
//   - n: Maximum probe count (default: 10)
//
// Returns:
//   - Option: Functional option for New
func WithMaxSearchIterations(n int) Option {
	return func(o *plannerOptions) {
		o.maxSearchIterations = n
	}
}

// WithTolerance sets the fractional cost regression allowed when trading cost
// for memory balance. A tighter capacity cap is accepted only while the
// resulting cost stays within baseline * (1 + tolerance).
//
// Parameters:
//   - tolerance: Fractional regression, e.g. 0.02 for 2% (default: 0.02)
//
// Returns:
//   - Option: Functional option for New
func WithTolerance(tolerance float64) Option {
	return func(o *plannerOptions) {
		o.tolerance = tolerance
	}
}

// WithPartitioner sets a custom partitioner.
//
// Parameters:
//   - partitioner: Partitioner implementation (defaults to partition.NewGreedy)
//
// Returns:
//   - Option: Functional option for New
func WithPartitioner(partitioner types.Partitioner) Option {
	return func(o *plannerOptions) {
		o.partitioner = partitioner
	}
}

// WithCostModel sets the cost model used to score candidate placements.
//
// Parameters:
//   - model: CostModel implementation (defaults to costmodel.NewMaxDevice)
//
// Returns:
//   - Option: Functional option for New
//
// Example:
//
//	planner, err := shardplan.New(shardplan.WithCostModel(myModel))
func WithCostModel(model types.CostModel) Option {
	return func(o *plannerOptions) {
		o.model = model
	}
}

// WithLogger sets a logger.
//
// Parameters:
//   - logger: Logger implementation (defaults to a no-op logger)
//
// Returns:
//   - Option: Functional option for New
func WithLogger(logger types.Logger) Option {
	return func(o *plannerOptions) {
		o.logger = logger
	}
}

// WithMetrics sets a metrics collector.
//
// Parameters:
//   - metrics: MetricsCollector implementation (defaults to a no-op collector)
//
// Returns:
//   - Option: Functional option for New
func WithMetrics(metrics types.MetricsCollector) Option {
	return func(o *plannerOptions) {
		o.metrics = metrics
	}
}
