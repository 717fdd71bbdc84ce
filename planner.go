package shardplan

import (
	"errors"
	"fmt"
	"time"

	"github.com/arloliu/shardplan/costmodel"
	"github.com/arloliu/shardplan/internal/logging"
	"github.com/arloliu/shardplan/internal/metrics"
	"github.com/arloliu/shardplan/partition"
	"github.com/arloliu/shardplan/types"
)

// Default tuning of the memory-balance search.
const (
	// DefaultMaxSearchIterations bounds the binary search.
	DefaultMaxSearchIterations = 10

	// DefaultTolerance is the fractional cost regression allowed in exchange
	// for a tighter per-device memory cap.
	DefaultTolerance = 0.02
)

// minSearchGap stops the search once the bracket is narrower than 10 MiB:
// tightening the cap further than that is noise.
const minSearchGap int64 = 10 << 20

// Planner produces memory-balanced placements.
//
// Plan first computes an unconstrained baseline placement, then binary
// searches for the lowest per-device HBM cap whose placement cost stays
// within the tolerance of the baseline. The baseline is always kept as the
// fallback, so Plan returns a feasible placement whenever one exists at all.
//
// A Planner is not safe for concurrent use; the target use case is one
// planning invocation at a time.
type Planner struct {
	maxSearchIterations int
	tolerance           float64
	partitioner         types.Partitioner
	model               types.CostModel
	logger              types.Logger
	metrics             types.MetricsCollector
}

// New creates a new Planner.
//
// Parameters:
//   - opts: Optional configuration (WithTolerance, WithMaxSearchIterations,
//     WithCostModel, WithPartitioner, WithLogger, WithMetrics)
//
// Returns:
//   - *Planner: Initialized planner
//   - error: ErrInvalidConfig if an option value is out of range
//
// Example:
//
//	planner, err := shardplan.New(shardplan.WithTolerance(0.05))
func New(opts ...Option) (*Planner, error) {
	options := &plannerOptions{
		maxSearchIterations: DefaultMaxSearchIterations,
		tolerance:           DefaultTolerance,
	}
	for _, opt := range opts {
		opt(options)
	}

	if options.maxSearchIterations < 1 {
		return nil, fmt.Errorf("%w: max search iterations %d must be >= 1",
			ErrInvalidConfig, options.maxSearchIterations)
	}
	if options.tolerance < 0 {
		return nil, fmt.Errorf("%w: tolerance %v must be >= 0",
			ErrInvalidConfig, options.tolerance)
	}

	// Provide safe defaults for optional dependencies to avoid nil checks everywhere
	if options.logger == nil {
		options.logger = logging.NewNop()
	}
	if options.metrics == nil {
		options.metrics = metrics.NewNop()
	}
	if options.model == nil {
		options.model = costmodel.NewMaxDevice()
	}
	if options.partitioner == nil {
		options.partitioner = partition.NewGreedy(partition.WithLogger(options.logger))
	}

	return &Planner{
		maxSearchIterations: options.maxSearchIterations,
		tolerance:           options.tolerance,
		partitioner:         options.partitioner,
		model:               options.model,
		logger:              options.logger,
		metrics:             options.metrics,
	}, nil
}

// Plan places the proposal onto the topology and returns the most
// memory-balanced placement whose cost stays within the tolerance of the
// unconstrained placement.
//
// The caller's topology is never mutated. The proposal's shard ranks are
// written in place; on success they describe the returned plan, on failure
// they are undefined and must be reset before reuse.
//
// Parameters:
//   - proposal: Units to place, in priority order
//   - topology: Device topology with per-device capacity caps
//
// Returns:
//   - []*types.Unit: The same unit collection with all ranks assigned
//   - error: Placement or structural error from the baseline pass, or a
//     non-placement error surfaced by a search probe
func (p *Planner) Plan(proposal []*types.Unit, topology *types.Topology) ([]*types.Unit, error) {
	start := time.Now()
	plan, err := p.plan(proposal, topology)
	p.metrics.RecordPlanDuration(time.Since(start).Seconds(), err == nil)

	return plan, err
}

func (p *Planner) plan(proposal []*types.Unit, topology *types.Topology) ([]*types.Unit, error) {
	if len(proposal) == 0 {
		return nil, ErrEmptyProposal
	}
	if topology == nil || topology.WorldSize() == 0 {
		return nil, ErrTopologyRequired
	}

	// Baseline placement on the unconstrained topology. If this fails there
	// is no feasible placement to fall back on, so the error propagates.
	if _, err := p.partitioner.Partition(proposal, topology); err != nil {
		p.metrics.RecordPlacementFailure(failureKind(err))
		return nil, fmt.Errorf("baseline placement: %w", err)
	}
	baselineCost := p.model.Rate(proposal, topology)
	bestRanks := snapshotRanks(proposal)

	maxCap := topology.Devices[0].Free.HBM
	var required int64
	for _, unit := range proposal {
		for _, shard := range unit.Shards {
			required += shard.Capacity.HBM
		}
	}
	// Information-theoretic lower bound; not necessarily feasible.
	minCap := required / int64(topology.WorldSize())

	p.logger.Info("memory-balance search started",
		"baseline_cost", baselineCost,
		"min_hbm_per_device", minCap,
		"max_hbm_per_device", maxCap,
		"tolerance", p.tolerance,
	)

	capped := topology.Clone()
	bestCap := maxCap

	for iter := 0; iter < p.maxSearchIterations && minCap+minSearchGap < maxCap; iter++ {
		mid := (minCap + maxCap) / 2

		// Ranks written by the previous probe must not leak into this one.
		types.ResetRanks(proposal)
		for _, device := range capped.Devices {
			device.Free.HBM = mid
		}

		if _, err := p.partitioner.Partition(proposal, capped); err != nil {
			if !types.IsPlacementFailure(err) {
				p.metrics.RecordPlacementFailure(failureKind(err))
				return nil, fmt.Errorf("search probe at hbm cap %d: %w", mid, err)
			}

			p.metrics.RecordSearchIteration("infeasible")
			p.logger.Info("no feasible placement at capacity cap",
				"hbm_per_device", mid,
			)
			minCap = mid

			continue
		}

		cost := p.model.Rate(proposal, capped)
		delta := costDelta(cost, baselineCost)

		if cost > baselineCost*(1+p.tolerance) {
			p.metrics.RecordSearchIteration("rejected")
			p.logger.Info("placement at capacity cap exceeds tolerance",
				"hbm_per_device", mid,
				"cost_delta", delta,
				"tolerance", p.tolerance,
			)
			minCap = mid

			continue
		}

		p.metrics.RecordSearchIteration("accepted")
		p.logger.Info("accepted more memory-balanced placement",
			"hbm_per_device", mid,
			"cost_delta", delta,
		)
		bestRanks = snapshotRanks(proposal)
		bestCap = mid
		maxCap = mid
	}

	// The last probe may have been rejected or infeasible; restore the best
	// accepted placement (the baseline if nothing tighter was accepted).
	restoreRanks(proposal, bestRanks)
	p.metrics.RecordCapacityCap(bestCap)

	return proposal, nil
}

// snapshotRanks captures every shard's assigned rank, unit by unit.
func snapshotRanks(units []*types.Unit) [][]int {
	ranks := make([][]int, len(units))
	for i, unit := range units {
		ranks[i] = make([]int, len(unit.Shards))
		for j, shard := range unit.Shards {
			ranks[i][j] = shard.Rank
		}
	}

	return ranks
}

// restoreRanks writes a snapshot captured by snapshotRanks back onto the units.
func restoreRanks(units []*types.Unit, ranks [][]int) {
	for i, unit := range units {
		for j, shard := range unit.Shards {
			shard.Rank = ranks[i][j]
		}
	}
}

// costDelta returns the relative cost change versus the baseline.
func costDelta(cost, baseline float64) float64 {
	if baseline == 0 {
		return 0
	}

	return (cost - baseline) / baseline
}

// failureKind maps a placement error to a metrics label.
func failureKind(err error) string {
	switch {
	case errors.Is(err, types.ErrCapacityExhausted):
		return "capacity"
	case errors.Is(err, types.ErrPlacementInfeasible):
		return "infeasible"
	default:
		return "structural"
	}
}
