package partition

import (
	"fmt"
	"slices"

	"github.com/arloliu/shardplan/internal/logging"
	"github.com/arloliu/shardplan/types"
)

// Greedy is the greedy placement partitioner.
//
// A single Partition call is all-or-nothing: any packer failure propagates
// unchanged and nothing is retried at this layer. Greedy is not safe for
// concurrent use; callers that plan concurrently must use separate instances.
type Greedy struct {
	logger   types.Logger
	topology *types.Topology
}

// Compile-time assertion that Greedy implements Partitioner.
var _ types.Partitioner = (*Greedy)(nil)

// GreedyOption configures a Greedy partitioner.
type GreedyOption func(*Greedy)

// WithLogger sets the logger used for placement progress.
//
// Parameters:
//   - logger: Logger implementation (defaults to a no-op logger)
//
// Returns:
//   - GreedyOption: Functional option for NewGreedy
func WithLogger(logger types.Logger) GreedyOption {
	return func(g *Greedy) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// NewGreedy creates a new greedy partitioner.
//
// Returns:
//   - *Greedy: Initialized partitioner
//
// Example:
//
//	partitioner := partition.NewGreedy()
//	plan, err := partitioner.Partition(proposal, topology)
func NewGreedy(opts ...GreedyOption) *Greedy {
	g := &Greedy{logger: logging.NewNop()}
	for _, opt := range opts {
		opt(g)
	}

	return g
}

// Partition places the proposal onto a private copy of the constraint
// topology and fills in every shard's Rank.
//
// Uniform units are placed first against the full device list, then the
// remaining units are grouped by dependency key, sorted by descending
// aggregate capacity, and dispatched to the co-host or device-level packer.
//
// Parameters:
//   - proposal: Units to place; shard ranks are written in place
//   - constraint: Device topology; never mutated
//
// Returns:
//   - []*types.Unit: The same unit collection with all ranks assigned
//   - error: Placement error (types.ErrCapacityExhausted,
//     types.ErrPlacementInfeasible) or structural fault
//     (types.ErrInvalidProposal, types.ErrInvalidTopology)
func (g *Greedy) Partition(proposal []*types.Unit, constraint *types.Topology) ([]*types.Unit, error) {
	if constraint.LocalSize <= 0 || constraint.WorldSize()%constraint.LocalSize != 0 {
		return nil, fmt.Errorf("%w: world size %d, local size %d",
			types.ErrInvalidTopology, constraint.WorldSize(), constraint.LocalSize)
	}

	topo := constraint.Clone()

	// The device packer re-sorts its slice before every shard. Keep a shallow
	// copy so the topology's device order stays intact: host grouping is
	// positional and depends on that order.
	sortedDevices := slices.Clone(topo.Devices)
	hostGroups := topo.HostGroups()

	if err := uniformPartition(uniformUnits(proposal), topo.Devices); err != nil {
		return nil, err
	}

	for _, group := range groupNonUniform(proposal) {
		strategy, err := groupStrategy(group)
		if err != nil {
			return nil, err
		}

		switch strategy {
		case types.PartitionByHost:
			if err := cohostPartition(group, hostGroups); err != nil {
				return nil, err
			}
		case types.PartitionByDevice:
			if len(group.Units) != 1 {
				return nil, fmt.Errorf("%w: device-partitioned group %q has %d units; shared dependencies require host partitioning",
					types.ErrInvalidProposal, group.Units[0].GroupKey(), len(group.Units))
			}
			if err := devicePartition(group.Units[0], sortedDevices, topo.LocalSize); err != nil {
				return nil, err
			}
		default:
			return nil, fmt.Errorf("%w: unit %q has unrecognized strategy %q",
				types.ErrInvalidProposal, group.Units[0].Name, strategy)
		}

		g.logger.Debug("placed unit group",
			"units", group.Names(),
			"strategy", string(strategy),
			"capacity_sum", group.CapacitySum.String(),
		)
	}

	g.topology = topo

	return proposal, nil
}

// LastTopology returns the consumed topology of the most recent successful
// Partition call: the private copy with the final per-device free capacity and
// accumulated cost. It returns nil before the first success.
func (g *Greedy) LastTopology() *types.Topology {
	return g.topology
}

// groupStrategy returns the group's common placement strategy, or a structural
// fault if the group mixes strategies. Mixed groups are impossible for valid
// proposals since grouping keys partition the units.
func groupStrategy(group *types.UnitGroup) (types.PartitionBy, error) {
	strategy := group.Units[0].PartitionBy
	for _, unit := range group.Units[1:] {
		if unit.PartitionBy != strategy {
			return "", fmt.Errorf("%w: group %q mixes strategies %q and %q",
				types.ErrInvalidProposal, group.Units[0].GroupKey(), strategy, unit.PartitionBy)
		}
	}

	return strategy, nil
}
