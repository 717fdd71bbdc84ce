package types

// Partitioner places a proposal onto a topology.
//
// Implementations must:
//   - Operate on a private copy of the constraint topology so a failed call
//     never mutates the caller's topology
//   - Fill in the Rank field of every shard on success
//   - Be deterministic (same input state, same output)
//   - Fail fast with an error from the placement taxonomy
//     (ErrCapacityExhausted, ErrPlacementInfeasible, ErrInvalidProposal)
type Partitioner interface {
	// Partition assigns every shard of every unit in the proposal to a device
	// rank, subject to the capacity constraint described by the topology.
	//
	// Parameters:
	//   - proposal: Units to place, in priority order
	//   - constraint: Device topology with per-device capacity caps
	//
	// Returns:
	//   - []*Unit: The same unit collection with all shard ranks assigned
	//   - error: A placement or structural error; the proposal's shard ranks
	//     may be partially written on failure and must be reset before reuse
	Partition(proposal []*Unit, constraint *Topology) ([]*Unit, error)
}

// CostModel scores a fully placed proposal with a scalar cost. The planner
// treats Rate as a pure, side-effect-free function.
type CostModel interface {
	// Rate returns the estimated cost of the placement described by the
	// units' assigned ranks on the given topology.
	Rate(units []*Unit, topology *Topology) float64
}
