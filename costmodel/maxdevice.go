// Package costmodel provides cost models for scoring placements.
package costmodel

import "github.com/arloliu/shardplan/types"

// MaxDevice rates a placement by the largest per-device accumulated cost.
//
// Devices work in lockstep, so the most loaded device is the critical path;
// minimizing the maximum is the natural latency proxy. Rate is pure: it never
// mutates the units or the topology.
type MaxDevice struct{}

// Compile-time assertion that MaxDevice implements CostModel.
var _ types.CostModel = (*MaxDevice)(nil)

// NewMaxDevice creates the default cost model.
//
// Returns:
//   - *MaxDevice: A new cost model instance
func NewMaxDevice() *MaxDevice {
	return &MaxDevice{}
}

// Rate returns the maximum summed shard cost over all device ranks.
//
// Shards with unassigned ranks contribute nothing; a fully unplaced proposal
// rates 0.
//
// Parameters:
//   - units: Placed units (shard ranks filled in)
//   - topology: The topology the placement targets
//
// Returns:
//   - float64: Cost of the most loaded device
func (m *MaxDevice) Rate(units []*types.Unit, topology *types.Topology) float64 {
	perDevice := make([]float64, topology.WorldSize())
	for _, unit := range units {
		for _, shard := range unit.Shards {
			if shard.Rank == types.RankUnassigned || shard.Rank >= len(perDevice) {
				continue
			}
			perDevice[shard.Rank] += shard.Cost
		}
	}

	var most float64
	for _, cost := range perDevice {
		if cost > most {
			most = cost
		}
	}

	return most
}
