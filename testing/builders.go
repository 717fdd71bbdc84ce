package testing

import (
	"testing"

	"github.com/arloliu/shardplan/types"
)

// Topology builds a uniform topology or fails the test.
//
// Parameters:
//   - t: Testing context
//   - worldSize: Total device count
//   - localSize: Devices per host
//   - perDevice: Capacity of every device
//
// Returns:
//   - *types.Topology: The topology
func Topology(t *testing.T, worldSize, localSize int, perDevice types.Capacity) *types.Topology {
	t.Helper()

	topo, err := types.NewUniformTopology(worldSize, localSize, perDevice)
	if err != nil {
		t.Fatalf("Failed to build topology: %v", err)
	}

	return topo
}

// Unit builds a unit with identical shards.
//
// Parameters:
//   - name: Unit name
//   - partitionBy: Placement strategy
//   - shards: Shard count
//   - capacity: Footprint of every shard
//   - cost: Cost of every shard
//
// Returns:
//   - *types.Unit: The unit, with all shard ranks unassigned
func Unit(name string, partitionBy types.PartitionBy, shards int, capacity types.Capacity, cost float64) *types.Unit {
	unit := &types.Unit{Name: name, PartitionBy: partitionBy}
	for range shards {
		unit.Shards = append(unit.Shards, &types.Shard{
			Capacity: capacity,
			Cost:     cost,
			Rank:     types.RankUnassigned,
		})
	}

	return unit
}
