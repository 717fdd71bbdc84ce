package partition

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/shardplan/types"
)

// unitWithShards builds a unit with one shard per HBM footprint and a cost of
// 1 per shard.
func unitWithShards(name string, partitionBy types.PartitionBy, dependency string, hbm []int64) *types.Unit {
	unit := &types.Unit{Name: name, PartitionBy: partitionBy, Dependency: dependency}
	for _, h := range hbm {
		unit.Shards = append(unit.Shards, &types.Shard{
			Capacity: types.Capacity{HBM: h},
			Cost:     1,
			Rank:     types.RankUnassigned,
		})
	}

	return unit
}

// devicesWithHBM builds a rank-ordered device list with the given free HBM.
func devicesWithHBM(hbm ...int64) []*types.Device {
	devices := make([]*types.Device, len(hbm))
	for i, h := range hbm {
		devices[i] = &types.Device{Rank: i, Free: types.Capacity{HBM: h, DDR: 1 << 40}}
	}

	return devices
}

// shardRanks returns the assigned ranks of a unit's shards in shard order.
func shardRanks(unit *types.Unit) []int {
	ranks := make([]int, len(unit.Shards))
	for i, shard := range unit.Shards {
		ranks[i] = shard.Rank
	}

	return ranks
}

// requireConservation checks that, device by device, initial capacity minus
// the footprints of assigned shards equals the final capacity, and that the
// final cost equals the summed cost of assigned shards.
func requireConservation(t *testing.T, initial, final *types.Topology, proposal []*types.Unit) {
	t.Helper()

	spentCap := make([]types.Capacity, final.WorldSize())
	spentCost := make([]float64, final.WorldSize())
	for _, unit := range proposal {
		for _, shard := range unit.Shards {
			require.NotEqual(t, types.RankUnassigned, shard.Rank, "unit %q has an unassigned shard", unit.Name)
			spentCap[shard.Rank] = spentCap[shard.Rank].Add(shard.Capacity)
			spentCost[shard.Rank] += shard.Cost
		}
	}

	for i, device := range final.Devices {
		require.Equal(t, initial.Devices[i].Free.Sub(spentCap[i]), device.Free, "device %d capacity", i)
		require.InDelta(t, spentCost[i], device.Cost, 1e-9, "device %d cost", i)
		require.True(t, device.Free.IsNonNegative(), "device %d overbooked", i)
	}
}
