package partition

import (
	"sort"

	"github.com/arloliu/shardplan/types"
)

// devicePartition places each shard of the unit, in shard order, on the
// least-loaded device that admits it: devices are re-sorted before every shard
// by (accumulated cost ascending, local rank ascending) and scanned first-fit.
//
// The local rank tie-break spreads equal-cost shards across host-local
// positions instead of concentrating host-scoped pressure (such as host
// memory) on rank-0-like positions.
//
// The algorithm is strictly greedy: it never reconsiders earlier shards of the
// same unit. It re-orders the devices slice in place, so callers must pass a
// slice whose order they do not rely on.
func devicePartition(unit *types.Unit, devices []*types.Device, localSize int) error {
	for i, shard := range unit.Shards {
		sort.SliceStable(devices, func(a, b int) bool {
			if devices[a].Cost != devices[b].Cost {
				return devices[a].Cost < devices[b].Cost
			}

			return devices[a].LocalRank(localSize) < devices[b].LocalRank(localSize)
		})

		placed := false
		for _, device := range devices {
			if !shard.Capacity.FitsIn(device.Free) {
				continue
			}

			shard.Rank = device.Rank
			device.Free = device.Free.Sub(shard.Capacity)
			device.Cost += shard.Cost
			placed = true

			break
		}

		if !placed {
			return &types.CapacityError{
				Unit:     unit.Name,
				Shard:    i,
				Required: shard.Capacity,
				Largest:  largestFree(devices),
				Device:   types.RankUnassigned,
			}
		}
	}

	return nil
}

// largestFree returns the largest remaining capacity among the devices, as a
// diagnostic aid for capacity errors.
func largestFree(devices []*types.Device) types.Capacity {
	var largest types.Capacity
	for i, device := range devices {
		if i == 0 || device.Free.Cmp(largest) > 0 {
			largest = device.Free
		}
	}

	return largest
}
