package partition

import (
	"fmt"

	"github.com/arloliu/shardplan/types"
)

// uniformPartition places one shard per device, in device list order, for
// every unit. Each unit must have exactly one shard per device; a mismatch is
// a contract violation by the proposal generator, not a placement failure.
//
// Capacity and cost bookkeeping is applied to the devices as shards are
// assigned. There is no rollback on failure; callers that retry are expected
// to work on throwaway device copies.
func uniformPartition(units []*types.Unit, devices []*types.Device) error {
	for _, unit := range units {
		if len(unit.Shards) != len(devices) {
			return fmt.Errorf("%w: uniform unit %q has %d shards for %d devices",
				types.ErrInvalidProposal, unit.Name, len(unit.Shards), len(devices))
		}

		for i, device := range devices {
			shard := unit.Shards[i]
			if !shard.Capacity.FitsIn(device.Free) {
				return &types.CapacityError{
					Unit:     unit.Name,
					Shard:    i,
					Required: shard.Capacity,
					Largest:  device.Free,
					Device:   device.Rank,
				}
			}

			shard.Rank = device.Rank
			device.Free = device.Free.Sub(shard.Capacity)
			device.Cost += shard.Cost
		}
	}

	return nil
}
