package partition

import (
	"fmt"
	"sort"

	"github.com/arloliu/shardplan/types"
)

// cohostPartition places a co-location group onto a single host.
//
// Hosts are trialed in ascending aggregate-cost order. For each candidate
// host the group is packed onto a throwaway copy of the host's devices; a
// placement failure abandons the host, a structural fault aborts the whole
// call. The first host that admits the entire group is committed by copying
// the trial devices' capacity/cost bookkeeping back onto the real devices.
//
// When a trial fails partway through, shard ranks already written by the
// sub-packers are reset before the next host is trialed, so a failed trial
// never leaks stale ranks into a later one.
func cohostPartition(group *types.UnitGroup, hostGroups [][]*types.Device) error {
	sorted := make([][]*types.Device, len(hostGroups))
	copy(sorted, hostGroups)
	sort.SliceStable(sorted, func(i, j int) bool {
		return hostCost(sorted[i]) < hostCost(sorted[j])
	})

	for _, host := range sorted {
		var hostFree types.Capacity
		for _, device := range host {
			hostFree = hostFree.Add(device.Free)
		}
		if !group.CapacitySum.FitsIn(hostFree) {
			continue
		}

		trial := make([]*types.Device, len(host))
		for i, device := range host {
			trial[i] = device.Clone()
		}

		if err := packOnHost(group, trial); err != nil {
			if types.IsPlacementFailure(err) {
				types.ResetRanks(group.Units)
				continue
			}

			return err
		}

		// Commit: the sub-packers may have re-ordered the trial slice, so
		// restore rank order before copying bookkeeping back positionally.
		sort.SliceStable(trial, func(i, j int) bool { return trial[i].Rank < trial[j].Rank })
		for i, device := range host {
			device.Free = trial[i].Free
			device.Cost = trial[i].Cost
		}

		return nil
	}

	return &types.InfeasibleError{
		Units:    group.Names(),
		Required: group.CapacitySum,
		Hosts:    len(hostGroups),
	}
}

// packOnHost dispatches each unit of the group onto the trial devices
// according to its within-host layout.
func packOnHost(group *types.UnitGroup, trial []*types.Device) error {
	for _, unit := range group.Units {
		switch unit.HostLayout {
		case types.HostLayoutUniform:
			if err := uniformPartition([]*types.Unit{unit}, trial); err != nil {
				return err
			}
		case types.HostLayoutGreedy:
			if err := devicePartition(unit, trial, len(trial)); err != nil {
				return err
			}
		default:
			return fmt.Errorf("%w: host-partitioned unit %q has unrecognized layout %q",
				types.ErrInvalidProposal, unit.Name, unit.HostLayout)
		}
	}

	return nil
}

// hostCost returns the summed accumulated cost of the host's devices.
func hostCost(host []*types.Device) float64 {
	var total float64
	for _, device := range host {
		total += device.Cost
	}

	return total
}
