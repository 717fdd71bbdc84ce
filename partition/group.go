package partition

import (
	"sort"

	"github.com/arloliu/shardplan/types"
)

// uniformUnits returns the subsequence of uniform-partitioned units in
// proposal order.
func uniformUnits(proposal []*types.Unit) []*types.Unit {
	var units []*types.Unit
	for _, unit := range proposal {
		if unit.PartitionBy == types.PartitionByUniform {
			units = append(units, unit)
		}
	}

	return units
}

// groupNonUniform groups every non-uniform unit by its dependency key (the
// unit's own name when no dependency is set) and returns the groups sorted by
// descending aggregate capacity. The sort is stable, so groups with equal
// capacity keep their proposal insertion order.
//
// Packing the largest groups first, while the topology has the most free
// capacity, reduces late-stage placement failures.
func groupNonUniform(proposal []*types.Unit) []*types.UnitGroup {
	byKey := make(map[string]*types.UnitGroup)

	var groups []*types.UnitGroup
	for _, unit := range proposal {
		if unit.PartitionBy == types.PartitionByUniform {
			continue
		}

		key := unit.GroupKey()
		group, ok := byKey[key]
		if !ok {
			group = &types.UnitGroup{}
			byKey[key] = group
			groups = append(groups, group)
		}
		group.Units = append(group.Units, unit)
		group.CapacitySum = group.CapacitySum.Add(unit.TotalCapacity())
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].CapacitySum.Cmp(groups[j].CapacitySum) > 0
	})

	return groups
}
