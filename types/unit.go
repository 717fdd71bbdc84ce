package types

// RankUnassigned is the sentinel rank of a shard that has not been placed yet.
const RankUnassigned = -1

// PartitionBy selects the placement strategy of a unit.
type PartitionBy string

const (
	// PartitionByUniform places exactly one shard per device, in topology order.
	PartitionByUniform PartitionBy = "uniform"

	// PartitionByDevice places each shard independently on the least-loaded
	// device with sufficient free capacity.
	PartitionByDevice PartitionBy = "device"

	// PartitionByHost places all units sharing a dependency key together on a
	// single host.
	PartitionByHost PartitionBy = "host"
)

// HostLayout selects how a host-partitioned unit is laid out within the
// chosen host. It is ignored for other strategies.
type HostLayout string

const (
	// HostLayoutUniform lays out one shard per host device, in order.
	HostLayoutUniform HostLayout = "uniform"

	// HostLayoutGreedy packs shards greedily onto the host's devices.
	HostLayoutGreedy HostLayout = "greedy"
)

// Shard is one piece of a unit with its own capacity footprint and cost
// contribution. Rank is filled in by the packers; everything else is
// populated upstream and treated as immutable.
type Shard struct {
	// Capacity is the resource footprint the shard requires.
	Capacity Capacity `json:"capacity"`

	// Cost is the estimated cost contribution of the shard.
	Cost float64 `json:"cost"`

	// Rank is the assigned device rank, or RankUnassigned.
	Rank int `json:"rank"`
}

// Unit is a divisible workload whose shards must be assigned to devices.
//
// Units are immutable during planning except for their shards' Rank fields,
// which the packers fill in.
type Unit struct {
	// Name identifies the unit within a proposal.
	Name string `json:"name"`

	// Dependency is an optional co-location group key. Units sharing a
	// dependency must land on the same host. Empty means the unit forms its
	// own singleton group.
	Dependency string `json:"dependency,omitempty"`

	// PartitionBy is the unit's placement strategy.
	PartitionBy PartitionBy `json:"partitionBy"`

	// HostLayout selects the within-host layout for host-partitioned units.
	HostLayout HostLayout `json:"hostLayout,omitempty"`

	// Shards holds the unit's shards in placement order.
	Shards []*Shard `json:"shards"`
}

// TotalCapacity returns the sum of the unit's shard footprints.
func (u *Unit) TotalCapacity() Capacity {
	var total Capacity
	for _, shard := range u.Shards {
		total = total.Add(shard.Capacity)
	}

	return total
}

// GroupKey returns the co-location grouping key: the dependency if set,
// otherwise the unit's own name.
func (u *Unit) GroupKey() string {
	if u.Dependency != "" {
		return u.Dependency
	}

	return u.Name
}

// UnitGroup is an ephemeral grouping of units sharing a dependency key,
// together with the precomputed sum of their capacity requirements. It exists
// only for the duration of one partition pass.
type UnitGroup struct {
	// Units holds the group members in proposal order.
	Units []*Unit

	// CapacitySum is the aggregate footprint of all member units, used as the
	// sort and host-trial key.
	CapacitySum Capacity
}

// Names returns the member unit names, for diagnostics.
func (g *UnitGroup) Names() []string {
	names := make([]string, len(g.Units))
	for i, unit := range g.Units {
		names[i] = unit.Name
	}

	return names
}

// ResetRanks resets every shard of every unit to RankUnassigned.
//
// Callers that retry placement with the same proposal (as the memory-balanced
// planner does) must reset ranks between attempts, since a failed attempt may
// leave ranks from the partial pass behind.
func ResetRanks(units []*Unit) {
	for _, unit := range units {
		for _, shard := range unit.Shards {
			shard.Rank = RankUnassigned
		}
	}
}
