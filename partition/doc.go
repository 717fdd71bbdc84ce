// Package partition implements the greedy placement partitioner.
//
// The partitioner places a proposal (an ordered list of units, each a list of
// shards with capacity footprints and cost contributions) onto a device
// topology:
//
//  1. Uniform units are placed first, one shard per device in topology order.
//  2. The remaining units are grouped by dependency key and the groups are
//     sorted by descending aggregate capacity, so the largest co-location
//     groups are packed while the topology still has the most free capacity.
//  3. Each group is dispatched to the co-host packer (host-partitioned) or the
//     greedy device-level packer (device-partitioned).
//
// All placement happens on a private copy of the constraint topology; a failed
// call never mutates the caller's topology. Shard ranks on the proposal may be
// partially written by a failed call and must be reset (types.ResetRanks)
// before the proposal is reused.
package partition
