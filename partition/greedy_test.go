package partition

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/shardplan/types"
)

func topo2x10(t *testing.T) *types.Topology {
	t.Helper()

	topo, err := types.NewUniformTopology(2, 1, types.Capacity{HBM: 10, DDR: 1 << 40})
	require.NoError(t, err)

	return topo
}

func TestGreedy_Partition(t *testing.T) {
	t.Run("uniform units then a device unit accumulate cost together", func(t *testing.T) {
		topo := topo2x10(t)

		first := unitWithShards("uniform_small", types.PartitionByUniform, "", []int64{1, 1})
		second := unitWithShards("uniform_big", types.PartitionByUniform, "", []int64{2, 2})
		second.Shards[0].Cost = 2
		second.Shards[1].Cost = 2
		third := unitWithShards("per_device", types.PartitionByDevice, "", []int64{3, 3})
		third.Shards[0].Cost = 3
		third.Shards[1].Cost = 3

		greedy := NewGreedy()
		proposal := []*types.Unit{first, second, third}
		placed, err := greedy.Partition(proposal, topo)

		require.NoError(t, err)
		require.Same(t, proposal[0], placed[0])
		require.Equal(t, []int{0, 1}, shardRanks(first))
		require.Equal(t, []int{0, 1}, shardRanks(second))
		// Equal device costs after the uniform passes; the device unit's
		// shards alternate across the two devices.
		require.ElementsMatch(t, []int{0, 1}, shardRanks(third))

		final := greedy.LastTopology()
		require.NotNil(t, final)
		require.Equal(t, 6.0, final.Devices[0].Cost)
		require.Equal(t, 6.0, final.Devices[1].Cost)
		requireConservation(t, topo, final, proposal)
	})

	t.Run("never mutates the caller's topology", func(t *testing.T) {
		topo := topo2x10(t)
		unit := unitWithShards("u", types.PartitionByDevice, "", []int64{4})

		_, err := NewGreedy().Partition([]*types.Unit{unit}, topo)

		require.NoError(t, err)
		require.Equal(t, int64(10), topo.Devices[0].Free.HBM)
		require.Zero(t, topo.Devices[0].Cost)
	})

	t.Run("leaves the caller's topology untouched on failure", func(t *testing.T) {
		topo := topo2x10(t)
		unit := unitWithShards("oversized", types.PartitionByDevice, "", []int64{11})

		_, err := NewGreedy().Partition([]*types.Unit{unit}, topo)

		var capErr *types.CapacityError
		require.ErrorAs(t, err, &capErr)
		require.Equal(t, "oversized", capErr.Unit)
		for _, device := range topo.Devices {
			require.Equal(t, int64(10), device.Free.HBM)
			require.Zero(t, device.Cost)
		}
	})

	t.Run("dependency-linked host units land on one host", func(t *testing.T) {
		topo, err := types.NewUniformTopology(4, 2, types.Capacity{HBM: 10, DDR: 1 << 40})
		require.NoError(t, err)

		first := unitWithShards("a", types.PartitionByHost, "tower", []int64{2, 2})
		first.HostLayout = types.HostLayoutUniform
		second := unitWithShards("b", types.PartitionByHost, "tower", []int64{3})
		second.HostLayout = types.HostLayoutGreedy

		_, err = NewGreedy().Partition([]*types.Unit{first, second}, topo)

		require.NoError(t, err)
		host := first.Shards[0].Rank / 2
		for _, shard := range append(first.Shards, second.Shards...) {
			require.Equal(t, host, shard.Rank/2, "shard escaped the host block")
		}
	})

	t.Run("largest group is packed first", func(t *testing.T) {
		topo := topo2x10(t)

		small := unitWithShards("small", types.PartitionByDevice, "", []int64{2})
		big := unitWithShards("big", types.PartitionByDevice, "", []int64{9})

		// Proposal order is small-first, but the big singleton group packs
		// first onto the (then empty) device 0.
		_, err := NewGreedy().Partition([]*types.Unit{small, big}, topo)

		require.NoError(t, err)
		require.Equal(t, []int{0}, shardRanks(big))
		require.Equal(t, []int{1}, shardRanks(small))
	})

	t.Run("rejects a multi-unit device-partitioned group", func(t *testing.T) {
		topo := topo2x10(t)

		first := unitWithShards("a", types.PartitionByDevice, "shared", []int64{1})
		second := unitWithShards("b", types.PartitionByDevice, "shared", []int64{1})

		_, err := NewGreedy().Partition([]*types.Unit{first, second}, topo)

		require.ErrorIs(t, err, types.ErrInvalidProposal)
	})

	t.Run("rejects a group mixing strategies", func(t *testing.T) {
		topo := topo2x10(t)

		first := unitWithShards("a", types.PartitionByDevice, "shared", []int64{1})
		second := unitWithShards("b", types.PartitionByHost, "shared", []int64{1})
		second.HostLayout = types.HostLayoutGreedy

		_, err := NewGreedy().Partition([]*types.Unit{first, second}, topo)

		require.ErrorIs(t, err, types.ErrInvalidProposal)
	})

	t.Run("rejects an unrecognized strategy", func(t *testing.T) {
		topo := topo2x10(t)
		unit := unitWithShards("a", "mystery", "", []int64{1})

		_, err := NewGreedy().Partition([]*types.Unit{unit}, topo)

		require.ErrorIs(t, err, types.ErrInvalidProposal)
	})

	t.Run("rejects an inconsistent topology shape", func(t *testing.T) {
		topo := &types.Topology{
			Devices:   devicesWithHBM(10, 10, 10),
			LocalSize: 2,
		}
		unit := unitWithShards("a", types.PartitionByDevice, "", []int64{1})

		_, err := NewGreedy().Partition([]*types.Unit{unit}, topo)

		require.ErrorIs(t, err, types.ErrInvalidTopology)
	})

	t.Run("capacity and cost conservation over a mixed proposal", func(t *testing.T) {
		topo, err := types.NewUniformTopology(4, 2, types.Capacity{HBM: 20, DDR: 1 << 40})
		require.NoError(t, err)

		uniform := unitWithShards("u", types.PartitionByUniform, "", []int64{2, 2, 2, 2})
		hosted := unitWithShards("h", types.PartitionByHost, "tower", []int64{4, 4})
		hosted.HostLayout = types.HostLayoutUniform
		scattered := unitWithShards("d", types.PartitionByDevice, "", []int64{3, 3, 3})

		greedy := NewGreedy()
		proposal := []*types.Unit{uniform, hosted, scattered}
		_, err = greedy.Partition(proposal, topo)

		require.NoError(t, err)
		requireConservation(t, topo, greedy.LastTopology(), proposal)
	})
}
