package partition

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/shardplan/types"
)

func TestUniformUnits(t *testing.T) {
	t.Run("filters uniform units in proposal order", func(t *testing.T) {
		proposal := []*types.Unit{
			{Name: "a", PartitionBy: types.PartitionByUniform},
			{Name: "b", PartitionBy: types.PartitionByDevice},
			{Name: "c", PartitionBy: types.PartitionByUniform},
		}

		units := uniformUnits(proposal)

		require.Len(t, units, 2)
		require.Equal(t, "a", units[0].Name)
		require.Equal(t, "c", units[1].Name)
	})

	t.Run("returns nothing for an all-device proposal", func(t *testing.T) {
		proposal := []*types.Unit{{Name: "a", PartitionBy: types.PartitionByDevice}}

		require.Empty(t, uniformUnits(proposal))
	})
}

func TestGroupNonUniform(t *testing.T) {
	t.Run("groups units sharing a dependency", func(t *testing.T) {
		proposal := []*types.Unit{
			unitWithShards("a", types.PartitionByHost, "tower", []int64{2}),
			unitWithShards("b", types.PartitionByDevice, "", []int64{1}),
			unitWithShards("c", types.PartitionByHost, "tower", []int64{3}),
		}

		groups := groupNonUniform(proposal)

		require.Len(t, groups, 2)
		// tower group (hbm 5) sorts before b (hbm 1)
		require.Equal(t, []string{"a", "c"}, groups[0].Names())
		require.Equal(t, int64(5), groups[0].CapacitySum.HBM)
		require.Equal(t, []string{"b"}, groups[1].Names())
	})

	t.Run("skips uniform units", func(t *testing.T) {
		proposal := []*types.Unit{
			unitWithShards("u", types.PartitionByUniform, "", []int64{100}),
			unitWithShards("d", types.PartitionByDevice, "", []int64{1}),
		}

		groups := groupNonUniform(proposal)

		require.Len(t, groups, 1)
		require.Equal(t, []string{"d"}, groups[0].Names())
	})

	t.Run("sorts by descending capacity with stable ties", func(t *testing.T) {
		proposal := []*types.Unit{
			unitWithShards("small", types.PartitionByDevice, "", []int64{1}),
			unitWithShards("tie1", types.PartitionByDevice, "", []int64{4}),
			unitWithShards("tie2", types.PartitionByDevice, "", []int64{4}),
			unitWithShards("big", types.PartitionByDevice, "", []int64{9}),
		}

		groups := groupNonUniform(proposal)

		require.Equal(t, []string{"big"}, groups[0].Names())
		require.Equal(t, []string{"tie1"}, groups[1].Names())
		require.Equal(t, []string{"tie2"}, groups[2].Names())
		require.Equal(t, []string{"small"}, groups[3].Names())
	})

	t.Run("a unit without dependency forms its own singleton group", func(t *testing.T) {
		proposal := []*types.Unit{
			unitWithShards("a", types.PartitionByDevice, "", []int64{1}),
			unitWithShards("b", types.PartitionByDevice, "", []int64{1}),
		}

		groups := groupNonUniform(proposal)

		require.Len(t, groups, 2)
	})
}
