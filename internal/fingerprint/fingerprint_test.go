package fingerprint

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/shardplan/types"
)

func request(hbm int64) (*types.Topology, []*types.Unit) {
	topo, _ := types.NewUniformTopology(2, 1, types.Capacity{HBM: hbm})
	units := []*types.Unit{
		{
			Name:        "table_a",
			PartitionBy: types.PartitionByDevice,
			Shards: []*types.Shard{
				{Capacity: types.Capacity{HBM: 1}, Cost: 2, Rank: types.RankUnassigned},
			},
		},
	}

	return topo, units
}

func TestSum(t *testing.T) {
	t.Run("is stable for identical inputs", func(t *testing.T) {
		topoA, unitsA := request(10)
		topoB, unitsB := request(10)

		require.Equal(t, Sum(topoA, unitsA), Sum(topoB, unitsB))
	})

	t.Run("changes when the topology changes", func(t *testing.T) {
		topoA, units := request(10)
		topoB, _ := request(11)

		require.NotEqual(t, Sum(topoA, units), Sum(topoB, units))
	})

	t.Run("changes when a unit changes", func(t *testing.T) {
		topo, unitsA := request(10)
		_, unitsB := request(10)
		unitsB[0].Dependency = "tower"

		require.NotEqual(t, Sum(topo, unitsA), Sum(topo, unitsB))
	})

	t.Run("ignores assigned ranks", func(t *testing.T) {
		topo, unitsA := request(10)
		_, unitsB := request(10)
		unitsB[0].Shards[0].Rank = 1

		require.Equal(t, Sum(topo, unitsA), Sum(topo, unitsB))
	})

	t.Run("distinguishes shard boundaries from name boundaries", func(t *testing.T) {
		topo, unitsA := request(10)
		_, unitsB := request(10)
		unitsA[0].Name = "ab"
		unitsA[0].Dependency = "c"
		unitsB[0].Name = "a"
		unitsB[0].Dependency = "bc"

		require.NotEqual(t, Sum(topo, unitsA), Sum(topo, unitsB))
	})
}
