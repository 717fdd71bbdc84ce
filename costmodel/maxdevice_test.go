package costmodel

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/shardplan/types"
)

func TestMaxDevice_Rate(t *testing.T) {
	topo, err := types.NewUniformTopology(2, 1, types.Capacity{HBM: 10})
	require.NoError(t, err)

	model := NewMaxDevice()

	t.Run("returns the most loaded device's summed cost", func(t *testing.T) {
		units := []*types.Unit{
			{Name: "a", Shards: []*types.Shard{
				{Cost: 1, Rank: 0},
				{Cost: 2, Rank: 1},
			}},
			{Name: "b", Shards: []*types.Shard{
				{Cost: 3, Rank: 1},
			}},
		}

		require.InDelta(t, 5.0, model.Rate(units, topo), 1e-9)
	})

	t.Run("ignores unassigned shards", func(t *testing.T) {
		units := []*types.Unit{
			{Name: "a", Shards: []*types.Shard{
				{Cost: 4, Rank: types.RankUnassigned},
				{Cost: 1, Rank: 0},
			}},
		}

		require.InDelta(t, 1.0, model.Rate(units, topo), 1e-9)
	})

	t.Run("rates an unplaced proposal as zero", func(t *testing.T) {
		units := []*types.Unit{
			{Name: "a", Shards: []*types.Shard{{Cost: 4, Rank: types.RankUnassigned}}},
		}

		require.Zero(t, model.Rate(units, topo))
	})
}
