// Package fingerprint computes stable identifiers for plan requests.
//
// The fingerprint covers everything that influences the resulting placement:
// the topology shape and per-device capacity, and every unit's identity,
// strategy, and shard footprints. Assigned ranks and accumulated costs of a
// previous pass are deliberately excluded, so a proposal fingerprints the same
// before and after planning.
package fingerprint

import (
	"encoding/binary"
	"math"

	"github.com/zeebo/xxh3"

	"github.com/arloliu/shardplan/types"
)

// Sum returns a 64-bit fingerprint of the (topology, proposal) pair.
//
// Parameters:
//   - topology: Constraint topology
//   - proposal: Units to place
//
// Returns:
//   - uint64: Stable fingerprint; equal inputs always produce equal sums
func Sum(topology *types.Topology, proposal []*types.Unit) uint64 {
	var h xxh3.Hasher

	writeInt(&h, int64(topology.LocalSize))
	writeInt(&h, int64(topology.WorldSize()))
	for _, device := range topology.Devices {
		writeInt(&h, int64(device.Rank))
		writeInt(&h, device.Free.HBM)
		writeInt(&h, device.Free.DDR)
	}

	writeInt(&h, int64(len(proposal)))
	for _, unit := range proposal {
		writeString(&h, unit.Name)
		writeString(&h, unit.Dependency)
		writeString(&h, string(unit.PartitionBy))
		writeString(&h, string(unit.HostLayout))
		writeInt(&h, int64(len(unit.Shards)))
		for _, shard := range unit.Shards {
			writeInt(&h, shard.Capacity.HBM)
			writeInt(&h, shard.Capacity.DDR)
			writeInt(&h, int64(math.Float64bits(shard.Cost)))
		}
	}

	return h.Sum64()
}

func writeInt(h *xxh3.Hasher, v int64) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(v))
	_, _ = h.Write(buf[:])
}

func writeString(h *xxh3.Hasher, s string) {
	writeInt(h, int64(len(s)))
	_, _ = h.WriteString(s)
}
