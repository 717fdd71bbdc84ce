package types

import "fmt"

// Capacity describes a two-pool resource vector: device-local memory (HBM)
// and host memory (DDR). It is used both for the remaining capacity of a
// device and for the footprint a shard requires.
//
// Capacity has value semantics; arithmetic methods return new values and never
// mutate the receiver.
type Capacity struct {
	// HBM is the device-local memory pool in bytes.
	HBM int64 `json:"hbm"`

	// DDR is the host memory pool in bytes.
	DDR int64 `json:"ddr"`
}

// Add returns the componentwise sum of c and other.
func (c Capacity) Add(other Capacity) Capacity {
	return Capacity{HBM: c.HBM + other.HBM, DDR: c.DDR + other.DDR}
}

// Sub returns the componentwise difference of c and other.
//
// The result may be negative; callers that must not overbook should check
// FitsIn before subtracting.
func (c Capacity) Sub(other Capacity) Capacity {
	return Capacity{HBM: c.HBM - other.HBM, DDR: c.DDR - other.DDR}
}

// FitsIn reports whether c fits within other, componentwise.
//
// Returns:
//   - bool: true if c.HBM <= other.HBM and c.DDR <= other.DDR
func (c Capacity) FitsIn(other Capacity) bool {
	return c.HBM <= other.HBM && c.DDR <= other.DDR
}

// IsNonNegative reports whether both pools are >= 0.
func (c Capacity) IsNonNegative() bool {
	return c.HBM >= 0 && c.DDR >= 0
}

// Cmp compares two capacities for ordering purposes, HBM first and DDR as the
// tie-break. HBM dominates because it is the scarce pool the planner balances.
//
// Returns:
//   - int: -1 if c < other, 0 if equal, +1 if c > other
func (c Capacity) Cmp(other Capacity) int {
	switch {
	case c.HBM < other.HBM:
		return -1
	case c.HBM > other.HBM:
		return 1
	case c.DDR < other.DDR:
		return -1
	case c.DDR > other.DDR:
		return 1
	default:
		return 0
	}
}

// String renders the capacity in a compact human-readable form.
func (c Capacity) String() string {
	return fmt.Sprintf("Capacity(hbm=%d, ddr=%d)", c.HBM, c.DDR)
}
