package types

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for the shardplan library.
//
// These errors provide type-safe error checking using errors.Is() and
// errors.As(). Packers return structured error values (CapacityError,
// InfeasibleError) that unwrap to these sentinels; everything else should wrap
// with context using fmt.Errorf("...: %w", err).
var (
	// ErrCapacityExhausted is returned when a specific shard cannot be placed
	// on any eligible device.
	ErrCapacityExhausted = errors.New("device capacity exhausted")

	// ErrPlacementInfeasible is returned when no host can admit a co-location
	// group as a whole.
	ErrPlacementInfeasible = errors.New("placement infeasible")

	// ErrInvalidProposal is returned for structural faults in the proposal:
	// shard count mismatches for uniform placement, mixed or unknown
	// placement strategies within a group. These indicate a contract
	// violation by the proposal generator and are never retried.
	ErrInvalidProposal = errors.New("invalid proposal")

	// ErrInvalidTopology is returned when a topology's shape is inconsistent
	// (world size not a multiple of local size, out-of-order ranks).
	ErrInvalidTopology = errors.New("invalid topology")
)

// IsPlacementFailure reports whether err is an expected placement failure:
// capacity exhaustion or group infeasibility. The memory-balanced planner
// treats these as a normal "tighten the search bound" outcome; all other
// errors abort the search.
func IsPlacementFailure(err error) bool {
	return errors.Is(err, ErrCapacityExhausted) || errors.Is(err, ErrPlacementInfeasible)
}

// CapacityError reports that a shard could not be placed anywhere.
//
// It unwraps to ErrCapacityExhausted and carries diagnostic capacity figures:
// the shard's requirement and the largest remaining capacity among the
// candidate devices (so callers can see how far off the fit was).
type CapacityError struct {
	// Unit is the name of the unit the shard belongs to.
	Unit string

	// Shard is the index of the shard within the unit.
	Shard int

	// Required is the shard's capacity footprint.
	Required Capacity

	// Largest is the largest remaining capacity among the candidate devices.
	Largest Capacity

	// Device is the rank of the offending device for positional placements,
	// or RankUnassigned when any device was eligible.
	Device int
}

func (e *CapacityError) Error() string {
	if e.Device != RankUnassigned {
		return fmt.Sprintf("shard %d of unit %q (requires %s) does not fit on device %d (cap %s)",
			e.Shard, e.Unit, e.Required, e.Device, e.Largest)
	}

	return fmt.Sprintf("no device admits shard %d of unit %q (requires %s, largest free %s)",
		e.Shard, e.Unit, e.Required, e.Largest)
}

func (e *CapacityError) Unwrap() error {
	return ErrCapacityExhausted
}

// InfeasibleError reports that no host could admit a co-location group.
//
// It unwraps to ErrPlacementInfeasible.
type InfeasibleError struct {
	// Units are the names of the group members.
	Units []string

	// Required is the group's aggregate capacity requirement.
	Required Capacity

	// Hosts is the number of hosts that were trialed.
	Hosts int
}

func (e *InfeasibleError) Error() string {
	return fmt.Sprintf("no host among %d admits co-location group [%s] (requires %s)",
		e.Hosts, strings.Join(e.Units, ", "), e.Required)
}

func (e *InfeasibleError) Unwrap() error {
	return ErrPlacementInfeasible
}
