package shardplan

import "errors"

// Sentinel errors returned by the Planner.
var (
	// ErrInvalidConfig is returned when a planner option is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrEmptyProposal is returned when Plan is called with no units.
	ErrEmptyProposal = errors.New("empty proposal")

	// ErrTopologyRequired is returned when Plan is called with a nil topology.
	ErrTopologyRequired = errors.New("topology is required")
)
