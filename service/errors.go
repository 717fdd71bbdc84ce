package service

import "errors"

// Sentinel errors returned by the Server.
var (
	// ErrInvalidConfig is returned when the configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrNATSConnectionRequired is returned when NATS connection is nil.
	ErrNATSConnectionRequired = errors.New("NATS connection is required")

	// ErrPlannerRequired is returned when the planner is nil.
	ErrPlannerRequired = errors.New("planner is required")

	// ErrAlreadyStarted is returned when Start is called on a running server.
	ErrAlreadyStarted = errors.New("server already started")

	// ErrNotStarted is returned when Stop is called on a server that hasn't been started.
	ErrNotStarted = errors.New("server not started")

	// ErrPlanNotFound is returned when no stored plan exists for a fingerprint.
	ErrPlanNotFound = errors.New("plan not found")
)
