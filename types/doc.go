// Package types defines the core value types and interfaces shared across the
// shardplan library.
//
// It contains the topology model (Device, Topology, Capacity), the proposal
// model (Unit, Shard, UnitGroup), the placement error taxonomy, and the
// pluggable collaborator interfaces (Partitioner, CostModel, Logger,
// MetricsCollector).
//
// The package is dependency-free so that both the public planner packages and
// internal packages can import it without cycles.
package types
