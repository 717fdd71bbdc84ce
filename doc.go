// Package shardplan places divisible workload units onto a fixed topology of
// heterogeneous compute devices, subject to per-device capacity constraints,
// minimizing an estimated cost and, secondarily, memory pressure.
//
// # Quick Start
//
// Basic usage with default settings:
//
//	import (
//	    "github.com/arloliu/shardplan"
//	    "github.com/arloliu/shardplan/types"
//	)
//
//	topo, _ := types.NewUniformTopology(8, 4, types.Capacity{HBM: 32 << 30, DDR: 128 << 30})
//
//	planner, _ := shardplan.New()
//	plan, err := planner.Plan(proposal, topo)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// # Architecture
//
// The greedy partitioner (package partition) performs one placement pass:
// uniform units first, then dependency groups in descending capacity order,
// dispatched to a co-host packer or a greedy device-level packer. The Planner
// wraps the partitioner in a binary search over the per-device HBM cap,
// looking for the lowest cap whose placement cost stays within a configurable
// tolerance of the unconstrained baseline.
//
// # Key Properties
//
//   - A failed Plan never mutates the caller's topology
//   - The returned placement is always feasible (the baseline is the fallback)
//   - The returned placement's cost never exceeds baseline * (1 + tolerance)
//   - Deterministic: identical inputs produce identical placements
//
// # Advanced Usage
//
// Custom cost model and observability:
//
//	planner, err := shardplan.New(
//	    shardplan.WithTolerance(0.05),
//	    shardplan.WithCostModel(myModel),
//	    shardplan.WithLogger(logger),
//	)
//
// An optional NATS-based planning service lives in package service.
package shardplan
