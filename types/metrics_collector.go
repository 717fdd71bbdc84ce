package types

// MetricsCollector defines methods for recording operational metrics.
//
// Implementations should be non-blocking and handle failures gracefully.
// The planner calls these synchronously on the planning path, so they must be
// cheap; the service may call them from its subscription goroutine, so they
// must be thread-safe.
//
// This interface composes smaller, domain-focused interfaces for better modularity.
type MetricsCollector interface {
	PlannerMetrics
	ServiceMetrics
}

// PlannerMetrics defines metrics for planning and search operations.
type PlannerMetrics interface {
	// RecordPlanDuration records the time taken for one full Plan call.
	//
	// Parameters:
	//   - duration: Time taken in seconds
	//   - success: true if a placement was produced
	RecordPlanDuration(duration float64, success bool)

	// RecordSearchIteration records one binary-search probe of the
	// memory-balanced planner.
	//
	// Parameters:
	//   - outcome: Probe outcome ("accepted", "rejected", "infeasible")
	RecordSearchIteration(outcome string)

	// RecordCapacityCap sets the per-device HBM cap of the accepted plan
	// (gauge metric, bytes).
	RecordCapacityCap(capBytes int64)

	// RecordPlacementFailure records a failed partition attempt by error kind
	// ("capacity", "infeasible", "structural").
	RecordPlacementFailure(kind string)
}

// ServiceMetrics defines metrics for the NATS planning service.
type ServiceMetrics interface {
	// RecordRequest records a handled plan request.
	//
	// Parameters:
	//   - outcome: Request outcome ("ok", "error", "bad_request")
	//   - duration: Time taken in seconds
	RecordRequest(outcome string, duration float64)

	// RecordCacheLookup records a plan-cache lookup result.
	RecordCacheLookup(hit bool)

	// RecordKVOperationDuration records JetStream KV operation latency.
	//
	// Parameters:
	//   - operation: Operation type ("put", "get")
	//   - duration: Time taken in seconds
	RecordKVOperationDuration(operation string, duration float64)
}
