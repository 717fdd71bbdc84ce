package service

import "github.com/arloliu/shardplan/types"

// PlanRequest is the JSON payload of a plan request message.
//
// Shard ranks in the request are ignored; the service resets them before
// planning.
type PlanRequest struct {
	// Topology is the constraint topology.
	Topology *types.Topology `json:"topology"`

	// Units is the proposal, in priority order.
	Units []*types.Unit `json:"units"`
}

// PlanResponse is the JSON payload of a plan reply message.
//
// Exactly one of Units or Error is populated.
type PlanResponse struct {
	// Units is the placed proposal with every shard rank assigned.
	Units []*types.Unit `json:"units,omitempty"`

	// Error is the placement failure, when planning did not succeed.
	Error string `json:"error,omitempty"`

	// Fingerprint is the hex-encoded request fingerprint; successful plans
	// are stored in the KV bucket under this key.
	Fingerprint string `json:"fingerprint,omitempty"`

	// Cached is true when the response was served from the in-process plan
	// cache rather than a fresh planning pass.
	Cached bool `json:"cached,omitempty"`
}
