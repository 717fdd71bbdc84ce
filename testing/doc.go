// Package testing provides test utilities for the shardplan library.
//
// This package offers helpers for setting up test environments: an embedded
// NATS server with JetStream for service tests, a testing.T-backed logger,
// and builders for topologies and proposals. It follows Go's convention of
// providing testing utilities in a dedicated package (similar to
// net/http/httptest).
//
// Example usage:
//
//	import (
//	    "testing"
//	    plantest "github.com/arloliu/shardplan/testing"
//	)
//
//	func TestMyComponent(t *testing.T) {
//	    _, nc := plantest.StartEmbeddedNATS(t)
//	    // Use nc for your tests
//	}
package testing
