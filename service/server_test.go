package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/shardplan"
	plantest "github.com/arloliu/shardplan/testing"
	"github.com/arloliu/shardplan/types"
)

func startServer(t *testing.T, cfg *Config) (*Server, *serverClient) {
	t.Helper()

	_, nc := plantest.StartEmbeddedNATS(t)

	planner, err := shardplan.New()
	require.NoError(t, err)

	srv, err := NewServer(cfg, nc, planner)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)
	require.NoError(t, srv.Start(ctx))
	t.Cleanup(func() {
		_ = srv.Stop(context.Background())
	})

	return srv, &serverClient{t: t, subject: srv.cfg.Subject, conn: nc}
}

type serverClient struct {
	t       *testing.T
	subject string
	conn    *nats.Conn
}

func planRequest(t *testing.T) PlanRequest {
	t.Helper()

	return PlanRequest{
		Topology: plantest.Topology(t, 2, 1, types.Capacity{HBM: 10 << 30, DDR: 1 << 40}),
		Units: []*types.Unit{
			plantest.Unit("table_a", types.PartitionByUniform, 2, types.Capacity{HBM: 1 << 30, DDR: 1}, 1),
			plantest.Unit("table_b", types.PartitionByDevice, 2, types.Capacity{HBM: 2 << 30, DDR: 1}, 2),
		},
	}
}

func (c *serverClient) plan(req any) PlanResponse {
	c.t.Helper()

	data, err := json.Marshal(req)
	require.NoError(c.t, err)

	msg, err := c.conn.Request(c.subject, data, 5*time.Second)
	require.NoError(c.t, err)

	var resp PlanResponse
	require.NoError(c.t, json.Unmarshal(msg.Data, &resp))

	return resp
}

func TestServer_PlanRoundTrip(t *testing.T) {
	_, client := startServer(t, &Config{})

	resp := client.plan(planRequest(t))

	require.Empty(t, resp.Error)
	require.NotEmpty(t, resp.Fingerprint)
	require.False(t, resp.Cached)
	require.Len(t, resp.Units, 2)
	for _, unit := range resp.Units {
		for _, shard := range unit.Shards {
			require.NotEqual(t, types.RankUnassigned, shard.Rank)
		}
	}
}

func TestServer_CachesIdenticalRequests(t *testing.T) {
	_, client := startServer(t, &Config{})

	first := client.plan(planRequest(t))
	second := client.plan(planRequest(t))

	require.False(t, first.Cached)
	require.True(t, second.Cached)
	require.Equal(t, first.Fingerprint, second.Fingerprint)
}

func TestServer_PersistsAcceptedPlans(t *testing.T) {
	srv, client := startServer(t, &Config{})

	resp := client.plan(planRequest(t))
	require.Empty(t, resp.Error)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	stored, err := srv.StoredPlan(ctx, resp.Fingerprint)
	require.NoError(t, err)
	require.Len(t, stored.Units, 2)

	_, err = srv.StoredPlan(ctx, "feedfacefeedface")
	require.ErrorIs(t, err, ErrPlanNotFound)
}

func TestServer_ReportsPlacementFailures(t *testing.T) {
	_, client := startServer(t, &Config{})

	req := PlanRequest{
		Topology: plantest.Topology(t, 2, 1, types.Capacity{HBM: 1 << 30, DDR: 1 << 40}),
		Units: []*types.Unit{
			plantest.Unit("oversized", types.PartitionByDevice, 1, types.Capacity{HBM: 2 << 30, DDR: 1}, 1),
		},
	}
	resp := client.plan(req)

	require.NotEmpty(t, resp.Error)
	require.Contains(t, resp.Error, "oversized")
	require.Empty(t, resp.Units)
}

func TestServer_RejectsMalformedRequests(t *testing.T) {
	_, client := startServer(t, &Config{})

	t.Run("invalid json", func(t *testing.T) {
		msg, err := client.conn.Request(client.subject, []byte("not json"), 5*time.Second)
		require.NoError(t, err)

		var resp PlanResponse
		require.NoError(t, json.Unmarshal(msg.Data, &resp))
		require.Contains(t, resp.Error, "decode request")
	})

	t.Run("missing topology", func(t *testing.T) {
		resp := client.plan(PlanRequest{Units: planRequest(t).Units})

		require.Contains(t, resp.Error, "topology")
	})
}

func TestServer_Lifecycle(t *testing.T) {
	_, nc := plantest.StartEmbeddedNATS(t)

	planner, err := shardplan.New()
	require.NoError(t, err)

	t.Run("rejects nil dependencies", func(t *testing.T) {
		_, err := NewServer(nil, nc, planner)
		require.ErrorIs(t, err, ErrInvalidConfig)

		_, err = NewServer(&Config{}, nil, planner)
		require.ErrorIs(t, err, ErrNATSConnectionRequired)

		_, err = NewServer(&Config{}, nc, nil)
		require.ErrorIs(t, err, ErrPlannerRequired)
	})

	t.Run("start and stop are idempotence-checked", func(t *testing.T) {
		srv, err := NewServer(&Config{Subject: "shardplan.lifecycle"}, nc, planner)
		require.NoError(t, err)

		ctx := context.Background()
		require.NoError(t, srv.Start(ctx))
		require.ErrorIs(t, srv.Start(ctx), ErrAlreadyStarted)
		require.NoError(t, srv.Stop(ctx))
		require.ErrorIs(t, srv.Stop(ctx), ErrNotStarted)
	})

	t.Run("runs without persistence", func(t *testing.T) {
		srv, err := NewServer(&Config{Subject: "shardplan.nopersist", DisablePersistence: true}, nc, planner)
		require.NoError(t, err)

		ctx := context.Background()
		require.NoError(t, srv.Start(ctx))
		t.Cleanup(func() { _ = srv.Stop(context.Background()) })

		_, err = srv.StoredPlan(ctx, "00")
		require.ErrorIs(t, err, ErrPlanNotFound)
	})
}
