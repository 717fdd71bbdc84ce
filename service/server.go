// Package service exposes the planner over NATS request/reply.
//
// A Server subscribes to a single subject and answers plan requests: it
// decodes the proposal and topology from JSON, runs the memory-balanced
// planner, and replies with the placed units. Successful plans are memoized
// in-process by request fingerprint and persisted to a JetStream KV bucket so
// identical requests are answered without re-planning.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/puzpuzpuz/xsync/v4"

	"github.com/arloliu/shardplan"
	"github.com/arloliu/shardplan/internal/fingerprint"
	"github.com/arloliu/shardplan/internal/kvutil"
	"github.com/arloliu/shardplan/internal/logging"
	"github.com/arloliu/shardplan/internal/metrics"
	"github.com/arloliu/shardplan/internal/natsutil"
	"github.com/arloliu/shardplan/types"
)

// kvTimeout bounds individual JetStream KV operations on the request path.
const kvTimeout = 5 * time.Second

// Server serves plan requests over NATS.
//
// Planning is serialized with a mutex: the planner mutates the proposal in
// place and supports one invocation at a time.
type Server struct {
	cfg     Config
	conn    *nats.Conn
	planner *shardplan.Planner
	logger  types.Logger
	metrics types.MetricsCollector

	kv    jetstream.KeyValue
	sub   *nats.Subscription
	cache *xsync.Map[uint64, *PlanResponse]

	planMu  sync.Mutex
	started atomic.Bool
}

// Option configures a Server with optional dependencies.
type Option func(*serverOptions)

// serverOptions holds optional Server configuration.
type serverOptions struct {
	logger  types.Logger
	metrics types.MetricsCollector
}

// WithLogger sets a logger.
//
// Parameters:
//   - logger: Logger implementation (defaults to a no-op logger)
//
// Returns:
//   - Option: Functional option for NewServer
func WithLogger(logger types.Logger) Option {
	return func(o *serverOptions) {
		o.logger = logger
	}
}

// WithMetrics sets a metrics collector.
//
// Parameters:
//   - metrics: MetricsCollector implementation (defaults to a no-op collector)
//
// Returns:
//   - Option: Functional option for NewServer
func WithMetrics(metrics types.MetricsCollector) Option {
	return func(o *serverOptions) {
		o.metrics = metrics
	}
}

// NewServer creates a new planning server.
//
// Parameters:
//   - cfg: Service configuration; missing fields are filled with defaults
//   - conn: Established NATS connection
//   - planner: Planner used for all requests
//   - opts: Optional dependencies (WithLogger, WithMetrics)
//
// Returns:
//   - *Server: Initialized server (not yet subscribed; call Start)
//   - error: Validation error for nil dependencies or bad configuration
//
// Example:
//
//	planner, _ := shardplan.New()
//	srv, err := service.NewServer(&service.Config{}, nc, planner)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := srv.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer srv.Stop(context.Background())
func NewServer(cfg *Config, conn *nats.Conn, planner *shardplan.Planner, opts ...Option) (*Server, error) {
	if cfg == nil {
		return nil, ErrInvalidConfig
	}
	if conn == nil {
		return nil, ErrNATSConnectionRequired
	}
	if planner == nil {
		return nil, ErrPlannerRequired
	}

	SetDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	options := &serverOptions{}
	for _, opt := range opts {
		opt(options)
	}
	if options.logger == nil {
		options.logger = logging.NewNop()
	}
	if options.metrics == nil {
		options.metrics = metrics.NewNop()
	}

	return &Server{
		cfg:     *cfg,
		conn:    conn,
		planner: planner,
		logger:  options.logger,
		metrics: options.metrics,
		cache:   xsync.NewMap[uint64, *PlanResponse](),
	}, nil
}

// Start ensures the KV bucket exists and subscribes to the plan subject.
//
// Parameters:
//   - ctx: Context for KV bucket creation
//
// Returns:
//   - error: ErrAlreadyStarted, or any NATS/JetStream failure
func (s *Server) Start(ctx context.Context) error {
	if !s.started.CompareAndSwap(false, true) {
		return ErrAlreadyStarted
	}

	if !s.cfg.DisablePersistence {
		js, err := jetstream.New(s.conn)
		if err != nil {
			s.started.Store(false)
			return fmt.Errorf("create JetStream context: %w", err)
		}

		kv, err := kvutil.EnsureBucket(ctx, js, jetstream.KeyValueConfig{
			Bucket:      s.cfg.KVBucket,
			Description: "accepted shard placement plans by request fingerprint",
		}, 3)
		if err != nil {
			s.started.Store(false)
			return fmt.Errorf("ensure plan bucket: %w", err)
		}
		s.kv = kv
	}

	sub, err := s.conn.Subscribe(s.cfg.Subject, s.handle)
	if err != nil {
		s.started.Store(false)
		return fmt.Errorf("subscribe to %q: %w", s.cfg.Subject, err)
	}
	s.sub = sub

	s.logger.Info("planning service started",
		"subject", s.cfg.Subject,
		"kv_bucket", s.cfg.KVBucket,
		"persistence", !s.cfg.DisablePersistence,
	)

	return nil
}

// Stop drains the subscription and stops serving requests.
//
// Returns:
//   - error: ErrNotStarted, or a drain failure
func (s *Server) Stop(_ context.Context) error {
	if !s.started.CompareAndSwap(true, false) {
		return ErrNotStarted
	}

	if s.sub != nil {
		if err := s.sub.Drain(); err != nil {
			return fmt.Errorf("drain subscription: %w", err)
		}
		s.sub = nil
	}

	s.logger.Info("planning service stopped", "subject", s.cfg.Subject)

	return nil
}

// StoredPlan loads a persisted plan response by hex fingerprint.
//
// Parameters:
//   - ctx: Context for the KV read
//   - fp: Hex fingerprint from a previous PlanResponse
//
// Returns:
//   - *PlanResponse: The stored response
//   - error: ErrPlanNotFound if no plan is stored under the fingerprint
func (s *Server) StoredPlan(ctx context.Context, fp string) (*PlanResponse, error) {
	if s.kv == nil {
		return nil, ErrPlanNotFound
	}

	start := time.Now()
	entry, err := s.kv.Get(ctx, fp)
	s.metrics.RecordKVOperationDuration("get", time.Since(start).Seconds())
	if err != nil {
		if errors.Is(err, jetstream.ErrKeyNotFound) {
			return nil, ErrPlanNotFound
		}

		return nil, fmt.Errorf("load plan %s: %w", fp, err)
	}

	var resp PlanResponse
	if err := json.Unmarshal(entry.Value(), &resp); err != nil {
		return nil, fmt.Errorf("decode stored plan %s: %w", fp, err)
	}

	return &resp, nil
}

// handle answers a single plan request message.
func (s *Server) handle(msg *nats.Msg) {
	start := time.Now()

	var req PlanRequest
	if err := json.Unmarshal(msg.Data, &req); err != nil {
		s.reply(msg, &PlanResponse{Error: fmt.Sprintf("decode request: %v", err)})
		s.metrics.RecordRequest("bad_request", time.Since(start).Seconds())

		return
	}
	if req.Topology == nil || len(req.Units) == 0 {
		s.reply(msg, &PlanResponse{Error: "request needs a topology and at least one unit"})
		s.metrics.RecordRequest("bad_request", time.Since(start).Seconds())

		return
	}

	key := fingerprint.Sum(req.Topology, req.Units)
	if cached, ok := s.cache.Load(key); ok {
		s.metrics.RecordCacheLookup(true)
		hit := *cached
		hit.Cached = true
		s.reply(msg, &hit)
		s.metrics.RecordRequest("ok", time.Since(start).Seconds())

		return
	}
	s.metrics.RecordCacheLookup(false)

	// Requests may carry stale ranks from a previous pass on the client side.
	types.ResetRanks(req.Units)

	s.planMu.Lock()
	units, err := s.planner.Plan(req.Units, req.Topology)
	s.planMu.Unlock()

	if err != nil {
		s.logger.Warn("plan request failed", "error", err.Error())
		s.reply(msg, &PlanResponse{Error: err.Error()})
		s.metrics.RecordRequest("error", time.Since(start).Seconds())

		return
	}

	resp := &PlanResponse{
		Units:       units,
		Fingerprint: fmt.Sprintf("%016x", key),
	}
	s.cache.Store(key, resp)
	s.persist(resp)
	s.reply(msg, resp)
	s.metrics.RecordRequest("ok", time.Since(start).Seconds())
}

// persist stores a successful plan in the KV bucket. Persistence failures are
// logged but never fail the request: the reply already carries the plan.
func (s *Server) persist(resp *PlanResponse) {
	if s.kv == nil {
		return
	}

	data, err := json.Marshal(resp)
	if err != nil {
		s.logger.Error("encode plan for persistence", "error", err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), kvTimeout)
	defer cancel()

	start := time.Now()
	_, err = s.kv.Put(ctx, resp.Fingerprint, data)
	s.metrics.RecordKVOperationDuration("put", time.Since(start).Seconds())
	if err != nil {
		if natsutil.IsConnectivityError(err) {
			s.logger.Warn("plan persistence skipped due to connectivity", "error", err.Error())
			return
		}
		s.logger.Error("persist plan", "fingerprint", resp.Fingerprint, "error", err.Error())
	}
}

// reply sends a response, logging failures (the requester may have timed out).
func (s *Server) reply(msg *nats.Msg, resp *PlanResponse) {
	data, err := json.Marshal(resp)
	if err != nil {
		s.logger.Error("encode plan response", "error", err.Error())
		return
	}

	if err := msg.Respond(data); err != nil {
		s.logger.Warn("send plan response", "error", err.Error())
	}
}
