package session

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/specialistvlad/pathfinder/internal/ctxlog"
	"github.com/specialistvlad/pathfinder/internal/graphstore"
	"github.com/specialistvlad/pathfinder/internal/pathtracker"
	"github.com/specialistvlad/pathfinder/internal/projector"
	"github.com/specialistvlad/pathfinder/internal/protocol"
	"github.com/specialistvlad/pathfinder/internal/transport"
)

// Session is one connection attempt.
type Session struct {
	ID     string
	Epoch  uint64
	Config protocol.SearchConfig

	conn   transport.Conn
	cancel context.CancelFunc
}

type subscriber struct {
	id int
	fn func(ViewState)
}

// Controller drives one search session at a time against a fixed endpoint.
type Controller struct {
	dialer   transport.Dialer
	endpoint string

	mu        sync.Mutex
	graph     *graphstore.Store
	path      *pathtracker.Tracker
	phase     Phase
	status    string
	elapsed   *float64
	epoch     uint64
	sessionID string
	current   *Session
	state     ViewState
	subs      []subscriber
	nextSub   int

	wg sync.WaitGroup
}

// New creates an idle controller.
func New(dialer transport.Dialer, endpoint string) *Controller {
	c := &Controller{
		dialer:   dialer,
		endpoint: endpoint,
		graph:    graphstore.New(),
		path:     pathtracker.New(),
		phase:    PhaseIdle,
		status:   StatusReady,
	}
	c.state = c.snapshotLocked()
	return c
}

// Endpoint returns the service endpoint sessions connect to.
func (c *Controller) Endpoint() string {
	return c.endpoint
}

// Subscribe registers fn to receive every published ViewState, starting
// with the current one. The returned func removes the subscription.
func (c *Controller) Subscribe(fn func(ViewState)) func() {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.nextSub
	c.nextSub++
	c.subs = append(c.subs, subscriber{id: id, fn: fn})
	fn(c.state)

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		for i, s := range c.subs {
			if s.id == id {
				c.subs = append(c.subs[:i], c.subs[i+1:]...)
				return
			}
		}
	}
}

// State returns the most recently published snapshot.
func (c *Controller) State() ViewState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Start tears down any current session, clears all data and begins a new
// session for cfg. It returns the new session's epoch without waiting for
// the network. ctx bounds the lifetime of the session: once it is done the
// connection is closed and the controller moves to Closed, keeping its data.
func (c *Controller) Start(ctx context.Context, cfg protocol.SearchConfig) (uint64, error) {
	if err := cfg.Validate(); err != nil {
		return 0, err
	}
	request, err := protocol.EncodeRequest(cfg)
	if err != nil {
		return 0, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.teardownLocked(ctx)
	c.clearLocked()
	c.epoch++

	sessCtx, cancel := context.WithCancel(ctx)
	s := &Session{
		ID:     uuid.NewString(),
		Epoch:  c.epoch,
		Config: cfg,
		cancel: cancel,
	}
	sessCtx = ctxlog.With(sessCtx, "session_id", s.ID, "epoch", s.Epoch)
	ctxlog.FromContext(sessCtx).Info("Starting session.", "endpoint", c.endpoint, "start_url", cfg.StartURL, "target_url", cfg.TargetURL, "max_nodes", cfg.MaxNodes, "algorithm", cfg.Algorithm)

	c.current = s
	c.sessionID = s.ID
	c.phase = PhaseConnecting
	c.status = StatusConnecting
	c.publishLocked()

	c.wg.Add(1)
	go c.run(sessCtx, s, request)
	return s.Epoch, nil
}

// Reset closes any open connection and returns to Idle with no data.
func (c *Controller) Reset(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.teardownLocked(ctx)
	c.clearLocked()
	c.epoch++
	c.sessionID = ""
	c.phase = PhaseIdle
	c.status = StatusReady
	ctxlog.FromContext(ctx).Debug("Controller reset.", "epoch", c.epoch)
	c.publishLocked()
}

// Wait blocks until every session goroutine has exited. Call it after Reset
// when shutting down.
func (c *Controller) Wait() {
	c.wg.Wait()
}

// run dials, sends the request and pumps messages until the connection ends.
func (c *Controller) run(ctx context.Context, s *Session, request []byte) {
	defer c.wg.Done()

	conn, err := c.dialer.Dial(ctx, c.endpoint)
	if err != nil {
		c.handleClose(ctx, s, err)
		return
	}
	if !c.handleOpen(ctx, s, conn) {
		conn.Close()
		return
	}
	defer conn.Close()
	// Not every transport unblocks Receive on ctx.
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	if err := conn.Send(ctx, request); err != nil {
		c.handleClose(ctx, s, err)
		return
	}

	for {
		data, err := conn.Receive(ctx)
		if err != nil {
			c.handleClose(ctx, s, err)
			return
		}
		c.handleMessage(ctx, s, data)
	}
}

func (c *Controller) handleOpen(ctx context.Context, s *Session, conn transport.Conn) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	logger := ctxlog.FromContext(ctx)
	if !c.isCurrentLocked(s) {
		logger.Debug("Closing connection of superseded session.")
		return false
	}

	s.conn = conn
	c.phase = PhaseActive
	c.status = connectedStatus(s.Config.Algorithm)
	logger.Info("Connected.", "phase", c.phase)
	c.publishLocked()
	return true
}

func (c *Controller) handleMessage(ctx context.Context, s *Session, data []byte) {
	msg, decodeErr := protocol.Decode(data)

	c.mu.Lock()
	defer c.mu.Unlock()

	logger := ctxlog.FromContext(ctx)
	if !c.isCurrentLocked(s) {
		logger.Debug("Dropping message from superseded session.")
		return
	}
	if decodeErr != nil {
		logger.Debug("Dropping malformed message.", "error", decodeErr)
		return
	}

	if !msg.Type.Known() {
		logger.Debug("Ignoring unknown message type.", "type", msg.Type)
		return
	}

	switch msg.Type {
	case protocol.TypeStatus:
		c.status = *msg.Msg
	case protocol.TypeNodeAdded:
		c.graph.AddNode(*msg.Node)
	case protocol.TypeLinkAdded:
		c.graph.AddEdge(*msg.Link)
	case protocol.TypePathFound:
		if !c.path.Set(msg.Path) {
			logger.Warn("Ignoring path_found.", "reason", c.pathRejectReasonLocked(msg.Path))
			return
		}
		if msg.Time != nil {
			elapsed := *msg.Time
			c.elapsed = &elapsed
		}
		c.status = pathFoundStatus(len(msg.Path))
		logger.Info("Path found.", "length", len(msg.Path), "unknown_ids", c.unknownIDsLocked(msg.Path))
	}
	c.publishLocked()
}

func (c *Controller) pathRejectReasonLocked(path []string) string {
	switch {
	case len(path) == 0:
		return "empty path"
	case c.path.IsSet():
		return "path already set"
	default:
		return "rejected"
	}
}

// unknownIDsLocked counts ids of path the graph has not seen. They are kept
// on the path and only show up once a matching node arrives.
func (c *Controller) unknownIDsLocked(path []string) int {
	unknown := 0
	for _, id := range path {
		if _, ok := c.graph.Node(id); !ok {
			unknown++
		}
	}
	return unknown
}

func (c *Controller) handleClose(ctx context.Context, s *Session, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	logger := ctxlog.FromContext(ctx)
	if !c.isCurrentLocked(s) {
		logger.Debug("Ignoring close of superseded session.", "error", err)
		return
	}

	switch {
	case ctx.Err() != nil:
		logger.Info("Session cancelled.", "reason", context.Cause(ctx), "nodes", c.graph.Len(), "path_length", c.path.Len())
	case errors.Is(err, transport.ErrClosed):
		logger.Info("Connection closed.", "nodes", c.graph.Len(), "path_length", c.path.Len())
	default:
		logger.Warn("Connection ended with error.", "error", err, "phase", c.phase)
	}
	s.cancel()
	s.conn = nil
	c.current = nil
	c.phase = PhaseClosed
	c.publishLocked()
}

func (c *Controller) isCurrentLocked(s *Session) bool {
	return c.current == s && s.Epoch == c.epoch
}

// teardownLocked invalidates the current session and closes its connection.
func (c *Controller) teardownLocked(ctx context.Context) {
	s := c.current
	if s == nil {
		return
	}
	ctxlog.FromContext(ctx).Debug("Tearing down session.", "session_id", s.ID, "epoch", s.Epoch, "phase", c.phase)
	c.current = nil
	s.cancel()
	if s.conn != nil {
		s.conn.Close()
		s.conn = nil
	}
}

func (c *Controller) clearLocked() {
	c.graph.Reset()
	c.path.Reset()
	c.elapsed = nil
}

func (c *Controller) snapshotLocked() ViewState {
	nodes := c.graph.Nodes()
	edges := c.graph.Edges()
	path := c.path.Path()
	if path == nil {
		path = []string{}
	}
	var elapsed *float64
	if c.elapsed != nil {
		v := *c.elapsed
		elapsed = &v
	}

	return ViewState{
		Phase:        c.phase,
		Status:       c.status,
		Searching:    c.phase == PhaseConnecting || c.phase == PhaseActive,
		Epoch:        c.epoch,
		SessionID:    c.sessionID,
		Nodes:        nodes,
		Edges:        edges,
		Layers:       c.graph.Layers(),
		WinningPath:  path,
		WinningEdges: c.winningEdgesLocked(edges),
		Elapsed:      elapsed,
		Tree:         projector.Project(nodes, edges, c.path),
	}
}

// winningEdgesLocked keeps the edges that join consecutive ids of the path,
// in arrival order. It is never nil.
func (c *Controller) winningEdgesLocked(edges []protocol.EdgeRecord) []protocol.EdgeRecord {
	out := []protocol.EdgeRecord{}
	for _, e := range edges {
		if c.path.IsEdgeOnPath(e.Source, e.Target) {
			out = append(out, e)
		}
	}
	return out
}

// publishLocked reprojects and delivers the new state synchronously.
func (c *Controller) publishLocked() {
	c.state = c.snapshotLocked()
	for _, s := range c.subs {
		s.fn(c.state)
	}
}
