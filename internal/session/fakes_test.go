package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/specialistvlad/pathfinder/internal/transport"
)

// fakeConn is an in-memory transport.Conn. Messages pushed to inbox are
// delivered in order; closing inbox ends the stream normally. When leaky is
// set, Close does not stop delivery, which mimics messages already in flight
// when a connection is torn down.
type fakeConn struct {
	inbox chan []byte
	sent  chan []byte
	leaky bool

	closeOnce sync.Once
	closed    chan struct{}
}

func newFakeConn() *fakeConn {
	return &fakeConn{
		inbox:  make(chan []byte, 64),
		sent:   make(chan []byte, 4),
		closed: make(chan struct{}),
	}
}

func (c *fakeConn) push(msgs ...string) {
	for _, m := range msgs {
		c.inbox <- []byte(m)
	}
}

func (c *fakeConn) isClosed() bool {
	select {
	case <-c.closed:
		return true
	default:
		return false
	}
}

func (c *fakeConn) Send(ctx context.Context, data []byte) error {
	if c.isClosed() {
		return fmt.Errorf("%w: send after close", transport.ErrClosed)
	}
	c.sent <- data
	return nil
}

func (c *fakeConn) Receive(ctx context.Context) ([]byte, error) {
	if c.leaky {
		data, ok := <-c.inbox
		if !ok {
			return nil, fmt.Errorf("%w: eof", transport.ErrClosed)
		}
		return data, nil
	}
	select {
	case data, ok := <-c.inbox:
		if !ok {
			return nil, fmt.Errorf("%w: eof", transport.ErrClosed)
		}
		return data, nil
	case <-c.closed:
		return nil, fmt.Errorf("%w: closed locally", transport.ErrClosed)
	}
}

func (c *fakeConn) Close() error {
	c.closeOnce.Do(func() { close(c.closed) })
	return nil
}

type dialRequest struct {
	endpoint string
	reply    chan dialReply
}

type dialReply struct {
	conn transport.Conn
	err  error
}

// fakeDialer hands every Dial call to the test through requests so the test
// decides when, and with what, each dial completes.
type fakeDialer struct {
	requests chan dialRequest
	// ignoreCancel keeps Dial waiting for the test even after ctx is done.
	ignoreCancel bool
}

func newFakeDialer() *fakeDialer {
	return &fakeDialer{requests: make(chan dialRequest, 8)}
}

func (d *fakeDialer) Dial(ctx context.Context, endpoint string) (transport.Conn, error) {
	req := dialRequest{endpoint: endpoint, reply: make(chan dialReply, 1)}
	d.requests <- req

	if d.ignoreCancel {
		r := <-req.reply
		return r.conn, r.err
	}
	select {
	case r := <-req.reply:
		return r.conn, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// recorder collects every published ViewState.
type recorder struct {
	mu     sync.Mutex
	states []ViewState
}

func (r *recorder) record(v ViewState) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.states = append(r.states, v)
}

func (r *recorder) all() []ViewState {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]ViewState, len(r.states))
	copy(out, r.states)
	return out
}
