package transport

import (
	"context"
	"crypto/tls"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/specialistvlad/pathfinder/internal/ctxlog"
)

const closeGracePeriod = time.Second

// WebSocketDialer speaks plain JSON text frames over a websocket.
type WebSocketDialer struct {
	dialer websocket.Dialer
}

// NewWebSocketDialer creates a dialer based on websocket.DefaultDialer.
func NewWebSocketDialer(opts Options) *WebSocketDialer {
	d := *websocket.DefaultDialer
	if opts.HandshakeTimeout > 0 {
		d.HandshakeTimeout = opts.HandshakeTimeout
	}
	if opts.InsecureSkipVerify {
		d.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}
	return &WebSocketDialer{dialer: d}
}

// Dial opens a websocket to endpoint.
func (d *WebSocketDialer) Dial(ctx context.Context, endpoint string) (Conn, error) {
	logger := ctxlog.FromContext(ctx).With("transport", KindWebSocket, "endpoint", endpoint)
	if d.dialer.TLSClientConfig != nil && d.dialer.TLSClientConfig.InsecureSkipVerify {
		logger.Warn("Skipping TLS certificate verification")
	}

	logger.Debug("Dialing websocket...")
	conn, resp, err := d.dialer.DialContext(ctx, endpoint, nil)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	if err != nil {
		return nil, fmt.Errorf("websocket dial %s failed: %w", endpoint, err)
	}
	logger.Debug("Websocket connected.")
	return &wsConn{conn: conn}, nil
}

type wsConn struct {
	conn      *websocket.Conn
	writeMu   sync.Mutex
	closed    atomic.Bool
	closeOnce sync.Once
}

func (c *wsConn) Send(ctx context.Context, data []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if deadline, ok := ctx.Deadline(); ok {
		_ = c.conn.SetWriteDeadline(deadline)
		defer c.conn.SetWriteDeadline(time.Time{})
	}
	if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		if c.closed.Load() {
			return fmt.Errorf("%w: %v", ErrClosed, err)
		}
		return fmt.Errorf("websocket write failed: %w", err)
	}
	return nil
}

// Receive ignores ctx; reads are unblocked by Close.
func (c *wsConn) Receive(ctx context.Context) ([]byte, error) {
	_, data, err := c.conn.ReadMessage()
	if err == nil {
		return data, nil
	}
	if c.closed.Load() || websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
		return nil, fmt.Errorf("%w: %v", ErrClosed, err)
	}
	return nil, fmt.Errorf("websocket read failed: %w", err)
}

func (c *wsConn) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.closed.Store(true)

		c.writeMu.Lock()
		msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
		_ = c.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(closeGracePeriod))
		c.writeMu.Unlock()

		err = c.conn.Close()
	})
	return err
}
