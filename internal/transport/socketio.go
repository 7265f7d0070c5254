package transport

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net/url"
	"sync"

	"github.com/bytedance/sonic"
	"github.com/specialistvlad/pathfinder/internal/ctxlog"
	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"
)

const (
	// SearchEvent carries the outbound request.
	SearchEvent = "search"
	// MessageEvent carries every inbound protocol message.
	MessageEvent = "message"

	inboxSize = 256
)

// SocketIODialer speaks the same protocol over socket.io events.
type SocketIODialer struct {
	opts Options
}

// NewSocketIODialer creates a socket.io dialer restricted to the websocket
// transport.
func NewSocketIODialer(opts Options) *SocketIODialer {
	return &SocketIODialer{opts: opts}
}

// Dial connects to endpoint, whose path is used as the socket.io path.
func (d *SocketIODialer) Dial(ctx context.Context, endpoint string) (Conn, error) {
	logger := ctxlog.FromContext(ctx).With("transport", KindSocketIO, "endpoint", endpoint)

	parsedURL, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL: %w", err)
	}
	if parsedURL.Scheme == "" || parsedURL.Host == "" {
		return nil, fmt.Errorf("failed to parse URL: %q is not absolute", endpoint)
	}

	opts := socket.DefaultOptions()
	if parsedURL.Path != "" {
		opts.SetPath(parsedURL.Path)
	}
	if d.opts.InsecureSkipVerify {
		logger.Warn("Skipping TLS certificate verification")
		opts.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}
	opts.SetTransports(types.NewSet(transports.WebSocket))

	baseURL := fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host)
	manager := socket.NewManager(baseURL, opts)
	io := manager.Socket("/", opts)

	c := &sioConn{
		io:    io,
		inbox: make(chan []byte, inboxSize),
		done:  make(chan struct{}),
	}
	connectChan := make(chan error, 1)

	io.Once(types.EventName("connect"), func(...any) {
		logger.Debug("Successfully connected", "sid", io.Id())
		select {
		case connectChan <- nil:
		default:
		}
	})
	io.Once(types.EventName("connect_error"), func(errs ...any) {
		err := errors.New("connect_error")
		if len(errs) > 0 {
			if e, ok := errs[0].(error); ok {
				err = e
			}
		}
		select {
		case connectChan <- err:
		default:
		}
	})
	io.On(types.EventName(MessageEvent), func(args ...any) {
		if len(args) == 0 {
			return
		}
		data, err := sonic.ConfigStd.Marshal(args[0])
		if err != nil {
			logger.Debug("Dropping unencodable socket.io payload", "error", err)
			return
		}
		c.deliver(data)
	})
	io.On(types.EventName("disconnect"), func(reason ...any) {
		logger.Debug("Socket disconnected", "reason", reason)
		c.shutdown(fmt.Errorf("%w: disconnect %v", ErrClosed, reason))
	})

	logger.Debug("Initiating connection...")
	io.Connect()

	select {
	case err := <-connectChan:
		if err != nil {
			io.Disconnect()
			return nil, fmt.Errorf("socket.io connection failed: %w", err)
		}
		return c, nil
	case <-ctx.Done():
		io.Disconnect()
		return nil, fmt.Errorf("context cancelled while waiting for socket.io connection: %w", ctx.Err())
	}
}

type sioConn struct {
	io    *socket.Socket
	inbox chan []byte

	once sync.Once
	done chan struct{}
	err  error
}

func (c *sioConn) deliver(data []byte) {
	select {
	case c.inbox <- data:
	case <-c.done:
	}
}

func (c *sioConn) shutdown(err error) {
	c.once.Do(func() {
		c.err = err
		close(c.done)
	})
}

func (c *sioConn) Send(ctx context.Context, data []byte) error {
	select {
	case <-c.done:
		return c.err
	default:
	}

	// Emit the decoded object so the server sees a structured payload.
	var payload any
	if err := sonic.ConfigStd.Unmarshal(data, &payload); err != nil {
		return fmt.Errorf("socket.io payload is not JSON: %w", err)
	}
	if err := c.io.Emit(SearchEvent, payload); err != nil {
		return fmt.Errorf("socket.io emit failed: %w", err)
	}
	return nil
}

func (c *sioConn) Receive(ctx context.Context) ([]byte, error) {
	select {
	case data := <-c.inbox:
		return data, nil
	case <-c.done:
		// Drain what arrived before the disconnect.
		select {
		case data := <-c.inbox:
			return data, nil
		default:
			return nil, c.err
		}
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (c *sioConn) Close() error {
	c.shutdown(fmt.Errorf("%w: closed locally", ErrClosed))
	c.io.Disconnect()
	return nil
}
