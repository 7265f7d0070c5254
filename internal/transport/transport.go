// Package transport abstracts the persistent, bidirectional connection to
// the search service. The session controller only sees Dialer and Conn; the
// concrete wire (plain websocket or socket.io) is chosen by configuration.
package transport

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrClosed is wrapped by Receive once the connection has closed normally,
// whether the peer or the local side closed it.
var ErrClosed = errors.New("transport closed")

// ErrUnknownKind is returned by New for an unsupported transport name.
var ErrUnknownKind = errors.New("unknown transport")

const (
	KindWebSocket = "websocket"
	KindSocketIO  = "socketio"
)

// Kinds lists the supported transport names.
var Kinds = []string{KindWebSocket, KindSocketIO}

// Conn is one open connection. Send and Receive may be called from
// different goroutines; Receive must only be called from one.
type Conn interface {
	// Send writes one message to the service.
	Send(ctx context.Context, data []byte) error
	// Receive blocks until the next inbound message. After the connection
	// closes it returns an error wrapping ErrClosed (orderly) or the
	// underlying failure.
	Receive(ctx context.Context) ([]byte, error)
	// Close releases the connection and unblocks a pending Receive. It is
	// safe to call more than once.
	Close() error
}

// Dialer opens connections to an endpoint.
type Dialer interface {
	Dial(ctx context.Context, endpoint string) (Conn, error)
}

// Options tunes the concrete dialers.
type Options struct {
	InsecureSkipVerify bool
	HandshakeTimeout   time.Duration
}

// New returns the dialer registered under kind.
func New(kind string, opts Options) (Dialer, error) {
	switch kind {
	case "", KindWebSocket:
		return NewWebSocketDialer(opts), nil
	case KindSocketIO:
		return NewSocketIODialer(opts), nil
	default:
		return nil, fmt.Errorf("%w %q: must be one of %v", ErrUnknownKind, kind, Kinds)
	}
}
