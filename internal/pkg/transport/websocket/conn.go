// Package websocket dials persistent websocket connections and exposes them
// through a small message-oriented interface that is safe for one reader and
// many concurrent writers.
package websocket

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// ErrClosed is returned when writing to a connection that was already closed.
var ErrClosed = errors.New("websocket connection closed")

// Conn is a message-oriented websocket connection.
type Conn interface {
	// ReadMessage blocks until the next data frame arrives and returns its payload.
	// Only one goroutine may read at a time.
	ReadMessage() ([]byte, error)

	// WriteMessage sends data as a single text frame. Safe for concurrent use.
	WriteMessage(data []byte) error

	// Close sends a close frame and releases the underlying connection.
	Close() error
}

// config holds the dialer settings.
type config struct {
	handshakeTimeout time.Duration // maximum duration of the opening handshake
	writeTimeout     time.Duration // deadline applied to every write, 0 disables it
	readLimit        int64         // maximum size of an incoming message in bytes
	header           http.Header   // extra headers sent with the handshake
}

// Option defines a functional option for configuring the dialer.
type Option func(*config)

// WithHandshakeTimeout bounds the opening handshake. Default: 10 seconds.
func WithHandshakeTimeout(d time.Duration) Option {
	return func(c *config) {
		c.handshakeTimeout = d
	}
}

// WithWriteTimeout sets a deadline for every write. Default: 10 seconds.
func WithWriteTimeout(d time.Duration) Option {
	return func(c *config) {
		c.writeTimeout = d
	}
}

// WithReadLimit sets the maximum size of an incoming message. Default: 64 MiB.
func WithReadLimit(n int64) Option {
	return func(c *config) {
		c.readLimit = n
	}
}

// WithHeader adds a header to the opening handshake.
func WithHeader(key, value string) Option {
	return func(c *config) {
		c.header.Add(key, value)
	}
}

// conn wraps a gorilla connection, serializing writes.
type conn struct {
	ws           *websocket.Conn
	writeTimeout time.Duration

	writeMu   sync.Mutex
	closeOnce sync.Once
	closed    bool
}

// Compile-time assertion that conn implements the Conn interface.
var _ Conn = (*conn)(nil)

// Dial opens a websocket connection to url.
func Dial(ctx context.Context, url string, opts ...Option) (*conn, error) {
	cfg := config{
		handshakeTimeout: 10 * time.Second,
		writeTimeout:     10 * time.Second,
		readLimit:        64 << 20,
		header:           make(http.Header),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	dialer := websocket.Dialer{
		Proxy:            http.ProxyFromEnvironment,
		HandshakeTimeout: cfg.handshakeTimeout,
	}

	ws, res, err := dialer.DialContext(ctx, url, cfg.header)
	if res != nil && res.Body != nil {
		res.Body.Close()
	}
	if err != nil {
		return nil, err
	}

	ws.SetReadLimit(cfg.readLimit)

	return &conn{ws: ws, writeTimeout: cfg.writeTimeout}, nil
}

func (c *conn) ReadMessage() ([]byte, error) {
	for {
		kind, data, err := c.ws.ReadMessage()
		if err != nil {
			return nil, err
		}

		if kind == websocket.TextMessage || kind == websocket.BinaryMessage {
			return data, nil
		}
	}
}

func (c *conn) WriteMessage(data []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if c.closed {
		return ErrClosed
	}

	if c.writeTimeout > 0 {
		if err := c.ws.SetWriteDeadline(time.Now().Add(c.writeTimeout)); err != nil {
			return err
		}
	}

	return c.ws.WriteMessage(websocket.TextMessage, data)
}

func (c *conn) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.writeMu.Lock()
		c.closed = true
		msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
		_ = c.ws.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
		c.writeMu.Unlock()

		err = c.ws.Close()
	})
	return err
}
