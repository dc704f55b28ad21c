// Package ogmios implements the streaming query backend: a single persistent
// websocket connection to an Ogmios server over which many JSON-WSP requests
// are multiplexed and correlated by their mirror id.
package ogmios

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/gabapcia/txbridge/internal/pkg/logger"
	"github.com/gabapcia/txbridge/internal/pkg/transport/jsonwsp"
	"github.com/gabapcia/txbridge/internal/pkg/transport/websocket"
	"github.com/gabapcia/txbridge/internal/pkg/validator"
	"github.com/gabapcia/txbridge/internal/pkg/x/chflow"
	"github.com/gabapcia/txbridge/internal/querybackend"
)

// ErrNotConnected is returned by requests made before the client connected.
var ErrNotConnected = errors.New("ogmios client is not connected")

// State is the connection state of a Client.
type State int32

const (
	// StateDisconnected is the initial state, before Connect is called.
	StateDisconnected State = iota

	// StateConnecting means the websocket handshake is in progress.
	StateConnecting

	// StateConnected means requests can be sent.
	StateConnected

	// StateClosed is terminal: the connection failed or was closed. There is no reconnect.
	StateClosed
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateClosed:
		return "closed"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

// config holds the client settings.
type config struct {
	requestTimeout time.Duration        // bound on each request's wait, 0 waits until the caller's context ends
	warn           querybackend.LogSink // sink for unrecognized messages
	anomaly        querybackend.LogSink // sink for malformed messages and connection failures
	dialOptions    []websocket.Option   // passed through to the websocket dialer
}

// Option defines a functional option for configuring the client.
type Option func(*config)

// WithRequestTimeout bounds how long a request waits for its response. A
// request that times out is cancelled like any other. Default: no bound.
func WithRequestTimeout(d time.Duration) Option {
	return func(c *config) {
		c.requestTimeout = d
	}
}

// WithLogSink routes every diagnostic message of the client to sink.
// Default: the global logger.
func WithLogSink(sink querybackend.LogSink) Option {
	return func(c *config) {
		c.warn = sink
		c.anomaly = sink
	}
}

// WithDialOptions passes options to the websocket dialer.
func WithDialOptions(opts ...websocket.Option) Option {
	return func(c *config) {
		c.dialOptions = append(c.dialOptions, opts...)
	}
}

// Client is the streaming query backend.
type Client struct {
	cfg      config
	decoders []decoder

	state   atomic.Int32
	closing atomic.Bool

	conn  websocket.Conn
	table *dispatchTable
	done  chan struct{} // closed when the receive loop has exited
}

// Compile-time assertion that Client implements the Backend interface.
var _ querybackend.Backend = (*Client)(nil)

// New creates a disconnected client.
func New(opts ...Option) *Client {
	cfg := config{
		warn:    logger.Warn,
		anomaly: logger.Error,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Client{
		cfg:      cfg,
		decoders: decoders,
		table:    newDispatchTable(),
		done:     make(chan struct{}),
	}
}

// Dial creates a client and connects it to server.
func Dial(ctx context.Context, server querybackend.ServerConfig, opts ...Option) (*Client, error) {
	if err := validator.Validate(server); err != nil {
		return nil, err
	}

	c := New(opts...)
	if err := c.Connect(ctx, server.WebsocketURL()); err != nil {
		return nil, err
	}
	return c, nil
}

// Connect dials url and starts the receive loop. It may be called once.
func (c *Client) Connect(ctx context.Context, url string) error {
	if !c.state.CompareAndSwap(int32(StateDisconnected), int32(StateConnecting)) {
		return fmt.Errorf("connect in state %s", c.State())
	}

	conn, err := websocket.Dial(ctx, url, c.cfg.dialOptions...)
	if err != nil {
		c.state.Store(int32(StateClosed))
		c.table.clear(querybackend.ErrConnectionFailed)
		close(c.done)
		return fmt.Errorf("%w: %w", querybackend.ErrConnectionFailed, err)
	}

	c.attach(conn)
	return nil
}

// attach takes ownership of an open connection and starts the receive loop.
func (c *Client) attach(conn websocket.Conn) {
	c.conn = conn
	c.state.Store(int32(StateConnected))
	go c.receiveLoop()
}

// State returns the current connection state.
func (c *Client) State() State {
	return State(c.state.Load())
}

// Pending returns the number of requests awaiting a response.
func (c *Client) Pending() int {
	return c.table.len()
}

func (c *Client) receiveLoop() {
	defer close(c.done)

	for {
		data, err := c.conn.ReadMessage()
		if err != nil {
			c.handleError(err)
			return
		}

		c.handleMessage(data)
	}
}

// handleMessage routes one incoming frame to the request it answers.
func (c *Client) handleMessage(data []byte) {
	ctx := context.Background()

	resp, err := jsonwsp.Decode(data)
	if err != nil {
		c.cfg.warn(ctx, "ogmios sent an unrecognized message", "error", err, "message", string(data))
		return
	}

	name, out := runDecoders(c.decoders, resp)
	switch out.outcome {
	case matched:
		c.table.resolve(resp.ID(), result{value: out.value, err: out.err})
	case malformed:
		decodeErr := &querybackend.ProtocolDecodeError{Raw: data, Err: out.err}
		c.cfg.anomaly(ctx, "ogmios response could not be decoded", "decoder", name, "id", resp.ID(), "error", out.err)
		c.table.resolve(resp.ID(), result{err: decodeErr})
	default:
		c.cfg.warn(ctx, "ogmios sent an unrecognized message", "id", resp.ID(), "method", resp.MethodName)
	}
}

// handleError ends the connection: every pending request fails and the client
// moves to its terminal state.
func (c *Client) handleError(err error) {
	cause := querybackend.ErrConnectionClosed
	if !c.closing.Load() {
		cause = querybackend.ErrConnectionFailed
	}

	c.state.Store(int32(StateClosed))
	swept := c.table.clear(cause)

	if cause == querybackend.ErrConnectionFailed {
		c.cfg.anomaly(context.Background(), "ogmios connection failed", "error", err, "pending", swept)
	}

	_ = c.conn.Close()
}

// Request sends method with args and returns a handle to await its response.
func (c *Client) Request(ctx context.Context, method string, args any) (*Pending, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", querybackend.ErrRequestCancelled, err)
	}

	switch c.State() {
	case StateConnected:
	case StateClosed:
		return nil, querybackend.ErrConnectionClosed
	default:
		return nil, ErrNotConnected
	}

	req := jsonwsp.NewRequest(method, args)
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	// The handle must exist before the request can possibly be answered.
	ch, err := c.table.register(req.ID())
	if err != nil {
		return nil, err
	}

	if err := c.conn.WriteMessage(payload); err != nil {
		writeErr := fmt.Errorf("%w: %w", querybackend.ErrTransport, err)
		c.table.resolve(req.ID(), result{err: writeErr})
		return nil, writeErr
	}

	return &Pending{id: req.ID(), ch: ch, client: c}, nil
}

// Cancel resolves the pending request id with ErrRequestCancelled. Other
// pending requests are not affected. It reports false when id was not pending.
func (c *Client) Cancel(id string) bool {
	return c.table.resolve(id, result{err: querybackend.ErrRequestCancelled})
}

// Close closes the connection and waits for the receive loop to exit. Requests
// still pending fail with ErrConnectionClosed. Close must not be called while
// Connect is running.
func (c *Client) Close() error {
	if c.state.CompareAndSwap(int32(StateDisconnected), int32(StateClosed)) {
		c.table.clear(querybackend.ErrConnectionClosed)
		close(c.done)
		return nil
	}

	c.closing.Store(true)
	if c.conn == nil {
		return nil
	}

	err := c.conn.Close()
	<-c.done
	return err
}

// Pending is the completion handle of an in-flight request.
type Pending struct {
	id     string
	ch     <-chan result
	client *Client
}

// ID returns the request's correlation id.
func (p *Pending) ID() string {
	return p.id
}

// Wait blocks until the request is resolved. If ctx ends first the request is
// cancelled; a response that raced the cancellation still wins.
func (p *Pending) Wait(ctx context.Context) (any, error) {
	r, err := chflow.ReceiveWithin(ctx, p.ch, p.client.cfg.requestTimeout)
	if err == nil {
		return r.value, r.err
	}

	p.client.table.resolve(p.id, result{err: fmt.Errorf("%w: %w", querybackend.ErrRequestCancelled, err)})

	// Exactly one resolution is buffered now, ours or the one that beat us.
	r = <-p.ch
	return r.value, r.err
}

// call sends a request and waits for a response of type T.
func call[T any](ctx context.Context, c *Client, method string, args any) (T, error) {
	var zero T

	p, err := c.Request(ctx, method, args)
	if err != nil {
		return zero, err
	}

	v, err := p.Wait(ctx)
	if err != nil {
		return zero, err
	}

	typed, ok := v.(T)
	if !ok {
		return zero, &querybackend.ProtocolDecodeError{Err: fmt.Errorf("%s answered with %T", method, v)}
	}
	return typed, nil
}
