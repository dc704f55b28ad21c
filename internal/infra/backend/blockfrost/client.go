// Package blockfrost implements the stateless REST query backend against a
// Blockfrost-compatible HTTP API.
package blockfrost

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/gabapcia/txbridge/internal/pkg/logger"
	transporthttp "github.com/gabapcia/txbridge/internal/pkg/transport/http"
	"github.com/gabapcia/txbridge/internal/pkg/validator"
	"github.com/gabapcia/txbridge/internal/querybackend"

	"github.com/hashicorp/go-retryablehttp"
)

// apiKeyHeader carries the project key on every call when one is configured.
const apiKeyHeader = "project_id"

// defaultPageSize is the largest page the service returns.
const defaultPageSize = 100

// config holds the client settings.
type config struct {
	apiKey      string                 // sent as the project_id header when not empty
	pageSize    int                    // items requested per page on paginated endpoints
	httpOptions []transporthttp.Option // applied after the client defaults
	logSink     querybackend.LogSink   // receives one debug entry per call
}

// Option defines a functional option for configuring the client.
type Option func(*config)

// WithAPIKey sets the project key sent with every request.
func WithAPIKey(key string) Option {
	return func(c *config) {
		c.apiKey = key
	}
}

// WithPageSize sets how many items are requested per page. Default: 100.
func WithPageSize(n int) Option {
	return func(c *config) {
		c.pageSize = n
	}
}

// WithHTTPOptions configures the underlying HTTP client. By default a request
// is sent once; retries are left to the caller.
func WithHTTPOptions(opts ...transporthttp.Option) Option {
	return func(c *config) {
		c.httpOptions = append(c.httpOptions, opts...)
	}
}

// WithLogSink routes the client's diagnostic messages to sink.
// Default: the global logger at debug level.
func WithLogSink(sink querybackend.LogSink) Option {
	return func(c *config) {
		c.logSink = sink
	}
}

// Client is the REST query backend. It holds no mutable state and is safe for
// concurrent use.
type Client struct {
	baseURL    string
	apiKey     string
	pageSize   int
	httpClient *retryablehttp.Client
	log        querybackend.LogSink
}

// Compile-time assertion that Client implements the Backend interface.
var _ querybackend.Backend = (*Client)(nil)

// New creates a client for the service described by server.
func New(server querybackend.ServerConfig, opts ...Option) (*Client, error) {
	if err := validator.Validate(server); err != nil {
		return nil, err
	}

	cfg := config{
		pageSize: defaultPageSize,
		logSink:  logger.Debug,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.pageSize <= 0 {
		cfg.pageSize = defaultPageSize
	}

	httpOptions := append([]transporthttp.Option{transporthttp.WithRetryMax(0)}, cfg.httpOptions...)

	return &Client{
		baseURL:    server.HTTPURL(),
		apiKey:     cfg.apiKey,
		pageSize:   cfg.pageSize,
		httpClient: transporthttp.NewClient(httpOptions...),
		log:        cfg.logSink,
	}, nil
}

// response is a fully read HTTP response.
type response struct {
	status int
	body   []byte
}

func (r response) ok() bool {
	return r.status >= 200 && r.status < 300
}

// do sends one request and reads the whole response. Only failures to get a
// response at all are returned as errors.
func (c *Client) do(ctx context.Context, method, path, contentType string, body []byte) (response, error) {
	var rawBody any
	if body != nil {
		rawBody = body
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, method, c.baseURL+path, rawBody)
	if err != nil {
		return response{}, &querybackend.ClientHttpError{Err: err}
	}

	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.apiKey != "" {
		req.Header.Set(apiKeyHeader, c.apiKey)
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return response{}, &querybackend.ClientHttpError{Err: fmt.Errorf("%w: %w", querybackend.ErrTransport, err)}
	}
	defer res.Body.Close()

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return response{}, &querybackend.ClientHttpError{Err: fmt.Errorf("%w: %w", querybackend.ErrTransport, err)}
	}

	c.log(ctx, "blockfrost call", "method", method, "path", path, "status", res.StatusCode)

	return response{status: res.StatusCode, body: data}, nil
}

// get is do for GET requests.
func (c *Client) get(ctx context.Context, path string) (response, error) {
	return c.do(ctx, http.MethodGet, path, "", nil)
}

// errorFromResponse decodes the service's error envelope of a non-2xx response.
func errorFromResponse(res response) error {
	var envelope querybackend.ServiceError
	if err := json.Unmarshal(res.body, &envelope); err != nil {
		return &querybackend.ClientDecodeJsonError{Raw: string(res.body), Err: err}
	}
	return &querybackend.ClientHttpResponseError{StatusCode: res.status, Body: envelope}
}

// decodeJSON decodes a 2xx body into v.
func decodeJSON(res response, v any) error {
	if err := json.Unmarshal(res.body, v); err != nil {
		return &querybackend.ClientDecodeJsonError{Raw: string(res.body), Err: err}
	}
	return nil
}

// Close releases idle connections.
func (c *Client) Close() error {
	c.httpClient.HTTPClient.CloseIdleConnections()
	return nil
}
