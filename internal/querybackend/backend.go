// Package querybackend defines the capability set every ledger query service
// exposes, the uniform error taxonomy its implementations return, and the
// variant type that selects the active implementation.
package querybackend

import (
	"context"
	"fmt"
)

// Backend is the capability set shared by every query service implementation.
//
// Implementations keep all service-specific encoding and error mapping
// internal: callers only see the sentinels and error types of this package.
// The query methods are safe for concurrent use.
type Backend interface {
	// Submit sends a serialized transaction to the network.
	//
	// Parameters:
	//   - ctx: controls cancellation and timeout.
	//   - tx: the signed transaction in CBOR.
	//
	// Returns:
	//   - The transaction id reported by the service.
	//   - ErrTxRejected if the ledger refuses the transaction, ErrTransport or
	//     ErrRequestCancelled if the request could not complete.
	Submit(ctx context.Context, tx []byte) (TxHash, error)

	// Evaluate runs the transaction's scripts without submitting it.
	//
	// Parameters:
	//   - ctx: controls cancellation and timeout.
	//   - tx: the transaction in CBOR. Budgets already set on its redeemers are ignored.
	//
	// Returns:
	//   - The execution units used by each redeemer, keyed by tag and index.
	//   - ErrEvaluationFailed if a script fails or the transaction is malformed.
	Evaluate(ctx context.Context, tx []byte) (EvaluationResult, error)

	// IsConfirmed reports whether the transaction is on chain.
	//
	// Parameters:
	//   - ctx: controls cancellation and timeout.
	//   - hash: the transaction id.
	//
	// Returns:
	//   - false with a nil error while the transaction is unknown to the ledger.
	//   - An error only when the service cannot be queried.
	IsConfirmed(ctx context.Context, hash TxHash) (bool, error)

	// GetMetadata fetches the transaction's metadata.
	//
	// Parameters:
	//   - ctx: controls cancellation and timeout.
	//   - hash: the transaction id.
	//
	// Returns:
	//   - The metadata labels of the transaction, empty if it carries none.
	//   - A *MetadataError on every failure. Its Kind tells a missing
	//     transaction from a client or service failure; backends that cannot
	//     serve metadata wrap ErrUnsupported.
	GetMetadata(ctx context.Context, hash TxHash) (Metadata, error)

	// UtxosAt lists the unspent outputs locked at an address.
	//
	// Parameters:
	//   - ctx: controls cancellation and timeout.
	//   - address: a bech32 address.
	//
	// Returns:
	//   - Every unspent output at the address, empty when there are none.
	//   - ErrQueryFailed, or one of the client error types, if the query
	//     cannot be served.
	UtxosAt(ctx context.Context, address string) (UtxoSet, error)

	// Close releases the backend's resources. Requests in flight fail with
	// ErrConnectionClosed.
	Close() error
}

// LogSink receives diagnostic messages from a backend. The global logger's
// functions satisfy it.
type LogSink func(ctx context.Context, msg string, keysAndValues ...any)

// Kind names a backend variant.
type Kind int

const (
	KindStreaming Kind = iota + 1
	KindRest
)

// String returns the variant name.
func (k Kind) String() string {
	switch k {
	case KindStreaming:
		return "streaming"
	case KindRest:
		return "rest"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Dispatch is the active query service: exactly one variant is set and every
// call is forwarded to it. New services are added as variants here, never by
// branching at call sites.
type Dispatch struct {
	kind      Kind
	streaming Backend
	rest      Backend
}

// Compile-time assertion that Dispatch implements the Backend interface.
var _ Backend = Dispatch{}

// Streaming selects a persistent-connection backend.
func Streaming(b Backend) Dispatch {
	return Dispatch{kind: KindStreaming, streaming: b}
}

// Rest selects a stateless REST backend.
func Rest(b Backend) Dispatch {
	return Dispatch{kind: KindRest, rest: b}
}

// Kind returns the active variant.
func (d Dispatch) Kind() Kind {
	return d.kind
}

func (d Dispatch) active() Backend {
	switch d.kind {
	case KindStreaming:
		return d.streaming
	case KindRest:
		return d.rest
	default:
		return unconfigured{}
	}
}

func (d Dispatch) Submit(ctx context.Context, tx []byte) (TxHash, error) {
	return d.active().Submit(ctx, tx)
}

func (d Dispatch) Evaluate(ctx context.Context, tx []byte) (EvaluationResult, error) {
	return d.active().Evaluate(ctx, tx)
}

func (d Dispatch) IsConfirmed(ctx context.Context, hash TxHash) (bool, error) {
	return d.active().IsConfirmed(ctx, hash)
}

func (d Dispatch) GetMetadata(ctx context.Context, hash TxHash) (Metadata, error) {
	return d.active().GetMetadata(ctx, hash)
}

func (d Dispatch) UtxosAt(ctx context.Context, address string) (UtxoSet, error) {
	return d.active().UtxosAt(ctx, address)
}

func (d Dispatch) Close() error {
	return d.active().Close()
}

// unconfigured answers every call of a zero Dispatch.
type unconfigured struct{}

var errNoBackend = fmt.Errorf("%w: no backend selected", ErrUnsupported)

func (unconfigured) Submit(context.Context, []byte) (TxHash, error) {
	return TxHash{}, errNoBackend
}

func (unconfigured) Evaluate(context.Context, []byte) (EvaluationResult, error) {
	return nil, errNoBackend
}

func (unconfigured) IsConfirmed(context.Context, TxHash) (bool, error) {
	return false, errNoBackend
}

func (unconfigured) GetMetadata(context.Context, TxHash) (Metadata, error) {
	return nil, &MetadataError{Kind: MetadataClientError, Err: errNoBackend}
}

func (unconfigured) UtxosAt(context.Context, string) (UtxoSet, error) {
	return nil, errNoBackend
}

func (unconfigured) Close() error {
	return nil
}
