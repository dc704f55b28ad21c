package querybackend

import (
	"errors"
	"fmt"
)

var (
	// ErrTransport wraps connection-level failures (refused, reset, DNS).
	ErrTransport = errors.New("transport error")

	// ErrConnectionFailed resolves every request still pending when the streaming connection breaks.
	ErrConnectionFailed = errors.New("connection failed")

	// ErrConnectionClosed is returned for requests made on, or pending at, a closed connection.
	ErrConnectionClosed = errors.New("connection closed")

	// ErrRequestCancelled resolves a pending request that was cancelled by its caller.
	ErrRequestCancelled = errors.New("request cancelled")

	// ErrTxNotFound is returned by lookups of a transaction the backend does not know.
	ErrTxNotFound = errors.New("transaction not found")

	// ErrTxRejected is returned when the backend refuses a submitted transaction.
	ErrTxRejected = errors.New("transaction rejected")

	// ErrEvaluationFailed is returned when script evaluation reports a failure.
	ErrEvaluationFailed = errors.New("evaluation failed")

	// ErrQueryFailed is returned when a ledger state query is answered with a failure.
	ErrQueryFailed = errors.New("query failed")

	// ErrUnsupported is returned by backends that cannot serve a capability.
	ErrUnsupported = errors.New("operation not supported by backend")
)

// ProtocolDecodeError reports a message that could not be decoded into the
// response shape it claimed to be. Raw keeps the message for diagnostics.
type ProtocolDecodeError struct {
	Raw []byte
	Err error
}

func (e *ProtocolDecodeError) Error() string {
	return fmt.Sprintf("protocol decode error: %v", e.Err)
}

func (e *ProtocolDecodeError) Unwrap() error {
	return e.Err
}

// ServiceError is the error envelope returned by the REST service.
type ServiceError struct {
	StatusCode int    `json:"status_code"`
	Error      string `json:"error"`
	Message    string `json:"message"`
}

// ClientHttpError is a REST call that never produced a response.
type ClientHttpError struct {
	Err error
}

func (e *ClientHttpError) Error() string {
	return fmt.Sprintf("http request failed: %v", e.Err)
}

func (e *ClientHttpError) Unwrap() error {
	return e.Err
}

// ClientHttpResponseError is a non-2xx response whose error envelope was decoded.
type ClientHttpResponseError struct {
	StatusCode int
	Body       ServiceError
}

func (e *ClientHttpResponseError) Error() string {
	return fmt.Sprintf("http status %d: %s: %s", e.StatusCode, e.Body.Error, e.Body.Message)
}

// ClientDecodeJsonError is a response body that could not be decoded. Raw keeps the body.
type ClientDecodeJsonError struct {
	Raw string
	Err error
}

func (e *ClientDecodeJsonError) Error() string {
	return fmt.Sprintf("decode response: %v (body: %q)", e.Err, e.Raw)
}

func (e *ClientDecodeJsonError) Unwrap() error {
	return e.Err
}

// MetadataErrorKind enumerates the three disjoint metadata failures.
type MetadataErrorKind int

const (
	// MetadataNotFound means the transaction is unknown to the backend.
	MetadataNotFound MetadataErrorKind = iota + 1

	// MetadataClientError means the lookup itself failed (transport, decode, service error).
	MetadataClientError

	// MetadataEmptyOrMissing means the transaction exists but carries no metadata.
	MetadataEmptyOrMissing
)

// String returns a short description of the kind.
func (k MetadataErrorKind) String() string {
	switch k {
	case MetadataNotFound:
		return "not found"
	case MetadataClientError:
		return "client error"
	case MetadataEmptyOrMissing:
		return "empty or missing"
	default:
		return "unknown"
	}
}

// MetadataError is the only error type returned by GetMetadata.
type MetadataError struct {
	Kind MetadataErrorKind
	Err  error
}

func (e *MetadataError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("metadata: %s", e.Kind)
	}
	return fmt.Sprintf("metadata: %s: %v", e.Kind, e.Err)
}

func (e *MetadataError) Unwrap() error {
	return e.Err
}

// MetadataErrorKindOf extracts the MetadataErrorKind from err, or 0 when err is not a MetadataError.
func MetadataErrorKindOf(err error) MetadataErrorKind {
	var metadataErr *MetadataError
	if errors.As(err, &metadataErr) {
		return metadataErr.Kind
	}
	return 0
}
