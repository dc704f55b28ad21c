// Package chflow provides context-aware helpers for receiving from Go
// channels, so that waits respect cancellation and deadlines.
package chflow

import (
	"context"
	"errors"
	"time"
)

// ErrClosed is returned by ReceiveWithin when the channel was closed.
var ErrClosed = errors.New("channel closed")

// Receive waits to receive a value from the provided channel or for the context to be canceled.
// It returns the value (zero value if canceled) and a boolean indicating if the receive was successful.
func Receive[T any](ctx context.Context, ch <-chan T) (T, bool) {
	var data T
	select {
	case <-ctx.Done():
		return data, false
	case data, ok := <-ch:
		return data, ok
	}
}

// ReceiveWithin is Receive bounded by timeout as well as ctx. A non-positive
// timeout leaves ctx alone in charge. When nothing was received the error says
// why: the context's error (context.DeadlineExceeded once timeout elapses) or
// ErrClosed.
func ReceiveWithin[T any](ctx context.Context, ch <-chan T, timeout time.Duration) (T, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	data, ok := Receive(ctx, ch)
	switch {
	case ok:
		return data, nil
	case ctx.Err() != nil:
		return data, ctx.Err()
	default:
		return data, ErrClosed
	}
}
