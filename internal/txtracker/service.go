// Package txtracker submits finalized transactions through a query backend and
// follows them until the ledger includes them.
package txtracker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gabapcia/txbridge/internal/pkg/logger"
	"github.com/gabapcia/txbridge/internal/pkg/resilience/retry"
	"github.com/gabapcia/txbridge/internal/querybackend"
)

// ErrNotConfirmed is returned by AwaitConfirmed when the transaction is still
// unconfirmed after the last polling attempt.
var ErrNotConfirmed = errors.New("transaction not confirmed")

// errStillPending marks a poll that found the transaction unconfirmed.
var errStillPending = errors.New("transaction still pending")

// Service submits transactions and tracks them until confirmation.
//
// Implementations delegate network access to the configured query backend and
// keep unconfirmed submissions in a PendingStorage, so that they can be listed
// and resumed after a restart.
type Service interface {
	// Submit sends the serialized transaction and records it as pending.
	//
	// Parameters:
	//   - ctx: controls cancellation and timeout.
	//   - tx: the finalized, signed transaction in CBOR.
	//
	// Returns:
	//   - The transaction id assigned by the backend.
	//   - querybackend.ErrTxRejected when the ledger refuses the transaction,
	//     or another backend error when it cannot be sent.
	//   - A wrapped storage error when the transaction was accepted but could
	//     not be recorded. The returned hash is valid alongside this error.
	Submit(ctx context.Context, tx []byte) (querybackend.TxHash, error)

	// AwaitConfirmed polls the backend until the transaction is confirmed,
	// then forgets it.
	//
	// Parameters:
	//   - ctx: controls cancellation and timeout. Cancelling stops polling.
	//   - hash: the id returned by Submit.
	//
	// Returns:
	//   - nil once the transaction is on chain and removed from pending storage.
	//   - ErrNotConfirmed when every polling attempt found it unconfirmed.
	//   - The last backend or storage error otherwise.
	AwaitConfirmed(ctx context.Context, hash querybackend.TxHash) error

	// Pending lists the submissions that were not confirmed yet.
	//
	// Parameters:
	//   - ctx: controls cancellation and timeout.
	//
	// Returns:
	//   - The pending submissions, oldest first.
	//   - An error if the pending storage cannot be read.
	Pending(ctx context.Context) ([]Submission, error)
}

type service struct {
	backend        querybackend.Backend
	pendingStorage PendingStorage
	retry          retry.Retry
	now            func() time.Time
}

var _ Service = (*service)(nil)

type config struct {
	pendingStorage PendingStorage
	retry          retry.Retry
}

// Option defines a functional option for configuring the service.
type Option func(*config)

// WithPendingStorage sets where pending submissions are kept.
// Default: an in-process store that is lost on exit.
func WithPendingStorage(ps PendingStorage) Option {
	return func(c *config) {
		c.pendingStorage = ps
	}
}

// WithRetry sets the polling policy of AwaitConfirmed.
// Default: 10 attempts, 2s initial delay, 20s max delay.
func WithRetry(r retry.Retry) Option {
	return func(c *config) {
		c.retry = r
	}
}

// New creates a tracker submitting through backend.
func New(backend querybackend.Backend, opts ...Option) *service {
	cfg := config{
		pendingStorage: NewMemoryStorage(),
		retry: retry.New(
			retry.WithAttempts(10),
			retry.WithDelay(2*time.Second),
			retry.WithMaxDelay(20*time.Second),
		),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return &service{
		backend:        backend,
		pendingStorage: cfg.pendingStorage,
		retry:          cfg.retry,
		now:            time.Now,
	}
}

func (s *service) Submit(ctx context.Context, tx []byte) (querybackend.TxHash, error) {
	hash, err := s.backend.Submit(ctx, tx)
	if err != nil {
		return querybackend.TxHash{}, err
	}

	logger.Info(ctx, "transaction submitted", "tx.hash", hash.String())

	submission := Submission{TxHash: hash, SubmittedAt: s.now().UTC()}
	if err := s.pendingStorage.SavePending(ctx, submission); err != nil {
		return hash, fmt.Errorf("record pending %s: %w", hash, err)
	}

	return hash, nil
}

func (s *service) AwaitConfirmed(ctx context.Context, hash querybackend.TxHash) error {
	attempt := 0
	err := s.retry.Execute(ctx, func() error {
		attempt++

		confirmed, err := s.backend.IsConfirmed(ctx, hash)
		if err != nil {
			logger.Warn(ctx, "confirmation check failed", "tx.hash", hash.String(), "attempt", attempt, "error", err)
			return err
		}
		if !confirmed {
			logger.Debug(ctx, "transaction not confirmed yet", "tx.hash", hash.String(), "attempt", attempt)
			return errStillPending
		}
		return nil
	})

	switch {
	case errors.Is(err, errStillPending):
		return fmt.Errorf("%w: %s after %d attempts", ErrNotConfirmed, hash, attempt)
	case err != nil:
		return err
	}

	logger.Info(ctx, "transaction confirmed", "tx.hash", hash.String(), "attempts", attempt)

	return s.pendingStorage.RemovePending(ctx, hash)
}

func (s *service) Pending(ctx context.Context) ([]Submission, error) {
	return s.pendingStorage.ListPending(ctx)
}
