package txtracker

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/gabapcia/txbridge/internal/querybackend"
)

// Submission is a transaction accepted by the backend but not known to be
// confirmed yet.
type Submission struct {
	TxHash      querybackend.TxHash `json:"txHash"`
	SubmittedAt time.Time           `json:"submittedAt"`
}

// PendingStorage persists the submissions awaiting confirmation.
type PendingStorage interface {
	// SavePending records s, replacing any record with the same hash.
	SavePending(ctx context.Context, s Submission) error

	// RemovePending forgets the submission. Removing an unknown hash is not an error.
	RemovePending(ctx context.Context, hash querybackend.TxHash) error

	// ListPending returns every recorded submission, oldest first.
	ListPending(ctx context.Context) ([]Submission, error)
}

// SortSubmissions orders submissions oldest first, breaking ties by hash.
func SortSubmissions(submissions []Submission) {
	slices.SortFunc(submissions, func(a, b Submission) int {
		if c := a.SubmittedAt.Compare(b.SubmittedAt); c != 0 {
			return c
		}
		return slices.Compare(a.TxHash[:], b.TxHash[:])
	})
}

// memoryStorage keeps pending submissions in process memory.
type memoryStorage struct {
	mu      sync.RWMutex
	pending map[querybackend.TxHash]Submission
}

var _ PendingStorage = (*memoryStorage)(nil)

// NewMemoryStorage returns a PendingStorage that lives as long as the process.
func NewMemoryStorage() *memoryStorage {
	return &memoryStorage{
		pending: make(map[querybackend.TxHash]Submission),
	}
}

func (m *memoryStorage) SavePending(_ context.Context, s Submission) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.pending[s.TxHash] = s
	return nil
}

func (m *memoryStorage) RemovePending(_ context.Context, hash querybackend.TxHash) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.pending, hash)
	return nil
}

func (m *memoryStorage) ListPending(_ context.Context) ([]Submission, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	submissions := make([]Submission, 0, len(m.pending))
	for _, s := range m.pending {
		submissions = append(submissions, s)
	}

	SortSubmissions(submissions)
	return submissions, nil
}
