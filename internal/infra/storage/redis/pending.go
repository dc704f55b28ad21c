package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/gabapcia/txbridge/internal/querybackend"
	"github.com/gabapcia/txbridge/internal/txtracker"
)

// pendingKey is the hash holding one field per pending submission, keyed by
// transaction hash.
const pendingKey = keyPrefix + ":pending"

func encodeSubmission(s txtracker.Submission) (string, string, error) {
	value, err := json.Marshal(s)
	if err != nil {
		return "", "", err
	}
	return s.TxHash.String(), string(value), nil
}

func decodeSubmissions(fields map[string]string) ([]txtracker.Submission, error) {
	submissions := make([]txtracker.Submission, 0, len(fields))
	for field, value := range fields {
		var s txtracker.Submission
		if err := json.Unmarshal([]byte(value), &s); err != nil {
			return nil, fmt.Errorf("decode pending submission %s: %w", field, err)
		}
		submissions = append(submissions, s)
	}

	txtracker.SortSubmissions(submissions)
	return submissions, nil
}

// SavePending stores s in the pending hash, replacing a previous record of the
// same transaction.
func (c *client) SavePending(ctx context.Context, s txtracker.Submission) error {
	field, value, err := encodeSubmission(s)
	if err != nil {
		return err
	}
	return c.conn.HSet(ctx, pendingKey, field, value).Err()
}

// RemovePending deletes the record of hash, if any.
func (c *client) RemovePending(ctx context.Context, hash querybackend.TxHash) error {
	return c.conn.HDel(ctx, pendingKey, hash.String()).Err()
}

// ListPending reads every pending submission, oldest first.
func (c *client) ListPending(ctx context.Context) ([]txtracker.Submission, error) {
	fields, err := c.conn.HGetAll(ctx, pendingKey).Result()
	if err != nil {
		return nil, err
	}
	return decodeSubmissions(fields)
}

// Ensure the client satisfies the PendingStorage interface at compile time.
var _ txtracker.PendingStorage = new(client)
