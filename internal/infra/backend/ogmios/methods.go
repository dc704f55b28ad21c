package ogmios

import (
	"context"
	"encoding/hex"

	"github.com/gabapcia/txbridge/internal/ledger"
	"github.com/gabapcia/txbridge/internal/querybackend"
)

// outputReference is an output pointer in the shape Query expects.
type outputReference struct {
	TxID  string `json:"txId"`
	Index uint32 `json:"index"`
}

// Submit sends the serialized transaction as hex through SubmitTx.
func (c *Client) Submit(ctx context.Context, tx []byte) (querybackend.TxHash, error) {
	return call[ledger.Hash32](ctx, c, methodSubmitTx, map[string]string{
		"submit": hex.EncodeToString(tx),
	})
}

// Evaluate runs the transaction's scripts through EvaluateTx.
func (c *Client) Evaluate(ctx context.Context, tx []byte) (querybackend.EvaluationResult, error) {
	return call[querybackend.EvaluationResult](ctx, c, methodEvaluateTx, map[string]string{
		"evaluate": hex.EncodeToString(tx),
	})
}

// IsConfirmed reports whether the first output of the transaction is present
// in the ledger's utxo set.
func (c *Client) IsConfirmed(ctx context.Context, hash querybackend.TxHash) (bool, error) {
	utxos, err := call[querybackend.UtxoSet](ctx, c, methodQuery, map[string]any{
		"query": map[string]any{
			"utxo": []outputReference{{TxID: hash.String(), Index: 0}},
		},
	})
	if err != nil {
		return false, err
	}
	return len(utxos) > 0, nil
}

// GetMetadata is not served by the streaming backend.
func (c *Client) GetMetadata(context.Context, querybackend.TxHash) (querybackend.Metadata, error) {
	return nil, &querybackend.MetadataError{
		Kind: querybackend.MetadataClientError,
		Err:  querybackend.ErrUnsupported,
	}
}

// UtxosAt lists the outputs locked at address.
func (c *Client) UtxosAt(ctx context.Context, address string) (querybackend.UtxoSet, error) {
	return call[querybackend.UtxoSet](ctx, c, methodQuery, map[string]any{
		"query": map[string]any{
			"utxo": []string{address},
		},
	})
}
