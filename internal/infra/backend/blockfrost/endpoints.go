package blockfrost

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gabapcia/txbridge/internal/ledger"
	"github.com/gabapcia/txbridge/internal/pkg/transport/jsonwsp"
	"github.com/gabapcia/txbridge/internal/querybackend"

	"github.com/fxamacker/cbor/v2"
)

// cborContentType is the body type of both transaction endpoints. Submission
// sends the raw bytes while evaluation sends their hex encoding.
const cborContentType = "application/cbor"

// policyIDHexLength splits an asset unit into policy id and asset name.
const policyIDHexLength = 56

// Submit posts the raw serialized transaction and returns its id.
func (c *Client) Submit(ctx context.Context, tx []byte) (querybackend.TxHash, error) {
	res, err := c.do(ctx, http.MethodPost, "/tx/submit", cborContentType, tx)
	if err != nil {
		return querybackend.TxHash{}, err
	}
	if !res.ok() {
		return querybackend.TxHash{}, errorFromResponse(res)
	}

	var id string
	if err := decodeJSON(res, &id); err != nil {
		return querybackend.TxHash{}, err
	}

	hash, err := ledger.Hash32FromHex(id)
	if err != nil {
		return querybackend.TxHash{}, &querybackend.ClientDecodeJsonError{Raw: string(res.body), Err: err}
	}
	return hash, nil
}

// Evaluate posts the hex-encoded transaction for script evaluation.
func (c *Client) Evaluate(ctx context.Context, tx []byte) (querybackend.EvaluationResult, error) {
	res, err := c.do(ctx, http.MethodPost, "/utils/txs/evaluate", cborContentType, []byte(hex.EncodeToString(tx)))
	if err != nil {
		return nil, err
	}
	if !res.ok() {
		return nil, errorFromResponse(res)
	}

	var envelope jsonwsp.Response
	if err := decodeJSON(res, &envelope); err != nil {
		return nil, err
	}
	if err := envelope.Err(); err != nil {
		return nil, err
	}

	key, payload, err := jsonwsp.SplitTagged(envelope.Result)
	if err != nil {
		return nil, &querybackend.ClientDecodeJsonError{Raw: string(res.body), Err: err}
	}

	switch key {
	case "EvaluationResult":
		var raw map[string]ledger.ExUnits
		if err := json.Unmarshal(payload, &raw); err != nil {
			return nil, &querybackend.ClientDecodeJsonError{Raw: string(res.body), Err: err}
		}

		result, err := querybackend.NewEvaluationResult(raw)
		if err != nil {
			return nil, &querybackend.ClientDecodeJsonError{Raw: string(res.body), Err: err}
		}
		return result, nil
	case "EvaluationFailure":
		return nil, fmt.Errorf("%w: %s", querybackend.ErrEvaluationFailed, payload)
	default:
		return nil, &querybackend.ClientDecodeJsonError{Raw: string(res.body), Err: fmt.Errorf("unknown evaluation result %q", key)}
	}
}

// transaction looks a transaction up by hash. Unknown transactions yield ErrTxNotFound.
func (c *Client) transaction(ctx context.Context, hash querybackend.TxHash) (response, error) {
	res, err := c.get(ctx, "/txs/"+hash.String())
	if err != nil {
		return response{}, err
	}

	switch {
	case res.status == http.StatusNotFound:
		return response{}, querybackend.ErrTxNotFound
	case !res.ok():
		return response{}, errorFromResponse(res)
	default:
		return res, nil
	}
}

// IsConfirmed reports whether the service knows the transaction, which it
// only does once the transaction is in a block.
func (c *Client) IsConfirmed(ctx context.Context, hash querybackend.TxHash) (bool, error) {
	_, err := c.transaction(ctx, hash)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, querybackend.ErrTxNotFound):
		return false, nil
	default:
		return false, err
	}
}

// metadataEntry is one label of a transaction's metadata.
type metadataEntry struct {
	Label        string  `json:"label"`
	Metadata     *string `json:"metadata"`
	CborMetadata *string `json:"cbor_metadata"`
}

// cborHex returns the entry's encoded metadata as hex.
func (e metadataEntry) cborHex() string {
	if e.Metadata != nil && *e.Metadata != "" {
		return *e.Metadata
	}
	if e.CborMetadata != nil {
		return strings.TrimPrefix(*e.CborMetadata, `\x`)
	}
	return ""
}

func metadataErr(kind querybackend.MetadataErrorKind, err error) error {
	return &querybackend.MetadataError{Kind: kind, Err: err}
}

// GetMetadata fetches the transaction's metadata, keyed by label.
func (c *Client) GetMetadata(ctx context.Context, hash querybackend.TxHash) (querybackend.Metadata, error) {
	res, err := c.get(ctx, "/txs/"+hash.String()+"/metadata/cbor")
	if err != nil {
		return nil, metadataErr(querybackend.MetadataClientError, err)
	}

	switch {
	case res.status == http.StatusNotFound:
		return nil, metadataErr(querybackend.MetadataNotFound, querybackend.ErrTxNotFound)
	case !res.ok():
		return nil, metadataErr(querybackend.MetadataClientError, errorFromResponse(res))
	}

	var entries []metadataEntry
	if err := decodeJSON(res, &entries); err != nil {
		return nil, metadataErr(querybackend.MetadataClientError, err)
	}

	metadata := make(querybackend.Metadata, len(entries))
	for _, entry := range entries {
		encoded := entry.cborHex()
		if encoded == "" {
			continue
		}

		labels, err := decodeMetadataMap(encoded)
		if err != nil {
			return nil, metadataErr(querybackend.MetadataClientError, &querybackend.ClientDecodeJsonError{Raw: encoded, Err: err})
		}

		for label, value := range labels {
			metadata[label] = value
		}
	}

	if len(metadata) == 0 {
		return nil, metadataErr(querybackend.MetadataEmptyOrMissing, nil)
	}
	return metadata, nil
}

// decodeMetadataMap decodes a hex CBOR map of label to metadatum.
func decodeMetadataMap(encoded string) (map[uint64][]byte, error) {
	raw, err := hex.DecodeString(encoded)
	if err != nil {
		return nil, err
	}

	var labels map[uint64]cbor.RawMessage
	if err := ledger.Unmarshal(raw, &labels); err != nil {
		return nil, err
	}

	out := make(map[uint64][]byte, len(labels))
	for label, value := range labels {
		out[label] = []byte(value)
	}
	return out, nil
}

// utxoAmount is one asset quantity of an output.
type utxoAmount struct {
	Unit     string `json:"unit"`
	Quantity string `json:"quantity"`
}

// utxoEntry is an output as listed by the address endpoint.
type utxoEntry struct {
	TxHash              string       `json:"tx_hash"`
	OutputIndex         uint32       `json:"output_index"`
	Address             string       `json:"address"`
	Amount              []utxoAmount `json:"amount"`
	DataHash            *string      `json:"data_hash"`
	InlineDatum         *string      `json:"inline_datum"`
	ReferenceScriptHash *string      `json:"reference_script_hash"`
}

func (e utxoEntry) toUtxo() (ledger.TransactionInput, querybackend.TxOutput, error) {
	txID, err := ledger.Hash32FromHex(e.TxHash)
	if err != nil {
		return ledger.TransactionInput{}, querybackend.TxOutput{}, err
	}

	output := querybackend.TxOutput{Address: e.Address}
	for _, amount := range e.Amount {
		quantity, err := strconv.ParseUint(amount.Quantity, 10, 64)
		if err != nil {
			return ledger.TransactionInput{}, querybackend.TxOutput{}, fmt.Errorf("quantity of %s: %w", amount.Unit, err)
		}

		if amount.Unit == "lovelace" {
			output.Value.Coins = quantity
			continue
		}

		if len(amount.Unit) < policyIDHexLength {
			return ledger.TransactionInput{}, querybackend.TxOutput{}, fmt.Errorf("invalid asset unit %q", amount.Unit)
		}
		if output.Value.Assets == nil {
			output.Value.Assets = make(map[string]uint64)
		}
		output.Value.Assets[amount.Unit[:policyIDHexLength]+"."+amount.Unit[policyIDHexLength:]] = quantity
	}

	if e.DataHash != nil {
		output.DatumHash = *e.DataHash
	}
	if e.InlineDatum != nil {
		output.Datum = *e.InlineDatum
	}
	if e.ReferenceScriptHash != nil {
		output.ScriptRef = *e.ReferenceScriptHash
	}

	return ledger.TransactionInput{TxID: txID, Index: e.OutputIndex}, output, nil
}

// UtxosAt lists every output at address, following pagination. An address the
// service has never seen has no outputs.
func (c *Client) UtxosAt(ctx context.Context, address string) (querybackend.UtxoSet, error) {
	utxos := make(querybackend.UtxoSet)

	for page := 1; ; page++ {
		query := url.Values{}
		query.Set("page", strconv.Itoa(page))
		query.Set("count", strconv.Itoa(c.pageSize))

		res, err := c.get(ctx, "/addresses/"+url.PathEscape(address)+"/utxos?"+query.Encode())
		if err != nil {
			return nil, err
		}

		switch {
		case res.status == http.StatusNotFound:
			return utxos, nil
		case !res.ok():
			return nil, errorFromResponse(res)
		}

		var entries []utxoEntry
		if err := decodeJSON(res, &entries); err != nil {
			return nil, err
		}

		for _, entry := range entries {
			input, output, err := entry.toUtxo()
			if err != nil {
				return nil, &querybackend.ClientDecodeJsonError{Raw: string(res.body), Err: err}
			}
			utxos[input] = output
		}

		if len(entries) < c.pageSize {
			return utxos, nil
		}
	}
}
