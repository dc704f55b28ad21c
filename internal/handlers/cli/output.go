package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"slices"

	"github.com/gabapcia/txbridge/internal/ledger"
	"github.com/gabapcia/txbridge/internal/pkg/types"
	"github.com/gabapcia/txbridge/internal/querybackend"
)

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeLine(w io.Writer, v any) error {
	_, err := fmt.Fprintln(w, v)
	return err
}

// evaluationView keys execution units by "<tag>:<index>".
func evaluationView(result querybackend.EvaluationResult) map[string]ledger.ExUnits {
	view := make(map[string]ledger.ExUnits, len(result))
	for pointer, units := range result {
		view[pointer.String()] = units
	}
	return view
}

// metadataView renders each metadatum as hex.
func metadataView(metadata querybackend.Metadata) map[uint64]types.HexBytes {
	view := make(map[uint64]types.HexBytes, len(metadata))
	for label, value := range metadata {
		view[label] = value
	}
	return view
}

type utxo struct {
	TxID   string                `json:"txId"`
	Index  uint32                `json:"index"`
	Output querybackend.TxOutput `json:"output"`
}

// utxoView lists outputs ordered by reference.
func utxoView(utxos querybackend.UtxoSet) []utxo {
	refs := make([]ledger.TransactionInput, 0, len(utxos))
	for ref := range utxos {
		refs = append(refs, ref)
	}

	slices.SortFunc(refs, func(a, b ledger.TransactionInput) int {
		if c := bytes.Compare(a.TxID[:], b.TxID[:]); c != 0 {
			return c
		}
		return int(a.Index) - int(b.Index)
	})

	view := make([]utxo, 0, len(refs))
	for _, ref := range refs {
		view = append(view, utxo{TxID: ref.TxID.String(), Index: ref.Index, Output: utxos[ref]})
	}
	return view
}
