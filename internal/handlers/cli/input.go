package cli

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/gabapcia/txbridge/internal/ledger"
	"github.com/gabapcia/txbridge/internal/pkg/types"
	"github.com/gabapcia/txbridge/internal/querybackend"

	"github.com/urfave/cli/v3"
)

var (
	// ErrNoTransaction is returned when neither --cbor nor --tx-file is given.
	ErrNoTransaction = errors.New("one of --cbor or --tx-file is required")

	// ErrAmbiguousTransaction is returned when both --cbor and --tx-file are given.
	ErrAmbiguousTransaction = errors.New("--cbor and --tx-file are mutually exclusive")
)

// transactionFlags select the serialized transaction a command works on.
func transactionFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "cbor",
			Usage: "Hex-encoded CBOR of the transaction",
		},
		&cli.StringFlag{
			Name:      "tx-file",
			Usage:     "File holding the transaction: a text envelope with a cborHex field, hex text or raw CBOR",
			TakesFile: true,
		},
	}
}

// textEnvelope is the JSON wrapper written by cardano-cli.
type textEnvelope struct {
	Type    string         `json:"type"`
	CborHex types.HexBytes `json:"cborHex"`
}

// readTransaction returns the serialized transaction chosen by the command's flags.
func readTransaction(c *cli.Command) ([]byte, error) {
	var (
		inline = c.String("cbor")
		path   = c.String("tx-file")
	)

	switch {
	case inline != "" && path != "":
		return nil, ErrAmbiguousTransaction
	case inline != "":
		tx, err := hex.DecodeString(inline)
		if err != nil {
			return nil, fmt.Errorf("--cbor: %w", err)
		}
		return tx, nil
	case path != "":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		return decodeTransactionFile(data)
	default:
		return nil, ErrNoTransaction
	}
}

// decodeTransactionFile accepts a text envelope, hex text or raw CBOR.
func decodeTransactionFile(data []byte) ([]byte, error) {
	trimmed := bytes.TrimSpace(data)

	if len(trimmed) > 0 && trimmed[0] == '{' {
		var envelope textEnvelope
		if err := json.Unmarshal(trimmed, &envelope); err != nil {
			return nil, fmt.Errorf("text envelope: %w", err)
		}
		return envelope.CborHex, nil
	}

	if tx, err := types.HexBytesFromString(string(trimmed)); err == nil {
		return tx, nil
	}

	return data, nil
}

// ErrMissingCostModel is returned when a language the transaction runs has no cost model.
var ErrMissingCostModel = errors.New("no cost model for language")

// readCostModels loads cost models from a JSON file: either a protocol
// parameters document with a "costModels" field or the cost model map itself.
func readCostModels(path string) (ledger.CostModels, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var document map[string]json.RawMessage
	if err := json.Unmarshal(data, &document); err != nil {
		return nil, fmt.Errorf("cost models: %w", err)
	}
	if nested, ok := document["costModels"]; ok {
		data = nested
	}

	var byName map[string][]int64
	if err := json.Unmarshal(data, &byName); err != nil {
		return nil, fmt.Errorf("cost models: %w", err)
	}

	costModels := make(ledger.CostModels, len(byName))
	for name, costs := range byName {
		lang, err := ledger.ParseLanguage(name)
		if err != nil {
			return nil, fmt.Errorf("cost models: %w", err)
		}
		costModels[lang] = costs
	}
	return costModels, nil
}

// selectCostModels keeps the cost models of the languages carried by the
// witness set plus those named in extra, which covers reference scripts.
func selectCostModels(all ledger.CostModels, w ledger.WitnessSet, extra []string) (ledger.CostModels, error) {
	langs := w.Languages()
	for _, name := range extra {
		lang, err := ledger.ParseLanguage(name)
		if err != nil {
			return nil, fmt.Errorf("--language: %w", err)
		}
		langs = append(langs, lang)
	}

	for _, lang := range langs {
		if _, ok := all[lang]; !ok {
			return nil, fmt.Errorf("%w %s", ErrMissingCostModel, lang)
		}
	}
	return all.Only(langs...), nil
}

// txHashFlag selects a transaction by id.
func txHashFlag() cli.Flag {
	return &cli.StringFlag{
		Name:     "tx",
		Usage:    "Transaction id (64 hex characters)",
		Required: true,
	}
}

func readTxHash(c *cli.Command) (querybackend.TxHash, error) {
	hash, err := ledger.Hash32FromHex(c.String("tx"))
	if err != nil {
		return querybackend.TxHash{}, fmt.Errorf("--tx: %w", err)
	}
	return hash, nil
}
