package ledger

import (
	"bytes"
	"fmt"
	"slices"
)

// CostModels maps each Plutus language to its cost model parameters, in the
// order defined by the protocol parameters.
type CostModels map[Language][]int64

// Only returns the cost models of the given languages. The script-data hash
// must cover exactly the languages a transaction runs, so a protocol
// parameter table is cut down with Only before hashing.
func (c CostModels) Only(langs ...Language) CostModels {
	out := make(CostModels, len(langs))
	for _, lang := range langs {
		if costs, ok := c[lang]; ok {
			out[lang] = costs
		}
	}
	return out
}

// languageView is one encoded entry of the language views map.
type languageView struct {
	key   []byte
	value []byte
}

// EncodeLanguageViews produces the language views map that feeds the script-data hash.
//
// PlutusV1 keeps the historical double encoding: its key is the byte string
// holding the encoding of 0, and its value is the byte string holding an
// indefinite-length list of the parameters. Later languages use their number as
// key and a plain definite list as value. Entries are ordered canonically
// (shorter key first, then bytewise).
func EncodeLanguageViews(costModels CostModels) ([]byte, error) {
	views := make([]languageView, 0, len(costModels))
	for lang, costs := range costModels {
		if !lang.Valid() {
			return nil, fmt.Errorf("%w: %d", ErrUnknownLanguage, lang)
		}

		params := make([][]byte, len(costs))
		for i, c := range costs {
			b, err := Marshal(c)
			if err != nil {
				return nil, err
			}
			params[i] = b
		}

		var view languageView
		if lang == PlutusV1 {
			langKey, err := Marshal(uint64(lang))
			if err != nil {
				return nil, err
			}
			if view.key, err = Marshal(langKey); err != nil {
				return nil, err
			}
			if view.value, err = Marshal(EncodeIndefiniteArray(params)); err != nil {
				return nil, err
			}
		} else {
			var err error
			if view.key, err = Marshal(uint64(lang)); err != nil {
				return nil, err
			}
			view.value = EncodeArray(params)
		}

		views = append(views, view)
	}

	slices.SortFunc(views, func(a, b languageView) int {
		if len(a.key) != len(b.key) {
			return len(a.key) - len(b.key)
		}
		return bytes.Compare(a.key, b.key)
	})

	keys := make([][]byte, len(views))
	values := make([][]byte, len(views))
	for i, v := range views {
		keys[i], values[i] = v.key, v.value
	}
	return EncodeMap(keys, values), nil
}

// ScriptDataHash computes the script integrity hash over redeemers, datums and
// cost models. It returns nil when there are neither redeemers nor datums, in
// which case the body must not carry a hash.
//
// With datums but no redeemers the preimage is an empty redeemer list, the
// datums and an empty language views map, whatever cost models are supplied.
func ScriptDataHash(redeemers []Redeemer, datums []Datum, costModels CostModels) (*Hash32, error) {
	if len(redeemers) == 0 && len(datums) == 0 {
		return nil, nil
	}

	var preimage []byte

	if len(redeemers) == 0 {
		encodedDatums, err := Marshal(datums)
		if err != nil {
			return nil, fmt.Errorf("encode datums: %w", err)
		}

		preimage = append(preimage, EncodeArray(nil)...)
		preimage = append(preimage, encodedDatums...)
		preimage = append(preimage, EncodeMap(nil, nil)...)
	} else {
		encodedRedeemers, err := Marshal(redeemers)
		if err != nil {
			return nil, fmt.Errorf("encode redeemers: %w", err)
		}
		preimage = append(preimage, encodedRedeemers...)

		if len(datums) > 0 {
			encodedDatums, err := Marshal(datums)
			if err != nil {
				return nil, fmt.Errorf("encode datums: %w", err)
			}
			preimage = append(preimage, encodedDatums...)
		}

		views, err := EncodeLanguageViews(costModels)
		if err != nil {
			return nil, fmt.Errorf("encode language views: %w", err)
		}
		preimage = append(preimage, views...)
	}

	h := Blake2b256(preimage)
	return &h, nil
}
