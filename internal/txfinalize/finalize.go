// Package txfinalize attaches witnesses to transactions and binds them to the
// body through the script-data hash.
//
// Every operation works on a copy: on failure the caller's transaction is
// returned untouched, on success the returned transaction carries all the
// changes. There is no partially modified result.
package txfinalize

import (
	"errors"
	"fmt"

	"github.com/gabapcia/txbridge/internal/ledger"
	"github.com/gabapcia/txbridge/internal/querybackend"
)

// ModifyTxErrorKind tells which conversion step rejected the modification.
type ModifyTxErrorKind int

const (
	// ConvertWitnesses means a datum, redeemer or script could not be converted to its wire form.
	ConvertWitnesses ModifyTxErrorKind = iota + 1

	// ConvertWitnessSet means the assembled witness set could not be encoded.
	ConvertWitnessSet
)

// String returns a short description of the kind.
func (k ModifyTxErrorKind) String() string {
	switch k {
	case ConvertWitnesses:
		return "convert witnesses"
	case ConvertWitnessSet:
		return "convert witness set"
	default:
		return "unknown"
	}
}

// ModifyTxError is returned by every finalizer operation that fails.
type ModifyTxError struct {
	Kind ModifyTxErrorKind
	Err  error
}

func (e *ModifyTxError) Error() string {
	return fmt.Sprintf("modify transaction: %s: %v", e.Kind, e.Err)
}

func (e *ModifyTxError) Unwrap() error {
	return e.Err
}

// IsModifyTxError reports whether err is a ModifyTxError of the given kind.
func IsModifyTxError(err error, kind ModifyTxErrorKind) bool {
	var modifyErr *ModifyTxError
	return errors.As(err, &modifyErr) && modifyErr.Kind == kind
}

func convertAll[In any, Out any](in []In, convert func(In) (Out, error)) ([]Out, error) {
	out := make([]Out, 0, len(in))
	for _, v := range in {
		w, err := convert(v)
		if err != nil {
			return nil, &ModifyTxError{Kind: ConvertWitnesses, Err: err}
		}
		out = append(out, w)
	}
	return out, nil
}

func convertDatums(datums []PlutusData) ([]ledger.Datum, error) {
	return convertAll(datums, EncodeData)
}

// convertRedeemers converts redeemers to their wire form. Two redeemers may
// not point at the same script purpose.
func convertRedeemers(redeemers []Redeemer) ([]ledger.Redeemer, error) {
	seen := make(map[querybackend.RedeemerPointer]struct{}, len(redeemers))
	for _, r := range redeemers {
		pointer := querybackend.RedeemerPointer{Tag: r.Tag, Index: r.Index}
		if _, dup := seen[pointer]; dup {
			return nil, &ModifyTxError{Kind: ConvertWitnesses, Err: fmt.Errorf("%w: %s", ErrDuplicateRedeemer, pointer)}
		}
		seen[pointer] = struct{}{}
	}
	return convertAll(redeemers, Redeemer.toWire)
}

// mergeWitnesses unions extra into a copy of tx's witness set and checks the
// result can be encoded before returning the updated copy.
func mergeWitnesses(tx ledger.Transaction, extra ledger.WitnessSet) (ledger.Transaction, error) {
	merged, err := tx.WitnessSet.Merge(extra)
	if err != nil {
		return tx, &ModifyTxError{Kind: ConvertWitnessSet, Err: err}
	}

	if _, err := merged.Bytes(); err != nil {
		return tx, &ModifyTxError{Kind: ConvertWitnessSet, Err: err}
	}

	out := tx.Clone()
	out.WitnessSet = merged
	return out, nil
}

// AttachDatums adds datums to the witness set.
func AttachDatums(datums []PlutusData, tx ledger.Transaction) (ledger.Transaction, error) {
	wire, err := convertDatums(datums)
	if err != nil {
		return tx, err
	}
	return mergeWitnesses(tx, ledger.WitnessSet{PlutusData: wire})
}

// AttachRedeemers adds redeemers to the witness set.
func AttachRedeemers(redeemers []Redeemer, tx ledger.Transaction) (ledger.Transaction, error) {
	wire, err := convertRedeemers(redeemers)
	if err != nil {
		return tx, err
	}
	return mergeWitnesses(tx, ledger.WitnessSet{Redeemers: wire})
}

// AttachScripts adds Plutus scripts to the witness set, each under its language's field.
func AttachScripts(scripts []PlutusScript, tx ledger.Transaction) (ledger.Transaction, error) {
	wire, err := convertAll(scripts, PlutusScript.toWire)
	if err != nil {
		return tx, err
	}

	var extra ledger.WitnessSet
	if err := extra.AddScripts(wire...); err != nil {
		return tx, &ModifyTxError{Kind: ConvertWitnesses, Err: err}
	}
	return mergeWitnesses(tx, extra)
}

// SetScriptDataHash computes the script-data hash over the given redeemers,
// datums and cost models and writes it into the body. It must only be called
// once the indices the redeemers point at are final.
//
// The result depends only on its arguments and the body: the witness set is
// not consulted.
func SetScriptDataHash(redeemers []Redeemer, datums []PlutusData, costModels ledger.CostModels, tx ledger.Transaction) (ledger.Transaction, error) {
	wireRedeemers, err := convertRedeemers(redeemers)
	if err != nil {
		return tx, err
	}

	wireDatums, err := convertDatums(datums)
	if err != nil {
		return tx, err
	}

	return setScriptDataHash(wireRedeemers, wireDatums, costModels, tx)
}

func setScriptDataHash(redeemers []ledger.Redeemer, datums []ledger.Datum, costModels ledger.CostModels, tx ledger.Transaction) (ledger.Transaction, error) {
	hash, err := ledger.ScriptDataHash(redeemers, datums, costModels)
	if err != nil {
		return tx, &ModifyTxError{Kind: ConvertWitnessSet, Err: err}
	}

	out := tx.Clone()
	out.Body.ScriptDataHash = hash
	return out, nil
}

// Finalizer finalizes balanced transactions against a fixed cost model table.
type Finalizer struct {
	costModels ledger.CostModels
}

// New returns a Finalizer hashing with costModels. The table must hold only
// the languages of the scripts the transaction runs, reference scripts
// included: the ledger hashes exactly those and rejects any other view. Use
// ledger.CostModels.Only to cut the protocol parameter table down.
func New(costModels ledger.CostModels) *Finalizer {
	return &Finalizer{costModels: costModels}
}

// Finalize is run once after balancing has re-ordered the body. Redeemers
// already in the witness set point at pre-balancing positions, so they are
// dropped first; then the fresh redeemers and the datums are attached and the
// script-data hash is computed over the resulting witness set. Redeemers are
// not deduplicated: two pointing at the same purpose are rejected with
// ErrDuplicateRedeemer, so the result holds exactly the redeemers supplied.
func (f *Finalizer) Finalize(redeemers []Redeemer, datums []PlutusData, tx ledger.Transaction) (ledger.Transaction, error) {
	wireRedeemers, err := convertRedeemers(redeemers)
	if err != nil {
		return tx, err
	}

	wireDatums, err := convertDatums(datums)
	if err != nil {
		return tx, err
	}

	stripped := tx.Clone()
	stripped.WitnessSet.Redeemers = nil

	updated, err := mergeWitnesses(stripped, ledger.WitnessSet{
		PlutusData: wireDatums,
		Redeemers:  wireRedeemers,
	})
	if err != nil {
		return tx, err
	}

	finalized, err := setScriptDataHash(updated.WitnessSet.Redeemers, updated.WitnessSet.PlutusData, f.costModels, updated)
	if err != nil {
		return tx, err
	}
	return finalized, nil
}
