package txfinalize

import (
	"errors"
	"fmt"

	"github.com/gabapcia/txbridge/internal/ledger"
	"github.com/gabapcia/txbridge/internal/querybackend"
)

// ErrMissingBudget is returned when an evaluation has no execution units for a redeemer.
var ErrMissingBudget = errors.New("no execution units for redeemer")

// ApplyEvaluation returns a copy of redeemers whose ExUnits are taken from the
// evaluation result, matched by tag and index. Every redeemer must have a
// budget in result; budgets for purposes without a redeemer are ignored.
func ApplyEvaluation(result querybackend.EvaluationResult, redeemers []Redeemer) ([]Redeemer, error) {
	out := make([]Redeemer, len(redeemers))
	for i, r := range redeemers {
		pointer := querybackend.RedeemerPointer{Tag: r.Tag, Index: r.Index}

		units, ok := result[pointer]
		if !ok {
			return nil, fmt.Errorf("%w %s", ErrMissingBudget, pointer)
		}

		r.ExUnits = units
		out[i] = r
	}
	return out, nil
}

// WitnessRedeemers lifts the redeemers of a witness set back to their domain
// form, keeping their data as RawData.
func WitnessRedeemers(w ledger.WitnessSet) []Redeemer {
	out := make([]Redeemer, 0, len(w.Redeemers))
	for _, r := range w.Redeemers {
		out = append(out, Redeemer{
			Tag:     r.Tag,
			Index:   r.Index,
			Data:    RawData(r.Data),
			ExUnits: r.ExUnits,
		})
	}
	return out
}

// WitnessDatums lifts the datums of a witness set back to RawData.
func WitnessDatums(w ledger.WitnessSet) []PlutusData {
	out := make([]PlutusData, 0, len(w.PlutusData))
	for _, d := range w.PlutusData {
		out = append(out, RawData(d))
	}
	return out
}
