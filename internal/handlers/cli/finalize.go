package cli

import (
	"context"

	"github.com/gabapcia/txbridge/internal/ledger"
	"github.com/gabapcia/txbridge/internal/pkg/types"
	"github.com/gabapcia/txbridge/internal/querybackend"
	"github.com/gabapcia/txbridge/internal/txfinalize"

	"github.com/urfave/cli/v3"
)

// finalizeCommand returns a CLI command that evaluates a balanced transaction,
// writes the measured budgets into its redeemers and binds the witnesses to the
// body with the script-data hash.
//
// The transaction must already carry its redeemers, datums and scripts. The
// finalized transaction is printed as hex CBOR, ready to be signed.
//
// Usage example:
//
//	txbridge finalize --tx-file tx.balanced --cost-models protocol.json
func finalizeCommand(backend querybackend.Backend) *cli.Command {
	return &cli.Command{
		Name:        "finalize",
		Description: "Set redeemer budgets from an evaluation and recompute the script-data hash.",
		Usage:       "Prints the finalized transaction as hex CBOR.",
		Flags: append(transactionFlags(),
			&cli.StringFlag{
				Name:      "cost-models",
				Usage:     "JSON file with the cost models, or a protocol parameters file holding them",
				Required:  true,
				TakesFile: true,
			},
			&cli.StringSliceFlag{
				Name:  "language",
				Usage: "Plutus language run through a reference script (PlutusV1, PlutusV2, PlutusV3)",
			},
		),
		Action: func(ctx context.Context, c *cli.Command) error {
			raw, err := readTransaction(c)
			if err != nil {
				return err
			}

			tx, err := ledger.DecodeTransaction(raw)
			if err != nil {
				return err
			}

			all, err := readCostModels(c.String("cost-models"))
			if err != nil {
				return err
			}

			costModels, err := selectCostModels(all, tx.WitnessSet, c.StringSlice("language"))
			if err != nil {
				return err
			}

			finalized, err := finalize(ctx, backend, raw, tx, costModels)
			if err != nil {
				return err
			}

			out, err := finalized.Bytes()
			if err != nil {
				return err
			}
			return writeLine(c.Root().Writer, types.HexBytes(out))
		},
	}
}

// finalize evaluates raw and finalizes tx, its decoded form, with the budgets.
func finalize(ctx context.Context, backend querybackend.Backend, raw []byte, tx ledger.Transaction, costModels ledger.CostModels) (ledger.Transaction, error) {
	result, err := backend.Evaluate(ctx, raw)
	if err != nil {
		return tx, err
	}

	redeemers, err := txfinalize.ApplyEvaluation(result, txfinalize.WitnessRedeemers(tx.WitnessSet))
	if err != nil {
		return tx, err
	}

	datums := txfinalize.WitnessDatums(tx.WitnessSet)
	return txfinalize.New(costModels).Finalize(redeemers, datums, tx)
}
