package cli

import (
	"context"

	"github.com/gabapcia/txbridge/internal/querybackend"
	"github.com/gabapcia/txbridge/internal/txtracker"

	"github.com/urfave/cli/v3"
)

// submitCommand returns a CLI command that submits a finalized transaction.
//
// Usage example:
//
//	txbridge submit --tx-file tx.signed --await
func submitCommand(tracker txtracker.Service) *cli.Command {
	return &cli.Command{
		Name:        "submit",
		Description: "Submit a finalized transaction and record it as pending.",
		Usage:       "Submits a transaction and prints its id. With --await, waits for confirmation.",
		Flags: append(transactionFlags(),
			&cli.BoolFlag{
				Name:  "await",
				Usage: "Wait until the transaction is confirmed",
			},
		),
		Action: func(ctx context.Context, c *cli.Command) error {
			tx, err := readTransaction(c)
			if err != nil {
				return err
			}

			hash, err := tracker.Submit(ctx, tx)
			if hash != (querybackend.TxHash{}) {
				if err := writeLine(c.Root().Writer, hash); err != nil {
					return err
				}
			}
			if err != nil {
				return err
			}

			if !c.Bool("await") {
				return nil
			}
			return tracker.AwaitConfirmed(ctx, hash)
		},
	}
}

// evaluateCommand returns a CLI command that prints the execution units of
// every redeemer in a transaction.
//
// Usage example:
//
//	txbridge evaluate --cbor 84a400...
func evaluateCommand(backend querybackend.Backend) *cli.Command {
	return &cli.Command{
		Name:        "evaluate",
		Description: "Evaluate the scripts of a transaction without submitting it.",
		Usage:       "Prints the memory and steps used by each redeemer.",
		Flags:       transactionFlags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			tx, err := readTransaction(c)
			if err != nil {
				return err
			}

			result, err := backend.Evaluate(ctx, tx)
			if err != nil {
				return err
			}

			return writeJSON(c.Root().Writer, evaluationView(result))
		},
	}
}

func awaitCommand(tracker txtracker.Service) *cli.Command {
	return &cli.Command{
		Name:        "await",
		Description: "Wait until a submitted transaction is confirmed.",
		Usage:       "Polls the backend until the transaction is on chain or polling gives up.",
		Flags:       []cli.Flag{txHashFlag()},
		Action: func(ctx context.Context, c *cli.Command) error {
			hash, err := readTxHash(c)
			if err != nil {
				return err
			}

			if err := tracker.AwaitConfirmed(ctx, hash); err != nil {
				return err
			}
			return writeLine(c.Root().Writer, "confirmed")
		},
	}
}

func pendingCommand(tracker txtracker.Service) *cli.Command {
	return &cli.Command{
		Name:        "pending",
		Description: "List submitted transactions that are not confirmed yet.",
		Usage:       "Prints pending submissions, oldest first.",
		Action: func(ctx context.Context, c *cli.Command) error {
			pending, err := tracker.Pending(ctx)
			if err != nil {
				return err
			}

			if pending == nil {
				pending = []txtracker.Submission{}
			}
			return writeJSON(c.Root().Writer, pending)
		},
	}
}
