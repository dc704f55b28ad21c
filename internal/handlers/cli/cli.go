package cli

import (
	"context"
	"os"

	"github.com/gabapcia/txbridge/internal/querybackend"
	"github.com/gabapcia/txbridge/internal/txtracker"

	"github.com/urfave/cli/v3"
)

// newApp builds the txbridge command tree.
func newApp(backend querybackend.Backend, tracker txtracker.Service) *cli.Command {
	return &cli.Command{
		EnableShellCompletion: true,
		Name:                  "txbridge",
		Description:           "Submit, evaluate and track Cardano transactions through an Ogmios or Blockfrost backend.",
		Usage:                 "txbridge [command] [flags]",
		Commands: []*cli.Command{
			submitCommand(tracker),
			evaluateCommand(backend),
			finalizeCommand(backend),
			awaitCommand(tracker),
			pendingCommand(tracker),
			confirmedCommand(backend),
			metadataCommand(backend),
			utxosCommand(backend),
		},
	}
}

// Run executes the txbridge CLI with the process arguments.
//
// Commands:
//
//   - `submit`: Submits a serialized transaction and records it as pending.
//   - `evaluate`: Computes the execution units of a transaction's redeemers.
//   - `finalize`: Writes evaluated budgets into the redeemers and sets the script-data hash.
//   - `await`: Waits until a submitted transaction is confirmed.
//   - `pending`: Lists submissions not confirmed yet.
//   - `confirmed`: Reports whether a transaction is on chain.
//   - `metadata`: Prints a transaction's metadata.
//   - `utxos`: Lists the unspent outputs at an address.
func Run(ctx context.Context, backend querybackend.Backend, tracker txtracker.Service) error {
	return newApp(backend, tracker).Run(ctx, os.Args)
}
