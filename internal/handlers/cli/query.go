package cli

import (
	"context"

	"github.com/gabapcia/txbridge/internal/querybackend"

	"github.com/urfave/cli/v3"
)

// confirmedCommand returns a CLI command that reports whether a transaction
// is on chain. It prints "true" or "false".
//
// Usage example:
//
//	txbridge confirmed --tx 7f3a...
func confirmedCommand(backend querybackend.Backend) *cli.Command {
	return &cli.Command{
		Name:        "confirmed",
		Description: "Report whether a transaction has been included in a block.",
		Usage:       "Prints true when the transaction is confirmed, false otherwise.",
		Flags:       []cli.Flag{txHashFlag()},
		Action: func(ctx context.Context, c *cli.Command) error {
			hash, err := readTxHash(c)
			if err != nil {
				return err
			}

			confirmed, err := backend.IsConfirmed(ctx, hash)
			if err != nil {
				return err
			}

			return writeLine(c.Root().Writer, confirmed)
		},
	}
}

// metadataCommand returns a CLI command that prints a transaction's metadata
// as a JSON object of label to hex-encoded CBOR.
func metadataCommand(backend querybackend.Backend) *cli.Command {
	return &cli.Command{
		Name:        "metadata",
		Description: "Print the metadata attached to a transaction.",
		Usage:       "Prints each metadata label with its CBOR value in hex.",
		Flags:       []cli.Flag{txHashFlag()},
		Action: func(ctx context.Context, c *cli.Command) error {
			hash, err := readTxHash(c)
			if err != nil {
				return err
			}

			metadata, err := backend.GetMetadata(ctx, hash)
			if err != nil {
				return err
			}

			return writeJSON(c.Root().Writer, metadataView(metadata))
		},
	}
}

// utxosCommand returns a CLI command that lists the unspent outputs at an address.
//
// Usage example:
//
//	txbridge utxos --address addr_test1...
func utxosCommand(backend querybackend.Backend) *cli.Command {
	return &cli.Command{
		Name:        "utxos",
		Description: "List the unspent outputs locked at an address.",
		Usage:       "Prints every output at the address ordered by transaction id and index.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "address",
				Usage:    "Bech32 address to query",
				Required: true,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			utxos, err := backend.UtxosAt(ctx, c.String("address"))
			if err != nil {
				return err
			}

			return writeJSON(c.Root().Writer, utxoView(utxos))
		},
	}
}
