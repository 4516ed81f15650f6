package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/rustyeddy/tradelog/journal"
	"github.com/rustyeddy/tradelog/ledger"
)

var importCmd = &cobra.Command{
	Use:   "import <ledger.tsv>",
	Short: "Import a ledger export into the journal",
	Long: `Parse a tab-separated ledger export and store its trades and balance
adjustments under the configured user and dataset. Rows whose ticket is
already stored in the dataset are skipped, so re-importing is safe.

The ledger is validated first; any invalid row aborts the import unless
--skip-invalid is given.

Examples:
  tradelog import history.tsv --user alice --dataset main
  tradelog import history.tsv --skip-invalid`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

var importSkipInvalid bool

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().BoolVar(&importSkipInvalid, "skip-invalid", false, "drop invalid rows instead of aborting")
}

func runImport(cmd *cobra.Command, args []string) error {
	user, err := currentUser()
	if err != nil {
		return err
	}
	loc, err := cfg.Ledger.Location()
	if err != nil {
		return fmt.Errorf("ledger timezone: %w", err)
	}

	l, err := ledger.ParseFile(args[0], loc)
	if err != nil {
		return err
	}

	if importSkipInvalid {
		valid := l.Rows[:0]
		for _, r := range l.Rows {
			if err := ledger.ValidateRow(r); err != nil {
				logger.Warn("skipping row", zap.Error(err))
				continue
			}
			valid = append(valid, r)
		}
		l.Rows = valid
	} else if err := ledger.Validate(l); err != nil {
		for _, e := range multierr.Errors(err) {
			logger.Error("invalid row", zap.Error(e))
		}
		return fmt.Errorf("%s: %d invalid rows", args[0], len(multierr.Errors(err)))
	}

	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	dataset := cfg.Journal.Dataset
	trades, txs := journal.FromLedger(l, user, dataset)

	added, err := store.Import(cmd.Context(), trades, txs)
	if err != nil {
		return fmt.Errorf("import: %w", err)
	}

	logger.Info("ledger imported",
		zap.String("file", args[0]),
		zap.String("user", user),
		zap.String("dataset", dataset),
		zap.Int("trades", added.Trades),
		zap.Int("transactions", added.Transactions),
	)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Imported %s into %s/%s\n", args[0], user, dataset)
	fmt.Fprintf(out, "  Trades:       %d added, %d already present\n", added.Trades, len(trades)-added.Trades)
	fmt.Fprintf(out, "  Transactions: %d added, %d already present\n", added.Transactions, len(txs)-added.Transactions)
	return nil
}
