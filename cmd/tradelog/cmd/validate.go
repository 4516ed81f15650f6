package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"github.com/rustyeddy/tradelog/ledger"
)

var validateCmd = &cobra.Command{
	Use:   "validate <ledger.tsv>",
	Short: "Check a ledger export for malformed rows",
	Long: `Parse a ledger export and check every trade row: known type, tradable
symbol, positive size and prices, open and close times in order and a
non-positive commission. Exits non-zero when any row fails.

Example:
  tradelog validate history.tsv`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	loc, err := cfg.Ledger.Location()
	if err != nil {
		return fmt.Errorf("ledger timezone: %w", err)
	}
	l, err := ledger.ParseFile(args[0], loc)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	s := l.Summary()
	fmt.Fprintf(out, "%s: %d rows, %d balance adjustments, %d symbols\n",
		args[0], s.Trades, s.Adjustments, len(s.Symbols))

	errs := multierr.Errors(ledger.Validate(l))
	if len(errs) == 0 {
		fmt.Fprintln(out, "✓ ledger valid")
		return nil
	}
	for _, e := range errs {
		fmt.Fprintf(out, "  %v\n", e)
	}
	return fmt.Errorf("%d problems found", len(errs))
}
