package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/tradelog/metrics"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [ledger.tsv]",
	Short: "Diagnose volatility and the profit distribution",
	Long: `Compare the volatility formula with its alternatives and show how wins and
losses are spread across profit buckets. Use it when a metrics run reports
an implausible volatility or Calmar ratio.

Examples:
  tradelog analyze history.tsv
  tradelog analyze --user alice --dataset main`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	addFilterFlags(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	src, err := loadTrades(cmd, args)
	if err != nil {
		return err
	}

	v, err := metrics.CompareVolatility(src.Trades)
	if err != nil {
		return err
	}
	d := metrics.Distribute(src.Trades, nil, nil)

	w := cmd.OutOrStdout()
	fmt.Fprintln(w, "==================================================")
	fmt.Fprintln(w, " Volatility")
	fmt.Fprintln(w, "==================================================")
	fmt.Fprintf(w, "Trades:              %d\n", len(src.Trades))
	fmt.Fprintf(w, "Average Profit:      %.2f\n", v.AverageProfit)
	fmt.Fprintf(w, "Average |Profit|:    %.2f\n", v.AverageAbsProfit)
	fmt.Fprintf(w, "Average Deviation:   %.2f\n", v.AverageAbsDeviation)
	fmt.Fprintf(w, "Std Dev:             %.2f\n", v.StdDev)
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Current:             %.2f%%\n", v.Current)
	fmt.Fprintf(w, "Coeff. of Variation: %.2f%%\n", v.CoefficientOfVariation)
	fmt.Fprintf(w, "vs Mean Deviation:   %.2f%%\n", v.RelativeToDeviation)
	fmt.Fprintf(w, "Normalized:          %.2f%%\n", v.Normalized)
	fmt.Fprintf(w, "Recommendation:      %s\n", v.Recommendation())

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Distribution")
	fmt.Fprintln(w, "--------------------------------------------------")
	fmt.Fprintf(w, "Wins:   %d (%.2f .. %.2f)\n", d.Wins, d.MinWin, d.MaxWin)
	printBuckets(w, d.WinBuckets)
	fmt.Fprintf(w, "Losses: %d (%.2f .. %.2f)\n", d.Losses, d.MinLoss, d.MaxLoss)
	printBuckets(w, d.LossBuckets)
	return nil
}

func printBuckets(w io.Writer, buckets []metrics.BucketCount) {
	for _, b := range buckets {
		fmt.Fprintf(w, "  %-8s %d\n", b.Label, b.Count)
	}
}
