package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rustyeddy/tradelog/metrics"
	"github.com/rustyeddy/tradelog/report"
)

var metricsCmd = &cobra.Command{
	Use:   "metrics [ledger.tsv]",
	Short: "Compute performance metrics",
	Long: `Compute trade performance metrics from a ledger export, or from the
configured journal dataset when no file is given.

At least two trades are required after filtering.

Examples:
  tradelog metrics history.tsv
  tradelog metrics history.tsv --symbol USDJPY --session london
  tradelog metrics --user alice --dataset main --format org`,
	Args: cobra.MaximumNArgs(1),
	RunE: runMetrics,
}

var metricsFormat string

func init() {
	rootCmd.AddCommand(metricsCmd)

	metricsCmd.Flags().StringVarP(&metricsFormat, "format", "f", "text", "output format: text, org or json")
	addFilterFlags(metricsCmd)
}

func runMetrics(cmd *cobra.Command, args []string) error {
	switch metricsFormat {
	case "text", "org", "json":
	default:
		return fmt.Errorf("unknown format %q", metricsFormat)
	}

	src, err := loadTrades(cmd, args)
	if err != nil {
		return err
	}

	res, err := metrics.Compute(src.Trades)
	if err != nil {
		return err
	}

	s := report.New(res)
	s.Source = src.Path
	s.UserID = src.UserID
	s.Dataset = src.Dataset
	s.Account = src.Account

	for _, w := range s.Warnings {
		logger.Warn("implausible metric", zap.Stringer("warning", w))
	}

	out := cmd.OutOrStdout()
	switch metricsFormat {
	case "org":
		return report.WriteOrg(out, s)
	case "json":
		return report.WriteJSON(out, s)
	default:
		report.PrintText(out, s)
		return nil
	}
}
