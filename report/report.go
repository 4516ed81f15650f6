// Package report renders a metrics computation for the console, Org-mode
// notes and JSON consumers.
package report

import (
	"fmt"
	"io"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/rustyeddy/tradelog/ledger"
	"github.com/rustyeddy/tradelog/metrics"
	"github.com/rustyeddy/tradelog/pkg/id"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Summary is one metrics run with its presentation data.
type Summary struct {
	RunID   string    `json:"run_id"`
	Created time.Time `json:"created"`
	UserID  string    `json:"user_id,omitempty"`
	Dataset string    `json:"dataset,omitempty"`
	Source  string    `json:"source,omitempty"`

	Metrics   metrics.Result                  `json:"metrics"`
	Tiers     map[metrics.Metric]metrics.Tier `json:"tiers"`
	Undefined []metrics.Metric                `json:"undefined,omitempty"`
	Warnings  []metrics.Warning               `json:"warnings,omitempty"`

	// Account is set when the run came from a ledger file.
	Account *ledger.Summary `json:"account,omitempty"`
}

// New wraps a result with a fresh run id, its tiers and warnings.
func New(r metrics.Result) Summary {
	s := Summary{
		RunID:    id.New(),
		Created:  time.Now().UTC(),
		Metrics:  r,
		Tiers:    r.Tiers(),
		Warnings: metrics.Warnings(r),
	}
	for _, m := range metrics.AllMetrics {
		if r.Undefined(m) {
			s.Undefined = append(s.Undefined, m)
		}
	}
	return s
}

// WriteJSON encodes s as indented JSON.
func WriteJSON(w io.Writer, s Summary) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}

var metricLabels = map[metrics.Metric]string{
	metrics.RiskReward: "Risk/Reward",
	metrics.Sharpe:     "Sharpe",
	metrics.Volatility: "Volatility",
	metrics.Calmar:     "Calmar",
}

func formatMetric(m metrics.Metric, v float64) string {
	switch m {
	case metrics.Volatility:
		return fmt.Sprintf("%.2f%%", v)
	case metrics.Sharpe:
		return fmt.Sprintf("%.3f", v)
	default:
		return fmt.Sprintf("%.2f", v)
	}
}

// PrintText writes a console report.
func PrintText(w io.Writer, s Summary) {
	r := s.Metrics

	fmt.Fprintln(w, "==================================================")
	fmt.Fprintln(w, " Trade Performance")
	fmt.Fprintln(w, "==================================================")

	fmt.Fprintf(w, "Run ID:        %s\n", s.RunID)
	fmt.Fprintf(w, "Created:       %s\n", s.Created.Format(time.RFC3339))
	if s.Dataset != "" {
		fmt.Fprintf(w, "Dataset:       %s\n", s.Dataset)
	}
	if s.Source != "" {
		fmt.Fprintf(w, "Source:        %s\n", s.Source)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Period")
	fmt.Fprintln(w, "--------------------------------------------------")
	fmt.Fprintf(w, "First Close:   %s\n", r.FirstClose.Format(time.RFC3339))
	fmt.Fprintf(w, "Last Close:    %s\n", r.LastClose.Format(time.RFC3339))
	fmt.Fprintf(w, "Days:          %.1f\n", r.PeriodDays)

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Trade Statistics")
	fmt.Fprintln(w, "--------------------------------------------------")
	fmt.Fprintf(w, "Trades:        %d\n", r.TradeCount)
	fmt.Fprintf(w, "Wins:          %d\n", r.WinCount)
	fmt.Fprintf(w, "Losses:        %d\n", r.LossCount)
	fmt.Fprintf(w, "Win Rate:      %.2f%%\n", r.WinRate)
	fmt.Fprintf(w, "Total Profit:  %.2f\n", r.TotalProfit)
	fmt.Fprintf(w, "Average:       %.2f\n", r.AverageProfit)
	fmt.Fprintf(w, "Average Win:   %.2f\n", r.AverageWin)
	fmt.Fprintf(w, "Average Loss:  %.2f\n", r.AverageLoss)
	if r.ProfitFactor > 0 {
		fmt.Fprintf(w, "Profit Factor: %.2f\n", r.ProfitFactor)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Risk")
	fmt.Fprintln(w, "--------------------------------------------------")
	fmt.Fprintf(w, "Std Dev:       %.2f\n", r.StdDev)
	fmt.Fprintf(w, "Max Drawdown:  %.2f\n", r.MaxDrawdown)
	fmt.Fprintf(w, "Annual Return: %.2f\n", r.AnnualReturn)

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Indicators")
	fmt.Fprintln(w, "--------------------------------------------------")
	for _, m := range metrics.AllMetrics {
		v := formatMetric(m, r.Value(m))
		if r.Undefined(m) {
			v = "n/a"
		}
		fmt.Fprintf(w, "%-14s %-10s %s\n", metricLabels[m]+":", v, s.Tiers[m])
	}

	if a := s.Account; a != nil {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Account")
		fmt.Fprintln(w, "--------------------------------------------------")
		fmt.Fprintf(w, "Deposits:      %s\n", a.Deposits.StringFixed(2))
		fmt.Fprintf(w, "Withdrawals:   %s\n", a.Withdrawals.StringFixed(2))
		fmt.Fprintf(w, "Commission:    %s\n", a.Commission.StringFixed(2))
		fmt.Fprintf(w, "Swap:          %s\n", a.Swap.StringFixed(2))
		fmt.Fprintf(w, "Net P/L:       %s\n", a.NetProfit.StringFixed(2))
		fmt.Fprintf(w, "Balance:       %s\n", a.FinalBalance.StringFixed(2))
	}

	if len(s.Warnings) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Warnings")
		fmt.Fprintln(w, "--------------------------------------------------")
		for _, warn := range s.Warnings {
			fmt.Fprintf(w, "- %s\n", warn)
		}
	}
}
