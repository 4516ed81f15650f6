package cmd

import (
	"fmt"
	"io"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"

	"github.com/rustyeddy/tradelog/proposal"
)

var proposeCmd = &cobra.Command{
	Use:   "propose <prompt...>",
	Short: "Request a trade proposal from the generator",
	Long: `Send a market scan request to the configured proposal endpoint and print
the returned proposal.

Examples:
  tradelog propose --pair USD/JPY --timeframe 1H --period "1 week" look for pullback entries
  tradelog propose --json --pair EUR/USD --timeframe 4H --period "2 weeks" range trades only`,
	Args: cobra.MinimumNArgs(1),
	RunE: runPropose,
}

var (
	proposePair      string
	proposeTimeframe string
	proposePeriod    string
	proposeJSON      bool
)

func init() {
	rootCmd.AddCommand(proposeCmd)

	proposeCmd.Flags().StringVar(&proposePair, "pair", "USD/JPY", "currency pair")
	proposeCmd.Flags().StringVar(&proposeTimeframe, "timeframe", "1H", "chart timeframe")
	proposeCmd.Flags().StringVar(&proposePeriod, "period", "1 week", "holding period")
	proposeCmd.Flags().BoolVar(&proposeJSON, "json", false, "print the raw proposal as JSON")
}

func runPropose(cmd *cobra.Command, args []string) error {
	client := proposal.New(cfg.Proposal)
	p, err := client.Generate(cmd.Context(), proposal.Request{
		Prompt:    strings.Join(args, " "),
		Pair:      proposePair,
		Timeframe: proposeTimeframe,
		Period:    proposePeriod,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if proposeJSON {
		enc := jsoniter.ConfigCompatibleWithStandardLibrary.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(p)
	}
	printProposal(out, p)
	return nil
}

func printProposal(w io.Writer, p *proposal.Proposal) {
	h := p.Hero
	fmt.Fprintln(w, "==================================================")
	fmt.Fprintf(w, " %s  %s  (%.0f%%)\n", h.Pair, h.Bias, h.Confidence)
	fmt.Fprintln(w, "==================================================")
	fmt.Fprintf(w, "Now:        %.3f\n", h.Now)
	fmt.Fprintf(w, "Buy Entry:  %s\n", h.BuyEntry)
	fmt.Fprintf(w, "Sell Entry: %s\n", h.SellEntry)

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Today")
	fmt.Fprintln(w, "--------------------------------------------------")
	fmt.Fprintf(w, "Stance:     %s\n", p.Daily.Stance)
	fmt.Fprintf(w, "Session:    %s\n", p.Daily.Session)
	fmt.Fprintf(w, "Anchor:     %s\n", p.Daily.Anchor)
	fmt.Fprintf(w, "Risk:       %s\n", p.Daily.RiskNote)

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Scenarios")
	fmt.Fprintln(w, "--------------------------------------------------")
	fmt.Fprintf(w, "Strong:     %s\n", p.Scenario.Strong)
	fmt.Fprintf(w, "Base:       %s\n", p.Scenario.Base)
	fmt.Fprintf(w, "Weak:       %s\n", p.Scenario.Weak)

	if len(p.Ideas) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Ideas")
		fmt.Fprintln(w, "--------------------------------------------------")
		for _, i := range p.Ideas {
			fmt.Fprintf(w, "- %-4s %-16s SL %5.0f  TP %5.0f  R:R %.2f  %s\n",
				i.Side, i.Entry, i.SLPips, i.TPPips, i.RewardRisk(), i.Confidence)
		}
	}

	section := func(title string, items []string) {
		if len(items) == 0 {
			return
		}
		fmt.Fprintln(w)
		fmt.Fprintln(w, title)
		fmt.Fprintln(w, "--------------------------------------------------")
		for _, it := range items {
			fmt.Fprintf(w, "- %s\n", it)
		}
	}
	section("Technical", p.Factors.Technical)
	section("Fundamental", p.Factors.Fundamental)
	section("Sentiment", p.Factors.Sentiment)
	section("Notes", p.Notes.Memo)
}
