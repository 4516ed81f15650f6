package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/tradelog/journal"
	"github.com/rustyeddy/tradelog/ledger"
	"github.com/rustyeddy/tradelog/metrics"
)

// Row filter flags shared by metrics and analyze.
var (
	filterSymbol  string
	filterSide    string
	filterOutcome string
	filterFrom    string
	filterTo      string
	filterSession string
	filterDays    string
)

func addFilterFlags(c *cobra.Command) {
	f := c.Flags()
	f.StringVar(&filterSymbol, "symbol", "", "only trades in this symbol")
	f.StringVar(&filterSide, "side", "", "only buy or sell trades")
	f.StringVar(&filterOutcome, "outcome", "", "only win or loss trades")
	f.StringVar(&filterFrom, "from", "", "first open date, inclusive (YYYY-MM-DD)")
	f.StringVar(&filterTo, "to", "", "last open date, inclusive (YYYY-MM-DD)")
	f.StringVar(&filterSession, "session", "", "open session: asia, london, ny or thin")
	f.StringVar(&filterDays, "days", "", "weekdays or weekend")
}

func buildFilter(loc *time.Location) (ledger.Filter, error) {
	f := ledger.Filter{
		Symbol:  filterSymbol,
		Side:    filterSide,
		Outcome: ledger.Outcome(filterOutcome),
		Session: ledger.Session(filterSession),
	}

	switch f.Outcome {
	case "", ledger.OutcomeWin, ledger.OutcomeLoss:
	default:
		return f, fmt.Errorf("--outcome must be win or loss, got %q", filterOutcome)
	}
	switch f.Session {
	case "", ledger.SessionAsia, ledger.SessionLondon, ledger.SessionNY, ledger.SessionThin:
	default:
		return f, fmt.Errorf("unknown --session %q", filterSession)
	}
	switch filterDays {
	case "":
	case "weekdays":
		f.Weekdays = ledger.Weekdays
	case "weekend":
		f.Weekdays = ledger.Weekend
	default:
		return f, fmt.Errorf("--days must be weekdays or weekend, got %q", filterDays)
	}

	var err error
	if filterFrom != "" {
		if f.From, err = ledger.ParseTime(filterFrom, loc); err != nil {
			return f, fmt.Errorf("--from: %w", err)
		}
	}
	if filterTo != "" {
		if f.To, err = ledger.ParseTime(filterTo, loc); err != nil {
			return f, fmt.Errorf("--to: %w", err)
		}
	}
	return f, nil
}

// tradeSource is the input a report is computed from.
type tradeSource struct {
	Trades  []metrics.Trade
	Path    string
	UserID  string
	Dataset string
	Account *ledger.Summary
}

// loadTrades reads the ledger named in args, or the configured journal
// dataset when args is empty, keeping only rows that pass the filter flags.
func loadTrades(cmd *cobra.Command, args []string) (tradeSource, error) {
	loc, err := cfg.Ledger.Location()
	if err != nil {
		return tradeSource{}, fmt.Errorf("ledger timezone: %w", err)
	}
	filter, err := buildFilter(loc)
	if err != nil {
		return tradeSource{}, err
	}

	if len(args) > 0 {
		l, err := ledger.ParseFile(args[0], loc)
		if err != nil {
			return tradeSource{}, err
		}
		l = l.Filter(filter)
		acct := l.Summary()
		return tradeSource{Trades: l.Trades(), Path: args[0], Account: &acct}, nil
	}

	user, err := currentUser()
	if err != nil {
		return tradeSource{}, err
	}
	store, err := openStore()
	if err != nil {
		return tradeSource{}, err
	}
	defer store.Close()

	recs, err := store.ListTrades(cmd.Context(), user, cfg.Journal.Dataset)
	if err != nil {
		return tradeSource{}, fmt.Errorf("list trades: %w", err)
	}

	kept := recs[:0]
	for _, rec := range recs {
		if filter.Match(recordRow(rec, loc)) {
			kept = append(kept, rec)
		}
	}
	return tradeSource{
		Trades:  journal.MetricTrades(kept),
		UserID:  user,
		Dataset: cfg.Journal.Dataset,
	}, nil
}

// recordRow views a stored trade as a ledger row for filtering.
func recordRow(t journal.TradeRecord, loc *time.Location) ledger.Row {
	return ledger.Row{
		Ticket:     t.Ticket,
		Item:       t.Item,
		Type:       t.Side,
		Size:       t.Size,
		OpenTime:   t.OpenTime.In(loc),
		OpenPrice:  t.OpenPrice,
		CloseTime:  t.CloseTime.In(loc),
		ClosePrice: t.ClosePrice,
		Profit:     t.Profit,
	}
}
