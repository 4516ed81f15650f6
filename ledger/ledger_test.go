package ledger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const header = "Ticket\tItem\tType\tSize\tOpen Time\tOpen Price\tClose Time\tClose Price\tS/L\tT/P\tCommission\tSwap\tProfit\tComment"

func tsv(lines ...string) string {
	return strings.Join(append([]string{header}, lines...), "\n") + "\n"
}

var sample = tsv(
	"1001\tUSDJPY\tbuy\t0.10\t2024.03.01 09:00:00\t150.000\t2024.03.01 12:00:00\t150.250\t149.700\t150.500\t-70\t0\t2500",
	"1002\tEURUSD\tsell\t1.00\t2024.03.02 10:00:00\t1.0875\t2024.03.03 10:00\t1.0900\t0\t0\t-700\t-120\t-3,750\tlate exit",
	"9001\t\tbalance\t\t2024.03.01 08:00:00\t\t\t\t\t\t\t\t100000\tDeposit",
	"",
	"9002\t\tbalance\t\t2024.03.05 08:00:00\t-20000",
)

func TestParse(t *testing.T) {
	t.Parallel()

	l, err := Parse(strings.NewReader(sample), nil)
	require.NoError(t, err)
	require.Len(t, l.Rows, 2)
	require.Len(t, l.Adjustments, 2)

	r := l.Rows[0]
	assert.Equal(t, 2, r.Line)
	assert.Equal(t, "1001", r.Ticket)
	assert.Equal(t, "USDJPY", r.Item)
	assert.Equal(t, TypeBuy, r.Type)
	assert.Equal(t, 0.10, r.Size)
	assert.Equal(t, time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC), r.OpenTime)
	assert.Equal(t, 150.25, r.ClosePrice)
	assert.Equal(t, -70.0, r.Commission)
	assert.Equal(t, 2500.0, r.Profit)
	assert.Empty(t, r.Comment)

	r = l.Rows[1]
	assert.Equal(t, time.Date(2024, 3, 3, 10, 0, 0, 0, time.UTC), r.CloseTime)
	assert.Equal(t, -3750.0, r.Profit)
	assert.Equal(t, "late exit", r.Comment)

	assert.Equal(t, 100000.0, l.Adjustments[0].Amount)
	assert.Equal(t, "Deposit", l.Adjustments[0].Comment)
	assert.Equal(t, -20000.0, l.Adjustments[1].Amount, "short balance row takes the last column")
	assert.Equal(t, 6, l.Adjustments[1].Line)
}

func TestParseLocation(t *testing.T) {
	t.Parallel()

	jst := time.FixedZone("JST", 9*3600)
	l, err := Parse(strings.NewReader(sample), jst)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), l.Rows[0].OpenTime.UTC())
}

func TestParseErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		line   string
		column int
	}{
		{"bad size", "1\tEURUSD\tbuy\tabc\t2024.03.01 09:00\t1.1\t2024.03.01 10:00\t1.2\t0\t0\t0\t0\t10", ColSize},
		{"bad time", "1\tEURUSD\tbuy\t1\tyesterday\t1.1\t2024.03.01 10:00\t1.2\t0\t0\t0\t0\t10", ColOpenTime},
		{"missing profit", "1\tEURUSD\tbuy\t1\t2024.03.01 09:00\t1.1\t2024.03.01 10:00\t1.2\t0\t0\t0\t0\t", ColProfit},
		{"short row", "1\tEURUSD\tbuy", 3},
		{"nan profit", "1\tEURUSD\tbuy\t1\t2024.03.01 09:00\t1.1\t2024.03.01 10:00\t1.2\t0\t0\t0\t0\tNaN", ColProfit},
		{"infinite size", "1\tEURUSD\tbuy\tInf\t2024.03.01 09:00\t1.1\t2024.03.01 10:00\t1.2\t0\t0\t0\t0\t10", ColSize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tsv(tt.line)), nil)
			require.Error(t, err)

			var pe *ParseError
			require.ErrorAs(t, err, &pe)
			assert.Equal(t, 2, pe.Line)
			assert.Equal(t, tt.column, pe.Column)
		})
	}

	_, err := Parse(strings.NewReader(tsv("1\tEURUSD\tbuy")), nil)
	assert.ErrorIs(t, err, ErrShortRow)

	for _, v := range []string{"NaN", "-inf", "+Infinity"} {
		_, err := Parse(strings.NewReader(tsv(
			"1\tEURUSD\tbuy\t1\t2024.03.01 09:00\t1.1\t2024.03.01 10:00\t1.2\t0\t0\t0\t0\t"+v)), nil)
		assert.ErrorIs(t, err, ErrNotFinite, v)
	}
}

func TestParseQuotesAreLiteral(t *testing.T) {
	t.Parallel()

	in := tsv(
		"1\tEURUSD\tbuy\t1\t2024.03.01 09:00\t1.1\t2024.03.01 10:00\t1.2\t0\t0\t0\t0\t1000\t\"partial close",
		"2\tEURUSD\tsell\t1\t2024.03.02 09:00\t1.1\t2024.03.02 10:00\t1.2\t0\t0\t0\t0\t-500",
		"3\tGBPUSD\tbuy\t1\t2024.03.03 09:00\t1.3\t2024.03.03 10:00\t1.4\t0\t0\t0\t0\t2000\tsaid \"hold\"",
	)

	l, err := Parse(strings.NewReader(in), nil)
	require.NoError(t, err)
	require.Len(t, l.Rows, 3)
	assert.Equal(t, `"partial close`, l.Rows[0].Comment)
	assert.Equal(t, -500.0, l.Rows[1].Profit)
	assert.Equal(t, `said "hold"`, l.Rows[2].Comment)
	assert.Equal(t, 4, l.Rows[2].Line)

	total := 0.0
	for _, tr := range l.Trades() {
		total += tr.Profit
	}
	assert.Equal(t, 2500.0, total)
}

func TestParseCRLF(t *testing.T) {
	t.Parallel()

	in := strings.ReplaceAll(sample, "\n", "\r\n")
	l, err := Parse(strings.NewReader(in), nil)
	require.NoError(t, err)
	require.Len(t, l.Rows, 2)
	assert.Equal(t, "late exit", l.Rows[1].Comment)
	assert.Equal(t, -20000.0, l.Adjustments[1].Amount)
}

func TestParseHeaderOnly(t *testing.T) {
	t.Parallel()

	l, err := Parse(strings.NewReader(header+"\n"), nil)
	require.NoError(t, err)
	assert.Empty(t, l.Rows)
	assert.Empty(t, l.Trades())
}

func TestParseFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "history.tsv")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o644))

	l, err := ParseFile(path, nil)
	require.NoError(t, err)
	assert.Len(t, l.Rows, 2)

	_, err = ParseFile(filepath.Join(t.TempDir(), "missing.tsv"), nil)
	assert.Error(t, err)
}

func TestParseTimeLayouts(t *testing.T) {
	t.Parallel()

	want := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)
	for _, s := range []string{
		"2024.03.01 09:30:00",
		"2024.03.01 09:30",
		"2024-03-01 09:30:00",
		"2024-03-01T09:30:00Z",
	} {
		got, err := ParseTime(s, nil)
		require.NoError(t, err, s)
		assert.Equal(t, want, got, s)
	}

	got, err := ParseTime("2024-03-01", nil)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), got)

	_, err = ParseTime("03/01/2024", nil)
	assert.Error(t, err)
}

func TestTrades(t *testing.T) {
	t.Parallel()

	l, err := Parse(strings.NewReader(sample), nil)
	require.NoError(t, err)

	trades := l.Trades()
	require.Len(t, trades, 2)
	assert.Equal(t, "1001", trades[0].Ticket)
	assert.Equal(t, 2500.0, trades[0].Profit)
	assert.Equal(t, -3750.0, trades[1].Profit)
	assert.Equal(t, l.Rows[1].CloseTime, trades[1].CloseTime)
}

func TestSummary(t *testing.T) {
	t.Parallel()

	l, err := Parse(strings.NewReader(sample), nil)
	require.NoError(t, err)

	s := l.Summary()
	assert.Equal(t, 2, s.Trades)
	assert.Equal(t, 2, s.Adjustments)
	assert.Equal(t, map[string]int{"buy": 1, "sell": 1, "balance": 2}, s.ByType)
	assert.Equal(t, 1, s.Wins)
	assert.Equal(t, 1, s.Losses)
	assert.Equal(t, 50.0, s.WinRate)

	assert.Equal(t, "-1250", s.GrossProfit.String())
	assert.Equal(t, "-770", s.Commission.String())
	assert.Equal(t, "-120", s.Swap.String())
	assert.Equal(t, "-2140", s.NetProfit.String())
	assert.Equal(t, "100000", s.Deposits.String())
	assert.Equal(t, "20000", s.Withdrawals.String())
	assert.True(t, s.FinalBalance.Equal(decimal.NewFromInt(77860)), s.FinalBalance.String())

	assert.Equal(t, []string{"USDJPY", "EURUSD"}, s.Symbols)
	assert.Equal(t, time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC), s.First)
	assert.Equal(t, time.Date(2024, 3, 5, 8, 0, 0, 0, time.UTC), s.Last)
}

func TestSummaryExactTotals(t *testing.T) {
	t.Parallel()

	l := &Ledger{Rows: []Row{{Profit: 0.1}, {Profit: 0.2}}}
	assert.Equal(t, "0.3", l.Summary().GrossProfit.String())
}
