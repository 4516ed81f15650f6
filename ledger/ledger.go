// Package ledger reads tab-separated broker account history exports.
//
// The first line is a header. Columns are positional:
//
//	0 ticket  1 item  2 type  3 size  4 open_time  5 open_price
//	6 close_time  7 close_price  8 s/l  9 t/p  10 commission  11 swap
//	12 profit  13 comment (optional)
//
// Rows whose type is "balance" are account adjustments, not trades.
package ledger

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rustyeddy/tradelog/metrics"
)

// Column positions.
const (
	ColTicket = iota
	ColItem
	ColType
	ColSize
	ColOpenTime
	ColOpenPrice
	ColCloseTime
	ColClosePrice
	ColSL
	ColTP
	ColCommission
	ColSwap
	ColProfit
	ColComment
)

// MinTradeColumns is the narrowest row that still carries a profit.
const MinTradeColumns = ColProfit + 1

// Row types.
const (
	TypeBuy     = "buy"
	TypeSell    = "sell"
	TypeBalance = "balance"
	TypeCredit  = "credit"
)

// Row is one non-adjustment line of the export.
type Row struct {
	Line       int
	Ticket     string
	Item       string
	Type       string
	Size       float64
	OpenTime   time.Time
	OpenPrice  float64
	CloseTime  time.Time
	ClosePrice float64
	SL         float64
	TP         float64
	Commission float64
	Swap       float64
	Profit     float64
	Comment    string
}

// Adjustment is a balance row: deposit, withdrawal or other cash movement.
type Adjustment struct {
	Line    int
	Ticket  string
	Time    time.Time
	Amount  float64
	Comment string
}

// Ledger is a parsed export.
type Ledger struct {
	Rows        []Row
	Adjustments []Adjustment
}

// ParseError locates a malformed field.
type ParseError struct {
	Line   int
	Column int
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d column %d (%q): %v", e.Line, e.Column, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Errors wrapped by ParseError.
var (
	ErrShortRow  = errors.New("too few columns")
	ErrNotFinite = errors.New("not a finite number")
)

// ParseFile opens path and parses it.
func ParseFile(path string, loc *time.Location) (*Ledger, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	l, err := Parse(f, loc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return l, nil
}

// MaxLineBytes bounds a single line of an export.
const MaxLineBytes = 1 << 20

// Parse reads an export. Each line is split on tabs; quotes carry no
// meaning. Times without a zone are interpreted in loc (UTC when nil).
func Parse(r io.Reader, loc *time.Location) (*Ledger, error) {
	if loc == nil {
		loc = time.UTC
	}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), MaxLineBytes)

	l := &Ledger{}
	line := 0
	header := true
	for sc.Scan() {
		line++
		text := strings.TrimSuffix(sc.Text(), "\r")
		if strings.TrimSpace(text) == "" {
			continue
		}
		if header {
			header = false
			continue
		}
		rec := strings.Split(text, "\t")
		for i := range rec {
			rec[i] = strings.TrimSpace(rec[i])
		}

		if strings.EqualFold(field(rec, ColType), TypeBalance) {
			adj, err := parseAdjustment(line, rec, loc)
			if err != nil {
				return nil, err
			}
			l.Adjustments = append(l.Adjustments, adj)
			continue
		}

		row, err := parseRow(line, rec, loc)
		if err != nil {
			return nil, err
		}
		l.Rows = append(l.Rows, row)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read ledger line %d: %w", line+1, err)
	}
	return l, nil
}

func parseRow(line int, rec []string, loc *time.Location) (Row, error) {
	if len(rec) < MinTradeColumns {
		return Row{}, &ParseError{Line: line, Column: len(rec), Err: ErrShortRow}
	}

	p := fieldParser{line: line, rec: rec, loc: loc}
	row := Row{
		Line:       line,
		Ticket:     rec[ColTicket],
		Item:       rec[ColItem],
		Type:       strings.ToLower(rec[ColType]),
		Size:       p.float(ColSize),
		OpenTime:   p.time(ColOpenTime),
		OpenPrice:  p.float(ColOpenPrice),
		CloseTime:  p.time(ColCloseTime),
		ClosePrice: p.float(ColClosePrice),
		SL:         p.float(ColSL),
		TP:         p.float(ColTP),
		Commission: p.float(ColCommission),
		Swap:       p.float(ColSwap),
		Profit:     p.required(ColProfit),
		Comment:    field(rec, ColComment),
	}
	return row, p.err
}

func parseAdjustment(line int, rec []string, loc *time.Location) (Adjustment, error) {
	amountCol := len(rec) - 1
	if len(rec) > ColProfit {
		amountCol = ColProfit
	}

	p := fieldParser{line: line, rec: rec, loc: loc}
	adj := Adjustment{
		Line:    line,
		Ticket:  field(rec, ColTicket),
		Time:    p.time(ColOpenTime),
		Amount:  p.float(amountCol),
		Comment: field(rec, ColComment),
	}
	return adj, p.err
}

// fieldParser keeps the first error so a row can be read in one expression.
type fieldParser struct {
	line int
	rec  []string
	loc  *time.Location
	err  error
}

func (p *fieldParser) fail(col int, err error) {
	if p.err == nil {
		p.err = &ParseError{Line: p.line, Column: col, Value: field(p.rec, col), Err: err}
	}
}

// float parses an optional number; empty is 0.
func (p *fieldParser) float(col int) float64 {
	s := field(p.rec, col)
	if s == "" {
		return 0
	}
	v, err := parseNumber(s)
	if err != nil {
		p.fail(col, err)
	}
	return v
}

func (p *fieldParser) required(col int) float64 {
	s := field(p.rec, col)
	if s == "" {
		p.fail(col, errors.New("missing value"))
		return 0
	}
	return p.float(col)
}

func (p *fieldParser) time(col int) time.Time {
	s := field(p.rec, col)
	if s == "" {
		return time.Time{}
	}
	t, err := ParseTime(s, p.loc)
	if err != nil {
		p.fail(col, err)
	}
	return t
}

// parseNumber accepts thousands separators ("1 234.50", "1,234.50"). NaN and
// infinities are rejected.
func parseNumber(s string) (float64, error) {
	s = strings.NewReplacer(",", "", " ", "").Replace(s)
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, ErrNotFinite
	}
	return v, nil
}

func field(rec []string, i int) string {
	if i < 0 || i >= len(rec) {
		return ""
	}
	return rec[i]
}

// Trades returns the rows as engine input, in file order.
func (l *Ledger) Trades() []metrics.Trade {
	out := make([]metrics.Trade, 0, len(l.Rows))
	for _, r := range l.Rows {
		out = append(out, r.Trade())
	}
	return out
}

// Trade converts the row for the metrics engine.
func (r Row) Trade() metrics.Trade {
	return metrics.Trade{
		Ticket:    r.Ticket,
		Profit:    r.Profit,
		OpenTime:  r.OpenTime,
		CloseTime: r.CloseTime,
	}
}
