package ledger

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/multierr"
)

// RowError is a validation failure on one row.
type RowError struct {
	Line   int
	Ticket string
	Err    error
}

func (e *RowError) Error() string {
	if e.Ticket == "" {
		return fmt.Sprintf("line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("line %d (ticket %s): %v", e.Line, e.Ticket, e.Err)
}

func (e *RowError) Unwrap() error { return e.Err }

// Validation failures wrapped by RowError.
var (
	ErrUnknownType   = errors.New("unknown row type")
	ErrMissingTicket = errors.New("missing ticket")
	ErrBadSymbol     = errors.New("not a tradable symbol")
	ErrBadSize       = errors.New("size must be positive")
	ErrBadPrice      = errors.New("prices must be positive")
	ErrMissingTime   = errors.New("open and close time required")
	ErrCloseBefore   = errors.New("close time before open time")
	ErrCommission    = errors.New("commission must not be positive")
)

var nonSymbolKeywords = []string{
	"DEPOSIT", "CREDIT", "BONUS", "WITHDRAWAL", "WITHDRAW",
	"BALANCE", "TRANSFER", "PAYMENT", "COMMISSION", "FEE",
	"REBATE", "ADJUSTMENT", "CORRECTION",
}

var symbolPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^[A-Z]{6}$`),          // EURUSD, XAUUSD, BTCUSD
	regexp.MustCompile(`^[A-Z]{3,4}\d{2,3}$`), // US30, NAS100
}

// IsTradableSymbol reports whether s looks like an instrument rather than a
// cash movement label.
func IsTradableSymbol(s string) bool {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" || strings.ContainsAny(s, "- ") {
		return false
	}
	for _, k := range nonSymbolKeywords {
		if strings.Contains(s, k) {
			return false
		}
	}
	for _, re := range symbolPatterns {
		if re.MatchString(s) {
			return true
		}
	}
	return false
}

// Validate checks every row and returns all failures combined. Use
// multierr.Errors to enumerate them.
func Validate(l *Ledger) error {
	var err error
	for _, r := range l.Rows {
		err = multierr.Append(err, ValidateRow(r))
	}
	return err
}

// ValidateRow checks a single trade row.
func ValidateRow(r Row) error {
	fail := func(e error) error {
		return &RowError{Line: r.Line, Ticket: r.Ticket, Err: e}
	}

	switch r.Type {
	case TypeBuy, TypeSell:
	case TypeBalance, TypeCredit:
		return nil
	default:
		return fail(fmt.Errorf("%w %q", ErrUnknownType, r.Type))
	}

	var err error
	if r.Ticket == "" {
		err = multierr.Append(err, fail(ErrMissingTicket))
	}
	if !IsTradableSymbol(r.Item) {
		err = multierr.Append(err, fail(fmt.Errorf("%w: %q", ErrBadSymbol, r.Item)))
	}
	if r.Size <= 0 {
		err = multierr.Append(err, fail(ErrBadSize))
	}
	if r.OpenPrice <= 0 || r.ClosePrice <= 0 {
		err = multierr.Append(err, fail(ErrBadPrice))
	}
	switch {
	case r.OpenTime.IsZero() || r.CloseTime.IsZero():
		err = multierr.Append(err, fail(ErrMissingTime))
	case r.CloseTime.Before(r.OpenTime):
		err = multierr.Append(err, fail(ErrCloseBefore))
	}
	if r.Commission > 0 {
		err = multierr.Append(err, fail(ErrCommission))
	}
	return err
}
