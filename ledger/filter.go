package ledger

import (
	"slices"
	"strings"
	"time"
)

// Session is a block of the trading day, by open hour in the ledger's zone.
type Session string

const (
	SessionAsia   Session = "asia"   // 00-09
	SessionLondon Session = "london" // 09-17
	SessionNY     Session = "ny"     // 17-24
	SessionThin   Session = "thin"   // 00-06
)

func (s Session) contains(hour int) bool {
	switch s {
	case SessionAsia:
		return hour < 9
	case SessionLondon:
		return hour >= 9 && hour < 17
	case SessionNY:
		return hour >= 17
	case SessionThin:
		return hour < 6
	}
	return true
}

// Outcome selects winning or losing rows.
type Outcome string

const (
	OutcomeWin  Outcome = "win"
	OutcomeLoss Outcome = "loss"
)

// Filter narrows the rows fed to the engine. Zero fields match everything.
// From and To compare against the open date, both inclusive.
type Filter struct {
	Symbol   string
	Side     string
	Outcome  Outcome
	From     time.Time
	To       time.Time
	Weekdays []time.Weekday
	Session  Session
}

// Match reports whether r passes every set criterion.
func (f Filter) Match(r Row) bool {
	if f.Symbol != "" && !strings.EqualFold(f.Symbol, r.Item) {
		return false
	}
	if f.Side != "" && !strings.EqualFold(f.Side, r.Type) {
		return false
	}
	switch f.Outcome {
	case OutcomeWin:
		if r.Profit <= 0 {
			return false
		}
	case OutcomeLoss:
		if r.Profit >= 0 {
			return false
		}
	}
	day := dateOf(r.OpenTime)
	if !f.From.IsZero() && day.Before(dateOf(f.From)) {
		return false
	}
	if !f.To.IsZero() && day.After(dateOf(f.To)) {
		return false
	}
	if len(f.Weekdays) > 0 && !slices.Contains(f.Weekdays, r.OpenTime.Weekday()) {
		return false
	}
	if f.Session != "" && !f.Session.contains(r.OpenTime.Hour()) {
		return false
	}
	return true
}

// Filter returns a ledger holding only the matching rows. Adjustments are
// kept unchanged.
func (l *Ledger) Filter(f Filter) *Ledger {
	out := &Ledger{Adjustments: l.Adjustments}
	for _, r := range l.Rows {
		if f.Match(r) {
			out.Rows = append(out.Rows, r)
		}
	}
	return out
}

// Weekdays and Weekend are shorthand weekday sets.
var (
	Weekdays = []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday}
	Weekend  = []time.Weekday{time.Saturday, time.Sunday}
)

func dateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
