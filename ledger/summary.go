package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// Summary is an account-level view of a ledger. Money totals are summed
// exactly.
type Summary struct {
	Trades       int             `json:"trades"`
	Adjustments  int             `json:"adjustments"`
	ByType       map[string]int  `json:"by_type"`
	Wins         int             `json:"wins"`
	Losses       int             `json:"losses"`
	WinRate      float64         `json:"win_rate"`
	Deposits     decimal.Decimal `json:"deposits"`
	Withdrawals  decimal.Decimal `json:"withdrawals"`
	GrossProfit  decimal.Decimal `json:"gross_profit"`
	Commission   decimal.Decimal `json:"commission"`
	Swap         decimal.Decimal `json:"swap"`
	NetProfit    decimal.Decimal `json:"net_profit"`
	FinalBalance decimal.Decimal `json:"final_balance"`
	Symbols      []string        `json:"symbols"`
	First        time.Time       `json:"first"`
	Last         time.Time       `json:"last"`
}

// Summary totals the ledger. NetProfit is profit plus commission and swap.
// FinalBalance adds net adjustments to NetProfit.
func (l *Ledger) Summary() Summary {
	s := Summary{
		Trades:      len(l.Rows),
		Adjustments: len(l.Adjustments),
		ByType:      map[string]int{},
	}

	seen := map[string]bool{}
	for _, r := range l.Rows {
		s.ByType[r.Type]++
		switch {
		case r.Profit > 0:
			s.Wins++
		case r.Profit < 0:
			s.Losses++
		}
		s.GrossProfit = s.GrossProfit.Add(decimal.NewFromFloat(r.Profit))
		s.Commission = s.Commission.Add(decimal.NewFromFloat(r.Commission))
		s.Swap = s.Swap.Add(decimal.NewFromFloat(r.Swap))
		if r.Item != "" && !seen[r.Item] {
			seen[r.Item] = true
			s.Symbols = append(s.Symbols, r.Item)
		}
		s.extend(r.CloseTime)
	}
	if s.Trades > 0 {
		s.WinRate = float64(s.Wins) / float64(s.Trades) * 100
	}

	var adj decimal.Decimal
	for _, a := range l.Adjustments {
		s.ByType[TypeBalance]++
		amt := decimal.NewFromFloat(a.Amount)
		if amt.IsNegative() {
			s.Withdrawals = s.Withdrawals.Add(amt.Neg())
		} else {
			s.Deposits = s.Deposits.Add(amt)
		}
		adj = adj.Add(amt)
		s.extend(a.Time)
	}

	s.NetProfit = s.GrossProfit.Add(s.Commission).Add(s.Swap)
	s.FinalBalance = adj.Add(s.NetProfit)
	return s
}

func (s *Summary) extend(t time.Time) {
	if t.IsZero() {
		return
	}
	if s.First.IsZero() || t.Before(s.First) {
		s.First = t
	}
	if t.After(s.Last) {
		s.Last = t
	}
}
