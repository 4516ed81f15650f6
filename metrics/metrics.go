// Package metrics derives performance indicators from a sequence of closed trades.
package metrics

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

// MinYears floors the period length so same-day datasets don't blow up the
// annualised return.
const MinYears = 0.01

// Trade is one closed position as seen by the engine.
type Trade struct {
	Ticket    string
	Profit    float64
	OpenTime  time.Time
	CloseTime time.Time
}

// ErrInsufficientData is matched by *InsufficientDataError via errors.Is.
var ErrInsufficientData = errors.New("insufficient data")

// InsufficientDataError is returned when fewer than two trades are supplied;
// the sample standard deviation is undefined below that.
type InsufficientDataError struct {
	Count int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient data: need at least 2 trades, got %d", e.Count)
}

func (e *InsufficientDataError) Is(target error) bool {
	return target == ErrInsufficientData
}

// ErrNonFinite is matched by *NonFiniteError via errors.Is.
var ErrNonFinite = errors.New("non-finite value")

// NonFiniteError reports a NaN or infinite profit, or a result too large to
// represent as a float64.
type NonFiniteError struct {
	Ticket string // set when a trade carried the value
	Field  string
	Value  float64
}

func (e *NonFiniteError) Error() string {
	if e.Ticket != "" {
		return fmt.Sprintf("non-finite value: trade %s %s is %v", e.Ticket, e.Field, e.Value)
	}
	return fmt.Sprintf("non-finite value: %s is %v", e.Field, e.Value)
}

func (e *NonFiniteError) Is(target error) bool {
	return target == ErrNonFinite
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Result holds every indicator derived from one Compute call.
type Result struct {
	TradeCount int `json:"trade_count"`
	WinCount   int `json:"win_count"`
	LossCount  int `json:"loss_count"`

	TotalProfit   float64 `json:"total_profit"`
	AverageProfit float64 `json:"average_profit"`
	AverageWin    float64 `json:"average_win"`
	AverageLoss   float64 `json:"average_loss"`
	GrossProfit   float64 `json:"gross_profit"`
	GrossLoss     float64 `json:"gross_loss"`
	WinRate       float64 `json:"win_rate"`
	ProfitFactor  float64 `json:"profit_factor"`

	StdDev          float64 `json:"std_dev"`
	RiskRewardRatio float64 `json:"risk_reward_ratio"`
	SharpeLike      float64 `json:"sharpe_like"`
	VolatilityPct   float64 `json:"volatility_pct"`
	MaxDrawdown     float64 `json:"max_drawdown"`

	FirstClose    time.Time `json:"first_close"`
	LastClose     time.Time `json:"last_close"`
	PeriodDays    float64   `json:"period_days"`
	YearsInPeriod float64   `json:"years_in_period"`
	AnnualReturn  float64   `json:"annual_return"`
	CalmarRatio   float64   `json:"calmar_ratio"`

	undefined map[Metric]bool
}

// Undefined reports whether m was set to 0 by the zero-denominator fallback
// rather than computed.
func (r Result) Undefined(m Metric) bool {
	return r.undefined[m]
}

// Defined lists the classified metrics that were actually computed.
func (r Result) Defined() []Metric {
	var out []Metric
	for _, m := range AllMetrics {
		if !r.undefined[m] {
			out = append(out, m)
		}
	}
	return out
}

// Value returns the numeric value of a classified metric.
func (r Result) Value(m Metric) float64 {
	switch m {
	case RiskReward:
		return r.RiskRewardRatio
	case Sharpe:
		return r.SharpeLike
	case Volatility:
		return r.VolatilityPct
	case Calmar:
		return r.CalmarRatio
	}
	return 0
}

// Compute derives a Result from trades. The slice is not modified.
func Compute(trades []Trade) (Result, error) {
	n := len(trades)
	if n < 2 {
		return Result{}, &InsufficientDataError{Count: n}
	}

	r := Result{
		TradeCount: n,
		undefined:  make(map[Metric]bool),
	}

	total := decimal.Zero
	var winSum, lossSum, avgAbs float64
	for _, t := range trades {
		if !finite(t.Profit) {
			return Result{}, &NonFiniteError{Ticket: t.Ticket, Field: "profit", Value: t.Profit}
		}
		total = total.Add(decimal.NewFromFloat(t.Profit))
		avgAbs += math.Abs(t.Profit) / float64(n)
		switch {
		case t.Profit > 0:
			r.WinCount++
			winSum += t.Profit
		case t.Profit < 0:
			r.LossCount++
			lossSum += t.Profit
		}
	}

	r.TotalProfit = total.InexactFloat64()
	r.AverageProfit = r.TotalProfit / float64(n)
	r.GrossProfit = winSum
	r.GrossLoss = lossSum
	r.WinRate = float64(r.WinCount) / float64(n) * 100

	if r.WinCount > 0 {
		r.AverageWin = winSum / float64(r.WinCount)
	}
	if r.LossCount > 0 {
		r.AverageLoss = lossSum / float64(r.LossCount)
	}
	if lossSum != 0 {
		r.ProfitFactor = winSum / math.Abs(lossSum)
	}

	r.StdDev = stdDev(trades, r.AverageProfit)

	if r.AverageLoss != 0 {
		r.RiskRewardRatio = r.AverageWin / math.Abs(r.AverageLoss)
	} else {
		r.undefined[RiskReward] = true
	}

	if r.StdDev != 0 {
		r.SharpeLike = r.AverageProfit / r.StdDev
	} else {
		r.undefined[Sharpe] = true
	}

	if avgAbs != 0 {
		r.VolatilityPct = r.StdDev / avgAbs * 100
	} else {
		r.undefined[Volatility] = true
	}

	sorted := SortByClose(trades)
	r.MaxDrawdown = MaxDrawdown(sorted)
	r.FirstClose = sorted[0].CloseTime
	r.LastClose = sorted[n-1].CloseTime
	r.PeriodDays = r.LastClose.Sub(r.FirstClose).Hours() / 24
	r.YearsInPeriod = math.Max(r.PeriodDays/365, MinYears)
	r.AnnualReturn = r.TotalProfit / r.YearsInPeriod

	if r.MaxDrawdown != 0 {
		r.CalmarRatio = r.AnnualReturn / r.MaxDrawdown
	} else {
		r.undefined[Calmar] = true
	}

	if err := r.checkFinite(); err != nil {
		return Result{}, err
	}
	return r, nil
}

// stdDev is the sample standard deviation about mean. Deviations are divided
// by the largest one before squaring so large profits do not overflow.
func stdDev(trades []Trade, mean float64) float64 {
	var scale float64
	for _, t := range trades {
		scale = math.Max(scale, math.Abs(t.Profit-mean))
	}
	if scale == 0 || math.IsInf(scale, 0) {
		return scale
	}

	var sq float64
	for _, t := range trades {
		d := (t.Profit - mean) / scale
		sq += d * d
	}
	return scale * math.Sqrt(sq/float64(len(trades)-1))
}

// checkFinite rejects results whose magnitude exceeds float64.
func (r Result) checkFinite() error {
	fields := []struct {
		name string
		v    float64
	}{
		{"total_profit", r.TotalProfit},
		{"average_profit", r.AverageProfit},
		{"average_win", r.AverageWin},
		{"average_loss", r.AverageLoss},
		{"gross_profit", r.GrossProfit},
		{"gross_loss", r.GrossLoss},
		{"profit_factor", r.ProfitFactor},
		{"std_dev", r.StdDev},
		{"risk_reward_ratio", r.RiskRewardRatio},
		{"sharpe_like", r.SharpeLike},
		{"volatility_pct", r.VolatilityPct},
		{"max_drawdown", r.MaxDrawdown},
		{"annual_return", r.AnnualReturn},
		{"calmar_ratio", r.CalmarRatio},
	}
	for _, f := range fields {
		if !finite(f.v) {
			return &NonFiniteError{Field: f.name, Value: f.v}
		}
	}
	return nil
}

// SortByClose returns a copy of trades stably ordered by close time.
func SortByClose(trades []Trade) []Trade {
	out := slices.Clone(trades)
	slices.SortStableFunc(out, func(a, b Trade) int {
		return a.CloseTime.Compare(b.CloseTime)
	})
	return out
}

// MaxDrawdown walks trades in the given order and returns the largest
// peak-to-trough decline of the cumulative profit. The peak starts at 0.
func MaxDrawdown(trades []Trade) float64 {
	var peak, cum, maxDD float64
	for _, t := range trades {
		cum += t.Profit
		if cum > peak {
			peak = cum
		}
		if dd := peak - cum; dd > maxDD {
			maxDD = dd
		}
	}
	return maxDD
}
