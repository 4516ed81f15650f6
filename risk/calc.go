// Package risk holds per-trade price arithmetic: pips and planned reward/risk.
package risk

import (
	"math"
	"strings"
)

// PipMultiplier converts a price difference to pips. JPY-quoted pairs move in
// 0.01 steps, everything else in 0.0001.
func PipMultiplier(symbol string) float64 {
	if strings.HasSuffix(strings.ToUpper(strings.TrimSpace(symbol)), "JPY") {
		return 100
	}
	return 10000
}

// IsShort reports whether side names a short position (sell/short).
func IsShort(side string) bool {
	switch strings.ToLower(strings.TrimSpace(side)) {
	case "sell", "short":
		return true
	}
	return false
}

// Pips returns the signed pip result of a trade, rounded to 0.1 pip.
func Pips(symbol, side string, open, close float64) float64 {
	diff := close - open
	if IsShort(side) {
		diff = -diff
	}
	return round(diff*PipMultiplier(symbol), 1)
}

// RR is the reward/risk multiple of a planned trade. Zero risk gives 0.
func RR(entry, stop, takeProfit float64) float64 {
	risk := math.Abs(entry - stop)
	reward := math.Abs(takeProfit - entry)
	if risk == 0 {
		return 0
	}
	return reward / risk
}

// PlannedRR is RR rounded to two places. ok is false when stop or target is
// missing or the stop sits on the entry.
func PlannedRR(entry, stop, takeProfit float64) (rr float64, ok bool) {
	if entry == 0 || stop == 0 || takeProfit == 0 || entry == stop {
		return 0, false
	}
	return round(RR(entry, stop, takeProfit), 2), true
}

func round(x float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(x*p) / p
}
