package metrics

import (
	"fmt"
	"math"
)

// Warning flags a value outside the range a healthy dataset usually shows.
type Warning struct {
	Metric  Metric  `json:"metric"`
	Value   float64 `json:"value"`
	Message string  `json:"message"`
}

func (w Warning) String() string {
	return w.Message
}

// Anomaly limits used by Warnings.
const (
	MaxNormalVolatility = 200.0
	MaxNormalCalmar     = 10.0
	MinNormalSharpe     = -1.0
)

// Warnings returns the anomalies found in r, in AllMetrics order.
func Warnings(r Result) []Warning {
	var out []Warning
	if r.SharpeLike < MinNormalSharpe {
		out = append(out, Warning{
			Metric:  Sharpe,
			Value:   r.SharpeLike,
			Message: fmt.Sprintf("sharpe ratio unusually low: %.3f (typically -1 to 3)", r.SharpeLike),
		})
	}
	if r.VolatilityPct > MaxNormalVolatility {
		out = append(out, Warning{
			Metric:  Volatility,
			Value:   r.VolatilityPct,
			Message: fmt.Sprintf("volatility unusually high: %.2f%% (typically 10-50%%)", r.VolatilityPct),
		})
	}
	if math.Abs(r.CalmarRatio) > MaxNormalCalmar {
		out = append(out, Warning{
			Metric:  Calmar,
			Value:   r.CalmarRatio,
			Message: fmt.Sprintf("calmar ratio out of range: %.2f (typically -2 to 5)", r.CalmarRatio),
		})
	}
	return out
}

// VolatilityComparison puts the retained volatility formula next to the
// alternatives that were evaluated and rejected.
type VolatilityComparison struct {
	AverageProfit          float64 `json:"average_profit"`
	AverageAbsProfit       float64 `json:"average_abs_profit"`
	AverageAbsDeviation    float64 `json:"average_abs_deviation"`
	StdDev                 float64 `json:"std_dev"`
	Current                float64 `json:"current"`
	CoefficientOfVariation float64 `json:"coefficient_of_variation"`
	RelativeToDeviation    float64 `json:"relative_to_deviation"`
	Normalized             float64 `json:"normalized"`
}

// Recommendation summarises which formula reads sensibly for this dataset.
func (v VolatilityComparison) Recommendation() string {
	switch {
	case v.Current < 50:
		return "current formula is fine"
	case v.Normalized < 150:
		return fmt.Sprintf("normalized volatility reads better: %.2f%%", v.Normalized)
	default:
		return "dataset contains extreme outliers"
	}
}

// CompareVolatility computes every volatility variant for trades.
func CompareVolatility(trades []Trade) (VolatilityComparison, error) {
	n := len(trades)
	if n < 2 {
		return VolatilityComparison{}, &InsufficientDataError{Count: n}
	}

	var v VolatilityComparison
	for _, t := range trades {
		if !finite(t.Profit) {
			return VolatilityComparison{}, &NonFiniteError{Ticket: t.Ticket, Field: "profit", Value: t.Profit}
		}
		v.AverageProfit += t.Profit / float64(n)
		v.AverageAbsProfit += math.Abs(t.Profit) / float64(n)
	}
	for _, t := range trades {
		v.AverageAbsDeviation += math.Abs(t.Profit-v.AverageProfit) / float64(n)
	}
	v.StdDev = stdDev(trades, v.AverageProfit)

	v.Current = ratioPct(v.StdDev, v.AverageAbsProfit)
	v.CoefficientOfVariation = ratioPct(v.StdDev, math.Abs(v.AverageProfit))
	v.RelativeToDeviation = ratioPct(v.StdDev, v.AverageAbsDeviation)

	if v.AverageAbsProfit > 0 {
		var nsum float64
		norm := make([]float64, n)
		for i, t := range trades {
			norm[i] = t.Profit / v.AverageAbsProfit
			nsum += norm[i]
		}
		navg := nsum / float64(n)
		var nsq float64
		for _, x := range norm {
			nsq += (x - navg) * (x - navg)
		}
		v.Normalized = math.Sqrt(nsq/float64(n-1)) * 100
	}

	checks := []struct {
		name string
		x    float64
	}{
		{"average_abs_deviation", v.AverageAbsDeviation},
		{"std_dev", v.StdDev},
		{"current", v.Current},
		{"coefficient_of_variation", v.CoefficientOfVariation},
		{"relative_to_deviation", v.RelativeToDeviation},
		{"normalized", v.Normalized},
	}
	for _, c := range checks {
		if !finite(c.x) {
			return VolatilityComparison{}, &NonFiniteError{Field: c.name, Value: c.x}
		}
	}
	return v, nil
}

func ratioPct(num, den float64) float64 {
	if den <= 0 {
		return 0
	}
	return num / den * 100
}

// Bucket is a profit range. Win buckets are [Min, Max), loss buckets (Min, Max].
type Bucket struct {
	Label string
	Min   float64
	Max   float64
}

// Default buckets, in account currency (yen).
var (
	DefaultWinBuckets = []Bucket{
		{"1-5k", 1, 5000},
		{"5-10k", 5000, 10000},
		{"10-20k", 10000, 20000},
		{"20k+", 20000, math.Inf(1)},
	}
	DefaultLossBuckets = []Bucket{
		{"0-5k", -5000, 0},
		{"5-10k", -10000, -5000},
		{"10-20k", -20000, -10000},
		{"20k+", math.Inf(-1), -20000},
	}
)

// BucketCount is the number of trades that fell in a bucket.
type BucketCount struct {
	Bucket
	Count int
}

// Distribution describes how wins and losses are spread.
type Distribution struct {
	Wins    int
	Losses  int
	MaxWin  float64
	MinWin  float64
	MaxLoss float64 // most negative
	MinLoss float64 // closest to zero

	WinBuckets  []BucketCount
	LossBuckets []BucketCount
}

// Distribute buckets trades by profit. Nil bucket lists use the defaults.
func Distribute(trades []Trade, winBuckets, lossBuckets []Bucket) Distribution {
	if winBuckets == nil {
		winBuckets = DefaultWinBuckets
	}
	if lossBuckets == nil {
		lossBuckets = DefaultLossBuckets
	}

	d := Distribution{
		WinBuckets:  make([]BucketCount, len(winBuckets)),
		LossBuckets: make([]BucketCount, len(lossBuckets)),
	}
	for i, b := range winBuckets {
		d.WinBuckets[i].Bucket = b
	}
	for i, b := range lossBuckets {
		d.LossBuckets[i].Bucket = b
	}

	for _, t := range trades {
		p := t.Profit
		switch {
		case p > 0:
			if d.Wins == 0 || p > d.MaxWin {
				d.MaxWin = p
			}
			if d.Wins == 0 || p < d.MinWin {
				d.MinWin = p
			}
			d.Wins++
			for i, b := range winBuckets {
				if p >= b.Min && p < b.Max {
					d.WinBuckets[i].Count++
				}
			}
		case p < 0:
			if d.Losses == 0 || p < d.MaxLoss {
				d.MaxLoss = p
			}
			if d.Losses == 0 || p > d.MinLoss {
				d.MinLoss = p
			}
			d.Losses++
			for i, b := range lossBuckets {
				if p > b.Min && p <= b.Max {
					d.LossBuckets[i].Count++
				}
			}
		}
	}
	return d
}
