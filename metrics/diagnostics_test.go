package metrics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWarnings(t *testing.T) {
	t.Parallel()

	assert.Empty(t, Warnings(Result{SharpeLike: 0.2, VolatilityPct: 120, CalmarRatio: 2}))

	ws := Warnings(Result{SharpeLike: -1.5, VolatilityPct: 641.69, CalmarRatio: -12})
	require.Len(t, ws, 3)
	assert.Equal(t, Sharpe, ws[0].Metric)
	assert.Equal(t, Volatility, ws[1].Metric)
	assert.Equal(t, Calmar, ws[2].Metric)
	assert.Contains(t, ws[1].String(), "641.69%")
}

func TestCompareVolatility(t *testing.T) {
	t.Parallel()

	v, err := CompareVolatility(series(300, -100, -100, 200, -400, 150))
	require.NoError(t, err)

	assert.InDelta(t, 123.702870, v.Current, 1e-6)
	assert.InDelta(t, 3092.571745, v.CoefficientOfVariation, 1e-6)
	assert.InDelta(t, 123.702870, v.RelativeToDeviation, 1e-6)
	// normalising by the mean absolute profit is a pure rescale
	assert.InDelta(t, v.Current, v.Normalized, 1e-9)
	assert.Contains(t, v.Recommendation(), "normalized volatility")

	r, err := Compute(series(300, -100, -100, 200, -400, 150))
	require.NoError(t, err)
	assert.InDelta(t, r.VolatilityPct, v.Current, 1e-9)
}

func TestCompareVolatilityExtremeProfits(t *testing.T) {
	t.Parallel()

	v, err := CompareVolatility(series(1e200, -1e200))
	require.NoError(t, err)
	assert.InDelta(t, 100*math.Sqrt2, v.Current, 1e-9)
	assert.InDelta(t, v.Current, v.Normalized, 1e-9)

	_, err = CompareVolatility(series(1, math.NaN()))
	assert.ErrorIs(t, err, ErrNonFinite)
}

func TestCompareVolatilityRecommendation(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "current formula is fine", VolatilityComparison{Current: 20}.Recommendation())
	assert.Contains(t, VolatilityComparison{Current: 120, Normalized: 120}.Recommendation(), "normalized")
	assert.Equal(t, "dataset contains extreme outliers", VolatilityComparison{Current: 640, Normalized: 640}.Recommendation())
}

func TestCompareVolatilityInsufficient(t *testing.T) {
	t.Parallel()

	_, err := CompareVolatility(series(1))
	assert.ErrorIs(t, err, ErrInsufficientData)
}

func TestDistribute(t *testing.T) {
	t.Parallel()

	d := Distribute(series(1200, 7000, 25000, 0, -300, -5000, -12000, -30000), nil, nil)

	assert.Equal(t, 3, d.Wins)
	assert.Equal(t, 4, d.Losses)
	assert.Equal(t, 25000.0, d.MaxWin)
	assert.Equal(t, 1200.0, d.MinWin)
	assert.Equal(t, -30000.0, d.MaxLoss)
	assert.Equal(t, -300.0, d.MinLoss)

	var wins, losses []int
	for _, b := range d.WinBuckets {
		wins = append(wins, b.Count)
	}
	for _, b := range d.LossBuckets {
		losses = append(losses, b.Count)
	}
	assert.Equal(t, []int{1, 1, 0, 1}, wins)
	// -5000 belongs to (-10000, -5000], not (-5000, 0]
	assert.Equal(t, []int{1, 1, 1, 1}, losses)
}
