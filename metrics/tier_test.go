package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		metric Metric
		value  float64
		want   Tier
	}{
		{RiskReward, 3.0, Good},
		{RiskReward, 2.0, Good},
		{RiskReward, 1.99, Neutral},
		{RiskReward, 1.0, Neutral},
		{RiskReward, 0.99, Poor},
		{RiskReward, 0, Poor},

		{Sharpe, 1.0, Good},
		{Sharpe, 0.17, Neutral},
		{Sharpe, 0, Neutral},
		{Sharpe, -0.028, Poor},

		{Volatility, 0, Good},
		{Volatility, 29.99, Good},
		{Volatility, 30.0, Neutral},
		{Volatility, 99.99, Neutral},
		{Volatility, 100, Poor},
		{Volatility, 641.69, Poor},

		{Calmar, 2.21, Good},
		{Calmar, 1.0, Good},
		{Calmar, 0, Neutral},
		{Calmar, -0.29, Poor},
	}

	for _, tt := range tests {
		got := Classify(tt.metric, tt.value)
		assert.Equal(t, tt.want, got, "%s=%v", tt.metric, tt.value)
	}
}

func TestClassifyUnknownMetric(t *testing.T) {
	t.Parallel()
	assert.Equal(t, Neutral, Classify(Metric("nope"), 5))
}

func TestRulesAreOrdered(t *testing.T) {
	t.Parallel()

	for m, rule := range Rules {
		for i := 1; i < len(rule.Thresholds); i++ {
			assert.Greater(t, rule.Thresholds[i-1].Min, rule.Thresholds[i].Min, m)
		}
	}
	for _, m := range AllMetrics {
		_, ok := Rules[m]
		assert.True(t, ok, m)
	}
}

func TestTierStrings(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "good", Good.String())
	assert.Equal(t, "neutral", Neutral.String())
	assert.Equal(t, "poor", Poor.String())
	assert.Equal(t, "green", Good.Color())
	assert.Equal(t, "blue", Neutral.Color())
	assert.Equal(t, "red", Poor.Color())

	b, err := Good.MarshalText()
	assert.NoError(t, err)
	assert.Equal(t, "good", string(b))
}

func TestResultTiers(t *testing.T) {
	t.Parallel()

	r := Result{
		RiskRewardRatio: 2.33,
		SharpeLike:      0.170,
		VolatilityPct:   121.17,
		CalmarRatio:     2.21,
	}
	assert.Equal(t, map[Metric]Tier{
		RiskReward: Good,
		Sharpe:     Neutral,
		Volatility: Poor,
		Calmar:     Good,
	}, r.Tiers())
}
