package metrics

// Metric names a classified indicator.
type Metric string

const (
	RiskReward Metric = "rrr"
	Sharpe     Metric = "sharpe"
	Volatility Metric = "volatility"
	Calmar     Metric = "calmar"
)

// AllMetrics is the display order of the classified indicators.
var AllMetrics = []Metric{RiskReward, Sharpe, Volatility, Calmar}

// Tier is a three-level qualitative grade used for display.
type Tier int

const (
	Poor Tier = iota
	Neutral
	Good
)

func (t Tier) String() string {
	switch t {
	case Good:
		return "good"
	case Neutral:
		return "neutral"
	default:
		return "poor"
	}
}

// Color is the presentation color for the tier.
func (t Tier) Color() string {
	switch t {
	case Good:
		return "green"
	case Neutral:
		return "blue"
	default:
		return "red"
	}
}

func (t Tier) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// Threshold assigns Tier to values >= Min.
type Threshold struct {
	Min  float64
	Tier Tier
}

// Rule is an ordered threshold list, highest Min first. Values below every
// threshold get Below.
type Rule struct {
	Thresholds []Threshold
	Below      Tier
}

// Rules is the tier table. Volatility is inverted: higher is worse.
var Rules = map[Metric]Rule{
	RiskReward: {Thresholds: []Threshold{{2.0, Good}, {1.0, Neutral}}, Below: Poor},
	Sharpe:     {Thresholds: []Threshold{{1.0, Good}, {0, Neutral}}, Below: Poor},
	Volatility: {Thresholds: []Threshold{{100, Poor}, {30, Neutral}}, Below: Good},
	Calmar:     {Thresholds: []Threshold{{1.0, Good}, {0, Neutral}}, Below: Poor},
}

// Classify maps v to a tier using the rule for m. Unknown metrics are Neutral.
func Classify(m Metric, v float64) Tier {
	rule, ok := Rules[m]
	if !ok {
		return Neutral
	}
	for _, th := range rule.Thresholds {
		if v >= th.Min {
			return th.Tier
		}
	}
	return rule.Below
}

// Tiers classifies every metric in AllMetrics.
func (r Result) Tiers() map[Metric]Tier {
	out := make(map[Metric]Tier, len(AllMetrics))
	for _, m := range AllMetrics {
		out[m] = Classify(m, r.Value(m))
	}
	return out
}
