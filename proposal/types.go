package proposal

// Request describes the market scan to generate.
type Request struct {
	Prompt    string `json:"prompt"`
	Pair      string `json:"pair"`      // e.g. "USD/JPY"
	Timeframe string `json:"timeframe"` // e.g. "1H"
	Period    string `json:"period"`    // e.g. "1 week"
}

// Proposal is the structured scan returned by the generator.
type Proposal struct {
	Hero     Hero     `json:"hero"`
	Daily    Daily    `json:"daily"`
	Scenario Scenario `json:"scenario"`
	Ideas    []Idea   `json:"ideas"`
	Factors  Factors  `json:"factors"`
	Notes    Notes    `json:"notes"`
}

// Bias values.
const (
	BiasBuy     = "BUY"
	BiasSell    = "SELL"
	BiasNeutral = "NEUTRAL"
)

// Hero is the headline call.
type Hero struct {
	Pair       string  `json:"pair"`
	Bias       string  `json:"bias"`
	Confidence float64 `json:"confidence"` // 0-100
	Now        float64 `json:"nowYen"`
	BuyEntry   string  `json:"buyEntry"`
	SellEntry  string  `json:"sellEntry"`
}

// Daily is the stance for the current session.
type Daily struct {
	Stance   string `json:"stance"`
	Session  string `json:"session"`
	Anchor   string `json:"anchor"`
	RiskNote string `json:"riskNote"`
}

// Scenario holds price paths for three outcomes.
type Scenario struct {
	Strong string `json:"strong"`
	Base   string `json:"base"`
	Weak   string `json:"weak"`
}

// Idea is one concrete trade setup.
type Idea struct {
	ID         string  `json:"id"`
	Side       string  `json:"side"`
	Entry      string  `json:"entry"`
	SLPips     float64 `json:"slPips"` // negative
	TPPips     float64 `json:"tpPips"`
	Expected   float64 `json:"expected"`
	Confidence string  `json:"confidence"`
}

// RewardRisk is TPPips over the absolute stop distance; 0 without a stop.
func (i Idea) RewardRisk() float64 {
	sl := i.SLPips
	if sl < 0 {
		sl = -sl
	}
	if sl == 0 {
		return 0
	}
	return i.TPPips / sl
}

type Factors struct {
	Technical   []string `json:"technical"`
	Fundamental []string `json:"fundamental"`
	Sentiment   []string `json:"sentiment"`
}

type Notes struct {
	Memo []string `json:"memo"`
}
