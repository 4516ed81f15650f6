package proposal

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/tradelog/config"
)

var validRequest = Request{
	Prompt:    "look for pullback entries",
	Pair:      "USD/JPY",
	Timeframe: "1H",
	Period:    "1 week",
}

const sampleProposal = `{
  "hero": {"pair": "USD/JPY", "bias": "SELL", "confidence": 65, "nowYen": 149.82, "buyEntry": "148.90", "sellEntry": "150.20"},
  "daily": {"stance": "sell rallies", "session": "Tokyo", "anchor": "150.00", "riskNote": "CPI tonight"},
  "scenario": {"strong": "151.00", "base": "149.50", "weak": "148.00"},
  "ideas": [
    {"id": "idea-1", "side": "sell", "entry": "150.10-150.30", "slPips": -30, "tpPips": 60, "expected": 2.0, "confidence": "high"}
  ],
  "factors": {"technical": ["lower highs"], "fundamental": ["yield gap narrowing"], "sentiment": ["crowded long"]},
  "notes": {"memo": ["watch 150.00"]}
}`

func TestNew(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		c := New(config.ProposalConfig{Endpoint: "http://x", Token: "tok"})
		assert.Equal(t, "http://x", c.endpoint)
		assert.Equal(t, "tok", c.token)
		assert.Equal(t, DefaultTimeout, c.httpClient.Timeout)
	})

	t.Run("configured timeout", func(t *testing.T) {
		c := New(config.ProposalConfig{Timeout: "5s"})
		assert.Equal(t, 5*time.Second, c.httpClient.Timeout)
	})

	t.Run("bad timeout", func(t *testing.T) {
		c := New(config.ProposalConfig{Timeout: "later"})
		assert.Equal(t, DefaultTimeout, c.httpClient.Timeout)
	})
}

func TestGenerate_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var got Request
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		assert.Equal(t, validRequest, got)

		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, sampleProposal)
	}))
	defer server.Close()

	c := New(config.ProposalConfig{Endpoint: server.URL, Token: "test-token"})
	p, err := c.Generate(context.Background(), validRequest)
	require.NoError(t, err)

	assert.Equal(t, "USD/JPY", p.Hero.Pair)
	assert.Equal(t, BiasSell, p.Hero.Bias)
	assert.Equal(t, 149.82, p.Hero.Now)
	assert.Equal(t, "CPI tonight", p.Daily.RiskNote)
	assert.Equal(t, "149.50", p.Scenario.Base)
	require.Len(t, p.Ideas, 1)
	assert.Equal(t, -30.0, p.Ideas[0].SLPips)
	assert.Equal(t, 2.0, p.Ideas[0].RewardRisk())
	assert.Equal(t, []string{"crowded long"}, p.Factors.Sentiment)
	assert.Equal(t, []string{"watch 150.00"}, p.Notes.Memo)
}

func TestGenerate_MissingFieldsSkipIO(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer server.Close()

	c := New(config.ProposalConfig{Endpoint: server.URL})

	for _, req := range []Request{
		{Pair: "USD/JPY", Timeframe: "1H", Period: "1 week"},
		{Prompt: "p", Timeframe: "1H", Period: "1 week"},
		{Prompt: "p", Pair: "USD/JPY", Period: "1 week"},
		{Prompt: "p", Pair: "USD/JPY", Timeframe: "1H", Period: "  "},
	} {
		_, err := c.Generate(context.Background(), req)
		assert.ErrorIs(t, err, ErrMissingField)
	}
	assert.Zero(t, calls.Load())
}

func TestGenerate_NoEndpoint(t *testing.T) {
	_, err := New(config.ProposalConfig{}).Generate(context.Background(), validRequest)
	assert.ErrorIs(t, err, ErrNoEndpoint)
}

func TestGenerate_APIError(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		message string
	}{
		{"json error", http.StatusBadRequest, `{"error": "Missing required fields"}`, "Missing required fields"},
		{"plain body", http.StatusBadGateway, "upstream down\n", "upstream down"},
		{"empty body", http.StatusInternalServerError, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				io.WriteString(w, tt.body)
			}))
			defer server.Close()

			_, err := New(config.ProposalConfig{Endpoint: server.URL}).Generate(context.Background(), validRequest)
			require.Error(t, err)

			var apiErr *APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.Equal(t, tt.message, apiErr.Message)
		})
	}
}

func TestGenerate_BadJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "{not json")
	}))
	defer server.Close()

	_, err := New(config.ProposalConfig{Endpoint: server.URL}).Generate(context.Background(), validRequest)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode response")
}

func TestGenerate_ContextCanceled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(config.ProposalConfig{Endpoint: server.URL}).Generate(ctx, validRequest)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestIdeaRewardRisk(t *testing.T) {
	assert.Equal(t, 0.0, Idea{TPPips: 50}.RewardRisk())
	assert.Equal(t, 2.5, Idea{SLPips: 20, TPPips: 50}.RewardRisk())
}
