// Package proposal is a client for the remote trade proposal generator.
package proposal

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/rustyeddy/tradelog/config"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// DefaultTimeout applies when the configuration leaves it unset. Generation
// involves a model round trip and is slow.
const DefaultTimeout = 60 * time.Second

var (
	ErrMissingField = errors.New("missing required field")
	ErrNoEndpoint   = errors.New("proposal endpoint not configured")
)

// APIError is a non-2xx answer from the generator.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("proposal API error (status %d)", e.StatusCode)
	}
	return fmt.Sprintf("proposal API error (status %d): %s", e.StatusCode, e.Message)
}

// Client represents a proposal API client
type Client struct {
	endpoint   string
	token      string
	httpClient *http.Client
}

// New creates a client from configuration. An unparsable timeout falls back
// to DefaultTimeout; config.Validate reports it earlier.
func New(cfg config.ProposalConfig) *Client {
	timeout, err := config.ParseDuration(cfg.Timeout, DefaultTimeout)
	if err != nil {
		timeout = DefaultTimeout
	}
	return &Client{
		endpoint: cfg.Endpoint,
		token:    cfg.Token,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Validate reports the first empty field of r.
func (r Request) Validate() error {
	fields := []struct{ name, value string }{
		{"prompt", r.Prompt},
		{"pair", r.Pair},
		{"timeframe", r.Timeframe},
		{"period", r.Period},
	}
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			return fmt.Errorf("%w: %s", ErrMissingField, f.name)
		}
	}
	return nil
}

// Generate asks the generator for a proposal.
func (c *Client) Generate(ctx context.Context, req Request) (*Proposal, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if c.endpoint == "" {
		return nil, ErrNoEndpoint
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var e struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(data, &e) == nil && e.Error != "" {
			apiErr.Message = e.Error
		} else {
			apiErr.Message = strings.TrimSpace(string(data))
		}
		return nil, apiErr
	}

	var p Proposal
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &p, nil
}
