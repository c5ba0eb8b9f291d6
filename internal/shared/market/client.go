// Package market wraps the external market-context capability behind a
// narrow request/response contract. The engine treats it as optional: any
// failure here degrades to "no external context", never to an item error.
package market

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultBaseURL = "https://api.perplexity.ai"

// Client talks to the Perplexity chat-completions API.
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	retries    int
	httpClient *http.Client
}

// NewClient creates a market-context client. retries is the number of
// additional attempts after the first (the policy allows exactly one).
func NewClient(baseURL, apiKey, model string, timeout time.Duration, retries int) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if model == "" {
		model = "sonar"
	}
	if timeout <= 0 {
		timeout = 8 * time.Second
	}
	if retries < 0 {
		retries = 0
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		model:   model,
		retries: retries,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Lookup fetches one market-context sentence for a material in a region and
// month. The caller bounds the call with its context deadline.
func (c *Client) Lookup(ctx context.Context, req ContextRequest) (*ContextResult, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("market lookup not configured")
	}

	prompt := fmt.Sprintf(
		"In one sentence, what drove the market price of %s in region %s during %s? Answer with the single sentence only.",
		req.Material, req.Region, req.YearMonth)

	body := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: "You are a commodity market analyst. Answer in exactly one factual sentence."},
			{Role: "user", Content: prompt},
		},
		MaxTokens:   256,
		Temperature: 0.15,
	}

	var lastErr error
	for attempt := 0; attempt <= c.retries; attempt++ {
		result, retryable, err := c.doLookup(ctx, &body)
		if err == nil {
			return result, nil
		}
		lastErr = err
		if !retryable || ctx.Err() != nil {
			break
		}
	}
	return nil, lastErr
}

func (c *Client) doLookup(ctx context.Context, body *chatRequest) (result *ContextResult, retryable bool, err error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, false, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return nil, false, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, true, fmt.Errorf("market lookup request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		io.Copy(io.Discard, resp.Body)
		return nil, true, fmt.Errorf("market lookup: upstream status %d", resp.StatusCode)
	}
	if resp.StatusCode >= 400 {
		io.Copy(io.Discard, resp.Body)
		return nil, false, fmt.Errorf("market lookup: status %d", resp.StatusCode)
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, false, fmt.Errorf("market lookup: decode response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return nil, false, fmt.Errorf("market lookup: empty response")
	}

	sentence := firstSentenceLine(parsed.Choices[0].Message.Content)
	if sentence == "" {
		return nil, false, fmt.Errorf("market lookup: blank answer")
	}

	out := &ContextResult{Sentence: sentence}
	if len(parsed.Citations) > 0 {
		out.SourceLink = parsed.Citations[0]
	}
	return out, false, nil
}

// firstSentenceLine trims the answer down to its first non-empty line.
func firstSentenceLine(content string) string {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			return line
		}
	}
	return ""
}
