// Package suggest is the optional category/payment-mode suggestion
// collaborator, backed by the Gemini generateContent REST endpoint. Retry
// policy lives entirely here; callers only ever see the final result.
package suggest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"cashbook/internal/core"
	"cashbook/internal/ledger"
)

const (
	defaultBaseURL = "https://generativelanguage.googleapis.com"
	model          = "gemini-2.5-flash-preview-09-2025"
	maxAttempts    = 3
)

type Client struct {
	httpClient *http.Client
	apiKey     string
	baseURL    string
}

var _ ledger.Suggester = (*Client)(nil)

type Option func(*Client)

// WithBaseURL points the client at a different endpoint, for tests.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type generateRequest struct {
	Contents          []content         `json:"contents"`
	SystemInstruction *content          `json:"systemInstruction,omitempty"`
	GenerationConfig  *generationConfig `json:"generationConfig,omitempty"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	ResponseMimeType string          `json:"responseMimeType"`
	ResponseSchema   json.RawMessage `json:"responseSchema"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// responseSchema constrains the model to the two optional suggestion fields.
var responseSchema = json.RawMessage(`{
	"type": "OBJECT",
	"properties": {
		"suggestedCategory": {"type": "STRING"},
		"suggestedPaymentMode": {"type": "STRING"}
	}
}`)

// Suggest asks for a category and payment mode matching the entry context.
// It retries transient failures with exponential backoff and returns
// (nil, nil) once the attempts are exhausted: a missing suggestion is not an
// engine error, the previous field values simply stay in place.
func (c *Client) Suggest(ctx context.Context, ec ledger.EntryContext) (*ledger.Suggestion, error) {
	req := generateRequest{
		Contents:          []content{{Parts: []part{{Text: userQuery(ec)}}}},
		SystemInstruction: &content{Parts: []part{{Text: systemPrompt()}}},
		GenerationConfig: &generationConfig{
			ResponseMimeType: "application/json",
			ResponseSchema:   responseSchema,
		},
	}
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(1<<(attempt-1)) * time.Second
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}

		suggestion, err := c.call(ctx, body)
		if err == nil {
			return suggestion, nil
		}
		lastErr = err
		slog.WarnContext(ctx, "Suggestion attempt failed",
			"attempt", attempt+1,
			"error", err)
	}

	slog.ErrorContext(ctx, "Suggestion failed after all retries", "error", lastErr)
	return nil, nil
}

func (c *Client) call(ctx context.Context, body []byte) (*ledger.Suggestion, error) {
	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", c.baseURL, model, c.apiKey)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("call model: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("call model: status %d", resp.StatusCode)
	}

	var gr generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&gr); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if len(gr.Candidates) == 0 || len(gr.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("empty candidate response")
	}

	var suggestion ledger.Suggestion
	if err := json.Unmarshal([]byte(gr.Candidates[0].Content.Parts[0].Text), &suggestion); err != nil {
		return nil, fmt.Errorf("parse suggestion: %w", err)
	}
	return &suggestion, nil
}

func systemPrompt() string {
	return fmt.Sprintf("You are an AI financial assistant specializing in small business cash flow. "+
		"Based on the provided transaction details, analyze the context and suggest the most appropriate "+
		"'category' from the following list: %s and 'paymentMode' from this list: %s. "+
		"Assume 'in' transactions are revenue and 'out' transactions are expenses. "+
		"Output the response strictly as a JSON object.",
		strings.Join(core.Categories, ", "), strings.Join(core.PaymentModes, ", "))
}

func userQuery(ec ledger.EntryContext) string {
	amount := ec.Amount
	if amount == "" {
		amount = "N/A"
	}
	return fmt.Sprintf("I have a cashbook entry. Transaction type: %s. Contact: %s. Remark: %s. Amount: %s. "+
		"Suggest the best category and payment mode.",
		ec.Type, ec.Contact, ec.Remark, amount)
}
