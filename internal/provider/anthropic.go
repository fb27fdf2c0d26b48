// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/pdiddy/sched-scorer/internal/httputil"
	"github.com/pdiddy/sched-scorer/pkg/types"
)

// claudeAPIURL is the Anthropic Messages API endpoint. Package-level var
// for test substitution.
var claudeAPIURL = "https://api.anthropic.com/v1/messages"

// ClaudeBackend scores batches through the Anthropic Messages API.
type ClaudeBackend struct {
	model  string
	apiKey string
	client *http.Client
}

// claudeRequest is the request body for the Messages API.
type claudeRequest struct {
	Model     string          `json:"model"`
	MaxTokens int             `json:"max_tokens"`
	System    string          `json:"system"`
	Messages  []claudeMessage `json:"messages"`
}

// claudeMessage is a single message in the conversation.
type claudeMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// claudeResponse is the response body from the Messages API.
type claudeResponse struct {
	Content []claudeContent `json:"content"`
}

// claudeContent is a content block in the response.
type claudeContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

func (c *ClaudeBackend) Name() string  { return "claude" }
func (c *ClaudeBackend) Model() string { return c.model }

// ScoreBatch sends one batch of events to the Claude API and maps the
// reply back onto the events.
func (c *ClaudeBackend) ScoreBatch(ctx context.Context, events []types.Event, profile types.Profile) ([]types.ScoredEvent, error) {
	system, err := buildSystemPrompt(profile)
	if err != nil {
		return nil, fmt.Errorf("rendering system prompt: %w", err)
	}

	reqBody := claudeRequest{
		Model:     c.model,
		MaxTokens: 4096,
		System:    system,
		Messages: []claudeMessage{
			{Role: "user", Content: buildUserPrompt(events)},
		},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, claudeAPIURL, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", "2023-06-01")

	resp, err := httputil.DoWithRetry(ctx, c.client, req, maxHTTPRetries)
	if err != nil {
		return nil, fmt.Errorf("calling Claude API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("Claude API returned %d: %s", resp.StatusCode, string(body))
	}

	var cResp claudeResponse
	if err := json.NewDecoder(resp.Body).Decode(&cResp); err != nil {
		return nil, fmt.Errorf("decoding Claude response: %w", err)
	}

	for _, block := range cResp.Content {
		if block.Type != "text" {
			continue
		}
		return parseScores(block.Text, events)
	}
	return nil, fmt.Errorf("%w: no text content in Claude response", ErrBadResponse)
}
