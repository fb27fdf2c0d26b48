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

// openAIAPIURL is the OpenAI Chat Completions endpoint. Package-level
// var for test substitution.
var openAIAPIURL = "https://api.openai.com/v1/chat/completions"

// OpenAIBackend scores batches through the OpenAI Chat Completions API.
type OpenAIBackend struct {
	model  string
	apiKey string
	client *http.Client
}

// openAIRequest is the request body for the Chat Completions API.
type openAIRequest struct {
	Model       string          `json:"model"`
	Messages    []openAIMessage `json:"messages"`
	Temperature float64         `json:"temperature"`
}

// openAIMessage is a single chat message.
type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// openAIResponse is the response body from the Chat Completions API.
type openAIResponse struct {
	Choices []openAIChoice `json:"choices"`
}

// openAIChoice is one completion choice in the response.
type openAIChoice struct {
	Message openAIMessage `json:"message"`
}

func (o *OpenAIBackend) Name() string  { return "openai" }
func (o *OpenAIBackend) Model() string { return o.model }

// ScoreBatch sends one batch of events to the OpenAI API and maps the
// reply back onto the events.
func (o *OpenAIBackend) ScoreBatch(ctx context.Context, events []types.Event, profile types.Profile) ([]types.ScoredEvent, error) {
	system, err := buildSystemPrompt(profile)
	if err != nil {
		return nil, fmt.Errorf("rendering system prompt: %w", err)
	}

	reqBody := openAIRequest{
		Model: o.model,
		Messages: []openAIMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: buildUserPrompt(events)},
		},
		Temperature: 0.3,
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, openAIAPIURL, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+o.apiKey)

	resp, err := httputil.DoWithRetry(ctx, o.client, req, maxHTTPRetries)
	if err != nil {
		return nil, fmt.Errorf("calling OpenAI API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("OpenAI API returned %d: %s", resp.StatusCode, string(body))
	}

	var oResp openAIResponse
	if err := json.NewDecoder(resp.Body).Decode(&oResp); err != nil {
		return nil, fmt.Errorf("decoding OpenAI response: %w", err)
	}

	if len(oResp.Choices) == 0 || oResp.Choices[0].Message.Content == "" {
		return nil, fmt.Errorf("%w: no completion in OpenAI response", ErrBadResponse)
	}
	return parseScores(oResp.Choices[0].Message.Content, events)
}
