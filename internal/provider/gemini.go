package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/pdiddy/sched-scorer/internal/httputil"
	"github.com/pdiddy/sched-scorer/pkg/types"
)

// geminiAPIBase is the Gemini API base URL. The model name is appended
// per request. Package-level var for test substitution.
var geminiAPIBase = "https://generativelanguage.googleapis.com/v1beta"

// GeminiBackend scores batches through the Gemini generateContent API.
type GeminiBackend struct {
	model  string
	apiKey string
	client *http.Client
}

// geminiRequest is the request body for generateContent.
type geminiRequest struct {
	SystemInstruction *geminiContent  `json:"system_instruction,omitempty"`
	Contents          []geminiContent `json:"contents"`
	GenerationConfig  geminiGenConfig `json:"generationConfig"`
}

// geminiContent is a block of parts, used for both prompts and replies.
type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

// geminiPart is a single text part.
type geminiPart struct {
	Text string `json:"text"`
}

// geminiGenConfig carries generation parameters.
type geminiGenConfig struct {
	Temperature float64 `json:"temperature"`
}

// geminiResponse is the response body from generateContent.
type geminiResponse struct {
	Candidates []geminiCandidate `json:"candidates"`
}

// geminiCandidate is one candidate reply.
type geminiCandidate struct {
	Content geminiContent `json:"content"`
}

func (g *GeminiBackend) Name() string  { return "gemini" }
func (g *GeminiBackend) Model() string { return g.model }

// ScoreBatch sends one batch of events to the Gemini API and maps the
// reply back onto the events.
func (g *GeminiBackend) ScoreBatch(ctx context.Context, events []types.Event, profile types.Profile) ([]types.ScoredEvent, error) {
	system, err := buildSystemPrompt(profile)
	if err != nil {
		return nil, fmt.Errorf("rendering system prompt: %w", err)
	}

	reqBody := geminiRequest{
		SystemInstruction: &geminiContent{Parts: []geminiPart{{Text: system}}},
		Contents:          []geminiContent{{Parts: []geminiPart{{Text: buildUserPrompt(events)}}}},
		GenerationConfig:  geminiGenConfig{Temperature: 0.3},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", geminiAPIBase, g.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", g.apiKey)

	resp, err := httputil.DoWithRetry(ctx, g.client, req, maxHTTPRetries)
	if err != nil {
		return nil, fmt.Errorf("calling Gemini API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("Gemini API returned %d: %s", resp.StatusCode, string(body))
	}

	var gResp geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&gResp); err != nil {
		return nil, fmt.Errorf("decoding Gemini response: %w", err)
	}

	if len(gResp.Candidates) == 0 {
		return nil, fmt.Errorf("%w: no candidates in Gemini response", ErrBadResponse)
	}
	var text strings.Builder
	for _, part := range gResp.Candidates[0].Content.Parts {
		text.WriteString(part.Text)
	}
	if text.Len() == 0 {
		return nil, fmt.Errorf("%w: no text content in Gemini response", ErrBadResponse)
	}
	return parseScores(text.String(), events)
}
