// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package provider implements the AI scoring backends (Claude, OpenAI,
// Gemini) behind a common interface. Each backend sends one batch of
// sessions per request and maps the model's JSON reply back onto events.
// See docs/ARCHITECTURE § Providers.
package provider

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/pdiddy/sched-scorer/pkg/types"
)

// Backend abstracts an AI scoring API so the pipeline and tests can
// supply a mock.
type Backend interface {
	// Name returns the provider's CLI name (claude, openai, gemini).
	Name() string

	// Model returns the model identifier requests are sent to.
	Model() string

	// ScoreBatch scores one batch of events against the profile. The
	// returned slice covers every input event; events the model skipped
	// come back unscored.
	ScoreBatch(ctx context.Context, events []types.Event, profile types.Profile) ([]types.ScoredEvent, error)
}

// Default models per provider, overridable with --model.
const (
	defaultClaudeModel = "claude-opus-4-6"
	defaultOpenAIModel = "gpt-5.2"
	defaultGeminiModel = "gemini-3-pro-preview"
)

// maxHTTPRetries bounds 429 retries inside a single API call. Retries of
// whole failed batches happen one level up, in the score package.
const maxHTTPRetries = 3

// providerInfo ties a provider name to its default model and API key
// sources.
type providerInfo struct {
	defaultModel string
	envVar       string
	secretName   string
}

var providers = map[string]providerInfo{
	"claude": {defaultClaudeModel, "ANTHROPIC_API_KEY", "anthropic-api-key"},
	"openai": {defaultOpenAIModel, "OPENAI_API_KEY", "openai-api-key"},
	"gemini": {defaultGeminiModel, "GOOGLE_API_KEY", "google-api-key"},
}

// Names returns the supported provider names in display order.
func Names() []string {
	return []string{"claude", "openai", "gemini"}
}

// EnvVar returns the environment variable consulted for the named
// provider's API key, or "" for unknown providers.
func EnvVar(name string) string {
	return providers[name].envVar
}

// SecretName returns the key file name under the secrets directory for
// the named provider, or "" for unknown providers.
func SecretName(name string) string {
	return providers[name].secretName
}

// New builds the named backend. An empty model selects the provider's
// default. The API key must already be resolved; New fails fast when it
// is missing so no batch is attempted without credentials.
func New(name, model, apiKey string, client *http.Client) (Backend, error) {
	info, ok := providers[name]
	if !ok {
		return nil, fmt.Errorf("unknown provider %q (valid: %s)", name, strings.Join(Names(), ", "))
	}
	if model == "" {
		model = info.defaultModel
	}
	if apiKey == "" {
		return nil, fmt.Errorf("%s not set: export it or pass --api-key", info.envVar)
	}
	if client == nil {
		client = http.DefaultClient
	}

	switch name {
	case "claude":
		return &ClaudeBackend{model: model, apiKey: apiKey, client: client}, nil
	case "openai":
		return &OpenAIBackend{model: model, apiKey: apiKey, client: client}, nil
	default:
		return &GeminiBackend{model: model, apiKey: apiKey, client: client}, nil
	}
}
