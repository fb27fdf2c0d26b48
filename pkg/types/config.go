package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "sched-scorer/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// FeedConfig holds settings for the feed fetch stage.
type FeedConfig struct {
	HTTPConfig `yaml:",inline"`

	// URL is the ICS feed to download.
	URL string `json:"url" yaml:"url"`

	// CacheDir is the directory holding the cached feed file (default ".cache").
	CacheDir string `json:"cache_dir" yaml:"cache_dir"`

	// MaxAge is how long a cached feed stays fresh (default 24h).
	MaxAge time.Duration `json:"max_age" yaml:"max_age"`
}

// AIConfig holds shared settings for stages that call a Generative AI API.
type AIConfig struct {
	// Model is the AI model identifier (e.g. "claude-opus-4-6"). Empty
	// selects the provider's default.
	Model string `json:"model" yaml:"model"`

	// APIKey is the authentication key for the AI API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// MaxRetries is the number of retry attempts for failed API calls.
	// Negative selects the default (2); an explicit zero disables retries.
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// ScoringConfig holds settings for the scoring stage.
type ScoringConfig struct {
	AIConfig `yaml:",inline"`

	// Provider selects the AI backend: claude, openai, or gemini.
	Provider string `json:"provider" yaml:"provider"`

	// BatchSize is the number of events per scoring request (default 12).
	BatchSize int `json:"batch_size" yaml:"batch_size"`

	// CacheDir is the directory holding score-cache files (default ".cache").
	CacheDir string `json:"cache_dir" yaml:"cache_dir"`

	// Concurrency bounds parallel batch requests; 1 means sequential.
	Concurrency int `json:"concurrency" yaml:"concurrency"`
}

// ReportConfig holds settings for report generation.
type ReportConfig struct {
	// OutputPath is the HTML file to write. Empty selects
	// "output/schedule_{profile}.html".
	OutputPath string `json:"output_path" yaml:"output_path"`

	// MinScore excludes events below this total from the report (default 0).
	MinScore int `json:"min_score" yaml:"min_score"`
}
