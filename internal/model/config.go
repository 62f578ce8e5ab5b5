package model

import "time"

// Config is the complete Motionscope configuration.
// Populated from defaults, ~/.motionscope/config.yaml, MOTIONSCOPE_* env
// vars, and CLI flags (lowest to highest priority).
type Config struct {
	Server      ServerConfig      `yaml:"server" mapstructure:"server"`
	LLM         LLMConfig         `yaml:"llm" mapstructure:"llm"`
	Analysis    AnalysisConfig    `yaml:"analysis" mapstructure:"analysis"`
	Cache       CacheConfig       `yaml:"cache" mapstructure:"cache"`
	Concurrency ConcurrencyConfig `yaml:"concurrency" mapstructure:"concurrency"`
	RateLimit   RateLimitConfig   `yaml:"rate_limit" mapstructure:"rate_limit"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Addr         string        `yaml:"addr" mapstructure:"addr"`
	ReadTimeout  time.Duration `yaml:"read_timeout" mapstructure:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout" mapstructure:"write_timeout"`
}

// LLMConfig holds text-understanding provider settings
type LLMConfig struct {
	// Provider name: "openai", "anthropic", "ollama"
	Provider string `yaml:"provider" mapstructure:"provider"`

	// Model name (provider-specific)
	Model string `yaml:"model" mapstructure:"model"`

	// APIKey for OpenAI/Anthropic (normally from env, never the config file)
	APIKey string `yaml:"-" mapstructure:"-"`

	// BaseURL for custom endpoints (e.g. Ollama)
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`

	// Timeout for a single API request, in seconds
	Timeout int `yaml:"timeout" mapstructure:"timeout"`

	// MaxTokens for response generation
	MaxTokens int `yaml:"max_tokens" mapstructure:"max_tokens"`

	// Proxy settings
	HTTPProxy  string `yaml:"http_proxy" mapstructure:"http_proxy"`
	HTTPSProxy string `yaml:"https_proxy" mapstructure:"https_proxy"`
	NoProxy    string `yaml:"no_proxy" mapstructure:"no_proxy"`
}

// AnalysisConfig holds the tunable pipeline parameters
type AnalysisConfig struct {
	// MinMotionChars is the input-validation gate; shorter motion text is
	// rejected before any external call
	MinMotionChars int `yaml:"min_motion_chars" mapstructure:"min_motion_chars"`

	// SimilarityThreshold is the token-set Jaccard overlap above which two
	// candidates from the same or adjacent sections are merged
	SimilarityThreshold float64 `yaml:"similarity_threshold" mapstructure:"similarity_threshold"`

	// MaxRepairRetries bounds the schema repair loop after a malformed response
	MaxRepairRetries int `yaml:"max_repair_retries" mapstructure:"max_repair_retries"`

	// MaxStrongest caps the strongest_arguments list
	MaxStrongest int `yaml:"max_strongest" mapstructure:"max_strongest"`

	// MaxCitations caps regex citation pre-extraction
	MaxCitations int `yaml:"max_citations" mapstructure:"max_citations"`

	// RequestTimeout bounds one complete analysis end to end
	RequestTimeout time.Duration `yaml:"request_timeout" mapstructure:"request_timeout"`
}

// CacheConfig holds completion cache settings
type CacheConfig struct {
	Enabled bool          `yaml:"enabled" mapstructure:"enabled"`
	TTL     time.Duration `yaml:"ttl" mapstructure:"ttl"`
}

// ConcurrencyConfig holds worker pool settings
type ConcurrencyConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"`
}

// RateLimitConfig throttles outbound provider calls (not the inbound API)
type RateLimitConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	Burst             int     `yaml:"burst" mapstructure:"burst"`
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:         ":8080",
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 3 * time.Minute,
		},
		LLM: LLMConfig{
			Provider:  "openai",
			Model:     "",
			Timeout:   60,
			MaxTokens: 3000,
		},
		Analysis: AnalysisConfig{
			MinMotionChars:      100,
			SimilarityThreshold: 0.6,
			MaxRepairRetries:    2,
			MaxStrongest:        5,
			MaxCitations:        20,
			RequestTimeout:      2 * time.Minute,
		},
		Cache: CacheConfig{
			Enabled: true,
			TTL:     15 * time.Minute,
		},
		Concurrency: ConcurrencyConfig{
			Workers: 4,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 2,
			Burst:             4,
		},
	}
}
