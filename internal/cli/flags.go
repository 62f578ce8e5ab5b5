package cli

import (
	"fmt"
	"os"

	"github.com/spf13/viper"

	"github.com/ppiankov/motionscope/internal/model"
)

// Shared LLM flags across serve, analyze, and batch
var (
	llmProvider string
	llmModel    string
	llmTimeout  int
)

// configureLLM applies the provider flags and resolves the API key from
// the environment. Keys never come from the config file.
func configureLLM(cfg *model.Config) error {
	if llmProvider != "" {
		cfg.LLM.Provider = llmProvider
	}
	if llmModel != "" {
		cfg.LLM.Model = llmModel
	}
	if llmTimeout > 0 {
		cfg.LLM.Timeout = llmTimeout
	}

	switch cfg.LLM.Provider {
	case "openai":
		cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
		if cfg.LLM.APIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY environment variable not set")
		}
	case "anthropic", "claude":
		cfg.LLM.APIKey = os.Getenv("ANTHROPIC_API_KEY")
		if cfg.LLM.APIKey == "" {
			return fmt.Errorf("ANTHROPIC_API_KEY environment variable not set")
		}
	case "ollama":
		// Ollama doesn't need an API key
		if baseURL := os.Getenv("OLLAMA_BASE_URL"); baseURL != "" {
			cfg.LLM.BaseURL = baseURL
		}
	}
	return nil
}

// loadConfig merges the config file and MOTIONSCOPE_* env vars over the
// defaults. Flags are applied by each command afterwards.
func loadConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("reading configuration: %w", err)
	}
	return cfg, nil
}
