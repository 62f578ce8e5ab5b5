package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/ppiankov/motionscope/internal/model"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage Motionscope configuration",
	Long: `Manage Motionscope configuration files and settings.

Configuration hierarchy (highest to lowest priority):
1. CLI flags
2. Environment variables (MOTIONSCOPE_*)
3. Config file (~/.motionscope/config.yaml)
4. Defaults`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long:  `Display the current configuration including all sources (defaults, config file, env vars, flags).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		configFile := viper.ConfigFileUsed()
		if configFile != "" {
			fmt.Fprintf(os.Stderr, "Configuration file: %s\n\n", configFile)
		} else {
			fmt.Fprintf(os.Stderr, "No configuration file found (using defaults)\n\n")
		}

		fmt.Println("═══════════════════════════════════════════════════════════")
		fmt.Println("  Current Configuration")
		fmt.Println("═══════════════════════════════════════════════════════════")
		fmt.Println()

		yamlData, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("error marshaling config: %w", err)
		}

		fmt.Println(string(yamlData))

		fmt.Println("═══════════════════════════════════════════════════════════")
		fmt.Println()
		fmt.Println("Configuration hierarchy (highest to lowest priority):")
		fmt.Println("  1. CLI flags")
		fmt.Println("  2. Environment variables (MOTIONSCOPE_*, OPENAI_API_KEY, ANTHROPIC_API_KEY)")
		fmt.Println("  3. Config file (~/.motionscope/config.yaml)")
		fmt.Println("  4. Defaults (shown above)")
		fmt.Println()

		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize default configuration file",
	Long:  `Create a default configuration file at ~/.motionscope/config.yaml with all available options documented.`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("error finding home directory: %w", err)
		}

		configDir := home + "/.motionscope"
		configPath := configDir + "/config.yaml"

		// Check if config already exists
		if _, err := os.Stat(configPath); err == nil {
			return fmt.Errorf("config file already exists: %s\nUse 'motionscope config show' to view it, or delete it first to recreate", configPath)
		}

		// Create directory
		if err := os.MkdirAll(configDir, 0755); err != nil {
			return fmt.Errorf("error creating config directory: %w", err)
		}

		// Create config file
		f, err := os.Create(configPath)
		if err != nil {
			return fmt.Errorf("error creating config file: %w", err)
		}
		defer func() {
			if closeErr := f.Close(); closeErr != nil && err == nil {
				err = fmt.Errorf("close config file: %w", closeErr)
			}
		}()

		// Helper for writing with error checking
		printf := func(format string, a ...interface{}) {
			if err != nil {
				return
			}
			_, err = fmt.Fprintf(f, format, a...)
		}

		defaultCfg := model.DefaultConfig()

		printf("# Motionscope Configuration File\n")
		printf("#\n")
		printf("# Configuration hierarchy (highest to lowest priority):\n")
		printf("#   1. CLI flags\n")
		printf("#   2. Environment variables (MOTIONSCOPE_*)\n")
		printf("#   3. This config file\n")
		printf("#   4. Built-in defaults\n")
		printf("#\n")
		printf("# API keys are read from OPENAI_API_KEY / ANTHROPIC_API_KEY only;\n")
		printf("# they are never read from this file.\n\n")

		printf("server:\n")
		printf("  addr: \"%s\"\n", defaultCfg.Server.Addr)
		printf("  read_timeout: %s\n", defaultCfg.Server.ReadTimeout)
		printf("  write_timeout: %s\n\n", defaultCfg.Server.WriteTimeout)

		printf("llm:\n")
		printf("  provider: %s  # openai, anthropic, ollama\n", defaultCfg.LLM.Provider)
		printf("  model: \"\"  # provider default when empty\n")
		printf("  timeout: %d  # seconds per request\n", defaultCfg.LLM.Timeout)
		printf("  max_tokens: %d\n\n", defaultCfg.LLM.MaxTokens)

		printf("analysis:\n")
		printf("  min_motion_chars: %d\n", defaultCfg.Analysis.MinMotionChars)
		printf("  similarity_threshold: %g  # token overlap above which near-duplicates merge\n", defaultCfg.Analysis.SimilarityThreshold)
		printf("  max_repair_retries: %d\n", defaultCfg.Analysis.MaxRepairRetries)
		printf("  max_strongest: %d\n", defaultCfg.Analysis.MaxStrongest)
		printf("  max_citations: %d\n", defaultCfg.Analysis.MaxCitations)
		printf("  request_timeout: %s\n\n", defaultCfg.Analysis.RequestTimeout)

		printf("cache:\n")
		printf("  enabled: %t\n", defaultCfg.Cache.Enabled)
		printf("  ttl: %s\n\n", defaultCfg.Cache.TTL)

		printf("concurrency:\n")
		printf("  workers: %d\n\n", defaultCfg.Concurrency.Workers)

		printf("rate_limit:\n")
		printf("  requests_per_second: %g\n", defaultCfg.RateLimit.RequestsPerSecond)
		printf("  burst: %d\n", defaultCfg.RateLimit.Burst)

		if err != nil {
			return fmt.Errorf("error writing config file: %w", err)
		}

		fmt.Printf("✓ Created configuration file: %s\n", configPath)
		fmt.Println("\nEdit this file to customize Motionscope behavior.")
		fmt.Println("Run 'motionscope config show' to view the active configuration.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
}
