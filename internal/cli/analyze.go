package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/motionscope/internal/model"
	"github.com/ppiankov/motionscope/internal/pipeline"
)

var (
	outJSON        string
	caseContext    string
	analyzeTimeout time.Duration
	noImplied      bool
	noCustom       bool
	noCache        bool
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze <motion-file>",
	Short: "Analyze a single motion file",
	Long: `Analyze reads one motion document (plain text or HTML) and prints
the structured argument inventory as JSON:
- All arguments with category, strength, priority, and citations
- Strategic argument groups
- Strongest arguments and a recommended response structure

Example:
  motionscope analyze motion.txt
  motionscope analyze motion.txt --context "slip and fall, premises liability"
  motionscope analyze motion.txt --json inventory.json --llm-provider ollama`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	// Output flags
	analyzeCmd.Flags().StringVar(&outJSON, "json", "", "output JSON path (default: stdout)")
	analyzeCmd.Flags().StringVar(&caseContext, "context", "", "case context hint for the extraction prompt")

	// Analysis flags
	analyzeCmd.Flags().DurationVar(&analyzeTimeout, "timeout", 2*time.Minute, "overall analysis timeout")
	analyzeCmd.Flags().BoolVar(&noImplied, "no-implied", false, "skip the implied-argument pass")
	analyzeCmd.Flags().BoolVar(&noCustom, "no-custom-categories", false, "reject arguments outside the predefined taxonomy")
	analyzeCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable completion caching")

	// LLM flags
	analyzeCmd.Flags().StringVar(&llmProvider, "llm-provider", "", "LLM provider (openai, anthropic, ollama)")
	analyzeCmd.Flags().StringVar(&llmModel, "llm-model", "", "LLM model name")
	analyzeCmd.Flags().IntVar(&llmTimeout, "llm-timeout", 0, "LLM request timeout in seconds")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	path := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), analyzeTimeout)
	defer cancel()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	cfg.Analysis.RequestTimeout = analyzeTimeout
	cfg.Cache.Enabled = !noCache
	if err := configureLLM(cfg); err != nil {
		return err
	}

	logger, err := newLogger()
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	motionText, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading motion file: %w", err)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Analyzing: %s\n", path)
		fmt.Fprintf(os.Stderr, "Provider: %s\n", cfg.LLM.Provider)
		fmt.Fprintf(os.Stderr, "Timeout: %v\n", analyzeTimeout)
		fmt.Fprintln(os.Stderr)
	}

	p, err := pipeline.NewPipeline(cfg, logger)
	if err != nil {
		return fmt.Errorf("creating pipeline: %w", err)
	}

	opts := model.AnalysisOptions{
		ExtractAllArguments:   !noImplied,
		AllowCustomCategories: !noCustom,
	}
	result, err := p.Analyze(ctx, model.AnalysisRequest{
		MotionText:      string(motionText),
		CaseContext:     caseContext,
		AnalysisOptions: &opts,
	})
	if err != nil {
		return fmt.Errorf("analyze: %w", err)
	}

	blob, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding result: %w", err)
	}

	if outJSON == "" {
		fmt.Println(string(blob))
		return nil
	}
	if err := os.WriteFile(outJSON, blob, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", outJSON, err)
	}
	fmt.Fprintf(os.Stderr, "✓ %s: %d arguments, %d groups -> %s\n",
		path, result.TotalArgumentsFound, len(result.ArgumentGroups), outJSON)
	return nil
}
