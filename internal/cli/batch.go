package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/motionscope/internal/model"
	"github.com/ppiankov/motionscope/internal/pipeline"
	"github.com/ppiankov/motionscope/internal/worker"
)

var (
	concurrency  int
	outputDir    string
	batchTimeout time.Duration
	// caseContext, noImplied, noCustom, noCache are defined in analyze.go and shared here
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <motion-file>...",
	Short: "Analyze multiple motion files in parallel",
	Long: `Batch analyzes multiple motion documents concurrently:
- Each file is one motion (plain text or HTML)
- Motions are analyzed in parallel with a configurable worker count
- One JSON inventory is written per motion

Example:
  motionscope batch motions/*.txt
  motionscope batch motion1.txt motion2.txt --concurrency 8 --output-dir ./inventories
  motionscope batch motions/*.txt --context "product liability" --timeout 30m`,
	Args: cobra.MinimumNArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	// Concurrency flags
	batchCmd.Flags().IntVar(&concurrency, "concurrency", runtime.NumCPU(), "number of concurrent workers")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "./motionscope-reports", "output directory for inventories")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "total timeout for batch processing")

	// Analysis flags shared with analyze
	batchCmd.Flags().StringVar(&caseContext, "context", "", "case context hint applied to every motion")
	batchCmd.Flags().BoolVar(&noImplied, "no-implied", false, "skip the implied-argument pass")
	batchCmd.Flags().BoolVar(&noCustom, "no-custom-categories", false, "reject arguments outside the predefined taxonomy")
	batchCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable completion caching")

	// LLM flags
	batchCmd.Flags().StringVar(&llmProvider, "llm-provider", "", "LLM provider (openai, anthropic, ollama)")
	batchCmd.Flags().StringVar(&llmModel, "llm-model", "", "LLM model name")
	batchCmd.Flags().IntVar(&llmTimeout, "llm-timeout", 0, "LLM request timeout in seconds")
}

func runBatch(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Motionscope Batch Analysis\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Motions:      %d\n", len(args))
	fmt.Fprintf(os.Stderr, "  Workers:      %d\n", concurrency)
	fmt.Fprintf(os.Stderr, "  Output dir:   %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "  Timeout:      %v\n", batchTimeout)
	fmt.Fprintf(os.Stderr, "\n")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	cfg.Concurrency.Workers = concurrency
	cfg.Cache.Enabled = !noCache
	if err := configureLLM(cfg); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "  LLM:          %s/%s\n\n", cfg.LLM.Provider, cfg.LLM.Model)

	logger, err := newLogger()
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	// Create output directory
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	p, err := pipeline.NewPipeline(cfg, logger)
	if err != nil {
		return fmt.Errorf("creating pipeline: %w", err)
	}

	opts := model.AnalysisOptions{
		ExtractAllArguments:   !noImplied,
		AllowCustomCategories: !noCustom,
	}
	processor := worker.NewBatchProcessor(p, concurrency)

	fmt.Fprintf(os.Stderr, "⚙️  Analyzing %d motions with %d workers...\n\n", len(args), concurrency)
	results := processor.ProcessFiles(ctx, args, caseContext, opts)

	successCount := 0
	failureCount := 0

	for _, result := range results {
		if result.Error != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", result.Path, result.Error)
			continue
		}

		successCount++

		outPath := filepath.Join(outputDir, inventoryFilename(result.Path))
		blob, err := json.MarshalIndent(result.Result, "", "  ")
		if err != nil {
			fmt.Fprintf(os.Stderr, "✗ %s: failed to encode inventory: %v\n", result.Path, err)
			continue
		}
		if err := os.WriteFile(outPath, blob, 0644); err != nil {
			fmt.Fprintf(os.Stderr, "✗ %s: failed to write inventory: %v\n", result.Path, err)
			continue
		}

		fmt.Fprintf(os.Stderr, "✓ %s (%d arguments, %d groups)\n",
			result.Path, result.Result.TotalArgumentsFound, len(result.Result.ArgumentGroups))
	}

	// Summary
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Batch Complete\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Total:     %d motions\n", len(results))
	fmt.Fprintf(os.Stderr, "  Success:   %d\n", successCount)
	fmt.Fprintf(os.Stderr, "  Failures:  %d\n", failureCount)
	fmt.Fprintf(os.Stderr, "  Output:    %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "\n")

	return nil
}

// inventoryFilename derives the output filename for a motion path
func inventoryFilename(path string) string {
	base := filepath.Base(path)
	if ext := filepath.Ext(base); ext != "" {
		base = strings.TrimSuffix(base, ext)
	}
	return base + ".json"
}
