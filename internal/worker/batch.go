package worker

import (
	"context"
	"fmt"
	"os"

	"github.com/ppiankov/motionscope/internal/model"
)

// Analyzer runs one motion analysis; implemented by pipeline.Pipeline
type Analyzer interface {
	Analyze(ctx context.Context, req model.AnalysisRequest) (*model.AnalysisResult, error)
}

// AnalyzeJob analyzes a single motion file
type AnalyzeJob struct {
	Path     string
	Request  model.AnalysisRequest
	Analyzer Analyzer
}

// Execute executes the analysis job
func (j *AnalyzeJob) Execute(ctx context.Context) Result {
	result, err := j.Analyzer.Analyze(ctx, j.Request)
	return &AnalyzeResult{
		Path:   j.Path,
		Result: result,
		Error:  err,
	}
}

// AnalyzeResult represents the outcome for one motion file
type AnalyzeResult struct {
	Path   string
	Result *model.AnalysisResult
	Error  error
}

// GetError returns the error from the analysis result
func (r *AnalyzeResult) GetError() error {
	return r.Error
}

// BatchProcessor analyzes multiple motion files concurrently
type BatchProcessor struct {
	analyzer    Analyzer
	concurrency int
}

// NewBatchProcessor creates a new batch processor
func NewBatchProcessor(analyzer Analyzer, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		analyzer:    analyzer,
		concurrency: concurrency,
	}
}

// ProcessFiles reads each file as motion text and analyzes them concurrently
func (b *BatchProcessor) ProcessFiles(ctx context.Context, paths []string, caseContext string, opts model.AnalysisOptions) []*AnalyzeResult {
	if len(paths) == 0 {
		return []*AnalyzeResult{}
	}

	pool := NewPool(ctx, b.concurrency)
	pool.Start()

	for _, path := range paths {
		motionText, err := readMotionFile(path)
		if err != nil {
			// Feed the error through the pool so result ordering stays uniform
			pool.Submit(&failedJob{path: path, err: err})
			continue
		}
		pool.Submit(&AnalyzeJob{
			Path: path,
			Request: model.AnalysisRequest{
				MotionText:      motionText,
				CaseContext:     caseContext,
				AnalysisOptions: &opts,
			},
			Analyzer: b.analyzer,
		})
	}

	results := pool.Wait()

	analyzeResults := make([]*AnalyzeResult, len(results))
	for i, result := range results {
		analyzeResults[i] = result.(*AnalyzeResult)
	}
	return analyzeResults
}

type failedJob struct {
	path string
	err  error
}

func (j *failedJob) Execute(ctx context.Context) Result {
	return &AnalyzeResult{Path: j.path, Error: j.err}
}

func readMotionFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read motion file: %w", err)
	}
	return string(data), nil
}
