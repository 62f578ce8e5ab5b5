// Package pipeline orchestrates one motion analysis end to end: sanitize,
// pre-extract citations, run the extraction passes, normalize, classify,
// validate, group, and score.
package pipeline

import (
	"context"
	"fmt"
	"sort"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"github.com/ppiankov/motionscope/internal/cache"
	"github.com/ppiankov/motionscope/internal/citation"
	"github.com/ppiankov/motionscope/internal/extract"
	"github.com/ppiankov/motionscope/internal/group"
	"github.com/ppiankov/motionscope/internal/llm"
	"github.com/ppiankov/motionscope/internal/model"
	"github.com/ppiankov/motionscope/internal/normalize"
	"github.com/ppiankov/motionscope/internal/score"
	"github.com/ppiankov/motionscope/internal/taxonomy"
	"github.com/ppiankov/motionscope/internal/validate"
	"github.com/ppiankov/motionscope/internal/worker"
)

const healthProbeTTL = 30 * time.Second

// extractor is the surface of extract.Adapter the pipeline depends on
type extractor interface {
	Extract(ctx context.Context, motionText, caseContext string, allowed []model.Citation, pass extract.PassKind) ([]model.RawArgumentCandidate, error)
}

// Pipeline runs complete motion analyses. Safe for concurrent use; every
// call builds its own taxonomy registry and intermediate state.
type Pipeline struct {
	cfg       *model.Config
	provider  llm.Provider
	adapter   extractor
	validator *validate.CitationValidator
	scorer    *score.Scorer
	workers   int
	logger    *zap.Logger

	healthCache *gocache.Cache
}

// NewPipeline wires the provider, rate limiter, completion cache, and the
// analysis stages from config.
func NewPipeline(cfg *model.Config, logger *zap.Logger) (*Pipeline, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	provider, err := llm.NewProvider(llm.ConfigFromModel(cfg.LLM))
	if err != nil {
		return nil, fmt.Errorf("creating provider: %w", err)
	}

	limiter := worker.NewLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)

	var completionCache cache.Cache
	if cfg.Cache.Enabled {
		completionCache = cache.NewMemoryCache(cfg.Cache.TTL, cfg.Cache.TTL*2)
	}

	adapter := extract.NewAdapter(provider, limiter, completionCache, cfg.Cache.TTL, cfg.Analysis, logger)

	return &Pipeline{
		cfg:         cfg,
		provider:    provider,
		adapter:     adapter,
		validator:   validate.NewCitationValidator(logger),
		scorer:      score.NewScorer(cfg.Analysis.MaxStrongest),
		workers:     cfg.Concurrency.Workers,
		logger:      logger,
		healthCache: gocache.New(healthProbeTTL, time.Minute),
	}, nil
}

// passJob runs one extraction pass inside the worker pool
type passJob struct {
	adapter     extractor
	pass        extract.PassKind
	motionText  string
	caseContext string
	allowed     []model.Citation
}

type passResult struct {
	pass       extract.PassKind
	candidates []model.RawArgumentCandidate
	err        error
}

func (j *passJob) Execute(ctx context.Context) worker.Result {
	candidates, err := j.adapter.Extract(ctx, j.motionText, j.caseContext, j.allowed, j.pass)
	return &passResult{pass: j.pass, candidates: candidates, err: err}
}

func (r *passResult) GetError() error { return r.err }

// Analyze runs the full pipeline for one motion. Any stage failure aborts
// the whole analysis; there are no partial results.
func (p *Pipeline) Analyze(ctx context.Context, req model.AnalysisRequest) (*model.AnalysisResult, error) {
	ctx, cancel := context.WithTimeout(ctx, p.cfg.Analysis.RequestTimeout)
	defer cancel()

	start := time.Now()
	opts := req.Options()

	motionText := extract.SanitizeMotionText(req.MotionText)
	allowed := citation.Extract(motionText, p.cfg.Analysis.MaxCitations)

	candidates, err := p.runPasses(ctx, motionText, req.CaseContext, allowed, opts)
	if err != nil {
		return nil, err
	}

	normalizer := normalize.NewNormalizer(p.cfg.Analysis.SimilarityThreshold)
	arguments, related := normalizer.NormalizeAndDedupe(candidates)

	registry := taxonomy.NewRegistry(opts.AllowCustomCategories)
	for i := range arguments {
		cat, err := registry.ResolveOrCreate(arguments[i].Category, arguments[i].ID)
		if err != nil {
			return nil, err
		}
		arguments[i].Category = cat.Key
	}

	arguments = p.validator.Filter(arguments, citation.Names(allowed), motionText)

	groups := group.NewGrouper(registry.DisplayName).Group(arguments, related)
	arguments, strongest, plan := p.scorer.Score(arguments, groups)

	p.logger.Info("analysis complete",
		zap.Int("arguments", len(arguments)),
		zap.Int("groups", len(groups)),
		zap.Int("custom_categories", len(registry.CustomCreated())),
		zap.Duration("elapsed", time.Since(start)))

	return &model.AnalysisResult{
		AllArguments:                 arguments,
		ArgumentGroups:               groups,
		TotalArgumentsFound:          len(arguments),
		StrongestArguments:           strongest,
		CustomCategoriesCreated:      registry.CustomCreated(),
		RecommendedResponseStructure: plan,
	}, nil
}

// runPasses executes the exhaustive pass and, when enabled, the implied
// pass concurrently. Candidates are concatenated exhaustive-first so ids
// and cross-references stay deterministic; the implied pass's related
// indices are shifted past the exhaustive block.
func (p *Pipeline) runPasses(ctx context.Context, motionText, caseContext string, allowed []model.Citation, opts model.AnalysisOptions) ([]model.RawArgumentCandidate, error) {
	passes := []extract.PassKind{extract.PassExhaustive}
	if opts.ExtractAllArguments {
		passes = append(passes, extract.PassImplied)
	}

	pool := worker.NewPool(ctx, p.workers)
	pool.Start()
	for _, pass := range passes {
		pool.Submit(&passJob{
			adapter:     p.adapter,
			pass:        pass,
			motionText:  motionText,
			caseContext: caseContext,
			allowed:     allowed,
		})
	}
	results := pool.Wait()

	byPass := make([]*passResult, 0, len(results))
	for _, r := range results {
		pr := r.(*passResult)
		if pr.err != nil {
			return nil, pr.err
		}
		byPass = append(byPass, pr)
	}
	if len(byPass) < len(passes) {
		// Cancelled workers drop queued jobs without reporting a result
		if err := ctx.Err(); err != nil {
			return nil, &model.TimeoutError{Msg: "analysis timed out", Err: err}
		}
		return nil, &model.ExtractionError{Msg: "extraction pass did not complete"}
	}
	sort.SliceStable(byPass, func(a, b int) bool {
		return byPass[a].pass < byPass[b].pass
	})

	var candidates []model.RawArgumentCandidate
	for _, pr := range byPass {
		offset := len(candidates)
		for _, c := range pr.candidates {
			if offset > 0 && len(c.Related) > 0 {
				shifted := make([]int, len(c.Related))
				for i, rel := range c.Related {
					shifted[i] = rel + offset
				}
				c.Related = shifted
			}
			candidates = append(candidates, c)
		}
	}
	return candidates, nil
}

// HealthCheck reports whether the configured provider is reachable.
// Probe results are cached briefly so the liveness endpoint cannot hammer
// the provider.
func (p *Pipeline) HealthCheck(ctx context.Context) error {
	if v, ok := p.healthCache.Get("provider"); ok {
		if healthy := v.(bool); healthy {
			return nil
		}
		return fmt.Errorf("provider %s unavailable", p.provider.Name())
	}

	healthy := p.provider.IsAvailable(ctx)
	p.healthCache.Set("provider", healthy, gocache.DefaultExpiration)
	if !healthy {
		return fmt.Errorf("provider %s unavailable", p.provider.Name())
	}
	return nil
}

// Provider exposes the active provider name for diagnostics
func (p *Pipeline) Provider() string {
	return p.provider.Name()
}
