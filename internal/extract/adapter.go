package extract

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ppiankov/motionscope/internal/cache"
	"github.com/ppiankov/motionscope/internal/llm"
	"github.com/ppiankov/motionscope/internal/model"
	"github.com/ppiankov/motionscope/internal/worker"
)

// extractionTemperature keeps extraction output focused and reproducible
const extractionTemperature = 0.1

// sleepFunc is the backoff sleep between transport retries (injectable for tests)
var sleepFunc = time.Sleep

// Adapter wraps the text-understanding capability: prompt construction,
// response parsing, schema validation, and the bounded repair-retry loop
type Adapter struct {
	provider llm.Provider
	limiter  *worker.Limiter
	cache    cache.Cache // nil disables completion caching
	cacheTTL time.Duration
	cfg      model.AnalysisConfig
	logger   *zap.Logger
}

// NewAdapter creates an adapter around a provider
func NewAdapter(provider llm.Provider, limiter *worker.Limiter, completionCache cache.Cache, cacheTTL time.Duration, cfg model.AnalysisConfig, logger *zap.Logger) *Adapter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Adapter{
		provider: provider,
		limiter:  limiter,
		cache:    completionCache,
		cacheTTL: cacheTTL,
		cfg:      cfg,
		logger:   logger,
	}
}

// Extract runs one extraction pass over the motion text. Responses that fail
// schema validation are retried with a corrective instruction up to
// MaxRepairRetries times; exhaustion returns *model.ExtractionError carrying
// the last raw response. Motion text below MinMotionChars is rejected with
// *model.ValidationError before any provider call.
func (a *Adapter) Extract(ctx context.Context, motionText, caseContext string, allowed []model.Citation, pass PassKind) ([]model.RawArgumentCandidate, error) {
	if len(strings.TrimSpace(motionText)) < a.cfg.MinMotionChars {
		return nil, &model.ValidationError{
			Msg: fmt.Sprintf("motion_text too short: minimum %d characters", a.cfg.MinMotionChars),
		}
	}

	basePrompt := BuildPrompt(pass, motionText, caseContext, allowed)
	prompt := basePrompt

	maxAttempts := a.cfg.MaxRepairRetries + 1
	var lastRaw string
	var lastErr error

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		raw, err := a.complete(ctx, prompt)
		if err != nil {
			if ctx.Err() != nil {
				return nil, &model.TimeoutError{Msg: "extraction aborted by request timeout", Err: ctx.Err()}
			}
			lastErr = err
			a.logger.Warn("provider call failed",
				zap.String("pass", string(pass)),
				zap.Int("attempt", attempt),
				zap.Error(err))
			if attempt < maxAttempts {
				sleepFunc(time.Duration(attempt) * time.Second)
			}
			continue
		}

		lastRaw = raw
		candidates, parseErr := parseCandidates(raw)
		if parseErr != nil {
			lastErr = parseErr
			a.logger.Warn("response failed schema validation",
				zap.String("pass", string(pass)),
				zap.Int("attempt", attempt),
				zap.Error(parseErr))
			prompt = AppendRepair(basePrompt, parseErr)
			continue
		}

		a.logger.Debug("extraction pass complete",
			zap.String("pass", string(pass)),
			zap.Int("attempt", attempt),
			zap.Int("candidates", len(candidates)))
		return candidates, nil
	}

	return nil, &model.ExtractionError{
		Msg:         fmt.Sprintf("%s extraction failed after %d attempts", pass, maxAttempts),
		RawResponse: lastRaw,
		Err:         lastErr,
	}
}

// complete calls the provider through the rate limiter and completion cache
func (a *Adapter) complete(ctx context.Context, prompt string) (string, error) {
	key := cache.Key(a.provider.Name() + "\x00" + systemPrompt + "\x00" + prompt)
	if a.cache != nil {
		if cached, found := a.cache.Get(key); found {
			a.logger.Debug("completion cache hit")
			return string(cached), nil
		}
	}

	if a.limiter != nil {
		if err := a.limiter.Wait(ctx, a.provider.Name()); err != nil {
			return "", fmt.Errorf("rate limit wait: %w", err)
		}
	}

	resp, err := a.provider.Complete(ctx, llm.CompletionRequest{
		System:      systemPrompt,
		Prompt:      prompt,
		MaxTokens:   0, // provider default
		Temperature: extractionTemperature,
		JSONMode:    true,
	})
	if err != nil {
		return "", err
	}

	if a.cache != nil {
		_ = a.cache.Set(key, []byte(resp.Text), a.cacheTTL)
	}
	return resp.Text, nil
}
