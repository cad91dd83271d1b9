package generation

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/getsentry/sentry-go"
	"golang.org/x/time/rate"

	"github.com/storeshot/storeshot-api/internal/config"
	"github.com/storeshot/storeshot-api/internal/llm"
	"github.com/storeshot/storeshot-api/internal/logger"
	"github.com/storeshot/storeshot-api/internal/metrics"
	"github.com/storeshot/storeshot-api/internal/models"
	"github.com/storeshot/storeshot-api/internal/observability"
	"github.com/storeshot/storeshot-api/internal/prompt"
)

// Request carries one layout generation request through the pipeline.
type Request struct {
	Prompt          string
	ScreenshotCount int
	Analysis        *models.ScreenshotAnalysis
	RequestID       string
}

// Result is what the pipeline hands back. Fallback marks responses produced
// by the keyword table after every model attempt failed.
type Result struct {
	Response  models.AIResponse
	Model     string
	Attempts  int
	Fallback  bool
	RequestID string
}

// Service runs the prompt -> structured layout pipeline: rate limiting,
// retries with backoff, sanitize-then-validate, and the deterministic
// fallback. GenerateLayout never returns an error alongside no result; the
// caller always gets a valid response.
type Service struct {
	factory       llm.ProviderSource
	prompts       *prompt.Builder
	limiter       *rate.Limiter
	cfg           *config.Config
	sentryMetrics *metrics.SentryMetrics
	cwMetrics     *metrics.Client
}

func NewService(cfg *config.Config, factory llm.ProviderSource, cw *metrics.Client) *Service {
	return &Service{
		factory:       factory,
		prompts:       prompt.NewPromptBuilder(),
		limiter:       rate.NewLimiter(rate.Every(cfg.RateLimitWait), 1),
		cfg:           cfg,
		sentryMetrics: metrics.NewSentryMetrics(),
		cwMetrics:     cw,
	}
}

// GenerateLayout runs the full pipeline for one request.
func (s *Service) GenerateLayout(ctx context.Context, req *Request) *Result {
	start := time.Now()

	transaction := sentry.StartTransaction(ctx, "generation.pipeline")
	transaction.SetTag("request_id", req.RequestID)
	defer transaction.Finish()
	ctx = transaction.Context()

	trace := observability.GetClient().StartTrace(ctx, "layout-generation", map[string]interface{}{
		"request_id":       req.RequestID,
		"screenshot_count": req.ScreenshotCount,
	})
	defer trace.Finish()

	userPrompt := s.prompts.BuildLayoutPrompt(req.Prompt, req.ScreenshotCount, req.Analysis)

	resp, attempts, err := s.generateWithRetry(ctx, req, userPrompt, trace)
	if err == nil {
		s.recordOutcome(ctx, start, true)
		return &Result{
			Response:  *resp,
			Model:     s.cfg.TextModel,
			Attempts:  attempts,
			RequestID: req.RequestID,
		}
	}

	category := FallbackCategory(req.Prompt)
	logger.Warn("All generation attempts failed, using keyword fallback", logger.Fields{
		"request_id": req.RequestID,
		"attempts":   attempts,
		"category":   category,
		"error":      err.Error(),
	})
	s.sentryMetrics.RecordFallbackUsage(category, attempts)
	if s.cwMetrics != nil {
		s.cwMetrics.RecordFallbackUsage(category, attempts)
	}
	s.recordOutcome(ctx, start, false)

	return &Result{
		Response:  FallbackResponse(req.Prompt),
		Model:     "fallback",
		Attempts:  attempts,
		Fallback:  true,
		RequestID: req.RequestID,
	}
}

// generateWithRetry makes up to MaxAttempts model calls. Each failed attempt
// backs off for BackoffBase * 2^attempt before the next one. A rate limit
// response additionally gets one extra retry after RateLimitWait, not
// counted against the attempt budget.
func (s *Service) generateWithRetry(
	ctx context.Context,
	req *Request,
	userPrompt string,
	trace *observability.Trace,
) (*models.AIResponse, int, error) {
	var lastErr error
	attempts := 0

	for attempt := 0; attempt < s.cfg.MaxAttempts; attempt++ {
		if attempt > 0 {
			backoff := s.cfg.BackoffBase * time.Duration(1<<uint(attempt))
			logger.Info("Retrying generation after backoff", logger.Fields{
				"request_id": req.RequestID,
				"attempt":    attempt + 1,
				"backoff":    backoff.String(),
			})
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, attempts, ctx.Err()
			}
		}

		attempts++
		resp, err := s.attempt(ctx, req, userPrompt, trace, attempts)
		if err == nil {
			return resp, attempts, nil
		}
		lastErr = err

		if llm.IsRateLimited(err) {
			logger.Warn("Rate limited, waiting before one extra retry", logger.Fields{
				"request_id": req.RequestID,
				"wait":       s.cfg.RateLimitWait.String(),
			})
			select {
			case <-time.After(s.cfg.RateLimitWait):
			case <-ctx.Done():
				return nil, attempts, ctx.Err()
			}
			attempts++
			resp, err = s.attempt(ctx, req, userPrompt, trace, attempts)
			if err == nil {
				return resp, attempts, nil
			}
			lastErr = err
		}
	}

	return nil, attempts, lastErr
}

// attempt runs one model call end to end: limiter wait, generate, parse,
// sanitize, validate.
func (s *Service) attempt(
	ctx context.Context,
	req *Request,
	userPrompt string,
	trace *observability.Trace,
	attemptNumber int,
) (*models.AIResponse, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	provider, err := s.factory.GetProvider(ctx, s.cfg.TextModel, "")
	if err != nil {
		return nil, err
	}

	inputMessages := []map[string]any{
		{"role": "user", "content": userPrompt},
	}

	gen := trace.Generation("layout-attempt", map[string]interface{}{
		"attempt": attemptNumber,
	})
	defer gen.Finish()

	resp, err := provider.Generate(ctx, &llm.GenerationRequest{
		Model:        s.cfg.TextModel,
		SystemPrompt: s.prompts.LayoutSystemPrompt(),
		InputArray:   inputMessages,
		OutputSchema: &llm.OutputSchema{
			Name:        "layout_response",
			Description: "Store screenshot layout structured as screens with closed enum fields",
			Schema:      llm.GetLayoutOutputSchema(),
		},
		ReasoningEffort: llm.GetStageParameters(llm.StageLayout).ReasoningEffort,
	})
	if err != nil {
		gen.SetLevel("ERROR")
		return nil, err
	}

	gen.LogModelResponse(s.cfg.TextModel, inputMessages, resp.RawOutput, resp.Usage)
	s.recordTokenUsage(ctx, resp.Usage)

	var parsed models.AIResponse
	if err := json.Unmarshal([]byte(resp.RawOutput), &parsed); err != nil {
		gen.SetLevel("ERROR")
		return nil, fmt.Errorf("malformed model output: %w", err)
	}

	Sanitize(&parsed)
	if err := Validate(&parsed); err != nil {
		gen.SetLevel("WARNING")
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	return &parsed, nil
}

func (s *Service) recordTokenUsage(ctx context.Context, usage map[string]any) {
	if usage == nil {
		return
	}
	total := intFromUsage(usage, "total_tokens")
	input := intFromUsage(usage, "input_tokens")
	output := intFromUsage(usage, "output_tokens")
	reasoning := intFromUsage(usage, "reasoning_tokens")

	s.sentryMetrics.RecordTokenUsage(ctx, s.cfg.TextModel, total, input, output, reasoning)
	if s.cwMetrics != nil {
		s.cwMetrics.RecordTokenUsage(s.cfg.TextModel, total, input, output, reasoning)
	}
}

func (s *Service) recordOutcome(ctx context.Context, start time.Time, success bool) {
	duration := time.Since(start)
	s.sentryMetrics.RecordGenerationDuration(ctx, duration, success)
	if s.cwMetrics != nil {
		s.cwMetrics.RecordGenerationDuration(duration, success)
	}
}

func intFromUsage(usage map[string]any, key string) int {
	switch v := usage[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}
