package analyzer

import (
	"context"
	"encoding/json"
	"image"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/storeshot/storeshot-api/internal/assets"
	"github.com/storeshot/storeshot-api/internal/config"
	"github.com/storeshot/storeshot-api/internal/llm"
	"github.com/storeshot/storeshot-api/internal/logger"
	"github.com/storeshot/storeshot-api/internal/models"
	"github.com/storeshot/storeshot-api/internal/prompt"
)

// Service runs vision-model screenshot analysis with a statistical fallback.
// Analyze never returns an error: if the model call fails for any reason the
// caller still gets a usable pixel-statistics result with Basic set.
type Service struct {
	factory llm.ProviderSource
	prompts *prompt.Builder
	images  *assets.Cache
	limiter *rate.Limiter
	cfg     *config.Config
}

func NewService(cfg *config.Config, factory llm.ProviderSource, images *assets.Cache) *Service {
	return &Service{
		factory: factory,
		prompts: prompt.NewPromptBuilder(),
		images:  images,
		limiter: rate.NewLimiter(rate.Every(cfg.AnalysisMinGap), 1),
		cfg:     cfg,
	}
}

// Analyze decodes the screenshot and asks the vision model for a structured
// analysis. Decode failures, rate limiter aborts, provider errors, and
// malformed model output all degrade to the statistical path.
func (s *Service) Analyze(ctx context.Context, dataURI string) models.ScreenshotAnalysis {
	mimeType, raw, err := assets.ParseDataURI(dataURI)
	var img image.Image
	if err == nil {
		img, err = s.images.Image(dataURI)
	}
	if err != nil {
		logger.Warn("Screenshot decode failed, returning default analysis", logger.Fields{
			"error": err.Error(),
		})
		return models.ScreenshotAnalysis{
			DominantColors:       defaultPalette,
			SuggestedBackgrounds: moodBackgrounds[models.MoodMinimal],
			Mood:                 models.MoodMinimal,
			CoarseBackground:     "#FFFFFF",
			Basic:                true,
		}
	}

	statistical := Analyze(img)

	provider, err := s.factory.GetProvider(ctx, s.cfg.VisionModel, "")
	if err != nil {
		logger.Warn("No vision provider available, using statistical analysis", logger.Fields{
			"model": s.cfg.VisionModel,
			"error": err.Error(),
		})
		return statistical
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return statistical
	}

	start := time.Now()
	resp, err := provider.Generate(ctx, &llm.GenerationRequest{
		Model:        s.cfg.VisionModel,
		SystemPrompt: s.prompts.AnalysisSystemPrompt(),
		InputArray: []map[string]any{
			{"role": "user", "content": s.prompts.BuildAnalysisPrompt()},
		},
		Images: []llm.ImagePart{{MIMEType: mimeType, Data: raw}},
		OutputSchema: &llm.OutputSchema{
			Name:        "screenshot_analysis",
			Description: "Palette, mood and style analysis of one app screenshot",
			Schema:      llm.GetAnalysisOutputSchema(),
		},
		ReasoningEffort: llm.GetStageParameters(llm.StageAnalysis).ReasoningEffort,
	})
	if err != nil {
		logger.Warn("Vision analysis failed, using statistical analysis", logger.Fields{
			"model":    s.cfg.VisionModel,
			"error":    err.Error(),
			"duration": time.Since(start).String(),
		})
		return statistical
	}

	var parsed models.ScreenshotAnalysis
	if err := json.Unmarshal([]byte(resp.RawOutput), &parsed); err != nil {
		logger.Warn("Vision analysis returned malformed JSON, using statistical analysis", logger.Fields{
			"model": s.cfg.VisionModel,
			"error": err.Error(),
		})
		return statistical
	}

	sanitizeAnalysis(&parsed, &statistical)
	return parsed
}

// AnalyzeBatch analyzes several screenshots concurrently. The shared rate
// limiter still spaces the model calls out.
func (s *Service) AnalyzeBatch(ctx context.Context, dataURIs []string) []models.ScreenshotAnalysis {
	results := make([]models.ScreenshotAnalysis, len(dataURIs))
	g, gctx := errgroup.WithContext(ctx)
	for i, uri := range dataURIs {
		g.Go(func() error {
			results[i] = s.Analyze(gctx, uri)
			return nil
		})
	}
	g.Wait() //nolint:errcheck // workers never return errors
	return results
}

// sanitizeAnalysis backfills anything the model omitted or got wrong from
// the statistical result, so validation never rejects a vision analysis.
func sanitizeAnalysis(parsed, statistical *models.ScreenshotAnalysis) {
	if !models.AllowedMoods[parsed.Mood] {
		parsed.Mood = statistical.Mood
	}
	if len(parsed.DominantColors) == 0 {
		parsed.DominantColors = statistical.DominantColors
	}
	if len(parsed.SuggestedBackgrounds) == 0 {
		parsed.SuggestedBackgrounds = statistical.SuggestedBackgrounds
	}
	parsed.CoarseBackground = statistical.CoarseBackground
	parsed.Basic = false
}
