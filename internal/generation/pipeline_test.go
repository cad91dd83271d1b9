package generation

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storeshot/storeshot-api/internal/config"
	"github.com/storeshot/storeshot-api/internal/llm"
	"github.com/storeshot/storeshot-api/internal/models"
)

func testConfig() *config.Config {
	return &config.Config{
		Environment:   "test",
		TextModel:     "gpt-5-mini",
		MaxAttempts:   3,
		BackoffBase:   time.Millisecond,
		RateLimitWait: time.Millisecond,
	}
}

func TestSanitizeReplacesUnknownEnums(t *testing.T) {
	resp := models.AIResponse{
		Theme: "Demo",
		Tone:  "sarcastic",
		Screens: []models.ScreenLayout{
			{ID: "7", Headline: " Hello ", Layout: "diagonal", Background: "neon", Emphasis: "vibes"},
		},
	}

	Sanitize(&resp)

	assert.Equal(t, models.DefaultTone, resp.Tone)
	assert.Equal(t, models.DefaultLayout, resp.Screens[0].Layout)
	assert.Equal(t, models.DefaultBackground, resp.Screens[0].Background)
	assert.Equal(t, models.DefaultEmphasis, resp.Screens[0].Emphasis)
	assert.Equal(t, "Hello", resp.Screens[0].Headline)
	assert.Equal(t, "1", resp.Screens[0].ID, "ids are renumbered sequentially")
}

func TestSanitizeTruncatesOverlongCopy(t *testing.T) {
	resp := models.AIResponse{
		Theme: "Demo",
		Tone:  "bold",
		Screens: []models.ScreenLayout{
			{
				ID:         "1",
				Headline:   "Track every subscription you have before renewal day arrives",
				Layout:     "hero",
				Background: "solid_dark",
				Emphasis:   "feature",
			},
		},
	}

	Sanitize(&resp)

	h := resp.Screens[0].Headline
	assert.LessOrEqual(t, len(h), models.MaxHeadlineLength)
	assert.Equal(t, "Track every subscription you have before renewal", h, "cut lands on a word boundary")
	assert.NoError(t, Validate(&resp))
}

func TestSanitizeNormalizesCase(t *testing.T) {
	resp := models.AIResponse{
		Theme: "Demo",
		Tone:  " Playful ",
		Screens: []models.ScreenLayout{
			{Headline: "Hi", Layout: "HERO", Background: "Solid_Dark", Emphasis: "CTA"},
		},
	}

	Sanitize(&resp)

	assert.Equal(t, "playful", resp.Tone)
	assert.Equal(t, "hero", resp.Screens[0].Layout)
	assert.Equal(t, "solid_dark", resp.Screens[0].Background)
	assert.Equal(t, "cta", resp.Screens[0].Emphasis)
}

func TestValidateRejectsStructuralProblems(t *testing.T) {
	valid := func() models.AIResponse {
		return models.AIResponse{
			Theme: "Demo",
			Tone:  "professional",
			Screens: []models.ScreenLayout{
				{ID: "1", Headline: "Hi", Layout: "hero", Background: "solid_light", Emphasis: "cta"},
			},
		}
	}

	resp := valid()
	require.NoError(t, Validate(&resp))

	resp = valid()
	resp.Theme = ""
	assert.Error(t, Validate(&resp))

	resp = valid()
	resp.Screens = nil
	assert.Error(t, Validate(&resp))

	resp = valid()
	resp.Screens[0].Headline = "This headline is far too long to fit on a store screenshot frame"
	assert.Error(t, Validate(&resp))

	resp = valid()
	for i := 0; i < models.MaxScreensPerResponse; i++ {
		resp.Screens = append(resp.Screens, models.ScreenLayout{
			ID: strconv.Itoa(i + 2), Headline: "Hi", Layout: "hero", Background: "solid_light", Emphasis: "cta",
		})
	}
	assert.Error(t, Validate(&resp))
}

func TestSanitizedResponseAlwaysValidates(t *testing.T) {
	resp := models.AIResponse{
		Theme: "Anything",
		Tone:  "???",
		Screens: []models.ScreenLayout{
			{ID: "99", Headline: "Fine", Layout: "junk", Background: "junk", Emphasis: "junk"},
			{ID: "0", Headline: "Also fine", Subheadline: "Short", Layout: "", Background: "", Emphasis: ""},
		},
	}

	Sanitize(&resp)
	assert.NoError(t, Validate(&resp))
}

func TestFallbackKeywordRouting(t *testing.T) {
	tests := []struct {
		prompt   string
		category string
	}{
		{"A budgeting app for students", "finance"},
		{"Track your gym workouts", "fitness"},
		{"Chat with your friends", "social"},
		{"Guided meditation and sleep stories", "wellness"},
		{"A recipe manager for home cooks", "generic"},
	}
	for _, tt := range tests {
		t.Run(tt.category, func(t *testing.T) {
			assert.Equal(t, tt.category, FallbackCategory(tt.prompt))

			resp := FallbackResponse(tt.prompt)
			require.NotEmpty(t, resp.Screens)
			assert.NoError(t, Validate(&resp), "fallback responses must always validate")
		})
	}
}

func TestGenerateLayoutFallsBackWithoutProvider(t *testing.T) {
	// No API keys configured: every attempt fails at provider resolution
	// and the pipeline must hand back the keyword fallback.
	svc := NewService(testConfig(), llm.NewProviderFactory("", ""), nil)

	result := svc.GenerateLayout(context.Background(), &Request{
		Prompt:          "A budgeting app for students",
		ScreenshotCount: 2,
		RequestID:       "req-test-1",
	})

	require.NotNil(t, result)
	assert.True(t, result.Fallback)
	assert.Equal(t, "fallback", result.Model)
	assert.Equal(t, 3, result.Attempts)
	assert.Equal(t, "Finance app", result.Response.Theme)
	assert.NoError(t, Validate(&result.Response))
}

func TestGenerateLayoutRespectsContextCancellation(t *testing.T) {
	svc := NewService(testConfig(), llm.NewProviderFactory("", ""), nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := svc.GenerateLayout(ctx, &Request{
		Prompt:    "anything",
		RequestID: "req-test-2",
	})

	// Even a cancelled context ends in a usable fallback response.
	require.NotNil(t, result)
	assert.True(t, result.Fallback)
	assert.NoError(t, Validate(&result.Response))
}

type stubProvider struct {
	mu        sync.Mutex
	requests  []*llm.GenerationRequest
	callTimes []time.Time
	respond   func(req *llm.GenerationRequest) (*llm.GenerationResponse, error)
}

func (p *stubProvider) Generate(ctx context.Context, req *llm.GenerationRequest) (*llm.GenerationResponse, error) {
	p.mu.Lock()
	p.requests = append(p.requests, req)
	p.callTimes = append(p.callTimes, time.Now())
	p.mu.Unlock()
	return p.respond(req)
}

func (p *stubProvider) Name() string { return "stub" }

type stubSource struct {
	provider llm.Provider
}

func (s stubSource) GetProvider(ctx context.Context, model, providerName string) (llm.Provider, error) {
	return s.provider, nil
}

func TestGenerateLayoutSendsStructuredRequest(t *testing.T) {
	canned := FallbackResponse("Track your gym workouts")
	raw, err := json.Marshal(canned)
	require.NoError(t, err)

	provider := &stubProvider{
		respond: func(*llm.GenerationRequest) (*llm.GenerationResponse, error) {
			return &llm.GenerationResponse{RawOutput: string(raw)}, nil
		},
	}
	svc := NewService(testConfig(), stubSource{provider}, nil)

	result := svc.GenerateLayout(context.Background(), &Request{
		Prompt:          "Track your gym workouts",
		ScreenshotCount: 1,
		RequestID:       "req-test-3",
	})

	require.NotNil(t, result)
	assert.False(t, result.Fallback)
	assert.Equal(t, 1, result.Attempts)
	assert.NoError(t, Validate(&result.Response))

	require.Len(t, provider.requests, 1)
	req := provider.requests[0]
	assert.Equal(t, "gpt-5-mini", req.Model)
	assert.NotEmpty(t, req.SystemPrompt)
	require.NotNil(t, req.OutputSchema)
	assert.Equal(t, "layout_response", req.OutputSchema.Name)
	assert.NotEmpty(t, req.OutputSchema.Schema)
	assert.Equal(t, llm.GetStageParameters(llm.StageLayout).ReasoningEffort, req.ReasoningEffort)
}

func TestGenerateAttemptsSpacedByRateLimiter(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimitWait = 30 * time.Millisecond

	provider := &stubProvider{
		respond: func(*llm.GenerationRequest) (*llm.GenerationResponse, error) {
			return nil, fmt.Errorf("model unavailable")
		},
	}
	svc := NewService(cfg, stubSource{provider}, nil)

	result := svc.GenerateLayout(context.Background(), &Request{
		Prompt:    "anything",
		RequestID: "req-test-4",
	})

	require.NotNil(t, result)
	assert.True(t, result.Fallback)
	require.Len(t, provider.callTimes, cfg.MaxAttempts)

	// The limiter refills one token per RateLimitWait, so consecutive
	// outbound calls can never land closer together than that.
	for i := 1; i < len(provider.callTimes); i++ {
		gap := provider.callTimes[i].Sub(provider.callTimes[i-1])
		assert.GreaterOrEqual(t, gap, cfg.RateLimitWait-time.Millisecond,
			"calls %d and %d were %v apart", i-1, i, gap)
	}
}
