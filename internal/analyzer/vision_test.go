package analyzer

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storeshot/storeshot-api/internal/assets"
	"github.com/storeshot/storeshot-api/internal/config"
	"github.com/storeshot/storeshot-api/internal/llm"
)

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

func screenshotDataURI(t *testing.T) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 10, 10))
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			img.Set(x, y, color.RGBA{R: 60, G: 120, B: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return assets.EncodeDataURI("image/png", buf.Bytes())
}

func visionConfig() *config.Config {
	return &config.Config{
		Environment:    "test",
		VisionModel:    "gemini-2.5-flash",
		AnalysisMinGap: time.Millisecond,
	}
}

func TestVisionAnalyzeSendsImageAndSchema(t *testing.T) {
	provider := &stubProvider{
		respond: func(*llm.GenerationRequest) (*llm.GenerationResponse, error) {
			return &llm.GenerationResponse{
				RawOutput: `{"dominantColors":["#112233"],"suggestedBackgrounds":["#EEF2FF"],"mood":"playful","typography":"rounded sans","designStyle":"flat"}`,
			}, nil
		},
	}
	svc := NewService(visionConfig(), stubSource{provider}, assets.NewCache())

	result := svc.Analyze(context.Background(), screenshotDataURI(t))

	assert.False(t, result.Basic)
	assert.Equal(t, "rounded sans", result.Typography)
	assert.Equal(t, []string{"#112233"}, result.DominantColors)

	require.Len(t, provider.requests, 1)
	req := provider.requests[0]
	assert.Equal(t, "gemini-2.5-flash", req.Model)
	assert.NotEmpty(t, req.SystemPrompt)
	require.NotNil(t, req.OutputSchema)
	assert.Equal(t, "screenshot_analysis", req.OutputSchema.Name)
	assert.NotEmpty(t, req.OutputSchema.Schema)
	require.Len(t, req.Images, 1)
	assert.Equal(t, "image/png", req.Images[0].MIMEType)
	assert.NotEmpty(t, req.Images[0].Data)
}

func TestVisionAnalyzeDegradesOnProviderError(t *testing.T) {
	provider := &stubProvider{
		respond: func(*llm.GenerationRequest) (*llm.GenerationResponse, error) {
			return nil, fmt.Errorf("vision backend down")
		},
	}
	svc := NewService(visionConfig(), stubSource{provider}, assets.NewCache())

	result := svc.Analyze(context.Background(), screenshotDataURI(t))

	assert.True(t, result.Basic)
	assert.NotEmpty(t, result.DominantColors)
}

func TestVisionCallsSpacedByMinGap(t *testing.T) {
	cfg := visionConfig()
	cfg.AnalysisMinGap = 30 * time.Millisecond

	provider := &stubProvider{
		respond: func(*llm.GenerationRequest) (*llm.GenerationResponse, error) {
			return &llm.GenerationResponse{RawOutput: `{"mood":"calm"}`}, nil
		},
	}
	svc := NewService(cfg, stubSource{provider}, assets.NewCache())

	uri := screenshotDataURI(t)
	svc.Analyze(context.Background(), uri)
	svc.Analyze(context.Background(), uri)

	require.Len(t, provider.callTimes, 2)
	gap := provider.callTimes[1].Sub(provider.callTimes[0])
	assert.GreaterOrEqual(t, gap, cfg.AnalysisMinGap-time.Millisecond,
		"outbound vision calls must respect the configured minimum interval")
}
