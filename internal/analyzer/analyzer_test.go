package analyzer

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storeshot/storeshot-api/internal/models"
)

func solidImage(c color.RGBA, w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func TestAnalyzeAllWhite(t *testing.T) {
	result := Analyze(solidImage(color.RGBA{255, 255, 255, 255}, 200, 400))

	require.NotEmpty(t, result.DominantColors, "all-white input must still produce a palette")
	assert.Equal(t, defaultPalette, result.DominantColors)
	assert.Equal(t, models.MoodMinimal, result.Mood)
	assert.NotEmpty(t, result.SuggestedBackgrounds)
	assert.True(t, result.Basic)
}

func TestAnalyzeMoodClassification(t *testing.T) {
	tests := []struct {
		name string
		c    color.RGBA
		want models.Mood
	}{
		{"saturated bright is playful", color.RGBA{255, 200, 40, 255}, models.MoodPlayful},
		{"saturated dark is vibrant", color.RGBA{180, 30, 30, 255}, models.MoodVibrant},
		{"desaturated bright is minimal", color.RGBA{220, 225, 230, 255}, models.MoodMinimal},
		{"desaturated dark is professional", color.RGBA{60, 65, 70, 255}, models.MoodProfessional},
		{"mid saturation mid brightness is calm", color.RGBA{120, 150, 180, 255}, models.MoodCalm},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Analyze(solidImage(tt.c, 200, 400))
			assert.Equal(t, tt.want, result.Mood)
		})
	}
}

func TestAnalyzeDeterministic(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 200, 200))
	for y := 0; y < 200; y++ {
		for x := 0; x < 200; x++ {
			if (x/50+y/50)%2 == 0 {
				img.SetRGBA(x, y, color.RGBA{40, 90, 200, 255})
			} else {
				img.SetRGBA(x, y, color.RGBA{200, 60, 60, 255})
			}
		}
	}

	first := Analyze(img)
	second := Analyze(img)
	assert.Equal(t, first.DominantColors, second.DominantColors)
	assert.Equal(t, first.Mood, second.Mood)
}

func TestAnalyzePaletteCapped(t *testing.T) {
	result := Analyze(solidImage(color.RGBA{40, 90, 200, 255}, 100, 100))
	assert.LessOrEqual(t, len(result.DominantColors), maxDominantColors)
	assert.NotEmpty(t, result.SuggestedBackgrounds)
}

func TestSanitizeAnalysisBackfills(t *testing.T) {
	statistical := Analyze(solidImage(color.RGBA{40, 90, 200, 255}, 100, 100))

	parsed := models.ScreenshotAnalysis{Mood: "euphoric"}
	sanitizeAnalysis(&parsed, &statistical)

	assert.Equal(t, statistical.Mood, parsed.Mood)
	assert.Equal(t, statistical.DominantColors, parsed.DominantColors)
	assert.Equal(t, statistical.SuggestedBackgrounds, parsed.SuggestedBackgrounds)
	assert.False(t, parsed.Basic)
}
