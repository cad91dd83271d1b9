package analyzer

import (
	"fmt"
	"image"
	"sort"

	"github.com/cenkalti/dominantcolor"
	"github.com/disintegration/imaging"
	colorful "github.com/lucasb-eyer/go-colorful"
	"github.com/muesli/clusters"
	"github.com/muesli/kmeans"

	"github.com/storeshot/storeshot-api/internal/models"
)

const (
	// Downscale width for the pixel pass; larger inputs cost time without
	// changing the palette meaningfully.
	analysisWidth = 100

	// Noise cutoffs: near-white and near-black pixels are UI chrome and
	// text, not brand color.
	whiteCutoff = 245
	blackCutoff = 20
	alphaCutoff = 128

	// Channel quantization step for frequency counting
	quantStep = 15

	maxDominantColors = 6

	// Above this many distinct quantized colors the frequency table gets
	// noisy and k-means clustering gives a cleaner palette.
	kmeansColorThreshold = 48

	// How far the dominant color is pushed toward white for suggested
	// backgrounds
	lightenAmount = 0.85

	// Mood classification thresholds on the most frequent color
	saturationHigh = 100
	saturationLow  = 50
	brightnessHigh = 150
)

// defaultPalette is emitted for images with no qualifying pixels (e.g. an
// all-white screenshot). Downstream consumers never see an empty palette.
var defaultPalette = []string{"#4A90D9", "#7B61FF", "#50E3C2"}

var moodBackgrounds = map[models.Mood][]string{
	models.MoodVibrant:      {"#FFF3E0", "#FCE4EC"},
	models.MoodCalm:         {"#E8F4F8", "#EDF7F0"},
	models.MoodProfessional: {"#F5F7FA", "#ECEFF4"},
	models.MoodPlayful:      {"#FFF9E6", "#F3E8FF"},
	models.MoodMinimal:      {"#FAFAFA", "#F0F0F0"},
}

type quantColor struct {
	r, g, b uint8
	count   int
}

// Analyze derives a ScreenshotAnalysis from pixel statistics alone.
// It never fails: degenerate inputs produce the default palette.
func Analyze(img image.Image) models.ScreenshotAnalysis {
	small := imaging.Resize(img, analysisWidth, 0, imaging.Lanczos)

	counts := map[[3]uint8]int{}
	var samples clusters.Observations

	bounds := small.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r16, g16, b16, a16 := small.At(x, y).RGBA()
			r, g, b, a := uint8(r16>>8), uint8(g16>>8), uint8(b16>>8), uint8(a16>>8)

			if a < alphaCutoff {
				continue
			}
			if r > whiteCutoff && g > whiteCutoff && b > whiteCutoff {
				continue
			}
			if r < blackCutoff && g < blackCutoff && b < blackCutoff {
				continue
			}

			key := [3]uint8{quantize(r), quantize(g), quantize(b)}
			counts[key]++
			samples = append(samples, clusters.Coordinates{
				float64(r) / 255, float64(g) / 255, float64(b) / 255,
			})
		}
	}

	if len(counts) == 0 {
		return models.ScreenshotAnalysis{
			DominantColors:       defaultPalette,
			SuggestedBackgrounds: moodBackgrounds[models.MoodMinimal],
			Mood:                 models.MoodMinimal,
			CoarseBackground:     "#FFFFFF",
			Basic:                true,
		}
	}

	ranked := rankColors(counts)

	var dominant []string
	if len(counts) > kmeansColorThreshold {
		dominant = clusterPalette(samples)
	}
	if len(dominant) == 0 {
		for i := 0; i < len(ranked) && i < maxDominantColors; i++ {
			dominant = append(dominant, hexOf(ranked[i].r, ranked[i].g, ranked[i].b))
		}
	}

	mood := classifyMood(ranked[0])

	suggested := []string{lighten(ranked[0], lightenAmount)}
	suggested = append(suggested, moodBackgrounds[mood]...)

	return models.ScreenshotAnalysis{
		DominantColors:       dominant,
		SuggestedBackgrounds: suggested,
		Mood:                 mood,
		CoarseBackground:     dominantcolor.Hex(dominantcolor.Find(img)),
		Basic:                true,
	}
}

func quantize(v uint8) uint8 {
	return (v / quantStep) * quantStep
}

// rankColors orders quantized colors by frequency, breaking ties by hex so
// the result is deterministic for a given image
func rankColors(counts map[[3]uint8]int) []quantColor {
	ranked := make([]quantColor, 0, len(counts))
	for key, n := range counts {
		ranked = append(ranked, quantColor{r: key[0], g: key[1], b: key[2], count: n})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].count != ranked[j].count {
			return ranked[i].count > ranked[j].count
		}
		return hexOf(ranked[i].r, ranked[i].g, ranked[i].b) < hexOf(ranked[j].r, ranked[j].g, ranked[j].b)
	})
	return ranked
}

// clusterPalette runs k-means over the qualifying pixels and returns the
// cluster centers, biggest cluster first. Returns nil on failure so the
// caller can fall back to the frequency table.
func clusterPalette(samples clusters.Observations) []string {
	km := kmeans.New()
	cl, err := km.Partition(samples, maxDominantColors)
	if err != nil {
		return nil
	}

	sort.Slice(cl, func(i, j int) bool {
		return len(cl[i].Observations) > len(cl[j].Observations)
	})

	palette := make([]string, 0, len(cl))
	for _, c := range cl {
		center := c.Center
		if len(center) < 3 {
			continue
		}
		palette = append(palette, hexOf(
			uint8(center[0]*255), uint8(center[1]*255), uint8(center[2]*255),
		))
	}
	return palette
}

// classifyMood maps the most frequent color's brightness and saturation to
// one of the five moods
func classifyMood(c quantColor) models.Mood {
	brightness := (int(c.r) + int(c.g) + int(c.b)) / 3
	saturation := int(maxChannel(c)) - int(minChannel(c))

	switch {
	case saturation > saturationHigh && brightness > brightnessHigh:
		return models.MoodPlayful
	case saturation > saturationHigh:
		return models.MoodVibrant
	case saturation < saturationLow && brightness > brightnessHigh:
		return models.MoodMinimal
	case saturation < saturationLow:
		return models.MoodProfessional
	default:
		return models.MoodCalm
	}
}

func maxChannel(c quantColor) uint8 {
	return max(c.r, max(c.g, c.b))
}

func minChannel(c quantColor) uint8 {
	return min(c.r, min(c.g, c.b))
}

func lighten(c quantColor, amount float64) string {
	base := colorful.Color{R: float64(c.r) / 255, G: float64(c.g) / 255, B: float64(c.b) / 255}
	white := colorful.Color{R: 1, G: 1, B: 1}
	return base.BlendRgb(white, amount).Hex()
}

func hexOf(r, g, b uint8) string {
	return fmt.Sprintf("#%02X%02X%02X", r, g, b)
}
