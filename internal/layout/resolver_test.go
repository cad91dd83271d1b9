package layout

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storeshot/storeshot-api/internal/models"
)

func TestResolveIdempotent(t *testing.T) {
	desc := models.LayoutDescriptor{
		Layout:      "iphone_offset",
		Background:  "bold_gradient",
		Headline:    "Track every dollar",
		Subheadline: "Budgets that build themselves",
	}

	first := Resolve(desc, "shot-1", 0)
	second := Resolve(desc, "shot-1", 0)
	assert.Equal(t, first, second)
}

func TestResolveAllCombinations(t *testing.T) {
	for kind := range models.AllowedLayouts {
		for background := range models.AllowedBackgrounds {
			t.Run(fmt.Sprintf("%s_%s", kind, background), func(t *testing.T) {
				desc := models.LayoutDescriptor{
					Layout:     kind,
					Background: background,
					Headline:   "Headline",
				}
				layers := Resolve(desc, "shot-1", 2)
				require.NotEmpty(t, layers)

				bg := layers[0]
				assert.Equal(t, models.LayerTypeBackground, bg.Type)
				assert.Equal(t, float64(models.CanvasWidth), bg.Width)
				assert.Equal(t, float64(models.CanvasHeight), bg.Height)

				hasMockup := false
				seen := map[string]bool{}
				for _, layer := range layers {
					assert.False(t, seen[layer.ID], "duplicate layer id %s", layer.ID)
					seen[layer.ID] = true
					if layer.Type == models.LayerTypeMockup {
						hasMockup = true
						assert.Equal(t, "shot-1", layer.Screenshot)
						require.NotNil(t, layer.MockupFrame)
					}
				}
				assert.True(t, hasMockup, "every template places at least one mockup")
			})
		}
	}
}

func TestResolveUnknownKindsFallBack(t *testing.T) {
	desc := models.LayoutDescriptor{Layout: "spiral", Background: "plaid", Headline: "Hi"}
	layers := Resolve(desc, "shot-1", 0)

	expected := Resolve(models.LayoutDescriptor{
		Layout:     models.DefaultLayout,
		Background: models.DefaultBackground,
		Headline:   "Hi",
	}, "shot-1", 0)
	assert.Equal(t, expected, layers)
}

func TestResolveComparisonHasTwoSlots(t *testing.T) {
	layers := Resolve(models.LayoutDescriptor{
		Layout: "comparison", Background: "solid_light", Headline: "Before and after",
	}, "shot-3", 1)

	mockups := 0
	for _, layer := range layers {
		if layer.Type == models.LayerTypeMockup {
			mockups++
		}
	}
	assert.Equal(t, 2, mockups)
}

func TestResolveDarkBackgroundsUseLightText(t *testing.T) {
	layers := Resolve(models.LayoutDescriptor{
		Layout: "iphone_centered", Background: "solid_dark", Headline: "Night mode",
	}, "shot-1", 0)

	for _, layer := range layers {
		if layer.Type == models.LayerTypeText && layer.Bold {
			assert.Equal(t, "#FFFFFF", layer.Color)
		}
	}
}
