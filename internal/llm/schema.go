package llm

// GetLayoutOutputSchema returns the JSON schema for layout structuring output.
// Enum values here mirror the closed sets in internal/models; the sanitizer
// still coerces anything out of range because not every provider enforces
// enums strictly.
// Note: OpenAI requires additionalProperties: false and every property listed
// in 'required', so optional fields are modeled as nullable types.
func GetLayoutOutputSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"theme": map[string]any{
				"type":        "string",
				"description": "Short app category/theme, e.g. finance, fitness",
			},
			"tone": map[string]any{
				"type": "string",
				"enum": []string{"professional", "playful", "bold", "minimal", "friendly"},
			},
			"targetAudience": map[string]any{
				"type":        []any{"string", "null"},
				"description": "Who the store listing targets. Use null if unknown.",
			},
			"screens": map[string]any{
				"type":     "array",
				"minItems": 1,
				"maxItems": 5,
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"id": map[string]any{"type": "string"},
						"headline": map[string]any{
							"type":      "string",
							"maxLength": 50,
						},
						"subheadline": map[string]any{
							"type":      []any{"string", "null"},
							"maxLength": 100,
						},
						"layout": map[string]any{
							"type": "string",
							"enum": []string{"iphone_centered", "iphone_offset", "feature_list", "comparison", "hero"},
						},
						"background": map[string]any{
							"type": "string",
							"enum": []string{"solid_light", "solid_dark", "soft_gradient", "bold_gradient", "pattern"},
						},
						"emphasis": map[string]any{
							"type": []any{"string", "null"},
							"enum": []any{"feature", "benefit", "social_proof", "cta", "stat", nil},
						},
					},
					"required":             []string{"id", "headline", "subheadline", "layout", "background", "emphasis"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []string{"theme", "tone", "targetAudience", "screens"},
		"additionalProperties": false,
	}
}

// GetAnalysisOutputSchema returns the JSON schema for vision-model screenshot
// analysis output
func GetAnalysisOutputSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"dominantColors": map[string]any{
				"type":     "array",
				"minItems": 1,
				"maxItems": 8,
				"items": map[string]any{
					"type":        "string",
					"description": "Hex color, e.g. #4A90D9",
				},
			},
			"suggestedBackgrounds": map[string]any{
				"type":     "array",
				"minItems": 1,
				"maxItems": 6,
				"items":    map[string]any{"type": "string"},
			},
			"mood": map[string]any{
				"type": "string",
				"enum": []string{"vibrant", "calm", "professional", "playful", "minimal"},
			},
			"typography": map[string]any{
				"type":        []any{"string", "null"},
				"description": "Observed typography style. Use null if unclear.",
			},
			"designStyle": map[string]any{
				"type":        []any{"string", "null"},
				"description": "Overall design style, e.g. flat, glassmorphism. Use null if unclear.",
			},
		},
		"required":             []string{"dominantColors", "suggestedBackgrounds", "mood", "typography", "designStyle"},
		"additionalProperties": false,
	}
}
