package models

const (
	// MaxHeadlineLength is the hard cap on generated headlines
	MaxHeadlineLength = 50
	// MaxSubheadlineLength is the hard cap on generated subheadlines
	MaxSubheadlineLength = 100
	// MaxScreensPerResponse bounds how many screen layouts one generation
	// may return
	MaxScreensPerResponse = 5
)

// Closed enum sets for AI-generated layout fields. Values outside these sets
// are coerced to the documented defaults during sanitization rather than
// failing the whole response.
var (
	AllowedTones = map[string]bool{
		"professional": true,
		"playful":      true,
		"bold":         true,
		"minimal":      true,
		"friendly":     true,
	}
	AllowedLayouts = map[string]bool{
		"iphone_centered": true,
		"iphone_offset":   true,
		"feature_list":    true,
		"comparison":      true,
		"hero":            true,
	}
	AllowedBackgrounds = map[string]bool{
		"solid_light":   true,
		"solid_dark":    true,
		"soft_gradient": true,
		"bold_gradient": true,
		"pattern":       true,
	}
	AllowedEmphasis = map[string]bool{
		"feature":      true,
		"benefit":      true,
		"social_proof": true,
		"cta":          true,
		"stat":         true,
	}
)

// Sanitization defaults for out-of-range enum values
const (
	DefaultTone       = "professional"
	DefaultLayout     = "iphone_centered"
	DefaultBackground = "soft_gradient"
	DefaultEmphasis   = "feature"
)

// ScreenLayout is the AI's abstract description of one marketing screen.
// It is deliberately decoupled from pixel geometry: the template resolver
// owns the mapping to concrete layers.
type ScreenLayout struct {
	ID          string `json:"id"`
	Headline    string `json:"headline"`
	Subheadline string `json:"subheadline,omitempty"`
	Layout      string `json:"layout"`
	Background  string `json:"background"`
	Emphasis    string `json:"emphasis,omitempty"`
}

// AIResponse is the schema-validated contract between the structuring
// pipeline and the template resolver
type AIResponse struct {
	Theme          string         `json:"theme"`
	Tone           string         `json:"tone"`
	TargetAudience string         `json:"targetAudience,omitempty"`
	Screens        []ScreenLayout `json:"screens"`
}

// LayoutDescriptor is the resolver input: one layout kind plus one
// background kind
type LayoutDescriptor struct {
	Layout      string `json:"layout"`
	Background  string `json:"background"`
	Headline    string `json:"headline"`
	Subheadline string `json:"subheadline,omitempty"`
}
