package models

// Mood is a coarse aesthetic classification derived from color statistics
type Mood string

const (
	MoodVibrant      Mood = "vibrant"
	MoodCalm         Mood = "calm"
	MoodProfessional Mood = "professional"
	MoodPlayful      Mood = "playful"
	MoodMinimal      Mood = "minimal"
)

// AllowedMoods is the closed set of mood values
var AllowedMoods = map[Mood]bool{
	MoodVibrant:      true,
	MoodCalm:         true,
	MoodProfessional: true,
	MoodPlayful:      true,
	MoodMinimal:      true,
}

// ScreenshotAnalysis is derived purely from pixel data (or vision-model
// output) and is immutable once computed for a given image.
type ScreenshotAnalysis struct {
	DominantColors       []string `json:"dominantColors"`
	SuggestedBackgrounds []string `json:"suggestedBackgrounds"`
	Mood                 Mood     `json:"mood"`

	// CoarseBackground is a single color usable as a screen background
	// when nothing better is known
	CoarseBackground string `json:"coarseBackground,omitempty"`

	// Vision-model-only enrichments; empty on the statistical path
	Typography  string `json:"typography,omitempty"`
	DesignStyle string `json:"designStyle,omitempty"`

	// Basic marks the analysis as coming from the local statistical path
	// (vision unavailable or rejected), so the UI can show a notice.
	Basic bool `json:"basic,omitempty"`
}
