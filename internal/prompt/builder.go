package prompt

import (
	"fmt"
	"strings"

	"github.com/storeshot/storeshot-api/internal/models"
)

// Builder assembles the user-facing part of generation prompts. The system
// instruction (enum contract) lives in pkg/embedded and is loaded separately.
type Builder struct {
	loader *Loader
}

// NewPromptBuilder creates a new prompt builder
func NewPromptBuilder() *Builder {
	return &Builder{loader: NewPromptLoader()}
}

// LayoutSystemPrompt returns the fixed system instruction for layout
// structuring
func (b *Builder) LayoutSystemPrompt() string {
	return b.loader.GetLayoutSystemPrompt()
}

// AnalysisSystemPrompt returns the fixed system instruction for screenshot
// analysis
func (b *Builder) AnalysisSystemPrompt() string {
	return b.loader.GetAnalysisSystemPrompt()
}

// BuildLayoutPrompt builds the user prompt for layout generation, enriched
// with the visual analyzer's findings when available
func (b *Builder) BuildLayoutPrompt(userPrompt string, screenshotCount int, analysis *models.ScreenshotAnalysis) string {
	var sb strings.Builder

	sb.WriteString("## App description\n")
	sb.WriteString(strings.TrimSpace(userPrompt))
	sb.WriteString("\n")

	if screenshotCount > 0 {
		fmt.Fprintf(&sb, "\n%d screenshot(s) of the app are attached. Design one store screen per screenshot.\n", screenshotCount)
	}

	if analysis != nil {
		sb.WriteString("\n## Visual context (from screenshot analysis)\n")
		if len(analysis.DominantColors) > 0 {
			fmt.Fprintf(&sb, "Dominant colors: %s\n", strings.Join(analysis.DominantColors, ", "))
		}
		if len(analysis.SuggestedBackgrounds) > 0 {
			fmt.Fprintf(&sb, "Suggested backgrounds: %s\n", strings.Join(analysis.SuggestedBackgrounds, ", "))
		}
		if analysis.Mood != "" {
			fmt.Fprintf(&sb, "Mood: %s\n", analysis.Mood)
		}
		if analysis.Typography != "" {
			fmt.Fprintf(&sb, "Typography: %s\n", analysis.Typography)
		}
		if analysis.DesignStyle != "" {
			fmt.Fprintf(&sb, "Design style: %s\n", analysis.DesignStyle)
		}
	}

	sb.WriteString("\nReturn the layout JSON.")
	return sb.String()
}

// BuildAnalysisPrompt builds the user prompt that accompanies the inline
// screenshot on the vision path
func (b *Builder) BuildAnalysisPrompt() string {
	return "Analyze the attached app screenshot and return the visual identity JSON."
}
