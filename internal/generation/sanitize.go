package generation

import (
	"strconv"
	"strings"

	"github.com/storeshot/storeshot-api/internal/models"
)

// Sanitize normalizes a parsed model response in place. Unknown enum values
// are replaced by their defaults rather than rejected: the strict check
// happens afterwards in Validate, so sanitize-then-validate only fails on
// structural problems the defaults cannot fix.
func Sanitize(resp *models.AIResponse) {
	resp.Theme = strings.TrimSpace(resp.Theme)
	resp.TargetAudience = strings.TrimSpace(resp.TargetAudience)

	resp.Tone = strings.ToLower(strings.TrimSpace(resp.Tone))
	if !models.AllowedTones[resp.Tone] {
		resp.Tone = models.DefaultTone
	}

	for i := range resp.Screens {
		screen := &resp.Screens[i]

		screen.Headline = truncate(strings.TrimSpace(screen.Headline), models.MaxHeadlineLength)
		screen.Subheadline = truncate(strings.TrimSpace(screen.Subheadline), models.MaxSubheadlineLength)

		screen.Layout = strings.ToLower(strings.TrimSpace(screen.Layout))
		if !models.AllowedLayouts[screen.Layout] {
			screen.Layout = models.DefaultLayout
		}

		screen.Background = strings.ToLower(strings.TrimSpace(screen.Background))
		if !models.AllowedBackgrounds[screen.Background] {
			screen.Background = models.DefaultBackground
		}

		screen.Emphasis = strings.ToLower(strings.TrimSpace(screen.Emphasis))
		if !models.AllowedEmphasis[screen.Emphasis] {
			screen.Emphasis = models.DefaultEmphasis
		}

		// Screen IDs must be 1-based and sequential
		screen.ID = strconv.Itoa(i + 1)
	}
}

// truncate cuts s to at most max characters, trimming a trailing partial
// word when one fits. Models occasionally overshoot the headline limit by a
// few characters; a clean cut beats failing the whole attempt.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := strings.ToValidUTF8(s[:max], "")
	if idx := strings.LastIndex(cut, " "); idx > max/2 {
		cut = cut[:idx]
	}
	return strings.TrimSpace(cut)
}
