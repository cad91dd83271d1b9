package generation

import (
	"fmt"
	"strconv"

	"github.com/storeshot/storeshot-api/internal/models"
)

// Validate strictly checks a sanitized response. A validation error here
// counts as a failed attempt; the pipeline retries or falls back rather than
// surfacing a broken layout to the editor.
func Validate(resp *models.AIResponse) error {
	if resp.Theme == "" {
		return fmt.Errorf("missing theme")
	}
	if !models.AllowedTones[resp.Tone] {
		return fmt.Errorf("invalid tone %q", resp.Tone)
	}
	if len(resp.Screens) == 0 {
		return fmt.Errorf("no screens in response")
	}
	if len(resp.Screens) > models.MaxScreensPerResponse {
		return fmt.Errorf("too many screens: %d (max %d)", len(resp.Screens), models.MaxScreensPerResponse)
	}

	for i, screen := range resp.Screens {
		if screen.ID != strconv.Itoa(i+1) {
			return fmt.Errorf("screen %d: id %q out of sequence", i, screen.ID)
		}
		if screen.Headline == "" {
			return fmt.Errorf("screen %d: missing headline", i+1)
		}
		if len(screen.Headline) > models.MaxHeadlineLength {
			return fmt.Errorf("screen %d: headline exceeds %d characters", i+1, models.MaxHeadlineLength)
		}
		if len(screen.Subheadline) > models.MaxSubheadlineLength {
			return fmt.Errorf("screen %d: subheadline exceeds %d characters", i+1, models.MaxSubheadlineLength)
		}
		if !models.AllowedLayouts[screen.Layout] {
			return fmt.Errorf("screen %d: invalid layout %q", i+1, screen.Layout)
		}
		if !models.AllowedBackgrounds[screen.Background] {
			return fmt.Errorf("screen %d: invalid background %q", i+1, screen.Background)
		}
		if !models.AllowedEmphasis[screen.Emphasis] {
			return fmt.Errorf("screen %d: invalid emphasis %q", i+1, screen.Emphasis)
		}
	}
	return nil
}
