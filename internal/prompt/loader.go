package prompt

import (
	"strings"

	"github.com/storeshot/storeshot-api/pkg/embedded"
)

type Loader struct{}

func NewPromptLoader() *Loader {
	return &Loader{}
}

// GetLayoutSystemPrompt loads the layout structuring system prompt.
// Prompt data is compiled in, so loading cannot fail.
func (l *Loader) GetLayoutSystemPrompt() string {
	return strings.TrimSpace(string(embedded.LayoutSystemPromptTxt))
}

// GetAnalysisSystemPrompt loads the screenshot analysis system prompt
func (l *Loader) GetAnalysisSystemPrompt() string {
	return strings.TrimSpace(string(embedded.AnalysisSystemPromptTxt))
}
