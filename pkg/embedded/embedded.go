package embedded

import (
	_ "embed"
)

// Embed all prompt data files
//
//go:embed data/layout_system_prompt.txt
var LayoutSystemPromptTxt []byte

//go:embed data/analysis_system_prompt.txt
var AnalysisSystemPromptTxt []byte
