package llm

// Stage represents which kind of model call we're making
type Stage string

const (
	// StageLayout is the structured layout generation call
	StageLayout Stage = "layout"
	// StageAnalysis is the vision screenshot analysis call
	StageAnalysis Stage = "analysis"
)

// Reasoning effort constants
// Reference: https://cookbook.openai.com/examples/gpt-5/gpt-5_new_params_and_tools
const (
	reasoningEffortMinimal = "minimal"
	reasoningEffortLow     = "low"
)

// StageParameters tunes a model call per pipeline stage.
type StageParameters struct {
	ReasoningEffort string
}

// GetStageParameters returns the appropriate parameters for each stage.
// Layout generation wants the fastest time-to-first-token: the JSON schema
// already pins the output shape, so minimal reasoning loses nothing.
// Analysis gets low effort since describing pixels benefits from a little
// deliberation.
func GetStageParameters(stage Stage) StageParameters {
	switch stage {
	case StageAnalysis:
		return StageParameters{ReasoningEffort: reasoningEffortLow}
	default:
		return StageParameters{ReasoningEffort: reasoningEffortMinimal}
	}
}
