package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// Provider defines the interface for LLM providers.
// All providers MUST support structured output (JSON Schema) so that the
// structuring pipeline can rely on parseable responses.
type Provider interface {
	// Generate runs one completion with structured output enforced
	Generate(ctx context.Context, request *GenerationRequest) (*GenerationResponse, error)

	// Name returns the provider name (e.g., "openai", "gemini")
	Name() string
}

// ImagePart is an inline image attached to a request. Screenshots travel as
// raw bytes plus a MIME type; providers encode them however their API wants.
type ImagePart struct {
	MIMEType string
	Data     []byte
}

// GenerationRequest contains all parameters needed for generation
type GenerationRequest struct {
	Model        string
	SystemPrompt string
	InputArray   []map[string]any
	Images       []ImagePart
	// Structured output schema - REQUIRED for reliable JSON parsing
	OutputSchema *OutputSchema
	// Reasoning effort hint; providers that don't support it ignore it
	ReasoningEffort string
}

// OutputSchema defines the expected JSON output structure
type OutputSchema struct {
	Name        string
	Description string
	Schema      map[string]any // JSON Schema object
}

// GenerationResponse contains the result from the LLM
type GenerationResponse struct {
	RawOutput string         `json:"raw_output"` // Raw JSON text output
	Usage     map[string]any `json:"usage"`
}

// StatusError carries the HTTP status of a failed provider call so callers
// can distinguish rate limits from other failures.
type StatusError struct {
	StatusCode int
	Provider   string
	Err        error
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s request failed (status %d): %v", e.Provider, e.StatusCode, e.Err)
}

func (e *StatusError) Unwrap() error {
	return e.Err
}

// IsRateLimited reports whether the error is an HTTP 429 from a provider
func IsRateLimited(err error) bool {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode == http.StatusTooManyRequests
	}
	return false
}
