package llm

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/getsentry/sentry-go"
	"google.golang.org/genai"
)

const (
	providerNameGemini = "gemini"
	mimeTypeJSON       = "application/json"
	geminiUserRole     = "user"
)

// GeminiProvider implements the Provider interface using Google's Gemini API
type GeminiProvider struct {
	client *genai.Client
}

// NewGeminiProvider creates a new Gemini provider
func NewGeminiProvider(ctx context.Context, apiKey string) (*GeminiProvider, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiProvider{
		client: client,
	}, nil
}

// Name returns the provider name
func (p *GeminiProvider) Name() string {
	return providerNameGemini
}

// Generate implements structured-output generation using Gemini's API.
// Images are attached as inline blobs, which is how screenshots reach the
// vision models.
func (p *GeminiProvider) Generate(ctx context.Context, request *GenerationRequest) (*GenerationResponse, error) {
	startTime := time.Now()
	log.Printf("🎨 GEMINI GENERATION REQUEST STARTED (Model: %s, images: %d)", request.Model, len(request.Images))

	// Start Sentry transaction
	transaction := sentry.StartTransaction(ctx, "gemini.generate")
	defer transaction.Finish()

	transaction.SetTag("model", request.Model)
	transaction.SetTag("provider", providerNameGemini)
	transaction.SetTag("has_images", fmt.Sprintf("%t", len(request.Images) > 0))

	contents := p.buildGeminiContents(request)

	// Configure generation with structured output
	config := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: request.SystemPrompt}},
		},
	}

	if request.OutputSchema != nil {
		config.ResponseMIMEType = mimeTypeJSON
		config.ResponseSchema = convertSchemaToGemini(request.OutputSchema.Schema)
	}

	// Call Gemini API
	span := transaction.StartChild("gemini.api_call")
	apiStartTime := time.Now()
	result, err := p.client.Models.GenerateContent(ctx, request.Model, contents, config)
	apiDuration := time.Since(apiStartTime)
	span.Finish()

	if err != nil {
		log.Printf("❌ GEMINI REQUEST FAILED after %v: %v", apiDuration, err)
		transaction.SetTag("success", "false")
		sentry.CaptureException(err)
		return nil, p.wrapError(err)
	}

	log.Printf("⏱️  GEMINI API CALL COMPLETED in %v", apiDuration)

	textOutput := cleanJSONOutput(result.Text())
	if textOutput == "" {
		transaction.SetTag("success", "false")
		return nil, fmt.Errorf("gemini response did not include any output text")
	}

	usage := map[string]any{}
	if result.UsageMetadata != nil {
		usage["total_tokens"] = int(result.UsageMetadata.TotalTokenCount)
		usage["input_tokens"] = int(result.UsageMetadata.PromptTokenCount)
		usage["output_tokens"] = int(result.UsageMetadata.CandidatesTokenCount)
	}

	log.Printf("📥 GEMINI RESPONSE: output_length=%d, total=%v", len(textOutput), time.Since(startTime))
	transaction.SetTag("success", "true")

	return &GenerationResponse{
		RawOutput: textOutput,
		Usage:     usage,
	}, nil
}

// buildGeminiContents converts our input array (plus inline images) to
// Gemini Content format
func (p *GeminiProvider) buildGeminiContents(request *GenerationRequest) []*genai.Content {
	var contents []*genai.Content

	for i, item := range request.InputArray {
		role, hasRole := item["role"].(string)
		content, hasContent := item["content"].(string)

		if !hasRole || !hasContent {
			log.Printf("⚠️  Skipping invalid input item (missing role or content): %v", item)
			continue
		}

		// Gemini only knows "user" and "model"; developer/system text goes
		// through as user content.
		_ = role
		parts := []*genai.Part{{Text: content}}

		if i == len(request.InputArray)-1 {
			for _, img := range request.Images {
				parts = append(parts, &genai.Part{
					InlineData: &genai.Blob{
						MIMEType: img.MIMEType,
						Data:     img.Data,
					},
				})
			}
		}

		contents = append(contents, &genai.Content{
			Role:  geminiUserRole,
			Parts: parts,
		})
	}

	return contents
}

// wrapError preserves the HTTP status of API failures
func (p *GeminiProvider) wrapError(err error) error {
	var apierr genai.APIError
	if errors.As(err, &apierr) {
		return &StatusError{
			StatusCode: apierr.Code,
			Provider:   providerNameGemini,
			Err:        err,
		}
	}
	return fmt.Errorf("gemini request failed: %w", err)
}

// convertSchemaToGemini maps our JSON-Schema maps onto Gemini's typed Schema.
// Nullable union types ("type": ["string","null"]) collapse to their base
// type with Nullable set.
func convertSchemaToGemini(schema map[string]any) *genai.Schema {
	if schema == nil {
		return nil
	}

	out := &genai.Schema{}

	switch t := schema["type"].(type) {
	case string:
		out.Type = geminiType(t)
	case []any:
		for _, v := range t {
			s, ok := v.(string)
			if !ok {
				continue
			}
			if s == "null" {
				nullable := true
				out.Nullable = &nullable
			} else {
				out.Type = geminiType(s)
			}
		}
	}

	if desc, ok := schema["description"].(string); ok {
		out.Description = desc
	}

	if props, ok := schema["properties"].(map[string]any); ok {
		out.Properties = make(map[string]*genai.Schema, len(props))
		for name, sub := range props {
			if subMap, ok := sub.(map[string]any); ok {
				out.Properties[name] = convertSchemaToGemini(subMap)
			}
		}
	}

	if items, ok := schema["items"].(map[string]any); ok {
		out.Items = convertSchemaToGemini(items)
	}

	if required, ok := schema["required"].([]string); ok {
		out.Required = required
	} else if required, ok := schema["required"].([]any); ok {
		for _, r := range required {
			if s, ok := r.(string); ok {
				out.Required = append(out.Required, s)
			}
		}
	}

	if enum, ok := schema["enum"].([]string); ok {
		out.Enum = enum
	} else if enum, ok := schema["enum"].([]any); ok {
		for _, e := range enum {
			if s, ok := e.(string); ok {
				out.Enum = append(out.Enum, s)
			}
		}
	}

	return out
}

func geminiType(t string) genai.Type {
	switch t {
	case "object":
		return genai.TypeObject
	case "array":
		return genai.TypeArray
	case "string":
		return genai.TypeString
	case "number":
		return genai.TypeNumber
	case "integer":
		return genai.TypeInteger
	case "boolean":
		return genai.TypeBoolean
	default:
		return genai.TypeUnspecified
	}
}
