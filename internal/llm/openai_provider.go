package llm

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/responses"
)

const (
	// Role constants
	userRole      = "user"
	developerRole = "developer"

	// Provider name
	providerNameOpenAI = "openai"
)

// OpenAIProvider implements the Provider interface using OpenAI's Responses API
type OpenAIProvider struct {
	client *openai.Client
}

// NewOpenAIProvider creates a new OpenAI provider
func NewOpenAIProvider(apiKey string) *OpenAIProvider {
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &OpenAIProvider{
		client: &client,
	}
}

// Name returns the provider name
func (p *OpenAIProvider) Name() string {
	return providerNameOpenAI
}

// Generate implements structured-output generation using OpenAI's Responses API
func (p *OpenAIProvider) Generate(ctx context.Context, request *GenerationRequest) (*GenerationResponse, error) {
	startTime := time.Now()
	log.Printf("🎨 OPENAI GENERATION REQUEST STARTED (Model: %s, images: %d)", request.Model, len(request.Images))

	// Start Sentry transaction
	transaction := sentry.StartTransaction(ctx, "openai.generate")
	defer transaction.Finish()

	transaction.SetTag("model", request.Model)
	transaction.SetTag("provider", providerNameOpenAI)
	transaction.SetTag("has_images", fmt.Sprintf("%t", len(request.Images) > 0))

	params := p.buildRequestParams(request)

	// Call OpenAI API with Sentry span
	span := transaction.StartChild("openai.api_call")
	apiStartTime := time.Now()
	resp, err := p.client.Responses.New(ctx, params)
	apiDuration := time.Since(apiStartTime)
	span.Finish()

	if err != nil {
		log.Printf("❌ OPENAI REQUEST FAILED after %v: %v", apiDuration, err)
		transaction.SetTag("success", "false")
		sentry.CaptureException(err)
		return nil, p.wrapError(err)
	}

	log.Printf("⏱️  OPENAI API CALL COMPLETED in %v", apiDuration)

	textOutput := cleanJSONOutput(resp.OutputText())
	if textOutput == "" {
		transaction.SetTag("success", "false")
		return nil, fmt.Errorf("openai response did not include any output text")
	}

	log.Printf("📥 OPENAI RESPONSE: output_length=%d, tokens=%d, total=%v",
		len(textOutput), resp.Usage.TotalTokens, time.Since(startTime))
	transaction.SetTag("success", "true")

	return &GenerationResponse{
		RawOutput: textOutput,
		Usage: map[string]any{
			"total_tokens":  int(resp.Usage.TotalTokens),
			"input_tokens":  int(resp.Usage.InputTokens),
			"output_tokens": int(resp.Usage.OutputTokens),
		},
	}, nil
}

// buildRequestParams converts GenerationRequest to OpenAI-specific ResponseNewParams
func (p *OpenAIProvider) buildRequestParams(request *GenerationRequest) responses.ResponseNewParams {
	inputItems := responses.ResponseInputParam{}

	for i, item := range request.InputArray {
		role, hasRole := item["role"].(string)
		content, hasContent := item["content"].(string)

		if !hasRole || !hasContent {
			log.Printf("⚠️  Skipping invalid input item (missing role or content): %v", item)
			continue
		}

		// Convert role string to OpenAI enum
		var roleEnum responses.EasyInputMessageRole
		switch role {
		case developerRole:
			roleEnum = responses.EasyInputMessageRoleDeveloper
		case userRole:
			roleEnum = responses.EasyInputMessageRoleUser
		default:
			roleEnum = responses.EasyInputMessageRoleUser
		}

		// Screenshots ride along with the last user message as inline
		// data-URI image parts.
		if roleEnum == responses.EasyInputMessageRoleUser && i == len(request.InputArray)-1 && len(request.Images) > 0 {
			inputItems = append(inputItems, p.buildMultimodalMessage(content, request.Images))
			continue
		}

		inputItems = append(inputItems,
			responses.ResponseInputItemParamOfMessage(content, roleEnum),
		)
	}

	params := responses.ResponseNewParams{
		Model: request.Model,
		Input: responses.ResponseNewParamsInputUnion{
			OfInputItemList: inputItems,
		},
		Instructions: openai.String(request.SystemPrompt),
	}

	if request.ReasoningEffort != "" {
		params.Reasoning = openai.ReasoningParam{
			Effort: openai.ReasoningEffort(request.ReasoningEffort),
		}
	}

	// Structured output via JSON Schema
	if request.OutputSchema != nil {
		params.Text = responses.ResponseTextConfigParam{
			Format: responses.ResponseFormatTextConfigParamOfJSONSchema(
				request.OutputSchema.Name,
				request.OutputSchema.Schema,
			),
		}
		log.Printf("📋 JSON SCHEMA CONFIGURED: %s", request.OutputSchema.Name)
	}

	return params
}

// buildMultimodalMessage builds a user message whose content list mixes the
// prompt text with inline base64 images
func (p *OpenAIProvider) buildMultimodalMessage(text string, images []ImagePart) responses.ResponseInputItemUnionParam {
	content := responses.ResponseInputMessageContentListParam{
		responses.ResponseInputContentParamOfInputText(text),
	}

	for _, img := range images {
		dataURL := fmt.Sprintf("data:%s;base64,%s", img.MIMEType, base64.StdEncoding.EncodeToString(img.Data))
		content = append(content, responses.ResponseInputContentUnionParam{
			OfInputImage: &responses.ResponseInputImageParam{
				ImageURL: openai.String(dataURL),
				Detail:   responses.ResponseInputImageDetailAuto,
			},
		})
	}

	return responses.ResponseInputItemUnionParam{
		OfMessage: &responses.EasyInputMessageParam{
			Role: responses.EasyInputMessageRoleUser,
			Content: responses.EasyInputMessageContentUnionParam{
				OfInputItemContentList: content,
			},
		},
	}
}

// wrapError preserves the HTTP status of API failures so the pipeline can
// tell rate limits apart from transient errors
func (p *OpenAIProvider) wrapError(err error) error {
	var apierr *openai.Error
	if errors.As(err, &apierr) {
		return &StatusError{
			StatusCode: apierr.StatusCode,
			Provider:   providerNameOpenAI,
			Err:        err,
		}
	}
	return fmt.Errorf("openai request failed: %w", err)
}

// cleanJSONOutput strips markdown code fences some models wrap around JSON
func cleanJSONOutput(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	return strings.TrimSpace(s)
}
