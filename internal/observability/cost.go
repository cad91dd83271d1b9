package observability

import (
	"strconv"
	"strings"
)

// Pricing constants
const (
	tokensPerKilo       = 1000.0
	costFormatPrecision = 6

	// GPT-5 pricing
	gpt5InputPrice  = 0.00125
	gpt5OutputPrice = 0.01

	// GPT-5-mini pricing
	gpt5MiniInputPrice  = 0.00025
	gpt5MiniOutputPrice = 0.002

	// GPT-4o-mini pricing
	gpt4oMiniInputPrice  = 0.00015
	gpt4oMiniOutputPrice = 0.0006

	// Gemini 2.5 Flash pricing
	geminiFlashInputPrice  = 0.0003
	geminiFlashOutputPrice = 0.0025
)

// ModelPricing contains pricing information per 1K tokens
type ModelPricing struct {
	InputPricePer1K  float64 // Price per 1K input tokens in USD
	OutputPricePer1K float64 // Price per 1K output tokens in USD
}

// PricingTable contains pricing for all models
var PricingTable = map[string]ModelPricing{
	"gpt-5": {
		InputPricePer1K:  gpt5InputPrice,
		OutputPricePer1K: gpt5OutputPrice,
	},
	"gpt-5-mini": {
		InputPricePer1K:  gpt5MiniInputPrice,
		OutputPricePer1K: gpt5MiniOutputPrice,
	},
	"gpt-4o-mini": {
		InputPricePer1K:  gpt4oMiniInputPrice,
		OutputPricePer1K: gpt4oMiniOutputPrice,
	},
	"gemini-2.5-flash": {
		InputPricePer1K:  geminiFlashInputPrice,
		OutputPricePer1K: geminiFlashOutputPrice,
	},
}

// CalculateModelCost calculates the cost in USD for one model call.
// Unknown models fall back to gpt-5-mini pricing; unknown Gemini variants
// fall back to gemini-2.5-flash.
func CalculateModelCost(model string, inputTokens, outputTokens int) float64 {
	pricing, exists := PricingTable[model]
	if !exists {
		if strings.HasPrefix(model, "gemini-") {
			pricing = PricingTable["gemini-2.5-flash"]
		} else {
			pricing = PricingTable["gpt-5-mini"]
		}
	}

	inputCost := (float64(inputTokens) / tokensPerKilo) * pricing.InputPricePer1K
	outputCost := (float64(outputTokens) / tokensPerKilo) * pricing.OutputPricePer1K

	return inputCost + outputCost
}

// FormatCost formats a cost value as a USD string
func FormatCost(cost float64) string {
	return "$" + formatFloat(cost, costFormatPrecision)
}

// formatFloat formats a float with specified precision using strconv
func formatFloat(f float64, precision int) string {
	return strconv.FormatFloat(f, 'f', precision, 64)
}
