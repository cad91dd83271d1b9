package metrics

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/getsentry/sentry-go"
)

const (
	// HTTP status code threshold for considering a request successful
	successStatusCodeThreshold = http.StatusBadRequest
)

// SentryMetrics handles custom metrics for Sentry
type SentryMetrics struct {
	enabled bool
}

// NewSentryMetrics creates a new Sentry metrics client
func NewSentryMetrics() *SentryMetrics {
	return &SentryMetrics{
		enabled: true, // Always enabled if Sentry is configured
	}
}

// RecordAPIRequest records API request metrics
func (m *SentryMetrics) RecordAPIRequest(ctx context.Context, endpoint string, statusCode int, duration time.Duration) {
	if !m.enabled {
		return
	}

	span := sentry.StartSpan(ctx, "api.request")
	defer span.Finish()

	span.SetTag("endpoint", endpoint)
	span.SetTag("status_code", fmt.Sprintf("%d", statusCode))
	span.SetTag("success", fmt.Sprintf("%t", statusCode < successStatusCodeThreshold))

	span.SetData("duration_ms", duration.Milliseconds())
	span.SetData("endpoint", endpoint)
	span.SetData("status_code", statusCode)

	if statusCode < successStatusCodeThreshold {
		span.Status = sentry.SpanStatusOK
	} else {
		span.Status = sentry.SpanStatusInternalError
	}

	span.Description = fmt.Sprintf("API Request: %s", endpoint)
}

// RecordTokenUsage records model token usage metrics
func (m *SentryMetrics) RecordTokenUsage(ctx context.Context, model string, totalTokens, inputTokens, outputTokens, reasoningTokens int) {
	if !m.enabled {
		return
	}

	// Attach usage to the request transaction so it shows up on the
	// top-level trace, not only on the child span
	if transaction := sentry.TransactionFromContext(ctx); transaction != nil {
		transaction.SetTag("llm.model", model)
		transaction.SetTag("llm.total_tokens", fmt.Sprintf("%d", totalTokens))
		transaction.SetData("llm.total_tokens", totalTokens)
		transaction.SetData("llm.input_tokens", inputTokens)
		transaction.SetData("llm.output_tokens", outputTokens)
		transaction.SetData("llm.reasoning_tokens", reasoningTokens)
	}

	span := sentry.StartSpan(ctx, "llm.token_usage")
	defer span.Finish()

	span.SetTag("model", model)
	span.SetTag("total_tokens", fmt.Sprintf("%d", totalTokens))

	span.SetData("total_tokens", totalTokens)
	span.SetData("input_tokens", inputTokens)
	span.SetData("output_tokens", outputTokens)
	span.SetData("reasoning_tokens", reasoningTokens)

	span.Status = sentry.SpanStatusOK
	span.Description = fmt.Sprintf("Token Usage: %s", model)
}

// RecordFallbackUsage records when a generation request was answered by the
// deterministic keyword fallback instead of a model
func (m *SentryMetrics) RecordFallbackUsage(category string, attempts int) {
	if !m.enabled {
		return
	}

	ctx := context.Background()
	span := sentry.StartSpan(ctx, "generation.fallback")
	defer span.Finish()

	span.SetTag("fallback_category", category)

	span.SetData("category", category)
	span.SetData("attempts", attempts)

	span.Status = sentry.SpanStatusOK
	span.Description = fmt.Sprintf("Generation Fallback: %s", category)
}

// RecordGenerationDuration records generation request duration
func (m *SentryMetrics) RecordGenerationDuration(ctx context.Context, duration time.Duration, success bool) {
	if !m.enabled {
		return
	}

	span := sentry.StartSpan(ctx, "generation.request")
	defer span.Finish()

	span.SetTag("success", fmt.Sprintf("%t", success))

	span.SetData("duration_ms", duration.Milliseconds())
	span.SetData("success", success)

	if success {
		span.Status = sentry.SpanStatusOK
	} else {
		span.Status = sentry.SpanStatusInternalError
	}

	span.Description = fmt.Sprintf("Generation Request: %t", success)
}

// RecordExportDuration records how long a rasterized export took
func (m *SentryMetrics) RecordExportDuration(sizeKey string, screenCount int, duration time.Duration) {
	if !m.enabled {
		return
	}

	ctx := context.Background()
	span := sentry.StartSpan(ctx, "export.render")
	defer span.Finish()

	span.SetTag("size", sizeKey)
	span.SetData("screen_count", screenCount)
	span.SetData("duration_ms", duration.Milliseconds())

	span.Status = sentry.SpanStatusOK
	span.Description = fmt.Sprintf("Export: %s", sizeKey)
}

// RecordCustomMetric sends a custom metric with arbitrary data
func (m *SentryMetrics) RecordCustomMetric(metricName string, data map[string]interface{}) {
	if !m.enabled {
		return
	}

	sentry.WithScope(func(scope *sentry.Scope) {
		scope.SetTag("metric_type", "custom")
		scope.SetTag("metric_name", metricName)

		scope.SetContext("custom_metric", data)

		sentry.CaptureMessage("Custom Metric: " + metricName)
	})
}
