package observability

import (
	"context"
	"log"
	"os"
	"time"

	langfuse "github.com/henomis/langfuse-go"
	"github.com/henomis/langfuse-go/model"

	"github.com/storeshot/storeshot-api/internal/config"
)

// LangfuseClient wraps the Langfuse client with our configuration
type LangfuseClient struct {
	client  *langfuse.Langfuse
	enabled bool
	ctx     context.Context
}

var globalClient *LangfuseClient

// InitializeLangfuse initializes the global Langfuse client
func InitializeLangfuse(ctx context.Context, cfg *config.Config) *LangfuseClient {
	if !cfg.LangfuseEnabled || cfg.LangfuseSecretKey == "" {
		log.Println("⚠️  Langfuse not configured (LANGFUSE_ENABLED=false or LANGFUSE_SECRET_KEY not set)")
		globalClient = &LangfuseClient{enabled: false, ctx: ctx}
		return globalClient
	}

	// The henomis SDK reads its keys from environment variables
	lf := langfuse.New(ctx)

	globalClient = &LangfuseClient{
		client:  lf,
		enabled: true,
		ctx:     ctx,
	}

	log.Printf("✅ Langfuse initialized (host: %s)", cfg.LangfuseHost)
	log.Printf("🔍 Langfuse: Public key set: %v, Secret key set: %v",
		os.Getenv("LANGFUSE_PUBLIC_KEY") != "",
		os.Getenv("LANGFUSE_SECRET_KEY") != "")
	return globalClient
}

// GetClient returns the global Langfuse client
func GetClient() *LangfuseClient {
	if globalClient == nil {
		return &LangfuseClient{enabled: false, ctx: context.Background()}
	}
	return globalClient
}

// IsEnabled returns whether Langfuse is enabled
func (c *LangfuseClient) IsEnabled() bool {
	return c.enabled && c.client != nil
}

// StartTrace starts a new trace in Langfuse
func (c *LangfuseClient) StartTrace(ctx context.Context, name string, metadata map[string]interface{}) *Trace {
	if !c.IsEnabled() {
		return &Trace{enabled: false, ctx: ctx}
	}

	trace, err := c.client.Trace(&model.Trace{
		Name:     name,
		Metadata: metadata,
	})
	if err != nil {
		log.Printf("⚠️  Failed to create Langfuse trace: %v", err)
		return &Trace{enabled: false, ctx: ctx}
	}

	log.Printf("🔍 Langfuse: Created trace %s (name: %s)", trace.ID, name)
	return &Trace{
		trace:   trace,
		enabled: true,
		ctx:     ctx,
		client:  c.client,
	}
}

// Trace represents a Langfuse trace
type Trace struct {
	trace   *model.Trace
	enabled bool
	ctx     context.Context
	client  *langfuse.Langfuse
}

// Generation creates a new generation span within the trace
func (t *Trace) Generation(name string, metadata map[string]interface{}) *Generation {
	if !t.enabled {
		return &Generation{enabled: false, ctx: t.ctx}
	}

	now := time.Now()
	gen, err := t.client.Generation(&model.Generation{
		TraceID:   t.trace.ID,
		Name:      name,
		StartTime: &now,
		Metadata:  metadata,
	}, nil)
	if err != nil {
		log.Printf("⚠️  Failed to create Langfuse generation: %v", err)
		return &Generation{enabled: false, ctx: t.ctx}
	}

	return &Generation{
		generation: gen,
		enabled:    true,
		ctx:        t.ctx,
		client:     t.client,
	}
}

// Finish completes the trace and flushes data to Langfuse
func (t *Trace) Finish() {
	if t.enabled && t.client != nil {
		// The SDK batches events; Flush waits for the queue to drain
		t.client.Flush(t.ctx)
	}
}

// Generation represents a Langfuse generation span
type Generation struct {
	generation *model.Generation
	enabled    bool
	ctx        context.Context
	client     *langfuse.Langfuse
}

// Input sets the input for the generation
func (g *Generation) Input(input interface{}) {
	if g.enabled && g.generation != nil {
		g.generation.Input = input
	}
}

// Output sets the output for the generation
func (g *Generation) Output(output interface{}) {
	if g.enabled && g.generation != nil {
		g.generation.Output = output
	}
}

// Metadata adds metadata to the generation
func (g *Generation) Metadata(metadata map[string]interface{}) {
	if g.enabled && g.generation != nil {
		if g.generation.Metadata == nil {
			g.generation.Metadata = make(map[string]interface{})
		}
		if md, ok := g.generation.Metadata.(map[string]interface{}); ok {
			for k, v := range metadata {
				md[k] = v
			}
		} else {
			g.generation.Metadata = metadata
		}
	}
}

// SetLevel sets the level of the generation
func (g *Generation) SetLevel(level string) {
	if g.enabled && g.generation != nil {
		g.generation.Level = model.ObservationLevel(level)
	}
}

// LogModelResponse records the full request/response pair for one model
// call: input messages, raw output and token usage, with cost attached to
// the metadata.
func (g *Generation) LogModelResponse(
	modelName string,
	inputMessages []map[string]interface{},
	rawOutput string,
	usage map[string]interface{},
) {
	if !g.enabled || g.generation == nil {
		return
	}

	converted := convertUsageMap(usage)
	converted.TotalCost = CalculateModelCost(modelName, converted.Input, converted.Output)

	g.Input(inputMessages)
	if rawOutput != "" {
		g.Output(rawOutput)
	}
	g.generation.Usage = converted
	g.generation.Model = modelName
	g.Metadata(map[string]interface{}{
		"model":    modelName,
		"cost_usd": converted.TotalCost,
	})
}

// Finish completes the generation and sends it to Langfuse
func (g *Generation) Finish() {
	if g.enabled && g.generation != nil && g.client != nil {
		now := time.Now()
		g.generation.EndTime = &now
		if _, err := g.client.GenerationEnd(g.generation); err != nil {
			log.Printf("⚠️  Failed to end Langfuse generation: %v", err)
		}
	}
}

// convertUsageMap converts a usage map to model.Usage
func convertUsageMap(usage map[string]interface{}) model.Usage {
	result := model.Usage{
		Unit: model.ModelUsageUnitTokens,
	}

	result.Input = usageInt(usage, "input_tokens")
	result.Output = usageInt(usage, "output_tokens")
	result.Total = usageInt(usage, "total_tokens")

	if cost, ok := usage["cost_usd"].(float64); ok {
		result.TotalCost = cost
	}

	return result
}

func usageInt(usage map[string]interface{}, key string) int {
	switch v := usage[key].(type) {
	case int:
		return v
	case int32:
		return int(v)
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}
