package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

const meterName = "github.com/quarryhq/fieldsmith"

// Instruments holds pre-created OTel metric instruments.
type Instruments struct {
	ClassifyCount    metric.Int64Counter
	ClassifyDuration metric.Float64Histogram
	ClassifyErrors   metric.Int64Counter
	ToolDuration     metric.Float64Histogram
	LLMTokens        metric.Int64Counter
}

// NewInstruments creates metric instruments from the global MeterProvider.
// Returns nil-safe instruments: if creation fails, noop instruments are used.
func NewInstruments() *Instruments {
	meter := otel.Meter(meterName)
	return newInstrumentsFromMeter(meter)
}

// NoopInstruments returns instruments that record nothing.
func NoopInstruments() *Instruments {
	meter := noop.NewMeterProvider().Meter(meterName)
	return newInstrumentsFromMeter(meter)
}

func newInstrumentsFromMeter(meter metric.Meter) *Instruments {
	// OTel SDK returns noop instruments on error; safe to discard.
	classifyCount, _ := meter.Int64Counter("fieldsmith.classify.count",
		metric.WithDescription("Total number of dataset classification passes"),
	)
	classifyDuration, _ := meter.Float64Histogram("fieldsmith.classify.duration",
		metric.WithDescription("Dataset classification duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	classifyErrors, _ := meter.Int64Counter("fieldsmith.classify.errors",
		metric.WithDescription("Total number of failed classification passes"),
	)
	toolDuration, _ := meter.Float64Histogram("fieldsmith.tool.duration",
		metric.WithDescription("MCP tool call duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	llmTokens, _ := meter.Int64Counter("fieldsmith.llm.tokens",
		metric.WithDescription("Total LLM tokens consumed by template generation"),
	)

	return &Instruments{
		ClassifyCount:    classifyCount,
		ClassifyDuration: classifyDuration,
		ClassifyErrors:   classifyErrors,
		ToolDuration:     toolDuration,
		LLMTokens:        llmTokens,
	}
}

func (i *Instruments) RecordClassifyDuration(ctx context.Context, ms float64) {
	i.ClassifyDuration.Record(ctx, ms)
}

func (i *Instruments) IncrementClassifyCount(ctx context.Context) {
	i.ClassifyCount.Add(ctx, 1)
}

func (i *Instruments) IncrementClassifyErrors(ctx context.Context) {
	i.ClassifyErrors.Add(ctx, 1)
}

func (i *Instruments) RecordToolDuration(ctx context.Context, ms float64) {
	i.ToolDuration.Record(ctx, ms)
}

func (i *Instruments) AddLLMTokens(ctx context.Context, tokens int64) {
	i.LLMTokens.Add(ctx, tokens)
}
