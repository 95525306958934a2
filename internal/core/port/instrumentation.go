package port

import "context"

// Instrumentation records application-level metrics.
type Instrumentation interface {
	RecordClassifyDuration(ctx context.Context, ms float64)
	IncrementClassifyCount(ctx context.Context)
	IncrementClassifyErrors(ctx context.Context)
	RecordToolDuration(ctx context.Context, ms float64)
	AddLLMTokens(ctx context.Context, tokens int64)
}

// NoopInstrumentation discards all metrics.
type NoopInstrumentation struct{}

func (NoopInstrumentation) RecordClassifyDuration(context.Context, float64) {}
func (NoopInstrumentation) IncrementClassifyCount(context.Context)          {}
func (NoopInstrumentation) IncrementClassifyErrors(context.Context)         {}
func (NoopInstrumentation) RecordToolDuration(context.Context, float64)     {}
func (NoopInstrumentation) AddLLMTokens(context.Context, int64)             {}
