package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/quarryhq/fieldsmith/internal/core/domain"
	"github.com/quarryhq/fieldsmith/internal/core/port"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

type toolNameKey struct{}

// WithToolName returns a context carrying the MCP tool name for audit logging.
func WithToolName(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, toolNameKey{}, name)
}

func toolNameFromCtx(ctx context.Context) string {
	if v, ok := ctx.Value(toolNameKey{}).(string); ok {
		return v
	}
	return ""
}

// ClassifyService runs the pure classification pass (domain) with
// observability around it. Field pins from the overrides file are applied
// after classification; explicit values always win over heuristics.
type ClassifyService struct {
	pins   map[string]domain.FieldPin
	logger *slog.Logger
	tracer trace.Tracer
	inst   port.Instrumentation
}

func NewClassifyService(pins map[string]domain.FieldPin, logger *slog.Logger, tracer trace.Tracer, inst port.Instrumentation) *ClassifyService {
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("noop")
	}
	if inst == nil {
		inst = port.NoopInstrumentation{}
	}
	return &ClassifyService{
		pins:   pins,
		logger: logger,
		tracer: tracer,
		inst:   inst,
	}
}

// Classify validates the profile and produces the dataset classification.
func (s *ClassifyService) Classify(ctx context.Context, profile *domain.DatasetProfile, opts domain.Options) (*domain.DatasetClassification, error) {
	ctx, span := s.tracer.Start(ctx, "ClassifyService.Classify",
		trace.WithAttributes(
			attribute.String("dataset.name", profile.Name),
			attribute.Int("dataset.fields", len(profile.Fields)),
		),
	)
	defer span.End()

	start := time.Now()
	classification, err := domain.ClassifyDataset(profile, opts)
	s.inst.RecordClassifyDuration(ctx, float64(time.Since(start).Milliseconds()))

	if err != nil {
		s.logger.WarnContext(ctx, "classification rejected",
			slog.String("dataset", profile.Name),
			slog.String("error.type", "classification_error"),
			slog.String("error.message", err.Error()),
		)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.inst.IncrementClassifyErrors(ctx)
		return nil, err
	}

	if len(s.pins) > 0 {
		if err := domain.ApplyPins(classification, s.pins); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			s.inst.IncrementClassifyErrors(ctx)
			return nil, fmt.Errorf("applying overrides: %w", err)
		}
	}

	s.inst.IncrementClassifyCount(ctx)
	span.SetAttributes(attribute.String("dataset.primary_key", classification.PrimaryKey))

	s.logger.InfoContext(ctx, "dataset classified",
		slog.String("dataset", profile.Name),
		slog.String("primary_key", classification.PrimaryKey),
		slog.Int("fields", len(classification.Fields)),
	)

	return classification, nil
}
