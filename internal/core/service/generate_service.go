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

// GenerateOptions controls one generation run.
type GenerateOptions struct {
	Classify domain.Options

	// Template selects the optional search-result template artifact.
	// Zero value means no template is generated.
	Template   port.TemplateFormat
	SampleDocs []map[string]any
}

// GenerateService orchestrates classification (domain), artifact emission
// (adapters) and the optional template generator, recording every run in
// the audit log.
type GenerateService struct {
	classifier *ClassifyService
	emitters   []port.SchemaEmitter
	templates  port.TemplateGenerator // nil when no generator is configured
	auditor    port.RunAuditor
	logger     *slog.Logger
	tracer     trace.Tracer
}

func NewGenerateService(classifier *ClassifyService, emitters []port.SchemaEmitter, templates port.TemplateGenerator, auditor port.RunAuditor, logger *slog.Logger, tracer trace.Tracer) *GenerateService {
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("noop")
	}
	return &GenerateService{
		classifier: classifier,
		emitters:   emitters,
		templates:  templates,
		auditor:    auditor,
		logger:     logger,
		tracer:     tracer,
	}
}

// Generate classifies the profile and emits all configured artifacts.
// It fails as a whole: no artifacts are returned on any error, matching
// the fail-fast contract of the classifier.
func (s *GenerateService) Generate(ctx context.Context, profile *domain.DatasetProfile, opts GenerateOptions) ([]port.Artifact, *domain.DatasetClassification, error) {
	ctx, span := s.tracer.Start(ctx, "GenerateService.Generate",
		trace.WithAttributes(attribute.String("dataset.name", profile.Name)),
	)
	defer span.End()

	start := time.Now()
	artifacts, classification, err := s.generate(ctx, profile, opts)

	entry := port.AuditEntry{
		Tool:       toolNameFromCtx(ctx),
		Dataset:    profile.Name,
		Fields:     len(profile.Fields),
		DurationMS: time.Since(start).Milliseconds(),
		Err:        err,
	}
	if classification != nil {
		entry.PrimaryKey = classification.PrimaryKey
	}
	for _, a := range artifacts {
		entry.Artifacts = append(entry.Artifacts, a.Filename)
	}
	s.auditor.Record(ctx, entry)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, nil, err
	}

	span.SetAttributes(attribute.Int("generate.artifacts", len(artifacts)))
	return artifacts, classification, nil
}

func (s *GenerateService) generate(ctx context.Context, profile *domain.DatasetProfile, opts GenerateOptions) ([]port.Artifact, *domain.DatasetClassification, error) {
	classification, err := s.classifier.Classify(ctx, profile, opts.Classify)
	if err != nil {
		return nil, nil, err
	}

	var artifacts []port.Artifact
	for _, emitter := range s.emitters {
		out, err := emitter.Emit(classification)
		if err != nil {
			return nil, classification, fmt.Errorf("emitting artifacts for %q: %w", profile.Name, err)
		}
		artifacts = append(artifacts, out...)
	}

	if opts.Template != "" {
		if !opts.Template.Valid() {
			return nil, classification, fmt.Errorf("unknown template format %q", opts.Template)
		}
		if s.templates == nil {
			return nil, classification, fmt.Errorf("template format %q requested but no template generator is configured", opts.Template)
		}
		tpl, err := s.templates.Generate(ctx, port.TemplateRequest{
			Classification: classification,
			Format:         opts.Template,
			SampleDocs:     opts.SampleDocs,
		})
		if err != nil {
			return nil, classification, fmt.Errorf("generating %s template: %w", opts.Template, err)
		}
		artifacts = append(artifacts, tpl)
	}

	s.logger.InfoContext(ctx, "generation complete",
		slog.String("dataset", profile.Name),
		slog.Int("artifacts", len(artifacts)),
	)

	return artifacts, classification, nil
}
