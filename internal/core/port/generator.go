package port

import (
	"context"

	"github.com/quarryhq/fieldsmith/internal/core/domain"
)

// TemplateRequest carries everything a template generator needs: the
// classification, the target template dialect, and optional sample
// documents to ground the field layout.
type TemplateRequest struct {
	Classification *domain.DatasetClassification
	Format         TemplateFormat
	SampleDocs     []map[string]any
}

// TemplateFormat selects the template dialect to emit.
type TemplateFormat string

const (
	FormatTwig   TemplateFormat = "twig"
	FormatLiquid TemplateFormat = "liquid"
)

// Valid returns true for a recognised template format.
func (f TemplateFormat) Valid() bool {
	return f == FormatTwig || f == FormatLiquid
}

// TemplateGenerator produces a search-result template for a classified
// dataset. Implementations may call an external model; the deterministic
// fallback must never fail.
type TemplateGenerator interface {
	Generate(ctx context.Context, req TemplateRequest) (Artifact, error)
}
