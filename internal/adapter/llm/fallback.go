package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/quarryhq/fieldsmith/internal/core/domain"
	"github.com/quarryhq/fieldsmith/internal/core/port"
)

// FallbackGenerator emits a deterministic template without calling any
// model. It is used when no LLM endpoint is configured, so template
// generation always has a working path.
type FallbackGenerator struct{}

func NewFallbackGenerator() *FallbackGenerator {
	return &FallbackGenerator{}
}

func (g *FallbackGenerator) Generate(_ context.Context, req port.TemplateRequest) (port.Artifact, error) {
	if !req.Format.Valid() {
		return port.Artifact{}, fmt.Errorf("unknown template format %q", req.Format)
	}

	c := req.Classification
	title := headlineField(c)

	var b strings.Builder
	fmt.Fprintf(&b, "<article class=\"%s-hit\">\n", strings.ToLower(c.Dataset))
	if title != "" {
		fmt.Fprintf(&b, "  <h2>{{ hit.%s }}</h2>\n", title)
	}
	for _, f := range c.Fields {
		if f.Name == title || f.PrimaryKey {
			continue
		}
		if f.Type == domain.TypeScalarArray {
			b.WriteString(arrayFragment(f.Name))
			continue
		}
		fmt.Fprintf(&b, "  <p class=\"%s\">{{ hit.%s }}</p>\n", f.Name, f.Name)
	}
	b.WriteString("</article>\n")

	return port.Artifact{
		Kind:     port.ArtifactTemplate,
		Filename: templateFilename(c.Dataset, req.Format),
		Content:  b.String(),
	}, nil
}

// arrayFragment renders a scalar-list field as tags. Twig and Liquid
// share the {% for %} loop syntax, so one fragment serves both dialects.
func arrayFragment(name string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "  <ul class=\"%s\">\n", name)
	fmt.Fprintf(&b, "    {%% for item in hit.%s %%}<li>{{ item }}</li>{%% endfor %%}\n", name)
	b.WriteString("  </ul>\n")
	return b.String()
}

// headlineField picks the field to feature: the first searchable field,
// falling back to the first short string.
func headlineField(c *domain.DatasetClassification) string {
	for _, f := range c.Fields {
		if f.Roles.Searchable {
			return f.Name
		}
	}
	for _, f := range c.Fields {
		if f.Type == domain.TypeString && !f.PrimaryKey {
			return f.Name
		}
	}
	return ""
}
