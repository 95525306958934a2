package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/quarryhq/fieldsmith/internal/core/port"
)

const maxPromptSamples = 3

func systemMessage(format port.TemplateFormat) string {
	return fmt.Sprintf(
		"You are a front-end template author. You write clean, minimal %s templates "+
			"for rendering search-engine hits. Reply with the template only, no explanation.",
		format)
}

// buildPrompt describes the classified dataset to the model: field roles,
// the primary key, and a few sample documents to ground the layout.
func buildPrompt(req port.TemplateRequest) (string, error) {
	c := req.Classification

	var b strings.Builder
	fmt.Fprintf(&b, "Write a %s template rendering one search hit of the %q dataset.\n\n", req.Format, c.Dataset)
	fmt.Fprintf(&b, "The hit variable is named `hit`. The primary key field is %q.\n\n", c.PrimaryKey)

	b.WriteString("Fields:\n")
	for _, f := range c.Fields {
		fmt.Fprintf(&b, "- %s (%s)", f.Name, f.Type)
		var roles []string
		if f.Roles.Searchable {
			roles = append(roles, "searchable")
		}
		if f.Roles.Filterable {
			roles = append(roles, "filterable")
		}
		if f.Roles.Sortable {
			roles = append(roles, "sortable")
		}
		if len(roles) > 0 {
			fmt.Fprintf(&b, " [%s]", strings.Join(roles, ", "))
		}
		b.WriteString("\n")
	}

	if len(req.SampleDocs) > 0 {
		samples := req.SampleDocs
		if len(samples) > maxPromptSamples {
			samples = samples[:maxPromptSamples]
		}
		data, err := json.MarshalIndent(samples, "", "  ")
		if err != nil {
			return "", fmt.Errorf("marshaling sample documents: %w", err)
		}
		b.WriteString("\nSample documents:\n")
		b.Write(data)
		b.WriteString("\n")
	}

	b.WriteString("\nGuidelines: use a prominent element for the main searchable field, ")
	b.WriteString("render image URL fields as <img> tags, show filterable fields as labelled facets, ")
	b.WriteString("and skip the primary key in the visible layout.")
	return b.String(), nil
}
