package emit

import (
	"fmt"
	"strings"

	"github.com/quarryhq/fieldsmith/internal/core/domain"
	"github.com/quarryhq/fieldsmith/internal/core/port"
)

// EntityEmitter generates a Go entity struct for a classified dataset.
// Non-key scalar fields are pointers because classification declares every
// non-key field nullable.
type EntityEmitter struct {
	pkg string
}

// NewEntityEmitter creates an emitter targeting the given package name.
func NewEntityEmitter(pkg string) *EntityEmitter {
	if pkg == "" {
		pkg = "model"
	}
	return &EntityEmitter{pkg: pkg}
}

func (e *EntityEmitter) Emit(c *domain.DatasetClassification) ([]port.Artifact, error) {
	name := entityName(c.Dataset)
	if name == "" {
		return nil, fmt.Errorf("cannot derive entity name from dataset %q", c.Dataset)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "// Code generated by fieldsmith. DO NOT EDIT.\n\npackage %s\n\n", e.pkg)
	fmt.Fprintf(&b, "// %s is one record of the %q dataset.\n", name, c.Dataset)
	fmt.Fprintf(&b, "type %s struct {\n", name)
	for _, f := range c.Fields {
		goType, err := goTypeFor(f)
		if err != nil {
			return nil, err
		}
		fmt.Fprintf(&b, "\t%s %s `db:%q json:%q`\n", goFieldName(f.Name), goType, f.Name, f.Name)
	}
	b.WriteString("}\n")

	return []port.Artifact{{
		Kind:     port.ArtifactEntity,
		Filename: strings.ToLower(name) + ".go",
		Content:  b.String(),
	}}, nil
}

// goTypeFor maps a resolved field type to Go. Nullable scalars become
// pointers; slices and maps are already nilable.
func goTypeFor(f domain.ClassificationResult) (string, error) {
	var base string
	switch f.Type {
	case domain.TypeString, domain.TypeText:
		base = "string"
	case domain.TypeInteger:
		base = "int64"
	case domain.TypeFloat:
		base = "float64"
	case domain.TypeBoolean:
		base = "bool"
	case domain.TypeScalarArray:
		return "[]string", nil
	case domain.TypeJSON:
		return "map[string]any", nil
	default:
		return "", fmt.Errorf("field %q has unmapped type %q", f.Name, f.Type)
	}
	if f.Nullable {
		return "*" + base, nil
	}
	return base, nil
}
