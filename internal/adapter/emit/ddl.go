package emit

import (
	"fmt"
	"strings"

	pg_query "github.com/pganalyze/pg_query_go/v6"
	"github.com/quarryhq/fieldsmith/internal/core/domain"
	"github.com/quarryhq/fieldsmith/internal/core/port"
)

// DDLEmitter generates a CREATE TABLE statement for a classified dataset.
// The emitted SQL is parsed back with the Postgres parser before it is
// returned, so an emitter bug surfaces as an error instead of broken DDL
// on disk.
type DDLEmitter struct{}

func NewDDLEmitter() *DDLEmitter {
	return &DDLEmitter{}
}

func (e *DDLEmitter) Emit(c *domain.DatasetClassification) ([]port.Artifact, error) {
	table := strings.ToLower(c.Dataset)

	var b strings.Builder
	fmt.Fprintf(&b, "CREATE TABLE %s (\n", quoteIdent(table))
	for i, f := range c.Fields {
		colType, err := sqlTypeFor(f)
		if err != nil {
			return nil, err
		}
		fmt.Fprintf(&b, "\t%s %s", quoteIdent(f.Name), colType)
		if f.PrimaryKey {
			b.WriteString(" PRIMARY KEY")
		} else if !f.Nullable {
			b.WriteString(" NOT NULL")
		}
		if i < len(c.Fields)-1 {
			b.WriteString(",")
		}
		b.WriteString("\n")
	}
	b.WriteString(");\n")

	ddl := b.String()
	if _, err := pg_query.Parse(ddl); err != nil {
		return nil, fmt.Errorf("emitted DDL for %q does not parse: %w", c.Dataset, err)
	}

	return []port.Artifact{{
		Kind:     port.ArtifactDDL,
		Filename: table + ".sql",
		Content:  ddl,
	}}, nil
}

func sqlTypeFor(f domain.ClassificationResult) (string, error) {
	switch f.Type {
	case domain.TypeString:
		maxLen := f.MaxLength
		if maxLen <= 0 {
			maxLen = 255
		}
		return fmt.Sprintf("varchar(%d)", maxLen), nil
	case domain.TypeText:
		return "text", nil
	case domain.TypeInteger:
		return "bigint", nil
	case domain.TypeFloat:
		return "double precision", nil
	case domain.TypeBoolean:
		return "boolean", nil
	case domain.TypeScalarArray:
		return "text[]", nil
	case domain.TypeJSON:
		return "jsonb", nil
	default:
		return "", fmt.Errorf("field %q has unmapped type %q", f.Name, f.Type)
	}
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
