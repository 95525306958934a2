package emit

import (
	"fmt"
	"strings"

	"github.com/quarryhq/fieldsmith/internal/core/domain"
	"github.com/quarryhq/fieldsmith/internal/core/port"
)

// RepositoryEmitter generates a pgx repository scaffold for a classified
// dataset: a Get-by-key lookup plus a List helper filtered on the
// dataset's filterable fields.
type RepositoryEmitter struct {
	pkg string
}

func NewRepositoryEmitter(pkg string) *RepositoryEmitter {
	if pkg == "" {
		pkg = "model"
	}
	return &RepositoryEmitter{pkg: pkg}
}

func (e *RepositoryEmitter) Emit(c *domain.DatasetClassification) ([]port.Artifact, error) {
	entity := entityName(c.Dataset)
	if entity == "" {
		return nil, fmt.Errorf("cannot derive entity name from dataset %q", c.Dataset)
	}

	pk, ok := c.Field(c.PrimaryKey)
	if !ok {
		return nil, fmt.Errorf("classification for %q has no result for primary key %q", c.Dataset, c.PrimaryKey)
	}
	pkGoType, err := goTypeFor(pk)
	if err != nil {
		return nil, err
	}

	table := strings.ToLower(c.Dataset)
	columns := make([]string, 0, len(c.Fields))
	scanTargets := make([]string, 0, len(c.Fields))
	for _, f := range c.Fields {
		columns = append(columns, f.Name)
		scanTargets = append(scanTargets, "&row."+goFieldName(f.Name))
	}
	columnList := strings.Join(columns, ", ")

	var b strings.Builder
	fmt.Fprintf(&b, "// Code generated by fieldsmith. DO NOT EDIT.\n\npackage %s\n\n", e.pkg)
	b.WriteString("import (\n\t\"context\"\n\t\"fmt\"\n\n\t\"github.com/jackc/pgx/v5/pgxpool\"\n)\n\n")

	fmt.Fprintf(&b, "// %sRepository reads %s records from Postgres.\n", entity, entity)
	fmt.Fprintf(&b, "type %sRepository struct {\n\tpool *pgxpool.Pool\n}\n\n", entity)
	fmt.Fprintf(&b, "func New%sRepository(pool *pgxpool.Pool) *%sRepository {\n\treturn &%sRepository{pool: pool}\n}\n\n", entity, entity, entity)

	// Get by primary key.
	fmt.Fprintf(&b, "func (r *%sRepository) Get(ctx context.Context, key %s) (*%s, error) {\n", entity, pkGoType, entity)
	fmt.Fprintf(&b, "\tconst query = `SELECT %s FROM %s WHERE %s = $1`\n\n", columnList, table, c.PrimaryKey)
	fmt.Fprintf(&b, "\tvar row %s\n", entity)
	fmt.Fprintf(&b, "\terr := r.pool.QueryRow(ctx, query, key).Scan(%s)\n", strings.Join(scanTargets, ", "))
	fmt.Fprintf(&b, "\tif err != nil {\n\t\treturn nil, fmt.Errorf(\"getting %s: %%w\", err)\n\t}\n", strings.ToLower(entity))
	b.WriteString("\treturn &row, nil\n}\n\n")

	// List with optional facet filters.
	fmt.Fprintf(&b, "// List returns up to limit records")
	if filterable := filterableFields(c); len(filterable) > 0 {
		fmt.Fprintf(&b, ", optionally filtered on: %s", strings.Join(filterable, ", "))
	}
	b.WriteString(".\n")
	fmt.Fprintf(&b, "func (r *%sRepository) List(ctx context.Context, filters map[string]any, limit int) ([]%s, error) {\n", entity, entity)
	fmt.Fprintf(&b, "\tquery := `SELECT %s FROM %s`\n", columnList, table)
	b.WriteString("\targs := make([]any, 0, len(filters))\n")
	b.WriteString("\tfor column, value := range filters {\n")
	b.WriteString("\t\tif !filterableColumns[column] {\n\t\t\treturn nil, fmt.Errorf(\"column %q is not filterable\", column)\n\t\t}\n")
	b.WriteString("\t\targs = append(args, value)\n")
	b.WriteString("\t\tif len(args) == 1 {\n\t\t\tquery += \" WHERE \"\n\t\t} else {\n\t\t\tquery += \" AND \"\n\t\t}\n")
	b.WriteString("\t\tquery += fmt.Sprintf(\"%s = $%d\", column, len(args))\n")
	b.WriteString("\t}\n")
	b.WriteString("\targs = append(args, limit)\n")
	b.WriteString("\tquery += fmt.Sprintf(\" LIMIT $%d\", len(args))\n\n")
	b.WriteString("\trows, err := r.pool.Query(ctx, query, args...)\n")
	fmt.Fprintf(&b, "\tif err != nil {\n\t\treturn nil, fmt.Errorf(\"listing %s: %%w\", err)\n\t}\n", table)
	b.WriteString("\tdefer rows.Close()\n\n")
	fmt.Fprintf(&b, "\tvar out []%s\n", entity)
	b.WriteString("\tfor rows.Next() {\n")
	fmt.Fprintf(&b, "\t\tvar row %s\n", entity)
	fmt.Fprintf(&b, "\t\tif err := rows.Scan(%s); err != nil {\n\t\t\treturn nil, fmt.Errorf(\"scanning row: %%w\", err)\n\t\t}\n", strings.Join(scanTargets, ", "))
	b.WriteString("\t\tout = append(out, row)\n\t}\n")
	b.WriteString("\treturn out, rows.Err()\n}\n\n")

	// Filterable column whitelist.
	b.WriteString("var filterableColumns = map[string]bool{\n")
	for _, name := range filterableFields(c) {
		fmt.Fprintf(&b, "\t%q: true,\n", name)
	}
	b.WriteString("}\n")

	return []port.Artifact{{
		Kind:     port.ArtifactRepository,
		Filename: strings.ToLower(entity) + "_repository.go",
		Content:  b.String(),
	}}, nil
}

func filterableFields(c *domain.DatasetClassification) []string {
	var out []string
	for _, f := range c.Fields {
		if f.Roles.Filterable {
			out = append(out, f.Name)
		}
	}
	return out
}
