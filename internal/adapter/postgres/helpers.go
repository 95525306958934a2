package postgres

import (
	"fmt"
	"math"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/quarryhq/fieldsmith/internal/core/domain"
)

// schemaFilter returns a SQL WHERE clause fragment and args for filtering by schema.
// paramOffset is the starting $N parameter index (1-based).
// When schemas is empty, it excludes system schemas (pg_catalog, information_schema).
func schemaFilter(schemas []string, column string, paramOffset int) (clause string, args []any) {
	if len(schemas) == 0 {
		return fmt.Sprintf("%s NOT IN ('pg_catalog', 'information_schema')", column), nil
	}
	placeholders := make([]string, len(schemas))
	args = make([]any, len(schemas))
	for i, s := range schemas {
		placeholders[i] = fmt.Sprintf("$%d", paramOffset+i)
		args[i] = s
	}
	return fmt.Sprintf("%s IN (%s)", column, strings.Join(placeholders, ", ")), args
}

// quoteIdent quotes a SQL identifier to prevent injection.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// rowsToMaps converts pgx.Rows into a slice of maps keyed by column name.
func rowsToMaps(rows pgx.Rows) ([]map[string]any, error) {
	fields := rows.FieldDescriptions()
	var result []map[string]any
	for rows.Next() {
		vals, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("reading row values: %w", err)
		}
		row := make(map[string]any, len(fields))
		for i, fd := range fields {
			row[fd.Name] = vals[i]
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating rows: %w", err)
	}
	return result, nil
}

// pgDistinctToAbsolute converts pg_stats n_distinct to an absolute distinct count.
// pg_stats semantics:
//   - -1.0 = all values unique → returns rowEstimate
//   - negative = fraction of rows that are distinct (e.g., -0.5 = 50% unique)
//   - positive = estimated number of distinct values
func pgDistinctToAbsolute(nDistinct float64, rowEstimate int64) int64 {
	if nDistinct == -1 {
		return rowEstimate
	}
	if nDistinct < 0 {
		return int64(math.Round(-nDistinct * float64(rowEstimate)))
	}
	return int64(math.Round(nDistinct))
}

// storageHintForDataType maps an information_schema data type to the
// profile's categorical hint. Unknown types default to string so that
// classification still produces a usable (if conservative) column.
func storageHintForDataType(dataType string, charMaxLen int) domain.StorageHint {
	switch strings.ToLower(dataType) {
	case "smallint", "integer", "bigint", "smallserial", "serial", "bigserial":
		return domain.HintInt
	case "real", "double precision", "numeric", "decimal", "money":
		return domain.HintFloat
	case "boolean":
		return domain.HintBool
	case "json", "jsonb", "array":
		return domain.HintJSON
	case "text":
		return domain.HintText
	case "character varying", "varchar", "character", "char":
		if charMaxLen > 255 {
			return domain.HintText
		}
		return domain.HintString
	default:
		return domain.HintString
	}
}

// firstCommonValue extracts the first entry of a pg_stats most_common_vals
// text array like {Action,Drama}. Quoting is handled for the simple cases;
// this feeds a heuristic, not a parser.
func firstCommonValue(raw string) string {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "{")
	raw = strings.TrimSuffix(raw, "}")
	if raw == "" {
		return ""
	}

	var b strings.Builder
	inQuote := false
	escaped := false
	for _, ch := range raw {
		if escaped {
			b.WriteRune(ch)
			escaped = false
			continue
		}
		switch {
		case ch == '\\':
			escaped = true
		case ch == '"':
			inQuote = !inQuote
		case ch == ',' && !inQuote:
			return strings.TrimSpace(b.String())
		default:
			b.WriteRune(ch)
		}
	}
	return strings.TrimSpace(b.String())
}
