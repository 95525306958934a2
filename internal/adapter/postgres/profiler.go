package postgres

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/quarryhq/fieldsmith/internal/adapter/profile"
	"github.com/quarryhq/fieldsmith/internal/core/domain"
)

// ErrTableNotFound is returned when the requested table does not exist in
// any of the configured schemas.
var ErrTableNotFound = errors.New("table not found")

const sampleLimit = 100

// Profiler builds dataset profiles for live tables. Exact counts come
// from pg_stats; value-shape flags (URL-like, natural language, …) come
// from a bounded row sample pushed through the sample profiler.
type Profiler struct {
	pool    *pgxpool.Pool
	schemas []string
}

func NewProfiler(pool *pgxpool.Pool, schemas []string) *Profiler {
	return &Profiler{pool: pool, schemas: schemas}
}

func (p *Profiler) ProfileTable(ctx context.Context, schema, tableName string) (*domain.DatasetProfile, error) {
	if schema == "" {
		var err error
		schema, err = p.resolveSchema(ctx, tableName)
		if err != nil {
			return nil, err
		}
	}

	rowEstimate, err := p.fetchRowEstimate(ctx, schema, tableName)
	if err != nil {
		return nil, fmt.Errorf("profiling %s.%s: %w", schema, tableName, err)
	}

	columns, err := p.fetchColumns(ctx, schema, tableName)
	if err != nil {
		return nil, fmt.Errorf("profiling %s.%s: %w", schema, tableName, err)
	}
	if len(columns) == 0 {
		return nil, fmt.Errorf("table %q: %w", tableName, ErrTableNotFound)
	}

	pkCols, err := p.fetchPrimaryKeyColumns(ctx, schema, tableName)
	if err != nil {
		return nil, fmt.Errorf("profiling %s.%s: %w", schema, tableName, err)
	}

	// Sampled rows give us value-shape signals the catalogs cannot:
	// string lengths, URL/image/prose detection, representative values.
	// Sampling failures are non-fatal (views, foreign tables).
	var sampled *domain.DatasetProfile
	if rows, err := p.fetchSampleRows(ctx, schema, tableName); err == nil && len(rows) > 0 {
		sampled, _ = profile.FromRecords(tableName, rows)
	}

	stats, err := p.fetchColumnStats(ctx, schema, tableName)
	if err != nil {
		return nil, fmt.Errorf("profiling %s.%s: %w", schema, tableName, err)
	}

	out := &domain.DatasetProfile{
		Name:        tableName,
		Fields:      make([]domain.FieldStatistics, 0, len(columns)),
		UniqueHints: pkCols,
	}
	for _, col := range columns {
		out.Fields = append(out.Fields, buildFieldStatistics(col, rowEstimate, stats[col.name], sampled))
	}
	return out, nil
}

type columnInfo struct {
	name       string
	dataType   string
	charMaxLen int
}

type columnStats struct {
	nullFrac  float64
	nDistinct float64
	topValue  string
}

// buildFieldStatistics merges catalog metadata, pg_stats counts, and
// sample-derived flags into one statistics record. The catalog type is
// authoritative; the sample only contributes what catalogs cannot know.
func buildFieldStatistics(col columnInfo, rowEstimate int64, stats *columnStats, sampled *domain.DatasetProfile) domain.FieldStatistics {
	fs := domain.FieldStatistics{
		Name:        col.name,
		StorageHint: storageHintForDataType(col.dataType, col.charMaxLen),
		Total:       rowEstimate,
	}

	if stats != nil {
		fs.Nulls = int64(math.Round(stats.nullFrac * float64(rowEstimate)))
		fs.DistinctCount = pgDistinctToAbsolute(stats.nDistinct, rowEstimate)
		fs.TopValue = stats.topValue
	}

	if sampled != nil {
		if sf, ok := sampled.Field(col.name); ok {
			fs.ObservedTypes = sf.ObservedTypes
			fs.StringLength = sf.StringLength
			fs.BooleanLike = sf.BooleanLike
			fs.URLLike = sf.URLLike
			fs.ImageLike = sf.ImageLike
			fs.JSONLike = sf.JSONLike
			fs.NaturalLanguage = sf.NaturalLanguage
			fs.FacetCandidate = sf.FacetCandidate
			if fs.TopValue == "" {
				fs.TopValue = sf.TopValue
			}
		}
	}

	if fs.StorageHint == domain.HintBool {
		fs.BooleanLike = true
	}
	return fs
}

func (p *Profiler) resolveSchema(ctx context.Context, tableName string) (string, error) {
	filter, filterArgs := schemaFilter(p.schemas, "n.nspname", 2) // $1 is tableName
	query := fmt.Sprintf(queryResolveSchema, filter)

	args := make([]any, 0, 1+len(filterArgs))
	args = append(args, tableName)
	args = append(args, filterArgs...)

	var schema string
	err := p.pool.QueryRow(ctx, query, args...).Scan(&schema)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", fmt.Errorf("table %q: %w", tableName, ErrTableNotFound)
		}
		return "", fmt.Errorf("resolving schema for table %q: %w", tableName, err)
	}
	return schema, nil
}

func (p *Profiler) fetchRowEstimate(ctx context.Context, schema, tableName string) (int64, error) {
	var estimate int64
	err := p.pool.QueryRow(ctx, queryRowEstimate, schema, tableName).Scan(&estimate)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, fmt.Errorf("table %q: %w", tableName, ErrTableNotFound)
		}
		return 0, fmt.Errorf("fetching row estimate: %w", err)
	}
	if estimate < 0 {
		estimate = 0
	}
	return estimate, nil
}

func (p *Profiler) fetchColumns(ctx context.Context, schema, tableName string) ([]columnInfo, error) {
	rows, err := p.pool.Query(ctx, queryColumns, schema, tableName)
	if err != nil {
		return nil, fmt.Errorf("querying columns: %w", err)
	}
	defer rows.Close()

	var cols []columnInfo
	for rows.Next() {
		var c columnInfo
		if err := rows.Scan(&c.name, &c.dataType, &c.charMaxLen); err != nil {
			return nil, fmt.Errorf("scanning column: %w", err)
		}
		cols = append(cols, c)
	}
	return cols, rows.Err()
}

func (p *Profiler) fetchPrimaryKeyColumns(ctx context.Context, schema, tableName string) ([]string, error) {
	rows, err := p.pool.Query(ctx, queryPrimaryKeyColumns, schema, tableName)
	if err != nil {
		return nil, fmt.Errorf("querying primary key: %w", err)
	}
	defer rows.Close()

	var cols []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scanning pk column: %w", err)
		}
		cols = append(cols, name)
	}
	return cols, rows.Err()
}

func (p *Profiler) fetchSampleRows(ctx context.Context, schema, tableName string) ([]map[string]any, error) {
	// TABLESAMPLE BERNOULLI works at the row level, so it returns rows
	// even on small tables.
	fqn := fmt.Sprintf("%s.%s", quoteIdent(schema), quoteIdent(tableName))
	query := fmt.Sprintf("SELECT * FROM %s TABLESAMPLE BERNOULLI(50) LIMIT %d", fqn, sampleLimit)

	rows, err := p.pool.Query(ctx, query)
	if err != nil {
		// Fallback: TABLESAMPLE is not supported on some relation kinds.
		query = fmt.Sprintf("SELECT * FROM %s LIMIT %d", fqn, sampleLimit)
		rows, err = p.pool.Query(ctx, query)
		if err != nil {
			return nil, fmt.Errorf("sampling rows: %w", err)
		}
	}
	defer rows.Close()

	return rowsToMaps(rows)
}

func (p *Profiler) fetchColumnStats(ctx context.Context, schema, tableName string) (map[string]*columnStats, error) {
	rows, err := p.pool.Query(ctx, queryColumnStats, schema, tableName)
	if err != nil {
		return nil, fmt.Errorf("querying column stats: %w", err)
	}
	defer rows.Close()

	out := make(map[string]*columnStats)
	for rows.Next() {
		var (
			attname   string
			nullFrac  float64
			nDistinct float64
			mcvRaw    *string
		)
		if err := rows.Scan(&attname, &nullFrac, &nDistinct, &mcvRaw); err != nil {
			return nil, fmt.Errorf("scanning column stats: %w", err)
		}
		cs := &columnStats{nullFrac: nullFrac, nDistinct: nDistinct}
		if mcvRaw != nil {
			cs.topValue = firstCommonValue(*mcvRaw)
		}
		out[attname] = cs
	}
	return out, rows.Err()
}
