package port

import (
	"context"

	"github.com/quarryhq/fieldsmith/internal/core/domain"
)

// ProfileSource produces a dataset profile from some backing source:
// a precomputed profile artifact, raw sample records, or a live table.
type ProfileSource interface {
	Load(ctx context.Context) (*domain.DatasetProfile, error)
}

// TableProfiler builds a dataset profile for a live database table from
// its catalog statistics.
type TableProfiler interface {
	ProfileTable(ctx context.Context, schema, tableName string) (*domain.DatasetProfile, error)
}
