package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/quarryhq/fieldsmith/internal/adapter/postgres"
	"github.com/quarryhq/fieldsmith/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

const testSchema = `
	CREATE TABLE movies (
		id          SERIAL PRIMARY KEY,
		title       VARCHAR(128) NOT NULL,
		overview    TEXT,
		status      VARCHAR(32) NOT NULL,
		popularity  DOUBLE PRECISION NOT NULL DEFAULT 0,
		vote_count  INTEGER NOT NULL DEFAULT 0,
		adult       BOOLEAN NOT NULL DEFAULT false,
		poster_url  TEXT,
		metadata    JSONB
	);

	INSERT INTO movies (title, overview, status, popularity, vote_count, adult, poster_url, metadata)
	SELECT
		'Example Movie ' || i,
		CASE WHEN i % 10 = 0 THEN NULL
		     ELSE 'A long overview describing what happens in movie number ' || i END,
		CASE (i % 3) WHEN 0 THEN 'released' WHEN 1 THEN 'upcoming' ELSE 'rumored' END,
		random() * 100,
		i % 50,
		i % 7 = 0,
		'https://img.example.com/p/' || i || '.jpg',
		jsonb_build_object('lang', 'en', 'rank', i)
	FROM generate_series(1, 200) AS i;
`

func setupProfilerDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("testdb"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)
	t.Cleanup(func() { pool.Close() })

	_, err = pool.Exec(ctx, testSchema)
	require.NoError(t, err)

	// Populate pg_stats.
	_, err = pool.Exec(ctx, "ANALYZE")
	require.NoError(t, err)

	return pool
}

func TestProfileTable(t *testing.T) {
	pool := setupProfilerDB(t)
	profiler := postgres.NewProfiler(pool, nil)
	ctx := context.Background()

	p, err := profiler.ProfileTable(ctx, "", "movies")
	require.NoError(t, err)
	require.NoError(t, p.Validate())

	assert.Equal(t, "movies", p.Name)
	assert.Equal(t, []string{"id"}, p.UniqueHints, "pk columns become unique hints")

	id, ok := p.Field("id")
	require.True(t, ok)
	assert.Equal(t, domain.HintInt, id.StorageHint)
	assert.Greater(t, id.Total, int64(0))
	assert.Equal(t, id.Total, id.DistinctCount, "serial pk is fully distinct")

	title, _ := p.Field("title")
	assert.Equal(t, domain.HintString, title.StorageHint)
	require.NotNil(t, title.StringLength, "sampled strings carry length data")

	overview, _ := p.Field("overview")
	assert.Equal(t, domain.HintText, overview.StorageHint)
	assert.Greater(t, overview.Nulls, int64(0), "null fraction from pg_stats")
	assert.True(t, overview.NaturalLanguage)

	status, _ := p.Field("status")
	assert.Equal(t, int64(3), status.DistinctCount)
	assert.True(t, status.FacetCandidate)
	assert.NotEmpty(t, status.TopValue)

	popularity, _ := p.Field("popularity")
	assert.Equal(t, domain.HintFloat, popularity.StorageHint)

	adult, _ := p.Field("adult")
	assert.Equal(t, domain.HintBool, adult.StorageHint)
	assert.True(t, adult.BooleanLike)

	poster, _ := p.Field("poster_url")
	assert.True(t, poster.URLLike)
	assert.True(t, poster.ImageLike)

	metadata, _ := p.Field("metadata")
	assert.Equal(t, domain.HintJSON, metadata.StorageHint)
}

func TestProfileTable_ClassifiesEndToEnd(t *testing.T) {
	pool := setupProfilerDB(t)
	profiler := postgres.NewProfiler(pool, nil)
	ctx := context.Background()

	p, err := profiler.ProfileTable(ctx, "", "movies")
	require.NoError(t, err)

	c, err := domain.ClassifyDataset(p, domain.Options{})
	require.NoError(t, err)

	assert.Equal(t, "id", c.PrimaryKey)

	status, _ := c.Field("status")
	assert.True(t, status.Roles.Filterable)

	overview, _ := c.Field("overview")
	assert.Equal(t, domain.TypeText, overview.Type)
	assert.True(t, overview.Roles.Searchable)

	poster, _ := c.Field("poster_url")
	assert.True(t, poster.Roles.None())
}

func TestProfileTable_ExplicitSchema(t *testing.T) {
	pool := setupProfilerDB(t)
	profiler := postgres.NewProfiler(pool, nil)

	p, err := profiler.ProfileTable(context.Background(), "public", "movies")
	require.NoError(t, err)
	assert.Equal(t, "movies", p.Name)
}

func TestProfileTable_NotFound(t *testing.T) {
	pool := setupProfilerDB(t)
	profiler := postgres.NewProfiler(pool, nil)

	_, err := profiler.ProfileTable(context.Background(), "", "no_such_table")
	assert.ErrorIs(t, err, postgres.ErrTableNotFound)
}

func TestProfileTable_SchemaScoped(t *testing.T) {
	pool := setupProfilerDB(t)
	profiler := postgres.NewProfiler(pool, []string{"information_schema"})

	// movies lives in public, which is outside the configured scope.
	_, err := profiler.ProfileTable(context.Background(), "", "movies")
	assert.ErrorIs(t, err, postgres.ErrTableNotFound)
}
