package profile

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/quarryhq/fieldsmith/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const profileJSON = `{
  "name": "movies",
  "unique_hints": ["id"],
  "fields": [
    {"name": "id", "storage_hint": "int", "total": 100, "distinct_count": 100},
    {
      "name": "title",
      "storage_hint": "string",
      "total": 100,
      "nulls": 2,
      "distinct_count": 95,
      "string_length": {"min": 1, "max": 64},
      "natural_language": true
    }
  ]
}`

func TestParse(t *testing.T) {
	p, err := Parse([]byte(profileJSON))
	require.NoError(t, err)

	assert.Equal(t, "movies", p.Name)
	assert.Equal(t, []string{"id"}, p.UniqueHints)
	require.Len(t, p.Fields, 2)

	title, ok := p.Field("title")
	require.True(t, ok)
	assert.Equal(t, domain.HintString, title.StorageHint)
	assert.Equal(t, int64(2), title.Nulls)
	require.NotNil(t, title.StringLength)
	assert.Equal(t, 64, title.StringLength.Max)
	assert.True(t, title.NaturalLanguage)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", "{{"},
		{"empty fields", `{"name": "movies", "fields": []}`},
		{"bad storage hint", `{"name": "m", "fields": [{"name": "x", "storage_hint": "varchar"}]}`},
		{"nulls exceed total", `{"name": "m", "fields": [{"name": "x", "storage_hint": "int", "total": 1, "nulls": 2}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			assert.Error(t, err)
		})
	}
}

func TestArtifactLoader_Load(t *testing.T) {
	path := filepath.Join(t.TempDir(), "movies.profile.json")
	require.NoError(t, os.WriteFile(path, []byte(profileJSON), 0o644))

	p, err := NewArtifactLoader(path).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "movies", p.Name)
}

func TestArtifactLoader_MissingFile(t *testing.T) {
	_, err := NewArtifactLoader(filepath.Join(t.TempDir(), "missing.json")).Load(context.Background())
	assert.Error(t, err)
}
