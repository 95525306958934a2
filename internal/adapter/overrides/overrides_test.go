package overrides

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/quarryhq/fieldsmith/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const overridesYAML = `
dataset: movies
primary_key: id
unique_hints:
  - id
  - imdb_id
fields:
  genres: array
  overview:
    searchable: true
  vote_count:
    type: integer
    sortable: true
    filterable: false
`

func writeOverrides(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "overrides.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFromFile(t *testing.T) {
	o, err := LoadFromFile(writeOverrides(t, overridesYAML))
	require.NoError(t, err)

	assert.Equal(t, "movies", o.Dataset)
	assert.Equal(t, "id", o.PrimaryKey)
	assert.Equal(t, []string{"id", "imdb_id"}, o.UniqueHints)
	require.Len(t, o.Fields, 3)

	// Scalar shorthand pins only the type.
	assert.Equal(t, "array", o.Fields["genres"].Type)
	assert.Nil(t, o.Fields["genres"].Filterable)

	require.NotNil(t, o.Fields["overview"].Searchable)
	assert.True(t, *o.Fields["overview"].Searchable)

	vc := o.Fields["vote_count"]
	assert.Equal(t, "integer", vc.Type)
	require.NotNil(t, vc.Sortable)
	assert.True(t, *vc.Sortable)
	require.NotNil(t, vc.Filterable)
	assert.False(t, *vc.Filterable)
}

func TestLoadFromFile_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad yaml", ":\n  - ["},
		{"empty hint", "unique_hints:\n  - \"\""},
		{"unknown type", "fields:\n  genres: varchar"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFromFile(writeOverrides(t, tt.content))
			assert.Error(t, err)
		})
	}
}

func TestLoadFromFile_Missing(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestFieldOverride_UnmarshalYAML(t *testing.T) {
	var o Overrides
	require.NoError(t, yaml.Unmarshal([]byte("fields:\n  tags: array"), &o))
	assert.Equal(t, "array", o.Fields["tags"].Type)

	var o2 Overrides
	require.NoError(t, yaml.Unmarshal([]byte("fields:\n  tags:\n    type: array\n    filterable: true"), &o2))
	assert.Equal(t, "array", o2.Fields["tags"].Type)
	require.NotNil(t, o2.Fields["tags"].Filterable)
	assert.True(t, *o2.Fields["tags"].Filterable)
}

func TestOverrides_Options(t *testing.T) {
	o := &Overrides{PrimaryKey: "id"}
	assert.Equal(t, domain.Options{PrimaryKeyOverride: "id"}, o.Options())
}

func TestOverrides_Pins(t *testing.T) {
	searchable := true
	o := &Overrides{
		Fields: map[string]FieldOverride{
			"genres":   {Type: "array"},
			"overview": {Searchable: &searchable},
		},
	}

	pins := o.Pins()
	require.Len(t, pins, 2)

	require.NotNil(t, pins["genres"].Type)
	assert.Equal(t, domain.TypeScalarArray, *pins["genres"].Type)
	assert.Nil(t, pins["genres"].Searchable)

	assert.Nil(t, pins["overview"].Type)
	require.NotNil(t, pins["overview"].Searchable)
	assert.True(t, *pins["overview"].Searchable)
}

func TestOverrides_PinsEmpty(t *testing.T) {
	assert.Nil(t, (&Overrides{}).Pins())
}

func TestOverrides_ApplyHints(t *testing.T) {
	profile := &domain.DatasetProfile{
		Name:        "movies",
		UniqueHints: []string{"inferred"},
	}

	(&Overrides{UniqueHints: []string{"id"}}).ApplyHints(profile)
	assert.Equal(t, []string{"id"}, profile.UniqueHints)

	// No declared hints leaves the profile's own hints alone.
	(&Overrides{}).ApplyHints(profile)
	assert.Equal(t, []string{"id"}, profile.UniqueHints)
}
