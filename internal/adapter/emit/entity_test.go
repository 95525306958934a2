package emit

import (
	"strings"
	"testing"

	"github.com/quarryhq/fieldsmith/internal/core/domain"
	"github.com/quarryhq/fieldsmith/internal/core/port"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func moviesClassification() *domain.DatasetClassification {
	return &domain.DatasetClassification{
		Dataset:    "movies",
		PrimaryKey: "id",
		Fields: []domain.ClassificationResult{
			{Name: "id", Type: domain.TypeInteger, PrimaryKey: true},
			{Name: "title", Type: domain.TypeString, MaxLength: 64, Nullable: true, Roles: domain.FacetRoles{Searchable: true}},
			{Name: "overview", Type: domain.TypeText, Nullable: true, Roles: domain.FacetRoles{Searchable: true}},
			{Name: "genres", Type: domain.TypeScalarArray, Nullable: true, Roles: domain.FacetRoles{Filterable: true}},
			{Name: "popularity", Type: domain.TypeFloat, Nullable: true, Roles: domain.FacetRoles{Sortable: true}},
			{Name: "adult", Type: domain.TypeBoolean, Nullable: true, Roles: domain.FacetRoles{Filterable: true}},
			{Name: "metadata", Type: domain.TypeJSON, Nullable: true},
		},
	}
}

func TestEntityEmitter(t *testing.T) {
	artifacts, err := NewEntityEmitter("model").Emit(moviesClassification())
	require.NoError(t, err)
	require.Len(t, artifacts, 1)

	a := artifacts[0]
	assert.Equal(t, port.ArtifactEntity, a.Kind)
	assert.Equal(t, "movie.go", a.Filename)

	assert.True(t, strings.HasPrefix(a.Content, "// Code generated by fieldsmith. DO NOT EDIT.\n"))
	assert.Contains(t, a.Content, "package model\n")
	assert.Contains(t, a.Content, "type Movie struct {")

	// Key fields stay values, nullable scalars become pointers.
	assert.Contains(t, a.Content, "ID int64 `db:\"id\" json:\"id\"`")
	assert.Contains(t, a.Content, "Title *string `db:\"title\" json:\"title\"`")
	assert.Contains(t, a.Content, "Popularity *float64 `db:\"popularity\" json:\"popularity\"`")
	assert.Contains(t, a.Content, "Adult *bool `db:\"adult\" json:\"adult\"`")

	// Slices and maps are already nilable.
	assert.Contains(t, a.Content, "Genres []string `db:\"genres\" json:\"genres\"`")
	assert.Contains(t, a.Content, "Metadata map[string]any `db:\"metadata\" json:\"metadata\"`")
}

func TestEntityEmitter_DefaultPackage(t *testing.T) {
	artifacts, err := NewEntityEmitter("").Emit(moviesClassification())
	require.NoError(t, err)
	assert.Contains(t, artifacts[0].Content, "package model\n")
}

func TestEntityEmitter_UnmappedType(t *testing.T) {
	c := &domain.DatasetClassification{
		Dataset:    "movies",
		PrimaryKey: "id",
		Fields: []domain.ClassificationResult{
			{Name: "id", Type: "decimal", PrimaryKey: true},
		},
	}
	_, err := NewEntityEmitter("model").Emit(c)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decimal")
}
