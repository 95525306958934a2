// Package profile provides dataset profile sources: a precomputed JSON
// profile artifact and a sample-record statistics builder.
package profile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/quarryhq/fieldsmith/internal/core/domain"
)

// ArtifactLoader reads a dataset profile from a JSON artifact produced by
// an upstream profiling run.
type ArtifactLoader struct {
	path string
}

func NewArtifactLoader(path string) *ArtifactLoader {
	return &ArtifactLoader{path: path}
}

// Load reads and validates the profile artifact. Malformed entries fail
// immediately, naming the offending field.
func (l *ArtifactLoader) Load(_ context.Context) (*domain.DatasetProfile, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return nil, fmt.Errorf("reading profile artifact: %w", err)
	}
	return Parse(data)
}

// Parse decodes a profile artifact from raw JSON and validates it.
func Parse(data []byte) (*domain.DatasetProfile, error) {
	var p domain.DatasetProfile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parsing profile artifact: %w", err)
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("validating profile artifact: %w", err)
	}
	return &p, nil
}
