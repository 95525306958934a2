package emit

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/quarryhq/fieldsmith/internal/core/domain"
	"github.com/quarryhq/fieldsmith/internal/core/port"
)

// indexConfig is the search-index configuration document: index identity
// plus the attribute role lists a search engine needs to build facets.
type indexConfig struct {
	UID        string        `json:"uid"`
	PrimaryKey string        `json:"primaryKey"`
	Settings   indexSettings `json:"settings"`
}

type indexSettings struct {
	SearchableAttributes []string `json:"searchableAttributes"`
	FilterableAttributes []string `json:"filterableAttributes"`
	SortableAttributes   []string `json:"sortableAttributes"`
	DisplayedAttributes  []string `json:"displayedAttributes"`
	DistinctAttribute    string   `json:"distinctAttribute"`
}

// IndexSettingsEmitter generates the search-index settings JSON from the
// facet roles granted by classification.
type IndexSettingsEmitter struct{}

func NewIndexSettingsEmitter() *IndexSettingsEmitter {
	return &IndexSettingsEmitter{}
}

func (e *IndexSettingsEmitter) Emit(c *domain.DatasetClassification) ([]port.Artifact, error) {
	cfg := indexConfig{
		UID:        strings.ToLower(c.Dataset),
		PrimaryKey: c.PrimaryKey,
		Settings: indexSettings{
			SearchableAttributes: []string{},
			FilterableAttributes: []string{},
			SortableAttributes:   []string{},
			DisplayedAttributes:  []string{},
			DistinctAttribute:    c.PrimaryKey,
		},
	}

	for _, f := range c.Fields {
		cfg.Settings.DisplayedAttributes = append(cfg.Settings.DisplayedAttributes, f.Name)
		if f.Roles.Searchable {
			cfg.Settings.SearchableAttributes = append(cfg.Settings.SearchableAttributes, f.Name)
		}
		if f.Roles.Filterable {
			cfg.Settings.FilterableAttributes = append(cfg.Settings.FilterableAttributes, f.Name)
		}
		if f.Roles.Sortable {
			cfg.Settings.SortableAttributes = append(cfg.Settings.SortableAttributes, f.Name)
		}
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling index settings for %q: %w", c.Dataset, err)
	}

	return []port.Artifact{{
		Kind:     port.ArtifactIndexSettings,
		Filename: cfg.UID + ".index.json",
		Content:  string(data) + "\n",
	}}, nil
}
