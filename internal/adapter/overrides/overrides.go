// Package overrides loads the caller's generation overrides from a YAML
// file: the explicit primary key, unique-field hints, and per-field pins
// that outrank the classification heuristics.
package overrides

import (
	"fmt"

	"github.com/quarryhq/fieldsmith/internal/core/domain"
	"gopkg.in/yaml.v3"
)

// Overrides holds operator-controlled generation configuration.
type Overrides struct {
	Dataset     string                   `yaml:"dataset"`
	PrimaryKey  string                   `yaml:"primary_key"`
	UniqueHints []string                 `yaml:"unique_hints"`
	Fields      map[string]FieldOverride `yaml:"fields"`
}

// FieldOverride pins parts of one field's classification. Absent values
// leave the heuristic verdict alone.
type FieldOverride struct {
	Type       string `yaml:"type,omitempty"`
	Filterable *bool  `yaml:"filterable,omitempty"`
	Sortable   *bool  `yaml:"sortable,omitempty"`
	Searchable *bool  `yaml:"searchable,omitempty"`
}

// UnmarshalYAML supports both the struct form and a plain-string shorthand
// that pins only the type:
//
//	fields:
//	  genres: array          # shorthand → FieldOverride{Type: "array"}
//	  overview:
//	    searchable: true
func (fo *FieldOverride) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		fo.Type = value.Value
		return nil
	}
	type alias FieldOverride
	var a alias
	if err := value.Decode(&a); err != nil {
		return fmt.Errorf("decoding field override: %w", err)
	}
	*fo = FieldOverride(a)
	return nil
}

// Options translates the overrides into classifier options.
func (o *Overrides) Options() domain.Options {
	return domain.Options{PrimaryKeyOverride: o.PrimaryKey}
}

// Pins translates the per-field overrides into domain field pins.
func (o *Overrides) Pins() map[string]domain.FieldPin {
	if len(o.Fields) == 0 {
		return nil
	}
	pins := make(map[string]domain.FieldPin, len(o.Fields))
	for name, fo := range o.Fields {
		pin := domain.FieldPin{
			Filterable: fo.Filterable,
			Sortable:   fo.Sortable,
			Searchable: fo.Searchable,
		}
		if fo.Type != "" {
			t := domain.FieldType(fo.Type)
			pin.Type = &t
		}
		pins[name] = pin
	}
	return pins
}

// ApplyHints overlays the declared unique hints onto a profile. Hints in
// the overrides file replace any the profile source produced, because the
// operator's declaration is more trustworthy than an inferred one.
func (o *Overrides) ApplyHints(profile *domain.DatasetProfile) {
	if len(o.UniqueHints) > 0 {
		profile.UniqueHints = o.UniqueHints
	}
}
