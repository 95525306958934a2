package overrides

import (
	"fmt"
	"os"

	"github.com/quarryhq/fieldsmith/internal/core/domain"
	"gopkg.in/yaml.v3"
)

// LoadFromFile reads a YAML overrides file and returns validated Overrides.
func LoadFromFile(path string) (*Overrides, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading overrides file: %w", err)
	}

	var o Overrides
	if err := yaml.Unmarshal(data, &o); err != nil {
		return nil, fmt.Errorf("parsing overrides YAML: %w", err)
	}

	if err := validate(&o); err != nil {
		return nil, fmt.Errorf("validating overrides: %w", err)
	}

	return &o, nil
}

func validate(o *Overrides) error {
	for _, hint := range o.UniqueHints {
		if hint == "" {
			return fmt.Errorf("unique_hints contains an empty entry")
		}
	}
	for name, fo := range o.Fields {
		if name == "" {
			return fmt.Errorf("fields contains an empty key")
		}
		if fo.Type != "" && !domain.FieldType(fo.Type).Valid() {
			return fmt.Errorf("fields[%q].type: invalid value %q (allowed: string, text, integer, float, boolean, array, json)", name, fo.Type)
		}
	}
	return nil
}
