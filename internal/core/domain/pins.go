package domain

import "fmt"

// FieldPin holds caller-supplied per-field overrides. Nil pointers mean
// "leave the heuristic verdict alone"; set values always win.
type FieldPin struct {
	Type       *FieldType
	Filterable *bool
	Sortable   *bool
	Searchable *bool
}

// ApplyPins overlays field pins onto a classification in place. Pinning a
// field that is not part of the classification is a configuration error:
// silently ignoring it would hide a typo in the overrides file.
func ApplyPins(c *DatasetClassification, pins map[string]FieldPin) error {
	for name, pin := range pins {
		idx := -1
		for i := range c.Fields {
			if c.Fields[i].Name == name {
				idx = i
				break
			}
		}
		if idx < 0 {
			return fmt.Errorf("field pin %q: %w", name, ErrFieldNotFound)
		}

		f := &c.Fields[idx]
		if pin.Type != nil {
			f.Type = *pin.Type
			if *pin.Type != TypeString {
				f.MaxLength = 0
			} else if f.MaxLength == 0 {
				f.MaxLength = defaultMaxLength
			}
		}
		if pin.Filterable != nil {
			f.Roles.Filterable = *pin.Filterable
		}
		if pin.Sortable != nil {
			f.Roles.Sortable = *pin.Sortable
		}
		if pin.Searchable != nil {
			f.Roles.Searchable = *pin.Searchable
		}
	}
	return nil
}
