package domain

import (
	"fmt"
)

// StorageHint is the categorical type hint produced by the profiling stage.
type StorageHint string

const (
	HintString StorageHint = "string"
	HintText   StorageHint = "text"
	HintInt    StorageHint = "int"
	HintFloat  StorageHint = "float"
	HintBool   StorageHint = "bool"
	HintJSON   StorageHint = "json"
)

// Valid returns true if the hint is one of the recognised categories.
func (h StorageHint) Valid() bool {
	switch h {
	case HintString, HintText, HintInt, HintFloat, HintBool, HintJSON:
		return true
	}
	return false
}

// DistinctCap is the sampling limit on exact distinct-value counting.
// When a profiler reaches it, DistinctCount is a lower bound rather than
// an exact count and DistinctCapReached must be set.
const DistinctCap = 1000

// ListMarker appears in ObservedTypes when a profiler saw array values
// for a field (e.g. a JSON array in a sample record).
const ListMarker = "list"

// LengthRange holds the observed minimum and maximum string lengths.
type LengthRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// FieldStatistics describes one field of a dataset as observed by a
// profiler. It is the sole input to classification.
type FieldStatistics struct {
	Name               string       `json:"name"`
	StorageHint        StorageHint  `json:"storage_hint"`
	ObservedTypes      []string     `json:"observed_types,omitempty"`
	Total              int64        `json:"total"`
	Nulls              int64        `json:"nulls"`
	DistinctCount      int64        `json:"distinct_count"`
	DistinctCapReached bool         `json:"distinct_cap_reached,omitempty"`
	StringLength       *LengthRange `json:"string_length,omitempty"`
	BooleanLike        bool         `json:"boolean_like,omitempty"`
	FacetCandidate     bool         `json:"facet_candidate,omitempty"`
	URLLike            bool         `json:"url_like,omitempty"`
	ImageLike          bool         `json:"image_like,omitempty"`
	JSONLike           bool         `json:"json_like,omitempty"`
	NaturalLanguage    bool         `json:"natural_language,omitempty"`
	TopValue           string       `json:"top_value,omitempty"`
}

// Validate checks the statistics for internal consistency. Every failure
// wraps ErrMalformedStats and names the offending field.
func (s FieldStatistics) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("%w: field has no name", ErrMalformedStats)
	}
	if !s.StorageHint.Valid() {
		return fmt.Errorf("%w: field %q has unknown storage hint %q", ErrMalformedStats, s.Name, s.StorageHint)
	}
	if s.Total < 0 || s.Nulls < 0 || s.DistinctCount < 0 {
		return fmt.Errorf("%w: field %q has negative counts", ErrMalformedStats, s.Name)
	}
	if s.Nulls > s.Total {
		return fmt.Errorf("%w: field %q has more nulls (%d) than rows (%d)", ErrMalformedStats, s.Name, s.Nulls, s.Total)
	}
	if s.StringLength != nil && (s.StringLength.Min < 0 || s.StringLength.Max < s.StringLength.Min) {
		return fmt.Errorf("%w: field %q has an invalid string length range", ErrMalformedStats, s.Name)
	}
	return nil
}

// hasListMarker reports whether the profiler observed array values.
func (s FieldStatistics) hasListMarker() bool {
	for _, t := range s.ObservedTypes {
		if t == ListMarker {
			return true
		}
	}
	return false
}

// DatasetProfile is the full profiling output for one dataset: ordered
// field statistics plus dataset-level hints. Field order is preserved so
// that generated artifacts are deterministic.
type DatasetProfile struct {
	Name        string            `json:"name"`
	Fields      []FieldStatistics `json:"fields"`
	UniqueHints []string          `json:"unique_hints,omitempty"`
}

// Field returns the statistics for the named field, if present.
func (p *DatasetProfile) Field(name string) (FieldStatistics, bool) {
	for _, f := range p.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldStatistics{}, false
}

// Validate checks the profile and every field in it.
func (p *DatasetProfile) Validate() error {
	if len(p.Fields) == 0 {
		return ErrEmptyProfile
	}
	seen := make(map[string]bool, len(p.Fields))
	for _, f := range p.Fields {
		if err := f.Validate(); err != nil {
			return err
		}
		if seen[f.Name] {
			return fmt.Errorf("%w: duplicate field %q", ErrMalformedStats, f.Name)
		}
		seen[f.Name] = true
	}
	return nil
}
