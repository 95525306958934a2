package domain

// FieldType is the resolved logical storage type of a field.
type FieldType string

const (
	TypeString      FieldType = "string" // short string, carries a max length
	TypeText        FieldType = "text"
	TypeInteger     FieldType = "integer"
	TypeFloat       FieldType = "float"
	TypeBoolean     FieldType = "boolean"
	TypeScalarArray FieldType = "array"
	TypeJSON        FieldType = "json"
)

// Valid returns true if t is a recognised field type.
func (t FieldType) Valid() bool {
	switch t {
	case TypeString, TypeText, TypeInteger, TypeFloat, TypeBoolean, TypeScalarArray, TypeJSON:
		return true
	}
	return false
}

// Textual reports whether the type holds free-form text (the only types
// eligible for the searchable role).
func (t FieldType) Textual() bool {
	return t == TypeString || t == TypeText
}

// FacetRoles is the set of search-index roles granted to a field.
type FacetRoles struct {
	Filterable bool `json:"filterable"`
	Sortable   bool `json:"sortable"`
	Searchable bool `json:"searchable"`
}

// None reports whether no role was granted.
func (r FacetRoles) None() bool {
	return !r.Filterable && !r.Sortable && !r.Searchable
}

// ClassificationResult is the classifier's verdict for one field.
type ClassificationResult struct {
	Name       string     `json:"name"`
	Type       FieldType  `json:"type"`
	MaxLength  int        `json:"max_length,omitempty"` // set only for TypeString
	Nullable   bool       `json:"nullable"`
	PrimaryKey bool       `json:"primary_key"`
	Roles      FacetRoles `json:"facet_roles"`
}

// DatasetClassification is one full classification pass: per-field results
// in profile order plus the resolved primary-key field name.
type DatasetClassification struct {
	Dataset    string                 `json:"dataset"`
	PrimaryKey string                 `json:"primary_key"`
	Fields     []ClassificationResult `json:"fields"`
}

// Field returns the result for the named field, if present.
func (c *DatasetClassification) Field(name string) (ClassificationResult, bool) {
	for _, f := range c.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return ClassificationResult{}, false
}
