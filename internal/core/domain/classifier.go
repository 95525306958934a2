package domain

// defaultMaxLength is the declared maximum for short strings when the
// profile carries no length data.
const defaultMaxLength = 255

// Options controls the dataset-level classification pass.
type Options struct {
	// PrimaryKeyOverride names the primary-key field explicitly. It takes
	// precedence over everything else and must exist in the profile.
	PrimaryKeyOverride string

	// HeuristicPrimaryKey enables uniqueness-based primary-key detection
	// when neither an override nor unique hints are available. Off by
	// default: without it, an undeterminable key is an error.
	HeuristicPrimaryKey bool
}

// ClassifyDataset runs one full classification pass over a profile. It is
// a pure function: identical input always produces identical output, and
// the profile is never mutated. Exactly one field is marked as the primary
// key, or an error is returned and no partial result is produced.
func ClassifyDataset(profile *DatasetProfile, opts Options) (*DatasetClassification, error) {
	if err := profile.Validate(); err != nil {
		return nil, err
	}

	pk, err := ResolvePrimaryKey(profile, opts)
	if err != nil {
		return nil, err
	}

	out := &DatasetClassification{
		Dataset:    profile.Name,
		PrimaryKey: pk,
		Fields:     make([]ClassificationResult, 0, len(profile.Fields)),
	}
	for _, stats := range profile.Fields {
		out.Fields = append(out.Fields, ClassifyField(stats, stats.Name == pk))
	}
	return out, nil
}

// ClassifyField maps one field's statistics to a classification result.
// Primary-key status is decided at the dataset level and passed in.
func ClassifyField(stats FieldStatistics, isPrimaryKey bool) ClassificationResult {
	fieldType, maxLen := ResolveType(stats)
	return ClassificationResult{
		Name:       stats.Name,
		Type:       fieldType,
		MaxLength:  maxLen,
		Nullable:   !isPrimaryKey,
		PrimaryKey: isPrimaryKey,
		Roles:      resolveFacetRoles(stats, fieldType, isPrimaryKey),
	}
}

// ResolveType maps a field's statistics to its logical storage type.
// First matching rule wins. The returned length is non-zero only for
// TypeString: min(observed max, 255), defaulting to 255 without length data.
func ResolveType(stats FieldStatistics) (FieldType, int) {
	switch {
	case stats.StorageHint == HintJSON, stats.hasListMarker(), LooksLikeScalarList(stats):
		return TypeScalarArray, 0
	case stats.StorageHint == HintBool:
		return TypeBoolean, 0
	case stats.StorageHint == HintInt:
		return TypeInteger, 0
	case stats.StorageHint == HintFloat:
		return TypeFloat, 0
	case stats.StorageHint == HintText,
		stats.StringLength != nil && stats.StringLength.Max > defaultMaxLength:
		return TypeText, 0
	}

	maxLen := defaultMaxLength
	if stats.StringLength != nil && stats.StringLength.Max > 0 && stats.StringLength.Max < defaultMaxLength {
		maxLen = stats.StringLength.Max
	}
	return TypeString, maxLen
}

// resolveFacetRoles grants the filterable/sortable/searchable roles. Each
// role is decided independently; a primary key receives none (key fields
// are looked up, not faceted).
func resolveFacetRoles(stats FieldStatistics, fieldType FieldType, isPrimaryKey bool) FacetRoles {
	if isPrimaryKey {
		return FacetRoles{}
	}

	payloadish := IsPayloadish(stats)
	highCard := IsHighCardinality(stats.DistinctCount, stats.Total)

	var roles FacetRoles

	if !payloadish && !highCard {
		switch {
		case stats.BooleanLike, stats.FacetCandidate, fieldType == TypeScalarArray, fieldType == TypeBoolean:
			roles.Filterable = true
		case fieldType == TypeInteger:
			roles.Filterable = true
		}
	}

	if (fieldType == TypeInteger && !stats.BooleanLike) || fieldType == TypeFloat {
		roles.Sortable = true
	}

	if fieldType.Textual() && stats.NaturalLanguage &&
		!stats.BooleanLike && !stats.FacetCandidate && !payloadish &&
		!nameSuggestsIdentifier(stats.Name) {
		roles.Searchable = true
	}

	return roles
}
