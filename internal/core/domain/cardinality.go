package domain

// Facet cardinality limits. A field whose distinct values cover half the
// rows, or exceed the absolute ceiling, would explode facet counts in a
// search index and is never filterable.
const (
	highCardinalityRatio = 0.5
	highCardinalityCount = 500
)

// CardinalityClass describes the distribution shape of a field's values.
// Profilers use it to decide whether a field is a facet candidate.
type CardinalityClass string

const (
	CardinalityUnique     CardinalityClass = "unique"
	CardinalityNearUnique CardinalityClass = "near_unique"
	CardinalityHigh       CardinalityClass = "high_cardinality"
	CardinalityLow        CardinalityClass = "low_cardinality"
	CardinalityEnumLike   CardinalityClass = "enum_like"
)

// ClassifyByDistinctCount determines the cardinality class from absolute
// distinct and total counts. Profiler adapters must convert source-specific
// statistics (e.g. pg_stats n_distinct fractions) to absolute counts first.
func ClassifyByDistinctCount(distinctCount, total int64) CardinalityClass {
	if total > 0 && distinctCount == total {
		return CardinalityUnique
	}
	if total > 0 && float64(distinctCount)/float64(total) >= 0.9 {
		return CardinalityNearUnique
	}
	if distinctCount <= 20 {
		return CardinalityEnumLike
	}
	if distinctCount <= 200 {
		return CardinalityLow
	}
	return CardinalityHigh
}

// IsHighCardinality reports whether a field's distinct count is too large
// for practical faceting: distinct/total >= 0.5 or distinct >= 500.
func IsHighCardinality(distinctCount, total int64) bool {
	if distinctCount >= highCardinalityCount {
		return true
	}
	return total > 0 && float64(distinctCount)/float64(total) >= highCardinalityRatio
}
