package domain

import "fmt"

// ResolvePrimaryKey determines the dataset's primary-key field.
//
// Resolution order:
//  1. Explicit override. Must exist in the profile, otherwise
//     ErrFieldNotFound.
//  2. Declared unique hints. The first hint present in the profile wins.
//     If none of the declared hints exist, ErrHintNotFound: a stale hint
//     list is a configuration inconsistency, not something to paper over
//     with guesses.
//  3. Heuristic uniqueness detection, only when opts.HeuristicPrimaryKey
//     is set: the first field that is probably unique wins.
//  4. ErrNoPrimaryKey.
func ResolvePrimaryKey(profile *DatasetProfile, opts Options) (string, error) {
	if opts.PrimaryKeyOverride != "" {
		if _, ok := profile.Field(opts.PrimaryKeyOverride); !ok {
			return "", fmt.Errorf("primary key override %q: %w", opts.PrimaryKeyOverride, ErrFieldNotFound)
		}
		return opts.PrimaryKeyOverride, nil
	}

	if len(profile.UniqueHints) > 0 {
		for _, hint := range profile.UniqueHints {
			if _, ok := profile.Field(hint); ok {
				return hint, nil
			}
		}
		return "", fmt.Errorf("unique hints %v: %w", profile.UniqueHints, ErrHintNotFound)
	}

	if opts.HeuristicPrimaryKey {
		for _, stats := range profile.Fields {
			if ProbablyUnique(stats) {
				return stats.Name, nil
			}
		}
	}

	return "", fmt.Errorf("dataset %q: %w", profile.Name, ErrNoPrimaryKey)
}

// ProbablyUnique is the advisory uniqueness signal used by heuristic
// primary-key detection. A field qualifies when it has no nulls, is not
// boolean-like, does not resolve to an array type, and its distinct count
// either exactly matches the total (uncapped) or still reached the cap
// (every sampled value so far was unique).
func ProbablyUnique(stats FieldStatistics) bool {
	if stats.Nulls != 0 || stats.BooleanLike {
		return false
	}
	if t, _ := ResolveType(stats); t == TypeScalarArray || t == TypeJSON {
		return false
	}
	if !stats.DistinctCapReached {
		return stats.Total > 0 && stats.DistinctCount == stats.Total
	}
	return stats.DistinctCount >= DistinctCap
}
