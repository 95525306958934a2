package domain

import (
	"strings"

	"github.com/jinzhu/inflection"
)

// listDelimiters are the separators checked when probing an example value
// for an embedded scalar list (e.g. "Action,Drama" or "red|green|blue").
var listDelimiters = []string{",", "|"}

// LooksLikeScalarList reports whether a string-hinted field most likely
// carries a delimited list of scalars: the field name is a plural noun and
// the representative value splits into two or more non-empty parts on a
// known delimiter. "genres" with top value "Action,Drama" matches;
// "title" with "Once, Upon" does not (singular name).
func LooksLikeScalarList(s FieldStatistics) bool {
	if s.StorageHint != HintString && s.StorageHint != HintText {
		return false
	}
	if !isPluralName(s.Name) || s.TopValue == "" {
		return false
	}
	for _, delim := range listDelimiters {
		if splitsIntoList(s.TopValue, delim) {
			return true
		}
	}
	return false
}

// isPluralName reports whether name is a plural noun form. A name is
// plural when singularizing changes it and pluralizing the singular form
// round-trips back to the original.
func isPluralName(name string) bool {
	lower := strings.ToLower(name)
	singular := inflection.Singular(lower)
	return singular != lower && inflection.Plural(singular) == lower
}

func splitsIntoList(value, delim string) bool {
	if !strings.Contains(value, delim) {
		return false
	}
	parts := strings.Split(value, delim)
	nonEmpty := 0
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			nonEmpty++
		}
	}
	return nonEmpty >= 2
}
