// Package emit turns dataset classifications into generated artifacts:
// an entity struct, a repository scaffold, CREATE TABLE DDL, and
// search-index settings. All emitters are deterministic.
package emit

import (
	"strings"
	"unicode"

	"github.com/jinzhu/inflection"
)

// commonInitialisms get upper-cased as a whole in exported Go names.
var commonInitialisms = map[string]bool{
	"id": true, "url": true, "api": true, "uid": true, "sku": true,
	"html": true, "json": true, "sql": true, "uuid": true,
}

// entityName derives the generated type name from the dataset name:
// singular form, exported PascalCase ("movies" → "Movie").
func entityName(dataset string) string {
	return pascalCase(inflection.Singular(strings.ToLower(dataset)))
}

// goFieldName derives an exported struct field name from a field name
// ("release_date" → "ReleaseDate", "imageUrl" → "ImageURL").
func goFieldName(field string) string {
	return pascalCase(field)
}

// pascalCase converts snake_case, kebab-case, or camelCase input into
// PascalCase with initialisms upper-cased.
func pascalCase(s string) string {
	var b strings.Builder
	for _, word := range splitWords(s) {
		if commonInitialisms[strings.ToLower(word)] {
			b.WriteString(strings.ToUpper(word))
			continue
		}
		runes := []rune(strings.ToLower(word))
		runes[0] = unicode.ToUpper(runes[0])
		b.WriteString(string(runes))
	}
	return b.String()
}

func splitWords(s string) []string {
	var words []string
	var current strings.Builder
	flush := func() {
		if current.Len() > 0 {
			words = append(words, current.String())
			current.Reset()
		}
	}
	for i, r := range s {
		switch {
		case r == '_' || r == '-' || r == ' ' || r == '.':
			flush()
		case unicode.IsUpper(r) && i > 0:
			flush()
			current.WriteRune(r)
		default:
			current.WriteRune(r)
		}
	}
	flush()
	return words
}
