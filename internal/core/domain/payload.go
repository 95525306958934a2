package domain

import "strings"

// payloadNameFragments are blunt name patterns marking a field as a blob
// or reference carrier. Matching is by substring on the lowercased name.
var payloadNameFragments = []string{"url", "image", "media", "thumbnail", "link", "href"}

// IsPayloadish reports whether a field holds payload data (URLs, images,
// JSON documents) unsuitable for faceting. Payload-ish fields are never
// filterable or searchable, regardless of any other signal.
func IsPayloadish(s FieldStatistics) bool {
	if s.URLLike || s.ImageLike || s.JSONLike {
		return true
	}
	name := strings.ToLower(s.Name)
	for _, frag := range payloadNameFragments {
		if strings.Contains(name, frag) {
			return true
		}
	}
	return false
}

// nameSuggestsIdentifier reports whether the field name contains "id" or
// "code" as a substring. Identifier-ish names are excluded from full-text
// search even when the values look like natural language.
func nameSuggestsIdentifier(name string) bool {
	lower := strings.ToLower(name)
	return strings.Contains(lower, "id") || strings.Contains(lower, "code")
}
