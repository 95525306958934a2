package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsPayloadish(t *testing.T) {
	tests := []struct {
		name  string
		stats FieldStatistics
		want  bool
	}{
		{"url flag", FieldStatistics{Name: "homepage", URLLike: true}, true},
		{"image flag", FieldStatistics{Name: "cover", ImageLike: true}, true},
		{"json flag", FieldStatistics{Name: "extra", JSONLike: true}, true},
		{"url in name", FieldStatistics{Name: "poster_url"}, true},
		{"image in name", FieldStatistics{Name: "backdropImagePath"}, true},
		{"thumbnail in name", FieldStatistics{Name: "thumbnail"}, true},
		{"media in name", FieldStatistics{Name: "media_type"}, true},
		{"href in name", FieldStatistics{Name: "canonical_href"}, true},
		{"link in name", FieldStatistics{Name: "deep_links"}, true},
		{"plain field", FieldStatistics{Name: "title"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsPayloadish(tt.stats))
		})
	}
}

func TestNameSuggestsIdentifier(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"id", true},
		{"movie_id", true},
		{"imdbId", true},
		{"product_code", true},
		{"video", true}, // substring match is deliberately blunt
		{"title", false},
		{"overview", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, nameSuggestsIdentifier(tt.name))
		})
	}
}
