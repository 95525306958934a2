package profile

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/quarryhq/fieldsmith/internal/core/domain"
)

// SampleProfiler computes field statistics from raw sample records when no
// precomputed profile artifact exists. The resulting statistics are
// approximate by nature (distinct counting is capped at domain.DistinctCap),
// which is why the strict classification variant refuses to pick a primary
// key from them unless the caller opts in.
type SampleProfiler struct {
	dataset string
	records []map[string]any
}

func NewSampleProfiler(dataset string, records []map[string]any) *SampleProfiler {
	return &SampleProfiler{dataset: dataset, records: records}
}

func (p *SampleProfiler) Load(_ context.Context) (*domain.DatasetProfile, error) {
	return FromRecords(p.dataset, p.records)
}

// ParseRecords decodes a JSON array of objects into sample records.
func ParseRecords(data []byte) ([]map[string]any, error) {
	var records []map[string]any
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parsing sample records: %w", err)
	}
	return records, nil
}

// FromRecords builds a dataset profile from sample records. Fields are
// ordered by name so repeated runs yield identical profiles.
func FromRecords(dataset string, records []map[string]any) (*domain.DatasetProfile, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("building profile for %q: %w", dataset, domain.ErrEmptyProfile)
	}

	names := make(map[string]bool)
	for _, rec := range records {
		for name := range rec {
			names[name] = true
		}
	}

	ordered := make([]string, 0, len(names))
	for name := range names {
		ordered = append(ordered, name)
	}
	sort.Strings(ordered)

	p := &domain.DatasetProfile{
		Name:   dataset,
		Fields: make([]domain.FieldStatistics, 0, len(ordered)),
	}
	for _, name := range ordered {
		p.Fields = append(p.Fields, profileField(name, records))
	}
	return p, nil
}

// fieldAccumulator tallies observations for a single field.
type fieldAccumulator struct {
	total       int64
	nulls       int64
	types       map[string]int
	distinct    map[string]int64
	capReached  bool
	minLen      int
	maxLen      int
	sawString   bool
	boolValues  int
	urlValues   int
	imageValues int
	jsonValues  int
	proseValues int
}

var urlPattern = regexp.MustCompile(`^https?://\S+$`)

var imageExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".webp", ".svg"}

func profileField(name string, records []map[string]any) domain.FieldStatistics {
	acc := &fieldAccumulator{
		types:    make(map[string]int),
		distinct: make(map[string]int64),
	}

	for _, rec := range records {
		acc.total++
		val, present := rec[name]
		if !present || val == nil {
			acc.nulls++
			continue
		}
		acc.observe(val)
	}

	return acc.statistics(name)
}

func (a *fieldAccumulator) observe(val any) {
	key := fmt.Sprintf("%v", val)
	if len(a.distinct) < domain.DistinctCap {
		a.distinct[key]++
	} else {
		a.capReached = true
		if _, seen := a.distinct[key]; seen {
			a.distinct[key]++
		}
	}

	switch v := val.(type) {
	case bool:
		a.types["bool"]++
		a.boolValues++
	case float64:
		// encoding/json decodes every number as float64.
		if v == math.Trunc(v) && !math.IsInf(v, 0) {
			a.types["int"]++
		} else {
			a.types["float"]++
		}
	case string:
		a.types["string"]++
		a.observeString(v)
	case []any:
		a.types[domain.ListMarker]++
	case map[string]any:
		a.types["json"]++
		a.jsonValues++
	default:
		a.types["string"]++
	}
}

func (a *fieldAccumulator) observeString(v string) {
	n := len(v)
	if !a.sawString || n < a.minLen {
		a.minLen = n
	}
	if n > a.maxLen {
		a.maxLen = n
	}
	a.sawString = true

	switch strings.ToLower(v) {
	case "true", "false", "yes", "no", "0", "1":
		a.boolValues++
	}
	if urlPattern.MatchString(v) {
		a.urlValues++
		lower := strings.ToLower(v)
		for _, ext := range imageExtensions {
			if strings.HasSuffix(lower, ext) {
				a.imageValues++
				break
			}
		}
	}
	if looksLikeProse(v) {
		a.proseValues++
	}
}

// looksLikeProse reports whether a value reads as natural language rather
// than an identifier: multiple words and some length to it.
func looksLikeProse(v string) bool {
	if len(v) < 20 {
		return false
	}
	return len(strings.Fields(v)) >= 4
}

func (a *fieldAccumulator) statistics(name string) domain.FieldStatistics {
	nonNull := a.total - a.nulls
	distinctCount := int64(len(a.distinct))

	stats := domain.FieldStatistics{
		Name:               name,
		StorageHint:        a.storageHint(),
		ObservedTypes:      a.observedTypes(),
		Total:              a.total,
		Nulls:              a.nulls,
		DistinctCount:      distinctCount,
		DistinctCapReached: a.capReached,
		TopValue:           a.topValue(),
	}
	if a.sawString {
		stats.StringLength = &domain.LengthRange{Min: a.minLen, Max: a.maxLen}
	}
	if nonNull > 0 {
		stats.BooleanLike = int64(a.boolValues) == nonNull && distinctCount <= 2
		stats.URLLike = int64(a.urlValues)*2 > nonNull
		stats.ImageLike = int64(a.imageValues)*2 > nonNull
		stats.JSONLike = int64(a.jsonValues)*2 > nonNull
		stats.NaturalLanguage = int64(a.proseValues)*2 > nonNull
	}

	switch domain.ClassifyByDistinctCount(distinctCount, nonNull) {
	case domain.CardinalityEnumLike, domain.CardinalityLow:
		stats.FacetCandidate = !stats.BooleanLike && !a.capReached
	}

	return stats
}

// storageHint picks the dominant observed type. Mixed numeric columns
// degrade int to float; any other mix degrades to string.
func (a *fieldAccumulator) storageHint() domain.StorageHint {
	if len(a.types) == 0 {
		return domain.HintString
	}
	if a.types[domain.ListMarker] > 0 || a.types["json"] > 0 {
		return domain.HintJSON
	}
	if len(a.types) == 2 && a.types["int"] > 0 && a.types["float"] > 0 {
		return domain.HintFloat
	}
	if len(a.types) > 1 {
		return domain.HintString
	}
	for t := range a.types {
		switch t {
		case "bool":
			return domain.HintBool
		case "int":
			return domain.HintInt
		case "float":
			return domain.HintFloat
		case "string":
			if a.maxLen > 255 {
				return domain.HintText
			}
			return domain.HintString
		}
	}
	return domain.HintString
}

func (a *fieldAccumulator) observedTypes() []string {
	out := make([]string, 0, len(a.types))
	for t := range a.types {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// topValue returns the most frequent observed value; ties break on the
// lexicographically smaller value to stay deterministic.
func (a *fieldAccumulator) topValue() string {
	var top string
	var topCount int64
	for v, count := range a.distinct {
		if count > topCount || (count == topCount && (top == "" || v < top)) {
			top = v
			topCount = count
		}
	}
	return top
}
