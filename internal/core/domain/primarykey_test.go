package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolvePrimaryKey(t *testing.T) {
	uniqueField := FieldStatistics{
		Name: "uuid", StorageHint: HintString,
		Total: 500, DistinctCount: 500,
	}
	lowCardField := FieldStatistics{
		Name: "status", StorageHint: HintString,
		Total: 500, DistinctCount: 4,
	}

	tests := []struct {
		name    string
		profile *DatasetProfile
		opts    Options
		want    string
		wantErr error
	}{
		{
			name: "override wins over hints",
			profile: &DatasetProfile{
				Name:        "items",
				UniqueHints: []string{"uuid"},
				Fields:      []FieldStatistics{uniqueField, lowCardField},
			},
			opts: Options{PrimaryKeyOverride: "status"},
			want: "status",
		},
		{
			name: "override names unknown field",
			profile: &DatasetProfile{
				Name:   "items",
				Fields: []FieldStatistics{uniqueField},
			},
			opts:    Options{PrimaryKeyOverride: "nope"},
			wantErr: ErrFieldNotFound,
		},
		{
			name: "first present hint wins",
			profile: &DatasetProfile{
				Name:        "items",
				UniqueHints: []string{"gone", "uuid"},
				Fields:      []FieldStatistics{uniqueField, lowCardField},
			},
			want: "uuid",
		},
		{
			name: "all hints stale",
			profile: &DatasetProfile{
				Name:        "items",
				UniqueHints: []string{"gone", "also_gone"},
				Fields:      []FieldStatistics{uniqueField},
			},
			wantErr: ErrHintNotFound,
		},
		{
			name: "stale hints fail even when heuristics are on",
			profile: &DatasetProfile{
				Name:        "items",
				UniqueHints: []string{"gone"},
				Fields:      []FieldStatistics{uniqueField},
			},
			opts:    Options{HeuristicPrimaryKey: true},
			wantErr: ErrHintNotFound,
		},
		{
			name: "no hints is strict by default",
			profile: &DatasetProfile{
				Name:   "items",
				Fields: []FieldStatistics{uniqueField, lowCardField},
			},
			wantErr: ErrNoPrimaryKey,
		},
		{
			name: "heuristic picks first probably-unique field",
			profile: &DatasetProfile{
				Name:   "items",
				Fields: []FieldStatistics{lowCardField, uniqueField},
			},
			opts: Options{HeuristicPrimaryKey: true},
			want: "uuid",
		},
		{
			name: "heuristic finds nothing",
			profile: &DatasetProfile{
				Name:   "items",
				Fields: []FieldStatistics{lowCardField},
			},
			opts:    Options{HeuristicPrimaryKey: true},
			wantErr: ErrNoPrimaryKey,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolvePrimaryKey(tt.profile, tt.opts)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestProbablyUnique(t *testing.T) {
	tests := []struct {
		name  string
		stats FieldStatistics
		want  bool
	}{
		{
			name:  "uncapped and fully distinct",
			stats: FieldStatistics{Name: "id", StorageHint: HintInt, Total: 100, DistinctCount: 100},
			want:  true,
		},
		{
			name:  "uncapped but not fully distinct",
			stats: FieldStatistics{Name: "id", StorageHint: HintInt, Total: 100, DistinctCount: 99},
			want:  false,
		},
		{
			name:  "empty field is never unique",
			stats: FieldStatistics{Name: "id", StorageHint: HintInt},
			want:  false,
		},
		{
			name:  "nulls disqualify",
			stats: FieldStatistics{Name: "id", StorageHint: HintInt, Total: 100, Nulls: 1, DistinctCount: 99},
			want:  false,
		},
		{
			name:  "boolean-like disqualifies",
			stats: FieldStatistics{Name: "flag", StorageHint: HintInt, Total: 2, DistinctCount: 2, BooleanLike: true},
			want:  false,
		},
		{
			name:  "array type disqualifies",
			stats: FieldStatistics{Name: "tags", StorageHint: HintJSON, Total: 100, DistinctCount: 100},
			want:  false,
		},
		{
			name: "capped counter stays advisory",
			stats: FieldStatistics{
				Name: "id", StorageHint: HintInt,
				Total: 50000, DistinctCount: DistinctCap, DistinctCapReached: true,
			},
			want: true,
		},
		{
			name: "capped below the cap is not unique",
			stats: FieldStatistics{
				Name: "id", StorageHint: HintInt,
				Total: 50000, DistinctCount: 400, DistinctCapReached: true,
			},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ProbablyUnique(tt.stats))
		})
	}
}
