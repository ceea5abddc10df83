package verdict

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDiffSequence(t *testing.T) {
	testCases := []struct {
		name        string
		data        []any
		requirement []any
		want        []Difference
	}{
		{
			name:        "equal sequences",
			data:        []any{"a", "b", "c"},
			requirement: []any{"a", "b", "c"},
			want:        nil,
		},
		{
			name:        "missing run at end",
			data:        []any{"A", "B"},
			requirement: []any{"A", "B", "C", "D"},
			want:        []Difference{Missing{Value: "C"}, Missing{Value: "D"}},
		},
		{
			name:        "extra run at end",
			data:        []any{"A", "B", "C", "D"},
			requirement: []any{"A", "B"},
			want:        []Difference{Extra{Value: "C"}, Extra{Value: "D"}},
		},
		{
			name:        "missing run in middle",
			data:        []any{"a", "d"},
			requirement: []any{"a", "b", "c", "d"},
			want:        []Difference{Missing{Value: "b"}, Missing{Value: "c"}},
		},
		{
			name:        "replaced element",
			data:        []any{"a", "x", "c"},
			requirement: []any{"a", "b", "c"},
			want:        []Difference{Missing{Value: "b"}, Extra{Value: "x"}},
		},
		{
			name:        "empty data",
			data:        nil,
			requirement: []any{"a", "b"},
			want:        []Difference{Missing{Value: "a"}, Missing{Value: "b"}},
		},
		{
			name:        "empty requirement",
			data:        []any{"a", "b"},
			requirement: nil,
			want:        []Difference{Extra{Value: "a"}, Extra{Value: "b"}},
		},
		{
			name:        "both empty",
			data:        nil,
			requirement: nil,
			want:        nil,
		},
		{
			name:        "duplicates align",
			data:        []any{"a", "a", "b"},
			requirement: []any{"a", "b"},
			want:        []Difference{Extra{Value: "a"}},
		},
		{
			name:        "numeric elements align across widths",
			data:        []any{1, 2.0, 3},
			requirement: []any{1.0, 2, 4},
			want:        []Difference{Missing{Value: 4}, Extra{Value: 3}},
		},
		{
			name:        "order matters",
			data:        []any{"b", "a"},
			requirement: []any{"a", "b"},
			want:        []Difference{Missing{Value: "a"}, Extra{Value: "a"}},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, diffSequence(tc.data, tc.requirement))
		})
	}
}

func TestLCSPairs_PrefersEarliestDataMatch(t *testing.T) {
	// "a" occurs twice in data; the alignment must match the first one
	// so the second reads as extra.
	pairs := lcsPairs([]any{"a", "a"}, []any{"a"})
	assert.Equal(t, []alignPair{{di: 0, ri: 0}}, pairs)
}
