package verdict

import (
	"math/rand"
	"reflect"
	"regexp"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiffGroupSet(t *testing.T) {
	t.Run("extras in first-seen order", func(t *testing.T) {
		diffs := diffGroupSet([]any{"A", "B", "C", "D"}, NewSet("A", "B"))
		assert.Equal(t, []Difference{Extra{Value: "C"}, Extra{Value: "D"}}, diffs)
	})

	t.Run("missing per absent member", func(t *testing.T) {
		diffs := diffGroupSet([]any{"A", "B"}, NewSet("A", "B", "C", "D"))
		assert.Equal(t, []Difference{Missing{Value: "C"}, Missing{Value: "D"}}, diffs)
	})

	t.Run("extra duplicates preserved per occurrence", func(t *testing.T) {
		diffs := diffGroupSet([]any{"A", "X", "X"}, NewSet("A"))
		assert.Equal(t, []Difference{Extra{Value: "X"}, Extra{Value: "X"}}, diffs)
	})

	t.Run("repeats of present members are not checked", func(t *testing.T) {
		diffs := diffGroupSet([]any{"A", "A", "A"}, NewSet("A"))
		assert.Empty(t, diffs)
	})

	t.Run("subset passes", func(t *testing.T) {
		diffs := diffGroupSet([]any{"B", "A"}, NewSet("A", "B", "C"))
		assert.Equal(t, []Difference{Missing{Value: "C"}}, diffs)
	})
}

func TestDiffGroupSet_OrderInvariance(t *testing.T) {
	// Permuting the data must not change the Missing/Extra multiset.
	set := NewSet("A", "B", "C")
	data := []any{"A", "X", "B", "Y", "X"}

	want := renderAll(diffGroupSet(data, set))
	sort.Strings(want)

	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 20; i++ {
		shuffled := append([]any(nil), data...)
		rng.Shuffle(len(shuffled), func(a, b int) {
			shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
		})
		got := renderAll(diffGroupSet(shuffled, set))
		sort.Strings(got)
		assert.Equal(t, want, got)
	}
}

func renderAll(diffs []Difference) []string {
	out := make([]string, len(diffs))
	for i, d := range diffs {
		out[i] = d.String()
	}
	return out
}

func TestBroadcast(t *testing.T) {
	t.Run("failures keep data order and duplicates", func(t *testing.T) {
		pred := TypeCheck{Type: reflect.TypeOf("")}
		diffs := broadcast([]any{"ok", 1, "ok", 1, 2}, pred)
		assert.Equal(t, []Difference{
			Invalid{Value: 1},
			Invalid{Value: 1},
			Invalid{Value: 2},
		}, diffs)
	})

	t.Run("callable difference is carried through", func(t *testing.T) {
		pred := Callable{Fn: func(v any) any {
			if v == "bad" {
				return Invalid{Value: v, Expected: "good"}
			}
			return true
		}}
		diffs := broadcast([]any{"fine", "bad"}, pred)
		assert.Equal(t, []Difference{Invalid{Value: "bad", Expected: "good"}}, diffs)
	})
}

func TestDeviationFor(t *testing.T) {
	testCases := []struct {
		name     string
		actual   any
		expected any
		diff     Difference
		handled  bool
	}{
		{"positive delta", 11, 10, Deviation{Delta: 1, Expected: 10}, true},
		{"negative delta", 9, 10, Deviation{Delta: -1, Expected: 10}, true},
		{"nil coerces to zero", nil, 5, Deviation{Delta: -5, Expected: 5}, true},
		{"empty string coerces to zero", "", 5, Deviation{Delta: -5, Expected: 5}, true},
		{"actual numeric expected nil", 5, nil, Deviation{Delta: 5, Expected: 0}, true},
		{"zero delta handled without difference", 5.0, 5, nil, true},
		{"non-numeric actual", "x", 5, nil, false},
		{"non-numeric expected", 5, "x", nil, false},
		{"both empty is not a deviation", nil, "", nil, false},
		{"bool is not numeric", true, 1, nil, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			diff, handled := deviationFor(tc.actual, tc.expected)
			assert.Equal(t, tc.handled, handled)
			if tc.diff == nil {
				assert.Nil(t, diff)
			} else {
				assert.Equal(t, tc.diff, diff)
			}
		})
	}
}

func TestCompareMapping_UnionOfKeys(t *testing.T) {
	data := map[string]any{"a": 1, "b": 2, "d": 4}
	requirement := map[string]any{"a": 1, "b": 3, "c": 9}

	c, err := compareMapping(data, requirement)
	require.NoError(t, err)
	require.True(t, c.IsKeyed())

	keyed := c.Keyed()
	assert.Len(t, keyed, 3)
	assert.Equal(t, []Difference{Deviation{Delta: -1, Expected: 3}}, keyed["b"])
	assert.Equal(t, []Difference{Missing{Value: 9}}, keyed["c"])
	assert.Equal(t, []Difference{Extra{Value: 4}}, keyed["d"])
}

func TestCompareMapping_GroupValues(t *testing.T) {
	data := map[string]any{
		"north": []any{"beef", "pork"},
		"south": []any{"fish"},
		"west":  []any{"tofu"},
	}
	requirement := map[string]any{
		"north": NewSet("beef", "pork"),
		"south": NewSet("fish", "chicken"),
		"east":  NewSet("rice"),
	}

	c, err := compareMapping(data, requirement)
	require.NoError(t, err)

	keyed := c.Keyed()
	assert.Len(t, keyed, 3)
	assert.Equal(t, []Difference{Missing{Value: "chicken"}}, keyed["south"])
	assert.Equal(t, []Difference{Missing{Value: "rice"}}, keyed["east"], "absent key compares as empty group")
	assert.Equal(t, []Difference{Extra{Value: "tofu"}}, keyed["west"])
}

func TestCompareValue_SequenceRequirement(t *testing.T) {
	diffs, err := compareValue([]any{"a", "c"}, []any{"a", "b", "c"})
	require.NoError(t, err)
	assert.Equal(t, []Difference{Missing{Value: "b"}}, diffs)

	_, err = compareValue("scalar", []any{"a"})
	require.Error(t, err)
	assert.True(t, IsShapeMismatch(err))
}

func TestCompareValue_NestedMappingRejected(t *testing.T) {
	_, err := compareValue(map[string]any{"x": 1}, map[string]any{"x": 1})
	require.Error(t, err)
	assert.True(t, IsShapeMismatch(err))
}

func TestCompare_ElementRequirementBroadcastOverMapping(t *testing.T) {
	data := map[string]any{"a": "x1", "b": "oops", "c": "x2"}
	pattern := regexp.MustCompile(`^x\d$`)

	c, mode, err := compare(data, pattern)
	require.NoError(t, err)
	assert.Equal(t, "regular expression", mode)
	require.True(t, c.IsKeyed())

	keyed := c.Keyed()
	assert.Len(t, keyed, 1)
	assert.Equal(t, []Difference{Invalid{Value: "oops", Expected: pattern}}, keyed["b"])
}

func TestCompare_ShapeMismatchIsConfigError(t *testing.T) {
	t.Run("mapping requirement vs group data", func(t *testing.T) {
		_, _, err := compare([]any{1, 2}, map[string]any{"a": 1})
		require.Error(t, err)
		assert.True(t, IsShapeMismatch(err))
	})

	t.Run("mapping requirement vs element data", func(t *testing.T) {
		_, _, err := compare("scalar", map[string]any{"a": 1})
		require.Error(t, err)
		assert.True(t, IsShapeMismatch(err))
	})

	t.Run("sequence requirement vs element data", func(t *testing.T) {
		_, _, err := compare(42, []any{1, 2})
		require.Error(t, err)
		assert.True(t, IsShapeMismatch(err))
	})
}
