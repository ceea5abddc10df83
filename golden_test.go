package verdict

import (
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/require"
)

// Golden tests pin the rendered error reports. Regenerate with:
//
//	go test . -update
func assertGoldenError(t *testing.T, name string, err error) {
	t.Helper()
	require.Error(t, err)

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, []byte(err.Error()))
}

func TestGolden_SetMembershipReport(t *testing.T) {
	err := Validate([]any{"A", "B", "C", "D"}, NewSet("A", "B"))
	assertGoldenError(t, "set_membership", err)
}

func TestGolden_MappingDeviationReport(t *testing.T) {
	err := Validate(
		map[string]any{"x": 100, "y": 200, "C": 299},
		map[string]any{"x": 100, "y": 200, "C": 300},
	)
	assertGoldenError(t, "mapping_deviation", err)
}

func TestGolden_MappingOfGroupsReport(t *testing.T) {
	err := Validate(
		map[string]any{
			"north": []any{"beef", "pork"},
			"south": []any{"fish"},
			"west":  []any{"tofu"},
		},
		map[string]any{
			"north": NewSet("beef", "pork"),
			"south": NewSet("fish", "chicken"),
			"east":  NewSet("rice"),
		},
	)
	assertGoldenError(t, "mapping_of_groups", err)
}

func TestGolden_SequenceReport(t *testing.T) {
	err := Validate([]any{"jan", "feb", "apr", "may"}, []any{"jan", "feb", "mar", "apr"})
	assertGoldenError(t, "sequence", err)
}
