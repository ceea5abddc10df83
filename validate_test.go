package verdict

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_Passing(t *testing.T) {
	testCases := []struct {
		name        string
		data        any
		requirement any
	}{
		{"equal scalars", 5, 5},
		{"numeric widths", 10, 10.0},
		{"set membership with duplicates", []any{"B", "A", "A"}, NewSet("A", "B")},
		{"equal sequences", []any{1, 2, 3}, []any{1, 2, 3}},
		{"equal mappings", map[string]any{"a": 10}, map[string]any{"a": 10}},
		{"wildcard", "anything", Any},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.NoError(t, Validate(tc.data, tc.requirement))
		})
	}
}

func TestValidate_ExtraValues(t *testing.T) {
	err := Validate([]any{"A", "B", "C", "D"}, NewSet("A", "B"))

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, 2, verr.Count())
	assert.Equal(t, []Difference{Extra{Value: "C"}, Extra{Value: "D"}}, verr.Differences.List())
	assert.Equal(t, "does not satisfy set membership", verr.Description)
}

func TestValidate_MissingValues(t *testing.T) {
	err := Validate([]any{"A", "B"}, NewSet("A", "B", "C", "D"))

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []Difference{Missing{Value: "C"}, Missing{Value: "D"}}, verr.Differences.List())
}

func TestValidate_MappingDeviation(t *testing.T) {
	err := Validate(
		map[string]any{"x": 100, "y": 200, "C": 299},
		map[string]any{"x": 100, "y": 200, "C": 300},
	)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.True(t, verr.Differences.IsKeyed())

	keyed := verr.Differences.Keyed()
	assert.Len(t, keyed, 1)
	assert.Equal(t, []Difference{Deviation{Delta: -1, Expected: 300}}, keyed["C"])
	assert.Equal(t, "does not satisfy mapping requirement", verr.Description)
}

func TestValidate_DeviationArithmetic(t *testing.T) {
	t.Run("positive delta", func(t *testing.T) {
		err := Validate(map[string]any{"a": 11}, map[string]any{"a": 10})
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, []Difference{Deviation{Delta: 1, Expected: 10}}, verr.Differences.Keyed()["a"])
	})

	t.Run("nil coerces to zero", func(t *testing.T) {
		err := Validate(map[string]any{"a": nil}, map[string]any{"a": 5})
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, []Difference{Deviation{Delta: -5, Expected: 5}}, verr.Differences.Keyed()["a"])
	})

	t.Run("equal numbers raise nothing", func(t *testing.T) {
		assert.NoError(t, Validate(map[string]any{"a": 10}, map[string]any{"a": 10}))
	})
}

func TestValidate_ElementInvalid(t *testing.T) {
	err := Validate("hello", "world")

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []Difference{Invalid{Value: "hello", Expected: "world"}}, verr.Differences.List())
	assert.Equal(t, "does not satisfy equality", verr.Description)
}

func TestValidate_ElementDeviation(t *testing.T) {
	err := Validate(11, 10)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []Difference{Deviation{Delta: 1, Expected: 10}}, verr.Differences.List())
}

func TestValidate_CustomMessage(t *testing.T) {
	err := Validate([]any{"X"}, NewSet("A"), "unknown region code")

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "unknown region code", verr.Description)
}

func TestValidate_OrderSensitivity(t *testing.T) {
	// Permutation passes against a set requirement but fails against an
	// ordered sequence requirement.
	assert.NoError(t, Validate([]any{"b", "a"}, NewSet("a", "b")))

	err := Validate([]any{"b", "a"}, []any{"a", "b"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "does not satisfy ordered sequence", verr.Description)
	assert.NotEmpty(t, verr.Differences.List())
}

func TestValidate_ConfigErrorIsNotValidationError(t *testing.T) {
	err := Validate([]any{1}, map[string]any{"a": 1})
	require.Error(t, err)

	var verr *ValidationError
	assert.False(t, errors.As(err, &verr))
	assert.True(t, IsConfigError(err))
}

func TestValid(t *testing.T) {
	assert.True(t, Valid([]any{"A"}, NewSet("A", "B")))
	assert.False(t, Valid([]any{"X"}, NewSet("A", "B")))

	assert.Panics(t, func() {
		Valid([]any{1}, map[string]any{"a": 1})
	}, "configuration errors are programmer errors")
}

func TestSetEnabled(t *testing.T) {
	SetEnabled(false)
	defer SetEnabled(true)

	assert.False(t, Enabled())
	assert.NoError(t, Validate([]any{"X"}, NewSet("A")), "disabled engine validates nothing")
}

func TestValidationError_Message(t *testing.T) {
	err := Validate([]any{"A", "B", "C", "D"}, NewSet("A", "B"))
	require.Error(t, err)

	msg := err.Error()
	assert.Contains(t, msg, "does not satisfy set membership (2 differences):")
	assert.Contains(t, msg, `Extra("C")`)
	assert.Contains(t, msg, `Extra("D")`)
}

func TestValidationError_SingularCount(t *testing.T) {
	err := Validate(5, 6)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "(1 difference):")
}
