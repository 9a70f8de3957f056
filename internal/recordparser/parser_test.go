package recordparser

import (
	"errors"
	"strconv"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/cube-tally/internal/types"
)

func TestParseLeafEachCategory(t *testing.T) {
	for _, c := range types.Categories() {
		for _, n := range []uint64{0, 1, 7, 20, 18446744073709551615} {
			input := strconv.FormatUint(n, 10) + " " + c.String()
			leaf, rest, err := ParseLeaf(input)
			require.NoError(t, err, input)
			assert.Equal(t, types.Leaf{Category: c, Quantity: n}, leaf)
			assert.Empty(t, rest, input)
		}
	}
}

func TestParseLeafLeavesRemainder(t *testing.T) {
	leaf, rest, err := ParseLeaf("  3 blue , 4 red")
	require.NoError(t, err)
	assert.Equal(t, types.Leaf{Category: types.Blue, Quantity: 3}, leaf)
	assert.Equal(t, ", 4 red", rest)

	leaf, rest, err = ParseLeaf("12\tgreen; 1 red")
	require.NoError(t, err)
	assert.Equal(t, types.Leaf{Category: types.Green, Quantity: 12}, leaf)
	assert.Equal(t, "; 1 red", rest)
}

func TestParseLeafErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  error
	}{
		{"no digits", "red", ErrMalformedLeaf},
		{"empty", "", ErrMalformedLeaf},
		{"unknown keyword", "1 purple", ErrMalformedLeaf},
		{"keyword prefix", "1 reddish", ErrMalformedLeaf},
		{"uppercase keyword", "1 Red", ErrMalformedLeaf},
		{"no whitespace", "3red", ErrMalformedLeaf},
		{"missing keyword", "3 ", ErrMalformedLeaf},
		{"negative", "-3 red", ErrMalformedLeaf},
		{"overflow", "18446744073709551616 red", ErrNumericOverflow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, rest, err := ParseLeaf(tt.input)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
			assert.Equal(t, tt.input, rest, "input is not consumed on failure")

			var pe *ParseError
			require.ErrorAs(t, err, &pe)
			assert.Positive(t, pe.Column)
		})
	}
}

func TestParseLeafOverflowKeepsCause(t *testing.T) {
	_, _, err := ParseLeaf("99999999999999999999 blue")
	require.Error(t, err)
	assert.ErrorIs(t, err, strconv.ErrRange)
	assert.Equal(t, NumericOverflow, Kind(err))
}

func TestParseGroup(t *testing.T) {
	group, rest, err := ParseGroup(" 1 red, 2 green ,6 blue; 2 green")
	require.NoError(t, err)
	assert.Equal(t, []types.Leaf{
		{Category: types.Red, Quantity: 1},
		{Category: types.Green, Quantity: 2},
		{Category: types.Blue, Quantity: 6},
	}, group.Leaves)
	assert.Equal(t, "; 2 green", rest)
}

func TestParseGroupKeepsDuplicateCategories(t *testing.T) {
	group, rest, err := ParseGroup("3 red, 2 red")
	require.NoError(t, err)
	assert.Empty(t, rest)
	assert.Equal(t, []types.Leaf{
		{Category: types.Red, Quantity: 3},
		{Category: types.Red, Quantity: 2},
	}, group.Leaves)
}

func TestParseGroupErrors(t *testing.T) {
	tests := []struct {
		input string
		want  error
	}{
		{"", ErrEmptyGroup},
		{"   ", ErrEmptyGroup},
		{"; 3 red", ErrEmptyGroup},
		{", 3 red", ErrEmptyGroup},
		{"3 red,", ErrMalformedLeaf},
		{"3 red, ; 1 blue", ErrMalformedLeaf},
		{"3 red, 1 purple", ErrMalformedLeaf},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, _, err := ParseGroup(tt.input)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestParseRecordScenario(t *testing.T) {
	record, err := ParseRecord("Game 1: 3 red, 4 blue; 1 red, 2 green, 6 blue; 2 green")
	require.NoError(t, err)

	want := types.Record{
		ID: 1,
		Groups: []types.Group{
			{Leaves: []types.Leaf{{Category: types.Red, Quantity: 3}, {Category: types.Blue, Quantity: 4}}},
			{Leaves: []types.Leaf{{Category: types.Red, Quantity: 1}, {Category: types.Green, Quantity: 2}, {Category: types.Blue, Quantity: 6}}},
			{Leaves: []types.Leaf{{Category: types.Green, Quantity: 2}}},
		},
	}
	if diff := cmp.Diff(want, record); diff != "" {
		t.Errorf("ParseRecord mismatch (-want +got):\n%s", diff)
	}
}

func TestParseRecordLabelIsDiscarded(t *testing.T) {
	for _, line := range []string{
		"Game 42: 1 red",
		"42: 1 red",
		"Round #42 : 1 red",
		"\tgame   42:1 red",
	} {
		record, err := ParseRecord(line)
		require.NoError(t, err, line)
		assert.Equal(t, uint64(42), record.ID, line)
		require.Len(t, record.Groups, 1)
	}
}

func TestParseRecordErrors(t *testing.T) {
	tests := []struct {
		name   string
		line   string
		want   error
		column int
	}{
		{"missing colon", "Game 5 5 red", ErrMissingDelimiter, 8},
		{"unknown category", "Game 2: 1 purple", ErrMalformedLeaf, 11},
		{"colon inside label", "Game: 1 red", ErrMissingDelimiter, 9},
		{"label only", "Game", ErrMissingIdentifier, 5},
		{"empty line", "", ErrMissingIdentifier, 1},
		{"no groups", "Game 1:", ErrEmptyGroup, 8},
		{"dangling semicolon", "Game 1: 3 red;", ErrEmptyGroup, 15},
		{"empty middle group", "Game 1: 3 red;; 1 blue", ErrEmptyGroup, 15},
		{"trailing leaf without comma", "Game 1: 3 red 4 blue", ErrUnexpectedInput, 15},
		{"identifier overflow", "Game 18446744073709551616: 1 red", ErrNumericOverflow, 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseRecord(tt.line)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
			if tt.column > 0 {
				var pe *ParseError
				require.ErrorAs(t, err, &pe)
				assert.Equal(t, tt.column, pe.Column)
			}
		})
	}
}

func TestParseRecordRoundTrip(t *testing.T) {
	lines := []string{
		"Game 1: 3 blue, 4 red; 1 red, 2 green, 6 blue; 2 green",
		"Game 3:8 green,6 blue,20 red;5 blue,4 red,13 green;5 green,1 red",
		"Game   100 :  5 blue ,  5 green ;  7 blue , 15 green",
		"x0: 0 red, 0 red",
	}

	for _, line := range lines {
		first, err := ParseRecord(line)
		require.NoError(t, err, line)

		canonical := first.String()
		second, err := ParseRecord(canonical)
		require.NoError(t, err, canonical)

		if diff := cmp.Diff(first, second); diff != "" {
			t.Errorf("round trip of %q changed record (-first +second):\n%s", line, diff)
		}
		assert.Equal(t, canonical, second.String())
	}
}

func TestParseErrorMessage(t *testing.T) {
	_, err := ParseRecord("Game 5 5 red")
	require.Error(t, err)
	assert.Equal(t, `missing delimiter at column 8: expected ':' after identifier 5, got '5'`, err.Error())
	assert.False(t, errors.Is(err, ErrMalformedLeaf))
}
