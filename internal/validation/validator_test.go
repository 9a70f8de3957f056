package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/cube-tally/internal/recordparser"
	"github.com/ginjaninja78/cube-tally/internal/types"
)

func mustParse(t *testing.T, line string) types.Record {
	t.Helper()
	record, err := recordparser.ParseRecord(line)
	require.NoError(t, err)
	return record
}

func TestValidScenarios(t *testing.T) {
	v := NewValidator(types.DefaultLimits())

	assert.True(t, v.Valid(mustParse(t, "Game 1: 3 red, 4 blue; 1 red, 2 green, 6 blue; 2 green")))
	assert.False(t, v.Valid(mustParse(t, "Game 3: 20 red, 8 blue; 4 blue, 5 red")))
}

func TestLimitsAreInclusive(t *testing.T) {
	v := NewValidator(types.DefaultLimits())

	assert.True(t, v.Valid(mustParse(t, "Game 1: 12 red, 13 green, 14 blue")))
	assert.False(t, v.Valid(mustParse(t, "Game 2: 13 red")))
	assert.False(t, v.Valid(mustParse(t, "Game 3: 14 green")))
	assert.False(t, v.Valid(mustParse(t, "Game 4: 15 blue")))
}

func TestFirstViolation(t *testing.T) {
	v := NewValidator(types.DefaultLimits())

	violation, found := v.FirstViolation(mustParse(t, "Game 7: 1 red; 2 green, 15 blue, 20 red"))
	require.True(t, found)
	assert.Equal(t, &types.Violation{
		RecordID:   7,
		GroupIndex: 1,
		LeafIndex:  1,
		Category:   types.Blue,
		Quantity:   15,
		Limit:      14,
	}, violation)
	assert.Equal(t, "record 7, group 2: 15 blue exceeds limit of 14", violation.Error())

	violation, found = v.FirstViolation(mustParse(t, "Game 8: 1 red"))
	assert.False(t, found)
	assert.Nil(t, violation)
}

func TestDuplicateCategoriesCheckedPerLeaf(t *testing.T) {
	v := NewValidator(types.Limits{Red: 5, Green: 5, Blue: 5})

	// 3 + 4 red exceeds 5 in total, but each leaf is within the limit.
	assert.True(t, v.Valid(mustParse(t, "Game 1: 3 red, 4 red")))
	assert.False(t, v.Valid(mustParse(t, "Game 2: 3 red, 6 red")))
}

func TestValidIsMonotonicInLimits(t *testing.T) {
	records := []types.Record{
		mustParse(t, "Game 1: 3 red, 4 blue; 1 red, 2 green, 6 blue; 2 green"),
		mustParse(t, "Game 3: 20 red, 8 blue; 4 blue, 5 red"),
		mustParse(t, "Game 4: 1 green, 3 red, 6 blue; 3 green, 6 red; 3 green, 15 blue, 14 red"),
		mustParse(t, "Game 9: 0 red"),
	}

	for _, record := range records {
		for red := uint64(0); red <= 22; red += 2 {
			for _, bump := range []uint64{1, 5, 100} {
				base := types.Limits{Red: red, Green: 13, Blue: 14}
				raised := base
				raised.Red += bump
				raised.Green += bump
				raised.Blue += bump

				if NewValidator(base).Valid(record) {
					assert.True(t, NewValidator(raised).Valid(record),
						"record %d valid under %+v but not %+v", record.ID, base, raised)
				}
			}
		}
	}
}

func TestValidIsPermutationInvariant(t *testing.T) {
	v := NewValidator(types.DefaultLimits())
	record := mustParse(t, "Game 4: 1 green, 3 red, 6 blue; 3 green, 6 red; 3 green, 15 blue, 14 red")
	want := v.Valid(record)

	perms := [][]int{{0, 1, 2}, {0, 2, 1}, {1, 0, 2}, {1, 2, 0}, {2, 0, 1}, {2, 1, 0}}
	for _, perm := range perms {
		shuffled := types.Record{ID: record.ID}
		for _, idx := range perm {
			shuffled.Groups = append(shuffled.Groups, record.Groups[idx])
		}
		assert.Equal(t, want, v.Valid(shuffled), "permutation %v", perm)
	}
}

func TestEvaluateAll(t *testing.T) {
	v := NewValidator(types.DefaultLimits())
	outcomes := v.EvaluateAll([]types.Record{
		mustParse(t, "Game 1: 3 red"),
		mustParse(t, "Game 2: 30 red"),
	})

	require.Len(t, outcomes, 2)
	assert.True(t, outcomes[0].Valid)
	assert.Nil(t, outcomes[0].Violation)
	assert.False(t, outcomes[1].Valid)
	require.NotNil(t, outcomes[1].Violation)
	assert.Equal(t, uint64(2), outcomes[1].Violation.RecordID)

	assert.Contains(t, FormatViolations(outcomes), "1 record(s) exceed the limits")
	assert.Equal(t, "No limit violations.", FormatViolations(outcomes[:1]))
}
