package recordparser

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const sampleGames = `Game 1: 3 blue, 4 red; 1 red, 2 green, 6 blue; 2 green
Game 2: 1 blue, 2 green; 3 green, 4 blue, 1 red; 1 green, 1 blue
Game 3: 8 green, 6 blue, 20 red; 5 blue, 4 red, 13 green; 5 green, 1 red
Game 4: 1 green, 3 red, 6 blue; 3 green, 6 red; 3 green, 15 blue, 14 red
Game 5: 6 red, 1 blue, 3 green; 2 blue, 1 red, 2 green`

func TestParseBatch(t *testing.T) {
	records, err := ParseBatch(sampleGames)
	require.NoError(t, err)
	require.Len(t, records, 5)
	for i, r := range records {
		assert.Equal(t, uint64(i+1), r.ID)
	}
	assert.Len(t, records[2].Groups, 3)
}

func TestParseBatchEmptyInput(t *testing.T) {
	records, err := ParseBatch("")
	require.NoError(t, err)
	assert.NotNil(t, records)
	assert.Empty(t, records)
}

func TestParseBatchCRLF(t *testing.T) {
	records, err := ParseBatch("Game 1: 1 red\r\nGame 2: 2 blue\r")
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, uint64(2), records[1].ID)
}

func TestParseBatchFailsOnFirstMalformedLine(t *testing.T) {
	input := "Game 1: 1 red\nGame 5 5 red\nGame 3: 1 purple"
	records, err := ParseBatch(input)
	require.Error(t, err)
	assert.Nil(t, records)
	assert.ErrorIs(t, err, ErrMissingDelimiter)

	var le *LineError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, 2, le.Line)
	assert.Equal(t, "Game 5 5 red", le.Text)
	assert.Contains(t, err.Error(), "line 2:")
}

func TestParseBatchBlankLineIsMalformed(t *testing.T) {
	_, err := ParseBatch("Game 1: 1 red\n\nGame 2: 1 red")
	assert.ErrorIs(t, err, ErrMissingIdentifier)
}

func TestParseBatchConcurrentMatchesSequential(t *testing.T) {
	var lines []string
	for i := 1; i <= 500; i++ {
		lines = append(lines, fmt.Sprintf("Game %d: %d red, %d blue; %d green", i, i%20, i%17, i%13))
	}
	input := strings.Join(lines, "\n")

	want, err := ParseBatch(input)
	require.NoError(t, err)

	for _, workers := range []int{0, 1, 2, 8, 64} {
		got, err := ParseBatchConcurrent(context.Background(), input, workers)
		require.NoError(t, err)
		assert.Equal(t, want, got, "workers=%d", workers)
	}
}

func TestParseBatchConcurrentReportsLowestLine(t *testing.T) {
	var lines []string
	for i := 1; i <= 200; i++ {
		lines = append(lines, fmt.Sprintf("Game %d: 1 red", i))
	}
	lines[150] = "Game 151: 1 purple"
	lines[40] = "Game 41 1 red"
	lines[199] = "Game 200:"
	input := strings.Join(lines, "\n")

	_, seqErr := ParseBatch(input)
	require.Error(t, seqErr)

	for n := 0; n < 10; n++ {
		_, err := ParseBatchConcurrent(context.Background(), input, 16)
		require.Error(t, err)
		assert.Equal(t, seqErr.Error(), err.Error())

		var le *LineError
		require.ErrorAs(t, err, &le)
		assert.Equal(t, 41, le.Line)
		assert.ErrorIs(t, err, ErrMissingDelimiter)
	}
}

func TestParseBatchConcurrentCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := ParseBatchConcurrent(ctx, sampleGames, 4)
	assert.ErrorIs(t, err, context.Canceled)
}
