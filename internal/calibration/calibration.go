// =============================================================================
// Cube Tally - Calibration Values
// =============================================================================
//
// This module recovers calibration values from free-form text lines.
//
// RULES:
//   - The first and last digit of a line form a two-digit value
//     (10*first + last). A line with a single digit uses it twice.
//   - A line with no digits contributes 0.
//   - With SpelledDigits, the words "one" through "nine" count as digits.
//     Words may overlap: "eightwo" yields 8 then 2.
//
// EXAMPLE:
//   "pqr3stu8vwx"  -> 38
//   "xtwone3four"  -> 24 (spelled digits enabled)
//
// =============================================================================

package calibration

import (
	"strings"
	"sync"

	"github.com/ginjaninja78/cube-tally/pkg/utils"
)

// Options controls how digits are recognised.
type Options struct {
	SpelledDigits bool
}

type spelledDigit struct {
	word  string
	value uint64
}

// spelledDigits is built on first use and shared read-only afterwards.
var spelledDigits = sync.OnceValue(func() []spelledDigit {
	words := []string{"one", "two", "three", "four", "five", "six", "seven", "eight", "nine"}
	table := make([]spelledDigit, len(words))
	for i, w := range words {
		table[i] = spelledDigit{word: w, value: uint64(i + 1)}
	}
	return table
})

// Sum returns the total of the calibration values of every line in input.
// Empty input sums to 0.
func Sum(input string, opts Options) uint64 {
	var total uint64
	for _, line := range utils.SplitLines(input) {
		total += LineValue(line, opts)
	}
	return total
}

// LineValue returns the calibration value of one line.
func LineValue(line string, opts Options) uint64 {
	var first, last uint64
	found := false

	for i := 0; i < len(line); i++ {
		d, ok := digitAt(line, i, opts)
		if !ok {
			continue
		}
		if !found {
			first = d
			found = true
		}
		last = d
	}

	if !found {
		return 0
	}
	return first*10 + last
}

// digitAt reports the digit starting at line[i], if any.
func digitAt(line string, i int, opts Options) (uint64, bool) {
	if c := line[i]; c >= '0' && c <= '9' {
		return uint64(c - '0'), true
	}
	if !opts.SpelledDigits {
		return 0, false
	}
	for _, sd := range spelledDigits() {
		if strings.HasPrefix(line[i:], sd.word) {
			return sd.value, true
		}
	}
	return 0, false
}
