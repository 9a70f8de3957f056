package tally

import (
	"errors"
	"math/bits"

	"github.com/ginjaninja78/cube-tally/internal/types"
)

// ErrSumOverflow is returned when the identifiers of kept records do not fit
// in a uint64.
var ErrSumOverflow = errors.New("sum of identifiers overflows uint64")

// Predicate decides whether a record takes part in the sum.
type Predicate func(types.Record) bool

// Sum adds up the identifiers of records for which keep returns true.
// The result is zero when no record is kept.
func Sum(records []types.Record, keep Predicate) (uint64, error) {
	var total uint64
	for _, record := range records {
		if !keep(record) {
			continue
		}
		var carry uint64
		total, carry = bits.Add64(total, record.ID, 0)
		if carry != 0 {
			return 0, ErrSumOverflow
		}
	}
	return total, nil
}
