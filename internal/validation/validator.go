// =============================================================================
// Cube Tally - Validation Engine
// =============================================================================
//
// This module decides whether a parsed Record is possible for a given bag of
// cubes.
//
// VALIDATION RULE:
//   A Record is valid when every Leaf of every Group has a quantity no larger
//   than the configured limit for its Category. A Category missing from a
//   Group is within limits for that Group. Duplicate Leaves of one Category
//   inside a Group are checked one by one, not summed.
//
// VALIDATION STRATEGY:
//   Validation is performed at two levels:
//   1. Leaf-level: one quantity against one limit
//   2. Record-level: conjunction over all Groups and Leaves, stopping at the
//      first violation
//
//   The validator never fails. It only reports a decision, optionally with
//   the violation that caused it.
//
// =============================================================================

package validation

import (
	"fmt"
	"strings"

	"github.com/ginjaninja78/cube-tally/internal/types"
)

// =============================================================================
// VALIDATOR
// =============================================================================

// Validator checks Records against a fixed set of limits.
// It holds no mutable state and is safe for concurrent use.
type Validator struct {
	limits types.Limits
}

// NewValidator creates a new Validator for the given limits.
func NewValidator(limits types.Limits) *Validator {
	return &Validator{limits: limits}
}

// Limits returns the limits the validator checks against.
func (v *Validator) Limits() types.Limits {
	return v.limits
}

// =============================================================================
// MAIN VALIDATION FUNCTIONS
// =============================================================================

// Valid reports whether every Leaf in the record respects its limit.
func (v *Validator) Valid(record types.Record) bool {
	_, violated := v.FirstViolation(record)
	return !violated
}

// FirstViolation returns the first Leaf, in textual order, that exceeds its
// limit.
//
// RETURNS:
//   - The violation, or nil.
//   - true if a violation was found.
func (v *Validator) FirstViolation(record types.Record) (*types.Violation, bool) {
	for gi, group := range record.Groups {
		for li, leaf := range group.Leaves {
			if v.ValidLeaf(leaf) {
				continue
			}
			return &types.Violation{
				RecordID:   record.ID,
				GroupIndex: gi,
				LeafIndex:  li,
				Category:   leaf.Category,
				Quantity:   leaf.Quantity,
				Limit:      v.limits.Max(leaf.Category),
			}, true
		}
	}
	return nil, false
}

// ValidLeaf checks a single Leaf against its Category limit.
func (v *Validator) ValidLeaf(leaf types.Leaf) bool {
	return leaf.Quantity <= v.limits.Max(leaf.Category)
}

// Evaluate validates a record and packages the decision as an Outcome.
func (v *Validator) Evaluate(record types.Record) types.Outcome {
	violation, violated := v.FirstViolation(record)
	return types.Outcome{
		Record:    record,
		Valid:     !violated,
		Violation: violation,
	}
}

// EvaluateAll validates every record, preserving order.
func (v *Validator) EvaluateAll(records []types.Record) []types.Outcome {
	outcomes := make([]types.Outcome, len(records))
	for i, record := range records {
		outcomes[i] = v.Evaluate(record)
	}
	return outcomes
}

// =============================================================================
// ERROR FORMATTING
// =============================================================================

// FormatViolations formats the violations among outcomes for display or
// logging.
func FormatViolations(outcomes []types.Outcome) string {
	var violations []*types.Violation
	for _, o := range outcomes {
		if o.Violation != nil {
			violations = append(violations, o.Violation)
		}
	}

	if len(violations) == 0 {
		return "No limit violations."
	}

	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("%d record(s) exceed the limits:\n", len(violations)))
	for i, v := range violations {
		builder.WriteString(fmt.Sprintf("%d. %s\n", i+1, v.Error()))
	}
	return builder.String()
}
