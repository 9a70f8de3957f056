// =============================================================================
// Cube Tally - Shared Types
// =============================================================================
//
// This package contains the record model shared by the parser, the validator,
// the aggregator and the report writers. Keeping it here avoids import cycles
// between those packages.
//
// MODEL:
//   Record   : one input line, an identifier plus an ordered list of Groups
//   Group    : one semicolon-delimited segment, a collection of Leaves
//   Leaf     : one comma-delimited "quantity category" unit
//   Category : red, green or blue
//   Limits   : maximum quantity allowed per Category
//
// All values are built once by the parser and never mutated afterwards.
//
// =============================================================================

package types

import (
	"strconv"
	"strings"
	"time"
)

// =============================================================================
// CATEGORY
// =============================================================================

// Category is one of the three cube colors a Leaf can name.
type Category uint8

const (
	Red Category = iota
	Green
	Blue
)

// Categories lists every Category in declaration order.
func Categories() []Category {
	return []Category{Red, Green, Blue}
}

// String returns the keyword used for the category in input text.
func (c Category) String() string {
	switch c {
	case Red:
		return "red"
	case Green:
		return "green"
	case Blue:
		return "blue"
	default:
		return "Category(" + strconv.Itoa(int(c)) + ")"
	}
}

// ParseCategory matches a keyword exactly. Matching is case-sensitive.
func ParseCategory(keyword string) (Category, bool) {
	switch keyword {
	case "red":
		return Red, true
	case "green":
		return Green, true
	case "blue":
		return Blue, true
	default:
		return 0, false
	}
}

// =============================================================================
// RECORD STRUCTURE
// =============================================================================

// DefaultLabel is the label written in front of the identifier when a Record
// is rendered back to text. The label read from input is discarded.
const DefaultLabel = "Game"

// Leaf is a single "quantity category" pair.
type Leaf struct {
	Category Category
	Quantity uint64
}

// String renders the leaf as "<quantity> <category>".
func (l Leaf) String() string {
	return strconv.FormatUint(l.Quantity, 10) + " " + l.Category.String()
}

// Group holds the Leaves of one semicolon-delimited segment.
//
// A well-formed input names each Category at most once per Group, but the
// parser keeps duplicates as separate Leaves.
type Group struct {
	Leaves []Leaf
}

// String renders the group with ", " between leaves.
func (g Group) String() string {
	parts := make([]string, len(g.Leaves))
	for i, leaf := range g.Leaves {
		parts[i] = leaf.String()
	}
	return strings.Join(parts, ", ")
}

// Record is one parsed input line.
type Record struct {
	// ID is the numeric identifier following the label.
	ID uint64

	// Groups are kept in textual order.
	Groups []Group
}

// String renders the canonical form of the record. Parsing the canonical
// form yields a Record equal to the receiver.
func (r Record) String() string {
	var b strings.Builder
	b.WriteString(DefaultLabel)
	b.WriteByte(' ')
	b.WriteString(strconv.FormatUint(r.ID, 10))
	b.WriteString(": ")
	for i, g := range r.Groups {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(g.String())
	}
	return b.String()
}

// LeafCount returns the number of Leaves across all Groups.
func (r Record) LeafCount() int {
	n := 0
	for _, g := range r.Groups {
		n += len(g.Leaves)
	}
	return n
}

// =============================================================================
// LIMITS
// =============================================================================

// Limits maps each Category to the maximum quantity a Leaf may carry.
type Limits struct {
	Red   uint64 `yaml:"red"`
	Green uint64 `yaml:"green"`
	Blue  uint64 `yaml:"blue"`
}

// DefaultLimits returns the bag contents used when nothing is configured:
// 12 red, 13 green and 14 blue cubes.
func DefaultLimits() Limits {
	return Limits{Red: 12, Green: 13, Blue: 14}
}

// Max returns the limit for a Category. Unknown categories get zero.
func (l Limits) Max(c Category) uint64 {
	switch c {
	case Red:
		return l.Red
	case Green:
		return l.Green
	case Blue:
		return l.Blue
	default:
		return 0
	}
}

// =============================================================================
// RUN SUMMARY
// =============================================================================

// Violation describes the first Leaf of a Record that exceeded its limit.
type Violation struct {
	RecordID   uint64
	GroupIndex int
	LeafIndex  int
	Category   Category
	Quantity   uint64
	Limit      uint64
}

// Error implements the error interface so violations can be logged as errors.
func (v *Violation) Error() string {
	return "record " + strconv.FormatUint(v.RecordID, 10) +
		", group " + strconv.Itoa(v.GroupIndex+1) +
		": " + strconv.FormatUint(v.Quantity, 10) + " " + v.Category.String() +
		" exceeds limit of " + strconv.FormatUint(v.Limit, 10)
}

// Outcome pairs a Record with its validation decision.
type Outcome struct {
	Record Record
	Valid  bool

	// Violation is nil when Valid is true.
	Violation *Violation
}

// Stats contains counters gathered during a run.
type Stats struct {
	Records int
	Valid   int
	Invalid int
	Groups  int
	Leaves  int

	// Duration is the wall time of the run.
	Duration time.Duration
}

// Summary is the result of processing one input source.
type Summary struct {
	// RunID uniquely identifies the run in logs and report names.
	RunID string

	// Source is the input file path, or a caller-supplied name.
	Source string

	// Sum is the total of identifiers of valid records.
	Sum uint64

	Limits   Limits
	Outcomes []Outcome
	Stats    Stats

	// ReportPath is set when a report was written.
	ReportPath string
}
