// =============================================================================
// Cube Tally - Record Parser
// =============================================================================
//
// This module turns one line of game text into a types.Record.
//
// GRAMMAR:
//   record   := label digits ":" group (";" group)*
//   group    := leaf ("," leaf)*
//   leaf     := digits category
//   category := "red" | "green" | "blue"
//   label    := any run of non-digit characters (discarded)
//   digits   := one or more ASCII '0'-'9'
//
//   Spaces and tabs are ignored around ':', ';' and ',', and separate the
//   digits of a leaf from its category (at least one is required there).
//
// EXAMPLE:
//   Game 1: 3 blue, 4 red; 1 red, 2 green, 6 blue; 2 green
//
// The parser is a hand-written recursive descent over a byte cursor. Every
// failure is a *ParseError naming the violated rule and the column; nothing
// is recovered or defaulted.
//
// =============================================================================

package recordparser

import (
	"fmt"
	"strconv"

	"github.com/ginjaninja78/cube-tally/internal/types"
)

// =============================================================================
// PUBLIC ENTRY POINTS
// =============================================================================

// ParseLeaf parses a single "<digits> <category>" unit from the start of input.
//
// RETURNS:
//   - The parsed Leaf.
//   - The unconsumed remainder of input. Whitespace after the keyword is
//     consumed; the remainder starts at the next significant character.
//   - A *ParseError of kind MalformedLeaf or NumericOverflow.
func ParseLeaf(input string) (types.Leaf, string, error) {
	p := &parser{src: input}
	leaf, err := p.leaf()
	if err != nil {
		return types.Leaf{}, input, err
	}
	return leaf, p.rest(), nil
}

// ParseGroup parses one or more comma-separated leaves from the start of input.
// It stops before the first character that does not continue the group, so a
// following ';' is left in the remainder.
func ParseGroup(input string) (types.Group, string, error) {
	p := &parser{src: input}
	group, err := p.group()
	if err != nil {
		return types.Group{}, input, err
	}
	return group, p.rest(), nil
}

// ParseRecord parses a complete line. The whole line must be consumed.
func ParseRecord(line string) (types.Record, error) {
	p := &parser{src: line}
	return p.record()
}

// =============================================================================
// PARSER STATE
// =============================================================================

type parser struct {
	src string
	pos int // current byte offset
}

func (p *parser) atEnd() bool {
	return p.pos >= len(p.src)
}

func (p *parser) peek() byte {
	if p.atEnd() {
		return 0
	}
	return p.src[p.pos]
}

func (p *parser) rest() string {
	return p.src[p.pos:]
}

func (p *parser) skipSpace() {
	for !p.atEnd() && isSpace(p.src[p.pos]) {
		p.pos++
	}
}

// describe renders the character at offset for error messages.
func (p *parser) describe(offset int) string {
	if offset >= len(p.src) {
		return "end of line"
	}
	return fmt.Sprintf("%q", p.src[offset])
}

func (p *parser) errorAt(offset int, kind ErrorKind, format string, args ...any) *ParseError {
	return &ParseError{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
		Column:  offset + 1,
	}
}

// number consumes a digit run and converts it. An absent run is reported
// with the given kind; a run too large for uint64 is NumericOverflow.
func (p *parser) number(missing ErrorKind, what string) (uint64, error) {
	start := p.pos
	for !p.atEnd() && isDigit(p.src[p.pos]) {
		p.pos++
	}
	run := p.src[start:p.pos]
	if run == "" {
		return 0, p.errorAt(start, missing, "expected %s, got %s", what, p.describe(start))
	}

	value, err := strconv.ParseUint(run, 10, 64)
	if err != nil {
		return 0, &ParseError{
			Kind:    NumericOverflow,
			Message: fmt.Sprintf("%s %s does not fit in 64 bits", what, run),
			Column:  start + 1,
			Cause:   err,
		}
	}
	return value, nil
}

// =============================================================================
// PRODUCTIONS
// =============================================================================

func (p *parser) leaf() (types.Leaf, error) {
	p.skipSpace()

	quantity, err := p.number(MalformedLeaf, "quantity")
	if err != nil {
		return types.Leaf{}, err
	}

	if !isSpace(p.peek()) {
		return types.Leaf{}, p.errorAt(p.pos, MalformedLeaf,
			"expected whitespace after quantity %d, got %s", quantity, p.describe(p.pos))
	}
	p.skipSpace()

	// The whole letter run must be a keyword, so "reddish" is rejected
	// rather than read as "red" followed by junk.
	start := p.pos
	for !p.atEnd() && isLetter(p.src[p.pos]) {
		p.pos++
	}
	word := p.src[start:p.pos]
	category, ok := types.ParseCategory(word)
	if !ok {
		if word == "" {
			return types.Leaf{}, p.errorAt(start, MalformedLeaf,
				"expected category keyword, got %s", p.describe(start))
		}
		return types.Leaf{}, p.errorAt(start, MalformedLeaf, "unknown category %q", word)
	}

	p.skipSpace()
	return types.Leaf{Category: category, Quantity: quantity}, nil
}

func (p *parser) group() (types.Group, error) {
	p.skipSpace()
	if p.atEnd() || isTerminator(p.peek()) {
		return types.Group{}, p.errorAt(p.pos, EmptyGroup,
			"expected at least one leaf, got %s", p.describe(p.pos))
	}

	var leaves []types.Leaf
	for {
		leaf, err := p.leaf()
		if err != nil {
			return types.Group{}, err
		}
		leaves = append(leaves, leaf)

		p.skipSpace()
		if p.peek() != ',' {
			break
		}
		p.pos++
	}

	return types.Group{Leaves: leaves}, nil
}

func (p *parser) record() (types.Record, error) {
	// Label: everything before the first digit.
	for !p.atEnd() && !isDigit(p.src[p.pos]) {
		p.pos++
	}
	if p.atEnd() {
		return types.Record{}, p.errorAt(p.pos, MissingIdentifier,
			"no identifier after label %q", p.src)
	}

	id, err := p.number(MissingIdentifier, "identifier")
	if err != nil {
		return types.Record{}, err
	}

	p.skipSpace()
	if p.peek() != ':' {
		return types.Record{}, p.errorAt(p.pos, MissingDelimiter,
			"expected ':' after identifier %d, got %s", id, p.describe(p.pos))
	}
	p.pos++

	var groups []types.Group
	for {
		group, err := p.group()
		if err != nil {
			return types.Record{}, err
		}
		groups = append(groups, group)

		p.skipSpace()
		if p.peek() != ';' {
			break
		}
		p.pos++
	}

	p.skipSpace()
	if !p.atEnd() {
		return types.Record{}, p.errorAt(p.pos, UnexpectedInput,
			"unexpected %s after last group", p.describe(p.pos))
	}

	return types.Record{ID: id, Groups: groups}, nil
}

// =============================================================================
// CHARACTER CLASSES
// =============================================================================

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isSpace(c byte) bool { return c == ' ' || c == '\t' }

func isLetter(c byte) bool { return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') }

func isTerminator(c byte) bool { return c == ',' || c == ';' }
