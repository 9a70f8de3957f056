package recordparser

import (
	"errors"
	"fmt"
)

// ErrorKind identifies which grammar rule a line violated.
type ErrorKind int

const (
	// MalformedLeaf: missing digit run, missing separator or unknown keyword.
	MalformedLeaf ErrorKind = iota + 1
	// EmptyGroup: no leaf before a group terminator.
	EmptyGroup
	// MissingIdentifier: no digit run after the label.
	MissingIdentifier
	// MissingDelimiter: no ':' after the identifier.
	MissingDelimiter
	// NumericOverflow: digit run does not fit in a uint64.
	NumericOverflow
	// UnexpectedInput: content left over after the last group.
	UnexpectedInput
)

// Sentinels for errors.Is. A *ParseError matches the sentinel of its kind.
var (
	ErrMalformedLeaf     = errors.New("malformed leaf")
	ErrEmptyGroup        = errors.New("empty group")
	ErrMissingIdentifier = errors.New("missing identifier")
	ErrMissingDelimiter  = errors.New("missing delimiter")
	ErrNumericOverflow   = errors.New("numeric overflow")
	ErrUnexpectedInput   = errors.New("unexpected input")
)

func (k ErrorKind) sentinel() error {
	switch k {
	case MalformedLeaf:
		return ErrMalformedLeaf
	case EmptyGroup:
		return ErrEmptyGroup
	case MissingIdentifier:
		return ErrMissingIdentifier
	case MissingDelimiter:
		return ErrMissingDelimiter
	case NumericOverflow:
		return ErrNumericOverflow
	case UnexpectedInput:
		return ErrUnexpectedInput
	default:
		return nil
	}
}

func (k ErrorKind) String() string {
	if s := k.sentinel(); s != nil {
		return s.Error()
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// ParseError reports a grammar violation inside a single line.
type ParseError struct {
	Kind    ErrorKind
	Message string
	Column  int // 1-based byte column within the line
	Cause   error
}

func (e *ParseError) Error() string {
	if e.Column > 0 {
		return fmt.Sprintf("%s at column %d: %s", e.Kind, e.Column, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *ParseError) Unwrap() error { return e.Cause }

// Is matches the sentinel error for the kind.
func (e *ParseError) Is(target error) bool {
	return target != nil && target == e.Kind.sentinel()
}

// LineError attaches line context to a ParseError raised by the batch parser.
type LineError struct {
	Line int // 1-based
	Text string
	Err  error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d: %v (%q)", e.Line, e.Err, e.Text)
}

func (e *LineError) Unwrap() error { return e.Err }

// Kind returns the ErrorKind carried by err, or 0 when err is not a parse error.
func Kind(err error) ErrorKind {
	var pe *ParseError
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return 0
}
