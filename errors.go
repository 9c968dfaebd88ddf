package duphash

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedInput is matched by every *MalformedInputError.
	ErrMalformedInput = errors.New("malformed input")

	// ErrNonContiguousGroup is matched by every *NonContiguousGroupError.
	ErrNonContiguousGroup = errors.New("hash group is not contiguous")

	// ErrFinalized is returned by Add once Finalize has been called.
	ErrFinalized = errors.New("aggregator already finalized")
)

// MalformedInputError reports a line that cannot be parsed into
// (hash, producer, strategy).
type MalformedInputError struct {
	Line   int    // 1-based line number
	Column int    // 0-based column, -1 when the whole line is at fault
	Value  string // offending field or line
	Err    error  // underlying cause, may be nil
}

func (e *MalformedInputError) Error() string {
	msg := fmt.Sprintf("line %d", e.Line)
	if e.Column >= 0 {
		msg += fmt.Sprintf(", column %d", e.Column)
	}
	msg += fmt.Sprintf(": malformed input %q", e.Value)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *MalformedInputError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrMalformedInput) hold.
func (e *MalformedInputError) Is(target error) bool {
	return target == ErrMalformedInput
}

// NonContiguousGroupError reports a hash that reappeared after its group
// had already been closed. Only raised in strict modes.
type NonContiguousGroupError struct {
	Hash string
	Line int // line of the reappearing record, 0 when unknown
}

func (e *NonContiguousGroupError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: hash %q reappeared after its group was closed", e.Line, e.Hash)
	}
	return fmt.Sprintf("hash %q reappeared after its group was closed", e.Hash)
}

func (e *NonContiguousGroupError) Is(target error) bool {
	return target == ErrNonContiguousGroup
}
