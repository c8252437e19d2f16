package csv

import (
	"errors"
	"fmt"
	"strings"

	"github.com/periodic/csvdec/internal/parser"
)

// Grammar sentinels, surfaced from the parser so callers can match them
// with errors.Is through a ParseError.
var (
	// ErrBareQuote indicates a '"' inside a non-quoted field.
	ErrBareQuote = parser.ErrBareQuote

	// ErrQuote indicates stray characters between a closing quote and the
	// next separator or line break.
	ErrQuote = parser.ErrQuote

	// ErrUnterminatedQuote indicates the input ended inside a quoted field.
	ErrUnterminatedQuote = parser.ErrUnterminatedQuote

	// ErrInvalidSeparator is returned by ParseWith for a separator rune the
	// grammar cannot accommodate.
	ErrInvalidSeparator = errors.New("invalid field separator")
)

// Decode sentinels.
var (
	// ErrPastEnd indicates a positional decoder ran out of fields.
	ErrPastEnd = errors.New("past end of record")

	// ErrNoDecoderSucceeded indicates every OneOf alternative failed.
	ErrNoDecoderSucceeded = errors.New("no decoders succeeded")
)

// ParseError is one positional grammar diagnostic.
type ParseError struct {
	// StartLine is the line the failing record started on (1-indexed).
	StartLine int
	// Line is the line where the error occurred (1-indexed).
	Line int
	// Column is the column where the error occurred (1-indexed, in runes).
	Column int
	// Err is the underlying grammar error.
	Err error
}

// Error returns a formatted message with position information.
func (e *ParseError) Error() string {
	if e.StartLine == e.Line {
		return fmt.Sprintf("parse error on line %d, column %d: %v", e.Line, e.Column, e.Err)
	}
	return fmt.Sprintf("parse error on line %d (started line %d), column %d: %v",
		e.Line, e.StartLine, e.Column, e.Err)
}

// Unwrap returns the underlying grammar error.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// ParseErrors is every grammar diagnostic from one parse, in input order.
// Parsing is all-or-nothing, so a non-empty ParseErrors means no Document.
type ParseErrors []*ParseError

// Error renders one line per diagnostic.
func (e ParseErrors) Error() string {
	if len(e) == 1 {
		return e[0].Error()
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d parse errors:", len(e))
	for _, pe := range e {
		sb.WriteString("\n\t")
		sb.WriteString(pe.Error())
	}
	return sb.String()
}

// Unwrap exposes the diagnostics to errors.Is and errors.As.
func (e ParseErrors) Unwrap() []error {
	errs := make([]error, len(e))
	for i, pe := range e {
		errs[i] = pe
	}
	return errs
}

// DecodeError is one record's decode failure.
type DecodeError struct {
	// Record is the index of the failing record within Document.Records
	// (0-indexed; the header row is not counted).
	Record int
	// Err is the failing step's error.
	Err error
}

// Error returns the record index with the failing step's message.
func (e *DecodeError) Error() string {
	return fmt.Sprintf("record %d: %v", e.Record, e.Err)
}

// Unwrap returns the failing step's error.
func (e *DecodeError) Unwrap() error {
	return e.Err
}

// DecodeErrors collects one entry per record that failed to decode, ordered
// by record index. A single failing record suppresses the decoded values:
// the batch fully succeeds or reports every failure.
type DecodeErrors []*DecodeError

// Error renders one line per failing record.
func (e DecodeErrors) Error() string {
	if len(e) == 1 {
		return e[0].Error()
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d decode errors:", len(e))
	for _, de := range e {
		sb.WriteString("\n\t")
		sb.WriteString(de.Error())
	}
	return sb.String()
}

// Unwrap exposes the per-record failures to errors.Is and errors.As.
func (e DecodeErrors) Unwrap() []error {
	errs := make([]error, len(e))
	for i, de := range e {
		errs[i] = de
	}
	return errs
}

// UnknownFieldError is returned by Field when no unvisited field carries
// the requested name.
type UnknownFieldError struct {
	// Name is the header name that was looked up.
	Name string
}

// Error names the missing field.
func (e *UnknownFieldError) Error() string {
	return "no field named " + e.Name
}
