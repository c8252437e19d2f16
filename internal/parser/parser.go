// Package parser implements single-pass cursor parsing for CSV text.
// Each production rule in the grammar corresponds to a parse function.
package parser

import (
	"errors"
	"strings"
	"unicode/utf8"
)

// Grammar errors wrapped into diagnostics.
var (
	// ErrBareQuote indicates a '"' inside a non-quoted field.
	ErrBareQuote = errors.New("bare \" in non-quoted field")

	// ErrQuote indicates stray characters between a closing quote and the
	// next separator or line break.
	ErrQuote = errors.New("extraneous characters after quoted field")

	// ErrUnterminatedQuote indicates the input ended inside a quoted field.
	ErrUnterminatedQuote = errors.New("unterminated quoted field")
)

// Diagnostic is one positional parse failure.
type Diagnostic struct {
	// StartLine is the line the failing record started on (1-indexed).
	StartLine int
	// Line is the line where the failure occurred (1-indexed).
	Line int
	// Column is the column where the failure occurred (1-indexed, in runes).
	Column int
	// Err is the underlying grammar error.
	Err error
}

// Parser is a single-pass cursor over the input's Unicode scalar values.
// The grammar needs at most one character of lookahead.
type Parser struct {
	input string
	sep   rune

	pos    int // byte offset into input
	line   int // 1-indexed
	column int // 1-indexed, counted in runes
	prevCR bool

	startLine int // line the record being parsed started on
}

// New creates a parser for the given field separator and input. If the
// input does not already end with a line break, one is appended so that
// every record, including the last, is uniformly terminated.
func New(sep rune, input string) *Parser {
	if !strings.HasSuffix(input, "\n") && !strings.HasSuffix(input, "\r") {
		input += "\n"
	}
	return &Parser{input: input, sep: sep, line: 1, column: 1}
}

// Parse parses the whole input and returns all records, the first of which
// is the header row. Thanks to the appended terminator the result always
// holds at least one record.
//
// Grammar:
//
//	Document = Record LineSep { Record LineSep } ;
//
// Parsing is all-or-nothing: on failure the collected diagnostics are
// returned and every record is discarded. After a malformed record the
// cursor skips to the next line break and keeps scanning, so a single pass
// reports every bad record in the input.
func (p *Parser) Parse() ([][]string, []Diagnostic) {
	records := make([][]string, 0, 16)
	var diags []Diagnostic

	for p.pos < len(p.input) {
		record, d := p.parseRecord()
		if d != nil {
			diags = append(diags, *d)
			p.skipRecord()
			continue
		}
		records = append(records, record)
	}

	if len(diags) > 0 {
		return nil, diags
	}
	return records, nil
}

// parseRecord parses one record and its terminating line break.
//
// Grammar:
//
//	Record = Field { Sep Field } LineSep ;
func (p *Parser) parseRecord() ([]string, *Diagnostic) {
	p.startLine = p.line
	fields := make([]string, 0, 8)

	field, d := p.parseField()
	if d != nil {
		return nil, d
	}
	fields = append(fields, field)

	for {
		if p.consumeLineSep() {
			return fields, nil
		}
		r, ok := p.peek()
		if !ok {
			// Unreachable once the input is terminator-suffixed: every
			// field stops at a separator, quote error, or line break.
			return fields, nil
		}
		if r != p.sep {
			return nil, p.diagnostic(ErrQuote)
		}
		p.advance()

		field, d = p.parseField()
		if d != nil {
			return nil, d
		}
		fields = append(fields, field)
	}
}

// parseField parses one field.
//
// Grammar:
//
//	Field = Escaped | NonEscaped ;
func (p *Parser) parseField() (string, *Diagnostic) {
	if r, ok := p.peek(); ok && r == '"' {
		return p.parseEscaped()
	}
	return p.parseNonEscaped()
}

// parseNonEscaped parses an unquoted field, which may be empty. Content is
// preserved verbatim, whitespace included, and sliced from the input
// without copying.
//
// Grammar:
//
//	NonEscaped = { any char except '"', Sep, LF, CR } ;
func (p *Parser) parseNonEscaped() (string, *Diagnostic) {
	start := p.pos
	for {
		r, ok := p.peek()
		if !ok || r == p.sep || r == '\n' || r == '\r' {
			return p.input[start:p.pos], nil
		}
		if r == '"' {
			return "", p.diagnostic(ErrBareQuote)
		}
		p.advance()
	}
}

// parseEscaped parses a quoted field. A doubled quote escapes one literal
// quote; separators and line breaks are ordinary content inside quotes,
// and content is copied from the source byte for byte, so it round-trips
// exactly like a non-escaped field. Padding around the quotes is not
// tolerated: the opening quote must be the first character of the field,
// and anything between the closing quote and the next separator or line
// break fails the record.
//
// Grammar:
//
//	Escaped      = '"' { any char except '"' | EscapedQuote } '"' ;
//	EscapedQuote = '""' ;
func (p *Parser) parseEscaped() (string, *Diagnostic) {
	openLine, openColumn := p.line, p.column
	p.advance() // opening quote

	var value strings.Builder
	start := p.pos
	for {
		r, ok := p.peek()
		if !ok {
			return "", p.diagnosticAt(openLine, openColumn, ErrUnterminatedQuote)
		}
		if r != '"' {
			p.advance()
			continue
		}
		value.WriteString(p.input[start:p.pos])
		p.advance()
		if next, ok := p.peek(); ok && next == '"' {
			p.advance()
			value.WriteByte('"')
			start = p.pos
			continue
		}
		return value.String(), nil
	}
}

// consumeLineSep consumes one line break if the cursor is on one.
// CRLF is matched before CR before LF (longest match first).
func (p *Parser) consumeLineSep() bool {
	r, ok := p.peek()
	if !ok {
		return false
	}
	switch r {
	case '\r':
		p.advance()
		if next, ok := p.peek(); ok && next == '\n' {
			p.advance()
		}
		return true
	case '\n':
		p.advance()
		return true
	}
	return false
}

// skipRecord discards input through the next line break so scanning can
// resume at the following record.
func (p *Parser) skipRecord() {
	for p.pos < len(p.input) {
		if p.consumeLineSep() {
			return
		}
		p.advance()
	}
}

// peek returns the rune at the cursor without consuming it.
func (p *Parser) peek() (rune, bool) {
	if p.pos >= len(p.input) {
		return 0, false
	}
	r, _ := utf8.DecodeRuneInString(p.input[p.pos:])
	return r, true
}

// advance consumes the rune at the cursor, tracking line and column.
// A CRLF pair counts as a single line advance.
func (p *Parser) advance() rune {
	r, size := utf8.DecodeRuneInString(p.input[p.pos:])
	p.pos += size
	switch r {
	case '\r':
		p.line++
		p.column = 1
		p.prevCR = true
	case '\n':
		if !p.prevCR {
			p.line++
			p.column = 1
		}
		p.prevCR = false
	default:
		p.column++
		p.prevCR = false
	}
	return r
}

// diagnostic builds a Diagnostic at the cursor's current position.
func (p *Parser) diagnostic(err error) *Diagnostic {
	return p.diagnosticAt(p.line, p.column, err)
}

// diagnosticAt builds a Diagnostic at an explicit position.
func (p *Parser) diagnosticAt(line, column int, err error) *Diagnostic {
	return &Diagnostic{StartLine: p.startLine, Line: line, Column: column, Err: err}
}
