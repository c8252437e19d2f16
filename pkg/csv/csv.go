// Package csv parses CSV text into a Document and decodes its records into
// typed Go values.
//
// Parsing is strict and all-or-nothing: quoted fields follow the doubled
// quote escape, tolerate no padding around the quotes, and may contain raw
// separators and line breaks; CRLF, CR, and LF line breaks are equivalent;
// a failed parse reports every malformed record and returns no Document.
// The first record of every Document is the header row.
//
// Decoding is combinator based: positional (Next) and named (Field) field
// decoders compose through Map2..Map6, OneOf, and AndThen into a
// Decoder[T] that runs once per record. Within one record the first
// failing step wins; across records every failure is collected.
//
// # Thread Safety
//
// All functions in this package are safe for concurrent use by multiple
// goroutines. Every parse call creates its own cursor and every decode
// call creates its own per-record state, so one Decoder value may serve
// any number of goroutines.
//
// # Example
//
//	type person struct {
//		Name string
//		Age  int
//	}
//
//	dec := csv.Map2(
//		func(name string, age int) person { return person{name, age} },
//		csv.Field("name", csv.String),
//		csv.Field("age", csv.Int),
//	)
//	doc, err := csv.Parse("name,age\nAlice,30\nBob,25")
//	people, err := csv.Decode(dec, doc, err)
//
// Struct-tag driven decoding is available through Auto and Unmarshal.
package csv

import (
	"context"
	"time"
	"unicode/utf8"

	"github.com/periodic/csvdec/internal/parser"
)

// DefaultSeparator is the field separator Parse assumes.
const DefaultSeparator = ','

// Document is the parsed form of one CSV input: the header row plus every
// data row, in input order. Records are not forced to the header's width;
// ragged rows parse cleanly and surface at decode time instead. A Document
// is plain data owned by the caller; nothing in this package retains or
// mutates one after returning it.
type Document struct {
	// Headers is the first record of the input. It is never empty: even an
	// empty input parses to a single empty-string header field.
	Headers []string
	// Records holds every record after the header row.
	Records [][]string
}

// Parse parses comma-separated text into a Document.
//
// If the text does not already end with a line break one is appended, so
// the last record needs no trailing terminator. An empty input is a
// Document with one empty header field and no records.
//
// On failure the returned error is a ParseErrors carrying one positional
// diagnostic per malformed record, and no Document is returned.
func Parse(text string) (Document, error) {
	return ParseWith(DefaultSeparator, text)
}

// ParseWith parses like Parse with a caller-chosen field separator. The
// separator replaces the comma in the grammar: it delimits unquoted fields
// and is ordinary content inside quoted ones, while the comma becomes an
// ordinary content character. Quote, line-break, and invalid runes are
// rejected with ErrInvalidSeparator.
func ParseWith(sep rune, text string) (Document, error) {
	if !validSeparator(sep) {
		return Document{}, ErrInvalidSeparator
	}

	start := time.Now()
	emitParseStart(context.Background(), string(sep), len(text))

	records, diags := parser.New(sep, text).Parse()
	if diags != nil {
		perrs := make(ParseErrors, len(diags))
		for i, d := range diags {
			perrs[i] = &ParseError{
				StartLine: d.StartLine,
				Line:      d.Line,
				Column:    d.Column,
				Err:       d.Err,
			}
		}
		emitParseComplete(context.Background(), string(sep), len(text), 0, 0, time.Since(start), perrs)
		return Document{}, perrs
	}

	doc := Document{Headers: records[0], Records: records[1:]}
	emitParseComplete(context.Background(), string(sep), len(text),
		len(doc.Headers), len(doc.Records), time.Since(start), nil)
	return doc, nil
}

// Validate checks comma-separated text against the grammar without
// retaining the parsed Document.
func Validate(text string) error {
	return ValidateWith(DefaultSeparator, text)
}

// ValidateWith is Validate with a caller-chosen field separator.
func ValidateWith(sep rune, text string) error {
	_, err := ParseWith(sep, text)
	return err
}

// validSeparator reports whether r can serve as the field separator. The
// quote and line-break runes already carry grammar meaning, and the
// replacement character would be indistinguishable from mangled input.
func validSeparator(r rune) bool {
	return r != 0 && r != '"' && r != '\n' && r != '\r' &&
		r != utf8.RuneError && utf8.ValidRune(r)
}
