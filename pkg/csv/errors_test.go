package csv_test

import (
	"errors"
	"testing"

	"github.com/periodic/csvdec/pkg/csv"
)

func TestParseError(t *testing.T) {
	t.Run("same line", func(t *testing.T) {
		err := &csv.ParseError{
			StartLine: 5,
			Line:      5,
			Column:    10,
			Err:       csv.ErrBareQuote,
		}

		got := err.Error()
		want := "parse error on line 5, column 10: bare \" in non-quoted field"
		if got != want {
			t.Errorf("ParseError.Error() = %q, want %q", got, want)
		}
	})

	t.Run("different lines", func(t *testing.T) {
		err := &csv.ParseError{
			StartLine: 3,
			Line:      5,
			Column:    1,
			Err:       csv.ErrUnterminatedQuote,
		}

		got := err.Error()
		want := "parse error on line 5 (started line 3), column 1: unterminated quoted field"
		if got != want {
			t.Errorf("ParseError.Error() = %q, want %q", got, want)
		}
	})

	t.Run("unwrap", func(t *testing.T) {
		err := &csv.ParseError{StartLine: 1, Line: 1, Column: 1, Err: csv.ErrQuote}
		if !errors.Is(err, csv.ErrQuote) {
			t.Errorf("errors.Is(%v, ErrQuote) = false", err)
		}
	})
}

func TestParseErrors(t *testing.T) {
	one := csv.ParseErrors{
		{StartLine: 1, Line: 1, Column: 4, Err: csv.ErrQuote},
	}
	if got, want := one.Error(), one[0].Error(); got != want {
		t.Errorf("single diagnostic = %q, want passthrough %q", got, want)
	}

	two := csv.ParseErrors{
		{StartLine: 1, Line: 1, Column: 2, Err: csv.ErrBareQuote},
		{StartLine: 3, Line: 3, Column: 1, Err: csv.ErrUnterminatedQuote},
	}
	want := "2 parse errors:\n\t" + two[0].Error() + "\n\t" + two[1].Error()
	if got := two.Error(); got != want {
		t.Errorf("two diagnostics = %q, want %q", got, want)
	}

	if !errors.Is(two, csv.ErrBareQuote) || !errors.Is(two, csv.ErrUnterminatedQuote) {
		t.Error("errors.Is does not reach every wrapped diagnostic")
	}
	if errors.Is(two, csv.ErrQuote) {
		t.Error("errors.Is matched a sentinel no diagnostic carries")
	}

	var pe *csv.ParseError
	if !errors.As(two, &pe) || pe.Line != 1 {
		t.Errorf("errors.As found %v, want the first diagnostic", pe)
	}
}

func TestDecodeErrorMessages(t *testing.T) {
	one := csv.DecodeErrors{
		{Record: 2, Err: csv.ErrPastEnd},
	}
	if got, want := one.Error(), "record 2: past end of record"; got != want {
		t.Errorf("single failure = %q, want %q", got, want)
	}

	two := csv.DecodeErrors{
		{Record: 0, Err: csv.ErrPastEnd},
		{Record: 4, Err: &csv.UnknownFieldError{Name: "age"}},
	}
	want := "2 decode errors:\n\trecord 0: past end of record\n\trecord 4: no field named age"
	if got := two.Error(); got != want {
		t.Errorf("two failures = %q, want %q", got, want)
	}

	if !errors.Is(two, csv.ErrPastEnd) {
		t.Error("errors.Is does not reach the wrapped sentinel")
	}
	var ufe *csv.UnknownFieldError
	if !errors.As(two, &ufe) || ufe.Name != "age" {
		t.Errorf("errors.As found %v, want the age lookup failure", ufe)
	}
}

func TestUnknownFieldError(t *testing.T) {
	err := &csv.UnknownFieldError{Name: "email"}
	if got, want := err.Error(), "no field named email"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestErrorFamiliesStayApart(t *testing.T) {
	// A grammar failure never reads as a decode failure and vice versa.
	_, parseErr := csv.Parse("\"a\" \n")
	if parseErr == nil {
		t.Fatal("Parse error = nil, want quote diagnostic")
	}
	var derrs csv.DecodeErrors
	if errors.As(parseErr, &derrs) {
		t.Error("grammar failure matched DecodeErrors")
	}
	if errors.Is(parseErr, csv.ErrPastEnd) || errors.Is(parseErr, csv.ErrNoDecoderSucceeded) {
		t.Error("grammar failure matched a decode sentinel")
	}

	doc, err := csv.Parse("h\nx\n")
	if err != nil {
		t.Fatalf("Parse error = %v", err)
	}
	_, decodeErr := csv.DecodeDocument(csv.Field("missing", csv.String), doc)
	if decodeErr == nil {
		t.Fatal("DecodeDocument error = nil, want unknown field")
	}
	var perrs csv.ParseErrors
	if errors.As(decodeErr, &perrs) {
		t.Error("decode failure matched ParseErrors")
	}
	if errors.Is(decodeErr, csv.ErrBareQuote) || errors.Is(decodeErr, csv.ErrQuote) {
		t.Error("decode failure matched a grammar sentinel")
	}
}
