package csv

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Converter converts one raw field value into a T. Converters see exactly
// what the parser produced: no trimming, and the empty string is a value
// like any other. Wrap a converter in Maybe to treat emptiness as absence.
type Converter[T any] func(value string) (T, error)

// String accepts any field verbatim.
func String(value string) (string, error) {
	return value, nil
}

// Int converts a decimal integer field.
func Int(value string) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("cannot convert %q to int", value)
	}
	return n, nil
}

// Int64 converts a decimal integer field to int64.
func Int64(value string) (int64, error) {
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("cannot convert %q to int64", value)
	}
	return n, nil
}

// Float64 converts a floating-point field.
func Float64(value string) (float64, error) {
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("cannot convert %q to float64", value)
	}
	return f, nil
}

// Bool converts a boolean field.
// Recognizes: true/false, 1/0, yes/no, y/n, on/off, t/f (case-insensitive).
func Bool(value string) (bool, error) {
	switch strings.ToLower(value) {
	case "true", "1", "yes", "y", "on", "t":
		return true, nil
	case "false", "0", "no", "n", "off", "f":
		return false, nil
	default:
		return false, fmt.Errorf("cannot convert %q to bool", value)
	}
}

// Time builds a converter for the given layout, e.g. "2006-01-02" or
// time.RFC3339. Parsing uses UTC for layouts without a zone.
func Time(layout string) Converter[time.Time] {
	return func(value string) (time.Time, error) {
		ts, err := time.ParseInLocation(layout, value, time.UTC)
		if err != nil {
			return time.Time{}, fmt.Errorf("cannot convert %q to time with layout %q", value, layout)
		}
		return ts, nil
	}
}

// Maybe wraps a converter so the empty string decodes to nil rather than
// an error, and any other value converts to a present pointer.
func Maybe[T any](conv Converter[T]) Converter[*T] {
	return func(value string) (*T, error) {
		if value == "" {
			return nil, nil
		}
		v, err := conv(value)
		if err != nil {
			return nil, err
		}
		return &v, nil
	}
}
