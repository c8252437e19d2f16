package csv

import (
	"context"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/zoobzio/sentinel"
)

func init() {
	sentinel.Tag("csv")
}

// planCache holds one decodePlan per struct type.
var planCache sync.Map // map[reflect.Type]*decodePlan

// decodePlan is the cached recipe for decoding records into one struct
// type: which column feeds which field, and how to write the value.
type decodePlan struct {
	typeName string
	fields   []fieldPlan
}

// fieldPlan binds a column name to a struct field and its setter.
type fieldPlan struct {
	column string
	index  []int
	set    setter
}

// setter writes one field value parsed from a string.
type setter func(field reflect.Value, value string) error

// Auto derives a Decoder for a struct type from its csv tags. The tag
// format is:
//
//	Field int `csv:"column_name"`           // Map to CSV column "column_name"
//	Field int `csv:"column_name,omitempty"` // Options after the comma are ignored when decoding
//	Field int `csv:"-"`                     // Always ignore this field
//	Field int                               // Use the struct field name as the column name
//
// Columns are matched against unvisited fields by exact name first, then
// case-insensitively. A struct field whose column is absent from the
// record keeps its zero value. Empty values decode to the zero value, or
// to nil for pointer fields.
//
// Supported field types:
//   - string
//   - int, int8, int16, int32, int64
//   - uint, uint8, uint16, uint32, uint64
//   - float32, float64
//   - bool (accepts: true/false, 1/0, yes/no, y/n, on/off, t/f, any case)
//   - pointers to any of the above
//
// Auto returns an error when T is not a struct type or declares an
// unsupported field type without a csv:"-" tag. The derived plan is
// cached per type, and the returned Decoder composes with the rest of the
// package: pass it to Decode or DecodeDocument, or nest it under OneOf.
func Auto[T any]() (Decoder[T], error) {
	rt := reflect.TypeFor[T]()
	if rt.Kind() != reflect.Struct {
		return Decoder[T]{}, fmt.Errorf("cannot derive a decoder for %s, want a struct type", rt)
	}
	if cached, ok := planCache.Load(rt); ok {
		return planDecoder[T](cached.(*decodePlan)), nil
	}
	plan, err := buildPlan(sentinel.Scan[T]())
	if err != nil {
		return Decoder[T]{}, err
	}
	planCache.Store(rt, plan)
	emitDecoderDerived(context.Background(), plan.typeName, len(plan.fields))
	return planDecoder[T](plan), nil
}

// Unmarshal parses the CSV-encoded data and stores the result in the
// slice pointed to by v.
//
// Unmarshal supports two element types:
//
// 1. []string - Returns raw records including the header row:
//
//	var records [][]string
//	err := csv.Unmarshal(data, &records)
//	// records[0] is the header row, records[1:] are data rows
//
// 2. struct - Maps data records to struct fields using the headers:
//
//	type Person struct {
//	    Name string `csv:"name"`
//	    Age  int    `csv:"age"`
//	}
//	var people []Person
//	err := csv.Unmarshal(data, &people)
//
// Struct mapping follows Auto: csv tags name the columns, untagged fields
// match their own name, and matching is exact first, then
// case-insensitive. Only exported fields are set. Columns without a
// matching field are ignored, and fields without a matching column keep
// their zero value.
//
// A parse failure is reported as ParseErrors; failed conversions are
// collected per record and reported as DecodeErrors.
func Unmarshal[T any](data []byte, v *[]T) error {
	return UnmarshalWith(DefaultSeparator, data, v)
}

// UnmarshalWith is Unmarshal with an explicit field separator.
func UnmarshalWith[T any](sep rune, data []byte, v *[]T) error {
	if v == nil {
		return fmt.Errorf("cannot unmarshal into a nil *[]%s", reflect.TypeFor[T]())
	}

	// Raw path: hand back every record, header row included.
	if raw, ok := any(v).(*[][]string); ok {
		doc, err := ParseWith(sep, string(data))
		if err != nil {
			return err
		}
		records := make([][]string, 0, len(doc.Records)+1)
		records = append(records, doc.Headers)
		records = append(records, doc.Records...)
		*raw = records
		return nil
	}

	dec, err := Auto[T]()
	if err != nil {
		return err
	}
	doc, err := ParseWith(sep, string(data))
	values, err := Decode(dec, doc, err)
	if err != nil {
		return err
	}
	*v = values
	return nil
}

// planDecoder wraps a decode plan as a Decoder. Each matched column moves
// to visited exactly as a Field call would, so a plan decoder composes
// with hand-built decoders over the same record.
func planDecoder[T any](plan *decodePlan) Decoder[T] {
	return Decoder[T]{run: func(st state) (T, state, error) {
		var out T
		rv := reflect.ValueOf(&out).Elem()
		for _, fp := range plan.fields {
			value, rest, ok := takeColumn(st, fp.column)
			if !ok {
				continue
			}
			st = rest
			if err := fp.set(rv.FieldByIndex(fp.index), value); err != nil {
				var zero T
				return zero, st, err
			}
		}
		return out, st, nil
	}}
}

// takeColumn removes the first unvisited field matching name, preferring
// an exact match over a case-insensitive one.
func takeColumn(st state, name string) (string, state, bool) {
	match := -1
	for i, f := range st.unvisited {
		if f.name == name {
			match = i
			break
		}
		if match < 0 && strings.EqualFold(f.name, name) {
			match = i
		}
	}
	if match < 0 {
		return "", st, false
	}
	f := st.unvisited[match]
	unvisited := make([]namedField, 0, len(st.unvisited)-1)
	unvisited = append(unvisited, st.unvisited[:match]...)
	unvisited = append(unvisited, st.unvisited[match+1:]...)
	next := state{
		visited:   append(st.visited, f),
		unvisited: unvisited,
	}
	return f.value, next, true
}

// buildPlan turns scanned struct metadata into a decode plan.
func buildPlan(spec sentinel.Metadata) (*decodePlan, error) {
	plan := &decodePlan{typeName: spec.TypeName}
	for _, field := range spec.Fields {
		tag := field.Tags["csv"]
		if tag == "-" {
			continue
		}
		column := field.Name
		if tag != "" {
			// Strip options such as ",omitempty".
			if idx := strings.IndexByte(tag, ','); idx >= 0 {
				tag = tag[:idx]
			}
			if tag != "" {
				column = tag
			}
		}
		set := setterFor(field.ReflectType)
		if set == nil {
			return nil, fmt.Errorf("cannot decode into %s.%s: unsupported type %s", spec.TypeName, field.Name, field.Type)
		}
		plan.fields = append(plan.fields, fieldPlan{
			column: column,
			index:  field.Index,
			set:    set,
		})
	}
	return plan, nil
}

// setterFor returns a setter for the given field type, or nil when the
// type is unsupported.
func setterFor(rt reflect.Type) setter {
	switch rt.Kind() {
	case reflect.String:
		return func(field reflect.Value, value string) error {
			field.SetString(value)
			return nil
		}

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		bits := rt.Bits()
		return func(field reflect.Value, value string) error {
			if value == "" {
				field.SetInt(0)
				return nil
			}
			i, err := strconv.ParseInt(value, 10, bits)
			if err != nil {
				return fmt.Errorf("cannot convert %q to %s", value, field.Type())
			}
			field.SetInt(i)
			return nil
		}

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		bits := rt.Bits()
		return func(field reflect.Value, value string) error {
			if value == "" {
				field.SetUint(0)
				return nil
			}
			u, err := strconv.ParseUint(value, 10, bits)
			if err != nil {
				return fmt.Errorf("cannot convert %q to %s", value, field.Type())
			}
			field.SetUint(u)
			return nil
		}

	case reflect.Float32, reflect.Float64:
		bits := rt.Bits()
		return func(field reflect.Value, value string) error {
			if value == "" {
				field.SetFloat(0)
				return nil
			}
			f, err := strconv.ParseFloat(value, bits)
			if err != nil {
				return fmt.Errorf("cannot convert %q to %s", value, field.Type())
			}
			field.SetFloat(f)
			return nil
		}

	case reflect.Bool:
		return func(field reflect.Value, value string) error {
			if value == "" {
				field.SetBool(false)
				return nil
			}
			b, err := Bool(value)
			if err != nil {
				return err
			}
			field.SetBool(b)
			return nil
		}

	case reflect.Ptr:
		elem := setterFor(rt.Elem())
		if elem == nil {
			return nil
		}
		return func(field reflect.Value, value string) error {
			if value == "" {
				return nil
			}
			p := reflect.New(field.Type().Elem())
			if err := elem(p.Elem(), value); err != nil {
				return err
			}
			field.Set(p)
			return nil
		}

	default:
		return nil
	}
}
