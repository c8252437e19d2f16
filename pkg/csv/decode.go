package csv

import (
	"context"
	"time"
)

// namedField is one (header name, field value) pairing inside a decode
// state.
type namedField struct {
	name  string
	value string
}

// state is the decoder's working cursor over one record: fields move from
// unvisited to visited as positional and named decoders consume them. A
// fresh state is built per record and discarded afterwards; decoders thread
// it by value, so a failed OneOf alternative leaves the original intact.
type state struct {
	visited   []namedField
	unvisited []namedField
}

// newState pairs headers with a record's fields positionally, stopping at
// the shorter side; surplus headers or surplus values never enter the
// cursor.
func newState(headers, record []string) state {
	n := len(headers)
	if len(record) < n {
		n = len(record)
	}
	unvisited := make([]namedField, n)
	for i := 0; i < n; i++ {
		unvisited[i] = namedField{name: headers[i], value: record[i]}
	}
	return state{unvisited: unvisited}
}

// Decoder decodes fields of one record into a value of type T. Decoders
// are immutable: build one from the combinators below and reuse it across
// records, Documents, and goroutines.
type Decoder[T any] struct {
	run func(st state) (T, state, error)
}

// Next consumes the first unvisited field positionally, converts it, and
// moves it to visited. It fails with the conversion error, or with
// ErrPastEnd when the record has no fields left.
func Next[T any](conv Converter[T]) Decoder[T] {
	return Decoder[T]{run: func(st state) (T, state, error) {
		var zero T
		if len(st.unvisited) == 0 {
			return zero, st, ErrPastEnd
		}
		f := st.unvisited[0]
		v, err := conv(f.value)
		if err != nil {
			return zero, st, err
		}
		next := state{
			visited:   append(st.visited, f),
			unvisited: st.unvisited[1:],
		}
		return v, next, nil
	}}
}

// Field scans unvisited fields for the first whose name equals name,
// converts its value, and removes it from the cursor. Lookup is by name,
// so Field calls are order-independent; duplicated headers resolve to the
// first remaining match, letting repeated Field calls walk duplicates left
// to right. It fails with *UnknownFieldError when no unvisited field
// carries the name, or with the conversion error.
func Field[T any](name string, conv Converter[T]) Decoder[T] {
	return Decoder[T]{run: func(st state) (T, state, error) {
		var zero T
		for i, f := range st.unvisited {
			if f.name != name {
				continue
			}
			v, err := conv(f.value)
			if err != nil {
				return zero, st, err
			}
			unvisited := make([]namedField, 0, len(st.unvisited)-1)
			unvisited = append(unvisited, st.unvisited[:i]...)
			unvisited = append(unvisited, st.unvisited[i+1:]...)
			next := state{
				visited:   append(st.visited, f),
				unvisited: unvisited,
			}
			return v, next, nil
		}
		return zero, st, &UnknownFieldError{Name: name}
	}}
}

// OneOf tries each decoder in order against the identical starting cursor
// and returns the first success. When every alternative fails, or none
// were given, it fails with ErrNoDecoderSucceeded; the individual
// alternatives' errors are not preserved.
func OneOf[T any](decoders ...Decoder[T]) Decoder[T] {
	return Decoder[T]{run: func(st state) (T, state, error) {
		for _, d := range decoders {
			if v, next, err := d.run(st); err == nil {
				return v, next, nil
			}
		}
		var zero T
		return zero, st, ErrNoDecoderSucceeded
	}}
}

// AndThen runs d and feeds its value to f, whose decoder continues on the
// same cursor. It is the dependent form of sequencing, for records where a
// later field's interpretation hinges on an earlier one.
func AndThen[A, B any](d Decoder[A], f func(A) Decoder[B]) Decoder[B] {
	return Decoder[B]{run: func(st state) (B, state, error) {
		a, st, err := d.run(st)
		if err != nil {
			var zero B
			return zero, st, err
		}
		return f(a).run(st)
	}}
}

// Map runs one decoder and applies build to its result.
func Map[A, T any](build func(A) T, da Decoder[A]) Decoder[T] {
	return Decoder[T]{run: func(st state) (T, state, error) {
		a, st, err := da.run(st)
		if err != nil {
			var zero T
			return zero, st, err
		}
		return build(a), st, nil
	}}
}

// Map2 runs two decoders in order, threading the cursor left to right, and
// applies build to their results. The first failing stage short-circuits
// the rest. Map3 through Map6 extend the same shape to wider constructors;
// nest Map calls for anything wider still.
func Map2[A, B, T any](build func(A, B) T, da Decoder[A], db Decoder[B]) Decoder[T] {
	return Decoder[T]{run: func(st state) (T, state, error) {
		var zero T
		a, st, err := da.run(st)
		if err != nil {
			return zero, st, err
		}
		b, st, err := db.run(st)
		if err != nil {
			return zero, st, err
		}
		return build(a, b), st, nil
	}}
}

// Map3 is Map2 for three-argument constructors.
func Map3[A, B, C, T any](build func(A, B, C) T, da Decoder[A], db Decoder[B], dc Decoder[C]) Decoder[T] {
	return Decoder[T]{run: func(st state) (T, state, error) {
		var zero T
		a, st, err := da.run(st)
		if err != nil {
			return zero, st, err
		}
		b, st, err := db.run(st)
		if err != nil {
			return zero, st, err
		}
		c, st, err := dc.run(st)
		if err != nil {
			return zero, st, err
		}
		return build(a, b, c), st, nil
	}}
}

// Map4 is Map2 for four-argument constructors.
func Map4[A, B, C, D, T any](build func(A, B, C, D) T, da Decoder[A], db Decoder[B], dc Decoder[C], dd Decoder[D]) Decoder[T] {
	return Decoder[T]{run: func(st state) (T, state, error) {
		var zero T
		a, st, err := da.run(st)
		if err != nil {
			return zero, st, err
		}
		b, st, err := db.run(st)
		if err != nil {
			return zero, st, err
		}
		c, st, err := dc.run(st)
		if err != nil {
			return zero, st, err
		}
		d, st, err := dd.run(st)
		if err != nil {
			return zero, st, err
		}
		return build(a, b, c, d), st, nil
	}}
}

// Map5 is Map2 for five-argument constructors.
func Map5[A, B, C, D, E, T any](build func(A, B, C, D, E) T, da Decoder[A], db Decoder[B], dc Decoder[C], dd Decoder[D], de Decoder[E]) Decoder[T] {
	return Decoder[T]{run: func(st state) (T, state, error) {
		var zero T
		a, st, err := da.run(st)
		if err != nil {
			return zero, st, err
		}
		b, st, err := db.run(st)
		if err != nil {
			return zero, st, err
		}
		c, st, err := dc.run(st)
		if err != nil {
			return zero, st, err
		}
		d, st, err := dd.run(st)
		if err != nil {
			return zero, st, err
		}
		e, st, err := de.run(st)
		if err != nil {
			return zero, st, err
		}
		return build(a, b, c, d, e), st, nil
	}}
}

// Map6 is Map2 for six-argument constructors.
func Map6[A, B, C, D, E, F, T any](build func(A, B, C, D, E, F) T, da Decoder[A], db Decoder[B], dc Decoder[C], dd Decoder[D], de Decoder[E], df Decoder[F]) Decoder[T] {
	return Decoder[T]{run: func(st state) (T, state, error) {
		var zero T
		a, st, err := da.run(st)
		if err != nil {
			return zero, st, err
		}
		b, st, err := db.run(st)
		if err != nil {
			return zero, st, err
		}
		c, st, err := dc.run(st)
		if err != nil {
			return zero, st, err
		}
		d, st, err := dd.run(st)
		if err != nil {
			return zero, st, err
		}
		e, st, err := de.run(st)
		if err != nil {
			return zero, st, err
		}
		f, st, err := df.run(st)
		if err != nil {
			return zero, st, err
		}
		return build(a, b, c, d, e, f), st, nil
	}}
}

// Decode forwards a failed parse unchanged, otherwise decodes the
// Document. Its trailing parameters match Parse's results, so a parse
// feeds in without an error check in between:
//
//	doc, err := csv.Parse(text)
//	people, err := csv.Decode(dec, doc, err)
func Decode[T any](d Decoder[T], doc Document, err error) ([]T, error) {
	if err != nil {
		return nil, err
	}
	return DecodeDocument(d, doc)
}

// DecodeDocument runs the decoder once per data record; the header row is
// never decoded. Every record gets its own fresh cursor built by zipping
// the headers with that record, and every record is attempted no matter
// how earlier ones fared. The decoded values are returned only when all
// records succeed; otherwise the error is a DecodeErrors with one entry
// per failing record, ordered by record index, and the successes are
// discarded.
func DecodeDocument[T any](d Decoder[T], doc Document) ([]T, error) {
	start := time.Now()
	emitDecodeStart(context.Background(), len(doc.Records))

	values := make([]T, 0, len(doc.Records))
	var derrs DecodeErrors
	for i, record := range doc.Records {
		v, _, err := d.run(newState(doc.Headers, record))
		if err != nil {
			derrs = append(derrs, &DecodeError{Record: i, Err: err})
			continue
		}
		values = append(values, v)
	}

	if derrs != nil {
		emitDecodeComplete(context.Background(), len(doc.Records), len(derrs), time.Since(start), derrs)
		return nil, derrs
	}
	emitDecodeComplete(context.Background(), len(doc.Records), 0, time.Since(start), nil)
	return values, nil
}
