// Package schema describes record layouts: ordered, typed field descriptors
// built once and shared by every encode and decode call.
//
// A Schema is produced by a Builder and is immutable afterwards. Records are
// the values a schema describes; polymorphic fields select among variant
// schemas through a Dispatcher, and a Catalog resolves schemas by record type
// name or ID.
package schema

import (
	"iter"
	"strconv"
	"strings"

	"github.com/Deanly/struct-layout-sub000/codec"
	"github.com/Deanly/struct-layout-sub000/internal/hash"
)

// Schema is an immutable, ordered list of field descriptors for one record type.
type Schema struct {
	name        string
	id          uint64
	fingerprint uint64
	fields      []*Field
	index       map[string]int
	fixedSpan   int
	fixed       bool
	noDataSpan  int
}

func newSchema(name string, fields []*Field) *Schema {
	s := &Schema{
		name:   name,
		id:     hash.ID(name),
		fields: fields,
		index:  make(map[string]int, len(fields)),
	}
	for i, f := range fields {
		s.index[f.Name] = i
	}

	s.fixedSpan, s.fixed = computeFixedSpan(fields)
	s.noDataSpan = computeNoDataSpan(fields)
	s.fingerprint = computeFingerprint(name, fields)

	return s
}

// Name returns the record type name.
func (s *Schema) Name() string { return s.name }

// ID returns the xxHash64 of the record type name.
func (s *Schema) ID() uint64 { return s.id }

// Fingerprint returns the xxHash64 of the canonical field layout. Two schemas
// with equal fingerprints produce identical bytes for identical records.
func (s *Schema) Fingerprint() uint64 { return s.fingerprint }

// Len returns the number of fields.
func (s *Schema) Len() int { return len(s.fields) }

// FieldAt returns the i-th field in processing order. The descriptor is shared
// and must not be modified.
func (s *Schema) FieldAt(i int) *Field { return s.fields[i] }

// Field returns the named field descriptor. The descriptor is shared and must
// not be modified.
func (s *Schema) Field(name string) (*Field, bool) {
	i, ok := s.index[name]
	if !ok {
		return nil, false
	}

	return s.fields[i], true
}

// Index returns the position of the named field, or -1.
func (s *Schema) Index(name string) int {
	if i, ok := s.index[name]; ok {
		return i
	}

	return -1
}

// Fields returns a copy of the field descriptors in processing order.
func (s *Schema) Fields() []Field {
	out := make([]Field, len(s.fields))
	for i, f := range s.fields {
		out[i] = *f
	}

	return out
}

// All iterates over the fields in processing order.
func (s *Schema) All() iter.Seq2[int, *Field] {
	return func(yield func(int, *Field) bool) {
		for i, f := range s.fields {
			if !yield(i, f) {
				return
			}
		}
	}
}

// FixedSpan returns the encoded size of every record of s when it does not
// depend on the values, that is when all fields have fixed spans.
func (s *Schema) FixedSpan() (int, bool) { return s.fixedSpan, s.fixed }

// NoDataSpan returns the size of a record whose fields are all absent or empty.
func (s *Schema) NoDataSpan() int { return s.noDataSpan }

func (s *Schema) String() string {
	var sb strings.Builder
	sb.WriteString(s.name)
	sb.WriteByte('{')
	for i, f := range s.All() {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(f.String())
	}
	sb.WriteByte('}')

	return sb.String()
}

func computeFixedSpan(fields []*Field) (int, bool) {
	total := 0
	for _, f := range fields {
		span, ok := fixedFieldSpan(f)
		if !ok {
			return 0, false
		}
		total += span
	}

	return total, true
}

func fixedFieldSpan(f *Field) (int, bool) {
	switch f.Kind {
	case Scalar, CustomCodec:
		span := f.Codec.Span()
		return span, span >= 0
	case Sequence:
		span := f.ElementCodec.Span()
		if f.Length != LengthFixed || f.IsOptional() || span < 0 {
			return 0, false
		}
		return f.Count * span, true
	case NestedObject:
		if f.IsOptional() {
			return 0, false
		}
		return f.Nested.FixedSpan()
	case SequenceOfObjects:
		if f.Length != LengthFixed || f.IsOptional() || f.Nested == nil {
			return 0, false
		}
		span, ok := f.Nested.FixedSpan()
		return f.Count * span, ok
	default:
		return 0, false
	}
}

func computeNoDataSpan(fields []*Field) int {
	total := 0
	for _, f := range fields {
		total += noDataFieldSpan(f)
	}

	return total
}

func noDataFieldSpan(f *Field) int {
	if f.IsOptional() {
		return 1
	}

	switch f.Kind {
	case Scalar, CustomCodec:
		return f.Codec.NoDataSpan()
	case Sequence:
		switch f.Length {
		case LengthPrefixed:
			return f.LengthCodec.NoDataSpan()
		case LengthFixed:
			return f.Count * f.ElementCodec.NoDataSpan()
		default:
			return 0
		}
	case SequenceOfObjects:
		switch f.Length {
		case LengthPrefixed:
			return f.LengthCodec.NoDataSpan()
		case LengthFixed:
			return f.Count * objectNoDataSpan(f)
		default:
			return 0
		}
	default:
		return objectNoDataSpan(f)
	}
}

func objectNoDataSpan(f *Field) int {
	if f.Nested != nil {
		return f.Nested.NoDataSpan()
	}
	if f.Dispatcher != nil {
		return f.Dispatcher.NoDataSpan()
	}

	return 0
}

func computeFingerprint(name string, fields []*Field) uint64 {
	d := hash.NewDigest().WriteString(name)
	for _, f := range fields {
		d = d.WriteString(f.Name).
			WriteString(strconv.Itoa(f.Order)).
			WriteString(f.Kind.String()).
			WriteString(f.Optional.String())

		switch f.Kind {
		case Scalar, CustomCodec:
			d = d.WriteString(codec.Name(f.Codec))
		case Sequence:
			d = d.WriteString(codec.Name(f.ElementCodec))
		}

		if f.Kind == Sequence || f.Kind == SequenceOfObjects {
			d = d.WriteString(f.Length.String()).WriteString(strconv.Itoa(f.Count))
			if f.LengthCodec != nil {
				d = d.WriteString(codec.Name(f.LengthCodec))
			}
		}

		if f.Nested != nil {
			d = d.WriteString(strconv.FormatUint(f.Nested.Fingerprint(), 16))
		}
		if f.Dispatcher != nil {
			for _, v := range f.Dispatcher.Variants() {
				d = d.WriteString(strconv.FormatUint(v.Fingerprint(), 16))
			}
		}
	}

	return d.Sum64()
}
