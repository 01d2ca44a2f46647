package schema

import (
	"bytes"
	"fmt"

	"github.com/Deanly/struct-layout-sub000/errs"
)

// Record is a value of a Schema: one slot per field, addressed by name or
// processing position. Unset slots hold nil.
//
// A Record is not safe for concurrent mutation.
type Record struct {
	schema *Schema
	values []any
}

// NewRecord creates an empty record of s.
func NewRecord(s *Schema) *Record {
	return &Record{schema: s, values: make([]any, len(s.fields))}
}

// Schema returns the schema the record belongs to.
func (r *Record) Schema() *Schema { return r.schema }

// Set stores v in the named field.
//
// Values are stored as given; conversion to the field's wire representation
// happens on encode.
func (r *Record) Set(name string, v any) error {
	i, ok := r.schema.index[name]
	if !ok {
		return fmt.Errorf("%w: %q in schema %q", errs.ErrUnknownField, name, r.schema.name)
	}
	r.values[i] = v

	return nil
}

// MustSet is like Set but panics on an unknown field. It returns r for chaining.
func (r *Record) MustSet(name string, v any) *Record {
	if err := r.Set(name, v); err != nil {
		panic(err)
	}

	return r
}

// Get returns the value of the named field and whether the field exists.
func (r *Record) Get(name string) (any, bool) {
	i, ok := r.schema.index[name]
	if !ok {
		return nil, false
	}

	return r.values[i], true
}

// Value returns the value of the named field, or nil.
func (r *Record) Value(name string) any {
	v, _ := r.Get(name)
	return v
}

// At returns the value of the i-th field in processing order.
func (r *Record) At(i int) any { return r.values[i] }

// SetAt stores v in the i-th field in processing order.
func (r *Record) SetAt(i int, v any) { r.values[i] = v }

// Clone returns a copy of r. Nested records, record slices and byte slices are
// copied; other values are shared.
func (r *Record) Clone() *Record {
	if r == nil {
		return nil
	}

	c := &Record{schema: r.schema, values: make([]any, len(r.values))}
	for i, v := range r.values {
		c.values[i] = cloneValue(v)
	}

	return c
}

func cloneValue(v any) any {
	switch x := v.(type) {
	case *Record:
		return x.Clone()
	case []*Record:
		out := make([]*Record, len(x))
		for i, e := range x {
			out[i] = e.Clone()
		}
		return out
	case []byte:
		return bytes.Clone(x)
	default:
		return v
	}
}

func (r *Record) String() string {
	var b bytes.Buffer
	b.WriteString(r.schema.name)
	b.WriteByte('{')
	for i, f := range r.schema.fields {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s: %v", f.Name, r.values[i])
	}
	b.WriteByte('}')

	return b.String()
}
