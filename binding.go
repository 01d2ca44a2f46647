package structlayout

import (
	"fmt"

	"github.com/Deanly/struct-layout-sub000/errs"
	"github.com/Deanly/struct-layout-sub000/layout"
	"github.com/Deanly/struct-layout-sub000/schema"
)

// Binding maps a Go value of type T to records of one schema through
// accessor functions, so no reflection over T is needed.
//
// A Binding is safe for concurrent use when its accessors are.
type Binding[T any] struct {
	schema *schema.Schema
	engine *layout.Engine
	to     func(T, *schema.Record) error
	from   func(*schema.Record) (T, error)
}

// Bind creates a Binding for s using the default engine.
//
// Parameters:
//   - s: Schema of the bound records
//   - toRecord: Copies the fields of a T into an empty record of s
//   - fromRecord: Builds a T from a decoded record of s
//
// Returns:
//   - *Binding[T]: Binding ready for Marshal and Unmarshal
func Bind[T any](s *schema.Schema, toRecord func(T, *schema.Record) error, fromRecord func(*schema.Record) (T, error)) *Binding[T] {
	return &Binding[T]{schema: s, engine: defaultEngine, to: toRecord, from: fromRecord}
}

// WithEngine returns a copy of b that encodes with e.
func (b *Binding[T]) WithEngine(e *layout.Engine) *Binding[T] {
	c := *b
	c.engine = e

	return &c
}

// Schema returns the bound schema.
func (b *Binding[T]) Schema() *schema.Schema { return b.schema }

// Marshal encodes v.
func (b *Binding[T]) Marshal(v T) ([]byte, error) {
	rec, err := b.record(v)
	if err != nil {
		return nil, err
	}

	return b.engine.Encode(rec)
}

// Unmarshal decodes a T from the start of data.
func (b *Binding[T]) Unmarshal(data []byte) (T, error) {
	v, _, err := b.UnmarshalAt(data, 0)
	return v, err
}

// UnmarshalAt decodes a T at data[offset] and returns the bytes consumed.
func (b *Binding[T]) UnmarshalAt(data []byte, offset int) (T, int, error) {
	var zero T

	rec, n, err := b.engine.DecodeAt(data, offset, b.schema)
	if err != nil {
		return zero, 0, err
	}

	v, err := b.from(rec)
	if err != nil {
		return zero, 0, fmt.Errorf("structlayout: %s from record: %w", b.schema.Name(), err)
	}

	return v, n, nil
}

// Size returns the encoded size of v.
func (b *Binding[T]) Size(v T) (int, error) {
	rec, err := b.record(v)
	if err != nil {
		return 0, err
	}

	return b.engine.CalculateSize(rec)
}

func (b *Binding[T]) record(v T) (*schema.Record, error) {
	if b.schema == nil {
		return nil, errs.Schemaf("", "", errs.ErrInvalidSchema, "binding without schema")
	}

	rec := schema.NewRecord(b.schema)
	if err := b.to(v, rec); err != nil {
		return nil, fmt.Errorf("structlayout: %s to record: %w", b.schema.Name(), err)
	}

	return rec, nil
}
