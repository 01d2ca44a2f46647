package layout

import (
	"reflect"

	"github.com/Deanly/struct-layout-sub000/codec"
	"github.com/Deanly/struct-layout-sub000/errs"
	"github.com/Deanly/struct-layout-sub000/schema"
)

var recordType = reflect.TypeFor[*schema.Record]()

// nestedHandler inlines a record of a fixed schema.
type nestedHandler struct{}

func (nestedHandler) encode(e *Engine, dst []byte, f *schema.Field, v any) ([]byte, error) {
	dst, present := appendPresence(dst, f, v)
	if !present {
		return dst, nil
	}

	rec, err := objectRecord(f, v)
	if err != nil {
		return dst, err
	}

	return e.appendRecord(dst, rec)
}

func (nestedHandler) decode(e *Engine, data []byte, offset int, f *schema.Field) (any, int, error) {
	n, present, err := readPresence(data, offset, f)
	if err != nil || !present {
		return nil, n, err
	}

	rec, m, err := e.decodeRecord(data, offset+n, f.Nested)
	if err != nil {
		return nil, 0, err
	}

	return rec, n + m, nil
}

// polymorphicHandler inlines a record whose schema the field dispatcher
// selects from the input. The record must be one of the dispatcher's
// variants. When the dispatcher's no-data span is zero, an absent value
// occupies no bytes in either direction.
type polymorphicHandler struct{ nestedHandler }

func (h polymorphicHandler) encode(e *Engine, dst []byte, f *schema.Field, v any) ([]byte, error) {
	if !f.IsOptional() && codec.IsNil(v) && f.Dispatcher.NoDataSpan() == 0 {
		return dst, nil
	}

	return h.nestedHandler.encode(e, dst, f, v)
}

func (polymorphicHandler) decode(e *Engine, data []byte, offset int, f *schema.Field) (any, int, error) {
	if !f.IsOptional() && offset >= len(data) && f.Dispatcher.NoDataSpan() == 0 {
		return nil, 0, nil
	}

	n, present, err := readPresence(data, offset, f)
	if err != nil || !present {
		return nil, n, err
	}

	rec, m, err := decodeObject(e, data, offset+n, f)
	if err != nil {
		return nil, 0, err
	}

	return rec, n + m, nil
}

// objectRecord checks that v is a record the field can encode.
func objectRecord(f *schema.Field, v any) (*schema.Record, error) {
	if codec.IsNil(v) {
		return nil, errs.Encodef(errs.ErrNullValue, "%s record is required", f.Name)
	}

	rec, ok := v.(*schema.Record)
	if !ok {
		return nil, errs.Convertf(v, "record", errs.ErrIncompatibleType, "not a *schema.Record")
	}

	switch {
	case f.Dispatcher != nil:
		if !schema.IsVariant(f.Dispatcher, rec.Schema()) {
			return nil, errs.Encodef(errs.ErrUnknownVariant, "schema %q is not a variant", rec.Schema().Name())
		}
	case rec.Schema() != f.Nested && rec.Schema().Fingerprint() != f.Nested.Fingerprint():
		return nil, errs.Encodef(errs.ErrIncompatibleType, "record of %q, want %q", rec.Schema().Name(), f.Nested.Name())
	}

	return rec, nil
}

// decodeObject decodes one record of a nested or polymorphic element.
func decodeObject(e *Engine, data []byte, offset int, f *schema.Field) (*schema.Record, int, error) {
	s := f.Nested
	if f.Dispatcher != nil {
		var err error
		if s, err = f.Dispatcher.Resolve(data, offset); err != nil {
			return nil, 0, err
		}
	}

	return e.decodeRecord(data, offset, s)
}

func objectNoDataSpan(f *schema.Field) int {
	if f.Dispatcher != nil {
		return f.Dispatcher.NoDataSpan()
	}

	return f.Nested.NoDataSpan()
}
