package layout

import (
	"fmt"
	"math"
	"reflect"

	"github.com/Deanly/struct-layout-sub000/codec"
	"github.com/Deanly/struct-layout-sub000/convert"
	"github.com/Deanly/struct-layout-sub000/errs"
	"github.com/Deanly/struct-layout-sub000/schema"
)

// handler encodes and decodes one field kind. The engine argument lets
// object handlers recurse into nested schemas.
type handler interface {
	encode(e *Engine, dst []byte, f *schema.Field, v any) ([]byte, error)
	decode(e *Engine, data []byte, offset int, f *schema.Field) (any, int, error)
}

const (
	tagAbsent  byte = 0x00
	tagPresent byte = 0x01
)

// appendPresence writes the presence tag of an optional non-scalar field.
// It reports whether the value itself must follow.
func appendPresence(dst []byte, f *schema.Field, v any) ([]byte, bool) {
	if !f.IsOptional() {
		return dst, true
	}
	if codec.IsNil(v) {
		return append(dst, tagAbsent), false
	}

	return append(dst, tagPresent), true
}

// readPresence reads the presence tag of an optional non-scalar field. It
// returns the bytes consumed and whether a value follows.
func readPresence(data []byte, offset int, f *schema.Field) (int, bool, error) {
	if !f.IsOptional() {
		return 0, true, nil
	}
	if offset >= len(data) {
		return 0, false, errs.Decodef(offset, errs.ErrInsufficientData, "presence tag needs 1 byte")
	}

	switch data[offset] {
	case tagAbsent:
		return 1, false, nil
	case tagPresent:
		return 1, true, nil
	default:
		return 0, false, errs.Decodef(offset, errs.ErrInvalidOptionTag, "tag %#02x", data[offset])
	}
}

// collection returns v as a reflect value of kind slice or array. nil is an
// empty collection.
func collection(v any) (reflect.Value, error) {
	if codec.IsNil(v) {
		return reflect.ValueOf([]any{}), nil
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		return rv, nil
	default:
		return reflect.Value{}, errs.Convertf(v, "sequence", errs.ErrIncompatibleType, "not a slice or array")
	}
}

// appendCount writes the element count n according to the field's length mode.
func appendCount(dst []byte, f *schema.Field, n int) ([]byte, error) {
	switch f.Length {
	case schema.LengthFixed:
		if n != f.Count {
			return dst, errs.Encodef(errs.ErrLengthMismatch, "%d elements, want exactly %d", n, f.Count)
		}
		return dst, nil
	case schema.LengthNone:
		return dst, nil
	default:
		lc := f.LengthCodec
		wv, err := convert.To(lc.Native(), n)
		if err != nil {
			return dst, errs.Encodef(errs.ErrValueTooWide, "%d elements do not fit length prefix %s", n, codec.Name(lc))
		}

		return lc.Append(dst, wv)
	}
}

// maxZeroSpanCount caps the declared count of a sequence whose elements may
// encode to zero bytes, where remaining input cannot bound it.
const maxZeroSpanCount = 1 << 16

// readCount reads the element count of a sequence at offset. It returns -1
// for unprefixed sequences, which extend to the end of input, and the bytes
// consumed by the prefix. minElem is the smallest encoded element; a declared
// count that cannot fit the remaining input fails before any allocation.
func readCount(data []byte, offset int, f *schema.Field, minElem int) (int, int, error) {
	switch f.Length {
	case schema.LengthFixed:
		return f.Count, 0, nil
	case schema.LengthNone:
		return -1, 0, nil
	}

	raw, n, err := f.LengthCodec.Decode(data, offset)
	if err != nil {
		return 0, 0, err
	}

	cv, err := convert.To(convert.Uint64(), raw)
	if err != nil {
		return 0, 0, errs.Decodef(offset, errs.ErrOutOfRange, "length prefix %v", raw)
	}

	count := cv.(uint64)
	remaining := uint64(len(data) - offset - n)
	switch {
	case minElem == 0 && count > maxZeroSpanCount:
		return 0, 0, errs.Decodef(offset, errs.ErrTruncatedPayload,
			"length prefix declares %d elements that may be empty, limit %d", count, maxZeroSpanCount)
	case minElem > 0 && (count > math.MaxInt32 || count*uint64(minElem) > remaining):
		return 0, 0, errs.Decodef(offset, errs.ErrTruncatedPayload,
			"length prefix declares %d elements, %d bytes remain", count, remaining)
	}

	return int(count), n, nil
}

// minElementSpan is the fewest bytes one element encoded with c occupies.
func minElementSpan(c codec.Codec) int {
	if span := c.Span(); span != codec.Dynamic {
		return span
	}

	return c.NoDataSpan()
}

// container builds the decoded Go value for a sequence field: a slice of
// elemType, or an array when the field asks for one.
type container struct {
	elemType reflect.Type
	values   reflect.Value
}

func newContainer(elemType reflect.Type, count int) *container {
	return &container{
		elemType: elemType,
		values:   reflect.MakeSlice(reflect.SliceOf(elemType), 0, max(count, 0)),
	}
}

func (c *container) add(v any) {
	if v == nil {
		c.values = reflect.Append(c.values, reflect.Zero(c.elemType))
		return
	}

	c.values = reflect.Append(c.values, reflect.ValueOf(v))
}

func (c *container) result(f *schema.Field) any {
	if f.Container != schema.ContainerArray {
		return c.values.Interface()
	}

	arr := reflect.New(reflect.ArrayOf(c.values.Len(), c.elemType)).Elem()
	reflect.Copy(arr, c.values)

	return arr.Interface()
}

func indexPath(i int) string {
	return fmt.Sprintf("[%d]", i)
}
