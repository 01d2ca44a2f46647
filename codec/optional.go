package codec

import (
	"fmt"
	"reflect"

	"github.com/Deanly/struct-layout-sub000/convert"
	"github.com/Deanly/struct-layout-sub000/errs"
)

const (
	optionNone byte = 0x00
	optionSome byte = 0x01
)

// Optional wraps an inner codec with a one-byte presence tag.
//
//	nil   -> [0x00]
//	value -> [0x01][inner encoding]
type Optional struct {
	inner Codec
}

var (
	_ Codec    = (*Optional)(nil)
	_ Nullable = (*Optional)(nil)
)

// NewOptional wraps inner. Wrapping an Optional again is allowed and nests tags.
func NewOptional(inner Codec) *Optional {
	return &Optional{inner: inner}
}

// Inner returns the wrapped codec.
func (c *Optional) Inner() Codec { return c.inner }

func (c *Optional) Native() convert.Target { return c.inner.Native() }
func (c *Optional) Span() int              { return Dynamic }
func (c *Optional) NoDataSpan() int        { return 1 }
func (c *Optional) AcceptsNil() bool       { return true }

func (c *Optional) String() string {
	return fmt.Sprintf("Optional(%s)", Name(c.inner))
}

func (c *Optional) Append(dst []byte, v any) ([]byte, error) {
	if IsNil(v) {
		return append(dst, optionNone), nil
	}

	return c.inner.Append(append(dst, optionSome), v)
}

func (c *Optional) Decode(data []byte, offset int) (any, int, error) {
	if err := need(data, offset, 1); err != nil {
		return nil, 0, err
	}

	switch data[offset] {
	case optionNone:
		return nil, 1, nil
	case optionSome:
		v, n, err := c.inner.Decode(data, offset+1)
		if err != nil {
			return nil, 0, err
		}

		return v, n + 1, nil
	default:
		return nil, 0, errs.Decodef(offset, errs.ErrInvalidOptionTag, "tag %#02x", data[offset])
	}
}

// IsNil reports whether v is nil or a nil pointer, map, slice or interface.
func IsNil(v any) bool {
	if v == nil {
		return true
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return rv.IsNil()
	default:
		return false
	}
}

// Name returns a stable display name for c.
func Name(c Codec) string {
	if s, ok := c.(fmt.Stringer); ok {
		return s.String()
	}

	return fmt.Sprintf("%T", c)
}
