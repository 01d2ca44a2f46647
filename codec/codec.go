// Package codec implements field codecs: the units that turn one in-memory
// value into a contiguous byte run and back.
//
// A codec has either a fixed span (integers, floats, characters, UUIDs) or a
// dynamic span determined by the data (C strings, Borsh strings and blobs,
// ShortVec counts, tagged optionals, compressed blobs). Decode returns the
// consumed span alongside the value, so codecs carry no per-call state and a
// single instance is shared by every schema that uses its wire type.
//
// Built-in codecs are reached through a Registry:
//
//	c, err := codec.DefaultRegistry().Lookup(format.Uint16BE)
//	if err != nil {
//	    return err
//	}
//	buf, err := codec.Encode(c, 513) // [0x02 0x01]
//	v, n, err := c.Decode(buf, 0)    // uint16(513), 2
package codec

import (
	"fmt"
	"reflect"

	"github.com/Deanly/struct-layout-sub000/convert"
	"github.com/Deanly/struct-layout-sub000/errs"
)

// Dynamic is the Span of codecs whose encoded length depends on the value.
const Dynamic = -1

// Codec converts between a native in-memory value and its wire bytes.
//
// Implementations must be safe for concurrent use.
type Codec interface {
	// Native returns the representation Append consumes and Decode produces.
	Native() convert.Target

	// Span returns the fixed encoded length in bytes, or Dynamic.
	Span() int

	// NoDataSpan returns the number of bytes an absent or empty value occupies.
	NoDataSpan() int

	// Append appends the encoding of v to dst.
	//
	// v is converted to Native() first; conversion failures are returned as
	// *errs.ConversionError and domain failures as *errs.EncodeError.
	Append(dst []byte, v any) ([]byte, error)

	// Decode reads one value starting at data[offset].
	//
	// Returns:
	//   - any: Decoded value of Native() type
	//   - int: Number of bytes consumed
	//   - error: *errs.DecodeError on malformed or truncated input
	Decode(data []byte, offset int) (any, int, error)
}

// Spanner is implemented by dynamic codecs that can measure an encoded value
// without materializing it.
type Spanner interface {
	CalculateSpan(data []byte, offset int) (int, error)
}

// Nullable is implemented by codecs that encode nil as a distinct value.
type Nullable interface {
	AcceptsNil() bool
}

// AcceptsNil reports whether c encodes nil without converting it to a zero value.
func AcceptsNil(c Codec) bool {
	n, ok := c.(Nullable)
	return ok && n.AcceptsNil()
}

// Encode returns the encoding of v in a freshly allocated slice. The result
// is never nil.
func Encode(c Codec, v any) ([]byte, error) {
	capacity := c.Span()
	if capacity < 0 {
		capacity = c.NoDataSpan()
	}

	out, err := c.Append(make([]byte, 0, capacity), v)
	if err != nil {
		return nil, err
	}

	return out, nil
}

// SpanAt returns the number of bytes the value at data[offset] occupies.
//
// Fixed-span codecs only bounds-check, Spanners scan, and every other codec
// is decoded and measured.
func SpanAt(c Codec, data []byte, offset int) (int, error) {
	if span := c.Span(); span >= 0 {
		if err := need(data, offset, span); err != nil {
			return 0, err
		}

		return span, nil
	}

	if s, ok := c.(Spanner); ok {
		return s.CalculateSpan(data, offset)
	}

	_, n, err := c.Decode(data, offset)

	return n, err
}

// Factory constructs a codec for a custom field.
type Factory func() (Codec, error)

// FactoryOf returns a Factory that instantiates the codec type C with no
// arguments.
//
// Pointer types are allocated with new; value types use their zero value.
// An interface type cannot be instantiated and fails with
// errs.ErrCodecConstruction.
func FactoryOf[C Codec]() Factory {
	return func() (Codec, error) {
		t := reflect.TypeFor[C]()
		switch t.Kind() {
		case reflect.Interface:
			return nil, fmt.Errorf("%w: %s is an interface type", errs.ErrCodecConstruction, t)
		case reflect.Pointer:
			c, ok := reflect.New(t.Elem()).Interface().(Codec)
			if !ok {
				return nil, fmt.Errorf("%w: %s does not implement Codec", errs.ErrCodecConstruction, t)
			}

			return c, nil
		default:
			var c C
			return c, nil
		}
	}
}

// need checks that n bytes are available at offset.
func need(data []byte, offset, n int) error {
	if offset < 0 || offset > len(data) || len(data)-offset < n {
		have := len(data) - offset
		if have < 0 {
			have = 0
		}

		return errs.Decodef(offset, errs.ErrInsufficientData, "need %d bytes, have %d", n, have)
	}

	return nil
}
