package codec

import (
	"fmt"
	"math"

	"github.com/Deanly/struct-layout-sub000/convert"
	"github.com/Deanly/struct-layout-sub000/endian"
)

// Integer is a fixed-width two's complement or unsigned integer.
type Integer struct {
	size   int
	signed bool
	engine endian.EndianEngine
	native convert.Target
}

var _ Codec = (*Integer)(nil)

// NewInteger creates an integer codec.
//
// Parameters:
//   - size: Width in bytes (1, 2, 4 or 8)
//   - signed: Whether values are two's complement
//   - engine: Byte order for widths above one byte
//
// Returns:
//   - *Integer: Codec whose native type is the matching intN/uintN
//   - error: Unsupported width
func NewInteger(size int, signed bool, engine endian.EndianEngine) (*Integer, error) {
	var native convert.Target
	switch {
	case size == 1 && signed:
		native = convert.Int8()
	case size == 1:
		native = convert.Uint8()
	case size == 2 && signed:
		native = convert.Int16()
	case size == 2:
		native = convert.Uint16()
	case size == 4 && signed:
		native = convert.Int32()
	case size == 4:
		native = convert.Uint32()
	case size == 8 && signed:
		native = convert.Int64()
	case size == 8:
		native = convert.Uint64()
	default:
		return nil, fmt.Errorf("unsupported integer width: %d", size)
	}

	if engine == nil {
		engine = endian.GetLittleEndianEngine()
	}

	return &Integer{size: size, signed: signed, engine: engine, native: native}, nil
}

func (c *Integer) Native() convert.Target { return c.native }
func (c *Integer) Span() int              { return c.size }
func (c *Integer) NoDataSpan() int        { return c.size }

// Signed reports whether the codec is two's complement.
func (c *Integer) Signed() bool { return c.signed }

func (c *Integer) String() string {
	prefix := "Uint"
	if c.signed {
		prefix = "Int"
	}
	if c.size == 1 {
		return fmt.Sprintf("%s8", prefix)
	}

	return fmt.Sprintf("%s%d%s", prefix, c.size*8, endian.Suffix(c.engine))
}

func (c *Integer) Append(dst []byte, v any) ([]byte, error) {
	nv, err := convert.To(c.native, v)
	if err != nil {
		return dst, err
	}

	switch x := nv.(type) {
	case int8:
		return append(dst, byte(x)), nil
	case uint8:
		return append(dst, x), nil
	case int16:
		return c.engine.AppendUint16(dst, uint16(x)), nil //nolint:gosec
	case uint16:
		return c.engine.AppendUint16(dst, x), nil
	case int32:
		return c.engine.AppendUint32(dst, uint32(x)), nil //nolint:gosec
	case uint32:
		return c.engine.AppendUint32(dst, x), nil
	case int64:
		return c.engine.AppendUint64(dst, uint64(x)), nil //nolint:gosec
	default:
		return c.engine.AppendUint64(dst, nv.(uint64)), nil
	}
}

func (c *Integer) Decode(data []byte, offset int) (any, int, error) {
	if err := need(data, offset, c.size); err != nil {
		return nil, 0, err
	}

	b := data[offset:]
	switch c.size {
	case 1:
		if c.signed {
			return int8(b[0]), 1, nil //nolint:gosec
		}
		return b[0], 1, nil
	case 2:
		u := c.engine.Uint16(b)
		if c.signed {
			return int16(u), 2, nil //nolint:gosec
		}
		return u, 2, nil
	case 4:
		u := c.engine.Uint32(b)
		if c.signed {
			return int32(u), 4, nil //nolint:gosec
		}
		return u, 4, nil
	default:
		u := c.engine.Uint64(b)
		if c.signed {
			return int64(u), 8, nil //nolint:gosec
		}
		return u, 8, nil
	}
}

// Float is an IEEE-754 binary32 or binary64 value. Bit patterns, including
// NaN payloads and signed zero, are preserved.
type Float struct {
	size   int
	engine endian.EndianEngine
}

var _ Codec = (*Float)(nil)

// NewFloat creates a float codec of 4 or 8 bytes.
func NewFloat(size int, engine endian.EndianEngine) (*Float, error) {
	if size != 4 && size != 8 {
		return nil, fmt.Errorf("unsupported float width: %d", size)
	}
	if engine == nil {
		engine = endian.GetLittleEndianEngine()
	}

	return &Float{size: size, engine: engine}, nil
}

func (c *Float) Native() convert.Target {
	if c.size == 4 {
		return convert.Float32()
	}

	return convert.Float64()
}

func (c *Float) Span() int       { return c.size }
func (c *Float) NoDataSpan() int { return c.size }

func (c *Float) String() string {
	return fmt.Sprintf("Float%d%s", c.size*8, endian.Suffix(c.engine))
}

func (c *Float) Append(dst []byte, v any) ([]byte, error) {
	// Exact native values bypass conversion so NaN keeps its bit pattern.
	switch x := v.(type) {
	case float32:
		if c.size == 4 {
			return c.engine.AppendUint32(dst, math.Float32bits(x)), nil
		}
	case float64:
		if c.size == 8 {
			return c.engine.AppendUint64(dst, math.Float64bits(x)), nil
		}
	}

	nv, err := convert.To(c.Native(), v)
	if err != nil {
		return dst, err
	}

	if c.size == 4 {
		return c.engine.AppendUint32(dst, math.Float32bits(nv.(float32))), nil
	}

	return c.engine.AppendUint64(dst, math.Float64bits(nv.(float64))), nil
}

func (c *Float) Decode(data []byte, offset int) (any, int, error) {
	if err := need(data, offset, c.size); err != nil {
		return nil, 0, err
	}

	if c.size == 4 {
		return math.Float32frombits(c.engine.Uint32(data[offset:])), 4, nil
	}

	return math.Float64frombits(c.engine.Uint64(data[offset:])), 8, nil
}
