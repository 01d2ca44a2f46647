package codec

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/Deanly/struct-layout-sub000/compress"
	"github.com/Deanly/struct-layout-sub000/convert"
	"github.com/Deanly/struct-layout-sub000/errs"
	"github.com/Deanly/struct-layout-sub000/format"
	"github.com/google/uuid"
	"github.com/segmentio/ksuid"
	"github.com/stretchr/testify/require"
)

func lookup(t *testing.T, wire format.WireType) Codec {
	t.Helper()
	c, err := DefaultRegistry().Lookup(wire)
	require.NoError(t, err)

	return c
}

func TestInteger_Boundaries(t *testing.T) {
	tests := []struct {
		wire format.WireType
		in   any
		want []byte
		back any
	}{
		{format.Uint32LE, 0, []byte{0, 0, 0, 0}, uint32(0)},
		{format.Uint32LE, uint32(math.MaxUint32), []byte{0xFF, 0xFF, 0xFF, 0xFF}, uint32(math.MaxUint32)},
		{format.Int64BE, int64(math.MinInt64), []byte{0x80, 0, 0, 0, 0, 0, 0, 0}, int64(math.MinInt64)},
		{format.Int64LE, int64(math.MaxInt64), []byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0x7F}, int64(math.MaxInt64)},
		{format.Uint64BE, uint64(math.MaxUint64), bytes.Repeat([]byte{0xFF}, 8), uint64(math.MaxUint64)},
		{format.Int8, -1, []byte{0xFF}, int8(-1)},
		{format.Uint16BE, 513, []byte{0x02, 0x01}, uint16(513)},
		{format.Int16LE, -2, []byte{0xFE, 0xFF}, int16(-2)},
	}

	for _, tt := range tests {
		t.Run(tt.wire.String(), func(t *testing.T) {
			c := lookup(t, tt.wire)
			got, err := Encode(c, tt.in)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)

			v, n, err := c.Decode(got, 0)
			require.NoError(t, err)
			require.Equal(t, tt.back, v)
			require.Equal(t, c.Span(), n)
		})
	}
}

func TestInteger_EndiannessReversal(t *testing.T) {
	for _, pair := range [][2]format.WireType{
		{format.Int16LE, format.Int16BE},
		{format.Uint32LE, format.Uint32BE},
		{format.Int64LE, format.Int64BE},
		{format.Float64LE, format.Float64BE},
	} {
		le, err := Encode(lookup(t, pair[0]), 0x0102)
		require.NoError(t, err)
		be, err := Encode(lookup(t, pair[1]), 0x0102)
		require.NoError(t, err)

		reversed := bytes.Clone(be)
		for i, j := 0, len(reversed)-1; i < j; i, j = i+1, j-1 {
			reversed[i], reversed[j] = reversed[j], reversed[i]
		}
		require.Equal(t, le, reversed, pair[0].String())
	}
}

func TestInteger_Errors(t *testing.T) {
	c := lookup(t, format.Uint8)

	_, err := Encode(c, 256)
	require.ErrorIs(t, err, errs.ErrOutOfRange)

	_, _, err = lookup(t, format.Int32LE).Decode([]byte{1, 2, 3}, 0)
	require.ErrorIs(t, err, errs.ErrInsufficientData)
	var de *errs.DecodeError
	require.ErrorAs(t, err, &de)
	require.Equal(t, 0, de.Offset)

	_, _, err = c.Decode([]byte{1}, 5)
	require.ErrorIs(t, err, errs.ErrInsufficientData)

	_, err = NewInteger(3, true, nil)
	require.Error(t, err)
}

func TestFloat_PreservesBits(t *testing.T) {
	c := lookup(t, format.Float64BE)
	nan := math.Float64frombits(0x7FF8000000000001)

	got, err := Encode(c, nan)
	require.NoError(t, err)
	require.Equal(t, []byte{0x7F, 0xF8, 0, 0, 0, 0, 0, 0x01}, got)

	v, _, err := c.Decode(got, 0)
	require.NoError(t, err)
	require.Equal(t, uint64(0x7FF8000000000001), math.Float64bits(v.(float64)))

	negZero, err := Encode(lookup(t, format.Float32LE), float32(math.Copysign(0, -1)))
	require.NoError(t, err)
	require.Equal(t, []byte{0, 0, 0, 0x80}, negZero)

	_, err = NewFloat(2, nil)
	require.Error(t, err)
}

func TestChars(t *testing.T) {
	cchar := lookup(t, format.CChar)
	ucchar := lookup(t, format.UCChar)

	got, err := Encode(cchar, "A")
	require.NoError(t, err)
	require.Equal(t, []byte{0x41}, got)

	_, err = Encode(cchar, 'é')
	require.ErrorIs(t, err, errs.ErrOutOfRange)

	_, _, err = cchar.Decode([]byte{0x80}, 0)
	require.ErrorIs(t, err, errs.ErrOutOfRange)

	got, err = Encode(ucchar, 'é')
	require.NoError(t, err)
	require.Equal(t, []byte{0xE9}, got)

	v, n, err := ucchar.Decode([]byte{0xE9}, 0)
	require.NoError(t, err)
	require.Equal(t, 'é', v)
	require.Equal(t, 1, n)

	_, err = Encode(ucchar, "€")
	require.ErrorIs(t, err, errs.ErrOutOfRange)
}

func TestCString(t *testing.T) {
	c := lookup(t, format.CString)

	got, err := Encode(c, "")
	require.NoError(t, err)
	require.Equal(t, []byte{0x00}, got)

	got, err = Encode(c, "hi")
	require.NoError(t, err)
	require.Equal(t, []byte{'h', 'i', 0x00}, got)

	v, n, err := c.Decode([]byte{'o', 'k', 0x00, 'z'}, 0)
	require.NoError(t, err)
	require.Equal(t, "ok", v)
	require.Equal(t, 3, n)

	_, _, err = c.Decode([]byte{'a', 'b', 'c'}, 0)
	require.ErrorIs(t, err, errs.ErrUnterminatedString)

	_, _, err = c.Decode([]byte{'a', 'b'}, 2)
	require.ErrorIs(t, err, errs.ErrUnterminatedString)

	_, _, err = c.Decode(nil, 0)
	require.ErrorIs(t, err, errs.ErrUnterminatedString)

	_, _, err = c.Decode([]byte{'a', 'b'}, 3)
	require.ErrorIs(t, err, errs.ErrInsufficientData)

	_, err = Encode(c, "a\x00b")
	require.ErrorIs(t, err, errs.ErrInvalidString)

	span, err := SpanAt(c, []byte{0x00, 'x', 'y', 0x00}, 1)
	require.NoError(t, err)
	require.Equal(t, 3, span)
	require.Equal(t, 1, c.NoDataSpan())
}

func TestBorshString(t *testing.T) {
	c := lookup(t, format.BorshString)

	got, err := Encode(c, "abc")
	require.NoError(t, err)
	require.Equal(t, []byte{0, 0, 0, 3, 'a', 'b', 'c'}, got)

	v, n, err := c.Decode([]byte{0, 0, 0, 5, 'a', 'b', 0, 0, 0}, 0)
	require.NoError(t, err)
	require.Equal(t, "ab", v)
	require.Equal(t, 9, n)

	t.Run("missing prefix", func(t *testing.T) {
		_, _, err := c.Decode([]byte{0, 0}, 0)
		require.ErrorIs(t, err, errs.ErrInsufficientData)
	})

	t.Run("truncated payload", func(t *testing.T) {
		_, _, err := c.Decode([]byte{0xFF, 0xFF, 0xFF, 0xFF, 'a'}, 0)
		require.ErrorIs(t, err, errs.ErrTruncatedPayload)
	})

	require.Equal(t, 4, c.NoDataSpan())
}

func TestBorshBlob_DoesNotAlias(t *testing.T) {
	c := lookup(t, format.BorshBlob)
	data := []byte{0, 0, 0, 2, 0xAA, 0xBB}

	v, n, err := c.Decode(data, 0)
	require.NoError(t, err)
	require.Equal(t, 6, n)

	data[4] = 0x00
	require.Equal(t, []byte{0xAA, 0xBB}, v)

	empty, err := Encode(c, nil)
	require.NoError(t, err)
	require.Equal(t, []byte{0, 0, 0, 0}, empty)
}

func TestBorshBool(t *testing.T) {
	c := lookup(t, format.BorshBool)

	got, err := Encode(c, true)
	require.NoError(t, err)
	require.Equal(t, []byte{0x01}, got)

	v, _, err := c.Decode([]byte{0x00}, 0)
	require.NoError(t, err)
	require.Equal(t, false, v)

	_, _, err = c.Decode([]byte{0x02}, 0)
	require.ErrorIs(t, err, errs.ErrInvalidBooleanTag)
}

func TestShortVec(t *testing.T) {
	c := lookup(t, format.ShortVec)

	tests := []struct {
		value uint64
		want  []byte
	}{
		{0, []byte{0x00}},
		{127, []byte{0x7F}},
		{128, []byte{0x80, 0x01}},
		{300, []byte{0xAC, 0x02}},
		{16384, []byte{0x80, 0x80, 0x01}},
	}
	for _, tt := range tests {
		got, err := Encode(c, tt.value)
		require.NoError(t, err)
		require.Equal(t, tt.want, got)
		require.Equal(t, len(tt.want), UvarintLen(tt.value))

		v, n, err := c.Decode(got, 0)
		require.NoError(t, err)
		require.Equal(t, tt.value, v)
		require.Equal(t, len(tt.want), n)
	}

	v, n, err := c.Decode([]byte{0x80, 0x01}, 0)
	require.NoError(t, err)
	require.Equal(t, uint64(128), v)
	require.Equal(t, 2, n)

	_, _, err = c.Decode([]byte{0x80, 0x80}, 0)
	require.ErrorIs(t, err, errs.ErrTruncatedPayload)

	_, _, err = c.Decode(bytes.Repeat([]byte{0xFF}, 11), 0)
	require.ErrorIs(t, err, errs.ErrOutOfRange)

	require.Equal(t, 10, UvarintLen(math.MaxUint64))
}

func TestOptional(t *testing.T) {
	c := NewOptional(lookup(t, format.Uint16BE))
	require.True(t, AcceptsNil(c))
	require.Equal(t, "Optional(Uint16BE)", c.String())

	got, err := Encode(c, nil)
	require.NoError(t, err)
	require.Equal(t, []byte{0x00}, got)

	var nilPtr *int
	got, err = Encode(c, nilPtr)
	require.NoError(t, err)
	require.Equal(t, []byte{0x00}, got)

	got, err = Encode(c, 10)
	require.NoError(t, err)
	require.Equal(t, []byte{0x01, 0x00, 0x0A}, got)

	v, n, err := c.Decode([]byte{0x00}, 0)
	require.NoError(t, err)
	require.Nil(t, v)
	require.Equal(t, 1, n)

	v, n, err = c.Decode(got, 0)
	require.NoError(t, err)
	require.Equal(t, uint16(10), v)
	require.Equal(t, 3, n)

	_, _, err = c.Decode([]byte{0x07}, 0)
	require.ErrorIs(t, err, errs.ErrInvalidOptionTag)
}

func TestUUID(t *testing.T) {
	c := lookup(t, format.UUID)
	id := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")

	got, err := Encode(c, id.String())
	require.NoError(t, err)
	require.Equal(t, id[:], got)

	v, n, err := c.Decode(got, 0)
	require.NoError(t, err)
	require.Equal(t, id, v)
	require.Equal(t, 16, n)
}

func TestCompressed(t *testing.T) {
	raw := bytes.Repeat([]byte("struct-layout "), 64)

	for _, wire := range []format.WireType{format.ZstdBlob, format.S2Blob, format.LZ4Blob, format.BrotliBlob} {
		t.Run(wire.String(), func(t *testing.T) {
			c := lookup(t, wire)
			got, err := Encode(c, raw)
			require.NoError(t, err)
			require.Less(t, len(got), len(raw))

			v, n, err := c.Decode(got, 0)
			require.NoError(t, err)
			require.Equal(t, raw, v)
			require.Equal(t, len(got), n)

			span, err := SpanAt(c, got, 0)
			require.NoError(t, err)
			require.Equal(t, len(got), span)
		})
	}

	t.Run("noop does not alias input", func(t *testing.T) {
		c := NewCompressed(compress.NewNoOpCompressor(), "Raw")
		data, err := Encode(c, []byte{1, 2})
		require.NoError(t, err)

		v, _, err := c.Decode(data, 0)
		require.NoError(t, err)
		data[4] = 9
		require.Equal(t, []byte{1, 2}, v)
	})

	t.Run("corrupt payload", func(t *testing.T) {
		_, _, err := lookup(t, format.ZstdBlob).Decode([]byte{0, 0, 0, 3, 1, 2, 3}, 0)
		require.ErrorIs(t, err, errs.ErrCorruptPayload)
	})
}

func TestCompressed_DecompressLimit(t *testing.T) {
	bomb, err := Encode(lookup(t, format.ZstdBlob), make([]byte, 1<<20))
	require.NoError(t, err)
	require.Less(t, len(bomb), 1024)

	limited, err := NewCompressedType(format.CompressionZstd, "SmallZstdBlob", compress.WithMaxDecompressedSize(4096))
	require.NoError(t, err)

	_, _, err = limited.Decode(bomb, 0)
	require.ErrorIs(t, err, errs.ErrCorruptPayload)
	require.ErrorIs(t, err, compress.ErrDecompressedSize)

	small, err := Encode(limited, []byte("fits"))
	require.NoError(t, err)
	v, _, err := limited.Decode(small, 0)
	require.NoError(t, err)
	require.Equal(t, []byte("fits"), v)

	r := NewRegistry()
	require.NoError(t, r.Register(format.UserBase, limited))
	got, err := r.Lookup(format.UserBase)
	require.NoError(t, err)
	require.Equal(t, "SmallZstdBlob", Name(got))

	_, err = NewCompressedType(format.CompressionType(0xFF), "Bad")
	require.ErrorIs(t, err, errs.ErrCodecConstruction)
}

type fixedCodec struct{}

func (fixedCodec) Native() convert.Target { return convert.Uint8() }
func (fixedCodec) Span() int              { return 1 }
func (fixedCodec) NoDataSpan() int        { return 1 }

func (fixedCodec) Append(dst []byte, v any) ([]byte, error) { return append(dst, 0xAB), nil }

func (fixedCodec) Decode(data []byte, offset int) (any, int, error) {
	return uint8(0xAB), 1, nil
}

type pointerCodec struct{ fixedCodec }

func TestFactoryOf(t *testing.T) {
	c, err := FactoryOf[fixedCodec]()()
	require.NoError(t, err)
	require.IsType(t, fixedCodec{}, c)

	c, err = FactoryOf[*pointerCodec]()()
	require.NoError(t, err)
	require.NotNil(t, c)

	_, err = FactoryOf[Codec]()()
	require.ErrorIs(t, err, errs.ErrCodecConstruction)
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()

	_, err := r.Lookup(format.WireType(0x7E))
	require.ErrorIs(t, err, errs.ErrUnsupportedType)

	require.ErrorIs(t, r.Register(format.Uint8, fixedCodec{}), errs.ErrReservedWireType)
	require.ErrorIs(t, r.Register(format.UserBase, nil), errs.ErrCodecConstruction)
	require.NoError(t, r.Register(format.UserBase, fixedCodec{}))
	require.ErrorIs(t, r.Register(format.UserBase, fixedCodec{}), errs.ErrDuplicateCodec)

	c, err := r.Lookup(format.UserBase)
	require.NoError(t, err)
	require.Equal(t, "codec.fixedCodec", Name(c))

	_, err = DefaultRegistry().Lookup(format.UserBase)
	require.ErrorIs(t, err, errs.ErrUnsupportedType, "registries are independent")

	first, _ := r.Lookup(format.Int32BE)
	second, _ := r.Lookup(format.Int32BE)
	require.Same(t, first, second)

	wires := r.Wires()
	require.Equal(t, format.Int8, wires[0])
	require.Equal(t, format.UserBase, wires[len(wires)-1])
}

func TestSpanAt(t *testing.T) {
	span, err := SpanAt(lookup(t, format.Uint32BE), []byte{1, 2, 3, 4}, 0)
	require.NoError(t, err)
	require.Equal(t, 4, span)

	_, err = SpanAt(lookup(t, format.Uint32BE), []byte{1, 2, 3}, 0)
	require.ErrorIs(t, err, errs.ErrInsufficientData)

	span, err = SpanAt(NewOptional(lookup(t, format.Uint8)), []byte{0x01, 0x05}, 0)
	require.NoError(t, err)
	require.Equal(t, 2, span)
}

func TestKSUID(t *testing.T) {
	c := lookup(t, format.KSUID)
	id := ksuid.New()

	data, err := Encode(c, id.String())
	require.NoError(t, err)
	require.Equal(t, id.Bytes(), data)

	raw, err := Encode(c, id)
	require.NoError(t, err)
	require.Equal(t, data, raw, "a ksuid.KSUID value encodes its raw bytes")

	v, n, err := c.Decode(append([]byte{0xFF}, data...), 1)
	require.NoError(t, err)
	require.Equal(t, 20, n)
	require.Equal(t, id.String(), v)

	empty, err := Encode(c, nil)
	require.NoError(t, err)
	require.Equal(t, ksuid.Nil.Bytes(), empty)

	_, err = Encode(c, "short")
	require.ErrorIs(t, err, errs.ErrInvalidString)

	_, err = Encode(c, strings.Repeat("z", 27))
	require.ErrorIs(t, err, errs.ErrInvalidString)

	_, _, err = c.Decode(data[:19], 0)
	require.ErrorIs(t, err, errs.ErrInsufficientData)
}
