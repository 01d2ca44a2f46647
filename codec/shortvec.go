package codec

import (
	"encoding/binary"

	"github.com/Deanly/struct-layout-sub000/convert"
	"github.com/Deanly/struct-layout-sub000/errs"
)

// ShortVec is an unsigned LEB128 count: seven value bits per byte, least
// significant group first, high bit set on every byte except the last.
//
//	127 -> [0x7F]
//	128 -> [0x80 0x01]
//	300 -> [0xAC 0x02]
type ShortVec struct{}

var (
	_ Codec   = ShortVec{}
	_ Spanner = ShortVec{}
)

func (ShortVec) Native() convert.Target { return convert.Uint64() }
func (ShortVec) Span() int              { return Dynamic }
func (ShortVec) NoDataSpan() int        { return 1 }
func (ShortVec) String() string         { return "ShortVec" }

func (ShortVec) Append(dst []byte, v any) ([]byte, error) {
	nv, err := convert.To(convert.Uint64(), v)
	if err != nil {
		return dst, err
	}

	return binary.AppendUvarint(dst, nv.(uint64)), nil
}

func (ShortVec) Decode(data []byte, offset int) (any, int, error) {
	if err := need(data, offset, 1); err != nil {
		return nil, 0, err
	}

	u, n := binary.Uvarint(data[offset:])
	switch {
	case n == 0:
		return nil, 0, errs.Decodef(offset, errs.ErrTruncatedPayload, "continuation byte missing after %d bytes", len(data)-offset)
	case n < 0:
		return nil, 0, errs.Decodef(offset, errs.ErrOutOfRange, "value overflows 64 bits after %d bytes", -n)
	}

	return u, n, nil
}

func (c ShortVec) CalculateSpan(data []byte, offset int) (int, error) {
	_, n, err := c.Decode(data, offset)
	return n, err
}

// UvarintLen returns the number of bytes ShortVec uses to encode n.
func UvarintLen(n uint64) int {
	if n < 1<<7 {
		return 1
	}
	if n < 1<<14 {
		return 2
	}
	if n < 1<<21 {
		return 3
	}
	if n < 1<<28 {
		return 4
	}
	if n < 1<<35 {
		return 5
	}
	if n < 1<<42 {
		return 6
	}
	if n < 1<<49 {
		return 7
	}
	if n < 1<<56 {
		return 8
	}
	if n < 1<<63 {
		return 9
	}

	return 10
}
