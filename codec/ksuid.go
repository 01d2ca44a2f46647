package codec

import (
	"github.com/segmentio/ksuid"

	"github.com/Deanly/struct-layout-sub000/convert"
	"github.com/Deanly/struct-layout-sub000/errs"
)

const (
	ksuidSize    = 20
	ksuidTextLen = 27
)

// KSUID is a 20-byte K-Sortable Unique Identifier: a 4-byte big-endian
// timestamp followed by 16 random bytes.
//
// The native value is the 27 character base62 text. Append also accepts the
// 20 raw bytes, which is what a ksuid.KSUID value converts to.
type KSUID struct{}

var _ Codec = KSUID{}

func (KSUID) Native() convert.Target { return convert.String() }
func (KSUID) Span() int              { return ksuidSize }
func (KSUID) NoDataSpan() int        { return ksuidSize }
func (KSUID) String() string         { return "KSUID" }

func (KSUID) Append(dst []byte, v any) ([]byte, error) {
	nv, err := convert.To(convert.String(), v)
	if err != nil {
		return dst, err
	}

	s := nv.(string)
	var id ksuid.KSUID
	switch len(s) {
	case 0:
		id = ksuid.Nil
	case ksuidSize:
		id, err = ksuid.FromBytes([]byte(s))
	case ksuidTextLen:
		id, err = ksuid.Parse(s)
	default:
		return dst, errs.Encodef(errs.ErrInvalidString, "KSUID needs %d raw bytes or %d characters, got %d",
			ksuidSize, ksuidTextLen, len(s))
	}
	if err != nil {
		return dst, errs.Encodef(errs.ErrInvalidString, "KSUID: %v", err)
	}

	return append(dst, id.Bytes()...), nil
}

func (KSUID) Decode(data []byte, offset int) (any, int, error) {
	if err := need(data, offset, ksuidSize); err != nil {
		return nil, 0, err
	}

	id, err := ksuid.FromBytes(data[offset : offset+ksuidSize])
	if err != nil {
		return nil, 0, errs.Decodef(offset, errs.ErrCorruptPayload, "KSUID: %v", err)
	}

	return id.String(), ksuidSize, nil
}
