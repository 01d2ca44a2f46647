package codec

import (
	"bytes"
	"encoding/binary"
	"math"
	"strings"

	"github.com/Deanly/struct-layout-sub000/convert"
	"github.com/Deanly/struct-layout-sub000/errs"
)

// lengthPrefixSize is the width of the big-endian length that precedes Borsh
// strings, Borsh blobs and compressed blobs.
const lengthPrefixSize = 4

// BorshBlob is a 4-byte big-endian length followed by that many raw bytes.
type BorshBlob struct{}

// BorshString is a 4-byte big-endian length followed by UTF-8 bytes.
// Trailing NUL padding is stripped on decode.
type BorshString struct{}

var (
	_ Codec   = BorshBlob{}
	_ Spanner = BorshBlob{}
	_ Codec   = BorshString{}
	_ Spanner = BorshString{}
)

func (BorshBlob) Native() convert.Target { return convert.Bytes() }
func (BorshBlob) Span() int              { return Dynamic }
func (BorshBlob) NoDataSpan() int        { return lengthPrefixSize }
func (BorshBlob) String() string         { return "BorshBlob" }

func (BorshBlob) Append(dst []byte, v any) ([]byte, error) {
	nv, err := convert.To(convert.Bytes(), v)
	if err != nil {
		return dst, err
	}

	return appendPrefixed(dst, nv.([]byte))
}

func (BorshBlob) Decode(data []byte, offset int) (any, int, error) {
	payload, n, err := readPrefixed(data, offset)
	if err != nil {
		return nil, 0, err
	}

	return bytes.Clone(payload), n, nil
}

func (BorshBlob) CalculateSpan(data []byte, offset int) (int, error) {
	_, n, err := readPrefixed(data, offset)
	return n, err
}

func (BorshString) Native() convert.Target { return convert.String() }
func (BorshString) Span() int              { return Dynamic }
func (BorshString) NoDataSpan() int        { return lengthPrefixSize }
func (BorshString) String() string         { return "BorshString" }

func (BorshString) Append(dst []byte, v any) ([]byte, error) {
	nv, err := convert.To(convert.String(), v)
	if err != nil {
		return dst, err
	}

	return appendPrefixed(dst, nv.(string))
}

func (BorshString) Decode(data []byte, offset int) (any, int, error) {
	payload, n, err := readPrefixed(data, offset)
	if err != nil {
		return nil, 0, err
	}

	return strings.TrimRight(string(payload), "\x00"), n, nil
}

func (BorshString) CalculateSpan(data []byte, offset int) (int, error) {
	_, n, err := readPrefixed(data, offset)
	return n, err
}

func appendPrefixed[T string | []byte](dst []byte, payload T) ([]byte, error) {
	if uint64(len(payload)) > math.MaxUint32 {
		return dst, errs.Encodef(errs.ErrValueTooWide, "length %d exceeds %d", len(payload), uint64(math.MaxUint32))
	}
	dst = binary.BigEndian.AppendUint32(dst, uint32(len(payload))) //nolint:gosec

	return append(dst, payload...), nil
}

// readPrefixed returns the payload at offset without copying it, together
// with the total consumed span. The declared length is checked against the
// remaining input before anything is allocated.
func readPrefixed(data []byte, offset int) ([]byte, int, error) {
	if err := need(data, offset, lengthPrefixSize); err != nil {
		return nil, 0, err
	}

	length := uint64(binary.BigEndian.Uint32(data[offset:]))
	remaining := uint64(len(data) - offset - lengthPrefixSize)
	if length > remaining {
		return nil, 0, errs.Decodef(offset, errs.ErrTruncatedPayload, "declared %d bytes, %d remain", length, remaining)
	}

	start := offset + lengthPrefixSize
	end := start + int(length) //nolint:gosec

	return data[start:end], end - offset, nil
}

// BorshBool is a single byte holding 0x00 or 0x01.
type BorshBool struct{}

var _ Codec = BorshBool{}

func (BorshBool) Native() convert.Target { return convert.Bool() }
func (BorshBool) Span() int              { return 1 }
func (BorshBool) NoDataSpan() int        { return 1 }
func (BorshBool) String() string         { return "BorshBool" }

func (BorshBool) Append(dst []byte, v any) ([]byte, error) {
	nv, err := convert.To(convert.Bool(), v)
	if err != nil {
		return dst, err
	}
	if nv.(bool) {
		return append(dst, 0x01), nil
	}

	return append(dst, 0x00), nil
}

func (BorshBool) Decode(data []byte, offset int) (any, int, error) {
	if err := need(data, offset, 1); err != nil {
		return nil, 0, err
	}

	switch data[offset] {
	case 0x00:
		return false, 1, nil
	case 0x01:
		return true, 1, nil
	default:
		return nil, 0, errs.Decodef(offset, errs.ErrInvalidBooleanTag, "tag %#02x", data[offset])
	}
}
