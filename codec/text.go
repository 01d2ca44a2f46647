package codec

import (
	"bytes"
	"strings"

	"github.com/Deanly/struct-layout-sub000/convert"
	"github.com/Deanly/struct-layout-sub000/errs"
)

// CChar is a single 7-bit ASCII character.
type CChar struct{}

// UCChar is a single unsigned byte character, interpreted as Latin-1.
type UCChar struct{}

var (
	_ Codec = CChar{}
	_ Codec = UCChar{}
)

func (CChar) Native() convert.Target { return convert.Rune() }
func (CChar) Span() int              { return 1 }
func (CChar) NoDataSpan() int        { return 1 }
func (CChar) String() string         { return "CChar" }

func (CChar) Append(dst []byte, v any) ([]byte, error) {
	return appendChar(dst, v, 0x7F)
}

func (CChar) Decode(data []byte, offset int) (any, int, error) {
	return decodeChar(data, offset, 0x7F)
}

func (UCChar) Native() convert.Target { return convert.Rune() }
func (UCChar) Span() int              { return 1 }
func (UCChar) NoDataSpan() int        { return 1 }
func (UCChar) String() string         { return "UCChar" }

func (UCChar) Append(dst []byte, v any) ([]byte, error) {
	return appendChar(dst, v, 0xFF)
}

func (UCChar) Decode(data []byte, offset int) (any, int, error) {
	return decodeChar(data, offset, 0xFF)
}

func appendChar(dst []byte, v any, maxRune rune) ([]byte, error) {
	nv, err := convert.To(convert.Rune(), v)
	if err != nil {
		return dst, err
	}

	r := nv.(rune)
	if r < 0 || r > maxRune {
		return dst, errs.Encodef(errs.ErrOutOfRange, "character %U outside [0, %#x]", r, maxRune)
	}

	return append(dst, byte(r)), nil
}

func decodeChar(data []byte, offset int, maxRune rune) (any, int, error) {
	if err := need(data, offset, 1); err != nil {
		return nil, 0, err
	}

	r := rune(data[offset])
	if r > maxRune {
		return nil, 0, errs.Decodef(offset, errs.ErrOutOfRange, "byte %#x outside [0, %#x]", data[offset], maxRune)
	}

	return r, 1, nil
}

// CString is a NUL-terminated byte string.
//
// Exactly one terminator is written on encode. Strings that contain a NUL
// byte are rejected with errs.ErrInvalidString since they cannot round-trip.
type CString struct{}

var (
	_ Codec   = CString{}
	_ Spanner = CString{}
)

func (CString) Native() convert.Target { return convert.String() }
func (CString) Span() int              { return Dynamic }
func (CString) NoDataSpan() int        { return 1 }
func (CString) String() string         { return "CString" }

func (CString) Append(dst []byte, v any) ([]byte, error) {
	nv, err := convert.To(convert.String(), v)
	if err != nil {
		return dst, err
	}

	s := nv.(string)
	if i := strings.IndexByte(s, 0); i >= 0 {
		return dst, errs.Encodef(errs.ErrInvalidString, "NUL byte at index %d", i)
	}

	dst = append(dst, s...)

	return append(dst, 0), nil
}

func (c CString) Decode(data []byte, offset int) (any, int, error) {
	n, err := c.CalculateSpan(data, offset)
	if err != nil {
		return nil, 0, err
	}

	return string(data[offset : offset+n-1]), n, nil
}

// CalculateSpan returns the string length plus its terminator. An empty
// remainder has no terminator and fails with ErrUnterminatedString.
func (CString) CalculateSpan(data []byte, offset int) (int, error) {
	if err := need(data, offset, 0); err != nil {
		return 0, err
	}

	i := bytes.IndexByte(data[offset:], 0)
	if i < 0 {
		return 0, errs.Decodef(offset, errs.ErrUnterminatedString, "no NUL terminator in %d bytes", len(data)-offset)
	}

	return i + 1, nil
}
