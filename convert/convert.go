package convert

import (
	"bytes"
	"fmt"
	"math"
	"math/big"
	"reflect"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Deanly/struct-layout-sub000/errs"
	"github.com/google/uuid"
)

// To converts v to the Go type of t.
//
// Returned errors are *errs.ConversionError wrapping errs.ErrOutOfRange,
// errs.ErrUnparsable or errs.ErrIncompatibleType; the Field is left empty for
// the caller to fill in with errs.WithField.
func To(t Target, v any) (any, error) {
	v = normalize(v)
	if v == nil {
		return t.Zero(), nil
	}

	switch {
	case t.Kind == KindAny:
		return v, nil
	case t.Kind.IsInteger():
		return toInteger(t, v)
	case t.Kind.IsFloat():
		return toFloat(t, v)
	}

	switch t.Kind {
	case KindBool:
		return toBool(t, v)
	case KindRune:
		return toRune(t, v)
	case KindString:
		return toString(t, v)
	case KindBytes:
		return toBytes(t, v)
	case KindBigInt:
		return toBigInt(t, v)
	case KindDecimal:
		return toDecimal(t, v)
	case KindTime:
		return toTime(t, v)
	case KindUUID:
		return toUUID(t, v)
	case KindEnum:
		return toEnum(t, v)
	default:
		return nil, incompatible(t, v)
	}
}

// Convert converts v, known to be a value of from, to the Go type of to.
//
// It extends To with conversions that need the source representation:
// enumeration symbols become their ordinal when moving to a non-textual
// target, and runes become one-character strings.
func Convert(from, to Target, v any) (any, error) {
	v = normalize(v)
	if v == nil {
		return to.Zero(), nil
	}

	switch {
	case from.Kind == KindEnum && to.Kind != KindEnum && to.Kind != KindString && to.Kind != KindAny:
		s, ok := v.(string)
		if !ok {
			return To(to, v)
		}
		idx := from.SymbolIndex(s)
		if idx < 0 {
			return nil, errs.Convertf(v, from.String(), errs.ErrUnparsable, "unknown symbol %q", s)
		}

		return To(to, idx)
	case from.Kind == KindRune && to.Kind == KindString:
		if r, ok := v.(rune); ok {
			if !utf8.ValidRune(r) {
				return nil, errs.Convertf(v, to.String(), errs.ErrOutOfRange, "invalid rune %d", r)
			}

			return string(r), nil
		}
	}

	return To(to, v)
}

// normalize maps nil pointers to nil and named basic types to their
// underlying predeclared type.
func normalize(v any) any {
	switch x := v.(type) {
	case nil:
		return nil
	case bool, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64,
		float32, float64, string, []byte, time.Time, uuid.UUID:
		return v
	case *big.Int:
		if x == nil {
			return nil
		}
		return v
	case *big.Rat:
		if x == nil {
			return nil
		}
		return v
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		if rv.IsNil() {
			return nil
		}
	}

	switch rv.Kind() {
	case reflect.Bool:
		return rv.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return rv.Uint()
	case reflect.Float32, reflect.Float64:
		return rv.Float()
	case reflect.String:
		return rv.String()
	case reflect.Slice:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return rv.Bytes()
		}
	case reflect.Array:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			b := make([]byte, rv.Len())
			reflect.Copy(reflect.ValueOf(b), rv)
			return b
		}
	}

	return v
}

type numClass uint8

const (
	numSigned numClass = iota + 1
	numUnsigned
	numFloat
	numBig
	numRat
)

type number struct {
	class numClass
	i     int64
	u     uint64
	f     float64
	b     *big.Int
	r     *big.Rat
}

func asNumber(v any) (number, bool) {
	switch x := v.(type) {
	case int:
		return number{class: numSigned, i: int64(x)}, true
	case int8:
		return number{class: numSigned, i: int64(x)}, true
	case int16:
		return number{class: numSigned, i: int64(x)}, true
	case int32:
		return number{class: numSigned, i: int64(x)}, true
	case int64:
		return number{class: numSigned, i: x}, true
	case uint:
		return number{class: numUnsigned, u: uint64(x)}, true
	case uint8:
		return number{class: numUnsigned, u: uint64(x)}, true
	case uint16:
		return number{class: numUnsigned, u: uint64(x)}, true
	case uint32:
		return number{class: numUnsigned, u: uint64(x)}, true
	case uint64:
		return number{class: numUnsigned, u: x}, true
	case float32:
		return number{class: numFloat, f: float64(x)}, true
	case float64:
		return number{class: numFloat, f: x}, true
	case *big.Int:
		return number{class: numBig, b: x}, true
	case *big.Rat:
		return number{class: numRat, r: x}, true
	case bool:
		if x {
			return number{class: numUnsigned, u: 1}, true
		}
		return number{class: numUnsigned, u: 0}, true
	default:
		return number{}, false
	}
}

type intRange struct {
	min int64
	max uint64
}

var intRanges = map[Kind]intRange{
	KindInt8:   {math.MinInt8, math.MaxInt8},
	KindInt16:  {math.MinInt16, math.MaxInt16},
	KindInt32:  {math.MinInt32, math.MaxInt32},
	KindInt64:  {math.MinInt64, math.MaxInt64},
	KindInt:    {math.MinInt, math.MaxInt},
	KindUint8:  {0, math.MaxUint8},
	KindUint16: {0, math.MaxUint16},
	KindUint32: {0, math.MaxUint32},
	KindUint64: {0, math.MaxUint64},
	KindUint:   {0, math.MaxUint},
}

func toInteger(t Target, v any) (any, error) {
	if reflect.TypeOf(v) == t.GoType() {
		return v, nil
	}

	switch x := v.(type) {
	case string:
		s := strings.TrimSpace(x)
		b, ok := new(big.Int).SetString(s, 0)
		if !ok {
			return nil, errs.Convertf(v, t.String(), errs.ErrUnparsable, "not an integer")
		}
		return fromBig(t, v, b)
	case time.Time:
		return fromSigned(t, v, x.Unix())
	}

	n, ok := asNumber(v)
	if !ok {
		return nil, incompatible(t, v)
	}

	switch n.class {
	case numSigned:
		return fromSigned(t, v, n.i)
	case numUnsigned:
		return fromUnsigned(t, v, n.u)
	case numFloat:
		r := intRanges[t.Kind]
		switch {
		case math.IsNaN(n.f):
			return emitSigned(t.Kind, 0), nil
		case math.IsInf(n.f, 1):
			return emitUnsigned(t.Kind, r.max), nil
		case math.IsInf(n.f, -1):
			return emitSigned(t.Kind, r.min), nil
		}
		b, _ := big.NewFloat(math.Trunc(n.f)).Int(nil)
		return fromBig(t, v, b)
	case numBig:
		return fromBig(t, v, n.b)
	default:
		return fromBig(t, v, new(big.Int).Quo(n.r.Num(), n.r.Denom()))
	}
}

func fromSigned(t Target, src any, i int64) (any, error) {
	r := intRanges[t.Kind]
	if i < r.min || (i > 0 && uint64(i) > r.max) {
		return nil, outOfRange(t, src, r)
	}

	return emitSigned(t.Kind, i), nil
}

func fromUnsigned(t Target, src any, u uint64) (any, error) {
	r := intRanges[t.Kind]
	if u > r.max {
		return nil, outOfRange(t, src, r)
	}

	return emitUnsigned(t.Kind, u), nil
}

func fromBig(t Target, src any, b *big.Int) (any, error) {
	switch {
	case b.IsInt64():
		return fromSigned(t, src, b.Int64())
	case b.IsUint64():
		return fromUnsigned(t, src, b.Uint64())
	default:
		return nil, outOfRange(t, src, intRanges[t.Kind])
	}
}

func outOfRange(t Target, src any, r intRange) error {
	return errs.Convertf(src, t.String(), errs.ErrOutOfRange, "allowed range [%d, %d]", r.min, r.max)
}

// emitSigned returns i as the Go type of k. The caller has range-checked i.
func emitSigned(k Kind, i int64) any {
	switch k {
	case KindInt8:
		return int8(i)
	case KindInt16:
		return int16(i)
	case KindInt32:
		return int32(i)
	case KindInt64:
		return i
	case KindInt:
		return int(i)
	default:
		return emitUnsigned(k, uint64(i)) //nolint:gosec
	}
}

// emitUnsigned returns u as the Go type of k. The caller has range-checked u.
func emitUnsigned(k Kind, u uint64) any {
	switch k {
	case KindUint8:
		return uint8(u)
	case KindUint16:
		return uint16(u)
	case KindUint32:
		return uint32(u)
	case KindUint64:
		return u
	case KindUint:
		return uint(u)
	default:
		return emitSigned(k, int64(u)) //nolint:gosec
	}
}

func toFloat(t Target, v any) (any, error) {
	var f float64

	switch x := v.(type) {
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil && !isRangeErr(err) {
			return nil, errs.Convertf(v, t.String(), errs.ErrUnparsable, "not a number")
		}
		f = parsed
	case time.Time:
		f = float64(x.UnixNano()) / 1e9
	default:
		n, ok := asNumber(v)
		if !ok {
			return nil, incompatible(t, v)
		}
		switch n.class {
		case numSigned:
			f = float64(n.i)
		case numUnsigned:
			f = float64(n.u)
		case numFloat:
			f = n.f
		case numBig:
			f, _ = new(big.Float).SetInt(n.b).Float64()
			if math.IsInf(f, 0) {
				return nil, errs.Convertf(v, t.String(), errs.ErrOutOfRange, "exceeds float64 range")
			}
		default:
			f, _ = n.r.Float64()
			if math.IsInf(f, 0) {
				return nil, errs.Convertf(v, t.String(), errs.ErrOutOfRange, "exceeds float64 range")
			}
		}
	}

	maxFinite := math.MaxFloat64
	if t.Kind == KindFloat32 {
		maxFinite = math.MaxFloat32
	}

	switch {
	case math.IsNaN(f):
		f = 0
	case math.IsInf(f, 1):
		f = maxFinite
	case math.IsInf(f, -1):
		f = -maxFinite
	case math.Abs(f) > maxFinite:
		return nil, errs.Convertf(v, t.String(), errs.ErrOutOfRange, "magnitude exceeds %g", maxFinite)
	}

	if t.Kind == KindFloat32 {
		return float32(f), nil
	}

	return f, nil
}

func isRangeErr(err error) bool {
	ne, ok := err.(*strconv.NumError)
	return ok && ne.Err == strconv.ErrRange
}

func toBool(t Target, v any) (any, error) {
	switch x := v.(type) {
	case bool:
		return x, nil
	case string:
		s := strings.TrimSpace(x)
		switch {
		case strings.EqualFold(s, "true"):
			return true, nil
		case strings.EqualFold(s, "false"):
			return false, nil
		default:
			return nil, errs.Convertf(v, t.String(), errs.ErrUnparsable, "expected true or false")
		}
	}

	n, ok := asNumber(v)
	if !ok || n.class == numRat {
		return nil, incompatible(t, v)
	}
	b, err := toInteger(Uint8(), v)
	if err != nil || (b != uint8(0) && b != uint8(1)) {
		return nil, errs.Convertf(v, t.String(), errs.ErrOutOfRange, "only 0 and 1 convert to bool")
	}

	return b == uint8(1), nil
}

func toRune(t Target, v any) (any, error) {
	switch x := v.(type) {
	case rune:
		if !utf8.ValidRune(x) {
			return nil, errs.Convertf(v, t.String(), errs.ErrOutOfRange, "invalid rune")
		}
		return x, nil
	case string:
		if utf8.RuneCountInString(x) != 1 {
			return nil, errs.Convertf(v, t.String(), errs.ErrUnparsable, "expected exactly one character, got %d", utf8.RuneCountInString(x))
		}
		r, _ := utf8.DecodeRuneInString(x)
		if r == utf8.RuneError {
			return nil, errs.Convertf(v, t.String(), errs.ErrUnparsable, "invalid UTF-8")
		}
		return r, nil
	}

	n, ok := asNumber(v)
	if !ok || n.class == numFloat || n.class == numRat {
		return nil, incompatible(t, v)
	}
	r, err := toInteger(Int32(), v)
	if err != nil {
		return nil, errs.Convertf(v, t.String(), errs.ErrOutOfRange, "not a code point")
	}
	if !utf8.ValidRune(r.(int32)) {
		return nil, errs.Convertf(v, t.String(), errs.ErrOutOfRange, "invalid rune")
	}

	return r, nil
}

func toString(t Target, v any) (any, error) {
	switch x := v.(type) {
	case string:
		return x, nil
	case []byte:
		return string(x), nil
	case bool:
		return strconv.FormatBool(x), nil
	case float32:
		return strconv.FormatFloat(float64(x), 'g', -1, 32), nil
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64), nil
	case *big.Int:
		return x.String(), nil
	case *big.Rat:
		return x.RatString(), nil
	case time.Time:
		return x.Format(time.RFC3339Nano), nil
	case uuid.UUID:
		return x.String(), nil
	}

	if n, ok := asNumber(v); ok {
		switch n.class {
		case numSigned:
			return strconv.FormatInt(n.i, 10), nil
		case numUnsigned:
			return strconv.FormatUint(n.u, 10), nil
		}
	}
	if s, ok := v.(fmt.Stringer); ok {
		return s.String(), nil
	}

	return nil, incompatible(t, v)
}

func toBytes(t Target, v any) (any, error) {
	switch x := v.(type) {
	case []byte:
		return bytes.Clone(x), nil
	case string:
		return []byte(x), nil
	case uuid.UUID:
		return bytes.Clone(x[:]), nil
	default:
		return nil, incompatible(t, v)
	}
}

func toBigInt(t Target, v any) (any, error) {
	switch x := v.(type) {
	case string:
		b, ok := new(big.Int).SetString(strings.TrimSpace(x), 0)
		if !ok {
			return nil, errs.Convertf(v, t.String(), errs.ErrUnparsable, "not an integer")
		}
		return b, nil
	case time.Time:
		return big.NewInt(x.Unix()), nil
	}

	n, ok := asNumber(v)
	if !ok {
		return nil, incompatible(t, v)
	}

	switch n.class {
	case numSigned:
		return big.NewInt(n.i), nil
	case numUnsigned:
		return new(big.Int).SetUint64(n.u), nil
	case numFloat:
		if math.IsNaN(n.f) || math.IsInf(n.f, 0) {
			return nil, errs.Convertf(v, t.String(), errs.ErrOutOfRange, "no finite bound for arbitrary precision")
		}
		b, _ := big.NewFloat(math.Trunc(n.f)).Int(nil)
		return b, nil
	case numBig:
		return new(big.Int).Set(n.b), nil
	default:
		return new(big.Int).Quo(n.r.Num(), n.r.Denom()), nil
	}
}

func toDecimal(t Target, v any) (any, error) {
	if s, ok := v.(string); ok {
		r, ok := new(big.Rat).SetString(strings.TrimSpace(s))
		if !ok {
			return nil, errs.Convertf(v, t.String(), errs.ErrUnparsable, "not a decimal")
		}
		return r, nil
	}

	n, ok := asNumber(v)
	if !ok {
		return nil, incompatible(t, v)
	}

	switch n.class {
	case numSigned:
		return new(big.Rat).SetInt64(n.i), nil
	case numUnsigned:
		return new(big.Rat).SetInt(new(big.Int).SetUint64(n.u)), nil
	case numFloat:
		if math.IsNaN(n.f) || math.IsInf(n.f, 0) {
			return nil, errs.Convertf(v, t.String(), errs.ErrOutOfRange, "no finite bound for arbitrary precision")
		}
		return new(big.Rat).SetFloat64(n.f), nil
	case numBig:
		return new(big.Rat).SetInt(n.b), nil
	default:
		return new(big.Rat).Set(n.r), nil
	}
}

var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func toTime(t Target, v any) (any, error) {
	switch x := v.(type) {
	case time.Time:
		return x, nil
	case string:
		s := strings.ToUpper(strings.TrimSpace(x))
		for _, layout := range timeLayouts {
			if ts, err := time.Parse(layout, s); err == nil {
				return ts, nil
			}
		}
		return nil, errs.Convertf(v, t.String(), errs.ErrUnparsable, "unrecognized time layout")
	}

	n, ok := asNumber(v)
	if !ok {
		return nil, incompatible(t, v)
	}

	switch n.class {
	case numSigned:
		return time.Unix(n.i, 0).UTC(), nil
	case numUnsigned:
		if n.u > math.MaxInt64 {
			return nil, errs.Convertf(v, t.String(), errs.ErrOutOfRange, "unix seconds exceed int64")
		}
		return time.Unix(int64(n.u), 0).UTC(), nil
	case numFloat:
		if math.IsNaN(n.f) || math.IsInf(n.f, 0) || math.Abs(n.f) > math.MaxInt64/2 {
			return nil, errs.Convertf(v, t.String(), errs.ErrOutOfRange, "not a representable unix time")
		}
		sec, frac := math.Modf(n.f)
		return time.Unix(int64(sec), int64(frac*1e9)).UTC(), nil
	default:
		i, err := toInteger(Int64(), v)
		if err != nil {
			return nil, err
		}
		return time.Unix(i.(int64), 0).UTC(), nil
	}
}

func toUUID(t Target, v any) (any, error) {
	switch x := v.(type) {
	case uuid.UUID:
		return x, nil
	case string:
		u, err := uuid.Parse(strings.TrimSpace(x))
		if err != nil {
			return nil, errs.Convertf(v, t.String(), errs.ErrUnparsable, "%v", err)
		}
		return u, nil
	case []byte:
		u, err := uuid.FromBytes(x)
		if err != nil {
			return nil, errs.Convertf(v, t.String(), errs.ErrOutOfRange, "need 16 bytes, got %d", len(x))
		}
		return u, nil
	default:
		return nil, incompatible(t, v)
	}
}

func toEnum(t Target, v any) (any, error) {
	if s, ok := v.(string); ok {
		idx := t.SymbolIndex(strings.TrimSpace(s))
		if idx < 0 {
			return nil, errs.Convertf(v, t.String(), errs.ErrUnparsable, "unknown symbol")
		}
		return t.Symbols[idx], nil
	}

	n, ok := asNumber(v)
	if !ok || n.class == numFloat || n.class == numRat {
		return nil, incompatible(t, v)
	}
	i, err := toInteger(Int(), v)
	if err != nil || i.(int) < 0 || i.(int) >= len(t.Symbols) {
		return nil, errs.Convertf(v, t.String(), errs.ErrOutOfRange, "ordinal outside [0, %d)", len(t.Symbols))
	}

	return t.Symbols[i.(int)], nil
}

func incompatible(t Target, v any) error {
	return errs.Convertf(v, t.String(), errs.ErrIncompatibleType, "no conversion from %T", v)
}
