// Package convert reconciles a codec's native value representation with the
// in-memory type declared for a field.
//
// A Target names an in-memory representation. To converts any supported Go
// value to a Target; Convert does the same with knowledge of the source Target,
// which matters for enumerations (symbol <-> ordinal) and characters
// (rune <-> one-character string).
//
// # Conversion policy
//
//   - nil converts to the zero-equivalent of numeric, boolean, string and
//     byte targets, and to nil for every other target
//   - integer narrowing is range-checked (errs.ErrOutOfRange)
//   - NaN converts to zero; +Inf and -Inf saturate to the largest and
//     smallest finite value of the target
//   - strings are parsed (numbers, case-insensitive booleans, single
//     characters, big numbers, times, UUIDs, enum symbols)
//
// The NaN/Infinity policy is lossy on purpose and applies only here; codecs
// themselves preserve IEEE-754 bit patterns.
package convert

import (
	"math/big"
	"reflect"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Kind enumerates in-memory representations.
type Kind uint8

const (
	KindAny Kind = iota // KindAny passes values through unchanged.
	KindBool
	KindInt8
	KindInt16
	KindInt32
	KindInt64
	KindInt
	KindUint8
	KindUint16
	KindUint32
	KindUint64
	KindUint
	KindFloat32
	KindFloat64
	KindRune
	KindString
	KindBytes
	KindBigInt  // *big.Int
	KindDecimal // *big.Rat
	KindTime    // time.Time
	KindUUID    // uuid.UUID
	KindEnum    // string symbol from Target.Symbols
)

var kindNames = [...]string{
	KindAny:     "Any",
	KindBool:    "Bool",
	KindInt8:    "Int8",
	KindInt16:   "Int16",
	KindInt32:   "Int32",
	KindInt64:   "Int64",
	KindInt:     "Int",
	KindUint8:   "Uint8",
	KindUint16:  "Uint16",
	KindUint32:  "Uint32",
	KindUint64:  "Uint64",
	KindUint:    "Uint",
	KindFloat32: "Float32",
	KindFloat64: "Float64",
	KindRune:    "Rune",
	KindString:  "String",
	KindBytes:   "Bytes",
	KindBigInt:  "BigInt",
	KindDecimal: "Decimal",
	KindTime:    "Time",
	KindUUID:    "UUID",
	KindEnum:    "Enum",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}

	return "Unknown"
}

// IsInteger reports whether k is a fixed-width integer kind.
func (k Kind) IsInteger() bool {
	return k >= KindInt8 && k <= KindUint
}

// IsFloat reports whether k is a floating-point kind.
func (k Kind) IsFloat() bool {
	return k == KindFloat32 || k == KindFloat64
}

// Target is an in-memory representation. Symbols is used by KindEnum only.
type Target struct {
	Kind    Kind
	Symbols []string
}

func Any() Target     { return Target{Kind: KindAny} }
func Bool() Target    { return Target{Kind: KindBool} }
func Int8() Target    { return Target{Kind: KindInt8} }
func Int16() Target   { return Target{Kind: KindInt16} }
func Int32() Target   { return Target{Kind: KindInt32} }
func Int64() Target   { return Target{Kind: KindInt64} }
func Int() Target     { return Target{Kind: KindInt} }
func Uint8() Target   { return Target{Kind: KindUint8} }
func Uint16() Target  { return Target{Kind: KindUint16} }
func Uint32() Target  { return Target{Kind: KindUint32} }
func Uint64() Target  { return Target{Kind: KindUint64} }
func Uint() Target    { return Target{Kind: KindUint} }
func Float32() Target { return Target{Kind: KindFloat32} }
func Float64() Target { return Target{Kind: KindFloat64} }
func Rune() Target    { return Target{Kind: KindRune} }
func String() Target  { return Target{Kind: KindString} }
func Bytes() Target   { return Target{Kind: KindBytes} }
func BigInt() Target  { return Target{Kind: KindBigInt} }
func Decimal() Target { return Target{Kind: KindDecimal} }
func Time() Target    { return Target{Kind: KindTime} }
func UUID() Target    { return Target{Kind: KindUUID} }

// Enum returns an enumeration target over a closed set of symbols.
// Ordinals are the symbol positions.
func Enum(symbols ...string) Target {
	s := make([]string, len(symbols))
	copy(s, symbols)

	return Target{Kind: KindEnum, Symbols: s}
}

func (t Target) String() string {
	if t.Kind == KindEnum {
		return "Enum(" + strings.Join(t.Symbols, "|") + ")"
	}

	return t.Kind.String()
}

// Equal reports whether t and o describe the same representation.
func (t Target) Equal(o Target) bool {
	if t.Kind != o.Kind || len(t.Symbols) != len(o.Symbols) {
		return false
	}
	for i := range t.Symbols {
		if t.Symbols[i] != o.Symbols[i] {
			return false
		}
	}

	return true
}

// Nullable reports whether nil is a legal value of t.
func (t Target) Nullable() bool {
	switch t.Kind {
	case KindAny, KindBigInt, KindDecimal, KindTime, KindUUID, KindEnum:
		return true
	default:
		return false
	}
}

// SymbolIndex returns the ordinal of symbol in an enum target, matching
// case-insensitively, or -1.
func (t Target) SymbolIndex(symbol string) int {
	for i, s := range t.Symbols {
		if strings.EqualFold(s, symbol) {
			return i
		}
	}

	return -1
}

var (
	anyType     = reflect.TypeFor[any]()
	bytesType   = reflect.TypeFor[[]byte]()
	bigIntType  = reflect.TypeFor[*big.Int]()
	decimalType = reflect.TypeFor[*big.Rat]()
	timeType    = reflect.TypeFor[time.Time]()
	uuidType    = reflect.TypeFor[uuid.UUID]()
)

var goTypes = [...]reflect.Type{
	KindAny:     anyType,
	KindBool:    reflect.TypeFor[bool](),
	KindInt8:    reflect.TypeFor[int8](),
	KindInt16:   reflect.TypeFor[int16](),
	KindInt32:   reflect.TypeFor[int32](),
	KindInt64:   reflect.TypeFor[int64](),
	KindInt:     reflect.TypeFor[int](),
	KindUint8:   reflect.TypeFor[uint8](),
	KindUint16:  reflect.TypeFor[uint16](),
	KindUint32:  reflect.TypeFor[uint32](),
	KindUint64:  reflect.TypeFor[uint64](),
	KindUint:    reflect.TypeFor[uint](),
	KindFloat32: reflect.TypeFor[float32](),
	KindFloat64: reflect.TypeFor[float64](),
	KindRune:    reflect.TypeFor[rune](),
	KindString:  reflect.TypeFor[string](),
	KindBytes:   bytesType,
	KindBigInt:  bigIntType,
	KindDecimal: decimalType,
	KindTime:    timeType,
	KindUUID:    uuidType,
	KindEnum:    reflect.TypeFor[string](),
}

// GoType returns the Go type of values produced for t.
func (t Target) GoType() reflect.Type {
	if int(t.Kind) < len(goTypes) {
		return goTypes[t.Kind]
	}

	return anyType
}

// Zero returns the null-equivalent of t: 0, 0.0, false, "" or an empty byte
// slice for primitive targets and nil otherwise.
func (t Target) Zero() any {
	switch t.Kind {
	case KindBool:
		return false
	case KindInt8:
		return int8(0)
	case KindInt16:
		return int16(0)
	case KindInt32:
		return int32(0)
	case KindInt64:
		return int64(0)
	case KindInt:
		return 0
	case KindUint8:
		return uint8(0)
	case KindUint16:
		return uint16(0)
	case KindUint32:
		return uint32(0)
	case KindUint64:
		return uint64(0)
	case KindUint:
		return uint(0)
	case KindFloat32:
		return float32(0)
	case KindFloat64:
		return float64(0)
	case KindRune:
		return rune(0)
	case KindString:
		return ""
	case KindBytes:
		return []byte{}
	default:
		return nil
	}
}
