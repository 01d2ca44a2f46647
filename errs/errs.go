// Package errs defines the error taxonomy shared by every struct-layout package.
//
// Failures are reported as one of four typed errors, each unwrapping to a
// sentinel that identifies the failure kind:
//
//   - SchemaError: schema construction failed (fatal, build time only)
//   - DecodeError: malformed or truncated input
//   - EncodeError: a value cannot be written
//   - ConversionError: a value cannot be converted between wire and memory types
//
// Callers match the kind with errors.Is and the context with errors.As:
//
//	rec, err := engine.Decode(data, s)
//	if errors.Is(err, errs.ErrUnterminatedString) { ... }
//	var de *errs.DecodeError
//	if errors.As(err, &de) { log.Printf("bad field %s at %d", de.Field, de.Offset) }
package errs

import (
	"errors"
	"fmt"
	"strings"
)

// Decode failures.
var (
	ErrInsufficientData   = errors.New("insufficient data")
	ErrUnsupportedType    = errors.New("unsupported wire type")
	ErrUnterminatedString = errors.New("unterminated string")
	ErrTruncatedPayload   = errors.New("truncated payload")
	ErrInvalidBooleanTag  = errors.New("invalid boolean tag")
	ErrInvalidOptionTag   = errors.New("invalid option tag")
	ErrUnknownVariant     = errors.New("unknown variant")
	ErrCorruptPayload     = errors.New("corrupt payload")
)

// Conversion failures.
var (
	ErrOutOfRange       = errors.New("value out of range")
	ErrUnparsable       = errors.New("unparsable value")
	ErrIncompatibleType = errors.New("incompatible type")
)

// Encode failures.
var (
	ErrNullValue      = errors.New("null value for required field")
	ErrValueTooWide   = errors.New("value exceeds codec width")
	ErrInvalidString  = errors.New("string does not round-trip")
	ErrLengthMismatch = errors.New("sequence length mismatch")
)

// Registry failures.
var (
	ErrReservedWireType = errors.New("wire type reserved for built-in codecs")
	ErrDuplicateCodec   = errors.New("wire type already registered")
)

// Record access failures.
var (
	ErrUnknownField = errors.New("unknown field")
)

// Schema construction failures.
var (
	ErrInvalidSchema        = errors.New("invalid schema")
	ErrMissingOrder         = errors.New("field has no valid order value")
	ErrDuplicateOrder       = errors.New("duplicate field order")
	ErrDuplicateField       = errors.New("duplicate field name")
	ErrCodecConstruction    = errors.New("codec construction failed")
	ErrUnsupportedContainer = errors.New("unsupported container kind")
	ErrDuplicateSchema      = errors.New("duplicate schema name")
	ErrIDCollision          = errors.New("schema id collision")
)

// SchemaError reports a schema that cannot be built.
type SchemaError struct {
	Schema string
	Field  string
	Err    error
}

func (e *SchemaError) Error() string {
	switch {
	case e.Field != "":
		return fmt.Sprintf("schema %q field %q: %v", e.Schema, e.Field, e.Err)
	case e.Schema != "":
		return fmt.Sprintf("schema %q: %v", e.Schema, e.Err)
	default:
		return fmt.Sprintf("schema: %v", e.Err)
	}
}

func (e *SchemaError) Unwrap() error { return e.Err }

// DecodeError reports malformed input at a byte offset.
type DecodeError struct {
	Field  string
	Offset int
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("decode at offset %d: %v", e.Offset, e.Err)
	}

	return fmt.Sprintf("decode field %q at offset %d: %v", e.Field, e.Offset, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// EncodeError reports a value that cannot be written.
type EncodeError struct {
	Field string
	Err   error
}

func (e *EncodeError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("encode: %v", e.Err)
	}

	return fmt.Sprintf("encode field %q: %v", e.Field, e.Err)
}

func (e *EncodeError) Unwrap() error { return e.Err }

// ConversionError reports a value that cannot be converted to Target.
type ConversionError struct {
	Field  string
	Value  any
	Target string
	Err    error
}

func (e *ConversionError) Error() string {
	var sb strings.Builder
	sb.WriteString("convert")
	if e.Field != "" {
		fmt.Fprintf(&sb, " field %q", e.Field)
	}
	fmt.Fprintf(&sb, ": %v (%T) to %s: %v", e.Value, e.Value, e.Target, e.Err)

	return sb.String()
}

func (e *ConversionError) Unwrap() error { return e.Err }

// Decodef returns a DecodeError at offset wrapping sentinel with a formatted detail.
func Decodef(offset int, sentinel error, format string, args ...any) error {
	return &DecodeError{Offset: offset, Err: fmt.Errorf("%w: "+format, append([]any{sentinel}, args...)...)}
}

// Encodef returns an EncodeError wrapping sentinel with a formatted detail.
func Encodef(sentinel error, format string, args ...any) error {
	return &EncodeError{Err: fmt.Errorf("%w: "+format, append([]any{sentinel}, args...)...)}
}

// Convertf returns a ConversionError for value wrapping sentinel with a formatted detail.
func Convertf(value any, target string, sentinel error, format string, args ...any) error {
	return &ConversionError{
		Value:  value,
		Target: target,
		Err:    fmt.Errorf("%w: "+format, append([]any{sentinel}, args...)...),
	}
}

// Schemaf returns a SchemaError for the named schema and field.
func Schemaf(schema, field string, sentinel error, format string, args ...any) error {
	return &SchemaError{
		Schema: schema,
		Field:  field,
		Err:    fmt.Errorf("%w: "+format, append([]any{sentinel}, args...)...),
	}
}

// WithField prefixes name to the field path carried by a typed error.
//
// A bare sentinel or foreign error is returned unchanged. The returned error is
// a copy; err itself is never modified.
func WithField(err error, name string) error {
	if err == nil || name == "" {
		return err
	}

	switch e := err.(type) {
	case *DecodeError:
		c := *e
		c.Field = JoinPath(name, e.Field)
		return &c
	case *EncodeError:
		c := *e
		c.Field = JoinPath(name, e.Field)
		return &c
	case *ConversionError:
		c := *e
		c.Field = JoinPath(name, e.Field)
		return &c
	case *SchemaError:
		c := *e
		c.Field = JoinPath(name, e.Field)
		return &c
	default:
		return err
	}
}

// JoinPath joins a parent field name with a child path.
// Index segments ("[3]") attach without a dot.
func JoinPath(parent, child string) string {
	switch {
	case child == "":
		return parent
	case parent == "":
		return child
	case strings.HasPrefix(child, "["):
		return parent + child
	default:
		return parent + "." + child
	}
}
