package schema

import (
	"fmt"

	"github.com/Deanly/struct-layout-sub000/codec"
	"github.com/Deanly/struct-layout-sub000/convert"
	"github.com/Deanly/struct-layout-sub000/errs"
	"github.com/Deanly/struct-layout-sub000/format"
	"github.com/Deanly/struct-layout-sub000/internal/options"
)

// Field is an immutable field descriptor produced by a Builder.
//
// Which members are meaningful depends on Kind:
//
//	Scalar, CustomCodec: Wire (Scalar only), Codec, Target
//	Sequence:            Element, ElementCodec, ElementTarget, length members, Container
//	SequenceOfObjects:   Nested or Dispatcher, length members, Container
//	NestedObject:        Nested
//	PolymorphicObject:   Dispatcher
//
// Optional applies to every kind. For Scalar and CustomCodec fields the
// presence tag is part of Codec (a *codec.Optional); other kinds write it in
// the handler.
type Field struct {
	Name  string
	Order int
	Kind  Kind

	Wire   format.WireType
	Codec  codec.Codec
	Target convert.Target

	Element       format.WireType
	ElementCodec  codec.Codec
	ElementTarget convert.Target

	Length      LengthMode
	LengthCodec codec.Codec
	Count       int
	Container   Container
	Optional    OptionalEncoding

	Nested     *Schema
	Dispatcher Dispatcher
}

// IsOptional reports whether the field is written with a presence tag.
func (f *Field) IsOptional() bool {
	return f.Optional == OptionalTagged
}

func (f *Field) String() string {
	opt := ""
	if f.IsOptional() {
		opt = "?"
	}

	switch f.Kind {
	case Scalar, CustomCodec:
		return fmt.Sprintf("%s:%s%s@%d", f.Name, codec.Name(f.Codec), opt, f.Order)
	case Sequence:
		return fmt.Sprintf("%s:%s<%s>%s%s@%d", f.Name, f.Container, codec.Name(f.ElementCodec), f.lengthString(), opt, f.Order)
	case SequenceOfObjects:
		return fmt.Sprintf("%s:%s<%s>%s%s@%d", f.Name, f.Container, f.objectName(), f.lengthString(), opt, f.Order)
	default:
		return fmt.Sprintf("%s:%s%s@%d", f.Name, f.objectName(), opt, f.Order)
	}
}

func (f *Field) lengthString() string {
	switch f.Length {
	case LengthFixed:
		return fmt.Sprintf("[%d]", f.Count)
	case LengthNone:
		return "[..]"
	default:
		return "[" + codec.Name(f.LengthCodec) + "]"
	}
}

func (f *Field) objectName() string {
	if f.Nested != nil {
		return f.Nested.Name()
	}
	if f.Dispatcher != nil {
		names := ""
		for i, v := range f.Dispatcher.Variants() {
			if i > 0 {
				names += "|"
			}
			names += v.Name()
		}

		return names
	}

	return "?"
}

// fieldConfig collects field options before the builder resolves them.
type fieldConfig struct {
	target        *convert.Target
	elementTarget *convert.Target
	elementCodec  codec.Codec
	lengthWire    *format.WireType
	lengthCodec   codec.Codec
	noLength      bool
	count         int
	hasCount      bool
	asArray       bool
	optional      bool
}

// FieldOption configures a field added to a Builder.
type FieldOption = options.Option[*fieldConfig]

// As sets the in-memory type of a Scalar or CustomCodec field. Values are
// converted between it and the codec's native type.
func As(target convert.Target) FieldOption {
	return options.NoError(func(c *fieldConfig) {
		c.target = &target
	})
}

// ElementAs sets the in-memory element type of a Sequence field.
func ElementAs(target convert.Target) FieldOption {
	return options.NoError(func(c *fieldConfig) {
		c.elementTarget = &target
	})
}

// ElementCodec replaces the registry codec of a Sequence field's elements.
func ElementCodec(c codec.Codec) FieldOption {
	return options.New(func(cfg *fieldConfig) error {
		if codec.IsNil(c) {
			return fmt.Errorf("%w: nil element codec", errs.ErrCodecConstruction)
		}
		cfg.elementCodec = c

		return nil
	})
}

// LengthPrefix selects the registry codec that writes a sequence's count.
// format.NoLength is the same as NoLength().
func LengthPrefix(wire format.WireType) FieldOption {
	return options.NoError(func(c *fieldConfig) {
		if wire == format.NoLength {
			c.noLength = true
			return
		}
		c.lengthWire = &wire
	})
}

// LengthCodec sets the codec that writes a sequence's count. Its native
// type must be an integer.
func LengthCodec(lc codec.Codec) FieldOption {
	return options.New(func(c *fieldConfig) error {
		if codec.IsNil(lc) {
			return fmt.Errorf("%w: nil length codec", errs.ErrCodecConstruction)
		}
		c.lengthCodec = lc

		return nil
	})
}

// NoLength writes a sequence without a count. Decode consumes elements until
// the input is exhausted, so such a field is normally the last one.
func NoLength() FieldOption {
	return options.NoError(func(c *fieldConfig) {
		c.noLength = true
	})
}

// FixedCount writes a sequence without a count and requires exactly n elements.
func FixedCount(n int) FieldOption {
	return options.New(func(c *fieldConfig) error {
		if n < 0 {
			return fmt.Errorf("%w: fixed count %d is negative", errs.ErrInvalidSchema, n)
		}
		c.count = n
		c.hasCount = true

		return nil
	})
}

// AsArray decodes a sequence to a Go array instead of a slice.
func AsArray() FieldOption {
	return options.NoError(func(c *fieldConfig) {
		c.asArray = true
	})
}

// Optional writes a 0x00/0x01 presence tag before the value; nil encodes as
// the single byte 0x00.
func Optional() FieldOption {
	return options.NoError(func(c *fieldConfig) {
		c.optional = true
	})
}
