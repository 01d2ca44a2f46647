package schema

import "fmt"

// Kind selects the handler that encodes and decodes a field.
type Kind uint8

const (
	Scalar            Kind = iota + 1 // Scalar is a single value through a registry codec.
	Sequence                          // Sequence is a collection of codec-encoded elements.
	SequenceOfObjects                 // SequenceOfObjects is a collection of nested records.
	NestedObject                      // NestedObject is a record of a fixed nested schema.
	PolymorphicObject                 // PolymorphicObject is a record whose schema a Dispatcher selects.
	CustomCodec                       // CustomCodec is a single value through a user codec.
)

func (k Kind) String() string {
	switch k {
	case Scalar:
		return "Scalar"
	case Sequence:
		return "Sequence"
	case SequenceOfObjects:
		return "SequenceOfObjects"
	case NestedObject:
		return "NestedObject"
	case PolymorphicObject:
		return "PolymorphicObject"
	case CustomCodec:
		return "CustomCodec"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// LengthMode describes how a sequence records its element count.
type LengthMode uint8

const (
	// LengthPrefixed writes the count with the field's length codec before the elements.
	LengthPrefixed LengthMode = iota
	// LengthNone writes no count; decode consumes elements until the input is exhausted.
	LengthNone
	// LengthFixed writes no count; exactly Field.Count elements are present.
	LengthFixed
)

func (m LengthMode) String() string {
	switch m {
	case LengthPrefixed:
		return "Prefixed"
	case LengthNone:
		return "None"
	case LengthFixed:
		return "Fixed"
	default:
		return fmt.Sprintf("LengthMode(%d)", uint8(m))
	}
}

// Container is the Go shape a decoded sequence takes.
type Container uint8

const (
	ContainerList  Container = iota // ContainerList decodes to a slice.
	ContainerArray                  // ContainerArray decodes to an array value.
)

func (c Container) String() string {
	if c == ContainerArray {
		return "Array"
	}

	return "List"
}

// OptionalEncoding describes how absence of a value is written.
type OptionalEncoding uint8

const (
	OptionalNone   OptionalEncoding = iota // OptionalNone means the value is required.
	OptionalTagged                         // OptionalTagged writes a 0x00/0x01 presence byte.
)

func (o OptionalEncoding) String() string {
	if o == OptionalTagged {
		return "Tagged"
	}

	return "None"
}
