package schema

import (
	"errors"
	"fmt"
	"sort"

	"github.com/Deanly/struct-layout-sub000/codec"
	"github.com/Deanly/struct-layout-sub000/errs"
	"github.com/Deanly/struct-layout-sub000/format"
	"github.com/Deanly/struct-layout-sub000/internal/options"
)

// Builder assembles a Schema from field declarations.
//
// Declaration methods record problems instead of failing immediately; Build
// reports all of them as *errs.SchemaError values. A Builder is not safe for
// concurrent use.
//
// Example:
//
//	header, err := schema.NewBuilder("Header").
//		Scalar("version", 1, format.Uint8).
//		Scalar("name", 2, format.BorshString).
//		Sequence("samples", 3, format.Int16BE, schema.LengthPrefix(format.Uint8)).
//		Build()
type Builder struct {
	name     string
	registry *codec.Registry
	fields   []*Field
	problems []error
}

// BuilderOption configures a Builder.
type BuilderOption = options.Option[*Builder]

// WithRegistry resolves wire types through r instead of codec.DefaultRegistry().
func WithRegistry(r *codec.Registry) BuilderOption {
	return options.New(func(b *Builder) error {
		if r == nil {
			return fmt.Errorf("%w: nil registry", errs.ErrInvalidSchema)
		}
		b.registry = r

		return nil
	})
}

// NewBuilder starts a schema for the named record type.
func NewBuilder(name string, opts ...BuilderOption) *Builder {
	b := &Builder{name: name, registry: codec.DefaultRegistry()}
	if err := options.Apply(b, opts...); err != nil {
		b.fail("", err)
	}

	return b
}

func (b *Builder) fail(field string, err error) {
	var se *errs.SchemaError
	if errors.As(err, &se) {
		b.problems = append(b.problems, err)
		return
	}

	b.problems = append(b.problems, &errs.SchemaError{Schema: b.name, Field: field, Err: err})
}

func (b *Builder) failf(field string, sentinel error, msg string, args ...any) {
	b.problems = append(b.problems, errs.Schemaf(b.name, field, sentinel, msg, args...))
}

// begin applies opts and starts a field, or records the failure and returns nil.
func (b *Builder) begin(name string, order int, kind Kind, opts []FieldOption) (*Field, *fieldConfig) {
	cfg := &fieldConfig{}
	if err := options.Apply(cfg, opts...); err != nil {
		b.fail(name, err)
		return nil, nil
	}

	f := &Field{Name: name, Order: order, Kind: kind}
	if cfg.optional {
		f.Optional = OptionalTagged
	}

	return f, cfg
}

func (b *Builder) lookup(field string, wire format.WireType) codec.Codec {
	c, err := b.registry.Lookup(wire)
	if err != nil {
		b.fail(field, err)
		return nil
	}

	return c
}

// Scalar adds a single value encoded with the registry codec of wire.
func (b *Builder) Scalar(name string, order int, wire format.WireType, opts ...FieldOption) *Builder {
	f, cfg := b.begin(name, order, Scalar, opts)
	if f == nil {
		return b
	}
	if !b.rejectSequenceOptions(f, cfg) {
		return b
	}

	c := b.lookup(name, wire)
	if c == nil {
		return b
	}

	f.Wire = wire
	b.finishValue(f, cfg, c)

	return b
}

// Custom adds a single value encoded with a codec built by factory.
//
// The factory runs once, at declaration. A nil factory, a nil codec, an error
// or a panic is reported as errs.ErrCodecConstruction.
func (b *Builder) Custom(name string, order int, factory codec.Factory, opts ...FieldOption) *Builder {
	f, cfg := b.begin(name, order, CustomCodec, opts)
	if f == nil {
		return b
	}
	if !b.rejectSequenceOptions(f, cfg) {
		return b
	}

	c, err := construct(factory)
	if err != nil {
		b.fail(name, err)
		return b
	}

	b.finishValue(f, cfg, c)

	return b
}

func construct(factory codec.Factory) (c codec.Codec, err error) {
	if factory == nil {
		return nil, fmt.Errorf("%w: nil factory", errs.ErrCodecConstruction)
	}

	defer func() {
		if r := recover(); r != nil {
			c, err = nil, fmt.Errorf("%w: factory panicked: %v", errs.ErrCodecConstruction, r)
		}
	}()

	c, err = factory()
	switch {
	case err != nil && errors.Is(err, errs.ErrCodecConstruction):
		return nil, err
	case err != nil:
		return nil, fmt.Errorf("%w: %w", errs.ErrCodecConstruction, err)
	case codec.IsNil(c):
		return nil, fmt.Errorf("%w: factory returned nil", errs.ErrCodecConstruction)
	}

	return c, nil
}

func (b *Builder) finishValue(f *Field, cfg *fieldConfig, c codec.Codec) {
	f.Target = c.Native()
	if cfg.target != nil {
		f.Target = *cfg.target
	}
	if f.IsOptional() {
		c = codec.NewOptional(c)
	}
	f.Codec = c

	b.fields = append(b.fields, f)
}

// Sequence adds a collection whose elements use the registry codec of element.
//
// The count is written with a ShortVec prefix unless LengthPrefix,
// LengthCodec, NoLength or FixedCount says otherwise.
func (b *Builder) Sequence(name string, order int, element format.WireType, opts ...FieldOption) *Builder {
	f, cfg := b.begin(name, order, Sequence, opts)
	if f == nil {
		return b
	}
	if cfg.target != nil {
		b.failf(name, errs.ErrInvalidSchema, "As applies to scalar fields; use ElementAs")
		return b
	}

	ec := cfg.elementCodec
	if ec == nil {
		if ec = b.lookup(name, element); ec == nil {
			return b
		}
	}
	if codec.AcceptsNil(ec) {
		b.failf(name, errs.ErrInvalidSchema, "optional sequence elements are not supported")
		return b
	}

	f.Element = element
	f.ElementCodec = ec
	f.ElementTarget = ec.Native()
	if cfg.elementTarget != nil {
		f.ElementTarget = *cfg.elementTarget
	}

	if b.finishLength(f, cfg) {
		b.fields = append(b.fields, f)
	}

	return b
}

// SequenceOfObjects adds a collection of records of the element schema.
func (b *Builder) SequenceOfObjects(name string, order int, element *Schema, opts ...FieldOption) *Builder {
	f, cfg := b.begin(name, order, SequenceOfObjects, opts)
	if f == nil {
		return b
	}
	if element == nil {
		b.failf(name, errs.ErrInvalidSchema, "nil element schema")
		return b
	}
	if !b.rejectElementOptions(f, cfg) {
		return b
	}

	f.Nested = element
	if b.finishLength(f, cfg) {
		b.fields = append(b.fields, f)
	}

	return b
}

// SequenceOfVariants adds a collection of polymorphic records; each element's
// schema is resolved by d.
func (b *Builder) SequenceOfVariants(name string, order int, d Dispatcher, opts ...FieldOption) *Builder {
	f, cfg := b.begin(name, order, SequenceOfObjects, opts)
	if f == nil {
		return b
	}
	if !b.checkDispatcher(name, d) || !b.rejectElementOptions(f, cfg) {
		return b
	}

	f.Dispatcher = d
	if b.finishLength(f, cfg) {
		b.fields = append(b.fields, f)
	}

	return b
}

// Nested adds a record of the nested schema.
func (b *Builder) Nested(name string, order int, nested *Schema, opts ...FieldOption) *Builder {
	f, cfg := b.begin(name, order, NestedObject, opts)
	if f == nil {
		return b
	}
	if nested == nil {
		b.failf(name, errs.ErrInvalidSchema, "nil nested schema")
		return b
	}
	if !b.rejectSequenceOptions(f, cfg) || !b.rejectElementOptions(f, cfg) {
		return b
	}

	f.Nested = nested
	b.fields = append(b.fields, f)

	return b
}

// Polymorphic adds a record whose schema d selects from the input bytes.
func (b *Builder) Polymorphic(name string, order int, d Dispatcher, opts ...FieldOption) *Builder {
	f, cfg := b.begin(name, order, PolymorphicObject, opts)
	if f == nil {
		return b
	}
	if !b.checkDispatcher(name, d) || !b.rejectSequenceOptions(f, cfg) || !b.rejectElementOptions(f, cfg) {
		return b
	}

	f.Dispatcher = d
	b.fields = append(b.fields, f)

	return b
}

func (b *Builder) checkDispatcher(name string, d Dispatcher) bool {
	if codec.IsNil(d) {
		b.failf(name, errs.ErrInvalidSchema, "nil dispatcher")
		return false
	}
	if len(d.Variants()) == 0 {
		b.failf(name, errs.ErrInvalidSchema, "dispatcher has no variants")
		return false
	}

	return true
}

// rejectSequenceOptions fails fields that cannot take container or length options.
func (b *Builder) rejectSequenceOptions(f *Field, cfg *fieldConfig) bool {
	if cfg.asArray {
		b.failf(f.Name, errs.ErrUnsupportedContainer, "%s field has no container", f.Kind)
		return false
	}
	if cfg.noLength || cfg.hasCount || cfg.lengthWire != nil || cfg.lengthCodec != nil {
		b.failf(f.Name, errs.ErrInvalidSchema, "length options apply to sequences only")
		return false
	}
	if cfg.elementCodec != nil || cfg.elementTarget != nil {
		b.failf(f.Name, errs.ErrInvalidSchema, "element options apply to sequences only")
		return false
	}

	return true
}

// rejectElementOptions fails object fields given value conversion options.
func (b *Builder) rejectElementOptions(f *Field, cfg *fieldConfig) bool {
	if cfg.target != nil || cfg.elementTarget != nil || cfg.elementCodec != nil {
		b.failf(f.Name, errs.ErrInvalidSchema, "%s field takes no codec or conversion options", f.Kind)
		return false
	}

	return true
}

func (b *Builder) finishLength(f *Field, cfg *fieldConfig) bool {
	modes := 0
	if cfg.noLength {
		modes++
	}
	if cfg.hasCount {
		modes++
	}
	if cfg.lengthWire != nil || cfg.lengthCodec != nil {
		modes++
	}
	if modes > 1 || (cfg.lengthWire != nil && cfg.lengthCodec != nil) {
		b.failf(f.Name, errs.ErrInvalidSchema, "conflicting length options")
		return false
	}

	if cfg.asArray {
		f.Container = ContainerArray
	}

	switch {
	case cfg.noLength:
		f.Length = LengthNone
		return true
	case cfg.hasCount:
		f.Length = LengthFixed
		f.Count = cfg.count
		return true
	}

	f.Length = LengthPrefixed
	lc := cfg.lengthCodec
	if lc == nil {
		wire := format.ShortVec
		if cfg.lengthWire != nil {
			wire = *cfg.lengthWire
		}
		if lc = b.lookup(f.Name, wire); lc == nil {
			return false
		}
	}
	if !lc.Native().Kind.IsInteger() {
		b.failf(f.Name, errs.ErrInvalidSchema, "length codec %s is not an integer codec", codec.Name(lc))
		return false
	}
	f.LengthCodec = lc

	return true
}

// Build validates the declarations and returns the immutable schema.
//
// Returns:
//   - *Schema: Schema with fields sorted by ascending order
//   - error: A *errs.SchemaError, or several joined with errors.Join
func (b *Builder) Build() (*Schema, error) {
	problems := append([]error(nil), b.problems...)
	if b.name == "" {
		problems = append(problems, errs.Schemaf("", "", errs.ErrInvalidSchema, "empty schema name"))
	}

	names := make(map[string]struct{}, len(b.fields))
	orders := make(map[int]string, len(b.fields))
	for _, f := range b.fields {
		if f.Name == "" {
			problems = append(problems, errs.Schemaf(b.name, "", errs.ErrInvalidSchema, "empty field name"))
			continue
		}
		if _, dup := names[f.Name]; dup {
			problems = append(problems, errs.Schemaf(b.name, f.Name, errs.ErrDuplicateField, "declared twice"))
			continue
		}
		names[f.Name] = struct{}{}

		if f.Order < 0 {
			problems = append(problems, errs.Schemaf(b.name, f.Name, errs.ErrMissingOrder, "order %d", f.Order))
			continue
		}
		if other, dup := orders[f.Order]; dup {
			problems = append(problems, errs.Schemaf(b.name, f.Name, errs.ErrDuplicateOrder, "order %d already used by %q", f.Order, other))
			continue
		}
		orders[f.Order] = f.Name
	}

	switch len(problems) {
	case 0:
	case 1:
		return nil, problems[0]
	default:
		return nil, errors.Join(problems...)
	}

	fields := make([]*Field, len(b.fields))
	copy(fields, b.fields)
	sort.SliceStable(fields, func(i, j int) bool { return fields[i].Order < fields[j].Order })

	return newSchema(b.name, fields), nil
}

// MustBuild is like Build but panics on error. It is meant for package-level
// schema variables.
func (b *Builder) MustBuild() *Schema {
	s, err := b.Build()
	if err != nil {
		panic(err)
	}

	return s
}
