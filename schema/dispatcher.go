package schema

import (
	"fmt"
	"slices"

	"github.com/Deanly/struct-layout-sub000/codec"
	"github.com/Deanly/struct-layout-sub000/convert"
	"github.com/Deanly/struct-layout-sub000/errs"
	"github.com/Deanly/struct-layout-sub000/internal/options"
)

// Dispatcher selects the concrete schema of a polymorphic value by inspecting
// the bytes at the current offset, before the value is decoded.
type Dispatcher interface {
	// Resolve returns the variant schema for the value starting at data[offset].
	// It must not assume anything is consumed; the variant decodes its own
	// discriminant. Unknown discriminants fail with errs.ErrUnknownVariant.
	Resolve(data []byte, offset int) (*Schema, error)

	// NoDataSpan returns the bytes a fully absent value occupies.
	NoDataSpan() int

	// Variants returns the closed set of schemas the dispatcher can select.
	Variants() []*Schema
}

type dispatcherConfig struct {
	noDataSpan int
}

// DispatcherOption configures a dispatcher.
type DispatcherOption = options.Option[*dispatcherConfig]

// WithNoDataSpan sets the no-data span reported by the dispatcher. The
// default is 0, which lets an exhausted input decode as an absent value.
func WithNoDataSpan(n int) DispatcherOption {
	return options.New(func(c *dispatcherConfig) error {
		if n < 0 {
			return fmt.Errorf("%w: no-data span %d is negative", errs.ErrInvalidSchema, n)
		}
		c.noDataSpan = n

		return nil
	})
}

// TagDispatcher selects a variant by an integer discriminant read with a
// probe codec at the current offset.
type TagDispatcher struct {
	probe    codec.Codec
	variants map[uint64]*Schema
	tags     map[*Schema]uint64
	ordered  []*Schema
	cfg      dispatcherConfig
}

var _ Dispatcher = (*TagDispatcher)(nil)

// NewTagDispatcher creates a dispatcher over variants keyed by discriminant.
//
// Parameters:
//   - probe: Codec that reads the discriminant; its value must convert to uint64
//   - variants: Discriminant to schema mapping; must not be empty
//   - opts: Dispatcher options
//
// Returns:
//   - *TagDispatcher: Dispatcher safe for concurrent use
//   - error: *errs.SchemaError for an invalid probe, variant set or option
func NewTagDispatcher(probe codec.Codec, variants map[uint64]*Schema, opts ...DispatcherOption) (*TagDispatcher, error) {
	d := &TagDispatcher{
		probe:    probe,
		variants: make(map[uint64]*Schema, len(variants)),
		tags:     make(map[*Schema]uint64, len(variants)),
	}
	if err := options.Apply(&d.cfg, opts...); err != nil {
		return nil, &errs.SchemaError{Err: err}
	}
	if codec.IsNil(probe) {
		return nil, errs.Schemaf("", "", errs.ErrInvalidSchema, "nil discriminant probe")
	}
	if len(variants) == 0 {
		return nil, errs.Schemaf("", "", errs.ErrInvalidSchema, "no variants")
	}

	tags := make([]uint64, 0, len(variants))
	for tag, s := range variants {
		if s == nil {
			return nil, errs.Schemaf("", "", errs.ErrInvalidSchema, "nil schema for variant %d", tag)
		}
		if _, dup := d.tags[s]; dup {
			return nil, errs.Schemaf(s.Name(), "", errs.ErrInvalidSchema, "schema registered under two discriminants")
		}
		d.variants[tag] = s
		d.tags[s] = tag
		tags = append(tags, tag)
	}

	slices.Sort(tags)
	for _, tag := range tags {
		d.ordered = append(d.ordered, d.variants[tag])
	}

	return d, nil
}

// Resolve peeks the discriminant at offset and returns its variant.
func (d *TagDispatcher) Resolve(data []byte, offset int) (*Schema, error) {
	v, _, err := d.probe.Decode(data, offset)
	if err != nil {
		return nil, err
	}

	tag, err := convert.To(convert.Uint64(), v)
	if err != nil {
		return nil, errs.Decodef(offset, errs.ErrUnknownVariant, "discriminant %v is not an unsigned integer", v)
	}

	s, ok := d.variants[tag.(uint64)]
	if !ok {
		return nil, errs.Decodef(offset, errs.ErrUnknownVariant, "discriminant %d", tag)
	}

	return s, nil
}

// Tag returns the discriminant of a variant schema.
func (d *TagDispatcher) Tag(s *Schema) (uint64, bool) {
	tag, ok := d.tags[s]
	return tag, ok
}

func (d *TagDispatcher) NoDataSpan() int { return d.cfg.noDataSpan }

// Variants returns the variant schemas in ascending discriminant order.
func (d *TagDispatcher) Variants() []*Schema { return slices.Clone(d.ordered) }

// DispatchFunc adapts a resolve function and its variant list to Dispatcher.
type DispatchFunc struct {
	resolve  func(data []byte, offset int) (*Schema, error)
	variants []*Schema
	cfg      dispatcherConfig
}

var _ Dispatcher = (*DispatchFunc)(nil)

// NewDispatchFunc creates a dispatcher from fn. fn should return only schemas
// listed in variants.
func NewDispatchFunc(fn func(data []byte, offset int) (*Schema, error), variants []*Schema, opts ...DispatcherOption) (*DispatchFunc, error) {
	d := &DispatchFunc{resolve: fn, variants: slices.Clone(variants)}
	if err := options.Apply(&d.cfg, opts...); err != nil {
		return nil, &errs.SchemaError{Err: err}
	}
	if fn == nil {
		return nil, errs.Schemaf("", "", errs.ErrInvalidSchema, "nil resolve function")
	}
	if len(variants) == 0 || slices.Contains(variants, nil) {
		return nil, errs.Schemaf("", "", errs.ErrInvalidSchema, "variants must be non-empty and non-nil")
	}

	return d, nil
}

func (d *DispatchFunc) Resolve(data []byte, offset int) (*Schema, error) {
	s, err := d.resolve(data, offset)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, errs.Decodef(offset, errs.ErrUnknownVariant, "no variant selected")
	}

	return s, nil
}

func (d *DispatchFunc) NoDataSpan() int     { return d.cfg.noDataSpan }
func (d *DispatchFunc) Variants() []*Schema { return slices.Clone(d.variants) }

// IsVariant reports whether s is one of d's variants.
func IsVariant(d Dispatcher, s *Schema) bool {
	return slices.Contains(d.Variants(), s)
}
