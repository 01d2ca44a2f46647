package schema

import (
	"errors"
	"testing"

	"github.com/Deanly/struct-layout-sub000/codec"
	"github.com/Deanly/struct-layout-sub000/convert"
	"github.com/Deanly/struct-layout-sub000/errs"
	"github.com/Deanly/struct-layout-sub000/format"
	"github.com/Deanly/struct-layout-sub000/internal/hash"
	"github.com/stretchr/testify/require"
)

func point(t *testing.T) *Schema {
	t.Helper()
	s, err := NewBuilder("Point").
		Scalar("y", 2, format.Int16BE).
		Scalar("x", 1, format.Int16BE).
		Build()
	require.NoError(t, err)

	return s
}

func TestBuilder_SortsByOrder(t *testing.T) {
	s := point(t)

	require.Equal(t, 2, s.Len())
	require.Equal(t, "x", s.FieldAt(0).Name)
	require.Equal(t, "y", s.FieldAt(1).Name)
	require.Equal(t, 1, s.Index("y"))
	require.Equal(t, -1, s.Index("z"))

	f, ok := s.Field("x")
	require.True(t, ok)
	require.Equal(t, Scalar, f.Kind)
	require.Equal(t, format.Int16BE, f.Wire)
	require.Equal(t, convert.Int16(), f.Target)

	copies := s.Fields()
	copies[0].Name = "mutated"
	require.Equal(t, "x", s.FieldAt(0).Name)
}

func TestBuilder_Validation(t *testing.T) {
	nested := NewBuilder("Inner").Scalar("a", 1, format.Uint8).MustBuild()

	tests := []struct {
		name     string
		build    func() *Builder
		sentinel error
	}{
		{"negative order", func() *Builder {
			return NewBuilder("S").Scalar("a", -1, format.Uint8)
		}, errs.ErrMissingOrder},
		{"duplicate order", func() *Builder {
			return NewBuilder("S").Scalar("a", 1, format.Uint8).Scalar("b", 1, format.Uint8)
		}, errs.ErrDuplicateOrder},
		{"duplicate name", func() *Builder {
			return NewBuilder("S").Scalar("a", 1, format.Uint8).Scalar("a", 2, format.Uint8)
		}, errs.ErrDuplicateField},
		{"empty field name", func() *Builder {
			return NewBuilder("S").Scalar("", 1, format.Uint8)
		}, errs.ErrInvalidSchema},
		{"empty schema name", func() *Builder {
			return NewBuilder("").Scalar("a", 1, format.Uint8)
		}, errs.ErrInvalidSchema},
		{"unknown wire", func() *Builder {
			return NewBuilder("S").Scalar("a", 1, format.WireType(0x7E))
		}, errs.ErrUnsupportedType},
		{"array on scalar", func() *Builder {
			return NewBuilder("S").Scalar("a", 1, format.Uint8, AsArray())
		}, errs.ErrUnsupportedContainer},
		{"array on nested", func() *Builder {
			return NewBuilder("S").Nested("a", 1, nested, AsArray())
		}, errs.ErrUnsupportedContainer},
		{"negative fixed count", func() *Builder {
			return NewBuilder("S").Sequence("a", 1, format.Uint8, FixedCount(-1))
		}, errs.ErrInvalidSchema},
		{"conflicting length", func() *Builder {
			return NewBuilder("S").Sequence("a", 1, format.Uint8, NoLength(), FixedCount(2))
		}, errs.ErrInvalidSchema},
		{"non-integer length codec", func() *Builder {
			return NewBuilder("S").Sequence("a", 1, format.Uint8, LengthPrefix(format.CString))
		}, errs.ErrInvalidSchema},
		{"optional elements", func() *Builder {
			return NewBuilder("S").Sequence("a", 1, format.Uint8,
				ElementCodec(codec.NewOptional(codec.BorshBool{})))
		}, errs.ErrInvalidSchema},
		{"nil nested", func() *Builder {
			return NewBuilder("S").Nested("a", 1, nil)
		}, errs.ErrInvalidSchema},
		{"nil dispatcher", func() *Builder {
			return NewBuilder("S").Polymorphic("a", 1, nil)
		}, errs.ErrInvalidSchema},
		{"nil registry", func() *Builder {
			return NewBuilder("S", WithRegistry(nil))
		}, errs.ErrInvalidSchema},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.build().Build()
			require.ErrorIs(t, err, tt.sentinel)

			var se *errs.SchemaError
			require.ErrorAs(t, err, &se)
		})
	}
}

func TestBuilder_ReportsEveryProblem(t *testing.T) {
	_, err := NewBuilder("S").
		Scalar("a", -1, format.Uint8).
		Scalar("b", 1, format.WireType(0x7E)).
		Build()

	require.ErrorIs(t, err, errs.ErrMissingOrder)
	require.ErrorIs(t, err, errs.ErrUnsupportedType)
}

type brokenCodec struct{ codec.ShortVec }

func TestBuilder_CustomCodecConstruction(t *testing.T) {
	tests := []struct {
		name    string
		factory codec.Factory
	}{
		{"nil factory", nil},
		{"nil codec", func() (codec.Codec, error) { return nil, nil }},
		{"factory error", func() (codec.Codec, error) { return nil, errors.New("no device") }},
		{"factory panic", func() (codec.Codec, error) { panic("boom") }},
		{"interface type", codec.FactoryOf[codec.Codec]()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewBuilder("S").Custom("c", 1, tt.factory).Build()
			require.ErrorIs(t, err, errs.ErrCodecConstruction)

			var se *errs.SchemaError
			require.ErrorAs(t, err, &se)
			require.Equal(t, "c", se.Field)
		})
	}

	s, err := NewBuilder("S").Custom("c", 1, codec.FactoryOf[brokenCodec](), As(convert.Int())).Build()
	require.NoError(t, err)
	f, _ := s.Field("c")
	require.Equal(t, CustomCodec, f.Kind)
	require.Equal(t, convert.Int(), f.Target)
}

func TestBuilder_SequenceDefaults(t *testing.T) {
	s, err := NewBuilder("S").
		Sequence("a", 1, format.Int16BE).
		Sequence("b", 2, format.Int16BE, LengthPrefix(format.Uint8), AsArray()).
		Sequence("c", 3, format.Uint8, NoLength(), ElementAs(convert.Int())).
		Sequence("d", 4, format.Uint8, LengthPrefix(format.NoLength)).
		Sequence("e", 5, format.Uint8, FixedCount(4)).
		Build()
	require.NoError(t, err)

	a, _ := s.Field("a")
	require.Equal(t, LengthPrefixed, a.Length)
	require.Equal(t, "ShortVec", codec.Name(a.LengthCodec))
	require.Equal(t, ContainerList, a.Container)

	b, _ := s.Field("b")
	require.Equal(t, "Uint8", codec.Name(b.LengthCodec))
	require.Equal(t, ContainerArray, b.Container)

	c, _ := s.Field("c")
	require.Equal(t, LengthNone, c.Length)
	require.Equal(t, convert.Int(), c.ElementTarget)

	d, _ := s.Field("d")
	require.Equal(t, LengthNone, d.Length)

	e, _ := s.Field("e")
	require.Equal(t, LengthFixed, e.Length)
	require.Equal(t, 4, e.Count)
}

func TestBuilder_OptionalScalarWrapsCodec(t *testing.T) {
	s, err := NewBuilder("S").Scalar("a", 1, format.Uint16LE, Optional()).Build()
	require.NoError(t, err)

	f, _ := s.Field("a")
	require.True(t, f.IsOptional())
	require.True(t, codec.AcceptsNil(f.Codec))
	require.Equal(t, convert.Uint16(), f.Target)
}

func TestSchema_Spans(t *testing.T) {
	p := point(t)
	span, fixed := p.FixedSpan()
	require.True(t, fixed)
	require.Equal(t, 4, span)
	require.Equal(t, 4, p.NoDataSpan())

	withArray, err := NewBuilder("Frame").
		Scalar("id", 1, format.Uint32LE).
		Nested("origin", 2, p).
		Sequence("pad", 3, format.Uint8, FixedCount(3)).
		SequenceOfObjects("corners", 4, p, FixedCount(2)).
		Build()
	require.NoError(t, err)
	span, fixed = withArray.FixedSpan()
	require.True(t, fixed)
	require.Equal(t, 4+4+3+8, span)

	dynamic, err := NewBuilder("Packet").
		Scalar("name", 1, format.BorshString).
		Sequence("data", 2, format.Uint8).
		Scalar("note", 3, format.CString, Optional()).
		Nested("p", 4, p, Optional()).
		Build()
	require.NoError(t, err)
	_, fixed = dynamic.FixedSpan()
	require.False(t, fixed)
	require.Equal(t, 4+1+1+1, dynamic.NoDataSpan())
}

func TestSchema_Identity(t *testing.T) {
	a := point(t)
	b := point(t)
	require.Equal(t, hash.ID("Point"), a.ID())
	require.Equal(t, a.Fingerprint(), b.Fingerprint())

	c, err := NewBuilder("Point").
		Scalar("x", 1, format.Int16LE).
		Scalar("y", 2, format.Int16BE).
		Build()
	require.NoError(t, err)
	require.Equal(t, a.ID(), c.ID())
	require.NotEqual(t, a.Fingerprint(), c.Fingerprint())

	d, err := NewBuilder("Point").
		Scalar("x", 1, format.Int16BE, As(convert.Int())).
		Scalar("y", 2, format.Int16BE).
		Build()
	require.NoError(t, err)
	require.Equal(t, a.Fingerprint(), d.Fingerprint(), "in-memory type does not change the layout")

	require.Equal(t, "Point{x:Int16BE@1, y:Int16BE@2}", a.String())
}

func TestRecord(t *testing.T) {
	s := point(t)
	r := NewRecord(s)

	require.NoError(t, r.Set("x", 3))
	require.ErrorIs(t, r.Set("z", 1), errs.ErrUnknownField)
	require.Panics(t, func() { r.MustSet("z", 1) })

	r.MustSet("y", 4)
	v, ok := r.Get("x")
	require.True(t, ok)
	require.Equal(t, 3, v)
	require.Equal(t, 4, r.Value("y"))
	require.Nil(t, r.Value("nope"))
	require.Same(t, s, r.Schema())
	require.Equal(t, "Point{x: 3, y: 4}", r.String())

	blob := []byte{1, 2}
	outer := NewBuilder("Outer").Nested("p", 1, s).Scalar("raw", 2, format.BorshBlob).MustBuild()
	o := NewRecord(outer).MustSet("p", r).MustSet("raw", blob)
	clone := o.Clone()

	blob[0] = 9
	r.MustSet("x", 100)
	require.Equal(t, []byte{1, 2}, clone.Value("raw"))
	require.Equal(t, 3, clone.Value("p").(*Record).Value("x"))
}
