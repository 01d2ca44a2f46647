// Package structlayout encodes and decodes binary records described by
// declarative schemas.
//
// A schema lists a record's fields with their processing order and wire
// type: fixed-width integers in either byte order, IEEE floats, C characters
// and NUL-terminated strings, Borsh strings, blobs and booleans, ShortVec
// counts, UUIDs and compressed blobs. Fields may also be sequences, nested
// records, records chosen at decode time by a dispatcher, or values of a
// user supplied codec.
//
// # Core Features
//
//   - Schemas validated once at build time, every problem reported together
//   - Length-prefixed, unprefixed and fixed-count sequences
//   - Optional values with a one-byte presence tag
//   - Polymorphic records via discriminant dispatch
//   - Conversion between wire types and in-memory Go types with range checks
//   - Errors carrying the failing field path and offset
//
// # Basic Usage
//
// Declaring a schema and round-tripping a record:
//
//	import (
//	    structlayout "github.com/Deanly/struct-layout-sub000"
//	    "github.com/Deanly/struct-layout-sub000/format"
//	    "github.com/Deanly/struct-layout-sub000/schema"
//	)
//
//	point := schema.NewBuilder("Point").
//	    Scalar("x", 1, format.Int16BE).
//	    Scalar("y", 2, format.Int16BE).
//	    MustBuild()
//
//	data, _ := structlayout.Encode(schema.NewRecord(point).MustSet("x", 3).MustSet("y", 4))
//	rec, _ := structlayout.Decode(data, point)
//	fmt.Println(rec.Value("x")) // 3
//
// Binding a Go struct with explicit accessors:
//
//	type Point struct{ X, Y int16 }
//
//	binding := structlayout.Bind(point,
//	    func(p Point, r *schema.Record) error {
//	        r.MustSet("x", p.X).MustSet("y", p.Y)
//	        return nil
//	    },
//	    func(r *schema.Record) (Point, error) {
//	        return Point{X: r.Value("x").(int16), Y: r.Value("y").(int16)}, nil
//	    })
//
//	data, _ = binding.Marshal(Point{X: 3, Y: 4})
//
// # Package Structure
//
// This package wraps a default layout.Engine. Use the layout package directly
// to install a logger or tune diagnostics, schema to declare layouts, codec to
// register user codecs, and convert for the wire to Go type rules.
package structlayout

import (
	"github.com/Deanly/struct-layout-sub000/internal/hash"
	"github.com/Deanly/struct-layout-sub000/layout"
	"github.com/Deanly/struct-layout-sub000/schema"
)

var defaultEngine = mustEngine()

func mustEngine() *layout.Engine {
	e, err := layout.New()
	if err != nil {
		panic(err)
	}

	return e
}

// NewEngine creates an engine with the given options.
//
// Parameters:
//   - opts: Engine options such as layout.WithLogger
//
// Returns:
//   - *layout.Engine: Engine safe for concurrent use
//   - error: Invalid option value
func NewEngine(opts ...layout.Option) (*layout.Engine, error) {
	return layout.New(opts...)
}

// Encode serializes rec with the default engine. A nil record encodes to an
// empty slice.
func Encode(rec *schema.Record) ([]byte, error) {
	return defaultEngine.Encode(rec)
}

// Decode deserializes a record of s from the start of data with the default
// engine.
func Decode(data []byte, s *schema.Schema) (*schema.Record, error) {
	return defaultEngine.Decode(data, s)
}

// DecodeAt deserializes a record of s at data[offset] and returns the bytes
// consumed.
func DecodeAt(data []byte, offset int, s *schema.Schema) (*schema.Record, int, error) {
	return defaultEngine.DecodeAt(data, offset, s)
}

// CalculateSize returns the encoded size of rec.
func CalculateSize(rec *schema.Record) (int, error) {
	return defaultEngine.CalculateSize(rec)
}

// Dump encodes rec and returns a hex dump of the bytes.
func Dump(rec *schema.Record) (string, error) {
	return defaultEngine.Dump(rec)
}

// SchemaID returns the 64-bit identifier of a record type name, the value
// reported by Schema.ID and used by schema.Catalog.
func SchemaID(name string) uint64 {
	return hash.ID(name)
}
