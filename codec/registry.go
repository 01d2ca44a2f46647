package codec

import (
	"fmt"
	"slices"
	"sync"

	"github.com/Deanly/struct-layout-sub000/compress"
	"github.com/Deanly/struct-layout-sub000/endian"
	"github.com/Deanly/struct-layout-sub000/errs"
	"github.com/Deanly/struct-layout-sub000/format"
)

// Registry maps wire types to shared codec instances.
//
// A new registry holds every built-in wire type. Built-ins are immutable;
// user codecs are registered under identifiers from format.UserBase upward.
// Registry is safe for concurrent use.
type Registry struct {
	mu     sync.RWMutex
	codecs map[format.WireType]Codec
}

// NewRegistry creates a registry pre-populated with the built-in codecs.
func NewRegistry() *Registry {
	r := &Registry{codecs: make(map[format.WireType]Codec, len(builtins))}
	for wire, c := range builtins {
		r.codecs[wire] = c
	}

	return r
}

var defaultRegistry = NewRegistry()

// DefaultRegistry returns the process-wide registry used when a schema
// builder is not given one.
func DefaultRegistry() *Registry {
	return defaultRegistry
}

// Lookup returns the codec registered for wire.
//
// Returns:
//   - Codec: Shared codec instance
//   - error: errs.ErrUnsupportedType if wire is unknown
func (r *Registry) Lookup(wire format.WireType) (Codec, error) {
	r.mu.RLock()
	c, ok := r.codecs[wire]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", errs.ErrUnsupportedType, wire)
	}

	return c, nil
}

// Register adds a user codec under wire.
//
// Returns:
//   - errs.ErrReservedWireType if wire is below format.UserBase
//   - errs.ErrDuplicateCodec if wire is already registered
//   - errs.ErrCodecConstruction if c is nil
func (r *Registry) Register(wire format.WireType, c Codec) error {
	if !wire.IsUser() {
		return fmt.Errorf("%w: %s", errs.ErrReservedWireType, wire)
	}
	if IsNil(c) {
		return fmt.Errorf("%w: nil codec for %s", errs.ErrCodecConstruction, wire)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.codecs[wire]; ok {
		return fmt.Errorf("%w: %s", errs.ErrDuplicateCodec, wire)
	}
	r.codecs[wire] = c

	return nil
}

// Wires returns every registered wire type in ascending order.
func (r *Registry) Wires() []format.WireType {
	r.mu.RLock()
	out := make([]format.WireType, 0, len(r.codecs))
	for wire := range r.codecs {
		out = append(out, wire)
	}
	r.mu.RUnlock()

	slices.Sort(out)

	return out
}

var builtins = buildBuiltins()

func buildBuiltins() map[format.WireType]Codec {
	le := endian.GetLittleEndianEngine()
	be := endian.GetBigEndianEngine()

	mustInt := func(size int, signed bool, engine endian.EndianEngine) Codec {
		c, err := NewInteger(size, signed, engine)
		if err != nil {
			panic(err)
		}

		return c
	}
	mustFloat := func(size int, engine endian.EndianEngine) Codec {
		c, err := NewFloat(size, engine)
		if err != nil {
			panic(err)
		}

		return c
	}
	mustCompressed := func(ct format.CompressionType, wire format.WireType) Codec {
		algo, err := compress.GetCodec(ct)
		if err != nil {
			panic(err)
		}

		return NewCompressed(algo, wire.String())
	}

	return map[format.WireType]Codec{
		format.Int8:     mustInt(1, true, le),
		format.Uint8:    mustInt(1, false, le),
		format.Int16LE:  mustInt(2, true, le),
		format.Int16BE:  mustInt(2, true, be),
		format.Uint16LE: mustInt(2, false, le),
		format.Uint16BE: mustInt(2, false, be),
		format.Int32LE:  mustInt(4, true, le),
		format.Int32BE:  mustInt(4, true, be),
		format.Uint32LE: mustInt(4, false, le),
		format.Uint32BE: mustInt(4, false, be),
		format.Int64LE:  mustInt(8, true, le),
		format.Int64BE:  mustInt(8, true, be),
		format.Uint64LE: mustInt(8, false, le),
		format.Uint64BE: mustInt(8, false, be),

		format.Float32LE: mustFloat(4, le),
		format.Float32BE: mustFloat(4, be),
		format.Float64LE: mustFloat(8, le),
		format.Float64BE: mustFloat(8, be),

		format.CChar:   CChar{},
		format.UCChar:  UCChar{},
		format.CString: CString{},

		format.BorshString: BorshString{},
		format.BorshBlob:   BorshBlob{},
		format.BorshBool:   BorshBool{},
		format.ShortVec:    ShortVec{},

		format.UUID:       UUID{},
		format.KSUID:      KSUID{},
		format.ZstdBlob:   mustCompressed(format.CompressionZstd, format.ZstdBlob),
		format.S2Blob:     mustCompressed(format.CompressionS2, format.S2Blob),
		format.LZ4Blob:    mustCompressed(format.CompressionLZ4, format.LZ4Blob),
		format.BrotliBlob: mustCompressed(format.CompressionBrotli, format.BrotliBlob),
	}
}
