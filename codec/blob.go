package codec

import (
	"bytes"
	"fmt"

	"github.com/Deanly/struct-layout-sub000/compress"
	"github.com/Deanly/struct-layout-sub000/convert"
	"github.com/Deanly/struct-layout-sub000/errs"
	"github.com/Deanly/struct-layout-sub000/format"
	"github.com/google/uuid"
)

// UUID is 16 raw bytes in RFC 4122 order.
type UUID struct{}

var _ Codec = UUID{}

func (UUID) Native() convert.Target { return convert.UUID() }
func (UUID) Span() int              { return 16 }
func (UUID) NoDataSpan() int        { return 16 }
func (UUID) String() string         { return "UUID" }

func (UUID) Append(dst []byte, v any) ([]byte, error) {
	nv, err := convert.To(convert.UUID(), v)
	if err != nil {
		return dst, err
	}
	if nv == nil {
		return append(dst, uuid.Nil[:]...), nil
	}

	id := nv.(uuid.UUID)

	return append(dst, id[:]...), nil
}

func (UUID) Decode(data []byte, offset int) (any, int, error) {
	if err := need(data, offset, 16); err != nil {
		return nil, 0, err
	}

	var id uuid.UUID
	copy(id[:], data[offset:offset+16])

	return id, 16, nil
}

// Compressed is a length-prefixed blob whose payload is compressed:
//
//	[compressed length: uint32 big-endian][compressed payload]
//
// The native value is the uncompressed byte slice.
type Compressed struct {
	algo compress.Codec
	name string
}

var (
	_ Codec   = (*Compressed)(nil)
	_ Spanner = (*Compressed)(nil)
)

// NewCompressed creates a compressed blob codec using algo. name is used for
// display only.
func NewCompressed(algo compress.Codec, name string) *Compressed {
	return &Compressed{algo: algo, name: name}
}

// NewCompressedType creates a compressed blob codec with its own instance of
// the ct algorithm, configured by opts. Use it to register blob wire types
// with a decompression limit other than compress.DefaultMaxDecompressedSize.
//
// Returns:
//   - *Compressed: Codec ready for Registry.Register
//   - error: errs.ErrCodecConstruction for an unknown algorithm or bad option
func NewCompressedType(ct format.CompressionType, name string, opts ...compress.Option) (*Compressed, error) {
	algo, err := compress.CreateCodec(ct, name, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrCodecConstruction, err)
	}

	return NewCompressed(algo, name), nil
}

func (c *Compressed) Native() convert.Target { return convert.Bytes() }
func (c *Compressed) Span() int              { return Dynamic }
func (c *Compressed) NoDataSpan() int        { return lengthPrefixSize }
func (c *Compressed) String() string         { return c.name }

func (c *Compressed) Append(dst []byte, v any) ([]byte, error) {
	nv, err := convert.To(convert.Bytes(), v)
	if err != nil {
		return dst, err
	}

	packed, err := c.algo.Compress(nv.([]byte))
	if err != nil {
		return dst, errs.Encodef(errs.ErrCorruptPayload, "%s: %v", c.name, err)
	}

	return appendPrefixed(dst, packed)
}

func (c *Compressed) Decode(data []byte, offset int) (any, int, error) {
	payload, n, err := readPrefixed(data, offset)
	if err != nil {
		return nil, 0, err
	}

	raw, err := c.algo.Decompress(payload)
	if err != nil {
		return nil, 0, errs.Decodef(offset, errs.ErrCorruptPayload, "%s: %w", c.name, err)
	}

	switch {
	case raw == nil:
		raw = []byte{}
	case len(raw) > 0 && len(payload) > 0 && &raw[0] == &payload[0]:
		raw = bytes.Clone(raw)
	}

	return raw, n, nil
}

func (c *Compressed) CalculateSpan(data []byte, offset int) (int, error) {
	_, n, err := readPrefixed(data, offset)
	return n, err
}
