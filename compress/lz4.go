package compress

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/pierrec/lz4/v4"
)

const lz4HeaderSize = 4

// ErrLZ4RawSize reports a raw-size header that is missing or does not match
// the decompressed block. Oversized headers fail with ErrDecompressedSize.
var ErrLZ4RawSize = errors.New("lz4: invalid raw size header")

var lz4CompressorPool = sync.Pool{
	New: func() any {
		return &lz4.Compressor{}
	},
}

// LZ4Compressor compresses blob payloads as LZ4 blocks.
//
// Output layout:
//
//	[raw length: uint32 big-endian][lz4 block]
//
// The header lets Decompress size its buffer exactly.
type LZ4Compressor struct {
	maxSize int
}

var _ Codec = (*LZ4Compressor)(nil)

func NewLZ4Compressor() LZ4Compressor {
	return LZ4Compressor{maxSize: DefaultMaxDecompressedSize}
}

// Compress compresses data into a header-prefixed LZ4 block.
//
// Returns:
//   - []byte: Compressed data (nil if input is empty)
//   - error: Compression error if any
func (c LZ4Compressor) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}
	if limit := sizeLimit(c.maxSize); len(data) > limit {
		return nil, errTooLarge("lz4", len(data), limit)
	}
	if uint64(len(data)) > math.MaxUint32 {
		return nil, fmt.Errorf("%w: %d bytes do not fit the header", ErrLZ4RawSize, len(data))
	}

	dst := make([]byte, lz4HeaderSize+lz4.CompressBlockBound(len(data)))
	binary.BigEndian.PutUint32(dst, uint32(len(data))) //nolint:gosec

	lc, _ := lz4CompressorPool.Get().(*lz4.Compressor)
	defer lz4CompressorPool.Put(lc)

	n, err := lc.CompressBlock(data, dst[lz4HeaderSize:])
	if err != nil {
		return nil, err
	}

	return dst[:lz4HeaderSize+n], nil
}

// Decompress restores a payload produced by Compress.
//
// Returns:
//   - []byte: Decompressed data (nil if input is empty)
//   - error: ErrLZ4RawSize for a bad header, ErrDecompressedSize over the limit, or lz4 block errors
func (c LZ4Compressor) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}
	if len(data) < lz4HeaderSize {
		return nil, fmt.Errorf("%w: need %d header bytes, have %d", ErrLZ4RawSize, lz4HeaderSize, len(data))
	}

	rawSize := binary.BigEndian.Uint32(data)
	if limit := sizeLimit(c.maxSize); uint64(rawSize) > uint64(limit) {
		return nil, errTooLarge("lz4", int(rawSize), limit)
	}

	buf := make([]byte, rawSize)
	n, err := lz4.UncompressBlock(data[lz4HeaderSize:], buf)
	if err != nil {
		return nil, err
	}
	if n != int(rawSize) {
		return nil, fmt.Errorf("%w: declared %d bytes, got %d", ErrLZ4RawSize, rawSize, n)
	}

	return buf, nil
}
