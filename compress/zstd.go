package compress

import (
	"errors"
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"
)

// ZstdCompressor compresses blob payloads as single Zstandard frames.
//
// Encoders and decoders are pooled; EncodeAll and DecodeAll are stateless so a
// pooled instance is reusable even after a failed call. Decoders are bound to
// the compressor's size limit, so each limit has its own decoder pool.
type ZstdCompressor struct {
	maxSize  int
	decoders *sync.Pool
}

var _ Codec = (*ZstdCompressor)(nil)

// NewZstdCompressor creates a new Zstd compressor with default settings.
//
// Example:
//
//	compressor := NewZstdCompressor()
//	compressed, err := compressor.Compress(data)
//	if err != nil {
//		return err
//	}
func NewZstdCompressor() ZstdCompressor {
	return ZstdCompressor{maxSize: DefaultMaxDecompressedSize, decoders: defaultZstdDecoders}
}

func newZstdCompressor(maxSize int) ZstdCompressor {
	if maxSize == DefaultMaxDecompressedSize {
		return NewZstdCompressor()
	}

	return ZstdCompressor{maxSize: maxSize, decoders: newZstdDecoderPool(maxSize)}
}

var defaultZstdDecoders = newZstdDecoderPool(DefaultMaxDecompressedSize)

func newZstdDecoderPool(maxSize int) *sync.Pool {
	return &sync.Pool{
		New: func() any {
			decoder, err := zstd.NewReader(nil,
				zstd.WithDecoderConcurrency(1),
				zstd.WithDecoderLowmem(false),
				zstd.WithDecoderMaxMemory(uint64(maxSize)), //nolint:gosec
			)
			if err != nil {
				panic(fmt.Sprintf("failed to create zstd decoder for pool: %v", err))
			}

			return decoder
		},
	}
}

var zstdEncoderPool = sync.Pool{
	New: func() any {
		encoder, err := zstd.NewWriter(nil,
			zstd.WithEncoderLevel(zstd.SpeedDefault),
			zstd.WithEncoderCRC(false),
		)
		if err != nil {
			panic(fmt.Sprintf("failed to create zstd encoder for pool: %v", err))
		}

		return encoder
	},
}

func (c ZstdCompressor) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	encoder := zstdEncoderPool.Get().(*zstd.Encoder)
	defer zstdEncoderPool.Put(encoder)

	return encoder.EncodeAll(data, nil), nil
}

func (c ZstdCompressor) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	pool := c.decoders
	if pool == nil {
		pool = defaultZstdDecoders
	}

	decoder := pool.Get().(*zstd.Decoder)
	defer pool.Put(decoder)

	decompressed, err := decoder.DecodeAll(data, nil)
	if errors.Is(err, zstd.ErrDecoderSizeExceeded) {
		return nil, fmt.Errorf("%w: zstd frame exceeds %d bytes", ErrDecompressedSize, sizeLimit(c.maxSize))
	}
	if err != nil {
		return nil, fmt.Errorf("zstd decompression failed: %w", err)
	}

	return decompressed, nil
}
