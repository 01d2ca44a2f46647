package compress

import (
	"fmt"

	"github.com/Deanly/struct-layout-sub000/format"
	"github.com/Deanly/struct-layout-sub000/internal/options"
)

// Compressor compresses a complete blob field payload.
//
// The returned slice is owned by the caller and the input is not modified.
type Compressor interface {
	Compress(data []byte) ([]byte, error)
}

// Decompressor restores a payload produced by the matching Compressor.
//
// Implementations must be safe for concurrent use. Corrupt or foreign input
// returns an error rather than partial output.
type Decompressor interface {
	Decompress(data []byte) ([]byte, error)
}

// Codec combines both directions of one algorithm.
type Codec interface {
	Compressor
	Decompressor
}

// CreateCodec returns a new Codec for the compression type.
//
// Parameters:
//   - compressionType: Type of compression (None, Zstd, S2, LZ4, or Brotli)
//   - target: Description of the consumer, used in error messages
//   - opts: Codec options such as WithMaxDecompressedSize
//
// Returns:
//   - Codec: Codec instance for the specified type
//   - error: Invalid compression type or option error
func CreateCodec(compressionType format.CompressionType, target string, opts ...Option) (Codec, error) {
	cfg := &config{maxSize: DefaultMaxDecompressedSize}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	switch compressionType {
	case format.CompressionNone:
		return NewNoOpCompressor(), nil
	case format.CompressionZstd:
		return newZstdCompressor(cfg.maxSize), nil
	case format.CompressionS2:
		return S2Compressor{maxSize: cfg.maxSize}, nil
	case format.CompressionLZ4:
		return LZ4Compressor{maxSize: cfg.maxSize}, nil
	case format.CompressionBrotli:
		c := NewBrotliCompressor()
		c.maxSize = cfg.maxSize

		return c, nil
	default:
		return nil, fmt.Errorf("invalid %s compression: %s", target, compressionType)
	}
}

var builtinCodecs = map[format.CompressionType]Codec{
	format.CompressionNone:   NewNoOpCompressor(),
	format.CompressionZstd:   NewZstdCompressor(),
	format.CompressionS2:     NewS2Compressor(),
	format.CompressionLZ4:    NewLZ4Compressor(),
	format.CompressionBrotli: NewBrotliCompressor(),
}

// GetCodec retrieves the shared built-in Codec for the compression type.
func GetCodec(compressionType format.CompressionType) (Codec, error) {
	if codec, ok := builtinCodecs[compressionType]; ok {
		return codec, nil
	}

	return nil, fmt.Errorf("unsupported compression type: %s", compressionType)
}
