package compress

import (
	"bytes"
	"fmt"
	"io"

	"github.com/andybalholm/brotli"
)

// BrotliCompressor compresses blob payloads as a Brotli stream.
//
// It trades encode speed for ratio and suits payloads written once and read
// often, such as embedded text or configuration blobs.
type BrotliCompressor struct {
	level   int
	maxSize int
}

var _ Codec = (*BrotliCompressor)(nil)

// NewBrotliCompressor creates a compressor at brotli.DefaultCompression.
func NewBrotliCompressor() BrotliCompressor {
	return BrotliCompressor{level: brotli.DefaultCompression, maxSize: DefaultMaxDecompressedSize}
}

func (c BrotliCompressor) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	var buf bytes.Buffer
	w := brotli.NewWriterLevel(&buf, c.level)
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("brotli compression failed: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("brotli compression failed: %w", err)
	}

	return buf.Bytes(), nil
}

func (c BrotliCompressor) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	limit := sizeLimit(c.maxSize)
	r := io.LimitReader(brotli.NewReader(bytes.NewReader(data)), int64(limit)+1)

	out, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("brotli decompression failed: %w", err)
	}
	if len(out) > limit {
		return nil, errTooLarge("brotli", len(out), limit)
	}

	return out, nil
}
