package compress

import (
	"errors"
	"fmt"

	"github.com/Deanly/struct-layout-sub000/internal/options"
)

// DefaultMaxDecompressedSize bounds the output of every Decompress call
// unless the codec was created with WithMaxDecompressedSize.
const DefaultMaxDecompressedSize = 128 * 1024 * 1024

// ErrDecompressedSize reports a payload that expands beyond the codec limit.
var ErrDecompressedSize = errors.New("decompressed size exceeds limit")

type config struct {
	maxSize int
}

// Option configures a codec created by CreateCodec.
type Option = options.Option[*config]

// WithMaxDecompressedSize sets the largest payload Decompress may return.
// Decompression stops and fails with ErrDecompressedSize once the limit is
// crossed, before the full output is allocated.
func WithMaxDecompressedSize(n int) Option {
	return options.New(func(c *config) error {
		if n <= 0 {
			return fmt.Errorf("compress: max decompressed size must be positive, got %d", n)
		}
		c.maxSize = n

		return nil
	})
}

// sizeLimit returns n, or the default for the zero value.
func sizeLimit(n int) int {
	if n <= 0 {
		return DefaultMaxDecompressedSize
	}

	return n
}

func errTooLarge(algo string, size, limit int) error {
	return fmt.Errorf("%w: %s payload of %d bytes, limit %d", ErrDecompressedSize, algo, size, limit)
}
