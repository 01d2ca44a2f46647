// Package hexdump renders byte slices as offset, hex and ASCII columns for
// inspecting encoded records.
//
// Each row has the form
//
//	00000010  01 02 03 04 05 06 07 08  09 0a 0b 0c 0d 0e 0f 10  |................|
//
// with an extra space after every eighth byte. Non-printable bytes are shown
// as '.' in the ASCII column.
package hexdump

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/Deanly/struct-layout-sub000/internal/options"
)

// DefaultWidth is the number of bytes rendered per row.
const DefaultWidth = 16

const groupSize = 8

type config struct {
	width      int
	baseOffset int
}

// Option configures Format.
type Option = options.Option[*config]

// WithWidth sets the number of bytes per row. n must be positive.
func WithWidth(n int) Option {
	return options.New(func(c *config) error {
		if n <= 0 {
			return fmt.Errorf("hexdump: width must be positive, got %d", n)
		}
		c.width = n

		return nil
	})
}

// WithBaseOffset sets the offset printed for the first byte. Use it when data
// is a window into a larger buffer.
func WithBaseOffset(n int) Option {
	return options.New(func(c *config) error {
		if n < 0 {
			return fmt.Errorf("hexdump: base offset must not be negative, got %d", n)
		}
		c.baseOffset = n

		return nil
	})
}

// Dump returns the hex dump of data with default options.
// An empty input yields an empty string.
func Dump(data []byte) string {
	var sb strings.Builder
	_ = Format(&sb, data)

	return sb.String()
}

// Format writes the hex dump of data to w.
//
// Parameters:
//   - w: Destination writer
//   - data: Bytes to render
//   - opts: Dump options (WithWidth, WithBaseOffset)
//
// Returns:
//   - error: Invalid option or write error
func Format(w io.Writer, data []byte, opts ...Option) error {
	cfg := &config{width: DefaultWidth}
	if err := options.Apply(cfg, opts...); err != nil {
		return err
	}

	bw := bufio.NewWriter(w)
	for row := 0; row < len(data); row += cfg.width {
		end := min(row+cfg.width, len(data))
		writeRow(bw, cfg, cfg.baseOffset+row, data[row:end])
	}

	return bw.Flush()
}

func writeRow(w *bufio.Writer, cfg *config, offset int, line []byte) {
	fmt.Fprintf(w, "%08x ", offset)

	for j := 0; j < cfg.width; j++ {
		if j%groupSize == 0 {
			w.WriteByte(' ')
		}
		if j < len(line) {
			fmt.Fprintf(w, "%02x ", line[j])
		} else {
			w.WriteString("   ")
		}
	}

	w.WriteString(" |")
	for _, b := range line {
		if b >= 0x20 && b <= 0x7e {
			w.WriteByte(b)
		} else {
			w.WriteByte('.')
		}
	}
	w.WriteString("|\n")
}
