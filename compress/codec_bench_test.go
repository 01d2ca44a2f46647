package compress

import (
	"fmt"
	"testing"
)

func BenchmarkAllCodecs_RoundTrip(b *testing.B) {
	for name, c := range allCodecs() {
		for _, size := range []int{64, 4096} {
			data := payload(size)
			b.Run(fmt.Sprintf("%s/%d", name, size), func(b *testing.B) {
				b.ReportAllocs()
				b.SetBytes(int64(size))
				for i := 0; i < b.N; i++ {
					packed, _ := c.Compress(data)
					_, _ = c.Decompress(packed)
				}
			})
		}
	}
}
