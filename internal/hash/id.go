package hash

import "github.com/cespare/xxhash/v2"

// ID computes the xxHash64 of the given string.
func ID(data string) uint64 {
	return xxhash.Sum64String(data)
}

// Digest accumulates a layout fingerprint from ordered parts.
type Digest struct {
	d *xxhash.Digest
}

// NewDigest returns an empty fingerprint digest.
func NewDigest() Digest {
	return Digest{d: xxhash.New()}
}

// WriteString adds s followed by a separator byte so adjacent parts cannot merge.
func (d Digest) WriteString(s string) Digest {
	_, _ = d.d.WriteString(s)
	_, _ = d.d.Write([]byte{0x1F})

	return d
}

// Sum64 returns the fingerprint of everything written so far.
func (d Digest) Sum64() uint64 {
	return d.d.Sum64()
}
