package hash

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestID(t *testing.T) {
	tests := []struct {
		name string
		data string
		id   uint64
	}{
		{"empty string", "", 0xef46db3751d8e999},
		{"short string", "test", 0x4fdcca5ddb678139},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.id, ID(tt.data))
		})
	}
}

func TestDigest(t *testing.T) {
	a := NewDigest().WriteString("ab").WriteString("c").Sum64()
	b := NewDigest().WriteString("a").WriteString("bc").Sum64()
	c := NewDigest().WriteString("ab").WriteString("c").Sum64()

	assert.NotEqual(t, a, b, "part boundaries are part of the fingerprint")
	assert.Equal(t, a, c)
}
