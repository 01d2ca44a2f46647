package endian

import (
	"encoding/binary"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"
)

func TestCheckEndianness(t *testing.T) {
	var word uint16 = 0x0102
	first := (*[2]byte)(unsafe.Pointer(&word))[0]

	switch first {
	case 0x01:
		require.Equal(t, binary.BigEndian, CheckEndianness())
		require.False(t, IsNativeLittleEndian())
	case 0x02:
		require.Equal(t, binary.LittleEndian, CheckEndianness())
		require.True(t, IsNativeLittleEndian())
	default:
		require.Failf(t, "unexpected byte value", "got: %v", first)
	}
}

func TestEngines(t *testing.T) {
	little := GetLittleEndianEngine()
	big := GetBigEndianEngine()

	require.Implements(t, (*EndianEngine)(nil), little)
	require.Implements(t, (*EndianEngine)(nil), big)
	require.True(t, IsLittleEndian(little))
	require.False(t, IsLittleEndian(big))
	require.Equal(t, "LE", Suffix(little))
	require.Equal(t, "BE", Suffix(big))

	le := little.AppendUint32(nil, 0x01020304)
	be := big.AppendUint32(nil, 0x01020304)
	require.Equal(t, []byte{0x04, 0x03, 0x02, 0x01}, le)
	require.Equal(t, []byte{0x01, 0x02, 0x03, 0x04}, be)
	require.Equal(t, uint32(0x01020304), little.Uint32(le))
	require.Equal(t, uint32(0x01020304), big.Uint32(be))
}
