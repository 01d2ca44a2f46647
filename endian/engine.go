// Package endian provides the byte order engines used by fixed-width codecs.
//
// Byte order is a fixed property of a codec, never a runtime parameter: the
// codec package builds one Int32LE codec around the little-endian engine and a
// distinct Int32BE codec around the big-endian engine.
//
// An EndianEngine combines binary.ByteOrder and binary.AppendByteOrder so a
// codec can both read in place and append to an output buffer:
//
//	engine := endian.GetBigEndianEngine()
//	buf = engine.AppendUint32(buf, 0xCAFEBABE)
//	v := engine.Uint32(buf[len(buf)-4:])
//
// All engines are immutable and safe for concurrent use.
package endian

import (
	"encoding/binary"
	"unsafe"
)

// EndianEngine combines ByteOrder and AppendByteOrder from encoding/binary.
//
// binary.LittleEndian and binary.BigEndian both satisfy it.
type EndianEngine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// CheckEndianness reports the host byte order.
func CheckEndianness() binary.ByteOrder {
	var i uint16 = 0x0100

	b := (*[2]byte)(unsafe.Pointer(&i))
	if b[0] == 0x01 {
		return binary.BigEndian
	}

	return binary.LittleEndian
}

// IsNativeLittleEndian reports whether the host is little-endian.
func IsNativeLittleEndian() bool {
	return CheckEndianness() == binary.LittleEndian
}

// IsLittleEndian reports whether engine writes the least significant byte first.
func IsLittleEndian(engine EndianEngine) bool {
	return engine == binary.LittleEndian
}

// Suffix returns the wire type suffix of engine: "LE" or "BE".
func Suffix(engine EndianEngine) string {
	if IsLittleEndian(engine) {
		return "LE"
	}

	return "BE"
}

// GetLittleEndianEngine returns the little-endian engine.
func GetLittleEndianEngine() EndianEngine {
	return binary.LittleEndian
}

// GetBigEndianEngine returns the big-endian engine.
func GetBigEndianEngine() EndianEngine {
	return binary.BigEndian
}
