// Package format defines the wire type identifiers understood by struct-layout.
//
// A wire type names the binary encoding of a single field value, such as
// "unsigned 32-bit big-endian" or "Borsh length-prefixed string". It is
// distinct from the in-memory Go type the value is converted to.
package format

import "fmt"

type (
	WireType        uint8
	CompressionType uint8
)

const (
	Invalid WireType = 0x00 // Invalid is the zero value and never resolves to a codec.

	Int8     WireType = 0x01 // Int8 is a signed 8-bit integer.
	Uint8    WireType = 0x02 // Uint8 is an unsigned 8-bit integer.
	Int16LE  WireType = 0x03 // Int16LE is a signed 16-bit little-endian integer.
	Int16BE  WireType = 0x04 // Int16BE is a signed 16-bit big-endian integer.
	Uint16LE WireType = 0x05 // Uint16LE is an unsigned 16-bit little-endian integer.
	Uint16BE WireType = 0x06 // Uint16BE is an unsigned 16-bit big-endian integer.
	Int32LE  WireType = 0x07 // Int32LE is a signed 32-bit little-endian integer.
	Int32BE  WireType = 0x08 // Int32BE is a signed 32-bit big-endian integer.
	Uint32LE WireType = 0x09 // Uint32LE is an unsigned 32-bit little-endian integer.
	Uint32BE WireType = 0x0A // Uint32BE is an unsigned 32-bit big-endian integer.
	Int64LE  WireType = 0x0B // Int64LE is a signed 64-bit little-endian integer.
	Int64BE  WireType = 0x0C // Int64BE is a signed 64-bit big-endian integer.
	Uint64LE WireType = 0x0D // Uint64LE is an unsigned 64-bit little-endian integer.
	Uint64BE WireType = 0x0E // Uint64BE is an unsigned 64-bit big-endian integer.

	Float32LE WireType = 0x10 // Float32LE is an IEEE-754 binary32 in little-endian order.
	Float32BE WireType = 0x11 // Float32BE is an IEEE-754 binary32 in big-endian order.
	Float64LE WireType = 0x12 // Float64LE is an IEEE-754 binary64 in little-endian order.
	Float64BE WireType = 0x13 // Float64BE is an IEEE-754 binary64 in big-endian order.

	CChar   WireType = 0x20 // CChar is a single 7-bit ASCII character.
	UCChar  WireType = 0x21 // UCChar is a single unsigned byte character (Latin-1).
	CString WireType = 0x22 // CString is a NUL-terminated string.

	BorshString WireType = 0x30 // BorshString is a 4-byte length-prefixed UTF-8 string.
	BorshBlob   WireType = 0x31 // BorshBlob is a 4-byte length-prefixed byte blob.
	BorshBool   WireType = 0x32 // BorshBool is a single 0x00/0x01 byte.
	ShortVec    WireType = 0x33 // ShortVec is an unsigned LEB128 count.

	UUID     WireType = 0x40 // UUID is 16 raw bytes in RFC 4122 order.
	ZstdBlob WireType = 0x41 // ZstdBlob is a length-prefixed Zstandard-compressed blob.
	S2Blob   WireType = 0x42 // S2Blob is a length-prefixed S2-compressed blob.
	LZ4Blob  WireType = 0x43 // LZ4Blob is a length-prefixed LZ4 block-compressed blob.

	BrotliBlob WireType = 0x44 // BrotliBlob is a length-prefixed Brotli-compressed blob.
	KSUID      WireType = 0x45 // KSUID is a 20-byte K-Sortable Unique Identifier.

	// NoLength is the sentinel length type of a sequence without a length prefix.
	NoLength WireType = 0x7F

	// UserBase is the first identifier available for user-registered codecs.
	UserBase WireType = 0x80
)

const (
	CompressionNone CompressionType = 0x1 // CompressionNone represents no compression.
	CompressionZstd CompressionType = 0x2 // CompressionZstd represents Zstandard compression.
	CompressionS2   CompressionType = 0x3 // CompressionS2 represents S2 compression.
	CompressionLZ4  CompressionType = 0x4 // CompressionLZ4 represents LZ4 compression.

	CompressionBrotli CompressionType = 0x5 // CompressionBrotli represents Brotli compression.
)

var wireNames = map[WireType]string{
	Invalid:     "Invalid",
	Int8:        "Int8",
	Uint8:       "Uint8",
	Int16LE:     "Int16LE",
	Int16BE:     "Int16BE",
	Uint16LE:    "Uint16LE",
	Uint16BE:    "Uint16BE",
	Int32LE:     "Int32LE",
	Int32BE:     "Int32BE",
	Uint32LE:    "Uint32LE",
	Uint32BE:    "Uint32BE",
	Int64LE:     "Int64LE",
	Int64BE:     "Int64BE",
	Uint64LE:    "Uint64LE",
	Uint64BE:    "Uint64BE",
	Float32LE:   "Float32LE",
	Float32BE:   "Float32BE",
	Float64LE:   "Float64LE",
	Float64BE:   "Float64BE",
	CChar:       "CChar",
	UCChar:      "UCChar",
	CString:     "CString",
	BorshString: "BorshString",
	BorshBlob:   "BorshBlob",
	BorshBool:   "BorshBool",
	ShortVec:    "ShortVec",
	UUID:        "UUID",
	ZstdBlob:    "ZstdBlob",
	S2Blob:      "S2Blob",
	LZ4Blob:     "LZ4Blob",
	BrotliBlob:  "BrotliBlob",
	KSUID:       "KSUID",
	NoLength:    "NoLength",
}

func (w WireType) String() string {
	if name, ok := wireNames[w]; ok {
		return name
	}

	return fmt.Sprintf("WireType(0x%02x)", uint8(w))
}

// IsUser reports whether w lies in the range reserved for user registrations.
func (w WireType) IsUser() bool {
	return w >= UserBase
}

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionZstd:
		return "Zstd"
	case CompressionS2:
		return "S2"
	case CompressionLZ4:
		return "LZ4"
	case CompressionBrotli:
		return "Brotli"
	default:
		return "Unknown"
	}
}
