// Package compress provides the compression algorithms behind the compressed
// blob wire types (ZstdBlob, S2Blob, LZ4Blob, BrotliBlob).
//
// Every algorithm implements Codec. Built-in instances are stateless values
// shared through GetCodec; CreateCodec returns a fresh one.
//
//	c, err := compress.GetCodec(format.CompressionZstd)
//	if err != nil {
//	    return err
//	}
//	packed, err := c.Compress(payload)
//
// Empty input compresses to nil and nil decompresses to nil for every
// algorithm, so an empty blob field costs only its length prefix.
//
// Decompressed output is capped at DefaultMaxDecompressedSize. CreateCodec
// with WithMaxDecompressedSize builds a codec with a different cap; larger
// payloads fail with ErrDecompressedSize.
package compress
