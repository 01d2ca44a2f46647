package compress

// NoOpCompressor passes payloads through unchanged.
//
// Both directions return the input slice itself; callers that keep the result
// must not modify the input afterwards.
type NoOpCompressor struct{}

var _ Codec = (*NoOpCompressor)(nil)

func NewNoOpCompressor() NoOpCompressor {
	return NoOpCompressor{}
}

func (c NoOpCompressor) Compress(data []byte) ([]byte, error) {
	return data, nil
}

func (c NoOpCompressor) Decompress(data []byte) ([]byte, error) {
	return data, nil
}
