package pool

import "sync"

const (
	EncodeBufferDefaultSize  = 1024       // 1KiB
	EncodeBufferMaxThreshold = 1024 * 256 // 256KiB
)

// ByteBuffer is a reusable append target for record encoding.
type ByteBuffer struct {
	// B is the underlying byte slice.
	B []byte
}

// NewByteBuffer creates a new ByteBuffer with the specified default size.
func NewByteBuffer(defaultSize int) *ByteBuffer {
	return &ByteBuffer{
		B: make([]byte, 0, defaultSize),
	}
}

// Bytes returns the underlying byte slice.
func (bb *ByteBuffer) Bytes() []byte {
	return bb.B
}

// Reset empties the buffer and keeps its capacity.
func (bb *ByteBuffer) Reset() {
	bb.B = bb.B[:0]
}

// Len returns the length of the buffer.
func (bb *ByteBuffer) Len() int {
	return len(bb.B)
}

// ByteBufferPool is a sync.Pool of ByteBuffers.
//
// Buffers that grew beyond maxThreshold are dropped on Put so one oversized
// record does not pin memory for the process lifetime.
type ByteBufferPool struct {
	pool         sync.Pool
	maxThreshold int
}

// NewByteBufferPool creates a pool of buffers with the given initial capacity.
func NewByteBufferPool(defaultSize int, maxThreshold int) *ByteBufferPool {
	return &ByteBufferPool{
		pool: sync.Pool{
			New: func() any {
				return NewByteBuffer(defaultSize)
			},
		},
		maxThreshold: maxThreshold,
	}
}

// Get retrieves an empty ByteBuffer from the pool.
func (bbp *ByteBufferPool) Get() *ByteBuffer {
	bb, _ := bbp.pool.Get().(*ByteBuffer)
	return bb
}

// Put returns a ByteBuffer to the pool for reuse.
func (bbp *ByteBufferPool) Put(bb *ByteBuffer) {
	if bb == nil {
		return
	}

	if bbp.maxThreshold > 0 && cap(bb.B) > bbp.maxThreshold {
		return
	}

	bb.Reset()
	bbp.pool.Put(bb)
}

var encodeDefaultPool = NewByteBufferPool(EncodeBufferDefaultSize, EncodeBufferMaxThreshold)

// GetEncodeBuffer retrieves a ByteBuffer from the default encode pool.
func GetEncodeBuffer() *ByteBuffer {
	return encodeDefaultPool.Get()
}

// PutEncodeBuffer returns a ByteBuffer to the default encode pool.
func PutEncodeBuffer(bb *ByteBuffer) {
	encodeDefaultPool.Put(bb)
}
