package pool

import (
	"io"
	"sync"
)

// Label buffer sizing. Most labels fit in a few records; the threshold keeps
// a rare huge history label from pinning memory in the pool.
const (
	LabelBufferDefaultSize  = 1024 * 4  // 4KiB
	LabelBufferMaxThreshold = 1024 * 64 // 64KiB
)

// ByteBuffer is an append-only byte buffer used to render label areas.
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

// Reset empties the buffer but keeps its memory.
func (bb *ByteBuffer) Reset() {
	bb.B = bb.B[:0]
}

// Len returns the length of the buffer.
func (bb *ByteBuffer) Len() int {
	return len(bb.B)
}

// Write appends data to the buffer.
func (bb *ByteBuffer) Write(data []byte) (int, error) {
	bb.B = append(bb.B, data...)
	return len(data), nil
}

// WriteString appends s to the buffer.
func (bb *ByteBuffer) WriteString(s string) (int, error) {
	bb.B = append(bb.B, s...)
	return len(s), nil
}

// WriteByte appends c to the buffer.
func (bb *ByteBuffer) WriteByte(c byte) error {
	bb.B = append(bb.B, c)
	return nil
}

// Pad appends c until the buffer is n bytes long. It does nothing when the
// buffer is already at least n bytes.
func (bb *ByteBuffer) Pad(n int, c byte) {
	for len(bb.B) < n {
		bb.B = append(bb.B, c)
	}
}

// Overwrite copies data over the buffer starting at offset.
// Panics if the write would extend past the current length.
func (bb *ByteBuffer) Overwrite(offset int, data []byte) {
	if offset < 0 || offset+len(data) > len(bb.B) {
		panic("Overwrite: invalid range")
	}
	copy(bb.B[offset:], data)
}

// WriteTo writes the contents of the buffer to w.
func (bb *ByteBuffer) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(bb.B)
	return int64(n), err
}

// ByteBufferPool is a pool of ByteBuffers to minimize allocations.
//
// Buffers that grew beyond maxThreshold are dropped instead of being returned
// to the pool.
type ByteBufferPool struct {
	pool         sync.Pool
	maxThreshold int
}

// NewByteBufferPool creates a new ByteBufferPool with buffers of the specified default size.
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

// Get retrieves a ByteBuffer from the pool.
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

var labelDefaultPool = NewByteBufferPool(LabelBufferDefaultSize, LabelBufferMaxThreshold)

// GetLabelBuffer retrieves a ByteBuffer from the default label pool.
func GetLabelBuffer() *ByteBuffer {
	return labelDefaultPool.Get()
}

// PutLabelBuffer returns a ByteBuffer to the default label pool.
func PutLabelBuffer(bb *ByteBuffer) {
	labelDefaultPool.Put(bb)
}
