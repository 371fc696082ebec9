// Package pool provides a pool of fixed-size packet buffers for the tap
// receive loop, reducing GC pressure under load.
package pool

import "sync"

// BufferPool hands out byte slices of a fixed size.
type BufferPool struct {
	internal sync.Pool
	size     int
}

// NewBufferPool creates a pool whose buffers are size bytes long.
func NewBufferPool(size int) *BufferPool {
	return &BufferPool{
		internal: sync.Pool{
			New: func() any {
				buf := make([]byte, size)
				return &buf
			},
		},
		size: size,
	}
}

// Get retrieves a buffer of the pool's fixed size.
func (p *BufferPool) Get() *[]byte {
	return p.internal.Get().(*[]byte)
}

// Put returns a buffer to the pool. Buffers of the wrong size are
// discarded rather than recycled.
func (p *BufferPool) Put(buf *[]byte) {
	if buf == nil || len(*buf) != p.size {
		return
	}
	p.internal.Put(buf)
}

// Size returns the length of the buffers this pool hands out.
func (p *BufferPool) Size() int {
	return p.size
}
