package server

import "sync"

// bufferPool hands out request read buffers of one fixed size
type bufferPool struct {
	size int
	pool sync.Pool
}

func newBufferPool(size int) *bufferPool {
	p := &bufferPool{size: size}
	p.pool.New = func() interface{} {
		buf := make([]byte, size)
		return &buf
	}
	return p
}

// get returns a buffer with len == size
func (p *bufferPool) get() []byte {
	buf := p.pool.Get().(*[]byte)
	return (*buf)[:p.size]
}

// put returns a buffer to the pool. Buffers of any other capacity are
// left to the GC.
func (p *bufferPool) put(buf []byte) {
	if cap(buf) != p.size {
		return
	}
	full := buf[:p.size]
	p.pool.Put(&full)
}
