package blobsort

import "sync"

// bufferPool is a fixed set of equally sized byte buffers carved from a
// single allocation made at construction time. acquire blocks the caller
// until a buffer is free; release wakes exactly one waiter. No allocation
// happens after construction.
//
// The pool is also the system's only concurrency throttle: every leaf sort
// must hold a buffer before touching the input, so at most bufferCount leaf
// sorts are in flight regardless of how many goroutines the recursion has
// spawned. Goroutines beyond capacity block here, not in a scheduler queue.
type bufferPool struct {
	mu   sync.Mutex
	cond *sync.Cond
	free [][]byte
}

func newBufferPool(bufferSize int64, count int) *bufferPool {
	backing := make([]byte, int(bufferSize)*count)
	p := &bufferPool{free: make([][]byte, 0, count)}
	p.cond = sync.NewCond(&p.mu)
	for i := 0; i < count; i++ {
		p.free = append(p.free, backing[int64(i)*bufferSize:int64(i+1)*bufferSize])
	}
	return p
}

// acquire returns a lease on one free buffer, blocking until a buffer is
// available. Safe for concurrent use.
func (p *bufferPool) acquire() *lease {
	p.mu.Lock()
	for len(p.free) == 0 {
		p.cond.Wait()
	}
	buf := p.free[len(p.free)-1]
	p.free = p.free[:len(p.free)-1]
	p.mu.Unlock()
	return &lease{pool: p, buf: buf}
}

func (p *bufferPool) release(buf []byte) {
	p.mu.Lock()
	p.free = append(p.free, buf)
	p.mu.Unlock()
	p.cond.Signal()
}

// lease is a scoped handle on one pooled buffer. Release is idempotent, so
// it can be deferred unconditionally and the buffer still returns to the
// pool exactly once on every exit path.
type lease struct {
	pool *bufferPool
	buf  []byte
}

func (l *lease) bytes() []byte { return l.buf }

func (l *lease) Release() {
	if l.buf == nil {
		return
	}
	buf := l.buf
	l.buf = nil
	l.pool.release(buf)
}
