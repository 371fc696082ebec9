package pool_test

import (
	"sync"
	"testing"

	"github.com/jroosing/dnslens/internal/pool"
	"github.com/stretchr/testify/assert"
)

func TestBufferPool_GetAndPut(t *testing.T) {
	p := pool.NewBufferPool(1024)

	buf := p.Get()
	assert.NotNil(t, buf)
	assert.Len(t, *buf, 1024)
	assert.Equal(t, 1024, p.Size())

	p.Put(buf)

	buf2 := p.Get()
	assert.NotNil(t, buf2)
	assert.Len(t, *buf2, 1024)
}

func TestBufferPool_RejectsWrongSize(t *testing.T) {
	p := pool.NewBufferPool(64)

	wrong := make([]byte, 32)
	p.Put(&wrong) // silently discarded
	p.Put(nil)

	buf := p.Get()
	assert.Len(t, *buf, 64)
}

func TestBufferPool_ConcurrentAccess(t *testing.T) {
	p := pool.NewBufferPool(256)

	var wg sync.WaitGroup
	const goroutines = 50
	const iterations = 500

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < iterations; j++ {
				buf := p.Get()
				(*buf)[0] = 1
				p.Put(buf)
			}
		}()
	}
	wg.Wait()
}

func BenchmarkBufferPool_GetPut(b *testing.B) {
	p := pool.NewBufferPool(4096)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		buf := p.Get()
		p.Put(buf)
	}
}
