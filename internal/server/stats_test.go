package server

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jroosing/dnslens/internal/wire"
)

func TestDecodeStatsRecord(t *testing.T) {
	s := NewDecodeStats()

	s.Record(wire.StatusOK, 100, 1000)
	s.Record(wire.StatusOK, 50, 3000)
	s.Record(wire.StatusBadQuestion, 12, 2000)
	s.Record(wire.StatusHeaderTooShort, 3, 0)

	snap := s.Snapshot()
	assert.Equal(t, uint64(4), snap.Total)
	assert.Equal(t, uint64(2), snap.OK)
	assert.Equal(t, uint64(2), snap.Rejected())
	assert.Equal(t, uint64(1), snap.BadQuestion)
	assert.Equal(t, uint64(1), snap.HeaderTooShort)
	assert.Equal(t, uint64(165), snap.BytesSeen)
	// 6000ns over 4 datagrams = 1.5us average.
	assert.InDelta(t, 1.5, snap.AvgLatencyUs, 0.001)
}

func TestDecodeStatsPerSectionCounters(t *testing.T) {
	s := NewDecodeStats()
	s.Record(wire.StatusBadAnswer, 1, 0)
	s.Record(wire.StatusBadAuthority, 1, 0)
	s.Record(wire.StatusBadAdditional, 1, 0)

	snap := s.Snapshot()
	assert.Equal(t, uint64(1), snap.BadAnswer)
	assert.Equal(t, uint64(1), snap.BadAuthority)
	assert.Equal(t, uint64(1), snap.BadAdditional)
	assert.Equal(t, uint64(0), snap.OK)
}

func TestDecodeStatsConcurrent(t *testing.T) {
	s := NewDecodeStats()

	var wg sync.WaitGroup
	const goroutines = 20
	const perGoroutine = 500
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perGoroutine; j++ {
				s.Record(wire.StatusOK, 10, 100)
			}
		}()
	}
	wg.Wait()

	snap := s.Snapshot()
	assert.Equal(t, uint64(goroutines*perGoroutine), snap.Total)
	assert.Equal(t, uint64(goroutines*perGoroutine), snap.OK)
}
