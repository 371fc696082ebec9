package server

import (
	"sync/atomic"

	"github.com/jroosing/dnslens/internal/wire"
)

// DecodeStats collects decode outcome counters for the tap.
// All methods are safe for concurrent use.
type DecodeStats struct {
	total          atomic.Uint64
	ok             atomic.Uint64
	headerTooShort atomic.Uint64
	badQuestion    atomic.Uint64
	badAnswer      atomic.Uint64
	badAuthority   atomic.Uint64
	badAdditional  atomic.Uint64
	bytesSeen      atomic.Uint64
	latencyTotalNs atomic.Uint64
}

// NewDecodeStats creates a new statistics collector.
func NewDecodeStats() *DecodeStats {
	return &DecodeStats{}
}

// Record tallies one decoded datagram.
func (s *DecodeStats) Record(status wire.Status, length int, latencyNs int64) {
	s.total.Add(1)
	s.bytesSeen.Add(uint64(length))
	if latencyNs > 0 {
		s.latencyTotalNs.Add(uint64(latencyNs))
	}

	switch status {
	case wire.StatusOK:
		s.ok.Add(1)
	case wire.StatusHeaderTooShort:
		s.headerTooShort.Add(1)
	case wire.StatusBadQuestion:
		s.badQuestion.Add(1)
	case wire.StatusBadAnswer:
		s.badAnswer.Add(1)
	case wire.StatusBadAuthority:
		s.badAuthority.Add(1)
	case wire.StatusBadAdditional:
		s.badAdditional.Add(1)
	}
}

// DecodeStatsSnapshot is a point-in-time snapshot of tap statistics.
type DecodeStatsSnapshot struct {
	Total          uint64
	OK             uint64
	HeaderTooShort uint64
	BadQuestion    uint64
	BadAnswer      uint64
	BadAuthority   uint64
	BadAdditional  uint64
	BytesSeen      uint64
	AvgLatencyUs   float64
}

// Rejected returns the number of datagrams that failed structural decode.
func (s DecodeStatsSnapshot) Rejected() uint64 {
	return s.Total - s.OK
}

// Snapshot returns the current statistics.
func (s *DecodeStats) Snapshot() DecodeStatsSnapshot {
	total := s.total.Load()
	latencyNs := s.latencyTotalNs.Load()

	avgLatencyUs := 0.0
	if total > 0 {
		avgLatencyUs = float64(latencyNs) / float64(total) / 1e3
	}

	return DecodeStatsSnapshot{
		Total:          total,
		OK:             s.ok.Load(),
		HeaderTooShort: s.headerTooShort.Load(),
		BadQuestion:    s.badQuestion.Load(),
		BadAnswer:      s.badAnswer.Load(),
		BadAuthority:   s.badAuthority.Load(),
		BadAdditional:  s.badAdditional.Load(),
		BytesSeen:      s.bytesSeen.Load(),
		AvgLatencyUs:   avgLatencyUs,
	}
}
