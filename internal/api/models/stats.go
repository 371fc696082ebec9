package models

import "time"

// ServerStatsResponse contains runtime and tap statistics.
type ServerStatsResponse struct {
	Uptime        string               `json:"uptime"`
	UptimeSeconds int64                `json:"uptime_seconds"`
	StartTime     time.Time            `json:"start_time"`
	GoRoutines    int                  `json:"goroutines"`
	MemoryAllocMB float64              `json:"memory_alloc_mb"`
	NumCPU        int                  `json:"num_cpu"`
	System        *SystemStatsResponse `json:"system,omitempty"`
	Decode        DecodeStatsResponse  `json:"decode"`
}

// SystemStatsResponse contains host-level metrics sampled via gopsutil.
type SystemStatsResponse struct {
	CPUPercent        float64 `json:"cpu_percent"`
	MemoryUsedPercent float64 `json:"memory_used_percent"`
}

// DecodeStatsResponse contains tap decode outcome counters.
type DecodeStatsResponse struct {
	Total          uint64  `json:"total"`
	OK             uint64  `json:"ok"`
	Rejected       uint64  `json:"rejected"`
	HeaderTooShort uint64  `json:"header_too_short"`
	BadQuestion    uint64  `json:"bad_question"`
	BadAnswer      uint64  `json:"bad_answer"`
	BadAuthority   uint64  `json:"bad_authority"`
	BadAdditional  uint64  `json:"bad_additional"`
	BytesSeen      uint64  `json:"bytes_seen"`
	AvgLatencyUs   float64 `json:"avg_latency_us"`
}
