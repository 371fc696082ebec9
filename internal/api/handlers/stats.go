package handlers

import (
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/jroosing/dnslens/internal/api/models"
)

// Stats returns process runtime statistics, host-level metrics, and the
// tap's decode counters.
func (h *Handler) Stats(c *gin.Context) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	uptime := time.Since(h.startTime)

	resp := models.ServerStatsResponse{
		Uptime:        uptime.Round(time.Second).String(),
		UptimeSeconds: int64(uptime.Seconds()),
		StartTime:     h.startTime,
		GoRoutines:    runtime.NumGoroutine(),
		MemoryAllocMB: float64(m.Alloc) / 1024 / 1024,
		NumCPU:        runtime.NumCPU(),
		System:        sampleSystemStats(),
	}

	if h.statsFn != nil {
		s := h.statsFn()
		resp.Decode = models.DecodeStatsResponse{
			Total:          s.Total,
			OK:             s.OK,
			Rejected:       s.Rejected,
			HeaderTooShort: s.HeaderTooShort,
			BadQuestion:    s.BadQuestion,
			BadAnswer:      s.BadAnswer,
			BadAuthority:   s.BadAuthority,
			BadAdditional:  s.BadAdditional,
			BytesSeen:      s.BytesSeen,
			AvgLatencyUs:   s.AvgLatencyUs,
		}
	}

	c.JSON(http.StatusOK, resp)
}

// sampleSystemStats reads host metrics via gopsutil. Returns nil when the
// platform does not expose them; the field is then omitted from the JSON.
func sampleSystemStats() *models.SystemStatsResponse {
	out := &models.SystemStatsResponse{}

	if percents, err := cpu.Percent(0, false); err == nil && len(percents) > 0 {
		out.CPUPercent = percents[0]
	}
	vm, err := mem.VirtualMemory()
	if err != nil {
		return nil
	}
	out.MemoryUsedPercent = vm.UsedPercent
	return out
}
