// internal/model/stats.go
package model

import "time"

// HostStats holds a point-in-time sample of the host machine's
// resources, shown in the dashboard header.
type HostStats struct {
	// CPU
	CPUPercent float64

	// Memory (bytes)
	MemoryUsed  uint64
	MemoryTotal uint64

	// Host uptime as reported by the OS
	HostUptime time.Duration

	// Timestamp of the sample
	Timestamp time.Time
}

// MemoryPercent returns used memory as a percentage of total, or 0 if
// the total is unknown.
func (s HostStats) MemoryPercent() float64 {
	if s.MemoryTotal == 0 {
		return 0
	}
	return float64(s.MemoryUsed) / float64(s.MemoryTotal) * 100
}
