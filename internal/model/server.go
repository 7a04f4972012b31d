// internal/model/server.go
package model

import "time"

// ServerInfo describes the host the control script runs on. Set once
// when the script is attached; uptime is always derived from StartTime
// at render time instead of being stored as a counter.
type ServerInfo struct {
	Hostname  string
	IP        string
	StartTime time.Time
}

// Uptime returns the session uptime relative to now.
func (s ServerInfo) Uptime(now time.Time) time.Duration {
	if s.StartTime.IsZero() {
		return 0
	}
	return now.Sub(s.StartTime)
}
