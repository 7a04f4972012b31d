// internal/hostinfo/hostinfo.go
package hostinfo

import (
	"net"
	"os"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"

	"roommon/internal/model"
)

// Hostname returns the machine's hostname, "Unknown" when unavailable
func Hostname() string {
	name, err := os.Hostname()
	if err != nil || name == "" {
		return "Unknown"
	}
	return name
}

// LocalIP discovers the outbound interface address. No packets are sent;
// the UDP dial only resolves the local routing decision.
func LocalIP() string {
	conn, err := net.Dial("udp", "8.8.8.8:80")
	if err != nil {
		return "Unknown"
	}
	defer conn.Close()

	addr, ok := conn.LocalAddr().(*net.UDPAddr)
	if !ok {
		return "Unknown"
	}
	return addr.IP.String()
}

// Sample collects a point-in-time host resource reading for the header.
// Individual probe failures leave the corresponding fields at zero; a
// dashboard on an exotic platform still runs.
func Sample() model.HostStats {
	stats := model.HostStats{Timestamp: time.Now()}

	// Percentage since the previous call; the first sample reads as 0
	if percents, err := cpu.Percent(0, false); err == nil && len(percents) > 0 {
		stats.CPUPercent = percents[0]
	}

	if vm, err := mem.VirtualMemory(); err == nil {
		stats.MemoryUsed = vm.Used
		stats.MemoryTotal = vm.Total
	}

	if up, err := host.Uptime(); err == nil {
		stats.HostUptime = time.Duration(up) * time.Second
	}

	return stats
}
