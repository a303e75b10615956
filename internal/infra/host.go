package infra

import (
	"fmt"
	"sync"
	"time"

	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/eliteGoblin/wasp/internal/domain"
)

// HostRTC is the real-time clock backed by the host. Uptime continues the
// host's boot uptime so values match what the OS reports.
type HostRTC struct {
	mu       sync.Mutex
	start    time.Time
	base     time.Duration
	lastSecs int64
}

// NewHostRTC samples the host uptime via gopsutil. When that fails the
// clock counts from process start.
func NewHostRTC() *HostRTC {
	r := &HostRTC{start: time.Now(), lastSecs: -1}
	if secs, err := host.Uptime(); err == nil {
		r.base = time.Duration(secs) * time.Second
	}
	return r
}

// Update reports whether the wall clock moved to a new second.
func (r *HostRTC) Update() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	secs := time.Now().Unix()
	if secs == r.lastSecs {
		return false
	}
	r.lastSecs = secs
	return true
}

func (r *HostRTC) Uptime() time.Duration { return r.base + time.Since(r.start) }
func (r *HostRTC) UptimeMs() int64       { return r.Uptime().Milliseconds() }
func (r *HostRTC) LocalTime() time.Time  { return time.Now() }

// HostMemory reports available host memory.
type HostMemory struct{}

// NewMemoryReader creates a reader backed by gopsutil.
func NewMemoryReader() domain.MemoryReader {
	return HostMemory{}
}

func (HostMemory) Free() (uint64, error) {
	vm, err := mem.VirtualMemory()
	if err != nil {
		return 0, fmt.Errorf("read virtual memory: %w", err)
	}
	return vm.Available, nil
}
