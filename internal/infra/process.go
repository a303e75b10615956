// Package infra implements the adapters behind the domain interfaces:
// simulated watch hardware, host clock and memory, the status file, the
// encrypted preference store and metrics.
package infra

import (
	"os"

	"github.com/shirou/gopsutil/v3/process"

	"github.com/eliteGoblin/wasp/internal/domain"
)

// ProcessManagerImpl implements domain.ProcessManager using gopsutil.
type ProcessManagerImpl struct{}

// NewProcessManager creates a new process manager.
func NewProcessManager() domain.ProcessManager {
	return &ProcessManagerImpl{}
}

// IsRunning checks if a PID exists and has not exited.
func (pm *ProcessManagerImpl) IsRunning(pid int) bool {
	if pid <= 0 {
		return false
	}
	exists, err := process.PidExists(int32(pid))
	if err != nil || !exists {
		return false
	}
	p, err := process.NewProcess(int32(pid))
	if err != nil {
		return false
	}
	// Zombies still have a PID.
	status, err := p.Status()
	if err != nil {
		return true
	}
	for _, s := range status {
		if s == process.Zombie {
			return false
		}
	}
	return true
}

// GetCurrentPID returns the current process PID.
func (pm *ProcessManagerImpl) GetCurrentPID() int {
	return os.Getpid()
}

// Ensure ProcessManagerImpl implements domain.ProcessManager.
var _ domain.ProcessManager = (*ProcessManagerImpl)(nil)
