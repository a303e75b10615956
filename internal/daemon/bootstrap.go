package daemon

import (
	"os"
	"os/exec"
	"syscall"
)

// StartDetached re-executes the current binary with args in a new
// session, detached from the terminal, and returns the child's PID.
func StartDetached(args ...string) (int, error) {
	executable, err := os.Executable()
	if err != nil {
		return 0, err
	}

	cmd := exec.Command(executable, args...)
	cmd.SysProcAttr = &syscall.SysProcAttr{
		Setsid: true,
	}
	cmd.Stdin = nil
	cmd.Stdout = nil
	cmd.Stderr = nil

	if err := cmd.Start(); err != nil {
		return 0, err
	}
	pid := cmd.Process.Pid
	// The child outlives us; nothing will Wait for it.
	_ = cmd.Process.Release()
	return pid, nil
}
