package infra

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"syscall"

	"github.com/eliteGoblin/wasp/internal/domain"
)

// StatusFileName is the snapshot file inside the data directory.
const StatusFileName = "status.json"

// StatusFile implements domain.StatusWriter using a JSON file that is
// replaced atomically on every write.
type StatusFile struct {
	path           string
	processManager domain.ProcessManager
}

// NewStatusFile creates a status file at path.
func NewStatusFile(path string, pm domain.ProcessManager) *StatusFile {
	return &StatusFile{path: path, processManager: pm}
}

// Path returns the snapshot file path.
func (f *StatusFile) Path() string {
	return f.path
}

// Write stores status, replacing the previous snapshot.
func (f *StatusFile) Write(status domain.Status) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0700); err != nil {
		return fmt.Errorf("failed to create status dir: %w", err)
	}

	// Serialise writers from the runner and a concurrent clear.
	lockFile, err := os.OpenFile(f.path+".lock", os.O_CREATE|os.O_RDWR, 0600)
	if err != nil {
		return fmt.Errorf("failed to open lock file: %w", err)
	}
	defer lockFile.Close()

	if err := syscall.Flock(int(lockFile.Fd()), syscall.LOCK_EX); err != nil {
		return fmt.Errorf("failed to acquire lock: %w", err)
	}
	defer func() { _ = syscall.Flock(int(lockFile.Fd()), syscall.LOCK_UN) }()

	return f.atomicWrite(status)
}

// Read returns the last snapshot, or nil when none was written.
func (f *StatusFile) Read() (*domain.Status, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var status domain.Status
	if err := json.Unmarshal(data, &status); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", f.path, err)
	}
	return &status, nil
}

// IsAlive reports whether the process that wrote the snapshot still runs.
func (f *StatusFile) IsAlive() (bool, error) {
	status, err := f.Read()
	if err != nil || status == nil {
		return false, err
	}
	return f.processManager.IsRunning(status.PID), nil
}

// Clear removes the snapshot. A missing file is not an error.
func (f *StatusFile) Clear() error {
	if err := os.Remove(f.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// atomicWrite writes the snapshot to a temp file and renames it in place.
func (f *StatusFile) atomicWrite(status domain.Status) error {
	data, err := json.MarshalIndent(status, "", "  ")
	if err != nil {
		return err
	}

	tmpPath := fmt.Sprintf("%s.%d.tmp", f.path, os.Getpid())
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return err
	}

	if err := os.Rename(tmpPath, f.path); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return nil
}

// Ensure StatusFile implements domain.StatusWriter.
var _ domain.StatusWriter = (*StatusFile)(nil)
