package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/eliteGoblin/wasp/internal/domain"
	"github.com/eliteGoblin/wasp/internal/infra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the running watch's state",
	Long:  `Reads the status file written by a running watch and checks that its process is alive.`,
	RunE:  runStatus,
}

type statusReport struct {
	Running bool           `json:"running"`
	Status  *domain.Status `json:"status,omitempty"`
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	file := infra.NewStatusFile(cfg.StatusPath(), infra.NewProcessManager())
	status, err := file.Read()
	if err != nil {
		return fmt.Errorf("failed to read status: %w", err)
	}
	alive, err := file.IsAlive()
	if err != nil {
		return fmt.Errorf("failed to check process: %w", err)
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(statusReport{Running: alive, Status: status})
	}

	fmt.Println("\n=== wasp Status ===")
	if status == nil {
		fmt.Println("Status: NOT RUNNING")
		fmt.Println("\nRun 'wasp run' to start the watch.")
		return nil
	}
	if alive {
		fmt.Printf("Status: RUNNING (%s mode, pid %d)\n", status.Mode, status.PID)
	} else {
		fmt.Printf("Status: STOPPED (pid %d exited without cleaning up)\n", status.PID)
	}

	power := "asleep"
	if status.Awake {
		power = "awake"
	}
	fmt.Printf("Session: %s\n", status.SessionID)
	fmt.Printf("Active app: %s (%s)\n", status.ActiveApp, power)
	fmt.Printf("Quick ring: %s\n", strings.Join(status.QuickRing, ", "))
	fmt.Printf("Launcher: %s\n", strings.Join(status.LauncherRing, ", "))
	if status.TickPeriodMs > 0 {
		fmt.Printf("Tick period: %dms\n", status.TickPeriodMs)
	}
	fmt.Printf("Brightness: %d\n", status.Brightness)
	fmt.Printf("Notifications: %d\n", status.Notifications)
	fmt.Printf("Last update: %s ago\n", time.Since(status.UpdatedAt).Round(time.Second))
	fmt.Println("===================")
	return nil
}
