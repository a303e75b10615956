package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/eliteGoblin/wasp/internal/domain"
	"github.com/eliteGoblin/wasp/internal/gadgetbridge"
	"github.com/eliteGoblin/wasp/internal/infra"
	"github.com/eliteGoblin/wasp/internal/system"
)

var sendCmd = &cobra.Command{
	Use:   "send 'GB({...})'",
	Short: "Decode a phone command and show its effect",
	Long: `Applies one phone command to a fresh, offline watch and prints the
resulting notifications, weather, music and vibration state as JSON.
To send a command to a running watch, write it to its stdin instead.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSend,
}

type sendResult struct {
	Command       string                `json:"command"`
	Notifications []domain.Notification `json:"notifications"`
	Weather       map[string]string     `json:"weather,omitempty"`
	Music         map[string]string     `json:"music,omitempty"`
	MusicState    domain.MusicState     `json:"music_state"`
	Vibrating     bool                  `json:"vibrating"`
	Pulses        int                   `json:"pulses"`
}

func runSend(cmd *cobra.Command, args []string) error {
	line := strings.Join(args, " ")
	parsed, err := gadgetbridge.Parse(line)
	if err != nil {
		return err
	}

	sim := infra.NewSimWatch(nil)
	m := system.NewManager(system.DefaultConfig(), sim.Watch(), zap.NewNop())
	if err := gadgetbridge.NewDecoder(m, zap.NewNop()).Apply(parsed); err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(sendResult{
		Command:       parsed.Type,
		Notifications: m.Notifications(),
		Weather:       m.WeatherInfo(),
		Music:         m.MusicInfo(),
		MusicState:    m.MusicState(),
		Vibrating:     sim.Vibrating(),
		Pulses:        sim.Pulses(),
	}); err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	return nil
}
